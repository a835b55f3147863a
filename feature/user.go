// Copyright 2025 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package feature

import (
	"math"
	"strings"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/gorse-io/basket/dataset"
)

// dietaryKeywords are matched as substrings against lower-cased product names.
var dietaryKeywords = []string{"organic", "asian", "gluten free"}

// UserStats are per-user behavioral statistics.
type UserStats struct {
	// ReorderFrequency is the number of order lines across the user's history.
	ReorderFrequency int64
	// MaxHourFrequency is the order count of the user's most common
	// order_hour_of_day, not the hour itself.
	MaxHourFrequency int64
	// Basket size statistics over the user's orders.
	MaxBasket  int64
	MinBasket  int64
	MeanBasket float64
}

// OrderStats are order-grain attributes produced by the user aggregator. They
// are joined onto the assembled table by order id rather than rolled up to
// the user.
type OrderStats struct {
	// HoursSincePrior is days_since_prior_order*24 + order_hour_of_day -
	// previous order_hour_of_day. NaN for the user's first order.
	HoursSincePrior float64
	// ContainsDietary is set when any product name in the basket matches a
	// dietary keyword.
	ContainsDietary bool
	// NoReorderedItems is set when no line of the order has the reordered flag.
	NoReorderedItems bool
}

// UserFeatures is the output of the user aggregator, keyed by user id at the
// user grain and by order id at the order grain.
type UserFeatures struct {
	Users  map[int32]*UserStats
	Orders map[int32]*OrderStats
}

// UserFeatures derives per-user statistics and order-grain attributes from
// the order and order line relations.
func (g *Generator) UserFeatures() *UserFeatures {
	data := g.data
	features := &UserFeatures{
		Users:  make(map[int32]*UserStats, data.CountUsers()),
		Orders: make(map[int32]*OrderStats, data.CountOrders()),
	}
	for _, userId := range data.UserIds() {
		orders := data.OrdersOfUser(userId)
		stats := &UserStats{MinBasket: math.MaxInt64}
		// the user's most frequent visiting hour
		hourCounts := make(map[int8]int64)
		basketSizes := make([]float64, 0, len(orders))
		prevHour := int8(0)
		for i, order := range orders {
			lines := data.LinesOfOrder(order.OrderID)
			stats.ReorderFrequency += int64(len(lines))
			hourCounts[order.HourOfDay]++
			size := int64(len(lines))
			stats.MaxBasket = max(stats.MaxBasket, size)
			stats.MinBasket = min(stats.MinBasket, size)
			basketSizes = append(basketSizes, float64(size))
			// lag over the per-user order sequence: the first order has no
			// previous hour and must stay null, never zero
			hoursSincePrior := math.NaN()
			if i > 0 && !order.FirstOrder() {
				hoursSincePrior = order.DaysSincePrior*24 + float64(order.HourOfDay) - float64(prevHour)
			}
			prevHour = order.HourOfDay
			features.Orders[order.OrderID] = &OrderStats{
				HoursSincePrior:  hoursSincePrior,
				ContainsDietary:  containsDietary(data, lines),
				NoReorderedItems: !lo.ContainsBy(lines, func(line dataset.OrderLine) bool { return line.Reordered }),
			}
		}
		for _, count := range hourCounts {
			stats.MaxHourFrequency = max(stats.MaxHourFrequency, count)
		}
		if len(basketSizes) > 0 {
			stats.MeanBasket = stat.Mean(basketSizes, nil)
		} else {
			stats.MinBasket = 0
		}
		features.Users[userId] = stats
	}
	return features
}

func containsDietary(data *dataset.Dataset, lines []dataset.OrderLine) bool {
	for _, line := range lines {
		product, exist := data.GetProduct(line.ProductID)
		if !exist {
			continue
		}
		name := strings.ToLower(product.Name)
		for _, keyword := range dietaryKeywords {
			if strings.Contains(name, keyword) {
				return true
			}
		}
	}
	return false
}
