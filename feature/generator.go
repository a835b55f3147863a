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

// Package feature derives the behavioral feature table for next-basket
// reorder prediction. Four aggregators read the immutable base relations at
// the user, product, (user, product) and time granularities; the assembler
// joins their outputs back onto the (order, product) grain.
package feature

import (
	"context"

	"github.com/juju/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gorse-io/basket/base/log"
	"github.com/gorse-io/basket/dataset"
)

// Identifier and label columns of the assembled table. Everything else is
// numeric feature input for the downstream model layer.
const (
	ColOrderID   = "order_id"
	ColUserID    = "user_id"
	ColProductID = "product_id"
	ColReordered = "reordered"
)

// Generator runs the feature pipeline over one dataset. The base relations
// are supplied explicitly on construction and never through package state.
type Generator struct {
	data *dataset.Dataset
}

// NewGenerator creates a feature generator over a dataset.
func NewGenerator(data *dataset.Dataset) *Generator {
	return &Generator{data: data}
}

// aggregates bundles the outputs of the four aggregators for assembly.
type aggregates struct {
	user    *UserFeatures
	product *ProductFeatures
	pair    *UserProductFeatures
	time    *TimeFeatures
}

// aggregate runs the four aggregators concurrently. They only read the base
// relations and have no ordering dependency on each other.
func (g *Generator) aggregate(ctx context.Context) (*aggregates, error) {
	agg := &aggregates{}
	var group errgroup.Group
	group.Go(func() error {
		agg.user = g.UserFeatures()
		return nil
	})
	group.Go(func() error {
		agg.product = g.ProductFeatures()
		return nil
	})
	group.Go(func() error {
		agg.pair = g.UserProductFeatures()
		return nil
	})
	group.Go(func() error {
		agg.time = g.TimeFeatures()
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, errors.Trace(err)
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Trace(err)
	}
	return agg, nil
}

// Generate runs the full pipeline and returns the training table: one row
// per (order, product) line with the reordered label and every feature
// column cast to float.
func (g *Generator) Generate(ctx context.Context) (*Frame, error) {
	agg, err := g.aggregate(ctx)
	if err != nil {
		return nil, errors.Trace(err)
	}
	frame, err := g.assemble(agg)
	if err != nil {
		return nil, errors.Trace(err)
	}
	log.Logger().Info("assembled feature table",
		zap.Int("n_rows", frame.NumRows()),
		zap.Int("n_columns", frame.NumColumns()))
	return frame, nil
}

func (g *Generator) assemble(agg *aggregates) (*Frame, error) {
	lines := g.data.Lines()
	var (
		orderIds, userIds, productIds, reordered    IntBuilder
		orderNumbers, dows, hours, cartPositions    IntBuilder
		daysSincePrior, timeSinceLast               FloatBuilder
		frequencyOfReorder, maxHourFrequency        IntBuilder
		maxBasket, minBasket                        IntBuilder
		meanBasket                                  FloatBuilder
		containsDietary, noReorderedItems           IntBuilder
		productCount, oneShotUsers, coOccurred      IntBuilder
		productMeanPosition, coPerOrderMean         FloatBuilder
		coPerOrderMin, coPerOrderMax                IntBuilder
		totalStreaks, minStreak, maxStreak          IntBuilder
		meanStreak, prob2, prob3, prob5, probReord  FloatBuilder
		aisles, departments                         IntBuilder
		dowCounts                                   [7]IntBuilder
		pairCount, pairCoOccurred                   IntBuilder
		pairMeanPosition                            FloatBuilder
		ordersPerDow, ordersPerHour                 IntBuilder
	)
	for _, line := range lines {
		order, exist := g.data.GetOrder(line.OrderID)
		if !exist {
			return nil, errors.Errorf("assemble: line references unknown order %d", line.OrderID)
		}
		userStats := agg.user.Users[order.UserID]
		orderStats := agg.user.Orders[order.OrderID]
		productStats := agg.product.Products[line.ProductID]
		pairStats := agg.pair.Pairs[Pair{UserID: order.UserID, ProductID: line.ProductID}]
		if userStats == nil || orderStats == nil || productStats == nil || pairStats == nil {
			return nil, errors.Errorf("assemble: aggregate missing for order %d product %d", order.OrderID, line.ProductID)
		}
		// identifiers and label
		orderIds.Append(int64(order.OrderID))
		userIds.Append(int64(order.UserID))
		productIds.Append(int64(line.ProductID))
		reordered.Append(int64(boolToInt(line.Reordered)))
		// order passthrough
		orderNumbers.Append(int64(order.OrderNumber))
		dows.Append(int64(order.DOW))
		hours.Append(int64(order.HourOfDay))
		cartPositions.Append(int64(line.CartPosition))
		daysSincePrior.Append(order.DaysSincePrior)
		// user grain
		frequencyOfReorder.Append(userStats.ReorderFrequency)
		maxHourFrequency.Append(userStats.MaxHourFrequency)
		maxBasket.Append(userStats.MaxBasket)
		minBasket.Append(userStats.MinBasket)
		meanBasket.Append(userStats.MeanBasket)
		// order grain
		timeSinceLast.Append(orderStats.HoursSincePrior)
		containsDietary.Append(int64(boolToInt(orderStats.ContainsDietary)))
		noReorderedItems.Append(int64(boolToInt(orderStats.NoReorderedItems)))
		// product grain
		productCount.Append(productStats.PurchaseCount)
		productMeanPosition.Append(productStats.MeanCartPosition)
		oneShotUsers.Append(productStats.OneShotUserCount)
		coOccurred.Append(productStats.CoOccurredCount)
		coPerOrderMean.Append(productStats.CoPerOrderMean)
		coPerOrderMin.Append(productStats.CoPerOrderMin)
		coPerOrderMax.Append(productStats.CoPerOrderMax)
		totalStreaks.Append(productStats.StreakCount)
		meanStreak.Append(productStats.StreakMean)
		minStreak.Append(productStats.StreakMin)
		maxStreak.Append(productStats.StreakMax)
		prob2.Append(productStats.ProbReordered2)
		prob3.Append(productStats.ProbReordered3)
		prob5.Append(productStats.ProbReordered5)
		probReord.Append(productStats.ReorderProbability)
		for d := 0; d < 7; d++ {
			dowCounts[d].Append(productStats.DOWCounts[d])
		}
		// catalog attributes, null for products missing from the catalog
		if product, exist := g.data.GetProduct(line.ProductID); exist {
			aisles.Append(int64(product.AisleID))
			departments.Append(int64(product.DepartmentID))
		} else {
			aisles.AppendNull()
			departments.AppendNull()
		}
		// (user, product) grain
		pairCount.Append(pairStats.Count)
		pairMeanPosition.Append(pairStats.MeanCartPosition)
		pairCoOccurred.Append(pairStats.CoOccurredCount)
		// time grain
		ordersPerDow.Append(agg.time.DOWCounts[order.DOW])
		ordersPerHour.Append(agg.time.HourCounts[order.HourOfDay])
	}

	frame := NewFrame()
	frame.MustAdd(ColOrderID, orderIds.Series())
	frame.MustAdd(ColUserID, userIds.Series())
	frame.MustAdd(ColProductID, productIds.Series())
	frame.MustAdd(ColReordered, reordered.Series())
	frame.MustAdd("order_number", orderNumbers.Series())
	frame.MustAdd("order_dow", dows.Series())
	frame.MustAdd("order_hour_of_day", hours.Series())
	frame.MustAdd("add_to_cart_order", cartPositions.Series())
	frame.MustAdd("days_since_prior_order", daysSincePrior.Series())
	frame.MustAdd("frequency_of_reorder", frequencyOfReorder.Series())
	frame.MustAdd("max_hour_frequency", maxHourFrequency.Series())
	frame.MustAdd("max_count_of_products", maxBasket.Series())
	frame.MustAdd("min_count_of_products", minBasket.Series())
	frame.MustAdd("mean_count_of_products", meanBasket.Series())
	frame.MustAdd("time_since_last_order", timeSinceLast.Series())
	frame.MustAdd("contains_dietary_product", containsDietary.Series())
	frame.MustAdd("no_reordered_items", noReorderedItems.Series())
	frame.MustAdd("product_count", productCount.Series())
	frame.MustAdd("product_mean_of_position", productMeanPosition.Series())
	frame.MustAdd("one_shot_user_count", oneShotUsers.Series())
	frame.MustAdd("co_occurred_count", coOccurred.Series())
	frame.MustAdd("mean_co_occurred_per_order", coPerOrderMean.Series())
	frame.MustAdd("min_co_occurred_per_order", coPerOrderMin.Series())
	frame.MustAdd("max_co_occurred_per_order", coPerOrderMax.Series())
	frame.MustAdd("total_streaks", totalStreaks.Series())
	frame.MustAdd("mean_streak_length", meanStreak.Series())
	frame.MustAdd("min_streak_length", minStreak.Series())
	frame.MustAdd("max_streak_length", maxStreak.Series())
	frame.MustAdd("prob_of_reordered_2", prob2.Series())
	frame.MustAdd("prob_of_reordered_3", prob3.Series())
	frame.MustAdd("prob_of_reordered_5", prob5.Series())
	for d := 0; d < 7; d++ {
		frame.MustAdd(dowColumn(d), dowCounts[d].Series())
	}
	frame.MustAdd("prob_of_being_reordered", probReord.Series())
	frame.MustAdd("aisle_id", aisles.Series())
	frame.MustAdd("department_id", departments.Series())
	frame.MustAdd("user_product_count", pairCount.Series())
	frame.MustAdd("user_product_mean_position", pairMeanPosition.Series())
	frame.MustAdd("user_product_co_occurred", pairCoOccurred.Series())
	frame.MustAdd("orders_per_dow", ordersPerDow.Series())
	frame.MustAdd("orders_per_hour", ordersPerHour.Series())

	// every join above is many-to-one onto unique-keyed aggregates, so the
	// assembled grain must match the base grain exactly
	if frame.NumRows() != len(lines) {
		return nil, &CardinalityError{Stage: "assemble", Expected: len(lines), Actual: frame.NumRows()}
	}
	return frame.CastNumeric(ColOrderID, ColUserID, ColProductID, ColReordered), nil
}

func dowColumn(d int) string {
	return "dow_" + string(rune('0'+d)) + "_count"
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
