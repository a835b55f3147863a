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
	mapset "github.com/deckarep/golang-set/v2"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ProductStats are per-product statistics over the whole purchase history.
type ProductStats struct {
	// PurchaseCount is the number of order lines for the product.
	PurchaseCount int64
	// MeanCartPosition is the mean add_to_cart_order.
	MeanCartPosition float64
	// OneShotUserCount is the number of distinct users that purchased the
	// product at least once as the only item of an order.
	OneShotUserCount int64
	// CoOccurredCount is the total number of (other product, same order)
	// pairs across the history.
	CoOccurredCount int64
	// Per-order co-occurrence statistics: the co-occurring item count is
	// first aggregated per order, then rolled up to the product.
	CoPerOrderMean float64
	CoPerOrderMin  int64
	CoPerOrderMax  int64
	// Purchase streak statistics. A streak is a maximal run of consecutive
	// order numbers of one user in which the product was purchased every time.
	StreakCount int64
	StreakMean  float64
	StreakMin   int64
	StreakMax   int64
	// Fraction of streaks with length >= N.
	ProbReordered2 float64
	ProbReordered3 float64
	ProbReordered5 float64
	// Purchase counts by day of week.
	DOWCounts [7]int64
	// ReorderProbability divides the product's total purchase count by the
	// dataset-global order count. The denominator is deliberately global, not
	// per product: downstream training was tuned against this scale.
	ReorderProbability float64
}

// ProductFeatures is the output of the product aggregator, keyed by product id.
type ProductFeatures struct {
	Products map[int32]*ProductStats
}

// ProductFeatures derives per-product statistics from the order, order line
// and product relations.
func (g *Generator) ProductFeatures() *ProductFeatures {
	data := g.data
	products := make(map[int32]*ProductStats)
	get := func(productId int32) *ProductStats {
		if stats, exist := products[productId]; exist {
			return stats
		}
		stats := &ProductStats{}
		products[productId] = stats
		return stats
	}

	// single pass over lines: purchase count, cart position, day of week
	positionSums := make(map[int32]float64)
	for _, line := range data.Lines() {
		stats := get(line.ProductID)
		stats.PurchaseCount++
		positionSums[line.ProductID] += float64(line.CartPosition)
		if order, exist := data.GetOrder(line.OrderID); exist {
			stats.DOWCounts[order.DOW]++
		}
	}
	for productId, stats := range products {
		stats.MeanCartPosition = positionSums[productId] / float64(stats.PurchaseCount)
	}

	// self-join on order id with self-pairs excluded, expressed through the
	// basket size: a line in an order of n products co-occurs with n-1 others
	oneShotUsers := make(map[int32]mapset.Set[int32])
	coPerOrder := make(map[int32][]float64)
	for _, order := range data.Orders() {
		lines := data.LinesOfOrder(order.OrderID)
		for _, line := range lines {
			stats := get(line.ProductID)
			others := int64(len(lines) - 1)
			stats.CoOccurredCount += others
			coPerOrder[line.ProductID] = append(coPerOrder[line.ProductID], float64(others))
		}
		if len(lines) == 1 {
			productId := lines[0].ProductID
			if _, exist := oneShotUsers[productId]; !exist {
				oneShotUsers[productId] = mapset.NewThreadUnsafeSet[int32]()
			}
			oneShotUsers[productId].Add(order.UserID)
		}
	}
	for productId, counts := range coPerOrder {
		stats := products[productId]
		stats.CoPerOrderMean = stat.Mean(counts, nil)
		stats.CoPerOrderMin = int64(floats.Min(counts))
		stats.CoPerOrderMax = int64(floats.Max(counts))
	}
	for productId, users := range oneShotUsers {
		products[productId].OneShotUserCount = int64(users.Cardinality())
	}

	// purchase streaks per (user, product)
	streaks := make(map[int32][]float64)
	for _, userId := range data.UserIds() {
		// order numbers per product, already sorted because the user's orders
		// are sorted by order number
		sequences := make(map[int32][]int32)
		for _, order := range data.OrdersOfUser(userId) {
			for _, line := range data.LinesOfOrder(order.OrderID) {
				sequences[line.ProductID] = append(sequences[line.ProductID], order.OrderNumber)
			}
		}
		for productId, numbers := range sequences {
			for _, length := range streakLengths(numbers) {
				streaks[productId] = append(streaks[productId], float64(length))
			}
		}
	}
	for productId, lengths := range streaks {
		stats := products[productId]
		stats.StreakCount = int64(len(lengths))
		stats.StreakMean = stat.Mean(lengths, nil)
		stats.StreakMin = int64(floats.Min(lengths))
		stats.StreakMax = int64(floats.Max(lengths))
		stats.ProbReordered2 = fractionAtLeast(lengths, 2)
		stats.ProbReordered3 = fractionAtLeast(lengths, 3)
		stats.ProbReordered5 = fractionAtLeast(lengths, 5)
	}

	// the denominator is the global order count, constant across products
	totalOrders := float64(data.CountOrders())
	for _, stats := range products {
		stats.ReorderProbability = float64(stats.PurchaseCount) / totalOrders
	}
	return &ProductFeatures{Products: products}
}

// streakLengths partitions a sorted list of order numbers into maximal runs
// of consecutive integers and returns the run lengths. The lengths sum to
// len(numbers).
func streakLengths(numbers []int32) []int64 {
	if len(numbers) == 0 {
		return nil
	}
	lengths := make([]int64, 0, 1)
	run := int64(1)
	for i := 1; i < len(numbers); i++ {
		if numbers[i] == numbers[i-1]+1 {
			run++
		} else {
			lengths = append(lengths, run)
			run = 1
		}
	}
	return append(lengths, run)
}

func fractionAtLeast(lengths []float64, n float64) float64 {
	hits := 0
	for _, length := range lengths {
		if length >= n {
			hits++
		}
	}
	return float64(hits) / float64(len(lengths))
}
