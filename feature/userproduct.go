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

// Pair identifies a (user, product) combination, the prediction unit.
type Pair struct {
	UserID    int32
	ProductID int32
}

// PairStats are per (user, product) statistics.
type PairStats struct {
	// Count is the number of the user's orders containing the product.
	Count int64
	// MeanCartPosition is the mean add_to_cart_order across those orders.
	MeanCartPosition float64
	// CoOccurredCount is the number of other products appearing alongside
	// this product across all of the user's orders containing it.
	CoOccurredCount int64
}

// UserProductFeatures is the output of the pair aggregator.
type UserProductFeatures struct {
	Pairs map[Pair]*PairStats
}

// UserProductFeatures derives per (user, product) statistics from the order
// and order line relations.
func (g *Generator) UserProductFeatures() *UserProductFeatures {
	data := g.data
	pairs := make(map[Pair]*PairStats)
	positionSums := make(map[Pair]float64)
	for _, order := range data.Orders() {
		lines := data.LinesOfOrder(order.OrderID)
		for _, line := range lines {
			key := Pair{UserID: order.UserID, ProductID: line.ProductID}
			stats, exist := pairs[key]
			if !exist {
				stats = &PairStats{}
				pairs[key] = stats
			}
			stats.Count++
			stats.CoOccurredCount += int64(len(lines) - 1)
			positionSums[key] += float64(line.CartPosition)
		}
	}
	for key, stats := range pairs {
		stats.MeanCartPosition = positionSums[key] / float64(stats.Count)
	}
	return &UserProductFeatures{Pairs: pairs}
}
