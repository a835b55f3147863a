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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductFeatures(t *testing.T) {
	features := NewGenerator(newTestDataset(t)).ProductFeatures()
	require.Len(t, features.Products, 4)

	bananas := features.Products[100]
	assert.Equal(t, int64(4), bananas.PurchaseCount)
	assert.InDelta(t, 1.25, bananas.MeanCartPosition, 1e-12)
	// only user 2 bought bananas as the single item of an order
	assert.Equal(t, int64(1), bananas.OneShotUserCount)
	assert.Equal(t, int64(3), bananas.CoOccurredCount)
	assert.InDelta(t, 0.75, bananas.CoPerOrderMean, 1e-12)
	assert.Equal(t, int64(0), bananas.CoPerOrderMin)
	assert.Equal(t, int64(1), bananas.CoPerOrderMax)
	// purchases by day of week
	assert.Equal(t, [7]int64{1, 0, 2, 1, 0, 0, 0}, bananas.DOWCounts)
	assert.InDelta(t, 4.0/6.0, bananas.ReorderProbability, 1e-12)

	water := features.Products[400]
	assert.Equal(t, int64(1), water.PurchaseCount)
	assert.Equal(t, int64(1), water.OneShotUserCount)
	assert.Equal(t, int64(0), water.CoOccurredCount)

	milk := features.Products[200]
	assert.Equal(t, int64(0), milk.OneShotUserCount)
	assert.InDelta(t, 4.0/3.0, milk.MeanCartPosition, 1e-12)
}

func TestProductFeatures_Streaks(t *testing.T) {
	features := NewGenerator(newTestDataset(t)).ProductFeatures()

	// user 1 bought bananas in orders 1, 2, 3 and user 2 in order 1
	bananas := features.Products[100]
	assert.Equal(t, int64(2), bananas.StreakCount)
	assert.InDelta(t, 2.0, bananas.StreakMean, 1e-12)
	assert.Equal(t, int64(1), bananas.StreakMin)
	assert.Equal(t, int64(3), bananas.StreakMax)
	assert.InDelta(t, 0.5, bananas.ProbReordered2, 1e-12)
	assert.InDelta(t, 0.5, bananas.ProbReordered3, 1e-12)
	assert.InDelta(t, 0.0, bananas.ProbReordered5, 1e-12)

	// milk was bought in orders 1 and 3 by user 1, never consecutively
	milk := features.Products[200]
	assert.Equal(t, int64(3), milk.StreakCount)
	assert.InDelta(t, 1.0, milk.StreakMean, 1e-12)
	assert.InDelta(t, 0.0, milk.ProbReordered2, 1e-12)
}

func TestProductFeatures_ProbabilityMonotonicity(t *testing.T) {
	features := NewGenerator(newTestDataset(t)).ProductFeatures()
	for productId, stats := range features.Products {
		assert.LessOrEqual(t, stats.ProbReordered5, stats.ProbReordered3, "product %d", productId)
		assert.LessOrEqual(t, stats.ProbReordered3, stats.ProbReordered2, "product %d", productId)
	}
}

func TestProductFeatures_TwoOrderScenario(t *testing.T) {
	features := NewGenerator(newTwoOrderDataset(t)).ProductFeatures()
	milk := features.Products[100]
	assert.Equal(t, int64(2), milk.PurchaseCount)
	assert.InDelta(t, 1.0, milk.MeanCartPosition, 1e-12)
	// order numbers 1, 2 form a single streak of length 2
	assert.Equal(t, int64(1), milk.StreakCount)
	assert.Equal(t, int64(2), milk.StreakMax)
	assert.InDelta(t, 1.0, milk.ProbReordered2, 1e-12)
	assert.InDelta(t, 0.0, milk.ProbReordered3, 1e-12)
}

func TestStreakLengths(t *testing.T) {
	assert.Empty(t, streakLengths(nil))
	assert.Equal(t, []int64{1}, streakLengths([]int32{5}))
	assert.Equal(t, []int64{3}, streakLengths([]int32{1, 2, 3}))
	assert.Equal(t, []int64{2, 1, 3}, streakLengths([]int32{1, 2, 5, 8, 9, 10}))
}

func TestStreakLengths_PartitionLaw(t *testing.T) {
	// the partition into maximal runs covers every purchase exactly once
	cases := [][]int32{
		{1},
		{1, 2, 3, 4, 5},
		{2, 4, 6, 8},
		{1, 2, 4, 5, 6, 9, 11, 12},
	}
	for _, numbers := range cases {
		total := int64(0)
		for _, length := range streakLengths(numbers) {
			assert.GreaterOrEqual(t, length, int64(1))
			total += length
		}
		assert.Equal(t, int64(len(numbers)), total)
	}
}
