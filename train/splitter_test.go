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

package train

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorse-io/basket/feature"
)

func TestRatioSplit(t *testing.T) {
	frame := feature.NewFrame()
	values := make([]int64, 100)
	for i := range values {
		values[i] = int64(i)
	}
	frame.MustAdd("id", feature.NewIntSeries(values))

	trainSet, testSet := RatioSplit(frame, 0.2, 42)
	assert.Equal(t, 80, trainSet.NumRows())
	assert.Equal(t, 20, testSet.NumRows())
	assert.Equal(t, frame.Names(), trainSet.Names())
	assert.Equal(t, frame.Names(), testSet.Names())

	// the two splits partition the rows
	seen := make(map[int64]int)
	for _, split := range []*feature.Frame{trainSet, testSet} {
		column, exist := split.Column("id")
		require.True(t, exist)
		for i := 0; i < column.Len(); i++ {
			value, _ := column.Int(i)
			seen[value]++
		}
	}
	assert.Len(t, seen, 100)
	for _, count := range seen {
		assert.Equal(t, 1, count)
	}

	// the split is deterministic for a fixed seed
	trainAgain, _ := RatioSplit(frame, 0.2, 42)
	first, _ := trainSet.Column("id")
	second, _ := trainAgain.Column("id")
	for i := 0; i < first.Len(); i++ {
		a, _ := first.Int(i)
		b, _ := second.Int(i)
		assert.Equal(t, a, b)
	}
}
