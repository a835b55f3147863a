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

func TestUserProductFeatures(t *testing.T) {
	features := NewGenerator(newTestDataset(t)).UserProductFeatures()
	require.Len(t, features.Pairs, 7)

	pair := features.Pairs[Pair{UserID: 1, ProductID: 100}]
	require.NotNil(t, pair)
	assert.Equal(t, int64(3), pair.Count)
	assert.InDelta(t, 4.0/3.0, pair.MeanCartPosition, 1e-12)
	assert.Equal(t, int64(3), pair.CoOccurredCount)

	pair = features.Pairs[Pair{UserID: 2, ProductID: 100}]
	require.NotNil(t, pair)
	assert.Equal(t, int64(1), pair.Count)
	assert.InDelta(t, 1.0, pair.MeanCartPosition, 1e-12)
	assert.Equal(t, int64(0), pair.CoOccurredCount)

	pair = features.Pairs[Pair{UserID: 1, ProductID: 200}]
	require.NotNil(t, pair)
	assert.Equal(t, int64(2), pair.Count)
	assert.InDelta(t, 1.5, pair.MeanCartPosition, 1e-12)
	assert.Equal(t, int64(2), pair.CoOccurredCount)

	// a pair that never co-occurred in the history is absent
	assert.Nil(t, features.Pairs[Pair{UserID: 2, ProductID: 400}])
}

func TestTimeFeatures(t *testing.T) {
	features := NewGenerator(newTestDataset(t)).TimeFeatures()
	assert.Equal(t, [7]int64{1, 1, 3, 1, 0, 0, 0}, features.DOWCounts)
	assert.Equal(t, int64(2), features.HourCounts[9])
	assert.Equal(t, int64(1), features.HourCounts[10])
	assert.Equal(t, int64(1), features.HourCounts[11])
	assert.Equal(t, int64(1), features.HourCounts[14])
	assert.Equal(t, int64(1), features.HourCounts[20])
	assert.Equal(t, int64(0), features.HourCounts[0])
}
