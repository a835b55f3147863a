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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeries(t *testing.T) {
	var ints IntBuilder
	ints.Append(1)
	ints.AppendNull()
	ints.Append(3)
	s := ints.Series()
	assert.Equal(t, Int, s.Kind())
	assert.Equal(t, 3, s.Len())
	assert.False(t, s.IsNull(0))
	assert.True(t, s.IsNull(1))
	value, ok := s.Int(0)
	assert.True(t, ok)
	assert.Equal(t, int64(1), value)
	_, ok = s.Int(1)
	assert.False(t, ok)
	// nulls convert to NaN, never zero
	assert.True(t, math.IsNaN(s.Float(1)))
	assert.Equal(t, 3.0, s.Float(2))

	var floatBuilder FloatBuilder
	floatBuilder.Append(0)
	floatBuilder.AppendNull()
	f := floatBuilder.Series()
	assert.False(t, f.IsNull(0))
	assert.True(t, f.IsNull(1))
}

func TestFrame_Add(t *testing.T) {
	frame := NewFrame()
	require.NoError(t, frame.Add("a", NewIntSeries([]int64{1, 2})))
	assert.Error(t, frame.Add("a", NewIntSeries([]int64{3, 4})))
	assert.Error(t, frame.Add("b", NewIntSeries([]int64{1})))
	require.NoError(t, frame.Add("b", NewFloatSeries([]float64{1, 2})))
	assert.Equal(t, []string{"a", "b"}, frame.Names())
	assert.Equal(t, 2, frame.NumRows())
	assert.Equal(t, 2, frame.NumColumns())
	assert.True(t, frame.HasColumn("a"))
	assert.False(t, frame.HasColumn("c"))
}

func TestFrame_CastNumeric(t *testing.T) {
	frame := NewFrame()
	frame.MustAdd("id", NewIntSeries([]int64{1, 2}))
	frame.MustAdd("count", NewIntSeries([]int64{10, 20}))
	frame.MustAdd("ratio", NewFloatSeries([]float64{0.5, math.NaN()}))

	cast := frame.CastNumeric("id")
	id, _ := cast.Column("id")
	assert.Equal(t, Int, id.Kind())
	count, _ := cast.Column("count")
	assert.Equal(t, Float, count.Kind())
	assert.Equal(t, 10.0, count.Float(0))
	ratio, _ := cast.Column("ratio")
	assert.True(t, ratio.IsNull(1))

	// casting twice yields the same result as casting once
	again := cast.CastNumeric("id")
	assert.Equal(t, cast.Names(), again.Names())
	for _, name := range cast.Names() {
		before, _ := cast.Column(name)
		after, _ := again.Column(name)
		assert.Equal(t, before.Kind(), after.Kind())
		for i := 0; i < before.Len(); i++ {
			if before.IsNull(i) {
				assert.True(t, after.IsNull(i))
			} else {
				assert.Equal(t, before.Float(i), after.Float(i))
			}
		}
	}
}

func TestFrame_Subset(t *testing.T) {
	frame := NewFrame()
	var ints IntBuilder
	ints.Append(1)
	ints.AppendNull()
	ints.Append(3)
	frame.MustAdd("a", ints.Series())
	frame.MustAdd("b", NewFloatSeries([]float64{0.1, 0.2, 0.3}))

	subset := frame.Subset([]int{2, 1})
	assert.Equal(t, 2, subset.NumRows())
	a, _ := subset.Column("a")
	value, ok := a.Int(0)
	assert.True(t, ok)
	assert.Equal(t, int64(3), value)
	assert.True(t, a.IsNull(1))
	b, _ := subset.Column("b")
	assert.Equal(t, 0.2, b.Float(1))
}

func TestFrame_WriteCSV(t *testing.T) {
	frame := NewFrame()
	frame.MustAdd("id", NewIntSeries([]int64{1, 2}))
	frame.MustAdd("value", NewFloatSeries([]float64{0.5, math.NaN()}))
	var builder strings.Builder
	require.NoError(t, frame.WriteCSV(&builder))
	assert.Equal(t, "id,value\n1,0.5\n2,\n", builder.String())
}
