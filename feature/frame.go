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
	"encoding/csv"
	"io"
	"math"
	"strconv"

	"github.com/juju/errors"
)

// Kind is the type of a column.
type Kind uint8

const (
	// Int is a 64-bit integer column with an optional validity mask.
	Int Kind = iota
	// Float is a 64-bit float column. Nulls are NaN.
	Float
)

// Series is a single immutable column. Build one with NewIntSeries,
// NewFloatSeries or a Builder.
type Series struct {
	kind   Kind
	ints   []int64
	valid  []bool
	floats []float64
}

// NewIntSeries creates an integer column without nulls.
func NewIntSeries(values []int64) *Series {
	return &Series{kind: Int, ints: values}
}

// NewFloatSeries creates a float column. NaN values are nulls.
func NewFloatSeries(values []float64) *Series {
	return &Series{kind: Float, floats: values}
}

// Kind returns the column type.
func (s *Series) Kind() Kind {
	return s.kind
}

// Len returns the number of rows.
func (s *Series) Len() int {
	if s.kind == Int {
		return len(s.ints)
	}
	return len(s.floats)
}

// IsNull reports whether the value at i is null.
func (s *Series) IsNull(i int) bool {
	if s.kind == Int {
		return s.valid != nil && !s.valid[i]
	}
	return math.IsNaN(s.floats[i])
}

// Float returns the value at i as float64. Nulls are returned as NaN.
func (s *Series) Float(i int) float64 {
	if s.kind == Int {
		if s.valid != nil && !s.valid[i] {
			return math.NaN()
		}
		return float64(s.ints[i])
	}
	return s.floats[i]
}

// Int returns the integer value at i. The second return value is false for
// nulls and for float columns.
func (s *Series) Int(i int) (int64, bool) {
	if s.kind != Int || (s.valid != nil && !s.valid[i]) {
		return 0, false
	}
	return s.ints[i], true
}

// toFloat converts the column to a float column. Converting an already
// floating column returns the column itself, so the conversion is idempotent.
func (s *Series) toFloat() *Series {
	if s.kind == Float {
		return s
	}
	values := make([]float64, len(s.ints))
	for i := range s.ints {
		values[i] = s.Float(i)
	}
	return NewFloatSeries(values)
}

// subset returns a new column keeping only the given row indices.
func (s *Series) subset(indices []int) *Series {
	if s.kind == Int {
		out := &Series{kind: Int, ints: make([]int64, len(indices))}
		if s.valid != nil {
			out.valid = make([]bool, len(indices))
		}
		for i, index := range indices {
			out.ints[i] = s.ints[index]
			if s.valid != nil {
				out.valid[i] = s.valid[index]
			}
		}
		return out
	}
	out := &Series{kind: Float, floats: make([]float64, len(indices))}
	for i, index := range indices {
		out.floats[i] = s.floats[index]
	}
	return out
}

// IntBuilder accumulates an integer column row by row.
type IntBuilder struct {
	values []int64
	valid  []bool
	nulls  bool
}

func (b *IntBuilder) Append(value int64) {
	b.values = append(b.values, value)
	b.valid = append(b.valid, true)
}

func (b *IntBuilder) AppendNull() {
	b.values = append(b.values, 0)
	b.valid = append(b.valid, false)
	b.nulls = true
}

func (b *IntBuilder) Series() *Series {
	s := &Series{kind: Int, ints: b.values}
	if b.nulls {
		s.valid = b.valid
	}
	return s
}

// FloatBuilder accumulates a float column row by row.
type FloatBuilder struct {
	values []float64
}

func (b *FloatBuilder) Append(value float64) {
	b.values = append(b.values, value)
}

func (b *FloatBuilder) AppendNull() {
	b.values = append(b.values, math.NaN())
}

func (b *FloatBuilder) Series() *Series {
	return NewFloatSeries(b.values)
}

// Frame is a named collection of equal-length columns with a stable,
// insertion-ordered column sequence.
type Frame struct {
	names   []string
	columns map[string]*Series
}

// NewFrame creates an empty frame.
func NewFrame() *Frame {
	return &Frame{columns: make(map[string]*Series)}
}

// Add appends a column. Duplicate names and length mismatches are errors.
func (f *Frame) Add(name string, s *Series) error {
	if _, exist := f.columns[name]; exist {
		return errors.AlreadyExistsf("column %s", name)
	}
	if len(f.names) > 0 && s.Len() != f.NumRows() {
		return errors.NotValidf("column %s with %d rows in a frame of %d rows", name, s.Len(), f.NumRows())
	}
	f.names = append(f.names, name)
	f.columns[name] = s
	return nil
}

// MustAdd is Add for columns built in-process where duplicates are bugs.
func (f *Frame) MustAdd(name string, s *Series) {
	if err := f.Add(name, s); err != nil {
		panic(err)
	}
}

// Names returns the column names in insertion order.
func (f *Frame) Names() []string {
	return f.names
}

// HasColumn reports whether a column exists.
func (f *Frame) HasColumn(name string) bool {
	_, exist := f.columns[name]
	return exist
}

// Column returns a column by name.
func (f *Frame) Column(name string) (*Series, bool) {
	s, exist := f.columns[name]
	return s, exist
}

// NumRows returns the number of rows.
func (f *Frame) NumRows() int {
	if len(f.names) == 0 {
		return 0
	}
	return f.columns[f.names[0]].Len()
}

// NumColumns returns the number of columns.
func (f *Frame) NumColumns() int {
	return len(f.names)
}

// CastNumeric returns a frame in which every integer column not listed in
// exclude is converted to float. Running the cast twice yields the same
// result as running it once.
func (f *Frame) CastNumeric(exclude ...string) *Frame {
	excluded := make(map[string]struct{}, len(exclude))
	for _, name := range exclude {
		excluded[name] = struct{}{}
	}
	out := NewFrame()
	for _, name := range f.names {
		s := f.columns[name]
		if _, skip := excluded[name]; !skip {
			s = s.toFloat()
		}
		out.MustAdd(name, s)
	}
	return out
}

// Subset returns a frame keeping only the given row indices.
func (f *Frame) Subset(indices []int) *Frame {
	out := NewFrame()
	for _, name := range f.names {
		out.MustAdd(name, f.columns[name].subset(indices))
	}
	return out
}

// WriteCSV writes the frame with a header row. Nulls are written as empty
// cells so that they stay distinguishable from zeros.
func (f *Frame) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(f.names); err != nil {
		return errors.Trace(err)
	}
	row := make([]string, len(f.names))
	for i := 0; i < f.NumRows(); i++ {
		for j, name := range f.names {
			s := f.columns[name]
			switch {
			case s.IsNull(i):
				row[j] = ""
			case s.Kind() == Int:
				value, _ := s.Int(i)
				row[j] = strconv.FormatInt(value, 10)
			default:
				row[j] = strconv.FormatFloat(s.Float(i), 'g', -1, 64)
			}
		}
		if err := writer.Write(row); err != nil {
			return errors.Trace(err)
		}
	}
	writer.Flush()
	return errors.Trace(writer.Error())
}
