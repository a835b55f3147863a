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

// Package train fits binary classifiers on the assembled feature table and
// evaluates them on a held-out split. It is a thin layer: the engineering
// lives in the feature pipeline, this package is glue over the classifiers
// and the experiment tracker.
package train

import (
	"context"
	"math"

	"github.com/juju/errors"

	"github.com/gorse-io/basket/feature"
)

// Classifier predicts the probability that a (user, product) row is
// reordered. Implementations impute missing features to zero: null handling
// on the assembled table is the model layer's responsibility.
type Classifier interface {
	Fit(ctx context.Context, x [][]float64, y []float64) error
	Predict(x []float64) float64
	Params() Params
}

// identifierColumns are excluded from the feature matrix together with the
// label.
var identifierColumns = []string{feature.ColOrderID, feature.ColUserID, feature.ColProductID}

// Matrix extracts the numeric feature matrix and the label vector from a
// feature table. The label vector is nil for unlabeled scoring tables.
func Matrix(frame *feature.Frame) (names []string, x [][]float64, y []float64, err error) {
	excluded := map[string]struct{}{feature.ColReordered: {}}
	for _, name := range identifierColumns {
		excluded[name] = struct{}{}
	}
	for _, name := range frame.Names() {
		if _, skip := excluded[name]; !skip {
			names = append(names, name)
		}
	}
	x = make([][]float64, frame.NumRows())
	for i := range x {
		x[i] = make([]float64, len(names))
	}
	for j, name := range names {
		column, _ := frame.Column(name)
		if column.Kind() != feature.Float {
			return nil, nil, nil, errors.NotValidf("feature column %s of kind %d", name, column.Kind())
		}
		for i := 0; i < column.Len(); i++ {
			x[i][j] = column.Float(i)
		}
	}
	if label, exist := frame.Column(feature.ColReordered); exist {
		y = make([]float64, frame.NumRows())
		for i := range y {
			y[i] = label.Float(i)
		}
	}
	return
}

// Predictions applies a fitted classifier to every row of a feature matrix.
func Predictions(model Classifier, x [][]float64) []float64 {
	predictions := make([]float64, len(x))
	for i, row := range x {
		predictions[i] = model.Predict(row)
	}
	return predictions
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// imputed replaces NaN features with zero without mutating the input row.
func imputed(row []float64) []float64 {
	clean := row
	copied := false
	for i, value := range row {
		if math.IsNaN(value) {
			if !copied {
				clean = make([]float64, len(row))
				copy(clean, row)
				copied = true
			}
			clean[i] = 0
		}
	}
	return clean
}
