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
	"context"
	"math/rand"

	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/gorse-io/basket/base/log"
)

// LogisticRegression is a binomial GLM fitted by stochastic gradient descent.
type LogisticRegression struct {
	params  Params
	weights []float64
	bias    float64

	// hyperparameters
	lr      float64
	reg     float64
	nEpochs int
	seed    int64
}

// NewLogisticRegression creates a logistic regression classifier. Missing
// parameters are filled from LogisticDefaults.
func NewLogisticRegression(params Params) *LogisticRegression {
	merged := params.Merge(LogisticDefaults)
	return &LogisticRegression{
		params:  merged,
		lr:      merged.GetFloat64(Lr, 0.05),
		reg:     merged.GetFloat64(Reg, 1e-4),
		nEpochs: merged.GetInt(NEpochs, 20),
		seed:    merged.GetInt64(RandomState, 0),
	}
}

// Params returns the effective parameters after applying defaults.
func (lr *LogisticRegression) Params() Params {
	return lr.params
}

// Fit trains the model. Rows are visited in shuffled order each epoch.
func (lr *LogisticRegression) Fit(ctx context.Context, x [][]float64, y []float64) error {
	if len(x) == 0 {
		return errors.NotValidf("empty training set")
	}
	lr.weights = make([]float64, len(x[0]))
	lr.bias = 0
	rng := rand.New(rand.NewSource(lr.seed))
	for epoch := 0; epoch < lr.nEpochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return errors.Trace(err)
		}
		loss := 0.0
		for _, i := range rng.Perm(len(x)) {
			row := imputed(x[i])
			p := lr.Predict(row)
			gradient := p - y[i]
			for j, value := range row {
				lr.weights[j] -= lr.lr * (gradient*value + lr.reg*lr.weights[j])
			}
			lr.bias -= lr.lr * gradient
			loss += LogLoss([]float64{p}, []float64{y[i]})
		}
		log.Logger().Debug("logistic regression epoch",
			zap.Int("epoch", epoch),
			zap.Float64("loss", loss/float64(len(x))))
	}
	return nil
}

// Predict returns the predicted reorder probability of one row.
func (lr *LogisticRegression) Predict(x []float64) float64 {
	x = imputed(x)
	score := lr.bias
	for j, value := range x {
		score += lr.weights[j] * value
	}
	return sigmoid(score)
}
