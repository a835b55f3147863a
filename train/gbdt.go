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
	"math"
	"sort"

	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/gorse-io/basket/base/log"
	"github.com/gorse-io/basket/base/parallel"
)

// histogramBins is the number of candidate thresholds per feature, in the
// manner of histogram-based tree growing.
const histogramBins = 32

// GBDT is a gradient boosted ensemble of depth-one regression trees fitted
// on the logistic loss.
type GBDT struct {
	params Params
	stumps []stump
	base   float64

	// hyperparameters
	lr      float64
	nRounds int
	jobs    int
}

// stump is a single split: rows with feature below the threshold receive the
// left value, the rest the right value.
type stump struct {
	feature   int
	threshold float64
	left      float64
	right     float64
}

// NewGBDT creates a gradient boosted trees classifier. Missing parameters
// are filled from GBDTDefaults.
func NewGBDT(params Params) *GBDT {
	merged := params.Merge(GBDTDefaults)
	return &GBDT{
		params:  merged,
		lr:      merged.GetFloat64(Lr, 0.1),
		nRounds: merged.GetInt(NRounds, 100),
		jobs:    parallel.NumJobs(),
	}
}

// Params returns the effective parameters after applying defaults.
func (gbdt *GBDT) Params() Params {
	return gbdt.params
}

// Fit trains the ensemble. Each round fits one stump to the negative
// gradient of the logistic loss.
func (gbdt *GBDT) Fit(ctx context.Context, x [][]float64, y []float64) error {
	if len(x) == 0 {
		return errors.NotValidf("empty training set")
	}
	nFeatures := len(x[0])
	// column-major copy with nulls imputed to zero
	columns := make([][]float64, nFeatures)
	for j := range columns {
		columns[j] = make([]float64, len(x))
	}
	for i, row := range x {
		clean := imputed(row)
		for j, value := range clean {
			columns[j][i] = value
		}
	}
	thresholds := make([][]float64, nFeatures)
	for j := range thresholds {
		thresholds[j] = candidateThresholds(columns[j])
	}
	// start from the prior log odds
	positive := 0.0
	for _, label := range y {
		positive += label
	}
	prior := math.Min(math.Max(positive/float64(len(y)), 1e-6), 1-1e-6)
	gbdt.base = math.Log(prior / (1 - prior))
	gbdt.stumps = gbdt.stumps[:0]

	scores := make([]float64, len(y))
	for i := range scores {
		scores[i] = gbdt.base
	}
	gradients := make([]float64, len(y))
	for round := 0; round < gbdt.nRounds; round++ {
		if err := ctx.Err(); err != nil {
			return errors.Trace(err)
		}
		for i := range gradients {
			gradients[i] = y[i] - sigmoid(scores[i])
		}
		best := gbdt.bestStump(columns, thresholds, gradients)
		gbdt.stumps = append(gbdt.stumps, best)
		for i := range scores {
			if columns[best.feature][i] < best.threshold {
				scores[i] += best.left
			} else {
				scores[i] += best.right
			}
		}
		if round%10 == 9 {
			predictions := make([]float64, len(scores))
			for i, score := range scores {
				predictions[i] = sigmoid(score)
			}
			log.Logger().Debug("boosting round",
				zap.Int("round", round),
				zap.Float64("logloss", LogLoss(predictions, y)))
		}
	}
	return nil
}

// bestStump searches all features in parallel for the split minimizing the
// squared error against the gradients.
func (gbdt *GBDT) bestStump(columns, thresholds [][]float64, gradients []float64) stump {
	total := parallel.ForSum(0, len(gradients), gbdt.jobs, func(i int) float64 {
		return gradients[i]
	})
	stumps := make([]stump, len(columns))
	errs := make([]float64, len(columns))
	_ = parallel.Parallel(len(columns), gbdt.jobs, func(_, j int) error {
		stumps[j], errs[j] = bestSplit(j, columns[j], thresholds[j], gradients, total)
		return nil
	})
	best := 0
	for j := 1; j < len(columns); j++ {
		if errs[j] < errs[best] {
			best = j
		}
	}
	out := stumps[best]
	out.left *= gbdt.lr
	out.right *= gbdt.lr
	return out
}

func bestSplit(feature int, column, thresholds, gradients []float64, total float64) (stump, float64) {
	n := float64(len(gradients))
	mean := total / n
	best := stump{feature: feature, threshold: math.Inf(-1), left: mean, right: mean}
	bestErr := math.Inf(1)
	for _, threshold := range thresholds {
		leftSum, leftCount := 0.0, 0.0
		for i, value := range column {
			if value < threshold {
				leftSum += gradients[i]
				leftCount++
			}
		}
		rightCount := n - leftCount
		if leftCount == 0 || rightCount == 0 {
			continue
		}
		left := leftSum / leftCount
		right := (total - leftSum) / rightCount
		// SSE decomposes to a constant minus the weighted squared means
		err := -(leftCount*left*left + rightCount*right*right)
		if err < bestErr {
			bestErr = err
			best = stump{feature: feature, threshold: threshold, left: left, right: right}
		}
	}
	return best, bestErr
}

// candidateThresholds picks up to histogramBins split points from the sorted
// distinct values of a column.
func candidateThresholds(column []float64) []float64 {
	sorted := make([]float64, len(column))
	copy(sorted, column)
	sort.Float64s(sorted)
	distinct := sorted[:0]
	for i, value := range sorted {
		if i == 0 || value != distinct[len(distinct)-1] {
			distinct = append(distinct, value)
		}
	}
	if len(distinct) <= 1 {
		return nil
	}
	if len(distinct) <= histogramBins {
		return distinct[1:]
	}
	thresholds := make([]float64, 0, histogramBins)
	for i := 1; i <= histogramBins; i++ {
		thresholds = append(thresholds, distinct[i*len(distinct)/(histogramBins+1)])
	}
	return thresholds
}

// Predict returns the predicted reorder probability of one row.
func (gbdt *GBDT) Predict(x []float64) float64 {
	x = imputed(x)
	score := gbdt.base
	for _, s := range gbdt.stumps {
		if x[s.feature] < s.threshold {
			score += s.left
		} else {
			score += s.right
		}
	}
	return sigmoid(score)
}
