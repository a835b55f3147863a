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
	"math"
	"sort"
)

// Metrics are the standard binary classification metrics computed on the
// held-out evaluation split. Precision, recall and F1 threshold predicted
// probabilities at 0.5.
type Metrics struct {
	Precision float64
	Recall    float64
	F1        float64
	AUC       float64
	LogLoss   float64
}

// Evaluate computes classification metrics from predicted probabilities and
// binary ground truth.
func Evaluate(predictions, truth []float64) Metrics {
	return Metrics{
		Precision: Precision(predictions, truth),
		Recall:    Recall(predictions, truth),
		F1:        F1(predictions, truth),
		AUC:       AUC(predictions, truth),
		LogLoss:   LogLoss(predictions, truth),
	}
}

// Precision is the fraction of positive predictions that are true positives.
func Precision(predictions, truth []float64) float64 {
	truePositive, predictedPositive := 0, 0
	for i := range predictions {
		if predictions[i] >= 0.5 {
			predictedPositive++
			if truth[i] > 0 {
				truePositive++
			}
		}
	}
	if predictedPositive == 0 {
		return 0
	}
	return float64(truePositive) / float64(predictedPositive)
}

// Recall is the fraction of positives that are predicted positive.
func Recall(predictions, truth []float64) float64 {
	truePositive, positive := 0, 0
	for i := range predictions {
		if truth[i] > 0 {
			positive++
			if predictions[i] >= 0.5 {
				truePositive++
			}
		}
	}
	if positive == 0 {
		return 0
	}
	return float64(truePositive) / float64(positive)
}

// F1 is the harmonic mean of precision and recall.
func F1(predictions, truth []float64) float64 {
	precision := Precision(predictions, truth)
	recall := Recall(predictions, truth)
	if precision+recall == 0 {
		return 0
	}
	return 2 * precision * recall / (precision + recall)
}

// AUC is the area under the ROC curve, computed from the rank statistic with
// tied scores receiving averaged ranks.
func AUC(predictions, truth []float64) float64 {
	indices := make([]int, len(predictions))
	for i := range indices {
		indices[i] = i
	}
	sort.Slice(indices, func(i, j int) bool {
		return predictions[indices[i]] < predictions[indices[j]]
	})
	ranks := make([]float64, len(predictions))
	for i := 0; i < len(indices); {
		j := i
		for j < len(indices) && predictions[indices[j]] == predictions[indices[i]] {
			j++
		}
		// 1-based ranks, averaged across ties
		rank := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			ranks[indices[k]] = rank
		}
		i = j
	}
	positive, rankSum := 0, 0.0
	for i := range truth {
		if truth[i] > 0 {
			positive++
			rankSum += ranks[i]
		}
	}
	negative := len(truth) - positive
	if positive == 0 || negative == 0 {
		return 0
	}
	return (rankSum - float64(positive)*float64(positive+1)/2) / (float64(positive) * float64(negative))
}

// LogLoss is the negative mean log likelihood, with probabilities clamped
// away from 0 and 1.
func LogLoss(predictions, truth []float64) float64 {
	const eps = 1e-15
	sum := 0.0
	for i := range predictions {
		p := math.Min(math.Max(predictions[i], eps), 1-eps)
		if truth[i] > 0 {
			sum -= math.Log(p)
		} else {
			sum -= math.Log(1 - p)
		}
	}
	return sum / float64(len(predictions))
}
