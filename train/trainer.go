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
	"encoding/json"
	"time"

	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/gorse-io/basket/base/log"
	"github.com/gorse-io/basket/feature"
	"github.com/gorse-io/basket/track"
)

// Model names accepted by the trainer.
const (
	ModelLogistic = "logistic"
	ModelGBDT     = "gbdt"
)

// Trainer fits a classifier on a feature table, evaluates it on the held-out
// split and records the run with the experiment tracker.
type Trainer struct {
	tracker track.Tracker
}

// NewTrainer creates a trainer logging to the given tracker.
func NewTrainer(tracker track.Tracker) *Trainer {
	return &Trainer{tracker: tracker}
}

// Train fits the named model with merged parameters, evaluates it and logs
// the run. Both frames must carry the reordered label.
func (t *Trainer) Train(ctx context.Context, model string, params Params, trainSet, testSet *feature.Frame) (Classifier, Metrics, error) {
	var classifier Classifier
	switch model {
	case ModelLogistic:
		classifier = NewLogisticRegression(params)
	case ModelGBDT:
		classifier = NewGBDT(params)
	default:
		return nil, Metrics{}, errors.NotSupportedf("model %s", model)
	}

	names, trainX, trainY, err := Matrix(trainSet)
	if err != nil {
		return nil, Metrics{}, errors.Trace(err)
	}
	if trainY == nil {
		return nil, Metrics{}, errors.NotValidf("training set without %s label", feature.ColReordered)
	}
	_, testX, testY, err := Matrix(testSet)
	if err != nil {
		return nil, Metrics{}, errors.Trace(err)
	}
	if testY == nil {
		return nil, Metrics{}, errors.NotValidf("evaluation set without %s label", feature.ColReordered)
	}

	start := time.Now()
	if err := classifier.Fit(ctx, trainX, trainY); err != nil {
		return nil, Metrics{}, errors.Trace(err)
	}
	trainingTime := time.Since(start)

	predictions := Predictions(classifier, testX)
	metrics := Evaluate(predictions, testY)
	log.Logger().Info("trained model",
		zap.String("model", model),
		zap.Duration("training_time", trainingTime),
		zap.Float64("precision", metrics.Precision),
		zap.Float64("recall", metrics.Recall),
		zap.Float64("f1", metrics.F1),
		zap.Float64("auc", metrics.AUC),
		zap.Float64("logloss", metrics.LogLoss))

	run, err := t.tracker.StartRun(model)
	if err != nil {
		return nil, Metrics{}, errors.Trace(err)
	}
	for name, value := range classifier.Params() {
		run.LogParam(string(name), value)
	}
	run.LogParam("model", model)
	run.LogParam("n_features", len(names))
	run.LogParam("n_train_rows", len(trainX))
	run.LogParam("n_test_rows", len(testX))
	run.LogParam("training_time", trainingTime.String())
	run.LogMetric("precision", metrics.Precision)
	run.LogMetric("recall", metrics.Recall)
	run.LogMetric("f1", metrics.F1)
	run.LogMetric("AUC", metrics.AUC)
	run.LogMetric("logloss", metrics.LogLoss)
	if columns, err := json.Marshal(names); err == nil {
		if err = run.LogArtifact("feature_columns.json", columns); err != nil {
			return nil, Metrics{}, errors.Trace(err)
		}
	}
	if err := run.End(); err != nil {
		return nil, Metrics{}, errors.Trace(err)
	}
	return classifier, metrics, nil
}
