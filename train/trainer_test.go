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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorse-io/basket/base/log"
	"github.com/gorse-io/basket/feature"
	"github.com/gorse-io/basket/track"
)

func TestMain(m *testing.M) {
	// silence the per-epoch and per-round debug logs
	log.CloseLogger()
	m.Run()
}

// labeledFrame wraps separable data into a feature table with identifier and
// label columns.
func labeledFrame(n int) *feature.Frame {
	x, y := separableData(n)
	frame := feature.NewFrame()
	ids := make([]int64, n)
	labels := make([]int64, n)
	signal := make([]float64, n)
	noise := make([]float64, n)
	for i := 0; i < n; i++ {
		ids[i] = int64(i)
		labels[i] = int64(y[i])
		signal[i] = x[i][0]
		noise[i] = x[i][1]
	}
	frame.MustAdd(feature.ColOrderID, feature.NewIntSeries(ids))
	frame.MustAdd(feature.ColUserID, feature.NewIntSeries(ids))
	frame.MustAdd(feature.ColProductID, feature.NewIntSeries(ids))
	frame.MustAdd(feature.ColReordered, feature.NewIntSeries(labels))
	frame.MustAdd("signal", feature.NewFloatSeries(signal))
	frame.MustAdd("noise", feature.NewFloatSeries(noise))
	return frame
}

func TestTrainer(t *testing.T) {
	frame := labeledFrame(200)
	trainSet, testSet := RatioSplit(frame, 0.2, 42)
	trainer := NewTrainer(track.NopTracker{})
	for _, model := range []string{ModelLogistic, ModelGBDT} {
		classifier, metrics, err := trainer.Train(context.Background(), model, Params{RandomState: 42}, trainSet, testSet)
		require.NoError(t, err)
		assert.NotNil(t, classifier)
		assert.Greater(t, metrics.AUC, 0.9)
	}
}

func TestTrainerUnknownModel(t *testing.T) {
	frame := labeledFrame(10)
	trainer := NewTrainer(track.NopTracker{})
	_, _, err := trainer.Train(context.Background(), "forest", nil, frame, frame)
	assert.Error(t, err)
}

func TestTrainerWithoutLabel(t *testing.T) {
	unlabeled := feature.NewFrame()
	unlabeled.MustAdd(feature.ColUserID, feature.NewIntSeries([]int64{1}))
	unlabeled.MustAdd("signal", feature.NewFloatSeries([]float64{1}))
	trainer := NewTrainer(track.NopTracker{})
	_, _, err := trainer.Train(context.Background(), ModelLogistic, nil, unlabeled, unlabeled)
	assert.Error(t, err)
}
