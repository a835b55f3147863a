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
	"math/rand"

	"github.com/gorse-io/basket/feature"
)

// RatioSplit splits a feature table into a training set and a held-out
// evaluation set with the identical schema.
func RatioSplit(frame *feature.Frame, testRatio float64, seed int64) (trainSet, testSet *feature.Frame) {
	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(frame.NumRows())
	testSize := int(float64(frame.NumRows()) * testRatio)
	testSet = frame.Subset(perm[:testSize])
	trainSet = frame.Subset(perm[testSize:])
	return
}
