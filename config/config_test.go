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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	conf, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "orders.csv", conf.Data.OrdersPath)
	assert.Equal(t, "order_products.csv", conf.Data.OrderLinesPath)
	assert.Equal(t, "products.csv", conf.Data.ProductsPath)
	assert.Equal(t, "features.csv", conf.Data.OutputPath)
	assert.Equal(t, "gbdt", conf.Train.Model)
	assert.Equal(t, 0.2, conf.Train.TestRatio)
	assert.Equal(t, "runs", conf.Track.Root)
	assert.Equal(t, "basket", conf.Track.Experiment)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "basket.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[data]
orders_path = "data/orders.csv"

[train]
model = "logistic"
test_ratio = 0.3

[train.params]
n_epochs = 40
lr = 0.01
`), 0644))
	conf, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "data/orders.csv", conf.Data.OrdersPath)
	assert.Equal(t, "logistic", conf.Train.Model)
	assert.Equal(t, 0.3, conf.Train.TestRatio)
	assert.EqualValues(t, 40, conf.Train.Params["n_epochs"])
	assert.Equal(t, 0.01, conf.Train.Params["lr"])
}

func TestValidate(t *testing.T) {
	conf := Config{Train: TrainConfig{Model: "gbdt", TestRatio: 0.2}}
	assert.NoError(t, conf.Validate())
	conf.Train.TestRatio = 0
	assert.Error(t, conf.Validate())
	conf.Train.TestRatio = 1
	assert.Error(t, conf.Validate())
	conf.Train.TestRatio = 0.2
	conf.Train.Model = "forest"
	assert.Error(t, conf.Validate())
}
