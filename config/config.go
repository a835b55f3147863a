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
	"strings"

	"github.com/juju/errors"
	"github.com/spf13/viper"
)

// Config is the configuration for the pipeline and the trainer.
type Config struct {
	Data  DataConfig  `mapstructure:"data"`
	Train TrainConfig `mapstructure:"train"`
	Track TrackConfig `mapstructure:"track"`
}

// DataConfig locates the three base relations and the feature table output.
type DataConfig struct {
	OrdersPath     string `mapstructure:"orders_path"`
	OrderLinesPath string `mapstructure:"order_lines_path"`
	ProductsPath   string `mapstructure:"products_path"`
	OutputPath     string `mapstructure:"output_path"`
}

// TrainConfig selects the model and the evaluation split.
type TrainConfig struct {
	Model     string                 `mapstructure:"model"`
	TestRatio float64                `mapstructure:"test_ratio"`
	Seed      int64                  `mapstructure:"seed"`
	Params    map[string]interface{} `mapstructure:"params"`
}

// TrackConfig locates the experiment run store.
type TrackConfig struct {
	Root       string `mapstructure:"root"`
	Experiment string `mapstructure:"experiment"`
}

func setDefault() {
	viper.SetDefault("data.orders_path", "orders.csv")
	viper.SetDefault("data.order_lines_path", "order_products.csv")
	viper.SetDefault("data.products_path", "products.csv")
	viper.SetDefault("data.output_path", "features.csv")
	viper.SetDefault("train.model", "gbdt")
	viper.SetDefault("train.test_ratio", 0.2)
	viper.SetDefault("train.seed", 0)
	viper.SetDefault("track.root", "runs")
	viper.SetDefault("track.experiment", "basket")
}

// LoadConfig loads the configuration from a TOML file. Settings fall back to
// defaults and can be overridden by BASKET_* environment variables.
func LoadConfig(path string) (*Config, error) {
	setDefault()
	viper.SetConfigType("toml")
	viper.SetEnvPrefix("basket")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return nil, errors.Trace(err)
		}
	}
	var conf Config
	if err := viper.Unmarshal(&conf); err != nil {
		return nil, errors.Trace(err)
	}
	if err := conf.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &conf, nil
}

// Validate checks settings that would otherwise fail deep inside a run.
func (config *Config) Validate() error {
	if config.Train.TestRatio <= 0 || config.Train.TestRatio >= 1 {
		return errors.NotValidf("test ratio %f", config.Train.TestRatio)
	}
	switch config.Train.Model {
	case "logistic", "gbdt":
	default:
		return errors.NotValidf("model %s", config.Train.Model)
	}
	return nil
}
