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

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gorse-io/basket/base/log"
	"github.com/gorse-io/basket/config"
	"github.com/gorse-io/basket/dataset"
	"github.com/gorse-io/basket/feature"
	"github.com/gorse-io/basket/track"
	"github.com/gorse-io/basket/train"
)

var version = "dev"

var rootCommand = &cobra.Command{
	Use:   "basket",
	Short: "Feature pipeline and trainer for next-basket reorder prediction.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Flags().GetBool("debug")
		log.SetLogger(cmd.Flags(), debug)
	},
}

var featuresCommand = &cobra.Command{
	Use:   "features",
	Short: "Generate the feature table and write it as CSV.",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, data, err := loadAll(cmd)
		if err != nil {
			return err
		}
		frame, err := feature.NewGenerator(data).Generate(context.Background())
		if err != nil {
			return err
		}
		f, err := os.Create(conf.Data.OutputPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if err = frame.WriteCSV(f); err != nil {
			return err
		}
		log.Logger().Info("wrote feature table", zap.String("path", conf.Data.OutputPath))
		return nil
	},
}

var trainCommand = &cobra.Command{
	Use:   "train",
	Short: "Generate features, split, train a classifier and track the run.",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, data, err := loadAll(cmd)
		if err != nil {
			return err
		}
		ctx := context.Background()
		frame, err := feature.NewGenerator(data).Generate(ctx)
		if err != nil {
			return err
		}
		trainSet, testSet := train.RatioSplit(frame, conf.Train.TestRatio, conf.Train.Seed)
		params := make(train.Params, len(conf.Train.Params))
		for name, value := range conf.Train.Params {
			params[train.ParamName(name)] = value
		}
		model, _ := cmd.Flags().GetString("model")
		if model == "" {
			model = conf.Train.Model
		}
		tracker := track.NewFileTracker(conf.Track.Root, conf.Track.Experiment)
		_, _, err = train.NewTrainer(tracker).Train(ctx, model, params, trainSet, testSet)
		return err
	},
}

var versionCommand = &cobra.Command{
	Use:   "version",
	Short: "Print the version.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}

func loadAll(cmd *cobra.Command) (*config.Config, *dataset.Dataset, error) {
	configPath, _ := cmd.Flags().GetString("config")
	conf, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	bar := progressbar.Default(3, "load dataset")
	orders, err := dataset.LoadOrders(conf.Data.OrdersPath)
	if err != nil {
		return nil, nil, err
	}
	_ = bar.Add(1)
	lines, err := dataset.LoadOrderLines(conf.Data.OrderLinesPath)
	if err != nil {
		return nil, nil, err
	}
	_ = bar.Add(1)
	products, err := dataset.LoadProducts(conf.Data.ProductsPath)
	if err != nil {
		return nil, nil, err
	}
	_ = bar.Add(1)
	data, err := dataset.NewDataset(orders, lines, products)
	if err != nil {
		return nil, nil, err
	}
	log.Logger().Info("loaded dataset",
		zap.Int("n_orders", data.CountOrders()),
		zap.Int("n_order_lines", len(data.Lines())),
		zap.Int("n_products", len(data.Products())),
		zap.Int("n_users", data.CountUsers()))
	return conf, data, nil
}

func init() {
	rootCommand.PersistentFlags().String("config", "", "path of configuration file")
	rootCommand.PersistentFlags().Bool("debug", false, "enable debug log")
	log.AddFlags(rootCommand.PersistentFlags())
	trainCommand.Flags().String("model", "", "model to train (logistic or gbdt)")
	rootCommand.AddCommand(featuresCommand, trainCommand, versionCommand)
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		log.Logger().Fatal("failed to execute command", zap.Error(err))
	}
}
