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

package feature

import (
	"context"
	"math"

	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/gorse-io/basket/base/log"
)

// ValidateScoringSet checks the required key columns of a caller-supplied
// scoring set. It fails fast, before any computation, and returns one of the
// distinct schema-violation sentinels.
func ValidateScoringSet(scoring *Frame) error {
	if scoring == nil {
		return errors.Trace(ErrScoringSetMissing)
	}
	hasUser := scoring.HasColumn(ColUserID)
	hasProduct := scoring.HasColumn(ColProductID)
	switch {
	case !hasUser && !hasProduct:
		return errors.Trace(ErrKeyColumnsMissing)
	case !hasUser:
		return errors.Trace(ErrUserIDMissing)
	case !hasProduct:
		return errors.Trace(ErrProductIDMissing)
	}
	return nil
}

// GenerateScoring joins the historical aggregates onto a caller-supplied
// scoring set. The scoring set must carry user_id and product_id; cold-start
// keys absent from the history yield null feature values, never errors. Time
// and order-grain features are joined only when the scoring set carries the
// corresponding columns.
func (g *Generator) GenerateScoring(ctx context.Context, scoring *Frame) (*Frame, error) {
	if err := ValidateScoringSet(scoring); err != nil {
		return nil, errors.Trace(err)
	}
	agg, err := g.aggregate(ctx)
	if err != nil {
		return nil, errors.Trace(err)
	}

	out := NewFrame()
	for _, name := range scoring.Names() {
		column, _ := scoring.Column(name)
		out.MustAdd(name, column)
	}

	userColumn, _ := scoring.Column(ColUserID)
	productColumn, _ := scoring.Column(ColProductID)
	n := scoring.NumRows()
	coldStart := 0

	// user grain
	var (
		frequencyOfReorder, maxHourFrequency FloatBuilder
		maxBasket, minBasket, meanBasket     FloatBuilder
	)
	for i := 0; i < n; i++ {
		userId, ok := keyAt(userColumn, i)
		stats := agg.user.Users[userId]
		if !ok || stats == nil {
			frequencyOfReorder.AppendNull()
			maxHourFrequency.AppendNull()
			maxBasket.AppendNull()
			minBasket.AppendNull()
			meanBasket.AppendNull()
			continue
		}
		frequencyOfReorder.Append(float64(stats.ReorderFrequency))
		maxHourFrequency.Append(float64(stats.MaxHourFrequency))
		maxBasket.Append(float64(stats.MaxBasket))
		minBasket.Append(float64(stats.MinBasket))
		meanBasket.Append(stats.MeanBasket)
	}
	addIfAbsent(out, "frequency_of_reorder", frequencyOfReorder.Series())
	addIfAbsent(out, "max_hour_frequency", maxHourFrequency.Series())
	addIfAbsent(out, "max_count_of_products", maxBasket.Series())
	addIfAbsent(out, "min_count_of_products", minBasket.Series())
	addIfAbsent(out, "mean_count_of_products", meanBasket.Series())

	// product grain
	var (
		productCount, productMeanPosition, oneShotUsers, coOccurred    FloatBuilder
		coPerOrderMean, coPerOrderMin, coPerOrderMax                   FloatBuilder
		totalStreaks, meanStreak, minStreak, maxStreak                 FloatBuilder
		prob2, prob3, prob5, probReord                                 FloatBuilder
		dowCounts                                                      [7]FloatBuilder
	)
	for i := 0; i < n; i++ {
		productId, ok := keyAt(productColumn, i)
		stats := agg.product.Products[productId]
		if !ok || stats == nil {
			for _, b := range []*FloatBuilder{
				&productCount, &productMeanPosition, &oneShotUsers, &coOccurred,
				&coPerOrderMean, &coPerOrderMin, &coPerOrderMax,
				&totalStreaks, &meanStreak, &minStreak, &maxStreak,
				&prob2, &prob3, &prob5, &probReord,
			} {
				b.AppendNull()
			}
			for d := 0; d < 7; d++ {
				dowCounts[d].AppendNull()
			}
			continue
		}
		productCount.Append(float64(stats.PurchaseCount))
		productMeanPosition.Append(stats.MeanCartPosition)
		oneShotUsers.Append(float64(stats.OneShotUserCount))
		coOccurred.Append(float64(stats.CoOccurredCount))
		coPerOrderMean.Append(stats.CoPerOrderMean)
		coPerOrderMin.Append(float64(stats.CoPerOrderMin))
		coPerOrderMax.Append(float64(stats.CoPerOrderMax))
		totalStreaks.Append(float64(stats.StreakCount))
		meanStreak.Append(stats.StreakMean)
		minStreak.Append(float64(stats.StreakMin))
		maxStreak.Append(float64(stats.StreakMax))
		prob2.Append(stats.ProbReordered2)
		prob3.Append(stats.ProbReordered3)
		prob5.Append(stats.ProbReordered5)
		probReord.Append(stats.ReorderProbability)
		for d := 0; d < 7; d++ {
			dowCounts[d].Append(float64(stats.DOWCounts[d]))
		}
	}
	addIfAbsent(out, "product_count", productCount.Series())
	addIfAbsent(out, "product_mean_of_position", productMeanPosition.Series())
	addIfAbsent(out, "one_shot_user_count", oneShotUsers.Series())
	addIfAbsent(out, "co_occurred_count", coOccurred.Series())
	addIfAbsent(out, "mean_co_occurred_per_order", coPerOrderMean.Series())
	addIfAbsent(out, "min_co_occurred_per_order", coPerOrderMin.Series())
	addIfAbsent(out, "max_co_occurred_per_order", coPerOrderMax.Series())
	addIfAbsent(out, "total_streaks", totalStreaks.Series())
	addIfAbsent(out, "mean_streak_length", meanStreak.Series())
	addIfAbsent(out, "min_streak_length", minStreak.Series())
	addIfAbsent(out, "max_streak_length", maxStreak.Series())
	addIfAbsent(out, "prob_of_reordered_2", prob2.Series())
	addIfAbsent(out, "prob_of_reordered_3", prob3.Series())
	addIfAbsent(out, "prob_of_reordered_5", prob5.Series())
	for d := 0; d < 7; d++ {
		addIfAbsent(out, dowColumn(d), dowCounts[d].Series())
	}
	addIfAbsent(out, "prob_of_being_reordered", probReord.Series())

	// catalog attributes join directly against the product relation, so a
	// product that was never purchased still carries them
	var aisles, departments FloatBuilder
	for i := 0; i < n; i++ {
		productId, ok := keyAt(productColumn, i)
		if product, exist := g.data.GetProduct(productId); ok && exist {
			aisles.Append(float64(product.AisleID))
			departments.Append(float64(product.DepartmentID))
		} else {
			aisles.AppendNull()
			departments.AppendNull()
		}
	}
	addIfAbsent(out, "aisle_id", aisles.Series())
	addIfAbsent(out, "department_id", departments.Series())

	// (user, product) grain
	var pairCount, pairMeanPosition, pairCoOccurred FloatBuilder
	for i := 0; i < n; i++ {
		userId, okUser := keyAt(userColumn, i)
		productId, okProduct := keyAt(productColumn, i)
		stats := agg.pair.Pairs[Pair{UserID: userId, ProductID: productId}]
		if !okUser || !okProduct || stats == nil {
			pairCount.AppendNull()
			pairMeanPosition.AppendNull()
			pairCoOccurred.AppendNull()
			coldStart++
			continue
		}
		pairCount.Append(float64(stats.Count))
		pairMeanPosition.Append(stats.MeanCartPosition)
		pairCoOccurred.Append(float64(stats.CoOccurredCount))
	}
	addIfAbsent(out, "user_product_count", pairCount.Series())
	addIfAbsent(out, "user_product_mean_position", pairMeanPosition.Series())
	addIfAbsent(out, "user_product_co_occurred", pairCoOccurred.Series())

	// time grain, only when the scoring set carries the time columns
	if dowColumnSeries, exist := scoring.Column("order_dow"); exist {
		var ordersPerDow FloatBuilder
		for i := 0; i < n; i++ {
			d, ok := keyAt(dowColumnSeries, i)
			if !ok || d < 0 || int(d) >= len(agg.time.DOWCounts) {
				ordersPerDow.AppendNull()
				continue
			}
			ordersPerDow.Append(float64(agg.time.DOWCounts[d]))
		}
		addIfAbsent(out, "orders_per_dow", ordersPerDow.Series())
	}
	if hourColumn, exist := scoring.Column("order_hour_of_day"); exist {
		var ordersPerHour FloatBuilder
		for i := 0; i < n; i++ {
			h, ok := keyAt(hourColumn, i)
			if !ok || h < 0 || int(h) >= len(agg.time.HourCounts) {
				ordersPerHour.AppendNull()
				continue
			}
			ordersPerHour.Append(float64(agg.time.HourCounts[h]))
		}
		addIfAbsent(out, "orders_per_hour", ordersPerHour.Series())
	}

	log.Logger().Info("assembled scoring table",
		zap.Int("n_rows", out.NumRows()),
		zap.Int("n_columns", out.NumColumns()),
		zap.Int("n_cold_start", coldStart))
	return out.CastNumeric(ColOrderID, ColUserID, ColProductID, ColReordered), nil
}

func addIfAbsent(frame *Frame, name string, s *Series) {
	if !frame.HasColumn(name) {
		frame.MustAdd(name, s)
	}
}

// keyAt reads a join key from an integer or float column. Nulls and NaN are
// not keys.
func keyAt(s *Series, i int) (int32, bool) {
	if s.Kind() == Int {
		value, ok := s.Int(i)
		return int32(value), ok
	}
	value := s.Float(i)
	if math.IsNaN(value) {
		return 0, false
	}
	return int32(value), true
}
