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
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gorse-io/basket/dataset"
)

// newTestDataset builds a small history of two users and four products
// covering streaks, one-shot orders, dietary matches and co-occurrence.
func newTestDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	orders := []dataset.Order{
		{OrderID: 1, UserID: 1, OrderNumber: 1, DOW: 2, HourOfDay: 9, DaysSincePrior: math.NaN()},
		{OrderID: 2, UserID: 1, OrderNumber: 2, DOW: 3, HourOfDay: 14, DaysSincePrior: 3},
		{OrderID: 3, UserID: 1, OrderNumber: 3, DOW: 2, HourOfDay: 9, DaysSincePrior: 7},
		{OrderID: 4, UserID: 1, OrderNumber: 4, DOW: 2, HourOfDay: 20, DaysSincePrior: 2},
		{OrderID: 5, UserID: 2, OrderNumber: 1, DOW: 0, HourOfDay: 10, DaysSincePrior: math.NaN()},
		{OrderID: 6, UserID: 2, OrderNumber: 2, DOW: 1, HourOfDay: 11, DaysSincePrior: 10},
	}
	lines := []dataset.OrderLine{
		{OrderID: 1, ProductID: 100, CartPosition: 1},
		{OrderID: 1, ProductID: 200, CartPosition: 2},
		{OrderID: 2, ProductID: 100, CartPosition: 1, Reordered: true},
		{OrderID: 2, ProductID: 300, CartPosition: 2},
		{OrderID: 3, ProductID: 200, CartPosition: 1},
		{OrderID: 3, ProductID: 100, CartPosition: 2, Reordered: true},
		{OrderID: 4, ProductID: 400, CartPosition: 1},
		{OrderID: 5, ProductID: 100, CartPosition: 1},
		{OrderID: 6, ProductID: 200, CartPosition: 1},
		{OrderID: 6, ProductID: 300, CartPosition: 2},
	}
	products := []dataset.Product{
		{ProductID: 100, Name: "Organic Bananas", AisleID: 24, DepartmentID: 4},
		{ProductID: 200, Name: "Whole Milk", AisleID: 84, DepartmentID: 16},
		{ProductID: 300, Name: "Asian Style Noodles", AisleID: 66, DepartmentID: 6},
		{ProductID: 400, Name: "Sparkling Water", AisleID: 115, DepartmentID: 7},
	}
	data, err := dataset.NewDataset(orders, lines, products)
	require.NoError(t, err)
	return data
}

// newTwoOrderDataset is the two-order single-product history used by the
// reference scenario tests.
func newTwoOrderDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	orders := []dataset.Order{
		{OrderID: 1, UserID: 1, OrderNumber: 1, DOW: 0, HourOfDay: 10, DaysSincePrior: math.NaN()},
		{OrderID: 2, UserID: 1, OrderNumber: 2, DOW: 1, HourOfDay: 14, DaysSincePrior: 3},
	}
	lines := []dataset.OrderLine{
		{OrderID: 1, ProductID: 100, CartPosition: 1},
		{OrderID: 2, ProductID: 100, CartPosition: 1, Reordered: true},
	}
	products := []dataset.Product{
		{ProductID: 100, Name: "Whole Milk", AisleID: 84, DepartmentID: 16},
	}
	data, err := dataset.NewDataset(orders, lines, products)
	require.NoError(t, err)
	return data
}
