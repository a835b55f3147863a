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

package dataset

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/juju/errors"
)

// header maps column names to positions so that loaders tolerate extra
// columns and arbitrary column order in the source files.
type header map[string]int

func readHeader(reader *csv.Reader) (header, error) {
	row, err := reader.Read()
	if err != nil {
		return nil, errors.Trace(err)
	}
	h := make(header, len(row))
	for i, name := range row {
		h[name] = i
	}
	return h, nil
}

func (h header) get(row []string, name string) (string, error) {
	i, exist := h[name]
	if !exist {
		return "", errors.NotFoundf("column %s", name)
	}
	return row[i], nil
}

func (h header) getInt32(row []string, name string) (int32, error) {
	cell, err := h.get(row, name)
	if err != nil {
		return 0, errors.Trace(err)
	}
	value, err := strconv.ParseInt(cell, 10, 32)
	if err != nil {
		return 0, errors.Annotatef(err, "column %s", name)
	}
	return int32(value), nil
}

// getFloat64 parses a nullable float column. An empty cell yields NaN.
func (h header) getFloat64(row []string, name string) (float64, error) {
	cell, err := h.get(row, name)
	if err != nil {
		return 0, errors.Trace(err)
	}
	if cell == "" {
		return math.NaN(), nil
	}
	value, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, errors.Annotatef(err, "column %s", name)
	}
	return value, nil
}

// LoadOrders reads an orders file with columns order_id, user_id,
// order_number, order_dow, order_hour_of_day and days_since_prior_order.
// An empty days_since_prior_order marks a user's first order.
func LoadOrders(path string) ([]Order, error) {
	var orders []Order
	err := forEachRow(path, func(h header, row []string) error {
		orderId, err := h.getInt32(row, "order_id")
		if err != nil {
			return errors.Trace(err)
		}
		userId, err := h.getInt32(row, "user_id")
		if err != nil {
			return errors.Trace(err)
		}
		orderNumber, err := h.getInt32(row, "order_number")
		if err != nil {
			return errors.Trace(err)
		}
		dow, err := h.getInt32(row, "order_dow")
		if err != nil {
			return errors.Trace(err)
		}
		hour, err := h.getInt32(row, "order_hour_of_day")
		if err != nil {
			return errors.Trace(err)
		}
		daysSincePrior, err := h.getFloat64(row, "days_since_prior_order")
		if err != nil {
			return errors.Trace(err)
		}
		orders = append(orders, Order{
			OrderID:        orderId,
			UserID:         userId,
			OrderNumber:    orderNumber,
			DOW:            int8(dow),
			HourOfDay:      int8(hour),
			DaysSincePrior: daysSincePrior,
		})
		return nil
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return orders, nil
}

// LoadOrderLines reads an order lines file with columns order_id, product_id,
// add_to_cart_order and reordered.
func LoadOrderLines(path string) ([]OrderLine, error) {
	var lines []OrderLine
	err := forEachRow(path, func(h header, row []string) error {
		orderId, err := h.getInt32(row, "order_id")
		if err != nil {
			return errors.Trace(err)
		}
		productId, err := h.getInt32(row, "product_id")
		if err != nil {
			return errors.Trace(err)
		}
		cartPosition, err := h.getInt32(row, "add_to_cart_order")
		if err != nil {
			return errors.Trace(err)
		}
		reordered, err := h.getInt32(row, "reordered")
		if err != nil {
			return errors.Trace(err)
		}
		lines = append(lines, OrderLine{
			OrderID:      orderId,
			ProductID:    productId,
			CartPosition: cartPosition,
			Reordered:    reordered != 0,
		})
		return nil
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return lines, nil
}

// LoadProducts reads a product catalog file with columns product_id,
// product_name, aisle_id and department_id.
func LoadProducts(path string) ([]Product, error) {
	var products []Product
	err := forEachRow(path, func(h header, row []string) error {
		productId, err := h.getInt32(row, "product_id")
		if err != nil {
			return errors.Trace(err)
		}
		name, err := h.get(row, "product_name")
		if err != nil {
			return errors.Trace(err)
		}
		aisleId, err := h.getInt32(row, "aisle_id")
		if err != nil {
			return errors.Trace(err)
		}
		departmentId, err := h.getInt32(row, "department_id")
		if err != nil {
			return errors.Trace(err)
		}
		products = append(products, Product{
			ProductID:    productId,
			Name:         name,
			AisleID:      aisleId,
			DepartmentID: departmentId,
		})
		return nil
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return products, nil
}

func forEachRow(path string, parse func(h header, row []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Trace(err)
	}
	defer f.Close()
	reader := csv.NewReader(f)
	reader.ReuseRecord = true
	h, err := readHeader(reader)
	if err != nil {
		return errors.Annotatef(err, "read header of %s", path)
	}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return errors.Annotatef(err, "read %s", path)
		}
		if err = parse(h, row); err != nil {
			return errors.Annotatef(err, "parse %s", path)
		}
	}
}
