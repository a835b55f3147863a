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
	"fmt"
	"math"
	"sort"

	"github.com/samber/lo"
)

// Order is one shopping transaction by a user. OrderNumber is the 1-based
// position of the order in the user's history, contiguous and strictly
// increasing per user. DaysSincePrior is NaN for the user's first order.
type Order struct {
	OrderID        int32
	UserID         int32
	OrderNumber    int32
	DOW            int8
	HourOfDay      int8
	DaysSincePrior float64
}

// FirstOrder reports whether this is the user's first order, in which case
// the gap since the prior order is undefined.
func (o Order) FirstOrder() bool {
	return math.IsNaN(o.DaysSincePrior)
}

// OrderLine is one product within an order. Reordered is set if the product
// was also in the user's immediately preceding basket.
type OrderLine struct {
	OrderID      int32
	ProductID    int32
	CartPosition int32
	Reordered    bool
}

// Product is one catalog entry.
type Product struct {
	ProductID    int32
	Name         string
	AisleID      int32
	DepartmentID int32
}

// IntegrityError reports a data anomaly detected while indexing the base
// relations. Stage names the failed check and Key the offending record.
type IntegrityError struct {
	Stage string
	Key   string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("dataset integrity violated at %s: %s", e.Stage, e.Key)
}

// Dataset holds the three immutable base relations and their indexes. All
// aggregations read from a Dataset and never mutate it.
type Dataset struct {
	orders   []Order
	lines    []OrderLine
	products []Product

	orderIndex   map[int32]int
	productIndex map[int32]int
	ordersByUser map[int32][]int
	linesByOrder map[int32][]int
	userIds      []int32
}

// NewDataset indexes the three base relations and verifies their invariants:
// unique order ids, unique (order, product) lines, no dangling references,
// and contiguous per-user order numbers.
func NewDataset(orders []Order, lines []OrderLine, products []Product) (*Dataset, error) {
	d := &Dataset{
		orders:       orders,
		lines:        lines,
		products:     products,
		orderIndex:   make(map[int32]int, len(orders)),
		productIndex: make(map[int32]int, len(products)),
		ordersByUser: make(map[int32][]int),
		linesByOrder: make(map[int32][]int),
	}
	for i, order := range orders {
		if _, exist := d.orderIndex[order.OrderID]; exist {
			return nil, &IntegrityError{Stage: "index orders", Key: fmt.Sprintf("duplicate order %d", order.OrderID)}
		}
		d.orderIndex[order.OrderID] = i
		d.ordersByUser[order.UserID] = append(d.ordersByUser[order.UserID], i)
	}
	for i, product := range products {
		if _, exist := d.productIndex[product.ProductID]; exist {
			return nil, &IntegrityError{Stage: "index products", Key: fmt.Sprintf("duplicate product %d", product.ProductID)}
		}
		d.productIndex[product.ProductID] = i
	}
	seen := make(map[[2]int32]struct{}, len(lines))
	for i, line := range lines {
		if _, exist := d.orderIndex[line.OrderID]; !exist {
			return nil, &IntegrityError{Stage: "index order lines", Key: fmt.Sprintf("line references unknown order %d", line.OrderID)}
		}
		key := [2]int32{line.OrderID, line.ProductID}
		if _, exist := seen[key]; exist {
			return nil, &IntegrityError{
				Stage: "index order lines",
				Key:   fmt.Sprintf("duplicate line (order %d, product %d)", line.OrderID, line.ProductID),
			}
		}
		seen[key] = struct{}{}
		d.linesByOrder[line.OrderID] = append(d.linesByOrder[line.OrderID], i)
	}
	// keep each user's orders sorted by order number and check contiguity
	for userId, indices := range d.ordersByUser {
		sort.Slice(indices, func(i, j int) bool {
			return orders[indices[i]].OrderNumber < orders[indices[j]].OrderNumber
		})
		for i, index := range indices {
			if orders[index].OrderNumber != int32(i+1) {
				return nil, &IntegrityError{
					Stage: "index orders",
					Key:   fmt.Sprintf("user %d order numbers are not contiguous", userId),
				}
			}
		}
	}
	d.userIds = lo.Keys(d.ordersByUser)
	sort.Slice(d.userIds, func(i, j int) bool { return d.userIds[i] < d.userIds[j] })
	return d, nil
}

// Orders returns all orders.
func (d *Dataset) Orders() []Order {
	return d.orders
}

// Lines returns all order lines.
func (d *Dataset) Lines() []OrderLine {
	return d.lines
}

// Products returns the product catalog.
func (d *Dataset) Products() []Product {
	return d.products
}

// CountOrders returns the number of distinct orders in the dataset.
func (d *Dataset) CountOrders() int {
	return len(d.orders)
}

// CountUsers returns the number of distinct users.
func (d *Dataset) CountUsers() int {
	return len(d.userIds)
}

// UserIds returns all user ids in ascending order.
func (d *Dataset) UserIds() []int32 {
	return d.userIds
}

// GetOrder looks up an order by id.
func (d *Dataset) GetOrder(orderId int32) (Order, bool) {
	if i, exist := d.orderIndex[orderId]; exist {
		return d.orders[i], true
	}
	return Order{}, false
}

// GetProduct looks up a catalog entry by id.
func (d *Dataset) GetProduct(productId int32) (Product, bool) {
	if i, exist := d.productIndex[productId]; exist {
		return d.products[i], true
	}
	return Product{}, false
}

// OrdersOfUser returns the user's orders sorted by order number.
func (d *Dataset) OrdersOfUser(userId int32) []Order {
	return lo.Map(d.ordersByUser[userId], func(i int, _ int) Order {
		return d.orders[i]
	})
}

// LinesOfOrder returns the order lines of an order.
func (d *Dataset) LinesOfOrder(orderId int32) []OrderLine {
	return lo.Map(d.linesByOrder[orderId], func(i int, _ int) OrderLine {
		return d.lines[i]
	})
}

// BasketSize returns the number of product lines in an order.
func (d *Dataset) BasketSize(orderId int32) int {
	return len(d.linesByOrder[orderId])
}
