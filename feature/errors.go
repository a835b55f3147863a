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
	"fmt"

	"github.com/juju/errors"
)

// Schema violations raised before any computation when a caller-supplied
// scoring set lacks required key columns. The three missing-column cases are
// distinct sentinels so that callers can react programmatically.
var (
	// ErrScoringSetMissing is returned when no scoring set was provided at all.
	ErrScoringSetMissing = errors.New("no scoring set provided")
	// ErrKeyColumnsMissing is returned when both user_id and product_id are absent.
	ErrKeyColumnsMissing = errors.New("both user_id and product_id are missing in the scoring set")
	// ErrUserIDMissing is returned when only user_id is absent.
	ErrUserIDMissing = errors.New("user_id not found in the scoring set")
	// ErrProductIDMissing is returned when only product_id is absent.
	ErrProductIDMissing = errors.New("product_id not found in the scoring set")
)

// CardinalityError reports a join stage that multiplied or dropped rows. Any
// join in the pipeline is expected to be many-to-one onto unique-keyed
// aggregates, so the assembled row count must match the base row count.
type CardinalityError struct {
	Stage    string
	Expected int
	Actual   int
}

func (e *CardinalityError) Error() string {
	return fmt.Sprintf("join cardinality violated at %s: expected %d rows, got %d", e.Stage, e.Expected, e.Actual)
}
