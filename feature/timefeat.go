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

// TimeFeatures are two small lookup tables of global order volume by day of
// week and by hour of day.
type TimeFeatures struct {
	DOWCounts  [7]int64
	HourCounts [24]int64
}

// TimeFeatures counts orders per day of week and per hour of day over the
// order relation.
func (g *Generator) TimeFeatures() *TimeFeatures {
	features := &TimeFeatures{}
	for _, order := range g.data.Orders() {
		features.DOWCounts[order.DOW]++
		features.HourCounts[order.HourOfDay]++
	}
	return features
}
