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

// ParamName is the name of a recognized hyperparameter.
type ParamName string

// Predefined parameter names.
const (
	Booster     ParamName = "booster"
	Device      ParamName = "device"
	TreeMethod  ParamName = "tree_method"
	Objective   ParamName = "objective"
	Lr          ParamName = "lr"
	Reg         ParamName = "reg"
	NEpochs     ParamName = "n_epochs"
	NRounds     ParamName = "n_rounds"
	RandomState ParamName = "random_state"
)

// Params for a classifier. Given by:
//
//	Params{
//	   "booster":   "gbtree",
//	   "objective": "binary:logistic",
//	}
type Params map[ParamName]interface{}

// GBDTDefaults are the defaults applied to gradient boosted tree training.
var GBDTDefaults = Params{
	Booster:    "gbtree",
	Device:     "cuda",
	TreeMethod: "hist",
	Objective:  "binary:logistic",
}

// LogisticDefaults are the defaults applied to logistic regression training.
var LogisticDefaults = Params{
	Objective: "binary:logistic",
}

// Copy parameters.
func (params Params) Copy() Params {
	newParams := make(Params, len(params))
	for k, v := range params {
		newParams[k] = v
	}
	return newParams
}

// Merge returns a copy of params with missing keys filled from defaults.
// Neither receiver nor defaults is mutated.
func (params Params) Merge(defaults Params) Params {
	merged := defaults.Copy()
	for k, v := range params {
		merged[k] = v
	}
	return merged
}

// GetInt gets an integer parameter.
func (params Params) GetInt(name ParamName, _default int) int {
	if val, exist := params[name]; exist {
		switch value := val.(type) {
		case int:
			return value
		case int64:
			return int(value)
		case float64:
			return int(value)
		}
	}
	return _default
}

// GetInt64 gets a 64-bit integer parameter.
func (params Params) GetInt64(name ParamName, _default int64) int64 {
	if val, exist := params[name]; exist {
		switch value := val.(type) {
		case int64:
			return value
		case int:
			return int64(value)
		case float64:
			return int64(value)
		}
	}
	return _default
}

// GetFloat64 gets a float parameter.
func (params Params) GetFloat64(name ParamName, _default float64) float64 {
	if val, exist := params[name]; exist {
		switch value := val.(type) {
		case float64:
			return value
		case int:
			return float64(value)
		}
	}
	return _default
}

// GetString gets a string parameter.
func (params Params) GetString(name ParamName, _default string) string {
	if val, exist := params[name]; exist {
		if value, ok := val.(string); ok {
			return value
		}
	}
	return _default
}
