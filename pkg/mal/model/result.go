// Copyright 2024 The MAL Engine Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package model

import "fmt"

// Result is the outcome of evaluating one expression against one family map.
// success=false carries a diagnostic string but must never abort evaluation
// of sibling expressions.
type Result struct {
	Success bool
	Data    *SampleFamily
	Error   string
}

// Ok wraps a successfully produced family.
func Ok(data *SampleFamily) *Result {
	return &Result{Success: true, Data: data}
}

// Err wraps a diagnostic. Data is left nil.
func Err(format string, args ...interface{}) *Result {
	return &Result{Success: false, Error: fmt.Sprintf(format, args...)}
}
