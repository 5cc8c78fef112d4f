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

package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// parseISO8601Duration parses the small subset of ISO-8601 durations the
// rule corpus uses for .rate()/.increase() window arguments -- "PT1M",
// "PT30S", "PT1H", optionally combined ("PT1H30M"). It returns the duration
// in seconds.
//
// This window is a multiplier/hint, not a sliding-window boundary:
// .rate(w) always uses the most recent previous sample regardless
// of whether w seconds actually elapsed.
func parseISO8601Duration(s string) (float64, error) {
	if !strings.HasPrefix(s, "PT") {
		return 0, fmt.Errorf("mal: unsupported duration literal %q, want ISO-8601 'PT...' form", s)
	}
	rest := s[2:]
	var (
		total float64
		num   strings.Builder
	)
	for _, r := range rest {
		switch {
		case r >= '0' && r <= '9' || r == '.':
			num.WriteRune(r)
		case r == 'H', r == 'M', r == 'S':
			v, err := strconv.ParseFloat(num.String(), 64)
			if err != nil {
				return 0, fmt.Errorf("mal: invalid duration literal %q", s)
			}
			num.Reset()
			switch r {
			case 'H':
				total += v * 3600
			case 'M':
				total += v * 60
			case 'S':
				total += v
			}
		default:
			return 0, fmt.Errorf("mal: invalid duration literal %q", s)
		}
	}
	if num.Len() > 0 {
		return 0, fmt.Errorf("mal: invalid duration literal %q: trailing digits without unit", s)
	}
	return total, nil
}
