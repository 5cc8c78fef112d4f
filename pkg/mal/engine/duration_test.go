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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseISO8601Duration_Seconds(t *testing.T) {
	v, err := parseISO8601Duration("PT30S")
	require.NoError(t, err)
	require.Equal(t, 30.0, v)
}

func TestParseISO8601Duration_Minutes(t *testing.T) {
	v, err := parseISO8601Duration("PT1M")
	require.NoError(t, err)
	require.Equal(t, 60.0, v)
}

func TestParseISO8601Duration_HoursAndMinutes(t *testing.T) {
	v, err := parseISO8601Duration("PT1H30M")
	require.NoError(t, err)
	require.Equal(t, 5400.0, v)
}

func TestParseISO8601Duration_MissingPrefixIsError(t *testing.T) {
	_, err := parseISO8601Duration("1M")
	require.Error(t, err)
}

func TestParseISO8601Duration_TrailingDigitsIsError(t *testing.T) {
	_, err := parseISO8601Duration("PT10")
	require.Error(t, err)
}

func TestParseISO8601Duration_InvalidUnitIsError(t *testing.T) {
	_, err := parseISO8601Duration("PT10X")
	require.Error(t, err)
}
