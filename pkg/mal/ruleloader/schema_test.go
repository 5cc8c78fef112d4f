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

package ruleloader

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRuleFile_MetricsRulesDialect(t *testing.T) {
	data := []byte(`
metricPrefix: meter_kong
metricsRules:
  - name: bandwidth
    exp: kong_bandwidth_bytes.sum(['host_name'])
`)
	f, err := ParseRuleFile("kong.yaml", data)
	require.NoError(t, err)
	require.Equal(t, "meter_kong", f.MetricPrefix)
	require.Len(t, f.MetricsRules, 1)
	require.Equal(t, "bandwidth", f.MetricsRules[0].Name)
	require.Equal(t, "kong.yaml", f.Path)
}

func TestParseRuleFile_MetricsDialect(t *testing.T) {
	data := []byte(`
metricPrefix: meter_zabbix
metrics:
  - name: cpu
    exp: zabbix_cpu.sum(['host'])
`)
	f, err := ParseRuleFile("zabbix.yaml", data)
	require.NoError(t, err)
	require.Len(t, f.MetricsRules, 1)
	require.Equal(t, "cpu", f.MetricsRules[0].Name)
}

func TestParseRuleFile_MissingMetricPrefixIsError(t *testing.T) {
	data := []byte(`
metricsRules:
  - name: bandwidth
    exp: kong_bandwidth_bytes.sum(['host_name'])
`)
	_, err := ParseRuleFile("bad.yaml", data)
	require.Error(t, err)
	require.Contains(t, err.Error(), "metricPrefix")
}

func TestParseRuleFile_MalformedYAMLIsError(t *testing.T) {
	_, err := ParseRuleFile("bad.yaml", []byte("not: [valid"))
	require.Error(t, err)
}

func TestParseRuleFile_PrefixSuffixFilterInitExp(t *testing.T) {
	data := []byte(`
metricPrefix: meter_x
expPrefix: "tag({t -> t.k = 'v'})"
expSuffix: "service(['k'], 'L')"
filter: "tagEqual('k', 'v')"
initExp: "x_initial.sum(['k'])"
metricsRules:
  - name: y
    exp: x
`)
	f, err := ParseRuleFile("x.yaml", data)
	require.NoError(t, err)
	require.Equal(t, "tag({t -> t.k = 'v'})", f.ExpPrefix)
	require.Equal(t, "service(['k'], 'L')", f.ExpSuffix)
	require.Equal(t, "tagEqual('k', 'v')", f.Filter)
	require.Equal(t, "x_initial.sum(['k'])", f.InitExp)
}
