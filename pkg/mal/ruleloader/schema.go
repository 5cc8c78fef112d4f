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

// Package ruleloader implements C5: the rule-file schema, expPrefix/expSuffix
// composition, the combination pattern and the concurrent per-expression
// dispatcher.
package ruleloader

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// MetricRule is one `{name, exp}` entry of a rule file's metricsRules list.
type MetricRule struct {
	Name string `yaml:"name"`
	Exp  string `yaml:"exp"`
}

// RuleFile is the decoded form of one rule-file YAML document.
// A dialect used by the zabbix-rules source names the array `metrics`
// instead of `metricsRules`; both are accepted (UnmarshalYAML below).
type RuleFile struct {
	MetricPrefix string       `yaml:"metricPrefix"`
	ExpPrefix    string       `yaml:"expPrefix"`
	ExpSuffix    string       `yaml:"expSuffix"`
	Filter       string       `yaml:"filter"`
	InitExp      string       `yaml:"initExp"`
	MetricsRules []MetricRule `yaml:"-"`

	// Path is not part of the YAML document; it is set by the loader from
	// the source the document was read from, and used as the staleness
	// manifest's key.
	Path string `yaml:"-"`
}

// ruleFileAlias mirrors RuleFile's YAML shape but keeps both possible names
// for the metric-rule array as plain fields so UnmarshalYAML can pick
// whichever was actually set.
type ruleFileAlias struct {
	MetricPrefix string       `yaml:"metricPrefix"`
	ExpPrefix    string       `yaml:"expPrefix"`
	ExpSuffix    string       `yaml:"expSuffix"`
	Filter       string       `yaml:"filter"`
	InitExp      string       `yaml:"initExp"`
	MetricsRules []MetricRule `yaml:"metricsRules"`
	Metrics      []MetricRule `yaml:"metrics"`
}

// UnmarshalYAML accepts either `metricsRules` (the default dialect) or
// `metrics` (the zabbix-rules dialect) for the rule array.
func (f *RuleFile) UnmarshalYAML(value *yaml.Node) error {
	var a ruleFileAlias
	if err := value.Decode(&a); err != nil {
		return errors.Wrap(err, "decoding rule file")
	}
	f.MetricPrefix = a.MetricPrefix
	f.ExpPrefix = a.ExpPrefix
	f.ExpSuffix = a.ExpSuffix
	f.Filter = a.Filter
	f.InitExp = a.InitExp
	switch {
	case len(a.MetricsRules) > 0:
		f.MetricsRules = a.MetricsRules
	case len(a.Metrics) > 0:
		f.MetricsRules = a.Metrics
	}
	return nil
}

// ParseRuleFile decodes one rule-file document, failing fast on the first
// rule-load error rather than starting with a partially valid rule set.
func ParseRuleFile(path string, data []byte) (*RuleFile, error) {
	var f RuleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrapf(err, "parsing rule file %q", path)
	}
	if f.MetricPrefix == "" {
		return nil, errors.Errorf("rule file %q: metricPrefix is required", path)
	}
	f.Path = path
	return &f, nil
}
