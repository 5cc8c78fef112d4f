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
	"regexp"

	"github.com/pkg/errors"

	"github.com/GoogleCloudPlatform/prometheus-engine/mal/pkg/mal/model"
)

// tagEqual/tagNotEqual/tagMatch/tagNotMatch/valueEqual implement the filter
// family. All are pure predicates over one sample; a missing tag key reads
// as the empty string, same as labels.Labels.Get.

func tagEqual(f *model.SampleFamily, key, value string) *model.SampleFamily {
	return f.Filter(func(s model.Sample) bool { return s.Labels.Get(key) == value })
}

func tagNotEqual(f *model.SampleFamily, key, value string) *model.SampleFamily {
	return f.Filter(func(s model.Sample) bool { return s.Labels.Get(key) != value })
}

func tagMatch(f *model.SampleFamily, key, pattern string) (*model.SampleFamily, error) {
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return nil, errors.Wrapf(err, "mal: invalid tagMatch pattern %q", pattern)
	}
	return f.Filter(func(s model.Sample) bool { return re.MatchString(s.Labels.Get(key)) }), nil
}

func tagNotMatch(f *model.SampleFamily, key, pattern string) (*model.SampleFamily, error) {
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return nil, errors.Wrapf(err, "mal: invalid tagNotMatch pattern %q", pattern)
	}
	return f.Filter(func(s model.Sample) bool { return !re.MatchString(s.Labels.Get(key)) }), nil
}

func valueEqual(f *model.SampleFamily, value float64) *model.SampleFamily {
	return f.Filter(func(s model.Sample) bool { return s.Value == value })
}
