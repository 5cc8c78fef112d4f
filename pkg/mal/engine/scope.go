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
	"github.com/GoogleCloudPlatform/prometheus-engine/mal/pkg/mal/model"
)

// EmittedSample pairs a bound entity with the sample it was derived from.
type EmittedSample struct {
	Entity model.MeterEntity
	Sample model.Sample
}

// scopeService binds each sample to a Service entity. A sample missing any
// of the given keys is silently skipped: if the scope operator has no
// input sample to bind to, nothing is emitted.
func scopeService(f *model.SampleFamily, keys []string, layer string) []EmittedSample {
	var out []EmittedSample
	for _, s := range f.Samples {
		name, ok := joinValues(s.Labels, keys)
		if !ok {
			continue
		}
		e := model.NewServiceEntity(layer, name)
		if e.Valid() {
			out = append(out, EmittedSample{Entity: e, Sample: s})
		}
	}
	return out
}

func scopeInstance(f *model.SampleFamily, svcKeys, instKeys []string, layer string) []EmittedSample {
	var out []EmittedSample
	for _, s := range f.Samples {
		svc, ok1 := joinValues(s.Labels, svcKeys)
		inst, ok2 := joinValues(s.Labels, instKeys)
		if !ok1 || !ok2 {
			continue
		}
		e := model.NewInstanceEntity(layer, svc, inst)
		if e.Valid() {
			out = append(out, EmittedSample{Entity: e, Sample: s})
		}
	}
	return out
}

func scopeEndpoint(f *model.SampleFamily, svcKeys, epKeys []string, layer string) []EmittedSample {
	var out []EmittedSample
	for _, s := range f.Samples {
		svc, ok1 := joinValues(s.Labels, svcKeys)
		ep, ok2 := joinValues(s.Labels, epKeys)
		if !ok1 || !ok2 {
			continue
		}
		e := model.NewEndpointEntity(layer, svc, ep)
		if e.Valid() {
			out = append(out, EmittedSample{Entity: e, Sample: s})
		}
	}
	return out
}

func scopeServiceRelation(f *model.SampleFamily, detectPoint string, srcKeys, destKeys []string, layer string) []EmittedSample {
	var out []EmittedSample
	for _, s := range f.Samples {
		src, ok1 := joinValues(s.Labels, srcKeys)
		dest, ok2 := joinValues(s.Labels, destKeys)
		if !ok1 || !ok2 {
			continue
		}
		e := model.NewServiceRelationEntity(detectPoint, layer, src, layer, dest)
		if e.Valid() {
			out = append(out, EmittedSample{Entity: e, Sample: s})
		}
	}
	return out
}

func scopeProcessRelation(f *model.SampleFamily, sideKey string, svcKeys, instKeys []string, srcProcKey, destProcKey, componentKey string) []EmittedSample {
	var out []EmittedSample
	for _, s := range f.Samples {
		svc, ok1 := joinValues(s.Labels, svcKeys)
		inst, ok2 := joinValues(s.Labels, instKeys)
		srcProc := s.Labels.Get(srcProcKey)
		destProc := s.Labels.Get(destProcKey)
		component := s.Labels.Get(componentKey)
		side := s.Labels.Get(sideKey)
		if !ok1 || !ok2 || srcProc == "" || destProc == "" {
			continue
		}
		e := model.NewProcessRelationEntity(svc, inst, component, srcProc, destProc, side)
		if e.Valid() {
			out = append(out, EmittedSample{Entity: e, Sample: s})
		}
	}
	return out
}

// joinValues concatenates the values of the given label keys with a
// separator, used to build composite entity name components (e.g. a service
// name derived from more than one label). ok is false if any key is absent:
// absence of a scope label is a non-fatal condition, handled by the caller
// skipping emission for that sample.
func joinValues(lset model.Labels, keys []string) (string, bool) {
	if len(keys) == 0 {
		return "", false
	}
	out := ""
	for i, k := range keys {
		if !lset.Has(k) {
			return "", false
		}
		if i > 0 {
			out += "."
		}
		out += lset.Get(k)
	}
	return out, true
}
