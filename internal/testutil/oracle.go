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

// Package testutil holds fixtures shared across the MAL packages' tests: a
// deterministic fake K8s oracle and sample/family builders, so tests never
// need a real cluster or a real clock.
package testutil

import "github.com/GoogleCloudPlatform/prometheus-engine/mal/pkg/mal/retag"

// FakeOracle is a deterministic, in-memory retag.Oracle for tests: the
// oracle sits behind an interface precisely so tests can inject a
// deterministic implementation instead of a real cluster.
type FakeOracle struct {
	PodsByIP   map[string]retag.Pod
	PodsByName map[[2]string]retag.Pod
	Services   map[string]retag.Service
}

// NewFakeOracle returns an empty FakeOracle ready for its maps to be filled
// in by a test.
func NewFakeOracle() *FakeOracle {
	return &FakeOracle{
		PodsByIP:   map[string]retag.Pod{},
		PodsByName: map[[2]string]retag.Pod{},
		Services:   map[string]retag.Service{},
	}
}

func (o *FakeOracle) PodByIP(ip string) (retag.Pod, bool) {
	p, ok := o.PodsByIP[ip]
	return p, ok
}

func (o *FakeOracle) PodByName(name, namespace string) (retag.Pod, bool) {
	p, ok := o.PodsByName[[2]string{name, namespace}]
	return p, ok
}

func (o *FakeOracle) ServiceByObjectID(objectID string) (retag.Service, bool) {
	s, ok := o.Services[objectID]
	return s, ok
}
