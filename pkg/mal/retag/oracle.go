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

// Package retag implements the retagByK8sMeta label join: a pure function
// of a sample family and a pluggable, read-only K8s metadata oracle. The
// engine never performs network I/O itself -- callers supply an Oracle
// implementation backed by whatever locally cached accessor they want (an
// informer cache, a polling client, a test fixture).
package retag

// Pod is the subset of K8s pod metadata the retag rules consult.
type Pod struct {
	Name      string
	Namespace string
	IP        string
	ServiceID string
}

// Service is the subset of K8s service metadata the retag rules consult.
type Service struct {
	ObjectID string
	Name     string
}

// Oracle is the pluggable K8s metadata lookup the engine joins samples
// against. Implementations must be non-blocking: the oracle owns its cache
// and refresh cycle, the engine only ever reads from it.
type Oracle interface {
	// PodByIP looks up a pod by its cluster IP. ok is false if unknown.
	PodByIP(ip string) (Pod, bool)
	// PodByName looks up a pod by (name, namespace). ok is false if unknown.
	PodByName(name, namespace string) (Pod, bool)
	// ServiceByObjectID looks up a service by its K8s object id. ok is false
	// if unknown.
	ServiceByObjectID(objectID string) (Service, bool)
}
