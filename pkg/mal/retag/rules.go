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

package retag

import (
	"github.com/prometheus/prometheus/model/labels"
)

// Rule is one of the small closed set of retag strategies. Each specifies
// which label names on the input sample are consulted and how the oracle's
// answer populates the new label.
type Rule string

const (
	// Pod2Service resolves a pod identifier (either a single IP label, or a
	// (name, namespace) label pair) to the name of the K8s service backing
	// that pod.
	Pod2Service Rule = "Pod2Service"
	// Service2Pod resolves a pod IP label to the name of the pod itself,
	// used when a sample is labeled from the service's point of view but
	// needs the originating pod's identity.
	Service2Pod Rule = "Service2Pod"
)

// Apply resolves newKey's value for the given rule, sample labels and input
// key names. It never errors: a miss at any step of the join yields an empty
// string, which a subsequent tagNotEqual(newKey, '') filter is expected to
// drop.
func Apply(rule Rule, lset labels.Labels, inputKeys []string, oracle Oracle) string {
	if oracle == nil {
		return ""
	}
	switch rule {
	case Pod2Service:
		pod, ok := lookupPod(lset, inputKeys, oracle)
		if !ok {
			return ""
		}
		svc, ok := oracle.ServiceByObjectID(pod.ServiceID)
		if !ok {
			return ""
		}
		return svc.Name

	case Service2Pod:
		if len(inputKeys) != 1 {
			return ""
		}
		pod, ok := oracle.PodByIP(lset.Get(inputKeys[0]))
		if !ok {
			return ""
		}
		return pod.Name

	default:
		return ""
	}
}

func lookupPod(lset labels.Labels, inputKeys []string, oracle Oracle) (Pod, bool) {
	switch len(inputKeys) {
	case 1:
		return oracle.PodByIP(lset.Get(inputKeys[0]))
	case 2:
		return oracle.PodByName(lset.Get(inputKeys[0]), lset.Get(inputKeys[1]))
	default:
		return Pod{}, false
	}
}
