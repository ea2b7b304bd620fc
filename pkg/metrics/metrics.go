// Copyright 2025 Steward Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthzDecisions counts allow/deny outcomes per capability. The deny
	// label carries the error kind so isolation violations stand out.
	AuthzDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "steward",
		Name:      "authz_decisions_total",
		Help:      "Authorization decisions by capability and outcome.",
	}, []string{"capability", "outcome"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "steward",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method and status.",
	}, []string{"method", "path", "status"})
)

// ObserveDecision records one authorization decision.
func ObserveDecision(capability, outcome string) {
	AuthzDecisions.WithLabelValues(capability, outcome).Inc()
}
