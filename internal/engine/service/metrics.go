// Copyright 2025 Arcentra Authors.
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

package service

import "github.com/prometheus/client_golang/prometheus"

const metricsNamespace = "e2epulse"

var (
	manualRunTriggers = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "manual_run_triggers_total",
			Help:      "Manual run trigger attempts by result.",
		},
		[]string{"result"},
	)

	statusCheckFailOpen = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "manual_run_status_check_failopen_total",
			Help:      "CI status checks that failed and let the trigger proceed.",
		},
	)

	reportGenerations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "report_generation_total",
			Help:      "Report generations by result.",
		},
		[]string{"result"},
	)

	reportGenerationRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "report_generation_requests_total",
			Help:      "Report generation requests by result (published, suppressed, error).",
		},
		[]string{"result"},
	)
)

// Collectors returns the domain collectors for registration on the metrics server.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		manualRunTriggers,
		statusCheckFailOpen,
		reportGenerations,
		reportGenerationRequests,
	}
}
