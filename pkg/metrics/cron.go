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

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	cronJobRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "e2epulse",
		Subsystem: "cron",
		Name:      "job_runs_total",
		Help:      "Scheduled job executions by result.",
	}, []string{"job", "result"})

	cronJobDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "e2epulse",
		Subsystem: "cron",
		Name:      "job_duration_seconds",
		Help:      "Scheduled job duration.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"job"})
)

// SetupCronMetrics registers the scheduled-job collectors.
func SetupCronMetrics(s *Server) {
	s.Register(cronJobRuns, cronJobDuration)
}

// ObserveCronJob records one job execution started at start.
func ObserveCronJob(job string, start time.Time, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	cronJobRuns.WithLabelValues(job, result).Inc()
	cronJobDuration.WithLabelValues(job).Observe(time.Since(start).Seconds())
}
