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

// Package scheduler periodically asks the worker to refresh today's report.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron"

	"github.com/arcentrix/e2epulse/internal/engine/config"
	"github.com/arcentrix/e2epulse/pkg/log"
	"github.com/arcentrix/e2epulse/pkg/metrics"
)

const reconcileJob = "report_reconcile"

// Requester publishes a generation request for a date.
type Requester interface {
	RequestGeneration(ctx context.Context, date string) error
}

type Scheduler struct {
	cron      *cron.Cron
	requester Requester
	spec      string
	timeout   time.Duration
	now       func() time.Time

	mu      sync.Mutex
	running bool
}

func NewScheduler(requester Requester, conf config.ReportConfig) *Scheduler {
	return &Scheduler{
		cron:      cron.NewWithLocation(time.UTC),
		requester: requester,
		spec:      conf.Cron,
		timeout:   30 * time.Second,
		now:       time.Now,
	}
}

// Start registers the reconcile job. An empty spec disables scheduling.
func (s *Scheduler) Start() error {
	if s.spec == "" {
		log.Infow("report reconcile schedule disabled")
		return nil
	}
	if err := s.cron.AddFunc(s.spec, s.reconcile); err != nil {
		return fmt.Errorf("invalid report cron %q: %w", s.spec, err)
	}
	s.mu.Lock()
	s.running = true
	s.mu.Unlock()
	s.cron.Start()
	log.Infow("report reconcile scheduled", "cron", s.spec)
	return nil
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		s.cron.Stop()
		s.running = false
	}
}

func (s *Scheduler) reconcile() {
	start := time.Now()
	date := s.now().UTC().Format("2006-01-02")
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	err := s.requester.RequestGeneration(ctx, date)
	metrics.ObserveCronJob(reconcileJob, start, err)
	if err != nil {
		log.Errorw("report reconcile failed", "date", date, "error", err)
		return
	}
	log.Debugw("report reconcile requested", "date", date)
}
