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

package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcentrix/e2epulse/internal/engine/config"
)

type recordingRequester struct {
	mu    sync.Mutex
	dates []string
	err   error
}

func (r *recordingRequester) RequestGeneration(_ context.Context, date string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dates = append(r.dates, date)
	return r.err
}

func (r *recordingRequester) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.dates)
}

func TestReconcileRequestsTodayInUTC(t *testing.T) {
	req := &recordingRequester{}
	s := NewScheduler(req, config.ReportConfig{})
	s.now = func() time.Time {
		return time.Date(2025, 10, 8, 23, 30, 0, 0, time.FixedZone("UTC-5", -5*3600))
	}
	s.reconcile()

	req.err = errors.New("broker down")
	s.reconcile()

	assert.Equal(t, []string{"2025-10-09", "2025-10-09"}, req.dates)
}

func TestStartDisabledAndInvalid(t *testing.T) {
	s := NewScheduler(&recordingRequester{}, config.ReportConfig{})
	require.NoError(t, s.Start())
	s.Stop()

	s = NewScheduler(&recordingRequester{}, config.ReportConfig{Cron: "not a cron"})
	assert.Error(t, s.Start())
}

func TestStartRunsJob(t *testing.T) {
	req := &recordingRequester{}
	s := NewScheduler(req, config.ReportConfig{Cron: "* * * * * *"})
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool { return req.count() > 0 }, 3*time.Second, 50*time.Millisecond)
}
