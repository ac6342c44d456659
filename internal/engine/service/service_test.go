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

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/arcentrix/e2epulse/internal/engine/config"
	"github.com/arcentrix/e2epulse/internal/engine/model"
	"github.com/arcentrix/e2epulse/internal/engine/repo"
	"github.com/arcentrix/e2epulse/internal/engine/repo/repotest"
	"github.com/arcentrix/e2epulse/pkg/cache"
	"github.com/arcentrix/e2epulse/pkg/ci"
	"github.com/arcentrix/e2epulse/pkg/mq"
	"github.com/arcentrix/e2epulse/pkg/queue"
	"github.com/arcentrix/e2epulse/pkg/testreport"
)

const testSlug = "gh/acme/e2e"

type ciMock struct {
	mock.Mock
}

func (m *ciMock) Kind() ci.ProviderKind { return ci.ProviderKindCircleCI }

func (m *ciMock) DefaultProjectSlug() string { return testSlug }

func (m *ciMock) StartPipeline(ctx context.Context, tc ci.TriggerConfig) (*ci.Pipeline, error) {
	args := m.Called(ctx, tc)
	p, _ := args.Get(0).(*ci.Pipeline)
	return p, args.Error(1)
}

func (m *ciMock) GetLatestWorkflow(ctx context.Context, pipelineID string) (*ci.Workflow, error) {
	args := m.Called(ctx, pipelineID)
	wf, _ := args.Get(0).(*ci.Workflow)
	return wf, args.Error(1)
}

type statsMock struct {
	mock.Mock
}

func (m *statsMock) GetDailyStats(ctx context.Context, date string, ids []uint64) ([]testreport.DailyStat, error) {
	args := m.Called(ctx, date, ids)
	s, _ := args.Get(0).([]testreport.DailyStat)
	return s, args.Error(1)
}

// failingBroker rejects every publish.
type failingBroker struct{}

func (failingBroker) Publish(context.Context, string, string, []byte, map[string]string) error {
	return errors.New("broker unavailable")
}

func (failingBroker) Subscribe(context.Context, string, mq.Handler) error { return nil }

func (failingBroker) Close() error { return nil }

// stallingBroker never acknowledges a publish; it returns when ctx ends.
type stallingBroker struct{}

func (stallingBroker) Publish(ctx context.Context, _, _ string, _ []byte, _ map[string]string) error {
	<-ctx.Done()
	return ctx.Err()
}

func (stallingBroker) Subscribe(context.Context, string, mq.Handler) error { return nil }

func (stallingBroker) Close() error { return nil }

type fixture struct {
	repos  *repo.Repositories
	cache  cache.ICache
	broker *queue.MemoryBroker
	ci     *ciMock
	stats  *statsMock
	svc    *Services
}

type fixtureOption func(*config.OrchestratorConfig, *config.ReportConfig)

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()
	f := &fixture{
		cache:  cache.NewMemoryCache(),
		broker: queue.NewMemoryBroker(64, queue.WithPublishLog()),
		ci:     &ciMock{},
		stats:  &statsMock{},
	}
	f.repos = repo.NewRepositories(repotest.NewDB(t), f.cache)

	orch := config.OrchestratorConfig{StatusCheckTimeout: time.Second}
	rep := config.ReportConfig{}
	for _, o := range opts {
		o(&orch, &rep)
	}
	f.svc = NewServices(f.repos, f.ci, f.stats, f.broker, f.cache, orch, rep)
	return f
}

func (f *fixture) app(t *testing.T, code, trigger string) *model.Application {
	t.Helper()
	a := &model.Application{Code: code, Name: code}
	if trigger != "" {
		a.TriggerConfiguration = datatypes.JSON(trigger)
	}
	require.NoError(t, f.repos.Application.Create(context.Background(), a))
	return a
}

func (f *fixture) run(t *testing.T, appId uint64, pipelineId string) *model.ManualRun {
	t.Helper()
	r := &model.ManualRun{ApplicationId: appId, ExternalPipelineId: pipelineId}
	require.NoError(t, f.repos.ManualRun.Create(context.Background(), r))
	return r
}

func (f *fixture) runCount(t *testing.T, appId uint64) int {
	t.Helper()
	runs, err := f.repos.ManualRun.List(context.Background(), appId, time.Time{}, time.Time{})
	require.NoError(t, err)
	return len(runs)
}
