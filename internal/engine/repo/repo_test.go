package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arcentrix/e2epulse/internal/engine/model"
	"github.com/arcentrix/e2epulse/internal/engine/repo/repotest"
	"github.com/arcentrix/e2epulse/pkg/cache"
	"github.com/arcentrix/e2epulse/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/datatypes"
)

func newRepos(t *testing.T) *Repositories {
	return NewRepositories(repotest.NewDB(t), cache.NewMemoryCache())
}

func TestApplicationRepo(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)

	app := &model.Application{Code: "checkout", Name: "Checkout", Watching: true,
		TriggerConfiguration: datatypes.JSON(`{"branch":"main"}`)}
	require.NoError(t, repos.Application.Create(ctx, app))
	require.NotZero(t, app.Id)

	got, err := repos.Application.Get(ctx, app.Id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "checkout", got.Code)
	assert.True(t, got.CanTrigger())

	// cached read must observe updates after invalidation
	require.NoError(t, repos.Application.Update(ctx, app.Id, map[string]any{"name": "Checkout v2", "code": "ignored"}))
	got, err = repos.Application.Get(ctx, app.Id)
	require.NoError(t, err)
	assert.Equal(t, "Checkout v2", got.Name)
	assert.Equal(t, "checkout", got.Code)

	byCode, err := repos.Application.GetByCode(ctx, "checkout")
	require.NoError(t, err)
	assert.Equal(t, app.Id, byCode.Id)

	require.NoError(t, repos.Application.Create(ctx, &model.Application{Code: "search"}))
	watching := true
	list, err := repos.Application.List(ctx, &watching)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	all, err := repos.Application.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	m, err := repos.Application.GetByIds(ctx, []uint64{app.Id, 999})
	require.NoError(t, err)
	assert.Len(t, m, 1)

	require.NoError(t, repos.Application.Delete(ctx, app.Id))
	got, err = repos.Application.Get(ctx, app.Id)
	require.NoError(t, err)
	assert.Nil(t, got)
}

// delFailingCache loses its connection on delete.
type delFailingCache struct {
	cache.ICache
}

func (delFailingCache) Del(context.Context, ...string) error {
	return errors.New("connection reset")
}

func TestApplicationRepoLogsFailedInvalidation(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	prev := log.GetLogger()
	log.SetLogger(zap.New(core).Sugar())
	defer log.SetLogger(prev)

	repos := NewRepositories(repotest.NewDB(t), delFailingCache{ICache: cache.NewMemoryCache()})
	ctx := context.Background()
	app := &model.Application{Code: "checkout", Name: "Checkout"}
	require.NoError(t, repos.Application.Create(ctx, app))

	require.NoError(t, repos.Application.Update(ctx, app.Id, map[string]any{"name": "Checkout v2"}))

	warned := logs.FilterMessage("application cache invalidation failed").All()
	require.Len(t, warned, 1)
	assert.Equal(t, app.Id, warned[0].ContextMap()["applicationId"])
}

func TestApplicationRepoDuplicateCode(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)
	require.NoError(t, repos.Application.Create(ctx, &model.Application{Code: "dup"}))
	assert.Error(t, repos.Application.Create(ctx, &model.Application{Code: "dup"}))
}

func TestManualRunRepoNewestFirst(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)

	latest, err := repos.ManualRun.GetLatest(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, latest)

	base := time.Date(2025, 10, 8, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"p1", "p2", "p3"} {
		run := &model.ManualRun{ApplicationId: 1, ExternalPipelineId: id}
		run.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, repos.ManualRun.Create(ctx, run))
	}
	other := &model.ManualRun{ApplicationId: 2, ExternalPipelineId: "q1"}
	other.CreatedAt = base.Add(-24 * time.Hour)
	require.NoError(t, repos.ManualRun.Create(ctx, other))

	latest, err = repos.ManualRun.GetLatest(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "p3", latest.ExternalPipelineId)

	runs, err := repos.ManualRun.List(ctx, 1, base, base.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "p2", runs[0].ExternalPipelineId)
	assert.Equal(t, "p1", runs[1].ExternalPipelineId)

	day := time.Date(2025, 10, 8, 0, 0, 0, 0, time.UTC)
	grouped, err := repos.ManualRun.ListByApplications(ctx, []uint64{1, 2}, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, grouped[1], 3)
	assert.Empty(t, grouped[2])
}

func TestManualRunRepoSameTimestampUsesId(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)
	ts := time.Date(2025, 10, 8, 9, 0, 0, 0, time.UTC)
	for _, id := range []string{"a", "b"} {
		run := &model.ManualRun{ApplicationId: 1, ExternalPipelineId: id}
		run.CreatedAt = ts
		require.NoError(t, repos.ManualRun.Create(ctx, run))
	}
	latest, err := repos.ManualRun.GetLatest(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "b", latest.ExternalPipelineId)
}

func TestReportRepoLifecycle(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)

	s, err := repos.Report.GetSummaryByDate(ctx, "2025-10-08")
	require.NoError(t, err)
	assert.Nil(t, s)

	details := []*model.ReportDetail{
		{ApplicationId: 1, TotalRuns: 10, PassedRuns: 9, FailedRuns: 1, SuccessRate: 0.9},
		{ApplicationId: 2, TotalRuns: 2, PassedRuns: 2, SuccessRate: 1},
	}
	s, err = repos.Report.SaveReport(ctx, "2025-10-08", SummaryTotals{TotalRuns: 12, PassedRuns: 11, FailedRuns: 1, SuccessRate: 11.0 / 12}, details)
	require.NoError(t, err)
	require.NotZero(t, s.Id)
	assert.Equal(t, model.ReportStatusReady, s.Status)
	assert.EqualValues(t, 12, s.TotalRuns)

	require.NoError(t, repos.Report.UpdateSummaryStatus(ctx, s.Id, model.ReportStatusPending))
	pending, err := repos.Report.GetSummary(ctx, s.Id)
	require.NoError(t, err)
	assert.Equal(t, model.ReportStatusPending, pending.Status)
	assert.EqualValues(t, 12, pending.TotalRuns)

	// regenerating keeps the id and drops stale details
	again, err := repos.Report.SaveReport(ctx, "2025-10-08", SummaryTotals{TotalRuns: 1, PassedRuns: 1, SuccessRate: 1},
		[]*model.ReportDetail{{ApplicationId: 1, TotalRuns: 1, PassedRuns: 1, SuccessRate: 1}})
	require.NoError(t, err)
	assert.Equal(t, s.Id, again.Id)
	assert.Equal(t, model.ReportStatusReady, again.Status)
	assert.EqualValues(t, 1, again.TotalRuns)
	list, err := repos.Report.ListDetails(ctx, s.Id)
	require.NoError(t, err)
	require.Len(t, list, 1)

	d, err := repos.Report.GetDetail(ctx, s.Id, 1)
	require.NoError(t, err)
	d.TotalRuns, d.PassedRuns, d.FailedRuns, d.SuccessRate = 0, 0, 0, 0
	require.NoError(t, repos.Report.SaveDetail(ctx, d))
	d, err = repos.Report.GetDetail(ctx, s.Id, 1)
	require.NoError(t, err)
	assert.Zero(t, d.TotalRuns)

	missing, err := repos.Report.GetDetail(ctx, s.Id, 42)
	require.NoError(t, err)
	assert.Nil(t, missing)

	ok, err := repos.Report.DeleteByDate(ctx, "2025-10-08")
	require.NoError(t, err)
	assert.True(t, ok)
	list, _ = repos.Report.ListDetails(ctx, s.Id)
	assert.Empty(t, list)
	ok, err = repos.Report.DeleteByDate(ctx, "2025-10-08")
	require.NoError(t, err)
	assert.False(t, ok)
}
