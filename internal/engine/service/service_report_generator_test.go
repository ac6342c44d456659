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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/arcentrix/e2epulse/internal/engine/model"
	"github.com/arcentrix/e2epulse/internal/engine/repo"
	"github.com/arcentrix/e2epulse/pkg/testreport"
)

func TestGenerateStoresSummaryAndDetails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.app(t, "checkout", "")
	b := f.app(t, "search", "")

	f.stats.On("GetDailyStats", mock.Anything, "2025-10-08", []uint64{a.Id, b.Id}).Return([]testreport.DailyStat{
		{ApplicationID: a.Id, TotalRuns: 10, PassedRuns: 9, FailedRuns: 1, SuccessRate: 0.9},
		{ApplicationID: b.Id, TotalRuns: 5, PassedRuns: 3, FailedRuns: 2, SuccessRate: 0.6},
		{ApplicationID: 999, TotalRuns: 100, PassedRuns: 0, FailedRuns: 100},
	}, nil).Twice()

	s, err := f.svc.Generator.Generate(ctx, "2025-10-08")
	require.NoError(t, err)
	assert.Equal(t, model.ReportStatusReady, s.Status)
	assert.EqualValues(t, 15, s.TotalRuns)
	assert.EqualValues(t, 12, s.PassedRuns)
	assert.EqualValues(t, 3, s.FailedRuns)
	assert.InDelta(t, 0.8, s.SuccessRate, 1e-9)

	details, err := f.repos.Report.ListDetails(ctx, s.Id)
	require.NoError(t, err)
	require.Len(t, details, 2)

	// redelivery overwrites the same rows
	again, err := f.svc.Generator.Generate(ctx, "2025-10-08")
	require.NoError(t, err)
	assert.Equal(t, s.Id, again.Id)
	details, err = f.repos.Report.ListDetails(ctx, s.Id)
	require.NoError(t, err)
	assert.Len(t, details, 2)
	f.stats.AssertExpectations(t)
}

func TestGenerateWithoutApplications(t *testing.T) {
	f := newFixture(t)
	s, err := f.svc.Generator.Generate(context.Background(), "2025-10-08")
	require.NoError(t, err)
	assert.Equal(t, model.ReportStatusReady, s.Status)
	assert.Zero(t, s.TotalRuns)
	assert.Zero(t, s.SuccessRate)
	f.stats.AssertNotCalled(t, "GetDailyStats", mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateFailureWithoutSummaryDropsRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.app(t, "checkout", "")
	f.stats.On("GetDailyStats", mock.Anything, "2025-10-08", []uint64{a.Id}).Return(nil, errors.New("503")).Once()

	_, err := f.svc.Generator.Generate(ctx, "2025-10-08")
	assert.ErrorIs(t, err, ErrExternalService)

	s, err := f.repos.Report.GetSummaryByDate(ctx, "2025-10-08")
	require.NoError(t, err)
	assert.Nil(t, s)

	// the next read publishes again
	r, err := f.svc.Report.GetReport(ctx, "2025-10-08")
	require.NoError(t, err)
	assert.True(t, r.Pending())
	assert.Len(t, f.broker.Published(reportTopic), 1)
}

func TestGenerateFailureMarksExistingSummaryFailed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.app(t, "checkout", "")
	f.stats.On("GetDailyStats", mock.Anything, "2025-10-08", []uint64{a.Id}).Return([]testreport.DailyStat{
		{ApplicationID: a.Id, TotalRuns: 4, PassedRuns: 4, SuccessRate: 1},
	}, nil).Once()
	first, err := f.svc.Generator.Generate(ctx, "2025-10-08")
	require.NoError(t, err)

	f.stats.On("GetDailyStats", mock.Anything, "2025-10-08", []uint64{a.Id}).Return(nil, errors.New("503")).Once()
	_, err = f.svc.Generator.Generate(ctx, "2025-10-08")
	assert.ErrorIs(t, err, ErrExternalService)

	s, err := f.repos.Report.GetSummary(ctx, first.Id)
	require.NoError(t, err)
	assert.Equal(t, model.ReportStatusFailed, s.Status)
	assert.EqualValues(t, 4, s.TotalRuns)

	r, err := f.svc.Report.GetReport(ctx, "2025-10-08")
	require.NoError(t, err)
	assert.False(t, r.Pending())
	assert.Equal(t, model.ReportStatusFailed, r.Status)
}

func TestGenerateRejectsBadDate(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Generator.Generate(context.Background(), "yesterday")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAggregate(t *testing.T) {
	registered := map[uint64]struct{}{1: {}, 2: {}}
	details, totals := aggregate([]testreport.DailyStat{
		{ApplicationID: 1, TotalRuns: 3, PassedRuns: 1, FailedRuns: 2},
		{ApplicationID: 1, TotalRuns: 50, PassedRuns: 50},
		{ApplicationID: 2, TotalRuns: 1, PassedRuns: 1},
		{ApplicationID: 3, TotalRuns: 9, PassedRuns: 9},
	}, registered)
	require.Len(t, details, 2)
	assert.EqualValues(t, 4, totals.TotalRuns)
	assert.EqualValues(t, 2, totals.PassedRuns)
	assert.EqualValues(t, 2, totals.FailedRuns)
	assert.InDelta(t, 0.5, totals.SuccessRate, 1e-9)
}

// pendingFlipFails rejects only the transition to pending.
type pendingFlipFails struct {
	repo.IReportRepository
}

func (p pendingFlipFails) UpdateSummaryStatus(ctx context.Context, id uint64, status string) error {
	if status == model.ReportStatusPending {
		return errors.New("lock wait timeout")
	}
	return p.IReportRepository.UpdateSummaryStatus(ctx, id, status)
}

func TestGenerateMarksSummaryFailedWhenPendingFlipFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prev, err := f.svc.Generator.Generate(ctx, "2025-10-08")
	require.NoError(t, err)
	require.Equal(t, model.ReportStatusReady, prev.Status)

	repos := *f.repos
	repos.Report = pendingFlipFails{IReportRepository: f.repos.Report}
	gen := NewReportGenerator(&repos, f.stats)

	_, err = gen.Generate(ctx, "2025-10-08")
	assert.ErrorIs(t, err, ErrDatabase)

	stored, err := f.repos.Report.GetSummaryByDate(ctx, "2025-10-08")
	require.NoError(t, err)
	assert.Equal(t, prev.Id, stored.Id)
	assert.Equal(t, model.ReportStatusFailed, stored.Status)
	f.stats.AssertNotCalled(t, "GetDailyStats", mock.Anything, mock.Anything, mock.Anything)
}
