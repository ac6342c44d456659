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
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/arcentrix/e2epulse/internal/engine/model"
	"github.com/arcentrix/e2epulse/internal/engine/repo"
	"github.com/arcentrix/e2epulse/pkg/log"
	"github.com/arcentrix/e2epulse/pkg/testreport"
	"github.com/arcentrix/e2epulse/pkg/trace"
	tracectx "github.com/arcentrix/e2epulse/pkg/trace/context"
)

// ReportGenerator builds the daily report from the source-of-truth stats.
// Generating the same date twice overwrites the previous result.
type ReportGenerator struct {
	reportRepo repo.IReportRepository
	appRepo    repo.IApplicationRepository
	stats      testreport.Client
	tracer     oteltrace.Tracer
}

func NewReportGenerator(repos *repo.Repositories, stats testreport.Client) *ReportGenerator {
	return &ReportGenerator{
		reportRepo: repos.Report,
		appRepo:    repos.Application,
		stats:      stats,
		tracer:     trace.Tracer("e2epulse/service/report"),
	}
}

// Generate fetches the stats of every registered application for date and
// stores the summary with its details. On failure an existing summary is
// marked failed; when none existed nothing is written.
func (g *ReportGenerator) Generate(ctx context.Context, date string) (summary *model.ReportSummary, err error) {
	ctx, span := g.tracer.Start(ctx, "ReportGenerator.Generate",
		oteltrace.WithAttributes(attribute.String("report.date", date)))
	defer tracectx.Bind(ctx)()
	defer func() {
		result := "ready"
		if err != nil {
			result = "failed"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		reportGenerations.WithLabelValues(result).Inc()
		span.End()
	}()

	if _, err := ParseDate(date); err != nil {
		return nil, err
	}

	existing, err := g.reportRepo.GetSummaryByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	if existing != nil && existing.Status != model.ReportStatusPending {
		if err := g.reportRepo.UpdateSummaryStatus(ctx, existing.Id, model.ReportStatusPending); err != nil {
			err = fmt.Errorf("%w: %v", ErrDatabase, err)
			g.markFailed(ctx, date, existing, err)
			return nil, err
		}
	}

	summary, err = g.build(ctx, date)
	if err != nil {
		g.markFailed(ctx, date, existing, err)
		return nil, err
	}
	log.Infow("report generated",
		"date", date,
		"summaryId", summary.Id,
		"totalRuns", summary.TotalRuns,
		"successRate", summary.SuccessRate)
	return summary, nil
}

func (g *ReportGenerator) build(ctx context.Context, date string) (*model.ReportSummary, error) {
	apps, err := g.appRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	registered := make(map[uint64]struct{}, len(apps))
	ids := make([]uint64, 0, len(apps))
	for _, a := range apps {
		registered[a.Id] = struct{}{}
		ids = append(ids, a.Id)
	}

	var stats []testreport.DailyStat
	if len(ids) > 0 {
		stats, err = g.stats.GetDailyStats(ctx, date, ids)
		if err != nil {
			return nil, external(err, "fetch daily stats")
		}
	}

	details, totals := aggregate(stats, registered)
	summary, err := g.reportRepo.SaveReport(ctx, date, totals, details)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return summary, nil
}

// aggregate keeps one detail per registered application and sums the totals.
func aggregate(stats []testreport.DailyStat, registered map[uint64]struct{}) ([]*model.ReportDetail, repo.SummaryTotals) {
	var totals repo.SummaryTotals
	seen := make(map[uint64]struct{}, len(stats))
	details := make([]*model.ReportDetail, 0, len(stats))
	for i := range stats {
		st := &stats[i]
		if _, ok := registered[st.ApplicationID]; !ok {
			continue
		}
		if _, dup := seen[st.ApplicationID]; dup {
			continue
		}
		seen[st.ApplicationID] = struct{}{}

		d := &model.ReportDetail{}
		applyStat(d, st)
		details = append(details, d)

		totals.TotalRuns += st.TotalRuns
		totals.PassedRuns += st.PassedRuns
		totals.FailedRuns += st.FailedRuns
	}
	if totals.TotalRuns > 0 {
		totals.SuccessRate = float64(totals.PassedRuns) / float64(totals.TotalRuns)
	}
	return details, totals
}

func (g *ReportGenerator) markFailed(ctx context.Context, date string, existing *model.ReportSummary, cause error) {
	if existing == nil {
		log.Warnw("report generation failed, request dropped", "date", date, "error", cause)
		return
	}
	if err := g.reportRepo.UpdateSummaryStatus(context.WithoutCancel(ctx), existing.Id, model.ReportStatusFailed); err != nil {
		log.Errorw("set report status failed", "date", date, "summaryId", existing.Id, "error", err)
		return
	}
	log.Warnw("report generation failed", "date", date, "summaryId", existing.Id, "error", cause)
}
