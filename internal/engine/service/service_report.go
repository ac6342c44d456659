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
	"math"
	"time"

	"github.com/bytedance/sonic"

	"github.com/arcentrix/e2epulse/internal/engine/config"
	"github.com/arcentrix/e2epulse/internal/engine/model"
	"github.com/arcentrix/e2epulse/internal/engine/repo"
	"github.com/arcentrix/e2epulse/pkg/cache"
	"github.com/arcentrix/e2epulse/pkg/log"
	"github.com/arcentrix/e2epulse/pkg/queue"
	"github.com/arcentrix/e2epulse/pkg/testreport"
)

// DateLayout is the calendar date format of report dates.
const DateLayout = "2006-01-02"

const suppressKeyPrefix = "report:generate:"

// GenerateReportMessage is the payload on the generation topic.
type GenerateReportMessage struct {
	Date string `json:"date"`
}

func EncodeGenerateReportMessage(date string) ([]byte, error) {
	return sonic.Marshal(&GenerateReportMessage{Date: date})
}

func DecodeGenerateReportMessage(b []byte) (*GenerateReportMessage, error) {
	var m GenerateReportMessage
	if err := sonic.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("%w: decode generate message: %v", ErrValidation, err)
	}
	return &m, nil
}

// ParseDate validates a YYYY-MM-DD date and returns midnight UTC.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", ErrValidation, date)
	}
	return t, nil
}

// Percent converts a fraction to a percentage with two decimals.
func Percent(rate float64) float64 {
	return math.Round(rate*10000) / 100
}

type ReportDetailView struct {
	Id                 uint64             `json:"id"`
	ApplicationId      uint64             `json:"applicationId"`
	ApplicationCode    string             `json:"applicationCode"`
	ApplicationName    string             `json:"applicationName"`
	TotalRuns          int64              `json:"totalRuns"`
	PassedRuns         int64              `json:"passedRuns"`
	FailedRuns         int64              `json:"failedRuns"`
	SuccessRate        float64            `json:"successRate"`
	SuccessRatePercent float64            `json:"successRatePercent"`
	LastRunStatus      string             `json:"lastRunStatus"`
	LastRunAt          *time.Time         `json:"lastRunAt"`
	LastFailedRunAt    *time.Time         `json:"lastFailedRunAt"`
	ManualRuns         []*model.ManualRun `json:"manualRuns"`
}

type Report struct {
	Id                 uint64              `json:"id,omitempty"`
	Date               string              `json:"date"`
	Status             string              `json:"status"`
	TotalRuns          int64               `json:"totalRuns"`
	PassedRuns         int64               `json:"passedRuns"`
	FailedRuns         int64               `json:"failedRuns"`
	SuccessRate        float64             `json:"successRate"`
	SuccessRatePercent float64             `json:"successRatePercent"`
	Details            []*ReportDetailView `json:"details"`
}

// Pending reports whether the report is still being generated.
func (r *Report) Pending() bool {
	return r.Status == model.ReportStatusPending
}

func pendingReport(date string) *Report {
	return &Report{
		Date:    date,
		Status:  model.ReportStatusPending,
		Details: []*ReportDetailView{},
	}
}

// ReportService serves stored reports and requests generation of missing ones.
type ReportService struct {
	reportRepo repo.IReportRepository
	appRepo    repo.IApplicationRepository
	runRepo    repo.IManualRunRepository
	stats      testreport.Client
	broker     queue.Broker
	cache      cache.ICache
	conf       config.ReportConfig
}

func NewReportService(
	repos *repo.Repositories,
	stats testreport.Client,
	broker queue.Broker,
	c cache.ICache,
	conf config.ReportConfig,
) *ReportService {
	conf.SetDefaults()
	return &ReportService{
		reportRepo: repos.Report,
		appRepo:    repos.Application,
		runRepo:    repos.ManualRun,
		stats:      stats,
		broker:     broker,
		cache:      c,
		conf:       conf,
	}
}

// GetReport returns the stored report for date. A missing report is requested
// from the generation worker and answered with a pending placeholder.
func (s *ReportService) GetReport(ctx context.Context, date string) (*Report, error) {
	day, err := ParseDate(date)
	if err != nil {
		return nil, err
	}

	summary, err := s.reportRepo.GetSummaryByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	if summary == nil {
		if err := s.publishGeneration(ctx, date, true); err != nil {
			return nil, err
		}
		return pendingReport(date), nil
	}
	return s.buildReport(ctx, summary, day)
}

func (s *ReportService) buildReport(ctx context.Context, summary *model.ReportSummary, day time.Time) (*Report, error) {
	details, err := s.reportRepo.ListDetails(ctx, summary.Id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	ids := make([]uint64, 0, len(details))
	for _, d := range details {
		ids = append(ids, d.ApplicationId)
	}
	apps, err := s.appRepo.GetByIds(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	runs, err := s.runRepo.ListByApplications(ctx, ids, day, day.Add(24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	report := &Report{
		Id:                 summary.Id,
		Date:               summary.Date,
		Status:             summary.Status,
		TotalRuns:          summary.TotalRuns,
		PassedRuns:         summary.PassedRuns,
		FailedRuns:         summary.FailedRuns,
		SuccessRate:        summary.SuccessRate,
		SuccessRatePercent: Percent(summary.SuccessRate),
		Details:            make([]*ReportDetailView, 0, len(details)),
	}
	for _, d := range details {
		app, ok := apps[d.ApplicationId]
		if !ok {
			continue
		}
		appRuns := runs[d.ApplicationId]
		if appRuns == nil {
			appRuns = []*model.ManualRun{}
		}
		report.Details = append(report.Details, &ReportDetailView{
			Id:                 d.Id,
			ApplicationId:      d.ApplicationId,
			ApplicationCode:    app.Code,
			ApplicationName:    app.Name,
			TotalRuns:          d.TotalRuns,
			PassedRuns:         d.PassedRuns,
			FailedRuns:         d.FailedRuns,
			SuccessRate:        d.SuccessRate,
			SuccessRatePercent: Percent(d.SuccessRate),
			LastRunStatus:      d.LastRunStatus,
			LastRunAt:          d.LastRunAt,
			LastFailedRunAt:    d.LastFailedRunAt,
			ManualRuns:         appRuns,
		})
	}
	return report, nil
}

// RefreshDetail overwrites one application's detail with the provider's
// current stats. Summary totals are left as they are.
func (s *ReportService) RefreshDetail(ctx context.Context, summaryId, applicationId uint64) (*model.ReportDetail, error) {
	detail, err := s.reportRepo.GetDetail(ctx, summaryId, applicationId)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	if detail == nil {
		return nil, fmt.Errorf("%w: report detail %d/%d", ErrNotFound, summaryId, applicationId)
	}
	summary, err := s.reportRepo.GetSummary(ctx, summaryId)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	if summary == nil {
		return nil, fmt.Errorf("%w: report summary %d", ErrNotFound, summaryId)
	}

	stats, err := s.stats.GetDailyStats(ctx, summary.Date, []uint64{applicationId})
	if err != nil {
		log.Errorw("fetch daily stats failed", "date", summary.Date, "applicationId", applicationId, "error", err)
		return nil, external(err, "fetch daily stats")
	}
	var fresh *testreport.DailyStat
	for i := range stats {
		if stats[i].ApplicationID == applicationId {
			fresh = &stats[i]
			break
		}
	}
	if fresh == nil {
		return nil, fmt.Errorf("%w: no stats for application %d on %s", ErrNotFound, applicationId, summary.Date)
	}

	applyStat(detail, fresh)
	if err := s.reportRepo.SaveDetail(ctx, detail); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	log.Infow("report detail refreshed", "summaryId", summaryId, "applicationId", applicationId, "date", summary.Date)
	return detail, nil
}

// applyStat replaces every stat-derived field of d.
func applyStat(d *model.ReportDetail, st *testreport.DailyStat) {
	d.ApplicationId = st.ApplicationID
	d.TotalRuns = st.TotalRuns
	d.PassedRuns = st.PassedRuns
	d.FailedRuns = st.FailedRuns
	d.SuccessRate = st.SuccessRate
	d.LastRunStatus = st.LastRunStatus
	d.LastRunAt = st.LastRunAt
	d.LastFailedRunAt = st.LastFailedRunAt
}

// RequestGeneration publishes a generation request regardless of any stored
// report or suppression window.
func (s *ReportService) RequestGeneration(ctx context.Context, date string) error {
	if _, err := ParseDate(date); err != nil {
		return err
	}
	return s.publishGeneration(ctx, date, false)
}

// DeleteReport removes the summary of date together with its details.
func (s *ReportService) DeleteReport(ctx context.Context, date string) error {
	if _, err := ParseDate(date); err != nil {
		return err
	}
	deleted, err := s.reportRepo.DeleteByDate(ctx, date)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	if !deleted {
		return fmt.Errorf("%w: report %s", ErrNotFound, date)
	}
	log.Infow("report deleted", "date", date)
	return nil
}

func (s *ReportService) publishGeneration(ctx context.Context, date string, suppress bool) error {
	key := suppressKeyPrefix + date
	held := false
	if suppress && s.conf.PublishSuppressWindow > 0 && s.cache != nil {
		ok, err := s.cache.SetNX(ctx, key, []byte(date), s.conf.PublishSuppressWindow)
		switch {
		case err != nil:
			log.Warnw("suppression check failed, publishing anyway", "date", date, "error", err)
		case !ok:
			reportGenerationRequests.WithLabelValues("suppressed").Inc()
			log.Debugw("generation request suppressed", "date", date)
			return nil
		default:
			held = true
		}
	}

	payload, err := EncodeGenerateReportMessage(date)
	if err != nil {
		return fmt.Errorf("encode generate message: %w", err)
	}
	pubCtx, cancel := context.WithTimeout(ctx, s.conf.PublishTimeout)
	defer cancel()
	if err := s.broker.Publish(pubCtx, s.conf.Topic, date, payload, nil); err != nil {
		if held {
			if delErr := s.cache.Del(context.WithoutCancel(ctx), key); delErr != nil {
				log.Warnw("release suppression key failed", "date", date, "error", delErr)
			}
		}
		reportGenerationRequests.WithLabelValues("error").Inc()
		log.Errorw("publish generate request failed", "date", date, "topic", s.conf.Topic, "error", err)
		return external(err, "publish generate request")
	}
	reportGenerationRequests.WithLabelValues("published").Inc()
	log.Infow("generate request published", "date", date, "topic", s.conf.Topic)
	return nil
}
