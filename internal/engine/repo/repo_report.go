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

package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/arcentrix/e2epulse/internal/engine/model"
	"github.com/arcentrix/e2epulse/pkg/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SummaryTotals are the aggregate counters written with a ready summary.
type SummaryTotals struct {
	TotalRuns   int64
	PassedRuns  int64
	FailedRuns  int64
	SuccessRate float64
}

// IReportRepository persists summaries and their details.
type IReportRepository interface {
	// GetSummaryByDate returns nil, nil when no summary exists for date.
	GetSummaryByDate(ctx context.Context, date string) (*model.ReportSummary, error)
	GetSummary(ctx context.Context, id uint64) (*model.ReportSummary, error)
	UpdateSummaryStatus(ctx context.Context, id uint64, status string) error
	// SaveReport upserts the ready summary for date and replaces all of its
	// details in one transaction.
	SaveReport(ctx context.Context, date string, totals SummaryTotals, details []*model.ReportDetail) (*model.ReportSummary, error)
	ListDetails(ctx context.Context, summaryId uint64) ([]*model.ReportDetail, error)
	GetDetail(ctx context.Context, summaryId, applicationId uint64) (*model.ReportDetail, error)
	// SaveDetail overwrites every column of an existing detail.
	SaveDetail(ctx context.Context, detail *model.ReportDetail) error
	// DeleteByDate removes the summary and its details; false when absent.
	DeleteByDate(ctx context.Context, date string) (bool, error)
}

type ReportRepo struct {
	database.IDatabase
}

func NewReportRepo(db database.IDatabase) IReportRepository {
	return &ReportRepo{IDatabase: db}
}

func firstOrNil[T any](err error, v *T) (*T, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *ReportRepo) GetSummaryByDate(ctx context.Context, date string) (*model.ReportSummary, error) {
	var s model.ReportSummary
	err := r.Database().WithContext(ctx).Where("date = ?", date).First(&s).Error
	out, err := firstOrNil(err, &s)
	if err != nil {
		return nil, fmt.Errorf("failed to get report summary %s: %w", date, err)
	}
	return out, nil
}

func (r *ReportRepo) GetSummary(ctx context.Context, id uint64) (*model.ReportSummary, error) {
	var s model.ReportSummary
	err := r.Database().WithContext(ctx).Where("id = ?", id).First(&s).Error
	out, err := firstOrNil(err, &s)
	if err != nil {
		return nil, fmt.Errorf("failed to get report summary %d: %w", id, err)
	}
	return out, nil
}

func (r *ReportRepo) UpdateSummaryStatus(ctx context.Context, id uint64, status string) error {
	err := r.Database().WithContext(ctx).Model(&model.ReportSummary{}).
		Where("id = ?", id).
		Update("status", status).Error
	if err != nil {
		return fmt.Errorf("failed to update report summary %d: %w", id, err)
	}
	return nil
}

func (r *ReportRepo) SaveReport(ctx context.Context, date string, totals SummaryTotals, details []*model.ReportDetail) (*model.ReportSummary, error) {
	var saved model.ReportSummary
	err := r.Transaction(ctx, func(tx *gorm.DB) error {
		s := &model.ReportSummary{
			Date:        date,
			Status:      model.ReportStatusReady,
			TotalRuns:   totals.TotalRuns,
			PassedRuns:  totals.PassedRuns,
			FailedRuns:  totals.FailedRuns,
			SuccessRate: totals.SuccessRate,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"status", "total_runs", "passed_runs", "failed_runs", "success_rate", "updated_at",
			}),
		}).Create(s).Error
		if err != nil {
			return fmt.Errorf("upsert summary: %w", err)
		}
		// the conflict path does not report the existing id on every driver
		if err := tx.Where("date = ?", date).First(&saved).Error; err != nil {
			return fmt.Errorf("reload summary: %w", err)
		}
		if err := tx.Where("report_summary_id = ?", saved.Id).Delete(&model.ReportDetail{}).Error; err != nil {
			return fmt.Errorf("delete details: %w", err)
		}
		for _, d := range details {
			d.Id = 0
			d.ReportSummaryId = saved.Id
		}
		if len(details) > 0 {
			if err := tx.CreateInBatches(details, 200).Error; err != nil {
				return fmt.Errorf("insert details: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save report %s: %w", date, err)
	}
	return &saved, nil
}

func (r *ReportRepo) ListDetails(ctx context.Context, summaryId uint64) ([]*model.ReportDetail, error) {
	var details []*model.ReportDetail
	err := r.Database().WithContext(ctx).
		Where("report_summary_id = ?", summaryId).
		Order("application_id ASC").
		Find(&details).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list report details of %d: %w", summaryId, err)
	}
	return details, nil
}

func (r *ReportRepo) GetDetail(ctx context.Context, summaryId, applicationId uint64) (*model.ReportDetail, error) {
	var d model.ReportDetail
	err := r.Database().WithContext(ctx).
		Where("report_summary_id = ? AND application_id = ?", summaryId, applicationId).
		First(&d).Error
	out, err := firstOrNil(err, &d)
	if err != nil {
		return nil, fmt.Errorf("failed to get report detail %d/%d: %w", summaryId, applicationId, err)
	}
	return out, nil
}

func (r *ReportRepo) SaveDetail(ctx context.Context, detail *model.ReportDetail) error {
	if detail.Id == 0 {
		return fmt.Errorf("report detail id is required")
	}
	if err := r.Database().WithContext(ctx).Save(detail).Error; err != nil {
		return fmt.Errorf("failed to save report detail %d: %w", detail.Id, err)
	}
	return nil
}

func (r *ReportRepo) DeleteByDate(ctx context.Context, date string) (bool, error) {
	deleted := false
	err := r.Transaction(ctx, func(tx *gorm.DB) error {
		var s model.ReportSummary
		err := tx.Where("date = ?", date).First(&s).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := tx.Where("report_summary_id = ?", s.Id).Delete(&model.ReportDetail{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.ReportSummary{}, s.Id).Error; err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete report %s: %w", date, err)
	}
	return deleted, nil
}
