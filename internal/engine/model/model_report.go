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

package model

import "time"

const (
	ReportStatusPending = "pending"
	ReportStatusReady   = "ready"
	ReportStatusFailed  = "failed"
)

// ReportSummary is the per-day aggregate. SuccessRate is a fraction in [0,1].
type ReportSummary struct {
	BaseModel
	Date        string  `gorm:"column:date;size:10;uniqueIndex:uk_report_summary_date;not null" json:"date"`
	Status      string  `gorm:"column:status;size:16;not null" json:"status"`
	TotalRuns   int64   `gorm:"column:total_runs" json:"totalRuns"`
	PassedRuns  int64   `gorm:"column:passed_runs" json:"passedRuns"`
	FailedRuns  int64   `gorm:"column:failed_runs" json:"failedRuns"`
	SuccessRate float64 `gorm:"column:success_rate" json:"successRate"`
}

func (ReportSummary) TableName() string {
	return "t_report_summary"
}

// ReportDetail is one application's aggregate within a summary.
type ReportDetail struct {
	BaseModel
	ReportSummaryId uint64     `gorm:"column:report_summary_id;uniqueIndex:uk_report_detail_summary_app,priority:1;not null" json:"reportSummaryId"`
	ApplicationId   uint64     `gorm:"column:application_id;uniqueIndex:uk_report_detail_summary_app,priority:2;not null" json:"applicationId"`
	TotalRuns       int64      `gorm:"column:total_runs" json:"totalRuns"`
	PassedRuns      int64      `gorm:"column:passed_runs" json:"passedRuns"`
	FailedRuns      int64      `gorm:"column:failed_runs" json:"failedRuns"`
	SuccessRate     float64    `gorm:"column:success_rate" json:"successRate"`
	LastRunStatus   string     `gorm:"column:last_run_status;size:32" json:"lastRunStatus"`
	LastRunAt       *time.Time `gorm:"column:last_run_at" json:"lastRunAt"`
	LastFailedRunAt *time.Time `gorm:"column:last_failed_run_at" json:"lastFailedRunAt"`
}

func (ReportDetail) TableName() string {
	return "t_report_detail"
}
