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

// ManualRun records one operator-initiated pipeline. Rows are never updated.
type ManualRun struct {
	BaseModel
	ApplicationId      uint64 `gorm:"column:application_id;index:idx_manual_run_app;not null" json:"applicationId"`
	ExternalPipelineId string `gorm:"column:external_pipeline_id;size:128;not null" json:"externalPipelineId"`
}

func (ManualRun) TableName() string {
	return "t_manual_run"
}
