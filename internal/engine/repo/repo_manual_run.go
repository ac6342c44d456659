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
	"time"

	"github.com/arcentrix/e2epulse/internal/engine/model"
	"github.com/arcentrix/e2epulse/pkg/database"
	"gorm.io/gorm"
)

// IManualRunRepository is the append-only run ledger.
type IManualRunRepository interface {
	Create(ctx context.Context, run *model.ManualRun) error
	// GetLatest returns the newest run of the application, or nil, nil.
	GetLatest(ctx context.Context, applicationId uint64) (*model.ManualRun, error)
	// List returns runs in [from, to), newest first. Zero bounds are open.
	List(ctx context.Context, applicationId uint64, from, to time.Time) ([]*model.ManualRun, error)
	// ListByApplications groups runs in [from, to) by application, newest first.
	ListByApplications(ctx context.Context, applicationIds []uint64, from, to time.Time) (map[uint64][]*model.ManualRun, error)
}

type ManualRunRepo struct {
	database.IDatabase
}

func NewManualRunRepo(db database.IDatabase) IManualRunRepository {
	return &ManualRunRepo{IDatabase: db}
}

const newestFirst = "created_at DESC, id DESC"

func (r *ManualRunRepo) Create(ctx context.Context, run *model.ManualRun) error {
	return r.Database().WithContext(ctx).Create(run).Error
}

func (r *ManualRunRepo) GetLatest(ctx context.Context, applicationId uint64) (*model.ManualRun, error) {
	var run model.ManualRun
	err := r.Database().WithContext(ctx).
		Where("application_id = ?", applicationId).
		Order(newestFirst).
		First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest manual run of application %d: %w", applicationId, err)
	}
	return &run, nil
}

func (r *ManualRunRepo) between(db *gorm.DB, from, to time.Time) *gorm.DB {
	if !from.IsZero() {
		db = db.Where("created_at >= ?", from.UTC())
	}
	if !to.IsZero() {
		db = db.Where("created_at < ?", to.UTC())
	}
	return db
}

func (r *ManualRunRepo) List(ctx context.Context, applicationId uint64, from, to time.Time) ([]*model.ManualRun, error) {
	var runs []*model.ManualRun
	db := r.Database().WithContext(ctx).Where("application_id = ?", applicationId)
	if err := r.between(db, from, to).Order(newestFirst).Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list manual runs of application %d: %w", applicationId, err)
	}
	return runs, nil
}

func (r *ManualRunRepo) ListByApplications(ctx context.Context, applicationIds []uint64, from, to time.Time) (map[uint64][]*model.ManualRun, error) {
	out := make(map[uint64][]*model.ManualRun, len(applicationIds))
	if len(applicationIds) == 0 {
		return out, nil
	}
	var runs []*model.ManualRun
	db := r.Database().WithContext(ctx).Where("application_id IN ?", applicationIds)
	if err := r.between(db, from, to).Order(newestFirst).Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list manual runs: %w", err)
	}
	for _, run := range runs {
		out[run.ApplicationId] = append(out[run.ApplicationId], run)
	}
	return out, nil
}
