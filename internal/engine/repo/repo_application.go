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
	"strconv"
	"time"

	"github.com/arcentrix/e2epulse/internal/engine/model"
	"github.com/arcentrix/e2epulse/pkg/cache"
	"github.com/arcentrix/e2epulse/pkg/database"
	"github.com/arcentrix/e2epulse/pkg/log"
	"gorm.io/gorm"
)

const (
	applicationCacheKeyPrefix = "application:"
	applicationCacheTTL       = 5 * time.Minute
)

// IApplicationRepository persists the application registry.
type IApplicationRepository interface {
	Create(ctx context.Context, app *model.Application) error
	// Get returns nil, nil when the application does not exist.
	Get(ctx context.Context, id uint64) (*model.Application, error)
	GetByCode(ctx context.Context, code string) (*model.Application, error)
	Update(ctx context.Context, id uint64, updates map[string]any) error
	Delete(ctx context.Context, id uint64) error
	// List returns applications ordered by id; watching filters when non-nil.
	List(ctx context.Context, watching *bool) ([]*model.Application, error)
	GetByIds(ctx context.Context, ids []uint64) (map[uint64]*model.Application, error)
}

type ApplicationRepo struct {
	database.IDatabase
	cache.ICache
}

func NewApplicationRepo(db database.IDatabase, c cache.ICache) IApplicationRepository {
	return &ApplicationRepo{IDatabase: db, ICache: c}
}

func (r *ApplicationRepo) Create(ctx context.Context, app *model.Application) error {
	return r.Database().WithContext(ctx).Create(app).Error
}

func applicationCacheKey(params ...any) string {
	return applicationCacheKeyPrefix + strconv.FormatUint(params[0].(uint64), 10)
}

// Get reads through the cache. Misses are not cached.
func (r *ApplicationRepo) Get(ctx context.Context, id uint64) (*model.Application, error) {
	queryFunc := func(ctx context.Context) (*model.Application, error) {
		var app model.Application
		err := r.Database().WithContext(ctx).Where("id = ?", id).First(&app).Error
		if err != nil {
			return nil, err
		}
		return &app, nil
	}

	cq := cache.NewCachedQuery(
		r.ICache,
		applicationCacheKey,
		queryFunc,
		cache.WithTTL[*model.Application](applicationCacheTTL),
		cache.WithLogPrefix[*model.Application]("[ApplicationRepo]"),
	)
	app, err := cq.Get(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get application %d: %w", id, err)
	}
	return app, nil
}

func (r *ApplicationRepo) GetByCode(ctx context.Context, code string) (*model.Application, error) {
	var app model.Application
	err := r.Database().WithContext(ctx).Where("code = ?", code).First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get application by code %s: %w", code, err)
	}
	return &app, nil
}

// Update applies updates; id and code are immutable and stripped.
func (r *ApplicationRepo) Update(ctx context.Context, id uint64, updates map[string]any) error {
	delete(updates, "id")
	delete(updates, "code")
	if len(updates) == 0 {
		return nil
	}
	err := r.Database().WithContext(ctx).Model(&model.Application{}).
		Where("id = ?", id).
		Updates(updates).Error
	if err != nil {
		return fmt.Errorf("failed to update application %d: %w", id, err)
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *ApplicationRepo) Delete(ctx context.Context, id uint64) error {
	err := r.Database().WithContext(ctx).Where("id = ?", id).Delete(&model.Application{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete application %d: %w", id, err)
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *ApplicationRepo) List(ctx context.Context, watching *bool) ([]*model.Application, error) {
	var apps []*model.Application
	db := r.Database().WithContext(ctx).Model(&model.Application{})
	if watching != nil {
		db = db.Where("watching = ?", *watching)
	}
	if err := db.Order("id ASC").Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

func (r *ApplicationRepo) GetByIds(ctx context.Context, ids []uint64) (map[uint64]*model.Application, error) {
	out := make(map[uint64]*model.Application, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var apps []*model.Application
	if err := r.Database().WithContext(ctx).Where("id IN ?", ids).Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("failed to get applications: %w", err)
	}
	for _, a := range apps {
		out[a.Id] = a
	}
	return out, nil
}

func (r *ApplicationRepo) invalidate(ctx context.Context, id uint64) {
	cq := cache.NewCachedQuery[*model.Application](r.ICache, applicationCacheKey, nil)
	if err := cq.Invalidate(ctx, id); err != nil {
		// the cached row stays readable until applicationCacheTTL
		log.Warnw("application cache invalidation failed", "applicationId", id, "error", err)
	}
}
