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
	"fmt"
	"strings"

	"github.com/arcentrix/e2epulse/internal/engine/model"
	"github.com/arcentrix/e2epulse/internal/engine/repo"
	"github.com/arcentrix/e2epulse/pkg/ci"
	"github.com/arcentrix/e2epulse/pkg/log"
)

type ApplicationService struct {
	appRepo repo.IApplicationRepository
}

func NewApplicationService(appRepo repo.IApplicationRepository) *ApplicationService {
	return &ApplicationService{appRepo: appRepo}
}

func validateTriggerConfiguration(raw []byte) error {
	if ci.IsEmptyTriggerConfig(raw) {
		return nil
	}
	// the project slug may come from the provider default, so only payload errors count here
	if _, err := ci.ParseTriggerConfig(raw, ""); errors.Is(err, ci.ErrInvalidPayload) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// CreateApplication registers an application. Codes are unique.
func (s *ApplicationService) CreateApplication(ctx context.Context, req *model.CreateApplicationReq) (*model.Application, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, fmt.Errorf("%w: application code cannot be empty", ErrValidation)
	}
	if err := validateTriggerConfiguration(req.TriggerConfiguration); err != nil {
		return nil, err
	}

	existing, err := s.appRepo.GetByCode(ctx, code)
	if err != nil {
		log.Errorw("check application code failed", "code", code, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: application code %s already exists", ErrConflict, code)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = code
	}
	app := &model.Application{
		Code:                 code,
		Name:                 name,
		TriggerConfiguration: req.TriggerConfiguration,
		Watching:             req.Watching,
	}
	if err := s.appRepo.Create(ctx, app); err != nil {
		log.Errorw("create application failed", "code", code, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	log.Infow("success create application", "code", code, "applicationId", app.Id)
	return app, nil
}

func (s *ApplicationService) GetApplication(ctx context.Context, id uint64) (*model.Application, error) {
	app, err := s.appRepo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	if app == nil {
		return nil, fmt.Errorf("%w: application %d", ErrNotFound, id)
	}
	return app, nil
}

func (s *ApplicationService) GetApplicationByCode(ctx context.Context, code string) (*model.Application, error) {
	app, err := s.appRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	if app == nil {
		return nil, fmt.Errorf("%w: application %s", ErrNotFound, code)
	}
	return app, nil
}

func (s *ApplicationService) ListApplications(ctx context.Context, watching *bool) ([]*model.Application, error) {
	apps, err := s.appRepo.List(ctx, watching)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return apps, nil
}

// UpdateApplication changes name, trigger configuration or watching. Id and code never change.
func (s *ApplicationService) UpdateApplication(ctx context.Context, id uint64, req *model.UpdateApplicationReq) (*model.Application, error) {
	if _, err := s.GetApplication(ctx, id); err != nil {
		return nil, err
	}

	updates := make(map[string]any)
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: application name cannot be empty", ErrValidation)
		}
		updates["name"] = name
	}
	if req.TriggerConfiguration != nil {
		if err := validateTriggerConfiguration(*req.TriggerConfiguration); err != nil {
			return nil, err
		}
		if ci.IsEmptyTriggerConfig(*req.TriggerConfiguration) {
			updates["trigger_configuration"] = nil
		} else {
			updates["trigger_configuration"] = *req.TriggerConfiguration
		}
	}
	if req.Watching != nil {
		updates["watching"] = *req.Watching
	}

	if err := s.appRepo.Update(ctx, id, updates); err != nil {
		log.Errorw("update application failed", "applicationId", id, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return s.GetApplication(ctx, id)
}

// DeleteApplication removes the registry entry. Run history and report details stay;
// reports skip details of deleted applications.
func (s *ApplicationService) DeleteApplication(ctx context.Context, id uint64) error {
	if _, err := s.GetApplication(ctx, id); err != nil {
		return err
	}
	if err := s.appRepo.Delete(ctx, id); err != nil {
		log.Errorw("delete application failed", "applicationId", id, "error", err)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	log.Infow("success delete application", "applicationId", id)
	return nil
}
