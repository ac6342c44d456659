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
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/arcentrix/e2epulse/internal/engine/config"
	"github.com/arcentrix/e2epulse/internal/engine/model"
	"github.com/arcentrix/e2epulse/internal/engine/repo"
	"github.com/arcentrix/e2epulse/pkg/cache"
	"github.com/arcentrix/e2epulse/pkg/ci"
	"github.com/arcentrix/e2epulse/pkg/log"
	"github.com/arcentrix/e2epulse/pkg/trace"
	tracectx "github.com/arcentrix/e2epulse/pkg/trace/context"
)

const leaseKeyPrefix = "manualrun:lease:"

// RunStatus is the latest run of an application with its live workflow.
type RunStatus struct {
	Run      *model.ManualRun `json:"run"`
	Workflow *ci.Workflow     `json:"workflow,omitempty"`
	URL      string           `json:"url,omitempty"`
}

// ManualRunService triggers E2E pipelines and keeps the run ledger.
type ManualRunService struct {
	appRepo  repo.IApplicationRepository
	runRepo  repo.IManualRunRepository
	provider ci.Provider
	cache    cache.ICache
	conf     config.OrchestratorConfig
	tracer   oteltrace.Tracer
}

func NewManualRunService(
	repos *repo.Repositories,
	provider ci.Provider,
	c cache.ICache,
	conf config.OrchestratorConfig,
) *ManualRunService {
	conf.SetDefaults()
	return &ManualRunService{
		appRepo:  repos.Application,
		runRepo:  repos.ManualRun,
		provider: provider,
		cache:    c,
		conf:     conf,
		tracer:   trace.Tracer("e2epulse/service/manualrun"),
	}
}

// TriggerManualRun starts a pipeline for the application unless its latest run
// is still active. A failed status check never blocks the trigger.
func (s *ManualRunService) TriggerManualRun(ctx context.Context, applicationId uint64) (run *model.ManualRun, err error) {
	ctx, span := s.tracer.Start(ctx, "ManualRunService.TriggerManualRun",
		oteltrace.WithAttributes(attribute.Int64("application.id", int64(applicationId))))
	defer tracectx.Bind(ctx)()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		manualRunTriggers.WithLabelValues(triggerResult(err)).Inc()
	}()

	app, err := s.appRepo.Get(ctx, applicationId)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	if app == nil {
		return nil, fmt.Errorf("%w: application %d", ErrNotFound, applicationId)
	}
	if !app.CanTrigger() {
		return nil, fmt.Errorf("%w: trigger configuration not set", ErrValidation)
	}
	tc, err := ci.ParseTriggerConfig(app.TriggerConfiguration, s.provider.DefaultProjectSlug())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	leased, err := s.acquireLease(ctx, applicationId)
	if err != nil {
		return nil, err
	}

	if err := s.checkNotRunning(ctx, applicationId); err != nil {
		s.releaseLease(ctx, applicationId, leased)
		return nil, err
	}

	pipeline, err := s.provider.StartPipeline(ctx, tc)
	if err != nil {
		s.releaseLease(ctx, applicationId, leased)
		log.Errorw("start pipeline failed", "applicationId", applicationId, "code", app.Code, "error", err)
		return nil, external(err, "start pipeline")
	}
	span.SetAttributes(attribute.String("pipeline.id", pipeline.ID))

	run = &model.ManualRun{
		ApplicationId:      applicationId,
		ExternalPipelineId: pipeline.ID,
	}
	if err := s.runRepo.Create(ctx, run); err != nil {
		// the pipeline is already running at the provider
		log.Errorw("record manual run failed", "applicationId", applicationId, "pipelineId", pipeline.ID, "error", err)
		return nil, fmt.Errorf("%w: record manual run: %v", ErrDatabase, err)
	}

	log.Infow("manual run triggered",
		"applicationId", applicationId,
		"code", app.Code,
		"pipelineId", pipeline.ID,
		"pipelineNumber", pipeline.Number)
	return run, nil
}

// checkNotRunning samples the live status of the latest run. Only an active
// workflow rejects; every failure to sample lets the trigger through.
func (s *ManualRunService) checkNotRunning(ctx context.Context, applicationId uint64) error {
	latest, err := s.runRepo.GetLatest(ctx, applicationId)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	if latest == nil {
		return nil
	}

	checkCtx, cancel := context.WithTimeout(ctx, s.conf.StatusCheckTimeout)
	defer cancel()
	wf, err := s.provider.GetLatestWorkflow(checkCtx, latest.ExternalPipelineId)
	if err != nil {
		statusCheckFailOpen.Inc()
		log.Warnw("status check failed, assuming not running",
			"applicationId", applicationId,
			"pipelineId", latest.ExternalPipelineId,
			"error", err)
		return nil
	}
	if wf.Status.IsActive() {
		return fmt.Errorf("%w: a run is already in progress (status %s, workflow %s)", ErrConflict, wf.Status, wf.URL())
	}
	return nil
}

func leaseKey(applicationId uint64) string {
	return leaseKeyPrefix + strconv.FormatUint(applicationId, 10)
}

// acquireLease reports whether a lease was taken. A held lease is a conflict;
// cache failures are ignored.
func (s *ManualRunService) acquireLease(ctx context.Context, applicationId uint64) (bool, error) {
	if s.conf.LeaseTTL <= 0 || s.cache == nil {
		return false, nil
	}
	ok, err := s.cache.SetNX(ctx, leaseKey(applicationId), []byte(time.Now().UTC().Format(time.RFC3339)), s.conf.LeaseTTL)
	if err != nil {
		log.Warnw("acquire manual run lease failed, continuing", "applicationId", applicationId, "error", err)
		return false, nil
	}
	if !ok {
		return false, fmt.Errorf("%w: a trigger for application %d is already in flight", ErrConflict, applicationId)
	}
	return true, nil
}

// releaseLease drops the lease after a rejected or failed trigger. A successful
// trigger keeps it until it expires, covering the gap before the new pipeline
// reports a workflow.
func (s *ManualRunService) releaseLease(ctx context.Context, applicationId uint64, leased bool) {
	if !leased {
		return
	}
	if err := s.cache.Del(context.WithoutCancel(ctx), leaseKey(applicationId)); err != nil {
		log.Warnw("release manual run lease failed", "applicationId", applicationId, "error", err)
	}
}

func triggerResult(err error) string {
	switch {
	case err == nil:
		return "triggered"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrValidation):
		return "rejected"
	default:
		return "error"
	}
}

// ListManualRuns returns the runs of the application created in [from, to), newest first.
func (s *ManualRunService) ListManualRuns(ctx context.Context, applicationId uint64, from, to time.Time) ([]*model.ManualRun, error) {
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		return nil, fmt.Errorf("%w: from must be before to", ErrValidation)
	}
	app, err := s.appRepo.Get(ctx, applicationId)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	if app == nil {
		return nil, fmt.Errorf("%w: application %d", ErrNotFound, applicationId)
	}
	runs, err := s.runRepo.List(ctx, applicationId, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return runs, nil
}

// GetLatestRunStatus returns the newest run with its live workflow. A pipeline
// without a workflow yet yields a nil Workflow.
func (s *ManualRunService) GetLatestRunStatus(ctx context.Context, applicationId uint64) (*RunStatus, error) {
	app, err := s.appRepo.Get(ctx, applicationId)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	if app == nil {
		return nil, fmt.Errorf("%w: application %d", ErrNotFound, applicationId)
	}
	latest, err := s.runRepo.GetLatest(ctx, applicationId)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	if latest == nil {
		return nil, fmt.Errorf("%w: application %d has no manual runs", ErrNotFound, applicationId)
	}

	status := &RunStatus{Run: latest}
	wf, err := s.provider.GetLatestWorkflow(ctx, latest.ExternalPipelineId)
	switch {
	case errors.Is(err, ci.ErrNoWorkflow):
		return status, nil
	case err != nil:
		return nil, external(err, "get workflow")
	}
	status.Workflow = wf
	status.URL = wf.URL()
	return status, nil
}
