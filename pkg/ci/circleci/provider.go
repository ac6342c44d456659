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

// Package circleci implements ci.Provider against the CircleCI v2 API.
package circleci

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/arcentrix/e2epulse/pkg/ci"
	"github.com/go-resty/resty/v2"
)

const (
	defaultBaseURL = "https://circleci.com"
	tokenHeader    = "Circle-Token"
)

func init() {
	ci.Register(ci.ProviderKindCircleCI, New)
}

type Provider struct {
	cfg    ci.ProviderConfig
	client *resty.Client
}

func New(cfg ci.ProviderConfig) (ci.Provider, error) {
	cfg.SetDefaults()
	p := &Provider{cfg: cfg}
	p.client = resty.New().SetTimeout(cfg.Timeout)

	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	p.client.SetBaseURL(strings.TrimRight(base, "/"))
	p.client.SetHeader("Accept", "application/json")
	if token := strings.TrimSpace(cfg.Token); token != "" {
		p.client.SetHeader(tokenHeader, token)
	}
	return p, nil
}

func (p *Provider) Kind() ci.ProviderKind { return ci.ProviderKindCircleCI }

func (p *Provider) DefaultProjectSlug() string { return p.cfg.ProjectSlug }

type triggerRequest struct {
	Branch     string         `json:"branch,omitempty"`
	Tag        string         `json:"tag,omitempty"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

type pipelineResponse struct {
	ID        string    `json:"id"`
	State     string    `json:"state"`
	Number    int64     `json:"number"`
	CreatedAt time.Time `json:"created_at"`
}

type workflowItem struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	ProjectSlug    string     `json:"project_slug"`
	Status         string     `json:"status"`
	PipelineID     string     `json:"pipeline_id"`
	PipelineNumber int64      `json:"pipeline_number"`
	CreatedAt      time.Time  `json:"created_at"`
	StoppedAt      *time.Time `json:"stopped_at"`
}

type workflowListResponse struct {
	Items         []workflowItem `json:"items"`
	NextPageToken string         `json:"next_page_token"`
}

func (p *Provider) StartPipeline(ctx context.Context, tc ci.TriggerConfig) (*ci.Pipeline, error) {
	if p.cfg.Token == "" {
		return nil, fmt.Errorf("%w: circleci token is empty", ci.ErrNotConfigured)
	}
	slug := tc.ProjectSlug
	if slug == "" {
		slug = p.cfg.ProjectSlug
	}
	if slug == "" {
		return nil, fmt.Errorf("%w: project slug is required", ci.ErrNotConfigured)
	}

	var resp pipelineResponse
	r, err := p.client.R().
		SetContext(ctx).
		SetBody(triggerRequest{Branch: tc.Branch, Tag: tc.Tag, Parameters: tc.Parameters}).
		SetResult(&resp).
		Post("/api/v2/project/" + slug + "/pipeline")
	if err != nil {
		return nil, fmt.Errorf("circleci start pipeline: %w", err)
	}
	if r.IsError() {
		return nil, &ci.APIError{StatusCode: r.StatusCode(), Body: r.String()}
	}
	if resp.ID == "" {
		return nil, fmt.Errorf("circleci start pipeline: empty pipeline id")
	}
	return &ci.Pipeline{ID: resp.ID, Number: resp.Number, State: resp.State, CreatedAt: resp.CreatedAt}, nil
}

// GetLatestWorkflow picks the most recently created workflow of the pipeline.
func (p *Provider) GetLatestWorkflow(ctx context.Context, pipelineID string) (*ci.Workflow, error) {
	if p.cfg.Token == "" {
		return nil, fmt.Errorf("%w: circleci token is empty", ci.ErrNotConfigured)
	}
	if pipelineID == "" {
		return nil, fmt.Errorf("pipeline id is required")
	}

	var resp workflowListResponse
	r, err := p.client.R().
		SetContext(ctx).
		SetResult(&resp).
		Get("/api/v2/pipeline/" + url.PathEscape(pipelineID) + "/workflow")
	if err != nil {
		return nil, fmt.Errorf("circleci get workflow: %w", err)
	}
	if r.IsError() {
		return nil, &ci.APIError{StatusCode: r.StatusCode(), Body: r.String()}
	}
	if len(resp.Items) == 0 {
		return nil, ci.ErrNoWorkflow
	}

	latest := resp.Items[0]
	for _, it := range resp.Items[1:] {
		if it.CreatedAt.After(latest.CreatedAt) {
			latest = it
		}
	}
	return &ci.Workflow{
		ID:             latest.ID,
		Name:           latest.Name,
		Status:         ci.Status(latest.Status),
		PipelineID:     latest.PipelineID,
		PipelineNumber: latest.PipelineNumber,
		ProjectSlug:    latest.ProjectSlug,
		CreatedAt:      latest.CreatedAt,
		StoppedAt:      latest.StoppedAt,
	}, nil
}
