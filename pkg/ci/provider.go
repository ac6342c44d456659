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

package ci

import (
	"context"
	"time"
)

type ProviderConfig struct {
	Kind        ProviderKind  `mapstructure:"kind"`
	BaseURL     string        `mapstructure:"baseUrl"`
	Token       string        `mapstructure:"token"`
	ProjectSlug string        `mapstructure:"projectSlug"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

func (c *ProviderConfig) SetDefaults() {
	if c.Kind == "" {
		c.Kind = ProviderKindCircleCI
	}
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Second
	}
}

// Provider starts pipelines and reports workflow state on a CI service.
type Provider interface {
	Kind() ProviderKind
	// StartPipeline triggers a new pipeline.
	StartPipeline(ctx context.Context, cfg TriggerConfig) (*Pipeline, error)
	// GetLatestWorkflow returns the newest workflow of pipelineID.
	GetLatestWorkflow(ctx context.Context, pipelineID string) (*Workflow, error)
	// DefaultProjectSlug is used when a trigger configuration names no project.
	DefaultProjectSlug() string
}
