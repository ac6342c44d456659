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
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

type ProviderKind string

const (
	ProviderKindCircleCI ProviderKind = "circleci"
)

// Status of a workflow as reported by the provider.
type Status string

const (
	StatusSuccess      Status = "success"
	StatusRunning      Status = "running"
	StatusNotRun       Status = "not_run"
	StatusFailed       Status = "failed"
	StatusError        Status = "error"
	StatusFailing      Status = "failing"
	StatusOnHold       Status = "on_hold"
	StatusCanceled     Status = "canceled"
	StatusUnauthorized Status = "unauthorized"
)

// IsActive reports whether a workflow in this status may still change.
// Any status outside the active set is treated as terminal.
func (s Status) IsActive() bool {
	switch s {
	case StatusRunning, StatusOnHold, StatusFailing:
		return true
	}
	return false
}

// Pipeline is the result of starting a pipeline.
type Pipeline struct {
	ID        string    `json:"id"`
	Number    int64     `json:"number"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"createdAt"`
}

// Workflow is a point-in-time view of the newest workflow of a pipeline.
type Workflow struct {
	ID             string     `json:"workflowId"`
	Name           string     `json:"name"`
	Status         Status     `json:"status"`
	PipelineID     string     `json:"pipelineId"`
	PipelineNumber int64      `json:"pipelineNumber"`
	ProjectSlug    string     `json:"projectSlug"`
	CreatedAt      time.Time  `json:"createdAt"`
	StoppedAt      *time.Time `json:"stoppedAt,omitempty"`
}

// URL is the provider web page of the workflow.
func (w *Workflow) URL() string {
	if w == nil || w.ID == "" || w.ProjectSlug == "" {
		return ""
	}
	return fmt.Sprintf("https://app.circleci.com/pipelines/%s/%d/workflows/%s", w.ProjectSlug, w.PipelineNumber, w.ID)
}

// TriggerConfig is the per-application payload sent when starting a pipeline.
type TriggerConfig struct {
	ProjectSlug string         `json:"projectSlug,omitempty"`
	Branch      string         `json:"branch,omitempty"`
	Tag         string         `json:"tag,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

// IsEmptyTriggerConfig reports whether raw carries no trigger configuration.
// Blank, "null" and "{}" all count as unset.
func IsEmptyTriggerConfig(raw []byte) bool {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return true
	}
	var m map[string]any
	if err := sonic.UnmarshalString(s, &m); err == nil && len(m) == 0 {
		return true
	}
	return false
}

// ParseTriggerConfig decodes raw and fills the project slug from defaultSlug.
func ParseTriggerConfig(raw []byte, defaultSlug string) (TriggerConfig, error) {
	var tc TriggerConfig
	if IsEmptyTriggerConfig(raw) {
		return tc, ErrNotConfigured
	}
	if err := sonic.Unmarshal(raw, &tc); err != nil {
		return tc, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if tc.Branch != "" && tc.Tag != "" {
		return tc, fmt.Errorf("%w: branch and tag are mutually exclusive", ErrInvalidPayload)
	}
	if tc.ProjectSlug == "" {
		tc.ProjectSlug = defaultSlug
	}
	if tc.ProjectSlug == "" {
		return tc, fmt.Errorf("%w: project slug is required", ErrNotConfigured)
	}
	return tc, nil
}
