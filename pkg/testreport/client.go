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

// Package testreport reads daily E2E aggregates from the test reporting service.
package testreport

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Config is the testReport section.
type Config struct {
	BaseURL string        `mapstructure:"baseUrl"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

func (c *Config) SetDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Second
	}
}

// DailyStat is one application's aggregate for a day. SuccessRate is a
// fraction in [0,1].
type DailyStat struct {
	ApplicationID   uint64
	TotalRuns       int64
	PassedRuns      int64
	FailedRuns      int64
	SuccessRate     float64
	LastRunStatus   string
	LastRunAt       *time.Time
	LastFailedRunAt *time.Time
}

// Client fetches daily stats.
type Client interface {
	GetDailyStats(ctx context.Context, date string, applicationIDs []uint64) ([]DailyStat, error)
}

type httpClient struct {
	client *resty.Client
}

func NewClient(cfg Config) (Client, error) {
	cfg.SetDefaults()
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("testReport.baseUrl is required")
	}
	c := resty.New().
		SetTimeout(cfg.Timeout).
		SetBaseURL(base).
		SetHeader("Accept", "application/json")
	if cfg.Token != "" {
		c.SetAuthToken(cfg.Token)
	}
	return &httpClient{client: c}, nil
}

type statItem struct {
	ApplicationID   uint64     `json:"applicationId"`
	TotalRuns       int64      `json:"totalRuns"`
	PassedRuns      int64      `json:"passedRuns"`
	FailedRuns      int64      `json:"failedRuns"`
	SuccessRate     float64    `json:"successRate"` // percent
	LastRunStatus   string     `json:"lastRunStatus"`
	LastRunAt       *time.Time `json:"lastRunAt"`
	LastFailedRunAt *time.Time `json:"lastFailedRunAt"`
}

type statsResponse struct {
	Data []statItem `json:"data"`
}

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("test report api error: status=%d body=%s", e.StatusCode, e.Body)
}

func (c *httpClient) GetDailyStats(ctx context.Context, date string, applicationIDs []uint64) ([]DailyStat, error) {
	if len(applicationIDs) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(applicationIDs))
	for _, id := range applicationIDs {
		ids = append(ids, strconv.FormatUint(id, 10))
	}

	var resp statsResponse
	r, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("date", date).
		SetQueryParam("applicationIds", strings.Join(ids, ",")).
		SetResult(&resp).
		Get("/v1/stats/daily")
	if err != nil {
		return nil, fmt.Errorf("get daily stats: %w", err)
	}
	if r.IsError() {
		return nil, &APIError{StatusCode: r.StatusCode(), Body: r.String()}
	}

	out := make([]DailyStat, 0, len(resp.Data))
	for _, it := range resp.Data {
		out = append(out, DailyStat{
			ApplicationID:   it.ApplicationID,
			TotalRuns:       it.TotalRuns,
			PassedRuns:      it.PassedRuns,
			FailedRuns:      it.FailedRuns,
			SuccessRate:     percentToFraction(it.SuccessRate),
			LastRunStatus:   it.LastRunStatus,
			LastRunAt:       it.LastRunAt,
			LastFailedRunAt: it.LastFailedRunAt,
		})
	}
	return out, nil
}

func percentToFraction(p float64) float64 {
	switch {
	case p <= 0:
		return 0
	case p >= 100:
		return 1
	}
	return p / 100
}
