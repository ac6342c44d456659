package circleci

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/arcentrix/e2epulse/pkg/ci"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, h http.HandlerFunc) ci.Provider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	p, err := ci.NewProvider(ci.ProviderConfig{
		Kind:        ci.ProviderKindCircleCI,
		BaseURL:     srv.URL,
		Token:       "tok",
		ProjectSlug: "gh/acme/default",
		Timeout:     time.Second,
	})
	require.NoError(t, err)
	return p
}

func TestStartPipeline(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v2/project/gh/acme/shop/pipeline", r.URL.Path)
		assert.Equal(t, "tok", r.Header.Get("Circle-Token"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"branch":"main","parameters":{"suite":"e2e"}}`, string(body))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"pipe-1","state":"created","number":7,"created_at":"2025-10-08T10:00:00Z"}`))
	})

	pl, err := p.StartPipeline(context.Background(), ci.TriggerConfig{
		ProjectSlug: "gh/acme/shop",
		Branch:      "main",
		Parameters:  map[string]any{"suite": "e2e"},
	})
	require.NoError(t, err)
	assert.Equal(t, "pipe-1", pl.ID)
	assert.EqualValues(t, 7, pl.Number)
}

func TestStartPipelineDefaultSlug(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/project/gh/acme/default/pipeline", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pipe-2","number":1}`))
	})
	pl, err := p.StartPipeline(context.Background(), ci.TriggerConfig{Branch: "main"})
	require.NoError(t, err)
	assert.Equal(t, "pipe-2", pl.ID)
}

func TestStartPipelineAPIError(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Branch not found"}`))
	})
	_, err := p.StartPipeline(context.Background(), ci.TriggerConfig{Branch: "nope"})
	var apiErr *ci.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "Branch not found")
}

func TestStartPipelineTimeout(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := p.StartPipeline(ctx, ci.TriggerConfig{Branch: "main"})
	assert.Error(t, err)
}

func TestGetLatestWorkflow(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/pipeline/pipe-1/workflow", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[
			{"id":"wf-old","status":"failed","project_slug":"gh/acme/shop","pipeline_number":7,"created_at":"2025-10-08T10:00:00Z","stopped_at":"2025-10-08T10:05:00Z"},
			{"id":"wf-new","status":"running","project_slug":"gh/acme/shop","pipeline_number":7,"created_at":"2025-10-08T10:06:00Z"}
		]}`))
	})
	wf, err := p.GetLatestWorkflow(context.Background(), "pipe-1")
	require.NoError(t, err)
	assert.Equal(t, "wf-new", wf.ID)
	assert.Equal(t, ci.StatusRunning, wf.Status)
	assert.True(t, wf.Status.IsActive())
	assert.Nil(t, wf.StoppedAt)
	assert.Equal(t, "https://app.circleci.com/pipelines/gh/acme/shop/7/workflows/wf-new", wf.URL())
}

func TestGetLatestWorkflowEmpty(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[]}`))
	})
	_, err := p.GetLatestWorkflow(context.Background(), "pipe-1")
	assert.True(t, errors.Is(err, ci.ErrNoWorkflow))
}

func TestNotConfigured(t *testing.T) {
	p, err := New(ci.ProviderConfig{})
	require.NoError(t, err)
	_, err = p.StartPipeline(context.Background(), ci.TriggerConfig{ProjectSlug: "gh/a/b"})
	assert.ErrorIs(t, err, ci.ErrNotConfigured)
	_, err = p.GetLatestWorkflow(context.Background(), "x")
	assert.ErrorIs(t, err, ci.ErrNotConfigured)
}
