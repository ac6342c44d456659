package testreport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDailyStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/stats/daily", r.URL.Path)
		assert.Equal(t, "2025-10-08", r.URL.Query().Get("date"))
		assert.Equal(t, "1,2", r.URL.Query().Get("applicationIds"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"applicationId":1,"totalRuns":12,"passedRuns":11,"failedRuns":1,"successRate":91.67,"lastRunStatus":"passed","lastRunAt":"2025-10-08T23:10:00Z","lastFailedRunAt":"2025-10-08T09:00:00Z"},
			{"applicationId":2,"totalRuns":0,"passedRuns":0,"failedRuns":0,"successRate":0}
		]}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL + "/", Token: "secret", Timeout: time.Second})
	require.NoError(t, err)

	stats, err := c.GetDailyStats(context.Background(), "2025-10-08", []uint64{1, 2})
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.EqualValues(t, 12, stats[0].TotalRuns)
	assert.InDelta(t, 0.9167, stats[0].SuccessRate, 1e-9)
	assert.Equal(t, "passed", stats[0].LastRunStatus)
	require.NotNil(t, stats[0].LastFailedRunAt)
	assert.Nil(t, stats[1].LastRunAt)
}

func TestGetDailyStatsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)
	_, err = c.GetDailyStats(context.Background(), "2025-10-08", []uint64{1})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
}

func TestGetDailyStatsNoApplications(t *testing.T) {
	c, err := NewClient(Config{BaseURL: "http://127.0.0.1:1"})
	require.NoError(t, err)
	stats, err := c.GetDailyStats(context.Background(), "2025-10-08", nil)
	require.NoError(t, err)
	assert.Empty(t, stats)
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}

func TestPercentToFraction(t *testing.T) {
	assert.Equal(t, 0.0, percentToFraction(-3))
	assert.Equal(t, 1.0, percentToFraction(120))
	assert.InDelta(t, 0.5, percentToFraction(50), 1e-12)
}
