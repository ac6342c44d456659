package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewMetricsServerRegistersOnce(t *testing.T) {
	s := NewMetricsServer(MetricsConfig{})
	// registering again must not panic or fail
	SetupCronMetrics(s)
	assert.NotNil(t, s.GetRegistry())
}

func TestObserveCronJob(t *testing.T) {
	before := testutil.ToFloat64(cronJobRuns.WithLabelValues("reconcile", "error"))
	ObserveCronJob("reconcile", time.Now(), errors.New("x"))
	assert.Equal(t, before+1, testutil.ToFloat64(cronJobRuns.WithLabelValues("reconcile", "error")))
}

func TestStartDisabled(t *testing.T) {
	s := NewServer(MetricsConfig{Enabled: false})
	s.Start()
	assert.NoError(t, s.Stop(context.Background()))
}
