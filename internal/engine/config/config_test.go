package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
[http]
port = 9000

[database]
driver = "sqlite"
[database.sqlite]
path = ":memory:"

[ci]
kind = "circleci"
projectSlug = "gh/acme/shop"
token = "from-file"
timeout = "10s"

[testReport]
baseUrl = "https://reports.example.com"

[orchestrator]
statusCheckTimeout = "2s"
leaseTTL = "1m"

[report]
publishSuppressWindow = "30s"
`

func writeConf(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv("E2EPULSE_CI_TOKEN", "from-env")

	c, err := NewConf(writeConf(t, sample))
	require.NoError(t, err)

	assert.Equal(t, 9000, c.Http.Port)
	assert.Equal(t, "sqlite", c.Database.Driver)
	assert.Equal(t, "from-env", c.CI.Token)
	assert.Equal(t, 10*time.Second, c.CI.Timeout)
	assert.Equal(t, 2*time.Second, c.Orchestrator.StatusCheckTimeout)
	assert.Equal(t, time.Minute, c.Orchestrator.LeaseTTL)
	assert.Equal(t, 30*time.Second, c.Report.PublishSuppressWindow)
	assert.Equal(t, "e2epulse.report.generate", c.Report.Topic)
	assert.Equal(t, "0 */30 * * * *", c.Report.Cron)
	assert.True(t, c.Report.ConsumerEnabled)
	assert.Equal(t, "stdout", c.Log.Output)
	assert.Equal(t, "memory", c.MessageQueue.Type)
	assert.Equal(t, "e2epulse", c.Trace.ServiceName)

	assert.Equal(t, c.Http.Port, GetConfig().Http.Port)
}

func TestLoadConfigFileMissing(t *testing.T) {
	_, err := NewConf(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestDefaultsWithoutFileValues(t *testing.T) {
	var c AppConfig
	c.SetDefaults()
	assert.Equal(t, 5*time.Second, c.Orchestrator.StatusCheckTimeout)
	assert.Zero(t, c.Orchestrator.LeaseTTL)
	assert.Zero(t, c.Report.PublishSuppressWindow)
}
