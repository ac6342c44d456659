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

package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/arcentrix/e2epulse/pkg/cache"
	"github.com/arcentrix/e2epulse/pkg/ci"
	"github.com/arcentrix/e2epulse/pkg/database"
	"github.com/arcentrix/e2epulse/pkg/env"
	"github.com/arcentrix/e2epulse/pkg/http"
	"github.com/arcentrix/e2epulse/pkg/log"
	"github.com/arcentrix/e2epulse/pkg/metrics"
	"github.com/arcentrix/e2epulse/pkg/queue"
	"github.com/arcentrix/e2epulse/pkg/testreport"
	"github.com/arcentrix/e2epulse/pkg/trace"
)

// OrchestratorConfig tunes manual run triggering.
type OrchestratorConfig struct {
	// StatusCheckTimeout bounds the CI status query used as the concurrency guard.
	StatusCheckTimeout time.Duration `mapstructure:"statusCheckTimeout"`
	// LeaseTTL enables a local per-application lease when > 0.
	LeaseTTL time.Duration `mapstructure:"leaseTTL"`
}

func (o *OrchestratorConfig) SetDefaults() {
	if o.StatusCheckTimeout <= 0 {
		o.StatusCheckTimeout = 5 * time.Second
	}
	if o.LeaseTTL < 0 {
		o.LeaseTTL = 0
	}
}

// ReportConfig tunes report generation.
type ReportConfig struct {
	Topic string `mapstructure:"topic"`
	// PublishSuppressWindow skips duplicate generation requests for a date
	// within the window. 0 publishes on every miss.
	PublishSuppressWindow time.Duration `mapstructure:"publishSuppressWindow"`
	// PublishTimeout bounds a single generation request publish.
	PublishTimeout time.Duration `mapstructure:"publishTimeout"`
	// Cron republishes today's date; empty disables the schedule.
	Cron            string `mapstructure:"cron"`
	ConsumerEnabled bool   `mapstructure:"consumerEnabled"`
	// GenerateTimeout bounds a single Generate call made by the consumer.
	GenerateTimeout time.Duration `mapstructure:"generateTimeout"`
}

func (r *ReportConfig) SetDefaults() {
	if r.Topic == "" {
		r.Topic = "e2epulse.report.generate"
	}
	if r.PublishSuppressWindow < 0 {
		r.PublishSuppressWindow = 0
	}
	if r.PublishTimeout <= 0 {
		r.PublishTimeout = 5 * time.Second
	}
	if r.GenerateTimeout <= 0 {
		r.GenerateTimeout = 2 * time.Minute
	}
}

type AppConfig struct {
	Log          log.Conf              `mapstructure:"log"`
	Http         http.Http             `mapstructure:"http"`
	Database     database.Database     `mapstructure:"database"`
	Redis        cache.Redis           `mapstructure:"redis"`
	MessageQueue queue.Config          `mapstructure:"messageQueue"`
	CI           ci.ProviderConfig     `mapstructure:"ci"`
	TestReport   testreport.Config     `mapstructure:"testReport"`
	Orchestrator OrchestratorConfig    `mapstructure:"orchestrator"`
	Report       ReportConfig          `mapstructure:"report"`
	Metrics      metrics.MetricsConfig `mapstructure:"metrics"`
	Trace        trace.TraceConfig     `mapstructure:"trace"`
}

// SetDefaults fills every section and applies secret overrides from the environment.
func (c *AppConfig) SetDefaults() {
	c.Http.SetDefaults()
	c.Database.SetDefaults()
	c.Redis.SetDefaults()
	c.MessageQueue.SetDefaults()
	c.CI.SetDefaults()
	c.TestReport.SetDefaults()
	c.Orchestrator.SetDefaults()
	c.Report.SetDefaults()
	c.Metrics.SetDefaults()
	c.Trace.SetDefaults()

	c.CI.Token = env.Prefixed("CI_TOKEN", c.CI.Token)
	c.TestReport.Token = env.Prefixed("TESTREPORT_TOKEN", c.TestReport.Token)
	c.Database.MySQL.Password = env.Prefixed("DB_PASSWORD", c.Database.MySQL.Password)
}

var (
	cfg AppConfig
	mu  sync.RWMutex
)

// NewConf loads the config file once per process start.
func NewConf(confPath string) (*AppConfig, error) {
	loaded, err := LoadConfigFile(confPath)
	if err != nil {
		return nil, err
	}
	return &loaded, nil
}

// GetConfig returns the current configuration, including hot-reloaded changes.
func GetConfig() AppConfig {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	defaults := log.SetDefaults()
	v.SetDefault("log.output", defaults.Output)
	v.SetDefault("log.path", defaults.Path)
	v.SetDefault("log.filename", defaults.Filename)
	v.SetDefault("log.level", defaults.Level)
	v.SetDefault("log.keepHours", defaults.KeepHours)
	v.SetDefault("log.rotateSize", defaults.RotateSize)
	v.SetDefault("log.rotateNum", defaults.RotateNum)
	v.SetDefault("report.cron", "0 */30 * * * *")
	v.SetDefault("report.consumerEnabled", true)
	return v
}

// LoadConfigFile reads confPath and watches it for changes.
func LoadConfigFile(confPath string) (AppConfig, error) {
	config := newViper()
	config.SetConfigFile(confPath)
	if err := config.ReadInConfig(); err != nil {
		return AppConfig{}, fmt.Errorf("failed to read configuration file: %w", err)
	}

	var loaded AppConfig
	if err := config.Unmarshal(&loaded); err != nil {
		return AppConfig{}, fmt.Errorf("failed to unmarshal configuration file: %w", err)
	}
	loaded.SetDefaults()

	mu.Lock()
	cfg = loaded
	mu.Unlock()

	config.OnConfigChange(func(e fsnotify.Event) {
		log.Infow("configuration changed, reloading", "file", e.Name)
		var next AppConfig
		if err := config.Unmarshal(&next); err != nil {
			log.Errorw("failed to unmarshal configuration file", "error", err, "file", e.Name)
			return
		}
		next.SetDefaults()
		mu.Lock()
		cfg = next
		mu.Unlock()
		log.Infow("configuration reloaded", "file", e.Name)
	})
	config.WatchConfig()

	log.Infow("config file loaded", "path", confPath)
	return loaded, nil
}
