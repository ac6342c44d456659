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

package metrics

import (
	"context"
	"errors"
	"fmt"

	"github.com/arcentrix/e2epulse/pkg/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	Path    string `mapstructure:"path"`
}

func (c *MetricsConfig) SetDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 9090
	}
	if c.Path == "" {
		c.Path = "/metrics"
	}
}

// Server owns the process registry and, when enabled, serves it over HTTP.
type Server struct {
	config   MetricsConfig
	registry *prometheus.Registry
	app      *fiber.App
}

func NewServer(config MetricsConfig) *Server {
	config.SetDefaults()
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Server{config: config, registry: registry}
}

func (s *Server) GetRegistry() *prometheus.Registry {
	return s.registry
}

// Register adds collectors, ignoring ones already registered.
func (s *Server) Register(cs ...prometheus.Collector) {
	for _, c := range cs {
		if err := s.registry.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				log.Warnw("failed to register collector", "error", err)
			}
		}
	}
}

// Start serves the registry in the background. It is a no-op when disabled.
func (s *Server) Start() {
	if !s.config.Enabled {
		return
	}
	s.app = fiber.New(fiber.Config{DisableStartupMessage: true})
	s.app.Get(s.config.Path, adaptor.HTTPHandler(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry})))

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	go func() {
		log.Infow("metrics server listening", "addr", addr, "path", s.config.Path)
		if err := s.app.Listen(addr); err != nil {
			log.Errorw("metrics server stopped", "error", err)
		}
	}()
}

func (s *Server) Stop(ctx context.Context) error {
	if s.app == nil {
		return nil
	}
	return s.app.ShutdownWithContext(ctx)
}
