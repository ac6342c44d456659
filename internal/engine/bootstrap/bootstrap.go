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

package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/arcentrix/e2epulse/internal/engine/config"
	"github.com/arcentrix/e2epulse/internal/engine/consumer"
	"github.com/arcentrix/e2epulse/internal/engine/model"
	"github.com/arcentrix/e2epulse/internal/engine/router"
	"github.com/arcentrix/e2epulse/internal/engine/scheduler"
	"github.com/arcentrix/e2epulse/internal/engine/service"
	"github.com/arcentrix/e2epulse/pkg/database"
	"github.com/arcentrix/e2epulse/pkg/log"
	"github.com/arcentrix/e2epulse/pkg/metrics"
	"github.com/arcentrix/e2epulse/pkg/safe"
	"github.com/arcentrix/e2epulse/pkg/trace"
)

// ProviderSet builds the App from the lower layers.
var ProviderSet = wire.NewSet(
	consumer.NewReportConsumer,
	wire.Bind(new(consumer.Generator), new(*service.ReportGenerator)),
	ProvideGenerator,
	ProvideScheduler,
	NewApp,
)

func ProvideGenerator(services *service.Services) *service.ReportGenerator {
	return services.Generator
}

func ProvideScheduler(services *service.Services, conf config.ReportConfig) *scheduler.Scheduler {
	return scheduler.NewScheduler(services.Report, conf)
}

type App struct {
	HttpApp       *fiber.App
	MetricsServer *metrics.Server
	Consumer      *consumer.ReportConsumer
	Scheduler     *scheduler.Scheduler
	Services      *service.Services
	Logger        *log.Logger
	AppConf       *config.AppConfig
	DB            database.IDatabase
}

// InitAppFunc init app function type
type InitAppFunc func(configPath string) (*App, func(), error)

func NewApp(
	rt *router.Router,
	logger *log.Logger,
	metricsServer *metrics.Server,
	reportConsumer *consumer.ReportConsumer,
	sched *scheduler.Scheduler,
	services *service.Services,
	appConf *config.AppConfig,
	db database.IDatabase,
) (*App, func(), error) {
	metricsServer.Register(service.Collectors()...)

	app := &App{
		HttpApp:       rt.Router(),
		MetricsServer: metricsServer,
		Consumer:      reportConsumer,
		Scheduler:     sched,
		Services:      services,
		Logger:        logger,
		AppConf:       appConf,
		DB:            db,
	}

	cleanup := func() {
		log.Info("Shutting down metrics server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsServer.Stop(shutdownCtx); err != nil {
			log.Errorw("Failed to stop metrics server", zap.Error(err))
		}

		log.Info("Shutting down OpenTelemetry tracing...")
		if err := trace.Shutdown(shutdownCtx); err != nil {
			log.Errorw("Failed to shutdown OpenTelemetry tracing", zap.Error(err))
		}
	}
	return app, cleanup, nil
}

// AutoMigrate creates or updates every table.
func AutoMigrate(db database.IDatabase) error {
	if err := db.Database().AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Bootstrap init app, return App instance and cleanup function
func Bootstrap(configFile string, initApp InitAppFunc) (*App, func(), error) {
	app, cleanup, err := initApp(configFile)
	if err != nil {
		return nil, nil, err
	}

	if err := trace.Init(app.AppConf.Trace); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to initialize OpenTelemetry tracing: %w", err)
	}
	if err := AutoMigrate(app.DB); err != nil {
		cleanup()
		return nil, nil, err
	}
	return app, cleanup, nil
}

// Run start app and wait for exit signal, then gracefully shutdown
func Run(app *App, cleanup func()) {
	appConf := app.AppConf
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app.MetricsServer.Start()

	consumerDone := make(chan struct{})
	if appConf.Report.ConsumerEnabled {
		safe.Go(func() {
			defer close(consumerDone)
			if err := app.Consumer.Start(ctx); err != nil {
				log.Errorw("report consumer failed", zap.Error(err))
			}
		})
	} else {
		close(consumerDone)
	}

	if err := app.Scheduler.Start(); err != nil {
		log.Errorw("report scheduler failed", zap.Error(err))
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	listenErr := make(chan error, 1)
	safe.Go(func() {
		addr := fmt.Sprintf("%s:%d", appConf.Http.Host, appConf.Http.Port)
		log.Infow("HTTP listener started", "address", addr)
		if err := app.HttpApp.Listen(addr); err != nil {
			listenErr <- err
		}
	})

	select {
	case sig := <-quit:
		log.Infow("Received OS signal, shutting down gracefully...", "signal", sig)
	case err := <-listenErr:
		log.Errorw("HTTP listener failed", zap.Error(err))
	}

	app.Scheduler.Stop()
	cancel()

	shutdownTimeout := time.Duration(appConf.Http.ShutdownTimeout) * time.Second
	if err := app.HttpApp.ShutdownWithTimeout(shutdownTimeout); err != nil && !errors.Is(err, context.Canceled) {
		log.Errorw("HTTP server shutdown error", zap.Error(err))
	} else {
		log.Info("HTTP server shut down gracefully")
	}

	select {
	case <-consumerDone:
	case <-time.After(shutdownTimeout):
		log.Warn("report consumer did not stop in time")
	}

	cleanup()
	log.Info("Server shutdown complete")
}
