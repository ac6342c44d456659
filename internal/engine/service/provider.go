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

package service

import (
	"github.com/google/wire"

	"github.com/arcentrix/e2epulse/internal/engine/config"
	"github.com/arcentrix/e2epulse/internal/engine/repo"
	"github.com/arcentrix/e2epulse/pkg/cache"
	"github.com/arcentrix/e2epulse/pkg/ci"
	_ "github.com/arcentrix/e2epulse/pkg/ci/circleci"
	"github.com/arcentrix/e2epulse/pkg/queue"
	"github.com/arcentrix/e2epulse/pkg/testreport"
)

// ProviderSet provides the service layer and its external clients.
var ProviderSet = wire.NewSet(
	ProvideCIProvider,
	ProvideTestReportClient,
	ProvideServices,
)

func ProvideCIProvider(conf ci.ProviderConfig) (ci.Provider, error) {
	return ci.NewProvider(conf)
}

func ProvideTestReportClient(conf testreport.Config) (testreport.Client, error) {
	return testreport.NewClient(conf)
}

// Services groups every service used by the router, consumer and scheduler.
type Services struct {
	Application *ApplicationService
	ManualRun   *ManualRunService
	Report      *ReportService
	Generator   *ReportGenerator
}

func ProvideServices(
	repos *repo.Repositories,
	provider ci.Provider,
	stats testreport.Client,
	broker queue.Broker,
	c cache.ICache,
	orchestrator config.OrchestratorConfig,
	report config.ReportConfig,
) *Services {
	return NewServices(repos, provider, stats, broker, c, orchestrator, report)
}

func NewServices(
	repos *repo.Repositories,
	provider ci.Provider,
	stats testreport.Client,
	broker queue.Broker,
	c cache.ICache,
	orchestrator config.OrchestratorConfig,
	report config.ReportConfig,
) *Services {
	return &Services{
		Application: NewApplicationService(repos.Application),
		ManualRun:   NewManualRunService(repos, provider, c, orchestrator),
		Report:      NewReportService(repos, stats, broker, c, report),
		Generator:   NewReportGenerator(repos, stats),
	}
}
