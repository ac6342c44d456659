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

//go:build wireinject
// +build wireinject

package main

import (
	"github.com/arcentrix/e2epulse/internal/engine/config"
	"github.com/arcentrix/e2epulse/internal/engine/repo"
	"github.com/arcentrix/e2epulse/internal/engine/service"
	"github.com/arcentrix/e2epulse/pkg/cache"
	"github.com/arcentrix/e2epulse/pkg/database"
	"github.com/arcentrix/e2epulse/pkg/log"
	"github.com/arcentrix/e2epulse/pkg/queue"
	"github.com/google/wire"
)

func initCliApp(configPath string) (*cliApp, func(), error) {
	panic(wire.Build(
		config.NewConf,
		wire.FieldsOf(new(*config.AppConfig),
			"Log", "Database", "Redis", "MessageQueue",
			"CI", "TestReport", "Orchestrator", "Report",
		),
		log.ProviderSet,
		database.ProviderSet,
		cache.ProviderSet,
		queue.ProviderSet,
		repo.ProviderSet,
		service.ProviderSet,
		newCliApp,
	))
}
