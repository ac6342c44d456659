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

package repo

import (
	"github.com/arcentrix/e2epulse/pkg/cache"
	"github.com/arcentrix/e2epulse/pkg/database"
	"github.com/google/wire"
)

// ProviderSet provides the repository aggregate.
var ProviderSet = wire.NewSet(
	NewRepositories,
)

// Repositories groups every repository used by the services.
type Repositories struct {
	Application IApplicationRepository
	ManualRun   IManualRunRepository
	Report      IReportRepository
}

func NewRepositories(db database.IDatabase, c cache.ICache) *Repositories {
	return &Repositories{
		Application: NewApplicationRepo(db, c),
		ManualRun:   NewManualRunRepo(db),
		Report:      NewReportRepo(db),
	}
}
