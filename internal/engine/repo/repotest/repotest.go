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

// Package repotest opens migrated in-memory databases for tests.
package repotest

import (
	"testing"

	"github.com/arcentrix/e2epulse/internal/engine/model"
	"github.com/arcentrix/e2epulse/pkg/database"
)

// NewDB returns an isolated, migrated sqlite database closed at test end.
func NewDB(t testing.TB) database.IDatabase {
	t.Helper()
	m, err := database.NewManager(database.Database{
		Driver: database.DriverSQLite,
		SQLite: database.SQLiteConfig{Path: ":memory:"},
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })

	if err := m.DB().AutoMigrate(model.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return database.NewDatabaseAdapter(m)
}
