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

package database

import (
	"context"

	"gorm.io/gorm"
)

// IDatabase is embedded by repositories.
type IDatabase interface {
	Database() *gorm.DB
	// Transaction runs fn inside a transaction bound to ctx.
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type databaseAdapter struct {
	db *gorm.DB
}

// NewDatabaseAdapter wraps a Manager as IDatabase.
func NewDatabaseAdapter(manager Manager) IDatabase {
	return &databaseAdapter{db: manager.DB()}
}

// NewDatabaseFromGorm wraps a raw gorm handle; tests use it with sqlite.
func NewDatabaseFromGorm(db *gorm.DB) IDatabase {
	return &databaseAdapter{db: db}
}

func (a *databaseAdapter) Database() *gorm.DB {
	return a.db
}

func (a *databaseAdapter) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return a.db.WithContext(ctx).Transaction(fn)
}
