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
	"fmt"
	"time"

	"github.com/arcentrix/e2epulse/pkg/log"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

// Manager owns the gorm connection for the configured driver.
type Manager interface {
	// DB returns the primary gorm handle
	DB() *gorm.DB

	// Close closes all database connections
	Close() error
}

type managerImpl struct {
	db *gorm.DB
}

func (m *managerImpl) DB() *gorm.DB {
	return m.db
}

func (m *managerImpl) Close() error {
	if m.db == nil {
		return nil
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// NewManager opens the database selected by cfg.Driver.
func NewManager(cfg Database) (Manager, error) {
	cfg.SetDefaults()

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case DriverMySQL:
		db, err = newMySQLConnection(cfg.MySQL, cfg)
	case DriverSQLite:
		db, err = newSQLiteConnection(cfg.SQLite, cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	log.Infow("database connected", "driver", cfg.Driver)
	return &managerImpl{db: db}, nil
}

func gormConfig(commonCfg Database) *gorm.Config {
	var l gormlogger.Interface
	if commonCfg.OutPut {
		l = NewGormLoggerAdapter(gormlogger.Config{
			SlowThreshold:             time.Second,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
		}, gormlogger.Info)
	} else {
		l = gormlogger.Default.LogMode(gormlogger.Silent)
	}
	return &gorm.Config{
		Logger:  l,
		NowFunc: func() time.Time { return time.Now().UTC() },
	}
}

func newSQLiteConnection(sqliteCfg SQLiteConfig, commonCfg Database) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(sqliteCfg.Path), gormConfig(commonCfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite connection: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB handle: %w", err)
	}
	// sqlite serializes writers; a single connection also keeps ":memory:" databases shared
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// newMySQLConnection creates a MySQL connection with optional DBResolver read/write split.
func newMySQLConnection(mysqlCfg MySQLConfig, commonCfg Database) (*gorm.DB, error) {
	defaultDSN := buildMySQLDSN(mysqlCfg.User, mysqlCfg.Password, mysqlCfg.Host, mysqlCfg.Port, mysqlCfg.DBName)

	db, err := gorm.Open(mysql.Open(defaultDSN), gormConfig(commonCfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL connection: %w", err)
	}

	hasPrimary := len(mysqlCfg.Primary) > 0
	hasReplicas := len(mysqlCfg.Replicas) > 0
	if hasPrimary || hasReplicas {
		resolverConfig := dbresolver.Config{
			TraceResolverMode: commonCfg.OutPut,
		}
		if hasPrimary {
			resolverConfig.Sources = buildDialectors(mysqlCfg.Primary)
		}
		if hasReplicas {
			resolverConfig.Replicas = buildDialectors(mysqlCfg.Replicas)
		}
		err = db.Use(dbresolver.Register(resolverConfig).
			SetConnMaxIdleTime(GetConnMaxIdleTime(commonCfg.MaxIdleTime)).
			SetConnMaxLifetime(GetConnMaxLifetime(commonCfg.MaxLifetime)).
			SetMaxIdleConns(commonCfg.MaxIdleConns).
			SetMaxOpenConns(commonCfg.MaxOpenConns))
		if err != nil {
			return nil, fmt.Errorf("failed to register DBResolver plugin: %w", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(commonCfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(commonCfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(GetConnMaxLifetime(commonCfg.MaxLifetime))
	sqlDB.SetConnMaxIdleTime(GetConnMaxIdleTime(commonCfg.MaxIdleTime))

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}
	if hasPrimary || hasReplicas {
		log.Info("MySQL connected with DBResolver (read-write separation enabled)")
	}
	return db, nil
}

func buildDialectors(dsns []string) []gorm.Dialector {
	out := make([]gorm.Dialector, 0, len(dsns))
	for _, dsn := range dsns {
		out = append(out, mysql.Open(dsn))
	}
	return out
}
