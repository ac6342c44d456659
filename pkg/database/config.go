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
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Database holds driver selection and pool settings.
type Database struct {
	Driver       string       `mapstructure:"driver"`
	OutPut       bool         `mapstructure:"output"`
	MaxOpenConns int          `mapstructure:"maxOpenConns"`
	MaxIdleConns int          `mapstructure:"maxIdleConns"`
	MaxLifetime  int          `mapstructure:"maxLifetime"` // seconds
	MaxIdleTime  int          `mapstructure:"maxIdleTime"` // seconds
	MySQL        MySQLConfig  `mapstructure:"mysql"`
	SQLite       SQLiteConfig `mapstructure:"sqlite"`
}

type MySQLConfig struct {
	Host     string   `mapstructure:"host"`
	Port     int      `mapstructure:"port"`
	User     string   `mapstructure:"user"`
	Password string   `mapstructure:"password"`
	DBName   string   `mapstructure:"dbName"`
	Primary  []string `mapstructure:"primary"`  // DSNs
	Replicas []string `mapstructure:"replicas"` // DSNs
}

type SQLiteConfig struct {
	// Path of the database file, or ":memory:".
	Path string `mapstructure:"path"`
}

func (d *Database) SetDefaults() {
	if d.Driver == "" {
		d.Driver = DriverMySQL
	}
	if d.MaxOpenConns <= 0 {
		d.MaxOpenConns = 50
	}
	if d.MaxIdleConns <= 0 {
		d.MaxIdleConns = 10
	}
	if d.MySQL.Port == 0 {
		d.MySQL.Port = 3306
	}
	if d.SQLite.Path == "" {
		d.SQLite.Path = "e2epulse.db"
	}
}

func GetConnMaxLifetime(seconds int) time.Duration {
	if seconds <= 0 {
		return time.Hour
	}
	return time.Duration(seconds) * time.Second
}

func GetConnMaxIdleTime(seconds int) time.Duration {
	if seconds <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(seconds) * time.Second
}

func buildMySQLDSN(user, password, host string, port int, dbName string) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC", user, password, host, port, dbName)
}
