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
	"errors"
	"fmt"
	"time"

	"github.com/arcentrix/e2epulse/pkg/log"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// gormLoggerAdapter sends gorm SQL logs through pkg/log.
type gormLoggerAdapter struct {
	cfg   gormlogger.Config
	level gormlogger.LogLevel
}

func NewGormLoggerAdapter(cfg gormlogger.Config, level gormlogger.LogLevel) gormlogger.Interface {
	return &gormLoggerAdapter{cfg: cfg, level: level}
}

func (l *gormLoggerAdapter) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	n := *l
	n.level = level
	return &n
}

func (l *gormLoggerAdapter) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Info {
		log.WithContext(ctx).Infof(msg, data...)
	}
}

func (l *gormLoggerAdapter) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Warn {
		log.WithContext(ctx).Warnf(msg, data...)
	}
}

func (l *gormLoggerAdapter) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Error {
		log.WithContext(ctx).Errorf(msg, data...)
	}
}

func (l *gormLoggerAdapter) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	logger := log.WithContext(ctx)
	switch {
	case err != nil && l.level >= gormlogger.Error && (!errors.Is(err, gorm.ErrRecordNotFound) || !l.cfg.IgnoreRecordNotFoundError):
		logger.Errorw("sql error", "sql", sql, "rows", rows, "elapsed", elapsed, "error", err)
	case l.cfg.SlowThreshold != 0 && elapsed > l.cfg.SlowThreshold && l.level >= gormlogger.Warn:
		logger.Warnw("slow sql", "sql", sql, "rows", rows, "elapsed", elapsed, "threshold", fmt.Sprint(l.cfg.SlowThreshold))
	case l.level >= gormlogger.Info:
		logger.Debugw("sql", "sql", sql, "rows", rows, "elapsed", elapsed)
	}
}
