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

package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	global *zap.SugaredLogger
	once   sync.Once
)

// Conf defines logger configuration.
type Conf struct {
	Output     string `mapstructure:"output"`
	Path       string `mapstructure:"path"`
	Filename   string `mapstructure:"filename"`
	Level      string `mapstructure:"level"`
	KeepHours  int    `mapstructure:"keepHours"`
	RotateSize int    `mapstructure:"rotateSize"`
	RotateNum  int    `mapstructure:"rotateNum"`
}

// Logger wraps zap.SugaredLogger for dependency injection.
type Logger struct {
	*zap.SugaredLogger
}

// SetDefaults returns default logger configuration.
func SetDefaults() *Conf {
	return &Conf{
		Output:     "stdout",
		Path:       "./logs",
		Filename:   "e2epulse.log",
		Level:      "INFO",
		KeepHours:  7,
		RotateSize: 100,
		RotateNum:  10,
	}
}

// Validate validates and normalizes logger configuration.
func (c *Conf) Validate() error {
	if c == nil {
		return fmt.Errorf("logger config is nil")
	}
	if c.Output == "" {
		c.Output = "stdout"
	}
	if c.Level == "" {
		c.Level = "INFO"
	}
	if c.Output == "file" {
		if c.Path == "" {
			return fmt.Errorf("log path is required when output is 'file'")
		}
		if c.Filename == "" {
			c.Filename = "e2epulse.log"
		}
		if c.RotateSize <= 0 {
			c.RotateSize = 100
		}
		if c.RotateNum <= 0 {
			c.RotateNum = 10
		}
		if c.KeepHours <= 0 {
			c.KeepHours = 7
		}
	}
	return nil
}

// New builds a logger from conf and installs it as the global logger.
func New(conf *Conf) (*Logger, error) {
	if conf == nil {
		conf = SetDefaults()
	}
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logger config: %w", err)
	}
	output, err := buildOutputWriter(conf)
	if err != nil {
		return nil, err
	}
	l := build(output, parseLogLevel(conf.Level))

	mu.Lock()
	global = l
	mu.Unlock()

	l.Debugw("logger initialized", "output", conf.Output, "level", conf.Level)
	return &Logger{SugaredLogger: l}, nil
}

func build(w io.Writer, level zapcore.Level) *zap.SugaredLogger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(level),
	)
	return zap.New(&traceCore{Core: core}, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()
}

// parseLogLevel converts string level to zapcore.Level.
func parseLogLevel(level string) zapcore.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "WARN", "WARNING":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func buildOutputWriter(conf *Conf) (io.Writer, error) {
	if conf.Output == "file" {
		return getFileLogWriter(conf)
	}
	return os.Stdout, nil
}

// GetLogger returns the global sugared logger, creating a stdout logger on first use.
func GetLogger() *zap.SugaredLogger {
	mu.RLock()
	l := global
	mu.RUnlock()
	if l != nil {
		return l
	}
	once.Do(func() {
		mu.Lock()
		defer mu.Unlock()
		if global == nil {
			global = build(os.Stdout, zapcore.InfoLevel)
		}
	})
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// SetLogger replaces the global logger. Tests use it to capture output.
func SetLogger(l *zap.SugaredLogger) {
	mu.Lock()
	global = l
	mu.Unlock()
}

// WithContext returns a logger carrying the span ids found in ctx.
func WithContext(ctx context.Context) *zap.SugaredLogger {
	l := GetLogger()
	if ctx == nil {
		return l
	}
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return l
	}
	return l.With("trace_id", sc.TraceID().String(), "span_id", sc.SpanID().String())
}

func Info(args ...any)                    { GetLogger().Info(args...) }
func Infow(msg string, kv ...any)         { GetLogger().Infow(msg, kv...) }
func Debug(args ...any)                   { GetLogger().Debug(args...) }
func Debugw(msg string, kv ...any)        { GetLogger().Debugw(msg, kv...) }
func Warn(args ...any)                    { GetLogger().Warn(args...) }
func Warnw(msg string, kv ...any)         { GetLogger().Warnw(msg, kv...) }
func Error(args ...any)                   { GetLogger().Error(args...) }
func Errorw(msg string, kv ...any)        { GetLogger().Errorw(msg, kv...) }
func Errorf(template string, args ...any) { GetLogger().Errorf(template, args...) }

// Sync flushes buffered log entries.
func Sync() error {
	return GetLogger().Sync()
}
