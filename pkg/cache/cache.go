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

package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when the key does not exist.
var ErrCacheMiss = errors.New("cache: key not found")

// ICache is the key/value store used for leases, suppression keys and query caching.
type ICache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// SetNX stores value only if key is absent and reports whether it did.
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
}

const (
	TypeMemory = "memory"
	TypeRedis  = "redis"
)

// Redis is the redis config section. Type "memory" keeps everything in-process.
type Redis struct {
	Type         string   `mapstructure:"type"`
	Mode         string   `mapstructure:"mode"` // single | cluster
	Host         string   `mapstructure:"host"`
	Port         int      `mapstructure:"port"`
	Addrs        []string `mapstructure:"addrs"`
	Password     string   `mapstructure:"password"`
	DB           int      `mapstructure:"db"`
	PoolSize     int      `mapstructure:"poolSize"`
	DialTimeout  int      `mapstructure:"dialTimeout"`  // seconds
	ReadTimeout  int      `mapstructure:"readTimeout"`  // seconds
	WriteTimeout int      `mapstructure:"writeTimeout"` // seconds
}

func (r *Redis) SetDefaults() {
	if r.Type == "" {
		r.Type = TypeMemory
	}
	if r.Mode == "" {
		r.Mode = "single"
	}
	if r.Host == "" {
		r.Host = "127.0.0.1"
	}
	if r.Port == 0 {
		r.Port = 6379
	}
	if r.PoolSize <= 0 {
		r.PoolSize = 20
	}
	if r.DialTimeout <= 0 {
		r.DialTimeout = 5
	}
	if r.ReadTimeout <= 0 {
		r.ReadTimeout = 3
	}
	if r.WriteTimeout <= 0 {
		r.WriteTimeout = 3
	}
}
