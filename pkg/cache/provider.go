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
	"github.com/arcentrix/e2epulse/pkg/log"
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(ProvideCache)

// ProvideCache returns a redis-backed cache, or the memory one when redis.type is "memory".
func ProvideCache(conf Redis, _ *log.Logger) (ICache, func(), error) {
	conf.SetDefaults()
	if conf.Type == TypeMemory {
		log.Info("using in-memory cache")
		return NewMemoryCache(), func() {}, nil
	}
	c, cleanup, err := NewRedisCache(conf)
	if err != nil {
		return nil, nil, err
	}
	log.Infow("redis connected", "mode", conf.Mode)
	return c, cleanup, nil
}
