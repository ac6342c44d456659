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

package queue

import (
	"github.com/arcentrix/e2epulse/pkg/log"
	"github.com/google/wire"
)

// ProviderSet provides the configured Broker.
var ProviderSet = wire.NewSet(ProvideBroker)

func ProvideBroker(cfg Config, _ *log.Logger) (Broker, func(), error) {
	b, err := NewBroker(cfg)
	if err != nil {
		return nil, nil, err
	}
	log.Infow("message queue ready", "type", cfg.Type)
	return b, func() {
		if err := b.Close(); err != nil {
			log.Warnw("failed to close message queue", "error", err)
		}
	}, nil
}
