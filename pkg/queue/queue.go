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

// Package queue publishes and consumes domain events over a pluggable broker.
package queue

import (
	"context"
	"fmt"

	"github.com/arcentrix/e2epulse/pkg/mq"
	"github.com/arcentrix/e2epulse/pkg/mq/kafka"
	"github.com/arcentrix/e2epulse/pkg/mq/rocketmq"
	"github.com/google/uuid"
)

const (
	TypeMemory   = "memory"
	TypeKafka    = "kafka"
	TypeRocketMQ = "rocketmq"

	// HeaderMessageID carries a per-publish uuid.
	HeaderMessageID = "messageId"
)

// Config is the messageQueue section.
type Config struct {
	Type     string          `mapstructure:"type"`
	Kafka    kafka.Config    `mapstructure:"kafka"`
	RocketMQ rocketmq.Config `mapstructure:"rocketmq"`
	// MemoryBuffer is the per-topic channel size of the memory broker.
	MemoryBuffer int `mapstructure:"memoryBuffer"`
}

func (c *Config) SetDefaults() {
	if c.Type == "" {
		c.Type = TypeMemory
	}
	if c.Kafka.ClientID == "" {
		c.Kafka.ClientID = "e2epulse"
	}
	if c.MemoryBuffer <= 0 {
		c.MemoryBuffer = 256
	}
}

// Broker is the transport for asynchronous work items.
type Broker interface {
	// Publish sends value to topic. A messageId header is added when absent.
	Publish(ctx context.Context, topic, key string, value []byte, headers map[string]string) error
	// Subscribe blocks, delivering messages of topic to handler until ctx is done.
	Subscribe(ctx context.Context, topic string, handler mq.Handler) error
	Close() error
}

// NewBroker builds the broker selected by cfg.Type.
func NewBroker(cfg Config) (Broker, error) {
	cfg.SetDefaults()
	switch cfg.Type {
	case TypeMemory:
		return NewMemoryBroker(cfg.MemoryBuffer), nil
	case TypeKafka:
		return newKafkaBroker(cfg.Kafka)
	case TypeRocketMQ:
		return newRocketMQBroker(cfg.RocketMQ)
	default:
		return nil, fmt.Errorf("unsupported message queue type: %s", cfg.Type)
	}
}

func withMessageID(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers)+1)
	for k, v := range headers {
		out[k] = v
	}
	if out[HeaderMessageID] == "" {
		out[HeaderMessageID] = uuid.NewString()
	}
	return out
}
