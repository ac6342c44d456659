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
	"context"
	"fmt"
	"sync"

	"github.com/arcentrix/e2epulse/pkg/mq"
	"github.com/arcentrix/e2epulse/pkg/mq/kafka"
)

type kafkaBroker struct {
	cfg      kafka.Config
	producer *kafka.Producer

	mu        sync.Mutex
	consumers []*kafka.Consumer
}

func newKafkaBroker(cfg kafka.Config) (*kafkaBroker, error) {
	p, err := kafka.NewProducer(kafka.ProducerConfig{Config: cfg, Idempotent: true})
	if err != nil {
		return nil, fmt.Errorf("kafka broker: %w", err)
	}
	return &kafkaBroker{cfg: cfg, producer: p}, nil
}

func (b *kafkaBroker) Publish(ctx context.Context, topic, key string, value []byte, headers map[string]string) error {
	return b.producer.Send(ctx, &mq.Message{
		Topic:   topic,
		Key:     key,
		Value:   value,
		Headers: withMessageID(headers),
	})
}

func (b *kafkaBroker) Subscribe(ctx context.Context, topic string, handler mq.Handler) error {
	c, err := kafka.NewConsumer(topic, kafka.WithConsumerClientOptions(kafka.FromConfig(b.cfg)))
	if err != nil {
		return fmt.Errorf("kafka broker: %w", err)
	}
	b.mu.Lock()
	b.consumers = append(b.consumers, c)
	b.mu.Unlock()
	return c.Consume(ctx, handler)
}

func (b *kafkaBroker) Close() error {
	b.producer.Close()
	b.mu.Lock()
	defer b.mu.Unlock()
	var firstErr error
	for _, c := range b.consumers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
