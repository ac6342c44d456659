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
	"github.com/arcentrix/e2epulse/pkg/mq/rocketmq"
)

type rocketMQBroker struct {
	cfg      rocketmq.Config
	producer *rocketmq.Producer

	mu        sync.Mutex
	consumers []*rocketmq.Consumer
}

func newRocketMQBroker(cfg rocketmq.Config) (*rocketMQBroker, error) {
	p, err := rocketmq.NewProducer(cfg)
	if err != nil {
		return nil, fmt.Errorf("rocketmq broker: %w", err)
	}
	return &rocketMQBroker{cfg: cfg, producer: p}, nil
}

func (b *rocketMQBroker) Publish(ctx context.Context, topic, key string, value []byte, headers map[string]string) error {
	return b.producer.Send(ctx, &mq.Message{
		Topic:   topic,
		Key:     key,
		Value:   value,
		Headers: withMessageID(headers),
	})
}

func (b *rocketMQBroker) Subscribe(ctx context.Context, topic string, handler mq.Handler) error {
	// producer and consumer groups must differ
	ccfg := b.cfg
	ccfg.GroupName = ""
	c, err := rocketmq.NewConsumer(ccfg)
	if err != nil {
		return fmt.Errorf("rocketmq broker: %w", err)
	}
	b.mu.Lock()
	b.consumers = append(b.consumers, c)
	b.mu.Unlock()
	return c.Consume(ctx, topic, handler)
}

func (b *rocketMQBroker) Close() error {
	var firstErr error
	if err := b.producer.Close(); err != nil {
		firstErr = err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range b.consumers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
