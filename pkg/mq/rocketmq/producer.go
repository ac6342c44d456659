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

package rocketmq

import (
	"context"
	"fmt"

	"github.com/apache/rocketmq-client-go/v2"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/apache/rocketmq-client-go/v2/producer"
	"github.com/arcentrix/e2epulse/pkg/mq"
)

// Producer wraps a started RocketMQ producer.
type Producer struct {
	producer rocketmq.Producer
}

func NewProducer(cfg Config) (*Producer, error) {
	if cfg.GroupName == "" {
		cfg.GroupName = "e2epulse-producer"
	}
	if cfg.Retry <= 0 {
		cfg.Retry = 3
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	credentials, err := cfg.credentials()
	if err != nil {
		return nil, err
	}

	opts := []producer.Option{
		producer.WithNsResolver(primitive.NewPassthroughResolver(cfg.NameServers)),
		producer.WithGroupName(cfg.GroupName),
		producer.WithRetry(cfg.Retry),
	}
	if credentials != nil {
		opts = append(opts, producer.WithCredentials(*credentials))
	}

	p, err := rocketmq.NewProducer(opts...)
	if err != nil {
		return nil, fmt.Errorf("create producer: %w", err)
	}
	if err := p.Start(); err != nil {
		return nil, fmt.Errorf("start producer: %w", err)
	}
	return &Producer{producer: p}, nil
}

// Send publishes msg synchronously. Headers travel as message properties.
func (p *Producer) Send(ctx context.Context, msg *mq.Message) error {
	if p == nil || p.producer == nil {
		return fmt.Errorf("producer is not initialized")
	}
	if msg == nil {
		return fmt.Errorf("message is required")
	}
	if err := mq.RequireNonEmpty("topic", msg.Topic); err != nil {
		return err
	}

	rm := primitive.NewMessage(msg.Topic, msg.Value)
	if msg.Key != "" {
		rm.WithKeys([]string{msg.Key})
	}
	for k, v := range msg.Headers {
		rm.WithProperty(k, v)
	}

	result, err := p.producer.SendSync(ctx, rm)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	if result.Status != primitive.SendOK {
		return fmt.Errorf("send message: status=%v", result.Status)
	}
	return nil
}

func (p *Producer) Close() error {
	if p == nil || p.producer == nil {
		return nil
	}
	return p.producer.Shutdown()
}
