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
	"time"

	"github.com/apache/rocketmq-client-go/v2"
	"github.com/apache/rocketmq-client-go/v2/consumer"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/arcentrix/e2epulse/pkg/mq"
)

// Consumer wraps a clustering push consumer.
type Consumer struct {
	consumer rocketmq.PushConsumer
}

func NewConsumer(cfg Config) (*Consumer, error) {
	if cfg.GroupName == "" {
		cfg.GroupName = "e2epulse-consumer"
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	credentials, err := cfg.credentials()
	if err != nil {
		return nil, err
	}

	opts := []consumer.Option{
		consumer.WithGroupName(cfg.GroupName),
		consumer.WithNsResolver(primitive.NewPassthroughResolver(cfg.NameServers)),
		consumer.WithConsumerModel(consumer.Clustering),
		consumer.WithConsumeTimeout(5 * time.Minute),
		consumer.WithMaxReconsumeTimes(3),
	}
	if credentials != nil {
		opts = append(opts, consumer.WithCredentials(*credentials))
	}

	c, err := rocketmq.NewPushConsumer(opts...)
	if err != nil {
		return nil, fmt.Errorf("create consumer: %w", err)
	}
	return &Consumer{consumer: c}, nil
}

// Consume subscribes handler to topic and blocks until ctx is done.
// A handler error asks the broker to redeliver later.
func (c *Consumer) Consume(ctx context.Context, topic string, handler mq.Handler) error {
	if c == nil || c.consumer == nil {
		return fmt.Errorf("consumer is not initialized")
	}
	if err := mq.RequireNonEmpty("topic", topic); err != nil {
		return err
	}
	if handler == nil {
		return fmt.Errorf("handler is required")
	}

	err := c.consumer.Subscribe(topic, consumer.MessageSelector{}, func(mctx context.Context, msgs ...*primitive.MessageExt) (consumer.ConsumeResult, error) {
		for _, m := range msgs {
			if err := handler(mctx, toMessage(m)); err != nil {
				return consumer.ConsumeRetryLater, err
			}
		}
		return consumer.ConsumeSuccess, nil
	})
	if err != nil {
		return fmt.Errorf("subscribe topic %s: %w", topic, err)
	}
	if err := c.consumer.Start(); err != nil {
		return fmt.Errorf("start consumer: %w", err)
	}

	<-ctx.Done()
	return nil
}

func toMessage(m *primitive.MessageExt) *mq.Message {
	props := m.GetProperties()
	headers := make(map[string]string, len(props))
	for k, v := range props {
		headers[k] = v
	}
	return &mq.Message{
		Topic:   m.Topic,
		Key:     m.GetKeys(),
		Value:   m.Body,
		Headers: headers,
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.consumer == nil {
		return nil
	}
	return c.consumer.Shutdown()
}
