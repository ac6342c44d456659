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

package kafka

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arcentrix/e2epulse/pkg/log"
	"github.com/arcentrix/e2epulse/pkg/mq"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// ConsumerConfig represents Kafka consumer configuration.
type ConsumerConfig struct {
	Config `mapstructure:",squash"`

	GroupID           string        `mapstructure:"groupId"`
	AutoOffsetReset   string        `mapstructure:"autoOffsetReset"`
	SessionTimeoutMs  int           `mapstructure:"sessionTimeoutMs"`
	MaxPollIntervalMs int           `mapstructure:"maxPollIntervalMs"`
	PollTimeout       time.Duration `mapstructure:"pollTimeout"`
}

type ConsumerOption interface {
	apply(*ConsumerConfig)
}

type consumerOptionFunc func(*ConsumerConfig)

func (fn consumerOptionFunc) apply(cfg *ConsumerConfig) {
	fn(cfg)
}

func WithConsumerClientOptions(opts ...ClientOption) ConsumerOption {
	return consumerOptionFunc(func(cfg *ConsumerConfig) {
		for _, opt := range opts {
			opt.apply(&cfg.Config)
		}
	})
}

func WithConsumerGroupID(groupID string) ConsumerOption {
	return consumerOptionFunc(func(cfg *ConsumerConfig) {
		cfg.GroupID = groupID
	})
}

func WithConsumerAutoOffsetReset(reset string) ConsumerOption {
	return consumerOptionFunc(func(cfg *ConsumerConfig) {
		cfg.AutoOffsetReset = reset
	})
}

func WithConsumerSessionTimeoutMs(timeoutMs int) ConsumerOption {
	return consumerOptionFunc(func(cfg *ConsumerConfig) {
		cfg.SessionTimeoutMs = timeoutMs
	})
}

func WithConsumerMaxPollIntervalMs(intervalMs int) ConsumerOption {
	return consumerOptionFunc(func(cfg *ConsumerConfig) {
		cfg.MaxPollIntervalMs = intervalMs
	})
}

func WithConsumerPollTimeout(timeout time.Duration) ConsumerOption {
	return consumerOptionFunc(func(cfg *ConsumerConfig) {
		cfg.PollTimeout = timeout
	})
}

// Consumer reads a topic with manual commits: a message is committed only
// after the handler has returned.
type Consumer struct {
	consumer    *kafka.Consumer
	pollTimeout time.Duration
}

// NewConsumer creates a consumer for topic. Without an explicit group id the
// group is "<TOPIC>_CONSUMER".
func NewConsumer(topic string, opts ...ConsumerOption) (*Consumer, error) {
	if err := mq.RequireNonEmpty("topic", topic); err != nil {
		return nil, err
	}
	var cfg ConsumerConfig
	for _, opt := range opts {
		opt.apply(&cfg)
	}
	normalizeConsumerConfig(&cfg, topic)

	config, err := buildBaseConfig(cfg.Config)
	if err != nil {
		return nil, err
	}
	clientID, err := buildClientID(cfg.ClientID)
	if err != nil {
		return nil, err
	}
	_ = config.SetKey("client.id", clientID)
	_ = config.SetKey("group.id", cfg.GroupID)
	_ = config.SetKey("auto.offset.reset", cfg.AutoOffsetReset)
	_ = config.SetKey("enable.auto.commit", false)
	_ = config.SetKey("session.timeout.ms", cfg.SessionTimeoutMs)
	_ = config.SetKey("max.poll.interval.ms", cfg.MaxPollIntervalMs)

	consumer, err := kafka.NewConsumer(config)
	if err != nil {
		return nil, fmt.Errorf("create consumer: %w", err)
	}
	if err := consumer.SubscribeTopics([]string{topic}, nil); err != nil {
		_ = consumer.Close()
		return nil, fmt.Errorf("subscribe topic %s: %w", topic, err)
	}
	return &Consumer{consumer: consumer, pollTimeout: cfg.PollTimeout}, nil
}

func normalizeConsumerConfig(cfg *ConsumerConfig, topic string) {
	if cfg.GroupID == "" {
		cfg.GroupID = strings.ToUpper(fmt.Sprintf("%s_CONSUMER", strings.TrimSpace(topic)))
	}
	if cfg.AutoOffsetReset == "" {
		cfg.AutoOffsetReset = "earliest"
	}
	if cfg.SessionTimeoutMs == 0 {
		cfg.SessionTimeoutMs = 10000
	}
	if cfg.MaxPollIntervalMs == 0 {
		cfg.MaxPollIntervalMs = 300000
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = time.Second
	}
}

// Consume blocks until ctx is done, passing each message to handler.
// Handler errors are logged and the offset is still committed; redelivery is
// left to the producer side.
func (c *Consumer) Consume(ctx context.Context, handler mq.Handler) error {
	if c == nil || c.consumer == nil {
		return fmt.Errorf("consumer is not initialized")
	}
	if handler == nil {
		return fmt.Errorf("handler is required")
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		km, err := c.consumer.ReadMessage(c.pollTimeout)
		if err != nil {
			var kerr kafka.Error
			if errors.As(err, &kerr) && kerr.IsTimeout() {
				continue
			}
			log.Warnw("kafka read failed", "error", err)
			continue
		}

		msg := &mq.Message{
			Key:     string(km.Key),
			Value:   km.Value,
			Headers: toHeaders(km.Headers),
		}
		if km.TopicPartition.Topic != nil {
			msg.Topic = *km.TopicPartition.Topic
		}
		if err := handler(ctx, msg); err != nil {
			log.Errorw("kafka handler failed", "topic", msg.Topic, "key", msg.Key, "error", err)
		}
		if _, err := c.consumer.CommitMessage(km); err != nil {
			log.Warnw("kafka commit failed", "topic", msg.Topic, "error", err)
		}
	}
}

// Close closes the consumer.
func (c *Consumer) Close() error {
	if c == nil || c.consumer == nil {
		return nil
	}
	return c.consumer.Close()
}
