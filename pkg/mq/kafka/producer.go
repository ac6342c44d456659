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
	"fmt"
	"time"

	"github.com/arcentrix/e2epulse/pkg/log"
	"github.com/arcentrix/e2epulse/pkg/mq"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

const defaultFlushTimeout = 15 * time.Second

// ProducerConfig tunes delivery. Zero values take the defaults in
// normalizeProducerConfig.
type ProducerConfig struct {
	Config       `mapstructure:",squash"`
	Acks         string        `mapstructure:"acks"`
	Idempotent   bool          `mapstructure:"idempotent"`
	LingerMs     int           `mapstructure:"lingerMs"`
	Compression  string        `mapstructure:"compression"`
	FlushTimeout time.Duration `mapstructure:"flushTimeout"`
}

func normalizeProducerConfig(cfg *ProducerConfig) {
	if cfg.Idempotent || cfg.Acks == "" {
		// librdkafka rejects idempotence unless acks=all.
		cfg.Acks = "all"
	}
	if cfg.Compression == "" {
		cfg.Compression = "snappy"
	}
	if cfg.LingerMs <= 0 {
		cfg.LingerMs = 5
	}
	if cfg.FlushTimeout <= 0 {
		cfg.FlushTimeout = defaultFlushTimeout
	}
}

func (cfg ProducerConfig) configMap() (*kafka.ConfigMap, error) {
	cm, err := buildBaseConfig(cfg.Config)
	if err != nil {
		return nil, err
	}
	clientID, err := buildClientID(cfg.ClientID)
	if err != nil {
		return nil, err
	}
	for k, v := range map[string]kafka.ConfigValue{
		"client.id":          clientID,
		"acks":               cfg.Acks,
		"enable.idempotence": cfg.Idempotent,
		"linger.ms":          cfg.LingerMs,
		"compression.type":   cfg.Compression,
	} {
		if err := cm.SetKey(k, v); err != nil {
			return nil, fmt.Errorf("set %s: %w", k, err)
		}
	}
	return cm, nil
}

// Producer publishes one message at a time and waits for its delivery report.
type Producer struct {
	producer     *kafka.Producer
	flushTimeout time.Duration
}

func NewProducer(cfg ProducerConfig) (*Producer, error) {
	normalizeProducerConfig(&cfg)
	cm, err := cfg.configMap()
	if err != nil {
		return nil, err
	}
	p, err := kafka.NewProducer(cm)
	if err != nil {
		return nil, fmt.Errorf("create producer: %w", err)
	}
	return &Producer{producer: p, flushTimeout: cfg.FlushTimeout}, nil
}

// Send blocks until msg is acknowledged by the brokers or ctx ends.
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

	delivered := make(chan kafka.Event, 1)
	if err := p.producer.Produce(toKafkaMessage(msg), delivered); err != nil {
		return fmt.Errorf("produce message: %w", err)
	}
	select {
	case e := <-delivered:
		return deliveryError(e)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func toKafkaMessage(msg *mq.Message) *kafka.Message {
	topic := msg.Topic
	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(msg.Key),
		Value:          msg.Value,
		Headers:        fromHeaders(msg.Headers),
	}
}

func deliveryError(e kafka.Event) error {
	m, ok := e.(*kafka.Message)
	if !ok {
		return fmt.Errorf("unexpected delivery event: %v", e)
	}
	if m.TopicPartition.Error != nil {
		return fmt.Errorf("deliver message: %w", m.TopicPartition.Error)
	}
	return nil
}

// Close waits up to the flush timeout for in-flight messages, then closes.
func (p *Producer) Close() {
	if p == nil || p.producer == nil {
		return
	}
	if left := p.producer.Flush(int(p.flushTimeout.Milliseconds())); left > 0 {
		log.Warnw("kafka producer closed with undelivered messages", "count", left)
	}
	p.producer.Close()
}
