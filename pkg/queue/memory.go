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
	"errors"
	"fmt"
	"sync"

	"github.com/arcentrix/e2epulse/pkg/log"
	"github.com/arcentrix/e2epulse/pkg/mq"
)

// ErrBufferFull is returned by MemoryBroker.Publish when the topic already
// holds as many undelivered messages as its buffer allows.
var ErrBufferFull = errors.New("memory broker: topic buffer is full")

// MemoryBroker delivers messages in-process. Each topic is a buffered channel;
// concurrent subscribers of one topic compete for messages. Publish never
// waits for room in the buffer.
type MemoryBroker struct {
	mu     sync.Mutex
	buffer int
	topics map[string]chan *mq.Message
	closed bool

	record    bool
	published []*mq.Message
}

type MemoryOption func(*MemoryBroker)

// WithPublishLog keeps every published message for Published. The log is
// unbounded, so only tests should enable it.
func WithPublishLog() MemoryOption {
	return func(b *MemoryBroker) { b.record = true }
}

func NewMemoryBroker(buffer int, opts ...MemoryOption) *MemoryBroker {
	if buffer <= 0 {
		buffer = 256
	}
	b := &MemoryBroker{buffer: buffer, topics: make(map[string]chan *mq.Message)}
	for _, o := range opts {
		o(b)
	}
	return b
}

func (b *MemoryBroker) topic(name string) (chan *mq.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, fmt.Errorf("broker is closed")
	}
	ch, ok := b.topics[name]
	if !ok {
		ch = make(chan *mq.Message, b.buffer)
		b.topics[name] = ch
	}
	return ch, nil
}

func (b *MemoryBroker) Publish(ctx context.Context, topic, key string, value []byte, headers map[string]string) error {
	if err := mq.RequireNonEmpty("topic", topic); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	ch, err := b.topic(topic)
	if err != nil {
		return err
	}
	msg := &mq.Message{Topic: topic, Key: key, Value: value, Headers: withMessageID(headers)}

	select {
	case ch <- msg:
	default:
		return fmt.Errorf("%w (topic %s, %d queued)", ErrBufferFull, topic, len(ch))
	}
	if b.record {
		b.mu.Lock()
		b.published = append(b.published, msg)
		b.mu.Unlock()
	}
	return nil
}

func (b *MemoryBroker) Subscribe(ctx context.Context, topic string, handler mq.Handler) error {
	if handler == nil {
		return fmt.Errorf("handler is required")
	}
	ch, err := b.topic(topic)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-ch:
			if err := handler(ctx, msg); err != nil {
				log.Errorw("memory broker handler failed", "topic", topic, "key", msg.Key, "error", err)
			}
		}
	}
}

// Pending returns how many messages of topic wait for a subscriber.
func (b *MemoryBroker) Pending(topic string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.topics[topic])
}

// Published returns the messages published to topic. It is empty unless the
// broker was built WithPublishLog.
func (b *MemoryBroker) Published(topic string) []*mq.Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []*mq.Message
	for _, m := range b.published {
		if m.Topic == topic {
			out = append(out, m)
		}
	}
	return out
}

func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}
