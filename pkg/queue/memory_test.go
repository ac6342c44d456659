package queue

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/arcentrix/e2epulse/pkg/mq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBrokerPublishSubscribe(t *testing.T) {
	b := NewMemoryBroker(4, WithPublishLog())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan *mq.Message, 1)
	go func() {
		_ = b.Subscribe(ctx, "reports", func(_ context.Context, msg *mq.Message) error {
			got <- msg
			return nil
		})
	}()

	require.NoError(t, b.Publish(ctx, "reports", "2025-10-08", []byte(`{"date":"2025-10-08"}`), nil))

	select {
	case msg := <-got:
		assert.Equal(t, "2025-10-08", msg.Key)
		assert.NotEmpty(t, msg.Header(HeaderMessageID))
	case <-time.After(2 * time.Second):
		t.Fatal("message not delivered")
	}
	assert.Len(t, b.Published("reports"), 1)
	assert.Empty(t, b.Published("other"))
}

func TestMemoryBrokerKeepsGivenMessageID(t *testing.T) {
	b := NewMemoryBroker(1, WithPublishLog())
	require.NoError(t, b.Publish(context.Background(), "t", "k", nil, map[string]string{HeaderMessageID: "fixed"}))
	assert.Equal(t, "fixed", b.Published("t")[0].Header(HeaderMessageID))
}

func TestMemoryBrokerPublishHonorsContext(t *testing.T) {
	b := NewMemoryBroker(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, b.Publish(ctx, "t", "k", nil, nil), context.Canceled)
	assert.Zero(t, b.Pending("t"))
}

func TestMemoryBrokerFullBufferFailsFast(t *testing.T) {
	b := NewMemoryBroker(2)
	require.NoError(t, b.Publish(context.Background(), "t", "a", nil, nil))
	require.NoError(t, b.Publish(context.Background(), "t", "b", nil, nil))

	start := time.Now()
	err := b.Publish(context.Background(), "t", "c", nil, nil)
	assert.ErrorIs(t, err, ErrBufferFull)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 2, b.Pending("t"))
}

func TestMemoryBrokerDoesNotRetainConsumedMessages(t *testing.T) {
	b := NewMemoryBroker(16)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	const total = 1000
	var consumed atomic.Int64
	go func() {
		_ = b.Subscribe(ctx, "t", func(context.Context, *mq.Message) error {
			consumed.Add(1)
			return nil
		})
	}()

	for i := 0; i < total; i++ {
		require.Eventually(t, func() bool {
			return b.Publish(ctx, "t", "k", []byte("v"), nil) == nil
		}, 2*time.Second, time.Millisecond)
	}
	require.Eventually(t, func() bool { return consumed.Load() == total }, 2*time.Second, 5*time.Millisecond)

	assert.Zero(t, b.Pending("t"))
	assert.Empty(t, b.Published("t"))
	b.mu.Lock()
	assert.Empty(t, b.published)
	b.mu.Unlock()
}

func TestMemoryBrokerClosed(t *testing.T) {
	b := NewMemoryBroker(1)
	require.NoError(t, b.Close())
	assert.Error(t, b.Publish(context.Background(), "t", "k", nil, nil))
}

func TestNewBroker(t *testing.T) {
	b, err := NewBroker(Config{})
	require.NoError(t, err)
	assert.IsType(t, &MemoryBroker{}, b)

	_, err = NewBroker(Config{Type: "nats"})
	assert.Error(t, err)

	_, err = NewBroker(Config{Type: TypeKafka})
	assert.Error(t, err, "kafka without bootstrap servers must fail")
}
