package bus

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/click-backend/internal/platform/logger"
	"github.com/yungbote/click-backend/internal/realtime"
)

func TestNoopBus(t *testing.T) {
	b := NewNoop()
	assert.NoError(t, b.Publish(context.Background(), realtime.Message{Event: realtime.EventConfidenceUpdated}))
	assert.NoError(t, b.StartForwarder(context.Background(), func(realtime.Message) {}))
	assert.NoError(t, b.Close())
}

func TestRedisBusRoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })

	b, err := NewRedisBus(logger.Nop(), rdb, "test:"+uuid.NewString())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan realtime.Message, 1)
	require.NoError(t, b.StartForwarder(ctx, func(m realtime.Message) { got <- m }))

	contentID := uuid.NewString()
	require.NoError(t, b.Publish(ctx, realtime.Message{
		Channel: realtime.ContentChannel(contentID),
		Event:   realtime.EventConfidenceUpdated,
		Data:    map[string]any{"overallConfidence": 80},
	}))

	select {
	case m := <-got:
		assert.Equal(t, realtime.EventConfidenceUpdated, m.Event)
		assert.Equal(t, "content:"+contentID, m.Channel)
		assert.False(t, m.SentAt.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for bus message")
	}
}

func TestNewRedisBusRequiresClient(t *testing.T) {
	_, err := NewRedisBus(logger.Nop(), nil, "")
	require.Error(t, err)
}
