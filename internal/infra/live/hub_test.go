package live

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHub_PublishOnlyReachesTopic(t *testing.T) {
	hub := NewHub(zap.NewNop())
	a := &Client{ID: "a", Topic: "rdo-1", Events: make(chan Event, 1)}
	b := &Client{ID: "b", Topic: "rdo-2", Events: make(chan Event, 1)}
	hub.Register(a)
	hub.Register(b)

	hub.Publish(Event{Topic: "rdo-1", EventType: EventRdoChanged, Data: "{}"})

	select {
	case ev := <-a.Events:
		assert.Equal(t, "rdo-1", ev.Topic)
	default:
		t.Fatal("expected event for subscribed topic")
	}
	assert.Len(t, b.Events, 0)
}

func TestHub_FullBufferDoesNotBlock(t *testing.T) {
	hub := NewHub(zap.NewNop())
	c := &Client{ID: "c", Topic: "t", Events: make(chan Event, 1)}
	hub.Register(c)

	hub.Publish(Event{Topic: "t"})
	hub.Publish(Event{Topic: "t"})

	assert.Len(t, c.Events, 1)
}

func TestHub_UnregisterClosesChannel(t *testing.T) {
	hub := NewHub(zap.NewNop())
	c := &Client{ID: "c", Topic: "t", Events: make(chan Event, 1)}
	hub.Register(c)
	assert.Equal(t, 1, hub.Subscribers("t"))

	hub.Unregister(c)

	_, ok := <-c.Events
	assert.False(t, ok)
	assert.Equal(t, 0, hub.Subscribers("t"))
}

func TestLocalBroker_RdoChanged(t *testing.T) {
	hub := NewHub(zap.NewNop())
	id := uuid.New()
	c := &Client{ID: "c", Topic: id.String(), Events: make(chan Event, 1)}
	hub.Register(c)

	require.NoError(t, NewLocalBroker(hub).RdoChanged(context.Background(), id, "approved"))

	ev := <-c.Events
	assert.Equal(t, EventRdoChanged, ev.EventType)
	assert.Contains(t, ev.Data, `"action":"approved"`)
}

func TestRedisBroker_ForwardsToHub(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	hub := NewHub(zap.NewNop())
	broker := NewRedisBroker(rdb, "rdo:changed", hub, zap.NewNop())

	id := uuid.New()
	c := &Client{ID: "c", Topic: id.String(), Events: make(chan Event, 1)}
	hub.Register(c)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go broker.Run(ctx)

	// wait until the subscription is live before publishing
	require.Eventually(t, func() bool {
		n, err := rdb.PubSubNumSub(ctx, "rdo:changed").Result()
		return err == nil && n["rdo:changed"] > 0
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, broker.RdoChanged(ctx, id, "rejected"))

	select {
	case ev := <-c.Events:
		assert.Equal(t, id.String(), ev.Topic)
		assert.Contains(t, ev.Data, "rejected")
	case <-time.After(time.Second):
		t.Fatal("event not forwarded")
	}
}
