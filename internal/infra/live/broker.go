package live

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const EventRdoChanged = "rdo_changed"

type changeMessage struct {
	RdoID  string `json:"rdo_id"`
	Action string `json:"action"`
}

// LocalBroker delivers change notifications to this process only.
type LocalBroker struct {
	hub *Hub
}

func NewLocalBroker(hub *Hub) *LocalBroker {
	return &LocalBroker{hub: hub}
}

func (b *LocalBroker) RdoChanged(_ context.Context, rdoID uuid.UUID, action string) error {
	b.hub.Publish(newChangeEvent(rdoID.String(), action))
	return nil
}

// RedisBroker publishes change notifications on a redis channel so every API
// instance forwards them to its own hub.
type RedisBroker struct {
	rdb     *redis.Client
	channel string
	hub     *Hub
	log     *zap.Logger
}

func NewRedisBroker(rdb *redis.Client, channel string, hub *Hub, log *zap.Logger) *RedisBroker {
	return &RedisBroker{rdb: rdb, channel: channel, hub: hub, log: log}
}

func (b *RedisBroker) RdoChanged(ctx context.Context, rdoID uuid.UUID, action string) error {
	payload, err := sonic.MarshalString(changeMessage{RdoID: rdoID.String(), Action: action})
	if err != nil {
		return fmt.Errorf("marshal change: %w", err)
	}
	if err := b.rdb.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish change: %w", err)
	}
	return nil
}

// Run forwards channel messages to the local hub until ctx is done.
func (b *RedisBroker) Run(ctx context.Context) {
	sub := b.rdb.Subscribe(ctx, b.channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var m changeMessage
			if err := sonic.UnmarshalString(msg.Payload, &m); err != nil {
				b.log.Sugar().Warnw("drop malformed change message", "err", err)
				continue
			}
			b.hub.Publish(newChangeEvent(m.RdoID, m.Action))
		}
	}
}

func newChangeEvent(topic, action string) Event {
	data, _ := sonic.MarshalString(changeMessage{RdoID: topic, Action: action})
	return Event{Topic: topic, EventType: EventRdoChanged, Data: data}
}
