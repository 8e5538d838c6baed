package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/hubfolio/hubfolio/internal/domain"
)

type SignalService struct {
	rdb *redis.Client
}

func NewSignalService(redisClient *redis.Client) *SignalService {
	return &SignalService{
		rdb: redisClient,
	}
}

// DocumentChannel names the pub/sub channel carrying save and publish
// events for one page.
func DocumentChannel(ownerKey, slug string) string {
	return "doc:" + ownerKey + "/" + slug
}

func (s *SignalService) Publish(ctx context.Context, channel string, event domain.Event) error {

	jsonstr, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = s.rdb.Publish(ctx, channel, jsonstr).Err()
	if err != nil {
		return err

	}

	return nil
}

// Realtime fans document events out to one websocket session. The input
// channel replaces the session's subscription set; every event published on
// a subscribed channel is decoded and forwarded to output. Returns when ctx
// is cancelled or input closes.
func (s *SignalService) Realtime(ctx context.Context, input chan []string, output chan domain.Event) {
	pubsub := s.rdb.Subscribe(ctx)
	defer pubsub.Close()

	var subscribed []string

	for {
		select {
		case <-ctx.Done():
			return
		case channels, ok := <-input:
			if !ok {
				return
			}
			if len(subscribed) > 0 {
				err := pubsub.Unsubscribe(ctx, subscribed...)
				if err != nil {
					slog.ErrorContext(
						ctx, "Failed to unsubscribe",
						slog.String("error", err.Error()),
						slog.String("module", "signal"),
					)
				}
			}
			if len(channels) > 0 {
				err := pubsub.Subscribe(ctx, channels...)
				if err != nil {
					slog.ErrorContext(
						ctx, "Failed to subscribe",
						slog.String("error", err.Error()),
						slog.String("module", "signal"),
					)
				}
			}
			subscribed = channels
		case msg, ok := <-pubsub.Channel():
			if !ok {
				return
			}
			var event domain.Event
			err := json.Unmarshal([]byte(msg.Payload), &event)
			if err != nil {
				slog.ErrorContext(
					ctx, "Failed to decode event",
					slog.String("error", err.Error()),
					slog.String("module", "signal"),
				)
				continue
			}
			output <- event
		}
	}
}
