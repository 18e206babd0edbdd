package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// RealtimeService broadcasts events to per-session channels. Clients hold a
// capability token scoped to their session channel and receive lifecycle
// events as they happen.
type RealtimeService interface {
	Publish(ctx context.Context, channel, event string, payload interface{}) error
}

// SessionChannel returns the broadcast channel for a chat session.
func SessionChannel(sessionID string) string {
	return "chat:session:" + sessionID
}

type envelope struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// RedisRealtimeService fans events out over Redis pub/sub.
type RedisRealtimeService struct {
	client *redis.Client
}

func NewRedisRealtimeService(client *redis.Client) *RedisRealtimeService {
	return &RedisRealtimeService{client: client}
}

func (s *RedisRealtimeService) Publish(ctx context.Context, channel, event string, payload interface{}) error {
	b, err := json.Marshal(envelope{Event: event, Payload: payload})
	if err != nil {
		return fmt.Errorf("marshal realtime event: %w", err)
	}
	if err := s.client.Publish(ctx, channel, b).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", channel, err)
	}
	return nil
}
