package publisher

import (
	"context"
	"encoding/base64"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher implements Publisher on a Redis stream
type RedisPublisher struct {
	client    *redis.Client
	ctx       context.Context
	stream    string
	maxLength int64
}

// NewRedisPublisher creates a new Redis publisher writing to one stream
func NewRedisPublisher(ctx context.Context, addr string, db int, stream string, maxLength int) *RedisPublisher {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	return &RedisPublisher{
		client:    client,
		ctx:       ctx,
		stream:    stream,
		maxLength: int64(maxLength),
	}
}

// Publish publishes a message to the Redis stream.
// The message is base64 encoded before publishing.
func (p *RedisPublisher) Publish(key string, message []byte) error {
	encodedMessage := base64.StdEncoding.EncodeToString(message)

	return p.client.XAdd(p.ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLength,
		Approx: true,
		Values: map[string]interface{}{
			key: encodedMessage,
		},
	}).Err()
}

// TrimStreams trims the stream to the configured maximum length
func (p *RedisPublisher) TrimStreams() error {
	return p.client.XTrimMaxLen(p.ctx, p.stream, p.maxLength).Err()
}

// Close closes the Redis connection
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
