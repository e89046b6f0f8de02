package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Cache stores JSON encoded values under string keys.
type Cache interface {
	// Get decodes the value stored at key into dst and reports whether it was found.
	Get(ctx context.Context, key string, dst interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	// Invalidate drops every key starting with prefix.
	Invalidate(ctx context.Context, prefix string) error
}

// Noop is used when no Redis server is configured. Every lookup misses.
type Noop struct{}

func (Noop) Get(context.Context, string, interface{}) (bool, error) { return false, nil }
func (Noop) Set(context.Context, string, interface{}) error         { return nil }
func (Noop) Invalidate(context.Context, string) error               { return nil }

const keyPrefix = "school:"

// Redis is a Cache backed by a Redis server.
type Redis struct {
	Client *redis.Client
	TTL    time.Duration
}

// Connect opens a client for addr and checks that the server answers.
func Connect(ctx context.Context, addr string, ttl time.Duration) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrapf(err, "ping redis at %s", addr)
	}
	return &Redis{Client: client, TTL: ttl}, nil
}

func (r *Redis) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	data, err := r.Client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "redis get %s", key)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, errors.Wrapf(err, "decode cached %s", key)
	}
	return true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "encode %s", key)
	}
	return errors.Wrapf(r.Client.Set(ctx, keyPrefix+key, data, r.TTL).Err(), "redis set %s", key)
}

func (r *Redis) Invalidate(ctx context.Context, prefix string) error {
	iter := r.Client.Scan(ctx, 0, keyPrefix+prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return errors.Wrapf(err, "redis scan %s", prefix)
	}
	if len(keys) == 0 {
		return nil
	}
	return errors.Wrapf(r.Client.Del(ctx, keys...).Err(), "redis del %s", prefix)
}

func (r *Redis) Close() error {
	return r.Client.Close()
}
