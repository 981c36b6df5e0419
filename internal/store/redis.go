package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var redisTracer = otel.Tracer("store.redis")

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisStore keeps each document as one string value. Documents do not expire.
type RedisStore struct {
	rdb *redis.Client
}

var _ DocumentStore = (*RedisStore)(nil)

// NewRedisStore connects and pings the server.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.Addr, err)
	}
	return &RedisStore{rdb: rdb}, nil
}

func (r *RedisStore) Name() string { return "redis" }

func (r *RedisStore) Load(ctx context.Context, key string, dst any) error {
	ctx, span := redisTracer.Start(ctx, "store.Load",
		trace.WithAttributes(attribute.String("store.key", key)))
	defer span.End()

	raw, err := r.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		span.SetAttributes(attribute.Bool("store.hit", false))
		return ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to load %s: %w", key, err)
	}
	span.SetAttributes(attribute.Bool("store.hit", true))

	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) Save(ctx context.Context, key string, v any) error {
	ctx, span := redisTracer.Start(ctx, "store.Save",
		trace.WithAttributes(attribute.String("store.key", key)))
	defer span.End()

	raw, err := json.Marshal(v)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := r.rdb.Set(ctx, key, raw, 0).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *RedisStore) Close() error {
	return r.rdb.Close()
}
