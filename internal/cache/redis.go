package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RedisClient struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisClient(addr, password string, db int, log *zap.Logger) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info("Redis connected successfully", zap.String("addr", addr))

	return &RedisClient{
		client: rdb,
		log:    log,
	}, nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}

// Привязка сессия -> активная корзина

func sessionCartKey(sessionID string) string {
	return fmt.Sprintf("session_cart:%s", sessionID)
}

func (r *RedisClient) SetSessionCart(ctx context.Context, sessionID string, cartID uuid.UUID) error {
	return r.client.Set(ctx, sessionCartKey(sessionID), cartID.String(), 0).Err()
}

func (r *RedisClient) GetSessionCart(ctx context.Context, sessionID string) (uuid.UUID, bool, error) {
	val, err := r.client.Get(ctx, sessionCartKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, err
	}
	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("corrupt session cart binding: %w", err)
	}
	return id, true, nil
}

// DelSessionCart идемпотентен: удаление отсутствующей привязки не ошибка.
func (r *RedisClient) DelSessionCart(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, sessionCartKey(sessionID)).Err()
}
