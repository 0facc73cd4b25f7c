package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultKeyPrefix = "booking-form:session:"

// RedisStore хранит сессии в Redis с TTL
type RedisStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisStore создает хранилище сессий поверх клиента Redis
func NewRedisStore(client redis.UniversalClient, keyPrefix string) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &RedisStore{client: client, keyPrefix: keyPrefix}
}

func (s *RedisStore) key(id string) string {
	return s.keyPrefix + id
}

// Save сохраняет запись сессии; ttl <= 0 означает хранение без срока
func (s *RedisStore) Save(ctx context.Context, rec Record, ttl time.Duration) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: marshal session: %v", ErrStorage, err)
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, s.key(rec.ID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("%w: save session: %v", ErrStorage, err)
	}
	return nil
}

// Load загружает запись сессии
func (s *RedisStore) Load(ctx context.Context, id string) (*Record, error) {
	payload, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: load session: %v", ErrStorage, err)
	}

	var rec Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("%w: unmarshal session: %v", ErrStorage, err)
	}
	return &rec, nil
}

// Delete удаляет запись сессии; отсутствие записи не ошибка
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("%w: delete session: %v", ErrStorage, err)
	}
	return nil
}
