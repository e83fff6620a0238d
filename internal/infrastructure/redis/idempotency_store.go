package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sanosuguru/go-tourism-calendar/internal/domain/booking"
)

// IdempotencyStore は予約の冪等性キーを Redis に保持する
type IdempotencyStore struct {
	client *redis.Client
}

// NewIdempotencyStore は新しいIdempotencyStoreインスタンスを作成する
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

var _ booking.IdempotencyStore = (*IdempotencyStore)(nil)

// Lookup はキーに対応する予約IDを取得する
func (s *IdempotencyStore) Lookup(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, s.idempotencyKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("冪等性キーの取得に失敗: %w", err)
	}
	return val, true, nil
}

// Remember はキーと予約IDの対応を保存する
func (s *IdempotencyStore) Remember(ctx context.Context, key, bookingID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.idempotencyKey(key), bookingID, ttl).Err(); err != nil {
		return fmt.Errorf("冪等性キーの保存に失敗: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) idempotencyKey(key string) string {
	return namespaced("booking", "idempotency", key)
}
