package booking

import (
	"context"
	"time"
)

// IdempotencyStore は冪等性キーと作成済み予約IDの対応を保持する
type IdempotencyStore interface {
	// Lookup はキーに対応する予約IDを返す。未登録なら found=false
	Lookup(ctx context.Context, key string) (bookingID string, found bool, err error)

	// Remember はキーと予約IDの対応を ttl の間保持する
	Remember(ctx context.Context, key, bookingID string, ttl time.Duration) error
}
