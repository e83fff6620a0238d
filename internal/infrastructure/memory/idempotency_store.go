package memory

import (
	"context"
	"sync"
	"time"

	"github.com/sanosuguru/go-tourism-calendar/internal/domain/booking"
	"github.com/sanosuguru/go-tourism-calendar/internal/pkg/clock"
)

type idempotencyEntry struct {
	bookingID string
	expiresAt time.Time
}

// IdempotencyStore はプロセス内で予約の冪等性キーを保持する
type IdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]idempotencyEntry
	clock   clock.Clock
}

// NewIdempotencyStore は新しい IdempotencyStore を作成する
func NewIdempotencyStore(clk clock.Clock) *IdempotencyStore {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &IdempotencyStore{entries: make(map[string]idempotencyEntry), clock: clk}
}

var _ booking.IdempotencyStore = (*IdempotencyStore)(nil)

// Lookup はキーに対応する予約IDを返す。期限切れのエントリは削除する
func (s *IdempotencyStore) Lookup(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return "", false, nil
	}
	if !s.clock.Now().Before(e.expiresAt) {
		delete(s.entries, key)
		return "", false, nil
	}
	return e.bookingID, true, nil
}

// Remember はキーと予約IDの対応を保存する
func (s *IdempotencyStore) Remember(_ context.Context, key, bookingID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = idempotencyEntry{bookingID: bookingID, expiresAt: s.clock.Now().Add(ttl)}
	return nil
}

// PurgeExpired は期限切れのエントリを削除し、削除した件数を返す
func (s *IdempotencyStore) PurgeExpired(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	purged := 0
	for key, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, key)
			purged++
		}
	}
	return purged, nil
}
