package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sanosuguru/go-tourism-calendar/internal/domain/lock"
	"github.com/sanosuguru/go-tourism-calendar/internal/pkg/clock"
)

type heldLock struct {
	owner     string
	expiresAt time.Time
}

// Locker はプロセス内で完結する lock.Locker の実装（Redis未使用時）
type Locker struct {
	mu    sync.Mutex
	held  map[string]heldLock
	clock clock.Clock
}

// NewLocker は新しい Locker を作成する
func NewLocker(clk clock.Clock) *Locker {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &Locker{held: make(map[string]heldLock), clock: clk}
}

var _ lock.Locker = (*Locker)(nil)

type localLock struct {
	locker *Locker
	key    string
	owner  string
}

// AcquireLock はロックを取得する。期限切れのロックは上書きする
func (l *Locker) AcquireLock(_ context.Context, key string, ttl time.Duration) (lock.Lock, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	if h, ok := l.held[key]; ok && now.Before(h.expiresAt) {
		return nil, lock.ErrLockNotAcquired
	}
	owner := uuid.New().String()
	l.held[key] = heldLock{owner: owner, expiresAt: now.Add(ttl)}
	return &localLock{locker: l, key: key, owner: owner}, nil
}

// AcquireLockWithRetry はリトライ付きでロックを取得する
func (l *Locker) AcquireLockWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (lock.Lock, error) {
	var lastErr error = lock.ErrLockNotAcquired
	for i := 0; i < maxRetries; i++ {
		held, err := l.AcquireLock(ctx, key, ttl)
		if err == nil {
			return held, nil
		}
		lastErr = err
		if !errors.Is(err, lock.ErrLockNotAcquired) {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	return nil, lastErr
}

// Release はロックを解放する
func (h *localLock) Release(_ context.Context) error {
	h.locker.mu.Lock()
	defer h.locker.mu.Unlock()

	current, ok := h.locker.held[h.key]
	if !ok || current.owner != h.owner {
		return lock.ErrLockNotOwned
	}
	delete(h.locker.held, h.key)
	return nil
}

// PurgeExpired は解放されずに期限切れとなったロックを削除する
func (l *Locker) PurgeExpired(_ context.Context) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	purged := 0
	for key, h := range l.held {
		if !now.Before(h.expiresAt) {
			delete(l.held, key)
			purged++
		}
	}
	return purged, nil
}
