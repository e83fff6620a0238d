package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/sanosuguru/go-tourism-calendar/internal/domain/lock"
	"github.com/sanosuguru/go-tourism-calendar/internal/pkg/metrics"
)

// 所有者を確認してから削除する
var releaseScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`)

// 所有者を確認してから有効期限を延長する
var extendScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("PEXPIRE", KEYS[1], ARGV[2])
	else
		return 0
	end
`)

// DistributedLock は Redis を使用した分散ロック
type DistributedLock struct {
	client  *redis.Client
	key     string
	value   string
	ttl     time.Duration
	metrics *metrics.Metrics
}

// LockManager は分散ロックを管理する（lock.Locker の実装）
type LockManager struct {
	client  *redis.Client
	metrics *metrics.Metrics
}

func NewLockManager(client *redis.Client, m *metrics.Metrics) *LockManager {
	return &LockManager{client: client, metrics: m}
}

var _ lock.Locker = (*LockManager)(nil)

// AcquireLock はロックを取得する
func (m *LockManager) AcquireLock(ctx context.Context, key string, ttl time.Duration) (lock.Lock, error) {
	start := time.Now()
	lockKey := namespaced("lock", key)
	lockValue := uuid.New().String()

	// SetNX を使用してロックを取得（キーが存在しない場合のみ設定）
	ok, err := m.client.SetNX(ctx, lockKey, lockValue, ttl).Result()
	if err != nil {
		err = fmt.Errorf("ロック取得に失敗: %w", err)
		m.metrics.ObserveLock("acquire", time.Since(start).Seconds(), err)
		return nil, err
	}
	if !ok {
		m.metrics.ObserveLock("acquire", time.Since(start).Seconds(), lock.ErrLockNotAcquired)
		return nil, lock.ErrLockNotAcquired
	}
	m.metrics.ObserveLock("acquire", time.Since(start).Seconds(), nil)

	return &DistributedLock{
		client:  m.client,
		key:     lockKey,
		value:   lockValue,
		ttl:     ttl,
		metrics: m.metrics,
	}, nil
}

// AcquireLockWithRetry はリトライ付きでロックを取得する
func (m *LockManager) AcquireLockWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (lock.Lock, error) {
	var lastErr error = lock.ErrLockNotAcquired
	for i := 0; i < maxRetries; i++ {
		l, err := m.AcquireLock(ctx, key, ttl)
		if err == nil {
			return l, nil
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

// Release はロックを解放する（Lua スクリプトで安全に解放）
func (l *DistributedLock) Release(ctx context.Context) error {
	start := time.Now()
	result, err := releaseScript.Run(ctx, l.client, []string{l.key}, l.value).Int()
	if err != nil {
		err = fmt.Errorf("ロック解放に失敗: %w", err)
		l.metrics.ObserveLock("release", time.Since(start).Seconds(), err)
		return err
	}
	if result == 0 {
		l.metrics.ObserveLock("release", time.Since(start).Seconds(), lock.ErrLockNotOwned)
		return lock.ErrLockNotOwned
	}
	l.metrics.ObserveLock("release", time.Since(start).Seconds(), nil)
	return nil
}

// Extend はロックの有効期限を延長する
func (l *DistributedLock) Extend(ctx context.Context, ttl time.Duration) error {
	result, err := extendScript.Run(ctx, l.client, []string{l.key}, l.value, ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("ロック延長に失敗: %w", err)
	}
	if result == 0 {
		return lock.ErrLockNotOwned
	}
	l.ttl = ttl
	return nil
}
