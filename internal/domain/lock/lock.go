package lock

import (
	"context"
	"errors"
	"time"
)

var (
	ErrLockNotAcquired = errors.New("ロックを取得できませんでした")
	ErrLockNotOwned    = errors.New("ロックの所有者ではありません")
)

// Lock は取得済みのロックを表す
type Lock interface {
	// Release はロックを解放する
	Release(ctx context.Context) error
}

// Locker はキー単位の排他ロックを提供するインターフェース
// ドメイン層がインフラ層（Redis等）に依存しないようにするための抽象化
type Locker interface {
	// AcquireLock はロックを取得する。取得済みなら ErrLockNotAcquired を返す
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (Lock, error)

	// AcquireLockWithRetry はリトライ付きでロックを取得する
	AcquireLockWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (Lock, error)
}
