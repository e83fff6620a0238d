package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-tourism-calendar/internal/pkg/logger"
)

// Purger は期限切れのエントリを削除するインターフェース
type Purger interface {
	PurgeExpired(ctx context.Context) (int, error)
}

// ExpiredEntrySweeper はプロセス内の冪等性キーと操作ロックのうち期限切れのものを定期的に削除するワーカー
// Redis使用時はTTLで失効するため起動しない
type ExpiredEntrySweeper struct {
	purgers  map[string]Purger
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewExpiredEntrySweeper は新しいスイーパーを作成する（キーはログ用の名前）
func NewExpiredEntrySweeper(interval time.Duration, purgers map[string]Purger) *ExpiredEntrySweeper {
	return &ExpiredEntrySweeper{
		purgers:  purgers,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start はスイーパーを開始する。ctx のキャンセルか Stop で終了する
func (s *ExpiredEntrySweeper) Start(ctx context.Context) {
	logger.Info("期限切れエントリのスイーパー開始", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	defer close(s.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("期限切れエントリのスイーパー停止（コンテキストキャンセル）")
			return
		case <-s.stopCh:
			logger.Info("期限切れエントリのスイーパー停止（シグナル受信）")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// Stop はスイーパーを停止し、終了を待つ
func (s *ExpiredEntrySweeper) Stop() {
	close(s.stopCh)
	<-s.doneCh
}

func (s *ExpiredEntrySweeper) sweep(ctx context.Context) {
	log := logger.Component("sweeper")
	for name, p := range s.purgers {
		count, err := p.PurgeExpired(ctx)
		if err != nil {
			log.Error("期限切れエントリの削除失敗", zap.String("store", name), zap.Error(err))
			continue
		}
		if count > 0 {
			log.Debug("期限切れエントリを削除", zap.String("store", name), zap.Int("count", count))
		}
	}
}
