package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sanosuguru/go-tourism-calendar/internal/config"
)

// keyPrefix は他のサービスと同じRedisを共有してもキーが衝突しないための名前空間
const keyPrefix = "tourism-calendar"

// NewClient はRedisクライアントを作成する
// 操作ロックの取得はリクエスト処理中に行うため、タイムアウトは短めにする
func NewClient(cfg *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		ClientName:   keyPrefix,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
}

// Ping はRedis接続を確認する
func Ping(ctx context.Context, client *redis.Client) error {
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("Redis接続に失敗しました: %w", err)
	}
	return nil
}

// namespaced は "tourism-calendar:<parts...>" 形式のキーを返す
func namespaced(parts ...string) string {
	return keyPrefix + ":" + strings.Join(parts, ":")
}
