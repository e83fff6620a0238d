package event

import "context"

// Repository はリモートストア上のイベントテーブルを表すインターフェース
type Repository interface {
	// List は全イベントを取得する（Bookings は空）
	// 取得に失敗した場合はログを出力して空の結果を返す
	List(ctx context.Context) []*Event

	// Create は新しいイベントを作成し、採番されたIDを返す
	Create(ctx context.Context, draft Draft) (string, error)

	// Update は既存イベントを更新する
	Update(ctx context.Context, id string, draft Draft) error

	// Delete はイベントを削除する
	Delete(ctx context.Context, id string) error
}
