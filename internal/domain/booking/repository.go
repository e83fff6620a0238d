package booking

import "context"

// Repository はリモートストア上の予約テーブルを表すインターフェース
type Repository interface {
	// ListGroupedByEvent は全予約をイベントIDごとにまとめて取得する
	// 取得に失敗した場合はログを出力して空の結果を返す
	ListGroupedByEvent(ctx context.Context) map[string][]*Booking

	// Create は指定イベントに紐づく予約を作成し、採番されたIDを返す
	Create(ctx context.Context, draft Draft, eventID string) (string, error)
}
