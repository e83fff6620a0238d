package airtable

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-tourism-calendar/internal/domain/event"
	"github.com/sanosuguru/go-tourism-calendar/internal/pkg/logger"
)

// EventStore はイベントテーブルに対する event.Repository の実装
type EventStore struct {
	client  *Client
	tableID string
}

// NewEventStore は新しい EventStore を作成する
func NewEventStore(client *Client, tableID string) *EventStore {
	return &EventStore{client: client, tableID: tableID}
}

var _ event.Repository = (*EventStore)(nil)

// List は全イベントを取得する。失敗時はログを出力して空の結果を返す
func (s *EventStore) List(ctx context.Context) []*event.Event {
	records, err := listAll[eventRow](ctx, s.client, "listEvents", s.tableID)
	if err != nil {
		logger.Warn("イベント一覧の取得に失敗しました",
			zap.String("table", s.tableID),
			zap.Error(err),
		)
		return []*event.Event{}
	}

	events := make([]*event.Event, 0, len(records))
	for _, r := range records {
		e, ok := decodeEvent(r)
		if !ok {
			logger.Debug("日付のないイベント行をスキップ", zap.String("record_id", r.ID))
			continue
		}
		events = append(events, e)
	}
	return events
}

// Create は新しいイベントを作成し、採番されたIDを返す
func (s *EventStore) Create(ctx context.Context, draft event.Draft) (string, error) {
	var resp createResponse
	body := writeRequest[eventWrite]{Fields: encodeEvent(draft, true)}
	if err := s.client.do(ctx, "createEvent", http.MethodPost, tablePath(s.tableID), nil, body, &resp); err != nil {
		logger.Error("イベントの作成に失敗しました", zap.String("date", draft.Date), zap.Error(err))
		return "", fmt.Errorf("イベント作成に失敗: %w", err)
	}
	return resp.ID, nil
}

// Update は既存イベントを部分更新する（日付は変更しない）
func (s *EventStore) Update(ctx context.Context, id string, draft event.Draft) error {
	body := writeRequest[eventWrite]{Fields: encodeEvent(draft, false)}
	if err := s.client.do(ctx, "updateEvent", http.MethodPatch, recordPath(s.tableID, id), nil, body, nil); err != nil {
		logger.Error("イベントの更新に失敗しました", zap.String("event_id", id), zap.Error(err))
		return fmt.Errorf("イベント更新に失敗: %w", err)
	}
	return nil
}

// Delete はイベントを削除する。リンクされた予約は削除しない
func (s *EventStore) Delete(ctx context.Context, id string) error {
	if err := s.client.do(ctx, "deleteEvent", http.MethodDelete, recordPath(s.tableID, id), nil, nil, nil); err != nil {
		logger.Error("イベントの削除に失敗しました", zap.String("event_id", id), zap.Error(err))
		return fmt.Errorf("イベント削除に失敗: %w", err)
	}
	return nil
}
