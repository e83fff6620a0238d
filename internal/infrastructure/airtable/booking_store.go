package airtable

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-tourism-calendar/internal/domain/booking"
	"github.com/sanosuguru/go-tourism-calendar/internal/pkg/logger"
)

// BookingStore は予約テーブルに対する booking.Repository の実装
type BookingStore struct {
	client  *Client
	tableID string
}

// NewBookingStore は新しい BookingStore を作成する
func NewBookingStore(client *Client, tableID string) *BookingStore {
	return &BookingStore{client: client, tableID: tableID}
}

var _ booking.Repository = (*BookingStore)(nil)

// ListGroupedByEvent は全予約をリンク先イベントIDごとにまとめる
// 複数のイベントにリンクされた予約はそれぞれのグループに入る
func (s *BookingStore) ListGroupedByEvent(ctx context.Context) map[string][]*booking.Booking {
	records, err := listAll[bookingRow](ctx, s.client, "listBookings", s.tableID)
	if err != nil {
		logger.Warn("予約一覧の取得に失敗しました",
			zap.String("table", s.tableID),
			zap.Error(err),
		)
		return map[string][]*booking.Booking{}
	}

	now := s.client.clock.Now()
	grouped := make(map[string][]*booking.Booking)
	for _, r := range records {
		for _, b := range decodeBookings(r, now) {
			grouped[b.EventID] = append(grouped[b.EventID], b)
		}
	}
	return grouped
}

// Create は指定イベントにリンクした予約を作成し、採番されたIDを返す
func (s *BookingStore) Create(ctx context.Context, draft booking.Draft, eventID string) (string, error) {
	if eventID == "" {
		return "", booking.ErrEventIDRequired
	}
	var resp createResponse
	body := writeRequest[bookingWrite]{Fields: encodeBooking(draft, eventID)}
	if err := s.client.do(ctx, "createBooking", http.MethodPost, tablePath(s.tableID), nil, body, &resp); err != nil {
		logger.Error("予約の作成に失敗しました", zap.String("event_id", eventID), zap.Error(err))
		return "", fmt.Errorf("予約作成に失敗: %w", err)
	}
	return resp.ID, nil
}
