package handler

import (
	"context"

	"github.com/sanosuguru/go-tourism-calendar/internal/application"
	"github.com/sanosuguru/go-tourism-calendar/internal/domain/booking"
	"github.com/sanosuguru/go-tourism-calendar/internal/domain/event"
)

// CalendarServiceInterface はカレンダー参照のインターフェース
type CalendarServiceInterface interface {
	Snapshot() event.ByDate
	GetEvent(date string) (*event.Event, error)
	Reload(ctx context.Context) event.ByDate
}

// WorkflowServiceInterface はイベント編集と予約受付のインターフェース
type WorkflowServiceInterface interface {
	SaveEvent(ctx context.Context, date string, draft event.Draft) (*event.Event, error)
	DeleteEvent(ctx context.Context, date string, confirmed bool) error
	SubmitBooking(ctx context.Context, date string, draft booking.Draft, idempotencyKey string) (*application.BookingResult, error)
}

var (
	_ CalendarServiceInterface = (*application.WorkflowService)(nil)
	_ WorkflowServiceInterface = (*application.WorkflowService)(nil)
)
