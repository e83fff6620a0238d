package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sanosuguru/go-tourism-calendar/internal/application"
	"github.com/sanosuguru/go-tourism-calendar/internal/domain/booking"
	"github.com/sanosuguru/go-tourism-calendar/internal/domain/event"
)

// MockCalendarService はCalendarServiceInterfaceのモック
type MockCalendarService struct {
	mock.Mock
}

func (m *MockCalendarService) Snapshot() event.ByDate {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(event.ByDate)
}

func (m *MockCalendarService) GetEvent(date string) (*event.Event, error) {
	args := m.Called(date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockCalendarService) Reload(ctx context.Context) event.ByDate {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(event.ByDate)
}

// MockWorkflowService はWorkflowServiceInterfaceのモック
type MockWorkflowService struct {
	mock.Mock
}

func (m *MockWorkflowService) SaveEvent(ctx context.Context, date string, draft event.Draft) (*event.Event, error) {
	args := m.Called(ctx, date, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockWorkflowService) DeleteEvent(ctx context.Context, date string, confirmed bool) error {
	args := m.Called(ctx, date, confirmed)
	return args.Error(0)
}

func (m *MockWorkflowService) SubmitBooking(ctx context.Context, date string, draft booking.Draft, idempotencyKey string) (*application.BookingResult, error) {
	args := m.Called(ctx, date, draft, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.BookingResult), args.Error(1)
}
