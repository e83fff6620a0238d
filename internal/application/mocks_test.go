package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sanosuguru/go-tourism-calendar/internal/domain/booking"
	"github.com/sanosuguru/go-tourism-calendar/internal/domain/event"
	"github.com/sanosuguru/go-tourism-calendar/internal/domain/store"
)

// === Mock implementations ===

// MockEventRepository implements event.Repository
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) List(ctx context.Context) []*event.Event {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]*event.Event)
}

func (m *MockEventRepository) Create(ctx context.Context, draft event.Draft) (string, error) {
	args := m.Called(ctx, draft)
	return args.String(0), args.Error(1)
}

func (m *MockEventRepository) Update(ctx context.Context, id string, draft event.Draft) error {
	args := m.Called(ctx, id, draft)
	return args.Error(0)
}

func (m *MockEventRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockBookingRepository implements booking.Repository
type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) ListGroupedByEvent(ctx context.Context) map[string][]*booking.Booking {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(map[string][]*booking.Booking)
}

func (m *MockBookingRepository) Create(ctx context.Context, draft booking.Draft, eventID string) (string, error) {
	args := m.Called(ctx, draft, eventID)
	return args.String(0), args.Error(1)
}

// MockLoader implements Loader
type MockLoader struct {
	mock.Mock
}

func (m *MockLoader) LoadAll(ctx context.Context) event.ByDate {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(event.ByDate)
}

// === In-memory remote store ===

// fakeRemote はリモートストアのイベント表と予約表をメモリ上で再現する
// 書き込みの結果が次の再読み込みに反映されることを確認するために使う
type fakeRemote struct {
	mu       sync.Mutex
	seq      int
	events   []*event.Event
	bookings []*booking.Booking
	failNext error
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{}
}

func (f *fakeRemote) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s%03d", prefix, f.seq)
}

func (f *fakeRemote) takeFailure() error {
	err := f.failNext
	f.failNext = nil
	return err
}

func (f *fakeRemote) failWith(status int, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failNext = &store.RemoteError{StatusCode: status, Message: message}
}

func (f *fakeRemote) eventTable() *fakeEventTable     { return &fakeEventTable{f} }
func (f *fakeRemote) bookingTable() *fakeBookingTable { return &fakeBookingTable{f} }

type fakeEventTable struct{ *fakeRemote }

func (t *fakeEventTable) List(_ context.Context) []*event.Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*event.Event, 0, len(t.events))
	for _, e := range t.events {
		cp := *e
		cp.Bookings = nil
		out = append(out, &cp)
	}
	return out
}

func (t *fakeEventTable) Create(_ context.Context, d event.Draft) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.takeFailure(); err != nil {
		return "", err
	}
	id := t.nextID("rec")
	t.events = append(t.events, eventFromDraft(id, d))
	return id, nil
}

func (t *fakeEventTable) Update(_ context.Context, id string, d event.Draft) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.takeFailure(); err != nil {
		return err
	}
	for i, e := range t.events {
		if e.ID == id {
			d.Date = e.Date
			t.events[i] = eventFromDraft(id, d)
			return nil
		}
	}
	return &store.RemoteError{StatusCode: 404, Message: "Could not find record " + id}
}

func (t *fakeEventTable) Delete(_ context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.takeFailure(); err != nil {
		return err
	}
	for i, e := range t.events {
		if e.ID == id {
			t.events = append(t.events[:i], t.events[i+1:]...)
			return nil
		}
	}
	return &store.RemoteError{StatusCode: 404, Message: "Could not find record " + id}
}

type fakeBookingTable struct{ *fakeRemote }

func (t *fakeBookingTable) ListGroupedByEvent(_ context.Context) map[string][]*booking.Booking {
	t.mu.Lock()
	defer t.mu.Unlock()
	grouped := make(map[string][]*booking.Booking)
	for _, b := range t.bookings {
		cp := *b
		grouped[b.EventID] = append(grouped[b.EventID], &cp)
	}
	return grouped
}

func (t *fakeBookingTable) Create(_ context.Context, d booking.Draft, eventID string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.takeFailure(); err != nil {
		return "", err
	}
	id := t.nextID("bkg")
	t.bookings = append(t.bookings, &booking.Booking{
		ID:       id,
		EventID:  eventID,
		Name:     d.Name,
		Email:    d.Email,
		Phone:    d.Phone,
		Guests:   d.Guests,
		Notes:    d.Notes,
		BookedAt: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	})
	return id, nil
}

func eventFromDraft(id string, d event.Draft) *event.Event {
	return &event.Event{
		ID:          id,
		Date:        d.Date,
		Title:       d.Title,
		Time:        d.Time,
		Location:    d.Location,
		Type:        d.Type,
		Description: d.Description,
		Price:       d.Price,
		Capacity:    d.Capacity,
		Rating:      d.Rating,
	}
}
