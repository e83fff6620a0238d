package application

import (
	"sync"
	"time"

	"github.com/sanosuguru/go-tourism-calendar/internal/domain/event"
)

// CalendarState は日付 → イベントのスナップショットを保持する
// スナップショットは再読み込みのたびに丸ごと差し替えられ、部分的には更新されない
type CalendarState struct {
	mu       sync.RWMutex
	events   event.ByDate
	loadedAt time.Time
}

// NewCalendarState は空のスナップショットを持つ CalendarState を作成する
func NewCalendarState() *CalendarState {
	return &CalendarState{events: event.ByDate{}}
}

// Snapshot は現在のスナップショットを返す。呼び出し側は変更してはならない
func (s *CalendarState) Snapshot() event.ByDate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.events
}

// Get は指定日のイベントを返す。なければ nil
func (s *CalendarState) Get(date string) *event.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.events[date]
}

// LoadedAt は最後に再読み込みした時刻を返す
func (s *CalendarState) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Replace はスナップショットを丸ごと差し替える
func (s *CalendarState) Replace(events event.ByDate, at time.Time) {
	if events == nil {
		events = event.ByDate{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = events
	s.loadedAt = at
}
