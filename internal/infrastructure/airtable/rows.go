package airtable

import (
	"time"

	"github.com/sanosuguru/go-tourism-calendar/internal/domain/booking"
	"github.com/sanosuguru/go-tourism-calendar/internal/domain/event"
)

// record は Airtable の1行を表す
type record[F any] struct {
	ID          string `json:"id"`
	CreatedTime string `json:"createdTime,omitempty"`
	Fields      F      `json:"fields"`
}

// listResponse は一覧取得のレスポンス。Offset があれば次のページが存在する
type listResponse[F any] struct {
	Records []record[F] `json:"records"`
	Offset  string      `json:"offset,omitempty"`
}

type writeRequest[F any] struct {
	Fields F `json:"fields"`
}

type createResponse struct {
	ID string `json:"id"`
}

// eventRow はイベントテーブルの行。Airtable は空の項目をレスポンスから省略する
type eventRow struct {
	Date        string   `json:"Date"`
	Title       string   `json:"Title"`
	Time        string   `json:"Time"`
	Location    string   `json:"Location"`
	Type        string   `json:"Type"`
	Description string   `json:"Description"`
	Price       string   `json:"Price"`
	Capacity    *float64 `json:"Capacity"`
	Rating      *float64 `json:"Rating"`
}

// eventWrite はイベント作成・更新時に送信する項目。更新時は Date を送らない
type eventWrite struct {
	Title       string  `json:"Title"`
	Date        string  `json:"Date,omitempty"`
	Time        string  `json:"Time"`
	Location    string  `json:"Location"`
	Type        string  `json:"Type"`
	Description string  `json:"Description"`
	Price       string  `json:"Price"`
	Capacity    int     `json:"Capacity"`
	Rating      float64 `json:"Rating"`
}

// bookingRow は予約テーブルの行。Event はリンクされたイベントIDの配列
type bookingRow struct {
	Name        string   `json:"Name"`
	Email       string   `json:"Email"`
	Phone       string   `json:"Phone"`
	Guests      *float64 `json:"Guests"`
	Notes       string   `json:"Notes"`
	BookingDate string   `json:"Booking Date"`
	Event       []string `json:"Event"`
}

type bookingWrite struct {
	Name   string   `json:"Name"`
	Email  string   `json:"Email"`
	Phone  string   `json:"Phone"`
	Guests int      `json:"Guests"`
	Notes  string   `json:"Notes"`
	Event  []string `json:"Event"`
}

// rowDefaults は行に項目が欠けている場合に適用する既定値の表
type rowDefaults struct {
	Type     event.Type
	Capacity int
	Rating   float64
	Guests   int
}

var defaults = rowDefaults{
	Type:     event.DefaultType,
	Capacity: event.DefaultCapacity,
	Rating:   event.DefaultRating,
	Guests:   booking.DefaultGuests,
}

// decodeEvent は行をイベントに変換する。Date がない行はカレンダーに置けないため ok=false
func decodeEvent(r record[eventRow]) (*event.Event, bool) {
	f := r.Fields
	if f.Date == "" {
		return nil, false
	}
	e := &event.Event{
		ID:          r.ID,
		Date:        f.Date,
		Title:       f.Title,
		Time:        f.Time,
		Location:    f.Location,
		Type:        event.Type(f.Type),
		Description: f.Description,
		Price:       f.Price,
		Capacity:    defaults.Capacity,
		Rating:      defaults.Rating,
		Bookings:    []*booking.Booking{},
	}
	if e.Type == "" {
		e.Type = defaults.Type
	}
	// 既定値は項目がない場合のみ。保存された 0 はそのまま読み戻す
	if f.Capacity != nil {
		e.Capacity = int(*f.Capacity)
	}
	if f.Rating != nil {
		e.Rating = *f.Rating
	}
	return e, true
}

// decodeBookings は行をリンク先イベントごとの予約に変換する
// 予約日時がない場合は行の作成日時、それもなければ now を使う
func decodeBookings(r record[bookingRow], now time.Time) []*booking.Booking {
	f := r.Fields
	if len(f.Event) == 0 {
		return nil
	}

	guests := defaults.Guests
	if f.Guests != nil && *f.Guests >= 1 {
		guests = int(*f.Guests)
	}
	bookedAt, ok := parseTimestamp(f.BookingDate)
	if !ok {
		if bookedAt, ok = parseTimestamp(r.CreatedTime); !ok {
			bookedAt = now
		}
	}

	result := make([]*booking.Booking, 0, len(f.Event))
	for _, eventID := range f.Event {
		result = append(result, &booking.Booking{
			ID:       r.ID,
			EventID:  eventID,
			Name:     f.Name,
			Email:    f.Email,
			Phone:    f.Phone,
			Guests:   guests,
			Notes:    f.Notes,
			BookedAt: bookedAt,
		})
	}
	return result
}

func parseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, event.DateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func encodeEvent(d event.Draft, includeDate bool) eventWrite {
	w := eventWrite{
		Title:       d.Title,
		Time:        d.Time,
		Location:    d.Location,
		Type:        string(d.Type),
		Description: d.Description,
		Price:       d.Price,
		Capacity:    d.Capacity,
		Rating:      d.Rating,
	}
	if includeDate {
		w.Date = d.Date
	}
	if w.Type == "" {
		w.Type = string(defaults.Type)
	}
	if w.Rating == 0 {
		w.Rating = defaults.Rating
	}
	return w
}

func encodeBooking(d booking.Draft, eventID string) bookingWrite {
	return bookingWrite{
		Name:   d.Name,
		Email:  d.Email,
		Phone:  d.Phone,
		Guests: d.Guests,
		Notes:  d.Notes,
		Event:  []string{eventID},
	}
}
