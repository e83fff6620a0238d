package handler

import (
	"time"

	"github.com/sanosuguru/go-tourism-calendar/internal/domain/booking"
	"github.com/sanosuguru/go-tourism-calendar/internal/domain/calendar"
	"github.com/sanosuguru/go-tourism-calendar/internal/domain/event"
)

type EventResponse struct {
	ID          string  `json:"id" example:"recA1b2C3d4E5f6G7"`
	Date        string  `json:"date" example:"2025-06-01"`
	Title       string  `json:"title" example:"景福宮ナイトツアー"`
	Time        string  `json:"time" example:"19:00"`
	Location    string  `json:"location" example:"景福宮"`
	Type        string  `json:"type" example:"Tour"`
	Description string  `json:"description"`
	Price       string  `json:"price" example:"₩30,000"`
	Capacity    int     `json:"capacity" example:"10"`
	Rating      float64 `json:"rating" example:"5"`
	Booked      int     `json:"booked" example:"3"`
	Available   int     `json:"available" example:"7"`
	Full        bool    `json:"full"`
}

type BookingResponse struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Phone    string    `json:"phone"`
	Guests   int       `json:"guests"`
	Notes    string    `json:"notes,omitempty"`
	BookedAt time.Time `json:"booked_at"`
}

type EventDetailResponse struct {
	EventResponse
	Bookings     []BookingResponse `json:"bookings"`
	GuestOptions []int             `json:"guest_options"`
}

type EventSummaryResponse struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Type     string `json:"type"`
	Booked   int    `json:"booked"`
	Capacity int    `json:"capacity"`
	Full     bool   `json:"full"`
}

type CalendarDayResponse struct {
	Day   int                   `json:"day"`
	Date  string                `json:"date"`
	Event *EventSummaryResponse `json:"event,omitempty"`
}

type CalendarResponse struct {
	Month         string                `json:"month" example:"2025-06"`
	Prev          string                `json:"prev" example:"2025-05"`
	Next          string                `json:"next" example:"2025-07"`
	LeadingBlanks int                   `json:"leading_blanks" example:"0"`
	Days          []CalendarDayResponse `json:"days"`
}

type BookingResultResponse struct {
	BookingID    string               `json:"booking_id"`
	Duplicate    bool                 `json:"duplicate"`
	DwellSeconds float64              `json:"dwell_seconds" example:"2"`
	CloseAt      time.Time            `json:"close_at"`
	Event        *EventDetailResponse `json:"event,omitempty"`
}

func toEventResponse(e *event.Event) EventResponse {
	return EventResponse{
		ID:          e.ID,
		Date:        e.Date,
		Title:       e.Title,
		Time:        e.Time,
		Location:    e.Location,
		Type:        string(e.Type),
		Description: e.Description,
		Price:       e.Price,
		Capacity:    e.Capacity,
		Rating:      e.Rating,
		Booked:      e.BookedSeats(),
		Available:   e.AvailableSeats(),
		Full:        e.IsFull(),
	}
}

func toBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID: b.ID, Name: b.Name, Email: b.Email, Phone: b.Phone,
		Guests: b.Guests, Notes: b.Notes, BookedAt: b.BookedAt,
	}
}

func toEventDetailResponse(e *event.Event) *EventDetailResponse {
	bookings := make([]BookingResponse, 0, len(e.Bookings))
	for _, b := range e.Bookings {
		bookings = append(bookings, toBookingResponse(b))
	}
	return &EventDetailResponse{
		EventResponse: toEventResponse(e),
		Bookings:      bookings,
		GuestOptions:  e.GuestOptions(),
	}
}

func toCalendarResponse(m calendar.Month) CalendarResponse {
	monthOf := func(y int, mo time.Month) string {
		return time.Date(y, mo, 1, 0, 0, 0, 0, time.UTC).Format(calendar.MonthLayout)
	}

	days := make([]CalendarDayResponse, len(m.Days))
	for i, d := range m.Days {
		days[i] = CalendarDayResponse{Day: d.Day, Date: d.Date}
		if e := d.Event; e != nil {
			days[i].Event = &EventSummaryResponse{
				ID:       e.ID,
				Title:    e.Title,
				Type:     string(e.Type),
				Booked:   e.BookedSeats(),
				Capacity: e.Capacity,
				Full:     e.IsFull(),
			}
		}
	}
	return CalendarResponse{
		Month:         monthOf(m.Year, m.Month),
		Prev:          monthOf(m.Prev()),
		Next:          monthOf(m.Next()),
		LeadingBlanks: m.LeadingBlanks,
		Days:          days,
	}
}
