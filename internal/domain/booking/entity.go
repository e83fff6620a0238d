package booking

import (
	"net/mail"
	"strings"
	"time"
)

// DefaultGuests は人数が欠けている予約行に適用する既定値
const DefaultGuests = 1

// Booking は訪問者による座席の予約を表す
type Booking struct {
	ID       string
	EventID  string
	Name     string
	Email    string
	Phone    string
	Guests   int
	Notes    string
	BookedAt time.Time
}

// Draft は予約フォームの入力を表す
type Draft struct {
	Name   string
	Email  string
	Phone  string
	Guests int
	Notes  string
}

// NewDraft は予約フォームの初期値を返す
func NewDraft() Draft {
	return Draft{Guests: DefaultGuests}
}

// Validate は予約フォームの必須項目を検証する
func (d Draft) Validate() error {
	var fields []string
	if strings.TrimSpace(d.Name) == "" {
		fields = append(fields, "name")
	}
	if strings.TrimSpace(d.Email) == "" {
		fields = append(fields, "email")
	} else if _, err := mail.ParseAddress(d.Email); err != nil {
		fields = append(fields, "email")
	}
	if strings.TrimSpace(d.Phone) == "" {
		fields = append(fields, "phone")
	}
	if d.Guests < 1 {
		fields = append(fields, "guests")
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
