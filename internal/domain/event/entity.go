package event

import (
	"strings"
	"time"

	"github.com/sanosuguru/go-tourism-calendar/internal/domain/booking"
)

// DateLayout はイベント日付のフォーマット（カレンダー上のキー）
const DateLayout = "2006-01-02"

// Type はイベントの種別を表す
type Type string

const (
	TypeTour        Type = "Tour"
	TypeWorkshop    Type = "Workshop"
	TypeFoodTour    Type = "Food Tour"
	TypePerformance Type = "Performance"
	TypeFestival    Type = "Festival"
	TypeExhibition  Type = "Exhibition"
)

// Types はフォームで選択可能なイベント種別の一覧
var Types = []Type{
	TypeTour,
	TypeWorkshop,
	TypeFoodTour,
	TypePerformance,
	TypeFestival,
	TypeExhibition,
}

// IsValid は定義済みの種別かを返す
func (t Type) IsValid() bool {
	for _, v := range Types {
		if v == t {
			return true
		}
	}
	return false
}

// Event はカレンダー上の1日に紐づく文化イベントを表す
type Event struct {
	ID          string // リモートストアが採番する。未保存の場合は空
	Date        string
	Title       string
	Time        string
	Location    string
	Type        Type
	Description string
	Price       string // 表示用の文字列
	Capacity    int
	Rating      float64

	// Bookings はアグリゲーターが結合する。イベント行としては保存されない
	Bookings []*booking.Booking
}

// IsPersisted はリモートストアに保存済みかを返す
func (e *Event) IsPersisted() bool {
	return e != nil && e.ID != ""
}

// ByDate は日付 → イベントの対応表。再読み込みのたびに丸ごと作り直される
type ByDate map[string]*Event

// Draft はイベント作成・更新フォームの入力を表す
type Draft struct {
	Date        string
	Title       string
	Time        string
	Location    string
	Type        Type
	Description string
	Price       string
	Capacity    int
	Rating      float64
}

// NewDraft は新規作成フォームの初期値を返す
func NewDraft(date string) Draft {
	return Draft{
		Date:     date,
		Type:     DefaultType,
		Capacity: DefaultCapacity,
		Rating:   DefaultRating,
	}
}

// DraftFrom は既存イベントを編集フォームの値に変換する
func DraftFrom(e *Event) Draft {
	return Draft{
		Date:        e.Date,
		Title:       e.Title,
		Time:        e.Time,
		Location:    e.Location,
		Type:        e.Type,
		Description: e.Description,
		Price:       e.Price,
		Capacity:    e.Capacity,
		Rating:      e.Rating,
	}
}

// Validate はフォームの必須項目を検証する
func (d Draft) Validate() error {
	var missing []string
	if strings.TrimSpace(d.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(d.Time) == "" {
		missing = append(missing, "time")
	}
	if strings.TrimSpace(d.Location) == "" {
		missing = append(missing, "location")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	if d.Capacity < 0 {
		return &ValidationError{Fields: []string{"capacity"}}
	}
	return nil
}

// ParseDate はカレンダー日付を検証して正規化する
func ParseDate(s string) (string, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", ErrInvalidDate
	}
	return t.Format(DateLayout), nil
}
