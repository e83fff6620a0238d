package calendar

import (
	"errors"
	"sort"
	"time"

	"github.com/sanosuguru/go-tourism-calendar/internal/domain/event"
)

// MonthLayout は月指定のフォーマット
const MonthLayout = "2006-01"

// UpcomingLimit は直近イベント一覧の件数
const UpcomingLimit = 6

var ErrInvalidMonth = errors.New("月はYYYY-MM形式である必要があります")

// Day はカレンダーの1日分のセルを表す
type Day struct {
	Day   int
	Date  string
	Event *event.Event
}

// Month は月表示のカレンダー（日曜始まり）を表す
type Month struct {
	Year          int
	Month         time.Month
	LeadingBlanks int // 1日より前の空白セル数（1日の曜日）
	Days          []Day
}

// ParseMonth は "YYYY-MM" を月初の日時に変換する
func ParseMonth(s string) (time.Time, error) {
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidMonth
	}
	return t, nil
}

// BuildMonth は指定月のカレンダーを組み立て、各日にイベントを割り当てる
func BuildMonth(year int, month time.Month, events event.ByDate) Month {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	m := Month{
		Year:          first.Year(),
		Month:         first.Month(),
		LeadingBlanks: int(first.Weekday()),
		Days:          make([]Day, daysInMonth),
	}
	for i := range m.Days {
		date := first.AddDate(0, 0, i).Format(event.DateLayout)
		m.Days[i] = Day{Day: i + 1, Date: date, Event: events[date]}
	}
	return m
}

// Prev は前月の年月を返す
func (m Month) Prev() (int, time.Month) {
	t := time.Date(m.Year, m.Month-1, 1, 0, 0, 0, 0, time.UTC)
	return t.Year(), t.Month()
}

// Next は翌月の年月を返す
func (m Month) Next() (int, time.Month) {
	t := time.Date(m.Year, m.Month+1, 1, 0, 0, 0, 0, time.UTC)
	return t.Year(), t.Month()
}

// Upcoming は today 以降のイベントを日付順に最大 limit 件返す
func Upcoming(events event.ByDate, today time.Time, limit int) []*event.Event {
	from := today.Format(event.DateLayout)
	result := make([]*event.Event, 0, len(events))
	for date, e := range events {
		// YYYY-MM-DD は文字列比較で日付順になる
		if date >= from {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date < result[j].Date
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}
