package application

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/sanosuguru/go-tourism-calendar/internal/domain/booking"
	"github.com/sanosuguru/go-tourism-calendar/internal/domain/event"
)

// Loader はリモートストアから全状態を読み込むインターフェース
type Loader interface {
	LoadAll(ctx context.Context) event.ByDate
}

// Aggregator はイベントと予約を読み込み、日付ごとのイベントに予約を結合する
type Aggregator struct {
	eventRepo   event.Repository
	bookingRepo booking.Repository
}

func NewAggregator(er event.Repository, br booking.Repository) *Aggregator {
	return &Aggregator{eventRepo: er, bookingRepo: br}
}

// LoadAll はイベントと予約を並行して取得し、イベントIDで結合した結果を返す
// 一覧取得は失敗しても空の結果になるため、このメソッドは失敗しない
// 呼び出しのたびに全体を作り直す（キャッシュしない）
func (a *Aggregator) LoadAll(ctx context.Context) event.ByDate {
	var (
		events  []*event.Event
		grouped map[string][]*booking.Booking
	)

	var g errgroup.Group
	g.Go(func() error {
		events = a.eventRepo.List(ctx)
		return nil
	})
	g.Go(func() error {
		grouped = a.bookingRepo.ListGroupedByEvent(ctx)
		return nil
	})
	_ = g.Wait()

	return Join(events, grouped)
}

// Join は予約をリンク先のイベントに割り当てて日付ごとの対応表を作る
// 同じ日付のイベントが複数ある場合は後の行が優先される
func Join(events []*event.Event, grouped map[string][]*booking.Booking) event.ByDate {
	byDate := make(event.ByDate, len(events))
	for _, e := range events {
		if e == nil || e.Date == "" {
			continue
		}
		bookings := grouped[e.ID]
		if e.ID == "" || bookings == nil {
			bookings = []*booking.Booking{}
		}
		e.Bookings = bookings
		byDate[e.Date] = e
	}
	return byDate
}
