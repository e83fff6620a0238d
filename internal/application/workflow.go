package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-tourism-calendar/internal/domain/booking"
	"github.com/sanosuguru/go-tourism-calendar/internal/domain/event"
	"github.com/sanosuguru/go-tourism-calendar/internal/domain/lock"
	"github.com/sanosuguru/go-tourism-calendar/internal/pkg/clock"
	"github.com/sanosuguru/go-tourism-calendar/internal/pkg/logger"
	"github.com/sanosuguru/go-tourism-calendar/internal/pkg/metrics"
)

// 予約結果のラベル（bookings_total の status）
const (
	bookingStatusSuccess          = "success"
	bookingStatusDuplicate        = "duplicate"
	bookingStatusValidationFailed = "validation_failed"
	bookingStatusCapacityRejected = "capacity_rejected"
	bookingStatusNotFound         = "event_not_found"
	bookingStatusLockFailed       = "lock_failed"
	bookingStatusRemoteError      = "remote_error"
)

const (
	defaultActionLockTTL  = 30 * time.Second
	defaultIdempotencyTTL = 10 * time.Minute
	defaultSuccessDwell   = 2 * time.Second

	lockRetries    = 3
	lockRetryDelay = 100 * time.Millisecond
)

// WorkflowOptions は WorkflowService の任意の依存と設定
type WorkflowOptions struct {
	Locker         lock.Locker
	Idempotency    booking.IdempotencyStore
	Metrics        *metrics.Metrics
	Clock          clock.Clock
	ActionLockTTL  time.Duration
	IdempotencyTTL time.Duration
	SuccessDwell   time.Duration
}

// WorkflowService はイベントの保存・削除と予約の受付を行う
// 書き込みが成功するたびにリモートストアから全状態を読み込み直し、スナップショットを差し替える
type WorkflowService struct {
	loader      Loader
	eventRepo   event.Repository
	bookingRepo booking.Repository
	state       *CalendarState

	locker         lock.Locker
	idempotency    booking.IdempotencyStore
	metrics        *metrics.Metrics
	clock          clock.Clock
	actionLockTTL  time.Duration
	idempotencyTTL time.Duration
	successDwell   time.Duration
}

func NewWorkflowService(loader Loader, er event.Repository, br booking.Repository, state *CalendarState, opts WorkflowOptions) *WorkflowService {
	s := &WorkflowService{
		loader:         loader,
		eventRepo:      er,
		bookingRepo:    br,
		state:          state,
		locker:         opts.Locker,
		idempotency:    opts.Idempotency,
		metrics:        opts.Metrics,
		clock:          opts.Clock,
		actionLockTTL:  opts.ActionLockTTL,
		idempotencyTTL: opts.IdempotencyTTL,
		successDwell:   opts.SuccessDwell,
	}
	if s.clock == nil {
		s.clock = clock.NewSystem()
	}
	if s.actionLockTTL <= 0 {
		s.actionLockTTL = defaultActionLockTTL
	}
	if s.idempotencyTTL <= 0 {
		s.idempotencyTTL = defaultIdempotencyTTL
	}
	if s.successDwell <= 0 {
		s.successDwell = defaultSuccessDwell
	}
	return s
}

// Snapshot は現在の日付 → イベントの対応表を返す
func (s *WorkflowService) Snapshot() event.ByDate {
	return s.state.Snapshot()
}

// GetEvent は手元のスナップショットから指定日のイベントを返す
func (s *WorkflowService) GetEvent(date string) (*event.Event, error) {
	e := s.state.Get(date)
	if e == nil {
		return nil, event.ErrEventNotFound
	}
	return e, nil
}

// Reload はリモートストアから全状態を読み込み、スナップショットを差し替える
func (s *WorkflowService) Reload(ctx context.Context) event.ByDate {
	events := s.loader.LoadAll(ctx)
	s.state.Replace(events, s.clock.Now())
	s.metrics.SetCalendarEvents(len(events))
	logger.Debug("カレンダーを再読み込みしました", zap.Int("events", len(events)))
	return events
}

// SaveEvent は指定日のイベントを保存する
// 保存済みのイベントがあれば更新、なければ作成し、成功後に全状態を読み込み直す
func (s *WorkflowService) SaveEvent(ctx context.Context, date string, draft event.Draft) (*event.Event, error) {
	draft.Date = date
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	release, err := s.acquire(ctx, date)
	if err != nil {
		return nil, err
	}
	defer release()

	existing := s.state.Get(date)
	if existing.IsPersisted() {
		if err := s.eventRepo.Update(ctx, existing.ID, draft); err != nil {
			return nil, err
		}
		logger.Info("イベントを更新しました", logger.Date(date), zap.String("event_id", existing.ID))
	} else {
		id, err := s.eventRepo.Create(ctx, draft)
		if err != nil {
			return nil, err
		}
		logger.Info("イベントを作成しました", logger.Date(date), zap.String("event_id", id))
	}

	events := s.Reload(ctx)
	return events[date], nil
}

// DeleteEvent は指定日のイベントを削除する。confirmed が false の場合は何もしない
func (s *WorkflowService) DeleteEvent(ctx context.Context, date string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	release, err := s.acquire(ctx, date)
	if err != nil {
		return err
	}
	defer release()

	existing := s.state.Get(date)
	if !existing.IsPersisted() {
		return event.ErrEventNotFound
	}
	if err := s.eventRepo.Delete(ctx, existing.ID); err != nil {
		return err
	}
	logger.Info("イベントを削除しました", logger.Date(date), zap.String("event_id", existing.ID))

	s.Reload(ctx)
	return nil
}

// BookingResult は予約受付の結果
type BookingResult struct {
	BookingID string
	Event     *event.Event  // 再読み込み後のイベント
	Duplicate bool          // 同じ冪等性キーで受付済みだった
	Dwell     time.Duration // 完了表示を出しておく時間
	CloseAt   time.Time     // 予約フォームを閉じる時刻
}

// SubmitBooking は指定日のイベントに予約を受け付ける
// 残席の確認は手元のスナップショットに対して行うため、リモートストア上での超過予約は防げない
func (s *WorkflowService) SubmitBooking(ctx context.Context, date string, draft booking.Draft, idempotencyKey string) (*BookingResult, error) {
	if err := draft.Validate(); err != nil {
		s.metrics.ObserveBooking(bookingStatusValidationFailed)
		return nil, err
	}

	release, err := s.acquire(ctx, date)
	if err != nil {
		s.metrics.ObserveBooking(bookingStatusLockFailed)
		return nil, err
	}
	defer release()

	if id, found := s.lookupIdempotency(ctx, date, idempotencyKey); found {
		s.metrics.ObserveBooking(bookingStatusDuplicate)
		return s.bookingResult(id, date, true), nil
	}

	ev := s.state.Get(date)
	if !ev.IsPersisted() {
		s.metrics.ObserveBooking(bookingStatusNotFound)
		return nil, event.ErrEventNotFound
	}
	if available := ev.AvailableSeats(); draft.Guests > available {
		s.metrics.ObserveBooking(bookingStatusCapacityRejected)
		return nil, &booking.CapacityError{Requested: draft.Guests, Available: available}
	}

	id, err := s.bookingRepo.Create(ctx, draft, ev.ID)
	if err != nil {
		s.metrics.ObserveBooking(bookingStatusRemoteError)
		return nil, err
	}
	s.metrics.ObserveBooking(bookingStatusSuccess)
	logger.Info("予約を受け付けました",
		logger.Date(date),
		zap.String("event_id", ev.ID),
		zap.String("booking_id", id),
		zap.Int("guests", draft.Guests),
	)
	s.rememberIdempotency(ctx, date, idempotencyKey, id)

	s.Reload(ctx)
	return s.bookingResult(id, date, false), nil
}

func (s *WorkflowService) bookingResult(id, date string, duplicate bool) *BookingResult {
	return &BookingResult{
		BookingID: id,
		Event:     s.state.Get(date),
		Duplicate: duplicate,
		Dwell:     s.successDwell,
		CloseAt:   s.clock.Now().Add(s.successDwell),
	}
}

// acquire は日付単位の操作ロックを取得し、解放関数を返す
func (s *WorkflowService) acquire(ctx context.Context, date string) (func(), error) {
	if s.locker == nil {
		return func() {}, nil
	}
	held, err := s.locker.AcquireLockWithRetry(ctx, "calendar:"+date, s.actionLockTTL, lockRetries, lockRetryDelay)
	if err != nil {
		if errors.Is(err, lock.ErrLockNotAcquired) {
			return nil, ErrActionInProgress
		}
		return nil, fmt.Errorf("操作ロックの取得に失敗: %w", err)
	}
	return func() {
		// 呼び出し元のキャンセルに関わらず解放する
		if err := held.Release(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("操作ロックの解放に失敗しました", logger.Date(date), zap.Error(err))
		}
	}, nil
}

// idempotencyScope は冪等性キーを日付ごとに分ける
// 別の日付で同じキーが送られても、前の予約を返して新しい予約を落とさない
func idempotencyScope(date, key string) string {
	return date + ":" + key
}

func (s *WorkflowService) lookupIdempotency(ctx context.Context, date, key string) (string, bool) {
	if key == "" || s.idempotency == nil {
		return "", false
	}
	id, found, err := s.idempotency.Lookup(ctx, idempotencyScope(date, key))
	if err != nil {
		logger.Warn("冪等性キーの確認に失敗しました", zap.String("key", key), zap.Error(err))
		return "", false
	}
	return id, found
}

func (s *WorkflowService) rememberIdempotency(ctx context.Context, date, key, bookingID string) {
	if key == "" || s.idempotency == nil {
		return
	}
	if err := s.idempotency.Remember(ctx, idempotencyScope(date, key), bookingID, s.idempotencyTTL); err != nil {
		logger.Warn("冪等性キーの保存に失敗しました", zap.String("key", key), zap.Error(err))
	}
}
