package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-tourism-calendar/internal/application"
	"github.com/sanosuguru/go-tourism-calendar/internal/domain/booking"
	"github.com/sanosuguru/go-tourism-calendar/internal/domain/calendar"
	"github.com/sanosuguru/go-tourism-calendar/internal/domain/event"
	"github.com/sanosuguru/go-tourism-calendar/internal/domain/store"
)

// リモートストアへの書き込みに失敗したときの利用者向けメッセージ
const (
	noticeSaveFailed    = "イベントの保存に失敗しました。もう一度お試しください"
	noticeDeleteFailed  = "イベントの削除に失敗しました。もう一度お試しください"
	noticeBookingFailed = "予約に失敗しました。もう一度お試しください"
)

// toHTTPError はドメインのエラーをHTTPステータスに対応付ける
// 元のエラーは Internal に保持し、エラーハンドラーが入力不備の項目を取り出せるようにする
func toHTTPError(err error, remoteNotice string) error {
	var (
		capErr    *booking.CapacityError
		remoteErr *store.RemoteError
	)

	status, message := http.StatusInternalServerError, "内部サーバーエラー"
	switch {
	case errors.Is(err, event.ErrValidation),
		errors.Is(err, booking.ErrValidation),
		errors.Is(err, event.ErrInvalidDate),
		errors.Is(err, calendar.ErrInvalidMonth):
		status, message = http.StatusBadRequest, err.Error()
	case errors.As(err, &capErr):
		status, message = http.StatusConflict, capErr.Error()
	case errors.Is(err, application.ErrActionInProgress):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, application.ErrConfirmationRequired):
		status, message = http.StatusPreconditionRequired, err.Error()
	case errors.Is(err, event.ErrEventNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.As(err, &remoteErr):
		status, message = http.StatusBadGateway, remoteNotice
	}
	return echo.NewHTTPError(status, message).SetInternal(err)
}
