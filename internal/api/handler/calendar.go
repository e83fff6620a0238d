package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-tourism-calendar/internal/domain/calendar"
	"github.com/sanosuguru/go-tourism-calendar/internal/domain/event"
	"github.com/sanosuguru/go-tourism-calendar/internal/pkg/clock"
)

type CalendarHandler struct {
	service CalendarServiceInterface
	clock   clock.Clock
}

func NewCalendarHandler(s CalendarServiceInterface, clk clock.Clock) *CalendarHandler {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &CalendarHandler{service: s, clock: clk}
}

// Month godoc
// @Summary 月表示のカレンダーを取得
// @Description 日曜始まりの月カレンダーと各日のイベント概要を返します
// @Tags calendar
// @Produce json
// @Param month query string false "対象月（YYYY-MM）。省略時は今月"
// @Success 200 {object} CalendarResponse
// @Failure 400 {object} map[string]string
// @Router /calendar [get]
func (h *CalendarHandler) Month(c echo.Context) error {
	first := h.clock.Now()
	if q := c.QueryParam("month"); q != "" {
		t, err := calendar.ParseMonth(q)
		if err != nil {
			return toHTTPError(err, "")
		}
		first = t
	}

	m := calendar.BuildMonth(first.Year(), first.Month(), h.service.Snapshot())
	return c.JSON(http.StatusOK, toCalendarResponse(m))
}

// Reload godoc
// @Summary カレンダーを再読み込み
// @Description リモートストアからイベントと予約を読み込み直します
// @Tags calendar
// @Produce json
// @Success 200 {object} map[string]int
// @Router /calendar/reload [post]
func (h *CalendarHandler) Reload(c echo.Context) error {
	events := h.service.Reload(c.Request().Context())
	return c.JSON(http.StatusOK, map[string]int{"events": len(events)})
}

// List godoc
// @Summary 日付ごとのイベント一覧を取得
// @Tags events
// @Produce json
// @Success 200 {object} map[string]EventResponse
// @Router /events [get]
func (h *CalendarHandler) List(c echo.Context) error {
	snapshot := h.service.Snapshot()
	resp := make(map[string]EventResponse, len(snapshot))
	for date, e := range snapshot {
		resp[date] = toEventResponse(e)
	}
	return c.JSON(http.StatusOK, resp)
}

// Upcoming godoc
// @Summary 今日以降のイベントを取得
// @Description 今日を含む直近のイベントを日付順に最大6件返します
// @Tags events
// @Produce json
// @Success 200 {array} EventResponse
// @Router /events/upcoming [get]
func (h *CalendarHandler) Upcoming(c echo.Context) error {
	events := calendar.Upcoming(h.service.Snapshot(), h.clock.Now(), calendar.UpcomingLimit)
	resp := make([]EventResponse, len(events))
	for i, e := range events {
		resp[i] = toEventResponse(e)
	}
	return c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary 指定日のイベントを取得
// @Description 予約一覧、残席数、選択可能な人数を含めて返します
// @Tags events
// @Produce json
// @Param date path string true "日付（YYYY-MM-DD）"
// @Success 200 {object} EventDetailResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /events/{date} [get]
func (h *CalendarHandler) Get(c echo.Context) error {
	date, err := event.ParseDate(c.Param("date"))
	if err != nil {
		return toHTTPError(err, "")
	}
	e, err := h.service.GetEvent(date)
	if err != nil {
		return toHTTPError(err, "")
	}
	return c.JSON(http.StatusOK, toEventDetailResponse(e))
}
