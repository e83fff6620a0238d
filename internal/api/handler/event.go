package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-tourism-calendar/internal/domain/event"
)

type EventHandler struct {
	calendar CalendarServiceInterface
	workflow WorkflowServiceInterface
}

func NewEventHandler(cal CalendarServiceInterface, wf WorkflowServiceInterface) *EventHandler {
	return &EventHandler{calendar: cal, workflow: wf}
}

// SaveEventRequest はイベントフォームの入力
// 省略した項目は既存イベントの値（新規の場合は既定値）を引き継ぐ
type SaveEventRequest struct {
	Title       *string  `json:"title" example:"景福宮ナイトツアー"`
	Time        *string  `json:"time" example:"19:00"`
	Location    *string  `json:"location" example:"景福宮"`
	Type        string   `json:"type" validate:"event_type" example:"Tour"`
	Description *string  `json:"description" example:"夜の宮殿を歩く"`
	Price       *string  `json:"price" example:"₩30,000"`
	Capacity    *int     `json:"capacity" validate:"omitempty,gte=0" example:"10"`
	Rating      *float64 `json:"rating" validate:"omitempty,gte=0,lte=5" example:"4.8"`
}

func (r SaveEventRequest) toDraft(base event.Draft) event.Draft {
	d := base
	merge(&d.Title, r.Title)
	merge(&d.Time, r.Time)
	merge(&d.Location, r.Location)
	merge(&d.Description, r.Description)
	merge(&d.Price, r.Price)
	if r.Type != "" {
		d.Type = event.Type(r.Type)
	}
	if r.Capacity != nil {
		d.Capacity = *r.Capacity
	}
	if r.Rating != nil {
		d.Rating = *r.Rating
	}
	return d
}

// merge は送信された項目だけを上書きする（空文字は明示的なクリア）
func merge(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// Save godoc
// @Summary イベントを保存
// @Description 指定日にイベントがあれば更新、なければ作成します
// @Tags events
// @Accept json
// @Produce json
// @Param date path string true "日付（YYYY-MM-DD）"
// @Param request body SaveEventRequest true "イベント情報"
// @Success 200 {object} EventDetailResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "同じ日付の操作が処理中"
// @Failure 502 {object} map[string]string
// @Router /events/{date} [put]
func (h *EventHandler) Save(c echo.Context) error {
	date, err := event.ParseDate(c.Param("date"))
	if err != nil {
		return toHTTPError(err, "")
	}
	var req SaveEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	base := event.NewDraft(date)
	if existing, err := h.calendar.GetEvent(date); err == nil {
		base = event.DraftFrom(existing)
	}

	saved, err := h.workflow.SaveEvent(c.Request().Context(), date, req.toDraft(base))
	if err != nil {
		return toHTTPError(err, noticeSaveFailed)
	}
	if saved == nil {
		// 保存は成功したが再読み込みで取得できなかった
		return c.NoContent(http.StatusAccepted)
	}
	return c.JSON(http.StatusOK, toEventDetailResponse(saved))
}

// Delete godoc
// @Summary イベントを削除
// @Description confirm=true を指定した場合のみ削除します
// @Tags events
// @Param date path string true "日付（YYYY-MM-DD）"
// @Param confirm query bool true "削除の確認"
// @Success 204
// @Failure 404 {object} map[string]string
// @Failure 428 {object} map[string]string "確認が必要"
// @Failure 502 {object} map[string]string
// @Router /events/{date} [delete]
func (h *EventHandler) Delete(c echo.Context) error {
	date, err := event.ParseDate(c.Param("date"))
	if err != nil {
		return toHTTPError(err, "")
	}
	confirmed, _ := strconv.ParseBool(c.QueryParam("confirm"))

	if err := h.workflow.DeleteEvent(c.Request().Context(), date, confirmed); err != nil {
		return toHTTPError(err, noticeDeleteFailed)
	}
	return c.NoContent(http.StatusNoContent)
}
