package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-tourism-calendar/internal/api/middleware"
	"github.com/sanosuguru/go-tourism-calendar/internal/domain/booking"
	"github.com/sanosuguru/go-tourism-calendar/internal/domain/event"
)

// HeaderIdempotencyKey は予約の二重送信を識別するヘッダー
const HeaderIdempotencyKey = middleware.HeaderIdempotencyKey

type BookingHandler struct {
	workflow WorkflowServiceInterface
}

func NewBookingHandler(wf WorkflowServiceInterface) *BookingHandler {
	return &BookingHandler{workflow: wf}
}

type CreateBookingRequest struct {
	Name   string `json:"name" example:"Kim Minji"`
	Email  string `json:"email" validate:"omitempty,email" example:"minji@example.com"`
	Phone  string `json:"phone" example:"010-1234-5678"`
	Guests *int   `json:"guests" validate:"omitempty,gte=1,lte=10" example:"2"`
	Notes  string `json:"notes" example:"ベジタリアン対応希望"`
}

func (r CreateBookingRequest) toDraft() booking.Draft {
	d := booking.NewDraft()
	d.Name = r.Name
	d.Email = r.Email
	d.Phone = r.Phone
	d.Notes = r.Notes
	if r.Guests != nil {
		d.Guests = *r.Guests
	}
	return d
}

// Create godoc
// @Summary 予約を作成
// @Description 残席を確認してから予約を登録します。完了表示は dwell_seconds 後に閉じます
// @Tags bookings
// @Accept json
// @Produce json
// @Param date path string true "日付（YYYY-MM-DD）"
// @Param Idempotency-Key header string false "冪等性キー"
// @Param request body CreateBookingRequest true "予約情報"
// @Success 201 {object} BookingResultResponse
// @Success 200 {object} BookingResultResponse "受付済みの再送"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "残席不足"
// @Failure 502 {object} map[string]string
// @Router /events/{date}/bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	date, err := event.ParseDate(c.Param("date"))
	if err != nil {
		return toHTTPError(err, "")
	}
	var req CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	key := c.Request().Header.Get(HeaderIdempotencyKey)
	result, err := h.workflow.SubmitBooking(c.Request().Context(), date, req.toDraft(), key)
	if err != nil {
		return toHTTPError(err, noticeBookingFailed)
	}

	resp := BookingResultResponse{
		BookingID:    result.BookingID,
		Duplicate:    result.Duplicate,
		DwellSeconds: result.Dwell.Seconds(),
		CloseAt:      result.CloseAt,
	}
	if result.Event != nil {
		resp.Event = toEventDetailResponse(result.Event)
	}

	status := http.StatusCreated
	if result.Duplicate {
		status = http.StatusOK
	}
	return c.JSON(status, resp)
}
