package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-tourism-calendar/internal/pkg/clock"
)

// LoadedAtFunc は最後にカレンダーを読み込んだ時刻を返す
type LoadedAtFunc func() time.Time

// HealthHandler はヘルスチェックハンドラー
type HealthHandler struct {
	loadedAt LoadedAtFunc
	clock    clock.Clock
}

// NewHealthHandler はHealthHandlerを作成する
func NewHealthHandler(loadedAt LoadedAtFunc, clk clock.Clock) *HealthHandler {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &HealthHandler{loadedAt: loadedAt, clock: clk}
}

// HealthResponse はヘルスチェックのレスポンス
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	LoadedAt  string `json:"loaded_at,omitempty"`
}

// Check はヘルスチェックを行う
// @Summary ヘルスチェック
// @Description アプリケーションの健全性を確認する
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Check(c echo.Context) error {
	resp := HealthResponse{
		Status:    "ok",
		Timestamp: h.clock.Now().Format(time.RFC3339),
	}
	if h.loadedAt != nil {
		if t := h.loadedAt(); !t.IsZero() {
			resp.LoadedAt = t.Format(time.RFC3339)
		}
	}
	return c.JSON(http.StatusOK, resp)
}
