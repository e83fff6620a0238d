package handler

import "github.com/labstack/echo/v4"

// Handlers はルーティングに登録するハンドラーの集合
type Handlers struct {
	Health   *HealthHandler
	Calendar *CalendarHandler
	Event    *EventHandler
	Booking  *BookingHandler
}

// RegisterRoutes は /api/v1 配下のルートを登録する
func RegisterRoutes(g *echo.Group, h Handlers) {
	g.GET("/health", h.Health.Check)

	g.GET("/calendar", h.Calendar.Month)
	g.POST("/calendar/reload", h.Calendar.Reload)

	g.GET("/events", h.Calendar.List)
	g.GET("/events/upcoming", h.Calendar.Upcoming)
	g.GET("/events/:date", h.Calendar.Get)
	g.PUT("/events/:date", h.Event.Save)
	g.DELETE("/events/:date", h.Event.Delete)

	g.POST("/events/:date/bookings", h.Booking.Create)
}
