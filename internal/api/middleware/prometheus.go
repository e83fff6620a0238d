package middleware

import (
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-tourism-calendar/internal/pkg/metrics"
)

// unmeasuredPaths はスクレイプ自身など集計しないパス
var unmeasuredPaths = map[string]bool{
	"/metrics": true,
	healthPath: true,
}

// PrometheusMiddleware はHTTPメトリクスを収集するミドルウェア
// 日付などのパスパラメータで系列が増えないよう、ルート定義のパスで集計する
func PrometheusMiddleware(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			route := c.Path()
			if unmeasuredPaths[route] {
				return next(c)
			}
			if route == "" {
				// 未定義のパスはURLを使わず1系列にまとめる
				route = "unmatched"
			}

			start := time.Now()
			err := next(c)

			status := c.Response().Status
			var he *echo.HTTPError
			if errors.As(err, &he) {
				status = he.Code
			}
			m.ObserveHTTP(c.Request().Method, route, status, time.Since(start).Seconds())
			return err
		}
	}
}
