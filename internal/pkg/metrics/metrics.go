package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics はアプリケーションのメトリクスを管理する
type Metrics struct {
	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// 予約の総数（status: success, duplicate, validation_failed, capacity_rejected, lock_failed, remote_error）
	BookingsTotal *prometheus.CounterVec

	// リモートストアへのリクエスト数（operation, status: success/failed）
	RemoteRequestsTotal *prometheus.CounterVec

	// リモートストアへのリクエスト時間（operation）
	RemoteRequestDuration *prometheus.HistogramVec

	// 操作ロックの取得・解放時間（operation: acquire/release, status: success/failed）
	ActionLockDuration *prometheus.HistogramVec

	// 直近の再読み込みで得たカレンダー上のイベント数
	CalendarEvents prometheus.Gauge
}

// New は新しいMetricsインスタンスを作成し、デフォルトレジストリに登録する
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry は指定したレジストリにメトリクスを登録する
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		BookingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookings_total",
				Help: "Total number of booking submissions by outcome",
			},
			[]string{"status"},
		),
		RemoteRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "remote_requests_total",
				Help: "Total number of requests sent to the remote tabular store",
			},
			[]string{"operation", "status"},
		),
		RemoteRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "remote_request_duration_seconds",
				Help:    "Remote tabular store request latency in seconds",
				Buckets: []float64{.025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"operation"},
		),
		ActionLockDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "action_lock_duration_seconds",
				Help:    "Time spent on per-date action lock operations",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation", "status"},
		),
		CalendarEvents: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "calendar_events",
				Help: "Number of events in the current events-by-date snapshot",
			},
		),
	}

	// レジストリに登録
	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.BookingsTotal,
		m.RemoteRequestsTotal,
		m.RemoteRequestDuration,
		m.ActionLockDuration,
		m.CalendarEvents,
	)

	return m
}

// ObserveHTTP はHTTPリクエストの件数と処理時間を記録する
func (m *Metrics) ObserveHTTP(method, route string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

// ObserveBooking は予約の結果を記録する（nil の場合は何もしない）
func (m *Metrics) ObserveBooking(status string) {
	if m == nil {
		return
	}
	m.BookingsTotal.WithLabelValues(status).Inc()
}

// ObserveRemote はリモートストアへのリクエスト結果を記録する
func (m *Metrics) ObserveRemote(operation string, seconds float64, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failed"
	}
	m.RemoteRequestsTotal.WithLabelValues(operation, status).Inc()
	m.RemoteRequestDuration.WithLabelValues(operation).Observe(seconds)
}

// ObserveLock は操作ロックの取得・解放時間を記録する
func (m *Metrics) ObserveLock(operation string, seconds float64, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failed"
	}
	m.ActionLockDuration.WithLabelValues(operation, status).Observe(seconds)
}

// SetCalendarEvents は現在のスナップショットのイベント数を記録する
func (m *Metrics) SetCalendarEvents(n int) {
	if m == nil {
		return
	}
	m.CalendarEvents.Set(float64(n))
}

// デフォルトのメトリクスインスタンス
var defaultMetrics *Metrics

// Init はデフォルトのメトリクスインスタンスを初期化する
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get はデフォルトのメトリクスインスタンスを返す
func Get() *Metrics {
	return defaultMetrics
}
