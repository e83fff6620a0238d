package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-tourism-calendar/internal/api"
	"github.com/sanosuguru/go-tourism-calendar/internal/api/handler"
	"github.com/sanosuguru/go-tourism-calendar/internal/api/middleware"
	"github.com/sanosuguru/go-tourism-calendar/internal/application"
	"github.com/sanosuguru/go-tourism-calendar/internal/config"
	"github.com/sanosuguru/go-tourism-calendar/internal/domain/booking"
	"github.com/sanosuguru/go-tourism-calendar/internal/domain/lock"
	"github.com/sanosuguru/go-tourism-calendar/internal/infrastructure/airtable"
	"github.com/sanosuguru/go-tourism-calendar/internal/infrastructure/memory"
	redisinfra "github.com/sanosuguru/go-tourism-calendar/internal/infrastructure/redis"
	"github.com/sanosuguru/go-tourism-calendar/internal/pkg/clock"
	"github.com/sanosuguru/go-tourism-calendar/internal/pkg/logger"
	"github.com/sanosuguru/go-tourism-calendar/internal/pkg/metrics"
	"github.com/sanosuguru/go-tourism-calendar/internal/worker"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Env)
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("設定エラー", zap.Error(err))
	}

	m := metrics.Init()
	clk := clock.NewSystem()

	// リモートストア（Airtable）
	client := airtable.NewClient(&cfg.Airtable, airtable.WithMetrics(m), airtable.WithClock(clk))
	eventStore := airtable.NewEventStore(client, cfg.Airtable.EventsTableID)
	bookingStore := airtable.NewBookingStore(client, cfg.Airtable.BookingsTableID)

	// 操作ロックと冪等性キー（Redis未使用時はプロセス内）
	locker, idempotency, release := setupCoordination(cfg, m, clk)
	defer release()

	state := application.NewCalendarState()
	workflow := application.NewWorkflowService(
		application.NewAggregator(eventStore, bookingStore),
		eventStore,
		bookingStore,
		state,
		application.WorkflowOptions{
			Locker:         locker,
			Idempotency:    idempotency,
			Metrics:        m,
			Clock:          clk,
			ActionLockTTL:  cfg.Booking.ActionLockTTL,
			IdempotencyTTL: cfg.Booking.IdempotencyTTL,
			SuccessDwell:   cfg.Booking.SuccessDwell,
		},
	)

	// 起動時に全状態を読み込む
	events := workflow.Reload(context.Background())
	logger.Info("カレンダーを読み込みました", zap.Int("events", len(events)))

	e := newServer(cfg, m, workflow, state, clk)

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("サーバーを起動します", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("サーバーをシャットダウンしています...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("サーバーシャットダウンエラー", zap.Error(err))
		return
	}

	logger.Info("サーバーが正常にシャットダウンしました")
}

func newServer(cfg *config.Config, m *metrics.Metrics, wf *application.WorkflowService, state *application.CalendarState, clk clock.Clock) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	e.Validator = api.NewValidator()
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	middleware.SetupMiddleware(e)
	e.Use(middleware.PrometheusMiddleware(m))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), middleware.MetricsBasicAuth(middleware.LoadMetricsConfig()))

	handler.RegisterRoutes(e.Group("/api/v1"), handler.Handlers{
		Health:   handler.NewHealthHandler(state.LoadedAt, clk),
		Calendar: handler.NewCalendarHandler(wf, clk),
		Event:    handler.NewEventHandler(wf, wf),
		Booking:  handler.NewBookingHandler(wf),
	})
	return e
}

// setupCoordination はRedisが使える場合はRedis、使えない場合はプロセス内の実装を返す
func setupCoordination(cfg *config.Config, m *metrics.Metrics, clk clock.Clock) (lock.Locker, booking.IdempotencyStore, func()) {
	inProcess := func() (lock.Locker, booking.IdempotencyStore, func()) {
		locker := memory.NewLocker(clk)
		idempotency := memory.NewIdempotencyStore(clk)
		sweeper := worker.NewExpiredEntrySweeper(time.Minute, map[string]worker.Purger{
			"idempotency": idempotency,
			"lock":        locker,
		})
		go sweeper.Start(context.Background())
		return locker, idempotency, sweeper.Stop
	}
	if !cfg.Redis.Enabled {
		logger.Info("Redisは無効です。プロセス内のロックを使用します")
		return inProcess()
	}

	client := redisinfra.NewClient(&cfg.Redis)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisinfra.Ping(ctx, client); err != nil {
		logger.Warn("Redisに接続できません。プロセス内のロックを使用します",
			zap.String("addr", cfg.Redis.Addr()),
			zap.Error(err),
		)
		_ = client.Close()
		return inProcess()
	}

	logger.Info("Redisに接続しました", zap.String("addr", cfg.Redis.Addr()))
	return redisinfra.NewLockManager(client, m), redisinfra.NewIdempotencyStore(client), closeRedis(client)
}

func closeRedis(client *goredis.Client) func() {
	return func() {
		if err := client.Close(); err != nil {
			logger.Warn("Redis切断エラー", zap.Error(err))
		}
	}
}
