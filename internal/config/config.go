package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultAirtableAPIRoot は Airtable REST API のルート
const DefaultAirtableAPIRoot = "https://api.airtable.com/v0"

// DefaultAirtableTimeout は Airtable へのリクエストのタイムアウト
const DefaultAirtableTimeout = 10 * time.Second

// Config はアプリケーション設定を表す
type Config struct {
	Env      string
	Server   ServerConfig
	Airtable AirtableConfig
	Redis    RedisConfig
	Booking  BookingConfig
}

// ServerConfig はサーバー設定
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// AirtableConfig はリモートストア（Airtable）の設定
type AirtableConfig struct {
	APIRoot         string
	Token           string
	BaseID          string
	EventsTableID   string
	BookingsTableID string
	Timeout         time.Duration // 操作ロックのTTLより短くする
}

// RedisConfig はRedis設定
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

// BookingConfig は予約ワークフローの設定
type BookingConfig struct {
	IdempotencyTTL time.Duration
	ActionLockTTL  time.Duration
	SuccessDwell   time.Duration
}

// Load は環境変数から設定を読み込む
func Load() *Config {
	cfg := &Config{
		Env: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
		},
		Airtable: AirtableConfig{
			APIRoot:         strings.TrimRight(getEnv("AIRTABLE_API_ROOT", DefaultAirtableAPIRoot), "/"),
			Token:           getEnv("AIRTABLE_TOKEN", ""),
			BaseID:          getEnv("AIRTABLE_BASE_ID", ""),
			EventsTableID:   getEnv("AIRTABLE_EVENTS_TABLE_ID", ""),
			BookingsTableID: getEnv("AIRTABLE_BOOKINGS_TABLE_ID", ""),
			Timeout:         getDurationEnv("AIRTABLE_TIMEOUT", DefaultAirtableTimeout),
		},
		Redis: RedisConfig{
			Enabled:  getBoolEnv("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Booking: BookingConfig{
			IdempotencyTTL: getDurationEnv("BOOKING_IDEMPOTENCY_TTL", 10*time.Minute),
			ActionLockTTL:  getDurationEnv("ACTION_LOCK_TTL", 30*time.Second),
			SuccessDwell:   2 * time.Second,
		},
	}

	// REDIS_URL（redis://:password@host:port/db）が設定されていれば優先する
	if raw := os.Getenv("REDIS_URL"); raw != "" {
		if u, err := url.Parse(raw); err == nil && u.Host != "" {
			cfg.Redis.Enabled = true
			cfg.Redis.Host = u.Hostname()
			if p := u.Port(); p != "" {
				cfg.Redis.Port = p
			}
			if pw, ok := u.User.Password(); ok {
				cfg.Redis.Password = pw
			}
			if db, err := strconv.Atoi(strings.TrimPrefix(u.Path, "/")); err == nil {
				cfg.Redis.DB = db
			}
		}
	}

	return cfg
}

// Validate は起動に必要な設定が揃っているかを検証する
func (c *Config) Validate() error {
	var missing []string
	if c.Airtable.Token == "" {
		missing = append(missing, "AIRTABLE_TOKEN")
	}
	if c.Airtable.BaseID == "" {
		missing = append(missing, "AIRTABLE_BASE_ID")
	}
	if c.Airtable.EventsTableID == "" {
		missing = append(missing, "AIRTABLE_EVENTS_TABLE_ID")
	}
	if c.Airtable.BookingsTableID == "" {
		missing = append(missing, "AIRTABLE_BOOKINGS_TABLE_ID")
	}
	if len(missing) > 0 {
		return errors.New("必須の環境変数が設定されていません: " + strings.Join(missing, ", "))
	}
	// 応答のないリクエストがロックより長く続くと、同じ日付の操作が重なる
	if c.Airtable.Timeout <= 0 || c.Airtable.Timeout >= c.Booking.ActionLockTTL {
		return fmt.Errorf("AIRTABLE_TIMEOUT (%s) は ACTION_LOCK_TTL (%s) より短い正の値にしてください",
			c.Airtable.Timeout, c.Booking.ActionLockTTL)
	}
	return nil
}

// BaseURL は Airtable ベースのURLを返す
func (c *AirtableConfig) BaseURL() string {
	return c.APIRoot + "/" + c.BaseID
}

// Addr はRedis接続アドレスを返す
func (c *RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
