package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sanosuguru/go-tourism-calendar/internal/config"
	"github.com/sanosuguru/go-tourism-calendar/internal/domain/store"
	"github.com/sanosuguru/go-tourism-calendar/internal/pkg/clock"
	"github.com/sanosuguru/go-tourism-calendar/internal/pkg/metrics"
)

// FallbackErrorMessage はエラーペイロードにメッセージがない場合のメッセージ
const FallbackErrorMessage = "Airtable API request failed"

// Client は Airtable REST API のクライアント
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	metrics    *metrics.Metrics
	clock      clock.Clock
}

// Option は Client の設定を変更する
type Option func(*Client)

// WithHTTPClient は使用する http.Client を差し替える
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithMetrics はリクエストのメトリクスを記録する
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithClock は予約日時の既定値に使う時計を差し替える
func WithClock(clk clock.Clock) Option {
	return func(c *Client) { c.clock = clk }
}

// NewClient は新しい Client を作成する
func NewClient(cfg *config.AirtableConfig, opts ...Option) *Client {
	c := &Client{
		// Timeout 0 はトランスポートの既定値のまま
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL(),
		token:      cfg.Token,
		clock:      clock.NewSystem(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type errorPayload struct {
	Error json.RawMessage `json:"error"`
}

type errorDetail struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// do は1回のリクエストを送信し、成功時はレスポンスを out にデコードする
func (c *Client) do(ctx context.Context, operation, method, path string, query url.Values, body, out interface{}) (err error) {
	start := time.Now()
	defer func() {
		c.metrics.ObserveRemote(operation, time.Since(start).Seconds(), err)
	}()

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("リクエストのエンコードに失敗: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("リクエスト作成に失敗: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &store.RemoteError{Message: FallbackErrorMessage, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &store.RemoteError{StatusCode: resp.StatusCode, Message: FallbackErrorMessage, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &store.RemoteError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &store.RemoteError{StatusCode: resp.StatusCode, Message: "Airtable APIのレスポンスを解析できません", Err: err}
	}
	return nil
}

// errorMessage は {error: {message}} または {error: "CODE"} からメッセージを取り出す
func errorMessage(data []byte) string {
	var payload errorPayload
	if err := json.Unmarshal(data, &payload); err != nil || len(payload.Error) == 0 {
		return FallbackErrorMessage
	}

	var detail errorDetail
	if err := json.Unmarshal(payload.Error, &detail); err == nil {
		if detail.Message != "" {
			return detail.Message
		}
		if detail.Type != "" {
			return detail.Type
		}
		return FallbackErrorMessage
	}

	var code string
	if err := json.Unmarshal(payload.Error, &code); err == nil && code != "" {
		return code
	}
	return FallbackErrorMessage
}

func tablePath(tableID string) string {
	return "/" + url.PathEscape(tableID)
}

func recordPath(tableID, recordID string) string {
	return tablePath(tableID) + "/" + url.PathEscape(recordID)
}
