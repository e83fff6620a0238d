package airtable

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-tourism-calendar/internal/config"
	"github.com/sanosuguru/go-tourism-calendar/internal/domain/store"
	"github.com/sanosuguru/go-tourism-calendar/internal/pkg/clock"
	"github.com/sanosuguru/go-tourism-calendar/internal/pkg/metrics"
)

// capturedRequest はフェイクサーバーが受け取ったリクエスト
type capturedRequest struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   map[string]interface{}
}

// fakeAirtable は Airtable API を模したテスト用サーバー
type fakeAirtable struct {
	t        *testing.T
	server   *httptest.Server
	mu       sync.Mutex
	requests []capturedRequest
	handler  func(w http.ResponseWriter, r *http.Request)
}

func newFakeAirtable(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *fakeAirtable {
	f := &fakeAirtable{t: t, handler: handler}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured := capturedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Auth:   r.Header.Get("Authorization"),
		}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			assert.NoError(t, json.Unmarshal(data, &captured.Body))
		}
		f.mu.Lock()
		f.requests = append(f.requests, captured)
		f.mu.Unlock()
		f.handler(w, r)
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeAirtable) Requests() []capturedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]capturedRequest(nil), f.requests...)
}

func (f *fakeAirtable) client(opts ...Option) *Client {
	cfg := &config.AirtableConfig{
		APIRoot:         f.server.URL + "/v0",
		Token:           "patTEST",
		BaseID:          "appBase",
		EventsTableID:   "tblEvents",
		BookingsTableID: "tblBookings",
	}
	return NewClient(cfg, opts...)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestClient_ErrorMessage(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{
			name:        "構造化されたエラーメッセージ",
			status:      http.StatusUnprocessableEntity,
			body:        `{"error":{"type":"INVALID_VALUE_FOR_COLUMN","message":"Field \"Capacity\" cannot accept the provided value"}}`,
			wantMessage: `Field "Capacity" cannot accept the provided value`,
		},
		{
			name:        "文字列形式のエラー",
			status:      http.StatusNotFound,
			body:        `{"error":"NOT_FOUND"}`,
			wantMessage: "NOT_FOUND",
		},
		{
			name:        "メッセージのないエラーオブジェクト",
			status:      http.StatusForbidden,
			body:        `{"error":{"type":"INVALID_PERMISSIONS_OR_MODEL_NOT_FOUND"}}`,
			wantMessage: "INVALID_PERMISSIONS_OR_MODEL_NOT_FOUND",
		},
		{
			name:        "JSONではないボディ",
			status:      http.StatusBadGateway,
			body:        `<html>bad gateway</html>`,
			wantMessage: FallbackErrorMessage,
		},
		{
			name:        "空のボディ",
			status:      http.StatusInternalServerError,
			body:        ``,
			wantMessage: FallbackErrorMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeAirtable(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})
			s := NewEventStore(fake.client(), "tblEvents")

			err := s.Delete(context.Background(), "rec1")

			require.Error(t, err)
			assert.ErrorIs(t, err, store.ErrRemote)
			var re *store.RemoteError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, tt.status, re.StatusCode)
			assert.Equal(t, tt.wantMessage, re.Message)
		})
	}
}

func TestClient_TransportFailure(t *testing.T) {
	fake := newFakeAirtable(t, func(w http.ResponseWriter, r *http.Request) {})
	c := fake.client()
	fake.server.Close()

	_, err := NewEventStore(c, "tblEvents").Create(context.Background(), sampleDraft())

	require.Error(t, err)
	var re *store.RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 0, re.StatusCode)
	assert.Equal(t, FallbackErrorMessage, re.Message)
	assert.NotNil(t, re.Err)
}

func TestClient_Timeout(t *testing.T) {
	fake := newFakeAirtable(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		writeJSON(w, http.StatusOK, `{"id":"rec1"}`)
	})
	c := fake.client(WithHTTPClient(&http.Client{Timeout: 20 * time.Millisecond}))

	_, err := NewEventStore(c, "tblEvents").Create(context.Background(), sampleDraft())

	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrRemote)
}

func TestClient_RecordsMetrics(t *testing.T) {
	fake := newFakeAirtable(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			writeJSON(w, http.StatusNotFound, `{"error":"NOT_FOUND"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"records":[]}`)
	})
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	c := fake.client(WithMetrics(m), WithClock(clock.NewFixed(time.Now())))

	NewEventStore(c, "tblEvents").List(context.Background())
	_ = NewEventStore(c, "tblEvents").Delete(context.Background(), "rec1")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RemoteRequestsTotal.WithLabelValues("listEvents", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RemoteRequestsTotal.WithLabelValues("deleteEvent", "failed")))
}

func TestClient_CancelledContext(t *testing.T) {
	fake := newFakeAirtable(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"id":"rec1"}`)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBookingStore(fake.client(), "tblBookings").Create(ctx, sampleBookingDraft(), "rec1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
