package e2e

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"github.com/sanosuguru/go-tourism-calendar/internal/api"
	"github.com/sanosuguru/go-tourism-calendar/internal/api/handler"
	"github.com/sanosuguru/go-tourism-calendar/internal/api/middleware"
	"github.com/sanosuguru/go-tourism-calendar/internal/application"
	"github.com/sanosuguru/go-tourism-calendar/internal/config"
	"github.com/sanosuguru/go-tourism-calendar/internal/infrastructure/airtable"
	"github.com/sanosuguru/go-tourism-calendar/internal/infrastructure/memory"
	"github.com/sanosuguru/go-tourism-calendar/internal/pkg/clock"
	"github.com/sanosuguru/go-tourism-calendar/internal/pkg/metrics"
)

const (
	baseID        = "appE2E"
	eventsTable   = "tblEvents"
	bookingsTable = "tblBookings"
	pageSize      = 2
)

var today = time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

// airtableRecord はフェイクの Airtable が保持する1行
type airtableRecord struct {
	ID          string                 `json:"id"`
	CreatedTime string                 `json:"createdTime"`
	Fields      map[string]interface{} `json:"fields"`
}

// fakeAirtable は行の作成・更新・削除とページングを再現するフェイクの Airtable
type fakeAirtable struct {
	mu      sync.Mutex
	seq     int
	tables  map[string][]*airtableRecord
	failing map[string]int // "METHOD table" → 返すステータス
	server  *httptest.Server
}

func newFakeAirtable(t *testing.T) *fakeAirtable {
	t.Helper()
	f := &fakeAirtable{
		tables:  map[string][]*airtableRecord{eventsTable: nil, bookingsTable: nil},
		failing: map[string]int{},
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

// failOn は指定したメソッドとテーブルへのリクエストを失敗させる
func (f *fakeAirtable) failOn(method, table string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing[method+" "+table] = status
}

// restore は failOn で設定した失敗を解除する
func (f *fakeAirtable) restore(method, table string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failing, method+" "+table)
}

func (f *fakeAirtable) count(table string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tables[table])
}

func (f *fakeAirtable) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.Header.Get("Authorization") != "Bearer patE2E" {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"error": map[string]string{"type": "AUTHENTICATION_REQUIRED"}})
		return
	}

	// /v0/{base}/{table}[/{record}]
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/v0/"+baseID+"/"), "/")
	table := parts[0]
	if _, ok := f.tables[table]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		return
	}
	if status, ok := f.failing[r.Method+" "+table]; ok {
		writeJSON(w, status, map[string]interface{}{"error": map[string]string{"type": "SERVER_ERROR", "message": "simulated failure"}})
		return
	}

	switch {
	case r.Method == http.MethodGet && len(parts) == 1:
		f.list(w, r, table)
	case r.Method == http.MethodPost && len(parts) == 1:
		f.create(w, r, table)
	case r.Method == http.MethodPatch && len(parts) == 2:
		f.update(w, r, table, parts[1])
	case r.Method == http.MethodDelete && len(parts) == 2:
		f.remove(w, table, parts[1])
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "METHOD_NOT_ALLOWED"})
	}
}

func (f *fakeAirtable) list(w http.ResponseWriter, r *http.Request, table string) {
	rows := f.tables[table]
	start := 0
	if off := r.URL.Query().Get("offset"); off != "" {
		fmt.Sscanf(off, "itr%d", &start)
	}
	end := start + pageSize
	if end > len(rows) {
		end = len(rows)
	}
	resp := map[string]interface{}{"records": rows[start:end]}
	if end < len(rows) {
		resp["offset"] = fmt.Sprintf("itr%d", end)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (f *fakeAirtable) create(w http.ResponseWriter, r *http.Request, table string) {
	var body struct {
		Fields map[string]interface{} `json:"fields"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "INVALID_REQUEST_BODY"})
		return
	}
	f.seq++
	rec := &airtableRecord{
		ID:          fmt.Sprintf("rec%05d", f.seq),
		CreatedTime: today.Add(time.Duration(f.seq) * time.Minute).Format(time.RFC3339),
		Fields:      body.Fields,
	}
	if table == bookingsTable {
		rec.Fields["Booking Date"] = rec.CreatedTime
	}
	f.tables[table] = append(f.tables[table], rec)
	writeJSON(w, http.StatusOK, rec)
}

func (f *fakeAirtable) update(w http.ResponseWriter, r *http.Request, table, id string) {
	var body struct {
		Fields map[string]interface{} `json:"fields"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	for _, rec := range f.tables[table] {
		if rec.ID == id {
			for k, v := range body.Fields {
				rec.Fields[k] = v
			}
			writeJSON(w, http.StatusOK, rec)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]interface{}{"error": map[string]string{"type": "MODEL_ID_NOT_FOUND", "message": "Could not find record " + id}})
}

func (f *fakeAirtable) remove(w http.ResponseWriter, table, id string) {
	rows := f.tables[table]
	for i, rec := range rows {
		if rec.ID == id {
			f.tables[table] = append(rows[:i], rows[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]interface{}{"id": id, "deleted": true})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
}

// seedEvent はイベント行を直接置く（Airtable の画面で入力した行に相当）
func (f *fakeAirtable) seedEvent(fields map[string]interface{}) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	id := fmt.Sprintf("rec%05d", f.seq)
	f.tables[eventsTable] = append(f.tables[eventsTable], &airtableRecord{ID: id, Fields: fields})
	return id
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// TestServer はE2Eテスト用のサーバー
type TestServer struct {
	Echo     *echo.Echo
	Airtable *fakeAirtable
	Workflow *application.WorkflowService
}

// newTestServer は本番と同じ構成でサーバーを組み立てる（リモートストアのみフェイク）
func newTestServer(t *testing.T) *TestServer {
	t.Helper()
	fake := newFakeAirtable(t)
	clk := clock.NewFixed(today)
	m := metrics.NewWithRegistry(prometheus.NewRegistry())

	cfg := &config.AirtableConfig{
		APIRoot:         fake.server.URL + "/v0",
		Token:           "patE2E",
		BaseID:          baseID,
		EventsTableID:   eventsTable,
		BookingsTableID: bookingsTable,
		Timeout:         5 * time.Second,
	}
	client := airtable.NewClient(cfg, airtable.WithMetrics(m), airtable.WithClock(clk))
	eventStore := airtable.NewEventStore(client, eventsTable)
	bookingStore := airtable.NewBookingStore(client, bookingsTable)

	state := application.NewCalendarState()
	wf := application.NewWorkflowService(
		application.NewAggregator(eventStore, bookingStore),
		eventStore, bookingStore, state,
		application.WorkflowOptions{
			Locker:      memory.NewLocker(clk),
			Idempotency: memory.NewIdempotencyStore(clk),
			Metrics:     m,
			Clock:       clk,
		},
	)

	e := echo.New()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	e.Validator = api.NewValidator()
	middleware.SetupMiddleware(e)
	e.Use(middleware.PrometheusMiddleware(m))
	handler.RegisterRoutes(e.Group("/api/v1"), handler.Handlers{
		Health:   handler.NewHealthHandler(state.LoadedAt, clk),
		Calendar: handler.NewCalendarHandler(wf, clk),
		Event:    handler.NewEventHandler(wf, wf),
		Booking:  handler.NewBookingHandler(wf),
	})

	return &TestServer{Echo: e, Airtable: fake, Workflow: wf}
}

// Request はAPIにリクエストを送り、レスポンスを返す
func (s *TestServer) Request(t *testing.T, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

// decode はレスポンスボディをJSONとして読み込む
func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
