package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"onedrop/internal/notify"
	"onedrop/internal/queue"
	"onedrop/internal/roster"
	"onedrop/internal/sheet"
)

const sheetName = "生徒出席情報"

var now = time.Date(2025, 7, 14, 13, 0, 0, 0, time.Local)

type env struct {
	store   *sheet.MemoryStore
	logs    *notify.MemoryLog
	q       *queue.InMemory
	handler *Handler
	router  *gin.Engine
}

type noopMailer struct{}

func (noopMailer) Send(ctx context.Context, to, subject, body string) error { return nil }

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := sheet.NewMemoryStore()
	r := roster.NewMemoryRoster()
	r.AddStudent("25D005", "山田太郎")
	r.AddGuardian("山田太郎", roster.Guardian{
		GuardianName:        "山田花子",
		Email:               "guardian@example.com",
		NotificationSetting: "希望する",
	})
	logs := notify.NewMemoryLog()
	pipeline := notify.NewPipeline(r, logs, noopMailer{})
	q := queue.NewInMemory(8)

	h := NewHandler(sheetName, store, r, pipeline, q, 100*time.Millisecond)
	h.SetClock(func() time.Time { return now })

	router := gin.New()
	h.Register(router)
	return &env{store: store, logs: logs, q: q, handler: h, router: router}
}

func (e *env) post(t *testing.T, path string, body any) (*httptest.ResponseRecorder, actionResponse) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var resp actionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestAction_EnterAppendsAndNotifies(t *testing.T) {
	e := newEnv(t)

	w, resp := e.post(t, "/v1/attendance", gin.H{
		"action": "enter", "studentId": "25D005", "mood": "くもり", "sleep": "50％", "purpose": "話す",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "success", resp.Status)
	require.NotNil(t, resp.Row)
	require.Equal(t, 2, *resp.Row)

	rows, err := e.store.AllRows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.True(t, rows[0].Open())
	require.Equal(t, "山田太郎", rows[0].StudentName)
	require.Equal(t, "くもり", rows[0].Mood)

	require.Len(t, e.logs.Entries(), 1, "exactly one pipeline invocation")
	require.Equal(t, notify.StatusEntry, e.logs.Entries()[0].Status)
}

func TestAction_ExitClosesLatestOpenRow(t *testing.T) {
	e := newEnv(t)

	_, enterResp := e.post(t, "/v1/attendance", gin.H{"action": "enter", "studentId": "25D005"})
	require.Equal(t, "success", enterResp.Status)

	_, resp := e.post(t, "/v1/attendance", gin.H{"action": "exit", "studentId": "25D005"})
	require.Equal(t, "success", resp.Status)
	require.Equal(t, *enterResp.Row, *resp.Row)

	row, err := e.store.Row(context.Background(), *resp.Row)
	require.NoError(t, err)
	require.False(t, row.Open())

	// The closed row must no longer satisfy a second exit.
	_, resp = e.post(t, "/v1/attendance", gin.H{"action": "exit", "studentId": "25D005"})
	require.Equal(t, "not_found", resp.Status)
}

func TestAction_ExitPicksMostRecentOfSeveralOpenRows(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.store.Append(ctx, sheet.Row{StudentID: "25D005", EntryTime: now.Add(-3 * time.Hour)})
	require.NoError(t, err)
	n2, err := e.store.Append(ctx, sheet.Row{StudentID: "25D005", EntryTime: now.Add(-time.Hour)})
	require.NoError(t, err)

	_, resp := e.post(t, "/v1/attendance", gin.H{"action": "exit", "studentId": "25D005"})
	require.Equal(t, "success", resp.Status)
	require.Equal(t, n2, *resp.Row, "backward scan closes the most recently appended open row")
}

func TestAction_ExitWithoutOpenRowIsNotFound(t *testing.T) {
	e := newEnv(t)

	_, resp := e.post(t, "/v1/attendance", gin.H{"action": "exit", "studentId": "25D005"})
	require.Equal(t, "not_found", resp.Status)

	rows, err := e.store.AllRows(context.Background())
	require.NoError(t, err)
	require.Empty(t, rows, "no row is mutated")
	require.Empty(t, e.logs.Entries())
}

func TestAction_InvalidPayload(t *testing.T) {
	e := newEnv(t)

	_, resp := e.post(t, "/v1/attendance", gin.H{"action": "dance", "studentId": "25D005"})
	require.Equal(t, "error", resp.Status)

	_, resp = e.post(t, "/v1/attendance", gin.H{"action": "enter"})
	require.Equal(t, "error", resp.Status)

	rows, err := e.store.AllRows(context.Background())
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestAction_BusyWhenLockHeld(t *testing.T) {
	e := newEnv(t)

	require.True(t, e.handler.lock.TryLock(0))
	defer e.handler.lock.Unlock()

	_, resp := e.post(t, "/v1/attendance", gin.H{"action": "enter", "studentId": "25D005"})
	require.Equal(t, "error", resp.Status)
	require.Equal(t, "処理中です。しばらくお待ちください。", resp.Message)

	rows, err := e.store.AllRows(context.Background())
	require.NoError(t, err)
	require.Empty(t, rows, "busy responses mutate nothing")
}

func TestCurrent_ListsTodaysOpenSessions(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.store.Append(ctx, sheet.Row{
		StudentID: "25D005", StudentName: "山田太郎", EntryTime: now.Add(-90 * time.Minute),
	})
	require.NoError(t, err)
	// Closed session, excluded.
	n, err := e.store.Append(ctx, sheet.Row{
		StudentID: "25D007", StudentName: "佐藤次郎", EntryTime: now.Add(-2 * time.Hour),
	})
	require.NoError(t, err)
	require.NoError(t, e.store.SetExit(ctx, n, now.Add(-time.Hour)))
	// Yesterday's stale open session, excluded.
	_, err = e.store.Append(ctx, sheet.Row{
		StudentID: "25D008", StudentName: "鈴木三郎", EntryTime: now.AddDate(0, 0, -1),
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/attendance?action=attendance&_=123", nil)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Attendees []Attendee `json:"attendees"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Attendees, 1)
	require.Equal(t, "25D005", body.Attendees[0].ID)
	require.Equal(t, "1h 30m", body.Attendees[0].Duration)
}

func TestTrigger_QueuesEditOnRelevantColumns(t *testing.T) {
	e := newEnv(t)

	raw, _ := json.Marshal(gin.H{"sheet": sheetName, "kind": "edit", "row": 4, "column": 7})
	req := httptest.NewRequest(http.MethodPost, "/v1/triggers", bytes.NewReader(raw))
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusAccepted, w.Code)

	msgs, err := e.q.Consume(context.Background())
	require.NoError(t, err)
	select {
	case msg := <-msgs:
		require.Equal(t, "sheet-change", msg.Type)
	case <-time.After(time.Second):
		t.Fatal("expected a queued change event")
	}
}

func TestTrigger_FiltersUpstream(t *testing.T) {
	e := newEnv(t)

	cases := []gin.H{
		{"sheet": sheetName, "kind": "edit", "row": 1, "column": 7},  // header row
		{"sheet": sheetName, "kind": "edit", "row": 4, "column": 4},  // mood column
		{"sheet": "通知ログ", "kind": "edit", "row": 4, "column": 7}, // other sheet
	}
	for _, body := range cases {
		raw, _ := json.Marshal(body)
		req := httptest.NewRequest(http.MethodPost, "/v1/triggers", bytes.NewReader(raw))
		w := httptest.NewRecorder()
		e.router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Equal(t, false, resp["queued"])
	}

	raw, _ := json.Marshal(gin.H{"sheet": sheetName, "kind": "bogus"})
	req := httptest.NewRequest(http.MethodPost, "/v1/triggers", bytes.NewReader(raw))
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
