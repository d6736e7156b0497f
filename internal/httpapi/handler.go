// Package httpapi exposes the attendance HTTP surface: the synchronous
// enter/exit action endpoint, the dashboard read endpoint, and the webhook
// that feeds sheet-change events to the watcher.
package httpapi

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"onedrop/internal/notify"
	"onedrop/internal/queue"
	"onedrop/internal/reconcile"
	"onedrop/internal/roster"
	"onedrop/internal/sheet"
	"onedrop/internal/trigger"
)

// Handler serves the attendance endpoints.
type Handler struct {
	sheetName string
	store     sheet.Store
	roster    roster.Roster
	pipeline  *notify.Pipeline
	q         queue.Queue
	lock      *Lock
	lockWait  time.Duration
	now       func() time.Time
}

// NewHandler wires a handler.
func NewHandler(sheetName string, store sheet.Store, r roster.Roster, pipeline *notify.Pipeline, q queue.Queue, lockWait time.Duration) *Handler {
	return &Handler{
		sheetName: sheetName,
		store:     store,
		roster:    r,
		pipeline:  pipeline,
		q:         q,
		lock:      NewLock(),
		lockWait:  lockWait,
		now:       time.Now,
	}
}

// SetClock overrides the time source, for tests.
func (h *Handler) SetClock(now func() time.Time) { h.now = now }

// Register attaches the routes.
func (h *Handler) Register(r gin.IRouter) {
	r.POST("/v1/attendance", h.Action)
	r.GET("/v1/attendance", h.Current)
	r.POST("/v1/triggers", h.Trigger)
}

// actionResponse is the JSON body of every action endpoint reply. Transport
// status is always 200; clients branch on the status field.
type actionResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Row     *int   `json:"row"`
}

// Action handles {action: enter|exit, studentId, mood?, sleep?, purpose?}.
func (h *Handler) Action(c *gin.Context) {
	resp := actionResponse{Status: "error", Message: "不明なエラー"}

	if !h.lock.TryLock(h.lockWait) {
		resp.Message = "処理中です。しばらくお待ちください。"
		c.JSON(http.StatusOK, resp)
		return
	}
	defer h.lock.Unlock()
	defer func() {
		if r := recover(); r != nil {
			resp.Message = fmt.Sprintf("エラー: %v", r)
			c.JSON(http.StatusOK, resp)
		}
	}()

	var body struct {
		Action    string `json:"action"`
		StudentID string `json:"studentId"`
		Mood      string `json:"mood"`
		Sleep     string `json:"sleep"`
		Purpose   string `json:"purpose"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.Message = "postDataが空です。"
		c.JSON(http.StatusOK, resp)
		return
	}

	action := strings.ToLower(body.Action)
	if body.StudentID == "" || (action != "enter" && action != "exit") {
		resp.Message = "action または studentId が不正です。"
		c.JSON(http.StatusOK, resp)
		return
	}

	ctx := c.Request.Context()
	now := h.now()

	studentName, err := h.roster.NameByID(ctx, body.StudentID)
	if err != nil {
		log.Printf("name lookup failed for %s: %v", body.StudentID, err)
		studentName = ""
	}

	switch action {
	case "enter":
		num, err := h.store.Append(ctx, sheet.Row{
			EntryTime:   now,
			StudentID:   body.StudentID,
			StudentName: studentName,
			Mood:        body.Mood,
			Sleep:       body.Sleep,
			Purpose:     body.Purpose,
		})
		if err != nil {
			resp.Message = "エラー: " + err.Error()
			c.JSON(http.StatusOK, resp)
			return
		}
		h.pipeline.Send(ctx, notify.Notification{
			StudentID:   body.StudentID,
			StudentName: studentName,
			Status:      notify.StatusEntry,
			Timestamp:   now,
			Row:         num,
			Source:      reconcile.SourceAPI,
		})
		resp.Status = "success"
		resp.Message = "入室記録を追加しました。"
		resp.Row = &num

	case "exit":
		rows, err := h.store.AllRows(ctx)
		if err != nil {
			resp.Message = "エラー: " + err.Error()
			c.JSON(http.StatusOK, resp)
			return
		}
		open, found := reconcile.FindOpenRow(rows, body.StudentID, false, now)
		if !found {
			resp.Status = "not_found"
			resp.Message = "未退出の入室記録が見つかりません。"
			c.JSON(http.StatusOK, resp)
			return
		}
		if err := h.store.SetExit(ctx, open.Num, now); err != nil {
			resp.Message = "エラー: " + err.Error()
			c.JSON(http.StatusOK, resp)
			return
		}
		h.pipeline.Send(ctx, notify.Notification{
			StudentID:   body.StudentID,
			StudentName: studentName,
			Status:      notify.StatusExit,
			Timestamp:   now,
			Row:         open.Num,
			Source:      reconcile.SourceAPI,
		})
		resp.Status = "success"
		resp.Message = "退出記録を更新しました。"
		resp.Row = &open.Num
	}

	c.JSON(http.StatusOK, resp)
}

// Attendee is one card on the dashboard.
type Attendee struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	EntryTime string `json:"entryTime"`
	Duration  string `json:"duration,omitempty"`
}

// Current returns today's open sessions for the polling dashboard. The
// query carries an action selector and a cache-busting token; both are
// accepted and ignored beyond the selector check.
func (h *Handler) Current(c *gin.Context) {
	if a := c.Query("action"); a != "" && a != "attendance" {
		c.JSON(http.StatusOK, gin.H{"error": "unknown action: " + a})
		return
	}

	rows, err := h.store.AllRows(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"error": err.Error()})
		return
	}

	now := h.now()
	attendees := make([]Attendee, 0)
	for _, r := range rows {
		if !r.Open() || r.EntryTime.IsZero() {
			continue
		}
		if !sameDate(r.EntryTime, now) {
			continue
		}
		mins := int(now.Sub(r.EntryTime).Minutes())
		if mins < 0 {
			mins = 0
		}
		attendees = append(attendees, Attendee{
			ID:        r.StudentID,
			Name:      r.StudentName,
			EntryTime: r.EntryTime.Format("15:04"),
			Duration:  fmt.Sprintf("%dh %dm", mins/60, mins%60),
		})
	}
	c.JSON(http.StatusOK, gin.H{"attendees": attendees})
}

// Trigger accepts sheet-change webhooks and queues them for the watcher.
// Header-row edits and edits outside the entry/student/exit columns are
// dropped here, before classification.
func (h *Handler) Trigger(c *gin.Context) {
	var body struct {
		Sheet  string `json:"sheet"`
		Kind   string `json:"kind"`
		Row    int    `json:"row"`
		Column int    `json:"column"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if body.Kind != trigger.KindEdit && body.Kind != trigger.KindChange {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be edit or change"})
		return
	}
	if body.Sheet != h.sheetName {
		c.JSON(http.StatusOK, gin.H{"queued": false})
		return
	}
	if body.Kind == trigger.KindEdit {
		if body.Row <= sheet.HeaderRow {
			c.JSON(http.StatusOK, gin.H{"queued": false})
			return
		}
		switch body.Column {
		case sheet.ColEntryTime, sheet.ColStudentID, sheet.ColExitTime:
		default:
			c.JSON(http.StatusOK, gin.H{"queued": false})
			return
		}
	}

	ev := trigger.ChangeEvent{
		ID:     uuid.NewString(),
		Sheet:  body.Sheet,
		Kind:   body.Kind,
		Row:    body.Row,
		Column: body.Column,
		At:     h.now(),
	}
	msg, err := trigger.EncodeMessage(ev)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := h.q.Publish(c.Request.Context(), msg); err != nil {
		log.Printf("queue publish failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "queue publish failed"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"queued": true, "id": ev.ID})
}

func sameDate(a, b time.Time) bool {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
