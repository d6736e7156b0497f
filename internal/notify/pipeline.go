package notify

import (
	"context"
	"log"
	"strings"
	"time"

	"onedrop/internal/reconcile"
	"onedrop/internal/roster"
)

// Notification describes one event to notify a guardian about.
type Notification struct {
	StudentID   string
	StudentName string
	Status      string // StatusEntry or StatusExit
	Timestamp   time.Time
	Row         int // source sheet row, 0 when unknown
	Source      reconcile.TriggerSource
}

// Pipeline resolves the guardian, checks opt-in, dedups against the log,
// sends the mail, and records the outcome. Every step short-circuits
// silently: aborts are logged, never surfaced to the caller, and never block
// the triggering request.
type Pipeline struct {
	roster roster.Roster
	logs   LogRepo
	mailer Mailer
	now    func() time.Time
}

// NewPipeline wires a pipeline.
func NewPipeline(r roster.Roster, logs LogRepo, mailer Mailer) *Pipeline {
	return &Pipeline{roster: r, logs: logs, mailer: mailer, now: time.Now}
}

// SetClock overrides the time source, for tests.
func (p *Pipeline) SetClock(now func() time.Time) { p.now = now }

// Send runs the pipeline for one event. An invocation that passes the dedup
// check produces exactly one log row, whether or not the mail goes out.
func (p *Pipeline) Send(ctx context.Context, n Notification) {
	guardian, err := p.roster.GuardianByName(ctx, n.StudentName)
	if err != nil {
		log.Printf("guardian lookup failed for %s: %v", n.StudentName, err)
		return
	}
	if guardian == nil {
		log.Printf("no guardian on roster for student %s", n.StudentName)
		suppressed.WithLabelValues("no_guardian").Inc()
		return
	}

	if !Enabled(guardian.NotificationSetting) {
		log.Printf("notifications disabled for %s (setting %q)", n.StudentName, guardian.NotificationSetting)
		suppressed.WithLabelValues("opted_out").Inc()
		return
	}

	key := reconcile.UniqueKey(n.StudentID, n.Status, n.Row, n.Timestamp, n.Source)
	dup, err := p.logs.Contains(ctx, key)
	if err != nil {
		log.Printf("dedup check failed for key %s: %v", key, err)
		return
	}
	if dup {
		log.Printf("duplicate notification suppressed: %s", key)
		suppressed.WithLabelValues("duplicate").Inc()
		return
	}

	ok := p.deliver(ctx, guardian, n)

	result := ResultError
	if ok {
		result = ResultOK
		mailSent.Inc()
	} else {
		mailFailed.Inc()
	}
	entry := LogEntry{
		SentAt:      p.now(),
		StudentID:   n.StudentID,
		StudentName: n.StudentName,
		Email:       guardian.Email,
		Status:      n.Status,
		Result:      result,
		UniqueKey:   key,
	}
	if err := p.logs.Append(ctx, entry); err != nil {
		log.Printf("notification log append failed: %v", err)
	}
}

// deliver validates the address and sends the mail. A malformed address is a
// send failure, not an abort: the attempt still gets its log row.
func (p *Pipeline) deliver(ctx context.Context, g *roster.Guardian, n Notification) bool {
	if g.Email == "" || !strings.Contains(g.Email, "@") {
		log.Printf("invalid guardian email %q for %s", g.Email, n.StudentName)
		return false
	}

	subject := "【Onedrop】" + n.StudentName + "さんの" + n.Status + "通知"
	body := g.GuardianName + " 様へ\n\n" +
		formatTimestamp(n.Timestamp) + "\n\n" +
		n.StudentName + " さんが " + n.Status + " しました。"

	if err := p.mailer.Send(ctx, g.Email, subject, body); err != nil {
		log.Printf("mail send failed to %s: %v", g.Email, err)
		return false
	}
	return true
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006/01/02 15:04:05")
}
