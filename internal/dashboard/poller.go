package dashboard

import (
	"context"
	"log"
	"time"
)

// Poller runs the fetch/render/retry cycle. It is strictly sequential: one
// goroutine, with the interval ticker, a pending retry timer, and the focus
// channel as the only wakeup sources. A retry belongs to the fetch cycle
// that failed; the counter resets on any success.
type Poller struct {
	cfg    Config
	client *Client
	render Renderer
	now    func() time.Time

	retries    int
	retryTimer *time.Timer
}

// NewPoller wires a poller.
func NewPoller(cfg Config, client *Client, render Renderer) *Poller {
	return &Poller{cfg: cfg, client: client, render: render, now: time.Now}
}

// Run validates the config, fetches once immediately, then polls until ctx
// is cancelled. focus may deliver external refresh requests (the original
// page refetched on window focus); pass nil to disable.
func (p *Poller) Run(ctx context.Context, focus <-chan struct{}) error {
	if err := p.cfg.Validate(); err != nil {
		p.render.RenderError(MsgNotConfigured)
		return err
	}

	p.fetch(ctx)

	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()
	defer p.stopRetry()

	for {
		var retryC <-chan time.Time
		if p.retryTimer != nil {
			retryC = p.retryTimer.C
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.fetch(ctx)
		case <-focus:
			p.fetch(ctx)
		case <-retryC:
			p.retryTimer = nil
			p.fetch(ctx)
		}
	}
}

// fetch performs one cycle: render the result, and on failure arm a single
// retry while attempts remain.
func (p *Poller) fetch(ctx context.Context) {
	snap, err := p.client.Fetch(ctx)
	if err != nil {
		log.Printf("fetch failed: %v", err)
		p.render.RenderError(Message(err))
		if p.retries < p.cfg.MaxRetries {
			p.retries++
			p.stopRetry()
			p.retryTimer = time.NewTimer(p.cfg.RetryDelay)
		}
		return
	}

	p.retries = 0
	p.stopRetry()
	p.render.RenderAttendees(p.now(), snap.Attendees)
}

func (p *Poller) stopRetry() {
	if p.retryTimer != nil {
		p.retryTimer.Stop()
		p.retryTimer = nil
	}
}
