package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Attendee is one entry of the read endpoint's attendee list.
type Attendee struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	EntryTime string `json:"entryTime"`
	Duration  string `json:"duration,omitempty"`
}

// Snapshot is a successful fetch result.
type Snapshot struct {
	Attendees []Attendee `json:"attendees"`
	Error     string     `json:"error,omitempty"`
}

// Client fetches the current attendance with a bounded per-request timeout.
type Client struct {
	url     string
	timeout time.Duration
	http    *http.Client
	now     func() time.Time
}

// NewClient creates a client for the read endpoint.
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:     url,
		timeout: timeout,
		http:    &http.Client{},
		now:     time.Now,
	}
}

// Fetch performs one request. The timeout cancels the in-flight request;
// failures come back classified. A body carrying an error field counts as a
// failure regardless of transport status.
func (c *Client) Fetch(ctx context.Context) (*Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	// Cache-busting token, same contract as the original endpoint.
	url := fmt.Sprintf("%s?action=attendance&_=%d", c.url, c.now().UnixMilli())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Kind: ErrUnknown, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return nil, &FetchError{Kind: ErrTimeout, Err: err}
		}
		return nil, &FetchError{Kind: ErrNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, &FetchError{
			Kind:   ErrServer,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status),
		}
	}

	var snap Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, &FetchError{Kind: ErrParse, Err: err}
	}
	if snap.Error != "" {
		return nil, &FetchError{Kind: ErrUnknown, Err: errors.New(snap.Error)}
	}
	return &snap, nil
}
