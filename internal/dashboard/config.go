// Package dashboard implements the polling attendance display client: fetch
// the current attendee list on a fixed interval, render it, and retry a
// bounded number of times on failure.
package dashboard

import (
	"errors"
	"strings"
	"time"

	"onedrop/internal/config"
)

// ErrNotConfigured means the endpoint URL still carries the placeholder.
var ErrNotConfigured = errors.New("dashboard: endpoint URL not configured")

// Config controls one poller instance.
type Config struct {
	EndpointURL  string
	Timeout      time.Duration // per-fetch budget
	PollInterval time.Duration
	MaxRetries   int
	RetryDelay   time.Duration
}

// FromApp builds a dashboard config from the application config.
func FromApp(app config.App) Config {
	return Config{
		EndpointURL:  app.DashboardURL,
		Timeout:      app.DashboardTimeout,
		PollInterval: app.PollInterval,
		MaxRetries:   app.FetchMaxRetries,
		RetryDelay:   app.FetchRetryDelay,
	}
}

// Validate rejects an empty or placeholder endpoint before any polling
// starts.
func (c Config) Validate() error {
	if c.EndpointURL == "" || strings.Contains(c.EndpointURL, config.PlaceholderToken) {
		return ErrNotConfigured
	}
	return nil
}
