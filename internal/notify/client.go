// Package notify delivers the outbound calls performed by action nodes.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/pkg/api"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/pkg/log"
)

type (
	// Notifier delivers an action-node payload to an endpoint
	Notifier interface {
		Notify(ctx context.Context, endpoint string, body api.Data) error
	}

	// HTTPNotifier posts JSON payloads over HTTP
	HTTPNotifier struct {
		httpClient *http.Client
	}
)

var (
	ErrEndpointEmpty  = errors.New("notification endpoint empty")
	ErrEndpointStatus = errors.New("notification endpoint returned error status")
)

var _ Notifier = (*HTTPNotifier)(nil)

// NewHTTPNotifier creates a notifier with the given per-call timeout
func NewHTTPNotifier(timeout time.Duration) *HTTPNotifier {
	return &HTTPNotifier{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Notify posts the payload to the endpoint, treating any non-2xx response
// as a transient failure subject to the caller's retry policy
func (c *HTTPNotifier) Notify(
	ctx context.Context, endpoint string, body api.Data,
) error {
	if endpoint == "" {
		return ErrEndpointEmpty
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, endpoint, bytes.NewReader(payload),
	)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Codex-Orchestrator/1.0")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("Notification request failed",
			slog.String("endpoint", endpoint),
			slog.Duration("duration", time.Since(start)),
			log.Error(err))
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Error("Notification rejected",
			slog.String("endpoint", endpoint),
			slog.Int("status_code", resp.StatusCode))
		return fmt.Errorf("%w: HTTP %d", ErrEndpointStatus, resp.StatusCode)
	}
	return nil
}
