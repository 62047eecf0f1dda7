package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"signal_go/internal/domain"
)

// Forwarder posts normalized signals to a downstream service.
// One attempt per signal, no retries.
type Forwarder struct {
	httpClient *http.Client
	name       string
}

// NewForwarder creates a forwarder. Requests are bounded by the caller's context
// so a reloaded forward timeout applies to the next delivery.
func NewForwarder() *Forwarder {
	// Optimize HTTP Transport to prevent connection leaks
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConns = 20
	transport.MaxConnsPerHost = 10
	transport.IdleConnTimeout = 30 * time.Second

	return &Forwarder{
		httpClient: &http.Client{Transport: transport},
		name:       ForwarderName,
	}
}

// Forward sends sig as a JSON body to url
func (f *Forwarder) Forward(ctx context.Context, url string, sig domain.Signal) error {
	body, err := json.Marshal(sig)
	if err != nil {
		return fmt.Errorf("encode signal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return domain.NewNetworkError("forward", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(ForwardedByHeader, f.name)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return domain.NewNetworkError("forward", err)
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.NewStatusError("forward", resp.StatusCode)
	}

	return nil
}
