package infra

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"signal_go/internal/domain"
)

func TestForwarder_Forward(t *testing.T) {
	var got domain.Signal
	var forwardedBy, contentType string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		forwardedBy = r.Header.Get(ForwardedByHeader)
		contentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode forwarded body: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	sig := domain.Normalize(domain.Payload{"ticker": "ETHUSDT", "action": "sell"}, time.Now())
	if err := NewForwarder().Forward(context.Background(), server.URL, sig); err != nil {
		t.Fatalf("Forward failed: %v", err)
	}

	if forwardedBy != ForwarderName {
		t.Errorf("Expected %s header %q, got %q", ForwardedByHeader, ForwarderName, forwardedBy)
	}
	if contentType != "application/json" {
		t.Errorf("Expected JSON content type, got %q", contentType)
	}
	if got.Symbol != "ETHUSDT" || got.Action != "sell" || got.Source != domain.SourceTradingView {
		t.Errorf("Unexpected forwarded signal: %+v", got)
	}
}

func TestForwarder_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	err := NewForwarder().Forward(context.Background(), server.URL, domain.Signal{})
	var ne *domain.NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("Expected NetworkError, got %v", err)
	}
	if ne.StatusCode != http.StatusBadGateway {
		t.Errorf("Expected status 502, got %d", ne.StatusCode)
	}
}

func TestForwarder_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := NewForwarder().Forward(ctx, server.URL, domain.Signal{})
	if err == nil {
		t.Fatal("Expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Forward blocked for %v, expected bounded timeout", elapsed)
	}
}
