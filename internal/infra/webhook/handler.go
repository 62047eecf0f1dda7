package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"signal_go/internal/domain"
	"signal_go/internal/infra"
	"signal_go/internal/service"

	"github.com/google/uuid"
)

const (
	defaultListSize = 10
	maxListSize     = 100
)

// Settings is the per-request view of the webhook configuration
type Settings struct {
	Secret         string
	StoreRaw       bool
	ForwardURL     string
	ForwardTimeout time.Duration
	BodyWait       time.Duration
	MaxBodyBytes   int64
}

// SettingsFromConfig extracts the webhook settings from a config snapshot
func SettingsFromConfig(cfg *infra.Config) Settings {
	return Settings{
		Secret:         cfg.Webhook.Secret,
		StoreRaw:       cfg.Webhook.StoreRaw,
		ForwardURL:     cfg.Webhook.ForwardURL,
		ForwardTimeout: cfg.ForwardTimeout(),
		BodyWait:       cfg.BodyWait(),
		MaxBodyBytes:   cfg.Webhook.MaxBodyBytes,
	}
}

// SignalService is what the handler needs from the ingestion layer
type SignalService interface {
	Ingest(ctx context.Context, in service.Ingestion)
	Latest(ctx context.Context, limit int) ([]domain.SignalRecord, error)
}

// Handler serves GET (list) and POST (ingest) on the webhook endpoint
type Handler struct {
	settings func() Settings
	svc      SignalService
	metrics  *infra.Metrics
	now      func() time.Time
}

// NewHandler creates a webhook handler. settings is called once per request.
func NewHandler(settings func() Settings, svc SignalService, metrics *infra.Metrics) *Handler {
	return &Handler{
		settings: settings,
		svc:      svc,
		metrics:  metrics,
		now:      time.Now,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.ingest(w, r)
	default:
		writeError(w, domain.ErrMethodNotAllowed)
	}
}

// GET /webhook?n= returns the newest signals first.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	n := parseListSize(r.URL.Query().Get("n"))

	records, err := h.svc.Latest(r.Context(), n)
	if err != nil {
		slog.ErrorContext(r.Context(), "Fetch latest signals failed", slog.Any("error", err))
		writeError(w, domain.ErrDB)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{OK: true, Count: len(records), Data: records})
}

// parseListSize clamps n to [1, 100]. Like parseInt it reads the leading
// integer ("50abc" is 50, "5.7" is 5); input without one means 10.
func parseListSize(s string) int {
	s = strings.TrimSpace(s)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return defaultListSize
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// Out of int range: only the sign matters for the clamp.
		if s[0] == '-' {
			return 1
		}
		return maxListSize
	}
	return min(max(n, 1), maxListSize)
}

// POST /webhook authenticates, normalizes, persists and forwards one signal.
func (h *Handler) ingest(w http.ResponseWriter, r *http.Request) {
	settings := h.settings()
	ctx := r.Context()

	if settings.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, settings.MaxBodyBytes)
	}

	raw, payload, err := h.readPayload(r, settings.BodyWait)
	if err != nil {
		h.metrics.SignalsReceived.WithLabelValues(domain.ErrInvalidJSON.Code).Inc()
		slog.WarnContext(ctx, "Webhook body parse error", slog.Any("error", err))
		writeError(w, domain.ErrInvalidJSON)
		return
	}

	method, ok := Authenticate(settings.Secret, raw, r.Header, payload)
	if !ok {
		h.metrics.SignalsReceived.WithLabelValues(domain.ErrInvalidSecret.Code).Inc()
		slog.WarnContext(ctx, "Webhook authentication failed", slog.String("remote", r.RemoteAddr))
		writeError(w, domain.ErrInvalidSecret)
		return
	}
	h.metrics.AuthMethod.WithLabelValues(string(method)).Inc()

	sig, err := h.process(context.WithoutCancel(ctx), settings, raw, payload)
	if err != nil {
		h.metrics.SignalsReceived.WithLabelValues(domain.ErrServer.Code).Inc()
		slog.ErrorContext(ctx, "Webhook handler error", slog.Any("error", err))
		writeError(w, domain.ErrServer)
		return
	}

	h.metrics.SignalsReceived.WithLabelValues("accepted").Inc()
	writeJSON(w, http.StatusOK, ackResponse{OK: true, Saved: true, Symbol: sig.Symbol, Action: sig.Action})
}

// readPayload captures the exact body bytes and decodes them.
// When no bytes are available it falls back to a body parsed upstream, re-serialized.
func (h *Handler) readPayload(r *http.Request, wait time.Duration) ([]byte, domain.Payload, error) {
	raw, err := captureBody(r.Body, r.ContentLength, wait)
	if err != nil {
		return nil, nil, fmt.Errorf("read body: %w", err)
	}

	if len(raw) > 0 {
		payload, err := decodePayload(raw)
		if err != nil {
			return nil, nil, err
		}
		return raw, payload, nil
	}

	parsed, ok := ParsedBody(r.Context())
	if !ok {
		return nil, domain.Payload{}, nil
	}

	// Re-encoding cannot reproduce the bytes a sender signed, so HMAC
	// verification on this path only succeeds for canonical encodings.
	rebuilt, err := json.Marshal(parsed)
	if err != nil {
		slog.WarnContext(r.Context(), "Re-serializing parsed body failed", slog.Any("error", err))
		rebuilt = nil
	} else {
		slog.WarnContext(r.Context(), "Raw body unavailable, verifying against re-serialized JSON")
	}
	return rebuilt, asPayload(parsed), nil
}

// process runs normalization and the best-effort side effects.
// A panic anywhere below surfaces as an error instead of killing the request.
func (h *Handler) process(ctx context.Context, settings Settings, raw []byte, payload domain.Payload) (sig domain.Signal, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()

	sig = domain.Normalize(payload, h.now())

	in := service.Ingestion{
		EventID:        uuid.NewString(),
		Signal:         sig,
		ForwardURL:     settings.ForwardURL,
		ForwardTimeout: settings.ForwardTimeout,
	}
	if settings.StoreRaw {
		in.Raw, err = rawJSON(raw, payload)
		if err != nil {
			return sig, err
		}
	}

	slog.InfoContext(ctx, "Signal received",
		slog.String("event_id", in.EventID),
		slog.Any("symbol", sig.Symbol),
		slog.Any("action", sig.Action),
	)

	h.svc.Ingest(ctx, in)
	return sig, nil
}

// rawJSON returns the stored form of the original payload
func rawJSON(raw []byte, payload domain.Payload) (json.RawMessage, error) {
	if len(raw) > 0 && json.Valid(raw) {
		return json.RawMessage(raw), nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode raw payload: %w", err)
	}
	return b, nil
}
