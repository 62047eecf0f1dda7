package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"signal_go/internal/domain"
	"signal_go/internal/infra"
)

// Ingestion is one accepted delivery ready for its side effects
type Ingestion struct {
	EventID        string
	Signal         domain.Signal
	Raw            json.RawMessage // nil unless raw storage is enabled
	ForwardURL     string          // empty disables forwarding
	ForwardTimeout time.Duration
}

// SignalService runs the best-effort side effects of ingestion:
// persist, then forward, then broadcast. None of them can fail the delivery.
type SignalService struct {
	repo        domain.SignalRepository
	forwarder   domain.SignalForwarder
	broadcaster domain.SignalBroadcaster
	metrics     *infra.Metrics
}

// NewSignalService creates a service; broadcaster may be nil
func NewSignalService(repo domain.SignalRepository, forwarder domain.SignalForwarder, broadcaster domain.SignalBroadcaster, metrics *infra.Metrics) *SignalService {
	return &SignalService{
		repo:        repo,
		forwarder:   forwarder,
		broadcaster: broadcaster,
		metrics:     metrics,
	}
}

// Ingest persists and forwards one signal.
// Errors are logged and intentionally not returned.
func (s *SignalService) Ingest(ctx context.Context, in Ingestion) {
	start := time.Now()
	defer func() {
		s.metrics.IngestDuration.Observe(time.Since(start).Seconds())
	}()

	s.persist(ctx, in)
	s.forward(ctx, in)

	if s.broadcaster != nil {
		s.broadcaster.Broadcast(in.Signal)
	}
}

func (s *SignalService) persist(ctx context.Context, in Ingestion) {
	rec := domain.NewSignalRecord(in.EventID, in.Signal, in.Raw)
	if err := s.repo.InsertSignal(ctx, rec); err != nil {
		s.metrics.PersistErrors.Inc()
		slog.ErrorContext(ctx, "Signal insert failed",
			slog.String("event_id", in.EventID),
			slog.Any("error", err),
		)
	}
}

func (s *SignalService) forward(ctx context.Context, in Ingestion) {
	if in.ForwardURL == "" || s.forwarder == nil {
		return
	}

	if in.ForwardTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, in.ForwardTimeout)
		defer cancel()
	}

	if err := s.forwarder.Forward(ctx, in.ForwardURL, in.Signal); err != nil {
		s.metrics.Forwarded.WithLabelValues("error").Inc()
		slog.WarnContext(ctx, "Forward to downstream failed",
			slog.String("event_id", in.EventID),
			slog.Any("error", err),
		)
		return
	}
	s.metrics.Forwarded.WithLabelValues("ok").Inc()
}

// Latest returns the newest persisted signals
func (s *SignalService) Latest(ctx context.Context, limit int) ([]domain.SignalRecord, error) {
	return s.repo.LatestSignals(ctx, limit)
}
