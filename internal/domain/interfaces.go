package domain

import (
	"context"
)

// SignalRepository is the append-only signal store
type SignalRepository interface {
	InsertSignal(ctx context.Context, rec *SignalRecord) error
	LatestSignals(ctx context.Context, limit int) ([]SignalRecord, error)
}

// SignalForwarder relays a normalized signal to a downstream service.
// Errors are reported to the caller but must never fail ingestion.
type SignalForwarder interface {
	Forward(ctx context.Context, url string, sig Signal) error
}

// SignalBroadcaster fans accepted signals out to live subscribers
type SignalBroadcaster interface {
	Broadcast(sig Signal)
}
