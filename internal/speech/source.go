// Package speech defines the interface for speech recognition event sources.
package speech

import (
	"context"
	"time"
)

// Callback receives recognition events from a provider.
// For a single session, events are delivered in emission order; consumers
// trust that order and do not re-sort by embedded timestamps.
type Callback interface {
	// OnInterim is called when a provisional, revisable result is received.
	OnInterim(text string, at time.Time)

	// OnFinal is called when a confirmed, non-revisable result is received.
	OnFinal(text string, at time.Time)

	// OnCancelled is called once when the provider terminates the stream
	// with a fatal error. No events follow it.
	OnCancelled(reason string, err error)
}

// EventSource defines the interface for recognition providers (mock,
// Google, etc.).
type EventSource interface {
	// Start begins an event stream, delivering results to cb until the
	// context is cancelled or Stop is called.
	Start(ctx context.Context, cb Callback) error

	// Stop ends the stream and releases resources. Idempotent.
	Stop() error
}

// AudioProvider is the narrow interface to the capture collaborator.
// Read blocks until the next audio frame is available, or returns an error
// (io.EOF when capture ends).
type AudioProvider interface {
	Read(ctx context.Context) ([]byte, error)
}
