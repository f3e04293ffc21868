// Package engine implements the transcript state engine: it consumes a
// stream of interim/final recognition events plus a silence poll and
// produces an ordered, append-only transcript and a single live line.
package engine

import (
	"errors"
	"fmt"
)

// Status represents the lifecycle state of a translation session.
type Status int

const (
	// StatusIdle - No session running.
	StatusIdle Status = iota
	// StatusListening - Session started, waiting for the first recognition event.
	StatusListening
	// StatusTranslating - Recognition events are flowing.
	StatusTranslating
	// StatusError - Unrecoverable failure. Terminal until an explicit stop.
	StatusError
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "IDLE"
	case StatusListening:
		return "LISTENING"
	case StatusTranslating:
		return "TRANSLATING"
	case StatusError:
		return "ERROR"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", s)
	}
}

// MarshalJSON renders the status as its string form for API snapshots.
func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Active returns true if recognition events may be consumed in this status.
func (s Status) Active() bool {
	return s == StatusListening || s == StatusTranslating
}

// CanStart returns true if a new session may begin from this status.
// IDLE and ERROR are the only valid start states.
func (s Status) CanStart() bool {
	return s == StatusIdle || s == StatusError
}

// Errors for rejected engine operations.
var (
	ErrNotActive      = errors.New("session is not active")
	ErrAlreadyActive  = errors.New("session is already active")
	ErrEmptyFinal     = errors.New("final text is empty")
	ErrDuplicateFinal = errors.New("duplicate of last committed text")
)
