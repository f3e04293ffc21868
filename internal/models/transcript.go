// Package models defines the data structures for transcript state and events.
package models

// TranscriptEntry is one committed line of the transcript.
// Entries are append-only and ordered by commit time; Text never changes
// after creation.
type TranscriptEntry struct {
	ID        uint64 `json:"id"`
	Timestamp string `json:"timestamp"`
	Text      string `json:"text"`
}

// LiveUpdate represents the current uncommitted line, published on every
// recognition event.
type LiveUpdate struct {
	EventType string `json:"eventType"`
	SessionID string `json:"sessionId"`
	Status    string `json:"status"`
	Text      string `json:"text"`
	LatencyMs int64  `json:"latencyMs,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// CommittedEntry represents a line promoted to the transcript, either by a
// final recognition result or by the silence-commit heuristic.
type CommittedEntry struct {
	EventType   string `json:"eventType"`
	SessionID   string `json:"sessionId"`
	EntryID     uint64 `json:"entryId"`
	Text        string `json:"text"`
	DisplayTime string `json:"displayTime"`
	Silence     bool   `json:"silence"`
	Timestamp   int64  `json:"timestamp"`
}
