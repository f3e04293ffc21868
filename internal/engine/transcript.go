package engine

import (
	"sync"
	"time"

	"github.com/zaid-24/RealTime-Meet-Translator/internal/models"
)

// displayTimeFormat is the wall-clock form shown next to each committed line.
const displayTimeFormat = "15:04:05"

// Transcript is the ordered, append-only log of committed lines.
// It outlives any single session: stopping a session leaves the log
// untouched, only Clear empties it.
// Thread-safe for concurrent access (session goroutine appends, UI reads).
type Transcript struct {
	mu      sync.RWMutex
	seq     uint64
	entries []models.TranscriptEntry
}

// NewTranscript creates an empty transcript log.
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append commits a new entry with a display timestamp derived from at.
// Entry IDs are monotonically increasing across the life of the log.
func (t *Transcript) Append(text string, at time.Time) models.TranscriptEntry {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.seq++
	entry := models.TranscriptEntry{
		ID:        t.seq,
		Timestamp: at.Format(displayTimeFormat),
		Text:      text,
	}
	t.entries = append(t.entries, entry)
	return entry
}

// Entries returns a copy of the committed entries in commit order.
func (t *Transcript) Entries() []models.TranscriptEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]models.TranscriptEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of committed entries.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Clear empties the log. The ID sequence keeps counting so entries stay
// distinguishable across clears.
func (t *Transcript) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = nil
}
