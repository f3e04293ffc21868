package engine

import (
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/zaid-24/RealTime-Meet-Translator/internal/models"
	"github.com/zaid-24/RealTime-Meet-Translator/internal/observability/metrics"
)

// Config holds the engine's timing parameters.
type Config struct {
	SilenceThreshold time.Duration // idle gap that promotes the live line
	IndicatorHold    time.Duration // how long the silence-committed flag stays up
	LatencyMin       time.Duration // inter-interim deltas below this are discarded
	LatencyMax       time.Duration // inter-interim deltas above this are discarded
}

// DefaultConfig returns the standard engine timings.
func DefaultConfig() Config {
	return Config{
		SilenceThreshold: 700 * time.Millisecond,
		IndicatorHold:    1500 * time.Millisecond,
		LatencyMin:       50 * time.Millisecond,
		LatencyMax:       2000 * time.Millisecond,
	}
}

// CommitSink receives entries as they are promoted to the transcript.
// silence is true when the entry came from the silence-commit path rather
// than a final recognition result.
type CommitSink interface {
	OnCommit(entry models.TranscriptEntry, silence bool)
}

// terminalMarks are the sentence-terminal punctuation marks recognized by
// the silence-commit path. Full-width/CJK equivalents are included so
// translated finals are not double-punctuated.
var terminalMarks = map[rune]bool{
	'.': true, '?': true, '!': true, '…': true,
	'。': true, '？': true, '！': true,
}

func endsWithTerminalMark(s string) bool {
	runes := []rune(s)
	if len(runes) == 0 {
		return false
	}
	return terminalMarks[runes[len(runes)-1]]
}

// Engine converts recognition events plus a silence poll into transcript
// state. It owns the live line; the committed log is the shared Transcript.
//
// Not safe for concurrent use: all mutation happens on the session
// goroutine, which serializes source callbacks and poll ticks. Snapshot is
// the only method intended to be called through external synchronization.
type Engine struct {
	cfg        Config
	log        zerolog.Logger
	metrics    *metrics.Metrics
	transcript *Transcript
	sink       CommitSink

	status         Status
	errMsg         string
	interim        string
	lastUpdate     time.Time
	lastInterim    time.Time
	lastCommitted  string
	latencyMs      int64
	indicatorUntil time.Time
}

// New creates an engine in IDLE status, writing commits into transcript.
// sink may be nil.
func New(cfg Config, transcript *Transcript, sink CommitSink, log zerolog.Logger) *Engine {
	return &Engine{
		cfg:        cfg,
		log:        log,
		metrics:    metrics.DefaultMetrics,
		transcript: transcript,
		sink:       sink,
		status:     StatusIdle,
	}
}

// Listen transitions IDLE|ERROR → LISTENING at session start.
func (e *Engine) Listen() error {
	if !e.status.CanStart() {
		return ErrAlreadyActive
	}
	e.status = StatusListening
	e.errMsg = ""
	e.interim = ""
	e.lastInterim = time.Time{}
	e.latencyMs = 0
	return nil
}

// OnInterim ingests a provisional recognition result. The live line is
// replaced, no transcript mutation happens.
func (e *Engine) OnInterim(text string, at time.Time) error {
	if !e.status.Active() {
		return ErrNotActive
	}

	// Latency sample from the inter-interim gap. Deltas outside
	// [LatencyMin, LatencyMax] cover startup gaps and duplicate-timestamp
	// events and are not representative, so they are discarded.
	if !e.lastInterim.IsZero() {
		delta := at.Sub(e.lastInterim)
		if delta >= e.cfg.LatencyMin && delta <= e.cfg.LatencyMax {
			e.latencyMs = delta.Milliseconds()
			e.metrics.RecordRecognitionLatency(float64(e.latencyMs))
		}
	}
	e.lastInterim = at

	e.status = StatusTranslating
	e.interim = text
	e.lastUpdate = at
	e.metrics.RecordInterim()
	return nil
}

// OnFinal commits a confirmed recognition result. Empty finals and
// consecutive duplicates (same trimmed text as the last committed entry)
// are suppressed; a qualifying final appends exactly one entry.
func (e *Engine) OnFinal(text string, at time.Time) (models.TranscriptEntry, error) {
	if !e.status.Active() {
		return models.TranscriptEntry{}, ErrNotActive
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return models.TranscriptEntry{}, ErrEmptyFinal
	}
	if trimmed == e.lastCommitted {
		e.metrics.RecordDuplicateSuppressed()
		e.log.Debug().Str("text", trimmed).Msg("Duplicate final suppressed")
		return models.TranscriptEntry{}, ErrDuplicateFinal
	}

	entry := e.transcript.Append(trimmed, at)
	e.lastCommitted = trimmed
	e.interim = ""
	e.lastUpdate = at
	e.metrics.RecordFinal()
	if e.sink != nil {
		e.sink.OnCommit(entry, false)
	}
	return entry, nil
}

// CheckSilence runs on the session's poll cadence. If the live line has not
// changed for SilenceThreshold it is promoted to a committed entry, with a
// trailing "." appended unless the text already ends in a sentence-terminal
// mark. Returns the committed entry and true when a commit happened.
func (e *Engine) CheckSilence(now time.Time) (models.TranscriptEntry, bool) {
	if !e.indicatorUntil.IsZero() && !now.Before(e.indicatorUntil) {
		e.indicatorUntil = time.Time{}
	}

	if !e.status.Active() {
		return models.TranscriptEntry{}, false
	}
	trimmed := strings.TrimSpace(e.interim)
	if trimmed == "" || trimmed == e.lastCommitted {
		return models.TranscriptEntry{}, false
	}
	if now.Sub(e.lastUpdate) < e.cfg.SilenceThreshold {
		return models.TranscriptEntry{}, false
	}

	if !endsWithTerminalMark(trimmed) {
		trimmed += "."
	}

	entry := e.transcript.Append(trimmed, now)
	e.lastCommitted = trimmed
	e.interim = ""
	// Refresh lastUpdate so the next poll tick cannot immediately re-trigger.
	e.lastUpdate = now
	e.indicatorUntil = now.Add(e.cfg.IndicatorHold)
	e.metrics.RecordSilenceCommit()
	e.log.Debug().Str("text", entry.Text).Msg("Silence commit")
	if e.sink != nil {
		e.sink.OnCommit(entry, true)
	}
	return entry, true
}

// Fail moves the engine to ERROR with a message. The in-flight live line is
// discarded, not committed.
func (e *Engine) Fail(msg string) {
	e.status = StatusError
	e.errMsg = msg
	e.interim = ""
}

// Reset clears the live line and the dedup text. The committed transcript
// is untouched.
func (e *Engine) Reset() {
	e.interim = ""
	e.lastCommitted = ""
}

// ClearTranscript empties the committed log and resets the dedup text.
// The live line and status are untouched.
func (e *Engine) ClearTranscript() {
	e.transcript.Clear()
	e.lastCommitted = ""
}

// Stop transitions to IDLE and discards the live line. Idempotent; ticker
// cancellation is the session's responsibility.
func (e *Engine) Stop() {
	e.status = StatusIdle
	e.interim = ""
}

// Snapshot is the read surface for the UI collaborator.
type Snapshot struct {
	Status           Status `json:"status"`
	Error            string `json:"error,omitempty"`
	InterimText      string `json:"interimText"`
	SilenceCommitted bool   `json:"silenceCommitted"`
	LatencyMs        int64  `json:"latencyMs"`
}

// Snapshot returns the current live state as of now.
func (e *Engine) Snapshot(now time.Time) Snapshot {
	return Snapshot{
		Status:           e.status,
		Error:            e.errMsg,
		InterimText:      e.interim,
		SilenceCommitted: !e.indicatorUntil.IsZero() && now.Before(e.indicatorUntil),
		LatencyMs:        e.latencyMs,
	}
}

// Status returns the current status.
func (e *Engine) Status() Status {
	return e.status
}
