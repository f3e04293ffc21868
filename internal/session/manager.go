package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/zaid-24/RealTime-Meet-Translator/internal/engine"
	"github.com/zaid-24/RealTime-Meet-Translator/internal/events"
	"github.com/zaid-24/RealTime-Meet-Translator/internal/models"
	"github.com/zaid-24/RealTime-Meet-Translator/internal/observability/metrics"
	"github.com/zaid-24/RealTime-Meet-Translator/internal/speech"
	"github.com/zaid-24/RealTime-Meet-Translator/internal/token"
)

// ErrSessionActive is returned when Start is called while a session is
// already running.
var ErrSessionActive = errors.New("a session is already active")

// SourceFactory constructs a speech event source for a new session. tok is
// the credential fetched from the token proxy; providers that authenticate
// elsewhere may ignore it.
type SourceFactory func(ctx context.Context, tok token.Response) (speech.EventSource, error)

// Manager owns the single active session and the shared transcript log.
// Only one session may be active at a time; the log survives session
// boundaries until an explicit clear.
type Manager struct {
	cfg        Config
	transcript *engine.Transcript
	tokens     *token.Client // nil when no token endpoint is configured
	publisher  *events.Publisher
	bc         Broadcaster
	newSource  SourceFactory
	log        zerolog.Logger
	metrics    *metrics.Metrics

	seq uint64

	mu      sync.Mutex
	active  *Session
	lastErr string
}

// NewManager creates a session manager. tokens may be nil to skip the token
// fetch at session start (mock/dev mode); bc may be nil.
func NewManager(
	cfg Config,
	transcript *engine.Transcript,
	newSource SourceFactory,
	tokens *token.Client,
	publisher *events.Publisher,
	bc Broadcaster,
	log zerolog.Logger,
) *Manager {
	return &Manager{
		cfg:        cfg,
		transcript: transcript,
		tokens:     tokens,
		publisher:  publisher,
		bc:         bc,
		newSource:  newSource,
		log:        log,
		metrics:    metrics.DefaultMetrics,
	}
}

// Start begins a new session. Rejected with ErrSessionActive while one is
// running. All start-path failures (token fetch, source construction,
// subscription) are converted to an ERROR snapshot with a message; nothing
// is retried.
func (m *Manager) Start(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil {
		if m.active.Status().Active() {
			return "", ErrSessionActive
		}
		// Previous session is IDLE or ERROR; release it before starting.
		m.active.Stop()
		m.active = nil
	}
	m.lastErr = ""

	// Token fetch happens before the source is subscribed; failure here
	// prevents the start with no engine state created.
	var tok token.Response
	if m.tokens != nil {
		var err error
		tok, err = m.tokens.Fetch(ctx)
		if err != nil {
			return "", m.startFailed("token", err)
		}
	}

	source, err := m.newSource(ctx, tok)
	if err != nil {
		return "", m.startFailed("source", err)
	}

	id := fmt.Sprintf("sess-%d", atomic.AddUint64(&m.seq, 1))
	sess := newSession(id, m.cfg, source, m.transcript, m.publisher, m.bc, m.log.With().Str("sessionId", id).Logger())

	if err := sess.start(ctx); err != nil {
		source.Stop()
		return "", m.startFailed("subscribe", err)
	}

	m.active = sess
	return id, nil
}

func (m *Manager) startFailed(stage string, err error) error {
	m.lastErr = err.Error()
	m.metrics.RecordSessionFailed(stage)
	m.log.Error().Err(err).Str("stage", stage).Msg("Session start failed")
	return fmt.Errorf("session start: %w", err)
}

// Stop ends the active session, if any. Idempotent.
func (m *Manager) Stop() {
	m.mu.Lock()
	sess := m.active
	m.mu.Unlock()

	if sess != nil {
		sess.Stop()
	}
}

// ClearTranscript empties the transcript log. When a session exists the
// clear goes through its engine so the dedup text is reset too; the live
// line is never touched.
func (m *Manager) ClearTranscript() {
	m.mu.Lock()
	sess := m.active
	m.mu.Unlock()

	if sess != nil {
		sess.ClearTranscript()
		return
	}
	m.transcript.Clear()
}

// Snapshot returns the live state for the UI: the active session's
// snapshot, or an IDLE/ERROR snapshot when no session exists.
func (m *Manager) Snapshot() engine.Snapshot {
	m.mu.Lock()
	sess := m.active
	lastErr := m.lastErr
	m.mu.Unlock()

	if sess != nil {
		return sess.Snapshot()
	}
	if lastErr != "" {
		return engine.Snapshot{Status: engine.StatusError, Error: lastErr}
	}
	return engine.Snapshot{Status: engine.StatusIdle}
}

// Entries returns the committed transcript in commit order.
func (m *Manager) Entries() []models.TranscriptEntry {
	return m.transcript.Entries()
}
