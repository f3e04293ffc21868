// Package session coordinates one recognition session: it owns the event
// queue that serializes speech callbacks and silence poll ticks onto a
// single goroutine driving the transcript state engine.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/zaid-24/RealTime-Meet-Translator/internal/engine"
	"github.com/zaid-24/RealTime-Meet-Translator/internal/events"
	"github.com/zaid-24/RealTime-Meet-Translator/internal/models"
	"github.com/zaid-24/RealTime-Meet-Translator/internal/observability/metrics"
	"github.com/zaid-24/RealTime-Meet-Translator/internal/speech"
)

// Broadcaster fans live updates and committed entries out to connected UI
// clients.
type Broadcaster interface {
	BroadcastLive(models.LiveUpdate)
	BroadcastEntry(models.CommittedEntry)
}

// Config holds per-session timing parameters.
type Config struct {
	PollInterval time.Duration // silence poll cadence
	Engine       engine.Config
}

// DefaultConfig returns the standard session timings.
func DefaultConfig() Config {
	return Config{
		PollInterval: 100 * time.Millisecond,
		Engine:       engine.DefaultConfig(),
	}
}

type eventKind int

const (
	evInterim eventKind = iota
	evFinal
	evCancelled
)

type event struct {
	kind   eventKind
	text   string
	at     time.Time
	reason string
	err    error
}

// Session is one continuous recognition run, from start to stop. It
// implements speech.Callback (enqueueing) and engine.CommitSink
// (publishing commits).
type Session struct {
	id        string
	cfg       Config
	eng       *engine.Engine
	source    speech.EventSource
	publisher *events.Publisher
	bc        Broadcaster
	log       zerolog.Logger
	metrics   *metrics.Metrics

	events    chan event
	done      chan struct{}
	loopDone  chan struct{}
	closeOnce sync.Once
	stopOnce  sync.Once
	startedAt time.Time

	// mu guards engine access: the run loop mutates, Snapshot and
	// ClearTranscript read/mutate from other goroutines.
	mu sync.RWMutex

	// lastLive is only touched from the run loop (and Stop, which runs
	// after the loop has exited).
	lastLive engine.Snapshot
}

func newSession(
	id string,
	cfg Config,
	source speech.EventSource,
	transcript *engine.Transcript,
	publisher *events.Publisher,
	bc Broadcaster,
	log zerolog.Logger,
) *Session {
	s := &Session{
		id:        id,
		cfg:       cfg,
		source:    source,
		publisher: publisher,
		bc:        bc,
		log:       log,
		metrics:   metrics.DefaultMetrics,
		events:    make(chan event, 256),
		done:      make(chan struct{}),
		loopDone:  make(chan struct{}),
	}
	s.eng = engine.New(cfg.Engine, transcript, s, log)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// start moves the engine to LISTENING, subscribes to the source, and
// launches the run loop.
func (s *Session) start(ctx context.Context) error {
	s.mu.Lock()
	err := s.eng.Listen()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if err := s.source.Start(ctx, s); err != nil {
		s.mu.Lock()
		s.eng.Fail(fmt.Sprintf("speech source start: %v", err))
		s.mu.Unlock()
		return fmt.Errorf("speech source start: %w", err)
	}

	s.startedAt = time.Now()
	s.metrics.RecordSessionStart()
	go s.run()
	s.log.Info().Msg("Session started")
	return nil
}

// run is the session's single logical thread: it selects over the source
// event queue, the silence poll ticker, and the done channel. The ticker
// dies with the loop, so no poll tick can observe the engine after
// teardown.
func (s *Session) run() {
	defer close(s.loopDone)

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case ev := <-s.events:
			s.handle(ev)
		case <-ticker.C:
			s.mu.Lock()
			s.eng.CheckSilence(time.Now())
			snap := s.eng.Snapshot(time.Now())
			s.mu.Unlock()
			// Ticks broadcast only on change; this is what makes the
			// silence indicator's auto-clear visible to overlay clients
			// without a separate timer.
			if snap != s.lastLive {
				s.broadcastLive(snap)
			}
		}
	}
}

func (s *Session) handle(ev event) {
	s.mu.Lock()
	switch ev.kind {
	case evInterim:
		if err := s.eng.OnInterim(ev.text, ev.at); err != nil {
			s.log.Debug().Err(err).Msg("Interim ignored")
		}
	case evFinal:
		if _, err := s.eng.OnFinal(ev.text, ev.at); err != nil {
			s.log.Debug().Err(err).Str("text", ev.text).Msg("Final ignored")
		}
	case evCancelled:
		msg := ev.reason
		if ev.err != nil {
			msg = fmt.Sprintf("%s: %v", ev.reason, ev.err)
		}
		s.eng.Fail(msg)
		s.metrics.RecordSessionFailed(ev.reason)
		s.log.Error().Err(ev.err).Str("reason", ev.reason).Msg("Session cancelled by speech source")
	}
	snap := s.eng.Snapshot(time.Now())
	s.mu.Unlock()

	s.broadcastLive(snap)

	// Implicit stop on cancellation: resource cleanup before the error
	// status is surfaced. The ERROR status survives until an explicit stop.
	if ev.kind == evCancelled {
		s.closeOnce.Do(func() { close(s.done) })
		s.source.Stop()
	}
}

// Stop ends the session: the poll loop is stopped synchronously, the source
// unsubscribed, and the engine moved to IDLE. The partial live line is
// discarded, the committed transcript untouched. Safe to call repeatedly.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		s.closeOnce.Do(func() { close(s.done) })
		<-s.loopDone
		s.source.Stop()

		s.mu.Lock()
		s.eng.Stop()
		snap := s.eng.Snapshot(time.Now())
		s.mu.Unlock()

		s.metrics.RecordSessionEnd(time.Since(s.startedAt).Seconds())
		s.broadcastLive(snap)
		s.log.Info().Dur("duration", time.Since(s.startedAt)).Msg("Session stopped")
	})
}

// Status returns the engine status.
func (s *Session) Status() engine.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.eng.Status()
}

// Snapshot returns the live state as of now.
func (s *Session) Snapshot() engine.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.eng.Snapshot(time.Now())
}

// Reset clears the live line and dedup text.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eng.Reset()
}

// ClearTranscript empties the shared transcript log via the engine, so the
// dedup text is reset alongside it.
func (s *Session) ClearTranscript() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eng.ClearTranscript()
}

// --- speech.Callback implementation ---

// OnInterim enqueues an interim event. Non-blocking: if the queue is full
// the event is dropped; the next interim supersedes it anyway.
func (s *Session) OnInterim(text string, at time.Time) {
	s.enqueue(event{kind: evInterim, text: text, at: at})
}

// OnFinal enqueues a final event.
func (s *Session) OnFinal(text string, at time.Time) {
	s.enqueue(event{kind: evFinal, text: text, at: at})
}

// OnCancelled enqueues the terminal cancellation signal.
func (s *Session) OnCancelled(reason string, err error) {
	s.enqueue(event{kind: evCancelled, reason: reason, err: err})
}

func (s *Session) enqueue(ev event) {
	select {
	case s.events <- ev:
	case <-s.done:
	default:
		s.log.Warn().Int("kind", int(ev.kind)).Msg("Event queue full, dropping event")
	}
}

// --- engine.CommitSink implementation ---

// OnCommit is invoked by the engine on the run loop whenever a line is
// promoted to the transcript.
func (s *Session) OnCommit(entry models.TranscriptEntry, silence bool) {
	ev := models.CommittedEntry{
		EventType:   "translator.transcript.committed",
		SessionID:   s.id,
		EntryID:     entry.ID,
		Text:        entry.Text,
		DisplayTime: entry.Timestamp,
		Silence:     silence,
		Timestamp:   time.Now().UnixMilli(),
	}
	if s.bc != nil {
		s.bc.BroadcastEntry(ev)
	}
	if err := s.publisher.PublishCommitted(context.Background(), s.id, ev); err != nil {
		s.log.Error().Err(err).Uint64("entryId", entry.ID).Msg("Failed to publish committed entry")
	}
}

func (s *Session) broadcastLive(snap engine.Snapshot) {
	s.lastLive = snap
	ev := models.LiveUpdate{
		EventType: "translator.live.update",
		SessionID: s.id,
		Status:    snap.Status.String(),
		Text:      snap.InterimText,
		LatencyMs: snap.LatencyMs,
		Timestamp: time.Now().UnixMilli(),
	}
	if s.bc != nil {
		s.bc.BroadcastLive(ev)
	}
	if err := s.publisher.PublishLive(context.Background(), s.id, ev); err != nil {
		s.log.Error().Err(err).Msg("Failed to publish live update")
	}
}
