// Package mock provides a mock speech event source for demos and tests
// without cloud credentials. It simulates realistic recognition behavior
// with progressive interim results and either a final result or a
// trail-off, which leaves the last interim to the silence-commit heuristic.
package mock

import (
	"context"
	"sync"
	"time"

	"github.com/zaid-24/RealTime-Meet-Translator/internal/speech"
)

// SimulatedUtterance represents a mock utterance with progressive results.
type SimulatedUtterance struct {
	Interims []string // Progressive interim results
	Final    string   // Final result text; empty means the speaker trails off
}

// DefaultUtterances provides sample utterances for simulation.
var DefaultUtterances = []SimulatedUtterance{
	{
		Interims: []string{"Hola", "Hola a todos", "Hola a todos bienvenidos"},
		Final:    "Hola a todos, bienvenidos a la reunión.",
	},
	{
		Interims: []string{"Empecemos", "Empecemos con la agenda"},
		Final:    "Empecemos con la agenda de hoy.",
	},
	{
		// No final: the recognizer never confirms, the silence heuristic
		// has to promote the last interim.
		Interims: []string{"Alguna", "Alguna pregunta hasta aquí"},
	},
	{
		Interims: []string{"Gracias"},
		Final:    "Gracias por su tiempo.",
	},
}

// Source implements speech.EventSource with scripted utterances.
type Source struct {
	utterances []SimulatedUtterance
	interval   time.Duration // gap between emitted events
	pause      time.Duration // gap between utterances
	loop       bool

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a mock source cycling through the default utterances.
func New() *Source {
	return &Source{
		utterances: DefaultUtterances,
		interval:   200 * time.Millisecond,
		pause:      1200 * time.Millisecond,
		loop:       true,
	}
}

// NewScripted creates a mock source that plays the given utterances once
// with the given event interval. Used by tests.
func NewScripted(utterances []SimulatedUtterance, interval time.Duration) *Source {
	return &Source{
		utterances: utterances,
		interval:   interval,
		pause:      interval,
	}
}

// Start begins emitting scripted events to cb from a background goroutine.
func (s *Source) Start(ctx context.Context, cb speech.Callback) error {
	runCtx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.cancel = cancel
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	go func() {
		defer close(done)
		for {
			for _, utt := range s.utterances {
				for _, text := range utt.Interims {
					if !sleep(runCtx, s.interval) {
						return
					}
					cb.OnInterim(text, time.Now())
				}
				if utt.Final != "" {
					if !sleep(runCtx, s.interval) {
						return
					}
					cb.OnFinal(utt.Final, time.Now())
				}
				if !sleep(runCtx, s.pause) {
					return
				}
			}
			if !s.loop {
				return
			}
		}
	}()
	return nil
}

// Stop cancels emission and waits for the goroutine to exit. Idempotent.
func (s *Source) Stop() error {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
