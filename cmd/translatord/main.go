package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zaid-24/RealTime-Meet-Translator/internal/app"
	"github.com/zaid-24/RealTime-Meet-Translator/internal/config"
	"github.com/zaid-24/RealTime-Meet-Translator/internal/engine"
	"github.com/zaid-24/RealTime-Meet-Translator/internal/events"
	httpapi "github.com/zaid-24/RealTime-Meet-Translator/internal/http"
	"github.com/zaid-24/RealTime-Meet-Translator/internal/observability"
	"github.com/zaid-24/RealTime-Meet-Translator/internal/observability/logging"
	"github.com/zaid-24/RealTime-Meet-Translator/internal/session"
	"github.com/zaid-24/RealTime-Meet-Translator/internal/speech"
	"github.com/zaid-24/RealTime-Meet-Translator/internal/speech/google"
	"github.com/zaid-24/RealTime-Meet-Translator/internal/speech/mock"
	"github.com/zaid-24/RealTime-Meet-Translator/internal/token"
	"github.com/zaid-24/RealTime-Meet-Translator/internal/ui"
)

func main() {
	cfg := config.Load()
	application := app.New(cfg)
	if err := application.Start(); err != nil {
		application.Logger.Fatal().Err(err).Msg("Startup failed")
	}
	log := application.Logger

	// Kafka publisher with separate topics for live updates and commits
	publisher := events.New(&events.Config{
		Enabled:        cfg.Kafka.Enabled,
		Brokers:        cfg.Kafka.Brokers,
		TopicLive:      cfg.Kafka.TopicLive,
		TopicCommitted: cfg.Kafka.TopicCommitted,
		Principal:      cfg.Kafka.Principal,
	})
	defer publisher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := ui.NewHub(logging.WithComponent("feed"))
	go hub.Run(ctx)

	transcript := engine.NewTranscript()

	var tokens *token.Client
	if cfg.Token.URL != "" {
		tokens = token.NewClient(cfg.Token.URL)
	}

	mgr := session.NewManager(
		session.Config{
			PollInterval: cfg.Engine.PollInterval,
			Engine: engine.Config{
				SilenceThreshold: cfg.Engine.SilenceThreshold,
				IndicatorHold:    cfg.Engine.IndicatorHold,
				LatencyMin:       cfg.Engine.LatencyMin,
				LatencyMax:       cfg.Engine.LatencyMax,
			},
		},
		transcript,
		sourceFactory(cfg),
		tokens,
		publisher,
		hub,
		logging.WithComponent("session"),
	)

	issuer := token.NewIssuer(
		cfg.Speech.Region,
		cfg.Speech.SubscriptionKey,
		cfg.Speech.TokenEndpoint,
		logging.WithComponent("token"),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Service.HTTPPort,
		Handler:      httpapi.NewRouter(mgr, issuer, hub),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 0, // the subtitle feed holds connections open
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Meet translator API started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP serve failed")
		}
	}()

	obs := observability.NewServer(":" + cfg.Service.MetricsPort)
	obs.Start()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info().Msg("Shutting down")
	mgr.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP shutdown error")
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Observability shutdown error")
	}
	application.Shutdown()
}

// sourceFactory builds the per-session speech event source for the
// configured provider.
func sourceFactory(cfg *config.Configuration) session.SourceFactory {
	switch cfg.Speech.Provider {
	case "google":
		return func(ctx context.Context, _ token.Response) (speech.EventSource, error) {
			// Capture collaborator pipes raw PCM on stdin.
			audio := speech.NewReaderProvider(os.Stdin, 3200)
			return google.New(ctx, google.Config{
				LanguageCode:   cfg.Speech.LanguageCode,
				SampleRateHz:   int32(cfg.Speech.SampleRateHz),
				InterimResults: cfg.Speech.InterimResults,
			}, audio)
		}
	case "mock":
		return func(ctx context.Context, _ token.Response) (speech.EventSource, error) {
			return mock.New(), nil
		}
	default:
		return func(ctx context.Context, _ token.Response) (speech.EventSource, error) {
			return nil, fmt.Errorf("unknown speech provider: %q", cfg.Speech.Provider)
		}
	}
}
