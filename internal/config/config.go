// Package config loads service configuration from environment variables,
// falling back to defaults on missing or unparsable values.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ServiceConfig holds process-level settings.
type ServiceConfig struct {
	Principal   string
	HTTPPort    string
	MetricsPort string
}

// SpeechConfig holds recognition provider settings.
type SpeechConfig struct {
	Provider        string // mock, google
	Region          string
	SubscriptionKey string
	TokenEndpoint   string // override for the credential-exchange URL
	LanguageCode    string
	SampleRateHz    int
	InterimResults  bool
}

// EngineConfig holds the transcript engine timings.
type EngineConfig struct {
	SilenceThreshold time.Duration
	PollInterval     time.Duration
	IndicatorHold    time.Duration
	LatencyMin       time.Duration
	LatencyMax       time.Duration
}

// TokenConfig holds the local token endpoint consumed at session start.
// An empty URL skips the fetch (mock/dev mode).
type TokenConfig struct {
	URL string
}

// KafkaConfig holds event publisher settings.
type KafkaConfig struct {
	Enabled        bool
	Brokers        []string
	TopicLive      string
	TopicCommitted string
	Principal      string
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string
}

// Configuration is the root config for the service.
type Configuration struct {
	Service       ServiceConfig
	Speech        SpeechConfig
	Engine        EngineConfig
	Token         TokenConfig
	Kafka         KafkaConfig
	Observability ObservabilityConfig
}

// Load reads configuration from the environment.
func Load() *Configuration {
	principal := envOrDefault("SERVICE_PRINCIPAL", "svc-meet-translator")

	return &Configuration{
		Service: ServiceConfig{
			Principal:   principal,
			HTTPPort:    envOrDefault("HTTP_PORT", "8080"),
			MetricsPort: envOrDefault("METRICS_PORT", "9090"),
		},
		Speech: SpeechConfig{
			Provider:        envOrDefault("SPEECH_PROVIDER", "mock"),
			Region:          envOrDefault("SPEECH_REGION", "eastus"),
			SubscriptionKey: envOrDefault("SPEECH_KEY", ""),
			TokenEndpoint:   envOrDefault("SPEECH_TOKEN_ENDPOINT", ""),
			LanguageCode:    envOrDefault("SPEECH_LANGUAGE_CODE", "en-US"),
			SampleRateHz:    envOrDefaultInt("SPEECH_SAMPLE_RATE_HZ", 16000),
			InterimResults:  envOrDefaultBool("SPEECH_INTERIM_RESULTS", true),
		},
		Engine: EngineConfig{
			SilenceThreshold: envOrDefaultDuration("SILENCE_THRESHOLD", 700*time.Millisecond),
			PollInterval:     envOrDefaultDuration("SILENCE_POLL_INTERVAL", 100*time.Millisecond),
			IndicatorHold:    envOrDefaultDuration("SILENCE_INDICATOR_HOLD", 1500*time.Millisecond),
			LatencyMin:       envOrDefaultDuration("LATENCY_SAMPLE_MIN", 50*time.Millisecond),
			LatencyMax:       envOrDefaultDuration("LATENCY_SAMPLE_MAX", 2000*time.Millisecond),
		},
		Token: TokenConfig{
			URL: envOrDefault("TOKEN_URL", ""),
		},
		Kafka: KafkaConfig{
			Enabled:        envOrDefaultBool("KAFKA_ENABLED", false),
			Brokers:        envOrDefaultSlice("KAFKA_BROKERS", nil),
			TopicLive:      envOrDefault("KAFKA_TOPIC_LIVE", "translator.transcript.live"),
			TopicCommitted: envOrDefault("KAFKA_TOPIC_COMMITTED", "translator.transcript.committed"),
			Principal:      envOrDefault("KAFKA_PRINCIPAL", principal),
		},
		Observability: ObservabilityConfig{
			LogLevel:  envOrDefault("LOG_LEVEL", "info"),
			LogFormat: envOrDefault("LOG_FORMAT", "json"),
		},
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(strings.ToLower(v)); err == nil {
			return b
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func envOrDefaultSlice(key string, def []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return def
}
