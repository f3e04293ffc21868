package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// Clear relevant env vars
	envVars := []string{
		"SERVICE_PRINCIPAL", "HTTP_PORT", "METRICS_PORT", "LOG_LEVEL",
		"SPEECH_PROVIDER", "SPEECH_REGION", "SPEECH_KEY",
		"SPEECH_LANGUAGE_CODE", "SPEECH_SAMPLE_RATE_HZ", "SPEECH_INTERIM_RESULTS",
		"SILENCE_THRESHOLD", "SILENCE_POLL_INTERVAL", "SILENCE_INDICATOR_HOLD",
		"LATENCY_SAMPLE_MIN", "LATENCY_SAMPLE_MAX",
		"TOKEN_URL", "KAFKA_ENABLED", "KAFKA_BROKERS", "KAFKA_PRINCIPAL",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}

	cfg := Load()

	// Service defaults
	if cfg.Service.Principal != "svc-meet-translator" {
		t.Errorf("expected default principal 'svc-meet-translator', got %s", cfg.Service.Principal)
	}
	if cfg.Service.HTTPPort != "8080" {
		t.Errorf("expected default HTTP port '8080', got %s", cfg.Service.HTTPPort)
	}
	if cfg.Service.MetricsPort != "9090" {
		t.Errorf("expected default metrics port '9090', got %s", cfg.Service.MetricsPort)
	}

	// Speech defaults
	if cfg.Speech.Provider != "mock" {
		t.Errorf("expected default speech provider 'mock', got %s", cfg.Speech.Provider)
	}
	if cfg.Speech.LanguageCode != "en-US" {
		t.Errorf("expected default language 'en-US', got %s", cfg.Speech.LanguageCode)
	}
	if cfg.Speech.SampleRateHz != 16000 {
		t.Errorf("expected default sample rate 16000, got %d", cfg.Speech.SampleRateHz)
	}
	if cfg.Speech.InterimResults != true {
		t.Errorf("expected default interim results true, got %v", cfg.Speech.InterimResults)
	}

	// Engine defaults
	if cfg.Engine.SilenceThreshold != 700*time.Millisecond {
		t.Errorf("expected default silence threshold 700ms, got %v", cfg.Engine.SilenceThreshold)
	}
	if cfg.Engine.PollInterval != 100*time.Millisecond {
		t.Errorf("expected default poll interval 100ms, got %v", cfg.Engine.PollInterval)
	}
	if cfg.Engine.IndicatorHold != 1500*time.Millisecond {
		t.Errorf("expected default indicator hold 1500ms, got %v", cfg.Engine.IndicatorHold)
	}
	if cfg.Engine.LatencyMin != 50*time.Millisecond {
		t.Errorf("expected default latency min 50ms, got %v", cfg.Engine.LatencyMin)
	}
	if cfg.Engine.LatencyMax != 2000*time.Millisecond {
		t.Errorf("expected default latency max 2s, got %v", cfg.Engine.LatencyMax)
	}

	// Token defaults
	if cfg.Token.URL != "" {
		t.Errorf("expected empty default token URL, got %s", cfg.Token.URL)
	}

	// Kafka defaults
	if cfg.Kafka.Enabled {
		t.Error("expected Kafka disabled by default")
	}

	// Observability defaults
	if cfg.Observability.LogLevel != "info" {
		t.Errorf("expected default log level 'info', got %s", cfg.Observability.LogLevel)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Setenv("SERVICE_PRINCIPAL", "custom-principal")
	os.Setenv("HTTP_PORT", "9999")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("SPEECH_PROVIDER", "google")
	os.Setenv("SPEECH_LANGUAGE_CODE", "es-ES")
	os.Setenv("SPEECH_SAMPLE_RATE_HZ", "8000")
	os.Setenv("SPEECH_INTERIM_RESULTS", "false")
	os.Setenv("SILENCE_THRESHOLD", "900ms")
	os.Setenv("SILENCE_POLL_INTERVAL", "50ms")
	os.Setenv("TOKEN_URL", "http://localhost:8080/token")
	os.Setenv("KAFKA_ENABLED", "true")
	os.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")

	defer func() {
		os.Unsetenv("SERVICE_PRINCIPAL")
		os.Unsetenv("HTTP_PORT")
		os.Unsetenv("LOG_LEVEL")
		os.Unsetenv("SPEECH_PROVIDER")
		os.Unsetenv("SPEECH_LANGUAGE_CODE")
		os.Unsetenv("SPEECH_SAMPLE_RATE_HZ")
		os.Unsetenv("SPEECH_INTERIM_RESULTS")
		os.Unsetenv("SILENCE_THRESHOLD")
		os.Unsetenv("SILENCE_POLL_INTERVAL")
		os.Unsetenv("TOKEN_URL")
		os.Unsetenv("KAFKA_ENABLED")
		os.Unsetenv("KAFKA_BROKERS")
	}()

	cfg := Load()

	if cfg.Service.Principal != "custom-principal" {
		t.Errorf("expected principal 'custom-principal', got %s", cfg.Service.Principal)
	}
	if cfg.Service.HTTPPort != "9999" {
		t.Errorf("expected port '9999', got %s", cfg.Service.HTTPPort)
	}
	if cfg.Speech.Provider != "google" {
		t.Errorf("expected speech provider 'google', got %s", cfg.Speech.Provider)
	}
	if cfg.Speech.LanguageCode != "es-ES" {
		t.Errorf("expected language 'es-ES', got %s", cfg.Speech.LanguageCode)
	}
	if cfg.Speech.SampleRateHz != 8000 {
		t.Errorf("expected sample rate 8000, got %d", cfg.Speech.SampleRateHz)
	}
	if cfg.Speech.InterimResults != false {
		t.Errorf("expected interim results false, got %v", cfg.Speech.InterimResults)
	}
	if cfg.Engine.SilenceThreshold != 900*time.Millisecond {
		t.Errorf("expected silence threshold 900ms, got %v", cfg.Engine.SilenceThreshold)
	}
	if cfg.Engine.PollInterval != 50*time.Millisecond {
		t.Errorf("expected poll interval 50ms, got %v", cfg.Engine.PollInterval)
	}
	if cfg.Token.URL != "http://localhost:8080/token" {
		t.Errorf("expected token URL to be set, got %s", cfg.Token.URL)
	}
	if !cfg.Kafka.Enabled {
		t.Error("expected Kafka enabled")
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[0] != "k1:9092" || cfg.Kafka.Brokers[1] != "k2:9092" {
		t.Errorf("expected brokers [k1:9092 k2:9092], got %v", cfg.Kafka.Brokers)
	}
	if cfg.Observability.LogLevel != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Observability.LogLevel)
	}
}

func TestLoad_InvalidValues_FallbackToDefaults(t *testing.T) {
	os.Setenv("SPEECH_SAMPLE_RATE_HZ", "not-a-number")
	os.Setenv("SPEECH_INTERIM_RESULTS", "invalid")
	os.Setenv("SILENCE_THRESHOLD", "invalid")
	os.Setenv("LATENCY_SAMPLE_MAX", "invalid")

	defer func() {
		os.Unsetenv("SPEECH_SAMPLE_RATE_HZ")
		os.Unsetenv("SPEECH_INTERIM_RESULTS")
		os.Unsetenv("SILENCE_THRESHOLD")
		os.Unsetenv("LATENCY_SAMPLE_MAX")
	}()

	cfg := Load()

	if cfg.Speech.SampleRateHz != 16000 {
		t.Errorf("expected default sample rate on invalid input, got %d", cfg.Speech.SampleRateHz)
	}
	if cfg.Speech.InterimResults != true {
		t.Errorf("expected default interim results on invalid input, got %v", cfg.Speech.InterimResults)
	}
	if cfg.Engine.SilenceThreshold != 700*time.Millisecond {
		t.Errorf("expected default silence threshold on invalid input, got %v", cfg.Engine.SilenceThreshold)
	}
	if cfg.Engine.LatencyMax != 2000*time.Millisecond {
		t.Errorf("expected default latency max on invalid input, got %v", cfg.Engine.LatencyMax)
	}
}

func TestLoad_KafkaPrincipal_FallsBackToServicePrincipal(t *testing.T) {
	os.Setenv("SERVICE_PRINCIPAL", "my-service")
	os.Unsetenv("KAFKA_PRINCIPAL")

	defer os.Unsetenv("SERVICE_PRINCIPAL")

	cfg := Load()

	if cfg.Kafka.Principal != "my-service" {
		t.Errorf("expected Kafka principal to fall back to service principal, got %s", cfg.Kafka.Principal)
	}
}

func TestEnvOrDefaultBool(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		def      bool
		expected bool
	}{
		{"true string", "true", false, true},
		{"false string", "false", true, false},
		{"1", "1", false, true},
		{"0", "0", true, false},
		{"TRUE uppercase", "TRUE", false, true},
		{"invalid", "invalid", true, true},
		{"empty", "", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "TEST_BOOL_VAR"
			if tt.envValue != "" {
				os.Setenv(key, tt.envValue)
			} else {
				os.Unsetenv(key)
			}
			defer os.Unsetenv(key)

			got := envOrDefaultBool(key, tt.def)
			if got != tt.expected {
				t.Errorf("envOrDefaultBool(%s, %v) = %v, want %v", tt.envValue, tt.def, got, tt.expected)
			}
		})
	}
}
