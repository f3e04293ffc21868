// Package token implements the local token-minting proxy: it exchanges the
// configured subscription key for a short-lived speech token at the cloud
// credential endpoint and serves it to the session layer as
// GET /token -> {token, region}.
package token

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/zaid-24/RealTime-Meet-Translator/internal/observability/metrics"
)

// Response is the fixed /token contract.
type Response struct {
	Token  string `json:"token"`
	Region string `json:"region"`
}

// ErrNoSubscriptionKey is returned when the proxy has no key to exchange.
var ErrNoSubscriptionKey = errors.New("speech subscription key is not configured")

// Issuer performs the credential exchange against the cloud endpoint.
type Issuer struct {
	endpoint string
	key      string
	region   string
	client   *http.Client
	metrics  *metrics.Metrics
	log      zerolog.Logger
}

// NewIssuer creates an issuer for the given region and subscription key.
// endpoint overrides the default exchange URL; pass "" for the standard
// regional one.
func NewIssuer(region, key, endpoint string, log zerolog.Logger) *Issuer {
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.api.cognitive.microsoft.com/sts/v1.0/issueToken", region)
	}
	return &Issuer{
		endpoint: endpoint,
		key:      key,
		region:   region,
		client:   &http.Client{Timeout: 10 * time.Second},
		metrics:  metrics.DefaultMetrics,
		log:      log,
	}
}

// Issue exchanges the subscription key for a short-lived token.
func (i *Issuer) Issue(ctx context.Context) (Response, error) {
	start := time.Now()
	resp, err := i.issue(ctx)
	i.metrics.RecordTokenFetch(err, time.Since(start).Seconds())
	return resp, err
}

func (i *Issuer) issue(ctx context.Context) (Response, error) {
	if i.key == "" {
		return Response{}, ErrNoSubscriptionKey
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.endpoint, nil)
	if err != nil {
		return Response{}, err
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", i.key)
	req.Header.Set("Content-Length", "0")

	res, err := i.client.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("token exchange: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return Response{}, fmt.Errorf("token exchange: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return Response{}, fmt.Errorf("token exchange: %s: %s", res.Status, strings.TrimSpace(string(body)))
	}

	return Response{Token: strings.TrimSpace(string(body)), Region: i.region}, nil
}

// Handler serves GET /token.
func (i *Issuer) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := i.Issue(r.Context())
		w.Header().Set("Content-Type", "application/json")
		if err != nil {
			i.log.Error().Err(err).Msg("Token exchange failed")
			code := http.StatusServiceUnavailable
			if errors.Is(err, ErrNoSubscriptionKey) {
				code = http.StatusInternalServerError
			}
			w.WriteHeader(code)
			json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		json.NewEncoder(w).Encode(resp)
	}
}

// HealthHandler serves GET /health.
func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}
}
