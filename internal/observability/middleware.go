package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/zaid-24/RealTime-Meet-Translator/internal/observability/metrics"
)

// RequestLogger returns HTTP middleware that logs each request and records
// request metrics.
func RequestLogger(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			duration := time.Since(start)
			code := ww.Status()
			if code == 0 {
				code = http.StatusOK
			}

			m.RecordHTTPRequest(r.Method, r.URL.Path, strconv.Itoa(code), duration.Seconds())

			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("code", code).
				Dur("duration", duration).
				Msg("HTTP request")
		})
	}
}
