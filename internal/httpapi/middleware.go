package httpapi

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"llmgateway/internal/apierrors"
	"llmgateway/internal/observability"
)

func withRequestID(next http.Handler) http.Handler {
	return apierrors.WithRequestID(next)
}

// withAccessLog logs one structured line per request, matching the
// teacher's leveled, field-tagged log style. JSON request bodies are
// captured and redacted before logging, since these handlers accept raw
// chat messages and session tokens straight from game bots.
func withAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		var body []byte
		if r.Body != nil && strings.Contains(r.Header.Get("Content-Type"), "application/json") {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		log := observability.LoggerWithTrace(r.Context())
		event := log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Str("request_id", apierrors.RequestIDFrom(r.Context()))
		if len(body) > 0 {
			event = event.RawJSON("request_body", observability.RedactJSON(body))
		}
		event.Msg("http_request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Flush forwards to the wrapped writer so streaming handlers can still
// flush incremental output through the access-log middleware.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
