package httpapi

import (
	"bytes"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	maxLoggedBody   = 512
)

// statusRecorder captures the status code and, once a status >= 400 has been
// written, the first maxLogBytes of the body so failures can be logged with
// their payload. Successful bodies are not buffered.
type statusRecorder struct {
	http.ResponseWriter
	statusCode   int
	wroteHeader  bool
	bytesWritten int
	maxLogBytes  int
	logBody      bytes.Buffer
	truncated    bool
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	if !r.wroteHeader {
		r.statusCode = statusCode
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	r.wroteHeader = true
	if r.statusCode >= http.StatusBadRequest {
		r.captureBody(p)
	}

	n, err := r.ResponseWriter.Write(p)
	r.bytesWritten += n
	return n, err
}

func (r *statusRecorder) captureBody(p []byte) {
	remaining := r.maxLogBytes - r.logBody.Len()
	switch {
	case remaining <= 0:
		if len(p) > 0 {
			r.truncated = true
		}
	case len(p) > remaining:
		r.logBody.Write(p[:remaining])
		r.truncated = true
	default:
		r.logBody.Write(p)
	}
}

func (a *API) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
			maxLogBytes:    maxLoggedBody,
		}
		start := time.Now()
		next.ServeHTTP(recorder, r)

		level := slog.LevelInfo
		attrs := []slog.Attr{
			slog.String("request_id", requestID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", recorder.statusCode),
			slog.Int("bytes", recorder.bytesWritten),
			slog.Duration("duration", time.Since(start)),
		}
		if recorder.statusCode >= http.StatusBadRequest {
			level = levelForStatus(recorder.statusCode)
			attrs = append(attrs,
				slog.String("body", strings.TrimSpace(recorder.logBody.String())),
				slog.Bool("body_truncated", recorder.truncated),
			)
		}
		a.logger.LogAttrs(r.Context(), level, "request", attrs...)
	})
}

func (a *API) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}
			if recovered == http.ErrAbortHandler {
				panic(recovered)
			}
			a.logger.ErrorContext(r.Context(), "panic serving request", "path", r.URL.Path, "panic", recovered)
			writeError(w, http.StatusInternalServerError)
		}()
		next.ServeHTTP(w, r)
	})
}

// corsHeaders advertises the allowed headers and methods on every response,
// not only on preflight.
func corsHeaders(next http.Handler) http.Handler {
	allowHeaders := strings.Join(corsAllowedHeaders, ",")
	allowMethods := strings.Join(corsAllowedMethods, ",")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Headers", allowHeaders)
		w.Header().Set("Access-Control-Allow-Methods", allowMethods)
		next.ServeHTTP(w, r)
	})
}

func levelForStatus(status int) slog.Level {
	if status >= http.StatusInternalServerError {
		return slog.LevelError
	}
	return slog.LevelWarn
}
