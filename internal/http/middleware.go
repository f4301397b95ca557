package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/fairyhunter13/product-catalog-state/internal/obs"
)

type ctxKey int

const (
	ctxKeyRequestID ctxKey = iota
)

const requestIDHeader = "X-Request-Id"

func RequestIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyRequestID).(string)
	return v
}

type statusRecorder struct {
	http.ResponseWriter
	st int
	n  int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.st = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	if w.st == 0 {
		w.st = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.n += n
	return n, err
}

// RequestID propagates or assigns X-Request-Id and attaches it to the
// request logger.
func RequestID(log *obs.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, reqID)
			ctx := context.WithValue(r.Context(), ctxKeyRequestID, reqID)
			ctx = log.WithRequestID(ctx, reqID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func Logging(log *obs.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(sr, r)
			if sr.st == 0 {
				sr.st = http.StatusOK
			}
			ctx := log.WithFields(r.Context(), map[string]any{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     sr.st,
				"bytes":      sr.n,
				"latency_ms": float64(time.Since(start).Microseconds()) / 1000.0,
			})
			log.Info(ctx, "http_request")
		})
	}
}

func Recoverer(log *obs.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					ctx := log.WithField(r.Context(), "panic", rec)
					log.Error(ctx, "panic_recovered", fmt.Errorf("panic: %v", rec))
					WriteJSONError(w, http.StatusInternalServerError, "internal_error", "")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
