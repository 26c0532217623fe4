package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/tobilg/dashconv/internal/api"
)

// Limits bounds what a single API request may consume.
type Limits struct {
	MaxBodyBytes int64
	Timeout      time.Duration
}

type budgetKey struct{}

// PayloadLimit rejects bodies above maxBytes. A declared Content-Length is
// checked up front; streamed or decompressed bodies fail with
// *http.MaxBytesError when read past the limit.
func PayloadLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				api.WriteErrorFromError(w, api.NewPayloadTooLargeError(maxBytes, r.ContentLength))
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// Deadline gives each request a context deadline of timeout and records the
// budget for RequestBudget. WebSocket upgrades are passed through untouched.
func Deadline(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isUpgrade(r) {
				next.ServeHTTP(w, r)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			ctx = context.WithValue(ctx, budgetKey{}, timeout)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestBudget returns the timeout Deadline applied to ctx, if any.
func RequestBudget(ctx context.Context) (time.Duration, bool) {
	d, ok := ctx.Value(budgetKey{}).(time.Duration)
	return d, ok
}

// Apply installs both limits, body size first.
func (l Limits) Apply(r interface {
	Use(middlewares ...func(http.Handler) http.Handler)
}) {
	r.Use(PayloadLimit(l.MaxBodyBytes), Deadline(l.Timeout))
}

func isUpgrade(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
}
