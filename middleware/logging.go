// Package middleware provides http.RoundTripper wrappers for clients sending
// reqforge requests.
package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// LoggingTransport wraps next so that each request is logged using slog.
// It logs the start and end of each request, including duration and status.
// A nil next uses http.DefaultTransport.
func LoggingTransport(logger *slog.Logger, next http.RoundTripper) http.RoundTripper {
	if logger == nil {
		logger = slog.Default()
	}
	if next == nil {
		next = http.DefaultTransport
	}

	return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		ctx := r.Context()
		start := time.Now()
		endpoint := r.Method + " " + r.URL.Redacted()

		logger.DebugContext(ctx, "request started",
			slog.String("endpoint", endpoint),
		)

		resp, err := next.RoundTrip(r)
		duration := time.Since(start)

		if err != nil {
			logger.ErrorContext(ctx, "request failed",
				slog.String("endpoint", endpoint),
				slog.Duration("duration", duration),
				slog.Any("error", err),
			)
			return nil, err
		}

		logger.InfoContext(ctx, "request completed",
			slog.String("endpoint", endpoint),
			slog.Int("status", resp.StatusCode),
			slog.Duration("duration", duration),
		)
		return resp, nil
	})
}
