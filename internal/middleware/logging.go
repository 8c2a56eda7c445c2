package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"connectrpc.com/connect"
)

// LoggingInterceptor logs one line per RPC. Client faults (any code other
// than internal or unknown) log at warn, server faults at error.
func LoggingInterceptor(logger *slog.Logger) connect.UnaryInterceptorFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			attrs := []slog.Attr{
				slog.String("procedure", req.Spec().Procedure),
				slog.String("user_id", GetUserID(ctx)), // empty for public procedures
				slog.String("peer", req.Peer().Addr),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			}
			level, msg := slog.LevelInfo, "RPC ok"
			if err != nil {
				code := connect.CodeOf(err)
				msg = "RPC error"
				attrs = append(attrs, slog.String("code", code.String()))
				var connectErr *connect.Error
				if errors.As(err, &connectErr) {
					attrs = append(attrs, slog.String("error", connectErr.Message()))
				} else {
					attrs = append(attrs, slog.Any("error", err))
				}
				level = slog.LevelWarn
				if code == connect.CodeInternal || code == connect.CodeUnknown {
					level = slog.LevelError
				}
			}
			logger.LogAttrs(ctx, level, msg, attrs...)

			return resp, err
		}
	}
}

// HTTPLogging logs every plain HTTP request (health, metrics, websocket
// upgrades and the RPC routes alike).
func HTTPLogging(logger *slog.Logger, next http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		logger.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
