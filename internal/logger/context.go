package logger

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

type contextKey struct{}

// requestLog is the per-request state stored in the context.
type requestLog struct {
	logger *slog.Logger

	mu    sync.Mutex
	attrs []slog.Attr
}

// ContextWithLogger returns a context carrying l as the request logger.
func ContextWithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, &requestLog{logger: l})
}

// ContextRequestLogger returns the request logger, or slog.Default() outside a request.
func ContextRequestLogger(ctx context.Context) *slog.Logger {
	if rl, ok := ctx.Value(contextKey{}).(*requestLog); ok && rl.logger != nil {
		return rl.logger
	}
	return slog.Default()
}

// ContextWithLogAttrs adds attributes to the final log line of the current request.
// It is a no-op outside a request.
func ContextWithLogAttrs(ctx context.Context, attrs ...slog.Attr) {
	rl, ok := ctx.Value(contextKey{}).(*requestLog)
	if !ok {
		return
	}
	rl.mu.Lock()
	rl.attrs = append(rl.attrs, attrs...)
	rl.mu.Unlock()
}

// RequestLogging stores a logger tagged with the request id, method and path in the context
// and logs one line per request when it completes. 5xx responses are logged at error level
// and 4xx at warn.
func RequestLogging(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqLogger := base.With(
				slog.String("request_id", middleware.GetReqID(r.Context())),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
			rl := &requestLog{logger: reqLogger}
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), contextKey{}, rl)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			level := slog.LevelInfo
			switch {
			case status >= 500:
				level = slog.LevelError
			case status >= 400:
				level = slog.LevelWarn
			}

			rl.mu.Lock()
			attrs := append([]slog.Attr{
				slog.Int("status", status),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
				slog.String("remote_addr", r.RemoteAddr),
			}, rl.attrs...)
			rl.mu.Unlock()

			reqLogger.LogAttrs(r.Context(), level, "request completed", attrs...)
		})
	}
}
