package http

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/NazarChugunov/kurs2025/internal/core"
)

type ctxKey int

const userCtxKey ctxKey = iota

func withUser(ctx context.Context, u core.User) context.Context {
	return context.WithValue(ctx, userCtxKey, u)
}

// userFrom returns the user resolved by requireUser for this request.
func userFrom(ctx context.Context) (core.User, bool) {
	u, ok := ctx.Value(userCtxKey).(core.User)
	return u, ok
}

// requireUser resolves the session cookie to a user row and injects it into
// the request context. Requests without a valid identity are sent to the
// login page; a cookie pointing at a deleted user is dropped.
func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.sessions.userID(r)
		if !ok {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		user, err := s.store.UserByID(r.Context(), id)
		if err != nil {
			slog.WarnContext(r.Context(), "session points at unknown user", "user_id", id, "error", err)
			_ = s.sessions.signOut(w, r)
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
	})
}

// requestLogger logs one line per completed request with the id assigned by
// chi's RequestID middleware.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		slog.InfoContext(r.Context(), "request completed",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"remote", r.RemoteAddr)
	})
}

// clientAddr keys rate limiting by client IP. RealIP has already
// normalized RemoteAddr for requests that came through a proxy.
func clientAddr(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}
