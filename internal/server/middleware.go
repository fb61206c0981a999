package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/maajidpp/linkza/internal/auth"
	"github.com/maajidpp/linkza/pkg/errors"
	"github.com/maajidpp/linkza/pkg/session"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the resolved caller of an authenticated request.
type Identity struct {
	User    *auth.User
	Session *session.Session
}

func identityFrom(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey).(*Identity)
	return id
}

// authenticate resolves the bearer token into an Identity. It returns nil
// without an error when no token is present, letting handlers that serve
// both public and owner traffic decide what that means.
func (s *Server) authenticate(r *http.Request) (*Identity, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, nil
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return nil, errors.New(errors.ErrCodeUnauthorized, "malformed authorization header")
	}

	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.Get(r.Context(), claims.SessionID)
	switch err {
	case nil:
	case session.ErrNotFound, session.ErrExpired:
		return nil, errors.New(errors.ErrCodeSessionExpired, "session expired")
	case session.ErrRevoked:
		return nil, errors.New(errors.ErrCodeUnauthorized, "session revoked")
	default:
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load session")
	}

	user, err := s.users.GetByID(r.Context(), claims.UserID)
	if err != nil {
		return nil, errors.New(errors.ErrCodeUnauthorized, "unknown user")
	}
	if user.IsSuspended() {
		// Suspension revokes everything; this catches sessions created
		// before the suspension landed.
		_ = s.sessions.RevokeAll(r.Context(), user.ID)
		return nil, errors.New(errors.ErrCodeForbidden, "account suspended")
	}

	_ = s.sessions.Touch(r.Context(), sess.ID)
	return &Identity{User: user, Session: sess}, nil
}

// requireAuth rejects requests without a valid session.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := s.authenticate(r)
		if err != nil {
			writeError(w, err)
			return
		}
		if id == nil {
			writeError(w, errors.New(errors.ErrCodeUnauthorized, "Unauthorized"))
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, id)))
	})
}

// requireAdmin runs after requireAuth and rejects non-admin callers.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := identityFrom(r.Context())
		if id == nil || !id.User.IsAdmin() {
			writeError(w, errors.New(errors.ErrCodeForbidden, "admin access required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// rateLimited applies the fixed-window limiter keyed by client IP.
func (s *Server) rateLimited(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, err := s.limiter.Allow(r.Context(), clientIP(r))
		if err != nil {
			s.logger.Warn("rate limiter unavailable", "err", err)
		}
		if !ok {
			writeError(w, errors.New(errors.ErrCodeRateLimited, "Too many requests. Please try again later."))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	// RealIP middleware has already folded X-Forwarded-For into RemoteAddr.
	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i >= 0 {
		host = host[:i]
	}
	return host
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// requestLogger logs one line per request at debug level, warnings for
// server errors.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		logFn := s.logger.Debug
		if rec.status >= 500 {
			logFn = s.logger.Warn
		}
		logFn("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
