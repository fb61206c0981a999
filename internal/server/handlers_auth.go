package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/maajidpp/linkza/internal/auth"
	"github.com/maajidpp/linkza/pkg/errors"
	"github.com/maajidpp/linkza/pkg/session"
)

type registerRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}

	if len(req.Name) < 2 {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "name must be at least 2 characters"))
		return
	}
	if err := errors.ValidateUsername(req.Username); err != nil {
		writeError(w, err)
		return
	}
	if err := errors.ValidateEmail(req.Email); err != nil {
		writeError(w, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	if taken, err := s.users.UsernameTaken(r.Context(), req.Username); err != nil {
		writeError(w, err)
		return
	} else if taken {
		writeError(w, errors.New(errors.ErrCodeInvalidUsername, "Username is already taken"))
		return
	}

	user, err := s.users.Create(r.Context(), &auth.User{
		Name:         req.Name,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         auth.RoleUser,
		Status:       auth.StatusActive,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User created successfully",
		"user":    user,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string     `json:"token"`
	User  *auth.User `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}

	user, err := s.users.GetByEmail(r.Context(), req.Email)
	if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		// Same answer for unknown email and wrong password.
		writeError(w, errors.New(errors.ErrCodeUnauthorized, "invalid email or password"))
		return
	}
	if user.IsSuspended() {
		writeError(w, errors.New(errors.ErrCodeForbidden, "account suspended"))
		return
	}

	sess, err := session.New(user.ID, clientIP(r), r.UserAgent(), session.DefaultTTL)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "create session"))
		return
	}
	if err := s.sessions.Set(r.Context(), sess); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "store session"))
		return
	}

	token, err := s.tokens.Issue(user.ID, sess.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	_ = s.users.TouchLogin(r.Context(), user.ID)
	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	id := identityFrom(r.Context())
	if err := s.sessions.Delete(r.Context(), id.Session.ID); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "delete session"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	id := identityFrom(r.Context())
	sessions, err := s.sessions.ListByUser(r.Context(), id.User.ID)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "list sessions"))
		return
	}
	if sessions == nil {
		sessions = []*session.Session{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions, "current": id.Session.ID})
}

func (s *Server) handleRevokeSession(w http.ResponseWriter, r *http.Request) {
	id := identityFrom(r.Context())
	sessionID := chi.URLParam(r, "sessionID")

	target, err := s.sessions.Get(r.Context(), sessionID)
	if err != nil && err != session.ErrRevoked && err != session.ErrExpired {
		writeError(w, errors.New(errors.ErrCodeSessionNotFound, "session not found"))
		return
	}
	// Users revoke their own sessions only.
	if target.UserID != id.User.ID {
		writeError(w, errors.New(errors.ErrCodeForbidden, "not your session"))
		return
	}

	if err := s.sessions.Revoke(r.Context(), sessionID); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "revoke session"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Session revoked"})
}

type usernameCheckResponse struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
}

// handleUsernameCheck mirrors the availability endpoint the signup form
// polls: format problems and taken names are 200 with available=false,
// only a missing parameter is an error.
func (s *Server) handleUsernameCheck(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "Username is required"))
		return
	}

	if err := errors.ValidateUsername(username); err != nil {
		writeJSON(w, http.StatusOK, usernameCheckResponse{Available: false, Message: "Invalid username format"})
		return
	}

	taken, err := s.users.UsernameTaken(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return
	}
	if taken {
		writeJSON(w, http.StatusOK, usernameCheckResponse{Available: false, Message: "Username is already taken"})
		return
	}
	writeJSON(w, http.StatusOK, usernameCheckResponse{Available: true, Message: "Username is available"})
}
