package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/maajidpp/linkza/internal/auth"
	"github.com/maajidpp/linkza/pkg/errors"
)

// adminUser is the listing shape: the account plus how many tiles its
// layout holds.
type adminUser struct {
	*auth.User
	TileCount int `json:"tileCount"`
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]adminUser, 0, len(users))
	for _, u := range users {
		count, err := s.layouts.TileCount(r.Context(), u.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		out = append(out, adminUser{User: u, TileCount: count})
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": out})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	user, err := s.users.GetByID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	count, err := s.layouts.TileCount(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, adminUser{User: user, TileCount: count})
}

type updateUserRequest struct {
	Role   string `json:"role,omitempty"`
	Status string `json:"status,omitempty"`
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id := identityFrom(r.Context())
	userID := chi.URLParam(r, "userID")

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}

	// Admins cannot demote or suspend themselves; that would lock the
	// last admin out.
	if userID == id.User.ID && (req.Role == auth.RoleUser || req.Status == auth.StatusSuspended) {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "cannot modify your own role or status"))
		return
	}

	if req.Role != "" {
		if err := s.users.SetRole(r.Context(), userID, req.Role); err != nil {
			writeError(w, err)
			return
		}
	}
	if req.Status != "" {
		if err := s.users.SetStatus(r.Context(), userID, req.Status); err != nil {
			writeError(w, err)
			return
		}
		if req.Status == auth.StatusSuspended {
			if err := s.sessions.RevokeAll(r.Context(), userID); err != nil {
				writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "revoke sessions"))
				return
			}
		}
	}

	user, err := s.users.GetByID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// handleDeleteUser removes the account, its sessions, and its layout.
func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := identityFrom(r.Context())
	userID := chi.URLParam(r, "userID")

	if userID == id.User.ID {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "cannot delete your own account"))
		return
	}

	if err := s.users.Delete(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}
	if err := s.sessions.RevokeAll(r.Context(), userID); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "revoke sessions"))
		return
	}
	if err := s.layouts.Delete(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
}
