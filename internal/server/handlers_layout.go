package server

import (
	"encoding/json"
	"net/http"

	"github.com/maajidpp/linkza/pkg/errors"
	"github.com/maajidpp/linkza/pkg/layout"
	"github.com/maajidpp/linkza/pkg/tile"
)

// handleGetLayout serves both halves of the layout contract:
//
//	?username=  public fetch; an unknown username is 404 "User not found",
//	            a known user without a layout is 200 {"tiles": []}
//	(no query)  owner fetch; requires a session
func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")

	var userID string
	if username != "" {
		user, err := s.users.GetByUsername(r.Context(), username)
		if err != nil {
			if errors.Is(err, errors.ErrCodeUserNotFound) {
				writeJSON(w, http.StatusNotFound, errorBody{Message: "User not found", Code: errors.ErrCodeUserNotFound})
				return
			}
			writeError(w, err)
			return
		}
		userID = user.ID
	} else {
		id, err := s.authenticate(r)
		if err != nil {
			writeError(w, err)
			return
		}
		if id == nil {
			writeError(w, errors.New(errors.ErrCodeUnauthorized, "Unauthorized"))
			return
		}
		userID = id.User.ID
	}

	lay, err := s.layouts.GetByUserID(r.Context(), userID)
	if errors.Is(err, errors.ErrCodeLayoutNotFound) {
		// A user who never saved still has a valid, empty layout.
		writeJSON(w, http.StatusOK, &layout.Layout{Tiles: []*tile.Tile{}})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lay)
}

type saveLayoutRequest struct {
	Tiles    []*tile.Tile `json:"tiles"`
	Revision int64        `json:"revision"`
}

// handleSaveLayout upserts the caller's layout. The carried revision must
// match the stored document; a stale one is rejected with 409 so an
// out-of-order save can never clobber newer state.
func (s *Server) handleSaveLayout(w http.ResponseWriter, r *http.Request) {
	id := identityFrom(r.Context())

	var req saveLayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	for _, t := range req.Tiles {
		if t == nil {
			writeError(w, errors.New(errors.ErrCodeInvalidTile, "null tile in layout"))
			return
		}
		if err := t.Validate(); err != nil {
			writeError(w, err)
			return
		}
	}

	lay, err := s.layouts.Upsert(r.Context(), id.User.ID, req.Tiles, req.Revision)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lay)
}
