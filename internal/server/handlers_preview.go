package server

import (
	"net/http"

	"github.com/maajidpp/linkza/pkg/errors"
)

// handleLinkPreview scrapes Open Graph metadata for the link tile editor.
func (s *Server) handleLinkPreview(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "URL is required"))
		return
	}

	meta, err := s.scraper.Scrape(r.Context(), rawURL)
	if err != nil {
		if errors.Is(err, errors.ErrCodeInvalidInput) {
			writeError(w, err)
			return
		}
		// Best effort: a dead target is the target's problem, not ours.
		s.logger.Debug("link preview failed", "url", rawURL, "err", err)
		writeError(w, errors.New(errors.ErrCodeNetwork, "Failed to fetch link preview"))
		return
	}
	writeJSON(w, http.StatusOK, meta)
}
