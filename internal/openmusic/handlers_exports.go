package openmusic

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// handlePostExportPlaylist enqueues a background export job. Owner-only; the
// worker consuming the queue renders and mails the playlist.
func (s *Server) handlePostExportPlaylist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playlistID := chi.URLParam(r, "id")
	username := currentUser(r)

	var body struct {
		TargetEmail string `json:"targetEmail"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	body.TargetEmail = strings.TrimSpace(body.TargetEmail)
	if body.TargetEmail == "" || !strings.Contains(body.TargetEmail, "@") {
		writeError(w, http.StatusBadRequest, "targetEmail must be a valid email address")
		return
	}

	if _, err := s.verifyPlaylistOwner(ctx, playlistID, username); err != nil {
		writeServiceError(w, "export playlist verify", err)
		return
	}

	job := ExportJob{PlaylistID: playlistID, TargetEmail: body.TargetEmail}
	if err := s.producer.EnqueuePlaylistExport(ctx, job); err != nil {
		writeServiceError(w, "export playlist enqueue", err)
		return
	}

	writeSuccess(w, http.StatusCreated, "export request is being processed", nil)
}
