package openmusic

import (
	"encoding/json"
	"net/http"
)

type collaborationPayload struct {
	PlaylistID string `json:"playlistId"`
	UserID     string `json:"userId"`
}

func (s *Server) handlePostCollaboration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner := currentUser(r)

	var body collaborationPayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.PlaylistID == "" || body.UserID == "" {
		writeError(w, http.StatusBadRequest, "playlistId and userId are required")
		return
	}

	if _, err := s.verifyPlaylistOwner(ctx, body.PlaylistID, owner); err != nil {
		writeServiceError(w, "add collaboration verify", err)
		return
	}
	if _, err := s.store.GetUserByUsername(ctx, body.UserID); err != nil {
		writeServiceError(w, "add collaboration fetch user", err)
		return
	}

	id, err := s.store.AddCollaboration(ctx, body.PlaylistID, body.UserID)
	if err != nil {
		writeServiceError(w, "add collaboration", err)
		return
	}

	// the collaborator's playlist listing now includes this playlist
	s.cache.Delete(ctx, playlistListKey(body.UserID))
	s.publishEvent(ctx, "collaboration.added", map[string]any{
		"playlistId": body.PlaylistID,
		"userId":     body.UserID,
	})

	writeSuccess(w, http.StatusCreated, "collaborator added", map[string]any{"collaborationId": id})
}

func (s *Server) handleDeleteCollaboration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner := currentUser(r)

	var body collaborationPayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.PlaylistID == "" || body.UserID == "" {
		writeError(w, http.StatusBadRequest, "playlistId and userId are required")
		return
	}

	if _, err := s.verifyPlaylistOwner(ctx, body.PlaylistID, owner); err != nil {
		writeServiceError(w, "delete collaboration verify", err)
		return
	}

	if err := s.store.DeleteCollaboration(ctx, body.PlaylistID, body.UserID); err != nil {
		writeServiceError(w, "delete collaboration", err)
		return
	}

	s.cache.Delete(ctx, playlistListKey(body.UserID))
	s.publishEvent(ctx, "collaboration.removed", map[string]any{
		"playlistId": body.PlaylistID,
		"userId":     body.UserID,
	})

	writeSuccess(w, http.StatusOK, "collaborator removed", nil)
}
