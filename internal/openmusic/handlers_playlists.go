package openmusic

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handlePostPlaylist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	username := currentUser(r)

	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" || len(body.Name) > 200 {
		writeError(w, http.StatusBadRequest, "name must be between 1 and 200 characters")
		return
	}

	id, err := s.store.AddPlaylist(ctx, body.Name, username)
	if err != nil {
		writeServiceError(w, "create playlist", err)
		return
	}
	s.cache.Delete(ctx, playlistListKey(username))
	s.publishEvent(ctx, "playlist.created", map[string]any{"playlistId": id, "username": username})

	writeSuccess(w, http.StatusCreated, "playlist created", map[string]any{"playlistId": id})
}

func (s *Server) handleGetPlaylists(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	username := currentUser(r)

	playlists, source, err := cachedRead(ctx, s.cache, playlistListKey(username), func(ctx context.Context) ([]Playlist, error) {
		return s.store.PlaylistsByUser(ctx, username)
	})
	if err != nil {
		writeServiceError(w, "list playlists", err)
		return
	}

	w.Header().Set("X-Data-Source", source)
	writeSuccess(w, http.StatusOK, "", map[string]any{"playlists": playlists})
}

// handleDeletePlaylist deletes a playlist. Strict owner check, no
// collaborator fallback.
func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playlistID := chi.URLParam(r, "id")
	username := currentUser(r)

	pl, err := s.verifyPlaylistOwner(ctx, playlistID, username)
	if err != nil {
		writeServiceError(w, "delete playlist verify", err)
		return
	}

	if err := s.store.DeletePlaylist(ctx, playlistID); err != nil {
		writeServiceError(w, "delete playlist", err)
		return
	}
	s.cache.Delete(ctx, playlistListKey(pl.Username), playlistSongsKey(playlistID))
	s.publishEvent(ctx, "playlist.deleted", map[string]any{"playlistId": playlistID})

	writeSuccess(w, http.StatusOK, "playlist deleted", nil)
}

func (s *Server) handlePostPlaylistSong(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playlistID := chi.URLParam(r, "id")
	userID := currentUser(r)

	var body struct {
		SongID string `json:"songId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.SongID == "" {
		writeError(w, http.StatusBadRequest, "songId is required")
		return
	}

	if _, err := s.store.GetSongByID(ctx, body.SongID); err != nil {
		writeServiceError(w, "add playlist song fetch song", err)
		return
	}
	if _, err := s.verifyPlaylistAccess(ctx, playlistID, userID); err != nil {
		writeServiceError(w, "add playlist song verify", err)
		return
	}

	if err := s.store.AddSongToPlaylist(ctx, playlistID, body.SongID, userID); err != nil {
		writeServiceError(w, "add playlist song", err)
		return
	}
	s.cache.Delete(ctx, playlistSongsKey(playlistID))
	s.publishEvent(ctx, "playlist.song.added", map[string]any{"playlistId": playlistID, "songId": body.SongID})

	writeSuccess(w, http.StatusCreated, "song added to playlist", nil)
}

func (s *Server) handleGetPlaylistSongs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playlistID := chi.URLParam(r, "id")
	userID := currentUser(r)

	pl, err := s.verifyPlaylistAccess(ctx, playlistID, userID)
	if err != nil {
		writeServiceError(w, "get playlist songs verify", err)
		return
	}

	songs, source, err := cachedRead(ctx, s.cache, playlistSongsKey(playlistID), func(ctx context.Context) ([]SongSummary, error) {
		return s.store.SongsByPlaylist(ctx, playlistID)
	})
	if err != nil {
		writeServiceError(w, "get playlist songs", err)
		return
	}

	w.Header().Set("X-Data-Source", source)
	writeSuccess(w, http.StatusOK, "", map[string]any{
		"playlist": map[string]any{
			"id":       pl.ID,
			"name":     pl.Name,
			"username": pl.Username,
			"songs":    songs,
		},
	})
}

func (s *Server) handleDeletePlaylistSong(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playlistID := chi.URLParam(r, "id")
	userID := currentUser(r)

	var body struct {
		SongID string `json:"songId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.SongID == "" {
		writeError(w, http.StatusBadRequest, "songId is required")
		return
	}

	if _, err := s.verifyPlaylistAccess(ctx, playlistID, userID); err != nil {
		writeServiceError(w, "delete playlist song verify", err)
		return
	}

	if err := s.store.DeleteSongFromPlaylist(ctx, playlistID, body.SongID, userID); err != nil {
		writeServiceError(w, "delete playlist song", err)
		return
	}
	s.cache.Delete(ctx, playlistSongsKey(playlistID))
	s.publishEvent(ctx, "playlist.song.removed", map[string]any{"playlistId": playlistID, "songId": body.SongID})

	writeSuccess(w, http.StatusOK, "song removed from playlist", nil)
}

func (s *Server) handleGetPlaylistActivities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playlistID := chi.URLParam(r, "id")
	userID := currentUser(r)

	if _, err := s.verifyPlaylistAccess(ctx, playlistID, userID); err != nil {
		writeServiceError(w, "get playlist activities verify", err)
		return
	}

	activities, err := s.store.PlaylistActivities(ctx, playlistID)
	if err != nil {
		writeServiceError(w, "get playlist activities", err)
		return
	}

	writeSuccess(w, http.StatusOK, "", map[string]any{
		"playlistId": playlistID,
		"activities": activities,
	})
}
