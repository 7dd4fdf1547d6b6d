package openmusic

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

func validateSongPayload(p *SongPayload) string {
	p.Title = strings.TrimSpace(p.Title)
	p.Performer = strings.TrimSpace(p.Performer)
	p.Genre = strings.TrimSpace(p.Genre)
	if p.Title == "" {
		return "title is required"
	}
	if p.Performer == "" {
		return "performer is required"
	}
	if p.Genre == "" {
		return "genre is required"
	}
	if p.Year <= 0 || p.Year > time.Now().Year()+1 {
		return "year is out of range"
	}
	if p.Duration != nil && *p.Duration < 0 {
		return "duration cannot be negative"
	}
	return ""
}

func (s *Server) handlePostSong(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body SongPayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg := validateSongPayload(&body); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	id, err := s.store.AddSong(ctx, body)
	if err != nil {
		writeServiceError(w, "create song", err)
		return
	}

	keys := []string{songSearchKey(body.Title, body.Performer)}
	if body.AlbumID != nil {
		keys = append(keys, albumSongsKey(*body.AlbumID))
	}
	s.cache.Delete(ctx, keys...)

	writeSuccess(w, http.StatusCreated, "song created", map[string]any{"songId": id})
}

// handleGetSongs lists songs filtered by title and/or performer. Results are
// cached per exact query tuple; see the cache TTL note for how stale
// permutations age out.
func (s *Server) handleGetSongs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	title := strings.TrimSpace(r.URL.Query().Get("title"))
	performer := strings.TrimSpace(r.URL.Query().Get("performer"))

	songs, source, err := cachedRead(ctx, s.cache, songSearchKey(title, performer), func(ctx context.Context) ([]SongSummary, error) {
		return s.store.SearchSongs(ctx, title, performer)
	})
	if err != nil {
		writeServiceError(w, "list songs", err)
		return
	}

	w.Header().Set("X-Data-Source", source)
	writeSuccess(w, http.StatusOK, "", map[string]any{"songs": songs})
}

func (s *Server) handleGetSongByID(w http.ResponseWriter, r *http.Request) {
	song, err := s.store.GetSongByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "get song", err)
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]any{"song": song})
}

func (s *Server) handlePutSong(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var body SongPayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg := validateSongPayload(&body); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if err := s.store.UpdateSong(ctx, id, body); err != nil {
		writeServiceError(w, "update song", err)
		return
	}

	keys := []string{songSearchKey(body.Title, body.Performer)}
	if body.AlbumID != nil {
		keys = append(keys, albumSongsKey(*body.AlbumID))
	}
	s.cache.Delete(ctx, keys...)

	writeSuccess(w, http.StatusOK, "song updated", nil)
}

func (s *Server) handleDeleteSong(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	song, err := s.store.DeleteSong(ctx, id)
	if err != nil {
		writeServiceError(w, "delete song", err)
		return
	}

	keys := []string{songSearchKey(song.Title, song.Performer)}
	if song.AlbumID != nil {
		keys = append(keys, albumSongsKey(*song.AlbumID))
	}
	s.cache.Delete(ctx, keys...)

	writeSuccess(w, http.StatusOK, "song deleted", nil)
}
