package openmusic

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

type albumPayload struct {
	Name string `json:"name"`
	Year int    `json:"year"`
}

func (p *albumPayload) validate() string {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return "name is required"
	}
	if p.Year <= 0 || p.Year > time.Now().Year()+1 {
		return "year is out of range"
	}
	return ""
}

func (s *Server) handlePostAlbum(w http.ResponseWriter, r *http.Request) {
	var body albumPayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg := body.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	id, err := s.store.AddAlbum(r.Context(), body.Name, body.Year)
	if err != nil {
		writeServiceError(w, "create album", err)
		return
	}

	writeSuccess(w, http.StatusCreated, "album created", map[string]any{"albumId": id})
}

func (s *Server) handleGetAlbum(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	album, source, err := cachedRead(ctx, s.cache, albumKey(id), func(ctx context.Context) (*Album, error) {
		return s.store.GetAlbumByID(ctx, id)
	})
	if err != nil {
		writeServiceError(w, "get album", err)
		return
	}

	songs, _, err := cachedRead(ctx, s.cache, albumSongsKey(id), func(ctx context.Context) ([]SongSummary, error) {
		return s.store.SongsByAlbum(ctx, id)
	})
	if err != nil {
		writeServiceError(w, "get album songs", err)
		return
	}

	w.Header().Set("X-Data-Source", source)
	writeSuccess(w, http.StatusOK, "", map[string]any{
		"album": map[string]any{
			"id":       album.ID,
			"name":     album.Name,
			"year":     album.Year,
			"coverUrl": album.CoverURL,
			"songs":    songs,
		},
	})
}

func (s *Server) handlePutAlbum(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var body albumPayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg := body.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if err := s.store.UpdateAlbum(ctx, id, body.Name, body.Year); err != nil {
		writeServiceError(w, "update album", err)
		return
	}
	s.cache.Delete(ctx, albumKey(id))

	writeSuccess(w, http.StatusOK, "album updated", nil)
}

func (s *Server) handleDeleteAlbum(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := s.store.DeleteAlbum(ctx, id); err != nil {
		writeServiceError(w, "delete album", err)
		return
	}
	s.cache.Delete(ctx, albumKey(id), albumSongsKey(id), albumLikesKey(id))

	writeSuccess(w, http.StatusOK, "album deleted", nil)
}

// handlePostAlbumCover records the cover URL. The object storage holding the
// image lives outside this service; only the reference is persisted here.
func (s *Server) handlePostAlbumCover(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var body struct {
		CoverURL string `json:"coverUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	body.CoverURL = strings.TrimSpace(body.CoverURL)
	if !strings.HasPrefix(body.CoverURL, "http://") && !strings.HasPrefix(body.CoverURL, "https://") {
		writeError(w, http.StatusBadRequest, "coverUrl must be a valid http(s) URL")
		return
	}

	if err := s.store.SetAlbumCover(ctx, id, body.CoverURL); err != nil {
		writeServiceError(w, "set album cover", err)
		return
	}
	s.cache.Delete(ctx, albumKey(id))

	writeSuccess(w, http.StatusCreated, "album cover updated", nil)
}

func (s *Server) handlePostAlbumLike(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	albumID := chi.URLParam(r, "id")
	userID := currentUser(r)

	// the album must exist before a like can target it
	if _, err := s.store.GetAlbumByID(ctx, albumID); err != nil {
		writeServiceError(w, "like album fetch", err)
		return
	}

	if err := s.store.AddAlbumLike(ctx, userID, albumID); err != nil {
		writeServiceError(w, "like album", err)
		return
	}
	s.cache.Delete(ctx, albumLikesKey(albumID))

	writeSuccess(w, http.StatusCreated, "album liked", nil)
}

func (s *Server) handleDeleteAlbumLike(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	albumID := chi.URLParam(r, "id")
	userID := currentUser(r)

	if err := s.store.DeleteAlbumLike(ctx, userID, albumID); err != nil {
		writeServiceError(w, "unlike album", err)
		return
	}
	s.cache.Delete(ctx, albumLikesKey(albumID))

	writeSuccess(w, http.StatusOK, "album unliked", nil)
}

// handleGetAlbumLikes serves the likes count. Zero likes is a valid count,
// not an error.
func (s *Server) handleGetAlbumLikes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	albumID := chi.URLParam(r, "id")

	likes, source, err := cachedRead(ctx, s.cache, albumLikesKey(albumID), func(ctx context.Context) (int, error) {
		return s.store.CountAlbumLikes(ctx, albumID)
	})
	if err != nil {
		writeServiceError(w, "get album likes", err)
		return
	}

	w.Header().Set("X-Data-Source", source)
	writeSuccess(w, http.StatusOK, "", map[string]any{"likes": likes})
}
