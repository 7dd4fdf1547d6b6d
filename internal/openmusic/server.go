package openmusic

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
)

type Config struct {
	JWTSecret  []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type Server struct {
	store    Store
	cache    *Cache
	rdb      *redis.Client
	producer JobProducer
	cfg      Config
}

func NewServer(store Store, cache *Cache, rdb *redis.Client, producer JobProducer, cfg Config) *Server {
	return &Server{
		store:    store,
		cache:    cache,
		rdb:      rdb,
		producer: producer,
		cfg:      cfg,
	}
}

func (s *Server) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.Get("/health", s.handleHealth)

	r.Post("/users", s.handlePostUser)
	r.Post("/authentications", s.handlePostAuthentication)
	r.Put("/authentications", s.handlePutAuthentication)
	r.Delete("/authentications", s.handleDeleteAuthentication)

	r.Post("/albums", s.handlePostAlbum)
	r.Get("/albums/{id}", s.handleGetAlbum)
	r.Put("/albums/{id}", s.handlePutAlbum)
	r.Delete("/albums/{id}", s.handleDeleteAlbum)
	r.Post("/albums/{id}/covers", s.handlePostAlbumCover)
	r.Get("/albums/{id}/likes", s.handleGetAlbumLikes)

	r.Post("/songs", s.handlePostSong)
	r.Get("/songs", s.handleGetSongs)
	r.Get("/songs/{id}", s.handleGetSongByID)
	r.Put("/songs/{id}", s.handlePutSong)
	r.Delete("/songs/{id}", s.handleDeleteSong)

	r.Group(func(r chi.Router) {
		r.Use(s.authRequired)

		r.Post("/albums/{id}/likes", s.handlePostAlbumLike)
		r.Delete("/albums/{id}/likes", s.handleDeleteAlbumLike)

		r.Post("/playlists", s.handlePostPlaylist)
		r.Get("/playlists", s.handleGetPlaylists)
		r.Delete("/playlists/{id}", s.handleDeletePlaylist)
		r.Post("/playlists/{id}/songs", s.handlePostPlaylistSong)
		r.Get("/playlists/{id}/songs", s.handleGetPlaylistSongs)
		r.Delete("/playlists/{id}/songs", s.handleDeletePlaylistSong)
		r.Get("/playlists/{id}/activities", s.handleGetPlaylistActivities)

		r.Post("/collaborations", s.handlePostCollaboration)
		r.Delete("/collaborations", s.handleDeleteCollaboration)

		r.Post("/export/playlists/{id}", s.handlePostExportPlaylist)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "openmusic",
	})
}

// publishEvent notifies subscribers about a mutation, best-effort.
func (s *Server) publishEvent(ctx context.Context, eventType string, payload any) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(map[string]any{
		"type":    eventType,
		"payload": payload,
	})
	if err != nil {
		log.Printf("openmusic: marshal event: %v", err)
		return
	}
	if err := s.rdb.Publish(ctx, "broadcast", string(data)).Err(); err != nil {
		log.Printf("openmusic: publish event: %v", err)
	}
}
