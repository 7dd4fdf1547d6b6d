package openmusic

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func doAuthed(t *testing.T, s *Server, method, target, username, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Authorization", bearerFor(t, s, username))
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func TestHandlePostPlaylist(t *testing.T) {
	t.Run("requires auth", func(t *testing.T) {
		s := newTestServer(&MockStore{})
		w := httptest.NewRecorder()
		s.Router().ServeHTTP(w, httptest.NewRequest("POST", "/playlists",
			bytes.NewBufferString(`{"name":"Road Trip"}`)))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("created for the token's user", func(t *testing.T) {
		store := &MockStore{}
		store.On("AddPlaylist", mock.Anything, "Road Trip", "alice").Return("playlist-1", nil)
		s := newTestServer(store)

		w := doAuthed(t, s, "POST", "/playlists", "alice", `{"name":"Road Trip"}`)
		require.Equal(t, http.StatusCreated, w.Code)

		var resp struct {
			Data struct {
				PlaylistID string `json:"playlistId"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "playlist-1", resp.Data.PlaylistID)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		s := newTestServer(&MockStore{})
		w := doAuthed(t, s, "POST", "/playlists", "alice", `{"name":"   "}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleGetPlaylists(t *testing.T) {
	playlists := []Playlist{
		{ID: "playlist-1", Name: "Road Trip", Username: "alice"},
		{ID: "playlist-2", Name: "Focus", Username: "bob"},
	}

	store := &MockStore{}
	store.On("PlaylistsByUser", mock.Anything, "alice").Return(playlists, nil).Once()
	s, _ := newCachedTestServer(t, store)

	w := doAuthed(t, s, "GET", "/playlists", "alice", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, sourceDatabase, w.Header().Get("X-Data-Source"))

	var resp struct {
		Data struct {
			Playlists []Playlist `json:"playlists"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Playlists, 2)
	assert.Equal(t, "bob", resp.Data.Playlists[1].Username)

	// second call served from cache
	w = doAuthed(t, s, "GET", "/playlists", "alice", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, sourceCache, w.Header().Get("X-Data-Source"))
	store.AssertExpectations(t)
}

func TestHandleDeletePlaylist(t *testing.T) {
	playlist := &Playlist{ID: "playlist-1", Name: "Road Trip", Username: "alice"}

	t.Run("owner deletes", func(t *testing.T) {
		store := &MockStore{}
		store.On("GetPlaylistByID", mock.Anything, "playlist-1").Return(playlist, nil)
		store.On("DeletePlaylist", mock.Anything, "playlist-1").Return(nil)
		s := newTestServer(store)

		w := doAuthed(t, s, "DELETE", "/playlists/playlist-1", "alice", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("collaborator may not delete", func(t *testing.T) {
		store := &MockStore{}
		store.On("GetPlaylistByID", mock.Anything, "playlist-1").Return(playlist, nil)
		s := newTestServer(store)

		w := doAuthed(t, s, "DELETE", "/playlists/playlist-1", "bob", "")
		assert.Equal(t, http.StatusForbidden, w.Code)
		store.AssertNotCalled(t, "DeletePlaylist", mock.Anything, "playlist-1")
		store.AssertNotCalled(t, "IsCollaborator", mock.Anything, "playlist-1", "bob")
	})

	t.Run("missing playlist is 404", func(t *testing.T) {
		store := &MockStore{}
		store.On("GetPlaylistByID", mock.Anything, "playlist-x").Return(nil, errNotFound("playlist not found"))
		s := newTestServer(store)

		w := doAuthed(t, s, "DELETE", "/playlists/playlist-x", "alice", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandlePostPlaylistSong(t *testing.T) {
	playlist := &Playlist{ID: "playlist-1", Name: "Road Trip", Username: "alice"}
	song := &Song{ID: "song-1", Title: "Kota", Year: 2020, Performer: "Dere"}

	t.Run("owner adds a song", func(t *testing.T) {
		store := &MockStore{}
		store.On("GetSongByID", mock.Anything, "song-1").Return(song, nil)
		store.On("GetPlaylistByID", mock.Anything, "playlist-1").Return(playlist, nil)
		store.On("AddSongToPlaylist", mock.Anything, "playlist-1", "song-1", "alice").Return(nil)
		s := newTestServer(store)

		w := doAuthed(t, s, "POST", "/playlists/playlist-1/songs", "alice", `{"songId":"song-1"}`)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("collaborator adds a song", func(t *testing.T) {
		store := &MockStore{}
		store.On("GetSongByID", mock.Anything, "song-1").Return(song, nil)
		store.On("GetPlaylistByID", mock.Anything, "playlist-1").Return(playlist, nil)
		store.On("IsCollaborator", mock.Anything, "playlist-1", "bob").Return(true, nil)
		store.On("AddSongToPlaylist", mock.Anything, "playlist-1", "song-1", "bob").Return(nil)
		s := newTestServer(store)

		w := doAuthed(t, s, "POST", "/playlists/playlist-1/songs", "bob", `{"songId":"song-1"}`)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("unknown song is 404 before any access check", func(t *testing.T) {
		store := &MockStore{}
		store.On("GetSongByID", mock.Anything, "song-x").Return(nil, errNotFound("song not found"))
		s := newTestServer(store)

		w := doAuthed(t, s, "POST", "/playlists/playlist-1/songs", "alice", `{"songId":"song-x"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
		store.AssertNotCalled(t, "GetPlaylistByID", mock.Anything, "playlist-1")
	})

	t.Run("outsider is 403", func(t *testing.T) {
		store := &MockStore{}
		store.On("GetSongByID", mock.Anything, "song-1").Return(song, nil)
		store.On("GetPlaylistByID", mock.Anything, "playlist-1").Return(playlist, nil)
		store.On("IsCollaborator", mock.Anything, "playlist-1", "mallory").Return(false, nil)
		s := newTestServer(store)

		w := doAuthed(t, s, "POST", "/playlists/playlist-1/songs", "mallory", `{"songId":"song-1"}`)
		assert.Equal(t, http.StatusForbidden, w.Code)
		store.AssertNotCalled(t, "AddSongToPlaylist", mock.Anything, "playlist-1", "song-1", "mallory")
	})

	t.Run("duplicate membership is 400", func(t *testing.T) {
		store := &MockStore{}
		store.On("GetSongByID", mock.Anything, "song-1").Return(song, nil)
		store.On("GetPlaylistByID", mock.Anything, "playlist-1").Return(playlist, nil)
		store.On("AddSongToPlaylist", mock.Anything, "playlist-1", "song-1", "alice").
			Return(errInvariant("song already in playlist"))
		s := newTestServer(store)

		w := doAuthed(t, s, "POST", "/playlists/playlist-1/songs", "alice", `{"songId":"song-1"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleGetPlaylistSongs(t *testing.T) {
	playlist := &Playlist{ID: "playlist-1", Name: "Road Trip", Username: "alice"}
	songs := []SongSummary{{ID: "song-1", Title: "Kota", Performer: "Dere"}}

	store := &MockStore{}
	store.On("GetPlaylistByID", mock.Anything, "playlist-1").Return(playlist, nil)
	store.On("SongsByPlaylist", mock.Anything, "playlist-1").Return(songs, nil).Once()
	s, _ := newCachedTestServer(t, store)

	w := doAuthed(t, s, "GET", "/playlists/playlist-1/songs", "alice", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Playlist struct {
				ID       string        `json:"id"`
				Name     string        `json:"name"`
				Username string        `json:"username"`
				Songs    []SongSummary `json:"songs"`
			} `json:"playlist"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Road Trip", resp.Data.Playlist.Name)
	assert.Equal(t, "alice", resp.Data.Playlist.Username)
	require.Len(t, resp.Data.Playlist.Songs, 1)
	assert.Equal(t, "Kota", resp.Data.Playlist.Songs[0].Title)

	// songs are cached; access control still runs on every request
	w = doAuthed(t, s, "GET", "/playlists/playlist-1/songs", "alice", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, sourceCache, w.Header().Get("X-Data-Source"))
	store.AssertExpectations(t)
}

func TestHandleDeletePlaylistSong(t *testing.T) {
	playlist := &Playlist{ID: "playlist-1", Name: "Road Trip", Username: "alice"}

	t.Run("removes and invalidates", func(t *testing.T) {
		store := &MockStore{}
		store.On("GetPlaylistByID", mock.Anything, "playlist-1").Return(playlist, nil)
		store.On("DeleteSongFromPlaylist", mock.Anything, "playlist-1", "song-1", "alice").Return(nil)
		store.On("SongsByPlaylist", mock.Anything, "playlist-1").Return([]SongSummary{}, nil)
		s, mr := newCachedTestServer(t, store)

		require.NoError(t, mr.Set(playlistSongsKey("playlist-1"), `[{"id":"song-1"}]`))

		w := doAuthed(t, s, "DELETE", "/playlists/playlist-1/songs", "alice", `{"songId":"song-1"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.False(t, mr.Exists(playlistSongsKey("playlist-1")))
	})

	t.Run("song not in playlist is 404", func(t *testing.T) {
		store := &MockStore{}
		store.On("GetPlaylistByID", mock.Anything, "playlist-1").Return(playlist, nil)
		store.On("DeleteSongFromPlaylist", mock.Anything, "playlist-1", "song-x", "alice").
			Return(errNotFound("song not found in playlist"))
		s := newTestServer(store)

		w := doAuthed(t, s, "DELETE", "/playlists/playlist-1/songs", "alice", `{"songId":"song-x"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandleGetPlaylistActivities(t *testing.T) {
	playlist := &Playlist{ID: "playlist-1", Name: "Road Trip", Username: "alice"}
	now := time.Now().UTC()
	activities := []Activity{
		{Username: "alice", Title: "Kota", Action: actionAdd, Time: now.Add(-2 * time.Minute)},
		{Username: "bob", Title: "Kota", Action: actionDelete, Time: now},
	}

	store := &MockStore{}
	store.On("GetPlaylistByID", mock.Anything, "playlist-1").Return(playlist, nil)
	store.On("IsCollaborator", mock.Anything, "playlist-1", "bob").Return(true, nil)
	store.On("PlaylistActivities", mock.Anything, "playlist-1").Return(activities, nil)
	s := newTestServer(store)

	// collaborators can read the activity log too
	w := doAuthed(t, s, "GET", "/playlists/playlist-1/activities", "bob", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			PlaylistID string     `json:"playlistId"`
			Activities []Activity `json:"activities"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "playlist-1", resp.Data.PlaylistID)
	require.Len(t, resp.Data.Activities, 2)
	assert.Equal(t, actionAdd, resp.Data.Activities[0].Action)
	assert.Equal(t, actionDelete, resp.Data.Activities[1].Action)
}
