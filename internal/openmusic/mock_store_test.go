package openmusic

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) AddAlbum(ctx context.Context, name string, year int) (string, error) {
	args := m.Called(ctx, name, year)
	return args.String(0), args.Error(1)
}

func (m *MockStore) GetAlbumByID(ctx context.Context, id string) (*Album, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Album), args.Error(1)
}

func (m *MockStore) UpdateAlbum(ctx context.Context, id, name string, year int) error {
	args := m.Called(ctx, id, name, year)
	return args.Error(0)
}

func (m *MockStore) DeleteAlbum(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore) SetAlbumCover(ctx context.Context, id, coverURL string) error {
	args := m.Called(ctx, id, coverURL)
	return args.Error(0)
}

func (m *MockStore) AddAlbumLike(ctx context.Context, userID, albumID string) error {
	args := m.Called(ctx, userID, albumID)
	return args.Error(0)
}

func (m *MockStore) DeleteAlbumLike(ctx context.Context, userID, albumID string) error {
	args := m.Called(ctx, userID, albumID)
	return args.Error(0)
}

func (m *MockStore) CountAlbumLikes(ctx context.Context, albumID string) (int, error) {
	args := m.Called(ctx, albumID)
	return args.Int(0), args.Error(1)
}

func (m *MockStore) AddSong(ctx context.Context, p SongPayload) (string, error) {
	args := m.Called(ctx, p)
	return args.String(0), args.Error(1)
}

func (m *MockStore) SearchSongs(ctx context.Context, title, performer string) ([]SongSummary, error) {
	args := m.Called(ctx, title, performer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]SongSummary), args.Error(1)
}

func (m *MockStore) GetSongByID(ctx context.Context, id string) (*Song, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Song), args.Error(1)
}

func (m *MockStore) UpdateSong(ctx context.Context, id string, p SongPayload) error {
	args := m.Called(ctx, id, p)
	return args.Error(0)
}

func (m *MockStore) DeleteSong(ctx context.Context, id string) (*Song, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Song), args.Error(1)
}

func (m *MockStore) SongsByAlbum(ctx context.Context, albumID string) ([]SongSummary, error) {
	args := m.Called(ctx, albumID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]SongSummary), args.Error(1)
}

func (m *MockStore) AddPlaylist(ctx context.Context, name, username string) (string, error) {
	args := m.Called(ctx, name, username)
	return args.String(0), args.Error(1)
}

func (m *MockStore) PlaylistsByUser(ctx context.Context, username string) ([]Playlist, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Playlist), args.Error(1)
}

func (m *MockStore) GetPlaylistByID(ctx context.Context, id string) (*Playlist, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Playlist), args.Error(1)
}

func (m *MockStore) DeletePlaylist(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore) AddSongToPlaylist(ctx context.Context, playlistID, songID, userID string) error {
	args := m.Called(ctx, playlistID, songID, userID)
	return args.Error(0)
}

func (m *MockStore) DeleteSongFromPlaylist(ctx context.Context, playlistID, songID, userID string) error {
	args := m.Called(ctx, playlistID, songID, userID)
	return args.Error(0)
}

func (m *MockStore) SongsByPlaylist(ctx context.Context, playlistID string) ([]SongSummary, error) {
	args := m.Called(ctx, playlistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]SongSummary), args.Error(1)
}

func (m *MockStore) PlaylistActivities(ctx context.Context, playlistID string) ([]Activity, error) {
	args := m.Called(ctx, playlistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Activity), args.Error(1)
}

func (m *MockStore) AddCollaboration(ctx context.Context, playlistID, userID string) (string, error) {
	args := m.Called(ctx, playlistID, userID)
	return args.String(0), args.Error(1)
}

func (m *MockStore) DeleteCollaboration(ctx context.Context, playlistID, userID string) error {
	args := m.Called(ctx, playlistID, userID)
	return args.Error(0)
}

func (m *MockStore) IsCollaborator(ctx context.Context, playlistID, userID string) (bool, error) {
	args := m.Called(ctx, playlistID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) AddUser(ctx context.Context, username, passwordHash, fullname string) (string, error) {
	args := m.Called(ctx, username, passwordHash, fullname)
	return args.String(0), args.Error(1)
}

func (m *MockStore) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockStore) AddRefreshToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockStore) HasRefreshToken(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) DeleteRefreshToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}
