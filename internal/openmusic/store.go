package openmusic

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// Store encapsulates all relational access. The postgres implementation is
// the source of truth; handlers layer the cache on top of it.
type Store interface {
	// Albums
	AddAlbum(ctx context.Context, name string, year int) (string, error)
	GetAlbumByID(ctx context.Context, id string) (*Album, error)
	UpdateAlbum(ctx context.Context, id, name string, year int) error
	DeleteAlbum(ctx context.Context, id string) error
	SetAlbumCover(ctx context.Context, id, coverURL string) error
	AddAlbumLike(ctx context.Context, userID, albumID string) error
	DeleteAlbumLike(ctx context.Context, userID, albumID string) error
	CountAlbumLikes(ctx context.Context, albumID string) (int, error)

	// Songs
	AddSong(ctx context.Context, p SongPayload) (string, error)
	SearchSongs(ctx context.Context, title, performer string) ([]SongSummary, error)
	GetSongByID(ctx context.Context, id string) (*Song, error)
	UpdateSong(ctx context.Context, id string, p SongPayload) error
	DeleteSong(ctx context.Context, id string) (*Song, error)
	SongsByAlbum(ctx context.Context, albumID string) ([]SongSummary, error)

	// Playlists
	AddPlaylist(ctx context.Context, name, username string) (string, error)
	PlaylistsByUser(ctx context.Context, username string) ([]Playlist, error)
	GetPlaylistByID(ctx context.Context, id string) (*Playlist, error)
	DeletePlaylist(ctx context.Context, id string) error
	AddSongToPlaylist(ctx context.Context, playlistID, songID, userID string) error
	DeleteSongFromPlaylist(ctx context.Context, playlistID, songID, userID string) error
	SongsByPlaylist(ctx context.Context, playlistID string) ([]SongSummary, error)
	PlaylistActivities(ctx context.Context, playlistID string) ([]Activity, error)

	// Collaborations
	AddCollaboration(ctx context.Context, playlistID, userID string) (string, error)
	DeleteCollaboration(ctx context.Context, playlistID, userID string) error
	IsCollaborator(ctx context.Context, playlistID, userID string) (bool, error)

	// Users and refresh tokens
	AddUser(ctx context.Context, username, passwordHash, fullname string) (string, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	AddRefreshToken(ctx context.Context, token string) error
	HasRefreshToken(ctx context.Context, token string) (bool, error)
	DeleteRefreshToken(ctx context.Context, token string) error
}

type PostgresStore struct {
	db DB
}

func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func newID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// --- Albums ---

func (s *PostgresStore) AddAlbum(ctx context.Context, name string, year int) (string, error) {
	id := newID("album")
	var out string
	err := s.db.QueryRow(ctx, `
		INSERT INTO album (id, name, year)
		VALUES ($1, $2, $3)
		RETURNING id
	`, id, name, year).Scan(&out)
	if err != nil {
		return "", err
	}
	return out, nil
}

func (s *PostgresStore) GetAlbumByID(ctx context.Context, id string) (*Album, error) {
	var a Album
	err := s.db.QueryRow(ctx, `
		SELECT id, name, year, cover_url
		FROM album
		WHERE id = $1
	`, id).Scan(&a.ID, &a.Name, &a.Year, &a.CoverURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errNotFound("album not found")
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *PostgresStore) UpdateAlbum(ctx context.Context, id, name string, year int) error {
	res, err := s.db.Exec(ctx, `
		UPDATE album SET name = $2, year = $3 WHERE id = $1
	`, id, name, year)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errNotFound("album not found")
	}
	return nil
}

func (s *PostgresStore) DeleteAlbum(ctx context.Context, id string) error {
	res, err := s.db.Exec(ctx, `DELETE FROM album WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errNotFound("album not found")
	}
	return nil
}

func (s *PostgresStore) SetAlbumCover(ctx context.Context, id, coverURL string) error {
	res, err := s.db.Exec(ctx, `
		UPDATE album SET cover_url = $2 WHERE id = $1
	`, id, coverURL)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errNotFound("album not found")
	}
	return nil
}

// AddAlbumLike relies on the UNIQUE(user_id, album_id) constraint instead of
// a read-then-insert check, so concurrent likes cannot both slip through.
func (s *PostgresStore) AddAlbumLike(ctx context.Context, userID, albumID string) error {
	res, err := s.db.Exec(ctx, `
		INSERT INTO user_album_likes (id, user_id, album_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, album_id) DO NOTHING
	`, newID("like"), userID, albumID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errInvariant("album already liked")
	}
	return nil
}

func (s *PostgresStore) DeleteAlbumLike(ctx context.Context, userID, albumID string) error {
	res, err := s.db.Exec(ctx, `
		DELETE FROM user_album_likes WHERE user_id = $1 AND album_id = $2
	`, userID, albumID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errNotFound("like not found")
	}
	return nil
}

func (s *PostgresStore) CountAlbumLikes(ctx context.Context, albumID string) (int, error) {
	var n int
	err := s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM user_album_likes WHERE album_id = $1
	`, albumID).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// --- Songs ---

func (s *PostgresStore) AddSong(ctx context.Context, p SongPayload) (string, error) {
	id := newID("song")
	var out string
	err := s.db.QueryRow(ctx, `
		INSERT INTO songs (id, title, year, performer, genre, duration, album_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, id, p.Title, p.Year, p.Performer, p.Genre, p.Duration, p.AlbumID).Scan(&out)
	if err != nil {
		return "", err
	}
	return out, nil
}

func (s *PostgresStore) SearchSongs(ctx context.Context, title, performer string) ([]SongSummary, error) {
	var (
		rows pgx.Rows
		err  error
	)
	switch {
	case title != "" && performer != "":
		rows, err = s.db.Query(ctx, `
			SELECT id, title, performer FROM songs
			WHERE title ILIKE $1 AND performer ILIKE $2
		`, "%"+title+"%", "%"+performer+"%")
	case title != "" || performer != "":
		rows, err = s.db.Query(ctx, `
			SELECT id, title, performer FROM songs
			WHERE title ILIKE $1 OR performer ILIKE $2
		`, "%"+title+"%", "%"+performer+"%")
	default:
		rows, err = s.db.Query(ctx, `SELECT id, title, performer FROM songs`)
	}
	if err != nil {
		return nil, err
	}
	return scanSongSummaries(rows)
}

func (s *PostgresStore) GetSongByID(ctx context.Context, id string) (*Song, error) {
	var sg Song
	err := s.db.QueryRow(ctx, `
		SELECT id, title, year, performer, genre, duration, album_id
		FROM songs
		WHERE id = $1
	`, id).Scan(&sg.ID, &sg.Title, &sg.Year, &sg.Performer, &sg.Genre, &sg.Duration, &sg.AlbumID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errNotFound("song not found")
	}
	if err != nil {
		return nil, err
	}
	return &sg, nil
}

func (s *PostgresStore) UpdateSong(ctx context.Context, id string, p SongPayload) error {
	res, err := s.db.Exec(ctx, `
		UPDATE songs
		SET title = $2, year = $3, performer = $4, genre = $5, duration = $6, album_id = $7
		WHERE id = $1
	`, id, p.Title, p.Year, p.Performer, p.Genre, p.Duration, p.AlbumID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errNotFound("song not found")
	}
	return nil
}

// DeleteSong returns the deleted row so the caller can derive the cache keys
// to invalidate.
func (s *PostgresStore) DeleteSong(ctx context.Context, id string) (*Song, error) {
	var sg Song
	err := s.db.QueryRow(ctx, `
		DELETE FROM songs WHERE id = $1
		RETURNING id, title, year, performer, genre, duration, album_id
	`, id).Scan(&sg.ID, &sg.Title, &sg.Year, &sg.Performer, &sg.Genre, &sg.Duration, &sg.AlbumID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errNotFound("song not found")
	}
	if err != nil {
		return nil, err
	}
	return &sg, nil
}

func (s *PostgresStore) SongsByAlbum(ctx context.Context, albumID string) ([]SongSummary, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, title, performer FROM songs WHERE album_id = $1
	`, albumID)
	if err != nil {
		return nil, err
	}
	return scanSongSummaries(rows)
}

// --- Playlists ---

func (s *PostgresStore) AddPlaylist(ctx context.Context, name, username string) (string, error) {
	id := newID("playlist")
	var out string
	err := s.db.QueryRow(ctx, `
		INSERT INTO playlists (id, name, username)
		VALUES ($1, $2, $3)
		RETURNING id
	`, id, name, username).Scan(&out)
	if err != nil {
		return "", err
	}
	return out, nil
}

// PlaylistsByUser lists playlists the user owns or collaborates on.
func (s *PostgresStore) PlaylistsByUser(ctx context.Context, username string) ([]Playlist, error) {
	rows, err := s.db.Query(ctx, `
		SELECT DISTINCT p.id, p.name, p.username
		FROM playlists p
		LEFT JOIN collaborations c ON c.playlist_id = p.id
		WHERE p.username = $1 OR c.user_id = $1
	`, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	playlists := []Playlist{}
	for rows.Next() {
		var p Playlist
		if err := rows.Scan(&p.ID, &p.Name, &p.Username); err != nil {
			return nil, err
		}
		playlists = append(playlists, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return playlists, nil
}

func (s *PostgresStore) GetPlaylistByID(ctx context.Context, id string) (*Playlist, error) {
	var p Playlist
	err := s.db.QueryRow(ctx, `
		SELECT id, name, username FROM playlists WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Username)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errNotFound("playlist not found")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) DeletePlaylist(ctx context.Context, id string) error {
	res, err := s.db.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errNotFound("playlist not found")
	}
	return nil
}

// AddSongToPlaylist inserts the membership row and its audit entry in one
// transaction, so the log cannot diverge from the join table.
func (s *PostgresStore) AddSongToPlaylist(ctx context.Context, playlistID, songID, userID string) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO playlist_songs (id, playlist_id, song_id)
		VALUES ($1, $2, $3)
	`, newID("playlist_song"), playlistID, songID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return errInvariant("song already in playlist")
		}
		return err
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO playlist_song_activities (id, playlist_id, song_id, user_id, action)
		VALUES ($1, $2, $3, $4, $5)
	`, newID("activity"), playlistID, songID, userID, actionAdd); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) DeleteSongFromPlaylist(ctx context.Context, playlistID, songID, userID string) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	res, err := tx.Exec(ctx, `
		DELETE FROM playlist_songs WHERE playlist_id = $1 AND song_id = $2
	`, playlistID, songID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errNotFound("song not found in playlist")
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO playlist_song_activities (id, playlist_id, song_id, user_id, action)
		VALUES ($1, $2, $3, $4, $5)
	`, newID("activity"), playlistID, songID, userID, actionDelete); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) SongsByPlaylist(ctx context.Context, playlistID string) ([]SongSummary, error) {
	rows, err := s.db.Query(ctx, `
		SELECT s.id, s.title, s.performer
		FROM songs s
		JOIN playlist_songs ps ON ps.song_id = s.id
		WHERE ps.playlist_id = $1
	`, playlistID)
	if err != nil {
		return nil, err
	}
	return scanSongSummaries(rows)
}

func (s *PostgresStore) PlaylistActivities(ctx context.Context, playlistID string) ([]Activity, error) {
	rows, err := s.db.Query(ctx, `
		SELECT a.user_id, s.title, a.action, a.time
		FROM playlist_song_activities a
		JOIN songs s ON s.id = a.song_id
		WHERE a.playlist_id = $1
		ORDER BY a.time ASC
	`, playlistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := []Activity{}
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.Username, &a.Title, &a.Action, &a.Time); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return activities, nil
}

// --- Collaborations ---

func (s *PostgresStore) AddCollaboration(ctx context.Context, playlistID, userID string) (string, error) {
	id := newID("collab")
	var out string
	err := s.db.QueryRow(ctx, `
		INSERT INTO collaborations (id, playlist_id, user_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`, id, playlistID, userID).Scan(&out)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return "", errInvariant("user is already a collaborator")
		}
		return "", err
	}
	return out, nil
}

func (s *PostgresStore) DeleteCollaboration(ctx context.Context, playlistID, userID string) error {
	res, err := s.db.Exec(ctx, `
		DELETE FROM collaborations WHERE playlist_id = $1 AND user_id = $2
	`, playlistID, userID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errNotFound("collaboration not found")
	}
	return nil
}

func (s *PostgresStore) IsCollaborator(ctx context.Context, playlistID, userID string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM collaborations WHERE playlist_id = $1 AND user_id = $2)
	`, playlistID, userID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// --- Users and refresh tokens ---

// AddUser uses the username itself as the primary key.
func (s *PostgresStore) AddUser(ctx context.Context, username, passwordHash, fullname string) (string, error) {
	var out string
	err := s.db.QueryRow(ctx, `
		INSERT INTO users (id, password, fullname)
		VALUES ($1, $2, $3)
		RETURNING id
	`, username, passwordHash, fullname).Scan(&out)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return "", errInvariant("username already taken")
		}
		return "", err
	}
	return out, nil
}

func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	err := s.db.QueryRow(ctx, `
		SELECT id, password, fullname FROM users WHERE id = $1
	`, username).Scan(&u.Username, &u.PasswordHash, &u.Fullname)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errNotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *PostgresStore) AddRefreshToken(ctx context.Context, token string) error {
	_, err := s.db.Exec(ctx, `INSERT INTO authentications (token) VALUES ($1)`, token)
	return err
}

func (s *PostgresStore) HasRefreshToken(ctx context.Context, token string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM authentications WHERE token = $1)
	`, token).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (s *PostgresStore) DeleteRefreshToken(ctx context.Context, token string) error {
	res, err := s.db.Exec(ctx, `DELETE FROM authentications WHERE token = $1`, token)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errInvariant("refresh token not registered")
	}
	return nil
}

func scanSongSummaries(rows pgx.Rows) ([]SongSummary, error) {
	defer rows.Close()

	songs := []SongSummary{}
	for rows.Next() {
		var sg SongSummary
		if err := rows.Scan(&sg.ID, &sg.Title, &sg.Performer); err != nil {
			return nil, err
		}
		songs = append(songs, sg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return songs, nil
}
