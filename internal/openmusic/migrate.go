package openmusic

import (
	"context"
)

// AutoMigrate creates the schema. The likes table carries the
// UNIQUE(user_id, album_id) constraint that backs conflict-aware inserts;
// songs reference album without a foreign key on purpose (deleting an album
// must not cascade into songs).
func AutoMigrate(ctx context.Context, db DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id       TEXT PRIMARY KEY,
			password TEXT NOT NULL,
			fullname TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS authentications (
			token TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS album (
			id        TEXT PRIMARY KEY,
			name      TEXT NOT NULL,
			year      INT NOT NULL,
			cover_url TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS songs (
			id        TEXT PRIMARY KEY,
			title     TEXT NOT NULL,
			year      INT NOT NULL,
			performer TEXT NOT NULL,
			genre     TEXT NOT NULL,
			duration  INT,
			album_id  TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS playlists (
			id       TEXT PRIMARY KEY,
			name     TEXT NOT NULL,
			username TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS playlist_songs (
			id          TEXT PRIMARY KEY,
			playlist_id TEXT NOT NULL REFERENCES playlists(id) ON DELETE CASCADE,
			song_id     TEXT NOT NULL REFERENCES songs(id) ON DELETE CASCADE,
			UNIQUE (playlist_id, song_id)
		)`,
		`CREATE TABLE IF NOT EXISTS collaborations (
			id          TEXT PRIMARY KEY,
			playlist_id TEXT NOT NULL REFERENCES playlists(id) ON DELETE CASCADE,
			user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			UNIQUE (playlist_id, user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS playlist_song_activities (
			id          TEXT PRIMARY KEY,
			playlist_id TEXT NOT NULL REFERENCES playlists(id) ON DELETE CASCADE,
			song_id     TEXT NOT NULL,
			user_id     TEXT NOT NULL,
			action      TEXT NOT NULL,
			time        TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS user_album_likes (
			id       TEXT PRIMARY KEY,
			user_id  TEXT NOT NULL,
			album_id TEXT NOT NULL,
			UNIQUE (user_id, album_id)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
