package openmusic

import "time"

type Album struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Year     int     `json:"year"`
	CoverURL *string `json:"coverUrl"`
}

type Song struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Year      int     `json:"year"`
	Performer string  `json:"performer"`
	Genre     string  `json:"genre"`
	Duration  *int    `json:"duration"`
	AlbumID   *string `json:"albumId"`
}

// SongSummary is the shape used by song listings (search, album and
// playlist contents).
type SongSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Performer string `json:"performer"`
}

type SongPayload struct {
	Title     string  `json:"title"`
	Year      int     `json:"year"`
	Performer string  `json:"performer"`
	Genre     string  `json:"genre"`
	Duration  *int    `json:"duration"`
	AlbumID   *string `json:"albumId"`
}

type Playlist struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// Activity is one entry of the append-only playlist audit log.
type Activity struct {
	Username string    `json:"username"`
	Title    string    `json:"title"`
	Action   string    `json:"action"`
	Time     time.Time `json:"time"`
}

type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Fullname     string `json:"fullname"`
}

type AuthTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

const (
	actionAdd    = "add"
	actionDelete = "delete"
)
