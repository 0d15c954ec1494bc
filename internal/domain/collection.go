package domain

import "time"

// Artist is a performer saved in a user's collection.
type Artist struct {
	ID        int64
	Name      string
	Genre     string
	OwnerID   int64
	CreatedAt time.Time
}

// Album is a release saved in a user's collection.
type Album struct {
	ID          int64
	Title       string
	ReleaseYear int
	ArtistName  string
	OwnerID     int64
	CreatedAt   time.Time
}

// Playlist is a named, user-curated list.
type Playlist struct {
	ID          int64
	Name        string
	Description *string
	OwnerID     int64
	CreatedAt   time.Time
}
