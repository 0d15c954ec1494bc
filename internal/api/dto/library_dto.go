package dto

import (
	"time"

	"github.com/spec-kit/music-collection/internal/domain"
)

// ArtistRequest is the create/update payload for artists.
type ArtistRequest struct {
	Name  string `json:"name"`
	Genre string `json:"genre"`
}

// Validate checks field bounds.
func (r ArtistRequest) Validate() error {
	var v validator
	v.text("name", r.Name, 1, 200)
	v.text("genre", r.Genre, 1, 100)
	return v.err()
}

// AlbumRequest is the create payload for albums.
type AlbumRequest struct {
	Title       string `json:"title"`
	ReleaseYear int    `json:"release_year"`
	ArtistName  string `json:"artist_name"`
}

// Validate checks field bounds.
func (r AlbumRequest) Validate() error {
	var v validator
	v.text("title", r.Title, 1, 200)
	v.between("release_year", r.ReleaseYear, 1901, 2099)
	v.text("artist_name", r.ArtistName, 1, 200)
	return v.err()
}

// PlaylistRequest is the create payload for playlists.
type PlaylistRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// Validate checks field bounds.
func (r PlaylistRequest) Validate() error {
	var v validator
	v.text("name", r.Name, 1, 200)
	if r.Description != nil {
		v.length("description", *r.Description, 0, 1000)
	}
	return v.err()
}

// ArtistResponse is the public view of an artist.
type ArtistResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Genre     string    `json:"genre"`
	OwnerID   int64     `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// AlbumResponse is the public view of an album.
type AlbumResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	ReleaseYear int       `json:"release_year"`
	ArtistName  string    `json:"artist_name"`
	OwnerID     int64     `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// PlaylistResponse is the public view of a playlist.
type PlaylistResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	OwnerID     int64     `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewArtistResponse(a *domain.Artist) ArtistResponse {
	return ArtistResponse{ID: a.ID, Name: a.Name, Genre: a.Genre, OwnerID: a.OwnerID, CreatedAt: a.CreatedAt}
}

func NewAlbumResponse(a *domain.Album) AlbumResponse {
	return AlbumResponse{
		ID:          a.ID,
		Title:       a.Title,
		ReleaseYear: a.ReleaseYear,
		ArtistName:  a.ArtistName,
		OwnerID:     a.OwnerID,
		CreatedAt:   a.CreatedAt,
	}
}

func NewPlaylistResponse(p *domain.Playlist) PlaylistResponse {
	return PlaylistResponse{ID: p.ID, Name: p.Name, Description: p.Description, OwnerID: p.OwnerID, CreatedAt: p.CreatedAt}
}

// NewArtistList maps a slice of artists.
func NewArtistList(artists []domain.Artist) []ArtistResponse {
	out := make([]ArtistResponse, 0, len(artists))
	for i := range artists {
		out = append(out, NewArtistResponse(&artists[i]))
	}
	return out
}

// NewAlbumList maps a slice of albums.
func NewAlbumList(albums []domain.Album) []AlbumResponse {
	out := make([]AlbumResponse, 0, len(albums))
	for i := range albums {
		out = append(out, NewAlbumResponse(&albums[i]))
	}
	return out
}

// NewPlaylistList maps a slice of playlists.
func NewPlaylistList(playlists []domain.Playlist) []PlaylistResponse {
	out := make([]PlaylistResponse, 0, len(playlists))
	for i := range playlists {
		out = append(out, NewPlaylistResponse(&playlists[i]))
	}
	return out
}
