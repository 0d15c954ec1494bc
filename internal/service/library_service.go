package service

import (
	"context"
	"errors"
	"strings"

	"github.com/spec-kit/music-collection/internal/domain"
	"github.com/spec-kit/music-collection/internal/repository"
	apperrors "github.com/spec-kit/music-collection/pkg/util"
)

// LibraryService manages the artists, albums and playlists of a collection.
//
// Reads and deletes take a domain.Scope chosen by the caller: owner routes
// pass domain.OwnedBy(principal.ID), admin routes pass domain.AllOwners().
// Records outside the scope are reported exactly like missing ones.
type LibraryService struct {
	artists   repository.ArtistRepository
	albums    repository.AlbumRepository
	playlists repository.PlaylistRepository
}

// LibraryDependencies bundles repositories for the library service.
type LibraryDependencies struct {
	ArtistRepo   repository.ArtistRepository
	AlbumRepo    repository.AlbumRepository
	PlaylistRepo repository.PlaylistRepository
}

// NewLibraryService constructs the service.
func NewLibraryService(deps LibraryDependencies) *LibraryService {
	return &LibraryService{
		artists:   deps.ArtistRepo,
		albums:    deps.AlbumRepo,
		playlists: deps.PlaylistRepo,
	}
}

// ArtistInput describes artist create/update payload.
type ArtistInput struct {
	Name  string
	Genre string
}

// AlbumInput describes album creation payload.
type AlbumInput struct {
	Title       string
	ReleaseYear int
	ArtistName  string
}

// PlaylistInput describes playlist creation payload.
type PlaylistInput struct {
	Name        string
	Description *string
}

// CreateArtist stores an artist owned by ownerID.
func (s *LibraryService) CreateArtist(ctx context.Context, ownerID int64, input ArtistInput) (*domain.Artist, error) {
	artist := &domain.Artist{
		Name:    strings.TrimSpace(input.Name),
		Genre:   strings.TrimSpace(input.Genre),
		OwnerID: ownerID,
	}
	if err := s.artists.Create(ctx, artist); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return artist, nil
}

// ListArtists returns artists in scope, optionally narrowed by filter.
func (s *LibraryService) ListArtists(ctx context.Context, scope domain.Scope, filter repository.ArtistFilter) ([]domain.Artist, error) {
	artists, err := s.artists.List(ctx, scope, filter)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return artists, nil
}

// GetArtist fetches a single artist in scope.
func (s *LibraryService) GetArtist(ctx context.Context, scope domain.Scope, id int64) (*domain.Artist, error) {
	artist, err := s.artists.Get(ctx, scope, id)
	if err != nil {
		return nil, recordError("artist", err)
	}
	return artist, nil
}

// UpdateArtist replaces name and genre of an artist in scope. Ownership is never changed.
func (s *LibraryService) UpdateArtist(ctx context.Context, scope domain.Scope, id int64, input ArtistInput) (*domain.Artist, error) {
	artist := &domain.Artist{
		ID:    id,
		Name:  strings.TrimSpace(input.Name),
		Genre: strings.TrimSpace(input.Genre),
	}
	if err := s.artists.Update(ctx, scope, artist); err != nil {
		return nil, recordError("artist", err)
	}
	return artist, nil
}

// DeleteArtist removes an artist in scope.
func (s *LibraryService) DeleteArtist(ctx context.Context, scope domain.Scope, id int64) (*domain.Artist, error) {
	artist, err := s.artists.Delete(ctx, scope, id)
	if err != nil {
		return nil, recordError("artist", err)
	}
	return artist, nil
}

// CreateAlbum stores an album owned by ownerID.
func (s *LibraryService) CreateAlbum(ctx context.Context, ownerID int64, input AlbumInput) (*domain.Album, error) {
	album := &domain.Album{
		Title:       strings.TrimSpace(input.Title),
		ReleaseYear: input.ReleaseYear,
		ArtistName:  strings.TrimSpace(input.ArtistName),
		OwnerID:     ownerID,
	}
	if err := s.albums.Create(ctx, album); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return album, nil
}

// ListAlbums returns albums in scope; ownerID > 0 narrows admin listings.
func (s *LibraryService) ListAlbums(ctx context.Context, scope domain.Scope, ownerID int64) ([]domain.Album, error) {
	albums, err := s.albums.List(ctx, scope, ownerID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return albums, nil
}

// GetAlbum fetches a single album in scope.
func (s *LibraryService) GetAlbum(ctx context.Context, scope domain.Scope, id int64) (*domain.Album, error) {
	album, err := s.albums.Get(ctx, scope, id)
	if err != nil {
		return nil, recordError("album", err)
	}
	return album, nil
}

// DeleteAlbum removes an album in scope.
func (s *LibraryService) DeleteAlbum(ctx context.Context, scope domain.Scope, id int64) (*domain.Album, error) {
	album, err := s.albums.Delete(ctx, scope, id)
	if err != nil {
		return nil, recordError("album", err)
	}
	return album, nil
}

// CreatePlaylist stores a playlist owned by ownerID.
func (s *LibraryService) CreatePlaylist(ctx context.Context, ownerID int64, input PlaylistInput) (*domain.Playlist, error) {
	playlist := &domain.Playlist{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		OwnerID:     ownerID,
	}
	if err := s.playlists.Create(ctx, playlist); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return playlist, nil
}

// ListPlaylists returns playlists in scope; ownerID > 0 narrows admin listings.
func (s *LibraryService) ListPlaylists(ctx context.Context, scope domain.Scope, ownerID int64) ([]domain.Playlist, error) {
	playlists, err := s.playlists.List(ctx, scope, ownerID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return playlists, nil
}

// GetPlaylist fetches a single playlist in scope.
func (s *LibraryService) GetPlaylist(ctx context.Context, scope domain.Scope, id int64) (*domain.Playlist, error) {
	playlist, err := s.playlists.Get(ctx, scope, id)
	if err != nil {
		return nil, recordError("playlist", err)
	}
	return playlist, nil
}

// DeletePlaylist removes a playlist in scope.
func (s *LibraryService) DeletePlaylist(ctx context.Context, scope domain.Scope, id int64) (*domain.Playlist, error) {
	playlist, err := s.playlists.Delete(ctx, scope, id)
	if err != nil {
		return nil, recordError("playlist", err)
	}
	return playlist, nil
}

func recordError(resource string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound(resource, nil)
	}
	return apperrors.NewInternalError(err)
}
