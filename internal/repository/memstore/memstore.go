// Package memstore provides in-memory implementations of the repository
// interfaces. It backs the service when no Postgres DSN is configured and
// is used by tests. Deleting a user removes the user's records, mirroring
// the ON DELETE CASCADE foreign keys of the SQL schema.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/spec-kit/music-collection/internal/domain"
	"github.com/spec-kit/music-collection/internal/repository"
)

// Store holds all records behind a single mutex.
type Store struct {
	mu        sync.Mutex
	nextID    int64
	users     map[int64]domain.User
	artists   map[int64]domain.Artist
	albums    map[int64]domain.Album
	playlists map[int64]domain.Playlist
}

// New returns an empty store.
func New() *Store {
	return &Store{
		users:     make(map[int64]domain.User),
		artists:   make(map[int64]domain.Artist),
		albums:    make(map[int64]domain.Album),
		playlists: make(map[int64]domain.Playlist),
	}
}

// Users returns the user repository view of the store.
func (s *Store) Users() repository.UserRepository { return userRepo{s} }

// Artists returns the artist repository view of the store.
func (s *Store) Artists() repository.ArtistRepository { return artistRepo{s} }

// Albums returns the album repository view of the store.
func (s *Store) Albums() repository.AlbumRepository { return albumRepo{s} }

// Playlists returns the playlist repository view of the store.
func (s *Store) Playlists() repository.PlaylistRepository { return playlistRepo{s} }

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func inScope(scope domain.Scope, ownerID int64) bool {
	want, filtered := scope.OwnerFilter()
	return !filtered || want == ownerID
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Username == user.Username {
			return repository.ErrUsernameTaken
		}
	}
	for _, existing := range r.s.users {
		if existing.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}
	user.ID = r.s.id()
	user.CreatedAt = time.Now().UTC()
	r.s.users[user.ID] = *user
	return nil
}

func (r userRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (r userRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, user := range r.s.users {
		if user.Username == username {
			return &user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r userRepo) List(_ context.Context) ([]domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	users := make([]domain.User, 0, len(r.s.users))
	for _, id := range sortedKeys(r.s.users) {
		users = append(users, r.s.users[id])
	}
	return users, nil
}

func (r userRepo) SetRole(_ context.Context, id int64, role domain.Role) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if user.Role == role {
		return nil, repository.ErrRoleUnchanged
	}
	user.Role = role
	r.s.users[id] = user
	return &user, nil
}

func (r userRepo) UpdatePasswordHash(_ context.Context, id int64, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.PasswordHash = hash
	r.s.users[id] = user
	return nil
}

func (r userRepo) Delete(_ context.Context, id int64) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(r.s.users, id)
	for key, artist := range r.s.artists {
		if artist.OwnerID == id {
			delete(r.s.artists, key)
		}
	}
	for key, album := range r.s.albums {
		if album.OwnerID == id {
			delete(r.s.albums, key)
		}
	}
	for key, playlist := range r.s.playlists {
		if playlist.OwnerID == id {
			delete(r.s.playlists, key)
		}
	}
	return &user, nil
}

type artistRepo struct{ s *Store }

func (r artistRepo) Create(_ context.Context, artist *domain.Artist) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[artist.OwnerID]; !ok {
		return repository.ErrNotFound
	}
	artist.ID = r.s.id()
	artist.CreatedAt = time.Now().UTC()
	r.s.artists[artist.ID] = *artist
	return nil
}

func (r artistRepo) List(_ context.Context, scope domain.Scope, filter repository.ArtistFilter) ([]domain.Artist, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	artists := []domain.Artist{}
	for _, id := range sortedKeys(r.s.artists) {
		artist := r.s.artists[id]
		if !inScope(scope, artist.OwnerID) {
			continue
		}
		if filter.OwnerID > 0 && artist.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Genre != "" && artist.Genre != filter.Genre {
			continue
		}
		artists = append(artists, artist)
	}
	return artists, nil
}

func (r artistRepo) Get(_ context.Context, scope domain.Scope, id int64) (*domain.Artist, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	artist, ok := r.s.artists[id]
	if !ok || !inScope(scope, artist.OwnerID) {
		return nil, repository.ErrNotFound
	}
	return &artist, nil
}

func (r artistRepo) Update(_ context.Context, scope domain.Scope, artist *domain.Artist) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.artists[artist.ID]
	if !ok || !inScope(scope, current.OwnerID) {
		return repository.ErrNotFound
	}
	current.Name = artist.Name
	current.Genre = artist.Genre
	r.s.artists[current.ID] = current
	*artist = current
	return nil
}

func (r artistRepo) Delete(_ context.Context, scope domain.Scope, id int64) (*domain.Artist, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	artist, ok := r.s.artists[id]
	if !ok || !inScope(scope, artist.OwnerID) {
		return nil, repository.ErrNotFound
	}
	delete(r.s.artists, id)
	return &artist, nil
}

type albumRepo struct{ s *Store }

func (r albumRepo) Create(_ context.Context, album *domain.Album) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[album.OwnerID]; !ok {
		return repository.ErrNotFound
	}
	album.ID = r.s.id()
	album.CreatedAt = time.Now().UTC()
	r.s.albums[album.ID] = *album
	return nil
}

func (r albumRepo) List(_ context.Context, scope domain.Scope, ownerID int64) ([]domain.Album, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	albums := []domain.Album{}
	for _, id := range sortedKeys(r.s.albums) {
		album := r.s.albums[id]
		if !inScope(scope, album.OwnerID) || (ownerID > 0 && album.OwnerID != ownerID) {
			continue
		}
		albums = append(albums, album)
	}
	return albums, nil
}

func (r albumRepo) Get(_ context.Context, scope domain.Scope, id int64) (*domain.Album, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	album, ok := r.s.albums[id]
	if !ok || !inScope(scope, album.OwnerID) {
		return nil, repository.ErrNotFound
	}
	return &album, nil
}

func (r albumRepo) Delete(_ context.Context, scope domain.Scope, id int64) (*domain.Album, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	album, ok := r.s.albums[id]
	if !ok || !inScope(scope, album.OwnerID) {
		return nil, repository.ErrNotFound
	}
	delete(r.s.albums, id)
	return &album, nil
}

type playlistRepo struct{ s *Store }

// clonePlaylist detaches the description so stored records never share
// memory with callers.
func clonePlaylist(p domain.Playlist) domain.Playlist {
	if p.Description != nil {
		d := *p.Description
		p.Description = &d
	}
	return p
}

func (r playlistRepo) Create(_ context.Context, playlist *domain.Playlist) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[playlist.OwnerID]; !ok {
		return repository.ErrNotFound
	}
	playlist.ID = r.s.id()
	playlist.CreatedAt = time.Now().UTC()
	r.s.playlists[playlist.ID] = clonePlaylist(*playlist)
	return nil
}

func (r playlistRepo) List(_ context.Context, scope domain.Scope, ownerID int64) ([]domain.Playlist, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	playlists := []domain.Playlist{}
	for _, id := range sortedKeys(r.s.playlists) {
		playlist := r.s.playlists[id]
		if !inScope(scope, playlist.OwnerID) || (ownerID > 0 && playlist.OwnerID != ownerID) {
			continue
		}
		playlists = append(playlists, clonePlaylist(playlist))
	}
	return playlists, nil
}

func (r playlistRepo) Get(_ context.Context, scope domain.Scope, id int64) (*domain.Playlist, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	playlist, ok := r.s.playlists[id]
	if !ok || !inScope(scope, playlist.OwnerID) {
		return nil, repository.ErrNotFound
	}
	playlist = clonePlaylist(playlist)
	return &playlist, nil
}

func (r playlistRepo) Delete(_ context.Context, scope domain.Scope, id int64) (*domain.Playlist, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	playlist, ok := r.s.playlists[id]
	if !ok || !inScope(scope, playlist.OwnerID) {
		return nil, repository.ErrNotFound
	}
	delete(r.s.playlists, id)
	playlist = clonePlaylist(playlist)
	return &playlist, nil
}
