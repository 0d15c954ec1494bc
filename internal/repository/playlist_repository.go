package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/music-collection/internal/domain"
)

// PlaylistRepository encapsulates playlist persistence scoped by owner.
type PlaylistRepository interface {
	Create(ctx context.Context, playlist *domain.Playlist) error
	List(ctx context.Context, scope domain.Scope, ownerID int64) ([]domain.Playlist, error)
	Get(ctx context.Context, scope domain.Scope, id int64) (*domain.Playlist, error)
	Delete(ctx context.Context, scope domain.Scope, id int64) (*domain.Playlist, error)
}

type playlistRepository struct {
	pool Pool
}

// NewPlaylistRepository instantiates repository.
func NewPlaylistRepository(pool Pool) PlaylistRepository {
	return &playlistRepository{pool: pool}
}

const playlistColumns = `id, name, description, owner_id, created_at`

func (r *playlistRepository) Create(ctx context.Context, playlist *domain.Playlist) error {
	const query = `
        INSERT INTO playlists (name, description, owner_id)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query, playlist.Name, playlist.Description, playlist.OwnerID).
		Scan(&playlist.ID, &playlist.CreatedAt)
}

func (r *playlistRepository) List(ctx context.Context, scope domain.Scope, ownerID int64) ([]domain.Playlist, error) {
	var where whereBuilder
	where.scope(scope)
	if ownerID > 0 {
		where.eq("owner_id", ownerID)
	}

	query := `SELECT ` + playlistColumns + ` FROM playlists` + where.String() + ` ORDER BY id`
	rows, err := r.pool.Query(ctx, query, where.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	playlists := []domain.Playlist{}
	for rows.Next() {
		playlist, err := scanPlaylist(rows)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, *playlist)
	}
	return playlists, rows.Err()
}

func (r *playlistRepository) Get(ctx context.Context, scope domain.Scope, id int64) (*domain.Playlist, error) {
	var where whereBuilder
	where.eq("id", id)
	where.scope(scope)

	query := `SELECT ` + playlistColumns + ` FROM playlists` + where.String()
	return scanPlaylist(r.pool.QueryRow(ctx, query, where.args...))
}

func (r *playlistRepository) Delete(ctx context.Context, scope domain.Scope, id int64) (*domain.Playlist, error) {
	var where whereBuilder
	where.eq("id", id)
	where.scope(scope)

	query := `DELETE FROM playlists` + where.String() + ` RETURNING ` + playlistColumns
	return scanPlaylist(r.pool.QueryRow(ctx, query, where.args...))
}

func scanPlaylist(row pgx.Row) (*domain.Playlist, error) {
	var playlist domain.Playlist
	if err := row.Scan(
		&playlist.ID,
		&playlist.Name,
		&playlist.Description,
		&playlist.OwnerID,
		&playlist.CreatedAt,
	); err != nil {
		return nil, notFoundOr(err)
	}
	return &playlist, nil
}
