package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/music-collection/internal/domain"
)

// AlbumRepository encapsulates album persistence scoped by owner.
type AlbumRepository interface {
	Create(ctx context.Context, album *domain.Album) error
	List(ctx context.Context, scope domain.Scope, ownerID int64) ([]domain.Album, error)
	Get(ctx context.Context, scope domain.Scope, id int64) (*domain.Album, error)
	Delete(ctx context.Context, scope domain.Scope, id int64) (*domain.Album, error)
}

type albumRepository struct {
	pool Pool
}

// NewAlbumRepository instantiates repository.
func NewAlbumRepository(pool Pool) AlbumRepository {
	return &albumRepository{pool: pool}
}

const albumColumns = `id, title, release_year, artist_name, owner_id, created_at`

func (r *albumRepository) Create(ctx context.Context, album *domain.Album) error {
	const query = `
        INSERT INTO albums (title, release_year, artist_name, owner_id)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query, album.Title, album.ReleaseYear, album.ArtistName, album.OwnerID).
		Scan(&album.ID, &album.CreatedAt)
}

// List returns albums in scope; a positive ownerID further narrows the result.
func (r *albumRepository) List(ctx context.Context, scope domain.Scope, ownerID int64) ([]domain.Album, error) {
	var where whereBuilder
	where.scope(scope)
	if ownerID > 0 {
		where.eq("owner_id", ownerID)
	}

	query := `SELECT ` + albumColumns + ` FROM albums` + where.String() + ` ORDER BY id`
	rows, err := r.pool.Query(ctx, query, where.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	albums := []domain.Album{}
	for rows.Next() {
		album, err := scanAlbum(rows)
		if err != nil {
			return nil, err
		}
		albums = append(albums, *album)
	}
	return albums, rows.Err()
}

func (r *albumRepository) Get(ctx context.Context, scope domain.Scope, id int64) (*domain.Album, error) {
	var where whereBuilder
	where.eq("id", id)
	where.scope(scope)

	query := `SELECT ` + albumColumns + ` FROM albums` + where.String()
	return scanAlbum(r.pool.QueryRow(ctx, query, where.args...))
}

func (r *albumRepository) Delete(ctx context.Context, scope domain.Scope, id int64) (*domain.Album, error) {
	var where whereBuilder
	where.eq("id", id)
	where.scope(scope)

	query := `DELETE FROM albums` + where.String() + ` RETURNING ` + albumColumns
	return scanAlbum(r.pool.QueryRow(ctx, query, where.args...))
}

func scanAlbum(row pgx.Row) (*domain.Album, error) {
	var album domain.Album
	if err := row.Scan(
		&album.ID,
		&album.Title,
		&album.ReleaseYear,
		&album.ArtistName,
		&album.OwnerID,
		&album.CreatedAt,
	); err != nil {
		return nil, notFoundOr(err)
	}
	return &album, nil
}
