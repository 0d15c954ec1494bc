package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/music-collection/internal/domain"
)

// ArtistFilter narrows artist listings. Zero fields are ignored.
type ArtistFilter struct {
	Genre   string
	OwnerID int64
}

// ArtistRepository encapsulates artist persistence. Every read and mutation
// by id is constrained by a domain.Scope; rows outside it surface as ErrNotFound.
type ArtistRepository interface {
	Create(ctx context.Context, artist *domain.Artist) error
	List(ctx context.Context, scope domain.Scope, filter ArtistFilter) ([]domain.Artist, error)
	Get(ctx context.Context, scope domain.Scope, id int64) (*domain.Artist, error)
	Update(ctx context.Context, scope domain.Scope, artist *domain.Artist) error
	Delete(ctx context.Context, scope domain.Scope, id int64) (*domain.Artist, error)
}

type artistRepository struct {
	pool Pool
}

// NewArtistRepository instantiates repository.
func NewArtistRepository(pool Pool) ArtistRepository {
	return &artistRepository{pool: pool}
}

const artistColumns = `id, name, genre, owner_id, created_at`

func (r *artistRepository) Create(ctx context.Context, artist *domain.Artist) error {
	const query = `
        INSERT INTO artists (name, genre, owner_id)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query, artist.Name, artist.Genre, artist.OwnerID).
		Scan(&artist.ID, &artist.CreatedAt)
}

func (r *artistRepository) List(ctx context.Context, scope domain.Scope, filter ArtistFilter) ([]domain.Artist, error) {
	var where whereBuilder
	where.scope(scope)
	if filter.OwnerID > 0 {
		where.eq("owner_id", filter.OwnerID)
	}
	if filter.Genre != "" {
		where.eq("genre", filter.Genre)
	}

	query := `SELECT ` + artistColumns + ` FROM artists` + where.String() + ` ORDER BY id`
	rows, err := r.pool.Query(ctx, query, where.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	artists := []domain.Artist{}
	for rows.Next() {
		artist, err := scanArtist(rows)
		if err != nil {
			return nil, err
		}
		artists = append(artists, *artist)
	}
	return artists, rows.Err()
}

func (r *artistRepository) Get(ctx context.Context, scope domain.Scope, id int64) (*domain.Artist, error) {
	var where whereBuilder
	where.eq("id", id)
	where.scope(scope)

	query := `SELECT ` + artistColumns + ` FROM artists` + where.String()
	return scanArtist(r.pool.QueryRow(ctx, query, where.args...))
}

func (r *artistRepository) Update(ctx context.Context, scope domain.Scope, artist *domain.Artist) error {
	where := whereBuilder{args: []any{artist.Name, artist.Genre}}
	where.eq("id", artist.ID)
	where.scope(scope)

	query := `UPDATE artists SET name=$1, genre=$2` + where.String() + ` RETURNING ` + artistColumns
	updated, err := scanArtist(r.pool.QueryRow(ctx, query, where.args...))
	if err != nil {
		return err
	}
	*artist = *updated
	return nil
}

func (r *artistRepository) Delete(ctx context.Context, scope domain.Scope, id int64) (*domain.Artist, error) {
	var where whereBuilder
	where.eq("id", id)
	where.scope(scope)

	query := `DELETE FROM artists` + where.String() + ` RETURNING ` + artistColumns
	return scanArtist(r.pool.QueryRow(ctx, query, where.args...))
}

func scanArtist(row pgx.Row) (*domain.Artist, error) {
	var artist domain.Artist
	if err := row.Scan(
		&artist.ID,
		&artist.Name,
		&artist.Genre,
		&artist.OwnerID,
		&artist.CreatedAt,
	); err != nil {
		return nil, notFoundOr(err)
	}
	return &artist, nil
}
