package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/music-collection/internal/domain"
)

// UserRepository defines persistence access for user accounts.
type UserRepository interface {
	// Create inserts user unless its username or email is taken.
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	// SetRole changes the admin flag, failing with ErrRoleUnchanged when it already matches.
	SetRole(ctx context.Context, id int64, role domain.Role) (*domain.User, error)
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
	// Delete removes the user; owned records go with it through ON DELETE CASCADE.
	Delete(ctx context.Context, id int64) (*domain.User, error)
}

type userRepository struct {
	pool Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, username, email, password_hash, is_admin, created_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const lookup = `
        SELECT username, email FROM users
        WHERE username=$1 OR email=$2
        LIMIT 1`
	const insert = `
        INSERT INTO users (username, email, password_hash, is_admin)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`

	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		var existingUsername, existingEmail string
		err := tx.QueryRow(ctx, lookup, user.Username, user.Email).Scan(&existingUsername, &existingEmail)
		switch {
		case err == nil:
			if existingUsername == user.Username {
				return ErrUsernameTaken
			}
			return ErrEmailTaken
		case !errors.Is(err, pgx.ErrNoRows):
			return fmt.Errorf("lookup user: %w", err)
		}

		err = tx.QueryRow(ctx, insert,
			user.Username,
			user.Email,
			user.PasswordHash,
			user.Role == domain.RoleAdmin,
		).Scan(&user.ID, &user.CreatedAt)
		if pgErr, ok := uniqueViolation(err); ok {
			if pgErr.ConstraintName == "users_email_key" {
				return ErrEmailTaken
			}
			return ErrUsernameTaken
		}
		if err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		return nil
	})
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username=$1`
	return scanUser(r.pool.QueryRow(ctx, query, username))
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (r *userRepository) SetRole(ctx context.Context, id int64, role domain.Role) (*domain.User, error) {
	lock := `SELECT ` + userColumns + ` FROM users WHERE id=$1 FOR UPDATE`
	const update = `UPDATE users SET is_admin=$1 WHERE id=$2`

	var user *domain.User
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		current, err := scanUser(tx.QueryRow(ctx, lock, id))
		if err != nil {
			return err
		}
		if current.Role == role {
			return ErrRoleUnchanged
		}
		if _, err := tx.Exec(ctx, update, role == domain.RoleAdmin, id); err != nil {
			return fmt.Errorf("update role: %w", err)
		}
		current.Role = role
		user = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	const query = `UPDATE users SET password_hash=$1 WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, hash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) (*domain.User, error) {
	query := `DELETE FROM users WHERE id=$1 RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user    domain.User
		isAdmin bool
	)
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&isAdmin,
		&user.CreatedAt,
	); err != nil {
		return nil, notFoundOr(err)
	}
	user.Role = domain.RoleFromAdminFlag(isAdmin)
	return &user, nil
}
