package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/spec-kit/music-collection/internal/config"
	"github.com/spec-kit/music-collection/internal/domain"
	"github.com/spec-kit/music-collection/internal/observability"
	"github.com/spec-kit/music-collection/internal/persistence"
	"github.com/spec-kit/music-collection/internal/repository"
)

// newLogger builds the same JSON logger the API uses, tagged as musicctl.
func newLogger(level, env string) (*zap.Logger, error) {
	logger, err := observability.NewLogger(
		config.LoggerConfig{Level: level},
		config.AppConfig{Name: "musicctl", Env: env},
	)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Manage the database schema",
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "Apply pending migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					logger, err := newLogger(cmd.String("log-level"), cmd.String("env"))
					if err != nil {
						return err
					}
					defer func() { _ = logger.Sync() }()
					return withPool(ctx, cmd, func(pool *pgxpool.Pool) error {
						return persistence.RunMigrations(ctx, pool, logger)
					})
				},
			},
			{
				Name:  "status",
				Usage: "Show applied and pending migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withPool(ctx, cmd, func(pool *pgxpool.Pool) error {
						return persistence.MigrationStatus(ctx, pool)
					})
				},
			},
		},
	}
}

// usersCommand exposes role changes without an existing admin token, which
// is how the first admin is created when registration bootstrap is disabled.
func usersCommand() *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "Inspect accounts and change roles",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List all accounts",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withUsers(ctx, cmd, func(users repository.UserRepository) error {
						list, err := users.List(ctx)
						if err != nil {
							return err
						}
						return printUsers(cmd.Root().Writer, list)
					})
				},
			},
			{
				Name:  "promote",
				Usage: "Grant the admin role",
				Flags: []cli.Flag{usernameFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withUsers(ctx, cmd, func(users repository.UserRepository) error {
						return setRole(ctx, cmd.Root().Writer, users, cmd.String("username"), domain.RoleAdmin)
					})
				},
			},
			{
				Name:  "demote",
				Usage: "Revoke the admin role",
				Flags: []cli.Flag{usernameFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withUsers(ctx, cmd, func(users repository.UserRepository) error {
						return setRole(ctx, cmd.Root().Writer, users, cmd.String("username"), domain.RoleUser)
					})
				},
			},
		},
	}
}

func setRole(ctx context.Context, w io.Writer, users repository.UserRepository, username string, role domain.Role) error {
	user, err := users.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("no user named %q", username)
	}
	if err != nil {
		return err
	}

	updated, err := users.SetRole(ctx, user.ID, role)
	switch {
	case errors.Is(err, repository.ErrRoleUnchanged):
		_, err = fmt.Fprintf(w, "%s already has role %s\n", username, role)
		return err
	case err != nil:
		return err
	}
	_, err = fmt.Fprintf(w, "%s is now %s\n", updated.Username, updated.Role)
	return err
}

func printUsers(w io.Writer, users []domain.User) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tEMAIL\tROLE\tCREATED")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.Username, u.Email, u.Role, u.CreatedAt.Format("2006-01-02"))
	}
	return tw.Flush()
}

func withUsers(ctx context.Context, cmd *cli.Command, fn func(repository.UserRepository) error) error {
	return withPool(ctx, cmd, func(pool *pgxpool.Pool) error {
		return fn(repository.NewUserRepository(pool))
	})
}

func withPool(ctx context.Context, cmd *cli.Command, fn func(*pgxpool.Pool) error) error {
	pool, err := pgxpool.New(ctx, cmd.String("dsn"))
	if err != nil {
		return fmt.Errorf("open postgres pool: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return fn(pool)
}

func usernameFlag() cli.Flag {
	return &cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "Account username", Required: true}
}
