package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

func main() {
	_ = godotenv.Load()

	app := &cli.Command{
		Name:  "musicctl",
		Usage: "Operator tasks for the music collection database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "dsn",
				Usage:    "Postgres connection string",
				Sources:  cli.EnvVars("POSTGRES_DSN"),
				Required: true,
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars("LOG_LEVEL"),
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "env",
				Usage:   "Environment name attached to log entries",
				Sources: cli.EnvVars("APP_ENV"),
				Value:   "production",
			},
		},
		Commands: []*cli.Command{
			migrateCommand(),
			usersCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "musicctl: %v\n", err)
		os.Exit(1)
	}
}
