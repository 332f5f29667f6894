package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/useradmin/cmd/app/commands"
	"github.com/allisson/useradmin/internal/app"
	"github.com/allisson/useradmin/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Run database migrations",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
			},
		},
		{
			Name:  "seal-secret",
			Usage: "Encrypt a token signing secret with a KMS key",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "kms-key-uri",
					Aliases:  []string{"k"},
					Required: true,
					Usage:    "KMS key URI (e.g., gcpkms://..., awskms:///alias/..., base64key://...)",
				},
				&cli.StringFlag{
					Name:    "secret",
					Aliases: []string{"s"},
					Usage:   "Secret to seal (omit to generate a random one)",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunSealSecret(
					ctx,
					container.KMSService(),
					container.Logger(),
					cmd.String("kms-key-uri"),
					cmd.String("secret"),
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
	}
}
