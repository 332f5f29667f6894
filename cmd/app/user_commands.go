package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/useradmin/cmd/app/commands"
	"github.com/allisson/useradmin/internal/app"
	"github.com/allisson/useradmin/internal/config"
	userUseCase "github.com/allisson/useradmin/internal/user/usecase"
)

func getUserCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-user",
			Usage: "Create a user with the given role (use it to bootstrap an administrator)",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "email",
					Aliases:  []string{"e"},
					Required: true,
					Usage:    "User email",
				},
				&cli.StringFlag{
					Name:     "first-name",
					Required: true,
					Usage:    "User first name",
				},
				&cli.StringFlag{
					Name:  "last-name",
					Usage: "User last name",
				},
				&cli.StringFlag{
					Name:    "password",
					Aliases: []string{"p"},
					Usage:   "User password (omit to read it from stdin)",
				},
				&cli.IntFlag{
					Name:    "role-id",
					Aliases: []string{"r"},
					Value:   1,
					Usage:   "Role to assign (1 admin, 2 user, 3 guest)",
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

				useCase, err := container.UserUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateUser(
					ctx,
					useCase,
					container.Logger(),
					userUseCase.RegisterUserInput{
						FirstName: cmd.String("first-name"),
						LastName:  cmd.String("last-name"),
						Email:     cmd.String("email"),
						Password:  cmd.String("password"),
					},
					int64(cmd.Int("role-id")),
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
	}
}
