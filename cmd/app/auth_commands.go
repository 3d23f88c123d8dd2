package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/gatekeeper/cmd/app/commands"
	"github.com/allisson/gatekeeper/internal/app"
	"github.com/allisson/gatekeeper/internal/config"
)

func getAuthCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "issue-token",
			Usage: "Issue a signed access token without going through the API",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "subject",
					Aliases:  []string{"s"},
					Required: true,
					Usage:    "Token subject (e.g., billing-service)",
				},
				&cli.StringSliceFlag{
					Name:    "permission",
					Aliases: []string{"p"},
					Usage:   "Permission to grant (repeatable, e.g., read:secrets)",
				},
				&cli.IntFlag{
					Name:  "ttl-hours",
					Value: 0,
					Usage: "Token lifetime in hours (0 uses AUTH_TOKEN_TTL_HOURS)",
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

				gateway, err := container.GatewayUseCase()
				if err != nil {
					return err
				}

				return commands.RunIssueToken(
					ctx,
					gateway,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("subject"),
					cmd.StringSlice("permission"),
					int(cmd.Int("ttl-hours")),
					cmd.String("format"),
				)
			},
		},
	}
}
