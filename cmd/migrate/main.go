package main

import (
	"os"

	"cowork/config"
	"cowork/helper"
	"cowork/infras/otel"
	"cowork/infras/postgres"
	userRepo "cowork/internal/domains/user/repository"
	"cowork/shared/logger"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const flagEmail = "email"

func main() {
	logger.InitLogger()

	app := &cli.App{
		Name:  "migrate",
		Usage: "apply or roll back the postgres schema",
		Commands: []*cli.Command{
			command("up", "apply every pending migration", helper.Up),
			command("down", "roll back the latest migration", helper.Down),
			command("step-up", "apply the next pending migration", helper.StepUp),
			command("drop", "roll back every migration", helper.Drop),
			{
				Name:  "version",
				Usage: "print the applied schema version",
				Action: func(_ *cli.Context) error {
					version, dirty, err := helper.Version(config.Get())
					if err != nil {
						return err
					}

					log.Info().Uint("version", version).Bool("dirty", dirty).Msg("Schema version")

					return nil
				},
			},
			{
				Name:  "promote-admin",
				Usage: "give an existing account the admin level",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: flagEmail, Usage: "email of the account", Required: true},
				},
				Action: func(c *cli.Context) error {
					cfg := config.Get()
					db := postgres.New(cfg)
					defer db.Close()

					return helper.PromoteAdmin(c.Context, userRepo.New(db, otel.New(cfg)), c.String(flagEmail))
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}

func command(name, usage string, run func(*config.Config) error) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Action: func(_ *cli.Context) error {
			return run(config.Get())
		},
	}
}
