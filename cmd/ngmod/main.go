package main

import (
	"os"

	"github.com/carlmjohnson/versioninfo"
	_ "github.com/joho/godotenv/autoload"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.App{
		Name:    "ngmod",
		Usage:   "moderation assistant for Discord guilds",
		Version: versioninfo.Short(),
		Action:  runBot,
	}
	app.Commands = []*cli.Command{
		{
			Name:   "run",
			Usage:  "connect to the gateway and moderate",
			Action: runBot,
		},
		{
			Name:  "commands",
			Usage: "manage the registered slash commands",
			Subcommands: []*cli.Command{
				{
					Name:   "sync",
					Usage:  "register the slash commands globally",
					Action: syncCommands,
				},
				{
					Name:   "purge",
					Usage:  "remove every registered slash command",
					Action: purgeCommands,
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatalln("exiting")
	}
}
