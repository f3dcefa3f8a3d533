package main

import (
	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/iamwavecut/ngmod/internal/infrastructure/discord"
)

func withSession(f func(session *discordgo.Session) error) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	session, err := discord.NewSession(cfg.DiscordToken)
	if err != nil {
		return err
	}
	return f(session)
}

func syncCommands(cctx *cli.Context) error {
	return withSession(func(session *discordgo.Session) error {
		synced, err := discord.SyncCommands(cctx.Context, session)
		if err != nil {
			return err
		}
		log.WithField("commands", synced).Info("slash commands synced")
		return nil
	})
}

func purgeCommands(cctx *cli.Context) error {
	return withSession(func(session *discordgo.Session) error {
		if err := discord.PurgeCommands(cctx.Context, session); err != nil {
			return err
		}
		log.Info("slash commands purged")
		return nil
	})
}
