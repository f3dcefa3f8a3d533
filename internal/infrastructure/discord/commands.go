package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"

	"github.com/iamwavecut/ngmod/internal/bot"
)

var (
	minZero = 0.0
	minOne  = 1.0
)

func userOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "user",
		Description: description,
		Required:    true,
	}
}

func reasonOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "reason",
		Description: "Reason",
		MaxLength:   400,
	}
}

func integerOption(name, description string, minValue *float64, maxValue int) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        name,
		Description: description,
		MinValue:    minValue,
		MaxValue:    float64(maxValue),
	}
}

// Definitions are the slash commands registered for the application.
func Definitions() []*discordgo.ApplicationCommand {
	noDM := false
	return []*discordgo.ApplicationCommand{
		{
			Name:         "promote",
			Description:  "Promote a member to the selected role.",
			DMPermission: &noDM,
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Who to promote"),
				{Type: discordgo.ApplicationCommandOptionRole, Name: "role", Description: "Target rank role", Required: true},
			},
		},
		{
			Name:         "demote",
			Description:  "Remove the selected role from a member.",
			DMPermission: &noDM,
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Who to demote"),
				{Type: discordgo.ApplicationCommandOptionRole, Name: "role", Description: "Role to remove", Required: true},
			},
		},
		{
			Name:         "kick",
			Description:  "Kick a member.",
			DMPermission: &noDM,
			Options:      []*discordgo.ApplicationCommandOption{userOption("Who to kick"), reasonOption()},
		},
		{
			Name:         "ban",
			Description:  "Ban a member.",
			DMPermission: &noDM,
			Options:      []*discordgo.ApplicationCommandOption{userOption("Who to ban"), reasonOption()},
		},
		{
			Name:         "tempban",
			Description:  "Ban a member for a number of minutes.",
			DMPermission: &noDM,
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Who to tempban"),
				integerOption("minutes", "Minutes (default 10)", &minOne, bot.MaxTempbanMinutes),
				reasonOption(),
			},
		},
		{
			Name:         "mute",
			Description:  "Mute a member with the native timeout.",
			DMPermission: &noDM,
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Who to mute"),
				integerOption("minutes", "Minutes (default 10, at most 28 days)", &minOne, bot.MaxTimeoutMinutes),
				reasonOption(),
			},
		},
		{
			Name:         "tempmute",
			Description:  "Soft tempmute: delete messages and tell the time left (default 1h 4m).",
			DMPermission: &noDM,
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Who to tempmute"),
				integerOption("hours", "Hours (default 1)", &minZero, bot.MaxTempmuteMinutes/60),
				integerOption("minutes", "Minutes (default 4)", &minZero, bot.MaxTempmuteMinutes),
			},
		},
		{
			Name:         "unmute",
			Description:  "Lift both the timeout and the tempmute.",
			DMPermission: &noDM,
			Options:      []*discordgo.ApplicationCommandOption{userOption("Who to unmute")},
		},
	}
}

// SyncCommands replaces the global application commands with Definitions.
func SyncCommands(ctx context.Context, session *discordgo.Session) (int, error) {
	return overwriteCommands(ctx, session, Definitions())
}

// PurgeCommands removes every global application command.
func PurgeCommands(ctx context.Context, session *discordgo.Session) error {
	_, err := overwriteCommands(ctx, session, []*discordgo.ApplicationCommand{})
	return err
}

func overwriteCommands(ctx context.Context, session *discordgo.Session, commands []*discordgo.ApplicationCommand) (int, error) {
	appID := ""
	if session.State != nil && session.State.User != nil {
		appID = session.State.User.ID
	}
	if appID == "" {
		self, err := session.User("@me", discordgo.WithContext(ctx))
		if err != nil {
			return 0, classify(err, "fetch application")
		}
		appID = self.ID
	}

	synced, err := session.ApplicationCommandBulkOverwrite(appID, "", commands, discordgo.WithContext(ctx))
	if err != nil {
		return 0, errors.WithMessage(classify(err, "overwrite commands"), "application "+appID)
	}
	return len(synced), nil
}

// parseCommand reads the invocation of an application command interaction.
func parseCommand(i *discordgo.Interaction, responder bot.Responder) *bot.Command {
	if i == nil || i.Type != discordgo.InteractionApplicationCommand {
		return nil
	}
	data := i.ApplicationCommandData()

	cmd := &bot.Command{
		Name:      data.Name,
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
		Responder: responder,
	}
	switch {
	case i.Member != nil && i.Member.User != nil:
		cmd.InvokerID = i.Member.User.ID
	case i.User != nil:
		cmd.InvokerID = i.User.ID
	}

	for _, opt := range data.Options {
		switch opt.Name {
		case "user":
			cmd.UserID = stringValue(opt)
		case "role":
			cmd.RoleID = stringValue(opt)
		case "reason":
			cmd.Reason = stringValue(opt)
		case "hours":
			cmd.Hours = intValue(opt)
		case "minutes":
			cmd.Minutes = intValue(opt)
		}
	}
	return cmd
}

func stringValue(opt *discordgo.ApplicationCommandInteractionDataOption) string {
	if s, ok := opt.Value.(string); ok {
		return s
	}
	return ""
}

func intValue(opt *discordgo.ApplicationCommandInteractionDataOption) *int {
	var v int
	switch n := opt.Value.(type) {
	case float64:
		v = int(n)
	case int64:
		v = int(n)
	case int:
		v = n
	default:
		return nil
	}
	return &v
}
