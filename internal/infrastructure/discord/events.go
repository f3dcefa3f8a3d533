package discord

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"github.com/iamwavecut/ngmod/internal/bot"
)

const ackTimeout = 3 * time.Second

func memberJoinUpdate(e *discordgo.GuildMemberAdd) *bot.Update {
	if e == nil || e.Member == nil || e.User == nil {
		return nil
	}
	return &bot.Update{MemberJoin: &bot.MemberJoin{
		GuildID: e.GuildID,
		UserID:  e.User.ID,
		Bot:     e.User.Bot,
	}}
}

func messageUpdate(e *discordgo.MessageCreate) *bot.Update {
	if e == nil || e.Message == nil || e.Author == nil {
		return nil
	}
	return &bot.Update{Message: &bot.Message{
		ID:        e.ID,
		GuildID:   e.GuildID,
		ChannelID: e.ChannelID,
		AuthorID:  e.Author.ID,
		AuthorBot: e.Author.Bot,
		SentAt:    e.Timestamp,
	}}
}

func (c *Client) onMemberAdd(_ *discordgo.Session, e *discordgo.GuildMemberAdd) {
	c.enqueue(memberJoinUpdate(e))
}

func (c *Client) onMessageCreate(_ *discordgo.Session, e *discordgo.MessageCreate) {
	c.enqueue(messageUpdate(e))
}

// onInteraction acknowledges the command right away, the handler answers
// later with a follow-up.
func (c *Client) onInteraction(s *discordgo.Session, e *discordgo.InteractionCreate) {
	if e == nil || e.Interaction == nil || e.Type != discordgo.InteractionApplicationCommand {
		return
	}
	responder := &interactionResponder{session: s, interaction: e.Interaction}
	cmd := parseCommand(e.Interaction, responder)

	ctx, cancel := context.WithTimeout(context.Background(), ackTimeout)
	defer cancel()
	if err := responder.acknowledge(ctx); err != nil {
		c.getLogEntry().WithError(err).WithField("command", cmd.Name).Warn("cant acknowledge interaction")
		return
	}
	c.enqueue(&bot.Update{Command: cmd})
}

func (c *Client) enqueue(u *bot.Update) {
	if u == nil {
		return
	}
	if !c.queue.Enqueue(u) {
		c.getLogEntry().WithField("kind", u.Kind()).Debug("update dropped")
	}
}

func (c *Client) getLogEntry() *log.Entry {
	return log.WithField("object", "DiscordClient")
}
