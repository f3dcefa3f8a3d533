package discord

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"

	ierrors "github.com/iamwavecut/ngmod/internal/errors"
	"github.com/iamwavecut/ngmod/internal/policy/permissions"
)

// Discord caps audit log reasons at 512 characters.
const maxAuditReason = 512

// Operations implements the moderation platform over a Discord session
type Operations struct {
	session *discordgo.Session
}

// NewOperations creates a new Operations instance
func NewOperations(session *discordgo.Session) *Operations {
	return &Operations{session: session}
}

func (o *Operations) guild(ctx context.Context, guildID string) (*discordgo.Guild, error) {
	if o.session.StateEnabled && o.session.State != nil {
		if g, err := o.session.State.Guild(guildID); err == nil && len(g.Roles) > 0 {
			return g, nil
		}
	}
	g, err := o.session.Guild(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, classify(err, "fetch guild")
	}
	return g, nil
}

func (o *Operations) member(ctx context.Context, guildID, userID string) (*discordgo.Member, error) {
	if o.session.StateEnabled && o.session.State != nil {
		if m, err := o.session.State.Member(guildID, userID); err == nil {
			return m, nil
		}
	}
	m, err := o.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, classify(err, "fetch member")
	}
	return m, nil
}

// Member returns the rank and permission snapshot of a guild member
func (o *Operations) Member(ctx context.Context, guildID, userID string) (*permissions.Actor, error) {
	g, err := o.guild(ctx, guildID)
	if err != nil {
		return nil, err
	}
	m, err := o.member(ctx, guildID, userID)
	if err != nil {
		return nil, err
	}
	if m.User == nil {
		m.User = &discordgo.User{ID: userID}
	}
	return snapshot(g, m), nil
}

// Self returns the snapshot of the bot's own member
func (o *Operations) Self(ctx context.Context, guildID string) (*permissions.Actor, error) {
	selfID := ""
	if o.session.State != nil && o.session.State.User != nil {
		selfID = o.session.State.User.ID
	}
	if selfID == "" {
		u, err := o.session.User("@me", discordgo.WithContext(ctx))
		if err != nil {
			return nil, classify(err, "fetch self")
		}
		selfID = u.ID
	}
	return o.Member(ctx, guildID, selfID)
}

// Role looks a guild role up by id
func (o *Operations) Role(ctx context.Context, guildID, roleID string) (*permissions.Role, error) {
	g, err := o.guild(ctx, guildID)
	if err != nil {
		return nil, err
	}
	r := findRole(g, func(r *discordgo.Role) bool { return r.ID == roleID })
	if r == nil {
		return nil, errors.WithMessagef(ierrors.ErrNotFound, "role %s", roleID)
	}
	return toRole(guildID, r), nil
}

// RoleByName looks a guild role up by its exact name
func (o *Operations) RoleByName(ctx context.Context, guildID, name string) (*permissions.Role, error) {
	g, err := o.guild(ctx, guildID)
	if err != nil {
		return nil, err
	}
	r := findRole(g, func(r *discordgo.Role) bool { return r.Name == name })
	if r == nil {
		return nil, errors.WithMessagef(ierrors.ErrNotFound, "role %q", name)
	}
	return toRole(guildID, r), nil
}

// TextChannelByName returns the first text channel named by any of names
func (o *Operations) TextChannelByName(ctx context.Context, guildID string, names []string) (string, error) {
	var channels []*discordgo.Channel
	if o.session.StateEnabled && o.session.State != nil {
		if g, err := o.session.State.Guild(guildID); err == nil {
			channels = g.Channels
		}
	}
	if len(channels) == 0 {
		var err error
		channels, err = o.session.GuildChannels(guildID, discordgo.WithContext(ctx))
		if err != nil {
			return "", classify(err, "fetch channels")
		}
	}
	if id := findTextChannel(channels, names); id != "" {
		return id, nil
	}
	return "", errors.WithMessagef(ierrors.ErrNotFound, "text channel %v", names)
}

// AddRole grants a role to a member
func (o *Operations) AddRole(ctx context.Context, guildID, userID, roleID, reason string) error {
	err := o.session.GuildMemberRoleAdd(guildID, userID, roleID, o.options(ctx, reason)...)
	return classify(err, "add role")
}

// RemoveRole takes a role away from a member
func (o *Operations) RemoveRole(ctx context.Context, guildID, userID, roleID, reason string) error {
	err := o.session.GuildMemberRoleRemove(guildID, userID, roleID, o.options(ctx, reason)...)
	return classify(err, "remove role")
}

// DeleteMessage deletes a message from a channel
func (o *Operations) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	err := o.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx))
	return classify(err, "delete message")
}

// SendMessage posts a plain message to a channel
func (o *Operations) SendMessage(ctx context.Context, channelID, text string) error {
	_, err := o.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:         text,
		AllowedMentions: &discordgo.MessageAllowedMentions{Parse: []discordgo.AllowedMentionType{discordgo.AllowedMentionTypeUsers}},
	}, discordgo.WithContext(ctx))
	return classify(err, "send message")
}

// Kick removes a member from the guild
func (o *Operations) Kick(ctx context.Context, guildID, userID, reason string) error {
	err := o.session.GuildMemberDeleteWithReason(guildID, userID, truncateReason(reason), discordgo.WithContext(ctx))
	return classify(err, "kick")
}

// Ban bans a user without deleting their messages
func (o *Operations) Ban(ctx context.Context, guildID, userID, reason string) error {
	err := o.session.GuildBanCreateWithReason(guildID, userID, truncateReason(reason), 0, discordgo.WithContext(ctx))
	return classify(err, "ban")
}

// Unban lifts a ban by user id
func (o *Operations) Unban(ctx context.Context, guildID, userID, reason string) error {
	err := o.session.GuildBanDelete(guildID, userID, o.options(ctx, reason)...)
	return classify(err, "unban")
}

// SetTimeout applies the native timeout until the given time, nil clears it
func (o *Operations) SetTimeout(ctx context.Context, guildID, userID string, until *time.Time, reason string) error {
	err := o.session.GuildMemberTimeout(guildID, userID, until, o.options(ctx, reason)...)
	return classify(err, "timeout")
}

func (o *Operations) options(ctx context.Context, reason string) []discordgo.RequestOption {
	opts := []discordgo.RequestOption{discordgo.WithContext(ctx)}
	if reason != "" {
		opts = append(opts, discordgo.WithAuditLogReason(truncateReason(reason)))
	}
	return opts
}

func truncateReason(reason string) string {
	runes := []rune(reason)
	if len(runes) <= maxAuditReason {
		return reason
	}
	return string(runes[:maxAuditReason])
}
