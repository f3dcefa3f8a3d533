package gate

import (
	"context"
	"time"

	"github.com/iamwavecut/tool"
	log "github.com/sirupsen/logrus"

	"github.com/iamwavecut/ngmod/internal/bot"
	"github.com/iamwavecut/ngmod/internal/i18n"
	"github.com/iamwavecut/ngmod/internal/observability"
)

type muteStore interface {
	IsMuted(userID string, now time.Time) (bool, int)
	ShouldWarn(userID, channelID string, now time.Time) bool
}

type messenger interface {
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	SendMessage(ctx context.Context, channelID, text string) error
}

// Gate deletes messages of soft-muted members and tells them, at most once per
// cooldown and channel, how long the mute still lasts.
type Gate struct {
	store     muteStore
	messenger messenger
	language  string
	now       func() time.Time
}

func NewGate(s bot.Service, store muteStore) *Gate {
	g := &Gate{
		store:     store,
		messenger: s.GetPlatform(),
		language:  s.GetLanguage(),
		now:       time.Now,
	}
	g.getLogEntry().Debug("created new gate")
	return g
}

func (g *Gate) Handle(ctx context.Context, u *bot.Update) (bool, error) {
	msg := u.Message
	if msg == nil || msg.GuildID == "" || msg.AuthorBot {
		return true, nil
	}

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	default:
	}

	now := g.now()
	muted, remaining := g.store.IsMuted(msg.AuthorID, now)
	if !muted {
		return true, nil
	}

	entry := g.getLogEntry().WithFields(log.Fields{
		"guild_id":   msg.GuildID,
		"channel_id": msg.ChannelID,
		"user_id":    msg.AuthorID,
	})

	if err := g.messenger.DeleteMessage(ctx, msg.ChannelID, msg.ID); err != nil {
		entry.WithError(err).Debug("cant delete message of muted user")
		return false, nil
	}
	observability.RecordGateDeletion()

	if !g.store.ShouldWarn(msg.AuthorID, msg.ChannelID, now) {
		return false, nil
	}

	notice := tool.ExecTemplate(i18n.Get("{{ .user }} you cannot write for another {{ .left }}.", g.language), map[string]any{
		"user": bot.MentionUser(msg.AuthorID),
		"left": i18n.FormatDuration(remaining, g.language),
	})
	if err := g.messenger.SendMessage(ctx, msg.ChannelID, notice); err != nil {
		entry.WithError(err).Warn("cant send mute notice")
		return false, nil
	}
	observability.RecordGateWarning()
	return false, nil
}

func (g *Gate) getLogEntry() *log.Entry {
	return log.WithField("object", "Gate")
}
