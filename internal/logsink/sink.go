package logsink

import (
	"context"
	"errors"
	"slices"

	log "github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	ierrors "github.com/iamwavecut/ngmod/internal/errors"
	"github.com/iamwavecut/ngmod/internal/observability"
)

type channels interface {
	TextChannelByName(ctx context.Context, guildID string, names []string) (string, error)
	SendMessage(ctx context.Context, channelID, text string) error
}

// Record is one privileged action to forward.
type Record struct {
	GuildID  string
	Action   string
	ActionID string
	ActorID  string
	TargetID string
	Text     string
}

// Sink forwards log lines to the guild's log and history channels, skipping
// whichever does not exist.
type Sink struct {
	channels     channels
	logNames     []string
	historyNames []string
}

func New(channels channels, logNames, historyNames []string) *Sink {
	return &Sink{
		channels:     channels,
		logNames:     logNames,
		historyNames: historyNames,
	}
}

func (s *Sink) Send(ctx context.Context, rec Record) error {
	entry := log.WithFields(log.Fields{
		"object":    "Sink",
		"guild_id":  rec.GuildID,
		"action":    rec.Action,
		"action_id": rec.ActionID,
	})

	observability.Audit().Info("moderation action",
		zap.String("guild_id", rec.GuildID),
		zap.String("action", rec.Action),
		zap.String("action_id", rec.ActionID),
		zap.String("actor_id", rec.ActorID),
		zap.String("target_id", rec.TargetID),
		zap.String("text", rec.Text),
	)

	targets := make([]string, 0, 2)
	for _, names := range [][]string{s.logNames, s.historyNames} {
		if len(names) == 0 {
			continue
		}
		channelID, err := s.channels.TextChannelByName(ctx, rec.GuildID, names)
		if err != nil {
			if !errors.Is(err, ierrors.ErrNotFound) {
				entry.WithError(err).Warn("cant resolve log channel")
			}
			continue
		}
		if channelID == "" || slices.Contains(targets, channelID) {
			continue
		}
		targets = append(targets, channelID)
	}

	var g errgroup.Group
	for _, channelID := range targets {
		channelID := channelID
		g.Go(func() error {
			if err := s.channels.SendMessage(ctx, channelID, rec.Text); err != nil {
				entry.WithError(err).WithField("channel_id", channelID).Warn("cant forward log line")
				return err
			}
			return nil
		})
	}
	return g.Wait()
}
