package moderation

import (
	"context"
	"fmt"
	"time"

	"github.com/pborman/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/iamwavecut/ngmod/internal/bot"
	ierrors "github.com/iamwavecut/ngmod/internal/errors"
	"github.com/iamwavecut/ngmod/internal/logsink"
	"github.com/iamwavecut/ngmod/internal/observability"
	"github.com/iamwavecut/ngmod/internal/policy/permissions"
)

const (
	outcomeOK       = "ok"
	outcomeRejected = "rejected"
	outcomeDenied   = "denied"
	outcomeNoRights = "no_privileges"
	outcomeFailed   = "failed"
)

type muteStore interface {
	MuteFor(userID string, d time.Duration) time.Time
	ClearMute(userID string)
}

type logSink interface {
	Send(ctx context.Context, rec logsink.Record) error
}

type scheduler interface {
	Schedule(id string, d time.Duration, job func(ctx context.Context)) error
}

type (
	// Moderation answers the moderation slash commands.
	Moderation struct {
		platform  bot.Platform
		language  string
		store     muteStore
		sink      logSink
		scheduler scheduler
		evaluator *permissions.Evaluator
		commands  map[string]command
		now       func() time.Time
	}

	command struct {
		perms     []permissions.Permission
		skipGuard bool
		run       func(ctx context.Context, inv *invocation) (result, error)
	}

	invocation struct {
		cmd      *bot.Command
		actionID string
		actor    *permissions.Actor
		target   *permissions.Actor
		service  *permissions.Actor
		entry    *log.Entry
	}

	result struct {
		reply   string
		logLine string
	}

	// rejection carries a ready-made reply for the invoker.
	rejection struct {
		text string
	}
)

func (r *rejection) Error() string {
	return r.text
}

func reject(text string) error {
	return &rejection{text: text}
}

func NewModeration(s bot.Service, store muteStore, sink logSink, sched scheduler, evaluator *permissions.Evaluator) *Moderation {
	m := &Moderation{
		platform:  s.GetPlatform(),
		language:  s.GetLanguage(),
		store:     store,
		sink:      sink,
		scheduler: sched,
		evaluator: evaluator,
		now:       time.Now,
	}
	m.commands = map[string]command{
		"promote":  {run: m.promote},
		"demote":   {run: m.demote},
		"kick":     {perms: []permissions.Permission{permissions.KickMembers}, run: m.kick},
		"ban":      {perms: []permissions.Permission{permissions.BanMembers}, run: m.ban},
		"tempban":  {perms: []permissions.Permission{permissions.BanMembers}, run: m.tempban},
		"mute":     {perms: []permissions.Permission{permissions.ModerateMembers}, run: m.mute},
		"tempmute": {perms: []permissions.Permission{permissions.ManageMessages}, run: m.tempmute},
		"unmute": {
			perms:     []permissions.Permission{permissions.ModerateMembers, permissions.ManageMessages},
			skipGuard: true,
			run:       m.unmute,
		},
	}
	m.getLogEntry().Debug("created new moderation handler")
	return m
}

// Commands lists the command names this handler answers.
func (m *Moderation) Commands() []string {
	names := make([]string, 0, len(m.commands))
	for name := range m.commands {
		names = append(names, name)
	}
	return names
}

func (m *Moderation) Handle(ctx context.Context, u *bot.Update) (bool, error) {
	cmd := u.Command
	if cmd == nil {
		return true, nil
	}
	def, ok := m.commands[cmd.Name]
	if !ok {
		return true, nil
	}

	inv := &invocation{
		cmd:      cmd,
		actionID: uuid.New(),
	}
	inv.entry = m.getLogEntry().WithFields(log.Fields{
		"command":   cmd.Name,
		"action_id": inv.actionID,
		"guild_id":  cmd.GuildID,
		"actor_id":  cmd.InvokerID,
		"target_id": cmd.UserID,
	})

	ctx, span := observability.Tracer().Start(ctx, "command/"+cmd.Name, trace.WithAttributes(
		attribute.String("command", cmd.Name),
		attribute.String("action_id", inv.actionID),
		attribute.String("guild_id", cmd.GuildID),
	))
	defer span.End()
	defer observability.StartCommand(cmd.Name)()

	res, err := m.execute(ctx, def, inv)
	outcome := outcomeOf(err)
	observability.RecordCommand(cmd.Name, outcome)

	var failure error
	if err != nil {
		res.reply = m.describe(cmd.Name, err)
		span.SetStatus(codes.Error, outcome)
		span.RecordError(err)
		if outcome == outcomeFailed {
			failure = errors.WithMessagef(err, "command %s", cmd.Name)
		} else {
			inv.entry.WithError(err).Debug("command rejected")
		}
	} else {
		inv.entry.Info("command completed")
		if res.logLine != "" && m.sink != nil {
			_ = m.sink.Send(ctx, logsink.Record{
				GuildID:  cmd.GuildID,
				Action:   cmd.Name,
				ActionID: inv.actionID,
				ActorID:  cmd.InvokerID,
				TargetID: cmd.UserID,
				Text:     res.logLine,
			})
		}
	}

	if cmd.Responder != nil && res.reply != "" {
		if replyErr := cmd.Responder.Reply(ctx, res.reply); replyErr != nil {
			inv.entry.WithError(replyErr).Warn("cant reply to invoker")
		}
	}
	return false, failure
}

func (m *Moderation) execute(ctx context.Context, def command, inv *invocation) (result, error) {
	cmd := inv.cmd
	if cmd.GuildID == "" {
		return result{}, ierrors.ErrNoGuild
	}

	actor, err := m.platform.Member(ctx, cmd.GuildID, cmd.InvokerID)
	if err != nil || actor == nil {
		return result{}, fmt.Errorf("%w: %v", ierrors.ErrNoActor, err)
	}
	inv.actor = actor

	if !m.evaluator.Authorized(actor, def.perms...) {
		return result{}, ierrors.ErrUnauthorized
	}
	if cmd.UserID == "" {
		return result{}, fmt.Errorf("%w: target user is required", ierrors.ErrInvalidInput)
	}

	if !def.skipGuard {
		target, err := m.platform.Member(ctx, cmd.GuildID, cmd.UserID)
		if err != nil {
			return result{}, errors.WithMessage(err, "fetch target")
		}
		inv.target = target

		service, err := m.platform.Self(ctx, cmd.GuildID)
		if err != nil {
			inv.entry.WithError(err).Warn("cant fetch own member, skipping its rank check")
			service = nil
		}
		inv.service = service

		if err := permissions.AbuseGuard(actor, target, service); err != nil {
			return result{}, err
		}
	}

	return def.run(ctx, inv)
}

// auditReason is what the platform records as the reason of an action.
func auditReason(reason string, inv *invocation) string {
	return fmt.Sprintf("%s | by %s (%s)", reason, inv.cmd.InvokerID, inv.actionID)
}

func outcomeOf(err error) string {
	var r *rejection
	switch {
	case err == nil:
		return outcomeOK
	case errors.As(err, &r):
		return outcomeRejected
	case errors.Is(err, ierrors.ErrUnauthorized):
		return outcomeDenied
	case errors.Is(err, ierrors.ErrNoPrivileges):
		return outcomeNoRights
	case errors.Is(err, ierrors.ErrNoGuild),
		errors.Is(err, ierrors.ErrNoActor),
		errors.Is(err, ierrors.ErrInvalidInput),
		errors.Is(err, ierrors.ErrNotFound),
		errors.Is(err, permissions.ErrSelfTarget),
		errors.Is(err, permissions.ErrBotTarget),
		errors.Is(err, permissions.ErrOwnerTarget),
		errors.Is(err, permissions.ErrTargetOutranksActor),
		errors.Is(err, permissions.ErrTargetOutranksService):
		return outcomeRejected
	default:
		return outcomeFailed
	}
}

func (m *Moderation) getLogEntry() *log.Entry {
	return log.WithField("object", "Moderation")
}
