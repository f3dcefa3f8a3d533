package moderation

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/iamwavecut/tool"
	"github.com/pkg/errors"

	"github.com/iamwavecut/ngmod/internal/bot"
	ierrors "github.com/iamwavecut/ngmod/internal/errors"
	"github.com/iamwavecut/ngmod/internal/i18n"
	"github.com/iamwavecut/ngmod/internal/policy/permissions"
)

const (
	defaultBanMinutes      = 10
	defaultMuteMinutes     = 10
	defaultTempmuteHours   = 1
	defaultTempmuteMinutes = 4
)

func (m *Moderation) promote(ctx context.Context, inv *invocation) (result, error) {
	role, err := m.editableRole(ctx, inv)
	if err != nil {
		return result{}, err
	}
	if !permissions.CanAssignRole(inv.actor, role) {
		return result{}, reject(i18n.Get("You cannot assign a role that is at or above your top role.", m.language))
	}
	if !permissions.ServiceCanAssignRole(inv.service, role) {
		return result{}, reject(i18n.Get("The bot is at or below this role. Move the bot role above it.", m.language))
	}
	if inv.target.HasRole(role.ID) {
		return result{}, reject(m.render(i18n.Get("{{ .user }} already has the role {{ .role }}.", m.language), inv, map[string]any{
			"role": bot.MentionRole(role.ID),
		}))
	}

	if err := m.platform.AddRole(ctx, inv.cmd.GuildID, inv.target.ID, role.ID, auditReason("Promote", inv)); err != nil {
		return result{}, errors.WithMessage(err, "add role")
	}

	return result{
		reply: i18n.Get("Done. Written to the log and the history.", m.language),
		logLine: m.render(i18n.Get("Member {{ .user }} was promoted to {{ .role }} by {{ .actor }}.", m.language), inv, map[string]any{
			"role": bot.MentionRole(role.ID),
		}),
	}, nil
}

func (m *Moderation) demote(ctx context.Context, inv *invocation) (result, error) {
	role, err := m.editableRole(ctx, inv)
	if err != nil {
		return result{}, err
	}
	if !permissions.CanAssignRole(inv.actor, role) {
		return result{}, reject(i18n.Get("You cannot remove a role that is at or above your top role.", m.language))
	}
	if !permissions.ServiceCanAssignRole(inv.service, role) {
		return result{}, reject(i18n.Get("The bot is at or below this role. Move the bot role above it.", m.language))
	}
	if !inv.target.HasRole(role.ID) {
		return result{}, reject(m.render(i18n.Get("{{ .user }} does not have the role {{ .role }}.", m.language), inv, map[string]any{
			"role": bot.MentionRole(role.ID),
		}))
	}

	if err := m.platform.RemoveRole(ctx, inv.cmd.GuildID, inv.target.ID, role.ID, auditReason("Demote", inv)); err != nil {
		return result{}, errors.WithMessage(err, "remove role")
	}

	return result{
		reply: i18n.Get("Done. Written to the log and the history.", m.language),
		logLine: m.render(i18n.Get("Member {{ .user }} was demoted from {{ .role }} by {{ .actor }}.", m.language), inv, map[string]any{
			"role": bot.MentionRole(role.ID),
		}),
	}, nil
}

func (m *Moderation) editableRole(ctx context.Context, inv *invocation) (*permissions.Role, error) {
	if inv.cmd.RoleID == "" {
		return nil, errors.WithMessage(ierrors.ErrInvalidInput, "role is required")
	}
	role, err := m.platform.Role(ctx, inv.cmd.GuildID, inv.cmd.RoleID)
	if err != nil {
		if errors.Is(err, ierrors.ErrNotFound) {
			return nil, reject(i18n.Get("Role not found.", m.language))
		}
		return nil, errors.WithMessage(err, "fetch role")
	}
	if !permissions.RoleEditable(role) {
		return nil, reject(i18n.Get("This role cannot be edited (managed or @everyone).", m.language))
	}
	return role, nil
}

func (m *Moderation) kick(ctx context.Context, inv *invocation) (result, error) {
	reason := m.reason(inv.cmd)
	if err := m.platform.Kick(ctx, inv.cmd.GuildID, inv.target.ID, auditReason(reason, inv)); err != nil {
		return result{}, errors.WithMessage(err, "kick")
	}

	vars := map[string]any{"reason": reason}
	return result{
		reply:   m.render(i18n.Get("{{ .user }} was kicked. Reason: {{ .reason }}", m.language), inv, vars),
		logLine: m.render(i18n.Get("{{ .user }} was kicked by {{ .actor }}. Reason: {{ .reason }}", m.language), inv, vars),
	}, nil
}

func (m *Moderation) ban(ctx context.Context, inv *invocation) (result, error) {
	reason := m.reason(inv.cmd)
	if err := m.platform.Ban(ctx, inv.cmd.GuildID, inv.target.ID, auditReason(reason, inv)); err != nil {
		return result{}, errors.WithMessage(err, "ban")
	}

	vars := map[string]any{"reason": reason}
	return result{
		reply:   m.render(i18n.Get("{{ .user }} was banned. Reason: {{ .reason }}", m.language), inv, vars),
		logLine: m.render(i18n.Get("{{ .user }} was banned by {{ .actor }}. Reason: {{ .reason }}", m.language), inv, vars),
	}, nil
}

func (m *Moderation) tempban(ctx context.Context, inv *invocation) (result, error) {
	reason := m.reason(inv.cmd)
	minutes := clamp(optional(inv.cmd.Minutes, defaultBanMinutes), 1, bot.MaxTempbanMinutes)
	guildID, userID := inv.cmd.GuildID, inv.target.ID

	if err := m.platform.Ban(ctx, guildID, userID, auditReason(reason+" | TEMPBAN "+strconv.Itoa(minutes)+"m", inv)); err != nil {
		return result{}, errors.WithMessage(err, "tempban")
	}

	entry := inv.entry
	err := m.scheduler.Schedule("tempban:"+inv.actionID, time.Duration(minutes)*time.Minute, func(ctx context.Context) {
		if err := m.platform.Unban(ctx, guildID, userID, "Tempban expired"); err != nil {
			entry.WithError(err).Debug("tempban reversal failed")
			return
		}
		entry.Info("tempban expired")
	})
	if err != nil {
		entry.WithError(err).Warn("cant schedule tempban reversal")
	}

	vars := map[string]any{"reason": reason, "left": i18n.FormatDuration(minutes*60, m.language)}
	return result{
		reply:   m.render(i18n.Get("{{ .user }} was banned for {{ .left }}. Reason: {{ .reason }}", m.language), inv, vars),
		logLine: m.render(i18n.Get("{{ .user }} was banned for {{ .left }} by {{ .actor }}. Reason: {{ .reason }}", m.language), inv, vars),
	}, nil
}

func (m *Moderation) mute(ctx context.Context, inv *invocation) (result, error) {
	reason := m.reason(inv.cmd)
	minutes := clamp(optional(inv.cmd.Minutes, defaultMuteMinutes), 1, bot.MaxTimeoutMinutes)
	until := m.now().Add(time.Duration(minutes) * time.Minute)

	if err := m.platform.SetTimeout(ctx, inv.cmd.GuildID, inv.target.ID, &until, auditReason(reason, inv)); err != nil {
		return result{}, errors.WithMessage(err, "set timeout")
	}

	vars := map[string]any{"reason": reason, "left": i18n.FormatDuration(minutes*60, m.language)}
	return result{
		reply:   m.render(i18n.Get("{{ .user }} was timed out for {{ .left }}. Reason: {{ .reason }}", m.language), inv, vars),
		logLine: m.render(i18n.Get("{{ .user }} was timed out for {{ .left }} by {{ .actor }}. Reason: {{ .reason }}", m.language), inv, vars),
	}, nil
}

func (m *Moderation) tempmute(_ context.Context, inv *invocation) (result, error) {
	// Both parts are bounded before multiplying so the sum cannot overflow.
	hours := clamp(optional(inv.cmd.Hours, defaultTempmuteHours), 0, bot.MaxTempmuteMinutes/60)
	minutes := clamp(optional(inv.cmd.Minutes, defaultTempmuteMinutes), 0, bot.MaxTempmuteMinutes)
	total := clamp(hours*60+minutes, 1, bot.MaxTempmuteMinutes)

	m.store.MuteFor(inv.target.ID, time.Duration(total)*time.Minute)

	vars := map[string]any{"left": i18n.FormatDuration(total*60, m.language)}
	return result{
		reply:   m.render(i18n.Get("{{ .user }} is tempmuted for {{ .left }}. Their messages will be deleted.", m.language), inv, vars),
		logLine: m.render(i18n.Get("{{ .user }} was tempmuted for {{ .left }} by {{ .actor }}.", m.language), inv, vars),
	}, nil
}

func (m *Moderation) unmute(ctx context.Context, inv *invocation) (result, error) {
	userID := inv.cmd.UserID
	m.store.ClearMute(userID)

	if err := m.platform.SetTimeout(ctx, inv.cmd.GuildID, userID, nil, auditReason("Unmute", inv)); err != nil {
		inv.entry.WithError(err).Debug("cant clear timeout")
	}

	return result{
		reply:   m.render(i18n.Get("Unmuted {{ .user }}.", m.language), inv, nil),
		logLine: m.render(i18n.Get("{{ .user }} was unmuted by {{ .actor }}.", m.language), inv, nil),
	}, nil
}

func (m *Moderation) reason(cmd *bot.Command) string {
	if reason := strings.TrimSpace(cmd.Reason); reason != "" {
		return reason
	}
	return i18n.Get("No reason given", m.language)
}

// render fills a translated template; user and actor are always available.
func (m *Moderation) render(tpl string, inv *invocation, vars map[string]any) string {
	data := map[string]any{
		"user":  bot.MentionUser(inv.cmd.UserID),
		"actor": bot.MentionUser(inv.cmd.InvokerID),
	}
	for k, v := range vars {
		data[k] = v
	}
	return tool.ExecTemplate(tpl, data)
}

func optional(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func clamp(v, lowest, highest int) int {
	return min(max(v, lowest), highest)
}
