package moderation

import (
	"github.com/iamwavecut/tool"
	"github.com/pkg/errors"

	ierrors "github.com/iamwavecut/ngmod/internal/errors"
	"github.com/iamwavecut/ngmod/internal/i18n"
	"github.com/iamwavecut/ngmod/internal/policy/permissions"
)

// describe turns a failed invocation into the private reply for the invoker.
func (m *Moderation) describe(command string, err error) string {
	lang := m.language

	var r *rejection
	switch {
	case errors.As(err, &r):
		return r.text
	case errors.Is(err, ierrors.ErrNoGuild):
		return i18n.Get("This only works on a server.", lang)
	case errors.Is(err, ierrors.ErrNoActor):
		return i18n.Get("Could not load your roles.", lang)
	case errors.Is(err, ierrors.ErrUnauthorized):
		return tool.ExecTemplate(i18n.Get("You are not allowed to use /{{ .command }}.", lang), map[string]any{
			"command": command,
		})
	case errors.Is(err, ierrors.ErrInvalidInput):
		return i18n.Get("Missing or invalid command options.", lang)
	case errors.Is(err, ierrors.ErrNotFound):
		return i18n.Get("Member not found.", lang)
	case errors.Is(err, permissions.ErrSelfTarget):
		return i18n.Get("You cannot use this on yourself.", lang)
	case errors.Is(err, permissions.ErrBotTarget):
		return i18n.Get("You cannot use this on a bot.", lang)
	case errors.Is(err, permissions.ErrOwnerTarget):
		return i18n.Get("You cannot use this on the server owner.", lang)
	case errors.Is(err, permissions.ErrTargetOutranksActor):
		return i18n.Get("You cannot use this on a member with the same or a higher role than yours.", lang)
	case errors.Is(err, permissions.ErrTargetOutranksService):
		return i18n.Get("The bot is at or below the target member and cannot moderate them.", lang)
	case errors.Is(err, ierrors.ErrNoPrivileges):
		return m.lackPermission(command)
	default:
		return i18n.Get("Something went wrong, try again later.", lang)
	}
}

func (m *Moderation) lackPermission(command string) string {
	lang := m.language
	switch command {
	case "promote":
		return i18n.Get("I lack permission to add this role.", lang)
	case "demote":
		return i18n.Get("I lack permission to remove this role.", lang)
	case "kick":
		return i18n.Get("I lack permission to kick this member.", lang)
	case "ban":
		return i18n.Get("I lack permission to ban this member.", lang)
	case "tempban":
		return i18n.Get("I lack permission to tempban this member.", lang)
	case "mute":
		return i18n.Get("I lack permission to time out members (Moderate Members).", lang)
	default:
		return i18n.Get("I lack permission to do that.", lang)
	}
}
