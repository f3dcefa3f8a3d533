package discord

import (
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"

	ierrors "github.com/iamwavecut/ngmod/internal/errors"
)

// classify maps REST failures onto the shared error taxonomy and keeps the
// original error in the message.
func classify(err error, op string) error {
	if err == nil {
		return nil
	}

	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) {
		code := 0
		if restErr.Message != nil {
			code = restErr.Message.Code
		}
		status := 0
		if restErr.Response != nil {
			status = restErr.Response.StatusCode
		}

		switch {
		case code == discordgo.ErrCodeMissingPermissions,
			code == discordgo.ErrCodeMissingAccess,
			status == http.StatusForbidden:
			return errors.Wrap(ierrors.ErrNoPrivileges, op+": "+err.Error())
		case code == discordgo.ErrCodeUnknownMember,
			code == discordgo.ErrCodeUnknownBan,
			code == discordgo.ErrCodeUnknownRole,
			code == discordgo.ErrCodeUnknownUser,
			code == discordgo.ErrCodeUnknownChannel,
			code == discordgo.ErrCodeUnknownGuild,
			status == http.StatusNotFound:
			return errors.Wrap(ierrors.ErrNotFound, op+": "+err.Error())
		}
	}
	if errors.Is(err, discordgo.ErrStateNotFound) {
		return errors.Wrap(ierrors.ErrNotFound, op)
	}
	return errors.Wrap(err, op)
}
