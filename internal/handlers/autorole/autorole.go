package autorole

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/iamwavecut/ngmod/internal/bot"
	ierrors "github.com/iamwavecut/ngmod/internal/errors"
	"github.com/iamwavecut/ngmod/internal/policy/permissions"
)

const reason = "AutoRole on join"

type roles interface {
	RoleByName(ctx context.Context, guildID, name string) (*permissions.Role, error)
	AddRole(ctx context.Context, guildID, userID, roleID, reason string) error
}

// AutoRole gives every human newcomer the configured role.
type AutoRole struct {
	roles    roles
	roleName string
}

func NewAutoRole(s bot.Service, roleName string) *AutoRole {
	a := &AutoRole{
		roles:    s.GetPlatform(),
		roleName: roleName,
	}
	a.getLogEntry().WithField("role", roleName).Debug("created new autorole")
	return a
}

func (a *AutoRole) Handle(ctx context.Context, u *bot.Update) (bool, error) {
	join := u.MemberJoin
	if join == nil || join.Bot || a.roleName == "" {
		return true, nil
	}

	entry := a.getLogEntry().WithFields(log.Fields{
		"guild_id": join.GuildID,
		"user_id":  join.UserID,
		"role":     a.roleName,
	})

	role, err := a.roles.RoleByName(ctx, join.GuildID, a.roleName)
	if err != nil {
		if errors.Is(err, ierrors.ErrNotFound) {
			entry.Warn("auto role does not exist")
			return true, nil
		}
		entry.WithError(err).Error("cant resolve auto role")
		return true, nil
	}

	if err := a.roles.AddRole(ctx, join.GuildID, join.UserID, role.ID, reason); err != nil {
		entry.WithError(err).Error("cant assign auto role")
		return true, nil
	}
	entry.Info("auto role assigned")
	return true, nil
}

func (a *AutoRole) getLogEntry() *log.Entry {
	return log.WithField("object", "AutoRole")
}
