package bot

import (
	"context"
	"time"

	"github.com/iamwavecut/ngmod/internal/policy/permissions"
)

// Platform is the chat platform as seen by the moderation core. Actions may
// fail with errors.ErrNoPrivileges when the bot lacks the capability.
type Platform interface {
	Member(ctx context.Context, guildID, userID string) (*permissions.Actor, error)
	Self(ctx context.Context, guildID string) (*permissions.Actor, error)
	Role(ctx context.Context, guildID, roleID string) (*permissions.Role, error)
	RoleByName(ctx context.Context, guildID, name string) (*permissions.Role, error)
	TextChannelByName(ctx context.Context, guildID string, names []string) (string, error)

	AddRole(ctx context.Context, guildID, userID, roleID, reason string) error
	RemoveRole(ctx context.Context, guildID, userID, roleID, reason string) error
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	SendMessage(ctx context.Context, channelID, text string) error
	Kick(ctx context.Context, guildID, userID, reason string) error
	Ban(ctx context.Context, guildID, userID, reason string) error
	Unban(ctx context.Context, guildID, userID, reason string) error
	SetTimeout(ctx context.Context, guildID, userID string, until *time.Time, reason string) error
}

// ServicePlatform exposes the platform adapter
type ServicePlatform interface {
	GetPlatform() Platform
}

// Service defines the core bot service interface
type Service interface {
	ServicePlatform
	GetLanguage() string
}

// Handler defines the interface for all update handlers in the system
type Handler interface {
	Handle(ctx context.Context, u *Update) (proceed bool, err error)
}
