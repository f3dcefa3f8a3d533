package discord

import (
	"sort"

	"github.com/bwmarrin/discordgo"

	"github.com/iamwavecut/ngmod/internal/policy/permissions"
)

var permissionBits = []struct {
	discord int64
	local   permissions.Permission
}{
	{discordgo.PermissionKickMembers, permissions.KickMembers},
	{discordgo.PermissionBanMembers, permissions.BanMembers},
	{discordgo.PermissionModerateMembers, permissions.ModerateMembers},
	{discordgo.PermissionManageMessages, permissions.ManageMessages},
	{discordgo.PermissionAdministrator, permissions.Administrator},
}

func fromDiscordPermissions(bits int64) permissions.Permission {
	var p permissions.Permission
	for _, b := range permissionBits {
		if bits&b.discord == b.discord {
			p |= b.local
		}
	}
	return p
}

// snapshot derives the actor view of member: rank is the highest position among
// its roles, permissions are the union of @everyone and its roles.
func snapshot(guild *discordgo.Guild, member *discordgo.Member) *permissions.Actor {
	roles := make(map[string]*discordgo.Role, len(guild.Roles))
	for _, r := range guild.Roles {
		roles[r.ID] = r
	}

	actor := &permissions.Actor{
		RoleIDs:   make([]string, 0, len(member.Roles)),
		RoleNames: make([]string, 0, len(member.Roles)),
	}
	if member.User != nil {
		actor.ID = member.User.ID
		actor.Bot = member.User.Bot
	}
	actor.Owner = actor.ID != "" && actor.ID == guild.OwnerID

	var bits int64
	if everyone, ok := roles[guild.ID]; ok {
		bits |= everyone.Permissions
	}
	for _, roleID := range member.Roles {
		role, ok := roles[roleID]
		if !ok {
			continue
		}
		actor.RoleIDs = append(actor.RoleIDs, role.ID)
		actor.RoleNames = append(actor.RoleNames, role.Name)
		bits |= role.Permissions
		if role.Position > actor.Rank {
			actor.Rank = role.Position
		}
	}

	actor.Permissions = fromDiscordPermissions(bits)
	actor.Administrator = actor.Owner || actor.Permissions&permissions.Administrator != 0
	return actor
}

func toRole(guildID string, role *discordgo.Role) *permissions.Role {
	return &permissions.Role{
		ID:      role.ID,
		Name:    role.Name,
		Rank:    role.Position,
		Default: role.ID == guildID,
		Managed: role.Managed,
	}
}

func findRole(guild *discordgo.Guild, match func(*discordgo.Role) bool) *discordgo.Role {
	for _, r := range guild.Roles {
		if match(r) {
			return r
		}
	}
	return nil
}

// findTextChannel returns the first text channel, in guild order, whose name
// is one of names.
func findTextChannel(channels []*discordgo.Channel, names []string) string {
	wanted := make(map[string]struct{}, len(names))
	for _, n := range names {
		wanted[n] = struct{}{}
	}

	text := make([]*discordgo.Channel, 0, len(channels))
	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildText {
			text = append(text, ch)
		}
	}
	sort.SliceStable(text, func(i, j int) bool {
		return text[i].Position < text[j].Position
	})

	for _, ch := range text {
		if _, ok := wanted[ch.Name]; ok {
			return ch.ID
		}
	}
	return ""
}
