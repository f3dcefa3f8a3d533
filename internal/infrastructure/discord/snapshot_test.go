package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"

	"github.com/iamwavecut/ngmod/internal/policy/permissions"
)

func testGuild() *discordgo.Guild {
	return &discordgo.Guild{
		ID:      "g",
		OwnerID: "owner",
		Roles: []*discordgo.Role{
			{ID: "g", Name: "@everyone", Position: 0, Permissions: discordgo.PermissionSendMessages},
			{ID: "lvl1", Name: "LEVEL-1", Position: 1},
			{ID: "mod", Name: "Moderator", Position: 5, Permissions: discordgo.PermissionKickMembers | discordgo.PermissionModerateMembers},
			{ID: "boss", Name: "MAJITEL", Position: 9},
			{ID: "admin", Name: "Admin", Position: 7, Permissions: discordgo.PermissionAdministrator},
			{ID: "hook", Name: "Integration", Position: 3, Managed: true},
		},
	}
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	g := testGuild()
	tests := []struct {
		name   string
		member *discordgo.Member
		rank   int
		owner  bool
		admin  bool
		perms  permissions.Permission
		names  int
	}{
		{
			name:   "no-roles",
			member: &discordgo.Member{User: &discordgo.User{ID: "u"}},
		},
		{
			name:   "highest-position-wins",
			member: &discordgo.Member{User: &discordgo.User{ID: "u"}, Roles: []string{"lvl1", "boss", "mod"}},
			rank:   9,
			perms:  permissions.KickMembers | permissions.ModerateMembers,
			names:  3,
		},
		{
			name:   "administrator",
			member: &discordgo.Member{User: &discordgo.User{ID: "u"}, Roles: []string{"admin"}},
			rank:   7,
			admin:  true,
			perms:  permissions.Administrator,
			names:  1,
		},
		{
			name:   "owner",
			member: &discordgo.Member{User: &discordgo.User{ID: "owner"}},
			owner:  true,
			admin:  true,
		},
		{
			name:   "unknown-role-ignored",
			member: &discordgo.Member{User: &discordgo.User{ID: "u"}, Roles: []string{"deleted", "lvl1"}},
			rank:   1,
			names:  1,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := snapshot(g, tt.member)
			if got.Rank != tt.rank || got.Owner != tt.owner || got.Administrator != tt.admin {
				t.Fatalf("unexpected snapshot %+v", got)
			}
			if got.Permissions != tt.perms {
				t.Fatalf("permissions = %b, want %b", got.Permissions, tt.perms)
			}
			if len(got.RoleNames) != tt.names || len(got.RoleIDs) != tt.names {
				t.Fatalf("unexpected roles %v %v", got.RoleIDs, got.RoleNames)
			}
		})
	}
}

func TestSnapshotFeedsEvaluator(t *testing.T) {
	t.Parallel()

	e := permissions.NewEvaluator([]string{"MAJITEL"})
	actor := snapshot(testGuild(), &discordgo.Member{User: &discordgo.User{ID: "u"}, Roles: []string{"boss"}})
	if !e.HasElevatedPrivilege(actor) {
		t.Fatalf("privileged role name must elevate")
	}
	if !actor.HasRole("boss") {
		t.Fatalf("role ids must be kept")
	}

	owner := snapshot(testGuild(), &discordgo.Member{User: &discordgo.User{ID: "owner"}})
	if !e.Authorized(owner) {
		t.Fatalf("owner without roles must pass the elevated-only check")
	}
}

func TestToRole(t *testing.T) {
	t.Parallel()

	g := testGuild()
	everyone := toRole(g.ID, g.Roles[0])
	if !everyone.Default || permissions.RoleEditable(everyone) {
		t.Fatalf("@everyone must be the default role")
	}
	managed := toRole(g.ID, g.Roles[5])
	if !managed.Managed || permissions.RoleEditable(managed) {
		t.Fatalf("integration role must be managed")
	}
	if mod := toRole(g.ID, g.Roles[2]); mod.Rank != 5 || !permissions.RoleEditable(mod) {
		t.Fatalf("unexpected role %+v", mod)
	}
}

func TestFindTextChannel(t *testing.T) {
	t.Parallel()

	channels := []*discordgo.Channel{
		{ID: "voice", Name: "role-log", Type: discordgo.ChannelTypeGuildVoice, Position: 0},
		{ID: "late", Name: "role log", Type: discordgo.ChannelTypeGuildText, Position: 8},
		{ID: "early", Name: "role-log", Type: discordgo.ChannelTypeGuildText, Position: 2},
		{ID: "hist", Name: "role-history", Type: discordgo.ChannelTypeGuildText, Position: 3},
	}

	if got := findTextChannel(channels, []string{"role log", "role-log"}); got != "early" {
		t.Fatalf("got %q, want first text channel in guild order", got)
	}
	if got := findTextChannel(channels, []string{"role history", "role-history"}); got != "hist" {
		t.Fatalf("got %q, want hist", got)
	}
	if got := findTextChannel(channels, []string{"missing"}); got != "" {
		t.Fatalf("got %q, want none", got)
	}
}
