package autorole

import (
	"context"
	"errors"
	"testing"

	"github.com/iamwavecut/ngmod/internal/bot"
	ierrors "github.com/iamwavecut/ngmod/internal/errors"
	"github.com/iamwavecut/ngmod/internal/policy/permissions"
)

type rolesStub struct {
	role    *permissions.Role
	findErr error
	addErr  error
	added   []string
	reasons []string
}

func (r *rolesStub) RoleByName(_ context.Context, _, name string) (*permissions.Role, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	if r.role == nil || r.role.Name != name {
		return nil, ierrors.ErrNotFound
	}
	return r.role, nil
}

func (r *rolesStub) AddRole(_ context.Context, _, userID, roleID, reason string) error {
	r.added = append(r.added, userID+":"+roleID)
	r.reasons = append(r.reasons, reason)
	return r.addErr
}

func newAutoRole(stub *rolesStub) *AutoRole {
	return &AutoRole{roles: stub, roleName: "LEVEL-1"}
}

func join(isBot bool) *bot.Update {
	return &bot.Update{MemberJoin: &bot.MemberJoin{GuildID: "g", UserID: "u", Bot: isBot}}
}

func TestAutoRoleAssignsOnJoin(t *testing.T) {
	t.Parallel()

	stub := &rolesStub{role: &permissions.Role{ID: "r1", Name: "LEVEL-1"}}
	proceed, err := newAutoRole(stub).Handle(context.Background(), join(false))
	if err != nil || !proceed {
		t.Fatalf("unexpected result: %v %v", proceed, err)
	}
	if len(stub.added) != 1 || stub.added[0] != "u:r1" {
		t.Fatalf("unexpected role assignments %v", stub.added)
	}
	if stub.reasons[0] != "AutoRole on join" {
		t.Fatalf("unexpected reason %q", stub.reasons[0])
	}
}

func TestAutoRoleSkips(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		stub *rolesStub
		u    *bot.Update
	}{
		{name: "bot", stub: &rolesStub{role: &permissions.Role{ID: "r1", Name: "LEVEL-1"}}, u: join(true)},
		{name: "missing-role", stub: &rolesStub{role: &permissions.Role{ID: "r1", Name: "OTHER"}}, u: join(false)},
		{name: "lookup-failure", stub: &rolesStub{findErr: errors.New("boom")}, u: join(false)},
		{name: "not-a-join", stub: &rolesStub{role: &permissions.Role{ID: "r1", Name: "LEVEL-1"}}, u: &bot.Update{Message: &bot.Message{}}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			proceed, err := newAutoRole(tt.stub).Handle(context.Background(), tt.u)
			if err != nil || !proceed {
				t.Fatalf("unexpected result: %v %v", proceed, err)
			}
			if len(tt.stub.added) != 0 {
				t.Fatalf("role must not be assigned, got %v", tt.stub.added)
			}
		})
	}
}

func TestAutoRoleSwallowsAssignFailure(t *testing.T) {
	t.Parallel()

	stub := &rolesStub{role: &permissions.Role{ID: "r1", Name: "LEVEL-1"}, addErr: ierrors.ErrNoPrivileges}
	proceed, err := newAutoRole(stub).Handle(context.Background(), join(false))
	if err != nil || !proceed {
		t.Fatalf("assign failure must not stop the chain: %v %v", proceed, err)
	}
}
