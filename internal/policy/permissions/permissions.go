package permissions

import (
	"errors"
	"slices"
)

// Permission is a bitmask of native guild capabilities.
type Permission int64

const (
	KickMembers Permission = 1 << iota
	BanMembers
	ModerateMembers
	ManageMessages
	Administrator
)

// Actor is a point-in-time snapshot of a guild member.
type Actor struct {
	ID            string
	Rank          int
	Owner         bool
	Administrator bool
	Bot           bool
	RoleIDs       []string
	RoleNames     []string
	Permissions   Permission
}

// HasRole reports whether the member currently holds roleID.
func (a *Actor) HasRole(roleID string) bool {
	if a == nil {
		return false
	}
	return slices.Contains(a.RoleIDs, roleID)
}

// Can reports whether the member holds the native permission p.
func (a *Actor) Can(p Permission) bool {
	if a == nil {
		return false
	}
	return a.Owner || a.Administrator || a.Permissions&p == p
}

type Role struct {
	ID      string
	Name    string
	Rank    int
	Default bool
	Managed bool
}

var (
	ErrSelfTarget            = errors.New("target is the actor")
	ErrBotTarget             = errors.New("target is a bot")
	ErrOwnerTarget           = errors.New("target is the server owner")
	ErrTargetOutranksActor   = errors.New("target rank is not below the actor")
	ErrTargetOutranksService = errors.New("target rank is not below the service")
)

// Evaluator holds the privileged role-name allow-list.
type Evaluator struct {
	privileged map[string]struct{}
}

func NewEvaluator(privilegedRoles []string) *Evaluator {
	privileged := make(map[string]struct{}, len(privilegedRoles))
	for _, name := range privilegedRoles {
		if name == "" {
			continue
		}
		privileged[name] = struct{}{}
	}
	return &Evaluator{privileged: privileged}
}

// HasElevatedPrivilege is true for the owner, administrators and holders of a
// privileged role. Role names are matched exactly, case included.
func (e *Evaluator) HasElevatedPrivilege(actor *Actor) bool {
	if actor == nil {
		return false
	}
	if actor.Owner || actor.Administrator {
		return true
	}
	for _, name := range actor.RoleNames {
		if _, ok := e.privileged[name]; ok {
			return true
		}
	}
	return false
}

// Authorized accepts elevated actors or actors holding any of perms.
func (e *Evaluator) Authorized(actor *Actor, perms ...Permission) bool {
	if e.HasElevatedPrivilege(actor) {
		return true
	}
	for _, p := range perms {
		if actor.Can(p) {
			return true
		}
	}
	return false
}

// AbuseGuard returns the first reason the actor may not act on target, or nil.
// A nil service skips the service rank check; the platform still refuses
// actions the service cannot perform.
func AbuseGuard(actor, target, service *Actor) error {
	switch {
	case target.ID == actor.ID:
		return ErrSelfTarget
	case target.Bot:
		return ErrBotTarget
	case target.Owner:
		return ErrOwnerTarget
	case !actor.Owner && actor.Rank <= target.Rank:
		return ErrTargetOutranksActor
	case service != nil && service.Rank <= target.Rank:
		return ErrTargetOutranksService
	}
	return nil
}

func RoleEditable(role *Role) bool {
	return !role.Default && !role.Managed
}

func CanAssignRole(actor *Actor, role *Role) bool {
	if actor.Owner {
		return true
	}
	return actor.Rank > role.Rank
}

func ServiceCanAssignRole(service *Actor, role *Role) bool {
	if service == nil {
		return false
	}
	return service.Rank > role.Rank
}
