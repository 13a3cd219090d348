package poker

type Permission string

const (
	PermVote   Permission = "vote"
	PermReveal Permission = "reveal"
	PermClear  Permission = "clear"
)

// ActionContext carries the runtime state a permission check may depend on,
// beyond the actor's role.
type ActionContext struct {
	HasVotes bool
}

// PermissionPolicy maps roles to grants. Participants drive the session,
// visitors only watch. Checks are side-effect free.
type PermissionPolicy struct {
	grants map[Role]map[Permission]bool
}

func NewPermissionPolicy() *PermissionPolicy {
	return &PermissionPolicy{
		grants: map[Role]map[Permission]bool{
			RoleParticipant: {
				PermVote:   true,
				PermReveal: true,
				PermClear:  true,
			},
			RoleVisitor: {},
		},
	}
}

func (p *PermissionPolicy) HasPermission(role Role, perm Permission) bool {
	return p.grants[role][perm]
}

// CanPerformAction combines the role grant with context predicates: reveal
// and clear additionally require that at least one vote exists.
func (p *PermissionPolicy) CanPerformAction(role Role, perm Permission, ctx ActionContext) bool {
	if !p.HasPermission(role, perm) {
		return false
	}
	switch perm {
	case PermReveal, PermClear:
		return ctx.HasVotes
	}
	return true
}
