package domain

// Action identifies a mutating operation subject to the
// privilege-escalation guard.
type Action string

const (
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// CanActOn decides whether an actor holding actorRole may perform
// action on a user holding targetRole. It is a pure policy function:
// no store access, deterministic for a given input.
//
// Rules, in order:
//   - superadmin users can never be deleted, regardless of actor;
//   - a superadmin actor may otherwise act on anyone;
//   - every other actor is bound by the rank ceiling and may only
//     manage targets of strictly lower privilege.
//
// A nil return means the rank rules allow the action. Self-deletion and
// system-role immutability are separate gates checked by the services.
func CanActOn(actorRole, targetRole string, action Action) error {
	if action == ActionDelete && targetRole == RoleSuperadmin {
		return ErrSuperadminUndeletable
	}
	if actorRole == RoleSuperadmin {
		return nil
	}
	if roleRank(targetRole) >= roleRank(actorRole) {
		return ErrRankCeiling
	}
	return nil
}
