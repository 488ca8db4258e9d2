package auth

// Role is the closed set of console roles. Capabilities are enumerated
// per role rather than inferred from rank: staff and viewer hold
// disjoint permissions in some flows, so no privilege ordering is
// assumed anywhere.
type Role string

const (
	RoleSuperadmin Role = "superadmin"
	RoleOrgAdmin   Role = "org_admin"
	RoleStaff      Role = "staff"
	RoleViewer     Role = "viewer"
)

// Capability is an atomic permission token gating one class of action.
// Capabilities are never persisted; they are recomputed from the role
// on every check.
type Capability string

const (
	CapEventRead         Capability = "event:read"
	CapEventWrite        Capability = "event:write"
	CapEventStatus       Capability = "event:status"
	CapParticipantRead   Capability = "participant:read"
	CapParticipantWrite  Capability = "participant:write"
	CapParticipantOptOut Capability = "participant:optout"
	CapRaffleRead        Capability = "raffle:read"
	CapRaffleWrite       Capability = "raffle:write"
	CapRaffleDraw        Capability = "raffle:draw"
	CapRaffleDelete      Capability = "raffle:delete"
	CapScoreWrite        Capability = "score:write"
	CapUserManage        Capability = "user:manage"
)

// CapabilitySet is a membership set over capabilities.
type CapabilitySet map[Capability]bool

func (s CapabilitySet) Has(c Capability) bool { return s[c] }

func newSet(caps ...Capability) CapabilitySet {
	s := make(CapabilitySet, len(caps))
	for _, c := range caps {
		s[c] = true
	}
	return s
}

// roleCapabilities is the total mapping from the closed role set to
// capability sets. Entries are enumerated explicitly; there is no
// fallthrough between roles.
var roleCapabilities = map[Role]CapabilitySet{
	RoleSuperadmin: newSet(
		CapEventRead, CapEventWrite, CapEventStatus,
		CapParticipantRead, CapParticipantWrite, CapParticipantOptOut,
		CapRaffleRead, CapRaffleWrite, CapRaffleDraw, CapRaffleDelete,
		CapScoreWrite, CapUserManage,
	),
	RoleOrgAdmin: newSet(
		CapEventRead, CapEventWrite, CapEventStatus,
		CapParticipantRead, CapParticipantWrite, CapParticipantOptOut,
		CapRaffleRead, CapRaffleWrite, CapRaffleDraw, CapRaffleDelete,
		CapScoreWrite,
	),
	RoleStaff: newSet(
		CapEventRead, CapEventStatus,
		CapParticipantRead, CapParticipantWrite, CapParticipantOptOut,
		CapRaffleRead, CapRaffleWrite, CapRaffleDraw, CapRaffleDelete,
	),
	RoleViewer: newSet(
		CapEventRead, CapParticipantRead, CapRaffleRead,
	),
}

// Capabilities resolves the capability set for a role. Unknown roles
// resolve to the empty set, which denies everything.
func Capabilities(r Role) CapabilitySet {
	if caps, ok := roleCapabilities[r]; ok {
		return caps
	}
	return CapabilitySet{}
}

// HasCapability reports whether role r (with the orthogonal judge flag)
// holds capability c. The judge flag grants score:write on top of any
// valid role; it is an extra axis, not a fifth role, and it grants
// nothing else.
func HasCapability(r Role, judge bool, c Capability) bool {
	if Capabilities(r).Has(c) {
		return true
	}
	return judge && r.Valid() && c == CapScoreWrite
}

// IsAdmin is shorthand for the admin roles. Strictly equivalent to
// checking event:write membership.
func IsAdmin(r Role) bool {
	return r == RoleSuperadmin || r == RoleOrgAdmin
}

// IsStaff reports whether r may operate event-floor workflows.
func IsStaff(r Role) bool {
	return r == RoleStaff || IsAdmin(r)
}

// IsJudge reports whether the subject may submit scores.
func IsJudge(r Role, judge bool) bool {
	return HasCapability(r, judge, CapScoreWrite)
}

// Valid reports whether r belongs to the closed role set.
func (r Role) Valid() bool {
	_, ok := roleCapabilities[r]
	return ok
}
