package models

// Role is one of the fixed account roles.
type Role string

const (
	RoleSponsor  Role = "SPONSOR"
	RoleAssignee Role = "ASSIGNEE"
)

// ValidRole reports whether r is a member of the closed role set.
func ValidRole(r Role) bool {
	return r == RoleSponsor || r == RoleAssignee
}

// RoleSet is an account's set of roles. Stored as text[] in Postgres.
type RoleSet []Role

// Has reports membership.
func (s RoleSet) Has(r Role) bool {
	for _, have := range s {
		if have == r {
			return true
		}
	}
	return false
}

// Merge returns the union of s and roles, preserving order of first
// appearance. Re-syncing a role the account already holds is a no-op;
// roles are never removed.
func (s RoleSet) Merge(roles ...Role) RoleSet {
	out := s
	for _, r := range roles {
		if !out.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

// Strings converts the set for storage drivers.
func (s RoleSet) Strings() []string {
	out := make([]string, len(s))
	for i, r := range s {
		out[i] = string(r)
	}
	return out
}

// RoleSetFromStrings rebuilds a RoleSet from its stored form.
func RoleSetFromStrings(in []string) RoleSet {
	out := make(RoleSet, len(in))
	for i, r := range in {
		out[i] = Role(r)
	}
	return out
}
