package domain

import "fmt"

// Role is the fixed set of roles a subject can hold. A session's role is
// captured at login and never changes for the life of the token family.
type Role string

const (
	RoleAdmin         Role = "admin"
	RoleRecruiter     Role = "recruiter"
	RoleHiringManager Role = "hiring_manager"
)

// Permission names as they appear in token claims.
const (
	PermReadProfiles   = "read:profiles"
	PermWriteProfiles  = "write:profiles"
	PermReadSearches   = "read:searches"
	PermWriteSearches  = "write:searches"
	PermReadAnalyses   = "read:analyses"
	PermRunAnalyses    = "run:analyses"
	PermManageUsers    = "manage:users"
	PermRevokeSessions = "revoke:sessions"
)

var rolePermissions = map[Role][]string{
	RoleAdmin: {
		PermReadProfiles, PermWriteProfiles,
		PermReadSearches, PermWriteSearches,
		PermReadAnalyses, PermRunAnalyses,
		PermManageUsers, PermRevokeSessions,
	},
	RoleRecruiter: {
		PermReadProfiles, PermWriteProfiles,
		PermReadSearches, PermWriteSearches,
		PermReadAnalyses, PermRunAnalyses,
	},
	RoleHiringManager: {
		PermReadProfiles, PermReadSearches, PermReadAnalyses,
	},
}

// ParseRole validates a role string coming from an identity provider.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleRecruiter, RoleHiringManager:
		return Role(s), nil
	}
	return "", fmt.Errorf("domain: unknown role %q", s)
}

// Permissions returns the permission set granted by the role. The slice
// is a copy; callers may keep it.
func (r Role) Permissions() []string {
	perms, ok := rolePermissions[r]
	if !ok {
		return nil
	}
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	_, ok := rolePermissions[r]
	return ok
}

func (r Role) String() string { return string(r) }
