package domain

import dErrors "richideia/pkg/domain-errors"

// Role is the marketplace role carried in the access token. Session issuance
// lives outside this service; the role arrives as an opaque claim.
type Role string

const (
	RoleCreator Role = "creator"
	RoleBuyer   Role = "buyer"
	RoleAdmin   Role = "admin"
	RoleFounder Role = "founder"
)

var validRoles = map[Role]bool{
	RoleCreator: true,
	RoleBuyer:   true,
	RoleAdmin:   true,
	RoleFounder: true,
}

// ParseRole constructs a Role from external input, enforcing the allowlist.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "role cannot be empty")
	}
	r := Role(s)
	if !validRoles[r] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid role: "+s)
	}
	return r, nil
}

// Elevated reports whether the role bypasses the disclosure gate.
func (r Role) Elevated() bool {
	return r == RoleAdmin || r == RoleFounder
}

func (r Role) String() string { return string(r) }

// Principal is the authenticated actor on whose behalf an operation executes.
type Principal struct {
	ID   UserID
	Role Role
}
