// Package disclosure decides, per principal and per idea, whether protected
// content and the idea's chat channel are visible. The policy itself is a pure
// function; the service around it supplies the NDA lookup and caching.
package disclosure

import (
	"richideia/internal/catalog"
	"richideia/pkg/domain"
)

// Access is the policy verdict.
type Access string

const (
	// AccessFull exposes the protected description and the chat channel.
	AccessFull Access = "full"
	// AccessPartial suppresses protected fields and flags nda_required.
	AccessPartial Access = "partial"
)

// Decide is the disclosure policy: full visibility for the idea's creator, for
// elevated roles, and for principals holding an NDA on the idea; partial for
// everyone else. Pure and side-effect free.
func Decide(principal domain.Principal, idea catalog.Idea, hasNDA bool) Access {
	if principal.ID == idea.CreatorID {
		return AccessFull
	}
	if principal.Role.Elevated() {
		return AccessFull
	}
	if hasNDA {
		return AccessFull
	}
	return AccessPartial
}
