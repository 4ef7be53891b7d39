// Package authz holds the authorization decision engine. It is pure: the
// caller resolves the actor and the resource owner first, then asks for a
// decision. Existence errors must be handled before calling in here so that
// a Forbidden response never leaks what a caller cannot see.
package authz

import "ratehub/internal/api/models"

// Actor is the caller of an operation, anonymous or authenticated.
// An anonymous actor has Authenticated == false and empty ID/Role.
type Actor struct {
	ID            string
	Role          string
	Superuser     bool
	Authenticated bool
}

// Anonymous is the actor used when no credential was presented.
var Anonymous = Actor{}

func (a Actor) isAdmin() bool {
	return a.Authenticated && (a.Role == models.RoleAdmin || a.Superuser)
}

func (a Actor) isModerator() bool {
	return a.Authenticated && a.Role == models.RoleModerator
}

// Action classifies what the caller wants to do with a resource.
type Action int

const (
	ActionRead Action = iota
	ActionCreate
	ActionUpdate
	ActionDelete
)

// Resource is the kind of object the action targets.
type Resource int

const (
	ResourceCategory Resource = iota
	ResourceGenre
	ResourceTitle
	ResourceReview
	ResourceComment
	ResourceUser
	ResourceSelf
)

// Decision is the outcome of an authorization check. Deny outcomes keep the
// reason so the transport layer can answer 401 vs 403.
type Decision int

const (
	Allow Decision = iota
	DenyUnauthenticated
	DenyForbidden
)

// Decide evaluates the permission rules in fixed precedence order, first
// match wins. ownerID is the author of the target object and only matters
// for review/comment mutation; pass "" when there is no owner.
//
//  1. reads are open to everyone, including anonymous callers
//  2. writes to catalog resources and other users' accounts are admin-only
//  3. creating a review or comment needs any authenticated actor
//  4. mutating a review or comment needs the owner, a moderator, or an admin
//  5. the caller's own profile is always readable and writable by its owner
func Decide(actor Actor, action Action, resource Resource, ownerID string) Decision {
	if action == ActionRead && resource != ResourceUser && resource != ResourceSelf {
		return Allow
	}

	switch resource {
	case ResourceCategory, ResourceGenre, ResourceTitle, ResourceUser:
		if !actor.Authenticated {
			return DenyUnauthenticated
		}
		if actor.isAdmin() {
			return Allow
		}
		return DenyForbidden

	case ResourceReview, ResourceComment:
		if !actor.Authenticated {
			return DenyUnauthenticated
		}
		if action == ActionCreate {
			return Allow
		}
		if actor.ID == ownerID || actor.isModerator() || actor.isAdmin() {
			return Allow
		}
		return DenyForbidden

	case ResourceSelf:
		if !actor.Authenticated {
			return DenyUnauthenticated
		}
		return Allow
	}

	return DenyForbidden
}
