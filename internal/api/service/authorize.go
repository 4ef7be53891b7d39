package service

import "ratehub/internal/api/authz"

// authorize maps an engine decision onto the service error taxonomy.
// Callers must resolve existence first; a denial here never stands in for a
// missing resource.
func authorize(actor authz.Actor, action authz.Action, resource authz.Resource, ownerID string) error {
	switch authz.Decide(actor, action, resource, ownerID) {
	case authz.Allow:
		return nil
	case authz.DenyUnauthenticated:
		return ErrUnauthenticated
	default:
		return ErrForbidden
	}
}
