// Package authz implements the ownership guard: a pure decision over the
// actor, the resource owner and the relation the operation requires. It is
// evaluated after existence checks and before any mutation.
package authz

import (
	"github.com/redsocial-app/backend/internal/apperrors"
	"github.com/redsocial-app/backend/internal/models"
)

// Relation names the relationship an operation requires between actor and
// resource.
type Relation int

const (
	// Owner permits only the resource owner.
	Owner Relation = iota + 1
	// OwnerOrAdmin permits the owner or any admin actor.
	OwnerOrAdmin
)

// Authorize decides whether the actor may mutate a resource owned by
// ownerID. A deny is terminal and surfaces as a Forbidden error, never
// silently corrected.
func Authorize(actorID uint, actorRole string, ownerID uint, rel Relation) error {
	if actorID == ownerID {
		return nil
	}
	if rel == OwnerOrAdmin && actorRole == models.RoleAdmin {
		return nil
	}
	return apperrors.Forbidden("you are not allowed to modify this resource")
}
