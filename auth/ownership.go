package auth

import (
	"errors"

	"github.com/google/uuid"
)

// ErrNotOwner is returned when a caller tries to access a resource owned
// by someone else.
var ErrNotOwner = errors.New("resource not owned by caller")

// Owned is any resource with exactly one owning user, fixed at creation.
type Owned interface {
	OwnedBy() uuid.UUID
}

// Authorize decides whether the verified caller may read or mutate the
// fetched resource. Allowed iff the resource's owner equals the caller;
// no admin override, no sharing. It must be applied after the resource is
// fetched and before any mutation or non-listing read. Listings that are
// already store-filtered by owner do not need a per-item check.
func Authorize(callerID uuid.UUID, resource Owned) error {
	if resource.OwnedBy() != callerID {
		return ErrNotOwner
	}
	return nil
}
