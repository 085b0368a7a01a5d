// Package scope provides the owner-scoping policy composed into resource
// services. Resources are created with the authenticated identity stamped as
// owner; a policy then decides who may mutate them.
package scope

import (
	"fmt"

	"github.com/fitfeed/fitfeed/internal/types"
)

// Policy authorizes a mutation of a resource owned by owner, attempted by
// actor.
type Policy func(owner, actor string) error

// Public allows anyone. Used for reads.
func Public(_, _ string) error { return nil }

// OwnerOnly allows only the resource's owner.
func OwnerOnly(owner, actor string) error {
	if actor == "" {
		return types.ErrUnauthenticated
	}
	if owner != actor {
		return fmt.Errorf("%w: resource belongs to another user", types.ErrForbidden)
	}
	return nil
}
