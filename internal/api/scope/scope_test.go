package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fitfeed/fitfeed/internal/types"
)

func TestOwnerOnly(t *testing.T) {
	t.Run("OwnerAllowed", func(t *testing.T) {
		assert.NoError(t, OwnerOnly("user123", "user123"))
	})

	t.Run("OtherUserForbidden", func(t *testing.T) {
		assert.ErrorIs(t, OwnerOnly("user123", "intruder"), types.ErrForbidden)
	})

	t.Run("AnonymousUnauthenticated", func(t *testing.T) {
		assert.ErrorIs(t, OwnerOnly("user123", ""), types.ErrUnauthenticated)
	})
}

func TestPublic(t *testing.T) {
	assert.NoError(t, Public("user123", ""))
	assert.NoError(t, Public("", "anyone"))
}
