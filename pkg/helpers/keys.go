package helpers

import "github.com/google/uuid"

// NewActivationKey returns a fresh one-time activation key. Unique while
// unconsumed; uniqueness is enforced by the store.
func NewActivationKey() string {
	return uuid.NewString()
}
