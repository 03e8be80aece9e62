package sim

import "errors"

// Simulation-domain failures. Exhaustion errors are recoverable: the operation
// that returned them left all state unchanged.
var (
	// ErrNoFreeSlots reports that no physical object descriptor is available.
	ErrNoFreeSlots = errors.New("no free physical object slots")
	// ErrNoSpace reports that not enough free blocks (or memory) remain.
	ErrNoSpace = errors.New("not enough free space")
	// ErrNotFound reports a lookup miss. It is not an exhaustion condition.
	ErrNotFound = errors.New("object not found")
)

// IsExhausted reports whether err is a resource-exhaustion failure.
func IsExhausted(err error) bool {
	return errors.Is(err, ErrNoFreeSlots) || errors.Is(err, ErrNoSpace)
}
