package bitmap

import (
	"fmt"
	"math"
)

// Unbounded is the constraint value layouts use for "no limit".
const Unbounded = math.MaxInt32

// ResolveTarget turns layout constraints into a decode target. A side that
// is zero, negative or Unbounded cannot be resolved and copies the other
// side, producing a square. Both sides unresolvable is an error.
func ResolveTarget(maxWidth, maxHeight int) (int, int, error) {
	width, height := -1, -1
	if resolvable(maxWidth) {
		width = maxWidth
	}
	if resolvable(maxHeight) {
		height = maxHeight
	}
	if width == -1 {
		width = height
	}
	if height == -1 {
		height = width
	}
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("%w: %dx%d", ErrInvalidTarget, maxWidth, maxHeight)
	}
	return width, height, nil
}

func resolvable(v int) bool {
	return v > 0 && v < Unbounded
}
