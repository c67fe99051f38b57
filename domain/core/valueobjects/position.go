package valueobjects

import (
	"math"

	pkgerrors "reqboard/pkg/errors"
)

// Position is a value object representing element coordinates on the board
type Position struct {
	x float64
	y float64
}

// NewPosition creates a position with validation
func NewPosition(x, y float64) (Position, error) {
	if !isFinite(x) || !isFinite(y) {
		return Position{}, pkgerrors.NewValidationError("invalid coordinates: must be finite numbers")
	}
	return Position{x: x, y: y}, nil
}

// X returns the X coordinate
func (p Position) X() float64 {
	return p.x
}

// Y returns the Y coordinate
func (p Position) Y() float64 {
	return p.y
}

// Translate moves the position by the given offsets
func (p Position) Translate(dx, dy float64) (Position, error) {
	return NewPosition(p.x+dx, p.y+dy)
}

// ScaleAbout maps the position through an anchor-preserving scale: the
// anchor's image is the anchor itself, every other point moves along the
// ray from the anchor by the given ratio.
func (p Position) ScaleAbout(anchor Position, ratio float64) Position {
	return Position{
		x: anchor.x + (p.x-anchor.x)*ratio,
		y: anchor.y + (p.y-anchor.y)*ratio,
	}
}

// Equals checks if two positions are equal
func (p Position) Equals(other Position) bool {
	const epsilon = 1e-9
	return math.Abs(p.x-other.x) < epsilon && math.Abs(p.y-other.y) < epsilon
}

// isFinite checks if a coordinate is a valid finite number
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
