package valueobjects

import (
	pkgerrors "reqboard/pkg/errors"
)

// Size is a value object for element dimensions
type Size struct {
	width  float64
	height float64
}

// NewSize creates a size with validation
func NewSize(width, height float64) (Size, error) {
	if !isFinite(width) || !isFinite(height) {
		return Size{}, pkgerrors.NewValidationError("invalid size: must be finite numbers")
	}
	if width <= 0 || height <= 0 {
		return Size{}, pkgerrors.NewValidationError("invalid size: must be positive")
	}
	return Size{width: width, height: height}, nil
}

// Width returns the width
func (s Size) Width() float64 {
	return s.width
}

// Height returns the height
func (s Size) Height() float64 {
	return s.height
}

// ClampMin returns the size with both dimensions raised to the given minimums
func (s Size) ClampMin(minWidth, minHeight float64) Size {
	w, h := s.width, s.height
	if w < minWidth {
		w = minWidth
	}
	if h < minHeight {
		h = minHeight
	}
	return Size{width: w, height: h}
}

// Scale returns the size multiplied by the given ratio
func (s Size) Scale(ratio float64) Size {
	return Size{width: s.width * ratio, height: s.height * ratio}
}

// Equals checks if two sizes are equal
func (s Size) Equals(other Size) bool {
	return s.width == other.width && s.height == other.height
}
