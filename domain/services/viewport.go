package services

import (
	"math"

	"reqboard/domain/config"
	"reqboard/domain/core/aggregates"
	"reqboard/domain/core/valueobjects"
	pkgerrors "reqboard/pkg/errors"
)

// Viewport holds the board's zoom scale and applies anchor-preserving
// transforms over the element coordinates. Coordinates are transformed in
// place; the scale is the cumulative factor relative to the unzoomed board
// and is what gets persisted.
type Viewport struct {
	scale   float64
	minZoom float64
	maxZoom float64
}

// NewViewport creates a viewport at scale 1.0
func NewViewport(cfg *config.DomainConfig) *Viewport {
	return &Viewport{
		scale:   1.0,
		minZoom: cfg.MinZoom,
		maxZoom: cfg.MaxZoom,
	}
}

// Scale returns the current cumulative zoom scale
func (v *Viewport) Scale() float64 {
	return v.scale
}

// ZoomAt multiplies the scale by factor, clamped to the permitted range,
// and rescales every element about the anchor so the anchor's board point
// stays put. Returns whether the scale actually changed; a zoom attempt at
// a bound is a no-op, not an error.
func (v *Viewport) ZoomAt(board *aggregates.Board, anchor valueobjects.Position, factor float64) (bool, error) {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return false, pkgerrors.NewValidationError("zoom factor must be a positive finite number")
	}

	target := v.clamp(v.scale * factor)
	if target == v.scale {
		return false, nil
	}

	board.ApplyScale(anchor, target/v.scale)
	v.scale = target
	return true, nil
}

// Pan translates every element by the given offsets
func (v *Viewport) Pan(board *aggregates.Board, dx, dy float64) error {
	if math.IsNaN(dx) || math.IsInf(dx, 0) || math.IsNaN(dy) || math.IsInf(dy, 0) {
		return pkgerrors.NewValidationError("pan offsets must be finite numbers")
	}
	board.Translate(dx, dy)
	return nil
}

// Reset rescales the board about the origin back to scale 1.0
func (v *Viewport) Reset(board *aggregates.Board) {
	if v.scale == 1.0 {
		return
	}
	board.ApplyScale(valueobjects.Position{}, 1.0/v.scale)
	v.scale = 1.0
}

// Restore overwrites the scale from persisted state, clamped to the
// permitted range. Element coordinates are persisted already transformed,
// so no rescale happens here.
func (v *Viewport) Restore(scale float64) {
	if math.IsNaN(scale) || math.IsInf(scale, 0) || scale <= 0 {
		v.scale = 1.0
		return
	}
	v.scale = v.clamp(scale)
}

func (v *Viewport) clamp(scale float64) float64 {
	if scale < v.minZoom {
		return v.minZoom
	}
	if scale > v.maxZoom {
		return v.maxZoom
	}
	return scale
}
