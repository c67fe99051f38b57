package workspace

import (
	"reqboard/domain/core/valueobjects"
	pkgerrors "reqboard/pkg/errors"
)

// ModeKind names the current interaction state
type ModeKind string

const (
	ModeIdle     ModeKind = "idle"
	ModeDragging ModeKind = "dragging"
	ModeResizing ModeKind = "resizing"
	ModePanning  ModeKind = "panning"
)

// InteractionMode is a tagged value describing what manipulation is in
// flight. The target is set only for dragging and resizing.
type InteractionMode struct {
	kind   ModeKind
	target valueobjects.TargetRef
}

// IdleMode returns the idle interaction mode
func IdleMode() InteractionMode {
	return InteractionMode{kind: ModeIdle}
}

// DraggingMode returns a dragging mode bound to the given element
func DraggingMode(target valueobjects.TargetRef) (InteractionMode, error) {
	if target.IsZero() {
		return InteractionMode{}, pkgerrors.NewValidationError("drag target is required")
	}
	return InteractionMode{kind: ModeDragging, target: target}, nil
}

// ResizingMode returns a resizing mode bound to the given element
func ResizingMode(target valueobjects.TargetRef) (InteractionMode, error) {
	if target.IsZero() {
		return InteractionMode{}, pkgerrors.NewValidationError("resize target is required")
	}
	return InteractionMode{kind: ModeResizing, target: target}, nil
}

// PanningMode returns the panning mode
func PanningMode() InteractionMode {
	return InteractionMode{kind: ModePanning}
}

// Kind returns the mode tag
func (m InteractionMode) Kind() ModeKind {
	if m.kind == "" {
		return ModeIdle
	}
	return m.kind
}

// Target returns the element being manipulated, zero unless dragging or
// resizing.
func (m InteractionMode) Target() valueobjects.TargetRef {
	return m.target
}

// IsIdle reports whether no manipulation is in flight
func (m InteractionMode) IsIdle() bool {
	return m.Kind() == ModeIdle
}
