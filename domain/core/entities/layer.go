package entities

import (
	"reqboard/domain/core/valueobjects"
	pkgerrors "reqboard/pkg/errors"
)

// Layer is a named stacking plane with visibility and lock flags. Its
// membership is derived from the elements' layer fields and recomputed by
// the layer registry after structural changes.
type Layer struct {
	name    string
	color   string
	visible bool
	locked  bool
	members map[valueobjects.TargetRef]struct{}
}

// NewLayer creates a visible, unlocked layer
func NewLayer(name, color string) (*Layer, error) {
	if name == "" {
		return nil, pkgerrors.NewValidationError("layer name cannot be empty")
	}
	return &Layer{
		name:    name,
		color:   color,
		visible: true,
		locked:  false,
		members: make(map[valueobjects.TargetRef]struct{}),
	}, nil
}

// ReconstructLayer rebuilds a layer from persisted flags
func ReconstructLayer(name, color string, visible, locked bool) (*Layer, error) {
	if name == "" {
		return nil, pkgerrors.NewValidationError("layer name cannot be empty")
	}
	return &Layer{
		name:    name,
		color:   color,
		visible: visible,
		locked:  locked,
		members: make(map[valueobjects.TargetRef]struct{}),
	}, nil
}

// Name returns the layer name
func (l *Layer) Name() string {
	return l.name
}

// Color returns the layer's accent color
func (l *Layer) Color() string {
	return l.color
}

// Visible reports whether the layer's elements are rendered
func (l *Layer) Visible() bool {
	return l.visible
}

// Locked reports whether mutations on the layer's elements are refused
func (l *Layer) Locked() bool {
	return l.locked
}

// SetVisible sets the visibility flag
func (l *Layer) SetVisible(visible bool) {
	l.visible = visible
}

// SetLocked sets the lock flag
func (l *Layer) SetLocked(locked bool) {
	l.locked = locked
}

// MemberCount returns the number of elements currently on the layer
func (l *Layer) MemberCount() int {
	return len(l.members)
}

// Contains reports whether the target is a member of the layer
func (l *Layer) Contains(target valueobjects.TargetRef) bool {
	_, ok := l.members[target]
	return ok
}

// Members returns the membership set as a slice, order unspecified
func (l *Layer) Members() []valueobjects.TargetRef {
	out := make([]valueobjects.TargetRef, 0, len(l.members))
	for target := range l.members {
		out = append(out, target)
	}
	return out
}

// ReplaceMembers swaps in a freshly computed membership set
func (l *Layer) ReplaceMembers(targets []valueobjects.TargetRef) {
	members := make(map[valueobjects.TargetRef]struct{}, len(targets))
	for _, target := range targets {
		members[target] = struct{}{}
	}
	l.members = members
}
