package entities

import (
	"fmt"

	"reqboard/domain/core/valueobjects"
	pkgerrors "reqboard/pkg/errors"
)

// Group is a purely visual container box. It has no semantic link to the
// requirements it may visually enclose.
type Group struct {
	id       int
	name     string
	position valueobjects.Position
	size     valueobjects.Size
	color    string
	layer    string

	minWidth  float64
	minHeight float64
}

// NewGroup creates a group box with its documented minimum size invariant
func NewGroup(id int, position valueobjects.Position, size valueobjects.Size, color, layer string, minWidth, minHeight float64) (*Group, error) {
	if id < 1 {
		return nil, pkgerrors.NewValidationError("group id must be positive")
	}
	if layer == "" {
		return nil, pkgerrors.NewValidationError("layer cannot be empty")
	}

	return &Group{
		id:        id,
		name:      fmt.Sprintf("Group %d", id),
		position:  position,
		size:      size.ClampMin(minWidth, minHeight),
		color:     color,
		layer:     layer,
		minWidth:  minWidth,
		minHeight: minHeight,
	}, nil
}

// ReconstructGroup rebuilds a group from persisted data
func ReconstructGroup(id int, name string, position valueobjects.Position, size valueobjects.Size, color, layer string, minWidth, minHeight float64) (*Group, error) {
	if id < 1 {
		return nil, pkgerrors.NewValidationError("group id must be positive")
	}
	return &Group{
		id:        id,
		name:      name,
		position:  position,
		size:      size.ClampMin(minWidth, minHeight),
		color:     color,
		layer:     layer,
		minWidth:  minWidth,
		minHeight: minHeight,
	}, nil
}

// ID returns the group's numeric identity
func (g *Group) ID() int {
	return g.id
}

// Name returns the display name
func (g *Group) Name() string {
	return g.name
}

// Position returns the group's position
func (g *Group) Position() valueobjects.Position {
	return g.position
}

// Size returns the group's size
func (g *Group) Size() valueobjects.Size {
	return g.size
}

// Color returns the fill color
func (g *Group) Color() string {
	return g.color
}

// Layer returns the owning layer name
func (g *Group) Layer() string {
	return g.layer
}

// Target returns the group's target reference
func (g *Group) Target() valueobjects.TargetRef {
	t, _ := valueobjects.NewTargetRef(valueobjects.KindGroup, g.id)
	return t
}

// Rename updates the display name
func (g *Group) Rename(name string) error {
	if name == "" {
		return pkgerrors.NewValidationError("group name cannot be empty")
	}
	g.name = name
	return nil
}

// SetColor replaces the fill color
func (g *Group) SetColor(color string) error {
	if color == "" {
		return pkgerrors.NewValidationError("color cannot be empty")
	}
	g.color = color
	return nil
}

// SetLayer reassigns the group to another layer
func (g *Group) SetLayer(layer string) error {
	if layer == "" {
		return pkgerrors.NewValidationError("layer cannot be empty")
	}
	g.layer = layer
	return nil
}

// MoveTo moves the group to a new position
func (g *Group) MoveTo(position valueobjects.Position) {
	g.position = position
}

// Resize sets the size, clamped to the minimum dimensions
func (g *Group) Resize(size valueobjects.Size) {
	g.size = size.ClampMin(g.minWidth, g.minHeight)
}

// ApplyScale rescales position and size through an anchor-preserving zoom
func (g *Group) ApplyScale(anchor valueobjects.Position, ratio float64) {
	g.position = g.position.ScaleAbout(anchor, ratio)
	g.size = g.size.Scale(ratio)
}
