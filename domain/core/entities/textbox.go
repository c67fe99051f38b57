package entities

import (
	"reqboard/domain/core/valueobjects"
	pkgerrors "reqboard/pkg/errors"
)

// TextBox is a free-text annotation on the board
type TextBox struct {
	id       int
	content  string
	position valueobjects.Position
	size     valueobjects.Size
	fontSize int
	layer    string

	minWidth  float64
	minHeight float64
}

// NewTextBox creates a text box with its documented minimum size invariant
func NewTextBox(id int, position valueobjects.Position, size valueobjects.Size, fontSize int, layer string, minWidth, minHeight float64) (*TextBox, error) {
	if id < 1 {
		return nil, pkgerrors.NewValidationError("text box id must be positive")
	}
	if layer == "" {
		return nil, pkgerrors.NewValidationError("layer cannot be empty")
	}

	return &TextBox{
		id:        id,
		content:   "New Text Box",
		position:  position,
		size:      size.ClampMin(minWidth, minHeight),
		fontSize:  fontSize,
		layer:     layer,
		minWidth:  minWidth,
		minHeight: minHeight,
	}, nil
}

// ReconstructTextBox rebuilds a text box from persisted data
func ReconstructTextBox(id int, content string, position valueobjects.Position, size valueobjects.Size, fontSize int, layer string, minWidth, minHeight float64) (*TextBox, error) {
	if id < 1 {
		return nil, pkgerrors.NewValidationError("text box id must be positive")
	}
	return &TextBox{
		id:        id,
		content:   content,
		position:  position,
		size:      size.ClampMin(minWidth, minHeight),
		fontSize:  fontSize,
		layer:     layer,
		minWidth:  minWidth,
		minHeight: minHeight,
	}, nil
}

// ID returns the text box's numeric identity
func (t *TextBox) ID() int {
	return t.id
}

// Content returns the text content
func (t *TextBox) Content() string {
	return t.content
}

// Position returns the text box's position
func (t *TextBox) Position() valueobjects.Position {
	return t.position
}

// Size returns the text box's size
func (t *TextBox) Size() valueobjects.Size {
	return t.size
}

// FontSize returns the font size in points
func (t *TextBox) FontSize() int {
	return t.fontSize
}

// Layer returns the owning layer name
func (t *TextBox) Layer() string {
	return t.layer
}

// Target returns the text box's target reference
func (t *TextBox) Target() valueobjects.TargetRef {
	ref, _ := valueobjects.NewTargetRef(valueobjects.KindText, t.id)
	return ref
}

// SetContent replaces the text content
func (t *TextBox) SetContent(content string) error {
	if content == "" {
		return pkgerrors.NewValidationError("text content cannot be empty")
	}
	t.content = content
	return nil
}

// SetFontSize sets the font size, validated against the given range
func (t *TextBox) SetFontSize(fontSize, min, max int) error {
	if fontSize < min || fontSize > max {
		return pkgerrors.NewValidationError("font size out of range")
	}
	t.fontSize = fontSize
	return nil
}

// SetLayer reassigns the text box to another layer
func (t *TextBox) SetLayer(layer string) error {
	if layer == "" {
		return pkgerrors.NewValidationError("layer cannot be empty")
	}
	t.layer = layer
	return nil
}

// MoveTo moves the text box to a new position
func (t *TextBox) MoveTo(position valueobjects.Position) {
	t.position = position
}

// Resize sets the size, clamped to the minimum dimensions
func (t *TextBox) Resize(size valueobjects.Size) {
	t.size = size.ClampMin(t.minWidth, t.minHeight)
}

// ApplyScale rescales position and size through an anchor-preserving zoom
func (t *TextBox) ApplyScale(anchor valueobjects.Position, ratio float64) {
	t.position = t.position.ScaleAbout(anchor, ratio)
	t.size = t.size.Scale(ratio)
}
