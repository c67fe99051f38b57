package commands

import (
	"reqboard/domain/core/entities"
	"reqboard/domain/core/valueobjects"
	pkgerrors "reqboard/pkg/errors"
)

// targetOf converts the wire pair (kind, id) carried by a command into a
// validated target reference.
func targetOf(kind string, id int) (valueobjects.TargetRef, error) {
	return valueobjects.NewTargetRef(valueobjects.ElementKind(kind), id)
}

// CreateRequirement places a new requirement box on the active layer at the
// given board position.
type CreateRequirement struct {
	Kind string
	X    float64
	Y    float64
}

// Validate implements the command contract
func (c CreateRequirement) Validate() error {
	if !entities.RequirementKind(c.Kind).IsValid() {
		return pkgerrors.NewValidationError("kind must be parent or child")
	}
	return nil
}

// CreateGroup places a new default-sized group box on the active layer
type CreateGroup struct {
	X float64
	Y float64
}

// Validate implements the command contract
func (c CreateGroup) Validate() error {
	return nil
}

// CreateTextBox places a new default-sized text box on the active layer
type CreateTextBox struct {
	X float64
	Y float64
}

// Validate implements the command contract
func (c CreateTextBox) Validate() error {
	return nil
}

// MoveElement moves an element of any kind to a new position
type MoveElement struct {
	TargetKind string
	TargetID   int
	X          float64
	Y          float64
}

// Validate implements the command contract
func (c MoveElement) Validate() error {
	_, err := targetOf(c.TargetKind, c.TargetID)
	return err
}

// ResizeElement sets a group's or text box's size. Requirements have a
// fixed box size and cannot be resized.
type ResizeElement struct {
	TargetKind string
	TargetID   int
	Width      float64
	Height     float64
}

// Validate implements the command contract
func (c ResizeElement) Validate() error {
	target, err := targetOf(c.TargetKind, c.TargetID)
	if err != nil {
		return err
	}
	if target.Kind() == valueobjects.KindRequirement {
		return pkgerrors.NewValidationError("requirements cannot be resized")
	}
	if c.Width <= 0 || c.Height <= 0 {
		return pkgerrors.NewValidationError("size must be positive")
	}
	return nil
}

// LinkChild attaches a child requirement to a parent requirement
type LinkChild struct {
	ParentID int
	ChildID  int
}

// Validate implements the command contract
func (c LinkChild) Validate() error {
	if c.ParentID < 1 || c.ChildID < 1 {
		return pkgerrors.NewValidationError("element ids must be positive")
	}
	if c.ParentID == c.ChildID {
		return pkgerrors.NewValidationError("requirement cannot contain itself")
	}
	return nil
}

// DeleteElement removes an element and, for requirements, cascades over
// links, comments, reviews, and the selection.
type DeleteElement struct {
	TargetKind string
	TargetID   int
}

// Validate implements the command contract
func (c DeleteElement) Validate() error {
	_, err := targetOf(c.TargetKind, c.TargetID)
	return err
}

// UpdateTitle renames a requirement
type UpdateTitle struct {
	RequirementID int
	Title         string
}

// Validate implements the command contract
func (c UpdateTitle) Validate() error {
	if c.RequirementID < 1 {
		return pkgerrors.NewValidationError("requirement id must be positive")
	}
	if c.Title == "" {
		return pkgerrors.NewValidationError("title cannot be empty")
	}
	return nil
}

// UpdateNote replaces a requirement's free-text note
type UpdateNote struct {
	RequirementID int
	Note          string
}

// Validate implements the command contract
func (c UpdateNote) Validate() error {
	if c.RequirementID < 1 {
		return pkgerrors.NewValidationError("requirement id must be positive")
	}
	return nil
}

// SetColor overrides an element's fill color
type SetColor struct {
	TargetKind string
	TargetID   int
	Color      string
}

// Validate implements the command contract
func (c SetColor) Validate() error {
	if _, err := targetOf(c.TargetKind, c.TargetID); err != nil {
		return err
	}
	if c.Color == "" {
		return pkgerrors.NewValidationError("color cannot be empty")
	}
	return nil
}

// SetElementLayer reassigns an element to another layer
type SetElementLayer struct {
	TargetKind string
	TargetID   int
	Layer      string
}

// Validate implements the command contract
func (c SetElementLayer) Validate() error {
	if _, err := targetOf(c.TargetKind, c.TargetID); err != nil {
		return err
	}
	if c.Layer == "" {
		return pkgerrors.NewValidationError("layer cannot be empty")
	}
	return nil
}

// SetTextContent replaces a text box's content
type SetTextContent struct {
	TextBoxID int
	Content   string
}

// Validate implements the command contract
func (c SetTextContent) Validate() error {
	if c.TextBoxID < 1 {
		return pkgerrors.NewValidationError("text box id must be positive")
	}
	if c.Content == "" {
		return pkgerrors.NewValidationError("text content cannot be empty")
	}
	return nil
}

// SetFontSize changes a text box's font size
type SetFontSize struct {
	TextBoxID int
	FontSize  int
}

// Validate implements the command contract
func (c SetFontSize) Validate() error {
	if c.TextBoxID < 1 {
		return pkgerrors.NewValidationError("text box id must be positive")
	}
	if c.FontSize < 1 {
		return pkgerrors.NewValidationError("font size must be positive")
	}
	return nil
}

// SetGroupName renames a group box
type SetGroupName struct {
	GroupID int
	Name    string
}

// Validate implements the command contract
func (c SetGroupName) Validate() error {
	if c.GroupID < 1 {
		return pkgerrors.NewValidationError("group id must be positive")
	}
	if c.Name == "" {
		return pkgerrors.NewValidationError("group name cannot be empty")
	}
	return nil
}

// SelectElement adds an element to the selection
type SelectElement struct {
	TargetKind string
	TargetID   int
}

// Validate implements the command contract
func (c SelectElement) Validate() error {
	_, err := targetOf(c.TargetKind, c.TargetID)
	return err
}

// DeselectElement removes an element from the selection
type DeselectElement struct {
	TargetKind string
	TargetID   int
}

// Validate implements the command contract
func (c DeselectElement) Validate() error {
	_, err := targetOf(c.TargetKind, c.TargetID)
	return err
}

// ClearSelection empties the selection
type ClearSelection struct{}

// Validate implements the command contract
func (c ClearSelection) Validate() error {
	return nil
}
