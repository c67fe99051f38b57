package commands

import (
	pkgerrors "reqboard/pkg/errors"
)

// ZoomAt multiplies the zoom scale by Factor about the anchor point
type ZoomAt struct {
	AnchorX float64
	AnchorY float64
	Factor  float64
}

// Validate implements the command contract
func (c ZoomAt) Validate() error {
	if c.Factor <= 0 {
		return pkgerrors.NewValidationError("zoom factor must be positive")
	}
	return nil
}

// Pan translates the whole board by the given offsets
type Pan struct {
	DX float64
	DY float64
}

// Validate implements the command contract
func (c Pan) Validate() error {
	return nil
}

// ResetZoom returns the board to scale 1.0
type ResetZoom struct{}

// Validate implements the command contract
func (c ResetZoom) Validate() error {
	return nil
}

// SetCurrentUser changes the acting user label
type SetCurrentUser struct {
	Name string
}

// Validate implements the command contract
func (c SetCurrentUser) Validate() error {
	if c.Name == "" {
		return pkgerrors.NewValidationError("user name cannot be empty")
	}
	return nil
}

// SetIDPrefix changes the label prefix for future requirements. An empty
// prefix is permitted.
type SetIDPrefix struct {
	Prefix string
}

// Validate implements the command contract
func (c SetIDPrefix) Validate() error {
	return nil
}

// Resequence reassigns requirement labels 1..N under the current prefix
type Resequence struct{}

// Validate implements the command contract
func (c Resequence) Validate() error {
	return nil
}

// BeginDrag enters dragging mode for an element
type BeginDrag struct {
	TargetKind string
	TargetID   int
}

// Validate implements the command contract
func (c BeginDrag) Validate() error {
	_, err := targetOf(c.TargetKind, c.TargetID)
	return err
}

// BeginResize enters resizing mode for an element
type BeginResize struct {
	TargetKind string
	TargetID   int
}

// Validate implements the command contract
func (c BeginResize) Validate() error {
	_, err := targetOf(c.TargetKind, c.TargetID)
	return err
}

// BeginPan enters panning mode
type BeginPan struct{}

// Validate implements the command contract
func (c BeginPan) Validate() error {
	return nil
}

// EndInteraction returns to idle mode
type EndInteraction struct{}

// Validate implements the command contract
func (c EndInteraction) Validate() error {
	return nil
}

// SaveProject writes the workspace to the configured data file
type SaveProject struct{}

// Validate implements the command contract
func (c SaveProject) Validate() error {
	return nil
}

// LoadProject replaces the workspace with the configured data file's
// contents.
type LoadProject struct{}

// Validate implements the command contract
func (c LoadProject) Validate() error {
	return nil
}
