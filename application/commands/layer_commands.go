package commands

import (
	pkgerrors "reqboard/pkg/errors"
)

// CreateLayer registers a new layer
type CreateLayer struct {
	Name  string
	Color string
}

// Validate implements the command contract
func (c CreateLayer) Validate() error {
	if c.Name == "" {
		return pkgerrors.NewValidationError("layer name cannot be empty")
	}
	return nil
}

// DeleteLayer removes a layer. A populated layer needs Confirm; its
// elements move to ReassignTo, or to the active layer when empty.
type DeleteLayer struct {
	Name       string
	Confirm    bool
	ReassignTo string
}

// Validate implements the command contract
func (c DeleteLayer) Validate() error {
	if c.Name == "" {
		return pkgerrors.NewValidationError("layer name cannot be empty")
	}
	if c.ReassignTo == c.Name && c.ReassignTo != "" {
		return pkgerrors.NewValidationError("cannot reassign elements to the deleted layer")
	}
	return nil
}

// SetLayerVisible sets a layer's visibility flag
type SetLayerVisible struct {
	Name    string
	Visible bool
}

// Validate implements the command contract
func (c SetLayerVisible) Validate() error {
	if c.Name == "" {
		return pkgerrors.NewValidationError("layer name cannot be empty")
	}
	return nil
}

// SetLayerLocked sets a layer's lock flag
type SetLayerLocked struct {
	Name   string
	Locked bool
}

// Validate implements the command contract
func (c SetLayerLocked) Validate() error {
	if c.Name == "" {
		return pkgerrors.NewValidationError("layer name cannot be empty")
	}
	return nil
}

// SetActiveLayer switches which layer new elements are placed on
type SetActiveLayer struct {
	Name string
}

// Validate implements the command contract
func (c SetActiveLayer) Validate() error {
	if c.Name == "" {
		return pkgerrors.NewValidationError("layer name cannot be empty")
	}
	return nil
}
