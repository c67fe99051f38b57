package commands

import (
	"reqboard/domain/core/entities"
	pkgerrors "reqboard/pkg/errors"
)

// RequestReview assigns reviewers to a requirement, overwriting any
// existing review record. DeadlineDays of 0 means no deadline.
type RequestReview struct {
	RequirementID int
	Reviewers     []string
	Notes         string
	DeadlineDays  int
}

// Validate implements the command contract
func (c RequestReview) Validate() error {
	if c.RequirementID < 1 {
		return pkgerrors.NewValidationError("requirement id must be positive")
	}
	if len(c.Reviewers) == 0 {
		return pkgerrors.NewValidationError("at least one reviewer is required")
	}
	for _, name := range c.Reviewers {
		if name == "" {
			return pkgerrors.NewValidationError("reviewer name cannot be empty")
		}
	}
	if c.DeadlineDays < 0 {
		return pkgerrors.NewValidationError("deadline days cannot be negative")
	}
	return nil
}

// ApproveReview decides a requirement's pending review positively
type ApproveReview struct {
	RequirementID int
}

// Validate implements the command contract
func (c ApproveReview) Validate() error {
	if c.RequirementID < 1 {
		return pkgerrors.NewValidationError("requirement id must be positive")
	}
	return nil
}

// RejectReview decides a requirement's pending review negatively. The
// reason is mandatory.
type RejectReview struct {
	RequirementID int
	Reason        string
}

// Validate implements the command contract
func (c RejectReview) Validate() error {
	if c.RequirementID < 1 {
		return pkgerrors.NewValidationError("requirement id must be positive")
	}
	if c.Reason == "" {
		return pkgerrors.NewValidationError("rejection reason is required")
	}
	return nil
}

// ChangeStatus overrides a requirement's lifecycle status directly
type ChangeStatus struct {
	RequirementID int
	Status        string
}

// Validate implements the command contract
func (c ChangeStatus) Validate() error {
	if c.RequirementID < 1 {
		return pkgerrors.NewValidationError("requirement id must be positive")
	}
	if !entities.RequirementStatus(c.Status).IsValid() {
		return pkgerrors.NewValidationError("invalid requirement status")
	}
	return nil
}

// AddComment appends a comment to an element's thread
type AddComment struct {
	TargetKind string
	TargetID   int
	Text       string
}

// Validate implements the command contract
func (c AddComment) Validate() error {
	if _, err := targetOf(c.TargetKind, c.TargetID); err != nil {
		return err
	}
	if c.Text == "" {
		return pkgerrors.NewValidationError("comment text cannot be empty")
	}
	return nil
}

// ResolveComment marks a comment in an element's thread resolved
type ResolveComment struct {
	TargetKind string
	TargetID   int
	Seq        int
}

// Validate implements the command contract
func (c ResolveComment) Validate() error {
	if _, err := targetOf(c.TargetKind, c.TargetID); err != nil {
		return err
	}
	if c.Seq < 1 {
		return pkgerrors.NewValidationError("comment sequence must be positive")
	}
	return nil
}
