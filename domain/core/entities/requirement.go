package entities

import (
	"fmt"
	"time"

	"reqboard/domain/core/valueobjects"
	pkgerrors "reqboard/pkg/errors"
)

// RequirementStatus represents the lifecycle state of a requirement
type RequirementStatus string

const (
	StatusDraft       RequirementStatus = "Draft"
	StatusInReview    RequirementStatus = "In Review"
	StatusApproved    RequirementStatus = "Approved"
	StatusRejected    RequirementStatus = "Rejected"
	StatusImplemented RequirementStatus = "Implemented"
)

// IsValid reports whether the status is one of the known lifecycle states
func (s RequirementStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusInReview, StatusApproved, StatusRejected, StatusImplemented:
		return true
	default:
		return false
	}
}

// RequirementKind tags a requirement as a container (parent) or a leaf
// (child). The kind is fixed at creation; only a child dropped onto a
// parent creates a containment link.
type RequirementKind string

const (
	KindParent RequirementKind = "parent"
	KindChild  RequirementKind = "child"
)

// IsValid reports whether the kind is parent or child
func (k RequirementKind) IsValid() bool {
	return k == KindParent || k == KindChild
}

// Requirement is the main entity of the board: a typed, positioned
// requirement box with a lifecycle status and an ordered containment list.
type Requirement struct {
	id       int
	label    string
	kind     RequirementKind
	title    string
	note     string
	position valueobjects.Position
	color    string
	layer    string
	status   RequirementStatus
	children []int

	createdBy  string
	createdAt  time.Time
	modifiedAt time.Time
}

// NewRequirement creates a requirement with full validation. The numeric id
// and prefixed label come from the identifier allocator; layer and creator
// from the workspace.
func NewRequirement(id int, label string, kind RequirementKind, position valueobjects.Position, color, layer, createdBy string, now time.Time) (*Requirement, error) {
	if id < 1 {
		return nil, pkgerrors.NewValidationError("requirement id must be positive")
	}
	if !kind.IsValid() {
		return nil, pkgerrors.NewValidationError("invalid requirement kind")
	}
	if layer == "" {
		return nil, pkgerrors.NewValidationError("layer cannot be empty")
	}

	return &Requirement{
		id:         id,
		label:      label,
		kind:       kind,
		title:      fmt.Sprintf("Requirement %s", label),
		position:   position,
		color:      color,
		layer:      layer,
		status:     StatusDraft,
		children:   []int{},
		createdBy:  createdBy,
		createdAt:  now,
		modifiedAt: now,
	}, nil
}

// ReconstructRequirement rebuilds a requirement from persisted data with
// preserved timestamps and status.
func ReconstructRequirement(
	id int,
	label string,
	kind RequirementKind,
	title, note string,
	position valueobjects.Position,
	color, layer string,
	status RequirementStatus,
	children []int,
	createdBy string,
	createdAt, modifiedAt time.Time,
) (*Requirement, error) {
	if id < 1 {
		return nil, pkgerrors.NewValidationError("requirement id must be positive")
	}
	if !kind.IsValid() {
		return nil, pkgerrors.NewValidationError("invalid requirement kind")
	}
	if !status.IsValid() {
		return nil, pkgerrors.NewValidationError("invalid requirement status")
	}

	if children == nil {
		children = []int{}
	}
	return &Requirement{
		id:         id,
		label:      label,
		kind:       kind,
		title:      title,
		note:       note,
		position:   position,
		color:      color,
		layer:      layer,
		status:     status,
		children:   children,
		createdBy:  createdBy,
		createdAt:  createdAt,
		modifiedAt: modifiedAt,
	}, nil
}

// ID returns the requirement's numeric identity
func (r *Requirement) ID() int {
	return r.id
}

// Label returns the prefixed external identifier, e.g. "R7"
func (r *Requirement) Label() string {
	return r.label
}

// Kind returns the requirement's kind tag
func (r *Requirement) Kind() RequirementKind {
	return r.kind
}

// Title returns the display title
func (r *Requirement) Title() string {
	return r.title
}

// Note returns the free-text note
func (r *Requirement) Note() string {
	return r.note
}

// Position returns the requirement's position
func (r *Requirement) Position() valueobjects.Position {
	return r.position
}

// Color returns the per-element color override
func (r *Requirement) Color() string {
	return r.color
}

// Layer returns the owning layer name
func (r *Requirement) Layer() string {
	return r.layer
}

// Status returns the lifecycle status
func (r *Requirement) Status() RequirementStatus {
	return r.status
}

// CreatedBy returns the creating user's label
func (r *Requirement) CreatedBy() string {
	return r.createdBy
}

// CreatedAt returns when the requirement was created
func (r *Requirement) CreatedAt() time.Time {
	return r.createdAt
}

// ModifiedAt returns when the requirement was last modified
func (r *Requirement) ModifiedAt() time.Time {
	return r.modifiedAt
}

// Children returns a copy of the ordered containment list
func (r *Requirement) Children() []int {
	children := make([]int, len(r.children))
	copy(children, r.children)
	return children
}

// HasChild reports whether the given id is already in the containment list
func (r *Requirement) HasChild(childID int) bool {
	for _, c := range r.children {
		if c == childID {
			return true
		}
	}
	return false
}

// Target returns the requirement's target reference
func (r *Requirement) Target() valueobjects.TargetRef {
	return valueobjects.RequirementTarget(r.id)
}

// Rename updates the display title
func (r *Requirement) Rename(title string, now time.Time) error {
	if title == "" {
		return pkgerrors.NewValidationError("title cannot be empty")
	}
	if title == r.title {
		return nil
	}
	r.title = title
	r.modifiedAt = now
	return nil
}

// SetNote replaces the free-text note
func (r *Requirement) SetNote(note string, now time.Time) {
	r.note = note
	r.modifiedAt = now
}

// SetColor replaces the per-element color
func (r *Requirement) SetColor(color string, now time.Time) error {
	if color == "" {
		return pkgerrors.NewValidationError("color cannot be empty")
	}
	r.color = color
	r.modifiedAt = now
	return nil
}

// SetLayer reassigns the requirement to another layer
func (r *Requirement) SetLayer(layer string) error {
	if layer == "" {
		return pkgerrors.NewValidationError("layer cannot be empty")
	}
	r.layer = layer
	return nil
}

// SetStatus forces the lifecycle status. Transition legality is the
// workflow engine's concern; the entity only validates the value itself.
func (r *Requirement) SetStatus(status RequirementStatus, now time.Time) error {
	if !status.IsValid() {
		return pkgerrors.NewValidationError("invalid requirement status")
	}
	r.status = status
	r.modifiedAt = now
	return nil
}

// Relabel replaces the external identifier and resets the display title to
// its derived form. Used by label resequencing; the numeric id is untouched.
func (r *Requirement) Relabel(label string) {
	r.label = label
	r.title = fmt.Sprintf("Requirement %s", label)
}

// MoveTo moves the requirement to a new position
func (r *Requirement) MoveTo(position valueobjects.Position) {
	r.position = position
}

// AttachChild appends a child id to the containment list. The board
// aggregate guards kind compatibility and link-map consistency.
func (r *Requirement) AttachChild(childID int) error {
	if childID == r.id {
		return pkgerrors.NewValidationError("requirement cannot contain itself")
	}
	if r.HasChild(childID) {
		return pkgerrors.NewConflictError("child already linked")
	}
	r.children = append(r.children, childID)
	return nil
}

// DetachChild removes a child id from the containment list, if present
func (r *Requirement) DetachChild(childID int) bool {
	for i, c := range r.children {
		if c == childID {
			r.children = append(r.children[:i], r.children[i+1:]...)
			return true
		}
	}
	return false
}
