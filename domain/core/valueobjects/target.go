package valueobjects

import (
	"fmt"
	"strconv"
	"strings"

	pkgerrors "reqboard/pkg/errors"
)

// ElementKind identifies which of the three element stores an identity
// belongs to.
type ElementKind string

const (
	KindRequirement ElementKind = "requirement"
	KindGroup       ElementKind = "group"
	KindText        ElementKind = "text"
)

// IsValid reports whether the kind is one of the three element kinds
func (k ElementKind) IsValid() bool {
	switch k {
	case KindRequirement, KindGroup, KindText:
		return true
	default:
		return false
	}
}

// KeyPrefix returns the short tag used in persisted target keys
func (k ElementKind) KeyPrefix() string {
	switch k {
	case KindRequirement:
		return "req"
	case KindGroup:
		return "group"
	default:
		return "text"
	}
}

// TargetRef is a value object identifying an element as the target of a
// comment thread, review record, or history entry.
type TargetRef struct {
	kind ElementKind
	id   int
}

// NewTargetRef creates a target reference with validation
func NewTargetRef(kind ElementKind, id int) (TargetRef, error) {
	if !kind.IsValid() {
		return TargetRef{}, pkgerrors.NewValidationError("invalid element kind")
	}
	if id < 1 {
		return TargetRef{}, pkgerrors.NewValidationError("element id must be positive")
	}
	return TargetRef{kind: kind, id: id}, nil
}

// RequirementTarget creates a target reference to a requirement
func RequirementTarget(id int) TargetRef {
	return TargetRef{kind: KindRequirement, id: id}
}

// Kind returns the target's element kind
func (t TargetRef) Kind() ElementKind {
	return t.kind
}

// ID returns the target's numeric identity
func (t TargetRef) ID() int {
	return t.id
}

// Key returns the persisted map key, e.g. "req_7"
func (t TargetRef) Key() string {
	return fmt.Sprintf("%s_%d", t.kind.KeyPrefix(), t.id)
}

// IsZero checks if the TargetRef is the zero value
func (t TargetRef) IsZero() bool {
	return t.kind == "" && t.id == 0
}

// Equals checks if two target references are equal
func (t TargetRef) Equals(other TargetRef) bool {
	return t.kind == other.kind && t.id == other.id
}

// ParseTargetKey parses a persisted target key back into a TargetRef
func ParseTargetKey(key string) (TargetRef, error) {
	idx := strings.LastIndex(key, "_")
	if idx <= 0 || idx == len(key)-1 {
		return TargetRef{}, pkgerrors.NewValidationError(fmt.Sprintf("malformed target key %q", key))
	}
	id, err := strconv.Atoi(key[idx+1:])
	if err != nil || id < 1 {
		return TargetRef{}, pkgerrors.NewValidationError(fmt.Sprintf("malformed target key %q", key))
	}
	switch key[:idx] {
	case "req":
		return TargetRef{kind: KindRequirement, id: id}, nil
	case "group":
		return TargetRef{kind: KindGroup, id: id}, nil
	case "text":
		return TargetRef{kind: KindText, id: id}, nil
	default:
		return TargetRef{}, pkgerrors.NewValidationError(fmt.Sprintf("unknown target kind in key %q", key))
	}
}
