package aggregates

import (
	"fmt"
)

// IdentifierAllocator hands out monotonically increasing numeric ids per
// element kind and derives prefixed requirement labels. Counters never
// decrease except through Resequence or a full state restore.
type IdentifierAllocator struct {
	nextRequirementID int
	nextGroupID       int
	nextTextBoxID     int
	prefix            string
}

// NewIdentifierAllocator creates an allocator starting all counters at 1
func NewIdentifierAllocator(prefix string) *IdentifierAllocator {
	return &IdentifierAllocator{
		nextRequirementID: 1,
		nextGroupID:       1,
		nextTextBoxID:     1,
		prefix:            prefix,
	}
}

// NextRequirementID allocates the next requirement id and its label
func (a *IdentifierAllocator) NextRequirementID() (int, string) {
	id := a.nextRequirementID
	a.nextRequirementID++
	return id, a.Label(id)
}

// NextGroupID allocates the next group id
func (a *IdentifierAllocator) NextGroupID() int {
	id := a.nextGroupID
	a.nextGroupID++
	return id
}

// NextTextBoxID allocates the next text box id
func (a *IdentifierAllocator) NextTextBoxID() int {
	id := a.nextTextBoxID
	a.nextTextBoxID++
	return id
}

// Label derives the prefixed label for a numeric id, e.g. "R7". An empty
// prefix is permitted and yields the bare number.
func (a *IdentifierAllocator) Label(id int) string {
	return fmt.Sprintf("%s%d", a.prefix, id)
}

// Prefix returns the current label prefix
func (a *IdentifierAllocator) Prefix() string {
	return a.prefix
}

// SetPrefix replaces the label prefix. Existing labels are untouched until
// the next resequencing.
func (a *IdentifierAllocator) SetPrefix(prefix string) {
	a.prefix = prefix
}

// Counters returns the three next-id counters for persistence
func (a *IdentifierAllocator) Counters() (nextRequirement, nextGroup, nextTextBox int) {
	return a.nextRequirementID, a.nextGroupID, a.nextTextBoxID
}

// Restore overwrites counters and prefix from persisted state. Counters
// below 1 are raised to 1 so future allocations stay valid.
func (a *IdentifierAllocator) Restore(nextRequirement, nextGroup, nextTextBox int, prefix string) {
	if nextRequirement < 1 {
		nextRequirement = 1
	}
	if nextGroup < 1 {
		nextGroup = 1
	}
	if nextTextBox < 1 {
		nextTextBox = 1
	}
	a.nextRequirementID = nextRequirement
	a.nextGroupID = nextGroup
	a.nextTextBoxID = nextTextBox
	a.prefix = prefix
}

// setNextRequirementID is used by resequencing to continue after the
// highest reassigned label.
func (a *IdentifierAllocator) setNextRequirementID(next int) {
	if next < 1 {
		next = 1
	}
	a.nextRequirementID = next
}
