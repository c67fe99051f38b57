package collab

import (
	"time"

	pkgerrors "reqboard/pkg/errors"
)

// Comment is one entry in an element's comment thread. The sequence number
// is its 1-based position within the thread and never changes; resolving a
// comment is one-way.
type Comment struct {
	seq        int
	author     string
	text       string
	createdAt  time.Time
	resolved   bool
	resolvedBy string
	resolvedAt time.Time
}

// NewComment creates an unresolved comment with the given thread position
func NewComment(seq int, author, text string, now time.Time) (*Comment, error) {
	if seq < 1 {
		return nil, pkgerrors.NewValidationError("comment sequence must be positive")
	}
	if text == "" {
		return nil, pkgerrors.NewValidationError("comment text cannot be empty")
	}
	return &Comment{
		seq:       seq,
		author:    author,
		text:      text,
		createdAt: now,
	}, nil
}

// ReconstructComment rebuilds a comment from persisted data
func ReconstructComment(seq int, author, text string, createdAt time.Time, resolved bool, resolvedBy string, resolvedAt time.Time) (*Comment, error) {
	if seq < 1 {
		return nil, pkgerrors.NewValidationError("comment sequence must be positive")
	}
	return &Comment{
		seq:        seq,
		author:     author,
		text:       text,
		createdAt:  createdAt,
		resolved:   resolved,
		resolvedBy: resolvedBy,
		resolvedAt: resolvedAt,
	}, nil
}

// Seq returns the comment's 1-based position in its thread
func (c *Comment) Seq() int {
	return c.seq
}

// Author returns the commenting user's label
func (c *Comment) Author() string {
	return c.author
}

// Text returns the comment text
func (c *Comment) Text() string {
	return c.text
}

// CreatedAt returns when the comment was added
func (c *Comment) CreatedAt() time.Time {
	return c.createdAt
}

// Resolved reports whether the comment has been resolved
func (c *Comment) Resolved() bool {
	return c.resolved
}

// ResolvedBy returns who resolved the comment, if resolved
func (c *Comment) ResolvedBy() string {
	return c.resolvedBy
}

// ResolvedAt returns when the comment was resolved, if resolved
func (c *Comment) ResolvedAt() time.Time {
	return c.resolvedAt
}

// Resolve marks the comment resolved. Resolving twice is a conflict; there
// is no way back to unresolved.
func (c *Comment) Resolve(resolver string, now time.Time) error {
	if c.resolved {
		return pkgerrors.NewConflictError("comment already resolved")
	}
	c.resolved = true
	c.resolvedBy = resolver
	c.resolvedAt = now
	return nil
}

// Preview returns the first limit runes of the text, with an ellipsis
// marker when truncated. Used for history descriptions.
func (c *Comment) Preview(limit int) string {
	runes := []rune(c.text)
	if len(runes) <= limit {
		return c.text
	}
	return string(runes[:limit]) + "..."
}
