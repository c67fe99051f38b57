package collab

import (
	"time"

	pkgerrors "reqboard/pkg/errors"
)

// ReviewStatus is the state of a review record
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

// IsValid reports whether the status is a known review state
func (s ReviewStatus) IsValid() bool {
	switch s {
	case ReviewPending, ReviewApproved, ReviewRejected:
		return true
	default:
		return false
	}
}

// Review is the single review record an element carries. A review is
// requested from one or more named reviewers and may carry free-text notes.
// Requesting a new review overwrites the previous record, decided or not.
type Review struct {
	reviewers       []string
	notes           string
	requestedBy     string
	requestedAt     time.Time
	deadline        time.Time
	status          ReviewStatus
	decidedBy       string
	decidedAt       time.Time
	rejectionReason string
}

// NewReview creates a pending review. At least one non-empty reviewer name
// is required; a zero deadline means none was set.
func NewReview(reviewers []string, notes, requestedBy string, requestedAt, deadline time.Time) (*Review, error) {
	cleaned := make([]string, 0, len(reviewers))
	for _, name := range reviewers {
		if name == "" {
			return nil, pkgerrors.NewValidationError("reviewer name cannot be empty")
		}
		cleaned = append(cleaned, name)
	}
	if len(cleaned) == 0 {
		return nil, pkgerrors.NewValidationError("at least one reviewer is required")
	}
	return &Review{
		reviewers:   cleaned,
		notes:       notes,
		requestedBy: requestedBy,
		requestedAt: requestedAt,
		deadline:    deadline,
		status:      ReviewPending,
	}, nil
}

// ReconstructReview rebuilds a review record from persisted data
func ReconstructReview(reviewers []string, notes, requestedBy string, requestedAt, deadline time.Time, status ReviewStatus, decidedBy string, decidedAt time.Time, rejectionReason string) (*Review, error) {
	if !status.IsValid() {
		return nil, pkgerrors.NewValidationError("invalid review status")
	}
	return &Review{
		reviewers:       append([]string(nil), reviewers...),
		notes:           notes,
		requestedBy:     requestedBy,
		requestedAt:     requestedAt,
		deadline:        deadline,
		status:          status,
		decidedBy:       decidedBy,
		decidedAt:       decidedAt,
		rejectionReason: rejectionReason,
	}, nil
}

// Reviewers returns the requested reviewers' labels
func (r *Review) Reviewers() []string {
	return append([]string(nil), r.reviewers...)
}

// Notes returns the free-text notes attached to the request
func (r *Review) Notes() string {
	return r.notes
}

// RequestedBy returns who requested the review
func (r *Review) RequestedBy() string {
	return r.requestedBy
}

// RequestedAt returns when the review was requested
func (r *Review) RequestedAt() time.Time {
	return r.requestedAt
}

// Deadline returns the review deadline; zero when none was set
func (r *Review) Deadline() time.Time {
	return r.deadline
}

// Status returns the review state
func (r *Review) Status() ReviewStatus {
	return r.status
}

// DecidedBy returns who decided the review, if decided
func (r *Review) DecidedBy() string {
	return r.decidedBy
}

// DecidedAt returns when the review was decided, if decided
func (r *Review) DecidedAt() time.Time {
	return r.decidedAt
}

// RejectionReason returns the mandatory reason of a rejection
func (r *Review) RejectionReason() string {
	return r.rejectionReason
}

// IsPending reports whether the review awaits a decision
func (r *Review) IsPending() bool {
	return r.status == ReviewPending
}

// Approve decides the review positively. A decided review cannot be
// decided again; a fresh request must overwrite it first.
func (r *Review) Approve(decider string, now time.Time) error {
	if !r.IsPending() {
		return pkgerrors.NewConflictError("review already decided")
	}
	r.status = ReviewApproved
	r.decidedBy = decider
	r.decidedAt = now
	return nil
}

// Reject decides the review negatively. The reason is mandatory.
func (r *Review) Reject(decider, reason string, now time.Time) error {
	if reason == "" {
		return pkgerrors.NewValidationError("rejection reason is required")
	}
	if !r.IsPending() {
		return pkgerrors.NewConflictError("review already decided")
	}
	r.status = ReviewRejected
	r.decidedBy = decider
	r.decidedAt = now
	r.rejectionReason = reason
	return nil
}
