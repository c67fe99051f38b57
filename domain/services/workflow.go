package services

import (
	"fmt"
	"strings"
	"time"

	"reqboard/domain/collab"
	"reqboard/domain/core/aggregates"
	"reqboard/domain/core/entities"
	pkgerrors "reqboard/pkg/errors"
)

// Workflow drives the review lifecycle of requirements. Every workflow
// action stamps the requirement's modification time and leaves an audit
// entry in the collaboration log.
type Workflow struct {
	log *collab.Log
}

// NewWorkflow creates a workflow engine writing to the given log
func NewWorkflow(log *collab.Log) *Workflow {
	return &Workflow{log: log}
}

// RequestReview assigns reviewers to a requirement. Any existing review
// record on the requirement is overwritten, decided or not, and the status
// moves to In Review. deadlineDays of 0 means no deadline.
func (w *Workflow) RequestReview(board *aggregates.Board, requirementID int, reviewers []string, notes, requestedBy string, deadlineDays int, now time.Time) (*collab.Review, error) {
	req, err := board.Requirement(requirementID)
	if err != nil {
		return nil, err
	}
	if deadlineDays < 0 {
		return nil, pkgerrors.NewValidationError("deadline days cannot be negative")
	}

	var deadline time.Time
	if deadlineDays > 0 {
		deadline = now.AddDate(0, 0, deadlineDays)
	}
	review, err := collab.NewReview(reviewers, notes, requestedBy, now, deadline)
	if err != nil {
		return nil, err
	}

	w.log.SetReview(req.Target(), review)
	if err := req.SetStatus(entities.StatusInReview, now); err != nil {
		return nil, err
	}

	w.log.AppendHistory(collab.NewHistoryEntry(
		requestedBy, collab.ActionReview, req.Target(),
		fmt.Sprintf("requested review from %s", strings.Join(review.Reviewers(), ", ")),
		deadlineDetails(deadline),
		now,
	))
	return review, nil
}

// ApproveReview decides the requirement's pending review positively and
// moves the status to Approved.
func (w *Workflow) ApproveReview(board *aggregates.Board, requirementID int, decider string, now time.Time) error {
	req, err := board.Requirement(requirementID)
	if err != nil {
		return err
	}
	review, ok := w.log.ReviewFor(req.Target())
	if !ok {
		return pkgerrors.NewNotFoundError("review")
	}
	if err := review.Approve(decider, now); err != nil {
		return err
	}
	if err := req.SetStatus(entities.StatusApproved, now); err != nil {
		return err
	}

	w.log.AppendHistory(collab.NewHistoryEntry(
		decider, collab.ActionApprove, req.Target(),
		"approved review",
		"",
		now,
	))
	return nil
}

// RejectReview decides the requirement's pending review negatively. The
// reason is mandatory and recorded both on the review and in history.
func (w *Workflow) RejectReview(board *aggregates.Board, requirementID int, decider, reason string, now time.Time) error {
	req, err := board.Requirement(requirementID)
	if err != nil {
		return err
	}
	review, ok := w.log.ReviewFor(req.Target())
	if !ok {
		return pkgerrors.NewNotFoundError("review")
	}
	if err := review.Reject(decider, reason, now); err != nil {
		return err
	}
	if err := req.SetStatus(entities.StatusRejected, now); err != nil {
		return err
	}

	w.log.AppendHistory(collab.NewHistoryEntry(
		decider, collab.ActionReject, req.Target(),
		"rejected review",
		reason,
		now,
	))
	return nil
}

// ChangeStatus overrides the requirement's lifecycle status directly,
// outside the review flow.
func (w *Workflow) ChangeStatus(board *aggregates.Board, requirementID int, status entities.RequirementStatus, user string, now time.Time) error {
	req, err := board.Requirement(requirementID)
	if err != nil {
		return err
	}
	old := req.Status()
	if err := req.SetStatus(status, now); err != nil {
		return err
	}
	if old == status {
		return nil
	}

	w.log.AppendHistory(collab.NewHistoryEntry(
		user, collab.ActionModify, req.Target(),
		fmt.Sprintf("status changed from %s to %s", old, status),
		"",
		now,
	))
	return nil
}

func deadlineDetails(deadline time.Time) string {
	if deadline.IsZero() {
		return ""
	}
	return fmt.Sprintf("deadline %s", deadline.Format("2006-01-02"))
}
