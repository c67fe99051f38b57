package handlers

import (
	"context"
	"fmt"
	"time"

	"reqboard/application/commands"
	"reqboard/application/commands/bus"
	"reqboard/application/workspace"
	"reqboard/domain/core/entities"
	"reqboard/domain/core/valueobjects"
	pkgerrors "reqboard/pkg/errors"
)

// WorkflowHandler applies review and comment commands. These operate on
// collaboration metadata, so the layer lock guard does not apply.
type WorkflowHandler struct {
	ws *workspace.Workspace
}

// NewWorkflowHandler creates the workflow command handler
func NewWorkflowHandler(ws *workspace.Workspace) *WorkflowHandler {
	return &WorkflowHandler{ws: ws}
}

// Register wires the handler into the bus for every command it serves
func (h *WorkflowHandler) Register(b *bus.CommandBus) error {
	for _, cmd := range []bus.Command{
		commands.RequestReview{},
		commands.ApproveReview{},
		commands.RejectReview{},
		commands.ChangeStatus{},
		commands.AddComment{},
		commands.ResolveComment{},
	} {
		if err := b.Register(cmd, h); err != nil {
			return err
		}
	}
	return nil
}

// Handle implements bus.CommandHandler
func (h *WorkflowHandler) Handle(ctx context.Context, cmd bus.Command) error {
	return h.ws.Update(func(s *workspace.State, now time.Time) error {
		switch c := cmd.(type) {
		case commands.RequestReview:
			_, err := s.Workflow.RequestReview(s.Board, c.RequirementID, c.Reviewers, c.Notes, s.CurrentUser(), c.DeadlineDays, now)
			return err
		case commands.ApproveReview:
			return s.Workflow.ApproveReview(s.Board, c.RequirementID, s.CurrentUser(), now)
		case commands.RejectReview:
			return s.Workflow.RejectReview(s.Board, c.RequirementID, s.CurrentUser(), c.Reason, now)
		case commands.ChangeStatus:
			return s.Workflow.ChangeStatus(s.Board, c.RequirementID, entities.RequirementStatus(c.Status), s.CurrentUser(), now)
		case commands.AddComment:
			target, err := h.existingTarget(s, c.TargetKind, c.TargetID)
			if err != nil {
				return err
			}
			_, err = s.Log.AddComment(target, s.CurrentUser(), c.Text, now)
			return err
		case commands.ResolveComment:
			target, err := h.existingTarget(s, c.TargetKind, c.TargetID)
			if err != nil {
				return err
			}
			return s.Log.ResolveComment(target, c.Seq, s.CurrentUser(), now)
		default:
			return pkgerrors.NewInternalError(fmt.Sprintf("unexpected command type %T", cmd))
		}
	})
}

// existingTarget resolves a (kind, id) pair and checks the element is on
// the board; comments on vanished elements are refused.
func (h *WorkflowHandler) existingTarget(s *workspace.State, kind string, id int) (valueobjects.TargetRef, error) {
	target, err := valueobjects.NewTargetRef(valueobjects.ElementKind(kind), id)
	if err != nil {
		return valueobjects.TargetRef{}, err
	}
	if _, err := s.Board.ElementLayer(target); err != nil {
		return valueobjects.TargetRef{}, err
	}
	return target, nil
}
