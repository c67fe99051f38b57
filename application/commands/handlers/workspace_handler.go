package handlers

import (
	"context"
	"fmt"
	"time"

	"reqboard/application/commands"
	"reqboard/application/commands/bus"
	"reqboard/application/workspace"
	"reqboard/domain/core/valueobjects"
	pkgerrors "reqboard/pkg/errors"
)

// WorkspaceHandler applies viewport, identity, and interaction commands
type WorkspaceHandler struct {
	ws *workspace.Workspace
}

// NewWorkspaceHandler creates the workspace command handler
func NewWorkspaceHandler(ws *workspace.Workspace) *WorkspaceHandler {
	return &WorkspaceHandler{ws: ws}
}

// Register wires the handler into the bus for every command it serves
func (h *WorkspaceHandler) Register(b *bus.CommandBus) error {
	for _, cmd := range []bus.Command{
		commands.ZoomAt{},
		commands.Pan{},
		commands.ResetZoom{},
		commands.SetCurrentUser{},
		commands.SetIDPrefix{},
		commands.Resequence{},
		commands.BeginDrag{},
		commands.BeginResize{},
		commands.BeginPan{},
		commands.EndInteraction{},
	} {
		if err := b.Register(cmd, h); err != nil {
			return err
		}
	}
	return nil
}

// Handle implements bus.CommandHandler
func (h *WorkspaceHandler) Handle(ctx context.Context, cmd bus.Command) error {
	return h.ws.Update(func(s *workspace.State, now time.Time) error {
		switch c := cmd.(type) {
		case commands.ZoomAt:
			anchor, err := valueobjects.NewPosition(c.AnchorX, c.AnchorY)
			if err != nil {
				return err
			}
			_, err = s.Viewport.ZoomAt(s.Board, anchor, c.Factor)
			return err
		case commands.Pan:
			return s.Viewport.Pan(s.Board, c.DX, c.DY)
		case commands.ResetZoom:
			s.Viewport.Reset(s.Board)
			return nil
		case commands.SetCurrentUser:
			return s.SetCurrentUser(c.Name, now)
		case commands.SetIDPrefix:
			s.Board.Allocator().SetPrefix(c.Prefix)
			return nil
		case commands.Resequence:
			s.Board.Resequence()
			return nil
		case commands.BeginDrag:
			target, err := valueobjects.NewTargetRef(valueobjects.ElementKind(c.TargetKind), c.TargetID)
			if err != nil {
				return err
			}
			if err := s.EnsureTargetUnlocked(target); err != nil {
				return err
			}
			mode, err := workspace.DraggingMode(target)
			if err != nil {
				return err
			}
			s.SetMode(mode)
			return nil
		case commands.BeginResize:
			target, err := valueobjects.NewTargetRef(valueobjects.ElementKind(c.TargetKind), c.TargetID)
			if err != nil {
				return err
			}
			if err := s.EnsureTargetUnlocked(target); err != nil {
				return err
			}
			mode, err := workspace.ResizingMode(target)
			if err != nil {
				return err
			}
			s.SetMode(mode)
			return nil
		case commands.BeginPan:
			s.SetMode(workspace.PanningMode())
			return nil
		case commands.EndInteraction:
			s.SetMode(workspace.IdleMode())
			return nil
		default:
			return pkgerrors.NewInternalError(fmt.Sprintf("unexpected command type %T", cmd))
		}
	})
}
