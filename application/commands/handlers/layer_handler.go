package handlers

import (
	"context"
	"fmt"
	"time"

	"reqboard/application/commands"
	"reqboard/application/commands/bus"
	"reqboard/application/workspace"
	pkgerrors "reqboard/pkg/errors"
)

// LayerHandler applies layer registry commands
type LayerHandler struct {
	ws *workspace.Workspace
}

// NewLayerHandler creates the layer command handler
func NewLayerHandler(ws *workspace.Workspace) *LayerHandler {
	return &LayerHandler{ws: ws}
}

// Register wires the handler into the bus for every command it serves
func (h *LayerHandler) Register(b *bus.CommandBus) error {
	for _, cmd := range []bus.Command{
		commands.CreateLayer{},
		commands.DeleteLayer{},
		commands.SetLayerVisible{},
		commands.SetLayerLocked{},
		commands.SetActiveLayer{},
	} {
		if err := b.Register(cmd, h); err != nil {
			return err
		}
	}
	return nil
}

// Handle implements bus.CommandHandler
func (h *LayerHandler) Handle(ctx context.Context, cmd bus.Command) error {
	return h.ws.Update(func(s *workspace.State, now time.Time) error {
		switch c := cmd.(type) {
		case commands.CreateLayer:
			_, err := s.Layers.CreateLayer(c.Name, c.Color)
			return err
		case commands.DeleteLayer:
			return h.deleteLayer(s, c, now)
		case commands.SetLayerVisible:
			return s.Layers.SetVisible(c.Name, c.Visible)
		case commands.SetLayerLocked:
			return s.Layers.SetLocked(c.Name, c.Locked)
		case commands.SetActiveLayer:
			return s.Layers.SetActiveLayer(c.Name)
		default:
			return pkgerrors.NewInternalError(fmt.Sprintf("unexpected command type %T", cmd))
		}
	})
}

// deleteLayer removes a layer, moving its elements to the reassignment
// target first when the deletion is confirmed. A locked layer cannot be
// deleted.
func (h *LayerHandler) deleteLayer(s *workspace.State, c commands.DeleteLayer, now time.Time) error {
	layer, err := s.Layers.Layer(c.Name)
	if err != nil {
		return err
	}
	if layer.Locked() {
		return pkgerrors.NewLockedLayerError(c.Name)
	}

	if layer.MemberCount() > 0 {
		if !c.Confirm {
			return s.Layers.DeleteLayer(c.Name, false)
		}

		dest := c.ReassignTo
		if dest == "" {
			dest = s.Layers.ActiveLayer()
		}
		if dest == c.Name {
			dest = firstOtherLayer(s, c.Name)
		}
		if dest == "" || !s.Layers.Exists(dest) {
			return pkgerrors.NewNotFoundError("reassignment layer")
		}

		for _, target := range layer.Members() {
			if err := s.Board.SetElementLayer(target, dest, now); err != nil {
				return err
			}
		}
		s.Layers.RecomputeMembership(s.Board)
	}

	if err := s.Layers.DeleteLayer(c.Name, c.Confirm); err != nil {
		return err
	}
	s.Layers.RecomputeMembership(s.Board)
	return nil
}

func firstOtherLayer(s *workspace.State, name string) string {
	for _, n := range s.Layers.Names() {
		if n != name {
			return n
		}
	}
	return ""
}
