package handlers

import (
	"context"
	"fmt"
	"time"

	"reqboard/application/commands"
	"reqboard/application/commands/bus"
	"reqboard/application/workspace"
	"reqboard/domain/collab"
	"reqboard/domain/core/entities"
	"reqboard/domain/core/valueobjects"
	pkgerrors "reqboard/pkg/errors"
)

// ElementHandler applies all element-level commands to the workspace. The
// layer lock guard is enforced here, before any aggregate is touched, so
// the aggregates themselves stay lock-agnostic.
type ElementHandler struct {
	ws *workspace.Workspace
}

// NewElementHandler creates the element command handler
func NewElementHandler(ws *workspace.Workspace) *ElementHandler {
	return &ElementHandler{ws: ws}
}

// Register wires the handler into the bus for every command it serves
func (h *ElementHandler) Register(b *bus.CommandBus) error {
	for _, cmd := range []bus.Command{
		commands.CreateRequirement{},
		commands.CreateGroup{},
		commands.CreateTextBox{},
		commands.MoveElement{},
		commands.ResizeElement{},
		commands.LinkChild{},
		commands.DeleteElement{},
		commands.UpdateTitle{},
		commands.UpdateNote{},
		commands.SetColor{},
		commands.SetElementLayer{},
		commands.SetTextContent{},
		commands.SetFontSize{},
		commands.SetGroupName{},
		commands.SelectElement{},
		commands.DeselectElement{},
		commands.ClearSelection{},
	} {
		if err := b.Register(cmd, h); err != nil {
			return err
		}
	}
	return nil
}

// Handle implements bus.CommandHandler
func (h *ElementHandler) Handle(ctx context.Context, cmd bus.Command) error {
	return h.ws.Update(func(s *workspace.State, now time.Time) error {
		switch c := cmd.(type) {
		case commands.CreateRequirement:
			return h.createRequirement(s, c, now)
		case commands.CreateGroup:
			return h.createGroup(s, c, now)
		case commands.CreateTextBox:
			return h.createTextBox(s, c, now)
		case commands.MoveElement:
			return h.moveElement(s, c, now)
		case commands.ResizeElement:
			return h.resizeElement(s, c)
		case commands.LinkChild:
			return h.linkChild(s, c, now)
		case commands.DeleteElement:
			return h.deleteElement(s, c, now)
		case commands.UpdateTitle:
			return h.updateTitle(s, c, now)
		case commands.UpdateNote:
			return h.updateNote(s, c, now)
		case commands.SetColor:
			return h.setColor(s, c, now)
		case commands.SetElementLayer:
			return h.setElementLayer(s, c, now)
		case commands.SetTextContent:
			return h.setTextContent(s, c)
		case commands.SetFontSize:
			return h.setFontSize(s, c)
		case commands.SetGroupName:
			return h.setGroupName(s, c)
		case commands.SelectElement:
			target, err := valueobjects.NewTargetRef(valueobjects.ElementKind(c.TargetKind), c.TargetID)
			if err != nil {
				return err
			}
			return s.Board.Select(target)
		case commands.DeselectElement:
			target, err := valueobjects.NewTargetRef(valueobjects.ElementKind(c.TargetKind), c.TargetID)
			if err != nil {
				return err
			}
			s.Board.Deselect(target)
			return nil
		case commands.ClearSelection:
			s.Board.ClearSelection()
			return nil
		default:
			return pkgerrors.NewInternalError(fmt.Sprintf("unexpected command type %T", cmd))
		}
	})
}

func (h *ElementHandler) createRequirement(s *workspace.State, c commands.CreateRequirement, now time.Time) error {
	layer := s.Layers.ActiveLayer()
	if err := s.EnsureLayerUnlocked(layer); err != nil {
		return err
	}
	position, err := valueobjects.NewPosition(c.X, c.Y)
	if err != nil {
		return err
	}

	req, err := s.Board.CreateRequirement(entities.RequirementKind(c.Kind), position, layer, s.CurrentUser(), now)
	if err != nil {
		return err
	}
	s.Layers.RecomputeMembership(s.Board)

	s.Log.AppendHistory(collab.NewHistoryEntry(
		s.CurrentUser(), collab.ActionCreate, req.Target(),
		fmt.Sprintf("created requirement %s", req.Label()),
		string(req.Kind()),
		now,
	))
	return nil
}

func (h *ElementHandler) createGroup(s *workspace.State, c commands.CreateGroup, now time.Time) error {
	layer := s.Layers.ActiveLayer()
	if err := s.EnsureLayerUnlocked(layer); err != nil {
		return err
	}
	position, err := valueobjects.NewPosition(c.X, c.Y)
	if err != nil {
		return err
	}

	group, err := s.Board.CreateGroup(position, layer, now)
	if err != nil {
		return err
	}
	s.Layers.RecomputeMembership(s.Board)

	s.Log.AppendHistory(collab.NewHistoryEntry(
		s.CurrentUser(), collab.ActionCreate, group.Target(),
		fmt.Sprintf("created group %d", group.ID()),
		"",
		now,
	))
	return nil
}

func (h *ElementHandler) createTextBox(s *workspace.State, c commands.CreateTextBox, now time.Time) error {
	layer := s.Layers.ActiveLayer()
	if err := s.EnsureLayerUnlocked(layer); err != nil {
		return err
	}
	position, err := valueobjects.NewPosition(c.X, c.Y)
	if err != nil {
		return err
	}

	box, err := s.Board.CreateTextBox(position, layer, now)
	if err != nil {
		return err
	}
	s.Layers.RecomputeMembership(s.Board)

	s.Log.AppendHistory(collab.NewHistoryEntry(
		s.CurrentUser(), collab.ActionCreate, box.Target(),
		fmt.Sprintf("created text box %d", box.ID()),
		"",
		now,
	))
	return nil
}

func (h *ElementHandler) moveElement(s *workspace.State, c commands.MoveElement, now time.Time) error {
	target, err := valueobjects.NewTargetRef(valueobjects.ElementKind(c.TargetKind), c.TargetID)
	if err != nil {
		return err
	}
	if err := s.EnsureTargetUnlocked(target); err != nil {
		return err
	}
	position, err := valueobjects.NewPosition(c.X, c.Y)
	if err != nil {
		return err
	}
	return s.Board.MoveElement(target, position, now)
}

func (h *ElementHandler) resizeElement(s *workspace.State, c commands.ResizeElement) error {
	target, err := valueobjects.NewTargetRef(valueobjects.ElementKind(c.TargetKind), c.TargetID)
	if err != nil {
		return err
	}
	if err := s.EnsureTargetUnlocked(target); err != nil {
		return err
	}
	size, err := valueobjects.NewSize(c.Width, c.Height)
	if err != nil {
		return err
	}

	if target.Kind() == valueobjects.KindGroup {
		return s.Board.ResizeGroup(target.ID(), size)
	}
	return s.Board.ResizeTextBox(target.ID(), size)
}

func (h *ElementHandler) linkChild(s *workspace.State, c commands.LinkChild, now time.Time) error {
	if err := s.EnsureTargetUnlocked(valueobjects.RequirementTarget(c.ParentID)); err != nil {
		return err
	}
	if err := s.EnsureTargetUnlocked(valueobjects.RequirementTarget(c.ChildID)); err != nil {
		return err
	}
	return s.Board.LinkChild(c.ParentID, c.ChildID, now)
}

func (h *ElementHandler) deleteElement(s *workspace.State, c commands.DeleteElement, now time.Time) error {
	target, err := valueobjects.NewTargetRef(valueobjects.ElementKind(c.TargetKind), c.TargetID)
	if err != nil {
		return err
	}
	if err := s.EnsureTargetUnlocked(target); err != nil {
		return err
	}

	var description string
	switch target.Kind() {
	case valueobjects.KindRequirement:
		req, err := s.Board.Requirement(target.ID())
		if err != nil {
			return err
		}
		description = fmt.Sprintf("deleted requirement %s", req.Label())
		if _, err := s.Board.DeleteRequirement(target.ID(), now); err != nil {
			return err
		}
		s.Log.RemoveFor(target)
	case valueobjects.KindGroup:
		description = fmt.Sprintf("deleted group %d", target.ID())
		if _, err := s.Board.DeleteGroup(target.ID(), now); err != nil {
			return err
		}
		s.Log.RemoveFor(target)
	case valueobjects.KindText:
		description = fmt.Sprintf("deleted text box %d", target.ID())
		if _, err := s.Board.DeleteTextBox(target.ID(), now); err != nil {
			return err
		}
		s.Log.RemoveFor(target)
	}
	s.Layers.RecomputeMembership(s.Board)

	s.Log.AppendHistory(collab.NewHistoryEntry(
		s.CurrentUser(), collab.ActionDelete, target,
		description,
		"",
		now,
	))
	return nil
}

func (h *ElementHandler) updateTitle(s *workspace.State, c commands.UpdateTitle, now time.Time) error {
	target := valueobjects.RequirementTarget(c.RequirementID)
	if err := s.EnsureTargetUnlocked(target); err != nil {
		return err
	}
	req, err := s.Board.Requirement(c.RequirementID)
	if err != nil {
		return err
	}
	old := req.Title()
	if err := req.Rename(c.Title, now); err != nil {
		return err
	}
	if old == c.Title {
		return nil
	}

	s.Log.AppendHistory(collab.NewHistoryEntry(
		s.CurrentUser(), collab.ActionModify, target,
		fmt.Sprintf("renamed %s", req.Label()),
		fmt.Sprintf("%s -> %s", old, c.Title),
		now,
	))
	return nil
}

func (h *ElementHandler) updateNote(s *workspace.State, c commands.UpdateNote, now time.Time) error {
	target := valueobjects.RequirementTarget(c.RequirementID)
	if err := s.EnsureTargetUnlocked(target); err != nil {
		return err
	}
	req, err := s.Board.Requirement(c.RequirementID)
	if err != nil {
		return err
	}
	req.SetNote(c.Note, now)
	return nil
}

func (h *ElementHandler) setColor(s *workspace.State, c commands.SetColor, now time.Time) error {
	target, err := valueobjects.NewTargetRef(valueobjects.ElementKind(c.TargetKind), c.TargetID)
	if err != nil {
		return err
	}
	if err := s.EnsureTargetUnlocked(target); err != nil {
		return err
	}

	switch target.Kind() {
	case valueobjects.KindRequirement:
		req, err := s.Board.Requirement(target.ID())
		if err != nil {
			return err
		}
		return req.SetColor(c.Color, now)
	case valueobjects.KindGroup:
		group, err := s.Board.Group(target.ID())
		if err != nil {
			return err
		}
		return group.SetColor(c.Color)
	default:
		return pkgerrors.NewValidationError("text boxes have no fill color")
	}
}

func (h *ElementHandler) setElementLayer(s *workspace.State, c commands.SetElementLayer, now time.Time) error {
	target, err := valueobjects.NewTargetRef(valueobjects.ElementKind(c.TargetKind), c.TargetID)
	if err != nil {
		return err
	}
	if err := s.EnsureTargetUnlocked(target); err != nil {
		return err
	}
	if !s.Layers.Exists(c.Layer) {
		return pkgerrors.NewNotFoundError("layer")
	}

	if err := s.Board.SetElementLayer(target, c.Layer, now); err != nil {
		return err
	}
	s.Layers.RecomputeMembership(s.Board)
	return nil
}

func (h *ElementHandler) setTextContent(s *workspace.State, c commands.SetTextContent) error {
	target, err := valueobjects.NewTargetRef(valueobjects.KindText, c.TextBoxID)
	if err != nil {
		return err
	}
	if err := s.EnsureTargetUnlocked(target); err != nil {
		return err
	}
	box, err := s.Board.TextBox(c.TextBoxID)
	if err != nil {
		return err
	}
	return box.SetContent(c.Content)
}

func (h *ElementHandler) setFontSize(s *workspace.State, c commands.SetFontSize) error {
	target, err := valueobjects.NewTargetRef(valueobjects.KindText, c.TextBoxID)
	if err != nil {
		return err
	}
	if err := s.EnsureTargetUnlocked(target); err != nil {
		return err
	}
	box, err := s.Board.TextBox(c.TextBoxID)
	if err != nil {
		return err
	}
	return box.SetFontSize(c.FontSize, s.Config().MinFontSize, s.Config().MaxFontSize)
}

func (h *ElementHandler) setGroupName(s *workspace.State, c commands.SetGroupName) error {
	target, err := valueobjects.NewTargetRef(valueobjects.KindGroup, c.GroupID)
	if err != nil {
		return err
	}
	if err := s.EnsureTargetUnlocked(target); err != nil {
		return err
	}
	group, err := s.Board.Group(c.GroupID)
	if err != nil {
		return err
	}
	return group.Rename(c.Name)
}
