package handlers_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"reqboard/application/commands"
	"reqboard/application/commands/bus"
	"reqboard/application/commands/handlers"
	"reqboard/application/workspace"
	"reqboard/domain/config"
	"reqboard/domain/core/entities"
	"reqboard/domain/core/valueobjects"
	"reqboard/infrastructure/persistence/jsonfile"
	pkgerrors "reqboard/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	ws    *workspace.Workspace
	bus   *bus.CommandBus
	store *jsonfile.Store
	ctx   context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := config.DefaultDomainConfig()
	ws := workspace.New(cfg)
	store := jsonfile.NewStore(filepath.Join(t.TempDir(), "board.json"), cfg, zap.NewNop())

	commandBus := bus.NewCommandBus()
	for _, h := range []interface {
		Register(*bus.CommandBus) error
	}{
		handlers.NewElementHandler(ws),
		handlers.NewLayerHandler(ws),
		handlers.NewWorkflowHandler(ws),
		handlers.NewWorkspaceHandler(ws),
		handlers.NewProjectHandler(ws, store, zap.NewNop()),
	} {
		require.NoError(t, h.Register(commandBus))
	}

	return &fixture{ws: ws, bus: commandBus, store: store, ctx: context.Background()}
}

func (f *fixture) send(t *testing.T, cmd bus.Command) {
	t.Helper()
	require.NoError(t, f.bus.Send(f.ctx, cmd))
}

func (f *fixture) read(t *testing.T, fn func(s *workspace.State)) {
	t.Helper()
	require.NoError(t, f.ws.Read(func(s *workspace.State) error {
		fn(s)
		return nil
	}))
}

func TestCreateRequirement_LandsOnActiveLayerWithHistory(t *testing.T) {
	f := newFixture(t)

	f.send(t, commands.CreateRequirement{Kind: "parent", X: 100, Y: 100})

	f.read(t, func(s *workspace.State) {
		req, err := s.Board.Requirement(1)
		require.NoError(t, err)
		assert.Equal(t, "R1", req.Label())
		assert.Equal(t, "Requirements", req.Layer())
		assert.Equal(t, entities.StatusDraft, req.Status())

		layer, err := s.Layers.Layer("Requirements")
		require.NoError(t, err)
		assert.True(t, layer.Contains(req.Target()))

		entries := s.Log.Entries()
		require.Len(t, entries, 1)
		assert.Equal(t, "created requirement R1", entries[0].Description)
	})
}

func TestCreateRequirement_RefusedOnLockedActiveLayer(t *testing.T) {
	f := newFixture(t)
	f.send(t, commands.SetLayerLocked{Name: "Requirements", Locked: true})

	err := f.bus.Send(f.ctx, commands.CreateRequirement{Kind: "child", X: 0, Y: 0})

	require.Error(t, err)
	assert.True(t, pkgerrors.IsGuard(err))
	assert.Equal(t, "LAYER_LOCKED", pkgerrors.GetAppError(err).Code)

	f.read(t, func(s *workspace.State) {
		assert.True(t, s.Board.IsEmpty())
	})
}

func TestCreateRequirement_InvalidKindRejectedBeforeDispatch(t *testing.T) {
	f := newFixture(t)

	err := f.bus.Send(f.ctx, commands.CreateRequirement{Kind: "box"})

	assert.True(t, pkgerrors.IsValidation(err))
}

func TestMoveElement_RefusedOnLockedLayer(t *testing.T) {
	f := newFixture(t)
	f.send(t, commands.CreateRequirement{Kind: "parent", X: 100, Y: 100})
	f.send(t, commands.SetLayerLocked{Name: "Requirements", Locked: true})

	err := f.bus.Send(f.ctx, commands.MoveElement{TargetKind: "requirement", TargetID: 1, X: 200, Y: 200})

	assert.True(t, pkgerrors.IsGuard(err))
	f.read(t, func(s *workspace.State) {
		req, err := s.Board.Requirement(1)
		require.NoError(t, err)
		assert.Equal(t, 100.0, req.Position().X())
	})
}

func TestDeleteElement_CascadesCommentsReviewAndSelection(t *testing.T) {
	f := newFixture(t)
	f.send(t, commands.CreateRequirement{Kind: "parent", X: 0, Y: 0})
	f.send(t, commands.CreateRequirement{Kind: "child", X: 50, Y: 50})
	f.send(t, commands.LinkChild{ParentID: 1, ChildID: 2})
	f.send(t, commands.AddComment{TargetKind: "requirement", TargetID: 2, Text: "needs detail"})
	f.send(t, commands.RequestReview{RequirementID: 2, Reviewers: []string{"bob"}})
	f.send(t, commands.SelectElement{TargetKind: "requirement", TargetID: 2})

	f.send(t, commands.DeleteElement{TargetKind: "requirement", TargetID: 2})

	f.read(t, func(s *workspace.State) {
		target := valueobjects.RequirementTarget(2)
		_, err := s.Board.Requirement(2)
		assert.Error(t, err)
		assert.Empty(t, s.Board.ChildrenOf(1))
		assert.Empty(t, s.Log.CommentsFor(target))
		_, ok := s.Log.ReviewFor(target)
		assert.False(t, ok)
		assert.False(t, s.Board.IsSelected(target))

		// the audit trail survives the cascade
		assert.Greater(t, s.Log.HistoryLen(), 0)
	})
}

func TestResizeElement_RequirementRejected(t *testing.T) {
	f := newFixture(t)
	f.send(t, commands.CreateRequirement{Kind: "parent", X: 0, Y: 0})

	err := f.bus.Send(f.ctx, commands.ResizeElement{TargetKind: "requirement", TargetID: 1, Width: 200, Height: 100})

	assert.True(t, pkgerrors.IsValidation(err))
}

func TestSetElementLayer_UnknownDestinationIsNotFound(t *testing.T) {
	f := newFixture(t)
	f.send(t, commands.CreateRequirement{Kind: "parent", X: 0, Y: 0})

	err := f.bus.Send(f.ctx, commands.SetElementLayer{TargetKind: "requirement", TargetID: 1, Layer: "Vanished"})

	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestSetElementLayer_MovesMembership(t *testing.T) {
	f := newFixture(t)
	f.send(t, commands.CreateRequirement{Kind: "parent", X: 0, Y: 0})

	f.send(t, commands.SetElementLayer{TargetKind: "requirement", TargetID: 1, Layer: "Background"})

	f.read(t, func(s *workspace.State) {
		background, err := s.Layers.Layer("Background")
		require.NoError(t, err)
		assert.Equal(t, 1, background.MemberCount())
		requirements, err := s.Layers.Layer("Requirements")
		require.NoError(t, err)
		assert.Equal(t, 0, requirements.MemberCount())
	})
}

func TestDeleteLayer_ReassignsMembersWhenConfirmed(t *testing.T) {
	f := newFixture(t)
	f.send(t, commands.CreateRequirement{Kind: "parent", X: 0, Y: 0})

	// unconfirmed deletion of a populated layer is refused
	err := f.bus.Send(f.ctx, commands.DeleteLayer{Name: "Requirements"})
	require.Error(t, err)
	assert.Equal(t, "LAYER_NOT_EMPTY", pkgerrors.GetAppError(err).Code)

	f.send(t, commands.DeleteLayer{Name: "Requirements", Confirm: true, ReassignTo: "Background"})

	f.read(t, func(s *workspace.State) {
		assert.False(t, s.Layers.Exists("Requirements"))
		req, err := s.Board.Requirement(1)
		require.NoError(t, err)
		assert.Equal(t, "Background", req.Layer())
	})
}

func TestDeleteLayer_LockedLayerRefused(t *testing.T) {
	f := newFixture(t)
	f.send(t, commands.SetLayerLocked{Name: "Notes", Locked: true})

	err := f.bus.Send(f.ctx, commands.DeleteLayer{Name: "Notes"})

	assert.True(t, pkgerrors.IsGuard(err))
	assert.Equal(t, "LAYER_LOCKED", pkgerrors.GetAppError(err).Code)
}

func TestWorkflowCommands_FullReviewCycle(t *testing.T) {
	f := newFixture(t)
	f.send(t, commands.SetCurrentUser{Name: "alice"})
	f.send(t, commands.CreateRequirement{Kind: "parent", X: 0, Y: 0})
	f.send(t, commands.RequestReview{RequirementID: 1, Reviewers: []string{"bob", "carol"}, Notes: "check the flows", DeadlineDays: 5})

	f.read(t, func(s *workspace.State) {
		req, err := s.Board.Requirement(1)
		require.NoError(t, err)
		assert.Equal(t, entities.StatusInReview, req.Status())
		review, ok := s.Log.ReviewFor(req.Target())
		require.True(t, ok)
		assert.Equal(t, []string{"bob", "carol"}, review.Reviewers())
		assert.Equal(t, "check the flows", review.Notes())
	})

	err := f.bus.Send(f.ctx, commands.RequestReview{RequirementID: 1})
	assert.True(t, pkgerrors.IsValidation(err))

	err = f.bus.Send(f.ctx, commands.RejectReview{RequirementID: 1})
	assert.True(t, pkgerrors.IsValidation(err))

	f.send(t, commands.RejectReview{RequirementID: 1, Reason: "incomplete"})

	f.read(t, func(s *workspace.State) {
		req, err := s.Board.Requirement(1)
		require.NoError(t, err)
		assert.Equal(t, entities.StatusRejected, req.Status())
		review, ok := s.Log.ReviewFor(req.Target())
		require.True(t, ok)
		assert.Equal(t, "incomplete", review.RejectionReason())
	})
}

func TestAddComment_UnknownElementIsNotFound(t *testing.T) {
	f := newFixture(t)

	err := f.bus.Send(f.ctx, commands.AddComment{TargetKind: "requirement", TargetID: 5, Text: "hello"})

	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestZoomAndResequenceCommands(t *testing.T) {
	f := newFixture(t)
	f.send(t, commands.CreateRequirement{Kind: "parent", X: 100, Y: 100})
	f.send(t, commands.CreateRequirement{Kind: "child", X: 300, Y: 100})
	f.send(t, commands.DeleteElement{TargetKind: "requirement", TargetID: 1})

	f.send(t, commands.SetIDPrefix{Prefix: "REQ-"})
	f.send(t, commands.Resequence{})

	f.read(t, func(s *workspace.State) {
		req, err := s.Board.Requirement(2)
		require.NoError(t, err)
		assert.Equal(t, "REQ-1", req.Label())
		assert.Equal(t, "Requirement REQ-1", req.Title())
	})

	f.send(t, commands.ZoomAt{AnchorX: 300, AnchorY: 100, Factor: 2.0})

	f.read(t, func(s *workspace.State) {
		assert.InDelta(t, 2.0, s.Viewport.Scale(), 1e-9)
		req, err := s.Board.Requirement(2)
		require.NoError(t, err)
		assert.InDelta(t, 300.0, req.Position().X(), 1e-9)
	})

	f.send(t, commands.ResetZoom{})
	f.read(t, func(s *workspace.State) {
		assert.Equal(t, 1.0, s.Viewport.Scale())
	})
}

func TestInteractionCommands_GuardAndModeTransitions(t *testing.T) {
	f := newFixture(t)
	f.send(t, commands.CreateRequirement{Kind: "parent", X: 0, Y: 0})

	f.send(t, commands.BeginDrag{TargetKind: "requirement", TargetID: 1})
	f.read(t, func(s *workspace.State) {
		assert.Equal(t, workspace.ModeDragging, s.Mode().Kind())
		assert.Equal(t, valueobjects.RequirementTarget(1), s.Mode().Target())
	})

	f.send(t, commands.EndInteraction{})
	f.read(t, func(s *workspace.State) {
		assert.True(t, s.Mode().IsIdle())
	})

	f.send(t, commands.SetLayerLocked{Name: "Requirements", Locked: true})
	err := f.bus.Send(f.ctx, commands.BeginDrag{TargetKind: "requirement", TargetID: 1})
	assert.True(t, pkgerrors.IsGuard(err))
}

func TestSaveAndLoadProjectCommands(t *testing.T) {
	f := newFixture(t)
	f.send(t, commands.SetCurrentUser{Name: "alice"})
	f.send(t, commands.CreateRequirement{Kind: "parent", X: 100, Y: 100})
	f.send(t, commands.SaveProject{})
	require.True(t, f.store.Exists())

	// mutate after the save, then load the snapshot back
	f.send(t, commands.CreateRequirement{Kind: "child", X: 200, Y: 200})
	f.send(t, commands.LoadProject{})

	f.read(t, func(s *workspace.State) {
		assert.Equal(t, []int{1}, s.Board.RequirementIDs())
		assert.Equal(t, "alice", s.CurrentUser())

		// loading appends a SYSTEM entry
		entries := s.Log.Entries()
		require.NotEmpty(t, entries)
		assert.Equal(t, "project loaded", entries[len(entries)-1].Description)
	})
}

func TestCommandTimestampsAgreeWithinOneCommand(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	fixed := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	ws := workspace.New(cfg, workspace.WithClock(func() time.Time { return fixed }))
	commandBus := bus.NewCommandBus()
	require.NoError(t, handlers.NewElementHandler(ws).Register(commandBus))

	require.NoError(t, commandBus.Send(context.Background(), commands.CreateRequirement{Kind: "parent", X: 0, Y: 0}))

	require.NoError(t, ws.Read(func(s *workspace.State) error {
		req, err := s.Board.Requirement(1)
		require.NoError(t, err)
		assert.Equal(t, fixed, req.CreatedAt())
		assert.Equal(t, fixed, s.Log.Entries()[0].Timestamp)
		return nil
	}))
}
