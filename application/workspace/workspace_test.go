package workspace_test

import (
	"testing"
	"time"

	"reqboard/application/workspace"
	"reqboard/domain/collab"
	"reqboard/domain/config"
	"reqboard/domain/core/valueobjects"
	pkgerrors "reqboard/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewState_Defaults(t *testing.T) {
	state := workspace.NewState(config.DefaultDomainConfig())

	assert.Equal(t, "User", state.CurrentUser())
	assert.True(t, state.Mode().IsIdle())
	assert.True(t, state.Board.IsEmpty())
	assert.Equal(t, "Requirements", state.Layers.ActiveLayer())
	assert.Equal(t, 0, state.Log.HistoryLen())
}

func TestState_SetCurrentUserRecordsSystemEntry(t *testing.T) {
	state := workspace.NewState(config.DefaultDomainConfig())
	now := time.Now()

	require.NoError(t, state.SetCurrentUser("alice", now))

	assert.Equal(t, "alice", state.CurrentUser())
	entries := state.Log.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, collab.ActionSystem, entries[0].Action)
	assert.Equal(t, "current user changed to alice", entries[0].Description)

	// setting the same name again is a no-op
	require.NoError(t, state.SetCurrentUser("alice", now))
	assert.Equal(t, 1, state.Log.HistoryLen())

	assert.Error(t, state.SetCurrentUser("", now))
}

func TestState_EnsureLayerUnlocked(t *testing.T) {
	state := workspace.NewState(config.DefaultDomainConfig())

	assert.NoError(t, state.EnsureLayerUnlocked("Requirements"))

	require.NoError(t, state.Layers.SetLocked("Requirements", true))
	err := state.EnsureLayerUnlocked("Requirements")

	require.Error(t, err)
	assert.True(t, pkgerrors.IsGuard(err))
	assert.Equal(t, "LAYER_LOCKED", pkgerrors.GetAppError(err).Code)
	assert.Equal(t, 423, pkgerrors.GetAppError(err).HTTPStatus)
}

func TestState_EnsureTargetUnlockedSurfacesUnknownTargetAsNotFound(t *testing.T) {
	state := workspace.NewState(config.DefaultDomainConfig())

	err := state.EnsureTargetUnlocked(valueobjects.RequirementTarget(9))

	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestWorkspace_UpdateUsesInjectedClock(t *testing.T) {
	fixed := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	ws := workspace.New(config.DefaultDomainConfig(), workspace.WithClock(func() time.Time { return fixed }))

	var seen time.Time
	err := ws.Update(func(s *workspace.State, now time.Time) error {
		seen = now
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, fixed, seen)
}

func TestWorkspace_ReplaceKeepsOldStateOnError(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	ws := workspace.New(cfg)
	require.NoError(t, ws.Update(func(s *workspace.State, now time.Time) error {
		return s.SetCurrentUser("alice", now)
	}))

	err := ws.Replace(func(now time.Time) (*workspace.State, error) {
		return nil, pkgerrors.NewIOError("load", assert.AnError)
	})

	assert.Error(t, err)
	require.NoError(t, ws.Read(func(s *workspace.State) error {
		assert.Equal(t, "alice", s.CurrentUser())
		return nil
	}))
}

func TestInteractionMode_Constructors(t *testing.T) {
	target := valueobjects.RequirementTarget(3)

	dragging, err := workspace.DraggingMode(target)
	require.NoError(t, err)
	assert.Equal(t, workspace.ModeDragging, dragging.Kind())
	assert.Equal(t, target, dragging.Target())
	assert.False(t, dragging.IsIdle())

	_, err = workspace.DraggingMode(valueobjects.TargetRef{})
	assert.Error(t, err)

	assert.Equal(t, workspace.ModePanning, workspace.PanningMode().Kind())
	assert.True(t, workspace.IdleMode().IsIdle())

	var zero workspace.InteractionMode
	assert.Equal(t, workspace.ModeIdle, zero.Kind())
}
