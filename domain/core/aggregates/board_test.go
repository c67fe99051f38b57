package aggregates_test

import (
	"testing"
	"time"

	"reqboard/domain/config"
	"reqboard/domain/core/aggregates"
	"reqboard/domain/core/entities"
	"reqboard/domain/core/valueobjects"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBoard(t *testing.T) *aggregates.Board {
	t.Helper()
	return aggregates.NewBoard(config.DefaultDomainConfig())
}

func mustPosition(t *testing.T, x, y float64) valueobjects.Position {
	t.Helper()
	pos, err := valueobjects.NewPosition(x, y)
	require.NoError(t, err)
	return pos
}

func createRequirement(t *testing.T, board *aggregates.Board, kind entities.RequirementKind) *entities.Requirement {
	t.Helper()
	req, err := board.CreateRequirement(kind, mustPosition(t, 100, 100), "Requirements", "alice", time.Now())
	require.NoError(t, err)
	return req
}

func TestBoard_CreateRequirementAllocatesSequentialLabels(t *testing.T) {
	board := newTestBoard(t)

	first := createRequirement(t, board, entities.KindParent)
	second := createRequirement(t, board, entities.KindChild)

	assert.Equal(t, 1, first.ID())
	assert.Equal(t, "R1", first.Label())
	assert.Equal(t, "Requirement R1", first.Title())
	assert.Equal(t, 2, second.ID())
	assert.Equal(t, "R2", second.Label())
}

func TestBoard_KindDefaultColors(t *testing.T) {
	board := newTestBoard(t)

	parent := createRequirement(t, board, entities.KindParent)
	child := createRequirement(t, board, entities.KindChild)

	assert.Equal(t, "lightgreen", parent.Color())
	assert.Equal(t, "lightblue", child.Color())
}

func TestBoard_LinkChildUpdatesBothStructures(t *testing.T) {
	board := newTestBoard(t)
	parent := createRequirement(t, board, entities.KindParent)
	child := createRequirement(t, board, entities.KindChild)

	require.NoError(t, board.LinkChild(parent.ID(), child.ID(), time.Now()))

	assert.Equal(t, []int{child.ID()}, parent.Children())
	assert.Equal(t, []int{child.ID()}, board.ChildrenOf(parent.ID()))
}

func TestBoard_LinkChildKindMismatchIsSilentNoOp(t *testing.T) {
	board := newTestBoard(t)
	first := createRequirement(t, board, entities.KindChild)
	second := createRequirement(t, board, entities.KindChild)

	err := board.LinkChild(first.ID(), second.ID(), time.Now())

	assert.NoError(t, err)
	assert.Empty(t, board.ChildrenOf(first.ID()))
}

func TestBoard_LinkChildDuplicateIsSilentNoOp(t *testing.T) {
	board := newTestBoard(t)
	parent := createRequirement(t, board, entities.KindParent)
	child := createRequirement(t, board, entities.KindChild)
	require.NoError(t, board.LinkChild(parent.ID(), child.ID(), time.Now()))

	err := board.LinkChild(parent.ID(), child.ID(), time.Now())

	assert.NoError(t, err)
	assert.Equal(t, []int{child.ID()}, board.ChildrenOf(parent.ID()))
}

func TestBoard_LinkChildUnknownIDFails(t *testing.T) {
	board := newTestBoard(t)
	parent := createRequirement(t, board, entities.KindParent)

	err := board.LinkChild(parent.ID(), 99, time.Now())

	assert.Error(t, err)
}

func TestBoard_DeleteRequirementCascadesLinksAndSelection(t *testing.T) {
	board := newTestBoard(t)
	parent := createRequirement(t, board, entities.KindParent)
	child := createRequirement(t, board, entities.KindChild)
	require.NoError(t, board.LinkChild(parent.ID(), child.ID(), time.Now()))
	require.NoError(t, board.Select(child.Target()))

	target, err := board.DeleteRequirement(child.ID(), time.Now())

	assert.NoError(t, err)
	assert.Equal(t, child.Target(), target)
	_, err = board.Requirement(child.ID())
	assert.Error(t, err)
	assert.Empty(t, parent.Children())
	assert.Empty(t, board.ChildrenOf(parent.ID()))
	assert.False(t, board.IsSelected(child.Target()))
}

func TestBoard_DeleteParentDropsItsLinkEntry(t *testing.T) {
	board := newTestBoard(t)
	parent := createRequirement(t, board, entities.KindParent)
	child := createRequirement(t, board, entities.KindChild)
	require.NoError(t, board.LinkChild(parent.ID(), child.ID(), time.Now()))

	_, err := board.DeleteRequirement(parent.ID(), time.Now())

	assert.NoError(t, err)
	assert.Empty(t, board.Links())
	_, err = board.Requirement(child.ID())
	assert.NoError(t, err)
}

func TestBoard_ResequenceRelabelsInAscendingIDOrder(t *testing.T) {
	board := newTestBoard(t)
	first := createRequirement(t, board, entities.KindParent)
	second := createRequirement(t, board, entities.KindChild)
	third := createRequirement(t, board, entities.KindChild)
	_, err := board.DeleteRequirement(second.ID(), time.Now())
	require.NoError(t, err)
	board.Allocator().SetPrefix("REQ-")

	board.Resequence()

	assert.Equal(t, "REQ-1", first.Label())
	assert.Equal(t, "Requirement REQ-1", first.Title())
	assert.Equal(t, "REQ-2", third.Label())
	assert.Equal(t, 3, third.ID())

	next, _, _ := allocatorCounters(board)
	assert.Equal(t, 3, next)
}

func allocatorCounters(board *aggregates.Board) (int, int, int) {
	return board.Allocator().Counters()
}

func TestBoard_ApplyScaleKeepsAnchorFixed(t *testing.T) {
	board := newTestBoard(t)
	anchor := mustPosition(t, 100, 100)
	req, err := board.CreateRequirement(entities.KindParent, anchor, "Requirements", "alice", time.Now())
	require.NoError(t, err)
	group, err := board.CreateGroup(mustPosition(t, 200, 200), "Groups", time.Now())
	require.NoError(t, err)

	board.ApplyScale(anchor, 2.0)

	assert.True(t, req.Position().Equals(anchor))
	assert.InDelta(t, 300.0, group.Position().X(), 1e-9)
	assert.InDelta(t, 600.0, group.Size().Width(), 1e-9)
}

func TestBoard_TranslateMovesEveryElement(t *testing.T) {
	board := newTestBoard(t)
	req := createRequirement(t, board, entities.KindChild)
	box, err := board.CreateTextBox(mustPosition(t, 10, 20), "Notes", time.Now())
	require.NoError(t, err)

	board.Translate(5, -5)

	assert.InDelta(t, 105.0, req.Position().X(), 1e-9)
	assert.InDelta(t, 95.0, req.Position().Y(), 1e-9)
	assert.InDelta(t, 15.0, box.Position().X(), 1e-9)
	assert.InDelta(t, 15.0, box.Position().Y(), 1e-9)
}

func TestBoard_SelectUnknownTargetFails(t *testing.T) {
	board := newTestBoard(t)

	err := board.Select(valueobjects.RequirementTarget(42))

	assert.Error(t, err)
}

func TestBoard_SelectionIsGroupedAndSorted(t *testing.T) {
	board := newTestBoard(t)
	req := createRequirement(t, board, entities.KindParent)
	group, err := board.CreateGroup(mustPosition(t, 0, 0), "Groups", time.Now())
	require.NoError(t, err)
	box, err := board.CreateTextBox(mustPosition(t, 0, 0), "Notes", time.Now())
	require.NoError(t, err)

	require.NoError(t, board.Select(box.Target()))
	require.NoError(t, board.Select(group.Target()))
	require.NoError(t, board.Select(req.Target()))

	selection := board.Selection()
	require.Len(t, selection, 3)
	assert.Equal(t, req.Target(), selection[0])
	assert.Equal(t, group.Target(), selection[1])
	assert.Equal(t, box.Target(), selection[2])
}

func TestBoard_FindByLabel(t *testing.T) {
	board := newTestBoard(t)
	req := createRequirement(t, board, entities.KindParent)

	found, err := board.FindByLabel("R1")
	assert.NoError(t, err)
	assert.Equal(t, req.ID(), found.ID())

	_, err = board.FindByLabel("R99")
	assert.Error(t, err)
}

func TestBoard_RestoreRequirementSeedsLinks(t *testing.T) {
	board := newTestBoard(t)
	req, err := entities.ReconstructRequirement(
		1, "R1", entities.KindParent, "Requirement R1", "",
		mustPosition(t, 0, 0), "lightgreen", "Requirements",
		entities.StatusDraft, []int{2, 3}, "alice", time.Now(), time.Now(),
	)
	require.NoError(t, err)

	require.NoError(t, board.RestoreRequirement(req))

	assert.Equal(t, []int{2, 3}, board.ChildrenOf(1))
	assert.Error(t, board.RestoreRequirement(req))
}

func TestAllocator_RestoreRaisesInvalidCounters(t *testing.T) {
	alloc := aggregates.NewIdentifierAllocator("R")

	alloc.Restore(0, -3, 5, "Q")

	nr, ng, nt := alloc.Counters()
	assert.Equal(t, 1, nr)
	assert.Equal(t, 1, ng)
	assert.Equal(t, 5, nt)
	assert.Equal(t, "Q1", alloc.Label(1))
}
