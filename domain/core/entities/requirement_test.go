package entities_test

import (
	"testing"
	"time"

	"reqboard/domain/core/entities"
	"reqboard/domain/core/valueobjects"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRequirement(t *testing.T, id int, kind entities.RequirementKind) *entities.Requirement {
	t.Helper()
	pos, err := valueobjects.NewPosition(100, 100)
	require.NoError(t, err)
	req, err := entities.NewRequirement(id, "R1", kind, pos, "lightgreen", "Requirements", "alice", time.Now())
	require.NoError(t, err)
	return req
}

func TestRequirement_Creation(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	pos, err := valueobjects.NewPosition(50, 75)
	require.NoError(t, err)

	req, err := entities.NewRequirement(3, "R3", entities.KindParent, pos, "lightgreen", "Requirements", "alice", now)

	assert.NoError(t, err)
	assert.Equal(t, 3, req.ID())
	assert.Equal(t, "R3", req.Label())
	assert.Equal(t, "Requirement R3", req.Title())
	assert.Equal(t, entities.StatusDraft, req.Status())
	assert.Equal(t, "alice", req.CreatedBy())
	assert.Equal(t, now, req.CreatedAt())
	assert.Empty(t, req.Children())
}

func TestRequirement_RejectsInvalidKind(t *testing.T) {
	pos, err := valueobjects.NewPosition(0, 0)
	require.NoError(t, err)

	_, err = entities.NewRequirement(1, "R1", "box", pos, "", "Requirements", "alice", time.Now())

	assert.Error(t, err)
}

func TestRequirement_AttachAndDetachChild(t *testing.T) {
	parent := newTestRequirement(t, 1, entities.KindParent)

	require.NoError(t, parent.AttachChild(2))
	require.NoError(t, parent.AttachChild(5))

	assert.Equal(t, []int{2, 5}, parent.Children())
	assert.True(t, parent.HasChild(2))

	assert.True(t, parent.DetachChild(2))
	assert.Equal(t, []int{5}, parent.Children())
	assert.False(t, parent.DetachChild(2))
}

func TestRequirement_CannotContainItself(t *testing.T) {
	parent := newTestRequirement(t, 1, entities.KindParent)

	err := parent.AttachChild(1)

	assert.Error(t, err)
}

func TestRequirement_AttachChildTwiceConflicts(t *testing.T) {
	parent := newTestRequirement(t, 1, entities.KindParent)
	require.NoError(t, parent.AttachChild(2))

	err := parent.AttachChild(2)

	assert.Error(t, err)
}

func TestRequirement_RelabelResetsTitle(t *testing.T) {
	req := newTestRequirement(t, 4, entities.KindChild)
	require.NoError(t, req.Rename("Custom title", time.Now()))

	req.Relabel("Q2")

	assert.Equal(t, "Q2", req.Label())
	assert.Equal(t, "Requirement Q2", req.Title())
	assert.Equal(t, 4, req.ID())
}

func TestRequirement_RenameRejectsEmptyTitle(t *testing.T) {
	req := newTestRequirement(t, 1, entities.KindChild)

	err := req.Rename("", time.Now())

	assert.Error(t, err)
}

func TestRequirement_SetStatusValidatesValue(t *testing.T) {
	req := newTestRequirement(t, 1, entities.KindChild)

	assert.NoError(t, req.SetStatus(entities.StatusImplemented, time.Now()))
	assert.Equal(t, entities.StatusImplemented, req.Status())

	assert.Error(t, req.SetStatus("Done", time.Now()))
}

func TestGroup_ResizeClampsToMinimum(t *testing.T) {
	pos, err := valueobjects.NewPosition(0, 0)
	require.NoError(t, err)
	size, err := valueobjects.NewSize(300, 200)
	require.NoError(t, err)
	group, err := entities.NewGroup(1, pos, size, "lightyellow", "Groups", 100, 80)
	require.NoError(t, err)

	small, err := valueobjects.NewSize(10, 10)
	require.NoError(t, err)
	group.Resize(small)

	assert.Equal(t, 100.0, group.Size().Width())
	assert.Equal(t, 80.0, group.Size().Height())
}

func TestTextBox_DefaultsAndFontRange(t *testing.T) {
	pos, err := valueobjects.NewPosition(0, 0)
	require.NoError(t, err)
	size, err := valueobjects.NewSize(200, 30)
	require.NoError(t, err)
	box, err := entities.NewTextBox(1, pos, size, 10, "Notes", 50, 20)
	require.NoError(t, err)

	assert.Equal(t, "New Text Box", box.Content())
	assert.Equal(t, 10, box.FontSize())

	assert.Error(t, box.SetFontSize(5, 6, 24))
	assert.Error(t, box.SetFontSize(25, 6, 24))
	assert.NoError(t, box.SetFontSize(24, 6, 24))
	assert.Equal(t, 24, box.FontSize())
}

func TestTextBox_RejectsEmptyContent(t *testing.T) {
	pos, err := valueobjects.NewPosition(0, 0)
	require.NoError(t, err)
	size, err := valueobjects.NewSize(200, 30)
	require.NoError(t, err)
	box, err := entities.NewTextBox(1, pos, size, 10, "Notes", 50, 20)
	require.NoError(t, err)

	assert.Error(t, box.SetContent(""))
	assert.NoError(t, box.SetContent("updated"))
	assert.Equal(t, "updated", box.Content())
}

func TestLayer_FlagsAndMembership(t *testing.T) {
	layer, err := entities.NewLayer("Notes", "orange")
	require.NoError(t, err)

	assert.True(t, layer.Visible())
	assert.False(t, layer.Locked())

	layer.SetVisible(false)
	layer.SetLocked(true)
	assert.False(t, layer.Visible())
	assert.True(t, layer.Locked())

	target, err := valueobjects.NewTargetRef(valueobjects.KindText, 1)
	require.NoError(t, err)
	layer.ReplaceMembers([]valueobjects.TargetRef{target})
	assert.Equal(t, 1, layer.MemberCount())
	assert.True(t, layer.Contains(target))
}
