package queries_test

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"reqboard/application/queries"
	"reqboard/application/workspace"
	"reqboard/domain/config"
	"reqboard/domain/core/entities"
	"reqboard/domain/core/valueobjects"
	pkgerrors "reqboard/pkg/errors"
	"reqboard/pkg/export"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededWorkspace(t *testing.T) *workspace.Workspace {
	t.Helper()
	cfg := config.DefaultDomainConfig()
	ws := workspace.New(cfg)
	require.NoError(t, ws.Update(func(s *workspace.State, now time.Time) error {
		pos := func(x, y float64) valueobjects.Position {
			p, err := valueobjects.NewPosition(x, y)
			require.NoError(t, err)
			return p
		}

		parent, err := s.Board.CreateRequirement(entities.KindParent, pos(100, 100), "Requirements", "alice", now)
		require.NoError(t, err)
		child, err := s.Board.CreateRequirement(entities.KindChild, pos(100, 400), "Requirements", "alice", now)
		require.NoError(t, err)
		require.NoError(t, s.Board.LinkChild(parent.ID(), child.ID(), now))

		box, err := s.Board.CreateTextBox(pos(500, 100), "Notes", now)
		require.NoError(t, err)
		require.NoError(t, box.SetContent("ship it"))

		s.Layers.RecomputeMembership(s.Board)

		_, err = s.Log.AddComment(parent.Target(), "bob", "open question", now)
		require.NoError(t, err)

		_, err = s.Workflow.RequestReview(s.Board, parent.ID(), []string{"bob"}, "check the happy path", "alice", 3, now)
		require.NoError(t, err)
		return nil
	}))
	return ws
}

func TestBoardQueryService_View(t *testing.T) {
	ws := seededWorkspace(t)
	service := queries.NewBoardQueryService(ws)

	view, err := service.View()
	require.NoError(t, err)

	require.Len(t, view.Requirements, 2)
	parent := view.Requirements[0]
	assert.Equal(t, "R1", parent.Label)
	assert.Equal(t, "parent", parent.Kind)
	assert.Equal(t, 160.0, parent.Width)
	assert.Equal(t, 80.0, parent.Height)
	assert.Equal(t, "In Review", parent.Status)
	// the status color overrides the element color for display
	assert.Equal(t, "lightyellow", parent.DisplayColor)
	assert.Equal(t, "lightgreen", parent.Color)
	assert.Equal(t, 1, parent.OpenComments)
	require.NotNil(t, parent.Review)
	assert.Equal(t, []string{"bob"}, parent.Review.Reviewers)

	child := view.Requirements[1]
	assert.Equal(t, "lightgray", child.DisplayColor)

	require.Len(t, view.Links, 1)
	assert.Equal(t, 1, view.Links[0].ParentID)
	assert.Equal(t, 2, view.Links[0].ChildID)

	require.Len(t, view.Layers, 4)
	assert.Equal(t, "Requirements", view.ActiveLayer)
	assert.Equal(t, 1.0, view.Zoom)
	assert.Equal(t, "idle", view.Mode.Kind)
}

func TestBoardQueryService_VisibilityFollowsLayerFlags(t *testing.T) {
	ws := seededWorkspace(t)
	require.NoError(t, ws.Update(func(s *workspace.State, now time.Time) error {
		return s.Layers.SetVisible("Notes", false)
	}))
	service := queries.NewBoardQueryService(ws)

	view, err := service.View()
	require.NoError(t, err)

	require.Len(t, view.TextBoxes, 1)
	assert.False(t, view.TextBoxes[0].Visible)
	assert.True(t, view.Requirements[0].Visible)
}

func TestCollabQueryService_CommentsForUnknownElement(t *testing.T) {
	ws := seededWorkspace(t)
	service := queries.NewCollabQueryService(ws)

	_, err := service.CommentsFor("requirement", 99)

	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestCollabQueryService_ReviewFor(t *testing.T) {
	ws := seededWorkspace(t)
	service := queries.NewCollabQueryService(ws)

	review, err := service.ReviewFor(1)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, review.Reviewers)
	assert.Equal(t, "check the happy path", review.Notes)
	assert.Equal(t, "pending", review.Status)
	require.NotNil(t, review.Deadline)

	_, err = service.ReviewFor(2)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestCollabQueryService_HistoryValidatesAction(t *testing.T) {
	ws := seededWorkspace(t)
	service := queries.NewCollabQueryService(ws)

	_, err := service.History("SHOUTED", "")
	assert.True(t, pkgerrors.IsValidation(err))

	entries, err := service.History("REVIEW", "")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "requested review from bob", entries[0].Description)
	assert.Equal(t, "requirement", entries[0].TargetKind)
	assert.Equal(t, 1, entries[0].TargetID)
}

func TestCollabQueryService_ExportHistoryCSV(t *testing.T) {
	ws := seededWorkspace(t)
	service := queries.NewCollabQueryService(ws)

	data, err := service.ExportHistoryCSV()
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(records), 2)
	assert.Equal(t, []string{"Timestamp", "User", "Action", "Target Type", "Target Id", "Description", "Details"}, records[0])
}

func TestExportQueryService_Layout(t *testing.T) {
	ws := seededWorkspace(t)
	service := queries.NewExportQueryService(ws)

	view, err := service.Layout(nil, export.Options{Page: "a4", Scale: 1.0, Margin: 20})
	require.NoError(t, err)

	// bounding box spans both requirements and the text box
	assert.Equal(t, 100.0, view.Content.X)
	assert.Equal(t, 100.0, view.Content.Y)
	assert.Equal(t, 600.0, view.Content.W)
	assert.Equal(t, 380.0, view.Content.H)
	assert.Equal(t, 595.0, view.PageW)
	assert.Less(t, view.FitScale, 1.0)

	require.Len(t, view.Arrows, 1)
	arrow := view.Arrows[0]
	assert.Equal(t, 180.0, arrow.X1)
	assert.Equal(t, 180.0, arrow.Y1)
	assert.Equal(t, 180.0, arrow.X2)
	assert.Equal(t, 400.0, arrow.Y2)

	require.Len(t, view.TextLines, 1)
	assert.Equal(t, []string{"ship it"}, view.TextLines[0].Lines)
}

func TestExportQueryService_ArrowsOnlyWhenBothEndpointsIncluded(t *testing.T) {
	ws := seededWorkspace(t)
	service := queries.NewExportQueryService(ws)

	view, err := service.Layout([]string{"Requirements"}, export.Options{Page: "a4", Scale: 1.0, Margin: 20})
	require.NoError(t, err)
	assert.Len(t, view.Arrows, 1)
	assert.Empty(t, view.TextLines)

	_, err = service.Layout([]string{"Background"}, export.Options{Page: "a4", Scale: 1.0, Margin: 20})
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestExportQueryService_RejectsInvalidOptions(t *testing.T) {
	ws := seededWorkspace(t)
	service := queries.NewExportQueryService(ws)

	_, err := service.Layout(nil, export.Options{Page: "legal", Scale: 1.0, Margin: 20})

	assert.True(t, pkgerrors.IsValidation(err))
}
