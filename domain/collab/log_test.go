package collab_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"reqboard/domain/collab"
	"reqboard/domain/config"
	"reqboard/domain/core/valueobjects"
	pkgerrors "reqboard/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLog(t *testing.T) *collab.Log {
	t.Helper()
	return collab.NewLog(config.DefaultDomainConfig())
}

func TestLog_AddCommentAssignsSequenceNumbers(t *testing.T) {
	log := newTestLog(t)
	target := valueobjects.RequirementTarget(1)

	first, err := log.AddComment(target, "alice", "first", time.Now())
	require.NoError(t, err)
	second, err := log.AddComment(target, "bob", "second", time.Now())
	require.NoError(t, err)

	assert.Equal(t, 1, first.Seq())
	assert.Equal(t, 2, second.Seq())

	thread := log.CommentsFor(target)
	require.Len(t, thread, 2)
	assert.Equal(t, "first", thread[0].Text())
}

func TestLog_AddCommentRecordsHistoryWithPreview(t *testing.T) {
	log := newTestLog(t)
	target := valueobjects.RequirementTarget(1)
	long := strings.Repeat("x", 60)

	_, err := log.AddComment(target, "alice", long, time.Now())
	require.NoError(t, err)

	entries := log.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, collab.ActionComment, entries[0].Action)
	assert.Equal(t, "added comment #1", entries[0].Description)
	assert.Equal(t, strings.Repeat("x", 50)+"...", entries[0].Details)
}

func TestLog_ResolveComment(t *testing.T) {
	log := newTestLog(t)
	target := valueobjects.RequirementTarget(1)
	_, err := log.AddComment(target, "alice", "check this", time.Now())
	require.NoError(t, err)

	require.NoError(t, log.ResolveComment(target, 1, "bob", time.Now()))

	thread := log.CommentsFor(target)
	assert.True(t, thread[0].Resolved())
	assert.Equal(t, "bob", thread[0].ResolvedBy())
	assert.Equal(t, 0, log.OpenCommentCount(target))

	err = log.ResolveComment(target, 1, "bob", time.Now())
	assert.True(t, pkgerrors.IsConflict(err))
}

func TestLog_ResolveUnknownCommentIsNotFound(t *testing.T) {
	log := newTestLog(t)
	target := valueobjects.RequirementTarget(1)

	err := log.ResolveComment(target, 3, "bob", time.Now())

	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestLog_SetReviewOverwritesDecidedRecord(t *testing.T) {
	log := newTestLog(t)
	target := valueobjects.RequirementTarget(1)
	first, err := collab.NewReview([]string{"bob"}, "", "alice", time.Now(), time.Time{})
	require.NoError(t, err)
	log.SetReview(target, first)
	require.NoError(t, first.Approve("bob", time.Now()))

	second, err := collab.NewReview([]string{"carol"}, "", "alice", time.Now(), time.Time{})
	require.NoError(t, err)
	log.SetReview(target, second)

	current, ok := log.ReviewFor(target)
	require.True(t, ok)
	assert.Equal(t, []string{"carol"}, current.Reviewers())
	assert.True(t, current.IsPending())
}

func TestLog_RemoveForDropsThreadAndReviewButKeepsHistory(t *testing.T) {
	log := newTestLog(t)
	target := valueobjects.RequirementTarget(1)
	_, err := log.AddComment(target, "alice", "note", time.Now())
	require.NoError(t, err)
	review, err := collab.NewReview([]string{"bob"}, "", "alice", time.Now(), time.Time{})
	require.NoError(t, err)
	log.SetReview(target, review)

	log.RemoveFor(target)

	assert.Empty(t, log.CommentsFor(target))
	_, ok := log.ReviewFor(target)
	assert.False(t, ok)
	assert.Equal(t, 1, log.HistoryLen())
}

func TestLog_HistoryEvictsOldestBeyondCap(t *testing.T) {
	log := newTestLog(t)
	now := time.Now()

	for i := 0; i < 1005; i++ {
		log.AppendHistory(collab.NewSystemEntry("alice", fmt.Sprintf("entry %d", i), now))
	}

	assert.Equal(t, 1000, log.HistoryLen())
	entries := log.Entries()
	assert.Equal(t, "entry 5", entries[0].Description)
	assert.Equal(t, "entry 1004", entries[len(entries)-1].Description)
}

func TestLog_QueryHistoryFiltersAndReturnsNewestFirst(t *testing.T) {
	log := newTestLog(t)
	now := time.Now()
	target := valueobjects.RequirementTarget(1)
	log.AppendHistory(collab.NewHistoryEntry("alice", collab.ActionCreate, target, "created", "", now))
	log.AppendHistory(collab.NewHistoryEntry("bob", collab.ActionModify, target, "renamed", "", now))
	log.AppendHistory(collab.NewHistoryEntry("alice", collab.ActionModify, target, "recolored", "", now))

	all := log.QueryHistory(collab.HistoryFilter{})
	require.Len(t, all, 3)
	assert.Equal(t, "recolored", all[0].Description)

	byUser := log.QueryHistory(collab.HistoryFilter{User: "alice"})
	assert.Len(t, byUser, 2)

	byBoth := log.QueryHistory(collab.HistoryFilter{Action: collab.ActionModify, User: "bob"})
	require.Len(t, byBoth, 1)
	assert.Equal(t, "renamed", byBoth[0].Description)
}

func TestLog_ExportRows(t *testing.T) {
	log := newTestLog(t)
	ts := time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)
	log.AppendHistory(collab.NewHistoryEntry("alice", collab.ActionCreate, valueobjects.RequirementTarget(7), "created requirement R7", "kind parent", ts))
	log.AppendHistory(collab.NewSystemEntry("alice", "project loaded", ts))

	header := collab.ExportHeader()
	assert.Equal(t, []string{"Timestamp", "User", "Action", "Target Type", "Target Id", "Description", "Details"}, header)

	rows := log.ExportRows()
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"2026-04-02 09:30:00", "alice", "CREATE", "requirement", "7", "created requirement R7", "kind parent"}, rows[0])
	assert.Equal(t, "", rows[1][3])
	assert.Equal(t, "", rows[1][4])
}

func TestLog_RestoreHistoryTrimsToCapFromFront(t *testing.T) {
	log := newTestLog(t)
	now := time.Now()
	entries := make([]collab.HistoryEntry, 1010)
	for i := range entries {
		entries[i] = collab.NewSystemEntry("alice", fmt.Sprintf("entry %d", i), now)
	}

	log.RestoreHistory(entries)

	assert.Equal(t, 1000, log.HistoryLen())
	assert.Equal(t, "entry 10", log.Entries()[0].Description)
}

func TestComment_PreviewIsRuneSafe(t *testing.T) {
	comment, err := collab.NewComment(1, "alice", strings.Repeat("あ", 55), time.Now())
	require.NoError(t, err)

	preview := comment.Preview(50)

	assert.Equal(t, strings.Repeat("あ", 50)+"...", preview)

	short, err := collab.NewComment(2, "alice", "short", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "short", short.Preview(50))
}

func TestReview_RequiresAtLeastOneReviewer(t *testing.T) {
	_, err := collab.NewReview(nil, "", "alice", time.Now(), time.Time{})
	assert.True(t, pkgerrors.IsValidation(err))

	_, err = collab.NewReview([]string{"bob", ""}, "", "alice", time.Now(), time.Time{})
	assert.True(t, pkgerrors.IsValidation(err))

	review, err := collab.NewReview([]string{"bob", "carol"}, "please check the edge cases", "alice", time.Now(), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, []string{"bob", "carol"}, review.Reviewers())
	assert.Equal(t, "please check the edge cases", review.Notes())
}

func TestReview_RejectRequiresReason(t *testing.T) {
	review, err := collab.NewReview([]string{"bob"}, "", "alice", time.Now(), time.Time{})
	require.NoError(t, err)

	err = review.Reject("bob", "", time.Now())
	assert.True(t, pkgerrors.IsValidation(err))
	assert.True(t, review.IsPending())

	require.NoError(t, review.Reject("bob", "unclear scope", time.Now()))
	assert.Equal(t, collab.ReviewRejected, review.Status())
	assert.Equal(t, "unclear scope", review.RejectionReason())
}

func TestReview_CannotDecideTwice(t *testing.T) {
	review, err := collab.NewReview([]string{"bob"}, "", "alice", time.Now(), time.Time{})
	require.NoError(t, err)
	require.NoError(t, review.Approve("bob", time.Now()))

	assert.True(t, pkgerrors.IsConflict(review.Approve("bob", time.Now())))
	assert.True(t, pkgerrors.IsConflict(review.Reject("bob", "late", time.Now())))
}
