package collab

import (
	"fmt"
	"sort"
	"time"

	"reqboard/domain/config"
	"reqboard/domain/core/valueobjects"
	pkgerrors "reqboard/pkg/errors"
)

// Log is the collaboration aggregate: comment threads and review records
// keyed by target, plus the bounded audit history. History is stored oldest
// first and evicts from the front once the cap is reached.
type Log struct {
	comments map[string][]*Comment
	reviews  map[string]*Review
	history  []HistoryEntry

	maxHistory int
	previewLen int
}

// NewLog creates an empty collaboration log
func NewLog(cfg *config.DomainConfig) *Log {
	return &Log{
		comments:   make(map[string][]*Comment),
		reviews:    make(map[string]*Review),
		maxHistory: cfg.MaxHistoryEntries,
		previewLen: cfg.CommentPreviewLength,
	}
}

// Comments

// AddComment appends a comment to the target's thread and records a
// COMMENT history entry carrying a truncated preview of the text.
func (l *Log) AddComment(target valueobjects.TargetRef, author, text string, now time.Time) (*Comment, error) {
	key := target.Key()
	comment, err := NewComment(len(l.comments[key])+1, author, text, now)
	if err != nil {
		return nil, err
	}
	l.comments[key] = append(l.comments[key], comment)

	l.AppendHistory(NewHistoryEntry(
		author, ActionComment, target,
		fmt.Sprintf("added comment #%d", comment.Seq()),
		comment.Preview(l.previewLen),
		now,
	))
	return comment, nil
}

// ResolveComment marks the comment at the given thread position resolved
func (l *Log) ResolveComment(target valueobjects.TargetRef, seq int, resolver string, now time.Time) error {
	thread := l.comments[target.Key()]
	if seq < 1 || seq > len(thread) {
		return pkgerrors.NewNotFoundError("comment")
	}
	return thread[seq-1].Resolve(resolver, now)
}

// CommentsFor returns the target's thread in sequence order
func (l *Log) CommentsFor(target valueobjects.TargetRef) []*Comment {
	thread := l.comments[target.Key()]
	out := make([]*Comment, len(thread))
	copy(out, thread)
	return out
}

// CommentThreadKeys returns the keys of all non-empty threads, sorted
func (l *Log) CommentThreadKeys() []string {
	keys := make([]string, 0, len(l.comments))
	for key := range l.comments {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// OpenCommentCount returns the number of unresolved comments on the target
func (l *Log) OpenCommentCount(target valueobjects.TargetRef) int {
	n := 0
	for _, c := range l.comments[target.Key()] {
		if !c.Resolved() {
			n++
		}
	}
	return n
}

// Reviews

// SetReview installs the target's review record, overwriting any previous
// one regardless of its state.
func (l *Log) SetReview(target valueobjects.TargetRef, review *Review) {
	l.reviews[target.Key()] = review
}

// ReviewFor returns the target's review record, if any
func (l *Log) ReviewFor(target valueobjects.TargetRef) (*Review, bool) {
	review, ok := l.reviews[target.Key()]
	return review, ok
}

// ReviewKeys returns the keys of all review records, sorted
func (l *Log) ReviewKeys() []string {
	keys := make([]string, 0, len(l.reviews))
	for key := range l.reviews {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// RemoveFor drops the target's comment thread and review record. Called as
// part of the element deletion cascade; history entries are kept, they are
// the audit trail of the deletion itself.
func (l *Log) RemoveFor(target valueobjects.TargetRef) {
	delete(l.comments, target.Key())
	delete(l.reviews, target.Key())
}

// History

// AppendHistory appends an entry, evicting the oldest entries beyond the cap
func (l *Log) AppendHistory(entry HistoryEntry) {
	l.history = append(l.history, entry)
	if len(l.history) > l.maxHistory {
		l.history = l.history[len(l.history)-l.maxHistory:]
	}
}

// HistoryLen returns the number of retained history entries
func (l *Log) HistoryLen() int {
	return len(l.history)
}

// Entries returns a copy of the retained history, oldest first
func (l *Log) Entries() []HistoryEntry {
	out := make([]HistoryEntry, len(l.history))
	copy(out, l.history)
	return out
}

// QueryHistory returns matching entries newest first
func (l *Log) QueryHistory(filter HistoryFilter) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(l.history))
	for i := len(l.history) - 1; i >= 0; i-- {
		if filter.matches(l.history[i]) {
			out = append(out, l.history[i])
		}
	}
	return out
}

// ExportHeader returns the column names of the tabular history export
func ExportHeader() []string {
	return []string{"Timestamp", "User", "Action", "Target Type", "Target Id", "Description", "Details"}
}

// ExportRows returns all retained history as tabular rows, oldest first
func (l *Log) ExportRows() [][]string {
	rows := make([][]string, 0, len(l.history))
	for _, e := range l.history {
		targetType, targetID := "", ""
		if !e.Target.IsZero() {
			targetType = string(e.Target.Kind())
			targetID = fmt.Sprintf("%d", e.Target.ID())
		}
		rows = append(rows, []string{
			e.Timestamp.Format("2006-01-02 15:04:05"),
			e.User,
			string(e.Action),
			targetType,
			targetID,
			e.Description,
			e.Details,
		})
	}
	return rows
}

// Restore (persistence support)

// RestoreThread installs a reconstructed comment thread
func (l *Log) RestoreThread(target valueobjects.TargetRef, thread []*Comment) {
	if len(thread) == 0 {
		return
	}
	l.comments[target.Key()] = thread
}

// RestoreReview installs a reconstructed review record
func (l *Log) RestoreReview(target valueobjects.TargetRef, review *Review) {
	l.reviews[target.Key()] = review
}

// RestoreHistory replaces the history with persisted entries, oldest first,
// trimmed to the cap from the front.
func (l *Log) RestoreHistory(entries []HistoryEntry) {
	if len(entries) > l.maxHistory {
		entries = entries[len(entries)-l.maxHistory:]
	}
	l.history = append([]HistoryEntry(nil), entries...)
}
