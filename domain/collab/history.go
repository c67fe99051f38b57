package collab

import (
	"time"

	"github.com/google/uuid"

	"reqboard/domain/core/valueobjects"
)

// Action tags a history entry with what category of change it records
type Action string

const (
	ActionCreate  Action = "CREATE"
	ActionModify  Action = "MODIFY"
	ActionDelete  Action = "DELETE"
	ActionComment Action = "COMMENT"
	ActionReview  Action = "REVIEW"
	ActionApprove Action = "APPROVE"
	ActionReject  Action = "REJECT"
	ActionSystem  Action = "SYSTEM"
)

// IsValid reports whether the action is a known tag
func (a Action) IsValid() bool {
	switch a {
	case ActionCreate, ActionModify, ActionDelete, ActionComment,
		ActionReview, ActionApprove, ActionReject, ActionSystem:
		return true
	default:
		return false
	}
}

// HistoryEntry is one immutable audit record. SYSTEM entries carry no
// target.
type HistoryEntry struct {
	ID          string
	Timestamp   time.Time
	User        string
	Action      Action
	Target      valueobjects.TargetRef
	Description string
	Details     string
}

// NewHistoryEntry creates an entry with a fresh unique id
func NewHistoryEntry(user string, action Action, target valueobjects.TargetRef, description, details string, now time.Time) HistoryEntry {
	return HistoryEntry{
		ID:          uuid.New().String(),
		Timestamp:   now,
		User:        user,
		Action:      action,
		Target:      target,
		Description: description,
		Details:     details,
	}
}

// NewSystemEntry creates a targetless SYSTEM entry
func NewSystemEntry(user, description string, now time.Time) HistoryEntry {
	return HistoryEntry{
		ID:          uuid.New().String(),
		Timestamp:   now,
		User:        user,
		Action:      ActionSystem,
		Description: description,
	}
}

// HistoryFilter narrows a history query. Empty fields match everything;
// set fields match exactly.
type HistoryFilter struct {
	Action Action
	User   string
}

func (f HistoryFilter) matches(e HistoryEntry) bool {
	if f.Action != "" && e.Action != f.Action {
		return false
	}
	if f.User != "" && e.User != f.User {
		return false
	}
	return true
}
