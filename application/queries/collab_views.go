package queries

import (
	"bytes"
	"encoding/csv"
	"time"

	"reqboard/application/workspace"
	"reqboard/domain/collab"
	"reqboard/domain/core/valueobjects"
	pkgerrors "reqboard/pkg/errors"
)

// CommentView is one comment prepared for display
type CommentView struct {
	Seq        int        `json:"seq"`
	Author     string     `json:"author"`
	Text       string     `json:"text"`
	CreatedAt  time.Time  `json:"created_at"`
	Resolved   bool       `json:"resolved"`
	ResolvedBy string     `json:"resolved_by,omitempty"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// HistoryEntryView is one audit record prepared for display
type HistoryEntryView struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	User        string    `json:"user"`
	Action      string    `json:"action"`
	TargetKind  string    `json:"target_kind,omitempty"`
	TargetID    int       `json:"target_id,omitempty"`
	Description string    `json:"description"`
	Details     string    `json:"details,omitempty"`
}

// CollabQueryService reads collaboration data under the workspace read lock
type CollabQueryService struct {
	ws *workspace.Workspace
}

// NewCollabQueryService creates the collaboration query service
func NewCollabQueryService(ws *workspace.Workspace) *CollabQueryService {
	return &CollabQueryService{ws: ws}
}

// CommentsFor returns the comment thread of an element
func (q *CollabQueryService) CommentsFor(kind string, id int) ([]CommentView, error) {
	target, err := valueobjects.NewTargetRef(valueobjects.ElementKind(kind), id)
	if err != nil {
		return nil, err
	}

	out := []CommentView{}
	err = q.ws.Read(func(s *workspace.State) error {
		if _, err := s.Board.ElementLayer(target); err != nil {
			return err
		}
		for _, c := range s.Log.CommentsFor(target) {
			cv := CommentView{
				Seq:        c.Seq(),
				Author:     c.Author(),
				Text:       c.Text(),
				CreatedAt:  c.CreatedAt(),
				Resolved:   c.Resolved(),
				ResolvedBy: c.ResolvedBy(),
			}
			if c.Resolved() {
				t := c.ResolvedAt()
				cv.ResolvedAt = &t
			}
			out = append(out, cv)
		}
		return nil
	})
	return out, err
}

// ReviewFor returns the review record of a requirement, if any
func (q *CollabQueryService) ReviewFor(requirementID int) (*ReviewView, error) {
	if requirementID < 1 {
		return nil, pkgerrors.NewValidationError("requirement id must be positive")
	}

	var out *ReviewView
	err := q.ws.Read(func(s *workspace.State) error {
		req, err := s.Board.Requirement(requirementID)
		if err != nil {
			return err
		}
		if review, ok := s.Log.ReviewFor(req.Target()); ok {
			out = reviewView(review)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, pkgerrors.NewNotFoundError("review")
	}
	return out, nil
}

// History returns matching audit entries, newest first
func (q *CollabQueryService) History(action, user string) ([]HistoryEntryView, error) {
	filter := collab.HistoryFilter{Action: collab.Action(action), User: user}
	if action != "" && !filter.Action.IsValid() {
		return nil, pkgerrors.NewValidationError("unknown history action")
	}

	out := []HistoryEntryView{}
	err := q.ws.Read(func(s *workspace.State) error {
		for _, e := range s.Log.QueryHistory(filter) {
			ev := HistoryEntryView{
				ID:          e.ID,
				Timestamp:   e.Timestamp,
				User:        e.User,
				Action:      string(e.Action),
				Description: e.Description,
				Details:     e.Details,
			}
			if !e.Target.IsZero() {
				ev.TargetKind = string(e.Target.Kind())
				ev.TargetID = e.Target.ID()
			}
			out = append(out, ev)
		}
		return nil
	})
	return out, err
}

// ExportHistoryCSV renders the full retained history as CSV, oldest first
func (q *CollabQueryService) ExportHistoryCSV() ([]byte, error) {
	var buf bytes.Buffer
	err := q.ws.Read(func(s *workspace.State) error {
		w := csv.NewWriter(&buf)
		if err := w.Write(collab.ExportHeader()); err != nil {
			return pkgerrors.NewIOError("history export", err)
		}
		if err := w.WriteAll(s.Log.ExportRows()); err != nil {
			return pkgerrors.NewIOError("history export", err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return pkgerrors.NewIOError("history export", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func reviewView(review *collab.Review) *ReviewView {
	rv := &ReviewView{
		Reviewers:       review.Reviewers(),
		Notes:           review.Notes(),
		RequestedBy:     review.RequestedBy(),
		RequestedAt:     review.RequestedAt(),
		Status:          string(review.Status()),
		DecidedBy:       review.DecidedBy(),
		RejectionReason: review.RejectionReason(),
	}
	if !review.Deadline().IsZero() {
		d := review.Deadline()
		rv.Deadline = &d
	}
	if !review.DecidedAt().IsZero() {
		t := review.DecidedAt()
		rv.DecidedAt = &t
	}
	return rv
}
