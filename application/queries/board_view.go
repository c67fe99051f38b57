package queries

import (
	"time"

	"reqboard/application/workspace"
	"reqboard/domain/core/entities"
)

// BoardView is the complete render-data snapshot a drawing collaborator
// needs to paint the board.
type BoardView struct {
	Requirements []RequirementView `json:"requirements"`
	Groups       []GroupView       `json:"groups"`
	TextBoxes    []TextBoxView     `json:"text_boxes"`
	Links        []LinkView        `json:"links"`
	Layers       []LayerView       `json:"layers"`
	ActiveLayer  string            `json:"active_layer"`
	Selection    []TargetView      `json:"selection"`
	Zoom         float64           `json:"zoom_factor"`
	CurrentUser  string            `json:"current_user"`
	IDPrefix     string            `json:"id_prefix"`
	Mode         ModeView          `json:"mode"`
}

// RequirementView is a requirement prepared for rendering. DisplayColor
// resolves the status color over the per-element override.
type RequirementView struct {
	ID           int         `json:"id"`
	Label        string      `json:"label"`
	Kind         string      `json:"kind"`
	Title        string      `json:"title"`
	Note         string      `json:"note,omitempty"`
	X            float64     `json:"x"`
	Y            float64     `json:"y"`
	Width        float64     `json:"width"`
	Height       float64     `json:"height"`
	Color        string      `json:"color"`
	DisplayColor string      `json:"display_color"`
	Status       string      `json:"status"`
	Layer        string      `json:"layer"`
	Visible      bool        `json:"visible"`
	Children     []int       `json:"children"`
	OpenComments int         `json:"open_comments"`
	Review       *ReviewView `json:"review,omitempty"`
	CreatedBy    string      `json:"created_by"`
	ModifiedAt   time.Time   `json:"modified_at"`
}

// GroupView is a group box prepared for rendering
type GroupView struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Color   string  `json:"color"`
	Layer   string  `json:"layer"`
	Visible bool    `json:"visible"`
}

// TextBoxView is a text box prepared for rendering
type TextBoxView struct {
	ID       int     `json:"id"`
	Content  string  `json:"content"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	FontSize int     `json:"font_size"`
	Layer    string  `json:"layer"`
	Visible  bool    `json:"visible"`
}

// LinkView is one parent-to-child containment edge
type LinkView struct {
	ParentID int `json:"parent_id"`
	ChildID  int `json:"child_id"`
}

// LayerView is a layer with its flags and element count
type LayerView struct {
	Name    string `json:"name"`
	Color   string `json:"color"`
	Visible bool   `json:"visible"`
	Locked  bool   `json:"locked"`
	Count   int    `json:"count"`
}

// TargetView identifies a selected element
type TargetView struct {
	Kind string `json:"kind"`
	ID   int    `json:"id"`
}

// ReviewView is a review record prepared for display
type ReviewView struct {
	Reviewers       []string   `json:"reviewers"`
	Notes           string     `json:"notes,omitempty"`
	RequestedBy     string     `json:"requested_by"`
	RequestedAt     time.Time  `json:"requested_at"`
	Deadline        *time.Time `json:"deadline,omitempty"`
	Status          string     `json:"status"`
	DecidedBy       string     `json:"decided_by,omitempty"`
	DecidedAt       *time.Time `json:"decided_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
}

// ModeView is the current interaction mode for display
type ModeView struct {
	Kind       string `json:"kind"`
	TargetKind string `json:"target_kind,omitempty"`
	TargetID   int    `json:"target_id,omitempty"`
}

// BoardQueryService assembles render-data snapshots under the workspace
// read lock.
type BoardQueryService struct {
	ws *workspace.Workspace
}

// NewBoardQueryService creates the board query service
func NewBoardQueryService(ws *workspace.Workspace) *BoardQueryService {
	return &BoardQueryService{ws: ws}
}

// View returns the full board snapshot
func (q *BoardQueryService) View() (BoardView, error) {
	var view BoardView
	err := q.ws.Read(func(s *workspace.State) error {
		view = buildView(s)
		return nil
	})
	return view, err
}

func buildView(s *workspace.State) BoardView {
	cfg := s.Config()
	view := BoardView{
		Requirements: []RequirementView{},
		Groups:       []GroupView{},
		TextBoxes:    []TextBoxView{},
		Links:        []LinkView{},
		Layers:       []LayerView{},
		Selection:    []TargetView{},
		ActiveLayer:  s.Layers.ActiveLayer(),
		Zoom:         s.Viewport.Scale(),
		CurrentUser:  s.CurrentUser(),
		IDPrefix:     s.Board.Allocator().Prefix(),
	}

	mode := s.Mode()
	view.Mode = ModeView{Kind: string(mode.Kind())}
	if !mode.Target().IsZero() {
		view.Mode.TargetKind = string(mode.Target().Kind())
		view.Mode.TargetID = mode.Target().ID()
	}

	for _, req := range s.Board.Requirements() {
		rv := RequirementView{
			ID:           req.ID(),
			Label:        req.Label(),
			Kind:         string(req.Kind()),
			Title:        req.Title(),
			Note:         req.Note(),
			X:            req.Position().X(),
			Y:            req.Position().Y(),
			Width:        cfg.RequirementWidth,
			Height:       cfg.RequirementHeight,
			Color:        req.Color(),
			DisplayColor: displayColor(cfg.StatusColors, req),
			Status:       string(req.Status()),
			Layer:        req.Layer(),
			Visible:      s.Layers.IsVisible(req.Layer()),
			Children:     req.Children(),
			OpenComments: s.Log.OpenCommentCount(req.Target()),
			CreatedBy:    req.CreatedBy(),
			ModifiedAt:   req.ModifiedAt(),
		}
		if review, ok := s.Log.ReviewFor(req.Target()); ok {
			rv.Review = reviewView(review)
		}
		view.Requirements = append(view.Requirements, rv)

		for _, childID := range req.Children() {
			view.Links = append(view.Links, LinkView{ParentID: req.ID(), ChildID: childID})
		}
	}

	for _, group := range s.Board.Groups() {
		view.Groups = append(view.Groups, GroupView{
			ID:      group.ID(),
			Name:    group.Name(),
			X:       group.Position().X(),
			Y:       group.Position().Y(),
			Width:   group.Size().Width(),
			Height:  group.Size().Height(),
			Color:   group.Color(),
			Layer:   group.Layer(),
			Visible: s.Layers.IsVisible(group.Layer()),
		})
	}

	for _, box := range s.Board.TextBoxes() {
		view.TextBoxes = append(view.TextBoxes, TextBoxView{
			ID:       box.ID(),
			Content:  box.Content(),
			X:        box.Position().X(),
			Y:        box.Position().Y(),
			Width:    box.Size().Width(),
			Height:   box.Size().Height(),
			FontSize: box.FontSize(),
			Layer:    box.Layer(),
			Visible:  s.Layers.IsVisible(box.Layer()),
		})
	}

	for _, layer := range s.Layers.Layers() {
		view.Layers = append(view.Layers, LayerView{
			Name:    layer.Name(),
			Color:   layer.Color(),
			Visible: layer.Visible(),
			Locked:  layer.Locked(),
			Count:   layer.MemberCount(),
		})
	}

	for _, target := range s.Board.Selection() {
		view.Selection = append(view.Selection, TargetView{Kind: string(target.Kind()), ID: target.ID()})
	}

	return view
}

// displayColor resolves the color a requirement renders with: the status
// color when the status has one, the per-element color otherwise.
func displayColor(statusColors map[string]string, req *entities.Requirement) string {
	if c, ok := statusColors[string(req.Status())]; ok {
		return c
	}
	return req.Color()
}
