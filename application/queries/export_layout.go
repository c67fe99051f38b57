package queries

import (
	"reqboard/application/workspace"
	"reqboard/pkg/export"
	pkgerrors "reqboard/pkg/errors"
)

// LayoutView is the computed geometry a document exporter needs: the
// content bounding box, the uniform fit scale, arrow endpoints for every
// containment link, and pre-wrapped text box lines.
type LayoutView struct {
	Content   RectView        `json:"content"`
	PageW     float64         `json:"page_width"`
	PageH     float64         `json:"page_height"`
	FitScale  float64         `json:"fit_scale"`
	Arrows    []ArrowView     `json:"arrows"`
	TextLines []TextLinesView `json:"text_lines"`
}

// RectView is a rectangle prepared for display
type RectView struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"width"`
	H float64 `json:"height"`
}

// ArrowView is one containment arrow, parent bottom center to child top
// center.
type ArrowView struct {
	ParentID int     `json:"parent_id"`
	ChildID  int     `json:"child_id"`
	X1       float64 `json:"x1"`
	Y1       float64 `json:"y1"`
	X2       float64 `json:"x2"`
	Y2       float64 `json:"y2"`
}

// TextLinesView carries a text box's wrapped content
type TextLinesView struct {
	TextBoxID int      `json:"text_box_id"`
	Lines     []string `json:"lines"`
}

// ExportQueryService computes export layouts under the workspace read lock
type ExportQueryService struct {
	ws *workspace.Workspace
}

// NewExportQueryService creates the export query service
func NewExportQueryService(ws *workspace.Workspace) *ExportQueryService {
	return &ExportQueryService{ws: ws}
}

// Layout computes the export geometry for the named layers. Arrows are
// included only when both endpoints' layers are part of the export.
func (q *ExportQueryService) Layout(layerNames []string, opts export.Options) (LayoutView, error) {
	var view LayoutView
	err := q.ws.Read(func(s *workspace.State) error {
		cfg := s.Config()
		if err := opts.Validate(cfg); err != nil {
			return err
		}

		names := layerNames
		if len(names) == 0 {
			names = s.Layers.Names()
		}

		content, ok := export.ContentBounds(s.Board, s.Layers, names, cfg)
		if !ok {
			return pkgerrors.NewValidationError("nothing to export on the selected layers")
		}

		included := make(map[string]bool, len(names))
		for _, name := range names {
			included[name] = true
		}
		visible := func(layer string) bool {
			return included[layer] && s.Layers.IsVisible(layer)
		}

		view.Content = RectView{X: content.X, Y: content.Y, W: content.W, H: content.H}
		view.PageW, view.PageH = opts.PageDims()
		view.FitScale = export.FitScale(content, opts)
		view.Arrows = []ArrowView{}
		view.TextLines = []TextLinesView{}

		for _, parent := range s.Board.Requirements() {
			if !visible(parent.Layer()) {
				continue
			}
			parentRect := export.Rect{X: parent.Position().X(), Y: parent.Position().Y(), W: cfg.RequirementWidth, H: cfg.RequirementHeight}
			for _, childID := range parent.Children() {
				child, err := s.Board.Requirement(childID)
				if err != nil || !visible(child.Layer()) {
					continue
				}
				childRect := export.Rect{X: child.Position().X(), Y: child.Position().Y(), W: cfg.RequirementWidth, H: cfg.RequirementHeight}
				x1, y1, x2, y2 := export.ArrowEndpoints(parentRect, childRect)
				view.Arrows = append(view.Arrows, ArrowView{
					ParentID: parent.ID(), ChildID: childID,
					X1: x1, Y1: y1, X2: x2, Y2: y2,
				})
			}
		}

		for _, box := range s.Board.TextBoxes() {
			if !visible(box.Layer()) {
				continue
			}
			view.TextLines = append(view.TextLines, TextLinesView{
				TextBoxID: box.ID(),
				Lines:     export.WrapText(box.Content(), box.Size().Width(), box.FontSize(), cfg.MaxWrappedLines),
			})
		}

		return nil
	})
	return view, err
}
