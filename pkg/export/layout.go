package export

import (
	"strings"

	"reqboard/domain/config"
	"reqboard/domain/core/aggregates"
	pkgerrors "reqboard/pkg/errors"
)

// Page dimensions in points
const (
	a4Width      = 595.0
	a4Height     = 842.0
	letterWidth  = 612.0
	letterHeight = 792.0
)

// approximate glyph width as a fraction of the font size, good enough for
// wrapping decisions without font metrics
const glyphWidthRatio = 0.6

// Rect is an axis-aligned rectangle on the board
type Rect struct {
	X, Y, W, H float64
}

// Right returns the rectangle's right edge
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the rectangle's bottom edge
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Options configures a document export
type Options struct {
	Page      string
	Landscape bool
	Scale     float64
	Margin    float64
}

// Validate checks the options against the configured ranges
func (o Options) Validate(cfg *config.DomainConfig) error {
	switch o.Page {
	case "a4", "letter":
	default:
		return pkgerrors.NewValidationError("page must be a4 or letter")
	}
	if o.Scale < cfg.MinExportScale || o.Scale > cfg.MaxExportScale {
		return pkgerrors.NewValidationError("export scale out of range")
	}
	if o.Margin < 0 || o.Margin > float64(cfg.MaxExportMargin) {
		return pkgerrors.NewValidationError("export margin out of range")
	}
	return nil
}

// PageDims returns the page dimensions for the options
func (o Options) PageDims() (width, height float64) {
	width, height = a4Width, a4Height
	if o.Page == "letter" {
		width, height = letterWidth, letterHeight
	}
	if o.Landscape {
		width, height = height, width
	}
	return width, height
}

// ContentBounds computes the bounding box over every element that sits on
// one of the named layers and is visible. Returns false when nothing
// qualifies.
func ContentBounds(board *aggregates.Board, layers *aggregates.LayerSet, layerNames []string, cfg *config.DomainConfig) (Rect, bool) {
	included := make(map[string]bool, len(layerNames))
	for _, name := range layerNames {
		included[name] = true
	}

	var minX, minY, maxX, maxY float64
	found := false
	extend := func(r Rect) {
		if !found {
			minX, minY, maxX, maxY = r.X, r.Y, r.Right(), r.Bottom()
			found = true
			return
		}
		if r.X < minX {
			minX = r.X
		}
		if r.Y < minY {
			minY = r.Y
		}
		if r.Right() > maxX {
			maxX = r.Right()
		}
		if r.Bottom() > maxY {
			maxY = r.Bottom()
		}
	}

	qualifies := func(layer string) bool {
		return included[layer] && layers.IsVisible(layer)
	}

	for _, req := range board.Requirements() {
		if qualifies(req.Layer()) {
			extend(Rect{X: req.Position().X(), Y: req.Position().Y(), W: cfg.RequirementWidth, H: cfg.RequirementHeight})
		}
	}
	for _, group := range board.Groups() {
		if qualifies(group.Layer()) {
			extend(Rect{X: group.Position().X(), Y: group.Position().Y(), W: group.Size().Width(), H: group.Size().Height()})
		}
	}
	for _, box := range board.TextBoxes() {
		if qualifies(box.Layer()) {
			extend(Rect{X: box.Position().X(), Y: box.Position().Y(), W: box.Size().Width(), H: box.Size().Height()})
		}
	}

	if !found {
		return Rect{}, false
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}, true
}

// FitScale returns the uniform scale that fits the content into the page
// inside the margins, capped by the user's requested scale.
func FitScale(content Rect, opts Options) float64 {
	pageW, pageH := opts.PageDims()
	availW := pageW - 2*opts.Margin
	availH := pageH - 2*opts.Margin
	if availW <= 0 || availH <= 0 || content.W <= 0 || content.H <= 0 {
		return opts.Scale
	}

	scale := opts.Scale
	if s := availW / content.W; s < scale {
		scale = s
	}
	if s := availH / content.H; s < scale {
		scale = s
	}
	return scale
}

// WrapText wraps text into at most maxLines lines fitting the width at the
// font size. When the text does not fit, the last line is cut and marked
// with "...". Words longer than a line are broken hard.
func WrapText(text string, width float64, fontSize, maxLines int) []string {
	maxChars := int(width / (float64(fontSize) * glyphWidthRatio))
	if maxChars < 1 {
		maxChars = 1
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := ""
	flush := func() {
		if current != "" {
			lines = append(lines, current)
			current = ""
		}
	}

	for _, word := range words {
		for len([]rune(word)) > maxChars {
			flush()
			runes := []rune(word)
			lines = append(lines, string(runes[:maxChars]))
			word = string(runes[maxChars:])
		}
		switch {
		case current == "":
			current = word
		case len([]rune(current))+1+len([]rune(word)) <= maxChars:
			current += " " + word
		default:
			flush()
			current = word
		}
	}
	flush()

	if len(lines) <= maxLines {
		return lines
	}

	lines = lines[:maxLines]
	last := []rune(lines[maxLines-1])
	if len(last) > maxChars-3 && maxChars > 3 {
		last = last[:maxChars-3]
	}
	lines[maxLines-1] = string(last) + "..."
	return lines
}

// ArrowEndpoints returns the containment arrow's endpoints: from the
// parent box's bottom center to the child box's top center.
func ArrowEndpoints(parent, child Rect) (x1, y1, x2, y2 float64) {
	return parent.X + parent.W/2, parent.Bottom(), child.X + child.W/2, child.Y
}
