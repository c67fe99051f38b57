package aggregates

import (
	"sort"
	"time"

	"reqboard/domain/config"
	"reqboard/domain/core/entities"
	"reqboard/domain/core/valueobjects"
	"reqboard/domain/events"
	pkgerrors "reqboard/pkg/errors"
)

// Board is the object store aggregate: requirements, groups, and text boxes
// keyed by numeric id, the parent-to-children link map, and the current
// selection. The link map mirrors the containment lists on the requirement
// entities; every mutation keeps the two structures consistent.
//
// The Board knows nothing about layer lock state. Guard enforcement is a
// cross-cutting concern handled on the command path before the aggregate is
// touched.
type Board struct {
	requirements map[int]*entities.Requirement
	groups       map[int]*entities.Group
	textBoxes    map[int]*entities.TextBox
	links        map[int][]int
	selection    map[valueobjects.TargetRef]struct{}

	allocator *IdentifierAllocator
	cfg       *config.DomainConfig

	uncommittedEvents []events.DomainEvent
}

// NewBoard creates an empty board with fresh id counters
func NewBoard(cfg *config.DomainConfig) *Board {
	return &Board{
		requirements: make(map[int]*entities.Requirement),
		groups:       make(map[int]*entities.Group),
		textBoxes:    make(map[int]*entities.TextBox),
		links:        make(map[int][]int),
		selection:    make(map[valueobjects.TargetRef]struct{}),
		allocator:    NewIdentifierAllocator(cfg.DefaultIDPrefix),
		cfg:          cfg,
	}
}

// Allocator exposes the identifier allocator for prefix changes and
// persistence of the counters.
func (b *Board) Allocator() *IdentifierAllocator {
	return b.allocator
}

// Creation

// CreateRequirement allocates an id, derives the label and default color for
// the kind, and places the requirement on the given layer.
func (b *Board) CreateRequirement(kind entities.RequirementKind, position valueobjects.Position, layer, createdBy string, now time.Time) (*entities.Requirement, error) {
	if !kind.IsValid() {
		return nil, pkgerrors.NewValidationError("invalid requirement kind")
	}

	color := b.cfg.ChildColor
	if kind == entities.KindParent {
		color = b.cfg.ParentColor
	}

	id, label := b.allocator.NextRequirementID()
	req, err := entities.NewRequirement(id, label, kind, position, color, layer, createdBy, now)
	if err != nil {
		return nil, err
	}

	b.requirements[id] = req
	b.addEvent(events.NewElementCreated(req.Target(), layer, now))
	return req, nil
}

// CreateGroup allocates an id and places a default-sized group box
func (b *Board) CreateGroup(position valueobjects.Position, layer string, now time.Time) (*entities.Group, error) {
	size, err := valueobjects.NewSize(b.cfg.DefaultGroupSize.Width, b.cfg.DefaultGroupSize.Height)
	if err != nil {
		return nil, err
	}

	id := b.allocator.NextGroupID()
	group, err := entities.NewGroup(id, position, size, b.cfg.GroupColor, layer, b.cfg.MinGroupWidth, b.cfg.MinGroupHeight)
	if err != nil {
		return nil, err
	}

	b.groups[id] = group
	b.addEvent(events.NewElementCreated(group.Target(), layer, now))
	return group, nil
}

// CreateTextBox allocates an id and places a default-sized text box
func (b *Board) CreateTextBox(position valueobjects.Position, layer string, now time.Time) (*entities.TextBox, error) {
	size, err := valueobjects.NewSize(b.cfg.DefaultTextSize.Width, b.cfg.DefaultTextSize.Height)
	if err != nil {
		return nil, err
	}

	id := b.allocator.NextTextBoxID()
	box, err := entities.NewTextBox(id, position, size, b.cfg.DefaultFontSize, layer, b.cfg.MinTextWidth, b.cfg.MinTextHeight)
	if err != nil {
		return nil, err
	}

	b.textBoxes[id] = box
	b.addEvent(events.NewElementCreated(box.Target(), layer, now))
	return box, nil
}

// Lookup

// Requirement returns the requirement with the given id
func (b *Board) Requirement(id int) (*entities.Requirement, error) {
	req, ok := b.requirements[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("requirement")
	}
	return req, nil
}

// Group returns the group with the given id
func (b *Board) Group(id int) (*entities.Group, error) {
	group, ok := b.groups[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("group")
	}
	return group, nil
}

// TextBox returns the text box with the given id
func (b *Board) TextBox(id int) (*entities.TextBox, error) {
	box, ok := b.textBoxes[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("text box")
	}
	return box, nil
}

// ElementLayer returns the layer the target currently sits on
func (b *Board) ElementLayer(target valueobjects.TargetRef) (string, error) {
	switch target.Kind() {
	case valueobjects.KindRequirement:
		req, err := b.Requirement(target.ID())
		if err != nil {
			return "", err
		}
		return req.Layer(), nil
	case valueobjects.KindGroup:
		group, err := b.Group(target.ID())
		if err != nil {
			return "", err
		}
		return group.Layer(), nil
	case valueobjects.KindText:
		box, err := b.TextBox(target.ID())
		if err != nil {
			return "", err
		}
		return box.Layer(), nil
	default:
		return "", pkgerrors.NewValidationError("invalid element kind")
	}
}

// FindByLabel returns the requirement carrying the given label, or a not
// found error. Labels are unique outside the window between a prefix change
// and the next resequencing.
func (b *Board) FindByLabel(label string) (*entities.Requirement, error) {
	for _, id := range b.RequirementIDs() {
		if b.requirements[id].Label() == label {
			return b.requirements[id], nil
		}
	}
	return nil, pkgerrors.NewNotFoundError("requirement")
}

// RequirementIDs returns all requirement ids in ascending order
func (b *Board) RequirementIDs() []int {
	ids := make([]int, 0, len(b.requirements))
	for id := range b.requirements {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// GroupIDs returns all group ids in ascending order
func (b *Board) GroupIDs() []int {
	ids := make([]int, 0, len(b.groups))
	for id := range b.groups {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// TextBoxIDs returns all text box ids in ascending order
func (b *Board) TextBoxIDs() []int {
	ids := make([]int, 0, len(b.textBoxes))
	for id := range b.textBoxes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Requirements returns all requirements in ascending id order
func (b *Board) Requirements() []*entities.Requirement {
	out := make([]*entities.Requirement, 0, len(b.requirements))
	for _, id := range b.RequirementIDs() {
		out = append(out, b.requirements[id])
	}
	return out
}

// Groups returns all groups in ascending id order
func (b *Board) Groups() []*entities.Group {
	out := make([]*entities.Group, 0, len(b.groups))
	for _, id := range b.GroupIDs() {
		out = append(out, b.groups[id])
	}
	return out
}

// TextBoxes returns all text boxes in ascending id order
func (b *Board) TextBoxes() []*entities.TextBox {
	out := make([]*entities.TextBox, 0, len(b.textBoxes))
	for _, id := range b.TextBoxIDs() {
		out = append(out, b.textBoxes[id])
	}
	return out
}

// Links returns a copy of the parent-to-children link map
func (b *Board) Links() map[int][]int {
	out := make(map[int][]int, len(b.links))
	for parent, children := range b.links {
		cp := make([]int, len(children))
		copy(cp, children)
		out[parent] = cp
	}
	return out
}

// ChildrenOf returns a copy of the ordered child list for a parent id
func (b *Board) ChildrenOf(parentID int) []int {
	children := b.links[parentID]
	cp := make([]int, len(children))
	copy(cp, children)
	return cp
}

// TargetsByLayer returns every element target grouped by owning layer, ids
// ascending within each kind. Used for layer membership recomputation.
func (b *Board) TargetsByLayer() map[string][]valueobjects.TargetRef {
	out := make(map[string][]valueobjects.TargetRef)
	for _, id := range b.RequirementIDs() {
		req := b.requirements[id]
		out[req.Layer()] = append(out[req.Layer()], req.Target())
	}
	for _, id := range b.GroupIDs() {
		group := b.groups[id]
		out[group.Layer()] = append(out[group.Layer()], group.Target())
	}
	for _, id := range b.TextBoxIDs() {
		box := b.textBoxes[id]
		out[box.Layer()] = append(out[box.Layer()], box.Target())
	}
	return out
}

// IsEmpty reports whether the board holds no elements at all
func (b *Board) IsEmpty() bool {
	return len(b.requirements) == 0 && len(b.groups) == 0 && len(b.textBoxes) == 0
}

// Mutation

// MoveElement moves any element kind to a new position
func (b *Board) MoveElement(target valueobjects.TargetRef, position valueobjects.Position, now time.Time) error {
	switch target.Kind() {
	case valueobjects.KindRequirement:
		req, err := b.Requirement(target.ID())
		if err != nil {
			return err
		}
		req.MoveTo(position)
	case valueobjects.KindGroup:
		group, err := b.Group(target.ID())
		if err != nil {
			return err
		}
		group.MoveTo(position)
	case valueobjects.KindText:
		box, err := b.TextBox(target.ID())
		if err != nil {
			return err
		}
		box.MoveTo(position)
	default:
		return pkgerrors.NewValidationError("invalid element kind")
	}

	b.addEvent(events.NewElementMoved(target, position, now))
	return nil
}

// ResizeGroup sets a group's size, clamped to its minimum dimensions
func (b *Board) ResizeGroup(id int, size valueobjects.Size) error {
	group, err := b.Group(id)
	if err != nil {
		return err
	}
	group.Resize(size)
	return nil
}

// ResizeTextBox sets a text box's size, clamped to its minimum dimensions
func (b *Board) ResizeTextBox(id int, size valueobjects.Size) error {
	box, err := b.TextBox(id)
	if err != nil {
		return err
	}
	box.Resize(size)
	return nil
}

// SetElementLayer reassigns any element kind to another layer
func (b *Board) SetElementLayer(target valueobjects.TargetRef, layer string, now time.Time) error {
	oldLayer, err := b.ElementLayer(target)
	if err != nil {
		return err
	}
	if oldLayer == layer {
		return nil
	}

	switch target.Kind() {
	case valueobjects.KindRequirement:
		err = b.requirements[target.ID()].SetLayer(layer)
	case valueobjects.KindGroup:
		err = b.groups[target.ID()].SetLayer(layer)
	case valueobjects.KindText:
		err = b.textBoxes[target.ID()].SetLayer(layer)
	}
	if err != nil {
		return err
	}

	b.addEvent(events.NewElementLayerChanged(target, oldLayer, layer, now))
	return nil
}

// LinkChild attaches a child requirement to a parent. A kind mismatch or an
// already existing link is a silent no-op; only unknown ids are errors. The
// containment list and the link map are updated together.
func (b *Board) LinkChild(parentID, childID int, now time.Time) error {
	parent, err := b.Requirement(parentID)
	if err != nil {
		return err
	}
	child, err := b.Requirement(childID)
	if err != nil {
		return err
	}

	if parent.Kind() != entities.KindParent || child.Kind() != entities.KindChild {
		return nil
	}
	if parent.HasChild(childID) {
		return nil
	}

	if err := parent.AttachChild(childID); err != nil {
		return err
	}
	b.links[parentID] = append(b.links[parentID], childID)

	b.addEvent(events.NewChildLinked(parentID, childID, now))
	return nil
}

// DeleteRequirement removes a requirement and every structural trace of it:
// its entry in every parent's containment list, its own link map entry, and
// its selection membership. Comment threads and review records referencing
// the target are the collaboration log's to cascade; the deleted target is
// returned so the caller can drive that.
func (b *Board) DeleteRequirement(id int, now time.Time) (valueobjects.TargetRef, error) {
	req, err := b.Requirement(id)
	if err != nil {
		return valueobjects.TargetRef{}, err
	}
	target := req.Target()

	for parentID, children := range b.links {
		for i, c := range children {
			if c == id {
				b.links[parentID] = append(children[:i], children[i+1:]...)
				b.requirements[parentID].DetachChild(id)
				break
			}
		}
		if len(b.links[parentID]) == 0 {
			delete(b.links, parentID)
		}
	}
	delete(b.links, id)
	delete(b.requirements, id)
	delete(b.selection, target)

	b.addEvent(events.NewElementDeleted(target, now))
	return target, nil
}

// DeleteGroup removes a group box. Groups are purely visual, so there is no
// structural cascade beyond the selection.
func (b *Board) DeleteGroup(id int, now time.Time) (valueobjects.TargetRef, error) {
	group, err := b.Group(id)
	if err != nil {
		return valueobjects.TargetRef{}, err
	}
	target := group.Target()

	delete(b.groups, id)
	delete(b.selection, target)

	b.addEvent(events.NewElementDeleted(target, now))
	return target, nil
}

// DeleteTextBox removes a text box
func (b *Board) DeleteTextBox(id int, now time.Time) (valueobjects.TargetRef, error) {
	box, err := b.TextBox(id)
	if err != nil {
		return valueobjects.TargetRef{}, err
	}
	target := box.Target()

	delete(b.textBoxes, id)
	delete(b.selection, target)

	b.addEvent(events.NewElementDeleted(target, now))
	return target, nil
}

// Resequence reassigns requirement labels 1..N under the current prefix, in
// ascending numeric id order, resets each display title to its derived form,
// and continues the counter at N+1. Numeric ids and links are untouched.
func (b *Board) Resequence() {
	ids := b.RequirementIDs()
	for i, id := range ids {
		b.requirements[id].Relabel(b.allocator.Label(i + 1))
	}
	b.allocator.setNextRequirementID(len(ids) + 1)
}

// ApplyScale maps every element through an anchor-preserving scale. Group
// and text box sizes scale by the same ratio so the picture stays congruent.
func (b *Board) ApplyScale(anchor valueobjects.Position, ratio float64) {
	for _, req := range b.requirements {
		req.MoveTo(req.Position().ScaleAbout(anchor, ratio))
	}
	for _, group := range b.groups {
		group.ApplyScale(anchor, ratio)
	}
	for _, box := range b.textBoxes {
		box.ApplyScale(anchor, ratio)
	}
}

// Translate moves every element by the given offsets
func (b *Board) Translate(dx, dy float64) {
	for _, req := range b.requirements {
		if p, err := req.Position().Translate(dx, dy); err == nil {
			req.MoveTo(p)
		}
	}
	for _, group := range b.groups {
		if p, err := group.Position().Translate(dx, dy); err == nil {
			group.MoveTo(p)
		}
	}
	for _, box := range b.textBoxes {
		if p, err := box.Position().Translate(dx, dy); err == nil {
			box.MoveTo(p)
		}
	}
}

// Selection

// Select adds a target to the selection. Unknown targets are errors.
func (b *Board) Select(target valueobjects.TargetRef) error {
	if _, err := b.ElementLayer(target); err != nil {
		return err
	}
	b.selection[target] = struct{}{}
	return nil
}

// Deselect removes a target from the selection, if present
func (b *Board) Deselect(target valueobjects.TargetRef) {
	delete(b.selection, target)
}

// ClearSelection empties the selection
func (b *Board) ClearSelection() {
	b.selection = make(map[valueobjects.TargetRef]struct{})
}

// IsSelected reports whether the target is currently selected
func (b *Board) IsSelected(target valueobjects.TargetRef) bool {
	_, ok := b.selection[target]
	return ok
}

// Selection returns the selected targets, requirements then groups then
// text boxes, ids ascending.
func (b *Board) Selection() []valueobjects.TargetRef {
	out := make([]valueobjects.TargetRef, 0, len(b.selection))
	for _, kind := range []valueobjects.ElementKind{valueobjects.KindRequirement, valueobjects.KindGroup, valueobjects.KindText} {
		var ids []int
		for target := range b.selection {
			if target.Kind() == kind {
				ids = append(ids, target.ID())
			}
		}
		sort.Ints(ids)
		for _, id := range ids {
			target, _ := valueobjects.NewTargetRef(kind, id)
			out = append(out, target)
		}
	}
	return out
}

// Restore (persistence support)

// RestoreRequirement inserts a reconstructed requirement without touching
// the allocator or raising events. Its containment list seeds the link map.
func (b *Board) RestoreRequirement(req *entities.Requirement) error {
	if _, exists := b.requirements[req.ID()]; exists {
		return pkgerrors.NewConflictError("duplicate requirement id")
	}
	b.requirements[req.ID()] = req
	if children := req.Children(); len(children) > 0 {
		b.links[req.ID()] = children
	}
	return nil
}

// RestoreGroup inserts a reconstructed group
func (b *Board) RestoreGroup(group *entities.Group) error {
	if _, exists := b.groups[group.ID()]; exists {
		return pkgerrors.NewConflictError("duplicate group id")
	}
	b.groups[group.ID()] = group
	return nil
}

// RestoreTextBox inserts a reconstructed text box
func (b *Board) RestoreTextBox(box *entities.TextBox) error {
	if _, exists := b.textBoxes[box.ID()]; exists {
		return pkgerrors.NewConflictError("duplicate text box id")
	}
	b.textBoxes[box.ID()] = box
	return nil
}

// Events

// GetUncommittedEvents returns events raised since the last commit
func (b *Board) GetUncommittedEvents() []events.DomainEvent {
	return b.uncommittedEvents
}

// MarkEventsAsCommitted clears the uncommitted event list
func (b *Board) MarkEventsAsCommitted() {
	b.uncommittedEvents = nil
}

func (b *Board) addEvent(event events.DomainEvent) {
	b.uncommittedEvents = append(b.uncommittedEvents, event)
}
