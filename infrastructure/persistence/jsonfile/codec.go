package jsonfile

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"reqboard/application/workspace"
	"reqboard/domain/collab"
	"reqboard/domain/config"
	"reqboard/domain/core/aggregates"
	"reqboard/domain/core/entities"
	"reqboard/domain/core/valueobjects"
	"reqboard/domain/services"
	pkgerrors "reqboard/pkg/errors"
)

const timeFormat = time.RFC3339Nano

// acceptedTimeFormats covers files written by earlier versions, whose
// timestamps carry no zone.
var acceptedTimeFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05",
}

// Codec translates between the workspace state and the file schema. It is
// lossless for everything the schema names; decoding tolerates missing
// newer fields by synthesizing their documented defaults.
type Codec struct {
	cfg *config.DomainConfig
}

// NewCodec creates a codec bound to the domain configuration
func NewCodec(cfg *config.DomainConfig) *Codec {
	return &Codec{cfg: cfg}
}

// Encode renders the state into the file schema
func (c *Codec) Encode(s *workspace.State) *fileSchema {
	out := &fileSchema{
		Requirements: make(map[string]requirementRecord),
		Links:        make(map[string][]int),
		Groups:       make(map[string]groupRecord),
		TextBoxes:    make(map[string]textBoxRecord),
		Layers:       make(map[string]layerRecord),
		Comments:     make(map[string][]commentRecord),
		Reviews:      make(map[string]reviewRecord),
		History:      []historyRecord{},
		CurrentLayer: s.Layers.ActiveLayer(),
		CurrentUser:  s.CurrentUser(),
		IDPrefix:     s.Board.Allocator().Prefix(),
		ZoomFactor:   s.Viewport.Scale(),
	}
	out.NextID, out.NextGroupID, out.NextTextID = s.Board.Allocator().Counters()

	for _, req := range s.Board.Requirements() {
		out.Requirements[strconv.Itoa(req.ID())] = requirementRecord{
			Type:       wireKind(req.Kind()),
			Label:      req.Label(),
			Text:       req.Title(),
			Note:       req.Note(),
			X:          req.Position().X(),
			Y:          req.Position().Y(),
			Color:      req.Color(),
			Layer:      req.Layer(),
			Status:     string(req.Status()),
			CreatedBy:  req.CreatedBy(),
			CreatedAt:  req.CreatedAt().Format(timeFormat),
			ModifiedAt: req.ModifiedAt().Format(timeFormat),
		}
	}
	for parent, children := range s.Board.Links() {
		out.Links[strconv.Itoa(parent)] = children
	}

	for _, group := range s.Board.Groups() {
		out.Groups[strconv.Itoa(group.ID())] = groupRecord{
			Name:   group.Name(),
			X:      group.Position().X(),
			Y:      group.Position().Y(),
			Width:  group.Size().Width(),
			Height: group.Size().Height(),
			Color:  group.Color(),
			Layer:  group.Layer(),
		}
	}

	for _, box := range s.Board.TextBoxes() {
		out.TextBoxes[strconv.Itoa(box.ID())] = textBoxRecord{
			Text:     box.Content(),
			X:        box.Position().X(),
			Y:        box.Position().Y(),
			Width:    box.Size().Width(),
			Height:   box.Size().Height(),
			FontSize: box.FontSize(),
			Layer:    box.Layer(),
		}
	}

	for _, layer := range s.Layers.Layers() {
		out.Layers[layer.Name()] = layerRecord{
			Visible: layer.Visible(),
			Locked:  layer.Locked(),
			Color:   layer.Color(),
			Objects: layerObjects(layer),
		}
		out.LayerOrder = append(out.LayerOrder, layer.Name())
	}

	for _, key := range s.Log.CommentThreadKeys() {
		target, err := valueobjects.ParseTargetKey(key)
		if err != nil {
			continue
		}
		for _, comment := range s.Log.CommentsFor(target) {
			rec := commentRecord{
				Seq:       comment.Seq(),
				User:      comment.Author(),
				Text:      comment.Text(),
				Timestamp: comment.CreatedAt().Format(timeFormat),
				Resolved:  comment.Resolved(),
			}
			if comment.Resolved() {
				rec.ResolvedBy = comment.ResolvedBy()
				rec.ResolvedAt = comment.ResolvedAt().Format(timeFormat)
			}
			out.Comments[key] = append(out.Comments[key], rec)
		}
	}

	for _, key := range s.Log.ReviewKeys() {
		target, err := valueobjects.ParseTargetKey(key)
		if err != nil {
			continue
		}
		review, ok := s.Log.ReviewFor(target)
		if !ok {
			continue
		}
		rec := reviewRecord{
			Reviewers:       review.Reviewers(),
			Notes:           review.Notes(),
			RequestedBy:     review.RequestedBy(),
			RequestedAt:     review.RequestedAt().Format(timeFormat),
			Status:          string(review.Status()),
			DecidedBy:       review.DecidedBy(),
			RejectionReason: review.RejectionReason(),
		}
		if !review.Deadline().IsZero() {
			rec.Deadline = review.Deadline().Format(timeFormat)
		}
		if !review.DecidedAt().IsZero() {
			rec.DecidedAt = review.DecidedAt().Format(timeFormat)
		}
		out.Reviews[key] = rec
	}

	for _, entry := range s.Log.Entries() {
		rec := historyRecord{
			ID:          entry.ID,
			Timestamp:   entry.Timestamp.Format(timeFormat),
			User:        entry.User,
			Action:      string(entry.Action),
			Description: entry.Description,
			Details:     entry.Details,
		}
		if !entry.Target.IsZero() {
			rec.Target = entry.Target.Key()
		}
		out.History = append(out.History, rec)
	}

	return out
}

// Decode reconstructs a complete state from the file schema. Any
// structurally broken record aborts the decode; nothing partial escapes.
func (c *Codec) Decode(f *fileSchema, now time.Time) (*workspace.State, error) {
	board := aggregates.NewBoard(c.cfg)

	reqIDs, err := sortedIDKeys(mapKeys(f.Requirements))
	if err != nil {
		return nil, err
	}
	maxReqID := 0
	for _, id := range reqIDs {
		rec := f.Requirements[strconv.Itoa(id)]
		req, err := c.decodeRequirement(id, rec, f.Links[strconv.Itoa(id)], now)
		if err != nil {
			return nil, err
		}
		if err := board.RestoreRequirement(req); err != nil {
			return nil, err
		}
		if id > maxReqID {
			maxReqID = id
		}
	}

	// a link to a missing child means the file is structurally broken
	for _, req := range board.Requirements() {
		for _, childID := range req.Children() {
			if _, err := board.Requirement(childID); err != nil {
				return nil, pkgerrors.NewValidationError(fmt.Sprintf("requirement %d links to missing child %d", req.ID(), childID))
			}
		}
	}

	groupIDs, err := sortedIDKeys(mapKeys(f.Groups))
	if err != nil {
		return nil, err
	}
	maxGroupID := 0
	for _, id := range groupIDs {
		group, err := c.decodeGroup(id, f.Groups[strconv.Itoa(id)])
		if err != nil {
			return nil, err
		}
		if err := board.RestoreGroup(group); err != nil {
			return nil, err
		}
		if id > maxGroupID {
			maxGroupID = id
		}
	}

	textIDs, err := sortedIDKeys(mapKeys(f.TextBoxes))
	if err != nil {
		return nil, err
	}
	maxTextID := 0
	for _, id := range textIDs {
		box, err := c.decodeTextBox(id, f.TextBoxes[strconv.Itoa(id)])
		if err != nil {
			return nil, err
		}
		if err := board.RestoreTextBox(box); err != nil {
			return nil, err
		}
		if id > maxTextID {
			maxTextID = id
		}
	}

	board.Allocator().Restore(
		counterOr(f.NextID, maxReqID+1),
		counterOr(f.NextGroupID, maxGroupID+1),
		counterOr(f.NextTextID, maxTextID+1),
		f.IDPrefix,
	)

	layers, err := c.decodeLayers(f)
	if err != nil {
		return nil, err
	}

	log, err := c.decodeCollab(f, now)
	if err != nil {
		return nil, err
	}

	viewport := services.NewViewport(c.cfg)
	if f.ZoomFactor != 0 {
		viewport.Restore(f.ZoomFactor)
	}

	return workspace.RestoredState(c.cfg, board, layers, log, viewport, f.CurrentUser), nil
}

func (c *Codec) decodeRequirement(id int, rec requirementRecord, children []int, now time.Time) (*entities.Requirement, error) {
	kind, err := domainKind(rec.Type)
	if err != nil {
		return nil, err
	}

	position, err := valueobjects.NewPosition(rec.X, rec.Y)
	if err != nil {
		return nil, err
	}

	label := rec.Label
	if label == "" {
		label = fmt.Sprintf("%s%d", c.cfg.DefaultIDPrefix, id)
	}
	title := rec.Text
	if title == "" {
		title = fmt.Sprintf("Requirement %s", label)
	}
	color := rec.Color
	if color == "" {
		color = c.cfg.ChildColor
		if kind == entities.KindParent {
			color = c.cfg.ParentColor
		}
	}
	layer := rec.Layer
	if layer == "" {
		layer = c.cfg.DefaultLayerForKind("requirement")
	}
	status := entities.RequirementStatus(rec.Status)
	if rec.Status == "" {
		status = entities.StatusDraft
	}
	createdBy := rec.CreatedBy
	if createdBy == "" {
		createdBy = "Unknown"
	}

	return entities.ReconstructRequirement(
		id, label, kind, title, rec.Note,
		position, color, layer, status, children,
		createdBy,
		parseTime(rec.CreatedAt, now),
		parseTime(rec.ModifiedAt, now),
	)
}

func (c *Codec) decodeGroup(id int, rec groupRecord) (*entities.Group, error) {
	position, err := valueobjects.NewPosition(rec.X, rec.Y)
	if err != nil {
		return nil, err
	}
	size, err := valueobjects.NewSize(
		sizeOr(rec.Width, c.cfg.DefaultGroupSize.Width),
		sizeOr(rec.Height, c.cfg.DefaultGroupSize.Height),
	)
	if err != nil {
		return nil, err
	}

	name := rec.Name
	if name == "" {
		name = fmt.Sprintf("Group %d", id)
	}
	color := rec.Color
	if color == "" {
		color = c.cfg.GroupColor
	}
	layer := rec.Layer
	if layer == "" {
		layer = c.cfg.DefaultLayerForKind("group")
	}

	return entities.ReconstructGroup(id, name, position, size, color, layer, c.cfg.MinGroupWidth, c.cfg.MinGroupHeight)
}

func (c *Codec) decodeTextBox(id int, rec textBoxRecord) (*entities.TextBox, error) {
	position, err := valueobjects.NewPosition(rec.X, rec.Y)
	if err != nil {
		return nil, err
	}
	size, err := valueobjects.NewSize(
		sizeOr(rec.Width, c.cfg.DefaultTextSize.Width),
		sizeOr(rec.Height, c.cfg.DefaultTextSize.Height),
	)
	if err != nil {
		return nil, err
	}

	fontSize := rec.FontSize
	if fontSize == 0 {
		fontSize = c.cfg.DefaultFontSize
	}
	if fontSize < c.cfg.MinFontSize || fontSize > c.cfg.MaxFontSize {
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("text box %d font size out of range", id))
	}
	layer := rec.Layer
	if layer == "" {
		layer = c.cfg.DefaultLayerForKind("text")
	}

	return entities.ReconstructTextBox(id, rec.Text, position, size, fontSize, layer, c.cfg.MinTextWidth, c.cfg.MinTextHeight)
}

func (c *Codec) decodeLayers(f *fileSchema) (*aggregates.LayerSet, error) {
	if len(f.Layers) == 0 {
		return aggregates.NewLayerSet(c.cfg), nil
	}

	order := f.LayerOrder
	if len(order) == 0 {
		order = mapKeys(f.Layers)
		sort.Strings(order)
	}

	set := aggregates.NewEmptyLayerSet()
	seen := make(map[string]bool)
	for _, name := range order {
		rec, ok := f.Layers[name]
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		layer, err := entities.ReconstructLayer(name, rec.Color, rec.Visible, rec.Locked)
		if err != nil {
			return nil, err
		}
		if err := set.RestoreLayer(layer); err != nil {
			return nil, err
		}
	}
	// layers present in the map but absent from the order list
	for _, name := range sortedStrings(mapKeys(f.Layers)) {
		if seen[name] {
			continue
		}
		rec := f.Layers[name]
		layer, err := entities.ReconstructLayer(name, rec.Color, rec.Visible, rec.Locked)
		if err != nil {
			return nil, err
		}
		if err := set.RestoreLayer(layer); err != nil {
			return nil, err
		}
	}

	set.RestoreActiveLayer(f.CurrentLayer)
	return set, nil
}

func (c *Codec) decodeCollab(f *fileSchema, now time.Time) (*collab.Log, error) {
	log := collab.NewLog(c.cfg)

	for _, key := range sortedStrings(mapKeys(f.Comments)) {
		target, err := valueobjects.ParseTargetKey(key)
		if err != nil {
			return nil, err
		}
		var thread []*collab.Comment
		for i, rec := range f.Comments[key] {
			seq := rec.Seq
			if seq == 0 {
				seq = i + 1
			}
			comment, err := collab.ReconstructComment(
				seq, rec.User, rec.Text,
				parseTime(rec.Timestamp, now),
				rec.Resolved, rec.ResolvedBy,
				parseTime(rec.ResolvedAt, time.Time{}),
			)
			if err != nil {
				return nil, err
			}
			thread = append(thread, comment)
		}
		log.RestoreThread(target, thread)
	}

	for _, key := range sortedStrings(mapKeys(f.Reviews)) {
		target, err := valueobjects.ParseTargetKey(key)
		if err != nil {
			return nil, err
		}
		rec := f.Reviews[key]
		status := collab.ReviewStatus(rec.Status)
		if rec.Status == "" {
			status = collab.ReviewPending
		}
		reviewers := rec.Reviewers
		if len(reviewers) == 0 && rec.Reviewer != "" {
			reviewers = []string{rec.Reviewer}
		}
		review, err := collab.ReconstructReview(
			reviewers, rec.Notes, rec.RequestedBy,
			parseTime(rec.RequestedAt, now),
			parseTime(rec.Deadline, time.Time{}),
			status, rec.DecidedBy,
			parseTime(rec.DecidedAt, time.Time{}),
			rec.RejectionReason,
		)
		if err != nil {
			return nil, err
		}
		log.RestoreReview(target, review)
	}

	var entries []collab.HistoryEntry
	for _, rec := range f.History {
		action := collab.Action(rec.Action)
		if !action.IsValid() {
			continue
		}
		entry := collab.HistoryEntry{
			ID:          rec.ID,
			Timestamp:   parseTime(rec.Timestamp, now),
			User:        rec.User,
			Action:      action,
			Description: rec.Description,
			Details:     rec.Details,
		}
		if rec.Target != "" {
			if target, err := valueobjects.ParseTargetKey(rec.Target); err == nil {
				entry.Target = target
			}
		}
		entries = append(entries, entry)
	}
	log.RestoreHistory(entries)

	return log, nil
}

// helpers

// layerObjects renders a layer's membership as ("kind", id) pairs in a
// stable order: requirements, then groups, then text boxes, ids ascending.
func layerObjects(layer *entities.Layer) [][]any {
	members := layer.Members()
	sort.Slice(members, func(i, j int) bool {
		if members[i].Kind() != members[j].Kind() {
			return kindRank(members[i].Kind()) < kindRank(members[j].Kind())
		}
		return members[i].ID() < members[j].ID()
	})
	out := make([][]any, 0, len(members))
	for _, member := range members {
		out = append(out, []any{member.Kind().KeyPrefix(), member.ID()})
	}
	return out
}

func kindRank(kind valueobjects.ElementKind) int {
	switch kind {
	case valueobjects.KindRequirement:
		return 0
	case valueobjects.KindGroup:
		return 1
	default:
		return 2
	}
}

func wireKind(kind entities.RequirementKind) string {
	if kind == entities.KindParent {
		return wireKindParent
	}
	return wireKindChild
}

func domainKind(tag string) (entities.RequirementKind, error) {
	switch tag {
	case wireKindParent, string(entities.KindParent):
		return entities.KindParent, nil
	case wireKindChild, string(entities.KindChild):
		return entities.KindChild, nil
	default:
		return "", pkgerrors.NewValidationError(fmt.Sprintf("unknown requirement type %q", tag))
	}
}

func parseTime(s string, fallback time.Time) time.Time {
	if s == "" {
		return fallback
	}
	for _, format := range acceptedTimeFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return fallback
}

func sortedIDKeys(keys []string) ([]int, error) {
	ids := make([]int, 0, len(keys))
	for _, key := range keys {
		id, err := strconv.Atoi(key)
		if err != nil || id < 1 {
			return nil, pkgerrors.NewValidationError(fmt.Sprintf("malformed element id %q", key))
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}

func mapKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func sortedStrings(s []string) []string {
	sort.Strings(s)
	return s
}

func counterOr(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}

func sizeOr(value, fallback float64) float64 {
	if value > 0 {
		return value
	}
	return fallback
}
