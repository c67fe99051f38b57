package jsonfile

// File schema. Element maps are keyed by the stringified numeric id; the
// comment and review maps by the target key, e.g. "req_7". Requirement
// kinds travel under their historical wire tags "ust" (parent) and "alt"
// (child). Every field beyond the geometry is optional on load; the codec
// synthesizes defaults so files written by older versions still open.

type fileSchema struct {
	Requirements map[string]requirementRecord `json:"requirements"`
	Links        map[string][]int             `json:"links"`
	Groups       map[string]groupRecord       `json:"groups"`
	TextBoxes    map[string]textBoxRecord     `json:"text_boxes"`
	Layers       map[string]layerRecord       `json:"layers"`
	LayerOrder   []string                     `json:"layer_order,omitempty"`
	CurrentLayer string                       `json:"current_layer"`
	Comments     map[string][]commentRecord   `json:"comments"`
	Reviews      map[string]reviewRecord      `json:"reviews"`
	History      []historyRecord              `json:"history"`
	CurrentUser  string                       `json:"current_user"`
	NextID       int                          `json:"next_id"`
	NextGroupID  int                          `json:"next_group_id"`
	NextTextID   int                          `json:"next_text_id"`
	IDPrefix     string                       `json:"id_prefix"`
	ZoomFactor   float64                      `json:"zoom_factor"`
}

type requirementRecord struct {
	Type       string  `json:"type"`
	Label      string  `json:"label,omitempty"`
	Text       string  `json:"text"`
	Note       string  `json:"note,omitempty"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Color      string  `json:"color,omitempty"`
	Layer      string  `json:"layer,omitempty"`
	Status     string  `json:"status,omitempty"`
	CreatedBy  string  `json:"created_by,omitempty"`
	CreatedAt  string  `json:"created_at,omitempty"`
	ModifiedAt string  `json:"modified_at,omitempty"`
}

type groupRecord struct {
	Name   string  `json:"name"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Color  string  `json:"color,omitempty"`
	Layer  string  `json:"layer,omitempty"`
}

type textBoxRecord struct {
	Text     string  `json:"text"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	FontSize int     `json:"font_size,omitempty"`
	Layer    string  `json:"layer,omitempty"`
}

// layerRecord carries the layer flags plus the derived membership list as
// ("kind", id) pairs. The list is written for readers that count layer
// members straight from the file; on load it is ignored and membership is
// recomputed from the elements' layer fields.
type layerRecord struct {
	Visible bool    `json:"visible"`
	Locked  bool    `json:"locked"`
	Color   string  `json:"color,omitempty"`
	Objects [][]any `json:"objects"`
}

type commentRecord struct {
	Seq        int    `json:"seq,omitempty"`
	User       string `json:"user"`
	Text       string `json:"text"`
	Timestamp  string `json:"timestamp,omitempty"`
	Resolved   bool   `json:"resolved,omitempty"`
	ResolvedBy string `json:"resolved_by,omitempty"`
	ResolvedAt string `json:"resolved_at,omitempty"`
}

// reviewRecord's singular reviewer field is read for files written before
// reviews carried a reviewer list; it is never written.
type reviewRecord struct {
	Reviewers       []string `json:"reviewers"`
	Reviewer        string   `json:"reviewer,omitempty"`
	Notes           string   `json:"notes,omitempty"`
	RequestedBy     string   `json:"requested_by,omitempty"`
	RequestedAt     string   `json:"requested_at,omitempty"`
	Deadline        string   `json:"deadline,omitempty"`
	Status          string   `json:"status"`
	DecidedBy       string   `json:"decided_by,omitempty"`
	DecidedAt       string   `json:"decided_at,omitempty"`
	RejectionReason string   `json:"rejection_reason,omitempty"`
}

type historyRecord struct {
	ID          string `json:"id,omitempty"`
	Timestamp   string `json:"timestamp"`
	User        string `json:"user"`
	Action      string `json:"action"`
	Target      string `json:"target,omitempty"`
	Description string `json:"description"`
	Details     string `json:"details,omitempty"`
}

// Wire tags for requirement kinds
const (
	wireKindParent = "ust"
	wireKindChild  = "alt"
)
