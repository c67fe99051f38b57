package config

// DomainConfig holds all configurable business rules and constraints
type DomainConfig struct {
	// Identifier settings
	DefaultIDPrefix string

	// Element geometry
	RequirementWidth  float64
	RequirementHeight float64
	DefaultGroupSize  SizeConstraint
	DefaultTextSize   SizeConstraint
	MinGroupWidth     float64
	MinGroupHeight    float64
	MinTextWidth      float64
	MinTextHeight     float64

	// Text box font constraints
	DefaultFontSize int
	MinFontSize     int
	MaxFontSize     int

	// Viewport constraints
	MinZoom float64
	MaxZoom float64

	// Collaboration constraints
	MaxHistoryEntries    int
	CommentPreviewLength int

	// Export constraints
	MinExportScale   float64
	MaxExportScale   float64
	MaxExportMargin  int
	MaxWrappedLines  int

	// Default layers and user
	DefaultLayers      []LayerDefault
	DefaultActiveLayer string
	DefaultUser        string

	// Default colors by requirement kind and status
	ParentColor  string
	ChildColor   string
	GroupColor   string
	StatusColors map[string]string
}

// SizeConstraint is a width/height pair used for defaults
type SizeConstraint struct {
	Width  float64
	Height float64
}

// LayerDefault describes a layer created for a fresh workspace
type LayerDefault struct {
	Name  string
	Color string
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		DefaultIDPrefix: "R",

		RequirementWidth:  160,
		RequirementHeight: 80,
		DefaultGroupSize:  SizeConstraint{Width: 300, Height: 200},
		DefaultTextSize:   SizeConstraint{Width: 200, Height: 30},
		MinGroupWidth:     100,
		MinGroupHeight:    80,
		MinTextWidth:      50,
		MinTextHeight:     20,

		DefaultFontSize: 10,
		MinFontSize:     6,
		MaxFontSize:     24,

		MinZoom: 0.1,
		MaxZoom: 5.0,

		MaxHistoryEntries:    1000,
		CommentPreviewLength: 50,

		MinExportScale:  0.1,
		MaxExportScale:  2.0,
		MaxExportMargin: 100,
		MaxWrappedLines: 3,

		DefaultLayers: []LayerDefault{
			{Name: "Background", Color: "lightgray"},
			{Name: "Groups", Color: "blue"},
			{Name: "Requirements", Color: "green"},
			{Name: "Notes", Color: "orange"},
		},
		DefaultActiveLayer: "Requirements",
		DefaultUser:        "User",

		ParentColor: "lightgreen",
		ChildColor:  "lightblue",
		GroupColor:  "lightyellow",
		StatusColors: map[string]string{
			"Draft":       "lightgray",
			"In Review":   "lightyellow",
			"Approved":    "lightgreen",
			"Rejected":    "lightcoral",
			"Implemented": "lightblue",
		},
	}
}

// DefaultLayerForKind returns the conventional layer an element kind falls
// back to when an older data file carries no layer field.
func (c *DomainConfig) DefaultLayerForKind(kind string) string {
	switch kind {
	case "group":
		return "Groups"
	case "text":
		return "Notes"
	default:
		return "Requirements"
	}
}
