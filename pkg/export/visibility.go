package export

import (
	"reqboard/domain/core/aggregates"
)

// WithVisibleLayers runs fn with only the named layers visible, then puts
// every visibility flag back the way it was, including when fn fails. Used
// by view-capture exports that must not leave the workspace's visibility
// state disturbed.
func WithVisibleLayers(layers *aggregates.LayerSet, visible []string, fn func() error) error {
	wanted := make(map[string]bool, len(visible))
	for _, name := range visible {
		wanted[name] = true
	}

	original := make(map[string]bool)
	for _, layer := range layers.Layers() {
		original[layer.Name()] = layer.Visible()
		layer.SetVisible(wanted[layer.Name()])
	}

	defer func() {
		for _, layer := range layers.Layers() {
			if was, ok := original[layer.Name()]; ok {
				layer.SetVisible(was)
			}
		}
	}()

	return fn()
}
