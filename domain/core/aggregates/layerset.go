package aggregates

import (
	"fmt"

	"reqboard/domain/config"
	"reqboard/domain/core/entities"
	pkgerrors "reqboard/pkg/errors"
)

// LayerSet is the layer registry aggregate: named layers in creation order
// plus the active layer new elements land on. The guard rules live here:
// duplicate names, deleting the last layer, and deleting a populated layer
// without confirmation are all refused as guard rejections, never as
// validation failures.
type LayerSet struct {
	layers map[string]*entities.Layer
	order  []string
	active string
}

// NewLayerSet creates the registry with the default layers and active layer
func NewLayerSet(cfg *config.DomainConfig) *LayerSet {
	set := &LayerSet{
		layers: make(map[string]*entities.Layer),
	}
	for _, def := range cfg.DefaultLayers {
		layer, _ := entities.NewLayer(def.Name, def.Color)
		set.layers[def.Name] = layer
		set.order = append(set.order, def.Name)
	}
	set.active = cfg.DefaultActiveLayer
	return set
}

// NewEmptyLayerSet creates a registry with no layers, for state restoration
func NewEmptyLayerSet() *LayerSet {
	return &LayerSet{layers: make(map[string]*entities.Layer)}
}

// Layer returns the layer with the given name
func (s *LayerSet) Layer(name string) (*entities.Layer, error) {
	layer, ok := s.layers[name]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("layer")
	}
	return layer, nil
}

// Exists reports whether a layer with the given name is registered
func (s *LayerSet) Exists(name string) bool {
	_, ok := s.layers[name]
	return ok
}

// Names returns the layer names in creation order
func (s *LayerSet) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Layers returns the layers in creation order
func (s *LayerSet) Layers() []*entities.Layer {
	out := make([]*entities.Layer, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.layers[name])
	}
	return out
}

// ActiveLayer returns the layer new elements are placed on
func (s *LayerSet) ActiveLayer() string {
	return s.active
}

// SetActiveLayer switches the active layer to an existing one
func (s *LayerSet) SetActiveLayer(name string) error {
	if !s.Exists(name) {
		return pkgerrors.NewNotFoundError("layer")
	}
	s.active = name
	return nil
}

// CreateLayer registers a new visible, unlocked layer. A duplicate name is
// a guard rejection.
func (s *LayerSet) CreateLayer(name, color string) (*entities.Layer, error) {
	if s.Exists(name) {
		return nil, pkgerrors.NewGuardError(fmt.Sprintf("layer %q already exists", name)).WithCode("LAYER_DUPLICATE")
	}
	layer, err := entities.NewLayer(name, color)
	if err != nil {
		return nil, err
	}
	s.layers[name] = layer
	s.order = append(s.order, name)
	return layer, nil
}

// DeleteLayer removes a layer. Deleting the last layer is refused. Deleting
// a layer that still has members requires the confirm flag; the caller is
// expected to reassign or delete those elements. If the active layer is
// deleted, the first surviving layer becomes active.
func (s *LayerSet) DeleteLayer(name string, confirm bool) error {
	layer, err := s.Layer(name)
	if err != nil {
		return err
	}
	if len(s.order) == 1 {
		return pkgerrors.NewGuardError("cannot delete the last remaining layer").WithCode("LAYER_LAST")
	}
	if layer.MemberCount() > 0 && !confirm {
		return pkgerrors.NewGuardError(fmt.Sprintf("layer %q still has %d elements", name, layer.MemberCount())).WithCode("LAYER_NOT_EMPTY")
	}

	delete(s.layers, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.active == name {
		s.active = s.order[0]
	}
	return nil
}

// SetVisible sets a layer's visibility flag
func (s *LayerSet) SetVisible(name string, visible bool) error {
	layer, err := s.Layer(name)
	if err != nil {
		return err
	}
	layer.SetVisible(visible)
	return nil
}

// SetLocked sets a layer's lock flag
func (s *LayerSet) SetLocked(name string, locked bool) error {
	layer, err := s.Layer(name)
	if err != nil {
		return err
	}
	layer.SetLocked(locked)
	return nil
}

// IsLocked reports whether the named layer is locked. An unknown layer is
// not locked; membership of a vanished layer never blocks a mutation.
func (s *LayerSet) IsLocked(name string) bool {
	layer, ok := s.layers[name]
	return ok && layer.Locked()
}

// IsVisible reports whether the named layer is visible. Elements on an
// unknown layer render as visible.
func (s *LayerSet) IsVisible(name string) bool {
	layer, ok := s.layers[name]
	return !ok || layer.Visible()
}

// RecomputeMembership rebuilds every layer's membership set from the
// board's element layer fields. Elements on unregistered layers are left
// out; they reappear once such a layer is created.
func (s *LayerSet) RecomputeMembership(board *Board) {
	byLayer := board.TargetsByLayer()
	for name, layer := range s.layers {
		layer.ReplaceMembers(byLayer[name])
	}
}

// RestoreLayer inserts a reconstructed layer during state restoration
func (s *LayerSet) RestoreLayer(layer *entities.Layer) error {
	if s.Exists(layer.Name()) {
		return pkgerrors.NewConflictError("duplicate layer name")
	}
	s.layers[layer.Name()] = layer
	s.order = append(s.order, layer.Name())
	return nil
}

// RestoreActiveLayer sets the active layer during state restoration,
// falling back to the first layer when the persisted name is unknown.
func (s *LayerSet) RestoreActiveLayer(name string) {
	if s.Exists(name) {
		s.active = name
		return
	}
	if len(s.order) > 0 {
		s.active = s.order[0]
	}
}
