package workspace

import (
	"fmt"
	"sync"
	"time"

	"reqboard/domain/collab"
	"reqboard/domain/config"
	"reqboard/domain/core/aggregates"
	"reqboard/domain/core/valueobjects"
	"reqboard/domain/services"
	pkgerrors "reqboard/pkg/errors"
)

// State is everything the workspace holds: the board, the layer registry,
// the collaboration log, the viewport, the workflow engine, the current
// user label, and the interaction mode. It is never shared; all access goes
// through the Workspace's locked Update/Read entry points.
type State struct {
	Board    *aggregates.Board
	Layers   *aggregates.LayerSet
	Log      *collab.Log
	Viewport *services.Viewport
	Workflow *services.Workflow

	currentUser string
	mode        InteractionMode
	cfg         *config.DomainConfig
}

// NewState creates a fresh state with default layers, empty board, and the
// configured default user.
func NewState(cfg *config.DomainConfig) *State {
	log := collab.NewLog(cfg)
	return &State{
		Board:       aggregates.NewBoard(cfg),
		Layers:      aggregates.NewLayerSet(cfg),
		Log:         log,
		Viewport:    services.NewViewport(cfg),
		Workflow:    services.NewWorkflow(log),
		currentUser: cfg.DefaultUser,
		mode:        IdleMode(),
		cfg:         cfg,
	}
}

// RestoredState assembles a state from reconstructed aggregates, as the
// persistence codec produces them. Layer membership is recomputed here so a
// restored state is immediately consistent.
func RestoredState(cfg *config.DomainConfig, board *aggregates.Board, layers *aggregates.LayerSet, log *collab.Log, viewport *services.Viewport, currentUser string) *State {
	if currentUser == "" {
		currentUser = cfg.DefaultUser
	}
	layers.RecomputeMembership(board)
	return &State{
		Board:       board,
		Layers:      layers,
		Log:         log,
		Viewport:    viewport,
		Workflow:    services.NewWorkflow(log),
		currentUser: currentUser,
		mode:        IdleMode(),
		cfg:         cfg,
	}
}

// Config returns the domain configuration
func (s *State) Config() *config.DomainConfig {
	return s.cfg
}

// CurrentUser returns the acting user's label
func (s *State) CurrentUser() string {
	return s.currentUser
}

// SetCurrentUser changes the acting user and records a SYSTEM entry
func (s *State) SetCurrentUser(name string, now time.Time) error {
	if name == "" {
		return pkgerrors.NewValidationError("user name cannot be empty")
	}
	if name == s.currentUser {
		return nil
	}
	s.currentUser = name
	s.Log.AppendHistory(collab.NewSystemEntry(name, fmt.Sprintf("current user changed to %s", name), now))
	return nil
}

// Mode returns the current interaction mode
func (s *State) Mode() InteractionMode {
	return s.mode
}

// SetMode replaces the interaction mode
func (s *State) SetMode(mode InteractionMode) {
	s.mode = mode
}

// EnsureLayerUnlocked refuses the mutation when the named layer is locked
func (s *State) EnsureLayerUnlocked(layer string) error {
	if s.Layers.IsLocked(layer) {
		return pkgerrors.NewLockedLayerError(layer)
	}
	return nil
}

// EnsureTargetUnlocked refuses the mutation when the target's layer is
// locked. Unknown targets surface as not found.
func (s *State) EnsureTargetUnlocked(target valueobjects.TargetRef) error {
	layer, err := s.Board.ElementLayer(target)
	if err != nil {
		return err
	}
	return s.EnsureLayerUnlocked(layer)
}

// Workspace is the single mutable container of the application. It owns the
// state behind a readers-writer lock: one mutating actor at a time,
// concurrent readers permitted. Commands run under the write lock through
// Update; queries run under the read lock through Read.
type Workspace struct {
	mu    sync.RWMutex
	state *State
	clock func() time.Time
}

// Option configures a Workspace
type Option func(*Workspace)

// WithClock overrides the time source, for tests
func WithClock(clock func() time.Time) Option {
	return func(w *Workspace) {
		w.clock = clock
	}
}

// New creates a workspace holding a fresh default state
func New(cfg *config.DomainConfig, opts ...Option) *Workspace {
	w := &Workspace{
		state: NewState(cfg),
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Update runs fn under the write lock with the current time taken once at
// entry, so every timestamp within one command agrees.
func (w *Workspace) Update(fn func(s *State, now time.Time) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return fn(w.state, w.clock())
}

// Read runs fn under the read lock
func (w *Workspace) Read(fn func(s *State) error) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return fn(w.state)
}

// Replace swaps in a completely new state under the write lock. Used by
// project load; the old state is discarded only if fn succeeds.
func (w *Workspace) Replace(fn func(now time.Time) (*State, error)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	state, err := fn(w.clock())
	if err != nil {
		return err
	}
	w.state = state
	return nil
}
