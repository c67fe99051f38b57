package handlers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"reqboard/application/commands"
	"reqboard/application/commands/bus"
	"reqboard/application/ports"
	"reqboard/application/workspace"
	"reqboard/domain/collab"
	pkgerrors "reqboard/pkg/errors"
)

// ProjectHandler applies save and load commands through the project store.
// Load swaps the whole state at once; a failed load leaves the current
// state untouched.
type ProjectHandler struct {
	ws     *workspace.Workspace
	store  ports.ProjectStore
	logger *zap.Logger
}

// NewProjectHandler creates the persistence command handler
func NewProjectHandler(ws *workspace.Workspace, store ports.ProjectStore, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{ws: ws, store: store, logger: logger}
}

// Register wires the handler into the bus for every command it serves
func (h *ProjectHandler) Register(b *bus.CommandBus) error {
	for _, cmd := range []bus.Command{
		commands.SaveProject{},
		commands.LoadProject{},
	} {
		if err := b.Register(cmd, h); err != nil {
			return err
		}
	}
	return nil
}

// Handle implements bus.CommandHandler
func (h *ProjectHandler) Handle(ctx context.Context, cmd bus.Command) error {
	switch cmd.(type) {
	case commands.SaveProject:
		return h.save(ctx)
	case commands.LoadProject:
		return h.load(ctx)
	default:
		return pkgerrors.NewInternalError(fmt.Sprintf("unexpected command type %T", cmd))
	}
}

func (h *ProjectHandler) save(ctx context.Context) error {
	err := h.ws.Read(func(s *workspace.State) error {
		return h.store.Save(ctx, s)
	})
	if err != nil {
		return err
	}
	h.logger.Info("project saved", zap.String("path", h.store.Path()))
	return nil
}

func (h *ProjectHandler) load(ctx context.Context) error {
	err := h.ws.Replace(func(now time.Time) (*workspace.State, error) {
		state, err := h.store.Load(ctx)
		if err != nil {
			return nil, err
		}
		state.Log.AppendHistory(collab.NewSystemEntry(state.CurrentUser(), "project loaded", now))
		return state, nil
	})
	if err != nil {
		return err
	}
	h.logger.Info("project loaded", zap.String("path", h.store.Path()))
	return nil
}
