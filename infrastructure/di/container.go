package di

import (
	"context"
	"time"

	"go.uber.org/zap"

	"reqboard/application/commands/bus"
	"reqboard/application/commands/handlers"
	"reqboard/application/queries"
	"reqboard/application/workspace"
	domaincfg "reqboard/domain/config"
	"reqboard/infrastructure/config"
	"reqboard/infrastructure/persistence/jsonfile"
)

// Container holds the hand-wired application object graph
type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	Workspace  *workspace.Workspace
	Store      *jsonfile.Store
	CommandBus *bus.CommandBus

	BoardQueries  *queries.BoardQueryService
	CollabQueries *queries.CollabQueryService
	ExportQueries *queries.ExportQueryService
}

// InitializeContainer builds every component and, when the data file
// already exists, loads it into the workspace.
func InitializeContainer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	domainConfig := domaincfg.DefaultDomainConfig()
	domainConfig.DefaultUser = cfg.DefaultUser
	domainConfig.DefaultIDPrefix = cfg.IDPrefix

	ws := workspace.New(domainConfig)
	store := jsonfile.NewStore(cfg.DataFile, domainConfig, logger)

	commandBus := bus.NewCommandBus(bus.LoggingMiddleware(logger))
	for _, h := range []interface {
		Register(*bus.CommandBus) error
	}{
		handlers.NewElementHandler(ws),
		handlers.NewLayerHandler(ws),
		handlers.NewWorkflowHandler(ws),
		handlers.NewWorkspaceHandler(ws),
		handlers.NewProjectHandler(ws, store, logger),
	} {
		if err := h.Register(commandBus); err != nil {
			return nil, err
		}
	}

	c := &Container{
		Config:     cfg,
		Logger:     logger,
		Workspace:  ws,
		Store:      store,
		CommandBus: commandBus,

		BoardQueries:  queries.NewBoardQueryService(ws),
		CollabQueries: queries.NewCollabQueryService(ws),
		ExportQueries: queries.NewExportQueryService(ws),
	}

	if store.Exists() {
		if err := c.loadInitialState(ctx); err != nil {
			return nil, err
		}
	} else {
		logger.Info("no data file yet, starting with a fresh workspace", zap.String("path", store.Path()))
	}

	return c, nil
}

func (c *Container) loadInitialState(ctx context.Context) error {
	err := c.Workspace.Replace(func(_ time.Time) (*workspace.State, error) {
		return c.Store.Load(ctx)
	})
	if err != nil {
		return err
	}
	c.Logger.Info("workspace loaded", zap.String("path", c.Store.Path()))
	return nil
}
