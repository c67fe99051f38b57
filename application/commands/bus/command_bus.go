package bus

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/zap"

	pkgerrors "reqboard/pkg/errors"
)

// Command represents a command that changes state
type Command interface {
	Validate() error
}

// CommandHandler handles a specific command type
type CommandHandler interface {
	Handle(ctx context.Context, cmd Command) error
}

// CommandBus dispatches commands to their handlers. It is the single entry
// point through which workspace mutations are applied.
type CommandBus struct {
	handlers map[reflect.Type]CommandHandler
	pipeline *Pipeline
	mu       sync.RWMutex
}

// NewCommandBus creates a new command bus with the given middleware applied
// to every handler.
func NewCommandBus(middlewares ...Middleware) *CommandBus {
	return &CommandBus{
		handlers: make(map[reflect.Type]CommandHandler),
		pipeline: NewPipeline(middlewares...),
	}
}

// Register registers a handler for a command type
func (b *CommandBus) Register(cmdType Command, handler CommandHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := reflect.TypeOf(cmdType)
	if _, exists := b.handlers[t]; exists {
		return fmt.Errorf("handler already registered for command type %s", t.Name())
	}

	b.handlers[t] = b.pipeline.Execute(handler)
	return nil
}

// Send validates a command and dispatches it to its handler
func (b *CommandBus) Send(ctx context.Context, cmd Command) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	b.mu.RLock()
	handler, exists := b.handlers[reflect.TypeOf(cmd)]
	b.mu.RUnlock()

	if !exists {
		return pkgerrors.NewInternalError(fmt.Sprintf("no handler registered for command type %T", cmd))
	}

	return handler.Handle(ctx, cmd)
}

// Middleware defines command middleware
type Middleware func(next CommandHandler) CommandHandler

// CommandHandlerFunc is an adapter to allow functions to be used as handlers
type CommandHandlerFunc func(ctx context.Context, cmd Command) error

// Handle implements CommandHandler
func (f CommandHandlerFunc) Handle(ctx context.Context, cmd Command) error {
	return f(ctx, cmd)
}

// LoggingMiddleware logs command execution. Guard rejections are expected
// refusals and log at Warn; everything else failing logs at Error.
func LoggingMiddleware(logger *zap.Logger) Middleware {
	return func(next CommandHandler) CommandHandler {
		return CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
			cmdType := reflect.TypeOf(cmd).Name()

			err := next.Handle(ctx, cmd)
			switch {
			case err == nil:
				logger.Debug("command succeeded", zap.String("type", cmdType))
			case pkgerrors.IsGuard(err):
				logger.Warn("command refused by guard", zap.String("type", cmdType), zap.Error(err))
			default:
				logger.Error("command failed", zap.String("type", cmdType), zap.Error(err))
			}
			return err
		})
	}
}

// Pipeline chains multiple middleware together
type Pipeline struct {
	middlewares []Middleware
}

// NewPipeline creates a new middleware pipeline
func NewPipeline(middlewares ...Middleware) *Pipeline {
	return &Pipeline{
		middlewares: middlewares,
	}
}

// Execute wraps the handler with the middleware, outermost first
func (p *Pipeline) Execute(handler CommandHandler) CommandHandler {
	for i := len(p.middlewares) - 1; i >= 0; i-- {
		handler = p.middlewares[i](handler)
	}
	return handler
}
