// Package command routes command values to their single registered handler.
// The registry is typed: each command type maps to exactly one handler and
// one result type, resolved by the command's name token rather than by
// runtime type introspection.
package command

import (
	"context"
	"fmt"
	"sync"

	"github.com/pagesmith/pagesmith/internal/common"
)

// Command is a routable command value. Name must be constant per concrete
// type and callable on the zero value.
type Command interface {
	Name() string
}

// HandlerFunc handles one command type, producing one result type.
type HandlerFunc[C Command, R any] func(ctx context.Context, cmd C) (R, error)

// Dispatcher holds the command registry. The zero value is not usable;
// construct with NewDispatcher.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string]func(ctx context.Context, cmd Command) (any, error)
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string]func(ctx context.Context, cmd Command) (any, error)),
	}
}

// Register binds h as the single handler for command type C. Registering a
// second handler for the same command panics: the registry is assembled
// once at startup and a duplicate is a wiring bug.
func Register[C Command, R any](d *Dispatcher, h HandlerFunc[C, R]) {
	var zero C
	name := zero.Name()

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.handlers[name]; exists {
		panic(fmt.Sprintf("command %q already has a handler", name))
	}

	d.handlers[name] = func(ctx context.Context, cmd Command) (any, error) {
		typed, ok := cmd.(C)
		if !ok {
			return nil, fmt.Errorf("%w: command %q is not %T", common.ErrHandlerContract, cmd.Name(), zero)
		}
		return h(ctx, typed)
	}
}

// Dispatch routes cmd to its registered handler and returns the handler's
// result as R. The context is passed through to the handler unmodified, so
// cancellation propagates.
//
// Fails with common.ErrHandlerNotFound when no handler is registered for
// the command, and common.ErrHandlerContract when the handler's result is
// not the requested type.
func Dispatch[R any](ctx context.Context, d *Dispatcher, cmd Command) (R, error) {
	var zero R

	d.mu.RLock()
	h, ok := d.handlers[cmd.Name()]
	d.mu.RUnlock()

	if !ok {
		return zero, fmt.Errorf("%w: %q", common.ErrHandlerNotFound, cmd.Name())
	}

	out, err := h(ctx, cmd)
	if err != nil {
		return zero, err
	}

	result, ok := out.(R)
	if !ok {
		return zero, fmt.Errorf("%w: command %q yielded %T, want %T", common.ErrHandlerContract, cmd.Name(), out, zero)
	}
	return result, nil
}
