package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagesmith/pagesmith/internal/common"
)

type pingCmd struct{ Msg string }

func (pingCmd) Name() string { return "ping" }

type otherCmd struct{}

func (otherCmd) Name() string { return "other" }

type pingResult struct{ Echo string }

func TestDispatch_RoutesToRegisteredHandler(t *testing.T) {
	d := NewDispatcher()
	Register(d, func(ctx context.Context, cmd pingCmd) (pingResult, error) {
		return pingResult{Echo: cmd.Msg}, nil
	})

	res, err := Dispatch[pingResult](context.Background(), d, pingCmd{Msg: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hi", res.Echo)
}

func TestDispatch_HandlerNotFound(t *testing.T) {
	d := NewDispatcher()

	_, err := Dispatch[pingResult](context.Background(), d, pingCmd{})
	assert.ErrorIs(t, err, common.ErrHandlerNotFound)
}

func TestDispatch_WrongResultTypeIsContractViolation(t *testing.T) {
	d := NewDispatcher()
	Register(d, func(ctx context.Context, cmd pingCmd) (pingResult, error) {
		return pingResult{}, nil
	})

	_, err := Dispatch[string](context.Background(), d, pingCmd{})
	assert.ErrorIs(t, err, common.ErrHandlerContract)
}

func TestDispatch_HandlerErrorPropagates(t *testing.T) {
	d := NewDispatcher()
	boom := errors.New("boom")
	Register(d, func(ctx context.Context, cmd pingCmd) (pingResult, error) {
		return pingResult{}, boom
	})

	_, err := Dispatch[pingResult](context.Background(), d, pingCmd{})
	assert.ErrorIs(t, err, boom)
}

func TestDispatch_ContextReachesHandler(t *testing.T) {
	d := NewDispatcher()
	Register(d, func(ctx context.Context, cmd pingCmd) (pingResult, error) {
		return pingResult{}, ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Dispatch[pingResult](ctx, d, pingCmd{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRegister_DuplicatePanics(t *testing.T) {
	d := NewDispatcher()
	Register(d, func(ctx context.Context, cmd pingCmd) (pingResult, error) {
		return pingResult{}, nil
	})

	assert.Panics(t, func() {
		Register(d, func(ctx context.Context, cmd pingCmd) (pingResult, error) {
			return pingResult{}, nil
		})
	})
}

func TestRegister_IndependentCommandsCoexist(t *testing.T) {
	d := NewDispatcher()
	Register(d, func(ctx context.Context, cmd pingCmd) (pingResult, error) {
		return pingResult{Echo: "ping"}, nil
	})
	Register(d, func(ctx context.Context, cmd otherCmd) (string, error) {
		return "other", nil
	})

	res, err := Dispatch[pingResult](context.Background(), d, pingCmd{})
	require.NoError(t, err)
	assert.Equal(t, "ping", res.Echo)

	s, err := Dispatch[string](context.Background(), d, otherCmd{})
	require.NoError(t, err)
	assert.Equal(t, "other", s)
}
