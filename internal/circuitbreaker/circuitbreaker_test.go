package circuitbreaker

import (
	"context"
	"errors"
	"testing"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/cosvm-explorer/internal/apperror"
)

func TestCircuitBreaker_TripsAfterFailures(t *testing.T) {
	cfg := DefaultConfig("lcd")
	cfg.MinRequests = 2
	cfg.FailureRatio = 0.5

	var transitions []gobreaker.State
	cfg.OnStateChange = func(_ string, _, to gobreaker.State) {
		transitions = append(transitions, to)
	}
	cb := New[int](cfg)

	boom := errors.New("boom")
	for i := 0; i < 2; i++ {
		_, err := cb.Execute(context.Background(), func(context.Context) (int, error) { return 0, boom })
		require.ErrorIs(t, err, boom)
	}

	assert.Equal(t, gobreaker.StateOpen, cb.State())
	assert.Equal(t, []gobreaker.State{gobreaker.StateOpen}, transitions)

	_, err := cb.Execute(context.Background(), func(context.Context) (int, error) { return 1, nil })
	require.Error(t, err)
	assert.Equal(t, apperror.CodeCircuitOpen, apperror.GetCode(err))
}

func TestCircuitBreaker_PassesResult(t *testing.T) {
	cb := New[string](DefaultConfig("rpc"))
	res, err := cb.Execute(context.Background(), func(context.Context) (string, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", res)
}

func TestCircuitBreaker_CancelledContextSkipsCall(t *testing.T) {
	cb := New[int](DefaultConfig("rpc"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	_, err := cb.Execute(ctx, func(context.Context) (int, error) { called = true; return 0, nil })
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
