package monolith

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/cosvm-explorer/internal/config"
	"github.com/fd1az/cosvm-explorer/internal/di"
	"github.com/fd1az/cosvm-explorer/internal/logger"
)

type recordingModule struct {
	name  string
	trace *[]string
}

func (m recordingModule) RegisterServices(c di.Container) error {
	*m.trace = append(*m.trace, "register:"+m.name)
	return nil
}

func (m recordingModule) Startup(_ context.Context, _ Monolith) error {
	*m.trace = append(*m.trace, "start:"+m.name)
	return nil
}

func TestApp_ModulesRunInOrder(t *testing.T) {
	a := New(&config.Config{}, logger.NewNop(), nil)
	var trace []string
	mods := []Module{recordingModule{"a", &trace}, recordingModule{"b", &trace}}

	require.NoError(t, a.RegisterModules(mods...))
	require.NoError(t, a.StartModules(context.Background(), mods...))

	assert.Equal(t, []string{"register:a", "register:b", "start:a", "start:b"}, trace)
}

func TestApp_GlobalServices(t *testing.T) {
	cfg := &config.Config{}
	a := New(cfg, logger.NewNop(), nil)

	assert.Same(t, cfg, a.Services().Get("config").(*config.Config))
	ctx := a.Services().Get("context").(context.Context)
	require.NoError(t, ctx.Err())

	require.NoError(t, a.Close())
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestApp_CloseRunsClosersInReverse(t *testing.T) {
	a := New(&config.Config{}, logger.NewNop(), nil)
	var order []int
	boom := errors.New("boom")
	a.OnClose(func() error { order = append(order, 1); return nil })
	a.OnClose(func() error { order = append(order, 2); return boom })

	err := a.Close()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []int{2, 1}, order)

	require.NoError(t, a.Close())
	assert.Equal(t, []int{2, 1}, order)
}
