package di

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counterService struct{ n int }

func TestContainer_FactoryIsSingleton(t *testing.T) {
	c := NewContainer()
	builds := 0
	token := NewToken[*counterService]("test:counter")

	RegisterToken(c, token, func(ServiceRegistry) *counterService {
		builds++
		return &counterService{n: builds}
	})

	first := GetToken(c, token)
	second := GetToken(c, token)

	assert.Same(t, first, second)
	assert.Equal(t, 1, builds)
}

func TestContainer_FactoryResolvesDependencies(t *testing.T) {
	c := NewContainer()
	c.Register("base", 40)
	token := NewToken[int]("test:sum")
	RegisterToken(c, token, func(sr ServiceRegistry) int {
		return sr.Get("base").(int) + 2
	})

	assert.Equal(t, 42, GetToken(c, token))
}

func TestContainer_MissingServicePanics(t *testing.T) {
	c := NewContainer()
	require.Panics(t, func() { c.Get("nope") })
}

type greeter interface{ Greet() string }

func TestTryGetToken_NilFactoryResult(t *testing.T) {
	c := NewContainer()
	token := NewToken[greeter]("test:greeter")
	RegisterToken(c, token, func(ServiceRegistry) greeter { return nil })

	g, ok := TryGetToken(c, token)
	assert.False(t, ok)
	assert.Nil(t, g)
	assert.Panics(t, func() { GetToken(c, token) })
}
