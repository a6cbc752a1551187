package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedCommand struct {
	name    string
	aliases []string
}

func (c namedCommand) Name() string                           { return c.name }
func (c namedCommand) Aliases() []string                      { return c.aliases }
func (c namedCommand) Usage() string                          { return c.name }
func (c namedCommand) Cooldown() Cooldown                     { return Cooldown{} }
func (c namedCommand) Handle(context.Context, *Context) error { return nil }

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	search := newTestCommand(nil)

	require.NoError(t, r.Register(search))

	for _, name := range []string{"stackoverflow", "SO", "StackOverflow"} {
		cmd, ok := r.Get(name)
		require.True(t, ok, name)
		assert.Same(t, search, cmd)
	}

	_, ok := r.Get("help")
	assert.False(t, ok)
}

func TestRegistry_RejectsConflicts(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newTestCommand(nil)))

	err := r.Register(namedCommand{name: "sort", aliases: []string{"so"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"so"`)

	_, ok := r.Get("sort")
	assert.False(t, ok, "failed registration must not leave partial entries")

	assert.Error(t, r.Register(namedCommand{name: "x", aliases: []string{""}}))
}

func TestRegistry_CommandsSorted(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(namedCommand{name: "zeta"}))
	require.NoError(t, r.Register(namedCommand{name: "alpha", aliases: []string{"a"}}))

	cmds := r.Commands()

	require.Len(t, cmds, 2)
	assert.Equal(t, "alpha", cmds[0].Name())
	assert.Equal(t, "zeta", cmds[1].Name())
}
