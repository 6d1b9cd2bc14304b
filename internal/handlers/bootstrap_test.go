package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marvin/internal/capability"
)

func TestRegisterAllWithStore(t *testing.T) {
	reg := capability.NewRegistry()
	require.NoError(t, RegisterAll(reg, Options{Store: openTestStore(t), RecallLimit: 10}))

	assert.ElementsMatch(t, []string{"calculator", "memory", "prompt", "web"}, reg.Names())
}

func TestRegisterAllWithoutStore(t *testing.T) {
	reg := capability.NewRegistry()
	require.NoError(t, RegisterAll(reg, Options{}))

	assert.True(t, reg.Has("calculator"))
	assert.True(t, reg.Has("web"))
	assert.False(t, reg.Has("memory"))
	assert.False(t, reg.Has("prompt"))
}
