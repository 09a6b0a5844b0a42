package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopApply(ctx context.Context, rc *RunContext) error { return nil }

func TestRegisterRejectsDuplicates(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	require.NoError(t, reg.Register(Step{ID: "a", Apply: noopApply}))

	err := reg.Register(Step{ID: "a", Apply: noopApply})
	require.ErrorIs(t, err, ErrConfiguration)
	assert.Contains(t, err.Error(), `"a"`)
}

func TestRegisterRejectsInvalidSteps(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	assert.ErrorIs(t, reg.Register(Step{Apply: noopApply}), ErrConfiguration)
	assert.ErrorIs(t, reg.Register(Step{ID: "b"}), ErrConfiguration)
}

func TestResolveDependenciesUnknown(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	require.NoError(t, reg.Register(Step{ID: "a", DependsOn: []string{"ghost"}, Apply: noopApply}))

	err := reg.ResolveDependencies()
	require.ErrorIs(t, err, ErrConfiguration)
	assert.Contains(t, err.Error(), `"ghost"`)
}

func TestStepsPreserveRegistrationOrder(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, reg.Register(Step{ID: id, Apply: noopApply}))
	}

	var got []string
	for _, s := range reg.Steps() {
		got = append(got, s.ID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, got)
	assert.Equal(t, 3, reg.Len())

	s, ok := reg.Step("a")
	require.True(t, ok)
	assert.Equal(t, "a", s.ID)

	_, ok = reg.Step("ghost")
	assert.False(t, ok)
}

func TestMustRegisterPanics(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.MustRegister(Step{ID: "a", Apply: noopApply})
	assert.Panics(t, func() {
		reg.MustRegister(Step{ID: "a", Apply: noopApply})
	})
}
