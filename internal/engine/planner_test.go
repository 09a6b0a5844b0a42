package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/nodestrap/internal/config"
)

func plannerRegistry(t *testing.T, steps ...Step) *Registry {
	t.Helper()
	reg := NewRegistry()
	for _, s := range steps {
		if s.Apply == nil {
			s.Apply = noopApply
		}
		require.NoError(t, reg.Register(s))
	}
	return reg
}

func TestPlanOrdersByDependency(t *testing.T) {
	t.Parallel()

	reg := plannerRegistry(t,
		Step{ID: "site", DependsOn: []string{"server"}},
		Step{ID: "server", DependsOn: []string{"update"}},
		Step{ID: "update"},
	)

	plan, err := Plan(config.Configuration{}, reg)
	require.NoError(t, err)
	assert.Equal(t, []string{"update", "server", "site"}, plan.StepIDs)
}

func TestPlanStableTieBreak(t *testing.T) {
	t.Parallel()

	// All independent; the plan must follow registration order.
	reg := plannerRegistry(t,
		Step{ID: "b"},
		Step{ID: "a"},
		Step{ID: "c"},
	)

	first, err := Plan(config.Configuration{}, reg)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, first.StepIDs)

	// Identical input, identical plan.
	second, err := Plan(config.Configuration{}, reg)
	require.NoError(t, err)
	assert.Equal(t, first.StepIDs, second.StepIDs)
}

func TestPlanFiltersByWhen(t *testing.T) {
	t.Parallel()

	reg := plannerRegistry(t,
		Step{ID: "always"},
		Step{ID: "postgres", When: func(c config.Configuration) bool { return c.Database == config.DBPostgreSQL }},
	)

	plan, err := Plan(config.Configuration{Database: config.DBMySQL}, reg)
	require.NoError(t, err)
	assert.Equal(t, []string{"always"}, plan.StepIDs)
}

func TestPlanAutoIncludesDependencies(t *testing.T) {
	t.Parallel()

	// "docker" deselects itself, but "mongo" needs it transitively.
	reg := plannerRegistry(t,
		Step{ID: "base", When: func(config.Configuration) bool { return false }},
		Step{ID: "docker", DependsOn: []string{"base"}, When: func(config.Configuration) bool { return false }},
		Step{ID: "mongo", DependsOn: []string{"docker"}},
	)

	plan, err := Plan(config.Configuration{}, reg)
	require.NoError(t, err)
	assert.Equal(t, []string{"base", "docker", "mongo"}, plan.StepIDs)
}

func TestPlanCycle(t *testing.T) {
	t.Parallel()

	reg := plannerRegistry(t,
		Step{ID: "a", DependsOn: []string{"b"}},
		Step{ID: "b", DependsOn: []string{"a"}},
		Step{ID: "ok"},
	)

	_, err := Plan(config.Configuration{}, reg)
	require.ErrorIs(t, err, ErrCycle)

	var cerr *CycleError
	require.ErrorAs(t, err, &cerr)
	assert.ElementsMatch(t, []string{"a", "b"}, cerr.Members)
}

func TestPlanUnknownDependency(t *testing.T) {
	t.Parallel()

	reg := plannerRegistry(t, Step{ID: "a", DependsOn: []string{"ghost"}})

	_, err := Plan(config.Configuration{}, reg)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestPlanContains(t *testing.T) {
	t.Parallel()

	plan := ExecutionPlan{StepIDs: []string{"a", "b"}}
	assert.True(t, plan.Contains("a"))
	assert.False(t, plan.Contains("c"))
	assert.Equal(t, 2, plan.Len())
}
