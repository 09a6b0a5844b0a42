package cli

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/nodestrap/internal/catalog"
	"github.com/example/nodestrap/internal/config"
	"github.com/example/nodestrap/internal/engine"
	"github.com/example/nodestrap/internal/host"
	"github.com/example/nodestrap/internal/reporter"
)

// Mutates provisionFlags, so no t.Parallel.
func TestExecuteRunCancelledContextUnwinds(t *testing.T) {
	cfg, err := config.Resolve(config.Answers{Domain: "example.com", Database: "none"})
	require.NoError(t, err)

	reg := catalog.Build()
	plan, err := engine.Plan(cfg, reg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	provisionFlags.reportPath = filepath.Join(t.TempDir(), "report.yaml")
	rc := &engine.RunContext{Runner: host.NewMockRunner(), FS: host.NewMemFS(), Config: cfg}

	err = executeRun(ctx, reg, plan, rc, reporter.NewConsoleTo(io.Discard))
	var rerr *runError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, 4, exitCode(err))

	// The aborted report still lands on disk for --resume.
	report, err := engine.LoadReport(provisionFlags.reportPath)
	require.NoError(t, err)
	assert.True(t, report.Aborted)
	assert.Equal(t, engine.StatusAbortedClean, report.Status())

	res := report.Results[0]
	assert.Equal(t, engine.OutcomeFailed, res.Outcome)
	assert.Contains(t, res.Err, "cancelled")
}
