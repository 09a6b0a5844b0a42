package engine

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		report Report
		want   Status
	}{
		{
			name: "all applied",
			report: Report{Results: []StepResult{
				{ID: "a", Outcome: OutcomeApplied},
				{ID: "b", Outcome: OutcomeSkipped},
			}},
			want: StatusProvisioned,
		},
		{
			name: "non-fatal failure without abort",
			report: Report{Results: []StepResult{
				{ID: "a", Outcome: OutcomeApplied},
				{ID: "b", Outcome: OutcomeFailed},
			}},
			want: StatusPartial,
		},
		{
			name: "aborted with clean rollback",
			report: Report{Aborted: true, Results: []StepResult{
				{ID: "a", Outcome: OutcomeRolledBack},
				{ID: "b", Outcome: OutcomeFailed},
			}},
			want: StatusAbortedClean,
		},
		{
			name: "aborted with failed rollback",
			report: Report{Aborted: true, Results: []StepResult{
				{ID: "a", Outcome: OutcomeRolledBack, RollbackErr: "rm failed"},
				{ID: "b", Outcome: OutcomeFailed},
			}},
			want: StatusAbortedDirty,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.report.Status())
		})
	}
}

func TestReportFirstFailure(t *testing.T) {
	t.Parallel()

	r := Report{Results: []StepResult{
		{ID: "a", Outcome: OutcomeApplied},
		{ID: "b", Outcome: OutcomeFailed},
		{ID: "c", Outcome: OutcomeFailed},
	}}

	id, ok := r.FirstFailure()
	require.True(t, ok)
	assert.Equal(t, "b", id)

	_, ok = (&Report{}).FirstFailure()
	assert.False(t, ok)
}

func TestReportSatisfied(t *testing.T) {
	t.Parallel()

	r := Report{Results: []StepResult{
		{ID: "a", Outcome: OutcomeApplied},
		{ID: "b", Outcome: OutcomeSkipped},
		{ID: "c", Outcome: OutcomeFailed},
		{ID: "d", Outcome: OutcomeRolledBack},
	}}

	assert.True(t, r.Satisfied("a"))
	assert.True(t, r.Satisfied("b"))
	assert.False(t, r.Satisfied("c"))
	assert.False(t, r.Satisfied("d"))
	assert.False(t, r.Satisfied("ghost"))
}

func TestReportSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "report.yaml")
	orig := &Report{
		StartedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2025, 6, 1, 12, 5, 0, 0, time.UTC),
		Aborted:    true,
		Results: []StepResult{
			{ID: "a", Label: "Step A", Outcome: OutcomeRolledBack, Duration: 3 * time.Second},
			{ID: "b", Label: "Step B", Outcome: OutcomeFailed, Err: "broke"},
		},
	}
	require.NoError(t, orig.Save(path))

	loaded, err := LoadReport(path)
	require.NoError(t, err)
	assert.Equal(t, orig, loaded)
	assert.Equal(t, StatusAbortedClean, loaded.Status())
}

func TestLoadReportMissing(t *testing.T) {
	t.Parallel()

	_, err := LoadReport(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
