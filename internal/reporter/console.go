package reporter

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/example/nodestrap/internal/engine"
)

// Console prints one line per step as it finishes, in the same
// bracketed tag style the doctor checks use.
type Console struct {
	w io.Writer
}

func NewConsole() *Console {
	return &Console{w: os.Stdout}
}

// NewConsoleTo writes to w instead of stdout.
func NewConsoleTo(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) PlanHeader(plan engine.ExecutionPlan, reg *engine.Registry) {
	fmt.Fprintf(c.w, "Plan: %d steps\n", plan.Len())
	for i, id := range plan.StepIDs {
		label := id
		if s, ok := reg.Step(id); ok {
			label = s.Label
		}
		fmt.Fprintf(c.w, "  %2d. %-22s %s\n", i+1, id, label)
	}
	fmt.Fprintln(c.w)
}

func (c *Console) StepStarted(id, label string) {
	fmt.Fprintf(c.w, "--> %s\n", label)
}

func (c *Console) StepFinished(res engine.StepResult) {
	switch res.Outcome {
	case engine.OutcomeApplied:
		fmt.Fprintf(c.w, "[ OK ] %-22s applied in %s\n", res.ID, res.Duration.Round(time.Millisecond))
	case engine.OutcomeSkipped:
		fmt.Fprintf(c.w, "[SKIP] %-22s already in place\n", res.ID)
	case engine.OutcomeFailed:
		fmt.Fprintf(c.w, "[FAIL] %-22s %s\n", res.ID, res.Err)
	}
}

func (c *Console) RollbackStarted(id string) {
	fmt.Fprintf(c.w, "<-- rolling back %s\n", id)
}

func (c *Console) RollbackFinished(id string, err error) {
	if err != nil {
		fmt.Fprintf(c.w, "[WARN] rollback of %s failed: %v\n", id, err)
		return
	}
	fmt.Fprintf(c.w, "[ OK ] rolled back %s\n", id)
}

func (c *Console) Finish(report *engine.Report) {
	fmt.Fprintln(c.w)
	fmt.Fprintf(c.w, "Status: %s (%s)\n", report.Status(), report.Summary())
	if report.DryRun {
		fmt.Fprintln(c.w, "Dry run: no commands were executed.")
	}
}
