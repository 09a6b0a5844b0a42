// Package reporter renders execution progress and the final verdict
// for the CLI. The console reporter is for humans; the json reporter
// is for machines driving the tool from scripts.
package reporter

import (
	"fmt"

	"github.com/example/nodestrap/internal/engine"
)

// Reporter consumes executor events and prints a final summary. It
// extends engine.Observer so it can be handed straight to the
// executor options.
type Reporter interface {
	engine.Observer
	PlanHeader(plan engine.ExecutionPlan, reg *engine.Registry)
	Finish(report *engine.Report)
}

// New returns the reporter for the given output format. An empty
// format means console.
func New(format string) (Reporter, error) {
	switch format {
	case "", "console":
		return NewConsole(), nil
	case "json":
		return NewJSON(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}
