// Package engine is the provisioning core: a registry of declarative
// steps, a deterministic planner, and a sequential executor with
// rollback-on-failure.
package engine

import (
	"context"

	"github.com/example/nodestrap/internal/config"
	"github.com/example/nodestrap/internal/host"
)

// Presence is the answer of an idempotency predicate.
type Presence int

const (
	// PresenceUnknown means the check could not decide; the step runs.
	PresenceUnknown Presence = iota
	// PresenceAbsent means the effect is missing; the step runs.
	PresenceAbsent
	// PresencePresent means the effect already exists; the step is skipped.
	PresencePresent
)

// Category groups steps for display.
type Category string

const (
	CategorySystem    Category = "system"
	CategoryRuntime   Category = "runtime"
	CategoryDatabase  Category = "database"
	CategoryWebServer Category = "webserver"
	CategoryAddon     Category = "addon"
	CategoryFirewall  Category = "firewall"
	CategoryArtifact  Category = "artifact"
)

// RunContext is everything a step action may touch on the host.
type RunContext struct {
	Runner host.Runner
	FS     host.FS
	Config config.Configuration
}

// CheckFunc decides whether a step's effect is already present.
type CheckFunc func(ctx context.Context, rc *RunContext) (Presence, error)

// ActionFunc applies or rolls back a step's effect.
type ActionFunc func(ctx context.Context, rc *RunContext) error

// Step is one unit of provisioning work.
type Step struct {
	// ID is unique within a registry; DependsOn references other IDs.
	ID        string
	Label     string
	Category  Category
	DependsOn []string

	// When selects the step for a configuration; nil means always.
	When func(cfg config.Configuration) bool

	// Check is the idempotency predicate; nil means always unknown,
	// so the step runs every time.
	Check CheckFunc

	Apply ActionFunc

	// Rollback undoes Apply during a failure unwind. Optional.
	Rollback ActionFunc

	// NonFatal steps may fail without aborting the rest of the plan
	// when the executor runs with KeepGoing.
	NonFatal bool
}

func (s Step) selected(cfg config.Configuration) bool {
	return s.When == nil || s.When(cfg)
}
