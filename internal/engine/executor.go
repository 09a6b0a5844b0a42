package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultStepTimeout bounds a single apply action. Generous, because
// slow package mirrors are normal; a hung network stall is not.
const DefaultStepTimeout = 10 * time.Minute

// Observer receives lifecycle callbacks during execution. All methods
// are optional via NopObserver embedding.
type Observer interface {
	StepStarted(id, label string)
	StepFinished(res StepResult)
	RollbackStarted(id string)
	RollbackFinished(id string, err error)
}

// NopObserver ignores all events.
type NopObserver struct{}

func (NopObserver) StepStarted(string, string)     {}
func (NopObserver) StepFinished(StepResult)        {}
func (NopObserver) RollbackStarted(string)         {}
func (NopObserver) RollbackFinished(string, error) {}

// Options tune one execution pass.
type Options struct {
	// StepTimeout bounds each apply action; zero means
	// DefaultStepTimeout.
	StepTimeout time.Duration
	// KeepGoing lets steps marked NonFatal fail without aborting the
	// remaining plan.
	KeepGoing bool
	// Previous is a prior run's report; steps it already applied or
	// skipped are not re-run.
	Previous *Report
	// DryRun skips idempotency checks, so every planned apply runs
	// against the dry runner and is shown. It is also recorded in the
	// report so a resume cannot trust a dry run's outcomes.
	DryRun bool
	// Observer receives progress events; nil means none.
	Observer Observer
}

// Executor runs an ExecutionPlan strictly in order. Steps mutate
// shared host state, so there is no parallelism by design.
type Executor struct {
	registry *Registry
	opts     Options
}

func NewExecutor(reg *Registry, opts Options) *Executor {
	if opts.StepTimeout <= 0 {
		opts.StepTimeout = DefaultStepTimeout
	}
	if opts.Observer == nil {
		opts.Observer = NopObserver{}
	}
	return &Executor{registry: reg, opts: opts}
}

// Execute performs a single pass over the plan. For each step the
// idempotency check runs first; Present records Skipped, anything
// else applies. A fatal failure (or cancellation between steps)
// rolls back the already-applied steps in reverse order, best
// effort, and stops the run.
func (e *Executor) Execute(ctx context.Context, plan ExecutionPlan, rc *RunContext) *Report {
	report := &Report{StartedAt: time.Now().UTC(), DryRun: e.opts.DryRun}
	defer func() { report.FinishedAt = time.Now().UTC() }()

	var applied []Step

	for _, id := range plan.StepIDs {
		step, ok := e.registry.Step(id)
		if !ok {
			// Plans are derived from the same registry; a miss here is
			// a programming error.
			panic(fmt.Sprintf("step %q in plan but not in registry", id))
		}

		if err := ctx.Err(); err != nil {
			log.Warn().Str("step", id).Msg("cancelled before step, unwinding")
			e.record(report, StepResult{
				ID: id, Label: step.Label, Outcome: OutcomeFailed,
				Err: "cancelled: " + err.Error(), StartedAt: time.Now().UTC(),
			})
			e.unwind(rc, applied, report)
			report.Aborted = true
			return report
		}

		if e.opts.Previous != nil && e.opts.Previous.Satisfied(id) && !e.opts.Previous.DryRun {
			log.Debug().Str("step", id).Msg("satisfied by previous run")
			e.record(report, StepResult{
				ID: id, Label: step.Label, Outcome: OutcomeSkipped,
				StartedAt: time.Now().UTC(),
			})
			continue
		}

		res := e.runStep(ctx, step, rc)
		e.record(report, res)

		if res.Outcome != OutcomeFailed {
			if res.Outcome == OutcomeApplied {
				applied = append(applied, step)
			}
			continue
		}

		if step.NonFatal && e.opts.KeepGoing {
			log.Warn().Str("step", id).Str("error", res.Err).Msg("non-fatal step failed, continuing")
			continue
		}

		log.Error().Str("step", id).Str("error", res.Err).Msg("step failed, rolling back applied steps")
		e.unwind(rc, applied, report)
		report.Aborted = true
		return report
	}

	return report
}

func (e *Executor) runStep(ctx context.Context, step Step, rc *RunContext) StepResult {
	e.opts.Observer.StepStarted(step.ID, step.Label)
	start := time.Now().UTC()
	res := StepResult{ID: step.ID, Label: step.Label, StartedAt: start}
	defer func() {
		res.Duration = time.Since(start)
		e.opts.Observer.StepFinished(res)
	}()

	if step.Check != nil && !e.opts.DryRun {
		presence, err := step.Check(ctx, rc)
		if err != nil {
			log.Debug().Str("step", step.ID).Err(err).Msg("idempotency check errored, treating as unknown")
		} else if presence == PresencePresent {
			log.Info().Str("step", step.ID).Msg("already present, skipping")
			res.Outcome = OutcomeSkipped
			return res
		}
	}

	stepCtx, cancel := context.WithTimeout(ctx, e.opts.StepTimeout)
	defer cancel()

	if err := step.Apply(stepCtx, rc); err != nil {
		if stepCtx.Err() == context.DeadlineExceeded {
			err = fmt.Errorf("timed out after %s: %w", e.opts.StepTimeout, err)
		}
		res.Outcome = OutcomeFailed
		res.Err = err.Error()
		return res
	}

	log.Info().Str("step", step.ID).Msg("applied")
	res.Outcome = OutcomeApplied
	return res
}

// unwind rolls back applied steps in reverse order. A rollback
// failure is logged and recorded but never aborts the unwind. The
// unwind runs on a fresh context so cancellation of the run does not
// also cancel the cleanup.
func (e *Executor) unwind(rc *RunContext, applied []Step, report *Report) {
	for i := len(applied) - 1; i >= 0; i-- {
		step := applied[i]

		for j, res := range report.Results {
			if res.ID == step.ID {
				report.Results[j].Outcome = OutcomeRolledBack
			}
		}

		if step.Rollback == nil {
			continue
		}

		e.opts.Observer.RollbackStarted(step.ID)
		ctx, cancel := context.WithTimeout(context.Background(), e.opts.StepTimeout)
		err := step.Rollback(ctx, rc)
		cancel()
		e.opts.Observer.RollbackFinished(step.ID, err)

		if err != nil {
			log.Error().Str("step", step.ID).Err(err).Msg("rollback failed")
			for j, res := range report.Results {
				if res.ID == step.ID {
					report.Results[j].RollbackErr = err.Error()
				}
			}
		} else {
			log.Info().Str("step", step.ID).Msg("rolled back")
		}
	}
}

func (e *Executor) record(report *Report, res StepResult) {
	report.append(res)
}
