package engine

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Outcome is the terminal state of one step.
type Outcome string

const (
	// OutcomeSkipped: the idempotency check found the effect present,
	// or a resumed report already recorded the step.
	OutcomeSkipped Outcome = "skipped"
	OutcomeApplied Outcome = "applied"
	OutcomeFailed  Outcome = "failed"
	// OutcomeRolledBack: applied earlier in the run, undone during
	// the failure unwind.
	OutcomeRolledBack Outcome = "rolled-back"
)

// Status summarizes a whole run.
type Status string

const (
	// StatusProvisioned: every planned step applied or skipped.
	StatusProvisioned Status = "provisioned"
	// StatusPartial: a non-fatal step failed but the run continued.
	StatusPartial Status = "partial"
	// StatusAbortedClean: a step failed and every applied step was
	// rolled back.
	StatusAbortedClean Status = "aborted-clean"
	// StatusAbortedDirty: a step failed and at least one rollback
	// also failed; the host may need manual cleanup.
	StatusAbortedDirty Status = "aborted-dirty"
)

// StepResult records one step's outcome.
type StepResult struct {
	ID          string        `yaml:"id" json:"id"`
	Label       string        `yaml:"label" json:"label"`
	Outcome     Outcome       `yaml:"outcome" json:"outcome"`
	Err         string        `yaml:"error,omitempty" json:"error,omitempty"`
	RollbackErr string        `yaml:"rollback_error,omitempty" json:"rollback_error,omitempty"`
	StartedAt   time.Time     `yaml:"started_at" json:"started_at"`
	Duration    time.Duration `yaml:"duration" json:"duration"`
}

// Report accumulates StepResults during a run; read-only afterwards.
type Report struct {
	StartedAt  time.Time    `yaml:"started_at" json:"started_at"`
	FinishedAt time.Time    `yaml:"finished_at" json:"finished_at"`
	DryRun     bool         `yaml:"dry_run,omitempty" json:"dry_run,omitempty"`
	Aborted    bool         `yaml:"aborted,omitempty" json:"aborted,omitempty"`
	Results    []StepResult `yaml:"results" json:"results"`
}

func (r *Report) append(res StepResult) {
	r.Results = append(r.Results, res)
}

// Result returns the recorded result for a step, if any.
func (r *Report) Result(id string) (StepResult, bool) {
	for _, res := range r.Results {
		if res.ID == id {
			return res, true
		}
	}
	return StepResult{}, false
}

// Satisfied reports whether a prior run already handled the step,
// which is what --resume skips on.
func (r *Report) Satisfied(id string) bool {
	res, ok := r.Result(id)
	return ok && (res.Outcome == OutcomeApplied || res.Outcome == OutcomeSkipped)
}

// Status derives the run summary from the recorded outcomes.
func (r *Report) Status() Status {
	failed := false
	dirty := false
	for _, res := range r.Results {
		switch res.Outcome {
		case OutcomeFailed, OutcomeRolledBack:
			if res.Outcome == OutcomeFailed {
				failed = true
			}
			if res.RollbackErr != "" {
				dirty = true
			}
		}
	}
	switch {
	case !failed:
		return StatusProvisioned
	case dirty:
		return StatusAbortedDirty
	case r.Aborted:
		return StatusAbortedClean
	default:
		return StatusPartial
	}
}

// FirstFailure returns the identifier of the first failed step.
func (r *Report) FirstFailure() (string, bool) {
	for _, res := range r.Results {
		if res.Outcome == OutcomeFailed {
			return res.ID, true
		}
	}
	return "", false
}

// Summary is the one-line human verdict.
func (r *Report) Summary() string {
	switch r.Status() {
	case StatusProvisioned:
		return "fully provisioned"
	case StatusPartial:
		id, _ := r.FirstFailure()
		return fmt.Sprintf("partially provisioned, see step %s", id)
	case StatusAbortedDirty:
		id, _ := r.FirstFailure()
		return fmt.Sprintf("aborted at step %s, rollback incomplete: manual cleanup may be required", id)
	default:
		id, _ := r.FirstFailure()
		return fmt.Sprintf("aborted at step %s, rolled back to clean state", id)
	}
}

// Save persists the report for later --resume runs.
func (r *Report) Save(path string) error {
	out, err := yaml.Marshal(r)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o640)
}

// LoadReport reads a previously saved report.
func LoadReport(path string) (*Report, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rep Report
	if err := yaml.Unmarshal(b, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}
