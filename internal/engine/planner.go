package engine

import (
	"github.com/example/nodestrap/internal/config"
)

// ExecutionPlan is a dependency-ordered, selection-filtered sequence
// of step identifiers. Immutable once produced.
type ExecutionPlan struct {
	StepIDs []string
}

// Len reports the number of planned steps.
func (p ExecutionPlan) Len() int { return len(p.StepIDs) }

// Contains reports whether the plan includes the step.
func (p ExecutionPlan) Contains(id string) bool {
	for _, s := range p.StepIDs {
		if s == id {
			return true
		}
	}
	return false
}

// Plan selects the steps applicable to cfg and orders them by
// dependency. Dependencies of selected steps are auto-included even
// when their own When predicate rejects the configuration; a step an
// operation needs is a step the plan gets. The sort is stable: among
// ready steps, registration order wins, so identical input always
// yields an identical plan.
func Plan(cfg config.Configuration, reg *Registry) (ExecutionPlan, error) {
	if err := reg.ResolveDependencies(); err != nil {
		return ExecutionPlan{}, err
	}

	steps := reg.Steps()

	selected := map[string]bool{}
	for _, s := range steps {
		if s.selected(cfg) {
			selected[s.ID] = true
		}
	}

	// Pull in transitive dependencies of everything selected.
	for changed := true; changed; {
		changed = false
		for _, s := range steps {
			if !selected[s.ID] {
				continue
			}
			for _, dep := range s.DependsOn {
				if !selected[dep] {
					selected[dep] = true
					changed = true
				}
			}
		}
	}

	// Kahn's algorithm over the selected subset. The ready scan walks
	// registration order each round instead of keeping a queue; the
	// catalog is small and this keeps the tie-break obvious.
	indegree := map[string]int{}
	for _, s := range steps {
		if !selected[s.ID] {
			continue
		}
		count := 0
		for _, dep := range s.DependsOn {
			if selected[dep] {
				count++
			}
		}
		indegree[s.ID] = count
	}

	ordered := make([]string, 0, len(indegree))
	placed := map[string]bool{}
	for len(ordered) < len(indegree) {
		progressed := false
		for _, s := range steps {
			if !selected[s.ID] || placed[s.ID] || indegree[s.ID] != 0 {
				continue
			}
			placed[s.ID] = true
			ordered = append(ordered, s.ID)
			for _, t := range steps {
				if !selected[t.ID] || placed[t.ID] {
					continue
				}
				for _, dep := range t.DependsOn {
					if dep == s.ID {
						indegree[t.ID]--
					}
				}
			}
			progressed = true
		}
		if !progressed {
			var members []string
			for _, s := range steps {
				if selected[s.ID] && !placed[s.ID] {
					members = append(members, s.ID)
				}
			}
			return ExecutionPlan{}, &CycleError{Members: members}
		}
	}

	return ExecutionPlan{StepIDs: ordered}, nil
}
