package engine

// Registry holds the step catalog. It preserves registration order,
// which the planner's stable sort relies on.
type Registry struct {
	steps []Step
	byID  map[string]int
}

func NewRegistry() *Registry {
	return &Registry{byID: map[string]int{}}
}

// Register adds a step; a duplicate identifier is a configuration
// error.
func (r *Registry) Register(s Step) error {
	if s.ID == "" {
		return configErrorf("step identifier is required")
	}
	if _, exists := r.byID[s.ID]; exists {
		return configErrorf("duplicate step identifier %q", s.ID)
	}
	if s.Apply == nil {
		return configErrorf("step %q has no apply action", s.ID)
	}
	r.byID[s.ID] = len(r.steps)
	r.steps = append(r.steps, s)
	return nil
}

// MustRegister panics on registration failure; the catalog is fixed
// at startup, so a failure here is a programming error.
func (r *Registry) MustRegister(s Step) {
	if err := r.Register(s); err != nil {
		panic(err)
	}
}

// ResolveDependencies verifies every declared dependency references
// a registered step.
func (r *Registry) ResolveDependencies() error {
	for _, s := range r.steps {
		for _, dep := range s.DependsOn {
			if _, ok := r.byID[dep]; !ok {
				return configErrorf("step %q depends on unknown step %q", s.ID, dep)
			}
		}
	}
	return nil
}

// Step returns a registered step by identifier.
func (r *Registry) Step(id string) (Step, bool) {
	idx, ok := r.byID[id]
	if !ok {
		return Step{}, false
	}
	return r.steps[idx], true
}

// Steps returns all steps in registration order.
func (r *Registry) Steps() []Step {
	out := make([]Step, len(r.steps))
	copy(out, r.steps)
	return out
}

// Len reports the number of registered steps.
func (r *Registry) Len() int { return len(r.steps) }
