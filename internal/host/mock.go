package host

import (
	"context"
	"strings"
)

// MockRunner is an in-memory Runner for tests. Results are keyed by
// the full command line; unmatched commands succeed with empty output
// unless DefaultFail is set.
type MockRunner struct {
	Results     map[string]Result
	Errs        map[string]error
	Calls       []string
	Inputs      map[string]string
	DefaultFail bool
}

func NewMockRunner() *MockRunner {
	return &MockRunner{
		Results: map[string]Result{},
		Errs:    map[string]error{},
		Inputs:  map[string]string{},
	}
}

func commandLine(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}

// Stub registers a canned result for the given command line.
func (r *MockRunner) Stub(line string, res Result) {
	r.Results[line] = res
}

// StubErr makes the given command line return an execution error.
func (r *MockRunner) StubErr(line string, err error) {
	r.Errs[line] = err
}

func (r *MockRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	return r.RunInput(ctx, "", name, args...)
}

func (r *MockRunner) RunInput(ctx context.Context, input, name string, args ...string) (Result, error) {
	line := commandLine(name, args)
	r.Calls = append(r.Calls, line)
	if input != "" {
		r.Inputs[line] = input
	}
	if err, ok := r.Errs[line]; ok {
		return Result{ExitCode: -1}, err
	}
	if res, ok := r.Results[line]; ok {
		return res, nil
	}
	if r.DefaultFail {
		return Result{ExitCode: 1}, nil
	}
	return Result{ExitCode: 0}, nil
}

// Ran reports whether a command line containing the fragment was run.
func (r *MockRunner) Ran(fragment string) bool {
	for _, c := range r.Calls {
		if strings.Contains(c, fragment) {
			return true
		}
	}
	return false
}

var _ Runner = (*MockRunner)(nil)
