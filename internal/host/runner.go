// Package host is the boundary to the target machine: command
// execution, file writes, and existence probes. Everything the
// provisioning steps do to the host goes through the interfaces here,
// which is what makes dry-run and testing possible.
package host

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

// Result captures the outcome of one external command.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success reports whether the command exited with code 0.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Output returns combined trimmed output, preferring stderr for
// error reporting.
func (r Result) Output() string {
	out := strings.TrimSpace(r.Stderr)
	if out == "" {
		out = strings.TrimSpace(r.Stdout)
	}
	return out
}

// Runner executes external commands. RunInput feeds the given string
// to the command's stdin; secrets travel that way so they never
// appear in argument lists or logs.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
	RunInput(ctx context.Context, input, name string, args ...string) (Result, error)
}

// ExecRunner runs real commands on the host.
type ExecRunner struct{}

func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	return r.RunInput(ctx, "", name, args...)
}

func (r *ExecRunner) RunInput(ctx context.Context, input, name string, args ...string) (Result, error) {
	log.Debug().Str("command", name).Strs("args", args).Msg("running command")

	cmd := exec.CommandContext(ctx, name, args...)
	if input != "" {
		cmd.Stdin = strings.NewReader(input)
	}

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, err
	}
	return result, nil
}

// DryRunner logs what would run and reports success. Stdin input is
// never logged.
type DryRunner struct {
	Calls []string
}

func NewDryRunner() *DryRunner {
	return &DryRunner{}
}

func (r *DryRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	return r.RunInput(ctx, "", name, args...)
}

func (r *DryRunner) RunInput(ctx context.Context, _ string, name string, args ...string) (Result, error) {
	line := name
	if len(args) > 0 {
		line += " " + strings.Join(args, " ")
	}
	r.Calls = append(r.Calls, line)
	log.Info().Str("command", line).Msg("dry-run: would execute")
	return Result{ExitCode: 0}, nil
}

var (
	_ Runner = (*ExecRunner)(nil)
	_ Runner = (*DryRunner)(nil)
)
