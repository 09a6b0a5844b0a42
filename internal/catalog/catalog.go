// Package catalog defines the fixed set of provisioning steps. The
// engine stays generic; everything Ubuntu- or Node-specific lives
// here.
package catalog

import (
	"context"
	"fmt"

	"github.com/example/nodestrap/internal/engine"
)

// Build assembles the step registry in its canonical registration
// order, which is also the tie-break order for planning.
func Build() *engine.Registry {
	reg := engine.NewRegistry()

	registerSystemSteps(reg)
	registerRuntimeSteps(reg)
	registerDatabaseSteps(reg)
	registerWebServerSteps(reg)
	registerAddonSteps(reg)
	registerFirewallSteps(reg)
	registerArtifactSteps(reg)

	return reg
}

// run executes a command and turns a non-zero exit into an error
// carrying the captured output.
func run(ctx context.Context, rc *engine.RunContext, name string, args ...string) error {
	res, err := rc.Runner.Run(ctx, name, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if !res.Success() {
		return fmt.Errorf("%s exited %d: %s", name, res.ExitCode, res.Output())
	}
	return nil
}

// runInput is run with data piped to stdin; secrets go this way.
func runInput(ctx context.Context, rc *engine.RunContext, input, name string, args ...string) error {
	res, err := rc.Runner.RunInput(ctx, input, name, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if !res.Success() {
		return fmt.Errorf("%s exited %d: %s", name, res.ExitCode, res.Output())
	}
	return nil
}

// aptInstall installs packages non-interactively.
func aptInstall(ctx context.Context, rc *engine.RunContext, pkgs ...string) error {
	args := append([]string{"DEBIAN_FRONTEND=noninteractive", "apt-get", "install", "-y"}, pkgs...)
	return run(ctx, rc, "env", args...)
}

// aptPurge removes packages during rollback.
func aptPurge(ctx context.Context, rc *engine.RunContext, pkgs ...string) error {
	args := append([]string{"DEBIAN_FRONTEND=noninteractive", "apt-get", "purge", "-y"}, pkgs...)
	return run(ctx, rc, "env", args...)
}

// systemctl wraps service manager calls.
func systemctl(ctx context.Context, rc *engine.RunContext, args ...string) error {
	return run(ctx, rc, "systemctl", args...)
}
