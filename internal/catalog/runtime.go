package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/nodestrap/internal/engine"
	"github.com/example/nodestrap/internal/host"
)

func registerRuntimeSteps(reg *engine.Registry) {
	reg.MustRegister(engine.Step{
		ID:        "install-node",
		Label:     "Install Node.js runtime",
		Category:  engine.CategoryRuntime,
		DependsOn: []string{"apt-update"},
		Check: func(ctx context.Context, rc *engine.RunContext) (engine.Presence, error) {
			if !host.CommandExists(ctx, rc.Runner, "node") {
				return engine.PresenceAbsent, nil
			}
			res, err := rc.Runner.Run(ctx, "node", "--version")
			if err != nil || !res.Success() {
				return engine.PresenceUnknown, err
			}
			// v20.11.1 -> major "20"
			version := strings.TrimPrefix(strings.TrimSpace(res.Stdout), "v")
			if strings.HasPrefix(version, rc.Config.NodeVersion+".") {
				return engine.PresencePresent, nil
			}
			return engine.PresenceAbsent, nil
		},
		Apply: func(ctx context.Context, rc *engine.RunContext) error {
			setup := fmt.Sprintf("curl -fsSL https://deb.nodesource.com/setup_%s.x | bash -", rc.Config.NodeVersion)
			if err := run(ctx, rc, "bash", "-c", setup); err != nil {
				return err
			}
			return aptInstall(ctx, rc, "nodejs")
		},
		Rollback: func(ctx context.Context, rc *engine.RunContext) error {
			return aptPurge(ctx, rc, "nodejs")
		},
	})

	reg.MustRegister(engine.Step{
		ID:        "install-pm2",
		Label:     "Install pm2 process manager",
		Category:  engine.CategoryRuntime,
		DependsOn: []string{"install-node"},
		Check: func(ctx context.Context, rc *engine.RunContext) (engine.Presence, error) {
			if host.CommandExists(ctx, rc.Runner, "pm2") {
				return engine.PresencePresent, nil
			}
			return engine.PresenceAbsent, nil
		},
		Apply: func(ctx context.Context, rc *engine.RunContext) error {
			return run(ctx, rc, "npm", "install", "-g", "pm2")
		},
		Rollback: func(ctx context.Context, rc *engine.RunContext) error {
			return run(ctx, rc, "npm", "uninstall", "-g", "pm2")
		},
	})

	reg.MustRegister(engine.Step{
		ID:        "pm2-startup",
		Label:     "Enable pm2 boot persistence",
		Category:  engine.CategoryRuntime,
		DependsOn: []string{"install-pm2", "create-app-user"},
		Check: func(ctx context.Context, rc *engine.RunContext) (engine.Presence, error) {
			unit := fmt.Sprintf("pm2-%s.service", rc.Config.AppUser)
			if host.UnitEnabled(ctx, rc.Runner, unit) {
				return engine.PresencePresent, nil
			}
			return engine.PresenceAbsent, nil
		},
		Apply: func(ctx context.Context, rc *engine.RunContext) error {
			home := "/home/" + rc.Config.AppUser
			return run(ctx, rc, "pm2", "startup", "systemd", "-u", rc.Config.AppUser, "--hp", home)
		},
		Rollback: func(ctx context.Context, rc *engine.RunContext) error {
			return run(ctx, rc, "pm2", "unstartup", "systemd", "-u", rc.Config.AppUser)
		},
	})
}
