package catalog

import (
	"context"

	"github.com/example/nodestrap/internal/engine"
	"github.com/example/nodestrap/internal/host"
)

func registerSystemSteps(reg *engine.Registry) {
	reg.MustRegister(engine.Step{
		ID:       "apt-update",
		Label:    "Refresh package index",
		Category: engine.CategorySystem,
		Apply: func(ctx context.Context, rc *engine.RunContext) error {
			return run(ctx, rc, "env", "DEBIAN_FRONTEND=noninteractive", "apt-get", "update")
		},
	})

	reg.MustRegister(engine.Step{
		ID:       "create-app-user",
		Label:    "Create application user",
		Category: engine.CategorySystem,
		Check: func(ctx context.Context, rc *engine.RunContext) (engine.Presence, error) {
			if host.UserExists(ctx, rc.Runner, rc.Config.AppUser) {
				return engine.PresencePresent, nil
			}
			return engine.PresenceAbsent, nil
		},
		Apply: func(ctx context.Context, rc *engine.RunContext) error {
			return run(ctx, rc, "useradd", "--create-home", "--shell", "/bin/bash", rc.Config.AppUser)
		},
		Rollback: func(ctx context.Context, rc *engine.RunContext) error {
			return run(ctx, rc, "userdel", "--remove", rc.Config.AppUser)
		},
	})

	reg.MustRegister(engine.Step{
		ID:        "create-app-dir",
		Label:     "Create application directory",
		Category:  engine.CategorySystem,
		DependsOn: []string{"create-app-user"},
		Check: func(ctx context.Context, rc *engine.RunContext) (engine.Presence, error) {
			if host.DirExists(rc.Config.AppDir) {
				return engine.PresencePresent, nil
			}
			return engine.PresenceAbsent, nil
		},
		Apply: func(ctx context.Context, rc *engine.RunContext) error {
			return run(ctx, rc, "install", "-d", "-o", rc.Config.AppUser, "-g", rc.Config.AppUser, "-m", "0750", rc.Config.AppDir)
		},
		Rollback: func(ctx context.Context, rc *engine.RunContext) error {
			return run(ctx, rc, "rm", "-rf", rc.Config.AppDir)
		},
	})
}
