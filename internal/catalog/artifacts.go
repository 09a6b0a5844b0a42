package catalog

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/example/nodestrap/internal/config"
	"github.com/example/nodestrap/internal/engine"
	"github.com/example/nodestrap/internal/host"
)

func registerArtifactSteps(reg *engine.Registry) {
	reg.MustRegister(engine.Step{
		ID:        "write-env-file",
		Label:     "Write example environment file",
		Category:  engine.CategoryArtifact,
		DependsOn: []string{"create-app-dir"},
		Check: func(ctx context.Context, rc *engine.RunContext) (engine.Presence, error) {
			if host.PathExists(envFilePath(rc.Config)) {
				return engine.PresencePresent, nil
			}
			return engine.PresenceAbsent, nil
		},
		Apply: func(ctx context.Context, rc *engine.RunContext) error {
			text, err := renderTemplate("env.example.tmpl", renderData(rc.Config))
			if err != nil {
				return fmt.Errorf("render env file: %w", err)
			}
			target := envFilePath(rc.Config)
			if err := rc.FS.WriteFile(target, []byte(text), 0o640); err != nil {
				return err
			}
			return chownToAppUser(ctx, rc, target)
		},
		Rollback: func(ctx context.Context, rc *engine.RunContext) error {
			return rc.FS.Remove(envFilePath(rc.Config))
		},
	})

	reg.MustRegister(engine.Step{
		ID:        "write-deploy-script",
		Label:     "Write deployment helper script",
		Category:  engine.CategoryArtifact,
		DependsOn: []string{"create-app-dir", "install-pm2"},
		Check: func(ctx context.Context, rc *engine.RunContext) (engine.Presence, error) {
			if host.PathExists(deployScriptPath(rc.Config)) {
				return engine.PresencePresent, nil
			}
			return engine.PresenceAbsent, nil
		},
		Apply: func(ctx context.Context, rc *engine.RunContext) error {
			text, err := renderTemplate("deploy.sh.tmpl", renderData(rc.Config))
			if err != nil {
				return fmt.Errorf("render deploy script: %w", err)
			}
			target := deployScriptPath(rc.Config)
			if err := rc.FS.WriteFile(target, []byte(text), 0o750); err != nil {
				return err
			}
			return chownToAppUser(ctx, rc, target)
		},
		Rollback: func(ctx context.Context, rc *engine.RunContext) error {
			return rc.FS.Remove(deployScriptPath(rc.Config))
		},
	})
}

func envFilePath(cfg config.Configuration) string {
	return filepath.Join(cfg.AppDir, ".env.example")
}

func deployScriptPath(cfg config.Configuration) string {
	return filepath.Join(cfg.AppDir, "deploy.sh")
}

func chownToAppUser(ctx context.Context, rc *engine.RunContext, path string) error {
	owner := rc.Config.AppUser + ":" + rc.Config.AppUser
	return run(ctx, rc, "chown", owner, path)
}
