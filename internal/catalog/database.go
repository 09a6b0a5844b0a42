package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/example/nodestrap/internal/config"
	"github.com/example/nodestrap/internal/engine"
	"github.com/example/nodestrap/internal/host"
)

func registerDatabaseSteps(reg *engine.Registry) {
	reg.MustRegister(engine.Step{
		ID:        "install-postgresql",
		Label:     "Install PostgreSQL",
		Category:  engine.CategoryDatabase,
		DependsOn: []string{"apt-update", "create-app-user"},
		When: func(cfg config.Configuration) bool {
			return cfg.Database == config.DBPostgreSQL
		},
		Check: func(ctx context.Context, rc *engine.RunContext) (engine.Presence, error) {
			if host.CommandExists(ctx, rc.Runner, "psql") {
				return engine.PresencePresent, nil
			}
			return engine.PresenceAbsent, nil
		},
		Apply: func(ctx context.Context, rc *engine.RunContext) error {
			if err := aptInstall(ctx, rc, "postgresql", "postgresql-contrib"); err != nil {
				return err
			}
			if err := systemctl(ctx, rc, "enable", "--now", "postgresql"); err != nil {
				return err
			}
			// Role and database for the app; the password travels on
			// stdin, never in the argument list.
			sql := fmt.Sprintf(
				"CREATE USER %s WITH PASSWORD '%s';\nCREATE DATABASE %s OWNER %s;\n",
				rc.Config.AppUser, rc.Config.DBPassword.Value(), rc.Config.AppUser, rc.Config.AppUser)
			return runInput(ctx, rc, sql, "sudo", "-u", "postgres", "psql")
		},
		Rollback: func(ctx context.Context, rc *engine.RunContext) error {
			return aptPurge(ctx, rc, "postgresql", "postgresql-contrib")
		},
	})

	reg.MustRegister(engine.Step{
		ID:        "install-mysql",
		Label:     "Install MySQL",
		Category:  engine.CategoryDatabase,
		DependsOn: []string{"apt-update", "create-app-user"},
		When: func(cfg config.Configuration) bool {
			return cfg.Database == config.DBMySQL
		},
		Check: func(ctx context.Context, rc *engine.RunContext) (engine.Presence, error) {
			if host.CommandExists(ctx, rc.Runner, "mysql") {
				return engine.PresencePresent, nil
			}
			return engine.PresenceAbsent, nil
		},
		Apply: func(ctx context.Context, rc *engine.RunContext) error {
			if err := aptInstall(ctx, rc, "mysql-server"); err != nil {
				return err
			}
			if err := systemctl(ctx, rc, "enable", "--now", "mysql"); err != nil {
				return err
			}
			sql := fmt.Sprintf(
				"CREATE USER IF NOT EXISTS '%s'@'localhost' IDENTIFIED BY '%s';\n"+
					"CREATE DATABASE IF NOT EXISTS %s;\n"+
					"GRANT ALL PRIVILEGES ON %s.* TO '%s'@'localhost';\nFLUSH PRIVILEGES;\n",
				rc.Config.AppUser, rc.Config.DBPassword.Value(),
				rc.Config.AppUser, rc.Config.AppUser, rc.Config.AppUser)
			return runInput(ctx, rc, sql, "mysql")
		},
		Rollback: func(ctx context.Context, rc *engine.RunContext) error {
			return aptPurge(ctx, rc, "mysql-server")
		},
	})

	reg.MustRegister(engine.Step{
		ID:        "install-mongodb",
		Label:     "Install MongoDB from repository",
		Category:  engine.CategoryDatabase,
		DependsOn: []string{"apt-update"},
		When: func(cfg config.Configuration) bool {
			return cfg.Database == config.DBMongoDB && !cfg.MongoViaDocker()
		},
		Check: func(ctx context.Context, rc *engine.RunContext) (engine.Presence, error) {
			if host.CommandExists(ctx, rc.Runner, "mongod") {
				return engine.PresencePresent, nil
			}
			return engine.PresenceAbsent, nil
		},
		Apply: func(ctx context.Context, rc *engine.RunContext) error {
			if err := aptInstall(ctx, rc, "mongodb-org"); err != nil {
				// The upstream repo may not be configured; fall back to
				// the distribution package.
				if err2 := aptInstall(ctx, rc, "mongodb"); err2 != nil {
					return err
				}
			}
			return systemctl(ctx, rc, "enable", "--now", "mongod")
		},
		Rollback: func(ctx context.Context, rc *engine.RunContext) error {
			return aptPurge(ctx, rc, "mongodb-org", "mongodb")
		},
	})

	reg.MustRegister(engine.Step{
		ID:        "mongodb-container",
		Label:     "Run MongoDB as a pinned container",
		Category:  engine.CategoryDatabase,
		DependsOn: []string{"install-docker", "create-app-dir"},
		When: func(cfg config.Configuration) bool {
			return cfg.MongoViaDocker()
		},
		Check: func(ctx context.Context, rc *engine.RunContext) (engine.Presence, error) {
			res, err := rc.Runner.Run(ctx, "docker", "ps", "-q", "--filter", "name="+rc.Config.AppUser+"-mongodb")
			if err != nil || !res.Success() {
				return engine.PresenceUnknown, err
			}
			if strings.TrimSpace(res.Stdout) != "" {
				return engine.PresencePresent, nil
			}
			return engine.PresenceAbsent, nil
		},
		Apply: func(ctx context.Context, rc *engine.RunContext) error {
			text, err := renderTemplate("mongo-compose.yml.tmpl", renderData(rc.Config))
			if err != nil {
				return fmt.Errorf("render mongo compose: %w", err)
			}
			target := mongoComposePath(rc.Config)
			if err := rc.FS.WriteFile(target, []byte(text), 0o640); err != nil {
				return err
			}
			return run(ctx, rc, "docker", "compose", "-f", target, "up", "-d")
		},
		Rollback: func(ctx context.Context, rc *engine.RunContext) error {
			target := mongoComposePath(rc.Config)
			if err := run(ctx, rc, "docker", "compose", "-f", target, "down", "--volumes"); err != nil {
				return err
			}
			return rc.FS.Remove(target)
		},
	})
}

func mongoComposePath(cfg config.Configuration) string {
	return filepath.Join(cfg.AppDir, "mongodb", "compose.yml")
}
