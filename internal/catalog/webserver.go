package catalog

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/example/nodestrap/internal/config"
	"github.com/example/nodestrap/internal/engine"
	"github.com/example/nodestrap/internal/host"
)

func registerWebServerSteps(reg *engine.Registry) {
	reg.MustRegister(engine.Step{
		ID:        "install-nginx",
		Label:     "Install nginx",
		Category:  engine.CategoryWebServer,
		DependsOn: []string{"apt-update"},
		When: func(cfg config.Configuration) bool {
			return cfg.WebServer == config.WebNginx
		},
		Check: func(ctx context.Context, rc *engine.RunContext) (engine.Presence, error) {
			if host.CommandExists(ctx, rc.Runner, "nginx") {
				return engine.PresencePresent, nil
			}
			return engine.PresenceAbsent, nil
		},
		Apply: func(ctx context.Context, rc *engine.RunContext) error {
			if err := aptInstall(ctx, rc, "nginx"); err != nil {
				return err
			}
			return systemctl(ctx, rc, "enable", "--now", "nginx")
		},
		Rollback: func(ctx context.Context, rc *engine.RunContext) error {
			return aptPurge(ctx, rc, "nginx")
		},
	})

	reg.MustRegister(engine.Step{
		ID:        "nginx-site",
		Label:     "Configure nginx reverse proxy",
		Category:  engine.CategoryWebServer,
		DependsOn: []string{"install-nginx"},
		When: func(cfg config.Configuration) bool {
			return cfg.WebServer == config.WebNginx
		},
		Check: func(ctx context.Context, rc *engine.RunContext) (engine.Presence, error) {
			if host.PathExists(nginxSitePath(rc.Config)) {
				return engine.PresencePresent, nil
			}
			return engine.PresenceAbsent, nil
		},
		Apply: func(ctx context.Context, rc *engine.RunContext) error {
			text, err := renderTemplate("nginx-site.conf.tmpl", renderData(rc.Config))
			if err != nil {
				return fmt.Errorf("render nginx site: %w", err)
			}
			available := nginxSitePath(rc.Config)
			enabled := filepath.Join("/etc/nginx/sites-enabled", rc.Config.Domain)
			if err := rc.FS.WriteFile(available, []byte(text), 0o644); err != nil {
				return err
			}
			if err := rc.FS.Symlink(available, enabled); err != nil {
				return err
			}
			if err := rc.FS.Remove("/etc/nginx/sites-enabled/default"); err != nil {
				return err
			}
			if err := run(ctx, rc, "nginx", "-t"); err != nil {
				return err
			}
			return systemctl(ctx, rc, "reload", "nginx")
		},
		Rollback: func(ctx context.Context, rc *engine.RunContext) error {
			if err := rc.FS.Remove(filepath.Join("/etc/nginx/sites-enabled", rc.Config.Domain)); err != nil {
				return err
			}
			if err := rc.FS.Remove(nginxSitePath(rc.Config)); err != nil {
				return err
			}
			return systemctl(ctx, rc, "reload", "nginx")
		},
	})

	reg.MustRegister(engine.Step{
		ID:        "install-apache",
		Label:     "Install Apache",
		Category:  engine.CategoryWebServer,
		DependsOn: []string{"apt-update"},
		When: func(cfg config.Configuration) bool {
			return cfg.WebServer == config.WebApache
		},
		Check: func(ctx context.Context, rc *engine.RunContext) (engine.Presence, error) {
			if host.CommandExists(ctx, rc.Runner, "apache2") {
				return engine.PresencePresent, nil
			}
			return engine.PresenceAbsent, nil
		},
		Apply: func(ctx context.Context, rc *engine.RunContext) error {
			if err := aptInstall(ctx, rc, "apache2"); err != nil {
				return err
			}
			if err := run(ctx, rc, "a2enmod", "proxy", "proxy_http", "proxy_wstunnel", "rewrite"); err != nil {
				return err
			}
			return systemctl(ctx, rc, "enable", "--now", "apache2")
		},
		Rollback: func(ctx context.Context, rc *engine.RunContext) error {
			return aptPurge(ctx, rc, "apache2")
		},
	})

	reg.MustRegister(engine.Step{
		ID:        "apache-site",
		Label:     "Configure Apache reverse proxy",
		Category:  engine.CategoryWebServer,
		DependsOn: []string{"install-apache"},
		When: func(cfg config.Configuration) bool {
			return cfg.WebServer == config.WebApache
		},
		Check: func(ctx context.Context, rc *engine.RunContext) (engine.Presence, error) {
			if host.PathExists(apacheSitePath(rc.Config)) {
				return engine.PresencePresent, nil
			}
			return engine.PresenceAbsent, nil
		},
		Apply: func(ctx context.Context, rc *engine.RunContext) error {
			text, err := renderTemplate("apache-vhost.conf.tmpl", renderData(rc.Config))
			if err != nil {
				return fmt.Errorf("render apache vhost: %w", err)
			}
			if err := rc.FS.WriteFile(apacheSitePath(rc.Config), []byte(text), 0o644); err != nil {
				return err
			}
			if err := run(ctx, rc, "a2ensite", rc.Config.Domain); err != nil {
				return err
			}
			if err := run(ctx, rc, "a2dissite", "000-default"); err != nil {
				return err
			}
			if err := run(ctx, rc, "apachectl", "configtest"); err != nil {
				return err
			}
			return systemctl(ctx, rc, "reload", "apache2")
		},
		Rollback: func(ctx context.Context, rc *engine.RunContext) error {
			if err := run(ctx, rc, "a2dissite", rc.Config.Domain); err != nil {
				return err
			}
			if err := rc.FS.Remove(apacheSitePath(rc.Config)); err != nil {
				return err
			}
			return systemctl(ctx, rc, "reload", "apache2")
		},
	})
}

func nginxSitePath(cfg config.Configuration) string {
	return filepath.Join("/etc/nginx/sites-available", cfg.Domain)
}

func apacheSitePath(cfg config.Configuration) string {
	return filepath.Join("/etc/apache2/sites-available", cfg.Domain+".conf")
}
