package catalog

import (
	"context"
	"strings"

	"github.com/example/nodestrap/internal/config"
	"github.com/example/nodestrap/internal/engine"
	"github.com/example/nodestrap/internal/host"
)

// Addon and firewall steps carry no edges to the web-server branch:
// a static dependency on nginx-site would drag nginx into every
// apache plan through auto-inclusion. Registration order alone puts
// them after the web-server steps, which the stable sort preserves.
func registerAddonSteps(reg *engine.Registry) {
	reg.MustRegister(engine.Step{
		ID:        "install-docker",
		Label:     "Install Docker engine",
		Category:  engine.CategoryAddon,
		DependsOn: []string{"apt-update", "create-app-user"},
		When: func(cfg config.Configuration) bool {
			return cfg.HasAddon(config.AddonDocker)
		},
		Check: func(ctx context.Context, rc *engine.RunContext) (engine.Presence, error) {
			if host.CommandExists(ctx, rc.Runner, "docker") {
				return engine.PresencePresent, nil
			}
			return engine.PresenceAbsent, nil
		},
		Apply: func(ctx context.Context, rc *engine.RunContext) error {
			if err := run(ctx, rc, "bash", "-c", "curl -fsSL https://get.docker.com | sh"); err != nil {
				return err
			}
			if err := run(ctx, rc, "usermod", "-aG", "docker", rc.Config.AppUser); err != nil {
				return err
			}
			return systemctl(ctx, rc, "enable", "--now", "docker")
		},
		Rollback: func(ctx context.Context, rc *engine.RunContext) error {
			return aptPurge(ctx, rc, "docker-ce", "docker-ce-cli", "containerd.io")
		},
	})

	reg.MustRegister(engine.Step{
		ID:        "install-redis",
		Label:     "Install Redis",
		Category:  engine.CategoryAddon,
		DependsOn: []string{"apt-update"},
		When: func(cfg config.Configuration) bool {
			return cfg.HasAddon(config.AddonRedis)
		},
		Check: func(ctx context.Context, rc *engine.RunContext) (engine.Presence, error) {
			if host.CommandExists(ctx, rc.Runner, "redis-server") {
				return engine.PresencePresent, nil
			}
			return engine.PresenceAbsent, nil
		},
		Apply: func(ctx context.Context, rc *engine.RunContext) error {
			if err := aptInstall(ctx, rc, "redis-server"); err != nil {
				return err
			}
			return systemctl(ctx, rc, "enable", "--now", "redis-server")
		},
		Rollback: func(ctx context.Context, rc *engine.RunContext) error {
			return aptPurge(ctx, rc, "redis-server")
		},
	})

	reg.MustRegister(engine.Step{
		ID:        "install-certbot",
		Label:     "Install certbot",
		Category:  engine.CategoryAddon,
		DependsOn: []string{"apt-update"},
		When: func(cfg config.Configuration) bool {
			return cfg.HasAddon(config.AddonTLS)
		},
		Check: func(ctx context.Context, rc *engine.RunContext) (engine.Presence, error) {
			if host.CommandExists(ctx, rc.Runner, "certbot") {
				return engine.PresencePresent, nil
			}
			return engine.PresenceAbsent, nil
		},
		Apply: func(ctx context.Context, rc *engine.RunContext) error {
			if rc.Config.WebServer == config.WebApache {
				return aptInstall(ctx, rc, "certbot", "python3-certbot-apache")
			}
			return aptInstall(ctx, rc, "certbot", "python3-certbot-nginx")
		},
		Rollback: func(ctx context.Context, rc *engine.RunContext) error {
			return aptPurge(ctx, rc, "certbot")
		},
	})

	reg.MustRegister(engine.Step{
		ID:        "obtain-certificate",
		Label:     "Obtain TLS certificate",
		Category:  engine.CategoryAddon,
		DependsOn: []string{"install-certbot"},
		When: func(cfg config.Configuration) bool {
			return cfg.HasAddon(config.AddonTLS)
		},
		Check: func(ctx context.Context, rc *engine.RunContext) (engine.Presence, error) {
			if host.PathExists("/etc/letsencrypt/live/" + rc.Config.Domain) {
				return engine.PresencePresent, nil
			}
			return engine.PresenceAbsent, nil
		},
		Apply: func(ctx context.Context, rc *engine.RunContext) error {
			plugin := "--nginx"
			if rc.Config.WebServer == config.WebApache {
				plugin = "--apache"
			}
			return run(ctx, rc, "certbot", plugin,
				"-d", rc.Config.Domain,
				"-m", rc.Config.Email,
				"--agree-tos", "--non-interactive", "--redirect")
		},
		Rollback: func(ctx context.Context, rc *engine.RunContext) error {
			return run(ctx, rc, "certbot", "delete", "--cert-name", rc.Config.Domain, "--non-interactive")
		},
	})

	reg.MustRegister(engine.Step{
		ID:        "install-fail2ban",
		Label:     "Install fail2ban",
		Category:  engine.CategoryAddon,
		DependsOn: []string{"apt-update"},
		When: func(cfg config.Configuration) bool {
			return cfg.HasAddon(config.AddonFail2ban)
		},
		Check: func(ctx context.Context, rc *engine.RunContext) (engine.Presence, error) {
			if host.PackageInstalled(ctx, rc.Runner, "fail2ban") {
				return engine.PresencePresent, nil
			}
			return engine.PresenceAbsent, nil
		},
		Apply: func(ctx context.Context, rc *engine.RunContext) error {
			if err := aptInstall(ctx, rc, "fail2ban"); err != nil {
				return err
			}
			return systemctl(ctx, rc, "enable", "--now", "fail2ban")
		},
		Rollback: func(ctx context.Context, rc *engine.RunContext) error {
			return aptPurge(ctx, rc, "fail2ban")
		},
	})
}

func registerFirewallSteps(reg *engine.Registry) {
	reg.MustRegister(engine.Step{
		ID:       "firewall-allow",
		Label:    "Allow SSH and web ports",
		Category: engine.CategoryFirewall,
		NonFatal: true,
		When: func(cfg config.Configuration) bool {
			return cfg.Firewall
		},
		Apply: func(ctx context.Context, rc *engine.RunContext) error {
			if err := run(ctx, rc, "ufw", "allow", "OpenSSH"); err != nil {
				return err
			}
			profile := "Nginx Full"
			if rc.Config.WebServer == config.WebApache {
				profile = "Apache Full"
			}
			return run(ctx, rc, "ufw", "allow", profile)
		},
		Rollback: func(ctx context.Context, rc *engine.RunContext) error {
			profile := "Nginx Full"
			if rc.Config.WebServer == config.WebApache {
				profile = "Apache Full"
			}
			return run(ctx, rc, "ufw", "delete", "allow", profile)
		},
	})

	reg.MustRegister(engine.Step{
		ID:        "firewall-enable",
		Label:     "Enable firewall",
		Category:  engine.CategoryFirewall,
		DependsOn: []string{"firewall-allow"},
		NonFatal:  true,
		When: func(cfg config.Configuration) bool {
			return cfg.Firewall
		},
		Check: func(ctx context.Context, rc *engine.RunContext) (engine.Presence, error) {
			res, err := rc.Runner.Run(ctx, "ufw", "status")
			if err != nil || !res.Success() {
				return engine.PresenceUnknown, err
			}
			if strings.Contains(res.Stdout, "Status: active") {
				return engine.PresencePresent, nil
			}
			return engine.PresenceAbsent, nil
		},
		Apply: func(ctx context.Context, rc *engine.RunContext) error {
			return run(ctx, rc, "ufw", "--force", "enable")
		},
		Rollback: func(ctx context.Context, rc *engine.RunContext) error {
			return run(ctx, rc, "ufw", "disable")
		},
	})
}
