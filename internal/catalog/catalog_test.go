package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/nodestrap/internal/config"
	"github.com/example/nodestrap/internal/engine"
	"github.com/example/nodestrap/internal/host"
)

func resolve(t *testing.T, a config.Answers) config.Configuration {
	t.Helper()
	if a.Domain == "" {
		a.Domain = "example.com"
	}
	cfg, err := config.Resolve(a)
	require.NoError(t, err)
	return cfg
}

func planFor(t *testing.T, cfg config.Configuration) engine.ExecutionPlan {
	t.Helper()
	plan, err := engine.Plan(cfg, Build())
	require.NoError(t, err)
	return plan
}

func indexOf(plan engine.ExecutionPlan, id string) int {
	for i, s := range plan.StepIDs {
		if s == id {
			return i
		}
	}
	return -1
}

func TestBuildRegistryIsConsistent(t *testing.T) {
	t.Parallel()

	reg := Build()
	require.NoError(t, reg.ResolveDependencies())
	assert.Greater(t, reg.Len(), 20)
}

func TestPlanNginxWithoutDatabase(t *testing.T) {
	t.Parallel()

	cfg := resolve(t, config.Answers{Database: "none", WebServer: "nginx"})
	plan := planFor(t, cfg)

	for _, id := range []string{
		"apt-update", "create-app-user", "create-app-dir",
		"install-node", "install-pm2", "pm2-startup",
		"install-nginx", "nginx-site",
		"write-env-file", "write-deploy-script",
	} {
		assert.True(t, plan.Contains(id), "missing %s", id)
	}

	for _, id := range []string{
		"install-postgresql", "install-mysql", "install-mongodb", "mongodb-container",
		"install-apache", "apache-site",
		"install-docker", "install-redis", "install-certbot", "install-fail2ban",
		"firewall-allow", "firewall-enable",
	} {
		assert.False(t, plan.Contains(id), "unexpected %s", id)
	}

	// Dependencies come before their dependents.
	assert.Less(t, indexOf(plan, "apt-update"), indexOf(plan, "install-nginx"))
	assert.Less(t, indexOf(plan, "install-nginx"), indexOf(plan, "nginx-site"))
	assert.Less(t, indexOf(plan, "create-app-user"), indexOf(plan, "create-app-dir"))
	assert.Less(t, indexOf(plan, "install-pm2"), indexOf(plan, "pm2-startup"))
}

func TestPlanMongoWithDockerUsesContainer(t *testing.T) {
	t.Parallel()

	cfg := resolve(t, config.Answers{Database: "mongodb", Addons: []string{"docker"}})
	plan := planFor(t, cfg)

	assert.True(t, plan.Contains("install-docker"))
	assert.True(t, plan.Contains("mongodb-container"))
	assert.False(t, plan.Contains("install-mongodb"))
	assert.Less(t, indexOf(plan, "install-docker"), indexOf(plan, "mongodb-container"))
}

func TestPlanMongoWithoutDockerInstallsPackage(t *testing.T) {
	t.Parallel()

	cfg := resolve(t, config.Answers{Database: "mongodb"})
	plan := planFor(t, cfg)

	assert.True(t, plan.Contains("install-mongodb"))
	assert.False(t, plan.Contains("mongodb-container"))
	assert.False(t, plan.Contains("install-docker"))
}

func TestPlanFirewallNeedsConfirmation(t *testing.T) {
	t.Parallel()

	confirmed := resolve(t, config.Answers{Firewall: true})
	plan := planFor(t, confirmed)
	assert.True(t, plan.Contains("firewall-allow"))
	assert.True(t, plan.Contains("firewall-enable"))
	assert.Less(t, indexOf(plan, "firewall-allow"), indexOf(plan, "firewall-enable"))

	unconfirmed := resolve(t, config.Answers{})
	plan = planFor(t, unconfirmed)
	assert.False(t, plan.Contains("firewall-allow"))
	assert.False(t, plan.Contains("firewall-enable"))
}

func TestPlanTLSComesAfterWebServer(t *testing.T) {
	t.Parallel()

	cfg := resolve(t, config.Answers{WebServer: "apache", Addons: []string{"tls"}})
	plan := planFor(t, cfg)

	assert.True(t, plan.Contains("install-certbot"))
	assert.True(t, plan.Contains("obtain-certificate"))
	assert.Less(t, indexOf(plan, "apache-site"), indexOf(plan, "obtain-certificate"))
	assert.False(t, plan.Contains("nginx-site"))
}

func TestPlanIsDeterministic(t *testing.T) {
	t.Parallel()

	cfg := resolve(t, config.Answers{
		Database:  "postgresql",
		WebServer: "nginx",
		Addons:    []string{"redis", "tls", "fail2ban"},
		Firewall:  true,
	})

	first := planFor(t, cfg)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first.StepIDs, planFor(t, cfg).StepIDs)
	}
}

func newRunContext(cfg config.Configuration) (*engine.RunContext, *host.MockRunner, *host.MemFS) {
	runner := host.NewMockRunner()
	fs := host.NewMemFS()
	return &engine.RunContext{Runner: runner, FS: fs, Config: cfg}, runner, fs
}

func applyStep(t *testing.T, rc *engine.RunContext, id string) {
	t.Helper()
	step, ok := Build().Step(id)
	require.True(t, ok)
	require.NoError(t, step.Apply(context.Background(), rc))
}

func TestCreateAppUserApply(t *testing.T) {
	t.Parallel()

	cfg := resolve(t, config.Answers{})
	rc, runner, _ := newRunContext(cfg)

	applyStep(t, rc, "create-app-user")
	assert.True(t, runner.Ran("useradd --create-home --shell /bin/bash nodeapp"))
}

func TestNginxSiteApply(t *testing.T) {
	t.Parallel()

	cfg := resolve(t, config.Answers{Domain: "app.example.com"})
	rc, runner, fs := newRunContext(cfg)

	applyStep(t, rc, "nginx-site")

	conf := string(fs.Files["/etc/nginx/sites-available/app.example.com"])
	assert.Contains(t, conf, "server_name app.example.com")
	assert.Contains(t, conf, "proxy_pass http://127.0.0.1:3000")

	assert.Equal(t, "/etc/nginx/sites-available/app.example.com",
		fs.Links["/etc/nginx/sites-enabled/app.example.com"])
	assert.True(t, runner.Ran("nginx -t"))
	assert.True(t, runner.Ran("systemctl reload nginx"))
}

func TestNginxSiteApplyFailsOnBadConfig(t *testing.T) {
	t.Parallel()

	cfg := resolve(t, config.Answers{})
	rc, runner, _ := newRunContext(cfg)
	runner.Stub("nginx -t", host.Result{ExitCode: 1, Stderr: "syntax error"})

	step, ok := Build().Step("nginx-site")
	require.True(t, ok)
	err := step.Apply(context.Background(), rc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "syntax error")
	assert.False(t, runner.Ran("systemctl reload nginx"))
}

func TestPostgresPasswordTravelsOnStdin(t *testing.T) {
	t.Parallel()

	cfg := resolve(t, config.Answers{Database: "postgresql"})
	rc, runner, _ := newRunContext(cfg)

	applyStep(t, rc, "install-postgresql")

	sql := runner.Inputs["sudo -u postgres psql"]
	assert.Contains(t, sql, cfg.DBPassword.Value())

	// The password never appears in a command line.
	for _, call := range runner.Calls {
		assert.NotContains(t, call, cfg.DBPassword.Value())
	}
}

func TestMongoContainerApply(t *testing.T) {
	t.Parallel()

	cfg := resolve(t, config.Answers{Database: "mongodb", Addons: []string{"docker"}})
	rc, runner, fs := newRunContext(cfg)

	applyStep(t, rc, "mongodb-container")

	compose := string(fs.Files["/var/www/app/mongodb/compose.yml"])
	assert.Contains(t, compose, "mongo:7.0.14")
	assert.Contains(t, compose, "nodeapp-mongodb")
	assert.True(t, runner.Ran("docker compose -f /var/www/app/mongodb/compose.yml up -d"))
}

func TestArtifactSteps(t *testing.T) {
	t.Parallel()

	cfg := resolve(t, config.Answers{AppPort: 8080})
	rc, runner, fs := newRunContext(cfg)

	applyStep(t, rc, "write-env-file")
	applyStep(t, rc, "write-deploy-script")

	env := string(fs.Files["/var/www/app/.env.example"])
	assert.Contains(t, env, "PORT=8080")

	script := string(fs.Files["/var/www/app/deploy.sh"])
	assert.Contains(t, script, "pm2")
	assert.True(t, runner.Ran("chown nodeapp:nodeapp /var/www/app/deploy.sh"))
}

func TestRollbackRemovesNginxSite(t *testing.T) {
	t.Parallel()

	cfg := resolve(t, config.Answers{})
	rc, _, fs := newRunContext(cfg)

	applyStep(t, rc, "nginx-site")
	require.Contains(t, fs.Files, "/etc/nginx/sites-available/example.com")

	step, ok := Build().Step("nginx-site")
	require.True(t, ok)
	require.NoError(t, step.Rollback(context.Background(), rc))

	assert.NotContains(t, fs.Files, "/etc/nginx/sites-available/example.com")
	assert.NotContains(t, fs.Links, "/etc/nginx/sites-enabled/example.com")
}
