package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/example/nodestrap/internal/catalog"
	"github.com/example/nodestrap/internal/config"
	"github.com/example/nodestrap/internal/engine"
	"github.com/example/nodestrap/internal/host"
	"github.com/example/nodestrap/internal/reporter"
)

var provisionFlags struct {
	user      string
	dir       string
	domain    string
	email     string
	node      string
	database  string
	webserver string
	addons    []string
	port      int

	dryRun     bool
	resumePath string
	reportPath string
	timeout    time.Duration
	keepGoing  bool
	yes        bool
}

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Provision the host non-interactively",
	Long: `Provision resolves the answers the setup wizard would ask from flags
and runs the full plan. The database password comes from the
NODESTRAP_DB_PASSWORD environment variable or the config file, never
from a flag; when neither is set one is generated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		firewall := provisionFlags.yes || provisionFlags.dryRun ||
			confirm("Enable the UFW firewall (allow OpenSSH and web traffic)?")
		cfg, err := resolveFromFlags(firewall)
		if err != nil {
			return err
		}
		return runProvision(cmd, cfg)
	},
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the ordered step plan without executing",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Planning never prompts; without --yes the firewall steps are
		// simply not shown.
		cfg, err := resolveFromFlags(provisionFlags.yes)
		if err != nil {
			return err
		}
		reg := catalog.Build()
		plan, err := engine.Plan(cfg, reg)
		if err != nil {
			return err
		}
		rep, err := reporter.New(viper.GetString("output"))
		if err != nil {
			return err
		}
		rep.PlanHeader(plan, reg)
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{provisionCmd, planCmd} {
		f := cmd.Flags()
		f.StringVar(&provisionFlags.user, "user", "", "application system user (default "+config.DefaultAppUser+")")
		f.StringVar(&provisionFlags.dir, "dir", "", "application directory (default "+config.DefaultAppDir+")")
		f.StringVar(&provisionFlags.domain, "domain", "", "public domain name (required)")
		f.StringVar(&provisionFlags.email, "email", "", "contact email (default admin@<domain>)")
		f.StringVar(&provisionFlags.node, "node", "", "Node.js major version: "+strings.Join(config.NodeVersions, ", "))
		f.StringVar(&provisionFlags.database, "database", "", "database: postgresql, mysql, mongodb, none")
		f.StringVar(&provisionFlags.webserver, "webserver", "", "web server: nginx, apache")
		f.StringSliceVar(&provisionFlags.addons, "addons", nil, "addons: docker, redis, tls, fail2ban")
		f.IntVar(&provisionFlags.port, "port", 0, "application port (default 3000)")
		f.BoolVar(&provisionFlags.yes, "yes", false, "assume yes for confirmations, including the firewall")
	}

	pf := provisionCmd.Flags()
	pf.BoolVar(&provisionFlags.dryRun, "dry-run", false, "log what would run without executing anything")
	pf.StringVar(&provisionFlags.resumePath, "resume", "", "resume from a previous report; satisfied steps are skipped")
	pf.StringVar(&provisionFlags.reportPath, "report", "nodestrap-report.yaml", "where to write the run report")
	pf.DurationVar(&provisionFlags.timeout, "timeout", engine.DefaultStepTimeout, "per-step timeout")
	pf.BoolVar(&provisionFlags.keepGoing, "keep-going", false, "continue past failures in non-fatal steps")

	rootCmd.AddCommand(provisionCmd)
	rootCmd.AddCommand(planCmd)
}

func resolveFromFlags(firewall bool) (config.Configuration, error) {
	return config.Resolve(config.Answers{
		AppUser:     provisionFlags.user,
		AppDir:      provisionFlags.dir,
		Domain:      provisionFlags.domain,
		Email:       provisionFlags.email,
		NodeVersion: provisionFlags.node,
		Database:    provisionFlags.database,
		WebServer:   provisionFlags.webserver,
		Addons:      provisionFlags.addons,
		AppPort:     provisionFlags.port,
		DBPassword:  viper.GetString("db_password"),
		Firewall:    firewall,
	})
}

func runProvision(cmd *cobra.Command, cfg config.Configuration) error {
	reg := catalog.Build()
	plan, err := engine.Plan(cfg, reg)
	if err != nil {
		return err
	}

	rep, err := reporter.New(viper.GetString("output"))
	if err != nil {
		return err
	}
	rep.PlanHeader(plan, reg)

	var runner host.Runner = host.NewExecRunner()
	var fs host.FS = host.NewOSFS()
	if provisionFlags.dryRun {
		runner = host.NewDryRunner()
		fs = host.NewDryFS()
	}

	rc := &engine.RunContext{Runner: runner, FS: fs, Config: cfg}
	return executeRun(cmd.Context(), reg, plan, rc, rep)
}

// executeRun drives the executor with the command context; an
// interrupt cancels it and the executor unwinds between steps, with
// the report still written for a later --resume.
func executeRun(ctx context.Context, reg *engine.Registry, plan engine.ExecutionPlan, rc *engine.RunContext, rep reporter.Reporter) error {
	var previous *engine.Report
	if provisionFlags.resumePath != "" {
		var err error
		previous, err = engine.LoadReport(provisionFlags.resumePath)
		if err != nil {
			return fmt.Errorf("load resume report: %w", err)
		}
	}

	exec := engine.NewExecutor(reg, engine.Options{
		StepTimeout: provisionFlags.timeout,
		KeepGoing:   provisionFlags.keepGoing,
		Previous:    previous,
		DryRun:      provisionFlags.dryRun,
		Observer:    rep,
	})

	report := exec.Execute(ctx, plan, rc)
	rep.Finish(report)

	if err := report.Save(provisionFlags.reportPath); err != nil {
		log.Warn().Err(err).Str("path", provisionFlags.reportPath).Msg("could not write report")
	}

	if report.Status() != engine.StatusProvisioned {
		return &runError{summary: report.Summary()}
	}
	return nil
}

// confirm asks a yes/no question on the terminal; anything but an
// explicit yes is no.
func confirm(question string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N]: ", question)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
