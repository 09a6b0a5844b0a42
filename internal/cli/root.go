// Package cli wires the cobra commands. Commands return errors; exit
// code mapping happens once, in Execute.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/example/nodestrap/internal/config"
	"github.com/example/nodestrap/internal/engine"
	"github.com/example/nodestrap/internal/logging"
)

var (
	cfgFile      string
	verbosity    int
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "nodestrap",
	Short: "Provision a fresh Ubuntu VPS for a Node.js application",
	Long: `nodestrap turns a fresh Ubuntu server into a production host for a
Node.js application: system user, Node runtime, pm2 process manager,
a database, a reverse proxy, and optional addons like TLS and Docker.

Every step is idempotent; re-running against a half-configured host
only applies what is missing. A failed run rolls the applied steps
back in reverse order.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI and returns the process exit code. The
// command context is bound to SIGINT/SIGTERM: an operator interrupt
// cancels it, and the executor unwinds between steps instead of the
// process dying mid-provision.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return exitCode(err)
	}
	return 0
}

// runError marks an execution-phase failure; the report summary is
// the message.
type runError struct {
	summary string
}

func (e *runError) Error() string { return e.summary }

func exitCode(err error) int {
	var verr *config.ValidationError
	switch {
	case errors.As(err, &verr):
		return 2
	// Registry inconsistencies surface from Plan, so they land in the
	// planning bucket alongside cycles, not the operator-input one.
	case errors.Is(err, engine.ErrCycle), errors.Is(err, engine.ErrConfiguration):
		return 3
	}
	var rerr *runError
	if errors.As(err, &rerr) {
		return 4
	}
	return 1
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.nodestrap.yaml)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (repeatable)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "console", "output format (console, json)")

	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".nodestrap")
	}

	viper.SetEnvPrefix("NODESTRAP")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	logging.Setup(verbosity)

	if err := viper.ReadInConfig(); err == nil && verbosity > 0 {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
