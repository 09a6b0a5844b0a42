package cli

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/nodestrap/internal/host"
)

var backupDir string

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Dump installed databases to compressed archives",
	Long: `Backup probes for the database dump tools and, for each one found,
writes a timestamped gzip archive into the backup directory. Servers
that are installed but not running are skipped with a notice.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBackup(cmd.Context(), backupDir)
	},
}

func init() {
	backupCmd.Flags().StringVar(&backupDir, "dir", "/var/backups/nodestrap", "backup target directory")
	rootCmd.AddCommand(backupCmd)
}

type dumpSpec struct {
	tool string
	unit string
	out  string
	cmd  []string
}

func runBackup(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	ts := time.Now().UTC().Format("20060102T150405Z")
	runner := host.NewExecRunner()

	dumps := []dumpSpec{
		{
			tool: "pg_dumpall", unit: "postgresql",
			out: fmt.Sprintf("postgresql_%s.sql.gz", ts),
			cmd: []string{"sudo", "-u", "postgres", "pg_dumpall"},
		},
		{
			tool: "mysqldump", unit: "mysql",
			out: fmt.Sprintf("mysql_%s.sql.gz", ts),
			// Root connects over the socket; no password on the
			// command line.
			cmd: []string{"mysqldump", "--all-databases"},
		},
		{
			tool: "mongodump", unit: "mongod",
			out: fmt.Sprintf("mongodb_%s.archive.gz", ts),
			cmd: []string{"mongodump", "--archive"},
		},
	}

	any := false
	for _, d := range dumps {
		if !host.CommandExists(ctx, runner, d.tool) {
			continue
		}
		if !host.UnitEnabled(ctx, runner, d.unit) {
			fmt.Printf("skip %s dump (service not running)\n", d.unit)
			continue
		}
		any = true
		outPath := filepath.Join(dir, d.out)
		if err := dumpGzip(ctx, outPath, d.cmd[0], d.cmd[1:]...); err != nil {
			return fmt.Errorf("%s: %w", d.unit, err)
		}
		fmt.Printf("wrote %s\n", outPath)
	}

	if !any {
		fmt.Println("no database dump tools found, nothing to back up")
	}
	return nil
}

// dumpGzip pipes a dump command through Go's gzip writer instead of a
// shell pipeline, so there is no shell interpolation involved.
func dumpGzip(ctx context.Context, outPath, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("dump setup failed: %w", err)
	}
	cmd.Stderr = os.Stderr

	outFile, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create backup file: %w", err)
	}
	defer outFile.Close()

	gz := gzip.NewWriter(outFile)

	if err := cmd.Start(); err != nil {
		gz.Close()
		return fmt.Errorf("dump start failed: %w", err)
	}
	if _, err := io.Copy(gz, stdout); err != nil {
		gz.Close()
		return fmt.Errorf("dump copy failed: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("gzip close failed: %w", err)
	}
	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("dump failed: %w", err)
	}
	return nil
}
