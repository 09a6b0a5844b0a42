package host

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"syscall"
)

// CheckResult is one doctor finding. Failures are warnings, not
// errors; provisioning may still proceed.
type CheckResult struct {
	Name string
	OK   bool
	Err  error
}

// RunChecks probes the host for the things provisioning assumes:
// apt, systemd, root privileges, disk headroom, and free web ports.
func RunChecks(ctx context.Context, r Runner) []CheckResult {
	checks := []struct {
		name string
		fn   func() error
	}{
		{"apt-get available", func() error {
			if !CommandExists(ctx, r, "apt-get") {
				return fmt.Errorf("apt-get not found (Ubuntu/Debian required)")
			}
			return nil
		}},
		{"systemd available", func() error {
			if !CommandExists(ctx, r, "systemctl") {
				return fmt.Errorf("systemctl not found")
			}
			return nil
		}},
		{"running as root", func() error {
			if os.Geteuid() != 0 {
				return fmt.Errorf("not running as root; package installs will fail")
			}
			return nil
		}},
		{"disk space >= 2GiB on /", func() error {
			return diskCheck("/", 2)
		}},
		{"ports 80/443 free", func() error {
			out, err := r.Run(ctx, "ss", "-ltn")
			if err != nil {
				return err
			}
			if strings.Contains(out.Stdout, ":80 ") || strings.Contains(out.Stdout, ":443 ") {
				return fmt.Errorf("ports 80/443 already in use")
			}
			return nil
		}},
	}

	results := make([]CheckResult, 0, len(checks))
	for _, check := range checks {
		err := check.fn()
		results = append(results, CheckResult{Name: check.name, OK: err == nil, Err: err})
	}
	return results
}

// PrintChecks renders doctor results the way the CLI shows them.
func PrintChecks(results []CheckResult) {
	fmt.Println("nodestrap doctor")
	fmt.Printf("runtime: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	for _, r := range results {
		if r.OK {
			fmt.Printf("[ OK ] %s\n", r.Name)
		} else {
			fmt.Printf("[WARN] %s: %v\n", r.Name, r.Err)
		}
	}
}

func diskCheck(path string, minGiB uint64) error {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return err
	}
	free := (stat.Bavail * uint64(stat.Bsize)) / (1024 * 1024 * 1024)
	if free < minGiB {
		return fmt.Errorf("free space %dGiB < %dGiB", free, minGiB)
	}
	return nil
}
