package host

import (
	"context"
	"os"
	"strings"
)

// Probes back the idempotency predicates. They go through the Runner
// so mock and dry runners see them too.

// CommandExists checks PATH for a binary.
func CommandExists(ctx context.Context, r Runner, name string) bool {
	res, err := r.Run(ctx, "sh", "-c", "command -v "+name)
	return err == nil && res.Success()
}

// UserExists checks for a local account.
func UserExists(ctx context.Context, r Runner, name string) bool {
	res, err := r.Run(ctx, "id", "-u", name)
	return err == nil && res.Success()
}

// UnitEnabled checks whether a systemd unit is enabled or active.
func UnitEnabled(ctx context.Context, r Runner, unit string) bool {
	res, err := r.Run(ctx, "systemctl", "is-enabled", unit)
	if err != nil {
		return false
	}
	if res.Success() {
		return true
	}
	res, err = r.Run(ctx, "systemctl", "is-active", unit)
	return err == nil && res.Success()
}

// PackageInstalled checks dpkg's database.
func PackageInstalled(ctx context.Context, r Runner, pkg string) bool {
	res, err := r.Run(ctx, "dpkg-query", "-W", "-f=${Status}", pkg)
	return err == nil && res.Success() && strings.Contains(res.Stdout, "install ok installed")
}

// PathExists checks the local filesystem directly; artifact checks
// run against the same host the steps write to.
func PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// DirExists reports whether path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
