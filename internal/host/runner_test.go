package host

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunnerCapturesOutput(t *testing.T) {
	t.Parallel()

	r := NewExecRunner()
	res, err := r.Run(context.Background(), "sh", "-c", "echo out; echo err >&2")
	require.NoError(t, err)

	assert.True(t, res.Success())
	assert.Equal(t, "out\n", res.Stdout)
	assert.Equal(t, "err\n", res.Stderr)
}

func TestExecRunnerNonZeroExit(t *testing.T) {
	t.Parallel()

	r := NewExecRunner()
	res, err := r.Run(context.Background(), "sh", "-c", "exit 3")
	require.NoError(t, err)

	assert.False(t, res.Success())
	assert.Equal(t, 3, res.ExitCode)
}

func TestExecRunnerMissingBinary(t *testing.T) {
	t.Parallel()

	r := NewExecRunner()
	_, err := r.Run(context.Background(), "definitely-not-a-command-9f2c")
	assert.Error(t, err)
}

func TestExecRunnerStdin(t *testing.T) {
	t.Parallel()

	r := NewExecRunner()
	res, err := r.RunInput(context.Background(), "hello\n", "cat")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", res.Stdout)
}

func TestResultOutputPrefersStderr(t *testing.T) {
	t.Parallel()

	res := Result{Stdout: "out", Stderr: "err"}
	assert.Equal(t, "err", res.Output())

	res = Result{Stdout: "out"}
	assert.Equal(t, "out", res.Output())
}

func TestDryRunnerRecordsWithoutExecuting(t *testing.T) {
	t.Parallel()

	r := NewDryRunner()
	res, err := r.Run(context.Background(), "rm", "-rf", "/var/www/app")
	require.NoError(t, err)

	assert.True(t, res.Success())
	assert.Equal(t, []string{"rm -rf /var/www/app"}, r.Calls)
}

func TestMockRunnerStubs(t *testing.T) {
	t.Parallel()

	r := NewMockRunner()
	r.Stub("id -u nodeapp", Result{ExitCode: 1})
	r.StubErr("systemctl is-enabled nginx", errors.New("no systemd"))

	res, err := r.Run(context.Background(), "id", "-u", "nodeapp")
	require.NoError(t, err)
	assert.False(t, res.Success())

	_, err = r.Run(context.Background(), "systemctl", "is-enabled", "nginx")
	assert.Error(t, err)

	// Unstubbed commands succeed by default.
	res, err = r.Run(context.Background(), "apt-get", "update")
	require.NoError(t, err)
	assert.True(t, res.Success())

	assert.True(t, r.Ran("apt-get"))
	assert.False(t, r.Ran("docker"))
}

func TestMockRunnerRecordsInput(t *testing.T) {
	t.Parallel()

	r := NewMockRunner()
	_, err := r.RunInput(context.Background(), "CREATE USER app;", "sudo", "-u", "postgres", "psql")
	require.NoError(t, err)
	assert.Equal(t, "CREATE USER app;", r.Inputs["sudo -u postgres psql"])
}

func TestProbesUseRunner(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := NewMockRunner()
	r.Stub("id -u ghost", Result{ExitCode: 1})

	assert.False(t, UserExists(ctx, r, "ghost"))
	assert.True(t, UserExists(ctx, r, "nodeapp"))

	r.Stub("dpkg-query -W -f=${Status} nginx", Result{Stdout: "install ok installed"})
	assert.True(t, PackageInstalled(ctx, r, "nginx"))

	r.Stub("dpkg-query -W -f=${Status} apache2", Result{Stdout: "deinstall ok config-files"})
	assert.False(t, PackageInstalled(ctx, r, "apache2"))
}

func TestUnitEnabledFallsBackToActive(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := NewMockRunner()
	r.Stub("systemctl is-enabled nginx", Result{ExitCode: 1})
	r.Stub("systemctl is-active nginx", Result{ExitCode: 0})

	assert.True(t, UnitEnabled(ctx, r, "nginx"))

	r.Stub("systemctl is-active nginx", Result{ExitCode: 3})
	assert.False(t, UnitEnabled(ctx, r, "nginx"))
}
