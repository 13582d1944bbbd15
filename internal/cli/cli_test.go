package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cliHCL = `
product     = "edge"
sdk_version = "0.4.0"
namespace   = "edge.api"
versions    = ["1.0", "2.0"]
apis        = ["cache", "timers", "features"]

module "features" {
  attributes = { region = "eu" }
}
`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.hcl")
	require.NoError(t, os.WriteFile(path, []byte(cliHCL), 0644))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := Execute(context.Background(), &out, &errOut, args)
	return out.String(), errOut.String(), err
}

func requireExitCode(t *testing.T, err error, code int) {
	t.Helper()
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "expected *ExitError, got %T: %v", err, err)
	assert.Equal(t, code, exitErr.Code)
}

func TestExecute_Help(t *testing.T) {
	out, _, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "describe")
	assert.Contains(t, out, "resolve")
	assert.Contains(t, out, "serve")
}

func TestExecute_UsageErrors(t *testing.T) {
	cfg := writeConfig(t)

	testCases := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{name: "unknown flag", args: []string{"describe", "--nope"}, wantMsg: "unknown flag: --nope"},
		{name: "missing config", args: []string{"describe"}, wantMsg: "at least one configuration path"},
		{name: "bad log level", args: []string{"describe", "-c", cfg, "--log-level", "loud"}, wantMsg: "invalid log-level"},
		{name: "bad output", args: []string{"describe", "-c", cfg, "-o", "xml"}, wantMsg: "invalid output format"},
		{name: "resolve without name", args: []string{"resolve", "-c", cfg}, wantMsg: "accepts between 1 and 2 arg(s)"},
		{name: "serve without port", args: []string{"serve", "-c", cfg, "--port", "0"}, wantMsg: "invalid port"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, errOut, err := execute(t, tc.args...)
			require.Error(t, err)
			requireExitCode(t, err, 2)
			assert.Contains(t, err.Error(), tc.wantMsg)
			assert.Contains(t, errOut, "Error:")
		})
	}
}

func TestExecute_Describe(t *testing.T) {
	cfg := writeConfig(t)

	out, _, err := execute(t, "describe", "-c", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "edge (sdk 0.4.0), namespace edge.api, latest 2.0.0")
	assert.Contains(t, out, "version 1.0.0 (#10000)")

	out, _, err = execute(t, "describe", "-c", cfg, "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "product: edge")
	assert.Contains(t, out, "latest: 2.0.0")
}

func TestExecute_Resolve(t *testing.T) {
	cfg := writeConfig(t)

	out, _, err := execute(t, "resolve", "-c", cfg, "cache", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "cache@1.0.0")
	assert.Contains(t, out, "found   edge.api.01.00.cache")

	out, _, err = execute(t, "resolve", "-c", cfg, "timers", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"version": "2.0.0"`)

	out, _, err = execute(t, "resolve", "-c", cfg, "features", "#20000")
	require.NoError(t, err)
	assert.Contains(t, out, "features@1.0.0")
	assert.Contains(t, out, "from latest")

	_, _, err = execute(t, "resolve", "-c", cfg, "timers", "1")
	require.Error(t, err)
	assert.EqualError(t, err, `edge "timers" (1.0.0) was not found`)

	_, _, err = execute(t, "resolve", "-c", cfg, "cache", "7")
	require.Error(t, err)
	assert.EqualError(t, err, `invalid edge version "7"`)
}

func TestExecute_ConfigError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`product = `), 0644))

	_, _, err := execute(t, "describe", "-c", path)
	require.Error(t, err)
	var exitErr *ExitError
	assert.False(t, errors.As(err, &exitErr), "configuration errors are not usage errors")
	assert.Contains(t, err.Error(), "failed to parse HCL file")
}

func TestExecute_EnvironmentFallback(t *testing.T) {
	cfg := writeConfig(t)
	t.Setenv("VERAPI_CONFIG", cfg)
	t.Setenv("VERAPI_LOG_LEVEL", "DEBUG")

	out, errOut, err := execute(t, "describe")
	require.NoError(t, err)
	assert.Contains(t, out, "latest 2.0.0")
	assert.Contains(t, errOut, "level=DEBUG")

	// An explicit flag wins over the environment.
	t.Setenv("VERAPI_LOG_FORMAT", "xml")
	_, _, err = execute(t, "describe", "--log-format", "json")
	require.NoError(t, err)

	_, _, err = execute(t, "describe")
	require.Error(t, err)
	requireExitCode(t, err, 2)
	assert.Contains(t, err.Error(), "invalid log-format")
}
