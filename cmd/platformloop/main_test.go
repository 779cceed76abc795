//go:build linux && !android

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestRun_CountsPolls(t *testing.T) {
	stdout, _, err := execute(t, "run", "--polls", "3", "--interval", "1ms")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "poll 1 "))
	assert.True(t, strings.HasPrefix(lines[2], "poll 3 "))
	assert.True(t, strings.HasPrefix(lines[3], "done, runtime "))
}

func TestRun_Config(t *testing.T) {
	path := filepath.Join(t.TempDir(), "platformloop.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
poll_interval = "1ms"
log_level = "debug"
`), 0o644))

	stdout, stderr, err := execute(t, "run", "--config", path, "--polls", "2")
	require.NoError(t, err)
	assert.Contains(t, stdout, "poll 2 ")
	assert.Contains(t, stderr, `"msg":"loop started"`)
	assert.Contains(t, stderr, `"msg":"root task completed"`)
}

func TestRun_InvalidInput(t *testing.T) {
	_, _, err := execute(t, "run", "--polls", "-1")
	assert.ErrorContains(t, err, "negative --polls")

	_, _, err = execute(t, "run", "--config", filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, _, err = execute(t, "run", "--log-level", "loud")
	assert.ErrorContains(t, err, "unknown log level")
}
