package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapyd-cloud/wpmigrate/cmd/wpmigrate/opts"
	"github.com/rapyd-cloud/wpmigrate/pkg/config"
	"github.com/rapyd-cloud/wpmigrate/pkg/execx"
	"github.com/rapyd-cloud/wpmigrate/pkg/status"
)

type testEnv struct {
	webroot string
	runner  *execx.FakeRunner
	out     *bytes.Buffer
}

func newTestEnv(t *testing.T, stdin string) (OptsProvider, *testEnv) {
	t.Helper()

	env := &testEnv{
		webroot: filepath.Join(t.TempDir(), "webroot"),
		runner:  execx.NewFake(),
		out:     &bytes.Buffer{},
	}
	require.NoError(t, os.MkdirAll(env.webroot, 0o755))

	cfg := &config.Config{Webroot: env.webroot}
	require.NoError(t, cfg.Validate())

	provider := func() (*opts.RootOpts, error) {
		return &opts.RootOpts{
			Config:   cfg,
			Runner:   env.runner,
			Reporter: status.New(env.out, strings.NewReader(stdin)),
		}, nil
	}
	return provider, env
}

func TestReplaceCmd_RewritesFilesAndDatabase(t *testing.T) {
	provider, env := newTestEnv(t, "")
	require.NoError(t, os.WriteFile(
		filepath.Join(env.webroot, "wp-config.php"),
		[]byte("define('ABSPATH', '/var/www/old/');"), 0o644))

	cmd := NewReplaceCmd(provider)
	cmd.SetArgs([]string{
		"--old", "/var/www/old",
		"--new", "/var/www/new",
		"--kind", "path",
		"--yes",
	})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	content, err := os.ReadFile(filepath.Join(env.webroot, "wp-config.php"))
	require.NoError(t, err)
	assert.Equal(t, "define('ABSPATH', '/var/www/new/');", string(content))

	lines := env.runner.CommandLines()
	require.Len(t, lines, 2, "one search-replace per path rule")
	assert.Contains(t, lines[0], "search-replace /var/www/old/ /var/www/new/")
	assert.Contains(t, lines[1], "search-replace /var/www/old /var/www/new")

	assert.Contains(t, env.out.String(), "Updated path in:")
	assert.Contains(t, env.out.String(), "Modified 1 of 1 scanned files")
}

func TestReplaceCmd_SkipDB(t *testing.T) {
	provider, env := newTestEnv(t, "")
	require.NoError(t, os.WriteFile(
		filepath.Join(env.webroot, "index.php"),
		[]byte("/var/www/old"), 0o644))

	cmd := NewReplaceCmd(provider)
	cmd.SetArgs([]string{"--old", "/var/www/old", "--new", "/var/www/new", "--skip-db", "--yes"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	assert.Empty(t, env.runner.Calls)
}

func TestReplaceCmd_IdenticalTokensRejectedBeforeAnyWork(t *testing.T) {
	provider, env := newTestEnv(t, "")
	require.NoError(t, os.WriteFile(
		filepath.Join(env.webroot, "index.php"),
		[]byte("same"), 0o644))

	cmd := NewReplaceCmd(provider)
	cmd.SetArgs([]string{"--old", "same", "--new", "same", "--yes"})
	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "identical")

	assert.Empty(t, env.runner.Calls)
	content, readErr := os.ReadFile(filepath.Join(env.webroot, "index.php"))
	require.NoError(t, readErr)
	assert.Equal(t, "same", string(content), "no side effects on precondition failure")
}

func TestReplaceCmd_OperatorDecline(t *testing.T) {
	provider, env := newTestEnv(t, "n\n")
	require.NoError(t, os.WriteFile(
		filepath.Join(env.webroot, "index.php"),
		[]byte("/var/www/old"), 0o644))

	cmd := NewReplaceCmd(provider)
	cmd.SetArgs([]string{"--old", "/var/www/old", "--new", "/var/www/new"})
	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "aborted by operator")

	content, readErr := os.ReadFile(filepath.Join(env.webroot, "index.php"))
	require.NoError(t, readErr)
	assert.Equal(t, "/var/www/old", string(content))
}

func TestReplaceCmd_ForceHTTPSPairsSchemes(t *testing.T) {
	provider, env := newTestEnv(t, "")
	require.NoError(t, os.WriteFile(
		filepath.Join(env.webroot, "links.html"),
		[]byte("http://old.example.com https://old.example.com"), 0o644))

	cmd := NewReplaceCmd(provider)
	cmd.SetArgs([]string{
		"--old", "old.example.com",
		"--new", "new.example.com",
		"--kind", "url",
		"--force-https",
		"--yes",
	})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	content, err := os.ReadFile(filepath.Join(env.webroot, "links.html"))
	require.NoError(t, err)
	assert.Equal(t, "https://new.example.com https://new.example.com", string(content))

	lines := env.runner.CommandLines()
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "search-replace http://old.example.com https://new.example.com")
	assert.Contains(t, lines[1], "search-replace https://old.example.com https://new.example.com")
}
