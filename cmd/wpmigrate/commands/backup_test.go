package commands

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupCmd_ArchivesWebroot(t *testing.T) {
	provider, env := newTestEnv(t, "")
	outDir := t.TempDir()

	cmd := NewBackupCmd(provider)
	cmd.SetArgs([]string{"--out", outDir})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	lines := env.runner.CommandLines()
	require.Len(t, lines, 1, "no database configured, archive only")
	assert.True(t, strings.HasPrefix(lines[0], "tar -czf "+filepath.Join(outDir, "files.tar.gz")))
	assert.Contains(t, lines[0], "--exclude=./wp-content/cache")

	assert.Contains(t, env.out.String(), "no database configured")
}

func TestBackupCmd_SyncTo(t *testing.T) {
	provider, env := newTestEnv(t, "")
	outDir := t.TempDir()

	cmd := NewBackupCmd(provider)
	cmd.SetArgs([]string{"--out", outDir, "--sync-to", "deploy@target:/var/www/site"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	lines := env.runner.CommandLines()
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "rsync -a"))
	assert.Contains(t, lines[1], "--exclude=*.log")
	assert.Contains(t, lines[1], env.webroot+"/ deploy@target:/var/www/site")

	assert.Contains(t, env.out.String(), "webroot synced to deploy@target:/var/www/site")
}
