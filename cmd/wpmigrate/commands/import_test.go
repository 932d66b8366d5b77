package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportCmd_FullFlow(t *testing.T) {
	provider, env := newTestEnv(t, "")

	// Shape the shared config the way an operator's .wpmigrate.yaml would.
	ro, err := provider()
	require.NoError(t, err)
	ro.Config.Domains.Old = "old.example.com"
	ro.Config.Domains.New = "new.example.com"
	ro.Config.Paths.Old = "/var/www/old"
	ro.Config.Paths.New = env.webroot

	require.NoError(t, os.WriteFile(
		filepath.Join(env.webroot, "wp-config.php"),
		[]byte("require '/var/www/old/wp-settings.php'; // http://old.example.com"), 0o644))

	env.runner.Respond(
		"wp --path="+env.webroot+" option get siteurl",
		[]byte("http://old.example.com\n"), nil)

	cmd := NewImportCmd(provider)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	content, err := os.ReadFile(filepath.Join(env.webroot, "wp-config.php"))
	require.NoError(t, err)
	assert.Equal(t,
		"require '"+env.webroot+"/wp-settings.php'; // https://new.example.com",
		string(content))

	lines := env.runner.CommandLines()

	// Path rules, then scheme-paired URL rules, in order.
	require.Len(t, lines, 8)
	assert.Contains(t, lines[0], "search-replace /var/www/old/ "+env.webroot+"/")
	assert.Contains(t, lines[1], "search-replace /var/www/old "+env.webroot)
	assert.Contains(t, lines[2], "search-replace http://old.example.com https://new.example.com")
	assert.Contains(t, lines[3], "search-replace https://old.example.com https://new.example.com")
	assert.Contains(t, lines[4], "option get siteurl")
	assert.Contains(t, lines[5], "option update siteurl https://new.example.com")
	assert.Contains(t, lines[6], "option update home https://new.example.com")
	assert.Contains(t, lines[7], "cache flush")

	assert.Contains(t, env.out.String(), "site address was http://old.example.com")
}

func TestImportCmd_RequiresDomains(t *testing.T) {
	provider, _ := newTestEnv(t, "")

	cmd := NewImportCmd(provider)
	cmd.SetArgs([]string{})
	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "domains.old and domains.new are required")
}
