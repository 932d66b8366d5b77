// Package wpcli is the typed surface over the WordPress administration CLI.
// Every method maps to one wp invocation scoped to the site webroot.
package wpcli

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/rapyd-cloud/wpmigrate/pkg/execx"
)

// Client runs wp commands against a single site.
type Client struct {
	runner  execx.Runner
	bin     string
	webroot string
}

// New creates a Client. bin is usually "wp"; webroot becomes --path on
// every invocation.
func New(runner execx.Runner, bin, webroot string) *Client {
	if bin == "" {
		bin = "wp"
	}
	return &Client{runner: runner, bin: bin, webroot: webroot}
}

func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	full := append([]string{"--path=" + c.webroot}, args...)
	out, err := c.runner.Run(ctx, execx.Command{Name: c.bin, Args: full})
	if err != nil {
		return out, errors.Errorf("wp %s: %w", strings.Join(args, " "), err)
	}
	return out, nil
}

// SearchReplace performs a bulk literal replacement across the database.
// wp-cli handles PHP-serialized values itself, so tokens are passed through
// verbatim.
func (c *Client) SearchReplace(ctx context.Context, oldToken, newToken string, allTables bool) error {
	args := []string{"search-replace", oldToken, newToken, "--skip-columns=guid", "--report-changed-only"}
	if allTables {
		args = append(args, "--all-tables")
	}
	out, err := c.run(ctx, args...)
	if err != nil {
		return err
	}
	zerolog.Ctx(ctx).Debug().Str("output", strings.TrimSpace(string(out))).Msg("search-replace done")
	return nil
}

// MaintenanceMode toggles the site's maintenance page.
func (c *Client) MaintenanceMode(ctx context.Context, on bool) error {
	action := "deactivate"
	if on {
		action = "activate"
	}
	_, err := c.run(ctx, "maintenance-mode", action)
	return err
}

// OptionGet returns a site option value, trimmed.
func (c *Client) OptionGet(ctx context.Context, key string) (string, error) {
	out, err := c.run(ctx, "option", "get", key)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// OptionUpdate sets a site option (siteurl, home, ...).
func (c *Client) OptionUpdate(ctx context.Context, key, value string) error {
	_, err := c.run(ctx, "option", "update", key, value)
	return err
}

// UserID resolves a user login or email to its numeric ID.
func (c *Client) UserID(ctx context.Context, login string) (string, error) {
	out, err := c.run(ctx, "user", "get", login, "--field=ID")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// DeleteUser removes a user. When reassignTo is non-empty, their content
// is reassigned to that user ID instead of deleted.
func (c *Client) DeleteUser(ctx context.Context, login, reassignTo string) error {
	args := []string{"user", "delete", login, "--yes"}
	if reassignTo != "" {
		args = append(args, "--reassign="+reassignTo)
	}
	_, err := c.run(ctx, args...)
	return err
}

// FlushCache flushes the object cache.
func (c *Client) FlushCache(ctx context.Context) error {
	_, err := c.run(ctx, "cache", "flush")
	return err
}

// DeleteTransients removes all transients, including expired ones.
func (c *Client) DeleteTransients(ctx context.Context) error {
	_, err := c.run(ctx, "transient", "delete", "--all")
	return err
}

// CoreVerify checks core files against the wordpress.org checksums.
func (c *Client) CoreVerify(ctx context.Context) error {
	_, err := c.run(ctx, "core", "verify-checksums")
	return err
}
