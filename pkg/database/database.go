// Package database wraps the mysql client tools for dumping and restoring
// a site database around a migration.
package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/rapyd-cloud/wpmigrate/pkg/execx"
)

// Credentials identifies the site database. Password is passed to the
// client tools directly and must never appear in logs.
type Credentials struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

func (c Credentials) connArgs() []string {
	args := []string{"--host=" + c.Host, "--user=" + c.User}
	if c.Port != 0 {
		args = append(args, fmt.Sprintf("--port=%d", c.Port))
	}
	if c.Password != "" {
		args = append(args, "--password="+c.Password)
	}
	return args
}

// Client runs mysqldump and mysql.
type Client struct {
	runner execx.Runner
}

// New creates a Client.
func New(runner execx.Runner) *Client {
	return &Client{runner: runner}
}

// Dump writes a gzipped dump of the database to outPath + ".gz" and
// returns that path. The dump runs in a single transaction so a live site
// stays consistent.
func (c *Client) Dump(ctx context.Context, creds Credentials, outPath string) (string, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().Str("database", creds.Name).Str("out", outPath).Msg("dumping database")

	args := append(creds.connArgs(),
		"--single-transaction",
		"--quick",
		"--result-file="+outPath,
		creds.Name,
	)
	if _, err := c.runner.Run(ctx, execx.Command{Name: "mysqldump", Args: args}); err != nil {
		return "", errors.Errorf("dumping database %s: %w", creds.Name, err)
	}

	if _, err := c.runner.Run(ctx, execx.Command{Name: "gzip", Args: []string{"-f", outPath}}); err != nil {
		return "", errors.Errorf("compressing dump: %w", err)
	}
	return outPath + ".gz", nil
}

// Restore loads a dump file into the database, decompressing it first when
// it carries a .gz suffix.
func (c *Client) Restore(ctx context.Context, creds Credentials, dumpPath string) error {
	logger := zerolog.Ctx(ctx)
	logger.Info().Str("database", creds.Name).Str("dump", dumpPath).Msg("restoring database")

	if strings.HasSuffix(dumpPath, ".gz") {
		if _, err := c.runner.Run(ctx, execx.Command{Name: "gunzip", Args: []string{"-f", dumpPath}}); err != nil {
			return errors.Errorf("decompressing dump: %w", err)
		}
		dumpPath = strings.TrimSuffix(dumpPath, ".gz")
	}

	args := append(creds.connArgs(),
		creds.Name,
		"-e", "source "+dumpPath,
	)
	if _, err := c.runner.Run(ctx, execx.Command{Name: "mysql", Args: args}); err != nil {
		return errors.Errorf("restoring database %s: %w", creds.Name, err)
	}
	return nil
}

// CreateDatabase ensures the target database exists before a restore.
func (c *Client) CreateDatabase(ctx context.Context, creds Credentials) error {
	args := append(creds.connArgs(),
		"-e", fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", creds.Name),
	)
	if _, err := c.runner.Run(ctx, execx.Command{Name: "mysql", Args: args}); err != nil {
		return errors.Errorf("creating database %s: %w", creds.Name, err)
	}
	return nil
}
