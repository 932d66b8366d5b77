// Package commands holds the wpmigrate subcommands. Each command is a thin
// sequential orchestration over the rewrite, wpcli, database, archive, and
// platform packages; an operator watches the run, so every step reports a
// success, warning, or error line.
package commands

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/rapyd-cloud/wpmigrate/cmd/wpmigrate/opts"
	"github.com/rapyd-cloud/wpmigrate/pkg/config"
	"github.com/rapyd-cloud/wpmigrate/pkg/database"
	"github.com/rapyd-cloud/wpmigrate/pkg/rewrite"
	"github.com/rapyd-cloud/wpmigrate/pkg/wpcli"
)

// OptsProvider builds the shared command dependencies. It runs inside
// RunE, after flag parsing.
type OptsProvider func() (*opts.RootOpts, error)

// commandContext attaches a per-command logger field.
func commandContext(ctx context.Context, name string) context.Context {
	return zerolog.Ctx(ctx).With().Str("command", name).Logger().WithContext(ctx)
}

// runRewrite scans, rewrites, and reports one job's file pass.
func runRewrite(ctx context.Context, ro *opts.RootOpts, job *rewrite.Job) (*rewrite.Result, error) {
	candidates, scanned, err := rewrite.Scan(ctx, job)
	if err != nil {
		return nil, errors.Errorf("scanning %s: %w", job.Root, err)
	}

	result, err := rewrite.RewriteFiles(ctx, job, candidates, scanned)
	if err != nil {
		return nil, errors.Errorf("rewriting files: %w", err)
	}

	for _, path := range result.ModifiedPaths {
		ro.Reporter.FileUpdated(path)
	}
	for _, warning := range result.Warnings {
		ro.Reporter.Warn("%s", warning)
	}
	ro.Reporter.Counts(result.FilesModified, result.FilesScanned)
	return result, nil
}

// rewriteDatabase runs the job's database pass and reports warnings. A
// failing table never aborts the migration; the operator follows up by
// hand.
func rewriteDatabase(ctx context.Context, ro *opts.RootOpts, sm rewrite.SiteManager, job *rewrite.Job) {
	warnings := rewrite.RewriteDatabase(ctx, sm, job)
	for _, w := range warnings {
		ro.Reporter.Warn("%s", w)
	}
	if len(warnings) == 0 {
		ro.Reporter.Success("database search-replace complete")
	}
}

// siteManager builds the wp-cli client for the configured webroot.
func siteManager(ro *opts.RootOpts, webroot string) *wpcli.Client {
	return wpcli.New(ro.Runner, ro.Config.WPCLIBin, webroot)
}

func dbCredentials(cfg *config.Config) database.Credentials {
	return database.Credentials{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Name:     cfg.Database.Name,
	}
}

func configPathHint() string {
	return config.DefaultPath
}
