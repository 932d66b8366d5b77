package commands

import (
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/rapyd-cloud/wpmigrate/pkg/archive"
	"github.com/rapyd-cloud/wpmigrate/pkg/database"
	"github.com/rapyd-cloud/wpmigrate/pkg/rewrite"
)

// NewRestoreCmd creates the restore command: unpack a transferred backup
// onto the target host, load the database, and rewrite the old host's
// paths and URLs to the new ones.
func NewRestoreCmd(optsFn OptsProvider) *cobra.Command {
	var (
		archivePath string
		dumpPath    string
	)

	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Restore a transferred backup and rewrite paths and URLs",
		Long: `Restore unpacks the webroot archive, loads the database dump, and then
rewrites the source host's filesystem path and domain to the target's,
using the paths and domains pairs from the site config. The site is held
in maintenance mode for the duration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd.Context(), "restore")

			ro, err := optsFn()
			if err != nil {
				return err
			}
			cfg := ro.Config
			if cfg.Webroot == "" {
				return errors.Errorf("webroot is required (set it in %s)", configPathHint())
			}

			sm := siteManager(ro, cfg.Webroot)

			ro.Reporter.Step("Extracting webroot archive")
			packer := archive.New(ro.Runner)
			if err := packer.Extract(ctx, archivePath, cfg.Webroot); err != nil {
				return err
			}
			ro.Reporter.Success("webroot extracted")

			// Maintenance mode needs a working install, so it follows the
			// extract. A failure is a warning: a half-configured target may
			// not serve traffic yet anyway.
			if err := sm.MaintenanceMode(ctx, true); err != nil {
				ro.Reporter.Warn("enabling maintenance mode: %v", err)
			}

			if dumpPath != "" {
				if cfg.Database.Host == "" {
					return errors.Errorf("database credentials are required to restore a dump")
				}
				ro.Reporter.Step("Restoring database")
				db := database.New(ro.Runner)
				if err := db.CreateDatabase(ctx, dbCredentials(cfg)); err != nil {
					return err
				}
				if err := db.Restore(ctx, dbCredentials(cfg), dumpPath); err != nil {
					return err
				}
				ro.Reporter.Success("database restored")
			}

			if cfg.Paths.Old != "" && cfg.Paths.Old != cfg.Paths.New {
				ro.Reporter.Step("Rewriting filesystem paths")
				job := &rewrite.Job{
					OldToken:       cfg.Paths.Old,
					NewToken:       cfg.Paths.New,
					Kind:           rewrite.Path,
					Root:           cfg.Webroot,
					FileFilters:    cfg.Rewrite.FileFilters,
					ExcludeFilters: cfg.Rewrite.ExcludeFilters,
					MaxDepth:       cfg.Rewrite.MaxDepth,
					BackupDir:      cfg.BackupDir,
				}
				if err := job.Validate(); err != nil {
					return err
				}
				if _, err := runRewrite(ctx, ro, job); err != nil {
					return err
				}
				rewriteDatabase(ctx, ro, sm, job)
			}

			if cfg.Domains.Old != "" && cfg.Domains.Old != cfg.Domains.New {
				ro.Reporter.Step("Rewriting site URLs")
				job := &rewrite.Job{
					OldToken:       cfg.Domains.Old,
					NewToken:       cfg.Domains.New,
					Kind:           rewrite.URL,
					Root:           cfg.Webroot,
					FileFilters:    cfg.Rewrite.FileFilters,
					ExcludeFilters: cfg.Rewrite.ExcludeFilters,
					MaxDepth:       cfg.Rewrite.MaxDepth,
					BackupDir:      cfg.BackupDir,
				}
				if err := job.Validate(); err != nil {
					return err
				}
				if _, err := runRewrite(ctx, ro, job); err != nil {
					return err
				}
				rewriteDatabase(ctx, ro, sm, job)
			}

			ro.Reporter.Step("Verifying core files")
			if err := sm.CoreVerify(ctx); err != nil {
				ro.Reporter.Warn("core checksum verification: %v", err)
			} else {
				ro.Reporter.Success("core files verified")
			}

			if err := sm.MaintenanceMode(ctx, false); err != nil {
				ro.Reporter.Warn("disabling maintenance mode: %v", err)
			}

			ro.Reporter.Success("restore complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&archivePath, "archive", "", "webroot archive to extract (required)")
	cmd.Flags().StringVar(&dumpPath, "dump", "", "database dump to restore (.sql or .sql.gz)")
	cobra.CheckErr(cmd.MarkFlagRequired("archive"))

	return cmd
}
