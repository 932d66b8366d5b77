package commands

import (
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/rapyd-cloud/wpmigrate/pkg/archive"
	"github.com/rapyd-cloud/wpmigrate/pkg/rewrite"
)

// NewImportCmd creates the import command, the V1-to-rapyd flow: unpack
// the transferred site, rewrite the old install path, move the database
// onto https URLs in two scheme-paired passes, and point the install at
// its new address.
func NewImportCmd(optsFn OptsProvider) *cobra.Command {
	var archivePath string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a V1 site archive onto this host",
		Long: `Import unpacks a site transferred from V1 hosting and adapts it to this
host: the old install path is rewritten in files and database, and both
http:// and https:// occurrences of the old domain are rewritten to the
https:// form of the new one, so the imported site lands fully on TLS.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd.Context(), "import")

			ro, err := optsFn()
			if err != nil {
				return err
			}
			cfg := ro.Config
			if cfg.Webroot == "" {
				return errors.Errorf("webroot is required (set it in %s)", configPathHint())
			}
			if cfg.Domains.Old == "" || cfg.Domains.New == "" {
				return errors.Errorf("domains.old and domains.new are required for import")
			}

			sm := siteManager(ro, cfg.Webroot)

			if archivePath != "" {
				ro.Reporter.Step("Extracting site archive")
				packer := archive.New(ro.Runner)
				if err := packer.Extract(ctx, archivePath, cfg.Webroot); err != nil {
					return err
				}
				ro.Reporter.Success("site extracted into %s", cfg.Webroot)
			}

			if cfg.Paths.Old != "" && cfg.Paths.Old != cfg.Paths.New {
				ro.Reporter.Step("Rewriting install path")
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

			ro.Reporter.Step("Moving site onto https")
			urlJob := &rewrite.Job{
				OldToken:       cfg.Domains.Old,
				NewToken:       cfg.Domains.New,
				Kind:           rewrite.URL,
				Root:           cfg.Webroot,
				FileFilters:    cfg.Rewrite.FileFilters,
				ExcludeFilters: cfg.Rewrite.ExcludeFilters,
				MaxDepth:       cfg.Rewrite.MaxDepth,
				BackupDir:      cfg.BackupDir,
				ForceHTTPS:     true,
			}
			if err := urlJob.Validate(); err != nil {
				return err
			}
			if _, err := runRewrite(ctx, ro, urlJob); err != nil {
				return err
			}
			rewriteDatabase(ctx, ro, sm, urlJob)

			ro.Reporter.Step("Updating site address")
			newURL := "https://" + cfg.Domains.New
			if prev, err := sm.OptionGet(ctx, "siteurl"); err != nil {
				ro.Reporter.Warn("reading current siteurl: %v", err)
			} else if prev != "" && prev != newURL {
				ro.Reporter.Success("site address was %s", prev)
			}
			if err := sm.OptionUpdate(ctx, "siteurl", newURL); err != nil {
				ro.Reporter.Warn("updating siteurl: %v", err)
			}
			if err := sm.OptionUpdate(ctx, "home", newURL); err != nil {
				ro.Reporter.Warn("updating home: %v", err)
			}

			if err := sm.FlushCache(ctx); err != nil {
				ro.Reporter.Warn("flushing object cache: %v", err)
			}

			ro.Reporter.Success("import complete, site address is %s", newURL)
			return nil
		},
	}

	cmd.Flags().StringVar(&archivePath, "archive", "", "site archive to extract (skip to import an already-unpacked tree)")

	return cmd
}
