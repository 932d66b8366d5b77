package commands

import (
	"os"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/rapyd-cloud/wpmigrate/pkg/rewrite"
)

// NewReplaceCmd creates the replace command: rewrite a path or domain
// token across the site tree and, unless skipped, the database.
func NewReplaceCmd(optsFn OptsProvider) *cobra.Command {
	var (
		oldToken   string
		newToken   string
		kindFlag   string
		rootDir    string
		skipDB     bool
		forceHTTPS bool
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "replace",
		Short: "Rewrite a path or domain across the site files and database",
		Long: `Replace scans the site tree for a literal token, backs up every affected
file, and substitutes the new value in files and across all database
tables. Path tokens handle the trailing-slash variant; domain tokens keep
each occurrence's scheme unless --force-https pairs both onto https.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd.Context(), "replace")

			ro, err := optsFn()
			if err != nil {
				return err
			}

			kind, err := rewrite.ParseKind(kindFlag)
			if err != nil {
				return err
			}

			if rootDir == "" {
				rootDir = ro.Config.Webroot
			}
			if rootDir == "" {
				cwd, err := os.Getwd()
				if err != nil {
					return errors.Errorf("resolving working directory: %w", err)
				}
				rootDir = cwd
			}

			job := &rewrite.Job{
				OldToken:       oldToken,
				NewToken:       newToken,
				Kind:           kind,
				Root:           rootDir,
				FileFilters:    ro.Config.Rewrite.FileFilters,
				ExcludeFilters: ro.Config.Rewrite.ExcludeFilters,
				MaxDepth:       ro.Config.Rewrite.MaxDepth,
				BackupDir:      ro.Config.BackupDir,
				ForceHTTPS:     forceHTTPS,
			}
			if err := job.Validate(); err != nil {
				return err
			}

			if !yes {
				ok, err := ro.Reporter.Confirm(
					"Replace " + oldToken + " with " + newToken + " under " + job.Root + "?")
				if err != nil {
					return err
				}
				if !ok {
					return errors.Errorf("aborted by operator")
				}
			}

			ro.Reporter.Step("Rewriting files")
			if _, err := runRewrite(ctx, ro, job); err != nil {
				return err
			}

			if !skipDB {
				ro.Reporter.Step("Rewriting database")
				rewriteDatabase(ctx, ro, siteManager(ro, job.Root), job)
			}

			ro.Reporter.Success("replace complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&oldToken, "old", "", "token to replace (required)")
	cmd.Flags().StringVar(&newToken, "new", "", "replacement token (required)")
	cmd.Flags().StringVar(&kindFlag, "kind", "path", "token kind: path or url")
	cmd.Flags().StringVar(&rootDir, "root", "", "directory to scan (default: configured webroot, else cwd)")
	cmd.Flags().BoolVar(&skipDB, "skip-db", false, "skip the database search-replace pass")
	cmd.Flags().BoolVar(&forceHTTPS, "force-https", false, "pair http:// and https:// of the old domain onto https:// of the new one")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	cobra.CheckErr(cmd.MarkFlagRequired("old"))
	cobra.CheckErr(cmd.MarkFlagRequired("new"))

	return cmd
}
