package commands

import (
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/rapyd-cloud/wpmigrate/pkg/archive"
	"github.com/rapyd-cloud/wpmigrate/pkg/database"
)

// archiveExcludes keeps caches and logs out of the transfer tarball.
var archiveExcludes = []string{
	"./wp-content/cache",
	"./wp-content/uploads/cache",
	"*.log",
}

// NewBackupCmd creates the backup command: tarball the webroot and dump
// the database into a timestamped backup directory.
func NewBackupCmd(optsFn OptsProvider) *cobra.Command {
	var (
		outDir string
		syncTo string
	)

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Archive the webroot and dump the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd.Context(), "backup")

			ro, err := optsFn()
			if err != nil {
				return err
			}
			cfg := ro.Config
			if cfg.Webroot == "" {
				return errors.Errorf("webroot is required (set it in %s)", configPathHint())
			}

			if outDir == "" {
				outDir = filepath.Join(cfg.BackupDir, time.Now().Format("20060102-150405"))
			}

			ro.Reporter.Step("Archiving webroot")
			packer := archive.New(ro.Runner)
			archivePath := filepath.Join(outDir, "files.tar.gz")
			if err := packer.Create(ctx, cfg.Webroot, archivePath, archiveExcludes); err != nil {
				return err
			}
			ro.Reporter.Success("webroot archived to %s", archivePath)

			if cfg.Database.Host != "" {
				ro.Reporter.Step("Dumping database")
				db := database.New(ro.Runner)
				dumpPath, err := db.Dump(ctx, dbCredentials(cfg), filepath.Join(outDir, "db.sql"))
				if err != nil {
					return err
				}
				ro.Reporter.Success("database dumped to %s", dumpPath)
			} else {
				ro.Reporter.Warn("no database configured, skipping dump")
			}

			if syncTo != "" {
				ro.Reporter.Step("Syncing webroot to destination")
				if err := packer.Sync(ctx, cfg.Webroot, syncTo, archiveExcludes); err != nil {
					return err
				}
				ro.Reporter.Success("webroot synced to %s", syncTo)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "backup directory (default: <backup_dir>/<timestamp>)")
	cmd.Flags().StringVar(&syncTo, "sync-to", "", "rsync the webroot to this destination (e.g. user@host:/path) after archiving")

	return cmd
}
