package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

// migrationUser is the stock admin account the migration tooling creates
// on the source site; it must not survive the move.
const migrationUser = "migrations@rapyd.cloud"

// artifactPatterns are leftover migration files swept from the webroot.
var artifactPatterns = []string{
	"*.sql",
	"*.sql.gz",
	"*.tar.gz",
	"wpmigrate-*",
}

// NewCleanupCmd creates the cleanup command: remove the migration admin
// user, clear caches and transients, and sweep migration artifacts out of
// the webroot. Everything here is best-effort; each failure is a warning
// and the sweep continues.
func NewCleanupCmd(optsFn OptsProvider) *cobra.Command {
	var (
		user       string
		reassignTo string
	)

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove migration artifacts from a migrated site",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd.Context(), "cleanup")

			ro, err := optsFn()
			if err != nil {
				return err
			}
			cfg := ro.Config
			if cfg.Webroot == "" {
				return errors.Errorf("webroot is required (set it in %s)", configPathHint())
			}

			sm := siteManager(ro, cfg.Webroot)

			ro.Reporter.Step("Removing migration user")
			if _, err := sm.UserID(ctx, user); err != nil {
				ro.Reporter.Warn("user %s not found, skipping: %v", user, err)
			} else if err := sm.DeleteUser(ctx, user, reassignTo); err != nil {
				ro.Reporter.Warn("deleting user %s: %v", user, err)
			} else {
				ro.Reporter.Success("deleted user %s", user)
			}

			ro.Reporter.Step("Clearing caches")
			if err := sm.DeleteTransients(ctx); err != nil {
				ro.Reporter.Warn("deleting transients: %v", err)
			}
			if err := sm.FlushCache(ctx); err != nil {
				ro.Reporter.Warn("flushing object cache: %v", err)
			}

			ro.Reporter.Step("Sweeping migration artifacts")
			removed := sweepArtifacts(ro.Reporter.Warn, cfg.Webroot)
			ro.Reporter.Success("removed %d artifact(s)", removed)

			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", migrationUser, "migration user login to delete")
	cmd.Flags().StringVar(&reassignTo, "reassign", "", "user ID to reassign the deleted user's content to")

	return cmd
}

// sweepArtifacts deletes top-level webroot files matching the artifact
// patterns and returns how many were removed.
func sweepArtifacts(warnf func(format string, args ...any), webroot string) int {
	removed := 0
	for _, pattern := range artifactPatterns {
		matches, err := filepath.Glob(filepath.Join(webroot, pattern))
		if err != nil {
			warnf("bad artifact pattern %q: %v", pattern, err)
			continue
		}
		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil || info.IsDir() {
				continue
			}
			if err := os.Remove(match); err != nil {
				warnf("removing %s: %v", match, err)
				continue
			}
			removed++
		}
	}
	return removed
}
