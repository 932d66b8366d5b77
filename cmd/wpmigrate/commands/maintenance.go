package commands

import (
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

// NewMaintenanceCmd creates the maintenance command.
func NewMaintenanceCmd(optsFn OptsProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "maintenance on|off",
		Short:     "Toggle the site maintenance page",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd.Context(), "maintenance")

			ro, err := optsFn()
			if err != nil {
				return err
			}
			if ro.Config.Webroot == "" {
				return errors.Errorf("webroot is required (set it in %s)", configPathHint())
			}

			var on bool
			switch args[0] {
			case "on":
				on = true
			case "off":
				on = false
			default:
				return errors.Errorf("want on or off, got %q", args[0])
			}

			if err := siteManager(ro, ro.Config.Webroot).MaintenanceMode(ctx, on); err != nil {
				return err
			}
			ro.Reporter.Success("maintenance mode %s", args[0])
			return nil
		},
	}

	return cmd
}
