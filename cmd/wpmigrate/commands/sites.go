package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rapyd-cloud/wpmigrate/pkg/platform"
)

// NewSitesCmd creates the sites command group, a passthrough to the
// platform CLI's site and domain lifecycle.
func NewSitesCmd(optsFn OptsProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sites",
		Short: "Inspect and adjust platform sites",
	}

	cmd.AddCommand(newSitesListCmd(optsFn), newSitesSetPrimaryCmd(optsFn))
	return cmd
}

func newSitesListCmd(optsFn OptsProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sites visible to this operator",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd.Context(), "sites list")

			ro, err := optsFn()
			if err != nil {
				return err
			}

			sites, err := platform.New(ro.Runner, ro.Config.PlatformBin).ListSites(ctx)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPRIMARY DOMAIN\tWEBROOT")
			for _, s := range sites {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, s.Name, s.PrimaryDomain, s.Webroot)
			}
			return w.Flush()
		},
	}
}

func newSitesSetPrimaryCmd(optsFn OptsProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "set-primary <site-id> <domain>",
		Short: "Assign a site's primary domain",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd.Context(), "sites set-primary")

			ro, err := optsFn()
			if err != nil {
				return err
			}

			if err := platform.New(ro.Runner, ro.Config.PlatformBin).SetPrimaryDomain(ctx, args[0], args[1]); err != nil {
				return err
			}
			ro.Reporter.Success("primary domain of %s set to %s", args[0], args[1])
			return nil
		},
	}
}
