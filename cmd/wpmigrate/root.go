package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/rapyd-cloud/wpmigrate/cmd/wpmigrate/commands"
	"github.com/rapyd-cloud/wpmigrate/cmd/wpmigrate/opts"
	"github.com/rapyd-cloud/wpmigrate/pkg/config"
	"github.com/rapyd-cloud/wpmigrate/pkg/execx"
	"github.com/rapyd-cloud/wpmigrate/pkg/status"
)

var (
	configFile string
	debug      bool
)

// newRootOpts builds the shared dependencies for subcommands. It runs
// inside RunE, after flags have been parsed.
func newRootOpts() (*opts.RootOpts, error) {
	cfg, err := config.LoadOrDefault(configFile)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}

	return &opts.RootOpts{
		Config:   cfg,
		Runner:   execx.New(),
		Reporter: status.New(os.Stdout, os.Stdin),
	}, nil
}

// setupLogging configures zerolog based on flags. Structured logs go to
// stderr; operator console output goes through the status reporter.
func setupLogging() {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	writer := zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
	})
	log := zerolog.New(writer).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "wpmigrate",
		Short:         "Migrate WordPress sites onto rapyd hosting",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
	}

	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultPath, "site config file path")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")

	cmd.AddCommand(
		commands.NewReplaceCmd(newRootOpts),
		commands.NewBackupCmd(newRootOpts),
		commands.NewRestoreCmd(newRootOpts),
		commands.NewImportCmd(newRootOpts),
		commands.NewMaintenanceCmd(newRootOpts),
		commands.NewCleanupCmd(newRootOpts),
		commands.NewSitesCmd(newRootOpts),
	)

	return cmd
}
