// Package opts carries the dependencies shared by all wpmigrate commands.
package opts

import (
	"github.com/rapyd-cloud/wpmigrate/pkg/config"
	"github.com/rapyd-cloud/wpmigrate/pkg/execx"
	"github.com/rapyd-cloud/wpmigrate/pkg/status"
)

// RootOpts is built once by the root command and handed to every
// subcommand constructor.
type RootOpts struct {
	Config   *config.Config
	Runner   execx.Runner
	Reporter *status.Reporter
}
