package cli

import (
	"github.com/spf13/cobra"

	"github.com/kbukum/cascade/version"
)

// NewRootCommand creates the cascade command tree.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cascade",
		Short: "Run an action locally and on every peer node",
		Long: `cascade executes a configured action on this node, then propagates the
same request to a static set of peer nodes over HTTP and aggregates every
outcome into a single report.

Peers are called with the cascade-disable marker on the query string, so
they run the action locally and do not cascade further.

Configuration is read from --config, ./cmd/cascade/config.yml, ./cascade.yml,
./config.yml, ~/.config/cascade/config.yml or /etc/cascade/config.yml.
CASCADE_* environment variables override file values
(CASCADE_SERVER_PORT=9090 sets server.port).`,
		Version:       version.Get().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("config", "", "Path to config file")
	cmd.PersistentFlags().String("env-file", "", "Path to .env file")

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewRunCommand())
	return cmd
}
