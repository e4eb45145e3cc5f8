package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbukum/cascade/bootstrap"
	"github.com/kbukum/cascade/cascade"
	"github.com/kbukum/cascade/logger"
	"github.com/kbukum/cascade/observability"
	"github.com/kbukum/cascade/server"
)

// NewServeCommand creates the node daemon command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the cascade endpoint on this node",
		Long: `Serve starts the HTTP server of a cascade node. Requests to the configured
cascade path run the action locally and, unless the request carries the
cascade-disable marker, on every configured peer.

Examples:
  cascade serve --config /etc/cascade/config.yml
  CASCADE_SERVER_PORT=9090 cascade serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadNodeConfig(cmd)
			if err != nil {
				return err
			}
			app, err := newNodeApp(cfg, cmd)
			if err != nil {
				return err
			}
			return app.Run(cmd.Context())
		},
	}
	return cmd
}

// newNodeApp wires telemetry, the engine and the HTTP server into an App.
func newNodeApp(cfg *NodeConfig, cmd *cobra.Command, opts ...bootstrap.Option) (*bootstrap.App[*NodeConfig], error) {
	opts = append([]bootstrap.Option{bootstrap.WithSummaryOutput(cmd.ErrOrStderr())}, opts...)
	app, err := bootstrap.NewApp(cfg, opts...)
	if err != nil {
		return nil, err
	}

	telemetry := observability.NewTelemetry(cfg.Observability, cfg.Name, cfg.Version, cfg.Environment, app.Logger)
	if err := app.RegisterComponent(telemetry); err != nil {
		return nil, err
	}

	engine, err := cfg.NewEngine(app.Logger)
	if err != nil {
		return nil, err
	}

	srv := server.New(cfg.Server, app.Logger)
	srv.ApplyDefaults(cfg.Name, app.Components.HealthAll)
	srv.Mount(string(cfg.Cascade.Method), routePath(cfg.Cascade.Path), cascade.Handler(engine))
	if err := app.RegisterComponent(server.NewComponent(srv)); err != nil {
		return nil, err
	}

	id, ok := cfg.Identity().LocalIdentifier()
	if !ok {
		id = "(unresolved)"
	}
	app.Summary.Track("node", id)
	app.Summary.Track("action", cfg.Cascade.ActionDescription)
	app.Summary.Track("peers", strings.Join(cfg.Cascade.Hosts, ", "))
	app.Summary.Track("policy", string(cfg.Cascade.TimeoutPolicy)+" after "+cfg.Cascade.Timeout.String())

	app.OnReady(func(context.Context) error {
		app.Logger.Info("Cascade endpoint ready", logger.Fields(
			"method", string(cfg.Cascade.Method),
			"path", routePath(cfg.Cascade.Path),
			"addr", srv.Addr(),
			"peers", len(cfg.Cascade.Hosts),
		))
		return nil
	})
	return app, nil
}
