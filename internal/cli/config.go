package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/cascade/action"
	"github.com/kbukum/cascade/cascade"
	"github.com/kbukum/cascade/config"
	"github.com/kbukum/cascade/identity"
	"github.com/kbukum/cascade/logger"
	"github.com/kbukum/cascade/observability"
	"github.com/kbukum/cascade/server"
	"github.com/kbukum/cascade/version"
)

const (
	serviceName = "cascade"
	envPrefix   = "CASCADE"
	meterName   = "github.com/kbukum/cascade"
)

// Payload is the request body type the binary cascades: any JSON document,
// forwarded to peers byte for byte.
type Payload = json.RawMessage

// NodeSection identifies this node among its peers.
type NodeSection struct {
	// Identifier pins the local node identifier; empty resolves the hostname.
	Identifier string `yaml:"identifier" mapstructure:"identifier"`
}

// NodeConfig is the configuration file of a cascade node.
type NodeConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config           `yaml:"server" mapstructure:"server"`
	Cascade       cascade.Config[Payload] `yaml:"cascade" mapstructure:"cascade"`
	Node          NodeSection             `yaml:"node" mapstructure:"node"`
	Observability observability.Config    `yaml:"observability" mapstructure:"observability"`
	Action        action.CommandConfig    `yaml:"action" mapstructure:"action"`
}

// DefaultNodeConfig returns the values that apply to keys absent from every
// configuration source.
func DefaultNodeConfig() NodeConfig {
	return NodeConfig{
		ServiceConfig: config.ServiceConfig{Name: serviceName, Version: version.Get().Short()},
		Cascade:       cascade.DefaultConfig[Payload](),
	}
}

// ApplyDefaults fills unset fields of every section. The server write
// timeout is raised past the cascade deadline so coordinators can answer.
func (c *NodeConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Cascade.ApplyDefaults()
	c.Observability.ApplyDefaults()
	c.Node.Identifier = strings.TrimSpace(c.Node.Identifier)

	if floor := c.Cascade.Timeout + 5*time.Second; c.Server.WriteTimeout < floor {
		c.Server.WriteTimeout = floor
	}
}

// Validate checks every section. The local action is bound after loading,
// so the cascade section is checked with a placeholder action.
func (c *NodeConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	cc := c.Cascade
	if cc.LocalAction == nil {
		cc.LocalAction = func(context.Context, Payload) error { return nil }
	}
	if err := cc.Validate(); err != nil {
		return fmt.Errorf("cascade: %w", err)
	}
	return nil
}

// Identity returns the resolver for this node.
func (c *NodeConfig) Identity() identity.Resolver {
	if c.Node.Identifier != "" {
		return identity.Static(c.Node.Identifier)
	}
	return identity.Default()
}

// LocalAction returns the configured command action, or a logging action
// when no command is configured.
func (c *NodeConfig) LocalAction(log *logger.Logger) cascade.Action[Payload] {
	if c.Action.Binary != "" {
		return action.Command[Payload](c.Action, log)
	}
	return action.Log[Payload](log, c.Cascade.ActionDescription)
}

// NewEngine binds the local action and builds the cascade engine.
func (c *NodeConfig) NewEngine(log *logger.Logger, opts ...cascade.Option) (*cascade.Engine[Payload], error) {
	cfg := c.Cascade
	cfg.LocalAction = c.LocalAction(log)

	metrics, err := observability.NewCascadeMetrics(observability.Meter(meterName))
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	base := []cascade.Option{
		cascade.WithLogger(log),
		cascade.WithIdentity(c.Identity()),
		cascade.WithMetrics(metrics),
	}
	return cascade.New(cfg, append(base, opts...)...)
}

// loadNodeConfig reads the configuration selected by the command flags.
func loadNodeConfig(cmd *cobra.Command) (*NodeConfig, error) {
	cfg := DefaultNodeConfig()
	opts := []config.LoaderOption{config.WithEnvPrefix(envPrefix)}
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		opts = append(opts, config.WithConfigFile(path))
	}
	if path, _ := cmd.Flags().GetString("env-file"); path != "" {
		opts = append(opts, config.WithEnvFile(path))
	}
	if err := config.LoadConfig(serviceName, &cfg, opts...); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// routePath strips any query from the configured cascade path.
func routePath(path string) string {
	p, _, _ := strings.Cut(path, "?")
	if p == "" {
		return "/"
	}
	return p
}
