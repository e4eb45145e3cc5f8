package action

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kbukum/cascade/cascade"
	"github.com/kbukum/cascade/logger"
	"github.com/kbukum/cascade/process"
)

// CommandConfig configures a command-backed local action.
type CommandConfig struct {
	// Binary is the executable path or name (resolved via PATH).
	Binary string `yaml:"binary" mapstructure:"binary"`
	// Args are the command-line arguments.
	Args []string `yaml:"args" mapstructure:"args"`
	// Dir is the working directory.
	Dir string `yaml:"dir" mapstructure:"dir"`
	// Env is additional KEY=value environment.
	Env []string `yaml:"env" mapstructure:"env"`
	// Timeout bounds one execution. Zero leaves only the cascade deadline.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// GracePeriod is the SIGTERM to SIGKILL delay on cancellation.
	GracePeriod time.Duration `yaml:"grace_period" mapstructure:"grace_period"`
}

// Command returns a local action that runs the configured command with the
// JSON-encoded payload on stdin. A non-zero exit fails the action.
func Command[T any](cfg CommandConfig, log *logger.Logger) cascade.Action[T] {
	if log == nil {
		log = logger.Nop()
	}
	log = log.WithComponent("action.command")

	return func(ctx context.Context, payload T) error {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode payload: %w", err)
		}

		res, err := process.Run(ctx, process.Command{
			Binary:      cfg.Binary,
			Args:        cfg.Args,
			Dir:         cfg.Dir,
			Env:         cfg.Env,
			Stdin:       bytes.NewReader(data),
			Timeout:     cfg.Timeout,
			GracePeriod: cfg.GracePeriod,
		})
		if err != nil {
			return err
		}

		log.Debug("command finished", logger.MergeWithDuration(logger.Fields(
			"binary", cfg.Binary,
			"exit_code", res.ExitCode,
			"stdout_bytes", len(res.Stdout),
		), res.Duration))
		return nil
	}
}
