package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbukum/cascade/bootstrap"
	"github.com/kbukum/cascade/cascade"
	"github.com/kbukum/cascade/observability"
)

// FailedError is returned by run when at least one node did not succeed.
type FailedError struct {
	Keys []string
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("%d of the cascade results failed: %s", len(e.Keys), strings.Join(e.Keys, ", "))
}

// NewRunCommand creates the one-shot cascade command.
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the action here and on every peer, then print the report",
		Long: `Run executes the configured action on this machine and cascades it to
every configured peer, exactly like a request to a serving node, then prints
the aggregated report. The command fails when any node did not succeed.

Examples:
  cascade run --data '{"region":"eu-west"}'
  cascade run --data-file payload.json --output json
  cascade run --no-cascade --output yaml`,
		Args: cobra.NoArgs,
		RunE: runCascade,
	}

	cmd.Flags().String("data", "", "JSON payload passed to the action")
	cmd.Flags().String("data-file", "", "Read the JSON payload from a file (- for stdin)")
	cmd.Flags().Bool("no-cascade", false, "Run the action on this node only")
	cmd.Flags().StringP("output", "o", "table", "Output format: table, json or yaml")
	return cmd
}

func runCascade(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("output")
	render, err := renderer(format)
	if err != nil {
		return err
	}
	payload, err := readPayload(cmd)
	if err != nil {
		return err
	}
	noCascade, _ := cmd.Flags().GetBool("no-cascade")

	cfg, err := loadNodeConfig(cmd)
	if err != nil {
		return err
	}
	// stdout carries the report.
	cfg.Logging.Output = "stderr"

	app, err := bootstrap.NewApp(cfg, bootstrap.WithSummaryOutput(nil))
	if err != nil {
		return err
	}
	telemetry := observability.NewTelemetry(cfg.Observability, cfg.Name, cfg.Version, cfg.Environment, app.Logger)
	if err := app.RegisterComponent(telemetry); err != nil {
		return err
	}
	engine, err := cfg.NewEngine(app.Logger)
	if err != nil {
		return err
	}

	var results *cascade.Results
	err = app.RunTask(cmd.Context(), func(ctx context.Context) error {
		results = engine.Run(ctx, payload, !noCascade)
		return nil
	})
	if err != nil {
		return err
	}

	if err := render(cmd.OutOrStdout(), results); err != nil {
		return err
	}
	if failed := results.Failed(); len(failed) > 0 {
		return &FailedError{Keys: failed}
	}
	return nil
}

// readPayload returns the --data or --data-file payload; no payload is a
// JSON null.
func readPayload(cmd *cobra.Command) (Payload, error) {
	data, _ := cmd.Flags().GetString("data")
	file, _ := cmd.Flags().GetString("data-file")
	if data != "" && file != "" {
		return nil, fmt.Errorf("--data and --data-file are mutually exclusive")
	}

	raw := []byte(data)
	switch file {
	case "":
	case "-":
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read payload: %w", err)
		}
		raw = b
	default:
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read payload: %w", err)
		}
		raw = b
	}

	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, nil
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("payload is not valid JSON")
	}
	return Payload(raw), nil
}
