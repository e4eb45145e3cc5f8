package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/kbukum/cascade/cascade"
)

type renderFunc func(w io.Writer, r *cascade.Results) error

func renderer(format string) (renderFunc, error) {
	switch strings.ToLower(format) {
	case "table", "":
		return renderTable, nil
	case "json":
		return renderJSON, nil
	case "yaml", "yml":
		return renderYAML, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
	}
}

func renderJSON(w io.Writer, r *cascade.Results) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func renderYAML(w io.Writer, r *cascade.Results) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}

// renderTable prints one line per key, widths computed before coloring.
func renderTable(w io.Writer, r *cascade.Results) error {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)
	gray := color.New(color.FgHiBlack)

	node := r.CoordinatingNode
	if node == "" {
		node = "(unidentified)"
	}
	bold.Fprintf(w, "Cascade from %s", node)
	gray.Fprintf(w, " in %.3fs\n\n", r.TotalRuntimeSeconds)

	keys := r.Keys()
	width := 0
	for _, k := range keys {
		width = max(width, len(k))
	}

	for _, k := range keys {
		res := r.Results[k]
		var status string
		switch {
		case k == cascade.KeyWarning:
			status = yellow.Sprint("WARN")
		case res.Success:
			status = green.Sprint("OK  ")
		default:
			status = red.Sprint("FAIL")
		}

		runtime := "      -"
		if res.RuntimeSeconds != nil {
			runtime = fmt.Sprintf("%6.3fs", *res.RuntimeSeconds)
		}

		detail := res.Message
		if res.ErrorMessage != "" && !strings.Contains(detail, res.ErrorMessage) {
			if detail != "" {
				detail += " | "
			}
			detail += res.ErrorMessage
		}
		fmt.Fprintf(w, "  %s  %-*s  %s  %s\n", status, width, k, gray.Sprint(runtime), detail)
	}

	total := len(keys)
	if _, ok := r.Results[cascade.KeyWarning]; ok {
		total--
	}
	failed := len(r.Failed())
	fmt.Fprintln(w)
	if failed == 0 {
		green.Fprintf(w, "%d/%d succeeded\n", total, total)
	} else {
		red.Fprintf(w, "%d/%d failed\n", failed, total)
	}
	return nil
}
