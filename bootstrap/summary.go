package bootstrap

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/kbukum/cascade/component"
)

// Detail is a labelled line in the startup summary, e.g. node identity or
// peer list.
type Detail struct {
	Label string
	Value string
}

// Summary renders the startup banner of a node.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	details         []Detail
	out             io.Writer
}

// NewSummary creates a summary that writes to out.
func NewSummary(serviceName, version string, out io.Writer) *Summary {
	if out == nil {
		out = io.Discard
	}
	return &Summary{serviceName: serviceName, version: version, out: out}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// Track adds a labelled detail line.
func (s *Summary) Track(label, value string) {
	s.details = append(s.details, Detail{Label: label, Value: value})
}

// Details returns the tracked detail lines.
func (s *Summary) Details() []Detail {
	return s.details
}

// Display prints the banner: details, components from the registry, the
// routes of any RouteProvider, and live health.
func (s *Summary) Display(ctx context.Context, registry *component.Registry) {
	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan)
	gray := color.New(color.FgHiBlack)

	fmt.Fprintln(s.out)
	bold.Fprintf(s.out, "%s %s", s.serviceName, s.version)
	gray.Fprintf(s.out, " started in %.2fs\n\n", s.startupDuration.Seconds())

	for i, d := range s.details {
		fmt.Fprintf(s.out, "   %s %s ", treePrefix(i, len(s.details)), cyan.Sprintf("%-10s", d.Label))
		fmt.Fprintln(s.out, d.Value)
	}
	if registry == nil {
		fmt.Fprintln(s.out)
		return
	}

	descs := registry.Describe()
	if len(descs) > 0 {
		bold.Fprintln(s.out, "\nComponents")
		for i, d := range descs {
			fmt.Fprintf(s.out, "   %s %s (%s): %s\n", treePrefix(i, len(descs)), d.Name, d.Type, d.Details)
		}
	}

	var routes []component.Route
	for _, c := range registry.All() {
		if rp, ok := c.(component.RouteProvider); ok {
			routes = append(routes, rp.Routes()...)
		}
	}
	if len(routes) > 0 {
		bold.Fprintf(s.out, "\nRoutes (%d)\n", len(routes))
		for i, r := range routes {
			fmt.Fprintf(s.out, "   %s %s %s %s\n", treePrefix(i, len(routes)),
				methodColor(r.Method).Sprintf("%-7s", r.Method), r.Path, gray.Sprint("→ "+r.Handler))
		}
	}

	health := registry.HealthAll(ctx)
	if len(health) > 0 {
		bold.Fprintln(s.out, "\nHealth")
		for i, h := range health {
			msg := ""
			if h.Message != "" {
				msg = " - " + h.Message
			}
			fmt.Fprintf(s.out, "   %s %s %s%s\n", treePrefix(i, len(health)), h.Name,
				healthColor(h.Status).Sprint(strings.ToLower(string(h.Status))), msg)
		}
	}
	fmt.Fprintln(s.out)
}

func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func healthColor(status component.HealthStatus) *color.Color {
	switch status {
	case component.StatusHealthy:
		return color.New(color.FgGreen)
	case component.StatusDegraded:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}

func methodColor(method string) *color.Color {
	switch method {
	case "GET":
		return color.New(color.FgBlue)
	case "POST":
		return color.New(color.FgGreen)
	case "PUT", "PATCH":
		return color.New(color.FgYellow)
	case "DELETE":
		return color.New(color.FgRed)
	default:
		return color.New(color.FgWhite)
	}
}
