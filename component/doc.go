// Package component defines the lifecycle contract shared by the long-running
// parts of a cascade node (HTTP server, telemetry exporters) and a Registry
// that starts them in order and stops them in reverse.
//
// Components may also implement Describable to appear in the startup
// summary the node prints, and RouteProvider to list the HTTP routes they
// serve.
package component
