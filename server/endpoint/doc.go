// Package endpoint provides the operational HTTP handlers of a cascade node.
package endpoint
