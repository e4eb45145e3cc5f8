// Package action provides ready-made local actions for a cascade node:
// running an operator-configured command, or only logging the payload.
package action
