// Package util provides small generic helpers shared by cascade packages:
// pointer helpers, sorted map keys and second-resolution timing.
package util
