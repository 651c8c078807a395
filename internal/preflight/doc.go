// Package preflight checks the external toolchain and workspace directories
// before kiln attempts any real work.
package preflight
