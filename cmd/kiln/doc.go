// Package main hosts the kiln CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into broker
// operations against per-workspace command servers: ensuring a server is
// running, dispatching compile and install commands over the socket protocol,
// and reporting server and ledger state. It centralizes configuration
// resolution, workspace layout, and structured logging setup so subcommands
// can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
