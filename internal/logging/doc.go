// Package logging provides slog-based structured logging with console and
// JSON output, shared attribute helpers, and standardized field keys.
package logging
