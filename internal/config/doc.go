// Package config loads, normalizes, and validates kiln's TOML configuration.
package config
