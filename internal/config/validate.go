package config

import (
	"fmt"

	"kiln/internal/sockpath"
)

// Validate checks the configuration for values that cannot work at runtime.
func (c *Config) Validate() error {
	if err := c.validateToolchain(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateToolchain() error {
	if c.Toolchain.JavaBinary == "" {
		return fmt.Errorf("toolchain: java_binary must not be empty")
	}
	if c.Toolchain.CoursierBinary == "" {
		return fmt.Errorf("toolchain: coursier_binary must not be empty")
	}
	if c.Toolchain.ServerEntryClass == "" {
		return fmt.Errorf("toolchain: server_entry_class must not be empty")
	}
	if c.Toolchain.CompileEntryClass == "" {
		return fmt.Errorf("toolchain: compile_entry_class must not be empty")
	}
	if len(c.Toolchain.CompilerCoordinates) == 0 {
		return fmt.Errorf("toolchain: compiler_coordinates must list at least one coordinate")
	}
	return nil
}

func (c *Config) validateServer() error {
	if err := sockpath.ValidateService(c.Server.Service); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging: format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging: level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
