package config

import "strings"

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeToolchain()
	c.normalizeServer()
	c.normalizeBootstrap()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	for _, entry := range []struct {
		value *string
	}{
		{&c.Paths.LogDir},
		{&c.Paths.CacheDir},
	} {
		trimmed := strings.TrimSpace(*entry.value)
		if trimmed == "" {
			continue
		}
		expanded, err := ExpandPath(trimmed)
		if err != nil {
			return err
		}
		*entry.value = expanded
	}
	return nil
}

func (c *Config) normalizeToolchain() {
	c.Toolchain.JavaBinary = strings.TrimSpace(c.Toolchain.JavaBinary)
	c.Toolchain.CoursierBinary = strings.TrimSpace(c.Toolchain.CoursierBinary)
	c.Toolchain.ServerEntryClass = strings.TrimSpace(c.Toolchain.ServerEntryClass)
	c.Toolchain.CompileEntryClass = strings.TrimSpace(c.Toolchain.CompileEntryClass)
	c.Toolchain.CompilerCoordinates = trimAll(c.Toolchain.CompilerCoordinates)
	c.Toolchain.BootCoordinates = trimAll(c.Toolchain.BootCoordinates)
}

func (c *Config) normalizeServer() {
	c.Server.Service = strings.TrimSpace(c.Server.Service)
	if c.Server.ReadyTimeoutSeconds <= 0 {
		c.Server.ReadyTimeoutSeconds = Default().Server.ReadyTimeoutSeconds
	}
	if c.Server.PollIntervalMillis <= 0 {
		c.Server.PollIntervalMillis = Default().Server.PollIntervalMillis
	}
}

func (c *Config) normalizeBootstrap() {
	c.Bootstrap.InstallEntryClass = strings.TrimSpace(c.Bootstrap.InstallEntryClass)
	c.Bootstrap.OutputDir = strings.TrimSpace(c.Bootstrap.OutputDir)
	c.Bootstrap.SourceGlobs = trimAll(c.Bootstrap.SourceGlobs)
	if len(c.Bootstrap.SourceGlobs) == 0 {
		c.Bootstrap.SourceGlobs = Default().Bootstrap.SourceGlobs
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
