package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration outside the workspace.
type Paths struct {
	LogDir   string `toml:"log_dir"`
	CacheDir string `toml:"cache_dir"`
}

// Toolchain describes the external JVM toolchain kiln brokers access to.
type Toolchain struct {
	JavaBinary          string   `toml:"java_binary"`
	CoursierBinary      string   `toml:"coursier_binary"`
	CompilerCoordinates []string `toml:"compiler_coordinates"`
	BootCoordinates     []string `toml:"boot_coordinates"`
	ServerEntryClass    string   `toml:"server_entry_class"`
	CompileEntryClass   string   `toml:"compile_entry_class"`
	ServerArgs          []string `toml:"server_args"`
}

// Server tunes supervision of the compile server.
type Server struct {
	Service             string `toml:"service"`
	ReadyTimeoutSeconds int    `toml:"ready_timeout_seconds"`
	PollIntervalMillis  int    `toml:"poll_interval_millis"`
}

// Bootstrap configures the no-subcommand bootstrap-and-install flow.
type Bootstrap struct {
	InstallEntryClass string   `toml:"install_entry_class"`
	InstallArgs       []string `toml:"install_args"`
	SourceGlobs       []string `toml:"source_globs"`
	OutputDir         string   `toml:"output_dir"`
}

// Logging controls log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// History controls the invocation ledger.
type History struct {
	Enabled bool `toml:"enabled"`
}

// Config is the root configuration document.
type Config struct {
	Paths     Paths     `toml:"paths"`
	Toolchain Toolchain `toml:"toolchain"`
	Server    Server    `toml:"server"`
	Bootstrap Bootstrap `toml:"bootstrap"`
	Logging   Logging   `toml:"logging"`
	History   History   `toml:"history"`
}

// DefaultConfigPath returns the expected config file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/kiln/config.toml")
}

// Load reads configuration from path, falling back to the default location
// and then to built-in defaults when no file exists. It returns the config,
// the path that was read (empty when defaults were used), and an error.
func Load(path string) (*Config, string, error) {
	resolved := strings.TrimSpace(path)
	explicit := resolved != ""
	if !explicit {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return nil, "", err
		}
		resolved = defaultPath
	}

	expanded, err := ExpandPath(resolved)
	if err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			cfg := Default()
			if err := cfg.normalize(); err != nil {
				return nil, "", err
			}
			return &cfg, "", nil
		}
		return nil, "", fmt.Errorf("read config %s: %w", expanded, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, "", fmt.Errorf("parse config %s: %w", expanded, err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, "", err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return &cfg, expanded, nil
}

// WriteSample writes the embedded sample config to path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	expanded, err := ExpandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(expanded, []byte(sampleConfig), 0o644)
}

// EnsureDirectories creates the directories the configuration references.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LogDir, c.Paths.CacheDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ReadyTimeout returns the server readiness budget as a duration.
func (c *Config) ReadyTimeout() time.Duration {
	return time.Duration(c.Server.ReadyTimeoutSeconds) * time.Second
}

// PollInterval returns the readiness polling cadence as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Server.PollIntervalMillis) * time.Millisecond
}

// ExpandPath resolves ~ and environment variables in a path and makes it
// absolute.
func ExpandPath(pathValue string) (string, error) {
	trimmed := strings.TrimSpace(pathValue)
	if trimmed == "" {
		return "", errors.New("path is empty")
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	trimmed = os.ExpandEnv(trimmed)
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("resolve path %s: %w", trimmed, err)
	}
	return abs, nil
}
