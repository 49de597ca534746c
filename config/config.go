// Package config loads the .strman.yaml project configuration.
//
// The file is optional. When present in the project root it provides
// defaults for the command line: output directory, export
// formats, merge behaviour, journal location and Google Sheets access.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// FileName is the default config file name.
const FileName = ".strman.yaml"

// ---------------------------------------------------------------------------
// YAML schema
// ---------------------------------------------------------------------------

// Config is the top-level .strman.yaml structure.
type Config struct {
	// OutputDir receives exported bundles (default ".").
	OutputDir string `yaml:"output_dir,omitempty"`
	// IgnoreUnknown makes imports skip unknown keys and undeclared languages.
	IgnoreUnknown bool `yaml:"ignore_unknown,omitempty"`
	// Formats are the default export formats (default [ios]).
	Formats []string `yaml:"formats,omitempty"`
	// Sheet is the default worksheet name for imports.
	Sheet string `yaml:"sheet,omitempty"`
	// Journal is the SQLite merge journal path. Empty disables journaling.
	Journal string `yaml:"journal,omitempty"`
	// LogLevel is one of debug, info, warn, error (default info).
	LogLevel string `yaml:"log_level,omitempty"`
	// Google configures Google Sheets access.
	Google Google `yaml:"google,omitempty"`

	// root is the directory the file was loaded from.
	root string `yaml:"-"`
}

// Google holds Google Sheets settings.
type Google struct {
	// CredentialsFile is a service account JSON key, relative to the root.
	CredentialsFile string `yaml:"credentials_file,omitempty"`
}

var (
	validFormats   = []string{"ios", "and", "android"}
	validLogLevels = []string{"debug", "info", "warn", "error"}
)

// Default returns the configuration used when no file exists.
func Default(rootDir string) *Config {
	c := &Config{root: rootDir}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if len(c.Formats) == 0 {
		c.Formats = []string{"ios"}
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads .strman.yaml from rootDir. A missing file yields Default(rootDir).
func Load(rootDir string) (*Config, error) {
	return LoadFile(filepath.Join(rootDir, FileName))
}

// LoadFile reads a config file at path; its directory becomes the root for
// relative paths. A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	rootDir := filepath.Dir(path)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(rootDir), nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	c.root = rootDir
	c.applyDefaults()

	for _, f := range c.Formats {
		if !slices.Contains(validFormats, f) {
			return nil, fmt.Errorf("%s: unknown format %q (valid: ios, and)", path, f)
		}
	}
	if !slices.Contains(validLogLevels, c.LogLevel) {
		return nil, fmt.Errorf("%s: unknown log_level %q (valid: debug, info, warn, error)", path, c.LogLevel)
	}

	return c, nil
}

// ---------------------------------------------------------------------------
// Path resolution
// ---------------------------------------------------------------------------

// Root returns the directory relative paths are resolved against.
func (c *Config) Root() string {
	return c.root
}

// Resolve makes p absolute-or-root-relative. Absolute paths and empty
// strings are returned unchanged.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.root, p)
}

// OutputPath returns the resolved export directory.
func (c *Config) OutputPath() string { return c.Resolve(c.OutputDir) }

// JournalPath returns the resolved journal path, or "" when disabled.
func (c *Config) JournalPath() string { return c.Resolve(c.Journal) }

// CredentialsPath returns the resolved Google credentials file, or "".
func (c *Config) CredentialsPath() string { return c.Resolve(c.Google.CredentialsFile) }
