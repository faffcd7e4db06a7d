// Package config provides functionality for loading and validating the
// analyser configuration. It supports TOML format; every field has a
// working default so an absent configuration file is not an error.
package config

import (
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/ricardobranco777/pkg/internal/common"
	"github.com/ricardobranco777/pkg/internal/shlib"
)

// Error definitions for the config package
var (
	// ErrInvalidConfigPath is returned when the config file path is invalid
	ErrInvalidConfigPath = errors.New("invalid config file path")
)

// Config holds the analyser settings.
type Config struct {
	// ABI is the target platform identity in the form
	// name:version:arch:wordsize[.extra]. Objects whose header does not
	// match it are rejected. An empty or unparseable value disables the
	// check rather than rejecting everything.
	ABI string `toml:"abi"`

	// AllowBaseShlibs treats base-system libraries like any other
	// dependency instead of silently accepting them.
	AllowBaseShlibs bool `toml:"allow_base_shlibs"`

	// DeveloperMode enables content flagging (ELF objects, static libs,
	// libtool archives) and downgrades per-file failures to warnings.
	DeveloperMode bool `toml:"developer_mode"`

	// ELFHintsFile is the run-time linker hints file seeding the
	// shared-library resolver.
	ELFHintsFile string `toml:"elf_hints_file"`

	// StageDir optionally points at a staging tree whose not-yet-installed
	// libraries seed the resolver before the hints file is consulted.
	StageDir string `toml:"stage_dir"`
}

// Default returns a Config with working defaults.
func Default() *Config {
	return &Config{
		ELFHintsFile: shlib.DefaultHintsFile,
	}
}

// Loader handles loading and validating configurations
type Loader struct {
	fs common.FileSystem
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return NewLoaderWithFS(common.NewDefaultFileSystem())
}

// NewLoaderWithFS creates a new config loader with a custom FileSystem
func NewLoaderWithFS(fs common.FileSystem) *Loader {
	return &Loader{
		fs: fs,
	}
}

// Load reads and decodes the TOML file at path on top of the defaults.
func (l *Loader) Load(path string) (*Config, error) {
	if path == "" {
		return nil, ErrInvalidConfigPath
	}
	content, err := l.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := Default()
	if err := toml.Unmarshal(content, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if cfg.ELFHintsFile == "" {
		cfg.ELFHintsFile = shlib.DefaultHintsFile
	}
	return cfg, nil
}
