package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/pelletier/go-toml"

	"xuc/common"
	"xuc/report"
)

// The enumeration of output formats.
const (
	EmitListing = "listing"
	EmitJSON    = "json"
	EmitCBOR    = "cbor"
	EmitNone    = "none"
)

// emitFormats is the list of valid output formats.
var emitFormats = []string{EmitListing, EmitJSON, EmitCBOR, EmitNone}

// Config is the configuration of a single check run.
type Config struct {
	// The name of the reporter's log level.
	LogLevel string

	// The output format: one of the enumerated emit formats.
	Emit string

	// The directory hand-off files are written to.
	OutputPath string

	// Whether completed analyses are cached and where.
	Caching        bool
	CacheDirectory string
}

// tomlProjectFile represents the project file as it is encoded in TOML.
type tomlProjectFile struct {
	Check *tomlCheck `toml:"check"`
}

// tomlCheck represents the check settings as they are encoded in TOML.
type tomlCheck struct {
	LogLevel       string `toml:"log-level"`
	Emit           string `toml:"emit"`
	OutputPath     string `toml:"output"`
	Caching        bool   `toml:"caching"`
	CacheDirectory string `toml:"cache-directory,omitempty"`
}

// defaultConfig returns the configuration used in the absence of a project
// file and command-line options.
func defaultConfig(projectDir string) *Config {
	return &Config{
		LogLevel:   "verbose",
		Emit:       EmitListing,
		OutputPath: filepath.Join(projectDir, "out"),
	}
}

// loadProjectFile merges the project file in projectDir into cfg.  A missing
// project file is not an error.
func loadProjectFile(projectDir string, cfg *Config) error {
	buff, err := os.ReadFile(filepath.Join(projectDir, common.ProjectFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return err
	}

	tpf := &tomlProjectFile{}
	if err := toml.Unmarshal(buff, tpf); err != nil {
		return fmt.Errorf("%s: %w", common.ProjectFileName, err)
	}

	if tpf.Check == nil {
		return nil
	}

	tc := tpf.Check
	if tc.LogLevel != "" {
		cfg.LogLevel = tc.LogLevel
	}

	if tc.Emit != "" {
		cfg.Emit = tc.Emit
	}

	if tc.OutputPath != "" {
		cfg.OutputPath = resolvePath(projectDir, tc.OutputPath)
	}

	cfg.Caching = tc.Caching
	if tc.CacheDirectory != "" {
		cfg.CacheDirectory = resolvePath(projectDir, tc.CacheDirectory)
	}

	return nil
}

// validate checks that the configuration is complete and consistent, filling
// in the cache directory if caching is enabled without one.
func (cfg *Config) validate(projectDir string) error {
	if _, ok := report.ParseLogLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("invalid log level `%s`", cfg.LogLevel)
	}

	if !slices.Contains(emitFormats, cfg.Emit) {
		return fmt.Errorf("invalid output format `%s`", cfg.Emit)
	}

	if cfg.Caching && cfg.CacheDirectory == "" {
		cfg.CacheDirectory = filepath.Join(projectDir, common.XucCacheDir)
	}

	return nil
}

// resolvePath resolves a path from the project file relative to the project
// directory.
func resolvePath(projectDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(projectDir, path)
}
