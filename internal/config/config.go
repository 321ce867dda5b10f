// Package config loads autoinclude.toml.
//
// The file is looked up from the target directory upwards, the same way a
// project manifest is found. Every key is optional; missing keys keep the
// values of Default.
//
//	[fix]
//	convention = "grouped"   # append | grouped
//	dialect    = "auto"      # auto | c | cpp
//	backup     = ".orig"     # suffix for backups, empty disables them
//
//	[files]
//	include   = ["src/**", "include/**"]
//	exclude   = ["third_party/**"]
//	gitignore = true
//
//	[output]
//	color           = "auto"   # auto | always | never
//	ui              = "auto"   # auto | on | off
//	format          = "pretty" # pretty | json | msgpack | short
//	max_diagnostics = 100
//	jobs            = 0        # 0 means GOMAXPROCS
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"autoinclude/internal/diag"
	"autoinclude/internal/dialect"
	"autoinclude/internal/plan"
	"autoinclude/internal/source"
)

// FileName is the configuration file looked up by Find.
const FileName = "autoinclude.toml"

// ErrNotFound is returned by Find and Discover when no file exists in the
// start directory or any parent.
var ErrNotFound = errors.New("no " + FileName + " found")

type Config struct {
	// Path is the file the values came from; empty for Default.
	Path string `toml:"-"`
	// Root is the directory holding Path. Glob patterns are relative to it.
	Root string `toml:"-"`

	Fix    FixConfig    `toml:"fix"`
	Files  FilesConfig  `toml:"files"`
	Output OutputConfig `toml:"output"`
}

type FixConfig struct {
	Convention plan.Convention `toml:"convention"`
	Dialect    dialect.Kind    `toml:"dialect"`
	Backup     string          `toml:"backup"`
}

type FilesConfig struct {
	Include   []string `toml:"include"`
	Exclude   []string `toml:"exclude"`
	Gitignore bool     `toml:"gitignore"`
}

type OutputConfig struct {
	Color          string `toml:"color"`
	UI             string `toml:"ui"`
	Format         string `toml:"format"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
	Jobs           int    `toml:"jobs"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Fix: FixConfig{
			Convention: plan.Append,
			Dialect:    dialect.Unknown,
		},
		Files: FilesConfig{
			Gitignore: true,
		},
		Output: OutputConfig{
			Color:          "auto",
			UI:             "auto",
			Format:         "pretty",
			MaxDiagnostics: diag.DefaultMaxDiagnostics,
		},
	}
}

// Find walks up from startDir looking for FileName.
func Find(startDir string) (string, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve start directory: %w", err)
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", ErrNotFound
}

// Discover finds and loads the configuration for startDir. Without a file
// it returns Default and ErrNotFound; callers usually ignore the latter.
func Discover(startDir string, rep diag.Reporter) (Config, error) {
	path, err := Find(startDir)
	if err != nil {
		return Default(), err
	}
	return Load(path, rep)
}

// Load decodes path over Default. Unknown keys are reported as CFG5001
// warnings; invalid values are errors.
func Load(path string, rep diag.Reporter) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Default(), fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	cfg.Path = path
	cfg.Root = filepath.Dir(path)

	for _, key := range meta.Undecoded() {
		diag.ReportWarning(rep, diag.CfgUnknownKey, source.Span{}, fmt.Sprintf("%s: unknown key %s", path, key)).Emit()
	}
	if meta.IsDefined("fix", "dialect") && cfg.Fix.Dialect == dialect.Both {
		return Default(), fmt.Errorf("%s: [fix].dialect must be c, cpp or auto", path)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the enumerated and numeric values.
func (c Config) Validate() error {
	if err := oneOf("[output].color", c.Output.Color, "auto", "always", "never"); err != nil {
		return err
	}
	if err := oneOf("[output].ui", c.Output.UI, "auto", "on", "off"); err != nil {
		return err
	}
	if err := oneOf("[output].format", c.Output.Format, "pretty", "json", "msgpack", "short"); err != nil {
		return err
	}
	if c.Output.MaxDiagnostics < 0 {
		return fmt.Errorf("[output].max_diagnostics must not be negative")
	}
	if c.Output.Jobs < 0 {
		return fmt.Errorf("[output].jobs must not be negative")
	}
	if strings.ContainsAny(c.Fix.Backup, `/\`) {
		return fmt.Errorf("[fix].backup must be a suffix, not a path: %q", c.Fix.Backup)
	}
	return nil
}

func oneOf(key, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %s, got %q", key, strings.Join(allowed, ", "), value)
}
