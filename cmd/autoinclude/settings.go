package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"autoinclude/internal/config"
	"autoinclude/internal/diag"
	"autoinclude/internal/diagfmt"
	"autoinclude/internal/dialect"
	"autoinclude/internal/plan"
)

// settings is autoinclude.toml with command-line overrides applied.
type settings struct {
	cfg        config.Config
	dialect    dialect.Kind
	convention plan.Convention
	format     diagfmt.Format
	ui         uiMode
	color      bool
	quiet      bool
	timings    bool
	jobs       int
	maxDiag    int
	backup     string
}

// loadConfig reads --config or discovers autoinclude.toml above target.
// Unknown keys are printed as warnings; a missing file is not an error.
func loadConfig(cmd *cobra.Command, target string) (config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}

	var cfg config.Config
	if path != "" {
		cfg, err = config.Load(path, rep)
	} else {
		if target == "-" || target == "" {
			target = "."
		}
		cfg, err = config.Discover(target, rep)
		if errors.Is(err, config.ErrNotFound) {
			err = nil
		}
	}
	printConfigWarnings(cmd.ErrOrStderr(), bag)
	return cfg, err
}

func printConfigWarnings(w io.Writer, bag *diag.Bag) {
	for _, d := range bag.Items() {
		fmt.Fprintf(w, "%s %s: %s\n", strings.ToLower(d.Severity.String()), d.Code.ID(), d.Message)
	}
}

// resolveSettings merges the configuration for target with the flags the
// user actually set.
func resolveSettings(cmd *cobra.Command, target string) (settings, error) {
	cfg, err := loadConfig(cmd, target)
	if err != nil {
		return settings{}, err
	}
	s := settings{
		cfg:        cfg,
		dialect:    cfg.Fix.Dialect,
		convention: cfg.Fix.Convention,
		jobs:       cfg.Output.Jobs,
		maxDiag:    cfg.Output.MaxDiagnostics,
		backup:     cfg.Fix.Backup,
	}

	flags := cmd.Flags()
	root := cmd.Root().PersistentFlags()

	if flags.Changed("dialect") {
		value, err := flags.GetString("dialect")
		if err != nil {
			return s, fmt.Errorf("failed to get dialect flag: %w", err)
		}
		if s.dialect, err = dialect.Parse(value); err != nil {
			return s, err
		}
		if s.dialect == dialect.Both {
			return s, fmt.Errorf("invalid --dialect value %q (expected c|cpp|auto)", value)
		}
	}
	if flags.Changed("convention") {
		value, err := flags.GetString("convention")
		if err != nil {
			return s, fmt.Errorf("failed to get convention flag: %w", err)
		}
		if s.convention, err = plan.ParseConvention(value); err != nil {
			return s, err
		}
	}
	if flags.Changed("jobs") {
		if s.jobs, err = flags.GetInt("jobs"); err != nil {
			return s, fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	if flags.Lookup("backup") != nil && flags.Changed("backup") {
		if s.backup, err = flags.GetString("backup"); err != nil {
			return s, fmt.Errorf("failed to get backup flag: %w", err)
		}
	}
	if root.Changed("max-diagnostics") {
		if s.maxDiag, err = root.GetInt("max-diagnostics"); err != nil {
			return s, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
	}

	format := cfg.Output.Format
	if flags.Changed("format") {
		if format, err = flags.GetString("format"); err != nil {
			return s, fmt.Errorf("failed to get format flag: %w", err)
		}
	}
	if s.format, err = diagfmt.ParseFormat(format); err != nil {
		return s, err
	}

	ui := cfg.Output.UI
	if flags.Changed("ui") {
		if ui, err = flags.GetString("ui"); err != nil {
			return s, fmt.Errorf("failed to get ui flag: %w", err)
		}
	}
	if s.ui, err = readUIMode(ui); err != nil {
		return s, err
	}

	color := cfg.Output.Color
	if root.Changed("color") {
		if color, err = root.GetString("color"); err != nil {
			return s, fmt.Errorf("failed to get color flag: %w", err)
		}
	}
	if s.color, err = readColor(color, os.Stdout); err != nil {
		return s, err
	}

	if s.quiet, err = root.GetBool("quiet"); err != nil {
		return s, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.timings, err = root.GetBool("timings"); err != nil {
		return s, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if s.jobs < 0 || s.maxDiag < 0 {
		return s, fmt.Errorf("--jobs and --max-diagnostics must not be negative")
	}
	return s, nil
}

func (s settings) prettyOpts() diagfmt.PrettyOpts {
	return diagfmt.PrettyOpts{Color: s.color, Context: 2, PathMode: diagfmt.PathModeAuto}
}

func (s settings) jsonOpts() diagfmt.JSONOpts {
	return diagfmt.JSONOpts{
		IncludePositions: true,
		PathMode:         diagfmt.PathModeAuto,
		Max:              s.maxDiag,
		IncludeNotes:     true,
		IncludeTimings:   s.timings,
	}
}
