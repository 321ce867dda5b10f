package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"autoinclude/internal/diagfmt"
	"autoinclude/internal/driver"
	"autoinclude/internal/fix"
	"autoinclude/internal/walk"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <file|directory|->...",
	Short: "Add missing #include directives in place",
	Long: `Resolve the standard library symbols each file uses and insert the
#include directives that are missing. Directories are walked for C and C++
sources. With "-" the file is read from stdin and the plan is printed,
never applied.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, err := cmd.Flags().GetBool("dry-run")
		if err != nil {
			return fmt.Errorf("failed to get dry-run flag: %w", err)
		}
		mode := runApply
		if dryRun {
			mode = runDryRun
		}
		return runFix(cmd, args, mode)
	},
}

var planCmd = &cobra.Command{
	Use:   "plan [flags] <file|directory|->...",
	Short: "Print the missing includes as a unified diff",
	Long:  "Print the insertions fix would make as a zero-context unified diff that patch -p1 accepts. No file is written.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFix(cmd, args, runDiff)
	},
}

type runMode uint8

const (
	runApply runMode = iota
	runDryRun
	runDiff
)

func init() {
	for _, cmd := range []*cobra.Command{fixCmd, planCmd} {
		cmd.Flags().String("dialect", "auto", "language of the inputs (c|cpp|auto)")
		cmd.Flags().String("convention", "append", "where new includes go (append|grouped)")
		cmd.Flags().Int("jobs", 0, "files processed in parallel (0 = GOMAXPROCS)")
		cmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
		cmd.Flags().String("format", "pretty", "output format (pretty|json|msgpack|short)")
		cmd.Flags().String("stdin-filename", "", "file name used for dialect inference when reading stdin")
	}
	fixCmd.Flags().Bool("dry-run", false, "show the plan without writing")
	fixCmd.Flags().String("backup", "", "keep the original next to each changed file with this suffix")
	fixCmd.Flags().Bool("force", false, "write even if a file changed after it was planned")
}

func runFix(cmd *cobra.Command, args []string, mode runMode) error {
	for _, arg := range args {
		if arg == "-" && len(args) > 1 {
			return fmt.Errorf("stdin (-) cannot be combined with other paths")
		}
	}

	s, err := resolveSettings(cmd, args[0])
	if err != nil {
		return err
	}

	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	opts := driver.Options{
		Convention:     s.convention,
		DialectHint:    s.dialect,
		MaxDiagnostics: s.maxDiag,
		Timings:        s.timings,
		Jobs:           s.jobs,
		Apply:          mode == runApply,
		Backup:         s.backup,
	}
	if mode == runApply {
		if opts.Force, err = cmd.Flags().GetBool("force"); err != nil {
			return fmt.Errorf("failed to get force flag: %w", err)
		}
	}

	if args[0] == "-" {
		return runFixStdin(cmd, s, opts, mode)
	}

	paths, err := walk.Expand(args, walk.Options{
		Root:      s.cfg.Root,
		Include:   s.cfg.Files.Include,
		Exclude:   s.cfg.Files.Exclude,
		Gitignore: s.cfg.Files.Gitignore,
	})
	if err != nil {
		return fmt.Errorf("fix: %w", err)
	}
	if len(paths) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "no C or C++ files found")
		return nil
	}

	var results []driver.FileResult
	if s.format == diagfmt.FormatPretty && shouldUseTUI(s.ui) {
		results, err = runFixWithUI(cmd.Context(), "autoinclude", paths, opts)
	} else {
		results, err = driver.FixFiles(cmd.Context(), paths, opts)
	}
	if err != nil {
		return fmt.Errorf("fix: %w", err)
	}

	if err := writeResults(cmd.OutOrStdout(), cmd.ErrOrStderr(), results, s, mode); err != nil {
		return err
	}
	return failedFiles(results)
}

func runFixStdin(cmd *cobra.Command, s settings, opts driver.Options, mode runMode) error {
	name, err := cmd.Flags().GetString("stdin-filename")
	if err != nil {
		return fmt.Errorf("failed to get stdin-filename flag: %w", err)
	}
	if name == "" {
		name = "<stdin>"
	}
	content, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}

	res, err := driver.FixIncludes(cmd.Context(), driver.Input{Path: name, Content: content}, opts)
	if err != nil {
		return fmt.Errorf("fix: %w", err)
	}
	if mode == runApply {
		mode = runDryRun
	}
	results := []driver.FileResult{{Path: name, Result: res, Bag: res.Bag}}
	return writeResults(cmd.OutOrStdout(), cmd.ErrOrStderr(), results, s, mode)
}

// writeResults prints plans and summaries to out and diagnostics to errOut.
// Machine formats put everything on out.
func writeResults(out, errOut io.Writer, results []driver.FileResult, s settings, mode runMode) error {
	if s.format != diagfmt.FormatPretty && mode != runDiff {
		if err := diagfmt.WriteRun(out, results, s.format, s.jsonOpts()); err != nil {
			return fmt.Errorf("failed to write results: %w", err)
		}
		return nil
	}

	pretty := s.prettyOpts()
	for _, fr := range results {
		printDiagnostics(errOut, fr, pretty)
		if fr.Result == nil {
			continue
		}
		switch mode {
		case runDiff:
			if _, err := io.WriteString(out, fix.Preview(fr.Path, fr.Result.Plan)); err != nil {
				return err
			}
			continue
		case runDryRun:
			if err := diagfmt.PrettyPlan(out, fr.Result.File(), fr.Result.Plan, pretty); err != nil {
				return err
			}
		}
		if !s.quiet {
			fmt.Fprintf(out, "%s: %s\n", fr.Path, diagfmt.Summary(fr))
		}
	}
	if s.timings {
		printTimings(errOut, results)
	}
	return nil
}

func printDiagnostics(w io.Writer, fr driver.FileResult, opts diagfmt.PrettyOpts) {
	if fr.Bag == nil || fr.Bag.Len() == 0 {
		return
	}
	fr.Bag.Sort()
	if fr.Result == nil {
		// файл не загрузился: спанов нет, печатаем путь
		for _, d := range fr.Bag.Items() {
			fmt.Fprintf(w, "%s: %s %s: %s\n", fr.Path, d.Severity, d.Code.ID(), d.Message)
		}
		return
	}
	diagfmt.Pretty(w, fr.Bag, fr.Result.FileSet, opts)
}

var errFilesFailed = errors.New("some files could not be fixed")

func failedFiles(results []driver.FileResult) error {
	n := 0
	for _, fr := range results {
		if fr.Bag != nil && fr.Bag.HasErrors() {
			n++
		}
	}
	if n == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d of %d", errFilesFailed, n, len(results))
}
