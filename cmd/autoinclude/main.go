package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"autoinclude/internal/config"
	"autoinclude/internal/diag"
	"autoinclude/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "autoinclude",
	Short: "Add missing #include directives to C and C++ sources",
	Long: `autoinclude scans C and C++ files for standard library symbols and adds
the #include directives they need, without touching anything else.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("config", "", "path to "+config.FileName+" (default: search upwards from the first path)")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|always|never)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress per-file summaries")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", diag.DefaultMaxDiagnostics, "maximum number of diagnostics per file")
	rootCmd.PersistentFlags().String("trace", "", "write trace events to a file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to file")
}

// main executes the root command with Ctrl-C cancelling the run. Any error
// exits with status 1.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
