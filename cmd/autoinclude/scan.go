package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"autoinclude/internal/diag"
	"autoinclude/internal/diagfmt"
	"autoinclude/internal/dialect"
	"autoinclude/internal/lexer"
	"autoinclude/internal/source"
)

var scanCmd = &cobra.Command{
	Use:   "scan [flags] <file>",
	Short: "Dump the tokens the scanner produces for a file",
	Long:  `Scan runs only the lexer and prints every token with its span, leading trivia and literal prefix or suffix.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	scanCmd.Flags().String("dialect", "auto", "lexing rules (c|cpp|auto)")
}

func runScan(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	dialectFlag, err := cmd.Flags().GetString("dialect")
	if err != nil {
		return fmt.Errorf("failed to get dialect flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}

	kind, err := dialect.Parse(dialectFlag)
	if err != nil {
		return err
	}
	if kind == dialect.Unknown {
		// .h и неизвестные расширения лексим как C++
		kind, _ = dialect.FromPath(filePath)
	}

	fs := source.NewFileSet()
	fileID, err := fs.Load(filePath)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	bag := diag.NewBag(maxDiagnostics)
	tokens := lexer.Tokenize(fs.Get(fileID), lexer.Options{Dialect: kind, Reporter: diag.BagReporter{Bag: bag}})

	// Выводим диагностику в stderr, если есть
	if bag.Len() > 0 {
		useColor, err := readColor(colorFlag, os.Stderr)
		if err != nil {
			return err
		}
		bag.Sort()
		diagfmt.Pretty(cmd.ErrOrStderr(), bag, fs, diagfmt.PrettyOpts{Color: useColor, Context: 2})
	}

	switch format {
	case "pretty":
		return diagfmt.FormatTokensPretty(cmd.OutOrStdout(), tokens, fs)
	case "json":
		return diagfmt.FormatTokensJSON(cmd.OutOrStdout(), tokens)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
