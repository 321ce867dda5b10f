package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"autoinclude/internal/dialect"
	"autoinclude/internal/kb"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup [flags] <symbol>...",
	Short: "Show which headers declare a symbol",
	Long: `Look symbols up in the built-in knowledge base. Qualified C++ names fall
back through their enclosing scopes, so std::chrono::steady_clock::now
reports the entry for std::chrono::steady_clock.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLookup,
}

func init() {
	lookupCmd.Flags().String("dialect", "auto", "only show headers usable from this language (c|cpp|auto)")
	lookupCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type lookupResult struct {
	Symbol     string               `json:"symbol"`
	Matched    string               `json:"matched,omitempty"`
	Kind       string               `json:"kind,omitempty"`
	Candidates []kb.HeaderCandidate `json:"candidates"`
}

func runLookup(cmd *cobra.Command, args []string) error {
	dialectFlag, err := cmd.Flags().GetString("dialect")
	if err != nil {
		return fmt.Errorf("failed to get dialect flag: %w", err)
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	kind, err := dialect.Parse(dialectFlag)
	if err != nil {
		return err
	}

	results := lookupSymbols(kb.Default(), args, kind)
	switch strings.ToLower(format) {
	case "pretty":
		renderLookupPretty(cmd.OutOrStdout(), results)
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	missing := 0
	for _, r := range results {
		if len(r.Candidates) == 0 {
			missing++
		}
	}
	if missing > 0 {
		return fmt.Errorf("%d of %d symbols not found", missing, len(results))
	}
	return nil
}

// lookupSymbols resolves each name for dialect d; Unknown lists the
// candidates of every dialect.
func lookupSymbols(base *kb.Base, names []string, d dialect.Kind) []lookupResult {
	out := make([]lookupResult, 0, len(names))
	for _, name := range names {
		r := lookupResult{Symbol: name, Candidates: []kb.HeaderCandidate{}}
		var (
			matched string
			cands   []kb.HeaderCandidate
		)
		if d == dialect.Unknown {
			for key := range scopes(name) {
				if e, ok := base.Entry(key); ok {
					matched, cands = key, e.Candidates
					break
				}
			}
		} else {
			matched, cands = base.LookupQualified(name, d)
		}
		if matched != "" {
			r.Kind = base.Kind(matched).String()
			r.Candidates = append(r.Candidates, cands...)
			if matched != name {
				r.Matched = matched
			}
		}
		out = append(out, r)
	}
	return out
}

// scopes yields name and then each enclosing scope: a::b::c, a::b, a.
func scopes(name string) func(yield func(string) bool) {
	return func(yield func(string) bool) {
		for key := name; key != ""; {
			if !yield(key) {
				return
			}
			i := strings.LastIndex(key, "::")
			if i <= 0 {
				return
			}
			key = key[:i]
		}
	}
}

func renderLookupPretty(w io.Writer, results []lookupResult) {
	for _, r := range results {
		if len(r.Candidates) == 0 {
			fmt.Fprintf(w, "%s: not in the knowledge base\n", r.Symbol)
			continue
		}
		label := r.Symbol
		if r.Matched != "" {
			label = fmt.Sprintf("%s (via %s)", r.Symbol, r.Matched)
		}
		fmt.Fprintf(w, "%s [%s]\n", label, r.Kind)
		for _, c := range r.Candidates {
			fmt.Fprintf(w, "  %-24s %-4s priority %d\n", c.Spelling(), c.Dialect, c.Priority)
		}
	}
}
