package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"autoinclude/internal/diag"
	"autoinclude/internal/source"
)

type palette struct {
	info, warning, errorC, code, path, caret, note, added *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		info:    color.New(color.FgCyan, color.Bold),
		warning: color.New(color.FgYellow, color.Bold),
		errorC:  color.New(color.FgRed, color.Bold),
		code:    color.New(color.Faint),
		path:    color.New(color.Bold),
		caret:   color.New(color.FgGreen, color.Bold),
		note:    color.New(color.FgBlue),
		added:   color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.info, p.warning, p.errorC, p.code, p.path, p.caret, p.note, p.added} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.errorC
	case diag.SevWarning:
		return p.warning
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем строку исходника с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	pal := newPalette(opts.Color)
	for _, d := range bag.Items() {
		if d.Severity < opts.MinSeverity {
			continue
		}
		loc := location(fs, d.Primary, opts.PathMode)
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			pal.path.Sprint(loc),
			pal.severity(d.Severity).Sprint(d.Severity.String()),
			pal.code.Sprint(d.Code.ID()),
			d.Message)
		writeSnippet(w, fs, d.Primary, pal)

		if !opts.ShowNotes && d.Code != diag.ResAmbiguousSymbol {
			continue
		}
		for _, n := range d.Notes {
			if d.Code == diag.ObsTimings {
				// JSON payload; only the machine formats carry it
				continue
			}
			fmt.Fprintf(w, "  %s %s: %s\n", pal.note.Sprint("note:"), location(fs, n.Span, opts.PathMode), n.Msg)
		}
	}
}

// location renders path:line:col for a span, or just the path when the
// span has no file behind it.
func location(fs *source.FileSet, sp source.Span, mode PathMode) string {
	f := fileOf(fs, sp)
	if f == nil {
		return "<unknown>"
	}
	path := formatPath(fs, f, mode)
	if sp.Empty() && sp.Start == 0 {
		return path
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", path, start.Line, start.Col)
}

func fileOf(fs *source.FileSet, sp source.Span) *source.File {
	if fs == nil || int(sp.File) >= fs.Len() {
		return nil
	}
	return fs.Get(sp.File)
}

func formatPath(fs *source.FileSet, f *source.File, mode PathMode) string {
	path := f.Path
	switch mode {
	case PathModeAbsolute:
		path = f.FormatPath("absolute", "")
	case PathModeRelative:
		path = f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		path = f.FormatPath("basename", "")
	case PathModeAuto:
		path = f.FormatPath("auto", "")
	}
	if path == "" {
		return "<stdin>"
	}
	return path
}

// writeSnippet prints the first line of sp with a caret underline. Column
// widths follow the terminal width of each rune, so tabs and wide
// characters line up.
func writeSnippet(w io.Writer, fs *source.FileSet, sp source.Span, pal palette) {
	f := fileOf(fs, sp)
	if f == nil || (sp.Empty() && sp.Start == 0) {
		return
	}
	line := f.LineOf(sp.Start)
	text := f.Line(line)
	if strings.TrimSpace(text) == "" {
		return
	}
	lineStart := f.LineStart(line)
	lineEnd := f.LineEnd(line)
	startCol := int(sp.Start - lineStart)
	endCol := int(min(sp.End, lineEnd) - lineStart)
	if startCol > len(text) {
		startCol = len(text)
	}
	if endCol <= startCol {
		endCol = startCol + 1
	}

	gutter := fmt.Sprintf("%d", line+1)
	fmt.Fprintf(w, " %s | %s\n", gutter, strings.ReplaceAll(text, "\t", "    "))

	pad := displayWidth(text[:startCol])
	width := max(1, displayWidth(text[startCol:min(endCol, len(text))]))
	marker := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, " %s | %s%s\n", strings.Repeat(" ", len(gutter)), strings.Repeat(" ", pad), pal.caret.Sprint(marker))
}

func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		if r == '\t' {
			n += 4
			continue
		}
		n += runewidth.RuneWidth(r)
	}
	return n
}
