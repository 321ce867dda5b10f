package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"fortio.org/safecast"

	"autoinclude/internal/plan"
	"autoinclude/internal/source"
)

type planHunk struct {
	orig  int // 0-based original line the lines go before
	lines []string
}

func planHunks(p *plan.EditPlan) []planHunk {
	var out []planHunk
	for _, e := range p.Edits {
		if n := len(out); n > 0 && out[n-1].orig == e.Orig {
			out[n-1].lines = append(out[n-1].lines, e.Text)
			continue
		}
		out = append(out, planHunk{orig: e.Orig, lines: []string{e.Text}})
	}
	return out
}

// PrettyPlan renders the plan for file as numbered context lines around
// green "+" insertions. Nothing is written for an empty plan.
func PrettyPlan(w io.Writer, f *source.File, p *plan.EditPlan, opts PrettyOpts) error {
	if p.Empty() {
		return nil
	}
	pal := newPalette(opts.Color)
	path := "<stdin>"
	if f != nil && f.Path != "" {
		path = f.Path
	}
	fmt.Fprintf(w, "%s: add %s\n", pal.path.Sprint(path), strings.Join(p.Headers(), ", "))

	total, ctx := 0, 0
	if f != nil {
		total = f.LineCount()
		ctx = max(int(opts.Context), 0)
	}
	gutter := len(fmt.Sprint(total + len(p.Edits)))

	for i, h := range planHunks(p) {
		if i > 0 {
			fmt.Fprintf(w, " %s ...\n", strings.Repeat(" ", gutter))
		}
		from := max(h.orig-ctx, 0)
		to := min(h.orig+ctx, total)
		for line := from; line < h.orig; line++ {
			if err := writeContext(w, f, line, gutter); err != nil {
				return err
			}
		}
		for _, text := range h.lines {
			fmt.Fprintf(w, " %s %s\n", strings.Repeat(" ", gutter), pal.added.Sprint("+ "+text))
		}
		for line := h.orig; line < to; line++ {
			if err := writeContext(w, f, line, gutter); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeContext(w io.Writer, f *source.File, line, gutter int) error {
	n, err := safecast.Conv[uint32](line + 1)
	if err != nil {
		return fmt.Errorf("line number overflow: %w", err)
	}
	_, err = fmt.Fprintf(w, " %*d   %s\n", gutter, n, f.GetLine(n))
	return err
}
