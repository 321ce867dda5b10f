package includes

import (
	"strings"

	"autoinclude/internal/source"
)

// Directive is one well-formed include line.
type Directive struct {
	// Path without <> or "".
	Path     string
	IsSystem bool
	// Keyword is include, include_next or import.
	Keyword string
	// LineStart and LineEnd are 0-based; LineEnd > LineStart for lines
	// continued with a backslash.
	LineStart   int
	LineEnd     int
	RawText     string
	Conditional bool
	Span        source.Span
}

// Spelling renders the operand as written: <path> or "path".
func (d Directive) Spelling() string {
	if d.IsSystem {
		return "<" + d.Path + ">"
	}
	return `"` + d.Path + `"`
}

// Block is a contiguous include region used as an insertion anchor.
type Block struct {
	// Start and End are inclusive 0-based lines. Start covers a leading
	// comment directly above the first directive.
	Start int
	End   int
	// LastUnconditional is the LineEnd of the last directive outside any
	// conditional, or -1.
	LastUnconditional int
	// Directives index into Result.Directives.
	Directives []int
}

// HasUnconditional reports whether new lines may be appended to the block.
func (b Block) HasUnconditional() bool { return b.LastUnconditional >= 0 }

// Guard describes a classic #ifndef/#define/#endif include guard.
type Guard struct {
	Macro      string
	IfLine     int
	DefineLine int
	EndifLine  int
}

// Normalize strips quotes or angle brackets and surrounding space.
// Comparison stays case sensitive.
func Normalize(path string) string {
	p := strings.TrimSpace(path)
	if len(p) >= 2 {
		switch {
		case p[0] == '<' && p[len(p)-1] == '>', p[0] == '"' && p[len(p)-1] == '"':
			p = strings.TrimSpace(p[1 : len(p)-1])
		}
	}
	return p
}
