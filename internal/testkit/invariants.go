// Package testkit holds structural checks shared by the lexer, driver and
// fuzz tests.
package testkit

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"autoinclude/internal/plan"
	"autoinclude/internal/source"
	"autoinclude/internal/token"
)

// CheckTokenInvariants verifies a token stream produced for sf:
// 1) every token and trivia span belongs to sf and lies within its content
// 2) spans never go backwards and never overlap
// 3) leading trivia sits between the previous token and its owner
func CheckTokenInvariants(tokens []token.Token, sf *source.File) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	check := func(what string, sp source.Span) error {
		if sp.File != sf.ID {
			return fmt.Errorf("%s span file mismatch: got=%d want=%d", what, sp.File, sf.ID)
		}
		if sp.End < sp.Start || sp.End > lenContent {
			return fmt.Errorf("%s span %v outside content of %d bytes", what, sp, lenContent)
		}
		return nil
	}

	var cursor uint32
	for i, tok := range tokens {
		for _, tr := range tok.Leading {
			if err := check("trivia", tr.Span); err != nil {
				return fmt.Errorf("token %d: %w", i, err)
			}
			if tr.Span.Start < cursor {
				return fmt.Errorf("token %d: %s trivia %v starts before %d", i, tr.Kind, tr.Span, cursor)
			}
			cursor = tr.Span.End
		}
		if err := check(tok.Kind.String(), tok.Span); err != nil {
			return fmt.Errorf("token %d: %w", i, err)
		}
		if tok.Span.Start < cursor {
			return fmt.Errorf("token %d (%s %q) at %v overlaps previous end %d", i, tok.Kind, tok.Text, tok.Span, cursor)
		}
		cursor = tok.Span.End
	}
	return nil
}

// CheckPlanInvariants verifies an edit plan against the file it was built
// for, which has lineCount lines:
// 1) insertions are ordered and each Line accounts for the earlier ones
// 2) every text is a single #include line or a blank separator
// 3) no header is added twice
func CheckPlanInvariants(p *plan.EditPlan, lineCount int) error {
	if p == nil {
		return fmt.Errorf("nil plan")
	}
	prevOrig := 0
	includes := 0
	for i, e := range p.Edits {
		if e.Orig < prevOrig || e.Orig < 0 || e.Orig > lineCount {
			return fmt.Errorf("edit %d: original line %d out of order or range (prev %d, %d lines)", i, e.Orig, prevOrig, lineCount)
		}
		if e.Line != e.Orig+i {
			return fmt.Errorf("edit %d: line %d, want %d", i, e.Line, e.Orig+i)
		}
		switch {
		case e.Text == "":
		case strings.HasPrefix(e.Text, "#include ") && !strings.ContainsAny(e.Text, "\r\n"):
			includes++
		default:
			return fmt.Errorf("edit %d: unexpected text %q", i, e.Text)
		}
		prevOrig = e.Orig
	}
	if includes != len(p.Added) {
		return fmt.Errorf("%d include lines for %d added headers", includes, len(p.Added))
	}
	seen := make(map[string]bool, len(p.Added))
	for _, h := range p.Headers() {
		if seen[h] {
			return fmt.Errorf("header %s added twice", h)
		}
		seen[h] = true
	}
	return nil
}
