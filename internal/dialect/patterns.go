package dialect

import (
	"fmt"
	"strings"

	"autoinclude/internal/token"
)

// ObserveTokenPair records token-pattern evidence, if any, using a sliding 2-token
// window. The caller is responsible for feeding tokens in source order.
func ObserveTokenPair(e *Evidence, prev, tok token.Token) {
	if e == nil {
		return
	}

	adjacent := prev.Span.File == tok.Span.File && prev.Span.End == tok.Span.Start

	// std:: qualification
	if prev.Kind == token.Ident && tok.Kind == token.ColonColon && adjacent {
		score := 3
		if prev.Text == "std" {
			score = 6
		}
		e.Add(Hint{
			Dialect: CPP,
			Score:   score,
			Reason:  fmt.Sprintf("c++ scope qualification `%s::`", prev.Text),
			Span:    prev.Span.Cover(tok.Span),
		})
	}

	// #include <iostream> vs #include <stdio.h>
	if tok.Kind == token.HeaderName && !tok.Has(token.FlagUnterminated) {
		ObserveHeader(e, tok.Body(), true, tok)
	}

	if tok.Kind == token.RawStringLit {
		e.Add(Hint{Dialect: CPP, Score: 5, Reason: "c++ raw string literal", Span: tok.Span})
	}
	if tok.Suffix != "" {
		e.Add(Hint{Dialect: CPP, Score: 4, Reason: fmt.Sprintf("c++ user-defined literal suffix `%s`", tok.Suffix), Span: tok.Span})
	}
}

// ObserveHeader records evidence from an included header path.
func ObserveHeader(e *Evidence, path string, system bool, tok token.Token) {
	if e == nil || path == "" {
		return
	}
	ext := ""
	if i := strings.LastIndexByte(path, '.'); i >= 0 && !strings.ContainsRune(path[i:], '/') {
		ext = path[i:]
	}
	switch {
	case system && ext == "":
		e.Add(Hint{Dialect: CPP, Score: 6, Reason: fmt.Sprintf("c++ standard header <%s>", path), Span: tok.Span})
	case ext == ".hpp" || ext == ".hh" || ext == ".hxx":
		e.Add(Hint{Dialect: CPP, Score: 4, Reason: fmt.Sprintf("c++ header %q", path), Span: tok.Span})
	case system && ext == ".h":
		e.Add(Hint{Dialect: C, Score: 1, Reason: fmt.Sprintf("c header <%s>", path), Span: tok.Span})
	}
}
