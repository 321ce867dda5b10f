package token

import (
	"strings"

	"autoinclude/internal/source"
)

// Flags carries per-token facts the scanner knows for free.
type Flags uint8

const (
	// FlagLineStart marks the first token of a logical line.
	FlagLineStart Flags = 1 << iota
	// FlagInDirective marks tokens that belong to a preprocessor line.
	FlagInDirective
	// FlagUnterminated marks a literal or header name that ran into a newline or EOF.
	FlagUnterminated
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Prefix  string // literal prefix: L, u, U, u8, plus R for raw strings
	Suffix  string // user-defined literal suffix: s, sv, ms, i
	Flags   Flags
	Leading []Trivia
}

// Has reports whether f is set on the token.
func (t Token) Has(f Flags) bool { return t.Flags&f != 0 }

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsDirective reports whether the token opens a directive named name.
func (t Token) IsDirective(name string) bool {
	return t.Kind == Directive && t.Text == name
}

// Body returns the literal contents without prefix, quotes, delimiters or suffix.
// For other kinds it returns Text.
func (t Token) Body() string {
	s := t.Text
	if len(t.Prefix) > 0 && len(s) >= len(t.Prefix) {
		s = s[len(t.Prefix):]
	}
	if len(t.Suffix) > 0 && len(s) >= len(t.Suffix) {
		s = s[:len(s)-len(t.Suffix)]
	}
	switch t.Kind {
	case StringLit, CharLit, HeaderName:
		if len(s) > 0 {
			s = s[1:]
		}
		if !t.Has(FlagUnterminated) && len(s) > 0 {
			s = s[:len(s)-1]
		}
	case RawStringLit:
		// Prefix includes the R, so s is "delim( ... )delim"
		if len(s) < 2 {
			return ""
		}
		s = s[1:]
		open := strings.IndexByte(s, '(')
		if open < 0 {
			return s
		}
		delim := s[:open]
		s = s[open+1:]
		if !t.Has(FlagUnterminated) && len(s) >= len(delim)+2 {
			s = s[:len(s)-len(delim)-2]
		}
	}
	return s
}
