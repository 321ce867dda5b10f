// Package token defines lexical token kinds and trivia for C and C++ source.
//
// Invariants:
//   - Token.Text is a slice of the scanned content and Span matches it exactly.
//   - Comments, whitespace, newlines and line splices never appear as tokens;
//     they are attached to the following token as Leading trivia.
//   - Keywords are lexed as Ident. Whether an identifier is reserved depends
//     on the dialect, see LookupKeyword.
//   - A preprocessor line is Directive ... DirectiveEnd. Everything between
//     carries FlagInDirective.
package token
