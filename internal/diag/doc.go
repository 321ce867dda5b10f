// Package diag defines the diagnostic model shared by all pipeline phases.
//
// Diagnostics are findings, not failures: an unterminated literal or a
// malformed #include is recorded here and the pipeline still produces a plan.
// Hard failures (undecodable input, I/O) travel as Go errors instead.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning or Error (severity.go).
//   - Code – numeric identifier with a stable string form such as LEX1003
//     or INC2001 (codes.go).
//   - Message – short human oriented text.
//   - Primary – source.Span pointing at the offending text.
//   - Notes – optional secondary spans, e.g. the candidate headers of an
//     ambiguous symbol.
//
// # Emitting diagnostics
//
// Producers (lexer, include parser, resolver) receive a Reporter and never
// touch a Bag directly. BagReporter collects into a Bag with a size limit;
// DedupReporter filters repeats when a file is scanned more than once.
//
// Rendering lives in internal/diagfmt; this package does no I/O.
package diag
