// Package trace records what the include fixer did and how long it took.
//
// Enable it from the command line:
//
//	autoinclude fix --trace=- --trace-level=detail src/
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: failures only
//   - LevelPhase: the run and each file
//   - LevelDetail: pipeline passes inside a file (scan, includes, resolve, plan)
//   - LevelDebug: everything, including per-symbol decisions
//
// # Scopes
//
//   - ScopeDriver: one CLI invocation
//   - ScopeFile: one file pipeline
//   - ScopePass: one pass of a file pipeline
//   - ScopeSymbol: resolution of a single symbol
//
// # Context propagation
//
// The tracer and the current span travel in a context.Context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopeFile, "file:"+path)
//	defer span.End("")
package trace
