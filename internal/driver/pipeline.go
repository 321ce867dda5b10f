package driver

import (
	"context"
	"fmt"
	"strconv"

	"autoinclude/internal/diag"
	"autoinclude/internal/dialect"
	"autoinclude/internal/includes"
	"autoinclude/internal/kb"
	"autoinclude/internal/lexer"
	"autoinclude/internal/observ"
	"autoinclude/internal/plan"
	"autoinclude/internal/resolve"
	"autoinclude/internal/source"
	"autoinclude/internal/symbols"
	"autoinclude/internal/token"
	"autoinclude/internal/trace"
)

// Input is one file to fix.
type Input struct {
	// Path names the file for dialect inference and output; it is not read.
	Path string
	// DialectHint overrides inference when it is C or CPP.
	DialectHint dialect.Kind
	// Content is the raw file bytes: UTF-8 or UTF-16, with or without BOM,
	// LF or CRLF.
	Content []byte
}

// Options configure the pipeline. The zero value uses the embedded
// knowledge base and the append convention.
type Options struct {
	Base           *kb.Base
	Convention     plan.Convention
	DialectHint    dialect.Kind
	MaxDiagnostics int
	Progress       ProgressSink
	// Timings adds an OBS6001 info with the phase breakdown to each bag.
	Timings bool

	// Used by FixFiles only.
	Jobs   int
	Apply  bool
	Backup string
	// Force writes even when the file changed after planning.
	Force bool
}

func (o Options) base() *kb.Base {
	if o.Base != nil {
		return o.Base
	}
	return kb.Default()
}

// Result is everything one pipeline run produced.
type Result struct {
	Path    string
	FileSet *source.FileSet
	FileID  source.FileID
	Bag     *diag.Bag
	Plan    *plan.EditPlan

	Dialect        dialect.Kind
	Inferred       bool
	Classification dialect.Classification

	Tokens     int
	Symbols    *symbols.Result
	Includes   *includes.Result
	Resolution *resolve.Result
	Timing     observ.Report
}

// File returns the decoded source.
func (r *Result) File() *source.File {
	if r == nil || r.FileSet == nil {
		return nil
	}
	return r.FileSet.Get(r.FileID)
}

// FixIncludes runs the whole pipeline for one file and returns the plan
// without touching any file. Findings are diagnostics in Result.Bag; the
// only errors are undecodable input (source.ErrEncoding) and ctx being
// cancelled before the plan is complete.
func FixIncludes(ctx context.Context, in Input, opts Options) (*Result, error) {
	ctx, span := trace.Start(ctx, trace.ScopeFile, "file:"+in.Path)
	res, err := fixIncludes(ctx, in, opts)
	if err != nil {
		trace.Error(trace.FromContext(ctx), trace.ScopeFile, "file:"+in.Path, err.Error())
		span.End("error")
		return nil, err
	}
	span.WithExtra("added", strconv.Itoa(len(res.Plan.Added))).End(res.Dialect.String())
	return res, nil
}

func fixIncludes(ctx context.Context, in Input, opts Options) (*Result, error) {
	timer := observ.NewTimer()
	res := &Result{Path: in.Path, Bag: diag.NewBag(opts.MaxDiagnostics)}
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag})

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	idx := timer.Begin(string(StageLoad))
	text, flags, err := source.Decode(in.Content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", displayPath(in.Path), err)
	}
	res.FileSet = source.NewFileSet()
	res.FileID = res.FileSet.Add(in.Path, source.Normalize(text), flags)
	file := res.FileSet.Get(res.FileID)
	timer.End(idx, "")

	run := &runner{ctx: ctx, timer: timer, sink: opts.Progress, path: in.Path}
	var tokens []token.Token
	if err := run.pass(StageScan, func(context.Context) string {
		res.Dialect, res.Inferred, res.Classification = chooseDialect(file, in, opts)
		if res.Inferred {
			msg := fmt.Sprintf("treating %s as %s (%s)", displayPath(in.Path), res.Dialect, reasonOf(res.Classification))
			diag.ReportInfo(reporter, diag.ResDialectGuessed, source.Span{File: res.FileID}, msg).Emit()
		}
		tokens = lexer.Tokenize(file, lexer.Options{Dialect: res.Dialect, Reporter: reporter})
		res.Tokens = len(tokens)
		res.Symbols = symbols.Extract(tokens, res.Dialect)
		return fmt.Sprintf("%s, %d tokens, %d symbols", res.Dialect, len(tokens), len(res.Symbols.Symbols))
	}); err != nil {
		return nil, err
	}

	if err := run.pass(StageIncludes, func(context.Context) string {
		res.Includes = includes.Parse(file, tokens, reporter)
		return fmt.Sprintf("%d directives", len(res.Includes.Directives))
	}); err != nil {
		return nil, err
	}

	if err := run.pass(StageResolve, func(ctx context.Context) string {
		res.Resolution = resolve.Resolve(res.Symbols.Symbols, res.Includes, res.Dialect, opts.base())
		res.Resolution.Report(reporter)
		traceSymbols(ctx, res.Resolution)
		return fmt.Sprintf("%d required, %d unresolved", len(res.Resolution.Required), res.Resolution.Unresolved())
	}); err != nil {
		return nil, err
	}

	if err := run.pass(StagePlan, func(context.Context) string {
		res.Plan = plan.Build(res.Resolution.Required, res.Includes, plan.Options{Convention: opts.Convention})
		res.Plan.Path = in.Path
		res.Plan.Dialect = res.Dialect
		res.Plan.SourceHash = file.Hash
		return fmt.Sprintf("%d edits", len(res.Plan.Edits))
	}); err != nil {
		return nil, err
	}

	res.Timing = timer.Report()
	if opts.Timings {
		appendTimingDiagnostic(res.Bag, res.FileID, timingPayload{
			Path:    in.Path,
			TotalMS: res.Timing.TotalMS,
			Phases:  res.Timing.Phases,
		})
	}
	return res, nil
}

type runner struct {
	ctx   context.Context
	timer *observ.Timer
	sink  ProgressSink
	path  string
}

// pass runs one stage under a timer, a trace span and a progress event.
// It fails only when ctx is already done.
func (r *runner) pass(stage Stage, fn func(ctx context.Context) string) error {
	if err := r.ctx.Err(); err != nil {
		return err
	}
	emit(r.sink, r.path, stage, StatusWorking, nil, 0)
	ctx, span := trace.Start(r.ctx, trace.ScopePass, string(stage))
	idx := r.timer.Begin(string(stage))
	note := fn(ctx)
	r.timer.End(idx, note)
	span.End(note)
	return nil
}

// chooseDialect applies, in order: the per-file hint, the run-wide hint,
// the file extension, and finally content evidence.
func chooseDialect(file *source.File, in Input, opts Options) (dialect.Kind, bool, dialect.Classification) {
	for _, k := range []dialect.Kind{in.DialectHint, opts.DialectHint} {
		if k == dialect.C || k == dialect.CPP {
			return k, false, dialect.Classification{Kind: k}
		}
	}
	if k, ok := dialect.FromPath(in.Path); ok && k != dialect.Unknown {
		return k, false, dialect.Classification{Kind: k}
	}
	ev := dialect.NewEvidence()
	for range lexer.New(file, lexer.Options{Evidence: ev}).All() {
	}
	c := dialect.Classifier{}.Classify(ev)
	return dialect.Decide(c), true, c
}

func reasonOf(c dialect.Classification) string {
	if c.Reason != "" {
		return c.Reason
	}
	return "no C++ evidence"
}

func traceSymbols(ctx context.Context, r *resolve.Result) {
	t := trace.FromContext(ctx)
	if !t.Level().ShouldEmit(trace.ScopeSymbol) {
		return
	}
	parent := trace.CurrentSpan(ctx).SpanID
	for _, res := range r.Resolutions {
		var detail string
		switch {
		case res.Unresolved():
			detail = "unknown"
		case res.Satisfied():
			detail = "satisfied by " + res.SatisfiedBy
		default:
			detail = "needs " + res.Chosen.Spelling()
		}
		trace.Point(t, trace.ScopeSymbol, res.Symbol, detail, parent)
	}
}

func displayPath(p string) string {
	if p == "" {
		return "<stdin>"
	}
	return p
}
