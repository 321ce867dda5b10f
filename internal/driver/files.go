package driver

import (
	"context"
	"errors"
	"os"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"autoinclude/internal/diag"
	"autoinclude/internal/dialect"
	"autoinclude/internal/fix"
	"autoinclude/internal/source"
)

// FileResult is the outcome for one path of FixFiles.
type FileResult struct {
	Path string
	// Result is nil when the file could not be loaded or decoded.
	Result *Result
	// Bag holds the pipeline diagnostics plus I/O failures.
	Bag *diag.Bag
	// Change is set when the plan was written to disk.
	Change *fix.FileChange
}

// Added returns how many headers the plan for this file adds.
func (r FileResult) Added() int {
	if r.Result == nil || r.Result.Plan == nil {
		return 0
	}
	return len(r.Result.Plan.Added)
}

// FixFiles runs the pipeline for every path concurrently and, with
// opts.Apply, writes the plans back. Results keep the order of paths.
// Per-file failures become diagnostics; the error is non-nil only when
// ctx is cancelled.
func FixFiles(ctx context.Context, paths []string, opts Options) ([]FileResult, error) {
	results := make([]FileResult, len(paths))
	if len(paths) == 0 {
		return results, nil
	}
	for _, path := range paths {
		emit(opts.Progress, path, StageLoad, StatusQueued, nil, 0)
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			// индекс i уникален для горутины, мьютекс не нужен
			res, err := fixFile(gctx, path, opts)
			results[i] = res
			return err
		})
	}
	err := g.Wait()
	return results, err
}

func fixFile(ctx context.Context, path string, opts Options) (FileResult, error) {
	start := time.Now()
	out := FileResult{Path: path}

	fail := func(stage Stage, code diag.Code, err error) (FileResult, error) {
		if out.Bag == nil {
			out.Bag = diag.NewBag(opts.MaxDiagnostics)
		}
		reportIO(out.Bag, code, out.Result, err)
		emit(opts.Progress, path, stage, StatusError, err, time.Since(start))
		return out, nil
	}

	if err := ctx.Err(); err != nil {
		return out, err
	}
	emit(opts.Progress, path, StageLoad, StatusWorking, nil, 0)
	// #nosec G304 -- paths come from the command line or the walker
	raw, err := os.ReadFile(path)
	if err != nil {
		return fail(StageLoad, diag.IOLoadFileError, err)
	}

	res, err := FixIncludes(ctx, Input{Path: path, DialectHint: dialect.Unknown, Content: raw}, opts)
	if err != nil {
		if errors.Is(err, source.ErrEncoding) {
			return fail(StageLoad, diag.IOLoadFileError, err)
		}
		emit(opts.Progress, path, StageLoad, StatusError, err, time.Since(start))
		return out, err
	}
	out.Result = res
	out.Bag = res.Bag

	if opts.Apply && !res.Plan.Empty() {
		emit(opts.Progress, path, StageApply, StatusWorking, nil, 0)
		var fixOpts []fix.Option
		if opts.Backup != "" {
			fixOpts = append(fixOpts, fix.WithBackup(opts.Backup))
		}
		if opts.Force {
			fixOpts = append(fixOpts, fix.SkipHashCheck())
		}
		change, err := fix.ApplyFile(path, res.Plan, fixOpts...)
		if err != nil {
			code := diag.IOWriteError
			if errors.Is(err, fix.ErrStalePlan) {
				code = diag.IOStalePlan
			}
			return fail(StageApply, code, err)
		}
		out.Change = change
	}

	if opts.Progress != nil {
		opts.Progress.OnEvent(Event{
			File:    path,
			Stage:   StagePlan,
			Status:  StatusDone,
			Elapsed: time.Since(start),
			Added:   out.Added(),
		})
	}
	return out, nil
}

func reportIO(bag *diag.Bag, code diag.Code, res *Result, err error) {
	var span source.Span
	if res != nil {
		span.File = res.FileID
	}
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     code,
		Message:  err.Error(),
		Primary:  span,
	})
}
