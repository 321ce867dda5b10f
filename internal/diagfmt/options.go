package diagfmt

import "autoinclude/internal/diag"

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto chooses relative or absolute path automatically.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics and plans.
type PrettyOpts struct {
	Color     bool
	Context   int8 // lines of context around a plan hunk
	PathMode  PathMode
	ShowNotes bool
	// MinSeverity hides diagnostics below it; the zero value shows infos.
	MinSeverity diag.Severity
}

// JSONOpts configures JSON and msgpack output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	PathMode         PathMode
	Max              int // обрезка вывода, не Bag
	IncludeNotes     bool
	IncludeTimings   bool
}
