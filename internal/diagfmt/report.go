package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"autoinclude/internal/diag"
	"autoinclude/internal/driver"
	"autoinclude/internal/observ"
	"autoinclude/internal/plan"
	"autoinclude/internal/source"
)

// Format selects how run results are written.
type Format uint8

const (
	FormatPretty Format = iota
	FormatJSON
	FormatMsgpack
	// FormatShort is one line per diagnostic, for tests and grep.
	FormatShort
)

var formatNames = [...]string{"pretty", "json", "msgpack", "short"}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("Format(%d)", f)
}

// ParseFormat accepts the names printed by String.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FormatPretty, nil
	}
	for i, name := range formatNames {
		if s == name {
			return Format(i), nil
		}
	}
	return FormatPretty, fmt.Errorf("unknown format %q (want pretty, json, msgpack or short)", s)
}

// AddedHeader is one header the plan inserts and the symbols that need it.
type AddedHeader struct {
	Header  string   `json:"header" msgpack:"header"`
	Group   string   `json:"group" msgpack:"group"`
	Symbols []string `json:"symbols" msgpack:"symbols"`
}

// FileReport is the machine-readable result for one file. Unresolved
// counts std:: names with no known header.
type FileReport struct {
	Path        string           `json:"path" msgpack:"path"`
	Dialect     string           `json:"dialect,omitempty" msgpack:"dialect,omitempty"`
	Inferred    bool             `json:"inferred,omitempty" msgpack:"inferred,omitempty"`
	SourceHash  uint64           `json:"source_hash,omitempty" msgpack:"source_hash,omitempty"`
	Added       []AddedHeader    `json:"added" msgpack:"added"`
	Edits       []plan.Insertion `json:"edits" msgpack:"edits"`
	Unresolved  int              `json:"unresolved" msgpack:"unresolved"`
	Applied     bool             `json:"applied" msgpack:"applied"`
	Backup      string           `json:"backup,omitempty" msgpack:"backup,omitempty"`
	Diagnostics []DiagnosticJSON `json:"diagnostics" msgpack:"diagnostics"`
	Timing      *observ.Report   `json:"timing,omitempty" msgpack:"timing,omitempty"`
}

// RunReport wraps every file of one invocation.
type RunReport struct {
	Files      []FileReport `json:"files" msgpack:"files"`
	Added      int          `json:"added" msgpack:"added"`
	Unresolved int          `json:"unresolved" msgpack:"unresolved"`
	Errors     int          `json:"errors" msgpack:"errors"`
}

// BuildFileReport flattens a driver result.
func BuildFileReport(fr driver.FileResult, opts JSONOpts) FileReport {
	rep := FileReport{Path: fr.Path, Added: []AddedHeader{}, Edits: []plan.Insertion{}}
	var fs *source.FileSet
	if res := fr.Result; res != nil {
		fs = res.FileSet
		rep.Dialect = res.Dialect.String()
		rep.Inferred = res.Inferred
		if res.Resolution != nil {
			rep.Unresolved = res.Resolution.UnknownStd()
		}
		if p := res.Plan; p != nil {
			rep.SourceHash = p.SourceHash
			rep.Edits = append(rep.Edits, p.Edits...)
			for _, r := range p.Added {
				rep.Added = append(rep.Added, AddedHeader{
					Header:  r.Header.Spelling(),
					Group:   r.Group.String(),
					Symbols: append([]string{}, r.Symbols...),
				})
			}
		}
		if opts.IncludeTimings {
			timing := res.Timing
			rep.Timing = &timing
		}
	}
	if fr.Change != nil {
		rep.Applied = true
		rep.Backup = fr.Change.Backup
	}
	rep.Diagnostics = buildDiagnostics(fr.Bag, fs, opts, fr.Path)
	return rep
}

// BuildRunReport builds one FileReport per result, in order.
func BuildRunReport(results []driver.FileResult, opts JSONOpts) RunReport {
	run := RunReport{Files: make([]FileReport, 0, len(results))}
	for _, fr := range results {
		rep := BuildFileReport(fr, opts)
		run.Added += len(rep.Added)
		run.Unresolved += rep.Unresolved
		if fr.Bag != nil && fr.Bag.HasErrors() {
			run.Errors++
		}
		run.Files = append(run.Files, rep)
	}
	return run
}

// WriteRun writes results in a machine format (JSON or msgpack) or as
// short diagnostic lines. Pretty output goes through Pretty and PrettyPlan.
func WriteRun(w io.Writer, results []driver.FileResult, format Format, opts JSONOpts) error {
	switch format {
	case FormatJSON:
		return encodeJSON(w, BuildRunReport(results, opts))
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(BuildRunReport(results, opts))
	case FormatShort:
		for _, fr := range results {
			if err := writeShort(w, fr); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("format %s is not a machine format", format)
	}
}

// DecodeRun reads a msgpack run report written by WriteRun.
func DecodeRun(r io.Reader) (RunReport, error) {
	var run RunReport
	err := msgpack.NewDecoder(r).Decode(&run)
	return run, err
}

func writeShort(w io.Writer, fr driver.FileResult) error {
	if fr.Bag == nil {
		return nil
	}
	var out string
	if fr.Result != nil {
		out = diag.FormatShortDiagnostics(fr.Bag.Items(), fr.Result.FileSet, false)
	} else {
		lines := make([]string, 0, fr.Bag.Len())
		for _, d := range fr.Bag.Items() {
			lines = append(lines, fmt.Sprintf("%s %s %s %s", strings.ToLower(d.Severity.String()), d.Code.ID(), fr.Path, d.Message))
		}
		out = strings.Join(lines, "\n")
	}
	if out == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, out)
	return err
}

// Summary is the one-line outcome for a file: "Added <h>, <h> (N
// unresolved)" or "Nothing to fix.".
func Summary(fr driver.FileResult) string {
	if fr.Result == nil || fr.Result.Plan.Empty() {
		return "Nothing to fix."
	}
	msg := "Added " + strings.Join(fr.Result.Plan.Headers(), ", ")
	if n := fr.Result.Resolution.UnknownStd(); n > 0 {
		msg += fmt.Sprintf(" (%d unresolved)", n)
	}
	return msg
}
