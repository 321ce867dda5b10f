package plan

import (
	"slices"
	"strings"

	"autoinclude/internal/includes"
	"autoinclude/internal/kb"
	"autoinclude/internal/resolve"
)

// Options tune planning.
type Options struct {
	Convention Convention
}

// hunk is a run of lines inserted before original line at.
type hunk struct {
	at    int
	lines []string
}

// Build turns required headers into insertions against the parsed file.
// Requirements whose header is already present are dropped, so running
// Build on already fixed text yields an empty plan.
func Build(req []resolve.Requirement, inc *includes.Result, opts Options) *EditPlan {
	p := &EditPlan{Convention: opts.Convention}
	for _, r := range req {
		if inc.Present(r.Header.Header) || containsHeader(p.Added, r.Header.Header) {
			continue
		}
		p.Added = append(p.Added, r)
	}
	if len(p.Added) == 0 {
		return p
	}
	slices.SortStableFunc(p.Added, func(a, b resolve.Requirement) int {
		if a.Group != b.Group {
			return int(a.Group) - int(b.Group)
		}
		return strings.Compare(a.Header.Header, b.Header.Header)
	})

	var hunks []hunk
	block, ok := inc.AnchorBlock()
	switch {
	case !ok:
		hunks = []hunk{topHunk(inc, groupLines(p.Added))}
	case opts.Convention == Grouped:
		hunks = groupedHunks(p.Added, inc, block)
	default:
		hunks = []hunk{afterBlock(inc, block, groupLines(p.Added))}
	}
	p.Edits = flatten(hunks)
	return p
}

func containsHeader(reqs []resolve.Requirement, header string) bool {
	for _, r := range reqs {
		if includes.Normalize(r.Header.Header) == includes.Normalize(header) {
			return true
		}
	}
	return false
}

// groupLines renders sorted requirements with a blank line between
// groups.
func groupLines(reqs []resolve.Requirement) []string {
	out := make([]string, 0, len(reqs)+2)
	for i, r := range reqs {
		if i > 0 && reqs[i-1].Group != r.Group {
			out = append(out, "")
		}
		out = append(out, Directive(r))
	}
	return out
}

// afterBlock appends lines after the last unconditional directive.
// A trailing blank line separates them from code that follows directly.
func afterBlock(inc *includes.Result, block includes.Block, lines []string) hunk {
	at := block.LastUnconditional + 1
	if inc.IsCode(at) {
		lines = append(lines, "")
	}
	return hunk{at: at, lines: lines}
}

// topHunk places a fresh block at the top insertion point.
func topHunk(inc *includes.Result, lines []string) hunk {
	at := inc.TopInsertion()
	out := make([]string, 0, len(lines)+2)
	if at > 0 && !inc.IsBlank(at-1) {
		out = append(out, "")
	}
	out = append(out, lines...)
	if at < inc.LineCount() && !inc.IsBlank(at) {
		out = append(out, "")
	}
	return hunk{at: at, lines: out}
}

// groupedHunks inserts each group after the last unconditional directive
// of the same group inside the anchor block. Groups with no such
// directive go after the block, as Append would place them.
func groupedHunks(reqs []resolve.Requirement, inc *includes.Result, block includes.Block) []hunk {
	last := map[resolve.Group]int{}
	for _, idx := range block.Directives {
		d := inc.Directives[idx]
		if d.Conditional {
			continue
		}
		last[existingGroup(d)] = d.LineEnd
	}

	var (
		hunks    []hunk
		fallback []resolve.Requirement
	)
	for start := 0; start < len(reqs); {
		end := start
		for end < len(reqs) && reqs[end].Group == reqs[start].Group {
			end++
		}
		g := reqs[start].Group
		if line, ok := last[g]; ok {
			hunks = append(hunks, hunk{at: line + 1, lines: groupLines(reqs[start:end])})
		} else {
			fallback = append(fallback, reqs[start:end]...)
		}
		start = end
	}
	if len(fallback) > 0 {
		h := afterBlock(inc, block, groupLines(fallback))
		if len(hunks) > 0 {
			// keep a blank line between an extended group and a new one
			h.lines = append([]string{""}, h.lines...)
		}
		hunks = append(hunks, h)
	}
	// hunks at the same position keep group order
	slices.SortStableFunc(hunks, func(a, b hunk) int { return a.at - b.at })
	return hunks
}

// existingGroup classifies a directive already in the file.
func existingGroup(d includes.Directive) resolve.Group {
	return resolve.GroupOf(kb.HeaderCandidate{Header: d.Path, IsSystem: d.IsSystem})
}

func flatten(hunks []hunk) []Insertion {
	var out []Insertion
	shift := 0
	for _, h := range hunks {
		for j, text := range h.lines {
			out = append(out, Insertion{Line: h.at + shift + j, Orig: h.at, Text: text})
		}
		shift += len(h.lines)
	}
	return out
}
