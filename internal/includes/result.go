package includes

// Present reports whether a header with the same normalized path is
// already included, conditionally or not.
func (r *Result) Present(path string) bool {
	if r == nil {
		return false
	}
	_, ok := r.present[Normalize(path)]
	return ok
}

// PresentPaths lists the normalized paths of all well-formed directives.
func (r *Result) PresentPaths() []string {
	out := make([]string, 0, len(r.Directives))
	seen := make(map[string]struct{}, len(r.Directives))
	for _, d := range r.Directives {
		if _, dup := seen[d.Path]; dup {
			continue
		}
		seen[d.Path] = struct{}{}
		out = append(out, d.Path)
	}
	return out
}

// AnchorBlock returns the first block with an unconditional directive.
func (r *Result) AnchorBlock() (Block, bool) {
	if r == nil || r.anchor < 0 {
		return Block{}, false
	}
	return r.Blocks[r.anchor], true
}

// TopInsertion is the line before which a new include block is placed
// when the file has no anchor block.
func (r *Result) TopInsertion() int {
	if r == nil {
		return 0
	}
	return r.top
}

// LineCount is the number of lines seen by the parser.
func (r *Result) LineCount() int { return len(r.lines) }

// IsBlank reports whether line holds only whitespace. Lines outside the
// file count as blank.
func (r *Result) IsBlank(line int) bool {
	return line < 0 || line >= len(r.lines) || r.lines[line] == lineBlank
}

// IsCode reports whether line holds tokens outside preprocessor lines.
func (r *Result) IsCode(line int) bool {
	return line >= 0 && line < len(r.lines) && r.lines[line] == lineCode
}

// IsCommentOnly reports whether line holds nothing but comment text.
func (r *Result) IsCommentOnly(line int) bool {
	return line >= 0 && line < len(r.lines) && r.lines[line] == lineComment
}
