package fix

// todo: интеграция с git:
// По умолчанию создавать .bak только для незатрекинных файлов.
// Флаг --staged-only (работать по git diff --name-only --staged).

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"autoinclude/internal/plan"
	"autoinclude/internal/source"
)

var (
	// ErrNoFixes is returned when the plan has nothing to apply.
	ErrNoFixes = errors.New("no includes to add")
	// ErrStalePlan means the file changed after the plan was built.
	ErrStalePlan = errors.New("file changed since the plan was built")
	// ErrBadPlan means an insertion does not fit the file.
	ErrBadPlan = errors.New("plan does not match the file")
)

// FileChange summarises what ApplyFile wrote.
type FileChange struct {
	Path      string
	EditCount int
	Headers   []string
	Backup    string
}

// ApplyLines returns a copy of lines with every insertion of p applied
// top-to-bottom. lines is not modified.
func ApplyLines(lines []string, p *plan.EditPlan) ([]string, error) {
	if p == nil {
		return append([]string(nil), lines...), nil
	}
	out := make([]string, 0, len(lines)+len(p.Edits))
	out = append(out, lines...)
	prevOrig := 0
	for i, e := range p.Edits {
		// every earlier insertion lands above this one
		if e.Orig < prevOrig || e.Orig > len(lines) || e.Line != e.Orig+i {
			return nil, fmt.Errorf("%w: edit %d at line %d (original %d of %d)", ErrBadPlan, i, e.Line, e.Orig, len(lines))
		}
		if strings.ContainsAny(e.Text, "\r\n") {
			return nil, fmt.Errorf("%w: edit %d spans several lines", ErrBadPlan, i)
		}
		prevOrig = e.Orig
		out = slices.Insert(out, e.Line, e.Text)
	}
	return out, nil
}

// ApplyText applies p to LF text and joins lines with eol. A missing final
// newline stays missing.
func ApplyText(text []byte, p *plan.EditPlan, eol string) ([]byte, error) {
	finalNL := len(text) == 0 || text[len(text)-1] == '\n'
	var lines []string
	if len(text) > 0 {
		lines = strings.Split(strings.TrimSuffix(string(text), "\n"), "\n")
	}
	out, err := ApplyLines(lines, p)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	for i, l := range out {
		if i > 0 {
			buf.WriteString(eol)
		}
		buf.WriteString(l)
	}
	if finalNL && len(out) > 0 {
		buf.WriteString(eol)
	}
	return buf.Bytes(), nil
}

// ApplyPreserving applies p to text in its original line endings. Existing
// lines keep their own terminator; an inserted line takes the terminator of
// the line above it, or below it at the top of the file, and eol when the
// file has no lines.
func ApplyPreserving(text []byte, p *plan.EditPlan, eol string) ([]byte, error) {
	finalNL := len(text) == 0 || text[len(text)-1] == '\n'
	var lines, terms []string
	if len(text) > 0 {
		parts := strings.Split(string(text), "\n")
		if finalNL {
			parts = parts[:len(parts)-1]
		}
		for i, part := range parts {
			term := "\n"
			switch {
			case i == len(parts)-1 && !finalNL:
				term = ""
			case strings.HasSuffix(part, "\r"):
				part = part[:len(part)-1]
				term = "\r\n"
			}
			lines = append(lines, part)
			terms = append(terms, term)
		}
	}
	out, err := ApplyLines(lines, p)
	if err != nil {
		return nil, err
	}

	inserted := make(map[int]plan.Insertion)
	if p != nil {
		for _, e := range p.Edits {
			inserted[e.Line] = e
		}
	}
	var buf bytes.Buffer
	orig := 0
	for i, l := range out {
		var term string
		if e, ok := inserted[i]; ok {
			term = neighbourEOL(terms, e.Orig, eol)
		} else {
			term = terms[orig]
			orig++
		}
		last := i == len(out)-1
		switch {
		case last && !finalNL:
			term = ""
		case term == "":
			term = eol
		}
		buf.WriteString(l)
		buf.WriteString(term)
	}
	return buf.Bytes(), nil
}

// neighbourEOL picks the terminator for a line inserted before original
// line orig.
func neighbourEOL(terms []string, orig int, eol string) string {
	if orig > 0 && terms[orig-1] != "" {
		return terms[orig-1]
	}
	if orig < len(terms) && terms[orig] != "" {
		return terms[orig]
	}
	return eol
}

// ApplyFile applies p to the file on disk. The file is re-read and its
// fingerprint compared with p.SourceHash; the new content replaces the old
// through a temporary file and a rename, so readers see either version.
// Encoding, BOM, permissions and the terminator of every existing line are
// preserved.
func ApplyFile(path string, p *plan.EditPlan, opts ...Option) (*FileChange, error) {
	if p.Empty() {
		return nil, ErrNoFixes
	}
	o := applyOptions(opts)

	// #nosec G304 -- path is provided by the caller
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	text, flags, err := source.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if !o.skipHash && source.Fingerprint(source.Normalize(text)) != p.SourceHash {
		return nil, fmt.Errorf("%s: %w", path, ErrStalePlan)
	}

	updated, err := ApplyPreserving(text, p, source.EOL(flags))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	encoded, err := source.Encode(updated, flags)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	change := &FileChange{Path: path, EditCount: len(p.Edits), Headers: p.Headers()}
	if o.backupSuffix != "" {
		change.Backup = path + o.backupSuffix
		if err := writeAtomic(change.Backup, raw, info.Mode().Perm()); err != nil {
			return nil, err
		}
	}
	if err := writeAtomic(path, encoded, info.Mode().Perm()); err != nil {
		return nil, err
	}
	return change, nil
}

// writeAtomic writes data next to path and renames it into place.
func writeAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}
	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		cleanup()
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
