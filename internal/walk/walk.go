// Package walk expands command-line arguments into the list of C and C++
// files to process.
package walk

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"

	"autoinclude/internal/dialect"
)

// Options filters directory walks. Include and Exclude are doublestar
// patterns matched against the slash-separated path relative to Root.
type Options struct {
	Root      string
	Include   []string
	Exclude   []string
	Gitignore bool
}

// Expand returns the sorted, deduplicated files named by args. Files given
// explicitly are kept as is, whatever their extension; directories are
// walked and filtered.
func Expand(args []string, opts Options) ([]string, error) {
	for _, p := range append(append([]string{}, opts.Include...), opts.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid glob pattern %q", p)
		}
	}

	seen := make(map[string]struct{})
	var out []string
	add := func(path string) {
		path = filepath.Clean(path)
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		out = append(out, path)
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				// the driver reports missing files per path
				add(arg)
				continue
			}
			return nil, err
		}
		if !info.IsDir() {
			add(arg)
			continue
		}
		w := newWalker(arg, opts)
		if err := w.walk(add); err != nil {
			return nil, err
		}
	}
	sort.Strings(out)
	return out, nil
}

type walker struct {
	dir      string
	root     string
	includes []string
	excludes []string
	gi       *ignore.GitIgnore
}

func newWalker(dir string, opts Options) *walker {
	root := opts.Root
	if root == "" {
		root = dir
	}
	w := &walker{dir: dir, root: root, includes: opts.Include, excludes: opts.Exclude}
	if opts.Gitignore {
		// ошибки чтения .gitignore не фатальны
		if gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
			w.gi = gi
		}
	}
	return w
}

func (w *walker) walk(add func(string)) error {
	return filepath.WalkDir(w.dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel := w.rel(path)
		if entry.IsDir() {
			if path != w.dir && isHidden(entry.Name()) {
				return filepath.SkipDir
			}
			if rel != "." && (w.ignored(rel+"/") || w.excluded(rel+"/")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !entry.Type().IsRegular() || !dialect.IsSourcePath(path) {
			return nil
		}
		if w.ignored(rel) || w.excluded(rel) || !w.included(rel) {
			return nil
		}
		add(path)
		return nil
	})
}

// rel is path relative to the root in slash form; paths outside the root
// fall back to their own slash form.
func (w *walker) rel(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func (w *walker) ignored(rel string) bool {
	return w.gi != nil && w.gi.MatchesPath(rel)
}

func (w *walker) included(rel string) bool {
	if len(w.includes) == 0 {
		return true
	}
	return matchAny(w.includes, rel)
}

func (w *walker) excluded(rel string) bool {
	return matchAny(w.excludes, rel)
}

func matchAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, path); err == nil && matched {
			return true
		}
	}
	return false
}

func isHidden(name string) bool {
	return len(name) > 1 && name[0] == '.'
}
