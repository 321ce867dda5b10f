package kb

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"autoinclude/internal/dialect"
)

// SymbolKind classifies what a knowledge base entry names.
type SymbolKind uint8

const (
	Unknown SymbolKind = iota
	Function
	Type
	Macro
	Object
	Namespace
	LiteralSuffix
)

func (k SymbolKind) String() string {
	switch k {
	case Function:
		return "function"
	case Type:
		return "type"
	case Macro:
		return "macro"
	case Object:
		return "object"
	case Namespace:
		return "namespace"
	case LiteralSuffix:
		return "literal"
	default:
		return "unknown"
	}
}

func (k SymbolKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func parseKind(s string) (SymbolKind, error) {
	for k := Function; k <= LiteralSuffix; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return Unknown, fmt.Errorf("unknown symbol kind %q", s)
}

// HeaderCandidate is one header that declares a symbol.
// Lower Priority is preferred.
type HeaderCandidate struct {
	Header   string       `json:"header" msgpack:"header"`
	IsSystem bool         `json:"system" msgpack:"system"`
	Dialect  dialect.Kind `json:"dialect" msgpack:"dialect"`
	Priority int          `json:"priority" msgpack:"priority"`
}

// Spelling renders the candidate the way it appears after #include.
func (c HeaderCandidate) Spelling() string {
	if c.IsSystem {
		return "<" + c.Header + ">"
	}
	return `"` + c.Header + `"`
}

// Entry is a single symbol with all of its candidates, ordered by
// (Priority, Header).
type Entry struct {
	Name       string
	Kind       SymbolKind
	Candidates []HeaderCandidate
}

// Base maps symbol names to header candidates. A Base is immutable once
// built and safe for concurrent use.
type Base struct {
	entries map[string]*Entry
	headers map[string]dialect.Kind
	names   []string
}

func newBase() *Base {
	return &Base{
		entries: make(map[string]*Entry),
		headers: make(map[string]dialect.Kind),
	}
}

// Lookup returns candidates for name that a file of dialect d may include,
// ordered by (Priority, Header). Unknown symbols yield nil.
func (b *Base) Lookup(name string, d dialect.Kind) []HeaderCandidate {
	if b == nil {
		return nil
	}
	e, ok := b.entries[name]
	if !ok {
		return nil
	}
	var out []HeaderCandidate
	for _, c := range e.Candidates {
		if c.Dialect.Accepts(d) {
			out = append(out, c)
		}
	}
	return out
}

// LookupQualified is Lookup with fallback through enclosing scopes:
// std::chrono::steady_clock::now is tried as written, then as
// std::chrono::steady_clock, and so on. matched is the key that hit.
func (b *Base) LookupQualified(name string, d dialect.Kind) (matched string, cands []HeaderCandidate) {
	for key := name; key != ""; {
		if cands = b.Lookup(key, d); len(cands) > 0 {
			return key, cands
		}
		i := strings.LastIndex(key, "::")
		if i <= 0 {
			break
		}
		key = key[:i]
	}
	return "", nil
}

// Entry returns the raw entry for name regardless of dialect.
func (b *Base) Entry(name string) (Entry, bool) {
	if b == nil {
		return Entry{}, false
	}
	e, ok := b.entries[name]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Kind reports the kind recorded for name, Unknown if absent.
func (b *Base) Kind(name string) SymbolKind {
	if e, ok := b.entries[name]; ok {
		return e.Kind
	}
	return Unknown
}

// Symbols lists every key in sorted order.
func (b *Base) Symbols() []string {
	return slices.Clone(b.names)
}

// Len is the number of symbols.
func (b *Base) Len() int {
	return len(b.entries)
}

// Headers lists the headers usable from dialect d. Unknown lists all.
func (b *Base) Headers(d dialect.Kind) []string {
	out := make([]string, 0, len(b.headers))
	for h, k := range b.headers {
		if d == dialect.Unknown || k.Accepts(d) {
			out = append(out, h)
		}
	}
	sort.Strings(out)
	return out
}

// KnownHeader reports whether header is part of the dataset and which
// dialects it belongs to.
func (b *Base) KnownHeader(header string) (dialect.Kind, bool) {
	k, ok := b.headers[header]
	return k, ok
}

func (b *Base) add(name string, kind SymbolKind, c HeaderCandidate) {
	e, ok := b.entries[name]
	if !ok {
		e = &Entry{Name: name, Kind: kind}
		b.entries[name] = e
	}
	if e.Kind == Unknown {
		e.Kind = kind
	}
	for i := range e.Candidates {
		old := &e.Candidates[i]
		if old.Header == c.Header && old.Dialect == c.Dialect && old.IsSystem == c.IsSystem {
			old.Priority = min(old.Priority, c.Priority)
			return
		}
	}
	e.Candidates = append(e.Candidates, c)
	b.noteHeader(c.Header, c.Dialect)
}

func (b *Base) noteHeader(header string, d dialect.Kind) {
	prev, ok := b.headers[header]
	if !ok || prev == d {
		b.headers[header] = d
		return
	}
	b.headers[header] = dialect.Both
}

func (b *Base) seal() {
	b.names = make([]string, 0, len(b.entries))
	for name, e := range b.entries {
		sort.SliceStable(e.Candidates, func(i, j int) bool {
			ci, cj := e.Candidates[i], e.Candidates[j]
			if ci.Priority != cj.Priority {
				return ci.Priority < cj.Priority
			}
			if ci.Header != cj.Header {
				return ci.Header < cj.Header
			}
			return ci.Dialect < cj.Dialect
		})
		b.names = append(b.names, name)
	}
	sort.Strings(b.names)
}
