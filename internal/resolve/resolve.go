package resolve

import (
	"fmt"
	"slices"
	"strings"

	"autoinclude/internal/dialect"
	"autoinclude/internal/includes"
	"autoinclude/internal/kb"
	"autoinclude/internal/source"
	"autoinclude/internal/symbols"
)

// Group orders required headers in the inserted block.
type Group uint8

const (
	CSystem Group = iota
	CPPSystem
	Project
)

func (g Group) String() string {
	switch g {
	case CSystem:
		return "c-system"
	case CPPSystem:
		return "cpp-system"
	case Project:
		return "project"
	default:
		return fmt.Sprintf("Group(%d)", g)
	}
}

// MarshalText keeps JSON and msgpack output readable.
func (g Group) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// GroupOf classifies a candidate: quoted headers are project headers,
// C headers (and their *.h spellings) come before C++ library headers.
func GroupOf(c kb.HeaderCandidate) Group {
	switch {
	case !c.IsSystem:
		return Project
	case strings.HasSuffix(c.Header, ".h"), c.Dialect == dialect.C, c.Dialect == dialect.Both:
		return CSystem
	default:
		return CPPSystem
	}
}

// Resolution is the outcome for one distinct symbol.
type Resolution struct {
	Symbol string        `json:"symbol" msgpack:"symbol"`
	Kind   kb.SymbolKind `json:"kind" msgpack:"kind"`
	// Key is the knowledge base name that matched, e.g. std::chrono for
	// std::chrono::steady_clock::now.
	Key        string               `json:"key,omitempty" msgpack:"key,omitempty"`
	Candidates []kb.HeaderCandidate `json:"candidates,omitempty" msgpack:"candidates,omitempty"`
	// Chosen is nil when the symbol is unknown or already satisfied.
	Chosen *kb.HeaderCandidate `json:"chosen,omitempty" msgpack:"chosen,omitempty"`
	// SatisfiedBy is the present header that covers the symbol.
	SatisfiedBy string      `json:"satisfied_by,omitempty" msgpack:"satisfied_by,omitempty"`
	First       source.Span `json:"-" msgpack:"-"`
}

// Unresolved reports a symbol the knowledge base does not know.
func (r Resolution) Unresolved() bool { return len(r.Candidates) == 0 }

// Satisfied reports a symbol covered by an existing directive.
func (r Resolution) Satisfied() bool { return r.SatisfiedBy != "" }

// Requirement is a header that must be added, with the symbols needing it.
type Requirement struct {
	Header  kb.HeaderCandidate `json:"header" msgpack:"header"`
	Group   Group              `json:"group" msgpack:"group"`
	Symbols []string           `json:"symbols" msgpack:"symbols"`
}

// Result is the full resolver output for one file.
type Result struct {
	// Resolutions are sorted by symbol name, one per distinct name.
	Resolutions []Resolution
	// Required is deduplicated by normalized header and sorted by
	// (Group, Header).
	Required []Requirement
	// Ambiguous lists chosen resolutions that had more than one candidate.
	Ambiguous []Resolution
}

// Unresolved counts symbols without candidates.
func (r *Result) Unresolved() int {
	n := 0
	for i := range r.Resolutions {
		if r.Resolutions[i].Unresolved() {
			n++
		}
	}
	return n
}

// UnknownStd counts std:: qualified symbols without candidates. Other
// unknown names are mostly the file's own declarations.
func (r *Result) UnknownStd() int {
	n := 0
	for i := range r.Resolutions {
		if r.Resolutions[i].Unresolved() && strings.HasPrefix(r.Resolutions[i].Symbol, "std::") {
			n++
		}
	}
	return n
}

// Headers lists the spellings of the required headers in order.
func (r *Result) Headers() []string {
	out := make([]string, len(r.Required))
	for i := range r.Required {
		out[i] = r.Required[i].Header.Spelling()
	}
	return out
}

// Resolve decides, for every distinct symbol, whether a header must be
// added. It is a pure function of its arguments; input order does not
// matter.
func Resolve(syms []symbols.Symbol, existing *includes.Result, d dialect.Kind, base *kb.Base) *Result {
	sorted := slices.Clone(syms)
	slices.SortStableFunc(sorted, func(a, b symbols.Symbol) int {
		return strings.Compare(a.Name, b.Name)
	})

	res := &Result{}
	required := make(map[string]*Requirement)
	for i := range sorted {
		sym := sorted[i]
		if i > 0 && sorted[i-1].Name == sym.Name {
			continue
		}
		r := resolveOne(sym, existing, d, base)
		res.Resolutions = append(res.Resolutions, r)
		if r.Chosen == nil {
			continue
		}
		if len(r.Candidates) > 1 {
			res.Ambiguous = append(res.Ambiguous, r)
		}
		key := includes.Normalize(r.Chosen.Header)
		if req, ok := required[key]; ok {
			req.Symbols = append(req.Symbols, r.Symbol)
			continue
		}
		required[key] = &Requirement{
			Header:  *r.Chosen,
			Group:   GroupOf(*r.Chosen),
			Symbols: []string{r.Symbol},
		}
	}

	res.Required = make([]Requirement, 0, len(required))
	for _, req := range required {
		res.Required = append(res.Required, *req)
	}
	slices.SortFunc(res.Required, func(a, b Requirement) int {
		if a.Group != b.Group {
			return int(a.Group) - int(b.Group)
		}
		return strings.Compare(a.Header.Header, b.Header.Header)
	})
	return res
}

func resolveOne(sym symbols.Symbol, existing *includes.Result, d dialect.Kind, base *kb.Base) Resolution {
	r := Resolution{Symbol: sym.Name, Kind: sym.Kind, First: sym.First}
	keys := sym.Keys
	if len(keys) == 0 {
		keys = []string{sym.Name}
	}

	// first matching key wins; a later key whose kind agrees with the use
	// site breaks the tie when the first one disagrees
	for _, key := range keys {
		matched, cands := base.LookupQualified(key, d)
		if len(cands) == 0 {
			continue
		}
		if r.Key == "" {
			r.Key, r.Candidates = matched, cands
			if sym.Kind == kb.Unknown || base.Kind(matched) == sym.Kind {
				break
			}
			continue
		}
		if base.Kind(matched) == sym.Kind {
			r.Key, r.Candidates = matched, cands
			break
		}
	}
	if r.Unresolved() {
		return r
	}
	if r.Kind == kb.Unknown {
		r.Kind = base.Kind(r.Key)
	}

	for _, c := range r.Candidates {
		if existing.Present(c.Header) {
			r.SatisfiedBy = c.Header
			return r
		}
	}
	chosen := r.Candidates[0]
	r.Chosen = &chosen
	return r
}
