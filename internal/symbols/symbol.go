package symbols

import (
	"autoinclude/internal/kb"
	"autoinclude/internal/source"
)

// Symbol is a distinct name used by a file that may need a declaration
// from some header. Identity is Name; Kind is advisory.
type Symbol struct {
	Name string
	Kind kb.SymbolKind
	// Keys are the knowledge base names to try, most specific first.
	// "vector" under `using namespace std` has keys [vector std::vector].
	Keys  []string
	First source.Span
	Uses  int
}

// Result is everything extraction learned about a file.
type Result struct {
	// Symbols are sorted by Name.
	Symbols []Symbol
	// Namespaces named by using-directives, sorted.
	Namespaces []string
	// Defined holds names the file provides itself (#define, typedef,
	// type definitions, alias declarations, file-scope function
	// definitions), sorted.
	Defined []string
}

// Names returns the symbol names in order.
func (r *Result) Names() []string {
	out := make([]string, len(r.Symbols))
	for i := range r.Symbols {
		out[i] = r.Symbols[i].Name
	}
	return out
}

// Get finds a symbol by name.
func (r *Result) Get(name string) (Symbol, bool) {
	for i := range r.Symbols {
		if r.Symbols[i].Name == name {
			return r.Symbols[i], true
		}
	}
	return Symbol{}, false
}
