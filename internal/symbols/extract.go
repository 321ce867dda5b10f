package symbols

import (
	"slices"
	"sort"
	"strings"

	"autoinclude/internal/dialect"
	"autoinclude/internal/kb"
	"autoinclude/internal/token"
)

type extractor struct {
	toks []token.Token
	cpp  bool

	syms       map[string]*Symbol
	defined    map[string]struct{}
	namespaces map[string]struct{}
	usingDecl  map[string]string // vector -> std::vector
	aliases    map[string]string // fs -> std::filesystem

	depth    int
	typedefs []int // brace depths of open typedef declarations
}

// Extract collects the distinct symbols of a token stream. Keywords of
// dialect d, member names after . and ->, directive keywords, include
// operands and macro parameters are never symbols. Names the file defines
// itself (macros, typedefs, tags, aliases, functions with a body at file
// scope) are dropped from the result.
func Extract(toks []token.Token, d dialect.Kind) *Result {
	e := &extractor{
		toks:       toks,
		cpp:        d != dialect.C,
		syms:       make(map[string]*Symbol),
		defined:    make(map[string]struct{}),
		namespaces: make(map[string]struct{}),
		usingDecl:  make(map[string]string),
		aliases:    make(map[string]string),
	}
	for i := 0; i < len(toks); {
		i = e.step(i)
	}
	return e.result()
}

func (e *extractor) step(i int) int {
	t := e.toks[i]
	switch t.Kind {
	case token.Directive:
		return e.directive(i)
	case token.Ident:
		return e.ident(i, nil)
	case token.Number, token.StringLit, token.RawStringLit:
		e.literal(i)
	case token.Punct:
		switch t.Text {
		case "{":
			e.depth++
		case "}":
			if e.depth > 0 {
				e.depth--
			}
		case ";":
			e.endTypedef(i)
		}
	}
	return i + 1
}

func (e *extractor) literal(i int) {
	t := e.toks[i]
	if !e.cpp || t.Suffix == "" {
		return
	}
	name := "0" + t.Suffix
	if t.Kind != token.Number {
		name = `""` + t.Suffix
	}
	e.use(name, kb.LiteralSuffix, i)
}

func (e *extractor) endTypedef(i int) {
	n := len(e.typedefs)
	if n == 0 || e.typedefs[n-1] != e.depth {
		return
	}
	e.typedefs = e.typedefs[:n-1]
	if i > 0 && e.toks[i-1].Kind == token.Ident {
		e.define(e.toks[i-1].Text)
	}
}

// directive handles one preprocessor line and returns the index after
// its DirectiveEnd.
func (e *extractor) directive(i int) int {
	end := i + 1
	for end < len(e.toks) && e.toks[end].Kind != token.DirectiveEnd {
		end++
	}
	body := i + 1
	switch e.toks[i].Text {
	case "define":
		if body < end && e.toks[body].Kind == token.Ident {
			e.define(e.toks[body].Text)
			params, next := e.macroParams(body+1, end)
			e.scanRange(next, end, params)
		}
	case "if", "elif":
		e.scanRange(body, end, nil)
	default:
		// include, import, pragma, ifdef, ifndef, undef, line, error, ...
	}
	return end + 1
}

// macroParams reads the parameter list of a function-like macro whose
// '(' must touch the macro name.
func (e *extractor) macroParams(j, end int) (map[string]struct{}, int) {
	if j >= end || e.toks[j].Kind != token.LParen || e.toks[j].Span.Start != e.toks[j-1].Span.End {
		return nil, j
	}
	params := make(map[string]struct{})
	for j++; j < end; j++ {
		switch e.toks[j].Kind {
		case token.Ident:
			params[e.toks[j].Text] = struct{}{}
		case token.RParen:
			return params, j + 1
		}
	}
	return params, end
}

func (e *extractor) scanRange(from, to int, skip map[string]struct{}) {
	for i := from; i < to; {
		t := e.toks[i]
		switch {
		case t.Kind == token.Ident && t.Text == "defined":
			i = e.skipDefined(i+1, to)
		case t.Kind == token.Ident:
			i = e.ident(i, skip)
		default:
			if t.Kind == token.Number || t.Kind == token.StringLit || t.Kind == token.RawStringLit {
				e.literal(i)
			}
			i++
		}
	}
}

// skipDefined steps over the operand of `defined X` or `defined(X)`.
func (e *extractor) skipDefined(j, to int) int {
	if j < to && e.toks[j].Kind == token.LParen {
		for j < to && e.toks[j].Kind != token.RParen {
			j++
		}
		return j + 1
	}
	if j < to && e.toks[j].Kind == token.Ident {
		return j + 1
	}
	return j
}

func (e *extractor) ident(i int, skip map[string]struct{}) int {
	t := e.toks[i]
	if token.IsKeyword(t.Text, e.cpp) {
		return e.keyword(i)
	}
	if _, ok := skip[t.Text]; ok {
		return i + 1
	}
	if i > 0 {
		switch prev := e.toks[i-1]; prev.Kind {
		case token.Dot, token.Arrow:
			return i + 1
		case token.ColonColon:
			// a::b was consumed as a chain; reaching here means the left
			// side is not a name (vector<int>::iterator, f()::x)
			if i > 1 && !startsGlobal(e.toks[i-2]) {
				return i + 1
			}
		case token.Punct:
			if prev.Text == ".*" || prev.Text == "->*" {
				return i + 1
			}
		}
	}

	parts := []string{t.Text}
	j := i + 1
	for j+1 < len(e.toks) && e.toks[j].Kind == token.ColonColon && e.toks[j+1].Kind == token.Ident {
		if token.IsKeyword(e.toks[j+1].Text, e.cpp) {
			break
		}
		parts = append(parts, e.toks[j+1].Text)
		j += 2
	}

	kind := kb.Unknown
	if j < len(e.toks) && e.toks[j].Kind == token.LParen {
		kind = kb.Function
		if e.depth == 0 && len(parts) == 1 && e.hasBody(j) {
			e.define(t.Text)
		}
	}
	e.use(strings.Join(parts, "::"), kind, i)
	return j
}

// hasBody reports whether the parameter list opening at j is followed by
// a function body: `(...) const noexcept {`.
func (e *extractor) hasBody(j int) bool {
	nest := 0
	for ; j < len(e.toks); j++ {
		switch e.toks[j].Kind {
		case token.LParen:
			nest++
		case token.RParen:
			nest--
		case token.Directive, token.EOF:
			return false
		}
		if nest == 0 {
			break
		}
	}
	for j++; j < len(e.toks); j++ {
		switch t := e.toks[j]; {
		case t.Kind == token.Ident:
			// const, noexcept, override, final
		case t.Kind == token.Punct && t.Text == "{":
			return true
		default:
			return false
		}
	}
	return false
}

// startsGlobal reports whether a '::' following tok is a global scope
// qualifier rather than a member access.
func startsGlobal(tok token.Token) bool {
	switch tok.Kind {
	case token.Ident, token.RParen:
		return false
	case token.Punct:
		return !strings.HasSuffix(tok.Text, ">")
	}
	return true
}

func (e *extractor) keyword(i int) int {
	switch e.toks[i].Text {
	case "typedef":
		e.typedefs = append(e.typedefs, e.depth)
	case "using":
		if e.cpp {
			return e.using(i + 1)
		}
	case "namespace":
		if e.cpp {
			return e.namespace(i + 1)
		}
	case "struct", "class", "union", "enum":
		return e.tagDefinition(i + 1)
	}
	return i + 1
}

// qualified reads a::b::c starting at j.
func (e *extractor) qualified(j int) (string, int) {
	var parts []string
	if j < len(e.toks) && e.toks[j].Kind == token.ColonColon {
		j++
	}
	for j < len(e.toks) && e.toks[j].Kind == token.Ident {
		parts = append(parts, e.toks[j].Text)
		j++
		if j+1 < len(e.toks) && e.toks[j].Kind == token.ColonColon && e.toks[j+1].Kind == token.Ident {
			j++
			continue
		}
		break
	}
	return strings.Join(parts, "::"), j
}

func (e *extractor) using(j int) int {
	if j >= len(e.toks) || e.toks[j].Kind != token.Ident {
		return j
	}
	switch e.toks[j].Text {
	case "namespace":
		name, next := e.qualified(j + 1)
		if name != "" {
			full := e.expandNamespace(name)
			e.namespaces[full] = struct{}{}
			if full != "std" {
				e.use(full, kb.Namespace, j+1)
			}
		}
		return next
	case "enum", "typename":
		j++
	}
	// using X = ...; declares X, the right side is scanned normally
	if j+1 < len(e.toks) && e.toks[j].Kind == token.Ident && e.toks[j+1].Text == "=" {
		e.define(e.toks[j].Text)
		return j + 2
	}
	name, next := e.qualified(j)
	if i := strings.LastIndex(name, "::"); i > 0 {
		full := e.expandNamespace(name)
		e.usingDecl[name[i+2:]] = full
		e.use(name, kb.Unknown, j)
	}
	return next
}

func (e *extractor) namespace(j int) int {
	if j+1 < len(e.toks) && e.toks[j].Kind == token.Ident && e.toks[j+1].Text == "=" {
		alias := e.toks[j].Text
		target, next := e.qualified(j + 2)
		if target != "" {
			e.aliases[alias] = e.expandNamespace(target)
			e.use(target, kb.Namespace, j+2)
		}
		return next
	}
	// namespace a::b { ... } names are the file's own
	_, next := e.qualified(j)
	return next
}

// tagDefinition marks `struct X {` and `class X : Base` as local types.
func (e *extractor) tagDefinition(j int) int {
	if j < len(e.toks) && e.toks[j].Kind == token.Ident && (e.toks[j].Text == "class" || e.toks[j].Text == "struct") {
		j++ // enum class
	}
	if j+1 >= len(e.toks) || e.toks[j].Kind != token.Ident || token.IsKeyword(e.toks[j].Text, e.cpp) {
		return j
	}
	next := e.toks[j+1]
	if (next.Kind == token.Punct && (next.Text == "{" || next.Text == ":")) ||
		(next.Kind == token.Ident && next.Text == "final") {
		e.define(e.toks[j].Text)
		return j + 1
	}
	return j
}

// expandNamespace resolves an alias or a namespace named relative to an
// active using-directive (using namespace std; using namespace chrono;).
func (e *extractor) expandNamespace(name string) string {
	head, rest, _ := strings.Cut(name, "::")
	if target, ok := e.aliases[head]; ok {
		if rest == "" {
			return target
		}
		return target + "::" + rest
	}
	if head != "std" {
		if _, ok := e.namespaces["std"]; ok {
			return "std::" + name
		}
	}
	return name
}

func (e *extractor) define(name string) {
	e.defined[name] = struct{}{}
}

func (e *extractor) use(name string, kind kb.SymbolKind, i int) {
	s, ok := e.syms[name]
	if !ok {
		s = &Symbol{Name: name, Kind: kind, First: e.toks[i].Span}
		e.syms[name] = s
	}
	if s.Kind == kb.Unknown {
		s.Kind = kind
	}
	s.Uses++
}

func (e *extractor) result() *Result {
	res := &Result{
		Namespaces: sortedKeys(e.namespaces),
		Defined:    sortedKeys(e.defined),
	}
	for name, s := range e.syms {
		if _, local := e.defined[name]; local {
			continue
		}
		s.Keys = e.keys(name, res.Namespaces)
		if len(s.Keys) == 0 {
			continue
		}
		res.Symbols = append(res.Symbols, *s)
	}
	sort.Slice(res.Symbols, func(i, j int) bool { return res.Symbols[i].Name < res.Symbols[j].Name })
	return res
}

// keys lists the knowledge base names a use may refer to.
func (e *extractor) keys(name string, namespaces []string) []string {
	if !e.cpp || strings.HasPrefix(name, `""`) || strings.HasPrefix(name, "0") {
		return []string{name}
	}
	head, rest, qualified := strings.Cut(name, "::")
	switch {
	case head == "std":
		return []string{name}
	case qualified:
		if target, ok := e.aliases[head]; ok {
			return []string{target + "::" + rest}
		}
		var out []string
		for _, ns := range namespaces {
			out = append(out, ns+"::"+name)
		}
		return out
	}

	out := []string{name}
	if full, ok := e.usingDecl[name]; ok {
		out = append(out, full)
	}
	for _, ns := range namespaces {
		if key := ns + "::" + name; !slices.Contains(out, key) {
			out = append(out, key)
		}
	}
	return out
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
