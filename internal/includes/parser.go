package includes

import (
	"strings"

	"autoinclude/internal/diag"
	"autoinclude/internal/source"
	"autoinclude/internal/token"
)

type lineKind uint8

const (
	lineBlank lineKind = iota
	lineComment
	lineCode
	lineDirective
)

// dirLine is one preprocessor line located in the token stream.
type dirLine struct {
	name    string
	tok     int // Directive token
	end     int // DirectiveEnd token, or len(toks)
	line    int
	lineEnd int
}

type condUnit struct {
	start, end int
}

type item struct {
	start, end int
	dir        int // -1 for a malformed include line or a conditional unit
}

// Result describes the existing includes of one file.
type Result struct {
	Directives []Directive
	Blocks     []Block
	Guard      *Guard
	// PragmaOnce is the line of #pragma once, -1 when absent.
	PragmaOnce int
	// Malformed counts include lines that were reported and ignored.
	Malformed int

	anchor  int
	top     int
	lines   []lineKind
	present map[string]struct{}
}

type parser struct {
	file  *source.File
	toks  []token.Token
	r     diag.Reporter
	res   *Result
	dirs  []dirLine
	items []item
	units []condUnit
}

// Parse extracts include directives and include blocks. It works on the
// token stream so directives inside comments or literals are never seen.
// Malformed and computed includes are reported to r and left out of the
// present set.
func Parse(file *source.File, toks []token.Token, r diag.Reporter) *Result {
	p := &parser{
		file: file,
		toks: toks,
		r:    r,
		res: &Result{
			PragmaOnce: -1,
			anchor:     -1,
			present:    make(map[string]struct{}),
		},
	}
	p.classifyLines()
	p.collectDirectives()
	p.detectGuard()
	p.walk()
	p.buildBlocks()
	p.res.top = p.topInsertion()
	return p.res
}

func (p *parser) lineOf(off uint32) int {
	return p.file.LineOf(off)
}

func (p *parser) classifyLines() {
	n := p.file.LineCount()
	lines := make([]lineKind, n)
	for i := range n {
		if strings.TrimSpace(p.file.Line(i)) != "" {
			lines[i] = lineComment
		}
	}
	mark := func(from, to int, k lineKind) {
		for l := max(from, 0); l <= to && l < n; l++ {
			if lines[l] != lineDirective {
				lines[l] = k
			}
		}
	}
	var dirStart = -1
	for _, t := range p.toks {
		switch {
		case t.Kind == token.Directive:
			dirStart = p.lineOf(t.Span.Start)
		case t.Kind == token.DirectiveEnd:
			if dirStart >= 0 {
				mark(dirStart, p.lineOf(t.Span.Start), lineDirective)
			}
			dirStart = -1
		case dirStart < 0:
			end := t.Span.End
			if end > t.Span.Start {
				end--
			}
			mark(p.lineOf(t.Span.Start), p.lineOf(end), lineCode)
		}
	}
	if dirStart >= 0 {
		mark(dirStart, n-1, lineDirective)
	}
	p.res.lines = lines
}

func (p *parser) collectDirectives() {
	for i := 0; i < len(p.toks); i++ {
		if p.toks[i].Kind != token.Directive {
			continue
		}
		end := i + 1
		for end < len(p.toks) && p.toks[end].Kind != token.DirectiveEnd {
			end++
		}
		endOff := p.file.LineEnd(p.file.LineCount() - 1)
		if end < len(p.toks) {
			endOff = p.toks[end].Span.Start
		}
		p.dirs = append(p.dirs, dirLine{
			name:    p.toks[i].Text,
			tok:     i,
			end:     end,
			line:    p.lineOf(p.toks[i].Span.Start),
			lineEnd: p.lineOf(endOff),
		})
		i = end
	}
}

// operands returns the tokens of a directive after its keyword.
func (p *parser) operands(d dirLine) []token.Token {
	return p.toks[d.tok+1 : d.end]
}

// guardMacro returns X for `#ifndef X` and `#if !defined(X)`.
func (p *parser) guardMacro(d dirLine) string {
	ops := p.operands(d)
	switch d.name {
	case "ifndef":
		if len(ops) == 1 && ops[0].Kind == token.Ident {
			return ops[0].Text
		}
	case "if":
		if len(ops) < 3 || ops[0].Text != "!" || ops[1].Text != "defined" {
			return ""
		}
		switch rest := ops[2:]; {
		case len(rest) == 1 && rest[0].Kind == token.Ident:
			return rest[0].Text
		case len(rest) == 3 && rest[0].Kind == token.LParen && rest[1].Kind == token.Ident && rest[2].Kind == token.RParen:
			return rest[1].Text
		}
	}
	return ""
}

func (p *parser) detectGuard() {
	if len(p.dirs) < 3 || p.dirs[0].tok != 0 {
		return
	}
	macro := p.guardMacro(p.dirs[0])
	if macro == "" {
		return
	}
	def := p.dirs[1]
	if ops := p.operands(def); def.name != "define" || len(ops) == 0 || ops[0].Text != macro {
		return
	}
	depth := 0
	for i, d := range p.dirs {
		switch d.name {
		case "if", "ifdef", "ifndef":
			depth++
		case "endif":
			depth--
			if depth != 0 {
				continue
			}
			// the guard must close the file
			if i != len(p.dirs)-1 || d.end+1 < len(p.toks) {
				return
			}
			p.res.Guard = &Guard{
				Macro:      macro,
				IfLine:     p.dirs[0].line,
				DefineLine: def.line,
				EndifLine:  d.line,
			}
			return
		}
	}
}

func (p *parser) isGuard(i int) bool {
	g := p.res.Guard
	return g != nil && (i == 0 || i == len(p.dirs)-1)
}

func (p *parser) walk() {
	type frame struct {
		guard bool
		span  source.Span
	}
	var stack []frame
	depth := 0 // frames that make directives conditional
	start := -1

	for i, d := range p.dirs {
		sp := p.toks[d.tok].Span
		switch d.name {
		case "if", "ifdef", "ifndef":
			guard := p.isGuard(i)
			stack = append(stack, frame{guard: guard, span: sp})
			if !guard {
				if depth == 0 {
					start = d.line
				}
				depth++
			}
		case "elif", "else", "elifdef", "elifndef":
			if depth == 0 {
				diag.ReportWarning(p.r, diag.IncUnbalancedConditional, sp, "#"+d.name+" without #if").Emit()
			}
		case "endif":
			if len(stack) == 0 {
				diag.ReportWarning(p.r, diag.IncUnbalancedConditional, sp, "#endif without #if").Emit()
				continue
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !top.guard {
				depth--
				if depth == 0 {
					p.units = append(p.units, condUnit{start: start, end: d.lineEnd})
				}
			}
		case "pragma":
			if ops := p.operands(d); len(ops) == 1 && ops[0].Text == "once" && p.res.PragmaOnce < 0 {
				p.res.PragmaOnce = d.line
			}
		case "include", "include_next", "import":
			p.include(d, depth > 0)
		}
	}
	for _, f := range stack {
		if !f.guard {
			diag.ReportWarning(p.r, diag.IncUnterminatedConditional, f.span, "conditional directive is never closed").Emit()
		}
	}
}

func (p *parser) include(d dirLine, conditional bool) {
	kw := p.toks[d.tok]
	ops := p.operands(d)
	span := kw.Span
	if len(ops) > 0 {
		span = span.Cover(ops[len(ops)-1].Span)
	}

	malformed := func(msg string) {
		p.res.Malformed++
		diag.ReportWarning(p.r, diag.IncMalformedDirective, span, msg).Emit()
		if !conditional {
			p.items = append(p.items, item{start: d.line, end: d.lineEnd, dir: -1})
		}
	}

	if len(ops) == 0 {
		malformed(`expected <file> or "file" after #` + d.name)
		return
	}
	op := ops[0]
	var system bool
	switch {
	case op.Kind == token.HeaderName:
		system = true
	case op.Kind == token.StringLit && op.Prefix == "" && op.Suffix == "":
	case op.Kind == token.Ident && (len(ops) == 1 || ops[1].Kind == token.LParen):
		diag.ReportInfo(p.r, diag.IncComputedInclude, span, "#"+d.name+" operand is a macro; it is not expanded").Emit()
		return
	default:
		malformed(`expected <file> or "file" after #` + d.name)
		return
	}
	if op.Has(token.FlagUnterminated) {
		closer := `"`
		if system {
			closer = ">"
		}
		malformed("missing closing " + closer + " in #" + d.name)
		return
	}
	path := strings.TrimSpace(op.Body())
	if path == "" {
		malformed("empty header name in #" + d.name)
		return
	}
	if len(ops) > 1 {
		malformed("unexpected tokens after header name")
		return
	}

	idx := len(p.res.Directives)
	p.res.Directives = append(p.res.Directives, Directive{
		Path:        path,
		IsSystem:    system,
		Keyword:     d.name,
		LineStart:   d.line,
		LineEnd:     d.lineEnd,
		RawText:     string(p.file.Content[p.file.LineStart(d.line):p.file.LineEnd(d.lineEnd)]),
		Conditional: conditional,
		Span:        span,
	})
	p.res.present[path] = struct{}{}
	if !conditional {
		p.items = append(p.items, item{start: d.line, end: d.lineEnd, dir: idx})
	}
}

// pureUnit reports whether a conditional range holds only directives,
// comments and blank lines, and at least one include.
func (p *parser) pureUnit(u condUnit) bool {
	for l := u.start; l <= u.end && l < len(p.res.lines); l++ {
		if p.res.lines[l] == lineCode {
			return false
		}
	}
	for _, d := range p.res.Directives {
		if d.Conditional && d.LineStart > u.start && d.LineEnd < u.end {
			return true
		}
	}
	return false
}

func (p *parser) buildBlocks() {
	at := make(map[int]item, len(p.items)+len(p.units))
	for _, it := range p.items {
		at[it.start] = it
	}
	for _, u := range p.units {
		if p.pureUnit(u) {
			at[u.start] = item{start: u.start, end: u.end, dir: -1}
		}
	}

	var (
		cur          *Block
		blanks       int
		commentStart = -1
	)
	closeBlock := func() {
		if cur != nil {
			p.res.Blocks = append(p.res.Blocks, *cur)
		}
		cur = nil
		blanks = 0
	}

	lines := p.res.lines
	for l := 0; l < len(lines); {
		if it, ok := at[l]; ok {
			if cur == nil {
				start := l
				if commentStart >= 0 {
					start = commentStart
				}
				cur = &Block{Start: start, LastUnconditional: -1}
			}
			cur.End = it.end
			if it.dir >= 0 {
				cur.LastUnconditional = it.end
			}
			for i, d := range p.res.Directives {
				if d.LineStart >= it.start && d.LineStart <= it.end {
					cur.Directives = append(cur.Directives, i)
				}
			}
			blanks = 0
			commentStart = -1
			l = it.end + 1
			continue
		}
		switch lines[l] {
		case lineBlank:
			commentStart = -1
			if cur != nil {
				blanks++
				if blanks > 1 {
					closeBlock()
				}
			}
		case lineComment:
			if commentStart < 0 {
				commentStart = l
			}
			blanks = 0
		default:
			commentStart = -1
			closeBlock()
		}
		l++
	}
	closeBlock()

	for i, b := range p.res.Blocks {
		if b.HasUnconditional() {
			p.res.anchor = i
			break
		}
	}
}

// topInsertion finds where a new include block goes in a file without
// one: after a shebang, the leading comment header and blank lines, and
// after an include guard or #pragma once together with one blank line.
func (p *parser) topInsertion() int {
	lines := p.res.lines
	i := 0
	if len(lines) > 0 && strings.HasPrefix(p.file.Line(0), "#!") {
		i = 1
	}
	for i < len(lines) && (lines[i] == lineBlank || lines[i] == lineComment) {
		i++
	}
	after := -1
	if g := p.res.Guard; g != nil && g.IfLine >= i {
		after = g.DefineLine
	} else if po := p.res.PragmaOnce; po >= i && p.onlyTriviaBetween(i, po) {
		after = po
	}
	if after < 0 {
		return i
	}
	i = p.dirEnd(after) + 1
	if i < len(lines) && lines[i] == lineBlank {
		i++
	}
	return i
}

func (p *parser) onlyTriviaBetween(from, to int) bool {
	for l := from; l < to; l++ {
		if p.res.lines[l] == lineCode || p.res.lines[l] == lineDirective {
			return false
		}
	}
	return true
}

// dirEnd maps the first line of a directive to its last line.
func (p *parser) dirEnd(line int) int {
	for _, d := range p.dirs {
		if d.line == line {
			return d.lineEnd
		}
	}
	return line
}
