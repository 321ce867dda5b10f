package lexer

import (
	"autoinclude/internal/diag"
	"autoinclude/internal/dialect"
	"autoinclude/internal/source"
)

type Options struct {
	// Dialect selects C or C++ lexing rules. Unknown lexes as C++, the superset.
	Dialect dialect.Kind
	// Reporter может быть nil — тогда ошибки игнорируем (но продолжаем лексить)
	Reporter diag.Reporter
	// Evidence, when set, collects dialect hints while scanning.
	Evidence *dialect.Evidence
}

func (o Options) cpp() bool {
	return o.Dialect != dialect.C
}

func (lx *Lexer) report(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter == nil {
		return
	}
	diag.ReportWarning(lx.opts.Reporter, code, sp, msg).Emit()
}
