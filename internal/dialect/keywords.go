package dialect

import (
	"autoinclude/internal/source"
)

type keywordSignal struct {
	Dialect Kind
	Score   int
	Reason  string
}

var keywordSignals = map[string][]keywordSignal{
	// C++-only keywords
	"namespace":        {{Dialect: CPP, Score: 6, Reason: "c++ keyword `namespace`"}},
	"template":         {{Dialect: CPP, Score: 6, Reason: "c++ keyword `template`"}},
	"typename":         {{Dialect: CPP, Score: 5, Reason: "c++ keyword `typename`"}},
	"nullptr":          {{Dialect: CPP, Score: 5, Reason: "c++ keyword `nullptr`"}},
	"constexpr":        {{Dialect: CPP, Score: 4, Reason: "c++ keyword `constexpr`"}},
	"virtual":          {{Dialect: CPP, Score: 4, Reason: "c++ keyword `virtual`"}},
	"operator":         {{Dialect: CPP, Score: 4, Reason: "c++ keyword `operator`"}},
	"static_cast":      {{Dialect: CPP, Score: 5, Reason: "c++ cast `static_cast`"}},
	"reinterpret_cast": {{Dialect: CPP, Score: 5, Reason: "c++ cast `reinterpret_cast`"}},
	"dynamic_cast":     {{Dialect: CPP, Score: 5, Reason: "c++ cast `dynamic_cast`"}},
	"const_cast":       {{Dialect: CPP, Score: 5, Reason: "c++ cast `const_cast`"}},
	"noexcept":         {{Dialect: CPP, Score: 4, Reason: "c++ keyword `noexcept`"}},
	"decltype":         {{Dialect: CPP, Score: 4, Reason: "c++ keyword `decltype`"}},
	"class":            {{Dialect: CPP, Score: 3, Reason: "c++ keyword `class`"}},
	"using":            {{Dialect: CPP, Score: 3, Reason: "c++ keyword `using`"}},
	"throw":            {{Dialect: CPP, Score: 3, Reason: "c++ keyword `throw`"}},
	"catch":            {{Dialect: CPP, Score: 3, Reason: "c++ keyword `catch`"}},
	"public":           {{Dialect: CPP, Score: 1, Reason: "c++ access specifier `public`"}},
	"private":          {{Dialect: CPP, Score: 1, Reason: "c++ access specifier `private`"}},
	// "new"/"delete"/"this" are valid C identifiers; keep them low-signal.
	"new":    {{Dialect: CPP, Score: 1, Reason: "c++ keyword `new`"}},
	"delete": {{Dialect: CPP, Score: 1, Reason: "c++ keyword `delete`"}},
	"this":   {{Dialect: CPP, Score: 1, Reason: "c++ keyword `this`"}},

	// C-only spellings
	"restrict":       {{Dialect: C, Score: 3, Reason: "c keyword `restrict`"}},
	"_Bool":          {{Dialect: C, Score: 3, Reason: "c keyword `_Bool`"}},
	"_Generic":       {{Dialect: C, Score: 4, Reason: "c keyword `_Generic`"}},
	"_Static_assert": {{Dialect: C, Score: 2, Reason: "c keyword `_Static_assert`"}},
	"_Noreturn":      {{Dialect: C, Score: 2, Reason: "c keyword `_Noreturn`"}},
	"_Atomic":        {{Dialect: C, Score: 1, Reason: "c keyword `_Atomic`"}},
}

// RecordIdent collects keyword evidence for an identifier token.
func RecordIdent(e *Evidence, ident string, span source.Span) {
	if e == nil || ident == "" {
		return
	}
	for _, sig := range keywordSignals[ident] {
		e.Add(Hint{
			Dialect: sig.Dialect,
			Score:   sig.Score,
			Reason:  sig.Reason,
			Span:    span,
		})
	}
}
