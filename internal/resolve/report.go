package resolve

import (
	"fmt"

	"autoinclude/internal/diag"
)

// Report emits one RES3001 info per ambiguous symbol. The note lists the
// candidates in preference order.
func (r *Result) Report(rep diag.Reporter) {
	if r == nil || rep == nil {
		return
	}
	for _, a := range r.Ambiguous {
		msg := fmt.Sprintf("%q has %d candidate headers, using %s", a.Symbol, len(a.Candidates), a.Chosen.Spelling())
		b := diag.ReportInfo(rep, diag.ResAmbiguousSymbol, a.First, msg)
		b.WithNote(a.First, "candidates: "+spellings(a))
		b.Emit()
	}
}

func spellings(a Resolution) string {
	s := ""
	for i, c := range a.Candidates {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%s (priority %d)", c.Spelling(), c.Priority)
	}
	return s
}
