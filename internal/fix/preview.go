package fix

import (
	"fmt"
	"strings"

	"autoinclude/internal/plan"
)

// Preview renders p as a zero-context unified diff (diff -U0), suitable
// for --dry-run output and for `patch -p1`.
func Preview(path string, p *plan.EditPlan) string {
	if p.Empty() {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "--- a/%s\n+++ b/%s\n", path, path)
	for i := 0; i < len(p.Edits); {
		j := i
		for j < len(p.Edits) && p.Edits[j].Orig == p.Edits[i].Orig {
			j++
		}
		// -U0 names the line after which text is added
		fmt.Fprintf(&b, "@@ -%d,0 +%d,%d @@\n", p.Edits[i].Orig, p.Edits[i].Line+1, j-i)
		for _, e := range p.Edits[i:j] {
			b.WriteString("+" + e.Text + "\n")
		}
		i = j
	}
	return b.String()
}
