package plan

import (
	"fmt"
	"strings"

	"autoinclude/internal/dialect"
	"autoinclude/internal/resolve"
)

// Convention selects where new directives go.
type Convention uint8

const (
	// Append puts every new directive after the last unconditional
	// directive of the anchor block.
	Append Convention = iota
	// Grouped puts each group after the last existing directive of the
	// same group, falling back to Append placement.
	Grouped
)

func (c Convention) String() string {
	switch c {
	case Append:
		return "append"
	case Grouped:
		return "grouped"
	default:
		return fmt.Sprintf("Convention(%d)", c)
	}
}

// ParseConvention accepts "append" or "grouped"; empty means Append.
func ParseConvention(s string) (Convention, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "append":
		return Append, nil
	case "grouped":
		return Grouped, nil
	default:
		return Append, fmt.Errorf("unknown convention %q (want append or grouped)", s)
	}
}

func (c Convention) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Convention) UnmarshalText(b []byte) error {
	v, err := ParseConvention(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Insertion adds one line. Line is the index the text will occupy once
// every earlier insertion of the plan has been applied; Orig is the
// original line it is inserted before.
type Insertion struct {
	Line int    `json:"line" msgpack:"line"`
	Orig int    `json:"orig" msgpack:"orig"`
	Text string `json:"text" msgpack:"text"`
}

// EditPlan is the complete, ordered set of insertions for one file.
// Edits apply top-to-bottom; a plan never removes or changes lines.
type EditPlan struct {
	Path       string                `json:"path" msgpack:"path"`
	Dialect    dialect.Kind          `json:"dialect" msgpack:"dialect"`
	SourceHash uint64                `json:"source_hash" msgpack:"source_hash"`
	Convention Convention            `json:"convention" msgpack:"convention"`
	Edits      []Insertion           `json:"edits" msgpack:"edits"`
	Added      []resolve.Requirement `json:"added" msgpack:"added"`
}

// Empty reports a plan with nothing to do.
func (p *EditPlan) Empty() bool {
	return p == nil || len(p.Edits) == 0
}

// Headers lists the spellings of added headers in group order.
func (p *EditPlan) Headers() []string {
	if p == nil {
		return nil
	}
	out := make([]string, len(p.Added))
	for i := range p.Added {
		out[i] = p.Added[i].Header.Spelling()
	}
	return out
}

// Directive renders an include line for a requirement.
func Directive(r resolve.Requirement) string {
	return "#include " + r.Header.Spelling()
}
