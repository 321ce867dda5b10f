package driver_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoinclude/internal/diag"
	"autoinclude/internal/dialect"
	"autoinclude/internal/driver"
	"autoinclude/internal/fix"
	"autoinclude/internal/plan"
	"autoinclude/internal/source"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func run(t *testing.T, path string, content []byte, opts driver.Options) *driver.Result {
	t.Helper()
	res, err := driver.FixIncludes(context.Background(), driver.Input{Path: path, Content: content}, opts)
	require.NoError(t, err)
	require.NotNil(t, res.Plan)
	return res
}

// applyPlan returns the fixed text in LF form.
func applyPlan(t *testing.T, res *driver.Result) string {
	t.Helper()
	out, err := fix.ApplyText(res.File().Content, res.Plan, "\n")
	require.NoError(t, err)
	return string(out)
}

func lines(s string) []string {
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// isSubsequence reports whether every element of sub appears in full in order.
func isSubsequence(sub, full []string) bool {
	j := 0
	for _, l := range full {
		if j < len(sub) && sub[j] == l {
			j++
		}
	}
	return j == len(sub)
}

func TestFixIncludesAddsMissingCHeaders(t *testing.T) {
	res := run(t, "broken.c", readFixture(t, "broken.c"), driver.Options{})

	assert.Equal(t, dialect.C, res.Dialect)
	assert.False(t, res.Inferred)
	assert.Equal(t, []plan.Insertion{
		{Line: 6, Orig: 6, Text: "#include <math.h>"},
		{Line: 7, Orig: 6, Text: "#include <stdlib.h>"},
		{Line: 8, Orig: 6, Text: "#include <string.h>"},
	}, res.Plan.Edits)
	assert.False(t, res.Bag.HasWarnings(), "unexpected diagnostics: %v", res.Bag.Items())

	fixed := applyPlan(t, res)
	for _, h := range []string{"<stdio.h>", "<stdint.h>", "<math.h>"} {
		assert.Equal(t, 1, strings.Count(fixed, "#include "+h), h)
	}
}

func TestFixIncludesCompleteFileNeedsNothing(t *testing.T) {
	res := run(t, "broken.cpp", readFixture(t, "broken.cpp"), driver.Options{})
	assert.Equal(t, dialect.CPP, res.Dialect)
	assert.True(t, res.Plan.Empty(), "unexpected edits %v", res.Plan.Edits)
}

func TestFixIncludesPrefersLowestPriority(t *testing.T) {
	src := "struct buf {\n    size_t len;\n};\n"
	res := run(t, "buf.c", []byte(src), driver.Options{})
	assert.Equal(t, []string{"<stddef.h>"}, res.Plan.Headers())
	assert.Equal(t, "#include <stddef.h>\n\nstruct buf {\n    size_t len;\n};\n", applyPlan(t, res))
}

func TestFixIncludesSurvivesLexicalErrors(t *testing.T) {
	src := "int main(void) {\n    printf(\"hi\\n\");\n    return 0;\n}\n/* never closed\n"
	res := run(t, "d.c", []byte(src), driver.Options{})

	assert.Equal(t, []string{"<stdio.h>"}, res.Plan.Headers())
	found := res.Bag.ByCode(diag.LexUnterminatedBlockComment)
	require.Len(t, found, 1)
	assert.Equal(t, diag.SevWarning, found[0].Severity)
}

func TestFixIncludesIsIdempotent(t *testing.T) {
	for _, name := range []string{"broken.c", "broken.cpp"} {
		t.Run(name, func(t *testing.T) {
			first := run(t, name, readFixture(t, name), driver.Options{})
			fixed := applyPlan(t, first)

			second := run(t, name, []byte(fixed), driver.Options{})
			assert.True(t, second.Plan.Empty(), "second run planned %v", second.Plan.Edits)
			assert.True(t, isSubsequence(lines(string(first.File().Content)), lines(fixed)))
		})
	}
}

func TestFixIncludesIsDeterministic(t *testing.T) {
	content := readFixture(t, "broken.c")
	first := run(t, "broken.c", content, driver.Options{Convention: plan.Grouped})
	for range 5 {
		next := run(t, "broken.c", content, driver.Options{Convention: plan.Grouped})
		assert.Equal(t, first.Plan, next.Plan)
		assert.Equal(t, first.Bag.Items(), next.Bag.Items())
	}
}

func TestFixIncludesKeepsCRLF(t *testing.T) {
	src := "#include <stdio.h>\r\n\r\nint main(void) { return abs(-1); }\r\n"
	res := run(t, "crlf.c", []byte(src), driver.Options{})
	require.Equal(t, []string{"<stdlib.h>"}, res.Plan.Headers())

	out, err := fix.ApplyText(res.File().Content, res.Plan, source.EOL(res.File().Flags))
	require.NoError(t, err)
	assert.Equal(t, "#include <stdio.h>\r\n#include <stdlib.h>\r\n\r\nint main(void) { return abs(-1); }\r\n", string(out))
}

func TestFixIncludesInfersHeaderDialect(t *testing.T) {
	src := "#pragma once\n\nnamespace util {\nstd::string name();\n}\n"
	res := run(t, "util.h", []byte(src), driver.Options{})

	assert.True(t, res.Inferred)
	assert.Equal(t, dialect.CPP, res.Dialect)
	assert.Equal(t, []string{"<string>"}, res.Plan.Headers())
	assert.Len(t, res.Bag.ByCode(diag.ResDialectGuessed), 1)

	res = run(t, "util.h", []byte("#pragma once\n\nsize_t count(void);\n"), driver.Options{})
	assert.Equal(t, dialect.C, res.Dialect)
	assert.Equal(t, []string{"<stddef.h>"}, res.Plan.Headers())
}

func TestFixIncludesHonoursDialectHint(t *testing.T) {
	src := "int main() { printf(\"x\"); }\n"
	res := run(t, "", []byte(src), driver.Options{DialectHint: dialect.CPP})
	assert.Equal(t, dialect.CPP, res.Dialect)
	assert.False(t, res.Inferred)
	assert.Equal(t, []string{"<cstdio>"}, res.Plan.Headers())

	res, err := driver.FixIncludes(context.Background(),
		driver.Input{Path: "x.cpp", DialectHint: dialect.C, Content: []byte(src)},
		driver.Options{DialectHint: dialect.CPP})
	require.NoError(t, err)
	assert.Equal(t, dialect.C, res.Dialect)
}

func TestFixIncludesRejectsUndecodableInput(t *testing.T) {
	_, err := driver.FixIncludes(context.Background(), driver.Input{Path: "bad.c", Content: []byte{'i', 0xc3, 0x28}}, driver.Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, source.ErrEncoding))
	assert.Contains(t, err.Error(), "bad.c")
}

func TestFixIncludesStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := driver.FixIncludes(ctx, driver.Input{Path: "x.c", Content: []byte("int x;\n")}, driver.Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFixIncludesRecordsTimingAndProgress(t *testing.T) {
	var stages []driver.Stage
	sink := driver.SinkFunc(func(e driver.Event) {
		if e.Status == driver.StatusWorking {
			stages = append(stages, e.Stage)
		}
	})
	res := run(t, "broken.c", readFixture(t, "broken.c"), driver.Options{Progress: sink})

	assert.Equal(t, []driver.Stage{driver.StageScan, driver.StageIncludes, driver.StageResolve, driver.StagePlan}, stages)
	names := make([]string, 0, len(res.Timing.Phases))
	for _, p := range res.Timing.Phases {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"load", "scan", "includes", "resolve", "plan"}, names)
}

func TestFixIncludesReportsTimings(t *testing.T) {
	res := run(t, "x.c", []byte("int x;\n"), driver.Options{Timings: true})
	found := res.Bag.ByCode(diag.ObsTimings)
	require.Len(t, found, 1)
	assert.Equal(t, diag.SevInfo, found[0].Severity)
	require.Len(t, found[0].Notes, 1)
	assert.Contains(t, found[0].Notes[0].Msg, `"phases"`)

	res = run(t, "x.c", []byte("int x;\n"), driver.Options{})
	assert.Empty(t, res.Bag.ByCode(diag.ObsTimings))
}
