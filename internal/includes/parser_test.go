package includes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoinclude/internal/diag"
	"autoinclude/internal/dialect"
	"autoinclude/internal/includes"
	"autoinclude/internal/lexer"
	"autoinclude/internal/source"
)

func parse(t *testing.T, src string) (*includes.Result, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.c", []byte(src)))
	toks := lexer.Tokenize(file, lexer.Options{Dialect: dialect.CPP})
	bag := diag.NewBag(0)
	return includes.Parse(file, toks, diag.BagReporter{Bag: bag}), bag
}

func paths(res *includes.Result) []string {
	out := make([]string, 0, len(res.Directives))
	for _, d := range res.Directives {
		out = append(out, d.Spelling())
	}
	return out
}

func TestParseForms(t *testing.T) {
	src := `#include <stdio.h>
  #  include "local.h" // trailing comment
#include<stdlib.h>/* inline */
#include_next <string.h>
#include \
    <math.h>
`
	res, bag := parse(t, src)
	assert.Equal(t, 0, bag.Len())
	assert.Equal(t, []string{"<stdio.h>", `"local.h"`, "<stdlib.h>", "<string.h>", "<math.h>"}, paths(res))

	last := res.Directives[4]
	assert.Equal(t, 4, last.LineStart)
	assert.Equal(t, 5, last.LineEnd)
	assert.Equal(t, "#include \\\n    <math.h>", last.RawText)
	assert.Equal(t, "include_next", res.Directives[3].Keyword)

	assert.True(t, res.Present("stdio.h"))
	assert.True(t, res.Present("<stdio.h>"))
	assert.True(t, res.Present(` "local.h" `))
	assert.False(t, res.Present("STDIO.H"))
}

func TestParseIgnoresCommentsAndStrings(t *testing.T) {
	src := `/*
#include <hidden.h>
*/
// #include <also_hidden.h>
const char *s = "#include <nope.h>";
auto r = R"(
#include <raw.h>
)";
`
	res, _ := parse(t, src)
	assert.Empty(t, res.Directives)
	_, ok := res.AnchorBlock()
	assert.False(t, ok)
}

func TestParseMalformed(t *testing.T) {
	src := `#include
#include <stdio.h
#include "unterminated
#include foo.h
#include <a.h> junk
#include <>
#include <ok.h>
`
	res, bag := parse(t, src)
	assert.Equal(t, []string{"<ok.h>"}, paths(res))
	assert.Equal(t, 6, res.Malformed)
	assert.Equal(t, 6, len(bag.ByCode(diag.IncMalformedDirective)))
	assert.False(t, res.Present("stdio.h"))
	assert.False(t, res.Present("a.h"))

	// malformed lines stay part of the block
	b, ok := res.AnchorBlock()
	require.True(t, ok)
	assert.Equal(t, 0, b.Start)
	assert.Equal(t, 6, b.End)
}

func TestParseComputedInclude(t *testing.T) {
	res, bag := parse(t, "#define HDR <stdio.h>\n#include HDR\n")
	assert.Empty(t, res.Directives)
	assert.Equal(t, 0, res.Malformed)
	require.Len(t, bag.ByCode(diag.IncComputedInclude), 1)
	assert.Equal(t, diag.SevInfo, bag.Items()[0].Severity)
}

func TestParseConditionalUnits(t *testing.T) {
	src := `#include <stdio.h>
#ifdef _WIN32
#include <windows.h>
#else
#include <unistd.h>
#endif
#include <stdlib.h>

int main(void) { return 0; }
`
	res, _ := parse(t, src)
	require.Len(t, res.Directives, 4)
	assert.False(t, res.Directives[0].Conditional)
	assert.True(t, res.Directives[1].Conditional)
	assert.True(t, res.Directives[2].Conditional)
	assert.False(t, res.Directives[3].Conditional)
	assert.True(t, res.Present("windows.h"))

	b, ok := res.AnchorBlock()
	require.True(t, ok)
	assert.Equal(t, 0, b.Start)
	assert.Equal(t, 6, b.End)
	assert.Equal(t, 6, b.LastUnconditional)
	assert.Equal(t, []int{0, 1, 2, 3}, b.Directives)
}

func TestParseConditionalWithCodeBreaksBlock(t *testing.T) {
	src := `#include <stdio.h>
#ifdef DEBUG
static int debug = 1;
#include <assert.h>
#endif
`
	res, _ := parse(t, src)
	require.Len(t, res.Blocks, 1)
	assert.Equal(t, 0, res.Blocks[0].End)
	assert.True(t, res.Present("assert.h"))
}

func TestParseOnlyConditionalBlock(t *testing.T) {
	src := `#if HAVE_CONFIG_H
#include "config.h"
#endif

int x;
`
	res, _ := parse(t, src)
	require.Len(t, res.Blocks, 1)
	assert.False(t, res.Blocks[0].HasUnconditional())
	_, ok := res.AnchorBlock()
	assert.False(t, ok)
}

func TestParseBlocksAndLeadingComment(t *testing.T) {
	src := `/* file header */

// system headers
#include <stdio.h>

#include <stdlib.h>


#include "far.h"
int main(void);
`
	res, _ := parse(t, src)
	require.Len(t, res.Blocks, 2)

	first := res.Blocks[0]
	assert.Equal(t, 2, first.Start, "the comment directly above belongs to the block")
	assert.Equal(t, 5, first.End)
	assert.Equal(t, 5, first.LastUnconditional)

	second := res.Blocks[1]
	assert.Equal(t, 8, second.Start)
	assert.Equal(t, 8, second.End)

	b, ok := res.AnchorBlock()
	require.True(t, ok)
	assert.Equal(t, first, b)
}

func TestParseIncludeGuard(t *testing.T) {
	src := `// widget.h
#ifndef WIDGET_H
#define WIDGET_H

#include <stddef.h>

size_t widget_count(void);

#endif
`
	res, bag := parse(t, src)
	require.NotNil(t, res.Guard)
	assert.Equal(t, "WIDGET_H", res.Guard.Macro)
	assert.Equal(t, 1, res.Guard.IfLine)
	assert.Equal(t, 2, res.Guard.DefineLine)
	assert.Equal(t, 8, res.Guard.EndifLine)
	require.Len(t, res.Directives, 1)
	assert.False(t, res.Directives[0].Conditional)
	assert.Equal(t, 0, bag.Len())
}

func TestParseIfNotDefinedGuard(t *testing.T) {
	src := "#if !defined(X_H)\n#define X_H\nint x;\n#endif\n"
	res, _ := parse(t, src)
	require.NotNil(t, res.Guard)
	assert.Equal(t, "X_H", res.Guard.Macro)
	assert.Equal(t, 2, res.TopInsertion())
}

func TestParseNotAGuardWhenCodeFollows(t *testing.T) {
	src := "#ifndef X\n#define X\n#include <a.h>\n#endif\nint after;\n"
	res, _ := parse(t, src)
	assert.Nil(t, res.Guard)
	require.Len(t, res.Directives, 1)
	assert.True(t, res.Directives[0].Conditional)
}

func TestParseUnbalancedConditionals(t *testing.T) {
	_, bag := parse(t, "#endif\n#else\n#if A\n")
	assert.Len(t, bag.ByCode(diag.IncUnbalancedConditional), 2)
	assert.Len(t, bag.ByCode(diag.IncUnterminatedConditional), 1)
}

func TestTopInsertion(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want int
	}{
		{"empty", "", 0},
		{"code first", "int x;\n", 0},
		{"block comment header", "/* license\n * text\n */\n\nint x;\n", 4},
		{"line comments", "// a\n// b\nint x;\n", 2},
		{"shebang", "#!/usr/bin/env tcc -run\nint main(void){}\n", 1},
		{"pragma once", "// h\n#pragma once\n\nint f(void);\n", 3},
		{"pragma once no blank", "#pragma once\nint f(void);\n", 1},
		{"guard", "#ifndef A_H\n#define A_H\nint f(void);\n#endif\n", 2},
		{"guard with blank", "#ifndef A_H\n#define A_H\n\nint f(void);\n#endif\n", 3},
		{"define first", "#define N 3\nint a[N];\n", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, _ := parse(t, tc.src)
			assert.Equal(t, tc.want, res.TopInsertion())
		})
	}
}

func TestLineQueries(t *testing.T) {
	res, _ := parse(t, "// c\n\n#include <a.h>\nint x;\n")
	assert.Equal(t, 4, res.LineCount())
	assert.True(t, res.IsCommentOnly(0))
	assert.True(t, res.IsBlank(1))
	assert.False(t, res.IsCode(2))
	assert.True(t, res.IsCode(3))
	assert.True(t, res.IsBlank(10))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "stdio.h", includes.Normalize("<stdio.h>"))
	assert.Equal(t, "a/b.h", includes.Normalize(` "a/b.h" `))
	assert.Equal(t, "x.h", includes.Normalize("< x.h >"))
	assert.Equal(t, "Foo.H", includes.Normalize("Foo.H"))
}
