package dialect

import (
	"testing"

	"autoinclude/internal/source"
)

func TestFromPath(t *testing.T) {
	cases := []struct {
		path string
		want Kind
		ok   bool
	}{
		{"main.c", C, true},
		{"main.cpp", CPP, true},
		{"lib/widget.hpp", CPP, true},
		{"impl.cc", CPP, true},
		{"legacy.C", CPP, true},
		{"api.h", Unknown, true},
		{"README.md", Unknown, false},
	}
	for _, tc := range cases {
		got, ok := FromPath(tc.path)
		if got != tc.want || ok != tc.ok {
			t.Errorf("FromPath(%q) = %v,%v want %v,%v", tc.path, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParse(t *testing.T) {
	for in, want := range map[string]Kind{"c": C, "C++": CPP, "cpp": CPP, "auto": Unknown, "": Unknown} {
		got, err := Parse(in)
		if err != nil || got != want {
			t.Errorf("Parse(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := Parse("rust"); err == nil {
		t.Errorf("expected error for unknown dialect")
	}
}

func TestAccepts(t *testing.T) {
	if !Both.Accepts(C) || !Both.Accepts(CPP) {
		t.Fatalf("Both must accept C and C++ files")
	}
	if C.Accepts(CPP) || CPP.Accepts(C) {
		t.Fatalf("single-dialect candidates must not cross over")
	}
}

func TestClassifierPrefersStrongestDialect(t *testing.T) {
	e := NewEvidence()
	RecordIdent(e, "restrict", source.Span{})
	RecordIdent(e, "template", source.Span{})
	RecordIdent(e, "typename", source.Span{})

	c := Classifier{}.Classify(e)
	if c.Kind != CPP || c.Score != 11 || c.RunnerUp != C || c.RunnerUpScore != 3 {
		t.Fatalf("unexpected classification %+v", c)
	}
	if c.Reason != "c++ keyword `template`" {
		t.Fatalf("unexpected reason %q", c.Reason)
	}
	if Decide(c) != CPP {
		t.Fatalf("expected CPP")
	}

	weak := NewEvidence()
	RecordIdent(weak, "new", source.Span{})
	if Decide(Classifier{}.Classify(weak)) != C {
		t.Fatalf("weak evidence must default to C")
	}
	if Decide(Classifier{}.Classify(nil)) != C {
		t.Fatalf("no evidence must default to C")
	}
}
