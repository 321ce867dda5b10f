package token

import "testing"

func TestIsKeywordIsDialectAware(t *testing.T) {
	cases := []struct {
		lexeme string
		c, cpp bool
	}{
		{"int", true, true},
		{"class", false, true},
		{"bool", false, true},
		{"and", false, true},
		{"restrict", true, false},
		{"_Bool", true, false},
		{"printf", false, false},
		{"std", false, false},
	}
	for _, tc := range cases {
		if got := IsKeyword(tc.lexeme, false); got != tc.c {
			t.Errorf("IsKeyword(%q, C) = %v, want %v", tc.lexeme, got, tc.c)
		}
		if got := IsKeyword(tc.lexeme, true); got != tc.cpp {
			t.Errorf("IsKeyword(%q, C++) = %v, want %v", tc.lexeme, got, tc.cpp)
		}
	}
}

func TestBodyStripsDelimiters(t *testing.T) {
	cases := []struct {
		tok  Token
		want string
	}{
		{Token{Kind: StringLit, Text: `"abc"`}, "abc"},
		{Token{Kind: StringLit, Text: `u8"abc"sv`, Prefix: "u8", Suffix: "sv"}, "abc"},
		{Token{Kind: CharLit, Text: `L'x'`, Prefix: "L"}, "x"},
		{Token{Kind: HeaderName, Text: "<stdio.h>"}, "stdio.h"},
		{Token{Kind: RawStringLit, Text: `R"xy(a "b" c)xy"`, Prefix: "R"}, `a "b" c`},
		{Token{Kind: StringLit, Text: `"abc`, Flags: FlagUnterminated}, "abc"},
	}
	for _, tc := range cases {
		if got := tc.tok.Body(); got != tc.want {
			t.Errorf("Body(%s) = %q, want %q", tc.tok.Text, got, tc.want)
		}
	}
}
