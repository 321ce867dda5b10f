package token

// Reserved says in which languages a word is a keyword.
type Reserved uint8

const (
	ReservedC Reserved = 1 << iota
	ReservedCPP
	ReservedBoth = ReservedC | ReservedCPP
)

// Words that are keywords only in C++ stay identifiers in C: bool, true,
// false, and, or, not, alignas, static_assert and friends are macros there
// and belong to <stdbool.h>, <iso646.h>, <stdalign.h> or <assert.h>.
var keywords = map[string]Reserved{
	"auto":     ReservedBoth,
	"break":    ReservedBoth,
	"case":     ReservedBoth,
	"char":     ReservedBoth,
	"const":    ReservedBoth,
	"continue": ReservedBoth,
	"default":  ReservedBoth,
	"do":       ReservedBoth,
	"double":   ReservedBoth,
	"else":     ReservedBoth,
	"enum":     ReservedBoth,
	"extern":   ReservedBoth,
	"float":    ReservedBoth,
	"for":      ReservedBoth,
	"goto":     ReservedBoth,
	"if":       ReservedBoth,
	"inline":   ReservedBoth,
	"int":      ReservedBoth,
	"long":     ReservedBoth,
	"register": ReservedBoth,
	"return":   ReservedBoth,
	"short":    ReservedBoth,
	"signed":   ReservedBoth,
	"sizeof":   ReservedBoth,
	"static":   ReservedBoth,
	"struct":   ReservedBoth,
	"switch":   ReservedBoth,
	"typedef":  ReservedBoth,
	"union":    ReservedBoth,
	"unsigned": ReservedBoth,
	"void":     ReservedBoth,
	"volatile": ReservedBoth,
	"while":    ReservedBoth,

	"restrict":       ReservedC,
	"_Alignas":       ReservedC,
	"_Alignof":       ReservedC,
	"_Atomic":        ReservedC,
	"_Bool":          ReservedC,
	"_Complex":       ReservedC,
	"_Generic":       ReservedC,
	"_Imaginary":     ReservedC,
	"_Noreturn":      ReservedC,
	"_Static_assert": ReservedC,
	"_Thread_local":  ReservedC,
	"typeof":         ReservedC,

	"alignas":          ReservedCPP,
	"alignof":          ReservedCPP,
	"and":              ReservedCPP,
	"and_eq":           ReservedCPP,
	"asm":              ReservedCPP,
	"bitand":           ReservedCPP,
	"bitor":            ReservedCPP,
	"bool":             ReservedCPP,
	"catch":            ReservedCPP,
	"char8_t":          ReservedCPP,
	"char16_t":         ReservedCPP,
	"char32_t":         ReservedCPP,
	"class":            ReservedCPP,
	"co_await":         ReservedCPP,
	"co_return":        ReservedCPP,
	"co_yield":         ReservedCPP,
	"compl":            ReservedCPP,
	"concept":          ReservedCPP,
	"const_cast":       ReservedCPP,
	"consteval":        ReservedCPP,
	"constexpr":        ReservedCPP,
	"constinit":        ReservedCPP,
	"decltype":         ReservedCPP,
	"delete":           ReservedCPP,
	"dynamic_cast":     ReservedCPP,
	"explicit":         ReservedCPP,
	"export":           ReservedCPP,
	"false":            ReservedCPP,
	"friend":           ReservedCPP,
	"mutable":          ReservedCPP,
	"namespace":        ReservedCPP,
	"new":              ReservedCPP,
	"noexcept":         ReservedCPP,
	"not":              ReservedCPP,
	"not_eq":           ReservedCPP,
	"nullptr":          ReservedCPP,
	"operator":         ReservedCPP,
	"or":               ReservedCPP,
	"or_eq":            ReservedCPP,
	"private":          ReservedCPP,
	"protected":        ReservedCPP,
	"public":           ReservedCPP,
	"reinterpret_cast": ReservedCPP,
	"requires":         ReservedCPP,
	"static_assert":    ReservedCPP,
	"static_cast":      ReservedCPP,
	"template":         ReservedCPP,
	"this":             ReservedCPP,
	"thread_local":     ReservedCPP,
	"throw":            ReservedCPP,
	"true":             ReservedCPP,
	"try":              ReservedCPP,
	"typeid":           ReservedCPP,
	"typename":         ReservedCPP,
	"using":            ReservedCPP,
	"virtual":          ReservedCPP,
	"wchar_t":          ReservedCPP,
	"xor":              ReservedCPP,
	"xor_eq":           ReservedCPP,

	// contextual, never library symbols
	"final":    ReservedCPP,
	"override": ReservedCPP,
	"import":   ReservedCPP,
	"module":   ReservedCPP,
}

// LookupKeyword reports the languages in which lexeme is reserved.
func LookupKeyword(lexeme string) (Reserved, bool) {
	r, ok := keywords[lexeme]
	return r, ok
}

// IsKeyword reports whether lexeme is reserved in C (cpp=false) or C++.
func IsKeyword(lexeme string, cpp bool) bool {
	r, ok := keywords[lexeme]
	if !ok {
		return false
	}
	if cpp {
		return r&ReservedCPP != 0
	}
	return r&ReservedC != 0
}
