package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident is an identifier or keyword; keywords are told apart by LookupKeyword.
	Ident
	// Number is a preprocessing number, including any user-defined suffix.
	Number
	// StringLit is an ordinary string literal with optional prefix and suffix.
	StringLit
	// CharLit is a character literal.
	CharLit
	// RawStringLit is a C++11 raw string literal R"delim(...)delim".
	RawStringLit
	// HeaderName is the <...> operand of an include-like directive.
	HeaderName

	// Directive is '#' plus the directive keyword at the start of a logical line.
	// Text holds the keyword alone ("include", "define", "" for a null directive).
	Directive
	// DirectiveEnd closes a directive line; it has an empty span at the newline.
	DirectiveEnd

	ColonColon // ::
	Dot        // .
	Arrow      // ->
	LParen     // (
	RParen     // )
	Hash       // # inside a directive (stringize)
	// Punct is any other operator or punctuator.
	Punct
)

var kindNames = [...]string{
	Invalid:      "Invalid",
	EOF:          "EOF",
	Ident:        "Ident",
	Number:       "Number",
	StringLit:    "StringLit",
	CharLit:      "CharLit",
	RawStringLit: "RawStringLit",
	HeaderName:   "HeaderName",
	Directive:    "Directive",
	DirectiveEnd: "DirectiveEnd",
	ColonColon:   "ColonColon",
	Dot:          "Dot",
	Arrow:        "Arrow",
	LParen:       "LParen",
	RParen:       "RParen",
	Hash:         "Hash",
	Punct:        "Punct",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsLiteral reports whether the kind is a string, char or numeric literal.
func (k Kind) IsLiteral() bool {
	switch k {
	case Number, StringLit, CharLit, RawStringLit:
		return true
	default:
		return false
	}
}
