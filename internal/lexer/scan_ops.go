package lexer

import (
	"autoinclude/internal/token"
)

// Жадность: сначала 3-символьные, затем 2-символьные, затем 1-символьные.
var operators = []string{
	"<<=", ">>=", "...", "->*", "<=>",
	"::", "->", "++", "--", "<<", ">>", "<=", ">=", "==", "!=", "&&", "||",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "##", ".*",
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	emit := func(k token.Kind) token.Token {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{
			Kind: k,
			Span: sp,
			Text: string(lx.file.Content[sp.Start:sp.End]),
		}
	}

	for _, op := range operators {
		if !lx.tryOp(op) {
			continue
		}
		switch op {
		case "::":
			return emit(token.ColonColon)
		case "->":
			return emit(token.Arrow)
		default:
			return emit(token.Punct)
		}
	}

	switch lx.cursor.Bump() {
	case '.':
		return emit(token.Dot)
	case '(':
		return emit(token.LParen)
	case ')':
		return emit(token.RParen)
	case '#':
		if lx.inDirective {
			return emit(token.Hash)
		}
		return emit(token.Punct)
	default:
		return emit(token.Punct)
	}
}
