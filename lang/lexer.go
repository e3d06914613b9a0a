package lang

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// lexer converts source text into a token stream.
// Position tracking is 1-based for both line and column.
type lexer struct {
	input string
	pos   int // Byte offset of next rune
	line  int
	col   int
}

func newLexer(input string) *lexer {
	return &lexer{input: input, line: 1, col: 1}
}

// Tokenize scans the entire input and returns its tokens, terminated by an
// EOF token. The first lexical error aborts the scan.
func Tokenize(input string) ([]Token, error) {
	lx := newLexer(input)

	var tokens []Token

	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}

		tokens = append(tokens, tok)

		if tok.Kind == TokenEOF {
			return tokens, nil
		}
	}
}

func (l *lexer) eof() bool { return l.pos >= len(l.input) }

func (l *lexer) peek() rune {
	if l.eof() {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])

	return r
}

func (l *lexer) peekAt(offset int) rune {
	pos := l.pos
	for range offset {
		if pos >= len(l.input) {
			return 0
		}

		_, size := utf8.DecodeRuneInString(l.input[pos:])
		pos += size
	}

	if pos >= len(l.input) {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(l.input[pos:])

	return r
}

func (l *lexer) advance() rune {
	if l.eof() {
		return 0
	}

	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size

	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}

	return r
}

// skipBlanks consumes spaces, tabs, carriage returns, and comments.
// Newlines are significant and left for next() to tokenize.
func (l *lexer) skipBlanks() {
	for !l.eof() {
		switch l.peek() {
		case ' ', '\t', '\r':
			l.advance()
		case '#':
			for !l.eof() && l.peek() != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *lexer) next() (Token, error) {
	l.skipBlanks()

	line, col := l.line, l.col

	if l.eof() {
		return Token{Kind: TokenEOF, Line: line, Column: col}, nil
	}

	r := l.peek()

	switch {
	case r == '\n':
		l.advance()

		return Token{Kind: TokenNewline, Literal: "\n", Line: line, Column: col}, nil

	case unicode.IsLetter(r) || r == '_':
		return l.scanIdent(), nil

	case unicode.IsDigit(r):
		return l.scanNumber(), nil

	case r == '"' || r == '\'':
		return l.scanString()
	}

	return l.scanOperator()
}

func (l *lexer) scanIdent() Token {
	line, col := l.line, l.col
	start := l.pos

	for !l.eof() {
		r := l.peek()
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}

		l.advance()
	}

	lit := l.input[start:l.pos]

	kind := TokenIdent
	if kw, ok := keywords[lit]; ok {
		kind = kw
	}

	return Token{Kind: kind, Literal: lit, Line: line, Column: col}
}

func (l *lexer) scanNumber() Token {
	line, col := l.line, l.col
	start := l.pos

	for !l.eof() && unicode.IsDigit(l.peek()) {
		l.advance()
	}

	// A fractional part requires a digit after the dot, so that "1.name"
	// still lexes as a property access on the literal 1.
	if l.peek() == '.' && unicode.IsDigit(l.peekAt(1)) {
		l.advance()

		for !l.eof() && unicode.IsDigit(l.peek()) {
			l.advance()
		}
	}

	return Token{
		Kind:    TokenNumber,
		Literal: l.input[start:l.pos],
		Line:    line,
		Column:  col,
	}
}

func (l *lexer) scanString() (Token, error) {
	line, col := l.line, l.col
	quote := l.advance()

	var buf strings.Builder

	for {
		if l.eof() || l.peek() == '\n' {
			return Token{}, syntaxErr(line, col, "unterminated string")
		}

		r := l.advance()

		if r == quote {
			return Token{
				Kind:    TokenString,
				Literal: buf.String(),
				Line:    line,
				Column:  col,
			}, nil
		}

		if r != '\\' {
			buf.WriteRune(r)

			continue
		}

		if l.eof() {
			return Token{}, syntaxErr(line, col, "unterminated string")
		}

		esc := l.advance()
		switch esc {
		case 'n':
			buf.WriteRune('\n')
		case 't':
			buf.WriteRune('\t')
		case 'r':
			buf.WriteRune('\r')
		case '\\':
			buf.WriteRune('\\')
		case '\'', '"':
			buf.WriteRune(esc)
		default:
			// Unknown escapes pass through verbatim.
			buf.WriteRune('\\')
			buf.WriteRune(esc)
		}
	}
}

func (l *lexer) scanOperator() (Token, error) {
	line, col := l.line, l.col
	r := l.advance()

	tok := func(kind TokenKind, lit string) (Token, error) {
		return Token{Kind: kind, Literal: lit, Line: line, Column: col}, nil
	}

	// follow consumes the next rune when it matches want.
	follow := func(want rune) bool {
		if l.peek() == want {
			l.advance()

			return true
		}

		return false
	}

	switch r {
	case '+':
		return tok(TokenPlus, "+")
	case '-':
		return tok(TokenMinus, "-")
	case '*':
		return tok(TokenStar, "*")
	case '/':
		return tok(TokenSlash, "/")
	case '%':
		return tok(TokenPercent, "%")
	case '=':
		if follow('=') {
			return tok(TokenEq, "==")
		}

		if follow('>') {
			return tok(TokenArrow, "=>")
		}

		return tok(TokenAssign, "=")
	case '!':
		if follow('=') {
			return tok(TokenNe, "!=")
		}

		return tok(TokenNot, "!")
	case '<':
		if follow('=') {
			return tok(TokenLe, "<=")
		}

		return tok(TokenLt, "<")
	case '>':
		if follow('=') {
			return tok(TokenGe, ">=")
		}

		return tok(TokenGt, ">")
	case '&':
		if follow('&') {
			return tok(TokenAnd, "&&")
		}

		return Token{}, syntaxErr(line, col, "unexpected character %q", "&")
	case '|':
		if follow('|') {
			return tok(TokenOr, "||")
		}

		return tok(TokenPipe, "|")
	case '(':
		return tok(TokenLParen, "(")
	case ')':
		return tok(TokenRParen, ")")
	case '[':
		return tok(TokenLBracket, "[")
	case ']':
		return tok(TokenRBracket, "]")
	case '{':
		return tok(TokenLBrace, "{")
	case '}':
		return tok(TokenRBrace, "}")
	case ',':
		return tok(TokenComma, ",")
	case '.':
		return tok(TokenDot, ".")
	case ':':
		return tok(TokenColon, ":")
	}

	return Token{}, syntaxErr(line, col, "unexpected character %q", string(r))
}
