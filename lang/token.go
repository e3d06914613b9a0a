package lang

// TokenKind identifies the lexical class of a token.
type TokenKind int

// Token kinds produced by the lexer.
const (
	TokenEOF TokenKind = iota
	TokenNewline
	TokenIdent
	TokenNumber
	TokenString
	TokenBool

	// Keywords
	TokenLet
	TokenFn
	TokenReturn
	TokenIf
	TokenElse
	TokenFor
	TokenWhile

	// Operators
	TokenAssign // =
	TokenArrow  // =>
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenEq // ==
	TokenNe // !=
	TokenLt
	TokenGt
	TokenLe
	TokenGe
	TokenAnd // &&
	TokenOr  // ||
	TokenNot // !
	TokenPipe

	// Punctuation
	TokenLParen
	TokenRParen
	TokenLBracket
	TokenRBracket
	TokenLBrace
	TokenRBrace
	TokenComma
	TokenDot
	TokenColon
)

// String returns a human-readable name for the token kind.
func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "EOF"
	case TokenNewline:
		return "newline"
	case TokenIdent:
		return "identifier"
	case TokenNumber:
		return "number"
	case TokenString:
		return "string"
	case TokenBool:
		return "boolean"
	case TokenLet:
		return "let"
	case TokenFn:
		return "fn"
	case TokenReturn:
		return "return"
	case TokenIf:
		return "if"
	case TokenElse:
		return "else"
	case TokenFor:
		return "for"
	case TokenWhile:
		return "while"
	case TokenAssign:
		return "="
	case TokenArrow:
		return "=>"
	case TokenPlus:
		return "+"
	case TokenMinus:
		return "-"
	case TokenStar:
		return "*"
	case TokenSlash:
		return "/"
	case TokenPercent:
		return "%"
	case TokenEq:
		return "=="
	case TokenNe:
		return "!="
	case TokenLt:
		return "<"
	case TokenGt:
		return ">"
	case TokenLe:
		return "<="
	case TokenGe:
		return ">="
	case TokenAnd:
		return "&&"
	case TokenOr:
		return "||"
	case TokenNot:
		return "!"
	case TokenPipe:
		return "|"
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	case TokenLBracket:
		return "["
	case TokenRBracket:
		return "]"
	case TokenLBrace:
		return "{"
	case TokenRBrace:
		return "}"
	case TokenComma:
		return ","
	case TokenDot:
		return "."
	case TokenColon:
		return ":"
	default:
		return "unknown"
	}
}

// Token is a lexical unit with its source position (1-based line and column).
type Token struct {
	Kind    TokenKind
	Literal string
	Line    int
	Column  int
}

// keywords maps reserved identifiers to their token kinds.
// true and false lex as TokenBool so the parser treats them as literals.
var keywords = map[string]TokenKind{
	"let":    TokenLet,
	"fn":     TokenFn,
	"return": TokenReturn,
	"if":     TokenIf,
	"else":   TokenElse,
	"for":    TokenFor,
	"while":  TokenWhile,
	"true":   TokenBool,
	"false":  TokenBool,
}
