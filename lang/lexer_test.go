package lang

import (
	"strings"
	"testing"
)

func tokenKinds(t *testing.T, input string) []TokenKind {
	t.Helper()

	tokens, err := Tokenize(input)
	if err != nil {
		t.Fatalf("Tokenize(%q) failed: %v", input, err)
	}

	kinds := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.Kind
	}

	return kinds
}

func TestTokenize_LetStatement(t *testing.T) {
	kinds := tokenKinds(t, `let x = 42`)

	expected := []TokenKind{
		TokenLet, TokenIdent, TokenAssign, TokenNumber, TokenEOF,
	}

	if len(kinds) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(kinds))
	}

	for i, kind := range expected {
		if kinds[i] != kind {
			t.Errorf("token %d: expected %s, got %s", i, kind, kinds[i])
		}
	}
}

func TestTokenize_Operators(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
	}{
		{"==", TokenEq},
		{"!=", TokenNe},
		{"<=", TokenLe},
		{">=", TokenGe},
		{"=>", TokenArrow},
		{"&&", TokenAnd},
		{"||", TokenOr},
		{"|", TokenPipe},
		{"=", TokenAssign},
		{"!", TokenNot},
		{"%", TokenPercent},
	}

	for _, tc := range tests {
		tokens, err := Tokenize(tc.input)
		if err != nil {
			t.Fatalf("Tokenize(%q) failed: %v", tc.input, err)
		}

		if tokens[0].Kind != tc.kind {
			t.Errorf("Tokenize(%q): expected %s, got %s",
				tc.input, tc.kind, tokens[0].Kind)
		}
	}
}

func TestTokenize_BooleansAreLiterals(t *testing.T) {
	tokens, err := Tokenize("true false")
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}

	for i := range 2 {
		if tokens[i].Kind != TokenBool {
			t.Errorf("token %d: expected boolean, got %s", i, tokens[i].Kind)
		}
	}
}

func TestTokenize_NumberLiterals(t *testing.T) {
	tokens, err := Tokenize("3.14")
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}

	if tokens[0].Kind != TokenNumber || tokens[0].Literal != "3.14" {
		t.Errorf("expected number 3.14, got %s %q",
			tokens[0].Kind, tokens[0].Literal)
	}
}

func TestTokenize_NumberFollowedByProperty(t *testing.T) {
	// The dot only begins a fraction when a digit follows it.
	tokens, err := Tokenize("1.name")
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}

	expected := []TokenKind{TokenNumber, TokenDot, TokenIdent, TokenEOF}
	for i, kind := range expected {
		if tokens[i].Kind != kind {
			t.Errorf("token %d: expected %s, got %s", i, kind, tokens[i].Kind)
		}
	}
}

func TestTokenize_StringEscapes(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"hello"`, "hello"},
		{`'single'`, "single"},
		{`"a\nb"`, "a\nb"},
		{`"a\tb"`, "a\tb"},
		{`"say \"hi\""`, `say "hi"`},
		{`"back\\slash"`, `back\slash`},
		{`"unknown \q escape"`, `unknown \q escape`},
	}

	for _, tc := range tests {
		tokens, err := Tokenize(tc.input)
		if err != nil {
			t.Fatalf("Tokenize(%q) failed: %v", tc.input, err)
		}

		if tokens[0].Literal != tc.expected {
			t.Errorf("Tokenize(%q): expected literal %q, got %q",
				tc.input, tc.expected, tokens[0].Literal)
		}
	}
}

func TestTokenize_UnterminatedString(t *testing.T) {
	_, err := Tokenize("let x = \"oops\nlet y = 1")
	if err == nil {
		t.Fatal("expected error for unterminated string")
	}

	se, ok := err.(*SyntaxError)
	if !ok {
		t.Fatalf("expected *SyntaxError, got %T", err)
	}

	if se.Line != 1 {
		t.Errorf("expected error on line 1, got %d", se.Line)
	}

	if se.Column != 9 {
		t.Errorf("expected error at column 9, got %d", se.Column)
	}
}

func TestTokenize_Comments(t *testing.T) {
	kinds := tokenKinds(t, "let x = 1 # trailing comment\n# full line\nx")

	expected := []TokenKind{
		TokenLet, TokenIdent, TokenAssign, TokenNumber, TokenNewline,
		TokenNewline, TokenIdent, TokenEOF,
	}

	if len(kinds) != len(expected) {
		t.Fatalf("expected %d tokens, got %d: %v", len(expected), len(kinds), kinds)
	}

	for i, kind := range expected {
		if kinds[i] != kind {
			t.Errorf("token %d: expected %s, got %s", i, kind, kinds[i])
		}
	}
}

func TestTokenize_Positions(t *testing.T) {
	tokens, err := Tokenize("let x = 1\nlet y = 2")
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}

	// Second "let" starts line 2, column 1.
	var second *Token

	for i := range tokens {
		if tokens[i].Kind == TokenLet && tokens[i].Line == 2 {
			second = &tokens[i]

			break
		}
	}

	if second == nil {
		t.Fatal("second let token not found on line 2")
	}

	if second.Column != 1 {
		t.Errorf("expected column 1, got %d", second.Column)
	}
}

func TestTokenize_BareAmpersand(t *testing.T) {
	_, err := Tokenize("a & b")
	if err == nil {
		t.Fatal("expected error for bare &")
	}

	if !strings.Contains(err.Error(), `"&"`) {
		t.Errorf("error should name the offending character: %v", err)
	}
}

func TestTokenize_EOFPosition(t *testing.T) {
	tokens, err := Tokenize("")
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}

	if len(tokens) != 1 || tokens[0].Kind != TokenEOF {
		t.Fatalf("expected lone EOF token, got %v", tokens)
	}
}
