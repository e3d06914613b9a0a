package lang

import (
	"strconv"
	"strings"
)

// parser consumes a token stream with one token of lookahead and produces an
// AST rooted at a NodeProgram.
type parser struct {
	source string
	tokens []Token
	pos    int
}

// Parse parses a complete program.
func Parse(source string) (*Node, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, attachSource(err, source)
	}

	p := &parser{source: source, tokens: tokens}

	prog, err := p.parseProgram()
	if err != nil {
		return nil, attachSource(err, source)
	}

	return prog, nil
}

// ParseExpression parses a single expression, requiring that it consumes the
// entire input.
func ParseExpression(source string) (*Node, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, attachSource(err, source)
	}

	p := &parser{source: source, tokens: tokens}
	p.skipNewlines()

	expr, err := p.parseExpr()
	if err != nil {
		return nil, attachSource(err, source)
	}

	p.skipNewlines()

	if tok := p.peek(); tok.Kind != TokenEOF {
		return nil, attachSource(p.fail(tok, "unexpected %s after expression", tok.Kind), source)
	}

	return expr, nil
}

// Incomplete reports whether source looks like the prefix of a longer program,
// so an interactive reader should keep accepting lines. It is advisory only:
// a false result does not guarantee the source parses.
func Incomplete(source string) bool {
	trimmed := strings.TrimRight(source, " \t\r\n")
	if trimmed == "" {
		return false
	}

	if strings.HasSuffix(trimmed, "{") {
		return true
	}

	first, _, _ := strings.Cut(strings.TrimLeft(trimmed, " \t"), " ")
	switch first {
	case "fn", "if", "for", "while":
	default:
		return false
	}

	tokens, err := Tokenize(source)
	if err != nil {
		return false
	}

	depth := 0
	for _, tok := range tokens {
		switch tok.Kind {
		case TokenLBrace:
			depth++
		case TokenRBrace:
			depth--
		}
	}

	return depth > 0
}

func attachSource(err error, source string) error {
	if se, ok := err.(*SyntaxError); ok {
		se.Source = source
	}

	return err
}

func (p *parser) peek() Token { return p.tokens[p.pos] }

func (p *parser) at(kind TokenKind) bool { return p.tokens[p.pos].Kind == kind }

func (p *parser) advance() Token {
	tok := p.tokens[p.pos]
	if tok.Kind != TokenEOF {
		p.pos++
	}

	return tok
}

func (p *parser) expect(kind TokenKind) (Token, error) {
	tok := p.peek()
	if tok.Kind != kind {
		return tok, p.fail(tok, "expected %s, found %s", kind, describe(tok))
	}

	return p.advance(), nil
}

func (p *parser) fail(tok Token, format string, args ...any) error {
	return syntaxErr(tok.Line, tok.Column, format, args...)
}

func (p *parser) skipNewlines() {
	for p.at(TokenNewline) {
		p.advance()
	}
}

// describe renders a token for error messages.
func describe(tok Token) string {
	switch tok.Kind {
	case TokenEOF:
		return "end of input"
	case TokenNewline:
		return "end of line"
	case TokenIdent, TokenNumber, TokenBool:
		return tok.Kind.String() + " " + strconv.Quote(tok.Literal)
	case TokenString:
		return "string literal"
	default:
		return strconv.Quote(tok.Literal)
	}
}

func (p *parser) parseProgram() (*Node, error) {
	prog := &Node{Kind: NodeProgram, Line: 1, Column: 1}

	p.skipNewlines()

	for !p.at(TokenEOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		prog.Children = append(prog.Children, stmt)

		if err := p.endStatement(); err != nil {
			return nil, err
		}
	}

	return prog, nil
}

// endStatement consumes the statement terminator: one or more newlines, or
// lookahead at EOF or a closing brace.
func (p *parser) endStatement() error {
	switch p.peek().Kind {
	case TokenNewline:
		p.skipNewlines()

		return nil
	case TokenEOF, TokenRBrace:
		return nil
	}

	tok := p.peek()

	return p.fail(tok, "expected end of statement, found %s", describe(tok))
}

func (p *parser) parseStatement() (*Node, error) {
	switch p.peek().Kind {
	case TokenLet:
		return p.parseLet()
	case TokenFn:
		return p.parseFnDef()
	case TokenReturn:
		return p.parseReturn()
	case TokenIf:
		return p.parseIf()
	case TokenFor, TokenWhile:
		tok := p.peek()

		return nil, p.fail(tok, "%q is reserved", tok.Literal)
	}

	tok := p.peek()

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return (&Node{Kind: NodeExprStmt, Children: []*Node{expr}}).at(tok), nil
}

func (p *parser) parseLet() (*Node, error) {
	kw := p.advance() // let

	name, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenAssign); err != nil {
		return nil, err
	}

	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return (&Node{
		Kind:     NodeLet,
		Text:     name.Literal,
		Children: []*Node{value},
	}).at(kw), nil
}

func (p *parser) parseFnDef() (*Node, error) {
	kw := p.advance() // fn

	name, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenLParen); err != nil {
		return nil, err
	}

	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return (&Node{
		Kind:     NodeFnDef,
		Text:     name.Literal,
		Params:   params,
		Children: body.Children,
	}).at(kw), nil
}

// parseParams parses a comma-separated identifier list up to and including the
// closing paren. The opening paren has already been consumed.
func (p *parser) parseParams() ([]string, error) {
	params := []string{}

	p.skipNewlines()

	if p.at(TokenRParen) {
		p.advance()

		return params, nil
	}

	for {
		name, err := p.expect(TokenIdent)
		if err != nil {
			return nil, err
		}

		params = append(params, name.Literal)

		p.skipNewlines()

		if p.at(TokenComma) {
			p.advance()
			p.skipNewlines()

			continue
		}

		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}

		return params, nil
	}
}

// parseBlock parses `{ statement* }` into a NodeBlock.
func (p *parser) parseBlock() (*Node, error) {
	open, err := p.expect(TokenLBrace)
	if err != nil {
		return nil, err
	}

	block := (&Node{Kind: NodeBlock}).at(open)

	p.skipNewlines()

	for !p.at(TokenRBrace) {
		if p.at(TokenEOF) {
			return nil, p.fail(p.peek(), "expected \"}\", found end of input")
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		block.Children = append(block.Children, stmt)

		if err := p.endStatement(); err != nil {
			return nil, err
		}
	}

	p.advance() // }

	return block, nil
}

func (p *parser) parseReturn() (*Node, error) {
	kw := p.advance() // return

	ret := (&Node{Kind: NodeReturn}).at(kw)

	switch p.peek().Kind {
	case TokenNewline, TokenEOF, TokenRBrace:
		return ret, nil
	}

	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	ret.Children = []*Node{value}

	return ret, nil
}

func (p *parser) parseIf() (*Node, error) {
	kw := p.advance() // if

	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	node := (&Node{Kind: NodeIf, Children: []*Node{cond, then}}).at(kw)

	if !p.at(TokenElse) {
		return node, nil
	}

	p.advance() // else

	// "else if" chains nest: the else branch is a block holding the next if.
	if p.at(TokenIf) {
		chained, err := p.parseIf()
		if err != nil {
			return nil, err
		}

		wrap := (&Node{Kind: NodeBlock, Children: []*Node{chained}}).at(kw)
		node.Children = append(node.Children, wrap)

		return node, nil
	}

	alt, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	node.Children = append(node.Children, alt)

	return node, nil
}

// Expression grammar, loosest to tightest binding:
//
//	expr        := pipeline
//	pipeline    := logicalOr ("|" logicalOr)*
//	logicalOr   := logicalAnd ("||" logicalAnd)*
//	logicalAnd  := equality ("&&" equality)*
//	equality    := comparison (("==" | "!=") comparison)*
//	comparison  := additive (("<" | ">" | "<=" | ">=") additive)*
//	additive    := term (("+" | "-") term)*
//	term        := unary (("*" | "/" | "%") unary)*
//	unary       := ("!" | "-") unary | postfix
//	postfix     := primary ("(" args ")" | "." IDENT | "[" expr "]")*
func (p *parser) parseExpr() (*Node, error) {
	return p.parsePipeline()
}

func (p *parser) parsePipeline() (*Node, error) {
	left, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}

	for p.at(TokenPipe) {
		tok := p.advance()

		right, err := p.parseBinary(0)
		if err != nil {
			return nil, err
		}

		left = (&Node{
			Kind:     NodePipeline,
			Children: []*Node{left, right},
		}).at(tok)
	}

	return left, nil
}

// binaryLevels orders binary operators from loosest to tightest binding.
// All levels are left-associative.
var binaryLevels = [][]TokenKind{
	{TokenOr},
	{TokenAnd},
	{TokenEq, TokenNe},
	{TokenLt, TokenGt, TokenLe, TokenGe},
	{TokenPlus, TokenMinus},
	{TokenStar, TokenSlash, TokenPercent},
}

func (p *parser) parseBinary(level int) (*Node, error) {
	if level >= len(binaryLevels) {
		return p.parseUnary()
	}

	left, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()

		matched := false
		for _, kind := range binaryLevels[level] {
			if tok.Kind == kind {
				matched = true

				break
			}
		}

		if !matched {
			return left, nil
		}

		p.advance()

		right, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}

		left = (&Node{
			Kind:     NodeBinary,
			Text:     tok.Literal,
			Children: []*Node{left, right},
		}).at(tok)
	}
}

func (p *parser) parseUnary() (*Node, error) {
	tok := p.peek()
	if tok.Kind == TokenNot || tok.Kind == TokenMinus {
		p.advance()

		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return (&Node{
			Kind:     NodeUnary,
			Text:     tok.Literal,
			Children: []*Node{operand},
		}).at(tok), nil
	}

	return p.parsePostfix()
}

func (p *parser) parsePostfix() (*Node, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		switch p.peek().Kind {
		case TokenLParen:
			tok := p.advance()

			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}

			expr = (&Node{
				Kind:     NodeCall,
				Children: append([]*Node{expr}, args...),
			}).at(tok)

		case TokenDot:
			tok := p.advance()

			name, err := p.expect(TokenIdent)
			if err != nil {
				return nil, err
			}

			expr = (&Node{
				Kind:     NodeProperty,
				Text:     name.Literal,
				Children: []*Node{expr},
			}).at(tok)

		case TokenLBracket:
			tok := p.advance()
			p.skipNewlines()

			index, err := p.parseExpr()
			if err != nil {
				return nil, err
			}

			p.skipNewlines()

			if _, err := p.expect(TokenRBracket); err != nil {
				return nil, err
			}

			expr = (&Node{
				Kind:     NodeIndex,
				Children: []*Node{expr, index},
			}).at(tok)

		default:
			return expr, nil
		}
	}
}

// parseArgs parses a comma-separated expression list up to and including the
// closing paren. The opening paren has already been consumed.
func (p *parser) parseArgs() ([]*Node, error) {
	p.skipNewlines()

	if p.at(TokenRParen) {
		p.advance()

		return nil, nil
	}

	var args []*Node

	for {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		args = append(args, arg)

		p.skipNewlines()

		if p.at(TokenComma) {
			p.advance()
			p.skipNewlines()

			continue
		}

		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}

		return args, nil
	}
}

func (p *parser) parsePrimary() (*Node, error) {
	tok := p.peek()

	switch tok.Kind {
	case TokenNumber:
		p.advance()

		num, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, p.fail(tok, "invalid number %q", tok.Literal)
		}

		return (&Node{Kind: NodeNumberLit, Text: tok.Literal, Num: num}).at(tok), nil

	case TokenString:
		p.advance()

		return (&Node{Kind: NodeStringLit, Text: tok.Literal}).at(tok), nil

	case TokenBool:
		p.advance()

		return (&Node{
			Kind: NodeBoolLit,
			Text: tok.Literal,
			Bool: tok.Literal == "true",
		}).at(tok), nil

	case TokenIdent:
		// One token of lookahead distinguishes `x => expr` from a bare
		// identifier.
		if p.tokens[p.pos+1].Kind == TokenArrow {
			return p.parseArrow()
		}

		p.advance()

		return (&Node{Kind: NodeIdent, Text: tok.Literal}).at(tok), nil

	case TokenLParen:
		if p.atArrowParams() {
			return p.parseArrow()
		}

		p.advance()
		p.skipNewlines()

		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		p.skipNewlines()

		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}

		return expr, nil

	case TokenLBracket:
		return p.parseArrayLit()

	case TokenLBrace:
		return p.parseObjectLit()
	}

	return nil, p.fail(tok, "unexpected %s", describe(tok))
}

// atArrowParams scans ahead for `( IDENT ("," IDENT)* ) =>` or `( ) =>`
// without consuming tokens.
func (p *parser) atArrowParams() bool {
	i := p.pos + 1 // Past "("

	for {
		switch p.tokens[i].Kind {
		case TokenIdent:
			i++

			switch p.tokens[i].Kind {
			case TokenComma:
				i++
			case TokenRParen:
				return p.tokens[i+1].Kind == TokenArrow
			default:
				return false
			}
		case TokenRParen:
			return p.tokens[i+1].Kind == TokenArrow
		default:
			return false
		}
	}
}

// parseArrow parses `x => expr` or `(a, b) => expr`.
func (p *parser) parseArrow() (*Node, error) {
	tok := p.peek()

	var params []string

	if tok.Kind == TokenIdent {
		p.advance()
		params = []string{tok.Literal}
	} else {
		p.advance() // (

		var err error

		params, err = p.parseParams()
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(TokenArrow); err != nil {
		return nil, err
	}

	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return (&Node{
		Kind:     NodeArrow,
		Params:   params,
		Children: []*Node{body},
	}).at(tok), nil
}

func (p *parser) parseArrayLit() (*Node, error) {
	open := p.advance() // [

	arr := (&Node{Kind: NodeArrayLit}).at(open)

	p.skipNewlines()

	if p.at(TokenRBracket) {
		p.advance()

		return arr, nil
	}

	for {
		elem, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		arr.Children = append(arr.Children, elem)

		p.skipNewlines()

		if p.at(TokenComma) {
			p.advance()
			p.skipNewlines()

			continue
		}

		if _, err := p.expect(TokenRBracket); err != nil {
			return nil, err
		}

		return arr, nil
	}
}

// parseObjectLit parses `{ key: expr, ... }`. Keys are identifiers or string
// literals.
func (p *parser) parseObjectLit() (*Node, error) {
	open := p.advance() // {

	obj := (&Node{Kind: NodeObjectLit}).at(open)

	p.skipNewlines()

	if p.at(TokenRBrace) {
		p.advance()

		return obj, nil
	}

	for {
		key := p.peek()
		if key.Kind != TokenIdent && key.Kind != TokenString {
			return nil, p.fail(key, "expected object key, found %s", describe(key))
		}

		p.advance()

		if _, err := p.expect(TokenColon); err != nil {
			return nil, err
		}

		p.skipNewlines()

		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		entry := (&Node{
			Kind:     NodeEntry,
			Text:     key.Literal,
			Children: []*Node{value},
		}).at(key)
		obj.Children = append(obj.Children, entry)

		p.skipNewlines()

		if p.at(TokenComma) {
			p.advance()
			p.skipNewlines()

			continue
		}

		if _, err := p.expect(TokenRBrace); err != nil {
			return nil, err
		}

		return obj, nil
	}
}
