package lang

import (
	"strconv"
	"strings"
)

// Format renders an AST back to canonical source text. Formatting then
// reparsing yields a structurally identical tree, which makes the canonical
// form usable as a cache key and as the fmt command's output.
func Format(n *Node) string {
	var buf strings.Builder

	formatNode(&buf, n, 0)

	return buf.String()
}

func indent(buf *strings.Builder, depth int) {
	for range depth {
		buf.WriteString("  ")
	}
}

func formatNode(buf *strings.Builder, n *Node, depth int) {
	switch n.Kind {
	case NodeProgram:
		for i, stmt := range n.Children {
			if i > 0 {
				buf.WriteString("\n")
			}

			formatNode(buf, stmt, depth)
		}

	case NodeBlock:
		buf.WriteString("{\n")

		for _, stmt := range n.Children {
			indent(buf, depth+1)
			formatNode(buf, stmt, depth+1)
			buf.WriteString("\n")
		}

		indent(buf, depth)
		buf.WriteString("}")

	case NodeLet:
		buf.WriteString("let ")
		buf.WriteString(n.Text)
		buf.WriteString(" = ")
		formatExpr(buf, n.Children[0], 0, depth)

	case NodeFnDef:
		buf.WriteString("fn ")
		buf.WriteString(n.Text)
		buf.WriteString("(")
		buf.WriteString(strings.Join(n.Params, ", "))
		buf.WriteString(") ")
		formatNode(buf, &Node{Kind: NodeBlock, Children: n.Children}, depth)

	case NodeReturn:
		buf.WriteString("return")

		if len(n.Children) > 0 {
			buf.WriteString(" ")
			formatExpr(buf, n.Children[0], 0, depth)
		}

	case NodeIf:
		buf.WriteString("if ")
		formatExpr(buf, n.Children[0], 0, depth)
		buf.WriteString(" ")
		formatNode(buf, n.Children[1], depth)

		if len(n.Children) > 2 {
			buf.WriteString(" else ")
			formatNode(buf, n.Children[2], depth)
		}

	case NodeExprStmt:
		formatExpr(buf, n.Children[0], 0, depth)

	default:
		formatExpr(buf, n, 0, depth)
	}
}

// Binding strengths for expression formatting. A child rendered in a context
// requiring tighter binding than its own gets parenthesized.
const (
	precPipeline = iota + 1
	precOr
	precAnd
	precEquality
	precComparison
	precAdditive
	precTerm
	precUnary
	precPostfix
)

func binaryPrec(op string) int {
	switch op {
	case "||":
		return precOr
	case "&&":
		return precAnd
	case "==", "!=":
		return precEquality
	case "<", ">", "<=", ">=":
		return precComparison
	case "+", "-":
		return precAdditive
	default:
		return precTerm
	}
}

func formatExpr(buf *strings.Builder, n *Node, min, depth int) {
	switch n.Kind {
	case NodePipeline:
		wrap := min > precPipeline
		if wrap {
			buf.WriteString("(")
		}

		formatExpr(buf, n.Children[0], precPipeline, depth)
		buf.WriteString(" | ")
		formatExpr(buf, n.Children[1], precPipeline+1, depth)

		if wrap {
			buf.WriteString(")")
		}

	case NodeBinary:
		prec := binaryPrec(n.Text)

		wrap := min > prec
		if wrap {
			buf.WriteString("(")
		}

		formatExpr(buf, n.Children[0], prec, depth)
		buf.WriteString(" ")
		buf.WriteString(n.Text)
		buf.WriteString(" ")
		formatExpr(buf, n.Children[1], prec+1, depth)

		if wrap {
			buf.WriteString(")")
		}

	case NodeUnary:
		wrap := min > precUnary
		if wrap {
			buf.WriteString("(")
		}

		buf.WriteString(n.Text)
		formatExpr(buf, n.Children[0], precUnary, depth)

		if wrap {
			buf.WriteString(")")
		}

	case NodeCall:
		formatExpr(buf, n.Children[0], precPostfix, depth)
		buf.WriteString("(")

		for i, arg := range n.Children[1:] {
			if i > 0 {
				buf.WriteString(", ")
			}

			formatExpr(buf, arg, 0, depth)
		}

		buf.WriteString(")")

	case NodeProperty:
		formatExpr(buf, n.Children[0], precPostfix, depth)
		buf.WriteString(".")
		buf.WriteString(n.Text)

	case NodeIndex:
		formatExpr(buf, n.Children[0], precPostfix, depth)
		buf.WriteString("[")
		formatExpr(buf, n.Children[1], 0, depth)
		buf.WriteString("]")

	case NodeIdent:
		buf.WriteString(n.Text)

	case NodeNumberLit:
		buf.WriteString(strconv.FormatFloat(n.Num, 'f', -1, 64))

	case NodeStringLit:
		buf.WriteString(quoteString(n.Text))

	case NodeBoolLit:
		buf.WriteString(n.Text)

	case NodeArrayLit:
		buf.WriteString("[")

		for i, elem := range n.Children {
			if i > 0 {
				buf.WriteString(", ")
			}

			formatExpr(buf, elem, 0, depth)
		}

		buf.WriteString("]")

	case NodeObjectLit:
		if len(n.Children) == 0 {
			buf.WriteString("{}")

			return
		}

		buf.WriteString("{")

		for i, entry := range n.Children {
			if i > 0 {
				buf.WriteString(",")
			}

			buf.WriteString(" ")
			buf.WriteString(entry.Text)
			buf.WriteString(": ")
			formatExpr(buf, entry.Children[0], 0, depth)
		}

		buf.WriteString(" }")

	case NodeArrow:
		// Parenthesized so an arrow used as a pipeline stage or call
		// argument reads unambiguously.
		if len(n.Params) == 1 {
			buf.WriteString(n.Params[0])
		} else {
			buf.WriteString("(")
			buf.WriteString(strings.Join(n.Params, ", "))
			buf.WriteString(")")
		}

		buf.WriteString(" => ")
		formatExpr(buf, n.Children[0], precPipeline+1, depth)
	}
}

// quoteString renders a string literal using the language's escapes.
func quoteString(s string) string {
	var buf strings.Builder

	buf.WriteString("\"")

	for _, r := range s {
		switch r {
		case '\n':
			buf.WriteString("\\n")
		case '\t':
			buf.WriteString("\\t")
		case '\r':
			buf.WriteString("\\r")
		case '\\':
			buf.WriteString("\\\\")
		case '"':
			buf.WriteString("\\\"")
		default:
			buf.WriteRune(r)
		}
	}

	buf.WriteString("\"")

	return buf.String()
}
