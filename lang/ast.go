package lang

// NodeKind identifies the syntactic class of an AST node.
type NodeKind int

// AST node kinds produced by the parser.
const (
	NodeProgram NodeKind = iota
	NodeBlock
	NodeLet
	NodeFnDef
	NodeReturn
	NodeIf
	NodeExprStmt
	NodePipeline
	NodeBinary
	NodeUnary
	NodeCall
	NodeProperty
	NodeIndex
	NodeIdent
	NodeStringLit
	NodeNumberLit
	NodeBoolLit
	NodeArrayLit
	NodeObjectLit
	NodeEntry
	NodeArrow
)

// String returns a human-readable name for the node kind.
func (k NodeKind) String() string {
	switch k {
	case NodeProgram:
		return "program"
	case NodeBlock:
		return "block"
	case NodeLet:
		return "let"
	case NodeFnDef:
		return "fn"
	case NodeReturn:
		return "return"
	case NodeIf:
		return "if"
	case NodeExprStmt:
		return "expression statement"
	case NodePipeline:
		return "pipeline"
	case NodeBinary:
		return "binary expression"
	case NodeUnary:
		return "unary expression"
	case NodeCall:
		return "call"
	case NodeProperty:
		return "property access"
	case NodeIndex:
		return "index expression"
	case NodeIdent:
		return "identifier"
	case NodeStringLit:
		return "string literal"
	case NodeNumberLit:
		return "number literal"
	case NodeBoolLit:
		return "boolean literal"
	case NodeArrayLit:
		return "array literal"
	case NodeObjectLit:
		return "object literal"
	case NodeEntry:
		return "object entry"
	case NodeArrow:
		return "arrow function"
	default:
		return "unknown"
	}
}

// Node is a parse tree node. Nodes are immutable after parsing; the evaluator
// walks them without modification, so a parsed program may be cached and
// shared.
//
// The payload fields used depend on Kind:
//
//   - Text:   identifier and property names, string literals, operators
//   - Num:    number literal value (Text keeps the raw spelling)
//   - Bool:   boolean literal value
//   - Params: parameter names for fn definitions and arrow functions
//
// Children are ordered by evaluation:
//
//   - Let:      [value]
//   - FnDef:    body statements
//   - Return:   [value] or empty
//   - If:       [condition, then block] or [condition, then block, else block]
//   - Pipeline: [upstream, stage]
//   - Binary:   [left, right]
//   - Unary:    [operand]
//   - Call:     [callee, args...]
//   - Property: [receiver]
//   - Index:    [receiver, index]
//   - Array:    elements
//   - Object:   entries (each an Entry whose Text is the key)
//   - Entry:    [value]
//   - Arrow:    [body expression]
type Node struct {
	Kind     NodeKind
	Text     string
	Num      float64
	Bool     bool
	Params   []string
	Children []*Node
	Line     int
	Column   int
}

// at stamps a source position on the node and returns it.
func (n *Node) at(tok Token) *Node {
	n.Line, n.Column = tok.Line, tok.Column

	return n
}
