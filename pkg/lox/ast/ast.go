// Package ast defines the syntax tree produced by the parser.
//
// Expressions and statements are closed sets: the marker methods are
// unexported, so only the node types in this file satisfy Expr and Stmt.
// Consumers dispatch with a type switch over the variants. Nodes are built
// bottom up from finished children and are never modified afterwards.
package ast

import (
	"github.com/sambeau/lox/pkg/lox/lexer"
)

// Node represents any node in the AST
type Node interface {
	node()
}

// Expr represents expression nodes
type Expr interface {
	Node
	exprNode()
}

// Stmt represents statement nodes
type Stmt interface {
	Node
	stmtNode()
}

// Program represents the root node of every AST
type Program struct {
	Statements []Stmt
}

func (p *Program) node() {}

// Binary represents an infix operation like 'a + b'
type Binary struct {
	Left     Expr
	Operator lexer.Token
	Right    Expr
}

func (b *Binary) node()     {}
func (b *Binary) exprNode() {}

// Unary represents a prefix operation like '-a' or '!a'
type Unary struct {
	Operator lexer.Token
	Right    Expr
}

func (u *Unary) node()     {}
func (u *Unary) exprNode() {}

// Grouping represents a parenthesized expression. It is kept in the tree so
// that the source structure round-trips.
type Grouping struct {
	Expression Expr
}

func (g *Grouping) node()     {}
func (g *Grouping) exprNode() {}

// Literal holds a decoded scalar: float64, string, bool, or nil for 'nil'.
type Literal struct {
	Value any
}

func (l *Literal) node()     {}
func (l *Literal) exprNode() {}

// ExpressionStmt is an expression evaluated for effect, like '1 + 2;'
type ExpressionStmt struct {
	Expression Expr
}

func (s *ExpressionStmt) node()     {}
func (s *ExpressionStmt) stmtNode() {}

// PrintStmt outputs the value of its expression, like 'print 1;'
type PrintStmt struct {
	Expression Expr
}

func (s *PrintStmt) node()     {}
func (s *PrintStmt) stmtNode() {}

func NewBinary(left Expr, operator lexer.Token, right Expr) *Binary {
	return &Binary{Left: left, Operator: operator, Right: right}
}

func NewUnary(operator lexer.Token, right Expr) *Unary {
	return &Unary{Operator: operator, Right: right}
}

func NewGrouping(expression Expr) *Grouping {
	return &Grouping{Expression: expression}
}

func NewLiteral(value any) *Literal {
	return &Literal{Value: value}
}

// Walk traverses the tree rooted at node in pre-order. If fn returns false
// the children of that node are skipped.
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}

	switch n := node.(type) {
	case *Program:
		for _, stmt := range n.Statements {
			Walk(stmt, fn)
		}
	case *ExpressionStmt:
		Walk(n.Expression, fn)
	case *PrintStmt:
		Walk(n.Expression, fn)
	case *Binary:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *Unary:
		Walk(n.Right, fn)
	case *Grouping:
		Walk(n.Expression, fn)
	case *Literal:
	}
}

// Count returns the number of nodes in the tree, the root included.
func Count(node Node) int {
	n := 0
	Walk(node, func(Node) bool {
		n++
		return true
	})
	return n
}

// Equal reports whether two trees have the same shape, operators and
// literal values. Token line numbers are ignored.
func Equal(a, b Node) bool {
	switch x := a.(type) {
	case *Program:
		y, ok := b.(*Program)
		if !ok || len(x.Statements) != len(y.Statements) {
			return false
		}
		for i := range x.Statements {
			if !Equal(x.Statements[i], y.Statements[i]) {
				return false
			}
		}
		return true
	case *ExpressionStmt:
		y, ok := b.(*ExpressionStmt)
		return ok && Equal(x.Expression, y.Expression)
	case *PrintStmt:
		y, ok := b.(*PrintStmt)
		return ok && Equal(x.Expression, y.Expression)
	case *Binary:
		y, ok := b.(*Binary)
		return ok && sameOperator(x.Operator, y.Operator) &&
			Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case *Unary:
		y, ok := b.(*Unary)
		return ok && sameOperator(x.Operator, y.Operator) && Equal(x.Right, y.Right)
	case *Grouping:
		y, ok := b.(*Grouping)
		return ok && Equal(x.Expression, y.Expression)
	case *Literal:
		y, ok := b.(*Literal)
		return ok && x.Value == y.Value
	case nil:
		return b == nil
	}
	return false
}

func sameOperator(a, b lexer.Token) bool {
	return a.Type == b.Type && a.Lexeme == b.Lexeme
}
