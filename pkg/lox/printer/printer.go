// Package printer renders syntax trees in a fully parenthesized prefix form,
// e.g. '(* (group (+ 1 2)) 3)'. The output is used to check tree structure.
package printer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sambeau/lox/pkg/lox/ast"
)

// Statement markers
const (
	PrintMarker      = "print "
	ExpressionMarker = "list "
)

// Printer accumulates rendered output
type Printer struct {
	output strings.Builder
}

// NewPrinter creates a new Printer instance
func NewPrinter() *Printer {
	return &Printer{}
}

// String returns the rendered output
func (p *Printer) String() string {
	return p.output.String()
}

// Reset clears the printer for reuse
func (p *Printer) Reset() {
	p.output.Reset()
}

// Expr renders an expression.
func Expr(expr ast.Expr) string {
	p := NewPrinter()
	p.expr(expr)
	return p.String()
}

// Stmt renders a statement.
func Stmt(stmt ast.Stmt) string {
	p := NewPrinter()
	p.stmt(stmt)
	return p.String()
}

// Program renders every statement, one per line.
func Program(program *ast.Program) string {
	p := NewPrinter()
	for _, stmt := range program.Statements {
		p.stmt(stmt)
		p.output.WriteString("\n")
	}
	return p.String()
}

func (p *Printer) stmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.ExpressionStmt:
		p.output.WriteString(ExpressionMarker)
		p.expr(s.Expression)
	case *ast.PrintStmt:
		p.output.WriteString(PrintMarker)
		p.expr(s.Expression)
	default:
		panic(fmt.Sprintf("printer: unknown statement %T", stmt))
	}
}

func (p *Printer) expr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Binary:
		p.parenthesize(e.Operator.Lexeme, e.Left, e.Right)
	case *ast.Unary:
		p.parenthesize(e.Operator.Lexeme, e.Right)
	case *ast.Grouping:
		p.parenthesize("group", e.Expression)
	case *ast.Literal:
		p.output.WriteString(FormatValue(e.Value))
	default:
		panic(fmt.Sprintf("printer: unknown expression %T", expr))
	}
}

func (p *Printer) parenthesize(name string, exprs ...ast.Expr) {
	p.output.WriteString("(")
	p.output.WriteString(name)
	for _, expr := range exprs {
		p.output.WriteString(" ")
		p.expr(expr)
	}
	p.output.WriteString(")")
}

// FormatValue renders a literal value: nil as "nil", integral numbers
// without a fractional part, strings as their raw text.
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "nil"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
