package ast

import (
	"testing"

	"github.com/sambeau/lox/pkg/lox/lexer"
)

func minus(line int) lexer.Token {
	return lexer.Token{Type: lexer.MINUS, Lexeme: "-", Line: line}
}

func sample(line int) *Program {
	return &Program{Statements: []Stmt{
		&PrintStmt{Expression: NewBinary(
			NewUnary(minus(line), NewLiteral(1.0)),
			minus(line),
			NewGrouping(NewLiteral("x")),
		)},
		&ExpressionStmt{Expression: NewLiteral(nil)},
	}}
}

func TestWalkOrder(t *testing.T) {
	var kinds []string
	Walk(sample(1), func(n Node) bool {
		switch n.(type) {
		case *Program:
			kinds = append(kinds, "program")
		case *PrintStmt:
			kinds = append(kinds, "print")
		case *ExpressionStmt:
			kinds = append(kinds, "expr")
		case *Binary:
			kinds = append(kinds, "binary")
		case *Unary:
			kinds = append(kinds, "unary")
		case *Grouping:
			kinds = append(kinds, "group")
		case *Literal:
			kinds = append(kinds, "literal")
		}
		return true
	})

	want := []string{"program", "print", "binary", "unary", "literal", "group", "literal", "expr", "literal"}
	if len(kinds) != len(want) {
		t.Fatalf("visited %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("kinds[%d] = %s, want %s", i, kinds[i], want[i])
		}
	}
}

func TestWalkSkipsChildren(t *testing.T) {
	n := 0
	Walk(sample(1), func(node Node) bool {
		n++
		_, isBinary := node.(*Binary)
		return !isBinary
	})
	// program, print, binary, expr, literal
	if n != 5 {
		t.Errorf("visited %d nodes, want 5", n)
	}
}

func TestCount(t *testing.T) {
	if got := Count(sample(1)); got != 9 {
		t.Errorf("Count() = %d, want 9", got)
	}
	if got := Count(NewLiteral(1.0)); got != 1 {
		t.Errorf("Count(literal) = %d, want 1", got)
	}
}

func TestEqual(t *testing.T) {
	if !Equal(sample(1), sample(7)) {
		t.Error("trees differing only in line numbers should be equal")
	}

	tests := []struct {
		name string
		a, b Node
	}{
		{"literal values", NewLiteral(1.0), NewLiteral(2.0)},
		{"literal types", NewLiteral(1.0), NewLiteral("1")},
		{"grouping vs inner", NewGrouping(NewLiteral(1.0)), NewLiteral(1.0)},
		{"operators", NewUnary(minus(1), NewLiteral(1.0)), NewUnary(lexer.Token{Type: lexer.BANG, Lexeme: "!"}, NewLiteral(1.0))},
		{"statement kinds", &PrintStmt{Expression: NewLiteral(1.0)}, &ExpressionStmt{Expression: NewLiteral(1.0)}},
		{"program lengths", sample(1), &Program{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if Equal(tt.a, tt.b) {
				t.Error("expected trees to differ")
			}
		})
	}
}
