// Package parser builds a syntax tree from scanned tokens.
//
// The grammar, lowest precedence first:
//
//	program    → statement* EOF
//	statement  → "print" expression ";" | expression ";"
//	expression → equality
//	equality   → comparison ( ( "!=" | "==" ) comparison )*
//	comparison → term ( ( ">" | ">=" | "<" | "<=" ) term )*
//	term       → factor ( ( "-" | "+" ) factor )*
//	factor     → unary ( ( "/" | "*" ) unary )*
//	unary      → ( "!" | "-" ) unary | primary
//	primary    → NUMBER | STRING | "true" | "false" | "nil" | "(" expression ")"
//
// Each rule is one method that calls the methods of the tighter rules.
// Binary tiers fold left, so 'a - b - c' is '(a - b) - c'.
package parser

import (
	"errors"
	"fmt"

	"github.com/sambeau/lox/pkg/lox/ast"
	loxerrors "github.com/sambeau/lox/pkg/lox/errors"
	"github.com/sambeau/lox/pkg/lox/lexer"
)

// Parser represents the parser
type Parser struct {
	tokens  []lexer.Token
	current int

	filename string
	reporter loxerrors.Reporter
	recovery bool

	errs []*loxerrors.LoxError
}

// Option configures a Parser.
type Option func(*Parser)

// WithReporter sends each structural error to r as it is found.
func WithReporter(r loxerrors.Reporter) Option {
	return func(p *Parser) { p.reporter = r }
}

// WithFilename tags errors with the source file name.
func WithFilename(filename string) Option {
	return func(p *Parser) { p.filename = filename }
}

// WithRecovery makes the parser skip to the next statement after an error
// instead of abandoning the whole program.
func WithRecovery() Option {
	return func(p *Parser) { p.recovery = true }
}

// New creates a parser over tokens. The slice is only read. A missing
// trailing EOF token is supplied.
func New(tokens []lexer.Token, opts ...Option) *Parser {
	if n := len(tokens); n == 0 || tokens[n-1].Type != lexer.EOF {
		line := 1
		if n > 0 {
			line = tokens[n-1].Line
		}
		tokens = append(tokens[:n:n], lexer.Token{Type: lexer.EOF, Line: line})
	}

	p := &Parser{tokens: tokens}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Errors returns every structural error recorded so far.
func (p *Parser) Errors() []*loxerrors.LoxError {
	return p.errs
}

// ParseProgram parses the whole token sequence.
//
// By default the first structural error abandons the parse: the result is an
// empty program and that error. With WithRecovery the result holds every
// statement that parsed cleanly and the error joins all recorded errors.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	program := &ast.Program{Statements: []ast.Stmt{}}

	for !p.isAtEnd() {
		stmt, err := p.parseStatement()
		if err != nil {
			if !p.recovery {
				return &ast.Program{Statements: []ast.Stmt{}}, err
			}
			p.synchronize()
			continue
		}
		program.Statements = append(program.Statements, stmt)
	}

	return program, p.joinedErrors()
}

// ParseExpression parses a single expression that must span all tokens.
func (p *Parser) ParseExpression() (ast.Expr, error) {
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if !p.isAtEnd() {
		return nil, p.error(p.peek(), "PARSE-0003", nil)
	}
	return expr, nil
}

func (p *Parser) joinedErrors() error {
	switch len(p.errs) {
	case 0:
		return nil
	case 1:
		return p.errs[0]
	}
	errs := make([]error, len(p.errs))
	for i, err := range p.errs {
		errs[i] = err
	}
	return errors.Join(errs...)
}

// parseStatement parses statements
func (p *Parser) parseStatement() (ast.Stmt, error) {
	if p.match(lexer.PRINT) {
		return p.parsePrintStatement()
	}
	return p.parseExpressionStatement()
}

func (p *Parser) parsePrintStatement() (ast.Stmt, error) {
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.SEMICOLON, "value"); err != nil {
		return nil, err
	}
	return &ast.PrintStmt{Expression: value}, nil
}

func (p *Parser) parseExpressionStatement() (ast.Stmt, error) {
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.SEMICOLON, "value"); err != nil {
		return nil, err
	}
	return &ast.ExpressionStmt{Expression: value}, nil
}

func (p *Parser) parseExpression() (ast.Expr, error) {
	return p.parseEquality()
}

func (p *Parser) parseEquality() (ast.Expr, error) {
	return p.parseBinary(p.parseComparison, lexer.BANG_EQUAL, lexer.EQUAL_EQUAL)
}

func (p *Parser) parseComparison() (ast.Expr, error) {
	return p.parseBinary(p.parseTerm, lexer.GREATER, lexer.GREATER_EQUAL, lexer.LESS, lexer.LESS_EQUAL)
}

func (p *Parser) parseTerm() (ast.Expr, error) {
	return p.parseBinary(p.parseFactor, lexer.MINUS, lexer.PLUS)
}

func (p *Parser) parseFactor() (ast.Expr, error) {
	return p.parseBinary(p.parseUnary, lexer.SLASH, lexer.STAR)
}

// parseBinary parses one left-associative tier: an operand followed by any
// number of operator/operand pairs, each folded into a new Binary node.
func (p *Parser) parseBinary(operand func() (ast.Expr, error), operators ...lexer.TokenType) (ast.Expr, error) {
	expr, err := operand()
	if err != nil {
		return nil, err
	}

	for p.match(operators...) {
		operator := p.previous()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		expr = ast.NewBinary(expr, operator, right)
	}

	return expr, nil
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	if p.match(lexer.BANG, lexer.MINUS) {
		operator := p.previous()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnary(operator, right), nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	switch {
	case p.match(lexer.FALSE):
		return ast.NewLiteral(false), nil
	case p.match(lexer.TRUE):
		return ast.NewLiteral(true), nil
	case p.match(lexer.NIL):
		return ast.NewLiteral(nil), nil
	case p.match(lexer.NUMBER, lexer.STRING):
		return ast.NewLiteral(p.previous().Literal), nil
	case p.match(lexer.LEFT_PAREN):
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(lexer.RIGHT_PAREN, "expression"); err != nil {
			return nil, err
		}
		return ast.NewGrouping(expr), nil
	}

	return nil, p.error(p.peek(), "PARSE-0002", nil)
}

// synchronize discards tokens until a likely statement boundary: just past
// a ';' or at a keyword that starts a statement.
func (p *Parser) synchronize() {
	p.advance()

	for !p.isAtEnd() {
		if p.previous().Type == lexer.SEMICOLON {
			return
		}

		switch p.peek().Type {
		case lexer.CLASS, lexer.FUN, lexer.VAR, lexer.FOR, lexer.IF,
			lexer.WHILE, lexer.PRINT, lexer.RETURN:
			return
		}

		p.advance()
	}
}

// consume advances past the expected token or fails with
// "Expect '<token>' after <after>."
func (p *Parser) consume(t lexer.TokenType, after string) (lexer.Token, error) {
	if p.check(t) {
		return p.advance(), nil
	}
	return lexer.Token{}, p.error(p.peek(), "PARSE-0001", map[string]any{
		"Expected": tokenTypeToSymbol(t),
		"After":    after,
	})
}

// error records and reports a structural error at tok.
func (p *Parser) error(tok lexer.Token, code string, data map[string]any) *loxerrors.LoxError {
	err := loxerrors.NewAtLine(code, tok.Line, data)
	err.Where = where(tok)
	err.File = p.filename

	if tok.Type == lexer.IDENTIFIER {
		if suggestion := loxerrors.FindClosestMatch(tok.Lexeme, loxerrors.Keywords); suggestion != "" {
			err.Hints = append(err.Hints, "Did you mean `"+suggestion+"`?")
		}
	}

	p.errs = append(p.errs, err)
	if p.reporter != nil {
		p.reporter.Report(err)
	}
	return err
}

// where locates an error for the report: " at end" or " at 'lexeme'".
func where(tok lexer.Token) string {
	if tok.Type == lexer.EOF {
		return " at end"
	}
	return fmt.Sprintf(" at '%s'", tok.Lexeme)
}

// Helper functions
func (p *Parser) match(types ...lexer.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(t lexer.TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == t
}

func (p *Parser) advance() lexer.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == lexer.EOF
}

func (p *Parser) peek() lexer.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() lexer.Token {
	if p.current == 0 {
		return lexer.Token{}
	}
	return p.tokens[p.current-1]
}

// tokenTypeToSymbol returns the source spelling used in messages
func tokenTypeToSymbol(t lexer.TokenType) string {
	switch t {
	case lexer.SEMICOLON:
		return ";"
	case lexer.RIGHT_PAREN:
		return ")"
	case lexer.LEFT_PAREN:
		return "("
	default:
		return t.String()
	}
}
