package lexer

import (
	"fmt"
)

// TokenType represents different types of tokens
type TokenType int

const (
	// Single-character tokens
	LEFT_PAREN  TokenType = iota // (
	RIGHT_PAREN                  // )
	LEFT_BRACE                   // {
	RIGHT_BRACE                  // }
	COMMA                        // ,
	DOT                          // .
	MINUS                        // -
	PLUS                         // +
	SEMICOLON                    // ;
	SLASH                        // /
	STAR                         // *

	// One or two character tokens
	BANG          // !
	BANG_EQUAL    // !=
	EQUAL         // =
	EQUAL_EQUAL   // ==
	GREATER       // >
	GREATER_EQUAL // >=
	LESS          // <
	LESS_EQUAL    // <=

	// Literals
	IDENTIFIER // foo, _bar, x1
	STRING     // "text"
	NUMBER     // 12, 3.25

	// Keywords
	AND
	CLASS
	ELSE
	FALSE
	FUN
	FOR
	IF
	NIL
	OR
	PRINT
	RETURN
	SUPER
	THIS
	TRUE
	VAR
	WHILE

	EOF
)

var tokenNames = [...]string{
	LEFT_PAREN:    "LEFT_PAREN",
	RIGHT_PAREN:   "RIGHT_PAREN",
	LEFT_BRACE:    "LEFT_BRACE",
	RIGHT_BRACE:   "RIGHT_BRACE",
	COMMA:         "COMMA",
	DOT:           "DOT",
	MINUS:         "MINUS",
	PLUS:          "PLUS",
	SEMICOLON:     "SEMICOLON",
	SLASH:         "SLASH",
	STAR:          "STAR",
	BANG:          "BANG",
	BANG_EQUAL:    "BANG_EQUAL",
	EQUAL:         "EQUAL",
	EQUAL_EQUAL:   "EQUAL_EQUAL",
	GREATER:       "GREATER",
	GREATER_EQUAL: "GREATER_EQUAL",
	LESS:          "LESS",
	LESS_EQUAL:    "LESS_EQUAL",
	IDENTIFIER:    "IDENTIFIER",
	STRING:        "STRING",
	NUMBER:        "NUMBER",
	AND:           "AND",
	CLASS:         "CLASS",
	ELSE:          "ELSE",
	FALSE:         "FALSE",
	FUN:           "FUN",
	FOR:           "FOR",
	IF:            "IF",
	NIL:           "NIL",
	OR:            "OR",
	PRINT:         "PRINT",
	RETURN:        "RETURN",
	SUPER:         "SUPER",
	THIS:          "THIS",
	TRUE:          "TRUE",
	VAR:           "VAR",
	WHILE:         "WHILE",
	EOF:           "EOF",
}

// String returns a string representation of the token type
func (tt TokenType) String() string {
	if tt >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return "UNKNOWN"
}

// MarshalText lets token dumps (JSON and YAML) show the type by name.
func (tt TokenType) MarshalText() ([]byte, error) {
	return []byte(tt.String()), nil
}

// Keywords map for identifying language keywords
var keywords = map[string]TokenType{
	"and":    AND,
	"class":  CLASS,
	"else":   ELSE,
	"false":  FALSE,
	"for":    FOR,
	"fun":    FUN,
	"if":     IF,
	"nil":    NIL,
	"or":     OR,
	"print":  PRINT,
	"return": RETURN,
	"super":  SUPER,
	"this":   THIS,
	"true":   TRUE,
	"var":    VAR,
	"while":  WHILE,
}

// LookupIdent checks if an identifier is a keyword
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENTIFIER
}

// Token represents a single scanned lexeme. Tokens are values and are never
// modified after the scanner produces them.
type Token struct {
	Type    TokenType `json:"type" yaml:"type"`
	Lexeme  string    `json:"lexeme" yaml:"lexeme"`
	Literal any       `json:"literal,omitempty" yaml:"literal,omitempty"` // float64 for NUMBER, string for STRING
	Line    int       `json:"line" yaml:"line"`
}

// String returns a string representation of the token
func (t Token) String() string {
	if t.Literal == nil {
		return fmt.Sprintf("%s %s", t.Type, t.Lexeme)
	}
	return fmt.Sprintf("%s %s %v", t.Type, t.Lexeme, t.Literal)
}
