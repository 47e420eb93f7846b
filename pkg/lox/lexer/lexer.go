// Package lexer turns Lox source text into tokens.
package lexer

import (
	"strconv"
	"unicode/utf8"

	"github.com/sambeau/lox/pkg/lox/errors"
)

// Lexer represents the lexical analyzer. It is a single-pass cursor over
// the source; a Lexer scans its input once.
type Lexer struct {
	filename string
	input    string
	start    int // first byte of the lexeme being scanned
	current  int // byte under examination
	line     int // current line number

	tokens   []Token
	errs     []*errors.LoxError
	reporter errors.Reporter
}

// New creates a new lexer instance
func New(input string) *Lexer {
	return NewWithFilename(input, "")
}

// NewWithFilename creates a new lexer instance with a specific filename
func NewWithFilename(input string, filename string) *Lexer {
	return &Lexer{
		filename: filename,
		input:    input,
		line:     1,
	}
}

// WithReporter attaches a diagnostic sink that receives each lexical error
// as soon as it is found.
func (l *Lexer) WithReporter(r errors.Reporter) *Lexer {
	l.reporter = r
	return l
}

// Errors returns the lexical errors found so far, in source order.
func (l *Lexer) Errors() []*errors.LoxError {
	return l.errs
}

// ScanTokens scans the whole input and returns the tokens, always ending
// with a single EOF token. Bad characters are reported and skipped.
func (l *Lexer) ScanTokens() []Token {
	if l.tokens != nil {
		return l.tokens
	}
	l.tokens = []Token{}

	for !l.isAtEnd() {
		// beginning of the next lexeme
		l.start = l.current
		l.scanToken()
	}

	l.tokens = append(l.tokens, Token{Type: EOF, Lexeme: "", Line: l.line})
	return l.tokens
}

func (l *Lexer) scanToken() {
	ch := l.advance()

	switch ch {
	case '(':
		l.addToken(LEFT_PAREN)
	case ')':
		l.addToken(RIGHT_PAREN)
	case '{':
		l.addToken(LEFT_BRACE)
	case '}':
		l.addToken(RIGHT_BRACE)
	case ',':
		l.addToken(COMMA)
	case '.':
		l.addToken(DOT)
	case '-':
		l.addToken(MINUS)
	case '+':
		l.addToken(PLUS)
	case ';':
		l.addToken(SEMICOLON)
	case '*':
		l.addToken(STAR)
	case '!':
		l.addToken(l.pick('=', BANG_EQUAL, BANG))
	case '=':
		l.addToken(l.pick('=', EQUAL_EQUAL, EQUAL))
	case '<':
		l.addToken(l.pick('=', LESS_EQUAL, LESS))
	case '>':
		l.addToken(l.pick('=', GREATER_EQUAL, GREATER))
	case '/':
		switch {
		case l.match('/'):
			l.skipLineComment()
		case l.match('*'):
			l.skipBlockComment()
		default:
			l.addToken(SLASH)
		}
	case ' ', '\r', '\t':
	case '\n':
		l.line++
	case '"':
		l.readString()
	default:
		switch {
		case isDigit(ch):
			l.readNumber()
		case isLetter(ch):
			l.readIdentifier()
		default:
			l.unexpected(ch)
		}
	}
}

// pick consumes expected if it is next and returns two, otherwise one.
func (l *Lexer) pick(expected byte, two, one TokenType) TokenType {
	if l.match(expected) {
		return two
	}
	return one
}

// skipLineComment discards everything up to, not including, the newline.
func (l *Lexer) skipLineComment() {
	for l.peek() != '\n' && !l.isAtEnd() {
		l.advance()
	}
}

// skipBlockComment discards up to and including the first "*/". Block
// comments do not nest. An unclosed comment runs to the end of input.
func (l *Lexer) skipBlockComment() {
	for !l.isAtEnd() {
		if l.peek() == '*' && l.peekNext() == '/' {
			l.advance()
			l.advance()
			return
		}
		if l.advance() == '\n' {
			l.line++
		}
	}
}

// readString reads a double-quoted string. There are no escape sequences;
// the literal is the raw text between the quotes.
func (l *Lexer) readString() {
	for l.peek() != '"' && !l.isAtEnd() {
		if l.peek() == '\n' {
			l.line++
		}
		l.advance()
	}

	if l.isAtEnd() {
		l.addError(errors.NewAtLine("LEX-0002", l.line, nil))
		return
	}

	// closing quote
	l.advance()

	value := l.input[l.start+1 : l.current-1]
	l.addLiteralToken(STRING, value)
}

// readNumber reads digits with an optional fractional part. A trailing '.'
// not followed by a digit is left for the next token.
func (l *Lexer) readNumber() {
	l.skipDigits()

	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.advance() // consume the '.'
		l.skipDigits()
	}

	// digit runs always parse; out-of-range values decode to +Inf
	value, _ := strconv.ParseFloat(l.input[l.start:l.current], 64)
	l.addLiteralToken(NUMBER, value)
}

func (l *Lexer) skipDigits() {
	for isDigit(l.peek()) {
		l.advance()
	}
}

// readIdentifier reads an identifier or keyword.
func (l *Lexer) readIdentifier() {
	for isLetter(l.peek()) || isDigit(l.peek()) {
		l.advance()
	}
	l.addToken(LookupIdent(l.input[l.start:l.current]))
}

// unexpected reports a character that starts no token. Multi-byte UTF-8
// characters are skipped whole so they produce a single error.
func (l *Lexer) unexpected(ch byte) {
	if ch >= utf8.RuneSelf {
		r, size := utf8.DecodeRuneInString(l.input[l.start:])
		if r != utf8.RuneError {
			l.current = l.start + size
		}
	}
	// raw bytes so an invalid byte quotes as "\xff"
	char := l.input[l.start:l.current]
	l.addError(errors.NewAtLine("LEX-0001", l.line, map[string]any{"Char": char}))
}

func (l *Lexer) addError(err *errors.LoxError) {
	if l.filename != "" {
		err = err.WithFile(l.filename)
	}
	l.errs = append(l.errs, err)
	if l.reporter != nil {
		l.reporter.Report(err)
	}
}

func (l *Lexer) addToken(tokenType TokenType) {
	l.addLiteralToken(tokenType, nil)
}

func (l *Lexer) addLiteralToken(tokenType TokenType, literal any) {
	l.tokens = append(l.tokens, Token{
		Type:    tokenType,
		Lexeme:  l.input[l.start:l.current],
		Literal: literal,
		Line:    l.line,
	})
}

func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.input)
}

// advance consumes and returns the current byte
func (l *Lexer) advance() byte {
	ch := l.input[l.current]
	l.current++
	return ch
}

// match consumes the current byte only if it is expected
func (l *Lexer) match(expected byte) bool {
	if l.isAtEnd() || l.input[l.current] != expected {
		return false
	}
	l.current++
	return true
}

// peek returns the current byte without consuming it (0 at end of input)
func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.input[l.current]
}

// peekNext returns the byte after the current one (0 past end of input)
func (l *Lexer) peekNext() byte {
	if l.current+1 >= len(l.input) {
		return 0
	}
	return l.input[l.current+1]
}

// isLetter checks if a byte may start an identifier (ASCII letters and _)
func isLetter(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

// isDigit checks if the character is a digit
func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
