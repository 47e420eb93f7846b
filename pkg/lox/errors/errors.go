// Package errors provides structured diagnostics for the Lox front end.
//
// This package defines LoxError, the error type produced by both the scanner
// and the parser, a small catalog of message templates, and the Reporter sink
// that receives diagnostics as they are found.
package errors

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ErrorClass categorizes errors for filtering and display.
type ErrorClass string

const (
	ClassLex   ErrorClass = "lex"   // Scanner errors
	ClassParse ErrorClass = "parse" // Structural errors
)

// LoxError represents any error from scanning or parsing.
type LoxError struct {
	Class   ErrorClass     `json:"class"`           // Error category
	Code    string         `json:"code"`            // Error code (e.g., "PARSE-0001")
	Message string         `json:"message"`         // Human-readable message
	Hints   []string       `json:"hints,omitempty"` // Suggestions for fixing
	Line    int            `json:"line"`            // 1-based line (0 if unknown)
	Where   string         `json:"where,omitempty"` // " at end", " at 'x'" or empty
	File    string         `json:"file,omitempty"`  // File path (if known)
	Data    map[string]any `json:"data,omitempty"`  // Template variables
}

// Error implements the error interface.
func (e *LoxError) Error() string {
	return e.String()
}

// String renders the classic one-line report: "[line 3] Error at ';': message".
func (e *LoxError) String() string {
	var sb strings.Builder

	if e.File != "" {
		sb.WriteString(e.File)
		sb.WriteString(": ")
	}
	fmt.Fprintf(&sb, "[line %d] Error%s: %s", e.Line, e.Where, e.Message)

	for _, hint := range e.Hints {
		sb.WriteString("\n  ")
		sb.WriteString(hint)
	}

	return sb.String()
}

// PrettyString returns a multi-line formatted string for display.
func (e *LoxError) PrettyString() string {
	var sb strings.Builder

	switch e.Class {
	case ClassLex:
		sb.WriteString("Lexical error")
	default:
		sb.WriteString("Syntax error")
	}

	if e.File != "" {
		sb.WriteString(":\n  in: ")
		sb.WriteString(e.File)
		if e.Line > 0 {
			fmt.Fprintf(&sb, "\n  at: line %d%s", e.Line, e.Where)
		}
		sb.WriteString("\n  ")
	} else if e.Line > 0 {
		fmt.Fprintf(&sb, ": line %d%s\n  ", e.Line, e.Where)
	} else {
		sb.WriteString(":\n  ")
	}

	sb.WriteString(e.Message)

	for _, hint := range e.Hints {
		sb.WriteString("\n  hint: ")
		sb.WriteString(hint)
	}

	return sb.String()
}

// ToJSON returns the error as JSON bytes.
func (e *LoxError) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// WithFile returns a copy of the error with the file path set.
func (e *LoxError) WithFile(file string) *LoxError {
	copy := *e
	copy.File = file
	return &copy
}

// IsParseError returns true if this is a structural error.
func (e *LoxError) IsParseError() bool {
	return e.Class == ClassParse
}

// IsLexError returns true if this is a scanner error.
func (e *LoxError) IsLexError() bool {
	return e.Class == ClassLex
}
