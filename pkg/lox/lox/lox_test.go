package lox

import (
	"bytes"
	"strings"
	"testing"
	"time"

	loxerrors "github.com/sambeau/lox/pkg/lox/errors"
	"github.com/sambeau/lox/pkg/lox/lexer"
	"github.com/sambeau/lox/pkg/lox/printer"
)

func TestCompileValidProgram(t *testing.T) {
	result := Compile("print 1 + 2;\n(3);")

	if result.HadError {
		t.Fatalf("unexpected errors: %v", result.Err())
	}
	if result.Err() != nil {
		t.Errorf("Err() = %v, want nil", result.Err())
	}
	if got := printer.Program(result.Program); got != "print (+ 1 2)\nlist (group 3)\n" {
		t.Errorf("rendered = %q", got)
	}
	if last := result.Tokens[len(result.Tokens)-1]; last.Type != lexer.EOF {
		t.Errorf("last token = %s", last.Type)
	}
}

func TestCompileMissingTerminator(t *testing.T) {
	result := Compile("1 + 2")

	if !result.HadError {
		t.Fatal("HadError = false")
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(result.Errors))
	}
	if len(result.Program.Statements) != 0 {
		t.Errorf("expected empty program, got %d statements", len(result.Program.Statements))
	}
}

func TestCompileParsesAfterLexErrors(t *testing.T) {
	result := Compile("print 1 @ + 2;")

	if !result.HadError {
		t.Fatal("HadError = false")
	}
	if n := len(result.LexErrors()); n != 1 {
		t.Errorf("expected 1 lexical error, got %d", n)
	}
	// '@' is dropped from the stream so the rest still parses
	if got := printer.Program(result.Program); got != "print (+ 1 2)\n" {
		t.Errorf("rendered = %q", got)
	}
}

func TestCompileUnterminatedString(t *testing.T) {
	result := Compile(`"abc`)

	if len(result.Errors) < 1 || result.Errors[0].Message != "Unterminated string." {
		t.Fatalf("errors = %v", result.Errors)
	}
	if n := len(result.LexErrors()); n != 1 {
		t.Errorf("expected exactly 1 lexical error, got %d", n)
	}
	if len(result.Tokens) != 1 || result.Tokens[0].Type != lexer.EOF {
		t.Errorf("tokens = %v", result.Tokens)
	}
}

func TestCompileDoesNotLeakState(t *testing.T) {
	reporter := loxerrors.NewCollector()

	bad := Compile("1 +", WithReporter(reporter))
	if !bad.HadError || !reporter.HadError() {
		t.Fatal("expected the first run to fail")
	}

	good := Compile("1;", WithReporter(reporter))
	if good.HadError {
		t.Error("error flag leaked into the second run")
	}
	if reporter.HadError() {
		t.Error("shared reporter was not reset")
	}
}

func TestCompileWithRecovery(t *testing.T) {
	result := Compile("1 +;\nprint 2;\n)", WithRecovery(true))

	if len(result.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(result.Errors), result.Err())
	}
	if got := printer.Program(result.Program); got != "print 2\n" {
		t.Errorf("rendered = %q", got)
	}
}

func TestCompileAsExpression(t *testing.T) {
	result := Compile("-(1 + 2)", AsExpression())
	if result.HadError {
		t.Fatalf("unexpected errors: %v", result.Err())
	}
	if result.Program != nil {
		t.Error("Program should be nil in expression mode")
	}
	if got := printer.Expr(result.Expression); got != "(- (group (+ 1 2)))" {
		t.Errorf("rendered = %q", got)
	}
}

func TestCompileWithFilename(t *testing.T) {
	result := Compile("1", WithFilename("demo.lox"))
	if len(result.Errors) != 1 || result.Errors[0].File != "demo.lox" {
		t.Fatalf("errors = %v", result.Errors)
	}
	if !strings.HasPrefix(result.Err().Error(), "demo.lox: [line 1]") {
		t.Errorf("Err() = %q", result.Err())
	}
}

func TestCompileLogsStages(t *testing.T) {
	logger := NewBufferedLogger()
	Compile("print 1;", WithLogger(logger))

	lines := logger.Lines()
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %v", lines)
	}
	if !strings.HasPrefix(lines[0], "scanned 4 tokens") {
		t.Errorf("scan line = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "parsed 1 statements, 3 nodes") {
		t.Errorf("parse line = %q", lines[1])
	}
}

func TestWriterReporterReceivesDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	Compile("print ;", WithReporter(loxerrors.NewReporter(&buf)))

	if got := buf.String(); got != "[line 1] Error at ';': Expect expression.\n" {
		t.Errorf("reported %q", got)
	}
}

func TestBufferedLogger(t *testing.T) {
	l := NewBufferedLogger()
	l.Log("a", 1)
	l.LogLine("b")
	l.Log("tail")

	if got := l.String(); got != "a 1b\ntail" {
		t.Errorf("String() = %q", got)
	}
	l.Reset()
	if l.String() != "" {
		t.Error("Reset did not clear")
	}
}

func TestWriterLogger(t *testing.T) {
	var buf bytes.Buffer
	l := WriterLogger(&buf)
	l.LogLine("x", 2)
	if buf.String() != "x 2\n" {
		t.Errorf("output = %q", buf.String())
	}
	NullLogger().LogLine("ignored")
}

func TestPrefixLogger(t *testing.T) {
	var buf bytes.Buffer
	l := PrefixLogger(&buf, "lox: ")
	l.Log("a")
	l.LogLine("b")
	l.LogLine("c")
	if buf.String() != "lox: ab\nlox: c\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestFormatLogValues(t *testing.T) {
	tests := []struct {
		values   []any
		expected string
	}{
		{nil, ""},
		{[]any{"parsed", 3, "nodes"}, "parsed 3 nodes"},
		{[]any{1500 * time.Nanosecond}, "2µs"},
		{[]any{2.50}, "2.5"},
	}
	for _, tt := range tests {
		if got := formatLogValues(tt.values...); got != tt.expected {
			t.Errorf("formatLogValues(%v) = %q, want %q", tt.values, got, tt.expected)
		}
	}
}
