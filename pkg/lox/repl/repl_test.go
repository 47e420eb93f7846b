package repl

import (
	"bytes"
	"strings"
	"testing"
)

func TestHandleInput(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"print statement", "print 1 + 2;", "print (+ 1 2)\n"},
		{"expression statement", "(1);", "list (group 1)\n"},
		{"several statements", "print 1; 2;", "print 1\nlist 2\n"},
		{"bare expression", "1 + 2 * 3", "(+ 1 (* 2 3))\n"},
		{"bare string", `"hi"`, "hi\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			newSession(&out, false).handleInput(tt.input)
			if out.String() != tt.expected {
				t.Errorf("output = %q, want %q", out.String(), tt.expected)
			}
		})
	}
}

func TestHandleInputErrors(t *testing.T) {
	var out bytes.Buffer
	s := newSession(&out, false)

	s.handleInput("1 +;")
	got := out.String()
	if !strings.Contains(got, "Syntax error: line 1 at ';'") || !strings.Contains(got, "Expect expression.") {
		t.Errorf("output = %q", got)
	}

	// the next input starts clean
	out.Reset()
	s.handleInput("2;")
	if out.String() != "list 2\n" {
		t.Errorf("error leaked into next input: %q", out.String())
	}
}

func TestHandleInputRecovery(t *testing.T) {
	var out bytes.Buffer
	s := newSession(&out, true)

	s.handleInput("print 1; 2 +; print 3;")
	got := out.String()
	if !strings.HasPrefix(got, "print 1\nprint 3\n") {
		t.Errorf("expected recovered statements first, got %q", got)
	}
	if !strings.Contains(got, "Expect expression.") {
		t.Errorf("expected the diagnostic, got %q", got)
	}
}

func TestTokenMode(t *testing.T) {
	var out bytes.Buffer
	s := newSession(&out, false)
	s.handleCommand(":tokens")
	if s.prompt() != PROMPT_TOKENS {
		t.Errorf("prompt = %q", s.prompt())
	}
	out.Reset()

	s.handleInput("1 @;")
	lines := strings.Split(out.String(), "\n")
	if lines[0] != "NUMBER 1 1" || lines[1] != "SEMICOLON ;" || lines[2] != "EOF " {
		t.Errorf("token dump = %q", out.String())
	}
	if !strings.Contains(out.String(), "Lexical error: line 1") {
		t.Errorf("expected lexical error in dump, got %q", out.String())
	}

	s.handleCommand(":ast")
	if s.mode != ModeAST || s.prompt() != PROMPT {
		t.Error(":ast did not switch back")
	}
}

func TestHandleCommand(t *testing.T) {
	tests := []struct {
		cmd      string
		contains string
	}{
		{":help", "REPL Commands:"},
		{":h", ":tokens"},
		{":recover", "Error recovery ON"},
		{":bogus", "Unknown command: :bogus"},
	}

	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			var out bytes.Buffer
			newSession(&out, false).handleCommand(tt.cmd)
			if !strings.Contains(out.String(), tt.contains) {
				t.Errorf("output = %q, should contain %q", out.String(), tt.contains)
			}
		})
	}
}

func TestFilterCompletions(t *testing.T) {
	tests := []struct {
		line     string
		expected []string
	}{
		{"pr", []string{"print"}},
		{"print tr", []string{"print true"}},
		{"(fa", []string{"(false"}},
		{"f", []string{"false", "for", "fun"}},
		{":t", []string{":tokens"}},
		{"print ", nil},
		{"", nil},
		{"zz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := filterCompletions(tt.line)
			if len(got) != len(tt.expected) {
				t.Fatalf("filterCompletions(%q) = %v, want %v", tt.line, got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("filterCompletions(%q)[%d] = %q, want %q", tt.line, i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestNeedsMoreInput(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"1 + 2;", false},
		{"(1 +", true},
		{"(1 + (2)", true},
		{"(1)", false},
		{`"open`, true},
		{`"a(b"`, false},
		{"// (", false},
		{"(1 // )", true},
		{"/* ( */ 1;", false},
		{`/* " */ 1;`, false},
		{"/* /* ( */ 1;", false},
		{"1; /* open", true},
		{"(/* ) */", true},
		{"/*/ ( */", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := needsMoreInput(tt.input); got != tt.expected {
			t.Errorf("needsMoreInput(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}
