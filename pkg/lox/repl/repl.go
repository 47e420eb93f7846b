package repl

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	loxerrors "github.com/sambeau/lox/pkg/lox/errors"
	"github.com/sambeau/lox/pkg/lox/lox"
	"github.com/sambeau/lox/pkg/lox/printer"
)

const PROMPT = ">> "
const PROMPT_TOKENS = "t> "
const CONTINUATION_PROMPT = ".. "

const LOX_LOGO = `
█░░ █▀█ ▀▄▀
█▄▄ █▄█ █░█ `

// Mode selects what the REPL prints for each input.
type Mode int

const (
	ModeAST    Mode = iota // parenthesized syntax tree
	ModeTokens             // one token per line
)

// Config holds REPL settings
type Config struct {
	Version     string
	HistoryFile string // empty disables history persistence
	Recovery    bool   // keep parsing after a syntax error
}

// Lox keywords and REPL commands for tab completion
var completionWords = []string{
	"and", "class", "else", "false", "for", "fun", "if", "nil", "or",
	"print", "return", "super", "this", "true", "var", "while",
	":help", ":tokens", ":ast", ":recover",
}

// Start starts the REPL with line editing, history, and tab completion
func Start(in io.Reader, out io.Writer, cfg Config) {
	line := liner.NewLiner()
	defer line.Close()

	// Enable Ctrl+C to abort current line
	line.SetCtrlCAborts(true)

	line.SetCompleter(filterCompletions)

	if cfg.HistoryFile != "" {
		if f, err := os.Open(cfg.HistoryFile); err == nil {
			line.ReadHistory(f)
			f.Close()
		}

		defer func() {
			if f, err := os.Create(cfg.HistoryFile); err == nil {
				line.WriteHistory(f)
				f.Close()
			}
		}()
	}

	fmt.Fprintf(out, "%s", LOX_LOGO)
	fmt.Fprintln(out, "v", cfg.Version)
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Type 'exit' or Ctrl+D to quit")
	fmt.Fprintln(out, "Use Tab for completion, ↑↓ for history")
	fmt.Fprintln(out, "Type ':help' for REPL commands")
	fmt.Fprintln(out, "")

	s := newSession(out, cfg.Recovery)
	var inputBuffer strings.Builder

	for {
		currentPrompt := s.prompt()
		if inputBuffer.Len() > 0 {
			currentPrompt = CONTINUATION_PROMPT
		}
		input, err := line.Prompt(currentPrompt)
		if err != nil {
			if err == liner.ErrPromptAborted {
				if inputBuffer.Len() > 0 {
					fmt.Fprintln(out, "^C (cleared)")
				} else {
					fmt.Fprintln(out, "^C")
				}
				inputBuffer.Reset()
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(out, "Error reading input: %v\n", err)
			continue
		}

		trimmed := strings.TrimSpace(input)
		if inputBuffer.Len() == 0 && (trimmed == "exit" || trimmed == "quit") {
			fmt.Fprintln(out, "Goodbye!")
			return
		}

		if inputBuffer.Len() == 0 && strings.HasPrefix(trimmed, ":") {
			s.handleCommand(trimmed)
			continue
		}

		if inputBuffer.Len() == 0 && trimmed == "" {
			continue
		}

		if inputBuffer.Len() > 0 {
			inputBuffer.WriteString("\n")
		}
		inputBuffer.WriteString(input)

		fullInput := inputBuffer.String()
		if needsMoreInput(fullInput) {
			continue
		}

		line.AppendHistory(fullInput)
		s.handleInput(fullInput)
		inputBuffer.Reset()
	}
}

// session is the state that survives between inputs. Diagnostics never do:
// every input is compiled on its own.
type session struct {
	out      io.Writer
	mode     Mode
	recovery bool
}

func newSession(out io.Writer, recovery bool) *session {
	return &session{out: out, recovery: recovery}
}

func (s *session) prompt() string {
	if s.mode == ModeTokens {
		return PROMPT_TOKENS
	}
	return PROMPT
}

// handleCommand handles REPL meta-commands that start with ':'
func (s *session) handleCommand(cmd string) {
	switch cmd {
	case ":help", ":h", ":?":
		fmt.Fprintln(s.out, "REPL Commands:")
		fmt.Fprintln(s.out, "  :help, :h, :?   Show this help")
		fmt.Fprintln(s.out, "  :tokens         Show the token stream for each input")
		fmt.Fprintln(s.out, "  :ast            Show the syntax tree for each input (default)")
		fmt.Fprintln(s.out, "  :recover        Toggle error recovery")
		fmt.Fprintln(s.out, "  exit, quit      Exit the REPL")
		fmt.Fprintln(s.out, "")
		fmt.Fprintln(s.out, "An input without a trailing ';' is shown as a bare expression.")

	case ":tokens":
		s.mode = ModeTokens
		fmt.Fprintln(s.out, "Token mode ON")

	case ":ast":
		s.mode = ModeAST
		fmt.Fprintln(s.out, "Syntax tree mode ON")

	case ":recover":
		s.recovery = !s.recovery
		if s.recovery {
			fmt.Fprintln(s.out, "Error recovery ON")
		} else {
			fmt.Fprintln(s.out, "Error recovery OFF")
		}

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type :help for commands)\n", cmd)
	}
}

// handleInput compiles one complete input and prints the result for the
// current mode.
func (s *session) handleInput(input string) {
	if s.mode == ModeTokens {
		result := lox.Compile(input)
		for _, tok := range result.Tokens {
			fmt.Fprintln(s.out, tok.String())
		}
		printErrors(s.out, result.LexErrors())
		return
	}

	result := lox.Compile(input, lox.WithRecovery(s.recovery))
	if !result.HadError {
		io.WriteString(s.out, printer.Program(result.Program))
		return
	}

	// "1 + 2" is a complete expression even without the terminator
	if !strings.HasSuffix(strings.TrimSpace(input), ";") {
		expr := lox.Compile(input, lox.AsExpression())
		if !expr.HadError {
			io.WriteString(s.out, printer.Expr(expr.Expression)+"\n")
			return
		}
	}

	if s.recovery {
		io.WriteString(s.out, printer.Program(result.Program))
	}
	printErrors(s.out, result.Errors)
}

// filterCompletions completes the last word of the line
func filterCompletions(line string) []string {
	// Don't complete if line is empty or only whitespace
	if strings.TrimSpace(line) == "" {
		return nil
	}

	// Don't complete if line ends with whitespace (including tabs from pasting)
	if line[len(line)-1] == ' ' || line[len(line)-1] == '\t' {
		return nil
	}

	start := strings.LastIndexAny(line, " \t(") + 1
	head, lastWord := line[:start], line[start:]
	if lastWord == "" {
		return nil
	}

	var matches []string
	for _, word := range completionWords {
		if strings.HasPrefix(word, lastWord) {
			matches = append(matches, head+word)
		}
	}
	return matches
}

// needsMoreInput checks if the input has unclosed parentheses, an
// unterminated string or an unclosed block comment. Lox strings may span
// lines and have no escapes; block comments do not nest.
func needsMoreInput(input string) bool {
	if strings.TrimSpace(input) == "" {
		return false
	}

	parenCount := 0
	inString := false

	for i := 0; i < len(input); i++ {
		ch := input[i]

		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch ch {
		case '/':
			// rest of the line is a comment
			if i+1 < len(input) && input[i+1] == '/' {
				for i < len(input) && input[i] != '\n' {
					i++
				}
			} else if i+1 < len(input) && input[i+1] == '*' {
				end := strings.Index(input[i+2:], "*/")
				if end < 0 {
					return true
				}
				i += 2 + end + 1
			}
		case '(':
			parenCount++
		case ')':
			parenCount--
		}
	}

	return inString || parenCount > 0
}

// printErrors prints diagnostics using the structured error format
func printErrors(out io.Writer, errs []*loxerrors.LoxError) {
	for _, err := range errs {
		io.WriteString(out, err.PrettyString())
		io.WriteString(out, "\n")
	}
}

