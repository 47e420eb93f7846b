package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sambeau/lox/pkg/lox/ast"
	"github.com/sambeau/lox/pkg/lox/lexer"
	"github.com/sambeau/lox/pkg/lox/lox"
	"github.com/sambeau/lox/pkg/lox/printer"
	"github.com/sambeau/lox/pkg/lox/repl"
	"github.com/sambeau/lox/pkg/lox/source"
	"github.com/sambeau/lox/pkg/lox/watch"
)

func (a *app) newTokensCmd() *cobra.Command {
	var (
		code   string
		format string
	)

	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the token stream",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") {
				format = a.cfg.Output
			}

			text, name, err := a.readInput(args, code)
			if err != nil {
				return err
			}

			reporter := a.reporter()
			tokens := lexer.NewWithFilename(text, name).WithReporter(reporter).ScanTokens()
			a.logger.LogLine("scanned", humanize.Comma(int64(len(tokens))), "tokens")

			if err := writeTokens(a.stdout, tokens, format); err != nil {
				return err
			}
			if reporter.HadError() {
				return errDiagnostics
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&code, "eval", "e", "", "Scan a code string instead of a file")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json, or yaml")
	return cmd
}

func (a *app) newASTCmd() *cobra.Command {
	var (
		code       string
		recovery   bool
		expression bool
	)

	cmd := &cobra.Command{
		Use:   "ast [file]",
		Short: "Print the parenthesized syntax tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("recover") {
				recovery = a.cfg.Recovery
			}
			return a.printTree(args, code, recovery, expression)
		},
	}

	cmd.Flags().StringVarP(&code, "eval", "e", "", "Parse a code string instead of a file")
	cmd.Flags().BoolVar(&recovery, "recover", false, "Keep parsing after a syntax error")
	cmd.Flags().BoolVar(&expression, "expr", false, "Parse the input as a single expression")
	return cmd
}

func (a *app) printTree(args []string, code string, recovery, expression bool) error {
	text, name, err := a.readInput(args, code)
	if err != nil {
		return err
	}

	opts := []lox.Option{lox.WithRecovery(recovery)}
	if expression {
		opts = append(opts, lox.AsExpression())
	}
	result := a.compile(text, name, opts...)

	switch {
	case expression:
		if result.Expression != nil {
			fmt.Fprintln(a.stdout, printer.Expr(result.Expression))
		}
	default:
		fmt.Fprint(a.stdout, printer.Program(result.Program))
	}

	if result.HadError {
		return errDiagnostics
	}
	return nil
}

func (a *app) newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check file...",
		Short: "Check files for lexical and syntax errors",
		Long: `check scans and parses each file and prints every diagnostic.
It exits with status 1 if any file has errors and 2 if a file cannot be read.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.checkFiles(args)
		},
	}
}

func (a *app) checkFiles(files []string) error {
	errorCount, badFiles := 0, 0

	for _, path := range files {
		text, name, err := a.readInput([]string{path}, "")
		if err != nil {
			return &exitError{code: 2, err: err}
		}

		result := a.compile(text, name, lox.WithRecovery(true))
		if result.HadError {
			errorCount += len(result.Errors)
			badFiles++
		}
	}

	if errorCount > 0 {
		fmt.Fprintf(a.stderr, "%s in %s\n",
			english.Plural(errorCount, "error", "errors"),
			english.Plural(badFiles, "file", "files"))
		return errDiagnostics
	}

	a.logger.LogLine("checked", english.Plural(len(files), "file", "files"))
	return nil
}

func (a *app) newREPLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start the interactive prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.startREPL()
		},
	}
}

func (a *app) startREPL() error {
	repl.Start(a.stdin, a.stdout, repl.Config{
		Version:     Version,
		HistoryFile: a.cfg.HistoryPath(),
		Recovery:    a.cfg.Recovery,
	})
	return nil
}

func (a *app) newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch path...",
		Short: "Re-check Lox files whenever they change",
		Long: `watch checks each file once, then again every time it is saved.
Directories are watched recursively for .lox files. Stop with Ctrl+C.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				if source.IsSource(path) {
					a.recheck(path)
				}
			}

			w, err := watch.New(args, a.recheck,
				watch.WithDebounce(a.cfg.Watch.Debounce),
				watch.WithLogger(lox.WriterLogger(a.stderr)))
			if err != nil {
				return err
			}
			return w.Run(cmd.Context())
		},
	}
}

// recheck compiles one file and prints a one-line status.
func (a *app) recheck(path string) {
	text, name, err := a.readInput([]string{path}, "")
	if err != nil {
		fmt.Fprintf(a.stderr, "%s %v\n", a.palette.err.Sprint("error:"), err)
		return
	}

	stamp := time.Now().Format("15:04:05")
	result := a.compile(text, name, lox.WithRecovery(true))
	if result.HadError {
		fmt.Fprintf(a.stdout, "[%s] %s: %s\n", stamp, filepath.Base(name),
			a.palette.err.Sprint(english.Plural(len(result.Errors), "error", "errors")))
		return
	}
	fmt.Fprintf(a.stdout, "[%s] %s: %s (%s)\n", stamp, filepath.Base(name), a.palette.ok.Sprint("ok"),
		english.Plural(len(result.Program.Statements), "statement", "statements"))
}

func (a *app) newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Print a hand-built syntax tree",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(a.stdout, printer.Expr(demoTree()))
		},
	}
}

// demoTree is -123 * (45.67), built without the parser.
func demoTree() ast.Expr {
	return ast.NewBinary(
		ast.NewUnary(lexer.Token{Type: lexer.MINUS, Lexeme: "-", Line: 1}, ast.NewLiteral(123.0)),
		lexer.Token{Type: lexer.STAR, Lexeme: "*", Line: 1},
		ast.NewGrouping(ast.NewLiteral(45.67)),
	)
}

func (a *app) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "lox version %s\n", Version)
		},
	}
}

// writeTokens prints tokens one per line, or as a JSON or YAML list.
func writeTokens(w io.Writer, tokens []lexer.Token, format string) error {
	switch format {
	case "text":
		for _, tok := range tokens {
			fmt.Fprintln(w, tok.String())
		}
		return nil
	case "json":
		data, err := json.MarshalIndent(tokens, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding tokens: %w", err)
		}
		fmt.Fprintln(w, string(data))
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tokens); err != nil {
			return fmt.Errorf("encoding tokens: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown format %q (must be text, json, or yaml)", format)
}
