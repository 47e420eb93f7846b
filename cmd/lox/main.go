package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sambeau/lox/config"
	loxerrors "github.com/sambeau/lox/pkg/lox/errors"
	"github.com/sambeau/lox/pkg/lox/lox"
	"github.com/sambeau/lox/pkg/lox/source"
)

// Version is set at build time via -ldflags
var Version = "0.1.0-dev"

// errDiagnostics means the input had lexical or syntax errors. They have
// already been printed, so main only sets the exit status.
var errDiagnostics = errors.New("input has errors")

// exitError carries a specific exit status.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, os.Getenv)
	if err == nil {
		return
	}

	var exit *exitError
	switch {
	case errors.As(err, &exit):
		fmt.Fprintf(os.Stderr, "error: %v\n", exit.err)
		os.Exit(exit.code)
	case errors.Is(err, errDiagnostics):
		os.Exit(1)
	default:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app holds what every subcommand shares. Flags fill the first group; the
// root command's pre-run fills the rest.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string

	configPath string
	verbose    bool
	noColor    bool

	cfg     *config.Config
	logger  lox.Logger
	palette *palette
}

// run is the main entry point, designed for testability (Mat Ryer pattern)
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, getenv func(string) string) error {
	a := &app{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		getenv: getenv,
	}

	root := a.newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	return root.ExecuteContext(ctx)
}

func (a *app) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lox [file]",
		Short: "Lox front end: scanner, parser, and syntax tree printer",
		Long: `lox scans and parses Lox source and prints what it finds.

With a file argument it prints the file's syntax tree. With no arguments
it starts an interactive prompt.

Config Resolution:
  1. --config flag
  2. LOX_CONFIG environment variable
  3. ./lox.yaml, ./lox.yml, ./lox.toml
  4. ~/.config/lox/lox.yaml`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return a.startREPL()
			}
			return a.printTree(args, "", a.cfg.Recovery, false)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to config file (default: auto-detect)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log stage timings to stderr")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable coloured diagnostics")

	root.AddCommand(
		a.newTokensCmd(),
		a.newASTCmd(),
		a.newCheckCmd(),
		a.newREPLCmd(),
		a.newWatchCmd(),
		a.newDemoCmd(),
		a.newVersionCmd(),
	)

	return root
}

// setup loads configuration and derives logging and colour settings.
func (a *app) setup() error {
	cfg, err := config.Load(a.configPath, a.getenv)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg

	if a.verbose {
		a.logger = lox.PrefixLogger(a.stderr, "lox: ")
	} else {
		a.logger = lox.NullLogger()
	}

	a.palette = newPalette(colorEnabled(cfg.Color, a.noColor, a.stderr, a.getenv))
	return nil
}

// readInput returns the text to compile and the name to report it under.
// Inline code wins over a file argument; "-" reads standard input.
func (a *app) readInput(args []string, code string) (string, string, error) {
	if code != "" {
		return code, "", nil
	}
	if len(args) == 0 {
		return "", "", fmt.Errorf("expected a file argument or -e code")
	}

	path := args[0]
	if path == "-" {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		text, err := source.Decode(data)
		if err != nil {
			return "", "", fmt.Errorf("decoding stdin: %w", err)
		}
		return text, "<stdin>", nil
	}

	text, err := source.Load(path)
	if err != nil {
		return "", "", err
	}
	return text, source.DisplayName(path), nil
}

// compile runs the front end with diagnostics streamed to stderr.
func (a *app) compile(text, name string, opts ...lox.Option) *lox.Result {
	opts = append([]lox.Option{
		lox.WithFilename(name),
		lox.WithReporter(a.reporter()),
		lox.WithLogger(a.logger),
	}, opts...)
	return lox.Compile(text, opts...)
}

// reporter streams diagnostics to stderr as they are found.
func (a *app) reporter() loxerrors.Reporter {
	return loxerrors.NewFormattingReporter(a.stderr, a.palette.diagnostic)
}
