// Package lox provides a public API for embedding the Lox front end.
//
// Compile runs the scanner and then the parser over one source text with a
// fresh diagnostic sink, so nothing carries over between calls.
package lox

import (
	"errors"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/sambeau/lox/pkg/lox/ast"
	loxerrors "github.com/sambeau/lox/pkg/lox/errors"
	"github.com/sambeau/lox/pkg/lox/lexer"
	"github.com/sambeau/lox/pkg/lox/parser"
)

// Result holds everything one compilation produced.
type Result struct {
	Filename   string
	Tokens     []lexer.Token
	Program    *ast.Program // nil when compiled with AsExpression
	Expression ast.Expr     // set only when compiled with AsExpression
	Errors     []*loxerrors.LoxError
	HadError   bool
}

// Err joins every diagnostic into a single error, or returns nil.
func (r *Result) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i, err := range r.Errors {
		errs[i] = err
	}
	return errors.Join(errs...)
}

// LexErrors returns only the scanner diagnostics.
func (r *Result) LexErrors() []*loxerrors.LoxError {
	var out []*loxerrors.LoxError
	for _, err := range r.Errors {
		if err.IsLexError() {
			out = append(out, err)
		}
	}
	return out
}

type options struct {
	filename   string
	reporter   loxerrors.Reporter
	recovery   bool
	expression bool
	logger     Logger
}

// Option configures Compile.
type Option func(*options)

// WithFilename tags diagnostics with a file name.
func WithFilename(filename string) Option {
	return func(o *options) { o.filename = filename }
}

// WithReporter also sends every diagnostic to r. The reporter is reset at
// the start of the compilation.
func WithReporter(r loxerrors.Reporter) Option {
	return func(o *options) { o.reporter = r }
}

// WithRecovery keeps parsing after a structural error.
func WithRecovery(enabled bool) Option {
	return func(o *options) { o.recovery = enabled }
}

// AsExpression parses the source as a single expression instead of a program.
func AsExpression() Option {
	return func(o *options) { o.expression = true }
}

// WithLogger receives stage timings and counts.
func WithLogger(l Logger) Option {
	return func(o *options) { o.logger = l }
}

// Compile scans and parses source. Parsing runs even after lexical errors;
// the bad characters are simply absent from the token stream.
func Compile(source string, opts ...Option) *Result {
	o := options{logger: NullLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	collector := loxerrors.NewCollector()
	var reporter loxerrors.Reporter = collector
	if o.reporter != nil {
		o.reporter.Reset()
		reporter = loxerrors.Tee(collector, o.reporter)
	}

	result := &Result{Filename: o.filename}

	start := time.Now()
	l := lexer.NewWithFilename(source, o.filename).WithReporter(reporter)
	result.Tokens = l.ScanTokens()
	o.logger.LogLine("scanned", humanize.Comma(int64(len(result.Tokens))), "tokens from",
		humanize.Bytes(uint64(len(source))), "in", time.Since(start))

	popts := []parser.Option{parser.WithReporter(reporter), parser.WithFilename(o.filename)}
	if o.recovery {
		popts = append(popts, parser.WithRecovery())
	}
	p := parser.New(result.Tokens, popts...)

	start = time.Now()
	if o.expression {
		result.Expression, _ = p.ParseExpression()
		o.logger.LogLine("parsed expression with", humanize.Comma(int64(ast.Count(result.Expression))),
			"nodes in", time.Since(start))
	} else {
		result.Program, _ = p.ParseProgram()
		o.logger.LogLine("parsed", humanize.Comma(int64(len(result.Program.Statements))), "statements,",
			humanize.Comma(int64(ast.Count(result.Program))), "nodes in", time.Since(start))
	}

	result.Errors = collector.Errors()
	result.HadError = reporter.HadError()
	return result
}
