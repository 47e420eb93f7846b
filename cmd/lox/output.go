package main

import (
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	loxerrors "github.com/sambeau/lox/pkg/lox/errors"
)

// palette colours terminal output. Every colour is switched on or off as a
// set so output to files and pipes stays plain.
type palette struct {
	err  *color.Color
	hint *color.Color
	ok   *color.Color
}

func newPalette(enabled bool) *palette {
	p := &palette{
		err:  color.New(color.FgRed, color.Bold),
		hint: color.New(color.FgYellow),
		ok:   color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.err, p.hint, p.ok} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// diagnostic renders one error in the canonical one-line form, with its
// hints indented below.
func (p *palette) diagnostic(e *loxerrors.LoxError) string {
	base := *e
	base.Hints = nil

	var sb strings.Builder
	sb.WriteString(p.err.Sprint(base.String()))
	for _, hint := range e.Hints {
		sb.WriteString("\n  ")
		sb.WriteString(p.hint.Sprint(hint))
	}
	return sb.String()
}

// colorEnabled decides whether w gets ANSI colours. --no-color beats the
// config setting; "auto" also honours NO_COLOR and requires a terminal.
func colorEnabled(mode string, noColor bool, w io.Writer, getenv func(string) string) bool {
	switch {
	case noColor:
		return false
	case mode == "always":
		return true
	case mode == "never":
		return false
	case getenv("NO_COLOR") != "":
		return false
	}

	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
