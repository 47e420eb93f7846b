package errors

import (
	"fmt"
	"io"
	"sync"
)

// Reporter is the diagnostic sink fed by the scanner and the parser.
// Reporting is fire-and-forget: callers never inspect what the sink does
// beyond polling HadError to decide whether to run later phases.
type Reporter interface {
	Report(err *LoxError)
	HadError() bool
	Reset()
}

// Collector records every report in order.
type Collector struct {
	mu       sync.Mutex
	errs     []*LoxError
	hadError bool
}

// NewCollector creates a reporter that only collects.
func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Report(err *LoxError) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs = append(c.errs, err)
	c.hadError = true
}

func (c *Collector) HadError() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hadError
}

// Reset clears the flag and the collected errors so the reporter can serve
// the next independent compilation.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs = nil
	c.hadError = false
}

// Errors returns a copy of the collected errors.
func (c *Collector) Errors() []*LoxError {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := make([]*LoxError, len(c.errs))
	copy(result, c.errs)
	return result
}

// writerReporter writes each report as a line to an io.Writer.
type writerReporter struct {
	Collector
	w      io.Writer
	format func(*LoxError) string
}

// NewReporter returns a reporter that writes every diagnostic to w using
// the one-line String form, and also collects it.
func NewReporter(w io.Writer) Reporter {
	return NewFormattingReporter(w, (*LoxError).String)
}

// NewFormattingReporter is NewReporter with a custom line format.
func NewFormattingReporter(w io.Writer, format func(*LoxError) string) Reporter {
	return &writerReporter{w: w, format: format}
}

func (r *writerReporter) Report(err *LoxError) {
	r.Collector.Report(err)
	fmt.Fprintln(r.w, r.format(err))
}

// Tee fans a report out to several reporters. HadError is true if any of
// them saw an error.
func Tee(reporters ...Reporter) Reporter {
	return teeReporter(reporters)
}

type teeReporter []Reporter

func (t teeReporter) Report(err *LoxError) {
	for _, r := range t {
		r.Report(err)
	}
}

func (t teeReporter) HadError() bool {
	for _, r := range t {
		if r.HadError() {
			return true
		}
	}
	return false
}

func (t teeReporter) Reset() {
	for _, r := range t {
		r.Reset()
	}
}
