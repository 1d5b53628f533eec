// Package diag provides the shared diagnostic collector used by lexer,
// parser, semcheck and lower. It implements the propagation rule of
// spec.md §7: a pass keeps going after a recoverable error to surface
// additional diagnostics, but callers check Failed() between passes and
// halt the pipeline if it is set.
package diag

import (
	"fmt"
	"io"
)

// maxErrors caps how many diagnostics a single Collector will retain, the
// same defensive limit db47h-ngaro/asm/parser.go applies via its own
// maxErrors/abort() pair, so that a badly malformed file cannot make a
// recovering pass spin out pathological amounts of error text.
const maxErrors = 64

// Diagnostic is one reported error, with an optional source position. Line
// and Column are zero when the diagnostic has no source position (e.g. an
// internal invariant violation not tied to a token).
type Diagnostic struct {
	Line, Column int
	Message      string
}

func (d Diagnostic) String() string {
	if d.Line == 0 {
		return fmt.Sprintf("ERROR: %s", d.Message)
	}
	return fmt.Sprintf("ERROR at %d:%d: %s", d.Line, d.Column, d.Message)
}

// Collector accumulates diagnostics for one compilation pass. The zero value
// is ready to use.
type Collector struct {
	diags []Diagnostic
}

// New returns a ready-to-use Collector.
func New() *Collector { return &Collector{} }

// Error reports a diagnostic with no associated source position.
func (c *Collector) Error(format string, args ...interface{}) {
	if c.Abort() {
		return
	}
	c.diags = append(c.diags, Diagnostic{Message: fmt.Sprintf(format, args...)})
}

// ErrorAt reports a diagnostic at the given line:column.
func (c *Collector) ErrorAt(line, column int, format string, args ...interface{}) {
	if c.Abort() {
		return
	}
	c.diags = append(c.diags, Diagnostic{Line: line, Column: column, Message: fmt.Sprintf(format, args...)})
}

// Abort reports whether the collector has reached its error cap and
// further errors should be suppressed. Passes that loop over input should
// check this to bound worst-case diagnostic output on pathological input.
func (c *Collector) Abort() bool { return len(c.diags) >= maxErrors }

// Failed reports whether any diagnostic was recorded.
func (c *Collector) Failed() bool { return len(c.diags) > 0 }

// Diagnostics returns the accumulated diagnostics in report order.
func (c *Collector) Diagnostics() []Diagnostic { return c.diags }

// Fprint writes every diagnostic to w, one per line, in the
// "ERROR[ at L:C]: <message>" format mandated by spec.md §6.1/§7.
func (c *Collector) Fprint(w io.Writer) {
	for _, d := range c.diags {
		fmt.Fprintln(w, d.String())
	}
}

// Merge appends another collector's diagnostics to c, preserving order, so
// that a single collector can report diagnostics gathered by two.
func (c *Collector) Merge(other *Collector) {
	for _, d := range other.diags {
		if c.Abort() {
			return
		}
		c.diags = append(c.diags, d)
	}
}
