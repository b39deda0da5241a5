// Package cli holds the message helpers of the typegen command.
package cli

import (
	"fmt"
	"io"
	"os"
)

// FatalErr prints an error message with details to stderr and exits with code 1.
func FatalErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

// Printer writes informational messages to Out and warnings to Err.
type Printer struct {
	Out io.Writer
	Err io.Writer
}

// NewPrinter returns a Printer over the given writers.
func NewPrinter(out, err io.Writer) *Printer {
	return &Printer{Out: out, Err: err}
}

// Info prints an informational message.
func (p *Printer) Info(msg string) {
	fmt.Fprintln(p.Out, msg)
}

// Infof prints a formatted informational message.
func (p *Printer) Infof(format string, args ...any) {
	fmt.Fprintf(p.Out, format+"\n", args...)
}

// Warnf prints a formatted warning message.
func (p *Printer) Warnf(format string, args ...any) {
	fmt.Fprintf(p.Err, "warning: "+format+"\n", args...)
}
