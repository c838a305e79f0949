// Package ui provides styled terminal output for the pubcfg CLI.
package ui

import (
	"fmt"
	"io"
	"os"
)

// ANSI color codes.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

// Writer prints styled lines. Color is dropped when disabled.
type Writer struct {
	out     io.Writer
	errOut  io.Writer
	noColor bool
}

// NewWriter writes to stdout and stderr. Color is disabled when noColor is
// true or NO_COLOR is set.
func NewWriter(noColor bool) *Writer {
	return &Writer{
		out:     os.Stdout,
		errOut:  os.Stderr,
		noColor: noColor || os.Getenv("NO_COLOR") != "",
	}
}

// NewWriterWithOutputs writes to the given destinations.
func NewWriterWithOutputs(out, errOut io.Writer, noColor bool) *Writer {
	return &Writer{
		out:     out,
		errOut:  errOut,
		noColor: noColor,
	}
}

// Out returns the standard destination.
func (w *Writer) Out() io.Writer { return w.out }

// Success prints msg after a green check mark.
func (w *Writer) Success(msg string) {
	writeLine(w.out, w.styled(colorGreen, "\u2713"), msg)
}

// Skip prints msg after a yellow dash.
func (w *Writer) Skip(msg string) {
	writeLine(w.out, w.styled(colorYellow, "-"), msg)
}

// Fail prints msg to stderr after a red cross.
func (w *Writer) Fail(msg string) {
	writeLine(w.errOut, w.styled(colorRed, "\u2717"), msg)
}

// Warning prints msg to stderr with a yellow prefix.
func (w *Writer) Warning(msg string) {
	writeLine(w.errOut, w.styled(colorYellow, "warning:"), msg)
}

// Error prints msg to stderr with a red prefix.
func (w *Writer) Error(msg string) {
	writeLine(w.errOut, w.styled(colorRed, "error:"), msg)
}

// Info prints msg with a cyan prefix.
func (w *Writer) Info(msg string) {
	writeLine(w.out, w.styled(colorCyan, "info:"), msg)
}

// Bold returns msg in bold.
func (w *Writer) Bold(msg string) string {
	return w.styled(colorBold, msg)
}

// Successf formats and prints a success line.
func (w *Writer) Successf(format string, args ...any) {
	w.Success(fmt.Sprintf(format, args...))
}

// Skipf formats and prints a skip line.
func (w *Writer) Skipf(format string, args ...any) {
	w.Skip(fmt.Sprintf(format, args...))
}

// Failf formats and prints a failure line.
func (w *Writer) Failf(format string, args ...any) {
	w.Fail(fmt.Sprintf(format, args...))
}

// Warningf formats and prints a warning.
func (w *Writer) Warningf(format string, args ...any) {
	w.Warning(fmt.Sprintf(format, args...))
}

// Errorf formats and prints an error.
func (w *Writer) Errorf(format string, args ...any) {
	w.Error(fmt.Sprintf(format, args...))
}

// Infof formats and prints an informational line.
func (w *Writer) Infof(format string, args ...any) {
	w.Info(fmt.Sprintf(format, args...))
}

func (w *Writer) styled(color, text string) string {
	if w.noColor {
		return text
	}

	return color + text + colorReset
}

func writeLine(out io.Writer, prefix, msg string) {
	if _, err := fmt.Fprintf(out, "%s %s\n", prefix, msg); err != nil {
		// Best-effort output; if stderr fails there's nothing useful to do.
		return
	}
}
