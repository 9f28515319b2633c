package main

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ANSI color codes
const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiDim    = "\033[2m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
)

// termStyle provides terminal styling helpers with automatic color detection
type termStyle struct {
	out       io.Writer
	useColors bool
}

// newTermStyle colors output only when w is a terminal.
func newTermStyle(w io.Writer) *termStyle {
	useColors := false
	if f, ok := w.(*os.File); ok {
		useColors = term.IsTerminal(int(f.Fd()))
	}
	return &termStyle{out: w, useColors: useColors}
}

func (t *termStyle) colorize(code, text string) string {
	if !t.useColors {
		return text
	}
	return code + text + ansiReset
}

// Success prints a success message with green checkmark
func (t *termStyle) Success(msg string) {
	fmt.Fprintln(t.out, t.colorize(ansiGreen, "✓ "+msg))
}

// Warn prints a warning message with yellow warning symbol
func (t *termStyle) Warn(msg string) {
	fmt.Fprintln(t.out, t.colorize(ansiYellow, "⚠ "+msg))
}

// Error prints an error message with red X
func (t *termStyle) Error(msg string) {
	fmt.Fprintln(t.out, t.colorize(ansiRed, "✗ "+msg))
}

// Dim returns dimmed text
func (t *termStyle) Dim(text string) string {
	return t.colorize(ansiDim, text)
}

// Bold returns bold text
func (t *termStyle) Bold(text string) string {
	return t.colorize(ansiBold, text)
}

// Cyan returns cyan text (for server paths)
func (t *termStyle) Cyan(text string) string {
	return t.colorize(ansiCyan, text)
}

// Yellow returns yellow text
func (t *termStyle) Yellow(text string) string {
	return t.colorize(ansiYellow, text)
}

// Println prints normal text with newline
func (t *termStyle) Println(text string) {
	fmt.Fprintln(t.out, text)
}

// Printf prints formatted text
func (t *termStyle) Printf(format string, args ...any) {
	fmt.Fprintf(t.out, format, args...)
}

// Bullet prints a bullet point
func (t *termStyle) Bullet(text string) {
	fmt.Fprintf(t.out, "  • %s\n", text)
}

// KeyValue prints a key-value pair for summaries
func (t *termStyle) KeyValue(key, value string) {
	fmt.Fprintf(t.out, "  %s  %s\n", t.Bold(fmt.Sprintf("%-18s", key+":")), value)
}

// Blank prints a blank line
func (t *termStyle) Blank() {
	fmt.Fprintln(t.out)
}
