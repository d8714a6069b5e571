package main

import (
	"fmt"
	"io"
	"os"
	"strings"

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

// termStyle provides terminal styling helpers for one output stream.
type termStyle struct {
	out       io.Writer
	useColors bool
}

// newTermStyle resolves the color mode: "always", "never", or "auto" which
// colors only when out is a terminal.
func newTermStyle(out io.Writer, mode string) *termStyle {
	useColors := false
	switch mode {
	case "always":
		useColors = true
	case "never":
	default:
		if f, ok := out.(*os.File); ok {
			useColors = term.IsTerminal(int(f.Fd()))
		}
	}
	return &termStyle{out: out, useColors: useColors}
}

func (t *termStyle) colorize(code, text string) string {
	if !t.useColors {
		return text
	}
	return code + text + ansiReset
}

// Header prints a section header with divider bars
func (t *termStyle) Header(title string) {
	bar := strings.Repeat("━", 72)
	t.Println(t.colorize(ansiCyan, bar))
	t.Println(t.colorize(ansiBold+ansiCyan, "  "+title))
	t.Println(t.colorize(ansiCyan, bar))
}

// Success prints a success message with green checkmark
func (t *termStyle) Success(msg string) {
	t.Println(t.colorize(ansiGreen, "✓ "+msg))
}

// Warn prints a warning message with yellow warning symbol
func (t *termStyle) Warn(msg string) {
	t.Println(t.colorize(ansiYellow, "⚠ "+msg))
}

// Error prints an error message with red X
func (t *termStyle) Error(msg string) {
	t.Println(t.colorize(ansiRed, "✗ "+msg))
}

// Dim returns dimmed text
func (t *termStyle) Dim(text string) string {
	return t.colorize(ansiDim, text)
}

// Bold returns bold text
func (t *termStyle) Bold(text string) string {
	return t.colorize(ansiBold, text)
}

// Cyan returns cyan text (for revisions, paths, hunk headers)
func (t *termStyle) Cyan(text string) string {
	return t.colorize(ansiCyan, text)
}

// Yellow returns yellow text
func (t *termStyle) Yellow(text string) string {
	return t.colorize(ansiYellow, text)
}

// Green returns green text
func (t *termStyle) Green(text string) string {
	return t.colorize(ansiGreen, text)
}

// Red returns red text
func (t *termStyle) Red(text string) string {
	return t.colorize(ansiRed, text)
}

// Info prints informational/explanatory text (dimmed)
func (t *termStyle) Info(lines ...string) {
	for _, line := range lines {
		t.Println(t.Dim(line))
	}
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
	t.Printf("  • %s\n", text)
}

// KeyValue prints a key-value pair for summaries
func (t *termStyle) KeyValue(key, value string) {
	t.Printf("  %s  %s\n", t.Bold(fmt.Sprintf("%-10s", key+":")), value)
}

// Blank prints a blank line
func (t *termStyle) Blank() {
	fmt.Fprintln(t.out)
}
