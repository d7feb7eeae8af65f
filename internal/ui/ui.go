package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/msalah0e/filemap/internal/palette"
)

// Brand colors
var (
	Brand  = color.New(color.FgHiGreen, color.Bold)
	Subtle = color.New(color.FgHiBlack)
	Warn   = color.New(color.FgYellow)
	Info   = color.New(color.FgCyan)
	Good   = color.New(color.FgGreen)
	Bad    = color.New(color.FgRed)
)

const Mark = "\u25A6" // ▦

// Configure turns colored output off when the config disables it.
// fatih/color already honours NO_COLOR and non-terminal output.
func Configure(enabled bool) {
	if !enabled {
		color.NoColor = true
	}
}

// Banner prints the filemap banner.
func Banner(w io.Writer, subtitle string) {
	fmt.Fprintf(w, "%s %s  %s\n\n", Mark, Brand.Sprint("filemap"), Subtle.Sprint(subtitle))
}

// Swatch renders c as a small truecolor block followed by its hex value.
// Without color support only the hex value is printed.
func Swatch(c palette.Color) string {
	if color.NoColor {
		return c.Hex()
	}
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm██\x1b[0m %s", c.R(), c.G(), c.B(), c.Hex())
}

// Table prints a simple aligned table. Cells may carry ANSI escapes; widths
// are computed on the visible text.
func Table(w io.Writer, headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = visibleLen(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && visibleLen(cell) > widths[i] {
				widths[i] = visibleLen(cell)
			}
		}
	}

	headerLine := "  "
	sepLine := "  "
	for i, h := range headers {
		headerLine += pad(h, widths[i]) + "  "
		sepLine += strings.Repeat("\u2500", widths[i]) + "  "
	}
	Subtle.Fprintln(w, strings.TrimRight(headerLine, " "))
	Subtle.Fprintln(w, strings.TrimRight(sepLine, " "))

	for _, row := range rows {
		line := "  "
		for i, cell := range row {
			if i < len(widths) {
				line += pad(cell, widths[i]) + "  "
			}
		}
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

func pad(s string, width int) string {
	if n := visibleLen(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// visibleLen counts runes outside ANSI escape sequences.
func visibleLen(s string) int {
	n := 0
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEscape = true
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		default:
			n++
		}
	}
	return n
}

// StatusIcon returns a status icon string.
func StatusIcon(ok bool) string {
	if ok {
		return Good.Sprint("\u2713")
	}
	return Bad.Sprint("\u2717")
}

// WarnIcon returns a warning icon.
func WarnIcon() string {
	return Warn.Sprint("\u26A0")
}
