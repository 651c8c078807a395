package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"kiln/internal/preflight"
)

// statusKind classifies a status line for marker and color selection.
type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusError
)

const (
	colorReset = "\x1b[0m"
	colorRed   = "\x1b[31m"
	colorGreen = "\x1b[32m"
	colorCyan  = "\x1b[36m"
)

// statusLine is one labeled entry in a status section.
type statusLine struct {
	label  string
	kind   statusKind
	detail string
}

func statusFromCheck(result preflight.Result) statusLine {
	kind := statusOK
	if !result.Passed {
		kind = statusError
	}
	return statusLine{label: result.Name, kind: kind, detail: result.Detail}
}

func (l statusLine) render(colorize bool) string {
	marker := l.kind.marker()
	if colorize {
		if color := l.kind.color(); color != "" {
			marker = color + marker + colorReset
		}
	}
	return fmt.Sprintf("  %s %-10s %s", marker, l.label, l.detail)
}

func (k statusKind) marker() string {
	switch k {
	case statusOK:
		return "[ ok ]"
	case statusError:
		return "[fail]"
	default:
		return "[ -- ]"
	}
}

func (k statusKind) color() string {
	switch k {
	case statusOK:
		return colorGreen
	case statusError:
		return colorRed
	default:
		return colorCyan
	}
}

// printSection writes a titled, underlined group of status lines followed by
// a blank separator.
func printSection(w io.Writer, title string, colorize bool, lines ...statusLine) {
	heading := title
	if colorize {
		heading = colorCyan + heading + colorReset
	}
	fmt.Fprintln(w, heading)
	fmt.Fprintln(w, strings.Repeat("-", len(title)))
	for _, line := range lines {
		fmt.Fprintln(w, line.render(colorize))
	}
	fmt.Fprintln(w)
}

func shouldColorize(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
