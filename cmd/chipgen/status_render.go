package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"

	"chipgen/internal/preflight"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

type statusStyle struct {
	label string
	color text.Colors
}

var statusStyles = map[statusKind]statusStyle{
	statusInfo:  {label: "INFO", color: text.Colors{text.FgBlue}},
	statusOK:    {label: "OK", color: text.Colors{text.FgGreen}},
	statusWarn:  {label: "WARN", color: text.Colors{text.FgYellow}},
	statusError: {label: "ERROR", color: text.Colors{text.FgRed}},
}

const (
	statusLabelWidth = 20
	statusIndent     = "  "
)

// renderStatusLine formats "  Label:  [KIND] message" with the label padded
// to a fixed width.
func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	style := statusStyles[kind]
	status := "[" + style.label + "]"
	if message != "" {
		status += " " + message
	}
	line := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", status)
	return paint(line, style.color, colorize)
}

func renderSectionHeader(title string, colorize bool) []string {
	line := "== " + strings.TrimSpace(title) + " =="
	heading := statusStyles[statusInfo].color
	return []string{paint(line, heading, colorize), paint(strings.Repeat("-", len(line)), heading, colorize)}
}

func paint(s string, colors text.Colors, colorize bool) string {
	if !colorize || len(colors) == 0 {
		return s
	}
	return colors.Sprint(s)
}

func preflightLines(results []preflight.Result, colorize bool) []string {
	lines := make([]string, 0, len(results))
	for _, r := range results {
		kind := statusOK
		if !r.Passed {
			kind = statusError
		}
		lines = append(lines, renderStatusLine(r.Name, kind, r.Detail, colorize))
	}
	return lines
}

func writeLines(w io.Writer, lines []string) {
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	return ok && isTerminal(file)
}
