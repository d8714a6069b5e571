package main

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	jsoniter "github.com/json-iterator/go"
	"github.com/maxbolgarin/errm"
	"gopkg.in/yaml.v3"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"

	maxColumnWidth = 60
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	headerColor = lipgloss.Color("#8BE9FD")
	borderColor = lipgloss.Color("#6272A4")
)

// writeStructured encodes v as json or yaml. It reports false for the table
// format, leaving rendering to the caller.
func writeStructured(w io.Writer, format string, v any) (bool, error) {
	switch format {
	case formatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return true, errm.Wrap(err, "encode json")
		}
		data = append(data, '\n')
		_, err = w.Write(data)
		return true, err
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, errm.Wrap(err, "encode yaml")
		}
		return true, enc.Close()
	default:
		return false, nil
	}
}

// renderTable lays rows out in columns sized to their widest cell,
// truncating anything wider than maxColumnWidth.
func renderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := range min(len(row), len(widths)) {
			widths[i] = max(widths[i], min(lipgloss.Width(row[i]), maxColumnWidth))
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(headerColor).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)

	var b strings.Builder
	line := func(cells []string, style lipgloss.Style) {
		parts := make([]string, len(widths))
		for i, w := range widths {
			text := ""
			if i < len(cells) {
				text = truncate(cells[i], w)
			}
			parts[i] = style.Width(w + 2).Render(text)
		}
		b.WriteString(strings.Join(parts, borderStyle.Render("│")))
		b.WriteString("\n")
	}

	line(headers, headerStyle)
	separators := make([]string, len(widths))
	for i, w := range widths {
		separators[i] = strings.Repeat("─", w+2)
	}
	b.WriteString(borderStyle.Render(strings.Join(separators, "┼")))
	b.WriteString("\n")
	for _, row := range rows {
		line(row, cellStyle)
	}
	return b.String()
}

// truncate shortens s to at most width runes, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}
