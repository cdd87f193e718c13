package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HighlightSymbol marks the selected row of an interactive table.
const HighlightSymbol = ">>"

// TableOptions tweak RenderTableWith.
type TableOptions struct {
	// Highlight is the selected row index; negative means no highlight
	// column at all.
	Highlight int
	// MaxWidths caps each column's width; zero or missing means uncapped.
	MaxWidths []int
}

// RenderTable renders a simple aligned table with a header separator line.
// Columns are padded to the widest visible cell.
func RenderTable(headers []string, rows [][]string) string {
	return RenderTableWith(headers, rows, TableOptions{Highlight: -1})
}

// RenderTableWith renders a table like RenderTable. When opts.Highlight is
// non-negative every row gets a marker column and the selected row is
// prefixed with HighlightSymbol.
func RenderTableWith(headers []string, rows [][]string, opts TableOptions) string {
	if len(headers) == 0 {
		return ""
	}

	cols := len(headers)
	capped := func(i int, s string) string {
		if i < len(opts.MaxWidths) && opts.MaxWidths[i] > 0 {
			return Truncate(s, opts.MaxWidths[i])
		}
		return s
	}

	widths := make([]int, cols)
	for i, h := range headers {
		widths[i] = max(widths[i], lipgloss.Width(h))
	}
	for _, row := range rows {
		for i := 0; i < cols && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(capped(i, row[i])))
		}
	}

	const colGap = 2
	marker := opts.Highlight >= 0
	blank := strings.Repeat(" ", lipgloss.Width(HighlightSymbol)+1)

	var b strings.Builder

	if marker {
		b.WriteString(blank)
	}
	for i, h := range headers {
		b.WriteString(StyleHeader.Render(h))
		if i < cols-1 {
			b.WriteString(strings.Repeat(" ", max(widths[i]-lipgloss.Width(h), 0)+colGap))
		}
	}
	b.WriteString("\n")

	if marker {
		b.WriteString(blank)
	}
	for i, w := range widths {
		b.WriteString(StyleDim.Render(strings.Repeat("─", w)))
		if i < cols-1 {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")

	for r, row := range rows {
		var line strings.Builder
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(row) {
				cell = capped(i, row[i])
			}
			line.WriteString(cell)
			if i < cols-1 {
				line.WriteString(strings.Repeat(" ", max(widths[i]-lipgloss.Width(cell), 0)+colGap))
			}
		}
		switch {
		case !marker:
			b.WriteString(line.String())
		case r == opts.Highlight:
			b.WriteString(StyleHeader.Render(HighlightSymbol) + " " + StyleSelected.Render(line.String()))
		default:
			b.WriteString(blank + line.String())
		}
		b.WriteString("\n")
	}

	return b.String()
}
