package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/gomdscan/pkg/scanner"
)

// Table formatting constants.
const (
	tablePadding     = 2
	tableColumnCount = 4 // OFFSET, KIND, TEXT, FLAGS
	minOffsetWidth   = 9
	minKindWidth     = 13
	minTextWidth     = 24
	minFlagsWidth    = 10
	heavySeparator   = "="
	defaultTermWidth = 100
)

// TableRow represents a single token row in the dump table.
type TableRow struct {
	Offset string
	Kind   string
	Text   string
	Flags  string

	kind scanner.TokenKind
}

// TokenToRow converts a scanned token to a table row.
func TokenToRow(tok scanner.Token) TableRow {
	text := ""
	if tok.Kind != scanner.TokEndOfFile {
		text = strconv.Quote(tok.Text)
	}
	flags := ""
	if tok.Flags != 0 {
		flags = tok.Flags.String()
	}
	return TableRow{
		Offset: fmt.Sprintf("%d-%d", tok.Start, tok.End),
		Kind:   tok.Kind.String(),
		Text:   text,
		Flags:  flags,
		kind:   tok.Kind,
	}
}

// TableFormatter formats a token stream as a styled table.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:    styles,
		termWidth: termWidth,
	}
}

// FormatTable formats token rows as a styled table.
func (t *TableFormatter) FormatTable(rows []TableRow) string {
	if len(rows) == 0 {
		return ""
	}

	colWidths := t.calculateColumnWidths(rows)

	var builder strings.Builder

	builder.WriteString(t.formatHeader(colWidths))
	builder.WriteString("\n")
	builder.WriteString(t.formatSeparator(colWidths))
	builder.WriteString("\n")

	for _, row := range rows {
		builder.WriteString(t.formatRow(row, colWidths))
		builder.WriteString("\n")
	}

	builder.WriteString(t.formatSeparator(colWidths))
	builder.WriteString("\n")

	return builder.String()
}

// calculateColumnWidths determines optimal column widths based on content.
func (t *TableFormatter) calculateColumnWidths(rows []TableRow) columnWidths {
	widths := columnWidths{
		offset: minOffsetWidth,
		kind:   minKindWidth,
		text:   minTextWidth,
		flags:  minFlagsWidth,
	}

	for _, row := range rows {
		if len(row.Offset) > widths.offset {
			widths.offset = len(row.Offset)
		}
		if len(row.Kind) > widths.kind {
			widths.kind = len(row.Kind)
		}
		if len(row.Text) > widths.text {
			widths.text = len(row.Text)
		}
		if len(row.Flags) > widths.flags {
			widths.flags = len(row.Flags)
		}
	}

	// Constrain to terminal width, squeezing the text column first
	totalWidth := t.calculateTotalWidth(widths)
	if totalWidth > t.termWidth {
		excess := totalWidth - t.termWidth
		widths.text = max(minTextWidth, widths.text-excess)

		totalWidth = t.calculateTotalWidth(widths)
		if totalWidth > t.termWidth {
			excess = totalWidth - t.termWidth
			widths.flags = max(minFlagsWidth, widths.flags-excess)
		}
	}

	return widths
}

type columnWidths struct {
	offset int
	kind   int
	text   int
	flags  int
}

// calculateTotalWidth calculates the total table width from column widths.
func (t *TableFormatter) calculateTotalWidth(widths columnWidths) int {
	return widths.offset + widths.kind + widths.text + widths.flags +
		(tablePadding * tableColumnCount)
}

// formatHeader formats the table header row.
func (t *TableFormatter) formatHeader(widths columnWidths) string {
	header := fmt.Sprintf(" %-*s  %-*s  %-*s  %-*s",
		widths.offset, "OFFSET",
		widths.kind, "KIND",
		widths.text, "TEXT",
		widths.flags, "FLAGS",
	)
	return t.styles.TableHeader.Render(header)
}

// formatSeparator formats a separator line.
func (t *TableFormatter) formatSeparator(widths columnWidths) string {
	sep := strings.Repeat(heavySeparator, t.calculateTotalWidth(widths))
	return t.styles.TableSeparator.Render(sep)
}

// formatRow formats a single table row styled by token kind.
func (t *TableFormatter) formatRow(row TableRow, widths columnWidths) string {
	text := truncateString(row.Text, widths.text)
	flags := truncateString(row.Flags, widths.flags)

	content := fmt.Sprintf(" %-*s  %-*s  %-*s  %-*s",
		widths.offset, row.Offset,
		widths.kind, row.Kind,
		widths.text, text,
		widths.flags, flags,
	)

	return t.styles.KindStyle(row.kind).Render(content)
}

// FormatTableSummary formats a summary line for table output.
func (t *TableFormatter) FormatTableSummary(stats ScanStats, duration string) string {
	parts := []string{
		fmt.Sprintf("%d tokens", stats.Tokens),
		fmt.Sprintf("%d bytes", stats.Bytes),
	}

	if stats.Lines > 0 {
		parts = append(parts, fmt.Sprintf("%d lines", stats.Lines))
	}

	if duration != "" {
		parts = append(parts, t.styles.Dim.Render(duration))
	}

	return " " + strings.Join(parts, " | ")
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(str string, maxLen int) string {
	if len(str) <= maxLen {
		return str
	}
	if maxLen <= 3 {
		return str[:maxLen]
	}
	return str[:maxLen-3] + "..."
}
