package pretty

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

// ScanStats aggregates counts across one or more scanned files.
type ScanStats struct {
	Files  int
	Bytes  int
	Tokens int
	Lines  int

	// ByKind counts tokens per kind name.
	ByKind map[string]int
}

// FormatSummaryOneLine formats scan statistics as a single line.
// Example: "412 tokens in 3 files (9284 bytes)".
func (s *Styles) FormatSummaryOneLine(stats ScanStats) string {
	fileWord := wordFiles
	if stats.Files == 1 {
		fileWord = wordFile
	}

	line := fmt.Sprintf("%d tokens in %d %s", stats.Tokens, stats.Files, fileWord)
	line += s.Dim.Render(fmt.Sprintf(" (%d bytes)", stats.Bytes))

	return line + "\n"
}

// FormatSummary formats scan statistics as a summary block.
func (s *Styles) FormatSummary(stats ScanStats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files scanned: " +
		s.SummaryValue.Render(strconv.Itoa(stats.Files)) + "\n")
	builder.WriteString("  Bytes:         " +
		s.SummaryValue.Render(strconv.Itoa(stats.Bytes)) + "\n")
	builder.WriteString("  Lines:         " +
		s.SummaryValue.Render(strconv.Itoa(stats.Lines)) + "\n")
	builder.WriteString("  Tokens:        " +
		s.SummaryValue.Render(strconv.Itoa(stats.Tokens)) + "\n")

	if len(stats.ByKind) > 0 {
		builder.WriteString("\n")
		for _, name := range sortedKindNames(stats.ByKind) {
			builder.WriteString(fmt.Sprintf("    %-22s %s\n",
				name, s.SummaryValue.Render(strconv.Itoa(stats.ByKind[name]))))
		}
	}

	return builder.String()
}

// sortedKindNames returns kind names ordered by descending count, ties by name.
func sortedKindNames(byKind map[string]int) []string {
	names := make([]string, 0, len(byKind))
	for name := range byKind {
		names = append(names, name)
	}

	sort.Slice(names, func(i, j int) bool {
		if byKind[names[i]] != byKind[names[j]] {
			return byKind[names[i]] > byKind[names[j]]
		}
		return names[i] < names[j]
	})

	return names
}
