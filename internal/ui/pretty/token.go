package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/gomdscan/pkg/scanner"
)

// FormatToken formats a single token for line-oriented terminal output.
// Example: "  @12-18  StringLiteral  "hello"  AtLineStart".
func (s *Styles) FormatToken(tok scanner.Token) string {
	var builder strings.Builder

	builder.WriteString("  ")
	builder.WriteString(s.Offset.Render(fmt.Sprintf("@%d-%d", tok.Start, tok.End)))
	builder.WriteString("  ")
	builder.WriteString(s.KindStyle(tok.Kind).Render(tok.Kind.String()))

	if tok.Kind != scanner.TokEndOfFile {
		builder.WriteString("  ")
		builder.WriteString(s.Text.Render(strconv.Quote(tok.Text)))
	}

	if tok.Flags != 0 {
		builder.WriteString("  ")
		builder.WriteString(s.Flags.Render(tok.Flags.String()))
	}

	builder.WriteString("\n")

	return builder.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, tokenCount int) string {
	header := s.FilePath.Render(path)
	if tokenCount > 0 {
		header += s.Dim.Render(fmt.Sprintf(" (%d tokens)", tokenCount))
	}
	return header
}

// FormatDebugState formats a scanner debug snapshot as an indented block.
func (s *Styles) FormatDebugState(d *scanner.DebugState) string {
	var builder strings.Builder

	builder.WriteString("    " + s.Dim.Render("offset:") + " " +
		fmt.Sprintf("%d (line %d, column %d)", d.Offset, d.Line, d.Column) + "\n")
	builder.WriteString("    " + s.Dim.Render("modes:") + "  " +
		strings.Join(d.Modes, " > ") + "\n")

	if d.FenceActive {
		builder.WriteString("    " + s.Dim.Render("fence:") + "  " +
			fmt.Sprintf("%s x%d", string(d.FenceChar), d.FenceLength) + "\n")
	}

	if d.BlankLines > 0 {
		builder.WriteString("    " + s.Dim.Render("blank:") + "  " +
			strconv.Itoa(d.BlankLines) + "\n")
	}

	return builder.String()
}
