// Package pretty provides Lipgloss-based styled output utilities.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/yaklabco/gomdscan/pkg/scanner"
)

// Styles contains all styled renderers for CLI output.
type Styles struct {
	// Token kind categories
	Trivia  lipgloss.Style // whitespace, line breaks, end of file
	Text    lipgloss.Style // normalized text runs
	Marker  lipgloss.Style // delimiter runs and block punctuation
	HTML    lipgloss.Style // tags, raw text, comments
	Literal lipgloss.Style // entities, backtick runs

	// Stream components
	FilePath lipgloss.Style
	Offset   lipgloss.Style
	Flags    lipgloss.Style

	// Summary styles
	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	// Table styles
	TableHeader    lipgloss.Style
	TableLegend    lipgloss.Style
	TableSeparator lipgloss.Style

	// Misc
	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles creates a new Styles with the given color mode.
func NewStyles(colorEnabled bool) *Styles {
	if !colorEnabled {
		return newNoColorStyles()
	}
	return newColorStyles()
}

// newColorStyles creates styles with ANSI 256 colors.
func newColorStyles() *Styles {
	return &Styles{
		// Token kind categories
		Trivia:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Text:    lipgloss.NewStyle(),
		Marker:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		HTML:    lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
		Literal: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),

		// Stream components
		FilePath: lipgloss.NewStyle().Bold(true),
		Offset:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Flags:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")),

		// Summary styles
		SummaryTitle: lipgloss.NewStyle().Bold(true),
		SummaryValue: lipgloss.NewStyle(),
		Success:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Failure:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),

		// Table styles
		TableHeader:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")),
		TableLegend:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true),
		TableSeparator: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),

		// Misc
		Dim:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Bold: lipgloss.NewStyle().Bold(true),
	}
}

// newNoColorStyles creates styles with no color formatting.
func newNoColorStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Trivia:         plain,
		Text:           plain,
		Marker:         plain,
		HTML:           plain,
		Literal:        plain,
		FilePath:       plain,
		Offset:         plain,
		Flags:          plain,
		SummaryTitle:   plain,
		SummaryValue:   plain,
		Success:        plain,
		Failure:        plain,
		TableHeader:    plain,
		TableLegend:    plain,
		TableSeparator: plain,
		Dim:            plain,
		Bold:           plain,
	}
}

// KindStyle returns the style for a token kind's display category.
func (s *Styles) KindStyle(kind scanner.TokenKind) lipgloss.Style {
	switch kind {
	case scanner.TokWhitespace, scanner.TokNewline, scanner.TokEndOfFile:
		return s.Trivia
	case scanner.TokStringLiteral:
		return s.Text
	case scanner.TokLessThan, scanner.TokLessThanSlash, scanner.TokGreaterThan,
		scanner.TokSlashGreaterThan, scanner.TokHTMLText, scanner.TokHTMLComment,
		scanner.TokIdentifier:
		return s.HTML
	case scanner.TokEntity, scanner.TokBacktickRun:
		return s.Literal
	default:
		return s.Marker
	}
}

// IsColorEnabled determines if color should be enabled based on mode and writer.
// Mode values: "auto" (default), "always", "never".
// In auto mode, color is enabled only if the writer is a TTY and NO_COLOR is not set.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default: // "auto"
		// Check NO_COLOR environment variable (https://no-color.org/)
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		// Check if output is a TTY
		if f, ok := writer.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}
