package pretty_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdscan/internal/ui/pretty"
	"github.com/yaklabco/gomdscan/pkg/scanner"
)

func sampleRows() []pretty.TableRow {
	return []pretty.TableRow{
		pretty.TokenToRow(scanner.Token{
			Kind: scanner.TokHash, Start: 0, End: 2, Text: "##",
			Flags: scanner.FlagAtLineStart,
		}),
		pretty.TokenToRow(scanner.Token{
			Kind: scanner.TokStringLiteral, Start: 3, End: 8, Text: "Notes",
		}),
		pretty.TokenToRow(scanner.Token{
			Kind: scanner.TokEndOfFile, Start: 8, End: 8,
		}),
	}
}

func TestTokenToRow(t *testing.T) {
	row := pretty.TokenToRow(scanner.Token{
		Kind: scanner.TokStringLiteral, Start: 3, End: 8, Text: "Notes",
	})

	assert.Equal(t, "3-8", row.Offset)
	assert.Equal(t, "StringLiteral", row.Kind)
	assert.Equal(t, `"Notes"`, row.Text)
	assert.Equal(t, "", row.Flags)
}

func TestTokenToRow_EOFHasNoText(t *testing.T) {
	row := pretty.TokenToRow(scanner.Token{Kind: scanner.TokEndOfFile, Start: 8, End: 8})

	assert.Equal(t, "8-8", row.Offset)
	assert.Equal(t, "EndOfFile", row.Kind)
	assert.Equal(t, "", row.Text)
}

func TestFormatTable_Basic(t *testing.T) {
	styles := pretty.NewStyles(false)
	formatter := pretty.NewTableFormatter(styles, 120)

	result := formatter.FormatTable(sampleRows())

	assert.Contains(t, result, "OFFSET")
	assert.Contains(t, result, "KIND")
	assert.Contains(t, result, "TEXT")
	assert.Contains(t, result, "FLAGS")
	assert.Contains(t, result, "Hash")
	assert.Contains(t, result, `"Notes"`)
	assert.Contains(t, result, "AtLineStart")
	assert.Contains(t, result, "EndOfFile")
	assert.Contains(t, result, "=")
}

func TestFormatTable_Empty(t *testing.T) {
	styles := pretty.NewStyles(false)
	formatter := pretty.NewTableFormatter(styles, 120)

	assert.Empty(t, formatter.FormatTable(nil))
}

func TestFormatTable_ConstrainsToTermWidth(t *testing.T) {
	styles := pretty.NewStyles(false)
	formatter := pretty.NewTableFormatter(styles, 70)

	long := pretty.TokenToRow(scanner.Token{
		Kind: scanner.TokStringLiteral, Start: 0, End: 200,
		Text: strings.Repeat("very long normalized text ", 10),
	})

	result := formatter.FormatTable([]pretty.TableRow{long})
	require.NotEmpty(t, result)

	for _, line := range strings.Split(result, "\n") {
		assert.LessOrEqual(t, len(line), 80, "line exceeds terminal width: %q", line)
	}
	assert.Contains(t, result, "...")
}

func TestFormatTableSummary(t *testing.T) {
	styles := pretty.NewStyles(false)
	formatter := pretty.NewTableFormatter(styles, 120)

	stats := pretty.ScanStats{Tokens: 412, Bytes: 9284, Lines: 120}
	result := formatter.FormatTableSummary(stats, "1.2ms")

	assert.Contains(t, result, "412 tokens")
	assert.Contains(t, result, "9284 bytes")
	assert.Contains(t, result, "120 lines")
	assert.Contains(t, result, "1.2ms")
}
