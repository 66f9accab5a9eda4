package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gomdscan/internal/ui/pretty"
	"github.com/yaklabco/gomdscan/pkg/scanner"
)

func TestFormatToken_Basic(t *testing.T) {
	styles := pretty.NewStyles(false)

	tok := scanner.Token{
		Kind:  scanner.TokStringLiteral,
		Start: 12,
		End:   18,
		Text:  "hello",
		Flags: scanner.FlagAtLineStart,
	}

	result := styles.FormatToken(tok)

	assert.Contains(t, result, "@12-18")
	assert.Contains(t, result, "StringLiteral")
	assert.Contains(t, result, `"hello"`)
	assert.Contains(t, result, "AtLineStart")
	assert.True(t, result[len(result)-1] == '\n')
}

func TestFormatToken_EOFOmitsText(t *testing.T) {
	styles := pretty.NewStyles(false)

	tok := scanner.Token{
		Kind:  scanner.TokEndOfFile,
		Start: 5,
		End:   5,
	}

	result := styles.FormatToken(tok)

	assert.Contains(t, result, "@5-5")
	assert.Contains(t, result, "EndOfFile")
	assert.NotContains(t, result, `""`)
}

func TestFormatToken_NoFlags(t *testing.T) {
	styles := pretty.NewStyles(false)

	tok := scanner.Token{
		Kind:  scanner.TokAsterisk,
		Start: 0,
		End:   1,
		Text:  "*",
	}

	result := styles.FormatToken(tok)

	assert.Contains(t, result, "Asterisk")
	assert.Contains(t, result, `"*"`)
}

func TestFormatFileHeader(t *testing.T) {
	styles := pretty.NewStyles(false)

	header := styles.FormatFileHeader("docs/README.md", 42)
	assert.Contains(t, header, "docs/README.md")
	assert.Contains(t, header, "(42 tokens)")

	bare := styles.FormatFileHeader("empty.md", 0)
	assert.Equal(t, "empty.md", bare)
}

func TestFormatDebugState(t *testing.T) {
	styles := pretty.NewStyles(false)

	state := &scanner.DebugState{
		Offset:      17,
		Line:        3,
		Column:      2,
		Modes:       []string{"Normal", "RawText(script)"},
		FenceActive: true,
		FenceChar:   '`',
		FenceLength: 3,
		BlankLines:  1,
	}

	result := styles.FormatDebugState(state)

	assert.Contains(t, result, "17 (line 3, column 2)")
	assert.Contains(t, result, "Normal > RawText(script)")
	assert.Contains(t, result, "` x3")
	assert.Contains(t, result, "blank:")
}
