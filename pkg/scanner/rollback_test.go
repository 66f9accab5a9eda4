package scanner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdscan/pkg/scanner"
)

const rollbackDoc = "alpha\n\nbeta\n\ngamma"

func TestRollbackToDocumentStart(t *testing.T) {
	t.Parallel()

	s := scanner.New()
	s.SetText([]byte(rollbackDoc))

	var first []scanner.Token
	for s.Scan() != scanner.TokEndOfFile {
		first = append(first, s.TokenValue())
	}

	require.NoError(t, s.Rollback(0, scanner.RollbackDocumentStart))

	var second []scanner.Token
	for s.Scan() != scanner.TokEndOfFile {
		second = append(second, s.TokenValue())
	}
	assert.Equal(t, first, second)
}

func TestRollbackToBlankLineBoundary(t *testing.T) {
	t.Parallel()

	s := scanner.New()
	s.SetText([]byte(rollbackDoc))

	betaStart := -1
	for s.Scan() != scanner.TokEndOfFile {
		if s.Token() == scanner.TokStringLiteral && s.TokenText() == "beta" {
			betaStart = s.TokenStart()
		}
	}
	require.Equal(t, 7, betaStart)

	require.NoError(t, s.Rollback(betaStart, scanner.RollbackBlankLineBoundary))

	require.Equal(t, scanner.TokStringLiteral, s.Scan())
	assert.Equal(t, "beta", s.TokenText())
	assert.Equal(t, betaStart, s.TokenStart())
	assert.True(t, s.TokenFlags().Has(scanner.FlagAtLineStart))
	assert.True(t, s.TokenFlags().Has(scanner.FlagPrecedingLineBreak))
}

func TestRollbackMidLine(t *testing.T) {
	t.Parallel()

	s := scanner.New()
	s.SetText([]byte(rollbackDoc))
	for s.Scan() != scanner.TokEndOfFile {
	}

	// Position 9 is inside "beta"; restoration replays from the nearest
	// boundary before it.
	require.NoError(t, s.Rollback(9, scanner.RollbackLineStart))

	require.Equal(t, scanner.TokStringLiteral, s.Scan())
	assert.Equal(t, 9, s.TokenStart())
	assert.Equal(t, "ta", s.TokenText())
	assert.False(t, s.TokenFlags().Has(scanner.FlagAtLineStart))
}

func TestRollbackErrors(t *testing.T) {
	t.Parallel()

	s := scanner.New()
	s.SetText([]byte(rollbackDoc))

	tests := []struct {
		name     string
		position int
		kind     scanner.RollbackKind
	}{
		{"negative position", -1, scanner.RollbackLineStart},
		{"past end", len(rollbackDoc) + 1, scanner.RollbackLineStart},
		{"document start kind elsewhere", 7, scanner.RollbackDocumentStart},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			err := s.Rollback(testCase.position, testCase.kind)
			require.Error(t, err)

			var invalid *scanner.InvalidRollbackError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, testCase.position, invalid.Position)
			assert.Contains(t, err.Error(), "rollback position")
		})
	}
}

func TestRollbackRestoresModeStack(t *testing.T) {
	t.Parallel()

	src := "<script>body</script>after"
	s := scanner.New()
	s.SetText([]byte(src))
	for s.Scan() != scanner.TokEndOfFile {
	}

	// Rolling back to the start of the raw-text content must rescan it as
	// raw text, not as normal markup.
	require.NoError(t, s.Rollback(8, scanner.RollbackRawTextContent))

	require.Equal(t, scanner.TokHTMLText, s.Scan())
	assert.Equal(t, "body", s.TokenText())
}

func TestCheckpointRestore(t *testing.T) {
	t.Parallel()

	s := scanner.New()
	s.SetText([]byte(rollbackDoc))

	require.Equal(t, scanner.TokStringLiteral, s.Scan())
	require.Equal(t, scanner.TokNewline, s.Scan())
	cp := s.Checkpoint()
	atCheckpoint := s.TokenValue()

	var ahead []scanner.Token
	for i := 0; i < 3; i++ {
		s.Scan()
		ahead = append(ahead, s.TokenValue())
	}

	s.Restore(cp)
	assert.Equal(t, atCheckpoint, s.TokenValue(), "current token restored")

	var replay []scanner.Token
	for i := 0; i < 3; i++ {
		s.Scan()
		replay = append(replay, s.TokenValue())
	}
	assert.Equal(t, ahead, replay)
}

func TestLookAheadAlwaysRestores(t *testing.T) {
	t.Parallel()

	s := scanner.New()
	s.SetText([]byte("one two\n\nthree"))
	require.Equal(t, scanner.TokStringLiteral, s.Scan())
	before := s.TokenValue()

	found := s.LookAhead(func() bool {
		for s.Scan() != scanner.TokEndOfFile {
			if s.TokenText() == "three" {
				return true
			}
		}
		return false
	})
	assert.True(t, found)
	assert.Equal(t, before, s.TokenValue(), "lookahead must not move the scanner")

	notFound := s.LookAhead(func() bool {
		for s.Scan() != scanner.TokEndOfFile {
			if s.TokenText() == "absent" {
				return true
			}
		}
		return false
	})
	assert.False(t, notFound)
	assert.Equal(t, before, s.TokenValue())
}

func TestTryScan(t *testing.T) {
	t.Parallel()

	t.Run("commits on success", func(t *testing.T) {
		t.Parallel()

		s := scanner.New()
		s.SetText([]byte("# Title\nBody"))

		ok := s.TryScan(func() bool {
			return s.Scan() == scanner.TokHash
		})
		require.True(t, ok)
		assert.Equal(t, scanner.TokHash, s.Token())

		require.Equal(t, scanner.TokWhitespace, s.Scan())
	})

	t.Run("restores on failure", func(t *testing.T) {
		t.Parallel()

		s := scanner.New()
		s.SetText([]byte("plain text"))

		ok := s.TryScan(func() bool {
			return s.Scan() == scanner.TokHash
		})
		require.False(t, ok)
		assert.Equal(t, scanner.TokUnknown, s.Token())

		require.Equal(t, scanner.TokStringLiteral, s.Scan())
		assert.Equal(t, "plain text", s.TokenText())
	})
}

func TestRollbackForwardFromBoundary(t *testing.T) {
	t.Parallel()

	s := scanner.New()
	s.SetText([]byte(rollbackDoc))
	require.Equal(t, scanner.TokStringLiteral, s.Scan())

	// Jumping ahead of the current position is allowed; the scanner
	// advances from the nearest boundary at or before the target.
	require.NoError(t, s.Rollback(13, scanner.RollbackBlankLineBoundary))

	require.Equal(t, scanner.TokStringLiteral, s.Scan())
	assert.Equal(t, "gamma", s.TokenText())
	assert.Equal(t, 13, s.TokenStart())
}
