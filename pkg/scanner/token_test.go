package scanner_test

import (
	"testing"

	"github.com/yaklabco/gomdscan/pkg/scanner"
)

func TestTokenKindNames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind scanner.TokenKind
		name string
	}{
		{scanner.TokUnknown, "Unknown"},
		{scanner.TokEndOfFile, "EndOfFile"},
		{scanner.TokStringLiteral, "StringLiteral"},
		{scanner.TokWhitespace, "Whitespace"},
		{scanner.TokNewline, "Newline"},
		{scanner.TokHash, "Hash"},
		{scanner.TokAsteriskAsterisk, "AsteriskAsterisk"},
		{scanner.TokTildeRun, "TildeRun"},
		{scanner.TokBacktickRun, "BacktickRun"},
		{scanner.TokDashDashDash, "DashDashDash"},
		{scanner.TokAmpersand, "Ampersand"},
		{scanner.TokLessThanSlash, "LessThanSlash"},
		{scanner.TokSlashGreaterThan, "SlashGreaterThan"},
		{scanner.TokHTMLComment, "HTMLComment"},
		{scanner.TokEntity, "Entity"},
		{scanner.TokNumericLiteral, "NumericLiteral"},
		{scanner.TokIdentifier, "Identifier"},
	}

	for _, testCase := range tests {
		if got := testCase.kind.String(); got != testCase.name {
			t.Errorf("%d.String() = %q, want %q", testCase.kind, got, testCase.name)
		}
		kind, ok := scanner.KindByName(testCase.name)
		if !ok || kind != testCase.kind {
			t.Errorf("KindByName(%q) = %v, %v; want %v, true", testCase.name, kind, ok, testCase.kind)
		}
	}

	if got := scanner.TokenKind(9999).String(); got != "Unknown" {
		t.Errorf("out-of-range kind String() = %q, want Unknown", got)
	}
	if _, ok := scanner.KindByName("NoSuchKind"); ok {
		t.Error("KindByName accepted an unknown name")
	}
}

func TestTokenFlagBitsArePinned(t *testing.T) {
	t.Parallel()

	tests := []struct {
		flag scanner.TokenFlags
		bit  uint32
		name string
	}{
		{scanner.FlagAtLineStart, 1 << 0, "AtLineStart"},
		{scanner.FlagPrecedingLineBreak, 1 << 1, "PrecedingLineBreak"},
		{scanner.FlagBlankLine, 1 << 2, "BlankLine"},
		{scanner.FlagCanOpen, 1 << 3, "CanOpen"},
		{scanner.FlagCanClose, 1 << 4, "CanClose"},
		{scanner.FlagHardBreakHint, 1 << 5, "HardBreakHint"},
		{scanner.FlagOrderedListMarker, 1 << 6, "OrderedListMarker"},
		{scanner.FlagOrderedListParen, 1 << 7, "OrderedListParen"},
		{scanner.FlagHTMLBlock, 1 << 8, "HTMLBlock"},
		{scanner.FlagUnterminated, 1 << 9, "Unterminated"},
		{scanner.FlagMaybeDefinition, 1 << 10, "MaybeDefinition"},
	}

	for _, testCase := range tests {
		if uint32(testCase.flag) != testCase.bit {
			t.Errorf("%s = %#x, want %#x", testCase.name, uint32(testCase.flag), testCase.bit)
		}
		flag, ok := scanner.FlagByName(testCase.name)
		if !ok || flag != testCase.flag {
			t.Errorf("FlagByName(%q) = %#x, %v; want %#x, true", testCase.name, flag, ok, testCase.flag)
		}
	}
}

func TestTokenFlagsRunLength(t *testing.T) {
	t.Parallel()

	// Run lengths live in bits 16-21.
	if got := scanner.TokenFlags(5 << 16).RunLength(); got != 5 {
		t.Errorf("RunLength = %d, want 5", got)
	}
	if got := scanner.TokenFlags(63 << 16).RunLength(); got != 63 {
		t.Errorf("RunLength = %d, want 63", got)
	}
	if got := scanner.FlagAtLineStart.RunLength(); got != 0 {
		t.Errorf("RunLength of plain flag = %d, want 0", got)
	}
}

func TestTokenFlagsString(t *testing.T) {
	t.Parallel()

	if got := scanner.FlagNone.String(); got != "None" {
		t.Errorf("FlagNone.String() = %q, want None", got)
	}
	combined := scanner.FlagAtLineStart | scanner.FlagCanOpen | scanner.TokenFlags(3<<16)
	if got := combined.String(); got != "AtLineStart,CanOpen,Run=3" {
		t.Errorf("String() = %q", got)
	}
}

func TestValidateStream(t *testing.T) {
	t.Parallel()

	tok := func(kind scanner.TokenKind, start, end int) scanner.Token {
		return scanner.Token{Kind: kind, Start: start, End: end}
	}

	tests := []struct {
		name   string
		tokens []scanner.Token
		start  int
		end    int
		want   bool
	}{
		{
			name: "contiguous",
			tokens: []scanner.Token{
				tok(scanner.TokStringLiteral, 0, 4),
				tok(scanner.TokNewline, 4, 5),
				tok(scanner.TokEndOfFile, 5, 5),
			},
			start: 0, end: 5, want: true,
		},
		{
			name: "gap rejected",
			tokens: []scanner.Token{
				tok(scanner.TokStringLiteral, 0, 3),
				tok(scanner.TokNewline, 4, 5),
			},
			start: 0, end: 5, want: false,
		},
		{
			name: "overlap rejected",
			tokens: []scanner.Token{
				tok(scanner.TokStringLiteral, 0, 4),
				tok(scanner.TokNewline, 3, 5),
			},
			start: 0, end: 5, want: false,
		},
		{
			name: "empty non eof rejected",
			tokens: []scanner.Token{
				tok(scanner.TokStringLiteral, 0, 0),
			},
			start: 0, end: 0, want: false,
		},
		{
			name: "short coverage rejected",
			tokens: []scanner.Token{
				tok(scanner.TokStringLiteral, 0, 4),
			},
			start: 0, end: 5, want: false,
		},
		{
			name: "eof must sit at end",
			tokens: []scanner.Token{
				tok(scanner.TokStringLiteral, 0, 4),
				tok(scanner.TokEndOfFile, 4, 4),
			},
			start: 0, end: 5, want: false,
		},
		{
			name:   "empty stream over empty region",
			tokens: nil,
			start:  2, end: 2, want: true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := scanner.ValidateStream(testCase.tokens, testCase.start, testCase.end)
			if got != testCase.want {
				t.Errorf("ValidateStream = %v, want %v", got, testCase.want)
			}
		})
	}
}
