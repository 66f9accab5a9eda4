package scanner

import (
	"strconv"
	"strings"
)

// TokenFlags is a bitset of per-token facts the tree builder depends on.
// Bit positions are pinned: they are part of the scanner's contract and
// must not be renumbered. Bits 16-21 carry the delimiter run length.
type TokenFlags uint32

const (
	FlagNone TokenFlags = 0

	// FlagAtLineStart marks a token that begins at column 1 (ignoring
	// nothing: indentation whitespace itself is at line start, the text
	// after it is not).
	FlagAtLineStart TokenFlags = 1 << 0

	// FlagPrecedingLineBreak marks a token preceded by at least one line
	// terminator.
	FlagPrecedingLineBreak TokenFlags = 1 << 1

	// FlagBlankLine marks a newline token that completes a blank line.
	FlagBlankLine TokenFlags = 1 << 2

	// FlagCanOpen marks a delimiter run eligible to open emphasis per the
	// flanking rules.
	FlagCanOpen TokenFlags = 1 << 3

	// FlagCanClose marks a delimiter run eligible to close emphasis.
	FlagCanClose TokenFlags = 1 << 4

	// FlagHardBreakHint marks a newline preceded by two or more spaces.
	FlagHardBreakHint TokenFlags = 1 << 5

	// FlagOrderedListMarker marks a numeric literal of line-start
	// "1." / "1)" shape.
	FlagOrderedListMarker TokenFlags = 1 << 6

	// FlagOrderedListParen marks an ordered list marker delimited by ')'
	// rather than '.'.
	FlagOrderedListParen TokenFlags = 1 << 7

	// FlagHTMLBlock marks the '<' of a block-level HTML start tag at line
	// start.
	FlagHTMLBlock TokenFlags = 1 << 8

	// FlagUnterminated marks a construct cut short by end of input
	// (raw text, comment, fenced code).
	FlagUnterminated TokenFlags = 1 << 9

	// FlagMaybeDefinition marks a line-start '[' that is followed by a
	// "[label]:" link definition shape.
	FlagMaybeDefinition TokenFlags = 1 << 10

	runLengthShift             = 16
	runLengthBits              = 6
	runLengthMax               = 1<<runLengthBits - 1
	runLengthMask   TokenFlags = runLengthMax << runLengthShift
)

// RunLength returns the marker run length carried in bits 16-21, for
// backtick/tilde/marker run tokens. Runs longer than 63 saturate.
func (f TokenFlags) RunLength() int {
	return int(f&runLengthMask) >> runLengthShift
}

func (f TokenFlags) withRunLength(n int) TokenFlags {
	if n > runLengthMax {
		n = runLengthMax
	}
	if n < 0 {
		n = 0
	}
	return (f &^ runLengthMask) | TokenFlags(n)<<runLengthShift
}

// Has reports whether every bit in mask is set.
func (f TokenFlags) Has(mask TokenFlags) bool {
	return f&mask == mask
}

var flagNames = []struct {
	bit  TokenFlags
	name string
}{
	{FlagAtLineStart, "AtLineStart"},
	{FlagPrecedingLineBreak, "PrecedingLineBreak"},
	{FlagBlankLine, "BlankLine"},
	{FlagCanOpen, "CanOpen"},
	{FlagCanClose, "CanClose"},
	{FlagHardBreakHint, "HardBreakHint"},
	{FlagOrderedListMarker, "OrderedListMarker"},
	{FlagOrderedListParen, "OrderedListParen"},
	{FlagHTMLBlock, "HTMLBlock"},
	{FlagUnterminated, "Unterminated"},
	{FlagMaybeDefinition, "MaybeDefinition"},
}

// String renders the set bits as a comma-separated list, with the run
// length appended as "Run=N" when present.
func (f TokenFlags) String() string {
	if f == FlagNone {
		return "None"
	}
	var parts []string
	for _, fn := range flagNames {
		if f&fn.bit != 0 {
			parts = append(parts, fn.name)
		}
	}
	if n := f.RunLength(); n > 0 {
		parts = append(parts, "Run="+strconv.Itoa(n))
	}
	if len(parts) == 0 {
		return "None"
	}
	return strings.Join(parts, ",")
}

// FlagByName returns the flag bit with the given name, or (FlagNone,
// false) if unknown. Run lengths are not addressable by name.
func FlagByName(name string) (TokenFlags, bool) {
	for _, fn := range flagNames {
		if fn.name == name {
			return fn.bit, true
		}
	}
	return FlagNone, false
}
