// Package scanner implements a two-phase lexical scanner for a
// Markdown-superset markup language. A cheap provisional pass classifies
// the surface shape of a bounded span, and a semantic resolution pass
// turns the provisional records into position-accurate tokens with
// delimiter pairing, entity decoding, and whitespace normalization
// applied. The token stream is consumed by a downstream tree builder.
package scanner

// TokenKind classifies a token produced by the scanner.
type TokenKind uint16

// Token kinds. Every byte of the scanned region is covered by exactly one
// token, except where whitespace normalization stitches text across a
// line break.
const (
	TokUnknown TokenKind = iota
	TokEndOfFile

	TokStringLiteral // plain text, normalized
	TokWhitespace    // space/tab run not absorbed into text
	TokNewline       // \n, \r or \r\n

	TokHash                 // ATX heading marker run
	TokAsterisk             // '*' (emphasis, bullet, or marker run)
	TokAsteriskAsterisk     // '**'
	TokUnderscore           // '_'
	TokUnderscoreUnderscore // '__'
	TokTildeTilde           // '~~' strikethrough
	TokTildeRun             // '~~~...' fence run
	TokBacktickRun          // backtick run of any length
	TokDash                 // '-' (bullet, setext/thematic run)
	TokDashDashDash         // '---' frontmatter fence
	TokPlus                 // '+' bullet
	TokEquals               // '=' setext underline run
	TokPipe                 // '|' table cell separator
	TokColon                // ':' in table alignment or definition shape
	TokAmpersand            // '&' that failed to form an entity

	TokLessThan         // '<'
	TokLessThanSlash    // '</'
	TokGreaterThan      // '>' (tag close or blockquote marker)
	TokSlashGreaterThan // '/>'
	TokHTMLText         // verbatim HTML content (raw text, attributes)
	TokHTMLComment      // '<!-- ... -->'
	TokEntity           // '&name;', '&#nn;', '&#xhh;'

	TokOpenBracket  // '['
	TokCloseBracket // ']'
	TokOpenParen    // '('
	TokCloseParen   // ')'

	TokNumericLiteral // ordered list marker digits
	TokIdentifier     // HTML tag name

	tokenKindCount // sentinel, keep last
)

var tokenKindNames = [...]string{
	TokUnknown:              "Unknown",
	TokEndOfFile:            "EndOfFile",
	TokStringLiteral:        "StringLiteral",
	TokWhitespace:           "Whitespace",
	TokNewline:              "Newline",
	TokHash:                 "Hash",
	TokAsterisk:             "Asterisk",
	TokAsteriskAsterisk:     "AsteriskAsterisk",
	TokUnderscore:           "Underscore",
	TokUnderscoreUnderscore: "UnderscoreUnderscore",
	TokTildeTilde:           "TildeTilde",
	TokTildeRun:             "TildeRun",
	TokBacktickRun:          "BacktickRun",
	TokDash:                 "Dash",
	TokDashDashDash:         "DashDashDash",
	TokPlus:                 "Plus",
	TokEquals:               "Equals",
	TokPipe:                 "Pipe",
	TokColon:                "Colon",
	TokAmpersand:            "Ampersand",
	TokLessThan:             "LessThan",
	TokLessThanSlash:        "LessThanSlash",
	TokGreaterThan:          "GreaterThan",
	TokSlashGreaterThan:     "SlashGreaterThan",
	TokHTMLText:             "HTMLText",
	TokHTMLComment:          "HTMLComment",
	TokEntity:               "Entity",
	TokOpenBracket:          "OpenBracket",
	TokCloseBracket:         "CloseBracket",
	TokOpenParen:            "OpenParen",
	TokCloseParen:           "CloseParen",
	TokNumericLiteral:       "NumericLiteral",
	TokIdentifier:           "Identifier",
}

// String returns the stable name of the token kind.
func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) && tokenKindNames[k] != "" {
		return tokenKindNames[k]
	}
	return "Unknown"
}

// KindByName returns the TokenKind with the given stable name.
// Returns (TokUnknown, false) if the name is not a known kind.
func KindByName(name string) (TokenKind, bool) {
	for k, n := range tokenKindNames {
		if n == name {
			return TokenKind(k), true
		}
	}
	return TokUnknown, false
}

// Token is a materialized snapshot of a scanned token, as returned by
// Scanner.TokenValue and consumed by tooling. The scanner itself exposes
// the current token through individual accessors; this struct exists so
// callers can retain tokens past the next Scan call.
type Token struct {
	Kind  TokenKind
	Flags TokenFlags

	// Start is the absolute byte offset where the token begins (inclusive).
	Start int

	// End is the absolute byte offset where the token ends (exclusive).
	// End > Start for every kind except TokEndOfFile.
	End int

	// Text is the materialized token text: normalized for text and
	// whitespace runs, decoded for entities, verbatim otherwise.
	Text string
}

// Len returns the source length of the token in bytes.
func (t Token) Len() int {
	return t.End - t.Start
}

// ValidateStream checks that a token slice partitions [start, end):
// spans are in order, non-overlapping, gap-free, and every non-EOF token
// is non-empty. Normalized text may differ from the raw slice, but spans
// always account for every byte.
func ValidateStream(tokens []Token, start, end int) bool {
	at := start
	for _, tok := range tokens {
		if tok.Kind == TokEndOfFile {
			return tok.Start == end && tok.End == end
		}
		if tok.Start != at || tok.End <= tok.Start {
			return false
		}
		at = tok.End
	}
	return at == end
}
