package scanner

import (
	"strconv"
	"unicode/utf8"

	"github.com/yuin/goldmark/util"
)

// Character reference resolution. Named references come from the HTML5
// entity table shipped with goldmark. All three forms require the
// terminating ';'; on any shape failure the '&' is left for the caller to
// reclassify and nothing is consumed.

const (
	// maxEntityNameLength bounds the named-entity search. The longest
	// HTML5 entity name is 32 characters.
	maxEntityNameLength = 48

	maxDecimalDigits = 7
	maxHexDigits     = 6
)

// tryEntity attempts to match a character reference at the '&' in
// src[i:stop]. It returns the total byte length consumed (including '&'
// and ';'), the decoded text, and whether the reference actually decodes.
// A well-shaped named reference that is not in the table is consumed
// (length > 0) but not decoded (ok == false, decoded holds the verbatim
// source). A length of 0 means no reference was consumed at all.
func tryEntity(src []byte, i, stop int) (int, string, bool) {
	if i >= stop || src[i] != '&' {
		return 0, "", false
	}
	if i+1 < stop && src[i+1] == '#' {
		return tryNumericEntity(src, i, stop)
	}
	return tryNamedEntity(src, i, stop)
}

func tryNamedEntity(src []byte, i, stop int) (int, string, bool) {
	j := i + 1
	if j >= stop || !isASCIIAlpha(src[j]) {
		return 0, "", false
	}
	for ; j < stop && j-i <= maxEntityNameLength; j++ {
		c := src[j]
		if c == '&' {
			// Stop a possible quadratic search on "&&&&".
			return 0, "", false
		}
		if c == ';' {
			name := src[i+1 : j]
			if entity, ok := util.LookUpHTML5EntityByName(string(name)); ok {
				return j + 1 - i, string(entity.Characters), true
			}
			// Well-shaped but unknown: consumed, not decoded.
			return j + 1 - i, string(src[i : j+1]), false
		}
		if !isASCIIAlnum(c) {
			return 0, "", false
		}
	}
	return 0, "", false
}

func tryNumericEntity(src []byte, i, stop int) (int, string, bool) {
	j := i + 2
	hex := false
	if j < stop && (src[j] == 'x' || src[j] == 'X') {
		hex = true
		j++
	}
	digits := j
	maxDigits := maxDecimalDigits
	valid := isASCIIDigit
	base := 10
	if hex {
		maxDigits = maxHexDigits
		valid = isHexDigit
		base = 16
	}
	for j < stop && valid(src[j]) {
		j++
	}
	if j == digits || j-digits > maxDigits || j >= stop || src[j] != ';' {
		return 0, "", false
	}
	value, err := strconv.ParseInt(string(src[digits:j]), base, 32)
	if err != nil {
		return 0, "", false
	}
	return j + 1 - i, string(clampCodePoint(rune(value))), true
}

// clampCodePoint substitutes the replacement character for NUL, values
// outside the Unicode range, and surrogate halves.
func clampCodePoint(r rune) rune {
	if r <= 0 || r > utf8.MaxRune || (r >= 0xD800 && r <= 0xDFFF) {
		return utf8.RuneError
	}
	return r
}

func isHexDigit(b byte) bool {
	return isASCIIDigit(b) || b >= 'a' && b <= 'f' || b >= 'A' && b <= 'F'
}

// decodeEntity materializes the text of an entity token from its raw
// source span. Unknown named references stay verbatim.
func decodeEntity(raw []byte) string {
	length, decoded, _ := tryEntity(raw, 0, len(raw))
	if length != len(raw) {
		return string(raw)
	}
	return decoded
}
