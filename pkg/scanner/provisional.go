package scanner

// Phase 1 of the scanner: a single cheap pass over a bounded span of the
// buffer that classifies surface shape into packed provisional records.
// Records are ephemeral; they live in a reused buffer between one
// resolution point and the next and are consumed by the semantic
// assembler in resolve.go. The bit layout of a record is defined only in
// this file.

// recordShape is the coarse shape tag carried in the high bits of a
// provisional record.
type recordShape uint8

const (
	shapeNone       recordShape = iota
	shapeText                   // plain-text run
	shapeWhitespace             // space/tab run
	shapeNewline                // \n, \r, \r\n, or defensive NUL
	shapePunct                  // run of one repeated punctuation byte
	shapeEntity                 // '&...;' consumed by the entity resolver
	shapeEscape                 // backslash + punctuation
	shapeComment                // '<!-- ... -->' (possibly unterminated)
)

// provisionalRecord packs a span length and a shape tag into one integer:
// low 24 bits hold the length in bytes, bits 24-30 hold the shape.
type provisionalRecord uint32

const (
	recLengthBits                   = 24
	recLengthMask provisionalRecord = 1<<recLengthBits - 1
)

func packRecord(shape recordShape, length int) provisionalRecord {
	return provisionalRecord(shape)<<recLengthBits | provisionalRecord(length)&recLengthMask
}

func (r provisionalRecord) shape() recordShape {
	return recordShape(r >> recLengthBits)
}

func (r provisionalRecord) length() int {
	return int(r & recLengthMask)
}

func (r provisionalRecord) grow(n int) provisionalRecord {
	return packRecord(r.shape(), r.length()+n)
}

// recordSpanLength returns the summed length of a record run. The sum
// always equals the number of bytes scanned between two resolution points.
func recordSpanLength(records []provisionalRecord) int {
	total := 0
	for _, r := range records {
		total += r.length()
	}
	return total
}

// structuralPunct reports whether the byte is classified as a punctuation
// run in phase 1. Everything else outside whitespace, line terminators,
// '&' and '\' merges into plain text.
func structuralPunct(b byte) bool {
	switch b {
	case '#', '*', '_', '~', '`', '[', ']', '(', ')', '<', '>', '|', ':', '=', '+', '-', '/', '&':
		return true
	}
	return false
}

func isSpaceTab(b byte) bool {
	return b == ' ' || b == '\t'
}

func isLineBreak(b byte) bool {
	return b == '\n' || b == '\r' || b == 0
}

func isASCIIAlpha(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

func isASCIIDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isASCIIAlnum(b byte) bool {
	return isASCIIAlpha(b) || isASCIIDigit(b)
}

// asciiPunct matches the CommonMark escapable punctuation set.
func asciiPunct(b byte) bool {
	return b >= '!' && b <= '/' || b >= ':' && b <= '@' || b >= '[' && b <= '`' || b >= '{' && b <= '~'
}

// scanSpan walks src[start:stop] once, appending provisional records to
// out, and returns the offset of the resolution point it stopped at.
// Every iteration makes strictly positive progress. The span never
// extends past a confirmed blank line, a line-start block marker, the end
// of the buffer, or the '>' of a raw-text/RCDATA opening tag.
func scanSpan(src []byte, start, stop int, atLineStart bool, out *[]provisionalRecord) int {
	i := start
	lineStart := atLineStart
	base := len(*out)

	// stopAfter forces the span to end at a fixed offset (used to include
	// a raw-text opening tag in the current span before a mode switch).
	stopAfter := -1

	// A span that begins with a block marker covers exactly that line, so
	// the marker never joins with continuation text.
	markerLine := atLineStart && start < stop && startsBlockMarker(src, start, stop)

	last := func() provisionalRecord {
		if len(*out) == base {
			return 0
		}
		return (*out)[len(*out)-1]
	}
	setLast := func(r provisionalRecord) {
		(*out)[len(*out)-1] = r
	}
	emit := func(shape recordShape, length int) {
		*out = append(*out, packRecord(shape, length))
	}

	for i < stop {
		if stopAfter >= 0 && i >= stopAfter {
			break
		}

		c := src[i]

		if lineStart && i > start && stopAfter < 0 && startsBlockMarker(src, i, stop) {
			// A new block context begins here; resolve what we have first.
			break
		}

		switch {
		case c == '\n' || c == '\r' || c == 0:
			length := 1
			if c == '\r' && i+1 < stop && src[i+1] == '\n' {
				length = 2
			}
			wasLineStart := lineStart
			emit(shapeNewline, length)
			i += length
			lineStart = true
			if wasLineStart || markerLine {
				// A blank line, or the end of a single-line block
				// construct, settles the span.
				return i
			}

		case isSpaceTab(c):
			if last().shape() == shapeWhitespace {
				setLast(last().grow(1))
			} else {
				emit(shapeWhitespace, 1)
			}
			i++

		case c == '&':
			length, _, _ := tryEntity(src, i, stop)
			if length > 0 {
				emit(shapeEntity, length)
				i += length
			} else {
				emit(shapePunct, 1)
				i++
			}
			lineStart = false

		case c == '\\':
			if i+1 < stop && asciiPunct(src[i+1]) {
				emit(shapeEscape, 2)
				i += 2
			} else {
				i = appendText(out, base, 1, i)
			}
			lineStart = false

		case c == '<':
			if length := commentLength(src, i, stop); length > 0 {
				emit(shapeComment, length)
				i += length
				lineStart = false
				break
			}
			if tag := matchModeSwitchTag(src, i, stop); tag > 0 {
				if len(*out) > base {
					// Resolve pending content before the mode switch.
					return i
				}
				stopAfter = i + tag
			}
			emit(shapePunct, 1)
			i++
			lineStart = false

		case structuralPunct(c):
			run := 1
			for i+run < stop && src[i+run] == c {
				run++
			}
			if last().shape() == shapePunct && src[i-1] == c {
				setLast(last().grow(run))
			} else {
				emit(shapePunct, run)
			}
			i += run
			lineStart = false

		default:
			i = appendText(out, base, 1, i)
			lineStart = false
		}
	}

	return i
}

// appendText adds one byte of plain text at offset i, merging into a
// previous text record when possible. A preceding "word<space>" pair is
// retroactively folded into the text run so a "word word" pattern becomes
// a single record. Returns the next offset.
func appendText(out *[]provisionalRecord, base, n, i int) int {
	recs := *out
	top := len(recs) - base
	switch {
	case top >= 1 && recs[len(recs)-1].shape() == shapeText:
		recs[len(recs)-1] = recs[len(recs)-1].grow(n)
	case top >= 2 && recs[len(recs)-1].shape() == shapeWhitespace && recs[len(recs)-1].length() == 1 &&
		recs[len(recs)-2].shape() == shapeText:
		merged := recs[len(recs)-2].grow(1 + n)
		recs = recs[:len(recs)-1]
		recs[len(recs)-1] = merged
		*out = recs
	default:
		*out = append(recs, packRecord(shapeText, n))
	}
	return i + n
}

// commentLength returns the byte length of an HTML comment starting at i,
// including an unterminated one that runs to the end of the buffer.
// Returns 0 if src[i:] does not start a comment.
func commentLength(src []byte, i, stop int) int {
	if i+4 > stop || src[i] != '<' || src[i+1] != '!' || src[i+2] != '-' || src[i+3] != '-' {
		return 0
	}
	for j := i + 4; j+3 <= stop; j++ {
		if src[j] == '-' && src[j+1] == '-' && src[j+2] == '>' {
			return j + 3 - i
		}
	}
	return stop - i
}

// startsBlockMarker reports whether the text at a line start begins a
// construct that changes block context: ATX heading, blockquote, list
// bullet, ordered list marker, thematic-break or setext candidate line,
// fence run, table row, or an HTML tag.
func startsBlockMarker(src []byte, i, stop int) bool {
	switch c := src[i]; c {
	case '#':
		run := punctRunLength(src, i, stop, '#')
		if run > 6 {
			return false
		}
		return i+run >= stop || isSpaceTab(src[i+run]) || isLineBreak(src[i+run])
	case '>', '|':
		return true
	case '-', '+', '*', '_':
		if c != '_' && i+1 < stop && isSpaceTab(src[i+1]) {
			return true // bullet
		}
		return isMarkerLine(src, i, stop, c)
	case '=':
		return isMarkerLine(src, i, stop, '=')
	case '`', '~':
		return punctRunLength(src, i, stop, c) >= 3
	case '<':
		return i+1 < stop && (isASCIIAlpha(src[i+1]) || src[i+1] == '/' || src[i+1] == '!')
	case '[':
		return definitionShapeLength(src, i, stop) > 0
	}
	if isASCIIDigit(src[i]) {
		return orderedMarkerLength(src, i, stop) > 0
	}
	return false
}

func punctRunLength(src []byte, i, stop int, c byte) int {
	n := 0
	for i+n < stop && src[i+n] == c {
		n++
	}
	return n
}

// isMarkerLine reports whether the rest of the line holds only the marker
// byte and space/tab, with at least one marker. Covers thematic breaks,
// setext underlines, and frontmatter fences.
func isMarkerLine(src []byte, i, stop int, c byte) bool {
	seen := 0
	for ; i < stop && !isLineBreak(src[i]); i++ {
		switch {
		case src[i] == c:
			seen++
		case isSpaceTab(src[i]):
		default:
			return false
		}
	}
	return seen >= 1
}

// orderedMarkerLength returns the length of a "12." / "12)" ordered list
// marker shape (digits plus delimiter, excluding the required trailing
// space), or 0.
func orderedMarkerLength(src []byte, i, stop int) int {
	n := 0
	for i+n < stop && isASCIIDigit(src[i+n]) {
		n++
	}
	if n == 0 || i+n >= stop {
		return 0
	}
	if d := src[i+n]; d != '.' && d != ')' {
		return 0
	}
	if i+n+1 < stop && !isSpaceTab(src[i+n+1]) && !isLineBreak(src[i+n+1]) {
		return 0
	}
	return n + 1
}

// definitionShapeLength returns the length of a line-start "[label]:"
// shape up to and including the colon, or 0. The label may not contain
// brackets or line breaks.
func definitionShapeLength(src []byte, i, stop int) int {
	if src[i] != '[' {
		return 0
	}
	for j := i + 1; j < stop && !isLineBreak(src[j]); j++ {
		switch src[j] {
		case '[':
			return 0
		case ']':
			if j+1 < stop && src[j+1] == ':' {
				return j + 2 - i
			}
			return 0
		}
	}
	return 0
}

// matchModeSwitchTag returns the length of an opening raw-text or RCDATA
// tag ("<script ...>", "<style>", "<textarea>", "<title>") at offset i,
// or 0. The tag must close with '>' on the same line.
func matchModeSwitchTag(src []byte, i, stop int) int {
	if src[i] != '<' || i+1 >= stop || !isASCIIAlpha(src[i+1]) {
		return 0
	}
	j := i + 1
	for j < stop && isASCIIAlpha(src[j]) {
		j++
	}
	name := toLowerASCII(string(src[i+1 : j]))
	if _, ok := rawTextTags[name]; !ok {
		if _, ok := rcdataTags[name]; !ok {
			return 0
		}
	}
	if j < stop && !isSpaceTab(src[j]) && src[j] != '>' && src[j] != '/' {
		return 0
	}
	for ; j < stop && !isLineBreak(src[j]); j++ {
		if src[j] == '>' {
			return j + 1 - i
		}
	}
	return 0
}
