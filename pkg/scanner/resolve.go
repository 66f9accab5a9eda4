package scanner

import "strings"

// Phase 2 of the scanner: the semantic assembler. It consumes the
// provisional record run produced since the last resolution point and
// emits final tokens: delimiter runs are paired against their openers,
// code spans are matched by exact run length, adjacent text is coalesced,
// and whitespace normalization and paragraph line joining are applied to
// materialized text. The assembler never rescans classification: it walks
// the records, reading source bytes only to materialize and to answer
// context questions phase 1 already bounded.

// pendingToken is a token queued between the assembler and Scan.
type pendingToken struct {
	kind  TokenKind
	start int
	end   int
	flags TokenFlags

	// text is the materialized override; when hasText is false the token
	// text is the raw source slice.
	text    string
	hasText bool
}

// spanEffect reports state transitions the scanner must apply after
// queuing the span's tokens.
type spanEffect struct {
	fenceOpen bool
	fenceChar byte
	fenceLen  int

	pushMode modeKind
	pushTag  string
}

// item is an intermediate token candidate inside the assembler.
type item struct {
	pendingToken

	marker     byte
	canOpen    bool
	canClose   bool
	candidate  bool // participates in delimiter/code-span resolution
	structural bool // line-start marker, exempt from pairing and demotion
	verbatim   bool // code-span content, exempt from normalization
}

// recordCursor walks the span bytes guided by the record run, allowing
// partial consumption of a record (a tag parse may end mid-record).
type recordCursor struct {
	src     []byte
	records []provisionalRecord
	idx     int
	used    int
	offset  int
	stop    int
}

func (c *recordCursor) done() bool { return c.offset >= c.stop }

func (c *recordCursor) shape() recordShape {
	if c.idx >= len(c.records) {
		return shapeNone
	}
	return c.records[c.idx].shape()
}

// remaining returns the unconsumed byte count of the current record.
func (c *recordCursor) remaining() int {
	if c.idx >= len(c.records) {
		return 0
	}
	return c.records[c.idx].length() - c.used
}

func (c *recordCursor) advance(n int) {
	c.offset += n
	for n > 0 && c.idx < len(c.records) {
		left := c.records[c.idx].length() - c.used
		if n < left {
			c.used += n
			return
		}
		n -= left
		c.idx++
		c.used = 0
	}
}

// assembler holds the working state for resolving one span.
type assembler struct {
	src      []byte
	spanEnd  int
	docStart int

	items  []item
	effect spanEffect

	// per-line context
	lineStart     bool // cursor sits at column 1
	lineHasText   bool
	lineStartOff  int
	markerLine    bool // line holds only one marker byte and whitespace
	tableDelim    bool // line is a table delimiter row shape
	defColonAt    int  // offset of the ':' of a "[label]:" shape, or -1
	fenceInfoOpen bool // a fence just opened; rest of line is info string
}

// resolveSpan turns the record run for src[spanStart:spanStart+len] into
// pending tokens appended to out. atLineStart and precedingLineBreak
// describe the scanner state at spanStart.
func resolveSpan(src []byte, spanStart, docStart int, records []provisionalRecord,
	atLineStart, precedingLineBreak bool, out []pendingToken) ([]pendingToken, spanEffect) {

	a := &assembler{
		src:          src,
		spanEnd:      spanStart + recordSpanLength(records),
		docStart:     docStart,
		lineStart:    atLineStart,
		lineStartOff: spanStart,
		defColonAt:   -1,
	}
	if a.lineStart {
		a.classifyLine(spanStart)
	}

	cur := &recordCursor{src: src, records: records, offset: spanStart, stop: a.spanEnd}
	for !cur.done() {
		a.step(cur)
	}

	a.resolveCodeSpans()
	a.pairDelimiters()
	return a.emit(out, atLineStart, precedingLineBreak), a.effect
}

// classifyLine computes once-per-line context used by punctuation
// classification: marker-line shape, table delimiter shape, and the
// link-definition colon position.
func (a *assembler) classifyLine(off int) {
	a.markerLine = false
	a.tableDelim = false
	a.defColonAt = -1
	a.fenceInfoOpen = false
	a.lineHasText = false
	a.lineStartOff = off

	if off >= a.spanEnd {
		return
	}
	switch c := a.src[off]; c {
	case '-', '*', '_', '=':
		a.markerLine = isMarkerLine(a.src, off, a.spanEnd, c)
	case '[':
		if n := definitionShapeLength(a.src, off, a.spanEnd); n > 0 {
			a.defColonAt = off + n - 1
		}
	}
	a.tableDelim = isTableDelimiterLine(a.src, off, a.spanEnd)
}

// isTableDelimiterLine reports whether the line holds only the characters
// a table alignment row may contain, with at least one dash.
func isTableDelimiterLine(src []byte, i, stop int) bool {
	dashes := 0
	pipes := 0
	for ; i < stop && !isLineBreak(src[i]); i++ {
		switch src[i] {
		case '-':
			dashes++
		case '|':
			pipes++
		case ':':
		case ' ', '\t':
		default:
			return false
		}
	}
	return dashes >= 1 && pipes >= 1
}

func (a *assembler) push(it item) {
	a.items = append(a.items, it)
}

func (a *assembler) pushToken(kind TokenKind, start, end int, flags TokenFlags) {
	a.push(item{pendingToken: pendingToken{kind: kind, start: start, end: end, flags: flags}})
}

// pushText pushes a plain-text item covering [start, end).
func (a *assembler) pushText(start, end int) {
	a.push(item{pendingToken: pendingToken{kind: TokStringLiteral, start: start, end: end}})
}

// step consumes one unit at the cursor and appends items.
func (a *assembler) step(cur *recordCursor) {
	off := cur.offset
	switch cur.shape() {
	case shapeNewline:
		n := cur.remaining()
		flags := FlagNone
		if a.lineStart {
			flags |= FlagBlankLine
		}
		if a.lineHasText && off-2 >= a.lineStartOff && a.src[off-1] == ' ' && a.src[off-2] == ' ' {
			flags |= FlagHardBreakHint
		}
		a.pushToken(TokNewline, off, off+n, flags)
		cur.advance(n)
		a.lineStart = true
		a.classifyLine(cur.offset)

	case shapeWhitespace:
		n := cur.remaining()
		a.pushToken(TokWhitespace, off, off+n, FlagNone)
		cur.advance(n)
		a.lineStart = false

	case shapeText:
		n := cur.remaining()
		if a.lineStart && isASCIIDigit(a.src[off]) {
			if m := orderedMarkerLength(a.src, off, a.spanEnd); m > 0 {
				flags := FlagOrderedListMarker
				if a.src[off+m-1] == ')' {
					flags |= FlagOrderedListParen
				}
				a.pushToken(TokNumericLiteral, off, off+m, flags)
				cur.advance(m)
				a.lineStart = false
				a.lineHasText = true
				return
			}
		}
		a.pushText(off, off+n)
		cur.advance(n)
		a.lineStart = false
		a.lineHasText = true

	case shapeEscape:
		a.push(item{pendingToken: pendingToken{
			kind: TokStringLiteral, start: off, end: off + 2,
			text: string(a.src[off+1 : off+2]), hasText: true,
		}})
		cur.advance(2)
		a.lineStart = false
		a.lineHasText = true

	case shapeEntity:
		n := cur.remaining()
		raw := a.src[off : off+n]
		a.push(item{pendingToken: pendingToken{
			kind: TokEntity, start: off, end: off + n,
			text: decodeEntity(raw), hasText: true,
		}})
		cur.advance(n)
		a.lineStart = false
		a.lineHasText = true

	case shapeComment:
		n := cur.remaining()
		flags := FlagNone
		if n < 7 || string(a.src[off+n-3:off+n]) != "-->" {
			flags |= FlagUnterminated
		}
		a.pushToken(TokHTMLComment, off, off+n, flags)
		cur.advance(n)
		a.lineStart = false

	case shapePunct:
		a.stepPunct(cur)

	default:
		// Defensive: consume one byte as text so progress never stalls.
		a.pushText(off, off+1)
		cur.advance(1)
	}
}

// stepPunct classifies a punctuation run against its line context.
func (a *assembler) stepPunct(cur *recordCursor) {
	off := cur.offset
	c := a.src[off]
	n := cur.remaining()
	atLineStart := a.lineStart
	a.lineStart = false

	if a.fenceInfoOpen {
		// Inside a fence info string everything is literal.
		a.pushText(off, off+n)
		cur.advance(n)
		return
	}

	switch c {
	case '#':
		after := off + n
		headOK := atLineStart && n <= 6 &&
			(after >= a.spanEnd || isSpaceTab(a.src[after]) || isLineBreak(a.src[after]))
		if headOK {
			a.pushToken(TokHash, off, off+n, FlagNone.withRunLength(n))
		} else {
			a.pushText(off, off+n)
			a.lineHasText = true
		}
		cur.advance(n)

	case '>':
		for i := 0; i < n; i++ {
			a.pushToken(TokGreaterThan, off+i, off+i+1, FlagNone)
		}
		cur.advance(n)

	case '<':
		if tag := parseTag(a.src, off, a.spanEnd); tag.ok {
			a.pushTag(tag, atLineStart)
			cur.advance(tag.end - off)
			return
		}
		a.pushText(off, off+1)
		a.lineHasText = true
		cur.advance(1)

	case '*', '_':
		if a.markerLine {
			kind := TokAsterisk
			if c == '_' {
				kind = TokUnderscore
			}
			a.push(item{pendingToken: pendingToken{
				kind: kind, start: off, end: off + n,
				flags: FlagNone.withRunLength(n),
			}, structural: true})
			cur.advance(n)
			return
		}
		if atLineStart && c == '*' && n == 1 && off+1 < a.spanEnd && isSpaceTab(a.src[off+1]) {
			// List bullet.
			a.push(item{pendingToken: pendingToken{
				kind: TokAsterisk, start: off, end: off + 1,
				flags: FlagNone.withRunLength(1),
			}, structural: true})
			cur.advance(1)
			return
		}
		a.pushEmphasisRun(c, off, n)
		cur.advance(n)

	case '~':
		switch {
		case atLineStart && n >= 3:
			a.openFence(c, off, n)
			cur.advance(n)
		case n == 2:
			run := evalDelimiterRun(a.src, off, off+n, c)
			a.push(item{pendingToken: pendingToken{kind: TokTildeTilde, start: off, end: off + n},
				marker: c, canOpen: run.canOpen, canClose: run.canClose, candidate: true})
			cur.advance(n)
		default:
			a.pushText(off, off+n)
			a.lineHasText = true
			cur.advance(n)
		}

	case '`':
		if atLineStart && n >= 3 {
			a.openFence(c, off, n)
			cur.advance(n)
			return
		}
		a.push(item{pendingToken: pendingToken{
			kind: TokBacktickRun, start: off, end: off + n,
			flags: FlagNone.withRunLength(n),
		}, marker: c, candidate: true})
		cur.advance(n)

	case '-':
		switch {
		case a.markerLine:
			kind := TokDash
			flags := FlagNone.withRunLength(n)
			if n == 3 && off == a.lineStartOff && lineEndsAt(a.src, off+n, a.spanEnd) {
				kind = TokDashDashDash
			}
			a.push(item{pendingToken: pendingToken{kind: kind, start: off, end: off + n, flags: flags},
				structural: true})
		case a.tableDelim:
			a.push(item{pendingToken: pendingToken{
				kind: TokDash, start: off, end: off + n,
				flags: FlagNone.withRunLength(n),
			}, structural: true})
		case atLineStart && n == 1 && off+1 < a.spanEnd && isSpaceTab(a.src[off+1]):
			a.push(item{pendingToken: pendingToken{
				kind: TokDash, start: off, end: off + 1,
				flags: FlagNone.withRunLength(1),
			}, structural: true})
		default:
			a.pushText(off, off+n)
			a.lineHasText = true
		}
		cur.advance(n)

	case '+':
		if atLineStart && n == 1 && off+1 < a.spanEnd && isSpaceTab(a.src[off+1]) {
			a.push(item{pendingToken: pendingToken{kind: TokPlus, start: off, end: off + 1},
				structural: true})
		} else {
			a.pushText(off, off+n)
			a.lineHasText = true
		}
		cur.advance(n)

	case '=':
		if a.markerLine {
			a.push(item{pendingToken: pendingToken{
				kind: TokEquals, start: off, end: off + n,
				flags: FlagNone.withRunLength(n),
			}, structural: true})
		} else {
			a.pushText(off, off+n)
			a.lineHasText = true
		}
		cur.advance(n)

	case '|':
		for i := 0; i < n; i++ {
			a.pushToken(TokPipe, off+i, off+i+1, FlagNone)
		}
		cur.advance(n)

	case ':':
		if a.tableDelim || off == a.defColonAt {
			a.pushToken(TokColon, off, off+1, FlagNone)
		} else {
			a.pushText(off, off+1)
			a.lineHasText = true
		}
		cur.advance(1)

	case '[':
		flags := FlagNone
		if off+definitionShapeLength(a.src, off, a.spanEnd) == a.defColonAt+1 && a.defColonAt >= 0 {
			flags |= FlagMaybeDefinition
		}
		a.pushToken(TokOpenBracket, off, off+1, flags)
		cur.advance(1)

	case ']':
		a.pushToken(TokCloseBracket, off, off+1, FlagNone)
		cur.advance(1)

	case '(':
		a.pushToken(TokOpenParen, off, off+1, FlagNone)
		cur.advance(1)

	case ')':
		a.pushToken(TokCloseParen, off, off+1, FlagNone)
		cur.advance(1)

	case '&':
		a.pushToken(TokAmpersand, off, off+1, FlagNone)
		cur.advance(1)

	default:
		a.pushText(off, off+n)
		a.lineHasText = true
		cur.advance(n)
	}
}

func lineEndsAt(src []byte, i, stop int) bool {
	return i >= stop || isLineBreak(src[i])
}

// pushEmphasisRun emits a '*' or '_' run as a delimiter candidate with
// flanking eligibility computed against the neighboring bytes.
func (a *assembler) pushEmphasisRun(c byte, off, n int) {
	run := evalDelimiterRun(a.src, off, off+n, c)
	kind := TokAsterisk
	switch {
	case c == '*' && n == 2:
		kind = TokAsteriskAsterisk
	case c == '_' && n == 2:
		kind = TokUnderscoreUnderscore
	case c == '_':
		kind = TokUnderscore
	}
	a.push(item{pendingToken: pendingToken{
		kind: kind, start: off, end: off + n,
		flags: FlagNone.withRunLength(n),
	}, marker: c, canOpen: run.canOpen, canClose: run.canClose, candidate: true})
}

// openFence records a fence-open effect and switches the rest of the line
// into info-string handling.
func (a *assembler) openFence(c byte, off, n int) {
	kind := TokBacktickRun
	if c == '~' {
		kind = TokTildeRun
	}
	a.push(item{pendingToken: pendingToken{
		kind: kind, start: off, end: off + n,
		flags: FlagNone.withRunLength(n),
	}, structural: true})
	a.effect.fenceOpen = true
	a.effect.fenceChar = c
	a.effect.fenceLen = n
	a.fenceInfoOpen = true
}

// pushTag emits the token run for a parsed HTML tag and records a mode
// push when the tag opens a raw-text or RCDATA element.
func (a *assembler) pushTag(tag tagParse, atLineStart bool) {
	openKind := TokLessThan
	openEnd := tag.start + 1
	if tag.closing {
		openKind = TokLessThanSlash
		openEnd = tag.start + 2
	}
	openFlags := FlagNone
	if atLineStart && !tag.closing && isBlockLevelTag(tag.name) {
		openFlags |= FlagHTMLBlock
	}
	a.pushToken(openKind, tag.start, openEnd, openFlags)
	a.pushToken(TokIdentifier, tag.nameStart, tag.nameEnd, FlagNone)

	if tag.gtStart > tag.nameEnd {
		attrs := a.src[tag.nameEnd:tag.gtStart]
		kind := TokHTMLText
		if len(strings.TrimLeft(string(attrs), " \t")) == 0 {
			kind = TokWhitespace
		}
		a.pushToken(kind, tag.nameEnd, tag.gtStart, FlagNone)
	}

	closeKind := TokGreaterThan
	if tag.selfClosing {
		closeKind = TokSlashGreaterThan
	}
	a.pushToken(closeKind, tag.gtStart, tag.end, FlagNone)

	if !tag.closing && !tag.selfClosing {
		if mode := modeForTag(tag.name); mode != modeNormal {
			a.effect.pushMode = mode
			a.effect.pushTag = toLowerASCII(tag.name)
		}
	}
}

// tagParse is the result of attempting to read an HTML tag.
type tagParse struct {
	ok          bool
	closing     bool
	selfClosing bool
	start       int
	nameStart   int
	nameEnd     int
	gtStart     int // offset of '>' or of the '/' in '/>'
	end         int
	name        string
}

// parseTag reads an HTML tag at src[i]: '<' ['/'] name attrs ['/'] '>'.
// The tag must close on the same line; quoted attribute values may
// contain '>'.
func parseTag(src []byte, i, stop int) tagParse {
	t := tagParse{start: i}
	j := i + 1
	if j < stop && src[j] == '/' {
		t.closing = true
		j++
	}
	if j >= stop || !isASCIIAlpha(src[j]) {
		return t
	}
	t.nameStart = j
	for j < stop && (isASCIIAlnum(src[j]) || src[j] == '-') {
		j++
	}
	t.nameEnd = j
	t.name = string(src[t.nameStart:t.nameEnd])

	var quote byte
	for ; j < stop && !isLineBreak(src[j]); j++ {
		c := src[j]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '>':
			t.gtStart = j
			t.end = j + 1
			t.ok = true
			return t
		case c == '/' && j+1 < stop && src[j+1] == '>' && !t.closing:
			t.selfClosing = true
			t.gtStart = j
			t.end = j + 2
			t.ok = true
			return t
		}
	}
	return t
}

// resolveCodeSpans pairs backtick runs of exactly equal length and
// replaces the enclosed items with one verbatim text item. An opening run
// with no equal-length closer is marked unterminated.
func (a *assembler) resolveCodeSpans() {
	items := a.items
	resolved := items[:0:0]
	for i := 0; i < len(items); i++ {
		it := items[i]
		if !it.candidate || it.kind != TokBacktickRun || it.structural {
			resolved = append(resolved, it)
			continue
		}
		n := it.end - it.start
		match := -1
		for j := i + 1; j < len(items); j++ {
			other := items[j]
			if other.candidate && other.kind == TokBacktickRun && !other.structural &&
				other.end-other.start == n {
				match = j
				break
			}
		}
		if match < 0 {
			it.flags |= FlagUnterminated
			it.candidate = false
			resolved = append(resolved, it)
			continue
		}
		it.candidate = false
		closer := items[match]
		closer.candidate = false
		resolved = append(resolved, it)
		if closer.start > it.end {
			resolved = append(resolved, item{pendingToken: pendingToken{
				kind: TokStringLiteral, start: it.end, end: closer.start,
				text: string(a.src[it.end:closer.start]), hasText: true,
			}, verbatim: true})
		}
		resolved = append(resolved, closer)
		i = match
	}
	a.items = resolved
}

// pairDelimiters runs the stack-based opener/closer pairing over emphasis
// and strikethrough candidates. Paired runs keep their kind and gain
// CanOpen/CanClose; everything unpaired degrades to plain text.
func (a *assembler) pairDelimiters() {
	var stack []int
	for i := range a.items {
		it := &a.items[i]
		if !it.candidate {
			continue
		}
		if it.canClose {
			matched := false
			for k := len(stack) - 1; k >= 0; k-- {
				opener := &a.items[stack[k]]
				if opener.marker == it.marker && opener.end-opener.start == it.end-it.start {
					opener.flags |= FlagCanOpen
					opener.candidate = false
					it.flags |= FlagCanClose
					it.candidate = false
					stack = append(stack[:k], stack[k+1:]...)
					matched = true
					break
				}
			}
			if matched {
				continue
			}
		}
		if it.canOpen {
			stack = append(stack, i)
		}
	}
	// Anything still marked candidate found no partner.
	for i := range a.items {
		it := &a.items[i]
		if it.candidate && it.kind != TokBacktickRun {
			it.kind = TokStringLiteral
			it.flags = FlagNone
			it.hasText = false
			it.candidate = false
		}
	}
}

// emit coalesces items into final tokens, applying whitespace
// normalization, paragraph line joining, and positional flags.
func (a *assembler) emit(out []pendingToken, atLineStart, precedingLineBreak bool) []pendingToken {
	items := a.items
	lineStartOff := -1
	if atLineStart && len(items) > 0 {
		lineStartOff = items[0].start
	}
	prevNewline := precedingLineBreak

	appendTok := func(tok pendingToken) {
		if tok.start == lineStartOff {
			tok.flags |= FlagAtLineStart
		}
		if prevNewline {
			tok.flags |= FlagPrecedingLineBreak
		}
		prevNewline = tok.kind == TokNewline
		if prevNewline {
			lineStartOff = tok.end
		}
		out = append(out, tok)
	}

	for i := 0; i < len(items); i++ {
		it := items[i]
		if it.kind != TokStringLiteral || it.verbatim {
			appendTok(it.pendingToken)
			continue
		}

		// Grow a text group: adjacent text, interior whitespace, and at
		// most one joinable line break per gap fold into one token.
		var parts []string
		part := func(p item) string {
			if p.hasText {
				return p.text
			}
			return string(a.src[p.start:p.end])
		}
		parts = append(parts, part(it))
		end := it.end
		j := i + 1
		for j < len(items) {
			if items[j].kind == TokStringLiteral && !items[j].verbatim {
				parts = append(parts, part(items[j]))
				end = items[j].end
				j++
				continue
			}
			// Scan a separator gap: whitespace plus at most one plain
			// line break, which must lead to more text.
			k := j
			breaks := 0
			gapOK := true
			for k < len(items) && gapOK {
				if items[k].kind == TokStringLiteral && !items[k].verbatim {
					break
				}
				switch items[k].kind {
				case TokWhitespace:
					k++
				case TokNewline:
					if breaks > 0 || items[k].flags&(FlagBlankLine|FlagHardBreakHint) != 0 {
						gapOK = false
					} else {
						breaks++
						k++
					}
				default:
					gapOK = false
				}
			}
			if !gapOK || k >= len(items) || items[k].kind != TokStringLiteral || items[k].verbatim {
				break
			}
			for m := j; m < k; m++ {
				parts = append(parts, string(a.src[items[m].start:items[m].end]))
			}
			parts = append(parts, part(items[k]))
			end = items[k].end
			j = k + 1
		}
		i = j - 1

		tok := pendingToken{
			kind:  TokStringLiteral,
			start: it.start,
			end:   end,
		}
		tok.text = collapseWhitespace(strings.Join(parts, ""))
		tok.hasText = true
		appendTok(tok)
	}
	return out
}

// collapseWhitespace folds every run of space, tab and line terminators
// into a single space and trims the ends.
func collapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inRun := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == 0 {
			inRun = true
			continue
		}
		if inRun && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inRun = false
		b.WriteByte(c)
	}
	return b.String()
}
