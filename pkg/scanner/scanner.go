package scanner

// Scanner is the public scanning engine. It is exclusively owned by its
// caller and never used concurrently: Scan, Rollback, LookAhead and
// TryScan all mutate the one instance. The source buffer is borrowed
// immutably and must outlive the scanner.
type Scanner struct {
	src   []byte
	start int
	end   int

	tabWidth int

	state scannerState

	tok pendingToken

	pending []pendingToken
	pendIdx int

	// records is the reusable phase-1 output buffer.
	records []provisionalRecord

	marks []rollbackMark
}

// Option configures a Scanner.
type Option func(*Scanner)

// DefaultTabWidth is the column width a tab expands to unless configured
// otherwise.
const DefaultTabWidth = 4

// WithTabWidth sets the tab expansion width. Only 4 and 8 are accepted;
// anything else falls back to the default.
func WithTabWidth(width int) Option {
	return func(s *Scanner) {
		if width == 4 || width == 8 {
			s.tabWidth = width
		}
	}
}

// New returns a scanner with no text bound. Call SetText before Scan.
func New(opts ...Option) *Scanner {
	s := &Scanner{tabWidth: DefaultTabWidth}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetText binds the full buffer as the scan region and resets all state.
func (s *Scanner) SetText(src []byte) {
	s.SetTextRange(src, 0, len(src))
}

// SetTextRange binds src[start:start+length] as the scan region and
// resets all state. Out-of-range bounds are clamped to the buffer.
func (s *Scanner) SetTextRange(src []byte, start, length int) {
	if start < 0 {
		start = 0
	}
	if start > len(src) {
		start = len(src)
	}
	end := start + length
	if end > len(src) || length < 0 {
		end = len(src)
	}

	s.src = src
	s.start = start
	s.end = end
	s.state = newScannerState()
	s.state.offset = start
	s.tok = pendingToken{kind: TokUnknown, start: start, end: start}
	s.pending = s.pending[:0]
	s.pendIdx = 0
	s.records = s.records[:0]
	s.marks = s.marks[:0]
	s.recordMark(start, RollbackDocumentStart)
}

// Scan advances to the next token and returns its kind. The token is
// observable through Token, TokenText, TokenFlags, TokenStart and
// TokenEnd until the next call.
func (s *Scanner) Scan() TokenKind {
	for s.pendIdx >= len(s.pending) {
		if s.state.offset >= s.end {
			s.setEOF()
			return TokEndOfFile
		}
		s.pending = s.pending[:0]
		s.pendIdx = 0
		s.fillPending()
	}
	return s.pop()
}

// Token returns the kind of the current token.
func (s *Scanner) Token() TokenKind { return s.tok.kind }

// TokenStart returns the absolute start offset of the current token.
func (s *Scanner) TokenStart() int { return s.tok.start }

// TokenEnd returns the absolute end offset of the current token.
func (s *Scanner) TokenEnd() int { return s.tok.end }

// TokenFlags returns the flag bitset of the current token.
func (s *Scanner) TokenFlags() TokenFlags { return s.tok.flags }

// TokenText returns the materialized text of the current token:
// normalized for text runs, decoded for entities, verbatim otherwise.
// Materialization is lazy and cached until the next Scan.
func (s *Scanner) TokenText() string {
	if !s.tok.hasText {
		s.tok.text = string(s.src[s.tok.start:s.tok.end])
		s.tok.hasText = true
	}
	return s.tok.text
}

// TokenValue returns the current token as a retained snapshot.
func (s *Scanner) TokenValue() Token {
	return Token{
		Kind:  s.tok.kind,
		Flags: s.tok.flags,
		Start: s.tok.start,
		End:   s.tok.end,
		Text:  s.TokenText(),
	}
}

// fillPending runs one scan cycle for the current lexical state,
// queueing at least one token. A cycle that produces nothing queues a
// one-byte Unknown token so progress never stalls.
func (s *Scanner) fillPending() {
	off := s.state.offset
	switch {
	case s.state.fence.active:
		s.scanFenceLine()
	case s.state.modes.current().kind == modeRawText:
		s.scanRawText()
	case s.state.modes.current().kind == modeRCDATA:
		s.scanRCDATA()
	default:
		s.scanNormalSpan()
	}
	if len(s.pending) == 0 {
		s.pending = append(s.pending, pendingToken{kind: TokUnknown, start: off, end: off + 1})
	}
}

// scanNormalSpan runs phase 1 to the next resolution point and phase 2
// over the record run, then applies fence and mode transitions.
func (s *Scanner) scanNormalSpan() {
	s.records = s.records[:0]
	spanStart := s.state.offset
	scanSpan(s.src, spanStart, s.end, s.state.atLineStart, &s.records)

	var eff spanEffect
	s.pending, eff = resolveSpan(s.src, spanStart, s.start, s.records,
		s.state.atLineStart, s.state.precedingLineBreak, s.pending)

	if eff.fenceOpen {
		s.state.fence = fenceContext{active: true, char: eff.fenceChar, length: eff.fenceLen}
	}
	if eff.pushMode != modeNormal {
		s.state.modes.push(eff.pushMode, eff.pushTag)
	}
}

// scanFenceLine consumes one line inside an open fenced code block:
// either the closing fence (a line-start run of exactly the opening
// length, up to three spaces of indent allowed) or one verbatim content
// line.
func (s *Scanner) scanFenceLine() {
	off := s.state.offset
	first := true
	add := func(kind TokenKind, start, end int, flags TokenFlags) {
		if first {
			flags |= FlagAtLineStart
			if s.state.precedingLineBreak {
				flags |= FlagPrecedingLineBreak
			}
			first = false
		}
		s.pending = append(s.pending, pendingToken{kind: kind, start: start, end: end, flags: flags})
	}

	fence := s.state.fence
	i := off
	for i < s.end && s.src[i] == ' ' && i-off < 3 {
		i++
	}
	runStart := i
	run := punctRunLength(s.src, i, s.end, fence.char)
	if run == fence.length {
		rest := runStart + run
		for rest < s.end && isSpaceTab(s.src[rest]) {
			rest++
		}
		if rest >= s.end || isLineBreak(s.src[rest]) {
			kind := TokBacktickRun
			if fence.char == '~' {
				kind = TokTildeRun
			}
			if runStart > off {
				add(TokWhitespace, off, runStart, FlagNone)
			}
			add(kind, runStart, runStart+run, FlagNone.withRunLength(run))
			if rest > runStart+run {
				add(TokWhitespace, runStart+run, rest, FlagNone)
			}
			s.addNewlineAt(rest, &first, FlagNone)
			s.state.fence = fenceContext{}
			return
		}
	}

	lineEnd := off
	for lineEnd < s.end && !isLineBreak(s.src[lineEnd]) {
		lineEnd++
	}
	if lineEnd > off {
		flags := FlagNone
		if lineEnd >= s.end {
			flags |= FlagUnterminated
		}
		add(TokStringLiteral, off, lineEnd, flags)
	}
	s.addNewlineAt(lineEnd, &first, FlagNone)
}

// addNewlineAt queues the line terminator starting at pos, if any.
func (s *Scanner) addNewlineAt(pos int, first *bool, flags TokenFlags) {
	if pos >= s.end || !isLineBreak(s.src[pos]) {
		return
	}
	n := 1
	if s.src[pos] == '\r' && pos+1 < s.end && s.src[pos+1] == '\n' {
		n = 2
	}
	if *first {
		flags |= FlagAtLineStart
		if s.state.precedingLineBreak {
			flags |= FlagPrecedingLineBreak
		}
		*first = false
	}
	s.pending = append(s.pending, pendingToken{kind: TokNewline, start: pos, end: pos + n, flags: flags})
}

// scanRawText consumes verbatim content up to the matching closing tag
// of the current raw-text element. No markup or entities are recognized
// in the content.
func (s *Scanner) scanRawText() {
	off := s.state.offset
	s.recordMark(off, RollbackRawTextContent)
	tag := s.state.modes.current().tag
	first := true
	flags := func() TokenFlags {
		f := FlagNone
		if first {
			if s.state.atLineStart {
				f |= FlagAtLineStart
			}
			if s.state.precedingLineBreak {
				f |= FlagPrecedingLineBreak
			}
			first = false
		}
		return f
	}

	close, found := findCloseTag(s.src, off, s.end, tag)
	if !found {
		s.pending = append(s.pending, pendingToken{
			kind: TokHTMLText, start: off, end: s.end,
			flags: flags() | FlagUnterminated,
		})
		return
	}
	if close.lt > off {
		s.pending = append(s.pending, pendingToken{
			kind: TokHTMLText, start: off, end: close.lt, flags: flags(),
		})
	}
	s.queueCloseTag(close, flags)
	s.state.modes.pop()
}

// scanRCDATA consumes content of a textarea/title element: entities
// decode, markup does not, until the matching closing tag.
func (s *Scanner) scanRCDATA() {
	off := s.state.offset
	s.recordMark(off, RollbackRawTextContent)
	tag := s.state.modes.current().tag
	first := true
	flags := func() TokenFlags {
		f := FlagNone
		if first {
			if s.state.atLineStart {
				f |= FlagAtLineStart
			}
			if s.state.precedingLineBreak {
				f |= FlagPrecedingLineBreak
			}
			first = false
		}
		return f
	}
	flush := func(from, to int, extra TokenFlags) {
		if to > from {
			s.pending = append(s.pending, pendingToken{
				kind: TokHTMLText, start: from, end: to, flags: flags() | extra,
			})
		}
	}

	textStart := off
	i := off
	for i < s.end {
		if s.src[i] == '<' {
			if close, found := matchCloseTagAt(s.src, i, s.end, tag); found {
				flush(textStart, i, FlagNone)
				s.queueCloseTag(close, flags)
				s.state.modes.pop()
				return
			}
		}
		if s.src[i] == '&' {
			if length, decoded, _ := tryEntity(s.src, i, s.end); length > 0 {
				flush(textStart, i, FlagNone)
				s.pending = append(s.pending, pendingToken{
					kind: TokEntity, start: i, end: i + length,
					flags: flags(), text: decoded, hasText: true,
				})
				i += length
				textStart = i
				continue
			}
		}
		i++
	}
	flush(textStart, s.end, FlagUnterminated)
}

// closeTagPos locates the pieces of a "</name >" closing tag.
type closeTagPos struct {
	lt        int // '<'
	nameStart int
	nameEnd   int
	gt        int // '>'
}

// queueCloseTag emits the token run for a located closing tag.
func (s *Scanner) queueCloseTag(pos closeTagPos, flags func() TokenFlags) {
	s.pending = append(s.pending, pendingToken{
		kind: TokLessThanSlash, start: pos.lt, end: pos.lt + 2, flags: flags(),
	})
	s.pending = append(s.pending, pendingToken{
		kind: TokIdentifier, start: pos.nameStart, end: pos.nameEnd, flags: flags(),
	})
	if pos.gt > pos.nameEnd {
		s.pending = append(s.pending, pendingToken{
			kind: TokWhitespace, start: pos.nameEnd, end: pos.gt, flags: flags(),
		})
	}
	s.pending = append(s.pending, pendingToken{
		kind: TokGreaterThan, start: pos.gt, end: pos.gt + 1, flags: flags(),
	})
}

// findCloseTag searches src[from:stop] for the first case-insensitive
// "</name" closing tag followed by optional space/tab and '>'.
func findCloseTag(src []byte, from, stop int, name string) (closeTagPos, bool) {
	for i := from; i < stop; i++ {
		if src[i] != '<' {
			continue
		}
		if pos, ok := matchCloseTagAt(src, i, stop, name); ok {
			return pos, true
		}
	}
	return closeTagPos{}, false
}

// matchCloseTagAt matches "</name >" at exactly offset i.
func matchCloseTagAt(src []byte, i, stop int, name string) (closeTagPos, bool) {
	if i+2+len(name) > stop || src[i] != '<' || src[i+1] != '/' {
		return closeTagPos{}, false
	}
	nameStart := i + 2
	for k := 0; k < len(name); k++ {
		c := src[nameStart+k]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c != name[k] {
			return closeTagPos{}, false
		}
	}
	j := nameStart + len(name)
	if j < stop && (isASCIIAlnum(src[j]) || src[j] == '-') {
		// Longer tag name, not ours.
		return closeTagPos{}, false
	}
	gt := j
	for gt < stop && isSpaceTab(src[gt]) {
		gt++
	}
	if gt >= stop || src[gt] != '>' {
		return closeTagPos{}, false
	}
	return closeTagPos{lt: i, nameStart: nameStart, nameEnd: j, gt: gt}, true
}

// pop makes the next queued token current and advances position state
// through its span.
func (s *Scanner) pop() TokenKind {
	tok := s.pending[s.pendIdx]
	s.pendIdx++

	s.state.advanceTo(s.src, tok.end, s.tabWidth)
	s.state.precedingLineBreak = tok.kind == TokNewline
	if tok.kind == TokNewline {
		kind := RollbackLineStart
		if tok.flags.Has(FlagBlankLine) {
			s.state.blankLines++
			kind = RollbackBlankLineBoundary
		}
		s.recordMark(tok.end, kind)
	}

	s.tok = tok
	return tok.kind
}

// setEOF makes the end-of-file token current.
func (s *Scanner) setEOF() {
	flags := FlagNone
	if s.state.precedingLineBreak {
		flags |= FlagPrecedingLineBreak
	}
	if s.state.atLineStart {
		flags |= FlagAtLineStart
	}
	if s.state.fence.active || s.state.modes.current().kind != modeNormal {
		flags |= FlagUnterminated
	}
	s.tok = pendingToken{kind: TokEndOfFile, start: s.end, end: s.end, flags: flags, hasText: true}
}
