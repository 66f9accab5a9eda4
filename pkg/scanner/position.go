package scanner

// Position tracking. The scanner maintains absolute offset plus 1-based
// line and column incrementally; nothing ever recomputes them by
// rescanning from the start of the buffer. Columns count bytes, with
// tabs expanding to the next multiple of the configured tab width.

// scannerState is the complete mutable state of a scanner, snapshot by
// value for checkpoints. The mode stack is the only reference-holding
// field and is cloned by snapshot().
type scannerState struct {
	offset int
	line   int // 1-based
	column int // 1-based, tab-expanded

	atLineStart        bool
	precedingLineBreak bool
	blankLines         int

	modes modeStack
	fence fenceContext
}

// fenceContext tracks an open fenced code block: only a line-start run of
// exactly `length` repeats of `char` closes it.
type fenceContext struct {
	active bool
	char   byte
	length int
}

func newScannerState() scannerState {
	return scannerState{line: 1, column: 1, atLineStart: true}
}

// snapshot returns a deep copy safe to retain across further scanning.
func (st *scannerState) snapshot() scannerState {
	cp := *st
	cp.modes = st.modes.clone()
	return cp
}

// advanceTo walks src[st.offset:to] updating line and column. CRLF counts
// as a single line break; a NUL byte is treated like a terminator, which
// matches the provisional pass.
func (st *scannerState) advanceTo(src []byte, to, tabWidth int) {
	i := st.offset
	if to > len(src) {
		to = len(src)
	}
	for i < to {
		switch c := src[i]; {
		case c == '\n' || c == 0:
			st.line++
			st.column = 1
			i++
		case c == '\r':
			st.line++
			st.column = 1
			i++
			if i < to && src[i] == '\n' {
				i++
			}
		case c == '\t':
			st.column = ((st.column-1)/tabWidth+1)*tabWidth + 1
			i++
		default:
			st.column++
			i++
		}
	}
	st.offset = to
	st.atLineStart = st.column == 1
}
