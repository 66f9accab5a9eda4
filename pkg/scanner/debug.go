package scanner

// DebugState is a diagnostic snapshot of scanner internals. It is meant
// for logging and test failure messages; nothing in the scanning path
// reads it back.
type DebugState struct {
	Offset int
	Line   int
	Column int

	AtLineStart        bool
	PrecedingLineBreak bool
	BlankLines         int

	Modes []string

	FenceActive bool
	FenceChar   byte
	FenceLength int

	Token  Token
	Queued int
}

// DebugState returns a freshly allocated snapshot.
func (s *Scanner) DebugState() *DebugState {
	d := &DebugState{}
	s.FillDebugState(d)
	return d
}

// FillDebugState writes the snapshot into d, reusing its Modes slice
// when capacity allows.
func (s *Scanner) FillDebugState(d *DebugState) {
	d.Offset = s.state.offset
	d.Line = s.state.line
	d.Column = s.state.column
	d.AtLineStart = s.state.atLineStart
	d.PrecedingLineBreak = s.state.precedingLineBreak
	d.BlankLines = s.state.blankLines

	d.Modes = d.Modes[:0]
	d.Modes = append(d.Modes, modeNormal.String())
	for _, m := range s.state.modes.stack {
		d.Modes = append(d.Modes, m.kind.String()+"("+m.tag+")")
	}

	d.FenceActive = s.state.fence.active
	d.FenceChar = s.state.fence.char
	d.FenceLength = s.state.fence.length

	d.Token = Token{
		Kind:  s.tok.kind,
		Flags: s.tok.flags,
		Start: s.tok.start,
		End:   s.tok.end,
	}
	if s.tok.hasText {
		d.Token.Text = s.tok.text
	}
	d.Queued = len(s.pending) - s.pendIdx
}
