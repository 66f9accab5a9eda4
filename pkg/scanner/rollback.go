package scanner

import (
	"fmt"
	"sort"
)

// RollbackKind describes the boundary a caller believes a rollback
// position sits on. The scanner restores from the nearest recorded
// boundary at or before the position regardless, so a mistaken kind
// costs rescanning work but never correctness.
type RollbackKind uint8

const (
	// RollbackDocumentStart targets the start of the scan region.
	RollbackDocumentStart RollbackKind = iota
	// RollbackBlankLineBoundary targets a position just after a blank line.
	RollbackBlankLineBoundary
	// RollbackLineStart targets the first column of a line.
	RollbackLineStart
	// RollbackRawTextContent targets a position inside raw-text or
	// RCDATA content.
	RollbackRawTextContent
)

func (k RollbackKind) String() string {
	switch k {
	case RollbackDocumentStart:
		return "DocumentStart"
	case RollbackBlankLineBoundary:
		return "BlankLineBoundary"
	case RollbackLineStart:
		return "LineStart"
	case RollbackRawTextContent:
		return "RawTextContent"
	default:
		return fmt.Sprintf("RollbackKind(%d)", uint8(k))
	}
}

// InvalidRollbackError reports a rollback target outside the current
// scan region.
type InvalidRollbackError struct {
	Position int
	Start    int
	End      int
}

func (e *InvalidRollbackError) Error() string {
	return fmt.Sprintf("scanner: rollback position %d outside scan region [%d, %d]", e.Position, e.Start, e.End)
}

// rollbackMark is a restorable boundary: the full scanner state as it
// was when the scan position sat exactly at pos.
type rollbackMark struct {
	pos   int
	kind  RollbackKind
	state scannerState
}

func (s *Scanner) recordMark(pos int, kind RollbackKind) {
	if n := len(s.marks); n > 0 && s.marks[n-1].pos == pos {
		return
	}
	s.marks = append(s.marks, rollbackMark{pos: pos, kind: kind, state: s.state.snapshot()})
}

// Rollback moves the scan position back to position. The kind is
// advisory; restoration always starts from a recorded boundary at or
// before the position and replays forward, so mode stack, fence context
// and line accounting stay consistent. Rolling forward past the current
// position is also accepted. Returns *InvalidRollbackError when the
// position lies outside the scan region.
func (s *Scanner) Rollback(position int, kind RollbackKind) error {
	if position < s.start || position > s.end {
		return &InvalidRollbackError{Position: position, Start: s.start, End: s.end}
	}
	if kind == RollbackDocumentStart && position != s.start {
		return &InvalidRollbackError{Position: position, Start: s.start, End: s.end}
	}

	idx := sort.Search(len(s.marks), func(i int) bool {
		return s.marks[i].pos > position
	}) - 1
	if idx < 0 {
		// The document-start mark recorded by SetTextRange always
		// qualifies; reaching here means marks were truncated, so
		// rebuild from scratch.
		s.state = newScannerState()
		s.state.offset = s.start
	} else {
		s.state = s.marks[idx].state.snapshot()
		s.marks = s.marks[:idx+1]
	}
	s.state.advanceTo(s.src, position, s.tabWidth)

	s.pending = s.pending[:0]
	s.pendIdx = 0
	s.tok = pendingToken{kind: TokUnknown, start: position, end: position}
	return nil
}

// Checkpoint is an opaque snapshot of the full scanner state, including
// the current token and any queued lookahead. Restore with Restore.
type Checkpoint struct {
	state    scannerState
	tok      pendingToken
	pending  []pendingToken
	pendIdx  int
	marksLen int
}

// Checkpoint captures the complete scanner state.
func (s *Scanner) Checkpoint() Checkpoint {
	cp := Checkpoint{
		state:    s.state.snapshot(),
		tok:      s.tok,
		pendIdx:  s.pendIdx,
		marksLen: len(s.marks),
	}
	if len(s.pending) > 0 {
		cp.pending = make([]pendingToken, len(s.pending))
		copy(cp.pending, s.pending)
	}
	return cp
}

// Restore rewinds the scanner to a previously captured checkpoint. The
// checkpoint must come from this scanner with the same bound text.
func (s *Scanner) Restore(cp Checkpoint) {
	s.state = cp.state.snapshot()
	s.tok = cp.tok
	s.pending = append(s.pending[:0], cp.pending...)
	s.pendIdx = cp.pendIdx
	if cp.marksLen <= len(s.marks) {
		s.marks = s.marks[:cp.marksLen]
	}
}

// LookAhead runs fn and restores the scanner state afterwards no matter
// what fn returns. fn may Scan freely; its return value is passed
// through.
func (s *Scanner) LookAhead(fn func() bool) bool {
	cp := s.Checkpoint()
	defer s.Restore(cp)
	return fn()
}

// TryScan runs fn and keeps the resulting scanner state when fn returns
// true; on false the state is restored.
func (s *Scanner) TryScan(fn func() bool) bool {
	cp := s.Checkpoint()
	ok := fn()
	if !ok {
		s.Restore(cp)
	}
	return ok
}
