// Package keyrange drives the equal-key/inequal-key event sequence between
// a left and a succession of right merge cursors, including the spanning
// rule for an equal-key run that straddles a right-block boundary under
// ALL strictness.
package keyrange

import "github.com/kasuganosora/mergejoin/mergecursor"

// EventKind distinguishes the two event shapes Merger emits.
type EventKind int

const (
	// InequalLeft marks left rows with no matching key on the right side
	// processed so far.
	InequalLeft EventKind = iota
	// Equal marks a matching key range on both sides.
	Equal
)

// Event is one unit of merge output. For InequalLeft, From/To bound the
// unmatched left rows; for Equal, Range carries both sides' matching
// positions and run lengths.
type Event struct {
	Kind  EventKind
	From  int
	To    int
	Range mergecursor.Range
}

// Merger tracks the running state of a single left block's merge against a
// succession of right blocks: the position up to which inequal-left rows
// have already been emitted, and any pending spanning carry-over.
type Merger struct {
	left  *mergecursor.Cursor
	isAll bool

	leftUnequalPos int
	leftKeyTail    int
}

// New builds a Merger over left, to be driven across right blocks in store
// order via repeated ProcessBlock calls.
func New(left *mergecursor.Cursor, isAll bool) *Merger {
	return &Merger{left: left, isAll: isAll, leftUnequalPos: left.Position()}
}

// LeftKeyTail reports the length of a left run left un-advanced by a
// spanning equal range, for driver-side bookkeeping or tests.
func (m *Merger) LeftKeyTail() int { return m.leftKeyTail }

// ProcessBlock drives the merge between the receiver's left cursor and
// right (one right block's cursor, freshly positioned at its start) until
// either side is exhausted or the spanning rule fires. It calls emit for
// every InequalLeft/Equal event produced along the way.
//
// Returns spanned == true when ALL strictness and this right block ran out
// mid-equal-run: the left cursor is deliberately left un-advanced past the
// run (so the next right block's matching rows are still found), and the
// pending run length is recorded in LeftKeyTail. The next ProcessBlock call
// takes the pending run over; Drain applies it once no right blocks remain.
func (m *Merger) ProcessBlock(right *mergecursor.Cursor, emit func(Event)) (spanned bool) {
	// A pending run from the previous block is either matched again below or
	// passed by the cursor; it is never reported as unmatched.
	m.leftKeyTail = 0
	for {
		rng := m.left.NextEqualRange(right)
		if rng.Empty() {
			if rng.LeftStart > m.leftUnequalPos {
				emit(Event{Kind: InequalLeft, From: m.leftUnequalPos, To: rng.LeftStart})
				m.leftUnequalPos = rng.LeftStart
			}
			return false
		}

		if rng.LeftStart > m.leftUnequalPos {
			emit(Event{Kind: InequalLeft, From: m.leftUnequalPos, To: rng.LeftStart})
		}
		emit(Event{Kind: Equal, Range: rng})
		right.Advance(rng.RightLen)

		if m.isAll && right.AtEnd() {
			m.leftKeyTail = rng.LeftLen
			m.leftUnequalPos = rng.LeftStart + rng.LeftLen
			return true
		}

		m.leftKeyTail = 0
		m.left.Advance(rng.LeftLen)
		m.leftUnequalPos = m.left.Position()
	}
}

// Drain is called once after every right block has been processed (or
// skipped via intersection). It applies any pending spanning carry-over by
// advancing the left cursor past the run, then emits a final InequalLeft
// event covering every left row from there to the end of the block — rows
// that found no match anywhere in the right side.
func (m *Merger) Drain(emit func(Event)) {
	if m.leftKeyTail > 0 {
		m.left.Advance(m.leftKeyTail)
		m.leftKeyTail = 0
		m.leftUnequalPos = m.left.Position()
	}
	if m.leftUnequalPos < m.left.End() {
		emit(Event{Kind: InequalLeft, From: m.leftUnequalPos, To: m.left.End()})
		m.leftUnequalPos = m.left.End()
	}
}
