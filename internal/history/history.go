// Package history implements bounded undo/redo stacks of owned snapshots.
//
// Each stack entry owns its snapshot and releases it when the entry is
// popped and discarded, evicted for capacity or dropped because a new
// record cleared the redo stack. Records made while a snapshot is being
// applied are ignored, so applying state never pollutes history.
package history

import "errors"

// DefaultCapacity is the default number of entries kept per stack.
const DefaultCapacity = 50

// ErrCorruptSnapshot is returned when the snapshot on top of a stack fails
// validation. The entry is discarded.
var ErrCorruptSnapshot = errors.New("history: corrupt snapshot")

// Snapshot is a saved state owned by a stack entry.
type Snapshot interface {
	// Valid reports whether the snapshot can be applied.
	Valid() bool
	// Release frees the snapshot's resources. It is called exactly once.
	Release()
}

// Entry is one labeled history record.
type Entry[S Snapshot] struct {
	Label string
	State S
}

// Manager owns the undo and redo stacks.
type Manager[S Snapshot] struct {
	undo      []Entry[S]
	redo      []Entry[S]
	capacity  int
	replaying bool
}

// New creates a manager keeping at most capacity entries per stack.
// A non-positive capacity uses DefaultCapacity.
func New[S Snapshot](capacity int) *Manager[S] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Manager[S]{capacity: capacity}
}

// Capacity returns the per-stack limit.
func (m *Manager[S]) Capacity() int { return m.capacity }

// Replaying reports whether a snapshot is being applied.
func (m *Manager[S]) Replaying() bool { return m.replaying }

// Record pushes s as the newest undo entry and clears the redo stack.
// While replaying, s is released and nothing is recorded; Record reports
// whether s was kept.
func (m *Manager[S]) Record(label string, s S) bool {
	if m.replaying {
		s.Release()
		return false
	}
	var evicted []Entry[S]
	m.undo, evicted = m.push(m.undo, Entry[S]{Label: label, State: s})
	releaseEntries(evicted)
	m.redo = releaseAll(m.redo)
	return true
}

// Undo restores the newest undo entry.
//
// capture returns the live state; it is pushed onto the redo stack before
// apply runs. If apply fails both stacks are restored and the error is
// returned. ok is false when there was nothing to undo.
func (m *Manager[S]) Undo(capture func() (S, error), apply func(S) error) (label string, ok bool, err error) {
	return m.step(&m.undo, &m.redo, capture, apply)
}

// Redo restores the newest redo entry. It mirrors Undo.
func (m *Manager[S]) Redo(capture func() (S, error), apply func(S) error) (label string, ok bool, err error) {
	return m.step(&m.redo, &m.undo, capture, apply)
}

func (m *Manager[S]) step(from, to *[]Entry[S], capture func() (S, error), apply func(S) error) (string, bool, error) {
	if len(*from) == 0 {
		return "", false, nil
	}
	top := (*from)[len(*from)-1]
	*from = (*from)[:len(*from)-1]

	if !top.State.Valid() {
		top.State.Release()
		return top.Label, false, ErrCorruptSnapshot
	}

	live, err := capture()
	if err != nil {
		*from = append(*from, top)
		return top.Label, false, err
	}
	saved := *to
	var evicted []Entry[S]
	*to, evicted = m.push(*to, Entry[S]{Label: top.Label, State: live})

	m.replaying = true
	err = apply(top.State)
	m.replaying = false

	if err != nil {
		live.Release()
		*to = saved
		*from = append(*from, top)
		return top.Label, false, err
	}
	releaseEntries(evicted)
	top.State.Release()
	return top.Label, true, nil
}

// push appends e and returns the stack together with the oldest entries
// dropped to stay within capacity. Dropped entries are not released.
func (m *Manager[S]) push(stack []Entry[S], e Entry[S]) (kept, evicted []Entry[S]) {
	stack = append(stack, e)
	over := len(stack) - m.capacity
	if over <= 0 {
		return stack, nil
	}
	evicted = append([]Entry[S](nil), stack[:over]...)
	kept = append(make([]Entry[S], 0, m.capacity), stack[over:]...)
	return kept, evicted
}

// CanUndo reports whether an undo entry exists.
func (m *Manager[S]) CanUndo() bool { return len(m.undo) > 0 }

// CanRedo reports whether a redo entry exists.
func (m *Manager[S]) CanRedo() bool { return len(m.redo) > 0 }

// UndoLen returns the number of undo entries.
func (m *Manager[S]) UndoLen() int { return len(m.undo) }

// RedoLen returns the number of redo entries.
func (m *Manager[S]) RedoLen() int { return len(m.redo) }

// UndoLabel returns the label of the newest undo entry.
func (m *Manager[S]) UndoLabel() string {
	if len(m.undo) == 0 {
		return ""
	}
	return m.undo[len(m.undo)-1].Label
}

// RedoLabel returns the label of the newest redo entry.
func (m *Manager[S]) RedoLabel() string {
	if len(m.redo) == 0 {
		return ""
	}
	return m.redo[len(m.redo)-1].Label
}

// Entries returns the undo entries, oldest first. The slice must not be
// modified.
func (m *Manager[S]) Entries() []Entry[S] { return m.undo }

// Clear releases every entry of both stacks.
func (m *Manager[S]) Clear() {
	m.undo = releaseAll(m.undo)
	m.redo = releaseAll(m.redo)
}

func releaseEntries[S Snapshot](entries []Entry[S]) {
	for _, e := range entries {
		e.State.Release()
	}
}

func releaseAll[S Snapshot](entries []Entry[S]) []Entry[S] {
	releaseEntries(entries)
	clear(entries)
	return entries[:0]
}
