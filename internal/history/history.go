// Package history implements a linear, snapshot based undo/redo stack.
package history

// Action tags what produced a history entry.
type Action int

const (
	ActionNone Action = iota
	ActionAdd
	ActionRemove
	ActionClear
)

func (a Action) String() string {
	switch a {
	case ActionAdd:
		return "add"
	case ActionRemove:
		return "remove"
	case ActionClear:
		return "clear"
	}
	return "none"
}

// Entry is one recorded state and the action that led to it.
type Entry[S any] struct {
	Action Action
	State  S
}

// Stack records tool states. Entry 0 is the base state; index points at the
// entry matching the tool's current state.
type Stack[S any] struct {
	entries []Entry[S]
	index   int
	clone   func(S) S
}

// New creates a stack whose base state is initial. clone must return a deep
// copy; it is applied on every push and restore.
func New[S any](initial S, clone func(S) S) *Stack[S] {
	s := &Stack[S]{clone: clone}
	s.Reset(initial)
	return s
}

// Reset drops all history and starts again from initial.
func (s *Stack[S]) Reset(initial S) {
	s.entries = []Entry[S]{{Action: ActionNone, State: s.clone(initial)}}
	s.index = 0
}

// Push records state as the result of action. Entries after the current
// index are discarded first.
func (s *Stack[S]) Push(action Action, state S) {
	s.entries = append(s.entries[:s.index+1], Entry[S]{Action: action, State: s.clone(state)})
	s.index = len(s.entries) - 1
}

// Undo steps back one entry and returns a copy of the restored state. It
// reports false at the start of history.
func (s *Stack[S]) Undo() (S, bool) {
	if s.index == 0 {
		var zero S
		return zero, false
	}
	s.index--
	return s.clone(s.entries[s.index].State), true
}

// Redo steps forward one entry. It reports false at the end of history.
func (s *Stack[S]) Redo() (S, bool) {
	if s.index >= len(s.entries)-1 {
		var zero S
		return zero, false
	}
	s.index++
	return s.clone(s.entries[s.index].State), true
}

// Amend applies fn to every recorded state, leaving the position in history
// unchanged. It is used for edits that are not actions of their own but must
// survive undo and redo.
func (s *Stack[S]) Amend(fn func(*S)) {
	for i := range s.entries {
		fn(&s.entries[i].State)
	}
}

// CanUndo reports whether Undo would succeed.
func (s *Stack[S]) CanUndo() bool { return s.index > 0 }

// CanRedo reports whether Redo would succeed.
func (s *Stack[S]) CanRedo() bool { return s.index < len(s.entries)-1 }

// Last returns the action of the current entry.
func (s *Stack[S]) Last() Action { return s.entries[s.index].Action }

// Len returns the number of recorded actions, excluding the base state.
func (s *Stack[S]) Len() int { return len(s.entries) - 1 }

// Index returns how many actions are currently applied.
func (s *Stack[S]) Index() int { return s.index }
