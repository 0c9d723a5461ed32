package history

import (
	"reflect"
	"testing"
)

func cloneInts(in []int) []int {
	if in == nil {
		return nil
	}
	return append([]int(nil), in...)
}

func TestUndoRedoInverse(t *testing.T) {
	s := New([]int{1}, cloneInts)
	before := []int{1}
	after := []int{1, 2}
	s.Push(ActionAdd, after)

	got, ok := s.Undo()
	if !ok || !reflect.DeepEqual(got, before) {
		t.Fatalf("undo: got %v ok=%v", got, ok)
	}
	got, ok = s.Redo()
	if !ok || !reflect.DeepEqual(got, after) {
		t.Fatalf("redo: got %v ok=%v", got, ok)
	}
}

func TestAmendReachesEveryEntry(t *testing.T) {
	s := New([]int{1}, cloneInts)
	s.Push(ActionAdd, []int{1, 2})
	s.Push(ActionAdd, []int{1, 2, 3})
	s.Amend(func(st *[]int) {
		for i := range *st {
			(*st)[i] *= 10
		}
	})
	if s.Index() != 2 {
		t.Fatalf("index moved to %d", s.Index())
	}
	got, _ := s.Undo()
	if !reflect.DeepEqual(got, []int{10, 20}) {
		t.Fatalf("undo after amend: %v", got)
	}
	got, _ = s.Undo()
	if !reflect.DeepEqual(got, []int{10}) {
		t.Fatalf("base after amend: %v", got)
	}
}

func TestRedoTruncatedByNewAction(t *testing.T) {
	s := New([]int(nil), cloneInts)
	s.Push(ActionAdd, []int{1})
	s.Push(ActionAdd, []int{1, 2})
	if _, ok := s.Undo(); !ok {
		t.Fatalf("undo failed")
	}
	s.Push(ActionAdd, []int{1, 3})
	if _, ok := s.Redo(); ok {
		t.Fatalf("redo should be a no-op after a new action")
	}
	if s.Len() != 2 || s.Index() != 2 {
		t.Fatalf("len=%d index=%d", s.Len(), s.Index())
	}
}

func TestBoundariesAreNoOps(t *testing.T) {
	s := New([]int{}, cloneInts)
	if _, ok := s.Undo(); ok {
		t.Fatalf("undo on empty history")
	}
	if _, ok := s.Redo(); ok {
		t.Fatalf("redo on empty history")
	}
	s.Push(ActionClear, nil)
	if s.Last() != ActionClear {
		t.Fatalf("last action %v", s.Last())
	}
	s.Undo()
	if s.Last() != ActionNone || s.CanUndo() || !s.CanRedo() {
		t.Fatalf("unexpected state after undo to base")
	}
}

func TestRestoredStateIsACopy(t *testing.T) {
	s := New([]int{1, 2}, cloneInts)
	s.Push(ActionRemove, []int{1})
	got, _ := s.Undo()
	got[0] = 99
	s.Redo()
	again, _ := s.Undo()
	if again[0] != 1 {
		t.Fatalf("stored snapshot was mutated: %v", again)
	}
}
