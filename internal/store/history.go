package store

import (
	"context"

	"github.com/kitchenplan/kitchenplan/backend-go/internal/document"
)

// HistoryLimit caps the number of snapshots kept for undo.
const HistoryLimit = 20

// commit records the current plan as a new history entry, discarding any
// redo branch, and re-serializes the plan.
func (s *Store) commit() {
	if s.index < len(s.history)-1 {
		s.history = s.history[:s.index+1]
	}
	s.history = append(s.history, s.state.Plan.Clone())
	if len(s.history) > HistoryLimit {
		s.history = append(s.history[:0:0], s.history[len(s.history)-HistoryLimit:]...)
	}
	s.index = len(s.history) - 1
	s.version++
	s.persist()
}

// CommitGesture records the head state reached by live updates as one
// history entry. Gestures call it once, at pointer-up.
func (s *Store) CommitGesture() {
	s.commit()
}

// Undo restores the previous snapshot. It reports whether anything changed.
func (s *Store) Undo() bool {
	if !s.CanUndo() {
		return false
	}
	s.index--
	s.restore()
	return true
}

// Redo restores the next snapshot. It reports whether anything changed.
func (s *Store) Redo() bool {
	if !s.CanRedo() {
		return false
	}
	s.index++
	s.restore()
	return true
}

func (s *Store) restore() {
	s.state.Plan = s.history[s.index].Clone()
	if _, ok := s.state.Plan.Item(s.state.SelectedID); !ok {
		s.state.SelectedID = ""
	}
	s.version++
	s.persist()
}

// persist writes the plan to durable storage. Failures are logged; the
// in-memory state stays authoritative.
func (s *Store) persist() {
	if s.persister == nil {
		return
	}
	data, err := document.Marshal(s.state.Plan, s.now())
	if err != nil {
		s.logger.Error("serialize plan", "error", err)
		return
	}
	if err := s.persister.Save(context.Background(), data); err != nil {
		s.logger.Error("persist plan", "error", err)
	}
}
