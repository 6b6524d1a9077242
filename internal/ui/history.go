package ui

import "github.com/piwi3910/ZonePlanner/internal/model"

const defaultMaxDepth = 50

// History manages undo/redo stacks of layout snapshots.
type History struct {
	undoStack []model.LayoutSnapshot
	redoStack []model.LayoutSnapshot
	maxDepth  int
}

// NewHistory creates a History keeping at most maxDepth undo steps.
// A non-positive depth uses the default of 50.
func NewHistory(maxDepth int) *History {
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}
	return &History{maxDepth: maxDepth}
}

// Push saves the layout as it was before a change onto the undo stack and
// clears the redo stack.
func (h *History) Push(s model.LayoutSnapshot) {
	h.undoStack = append(h.undoStack, s)
	if len(h.undoStack) > h.maxDepth {
		h.undoStack = h.undoStack[len(h.undoStack)-h.maxDepth:]
	}
	h.redoStack = nil
}

// Undo pops the most recent snapshot and pushes current onto the redo stack.
func (h *History) Undo(current model.LayoutSnapshot) (model.LayoutSnapshot, bool) {
	if len(h.undoStack) == 0 {
		return model.LayoutSnapshot{}, false
	}
	last := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, current)
	return last, true
}

// Redo pops the most recently undone snapshot and pushes current onto the
// undo stack.
func (h *History) Redo(current model.LayoutSnapshot) (model.LayoutSnapshot, bool) {
	if len(h.redoStack) == 0 {
		return model.LayoutSnapshot{}, false
	}
	last := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, current)
	return last, true
}

func (h *History) CanUndo() bool { return len(h.undoStack) > 0 }
func (h *History) CanRedo() bool { return len(h.redoStack) > 0 }

// UndoLabel returns the label of the step Undo would revert.
func (h *History) UndoLabel() string {
	if len(h.undoStack) == 0 {
		return ""
	}
	return h.undoStack[len(h.undoStack)-1].Label
}

// RedoLabel returns the label of the step Redo would reapply.
func (h *History) RedoLabel() string {
	if len(h.redoStack) == 0 {
		return ""
	}
	return h.redoStack[len(h.redoStack)-1].Label
}

// Clear removes all undo and redo history.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
}
