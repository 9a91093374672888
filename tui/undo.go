// ABOUTME: Undo/redo stack manager for constraint toggles
// ABOUTME: Manages state history with maximum stack size limit

package tui

import "slices"

// ConstraintState captures which constraints are enabled for undo/redo
type ConstraintState struct {
	Enabled   []bool
	CursorPos int // Selected constraint at the time of the snapshot
}

func (s ConstraintState) clone() ConstraintState {
	return ConstraintState{
		Enabled:   slices.Clone(s.Enabled),
		CursorPos: s.CursorPos,
	}
}

// UndoManager manages undo/redo stacks with maximum size limit
type UndoManager struct {
	undoStack []ConstraintState
	redoStack []ConstraintState
	maxSize   int
}

// NewUndoManager creates a new undo manager with the specified max stack size
func NewUndoManager(maxSize int) *UndoManager {
	return &UndoManager{
		undoStack: []ConstraintState{},
		redoStack: []ConstraintState{},
		maxSize:   maxSize,
	}
}

// Push saves a new state to the undo stack
// Clears the redo stack (you can't redo after a new action)
func (um *UndoManager) Push(state ConstraintState) {
	um.undoStack = pushBounded(um.undoStack, state.clone(), um.maxSize)

	// Clear redo stack on new toggle
	um.redoStack = []ConstraintState{}
}

// Undo restores the previous state
// Returns the state and true if undo was successful, or zero value and false if nothing to undo
func (um *UndoManager) Undo(currentState ConstraintState) (ConstraintState, bool) {
	if len(um.undoStack) == 0 {
		return ConstraintState{}, false
	}

	um.redoStack = pushBounded(um.redoStack, currentState.clone(), um.maxSize)

	state := um.undoStack[len(um.undoStack)-1]
	um.undoStack = um.undoStack[:len(um.undoStack)-1]

	return state, true
}

// Redo restores the next state
// Returns the state and true if redo was successful, or zero value and false if nothing to redo
func (um *UndoManager) Redo(currentState ConstraintState) (ConstraintState, bool) {
	if len(um.redoStack) == 0 {
		return ConstraintState{}, false
	}

	um.undoStack = pushBounded(um.undoStack, currentState.clone(), um.maxSize)

	state := um.redoStack[len(um.redoStack)-1]
	um.redoStack = um.redoStack[:len(um.redoStack)-1]

	return state, true
}

// UndoSize returns the number of items in the undo stack
func (um *UndoManager) UndoSize() int {
	return len(um.undoStack)
}

// RedoSize returns the number of items in the redo stack
func (um *UndoManager) RedoSize() int {
	return len(um.redoStack)
}

// Clear clears both stacks
func (um *UndoManager) Clear() {
	um.undoStack = []ConstraintState{}
	um.redoStack = []ConstraintState{}
}

// pushBounded appends state and drops the oldest entry beyond maxSize
func pushBounded(stack []ConstraintState, state ConstraintState, maxSize int) []ConstraintState {
	stack = append(stack, state)
	if len(stack) > maxSize {
		stack = stack[1:]
	}

	return stack
}
