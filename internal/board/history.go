package board

import "whiteboard/internal/wire"

// ActionKind tells a pen stroke from an eraser gesture.
type ActionKind string

const (
	ActionDraw  ActionKind = "draw"
	ActionErase ActionKind = "erase"
)

// Action is one local gesture. LastPoint is where a pen stroke started, X
// and Y where an erase started; Samples holds the rest of the gesture so it
// can be replayed.
type Action struct {
	Kind      ActionKind
	LastPoint wire.Point
	X, Y      float64
	Color     string
	Size      float64
	Radius    float64
	Samples   []wire.Point
}

// History is a linear undo log of local actions. Pushing after an undo
// discards the undone actions.
type History struct {
	actions []Action
	index   int
}

// NewHistory returns an empty log with its cursor before the first action.
func NewHistory() *History {
	return &History{index: -1}
}

// Push truncates the log after the cursor, appends a and moves the cursor
// onto it.
func (h *History) Push(a Action) {
	h.actions = append(h.actions[:h.index+1], a)
	h.index = len(h.actions) - 1
}

// Extend adds a sample to the action under the cursor.
func (h *History) Extend(p wire.Point) {
	if h.index < 0 {
		return
	}
	h.actions[h.index].Samples = append(h.actions[h.index].Samples, p)
}

// Undo moves the cursor back one action. The first action cannot be undone.
func (h *History) Undo() bool {
	if h.index > 0 {
		h.index--
		return true
	}
	return false
}

// Redo moves the cursor forward one action, reporting whether it moved.
func (h *History) Redo() bool {
	if h.index < len(h.actions)-1 {
		h.index++
		return true
	}
	return false
}

// Index returns the cursor, -1 for an empty log.
func (h *History) Index() int {
	return h.index
}

// Len returns the number of logged actions, including undone ones.
func (h *History) Len() int {
	return len(h.actions)
}

// Visible returns the actions up to and including the cursor.
func (h *History) Visible() []Action {
	return h.actions[:h.index+1]
}

// Actions returns the whole log, including undone actions.
func (h *History) Actions() []Action {
	return h.actions
}
