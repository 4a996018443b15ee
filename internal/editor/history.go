package editor

// history holds undo and redo snapshots. A limit of zero keeps every
// snapshot; otherwise the oldest undo entries are dropped.
type history struct {
	undo  []state
	redo  []state
	limit int
}

func (h *history) push(s state) {
	h.undo = append(h.undo, s)
	if h.limit > 0 && len(h.undo) > h.limit {
		drop := len(h.undo) - h.limit
		copy(h.undo, h.undo[drop:])
		h.undo = h.undo[:h.limit]
	}
}

func (h *history) clearRedo() {
	h.redo = h.redo[:0]
}

func (h *history) popUndo() (state, bool) {
	return pop(&h.undo)
}

func (h *history) popRedo() (state, bool) {
	return pop(&h.redo)
}

func (h *history) reset() {
	h.undo = nil
	h.redo = nil
}

func pop(stack *[]state) (state, bool) {
	n := len(*stack)
	if n == 0 {
		return state{}, false
	}
	s := (*stack)[n-1]
	*stack = (*stack)[:n-1]
	return s, true
}
