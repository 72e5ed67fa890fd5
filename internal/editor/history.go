package editor

import "github.com/canvasdraw/editor/backend-go/internal/document"

// historyLength is the number of undo steps kept.
const historyLength = 256

// history is a linear undo stack of scene snapshots. Pushing after an
// undo drops the redo branch.
type history struct {
	entries []document.Record
	index   int
}

func (h *history) push(rec document.Record) {
	if len(h.entries) > 0 {
		h.entries = h.entries[:h.index+1]
	}
	h.entries = append(h.entries, rec)
	if len(h.entries) > historyLength {
		h.entries = h.entries[len(h.entries)-historyLength:]
	}
	h.index = len(h.entries) - 1
}

func (h *history) step(delta int) (document.Record, bool) {
	i := h.index + delta
	if i < 0 || i >= len(h.entries) {
		return document.Record{}, false
	}
	h.index = i
	return h.entries[i], true
}
