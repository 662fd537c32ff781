// Package tui provides the live Bubble Tea view of a running simulation.
package tui

// History holds the most recent console commands in a fixed-size ring and
// lets the input line walk back and forth through them.
type History struct {
	buf    []string
	start  int // index of the oldest entry in buf
	n      int
	cursor int // -1 = not navigating, else 0 (oldest) .. n-1 (newest)
}

// NewHistory creates a history that keeps at most max commands.
func NewHistory(max int) *History {
	if max < 1 {
		max = 1
	}
	return &History{buf: make([]string, max), cursor: -1}
}

// Len is the number of stored commands.
func (h *History) Len() int { return h.n }

func (h *History) at(i int) string {
	return h.buf[(h.start+i)%len(h.buf)]
}

// Push records a command. A repeat of the newest entry is skipped.
func (h *History) Push(cmd string) {
	if h.n > 0 && h.at(h.n-1) == cmd {
		return
	}
	if h.n < len(h.buf) {
		h.buf[(h.start+h.n)%len(h.buf)] = cmd
		h.n++
		return
	}
	h.buf[h.start] = cmd
	h.start = (h.start + 1) % len(h.buf)
}

// Seed replaces the history with the tail of a command log, as restored
// from a save.
func (h *History) Seed(log []string) {
	h.start, h.n, h.cursor = 0, 0, -1
	for _, cmd := range log {
		h.Push(cmd)
	}
}

// Prev returns the previous (older) entry, stopping at the oldest.
func (h *History) Prev() (string, bool) {
	if h.n == 0 {
		return "", false
	}
	if h.cursor == -1 {
		h.cursor = h.n - 1
	} else if h.cursor > 0 {
		h.cursor--
	}
	return h.at(h.cursor), true
}

// Next returns the next (newer) entry, or false once past the newest.
func (h *History) Next() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	h.cursor++
	if h.cursor >= h.n {
		h.cursor = -1
		return "", false
	}
	return h.at(h.cursor), true
}

// ResetCursor leaves navigation mode.
func (h *History) ResetCursor() {
	h.cursor = -1
}
