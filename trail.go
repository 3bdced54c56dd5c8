package posepaint

// DefaultTrailLength is the number of snapshots a trail keeps per pose slot.
const DefaultTrailLength = 20

// MaxTrailLength bounds configured trail history.
const MaxTrailLength = 20

// TrailBuffer is a FIFO of filtered pose snapshots capped at a fixed length.
// Pushing onto a full buffer evicts the oldest entry.
type TrailBuffer struct {
	buf   []Snapshot
	start int
	n     int
}

// NewTrailBuffer creates a buffer holding at most capacity snapshots.
func NewTrailBuffer(capacity int) *TrailBuffer {
	if capacity <= 0 {
		capacity = DefaultTrailLength
	}
	if capacity > MaxTrailLength {
		capacity = MaxTrailLength
	}
	return &TrailBuffer{buf: make([]Snapshot, capacity)}
}

// Push appends s, evicting the oldest snapshot when the buffer is full.
func (t *TrailBuffer) Push(s Snapshot) {
	if t.n < len(t.buf) {
		t.buf[(t.start+t.n)%len(t.buf)] = s
		t.n++
		return
	}
	t.buf[t.start] = s
	t.start = (t.start + 1) % len(t.buf)
}

// Len returns the number of buffered snapshots.
func (t *TrailBuffer) Len() int {
	return t.n
}

// Cap returns the buffer's capacity.
func (t *TrailBuffer) Cap() int {
	return len(t.buf)
}

// At returns the i-th snapshot, 0 being the oldest.
func (t *TrailBuffer) At(i int) *Snapshot {
	return &t.buf[(t.start+i)%len(t.buf)]
}

// Clear empties the buffer without releasing storage.
func (t *TrailBuffer) Clear() {
	t.start = 0
	t.n = 0
}
