package posepaint

// Pool is a fixed-capacity ring of preallocated values. Next hands out the
// slot under a rotating cursor regardless of whether that slot is still in
// use, so a saturated pool silently recycles its oldest slot instead of
// growing. Callers must tolerate having a live value overwritten.
type Pool[T any] struct {
	items  []T
	cursor int
	issued uint64
}

// NewPool preallocates capacity values. A non-positive capacity defaults to 128.
func NewPool[T any](capacity int) *Pool[T] {
	if capacity <= 0 {
		capacity = 128
	}
	return &Pool[T]{items: make([]T, capacity)}
}

// Next returns the slot under the cursor and advances the cursor. The slot is
// returned as-is; callers reinitialize it.
func (p *Pool[T]) Next() *T {
	v := &p.items[p.cursor]
	p.cursor++
	if p.cursor == len(p.items) {
		p.cursor = 0
	}
	p.issued++
	return v
}

// Cap returns the fixed number of slots.
func (p *Pool[T]) Cap() int {
	return len(p.items)
}

// Issued returns how many slots have been handed out since creation or Reset.
func (p *Pool[T]) Issued() uint64 {
	return p.issued
}

// At returns slot i.
func (p *Pool[T]) At(i int) *T {
	return &p.items[i]
}

// Reset zeroes every slot and rewinds the cursor.
func (p *Pool[T]) Reset() {
	var zero T
	for i := range p.items {
		p.items[i] = zero
	}
	p.cursor = 0
	p.issued = 0
}
