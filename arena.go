package posepaint

// slotArena holds per-pose-slot state indexed by the pose's position in the
// current frame's list. Slots are created lazily on first access and dropped
// by Trim when fewer poses arrive, so a pose that later appears at the same
// index starts from fresh state.
type slotArena[T any] struct {
	slots []*T
	init  func() *T
}

func newSlotArena[T any](init func() *T) slotArena[T] {
	return slotArena[T]{init: init}
}

// Get returns the state for slot i, creating it if needed.
func (a *slotArena[T]) Get(i int) *T {
	for len(a.slots) <= i {
		a.slots = append(a.slots, nil)
	}
	if a.slots[i] == nil {
		a.slots[i] = a.init()
	}
	return a.slots[i]
}

// Peek returns the state for slot i without creating it.
func (a *slotArena[T]) Peek(i int) *T {
	if i < 0 || i >= len(a.slots) {
		return nil
	}
	return a.slots[i]
}

// Trim discards every slot at index n or above.
func (a *slotArena[T]) Trim(n int) {
	if n < 0 {
		n = 0
	}
	if n >= len(a.slots) {
		return
	}
	for i := n; i < len(a.slots); i++ {
		a.slots[i] = nil
	}
	a.slots = a.slots[:n]
}

// Len returns the number of slots currently held.
func (a *slotArena[T]) Len() int {
	return len(a.slots)
}

// Each calls fn for every live slot in index order.
func (a *slotArena[T]) Each(fn func(i int, v *T)) {
	for i, v := range a.slots {
		if v != nil {
			fn(i, v)
		}
	}
}

// Reset drops all slots.
func (a *slotArena[T]) Reset() {
	a.Trim(0)
}
