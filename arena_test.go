package posepaint

import "testing"

func TestSlotArenaLazyAndTrim(t *testing.T) {
	created := 0
	a := newSlotArena(func() *int {
		created++
		v := 0
		return &v
	})

	*a.Get(2) = 5
	if a.Len() != 3 || created != 1 {
		t.Fatalf("Len = %d created = %d, want 3 and 1", a.Len(), created)
	}
	if a.Peek(0) != nil {
		t.Error("untouched slot should not be created")
	}
	if *a.Get(2) != 5 || created != 1 {
		t.Error("Get should return the existing slot")
	}

	a.Trim(1)
	if a.Len() != 1 || a.Peek(2) != nil {
		t.Error("Trim should drop slots at or above n")
	}
	if *a.Get(2) != 0 {
		t.Error("slot recreated after Trim must start fresh")
	}

	visited := 0
	a.Each(func(i int, v *int) { visited++ })
	if visited != 1 {
		t.Errorf("Each visited %d, want 1", visited)
	}
	a.Reset()
	if a.Len() != 0 {
		t.Error("Reset should drop all slots")
	}
}
