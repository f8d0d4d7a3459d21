package engine

import "testing"

func TestRollerRange(t *testing.T) {
	roller := NewRoller()
	for i := 0; i < 1000; i++ {
		d1, d2 := roller.Roll()
		if d1 < 1 || d1 > 6 || d2 < 1 || d2 > 6 {
			t.Fatalf("roll %d out of range: %d, %d", i, d1, d2)
		}
	}
}

func TestSeededRollerDeterminism(t *testing.T) {
	a := NewSeededRoller(7)
	b := NewSeededRoller(7)
	for i := 0; i < 100; i++ {
		a1, a2 := a.Roll()
		b1, b2 := b.Roll()
		if a1 != b1 || a2 != b2 {
			t.Fatalf("roll %d diverged: (%d,%d) vs (%d,%d)", i, a1, a2, b1, b2)
		}
	}
}
