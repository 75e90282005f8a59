package chunk

import "testing"

func TestMoveBufferRecordsInPushOrder(t *testing.T) {
	b := NewMoveBuffer(4)
	b.Push(Move{FromX: 0, FromY: 0, ToX: 1, ToY: 0})
	b.Push(Move{FromX: 1, FromY: 0, ToX: 2, ToY: 0})

	if b.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", b.Len())
	}
	moves := b.Moves()
	if moves[0].ToX != 1 || moves[1].ToX != 2 {
		t.Fatal("Moves() should preserve push order")
	}
}

func TestMoveBufferOverflowDropsExcessPushes(t *testing.T) {
	b := NewMoveBuffer(2)
	b.Push(Move{})
	b.Push(Move{})
	b.Push(Move{}) // exceeds capacity

	if b.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 (capped at capacity)", b.Len())
	}
	if !b.Overflowed() {
		t.Fatal("Overflowed() should be true after a dropped push")
	}
	if b.OverflowCount() != 1 {
		t.Fatalf("OverflowCount() = %d, want 1", b.OverflowCount())
	}
}

func TestMoveBufferClearResetsCountAndOverflow(t *testing.T) {
	b := NewMoveBuffer(1)
	b.Push(Move{})
	b.Push(Move{}) // overflow

	b.Clear()

	if b.Len() != 0 {
		t.Fatalf("Len() after Clear = %d, want 0", b.Len())
	}
	if b.Overflowed() {
		t.Fatal("Overflowed() should be false after Clear")
	}
}
