package sampling

import "testing"

func TestNewCursorFullRange(t *testing.T) {
	c := NewCursor(1000, 0, 1)
	if c.startPos != 0 || c.length != 1000 {
		t.Fatalf("unexpected range: start=%v length=%v", c.startPos, c.length)
	}
}

func TestNewCursorReversedNormalizes(t *testing.T) {
	c := NewCursor(1000, 0.75, 0.25)
	if c.startPos != 250 || c.length != 500 {
		t.Fatalf("unexpected normalized range: start=%v length=%v", c.startPos, c.length)
	}
}

func TestAdvanceReverseStartsAtEnd(t *testing.T) {
	c := NewCursor(1000, 0, 1)
	c.Advance(-1)
	if c.pos != 999 {
		t.Fatalf("expected reverse start at length-1, got %v", c.pos)
	}
}

func TestIsDoneOnEmptyRegion(t *testing.T) {
	c := NewCursor(1000, 0.5, 0.5)
	if !c.IsDone() {
		t.Fatal("expected zero-length region to be immediately done")
	}
	if c.FramePosition() != 500 {
		t.Fatalf("expected frame position to sit at begin, got %v", c.FramePosition())
	}
}

func TestCurrentAndNextFrame(t *testing.T) {
	c := NewCursor(1000, 0, 1)
	c.pos = 5.5
	if c.CurrentFrame() != 5 {
		t.Fatalf("expected current frame 5, got %d", c.CurrentFrame())
	}
	if c.NextFrame(1000) != 6 {
		t.Fatalf("expected next frame 6, got %d", c.NextFrame(1000))
	}
}
