package schedule

import "testing"

func TestPushKeepsSortedOrder(t *testing.T) {
	s := New()
	times := []float64{3, 1, 4, 1.5, 0.2, 9}
	for _, tm := range times {
		s.Push(Event{Time: tm})
	}
	prev := -1.0
	for !s.IsEmpty() {
		ev, _ := s.PopFront()
		if ev.Time < prev {
			t.Fatalf("schedule produced out-of-order event: %v after %v", ev.Time, prev)
		}
		prev = ev.Time
	}
}

func TestPushDropsAtCapacity(t *testing.T) {
	s := New()
	for i := 0; i < MaxEvents; i++ {
		s.Push(Event{Time: float64(i)})
	}
	s.Push(Event{Time: 9999})
	if s.Len() != MaxEvents {
		t.Fatalf("expected schedule capped at %d, got %d", MaxEvents, s.Len())
	}
	for !s.IsEmpty() {
		ev, _ := s.PopFront()
		if ev.Time == 9999 {
			t.Fatal("overflow event should have been dropped, not inserted")
		}
	}
}

func TestClearEmptiesSchedule(t *testing.T) {
	s := New()
	s.Push(Event{Time: 1})
	s.Push(Event{Time: 2})
	s.Clear()
	if !s.IsEmpty() {
		t.Fatal("expected schedule empty after Clear")
	}
}
