// Package schedule implements the sorted, time-keyed event queue that
// defers command dispatch until its scheduled time arrives.
package schedule

import "sort"

// MaxEvents bounds the schedule; pushes beyond this capacity are
// silently dropped, matching the engine's no-allocation steady state.
const MaxEvents = 64

// CatchUpWindow is the latest an overdue event may fire before it is
// skipped instead of dispatched, avoiding a storm of stale triggers
// after a long engine stall.
const CatchUpWindow = 0.020

// Event is the minimal scheduling envelope the schedule cares about; the
// full command payload lives in internal/event.Event and is carried
// through Payload.
type Event struct {
	Time    float64
	Repeat  float64
	HasRepeat bool
	Payload any
}

// Schedule is a time-ascending sequence of pending events.
type Schedule struct {
	events []Event
}

// New returns an empty schedule.
func New() *Schedule {
	return &Schedule{events: make([]Event, 0, MaxEvents)}
}

// Push inserts ev at its sorted position. If the schedule is already at
// MaxEvents capacity, the event is dropped.
func (s *Schedule) Push(ev Event) {
	if len(s.events) >= MaxEvents {
		return
	}
	idx := sort.Search(len(s.events), func(i int) bool {
		return s.events[i].Time > ev.Time
	})
	s.events = append(s.events, Event{})
	copy(s.events[idx+1:], s.events[idx:])
	s.events[idx] = ev
}

// PeekTime returns the time of the earliest pending event.
func (s *Schedule) PeekTime() (float64, bool) {
	if len(s.events) == 0 {
		return 0, false
	}
	return s.events[0].Time, true
}

// PopFront removes and returns the earliest pending event.
func (s *Schedule) PopFront() (Event, bool) {
	if len(s.events) == 0 {
		return Event{}, false
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev, true
}

// Len returns the number of pending events.
func (s *Schedule) Len() int {
	return len(s.events)
}

// IsEmpty reports whether the schedule has no pending events.
func (s *Schedule) IsEmpty() bool {
	return len(s.events) == 0
}

// Clear discards all pending events.
func (s *Schedule) Clear() {
	s.events = s.events[:0]
}
