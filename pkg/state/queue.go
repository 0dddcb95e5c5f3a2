package state

import "errors"

// DefaultQueueCapacity bounds the events buffered between two ticks.
const DefaultQueueCapacity = 64

var ErrQueueFull = errors.New("input queue full")

// Queue is a bounded FIFO of input events, filled by the input layer and
// drained once per tick. It is not safe for concurrent use.
type Queue struct {
	events   []Event
	capacity int
}

// NewQueue creates a queue holding at most capacity events. A non-positive
// capacity uses DefaultQueueCapacity.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	return &Queue{
		events:   make([]Event, 0, capacity),
		capacity: capacity,
	}
}

// Push appends ev, or returns ErrQueueFull without modifying the queue.
func (q *Queue) Push(ev Event) error {
	if len(q.events) >= q.capacity {
		return ErrQueueFull
	}
	q.events = append(q.events, ev)
	return nil
}

// Drain returns all queued events in arrival order and empties the queue.
func (q *Queue) Drain() []Event {
	if len(q.events) == 0 {
		return nil
	}
	out := make([]Event, len(q.events))
	copy(out, q.events)
	q.events = q.events[:0]
	return out
}

func (q *Queue) Len() int {
	return len(q.events)
}

func (q *Queue) Cap() int {
	return q.capacity
}
