package picker

import (
	"fmt"
	"sync/atomic"
)

// EventKind enumerates the inbound navigation events.
type EventKind int

const (
	MoveUp EventKind = iota
	MoveDown
	Accept
	Cancel
	QueryChanged
	ToggleVisibility
)

func (k EventKind) String() string {
	switch k {
	case MoveUp:
		return "move-up"
	case MoveDown:
		return "move-down"
	case Accept:
		return "accept"
	case Cancel:
		return "cancel"
	case QueryChanged:
		return "query-changed"
	case ToggleVisibility:
		return "toggle"
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event is one inbound token. Query is only meaningful for QueryChanged.
type Event struct {
	Kind  EventKind
	Query string
}

// Queue is the bounded, ordered event queue between whatever produces key
// presses and the controller. Producers never block: a full queue drops.
type Queue struct {
	ch      chan Event
	dropped atomic.Uint64
}

const DefaultQueueSize = 64

func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{ch: make(chan Event, size)}
}

// Push enqueues e without blocking and reports whether it was accepted.
func (q *Queue) Push(e Event) bool {
	select {
	case q.ch <- e:
		return true
	default:
		q.dropped.Add(1)
		return false
	}
}

// Translate runs a boundary callback that maps some foreign notification to
// an event and pushes the result. A panic inside fn drops the event instead
// of unwinding into the caller.
func (q *Queue) Translate(fn func() (Event, bool)) (pushed bool) {
	defer func() {
		if r := recover(); r != nil {
			q.dropped.Add(1)
			pushed = false
		}
	}()
	e, ok := fn()
	if !ok {
		return false
	}
	return q.Push(e)
}

// Dropped counts events lost to a full queue or a panicking translator.
func (q *Queue) Dropped() uint64 {
	return q.dropped.Load()
}

// Len is the number of events waiting.
func (q *Queue) Len() int {
	return len(q.ch)
}

// drain removes the events present right now, oldest first, never waiting
// for more.
func (q *Queue) drain() []Event {
	n := len(q.ch)
	if n == 0 {
		return nil
	}
	out := make([]Event, 0, n)
	for i := 0; i < n; i++ {
		select {
		case e := <-q.ch:
			out = append(out, e)
		default:
			return out
		}
	}
	return out
}
