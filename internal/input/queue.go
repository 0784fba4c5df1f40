// Package input carries touch, button and quit events from their producers to
// the control loop.
package input

import (
	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/printer-panel/internal/model"
)

type Kind int

const (
	KindTouch Kind = iota
	KindHardware
	KindQuit
)

func (k Kind) String() string {
	switch k {
	case KindTouch:
		return "touch"
	case KindHardware:
		return "hardware"
	case KindQuit:
		return "quit"
	default:
		return "unknown"
	}
}

type Event struct {
	Kind   Kind
	X, Y   int
	Action model.Action
}

func Touch(x, y int) Event {
	return Event{Kind: KindTouch, X: x, Y: y}
}

func Hardware(action model.Action) Event {
	return Event{Kind: KindHardware, Action: action}
}

func Quit() Event {
	return Event{Kind: KindQuit}
}

const DefaultCapacity = 64

// Queue is safe for any number of producers and one consumer.
type Queue struct {
	ch chan Event
}

func NewQueue(capacity int) *Queue {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Queue{ch: make(chan Event, capacity)}
}

// Push never blocks. It reports false and drops the event when the queue is
// full.
func (q *Queue) Push(ev Event) bool {
	select {
	case q.ch <- ev:
		return true
	default:
		log.Warn().Str("kind", ev.Kind.String()).Msg("Input queue full, dropping event")
		return false
	}
}

// Drain returns every queued event in arrival order without blocking.
func (q *Queue) Drain() []Event {
	var events []Event
	for {
		select {
		case ev := <-q.ch:
			events = append(events, ev)
		default:
			return events
		}
	}
}

func (q *Queue) Len() int {
	return len(q.ch)
}
