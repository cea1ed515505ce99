// Package queueing holds the vehicles that are waiting at the intersection.
package queueing

import (
	"container/list"
	"errors"
	"fmt"

	"github.com/sarchlab/intersim/sim"
	"github.com/sarchlab/intersim/traffic"
)

// ErrNotFound is returned when removing an arrival that is not in the queue.
var ErrNotFound = errors.New("arrival not found")

// An ArrivalQueue keeps pending arrivals ordered by arrival time.
type ArrivalQueue interface {
	// Insert adds an arrival after all the arrivals that arrive no later than
	// it. The returned arrival carries the ID assigned by the queue.
	Insert(a traffic.Arrival) traffic.Arrival

	// Front returns the earliest pending arrival.
	Front() (traffic.Arrival, bool)

	// FirstOf returns the earliest pending arrival from the given direction.
	FirstOf(d traffic.Direction) (traffic.Arrival, bool)

	// Remove removes one arrival. An arrival with an ID matches by ID, one
	// without matches the first arrival with the same direction, turn, and
	// time.
	Remove(a traffic.Arrival) error

	// Len returns the number of pending arrivals.
	Len() int

	// Arrivals returns the pending arrivals in order.
	Arrivals() []traffic.Arrival
}

// InsertionQueue is an ArrivalQueue based on insertion sort over a linked
// list.
type InsertionQueue struct {
	l     *list.List
	idGen sim.IDGenerator
}

// NewInsertionQueue returns a new InsertionQueue that assigns sequential IDs.
func NewInsertionQueue() *InsertionQueue {
	return NewInsertionQueueWithIDGenerator(sim.NewSequentialIDGenerator())
}

// NewInsertionQueueWithIDGenerator returns a new InsertionQueue that assigns
// IDs with the given generator.
func NewInsertionQueueWithIDGenerator(g sim.IDGenerator) *InsertionQueue {
	q := new(InsertionQueue)
	q.l = list.New()
	q.idGen = g

	return q
}

// Insert adds an arrival to the queue. Arrivals that already have an ID keep
// it.
func (q *InsertionQueue) Insert(a traffic.Arrival) traffic.Arrival {
	if a.ID == "" {
		a.ID = q.idGen.Generate()
	}

	var ele *list.Element
	for ele = q.l.Front(); ele != nil; ele = ele.Next() {
		if ele.Value.(traffic.Arrival).Time > a.Time {
			break
		}
	}

	if ele != nil {
		q.l.InsertBefore(a, ele)
	} else {
		q.l.PushBack(a)
	}

	return a
}

// Front returns the arrival at the front of the queue.
func (q *InsertionQueue) Front() (traffic.Arrival, bool) {
	ele := q.l.Front()
	if ele == nil {
		return traffic.Arrival{}, false
	}

	return ele.Value.(traffic.Arrival), true
}

// FirstOf scans the queue in time order and returns the first arrival from
// the direction.
func (q *InsertionQueue) FirstOf(
	d traffic.Direction,
) (traffic.Arrival, bool) {
	for ele := q.l.Front(); ele != nil; ele = ele.Next() {
		a := ele.Value.(traffic.Arrival)
		if a.Direction == d {
			return a, true
		}
	}

	return traffic.Arrival{}, false
}

// Remove removes the matching arrival from the queue.
func (q *InsertionQueue) Remove(a traffic.Arrival) error {
	for ele := q.l.Front(); ele != nil; ele = ele.Next() {
		if matches(ele.Value.(traffic.Arrival), a) {
			q.l.Remove(ele)
			return nil
		}
	}

	return fmt.Errorf("%w: %s", ErrNotFound, a)
}

func matches(stored, target traffic.Arrival) bool {
	if target.ID != "" {
		return stored.ID == target.ID
	}

	return stored.SameAs(target)
}

// Len returns the number of arrivals in the queue.
func (q *InsertionQueue) Len() int {
	return q.l.Len()
}

// Arrivals returns a copy of the queue content in order.
func (q *InsertionQueue) Arrivals() []traffic.Arrival {
	arrivals := make([]traffic.Arrival, 0, q.l.Len())
	for ele := q.l.Front(); ele != nil; ele = ele.Next() {
		arrivals = append(arrivals, ele.Value.(traffic.Arrival))
	}

	return arrivals
}
