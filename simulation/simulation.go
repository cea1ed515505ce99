// Package simulation runs a traffic data set through an intersection.
package simulation

import (
	"errors"
	"fmt"

	"github.com/sarchlab/intersim/arbitration"
	"github.com/sarchlab/intersim/queueing"
	"github.com/sarchlab/intersim/sim"
	"github.com/sarchlab/intersim/tracing"
	"github.com/sarchlab/intersim/traffic"
)

// ErrAlreadyRun is returned when running a simulation for the second time.
var ErrAlreadyRun = errors.New("simulation already run")

// A Simulation connects the engine, the arrival queue, the arbiter, and the
// trace writers of one run.
type Simulation struct {
	id      string
	engine  *sim.SerialEngine
	queue   *queueing.InsertionQueue
	arbiter *arbitration.Arbiter
	tracer  *tracing.ServiceTracer
	writers []tracing.TraceWriter
	ran     bool
}

// A Result is the outcome of a finished simulation.
type Result struct {
	ID string

	// Arrivals are the input arrivals in service-queue order.
	Arrivals   []traffic.Arrival
	Services   []arbitration.Service
	Statistics arbitration.Statistics
	Clock      sim.VTimeInSec
	Events     uint64
	Arbiter    *arbitration.Arbiter
}

// ID returns the ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// Arbiter returns the arbiter of the intersection.
func (s *Simulation) Arbiter() *arbitration.Arbiter {
	return s.arbiter
}

// Run services all the arrivals and returns the result.
func (s *Simulation) Run(arrivals []traffic.Arrival) (*Result, error) {
	if s.ran {
		return nil, ErrAlreadyRun
	}
	s.ran = true

	for _, w := range s.writers {
		if err := w.Init(); err != nil {
			return nil, fmt.Errorf("initializing trace writer: %w", err)
		}
	}

	for _, a := range arrivals {
		s.queue.Insert(a)
	}
	sorted := s.queue.Arrivals()

	s.arbiter.Start()
	err := s.engine.Run()
	s.tracer.Flush()

	if err != nil {
		return nil, err
	}

	return &Result{
		ID:         s.id,
		Arrivals:   sorted,
		Services:   s.arbiter.Services(),
		Statistics: s.arbiter.Statistics(),
		Clock:      s.arbiter.Clock(),
		Events:     s.engine.EventCount(),
		Arbiter:    s.arbiter,
	}, nil
}
