package arbitration

import (
	"log"
	"math"
	"reflect"

	"github.com/sarchlab/intersim/queueing"
	"github.com/sarchlab/intersim/sim"
	"github.com/sarchlab/intersim/traffic"
)

// HookPosServiced marks when a vehicle is given the intersection. The hook
// item is a Service.
var HookPosServiced = &sim.HookPos{Name: "Vehicle Serviced"}

// HookPosInvalidTurn marks when a vehicle with an unknown turn code is
// serviced. The hook item is the traffic.Arrival and the detail is the error.
var HookPosInvalidTurn = &sim.HookPos{Name: "Invalid Turn"}

// State is the state of an Arbiter.
type State int

// Arbiter states.
const (
	StateRunning State = iota
	StateDone
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "Running"
	case StateDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// A Service records one vehicle passing the intersection.
type Service struct {
	Round   int
	Arrival traffic.Arrival
	Entry   sim.VTimeInSec
	Exit    sim.VTimeInSec
	Wait    sim.VTimeInSec
}

type roundEvent struct {
	*sim.EventBase
}

// Arbiter gives the intersection to one vehicle per round. Each round is an
// event, run at the time the chosen vehicle enters.
type Arbiter struct {
	sim.HookableBase

	name   string
	engine sim.Engine
	queue  queueing.ArrivalQueue
	policy Policy
	logger *log.Logger

	started    bool
	state      State
	clock      sim.VTimeInSec
	candidates Candidates
	stats      Statistics
	services   []Service
}

// Name returns the name of the arbiter.
func (a *Arbiter) Name() string {
	return a.name
}

// Start picks the first vehicle of each direction and schedules the first
// round. An arbiter with no pending vehicle is done immediately.
func (a *Arbiter) Start() {
	if a.started {
		log.Panicf("arbiter %s already started", a.name)
	}
	a.started = true

	for _, d := range traffic.Directions {
		a.refreshCandidate(d)
	}

	if a.candidates.Empty() {
		a.state = StateDone
		return
	}

	a.state = StateRunning
	a.scheduleRound()
}

// scheduleRound schedules the next round at the time the next vehicle can
// enter, so that the engine time of a round is the entry time.
func (a *Arbiter) scheduleRound() {
	next, _ := a.candidates.EarliestTime()
	next = math.Max(next, a.clock)

	a.engine.Schedule(roundEvent{sim.NewEventBase(next, a)})
}

// Handle runs a round.
func (a *Arbiter) Handle(e sim.Event) error {
	switch e.(type) {
	case roundEvent:
		a.round()
	default:
		log.Panicf("cannot handle event of type %s", reflect.TypeOf(e))
	}

	return nil
}

func (a *Arbiter) round() {
	winner, ok := a.policy.Resolve(a.candidates)
	if !ok {
		a.state = StateDone
		return
	}

	svc := a.enter(winner)
	a.stats.Record(svc)
	a.services = append(a.services, svc)
	a.retire(winner)

	a.InvokeHook(sim.HookCtx{
		Domain: a,
		Pos:    HookPosServiced,
		Item:   svc,
	})

	if a.candidates.Empty() {
		a.state = StateDone
		return
	}

	a.scheduleRound()
}

func (a *Arbiter) enter(v traffic.Arrival) Service {
	entry := math.Max(a.clock, v.Time)
	a.clock = entry + a.duration(v)

	return Service{
		Round:   len(a.services) + 1,
		Arrival: v,
		Entry:   entry,
		Exit:    a.clock,
		Wait:    entry - v.Time,
	}
}

func (a *Arbiter) duration(v traffic.Arrival) sim.VTimeInSec {
	d, err := traffic.Duration(v.Turn)
	if err != nil {
		a.logger.Printf("invalid input: %v, fix input file", err)
		a.InvokeHook(sim.HookCtx{
			Domain: a,
			Pos:    HookPosInvalidTurn,
			Item:   v,
			Detail: err,
		})
	}

	return d
}

func (a *Arbiter) retire(v traffic.Arrival) {
	err := a.queue.Remove(v)
	if err != nil {
		a.logger.Printf("arbiter %s: %v", a.name, err)
	}

	a.refreshCandidate(v.Direction)
}

func (a *Arbiter) refreshCandidate(d traffic.Direction) {
	next, ok := a.queue.FirstOf(d)
	if !ok {
		a.candidates.Clear(d)
		return
	}

	a.candidates.Set(next)
}

// State returns whether the arbiter still has vehicles to service.
func (a *Arbiter) State() State {
	return a.state
}

// Clock returns the time when the last serviced vehicle leaves.
func (a *Arbiter) Clock() sim.VTimeInSec {
	return a.clock
}

// Statistics returns the wait statistics so far.
func (a *Arbiter) Statistics() Statistics {
	return a.stats
}

// Services returns the serviced vehicles in service order.
func (a *Arbiter) Services() []Service {
	services := make([]Service, len(a.services))
	copy(services, a.services)

	return services
}
