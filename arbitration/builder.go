package arbitration

import (
	"log"

	"github.com/sarchlab/intersim/queueing"
	"github.com/sarchlab/intersim/sim"
)

// Builder can build arbiters.
type Builder struct {
	engine sim.Engine
	queue  queueing.ArrivalQueue
	policy Policy
	logger *log.Logger
}

// MakeBuilder creates a builder with the default policy.
func MakeBuilder() Builder {
	return Builder{
		policy: DefaultPolicy(),
		logger: log.Default(),
	}
}

// WithEngine sets the engine that runs the rounds.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithQueue sets the queue of pending vehicles.
func (b Builder) WithQueue(queue queueing.ArrivalQueue) Builder {
	b.queue = queue
	return b
}

// WithPolicy sets the right-of-way policy.
func (b Builder) WithPolicy(policy Policy) Builder {
	b.policy = policy
	return b
}

// WithLogger sets where the arbiter reports bad input.
func (b Builder) WithLogger(logger *log.Logger) Builder {
	b.logger = logger
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.engine == nil {
		log.Panic("engine is not set")
	}

	if b.queue == nil {
		log.Panic("queue is not set")
	}

	if b.logger == nil {
		log.Panic("logger is not set")
	}

	if err := b.policy.Validate(); err != nil {
		log.Panic(err)
	}
}

// Build creates an arbiter.
func (b Builder) Build(name string) *Arbiter {
	b.parametersMustBeValid()

	return &Arbiter{
		name:   name,
		engine: b.engine,
		queue:  b.queue,
		policy: b.policy,
		logger: b.logger,
	}
}
