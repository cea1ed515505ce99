package simulation

import (
	"log"

	"github.com/sarchlab/intersim/arbitration"
	"github.com/sarchlab/intersim/queueing"
	"github.com/sarchlab/intersim/sim"
	"github.com/sarchlab/intersim/tracing"
)

// Builder can be used to build a simulation.
type Builder struct {
	policy      arbitration.Policy
	logger      *log.Logger
	eventLogger *log.Logger
	writers     []tracing.TraceWriter
	idGen       sim.IDGenerator
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{
		policy: arbitration.DefaultPolicy(),
		logger: log.Default(),
		idGen:  sim.NewXIDGenerator(),
	}
}

// WithIDGenerator sets the generator of the simulation ID.
func (b Builder) WithIDGenerator(g sim.IDGenerator) Builder {
	b.idGen = g
	return b
}

// WithPolicy sets the right-of-way policy of the arbiter.
func (b Builder) WithPolicy(p arbitration.Policy) Builder {
	b.policy = p
	return b
}

// WithLogger sets the logger that reports bad input during the run.
func (b Builder) WithLogger(l *log.Logger) Builder {
	b.logger = l
	return b
}

// WithEventLogging logs every engine event to the given logger.
func (b Builder) WithEventLogging(l *log.Logger) Builder {
	b.eventLogger = l
	return b
}

// WithTraceWriter adds a writer that records every serviced vehicle.
func (b Builder) WithTraceWriter(w tracing.TraceWriter) Builder {
	b.writers = append(b.writers[:len(b.writers):len(b.writers)], w)
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.logger == nil {
		log.Panic("logger is not set")
	}

	if b.idGen == nil {
		log.Panic("ID generator is not set")
	}

	if err := b.policy.Validate(); err != nil {
		log.Panic(err)
	}
}

// Build builds the simulation.
func (b Builder) Build() *Simulation {
	b.parametersMustBeValid()

	s := &Simulation{
		id:      b.idGen.Generate(),
		engine:  sim.NewSerialEngine(),
		queue:   queueing.NewInsertionQueue(),
		writers: b.writers,
	}

	if b.eventLogger != nil {
		s.engine.AcceptHook(sim.NewEventLogger(b.eventLogger))
	}

	s.arbiter = arbitration.MakeBuilder().
		WithEngine(s.engine).
		WithQueue(s.queue).
		WithPolicy(b.policy).
		WithLogger(b.logger).
		Build("Arbiter")

	s.tracer = tracing.NewServiceTracer(b.writers...)
	tracing.CollectTrace(s.arbiter, s.tracer)

	return s
}
