package tracing

import (
	"github.com/sarchlab/intersim/arbitration"
	"github.com/sarchlab/intersim/sim"
)

// A ServiceTracer is a hook that forwards the serviced vehicles of an
// arbiter to trace writers.
type ServiceTracer struct {
	writers []TraceWriter
}

// NewServiceTracer creates a ServiceTracer that writes to the given writers.
func NewServiceTracer(writers ...TraceWriter) *ServiceTracer {
	return &ServiceTracer{writers: writers}
}

// AddWriter adds one more writer.
func (t *ServiceTracer) AddWriter(w TraceWriter) {
	t.writers = append(t.writers, w)
}

// Func writes the service if the hook position is HookPosServiced.
func (t *ServiceTracer) Func(ctx sim.HookCtx) {
	if ctx.Pos != arbitration.HookPosServiced {
		return
	}

	svc := ctx.Item.(arbitration.Service)
	for _, w := range t.writers {
		w.Write(svc)
	}
}

// Flush flushes all the writers.
func (t *ServiceTracer) Flush() {
	for _, w := range t.writers {
		w.Flush()
	}
}

// CollectTrace lets the tracer trace the services of an arbiter.
func CollectTrace(domain sim.Hookable, tracer *ServiceTracer) {
	domain.AcceptHook(tracer)
}
