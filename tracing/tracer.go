// Package tracing records the vehicles serviced by an arbiter.
package tracing

import (
	"github.com/sarchlab/intersim/arbitration"
	"github.com/sarchlab/intersim/sim"
)

// traceNameGenerator names the trace files created without a path.
var traceNameGenerator = sim.NewXIDGenerator()

// A TraceWriter stores serviced vehicles.
type TraceWriter interface {
	// Init prepares the storage. It must be called before Write.
	Init() error

	// Write records one service. Writers may buffer the record until Flush.
	Write(svc arbitration.Service)

	// Flush stores all the buffered records.
	Flush()
}
