package tracing

import (
	"fmt"
	"io"

	"github.com/sarchlab/intersim/arbitration"
)

// ConsoleTraceWriter prints one line per serviced vehicle.
type ConsoleTraceWriter struct {
	w io.Writer
}

// NewConsoleTraceWriter creates a ConsoleTraceWriter that prints to w.
func NewConsoleTraceWriter(w io.Writer) *ConsoleTraceWriter {
	return &ConsoleTraceWriter{w: w}
}

// Init does nothing.
func (t *ConsoleTraceWriter) Init() error {
	return nil
}

// Write prints the service.
func (t *ConsoleTraceWriter) Write(svc arbitration.Service) {
	fmt.Fprintf(t.w,
		"Car going %s, turning %s, arrival time of %6.2f "+
			"is entering intersection at %6.2f and will leave at %6.2f\n",
		svc.Arrival.Direction,
		svc.Arrival.Turn,
		svc.Arrival.Time,
		svc.Entry,
		svc.Exit,
	)
}

// Flush does nothing as lines are printed at once.
func (t *ConsoleTraceWriter) Flush() {}
