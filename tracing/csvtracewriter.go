package tracing

import (
	"fmt"
	"os"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/intersim/arbitration"
)

// CSVTraceWriter stores serviced vehicles into a CSV file.
type CSVTraceWriter struct {
	path string
	file *os.File

	services   []arbitration.Service
	bufferSize int
}

// NewCSVTraceWriter creates a new CSVTraceWriter. The ".csv" extension is
// appended to path. An empty path picks a unique name.
func NewCSVTraceWriter(path string) *CSVTraceWriter {
	return &CSVTraceWriter{
		path:       path,
		bufferSize: 1000,
	}
}

// Path returns the name of the CSV file.
func (t *CSVTraceWriter) Path() string {
	return t.path + ".csv"
}

// Init creates the CSV file. It fails if the file already exists.
func (t *CSVTraceWriter) Init() error {
	if t.path == "" {
		t.path = "intersim_trace_" + traceNameGenerator.Generate()
	}

	filename := t.Path()
	_, err := os.Stat(filename)
	if err == nil {
		return fmt.Errorf("file %s already exists", filename)
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	t.file = file

	fmt.Fprintf(file, "Round, Direction, Turn, Arrival, Entry, Exit, Wait\n")

	atexit.Register(func() {
		t.Close()
	})

	return nil
}

// Write buffers a service.
func (t *CSVTraceWriter) Write(svc arbitration.Service) {
	t.services = append(t.services, svc)
	if len(t.services) >= t.bufferSize {
		t.Flush()
	}
}

// Flush writes the buffered services to the CSV file.
func (t *CSVTraceWriter) Flush() {
	for _, svc := range t.services {
		fmt.Fprintf(t.file, "%d, %s, %s, %.2f, %.2f, %.2f, %.2f\n",
			svc.Round,
			svc.Arrival.Direction,
			svc.Arrival.Turn,
			svc.Arrival.Time,
			svc.Entry,
			svc.Exit,
			svc.Wait,
		)
	}

	t.services = nil
}

// Close flushes the buffered services and closes the file. Closing twice is
// a no-op.
func (t *CSVTraceWriter) Close() error {
	if t.file == nil {
		return nil
	}

	t.Flush()
	err := t.file.Close()
	t.file = nil

	return err
}
