// Package report prints the results of a simulation as text.
package report

import (
	"fmt"
	"io"

	"github.com/sarchlab/intersim/arbitration"
	"github.com/sarchlab/intersim/traffic"
)

// WriteSummary prints the average wait of each direction that has serviced
// vehicles, the overall average if every direction has been serviced, and
// the maximum wait.
func WriteSummary(w io.Writer, stats arbitration.Statistics) error {
	for _, d := range traffic.Directions {
		avg, ok := stats.Direction(d).Average()
		if !ok {
			continue
		}

		_, err := fmt.Fprintf(w, "average wait time for %s:%6.2f\n",
			d.Name(), avg)
		if err != nil {
			return err
		}
	}

	if stats.AllDirectionsServiced() {
		overall, _ := stats.OverallAverage()

		_, err := fmt.Fprintf(w, "average wait time:%6.2f\n", overall)
		if err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "Max wait time:%6.2f\n", stats.MaxWait)

	return err
}

// WriteArrivals prints one arrival per line in the input record format.
func WriteArrivals(w io.Writer, arrivals []traffic.Arrival) error {
	for _, a := range arrivals {
		_, err := fmt.Fprintln(w, a)
		if err != nil {
			return err
		}
	}

	return nil
}
