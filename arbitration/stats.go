package arbitration

import (
	"github.com/samber/lo"

	"github.com/sarchlab/intersim/sim"
	"github.com/sarchlab/intersim/traffic"
)

// DirectionStats accumulates the waits of the vehicles from one direction.
type DirectionStats struct {
	TotalWait sim.VTimeInSec
	Count     int
}

// Average returns the average wait. It returns false if no vehicle has been
// serviced.
func (s DirectionStats) Average() (sim.VTimeInSec, bool) {
	if s.Count == 0 {
		return 0, false
	}

	return s.TotalWait / sim.VTimeInSec(s.Count), true
}

// Statistics accumulates the waits of all serviced vehicles.
type Statistics struct {
	directions [4]DirectionStats
	MaxWait    sim.VTimeInSec
}

// Record adds a serviced vehicle to the statistics.
func (s *Statistics) Record(svc Service) {
	ds := &s.directions[svc.Arrival.Direction.Index()]
	ds.TotalWait += svc.Wait
	ds.Count++

	if svc.Wait > s.MaxWait {
		s.MaxWait = svc.Wait
	}
}

// Direction returns the statistics of one direction.
func (s Statistics) Direction(d traffic.Direction) DirectionStats {
	return s.directions[d.Index()]
}

// Serviced returns the number of serviced vehicles.
func (s Statistics) Serviced() int {
	return lo.SumBy(s.directions[:], func(ds DirectionStats) int {
		return ds.Count
	})
}

// OverallAverage returns the average wait across all serviced vehicles.
func (s Statistics) OverallAverage() (sim.VTimeInSec, bool) {
	total := lo.SumBy(s.directions[:], func(ds DirectionStats) sim.VTimeInSec {
		return ds.TotalWait
	})

	return DirectionStats{TotalWait: total, Count: s.Serviced()}.Average()
}

// AllDirectionsServiced tells if every direction had at least one vehicle.
func (s Statistics) AllDirectionsServiced() bool {
	return lo.EveryBy(s.directions[:], func(ds DirectionStats) bool {
		return ds.Count > 0
	})
}
