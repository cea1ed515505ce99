// Package arbitration decides the order in which waiting vehicles enter the
// intersection.
package arbitration

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sarchlab/intersim/sim"
	"github.com/sarchlab/intersim/traffic"
)

// ErrInvalidPolicy is returned by Policy.Validate.
var ErrInvalidPolicy = errors.New("invalid right-of-way policy")

// Mask is a set of directions. Bit i stands for traffic.Directions[i].
type Mask uint8

// MaskOf returns the set of the given directions.
func MaskOf(dirs ...traffic.Direction) Mask {
	var m Mask
	for _, d := range dirs {
		if i := d.Index(); i >= 0 {
			m |= 1 << i
		}
	}

	return m
}

// Has tells if the direction is in the set.
func (m Mask) Has(d traffic.Direction) bool {
	i := d.Index()
	if i < 0 {
		return false
	}

	return m&(1<<i) != 0
}

// Count returns the number of directions in the set.
func (m Mask) Count() int {
	n := 0
	for _, d := range traffic.Directions {
		if m.Has(d) {
			n++
		}
	}

	return n
}

// String lists the direction codes in the set, such as "NES".
func (m Mask) String() string {
	var sb strings.Builder
	for _, d := range traffic.Directions {
		if m.Has(d) {
			sb.WriteString(d.String())
		}
	}

	return sb.String()
}

// A Rule tells which of the vehicles that arrived at the same instant goes
// first. When ByManeuver is set, Contender goes first if its maneuver ranks
// strictly higher than the Winner's. Without ByManeuver the maneuvers are not
// looked at: in the default policy only opposing pairs compare maneuvers, and
// a pair of adjacent directions, such as a North straight and a West left,
// is settled by position alone.
type Rule struct {
	Winner     traffic.Direction
	Contender  traffic.Direction
	ByManeuver bool
}

// Policy is the right-of-way table. Rules is indexed by the Mask of the
// directions whose candidates share the earliest arrival time.
type Policy struct {
	Rules        [16]Rule
	ManeuverRank map[traffic.Turn]int
}

// DefaultPolicy returns the right-hand rule: a vehicle yields to the vehicle
// on its right. Opposing vehicles do not conflict on position, so straight
// goes before right and right before left, with North and East going first
// on equal maneuvers. If all four arrive together, North goes first.
func DefaultPolicy() Policy {
	const (
		n = traffic.North
		e = traffic.East
		s = traffic.South
		w = traffic.West
	)

	return Policy{
		Rules: [16]Rule{
			0b0001: {Winner: n},
			0b0010: {Winner: e},
			0b0011: {Winner: n},
			0b0100: {Winner: s},
			0b0101: {Winner: n, Contender: s, ByManeuver: true},
			0b0110: {Winner: e},
			0b0111: {Winner: n},
			0b1000: {Winner: w},
			0b1001: {Winner: w},
			0b1010: {Winner: e, Contender: w, ByManeuver: true},
			0b1011: {Winner: w},
			0b1100: {Winner: s},
			0b1101: {Winner: s},
			0b1110: {Winner: e},
			0b1111: {Winner: n},
		},
		ManeuverRank: map[traffic.Turn]int{
			traffic.Straight: 3,
			traffic.Right:    2,
			traffic.Left:     1,
		},
	}
}

// WithDeadlockWinner returns a copy of the policy in which d goes first when
// all four directions arrive together.
func (p Policy) WithDeadlockWinner(d traffic.Direction) Policy {
	p.Rules[MaskOf(traffic.Directions[:]...)] = Rule{Winner: d}

	return p
}

// Validate checks that every non-empty set of directions has a rule that
// picks a member of the set.
func (p Policy) Validate() error {
	for m := Mask(1); m < 16; m++ {
		r := p.Rules[m]

		if !m.Has(r.Winner) {
			return fmt.Errorf("%w: winner %q not in %s",
				ErrInvalidPolicy, byte(r.Winner), m)
		}

		if !r.ByManeuver {
			continue
		}

		if !m.Has(r.Contender) || r.Contender == r.Winner {
			return fmt.Errorf("%w: contender %q not valid for %s",
				ErrInvalidPolicy, byte(r.Contender), m)
		}
	}

	return nil
}

// Resolve picks the candidate that enters the intersection next. It returns
// false only if there is no candidate.
func (p Policy) Resolve(c Candidates) (traffic.Arrival, bool) {
	tied := c.earliest()
	if tied == 0 {
		return traffic.Arrival{}, false
	}

	r := p.Rules[tied]
	winner, _ := c.Get(r.Winner)

	if r.ByManeuver {
		contender, _ := c.Get(r.Contender)
		if p.ManeuverRank[contender.Turn] > p.ManeuverRank[winner.Turn] {
			return contender, true
		}
	}

	return winner, true
}

// Candidates holds the earliest pending arrival of each direction.
type Candidates struct {
	arrivals [4]traffic.Arrival
	present  Mask
}

// Set makes a the candidate of its direction.
func (c *Candidates) Set(a traffic.Arrival) {
	i := a.Direction.Index()
	c.arrivals[i] = a
	c.present |= 1 << i
}

// Clear marks the direction as exhausted.
func (c *Candidates) Clear(d traffic.Direction) {
	i := d.Index()
	c.arrivals[i] = traffic.Arrival{}
	c.present &^= 1 << i
}

// Get returns the candidate of the direction.
func (c Candidates) Get(d traffic.Direction) (traffic.Arrival, bool) {
	if !c.present.Has(d) {
		return traffic.Arrival{}, false
	}

	return c.arrivals[d.Index()], true
}

// Present returns the directions that have a candidate.
func (c Candidates) Present() Mask {
	return c.present
}

// EarliestTime returns the arrival time of the earliest candidate. It returns
// false if there is no candidate.
func (c Candidates) EarliestTime() (sim.VTimeInSec, bool) {
	tied := c.earliest()
	if tied == 0 {
		return 0, false
	}

	for i, d := range traffic.Directions {
		if tied.Has(d) {
			return c.arrivals[i].Time, true
		}
	}

	return 0, false
}

// Empty tells if all directions are exhausted.
func (c Candidates) Empty() bool {
	return c.present == 0
}

// earliest returns the directions whose candidates arrive first.
func (c Candidates) earliest() Mask {
	var (
		tied  Mask
		first sim.VTimeInSec
	)

	for i, d := range traffic.Directions {
		if !c.present.Has(d) {
			continue
		}

		t := c.arrivals[i].Time
		switch {
		case tied == 0 || t < first:
			tied = 1 << i
			first = t
		case t == first:
			tied |= 1 << i
		}
	}

	return tied
}
