// Package traffic defines the vehicles that arrive at the intersection.
package traffic

import (
	"errors"
	"fmt"

	"github.com/sarchlab/intersim/sim"
)

// ErrUnknownDirection is returned when a direction code is not one of N, S, E,
// or W.
var ErrUnknownDirection = errors.New("unknown direction")

// ErrUnknownTurn is returned when a turn code is not one of F, R, or L.
var ErrUnknownTurn = errors.New("unknown turn")

// Direction is the approach that a vehicle comes from. The value is the
// character used in input files.
type Direction byte

// The four approaches.
const (
	North Direction = 'N'
	South Direction = 'S'
	East  Direction = 'E'
	West  Direction = 'W'
)

// Directions lists all the approaches in the order North, East, South, West.
var Directions = [4]Direction{North, East, South, West}

// ParseDirection converts an input character into a Direction.
func ParseDirection(c byte) (Direction, error) {
	d := Direction(c)
	if !d.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, c)
	}

	return d, nil
}

// Valid tells if the direction is one of the four approaches.
func (d Direction) Valid() bool {
	switch d {
	case North, South, East, West:
		return true
	default:
		return false
	}
}

// Index returns the position of the direction in Directions, or -1.
func (d Direction) Index() int {
	for i, dir := range Directions {
		if dir == d {
			return i
		}
	}

	return -1
}

// Name returns the lower-case name of the direction.
func (d Direction) Name() string {
	switch d {
	case North:
		return "north"
	case South:
		return "south"
	case East:
		return "east"
	case West:
		return "west"
	default:
		return fmt.Sprintf("unknown(%q)", byte(d))
	}
}

// String returns the direction code.
func (d Direction) String() string {
	return string(rune(d))
}

// Turn is the maneuver a vehicle performs in the intersection. A Turn can
// carry codes that are not valid, so that bad input reaches the arbiter.
type Turn byte

// The three maneuvers.
const (
	Straight Turn = 'F'
	Right    Turn = 'R'
	Left     Turn = 'L'
)

// Valid tells if the turn is one of the three maneuvers.
func (t Turn) Valid() bool {
	switch t {
	case Straight, Right, Left:
		return true
	default:
		return false
	}
}

// String returns the turn code.
func (t Turn) String() string {
	return string(rune(t))
}

// Duration returns how long a vehicle performing the turn occupies the
// intersection. Unknown turns take no time and return ErrUnknownTurn.
func Duration(t Turn) (sim.VTimeInSec, error) {
	switch t {
	case Straight:
		return 2.0, nil
	case Right:
		return 1.5, nil
	case Left:
		return 3.5, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownTurn, byte(t))
	}
}

// Arrival is a vehicle that arrives at the intersection.
type Arrival struct {
	ID        string
	Direction Direction
	Turn      Turn
	Time      sim.VTimeInSec
}

// SameAs tells if two arrivals have the same direction, turn, and time. IDs
// are not compared.
func (a Arrival) SameAs(b Arrival) bool {
	return a.Direction == b.Direction &&
		a.Turn == b.Turn &&
		a.Time == b.Time
}

// String returns the arrival in the input record format.
func (a Arrival) String() string {
	return fmt.Sprintf("%s %s %f", a.Direction, a.Turn, a.Time)
}
