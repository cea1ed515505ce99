// Package input decodes the arrival records of a traffic data file.
//
// Each non-blank line holds a direction character, a turn character, and an
// arrival time, separated by whitespace:
//
//	N F 0.0
//	E L 1.5
package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/sarchlab/intersim/traffic"
)

var (
	// ErrMissingField is returned when a line has fewer than three fields.
	ErrMissingField = errors.New("missing field")

	// ErrBadTime is returned when the arrival time is not a non-negative
	// number.
	ErrBadTime = errors.New("bad arrival time")
)

// A LineError reports a line that cannot be decoded.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Parse reads all the arrivals from r in file order.
func Parse(r io.Reader) ([]traffic.Arrival, error) {
	var arrivals []traffic.Arrival

	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++

		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}

		a, err := parseLine(text)
		if err != nil {
			return nil, &LineError{Line: lineNum, Text: text, Err: err}
		}

		arrivals = append(arrivals, a)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	return arrivals, nil
}

func parseLine(text string) (traffic.Arrival, error) {
	fields := strings.Fields(text)
	if len(fields) < 3 {
		return traffic.Arrival{}, ErrMissingField
	}

	if len(fields[0]) != 1 {
		return traffic.Arrival{},
			fmt.Errorf("%w: %s", traffic.ErrUnknownDirection, fields[0])
	}

	d, err := traffic.ParseDirection(fields[0][0])
	if err != nil {
		return traffic.Arrival{}, err
	}

	// Unknown turn codes are kept and reported when the vehicle is serviced.
	if len(fields[1]) != 1 {
		return traffic.Arrival{},
			fmt.Errorf("%w: %s", traffic.ErrUnknownTurn, fields[1])
	}

	t, err := strconv.ParseFloat(fields[2], 64)
	if err != nil || t < 0 || math.IsNaN(t) || math.IsInf(t, 0) {
		return traffic.Arrival{}, fmt.Errorf("%w: %s", ErrBadTime, fields[2])
	}

	return traffic.Arrival{
		Direction: d,
		Turn:      traffic.Turn(fields[1][0]),
		Time:      t,
	}, nil
}

// LoadFile opens the file at path and parses it.
func LoadFile(path string) ([]traffic.Arrival, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	return Parse(f)
}
