package sim

import (
	"strconv"

	"github.com/rs/xid"
)

// IDGenerator can generate IDs
type IDGenerator interface {
	// Generate an ID
	Generate() string
}

var eventIDGenerator = NewSequentialIDGenerator()

// NewSequentialIDGenerator creates an IDGenerator that returns "1", "2", ...
// Two generators created the same way produce the same IDs, which keeps
// simulations deterministic.
func NewSequentialIDGenerator() IDGenerator {
	return &sequentialIDGenerator{}
}

// NewXIDGenerator creates an IDGenerator that returns globally unique IDs. The
// IDs are not deterministic.
func NewXIDGenerator() IDGenerator {
	return xidGenerator{}
}

type sequentialIDGenerator struct {
	nextID uint64
}

func (g *sequentialIDGenerator) Generate() string {
	g.nextID++

	return strconv.FormatUint(g.nextID, 10)
}

type xidGenerator struct {
}

func (g xidGenerator) Generate() string {
	return xid.New().String()
}
