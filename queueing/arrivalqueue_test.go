package queueing

import (
	"errors"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/intersim/traffic"
)

var _ = Describe("InsertionQueue", func() {
	var (
		queue *InsertionQueue
	)

	BeforeEach(func() {
		queue = NewInsertionQueue()
	})

	It("should be empty", func() {
		_, ok := queue.Front()
		Expect(ok).To(BeFalse())

		_, ok = queue.FirstOf(traffic.North)
		Expect(ok).To(BeFalse())
		Expect(queue.Len()).To(Equal(0))
		Expect(queue.Arrivals()).To(BeEmpty())
	})

	It("should keep arrivals in time order", func() {
		for i := 0; i < 100; i++ {
			queue.Insert(traffic.Arrival{
				Direction: traffic.Directions[rand.Intn(4)],
				Turn:      traffic.Straight,
				Time:      rand.Float64() * 100,
			})
		}

		arrivals := queue.Arrivals()
		Expect(arrivals).To(HaveLen(100))
		for i := 1; i < len(arrivals); i++ {
			Expect(arrivals[i].Time).To(BeNumerically(">=", arrivals[i-1].Time))
		}
	})

	It("should put equal-time arrivals after existing ones", func() {
		a := queue.Insert(traffic.Arrival{
			Direction: traffic.North, Turn: traffic.Left, Time: 1})
		b := queue.Insert(traffic.Arrival{
			Direction: traffic.East, Turn: traffic.Left, Time: 1})
		c := queue.Insert(traffic.Arrival{
			Direction: traffic.South, Turn: traffic.Left, Time: 0.5})

		Expect(queue.Arrivals()).To(Equal([]traffic.Arrival{c, a, b}))

		front, ok := queue.Front()
		Expect(ok).To(BeTrue())
		Expect(front).To(Equal(c))
	})

	It("should assign sequential IDs", func() {
		a := queue.Insert(traffic.Arrival{Direction: traffic.North, Time: 3})
		b := queue.Insert(traffic.Arrival{Direction: traffic.North, Time: 1})
		c := queue.Insert(traffic.Arrival{
			ID: "keep", Direction: traffic.North, Time: 2})

		Expect(a.ID).To(Equal("1"))
		Expect(b.ID).To(Equal("2"))
		Expect(c.ID).To(Equal("keep"))
	})

	It("should find the first arrival of a direction", func() {
		queue.Insert(traffic.Arrival{Direction: traffic.North, Time: 1})
		e1 := queue.Insert(traffic.Arrival{Direction: traffic.East, Time: 2})
		queue.Insert(traffic.Arrival{Direction: traffic.East, Time: 3})

		first, ok := queue.FirstOf(traffic.East)
		Expect(ok).To(BeTrue())
		Expect(first).To(Equal(e1))

		_, ok = queue.FirstOf(traffic.West)
		Expect(ok).To(BeFalse())
	})

	It("should remove by ID", func() {
		a := queue.Insert(traffic.Arrival{
			Direction: traffic.North, Turn: traffic.Left, Time: 1})
		b := queue.Insert(traffic.Arrival{
			Direction: traffic.North, Turn: traffic.Left, Time: 1})

		Expect(queue.Remove(b)).To(Succeed())

		Expect(queue.Arrivals()).To(Equal([]traffic.Arrival{a}))
	})

	It("should remove by value when there is no ID", func() {
		queue.Insert(traffic.Arrival{
			Direction: traffic.North, Turn: traffic.Left, Time: 1})
		b := queue.Insert(traffic.Arrival{
			Direction: traffic.West, Turn: traffic.Left, Time: 1})

		err := queue.Remove(traffic.Arrival{
			Direction: traffic.North, Turn: traffic.Left, Time: 1})

		Expect(err).NotTo(HaveOccurred())
		Expect(queue.Arrivals()).To(Equal([]traffic.Arrival{b}))
	})

	It("should report arrivals that are not found", func() {
		queue.Insert(traffic.Arrival{Direction: traffic.North, Time: 1})

		err := queue.Remove(traffic.Arrival{Direction: traffic.South, Time: 1})
		Expect(errors.Is(err, ErrNotFound)).To(BeTrue())

		err = queue.Remove(traffic.Arrival{ID: "42"})
		Expect(errors.Is(err, ErrNotFound)).To(BeTrue())
		Expect(queue.Len()).To(Equal(1))
	})
})
