package simulation

import (
	"bytes"
	"errors"
	"log"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/intersim/arbitration"
	"github.com/sarchlab/intersim/sim"
	"github.com/sarchlab/intersim/tracing"
	"github.com/sarchlab/intersim/traffic"
)

func arrival(d traffic.Direction, t traffic.Turn, at float64) traffic.Arrival {
	return traffic.Arrival{Direction: d, Turn: t, Time: at}
}

var _ = Describe("Simulation", func() {
	var (
		mockCtrl *gomock.Controller
		writer   *MockTraceWriter
		logs     *bytes.Buffer
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		writer = NewMockTraceWriter(mockCtrl)
		logs = new(bytes.Buffer)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should run the arrivals through the intersection", func() {
		console := new(bytes.Buffer)
		s := MakeBuilder().
			WithLogger(log.New(logs, "", 0)).
			WithTraceWriter(tracing.NewConsoleTraceWriter(console)).
			Build()

		result, err := s.Run([]traffic.Arrival{
			arrival(traffic.South, traffic.Left, 5),
			arrival(traffic.North, traffic.Right, 5),
			arrival(traffic.East, traffic.Straight, 1),
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(result.ID).To(Equal(s.ID()))
		Expect(result.Arrivals).To(HaveLen(3))
		Expect(result.Arrivals[0].Direction).To(Equal(traffic.East))
		Expect(result.Services).To(HaveLen(3))
		Expect(result.Clock).To(Equal(10.0))
		Expect(result.Events).To(Equal(uint64(3)))
		Expect(result.Statistics.MaxWait).To(Equal(1.5))
		Expect(result.Arbiter.State()).To(Equal(arbitration.StateDone))
		Expect(console.String()).To(ContainSubstring(
			"Car going N, turning R, arrival time of   5.00 " +
				"is entering intersection at   5.00 and will leave at   6.50"))
		Expect(logs.String()).To(BeEmpty())
	})

	It("should write every service to the trace writers", func() {
		s := MakeBuilder().WithTraceWriter(writer).Build()

		gomock.InOrder(
			writer.EXPECT().Init().Return(nil),
			writer.EXPECT().Write(gomock.Any()).Times(2),
			writer.EXPECT().Flush(),
		)

		_, err := s.Run([]traffic.Arrival{
			arrival(traffic.North, traffic.Straight, 0),
			arrival(traffic.East, traffic.Straight, 0),
		})

		Expect(err).NotTo(HaveOccurred())
	})

	It("should stop if a trace writer cannot start", func() {
		s := MakeBuilder().WithTraceWriter(writer).Build()
		writer.EXPECT().Init().Return(errors.New("no space"))

		_, err := s.Run(nil)

		Expect(err).To(MatchError(ContainSubstring("no space")))
	})

	It("should finish at once without arrivals", func() {
		s := MakeBuilder().Build()

		result, err := s.Run(nil)

		Expect(err).NotTo(HaveOccurred())
		Expect(result.Services).To(BeEmpty())
		Expect(result.Clock).To(Equal(0.0))
		Expect(result.Events).To(Equal(uint64(0)))
	})

	It("should not run twice", func() {
		s := MakeBuilder().Build()

		_, err := s.Run(nil)
		Expect(err).NotTo(HaveOccurred())

		_, err = s.Run(nil)
		Expect(err).To(MatchError(ErrAlreadyRun))
	})

	It("should log events when asked", func() {
		events := new(bytes.Buffer)
		s := MakeBuilder().
			WithEventLogging(log.New(events, "", 0)).
			Build()

		_, err := s.Run([]traffic.Arrival{
			arrival(traffic.West, traffic.Left, 2),
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(events.String()).To(HavePrefix("2.0000000000, "))
		Expect(events.String()).To(ContainSubstring("-> Arbiter"))
	})

	It("should take its ID from the ID generator", func() {
		s := MakeBuilder().
			WithIDGenerator(sim.NewSequentialIDGenerator()).
			Build()

		result, err := s.Run(nil)

		Expect(err).NotTo(HaveOccurred())
		Expect(s.ID()).To(Equal("1"))
		Expect(result.ID).To(Equal("1"))
	})

	It("should give each simulation a unique ID by default", func() {
		Expect(MakeBuilder().Build().ID()).
			NotTo(Equal(MakeBuilder().Build().ID()))
	})

	It("should use the given policy", func() {
		s := MakeBuilder().
			WithPolicy(arbitration.DefaultPolicy().
				WithDeadlockWinner(traffic.West)).
			Build()

		var all []traffic.Arrival
		for _, d := range traffic.Directions {
			all = append(all, arrival(d, traffic.Straight, 0))
		}

		result, err := s.Run(all)

		Expect(err).NotTo(HaveOccurred())
		Expect(result.Services[0].Arrival.Direction).To(Equal(traffic.West))
	})

	It("should panic on an invalid policy", func() {
		p := arbitration.DefaultPolicy()
		p.Rules[0b0001] = arbitration.Rule{Winner: traffic.South}

		Expect(func() { MakeBuilder().WithPolicy(p).Build() }).To(Panic())
	})
})
