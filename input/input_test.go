package input

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/intersim/traffic"
)

var _ = Describe("Parse", func() {
	It("should parse records in file order", func() {
		arrivals, err := Parse(strings.NewReader(
			"N F 0.0\n\nE  L\t1.5\r\nS R 3 trailing\n"))

		Expect(err).NotTo(HaveOccurred())
		Expect(arrivals).To(Equal([]traffic.Arrival{
			{Direction: traffic.North, Turn: traffic.Straight, Time: 0},
			{Direction: traffic.East, Turn: traffic.Left, Time: 1.5},
			{Direction: traffic.South, Turn: traffic.Right, Time: 3},
		}))
	})

	It("should accept an empty input", func() {
		arrivals, err := Parse(strings.NewReader(""))

		Expect(err).NotTo(HaveOccurred())
		Expect(arrivals).To(BeEmpty())
	})

	It("should keep unknown turn codes", func() {
		arrivals, err := Parse(strings.NewReader("W X 2\n"))

		Expect(err).NotTo(HaveOccurred())
		Expect(arrivals[0].Turn).To(Equal(traffic.Turn('X')))
		Expect(arrivals[0].Turn.Valid()).To(BeFalse())
	})

	DescribeTable("bad lines",
		func(text string, line int, cause error) {
			_, err := Parse(strings.NewReader(text))

			var lineErr *LineError
			Expect(errors.As(err, &lineErr)).To(BeTrue())
			Expect(lineErr.Line).To(Equal(line))
			Expect(err).To(MatchError(cause))
		},
		Entry("unknown direction", "N F 0\nQ F 1\n", 2,
			traffic.ErrUnknownDirection),
		Entry("long direction", "NE F 1\n", 1, traffic.ErrUnknownDirection),
		Entry("long turn", "N FR 1\n", 1, traffic.ErrUnknownTurn),
		Entry("missing time", "\nN F\n", 2, ErrMissingField),
		Entry("unparsable time", "N F soon\n", 1, ErrBadTime),
		Entry("negative time", "N F -1\n", 1, ErrBadTime),
		Entry("not a number", "N F NaN\n", 1, ErrBadTime),
	)

	It("should name the line in the message", func() {
		_, err := Parse(strings.NewReader("N F x\n"))

		Expect(err.Error()).To(ContainSubstring(`line 1 "N F x"`))
	})
})

var _ = Describe("LoadFile", func() {
	It("should load a file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "traffic.txt")
		Expect(os.WriteFile(path, []byte("S L 4\n"), 0o644)).To(Succeed())

		arrivals, err := LoadFile(path)

		Expect(err).NotTo(HaveOccurred())
		Expect(arrivals).To(HaveLen(1))
		Expect(arrivals[0].Direction).To(Equal(traffic.South))
	})

	It("should fail on a missing file", func() {
		_, err := LoadFile(filepath.Join(GinkgoT().TempDir(), "none.txt"))

		Expect(err).To(MatchError(os.ErrNotExist))
	})
})
