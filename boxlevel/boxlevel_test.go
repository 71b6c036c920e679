package boxlevel_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/amrmesh/boxlevel"
	"github.com/sarchlab/amrmesh/geom"
	"github.com/sarchlab/amrmesh/meshmpi"
)

var _ = Describe("BoxLevel", func() {
	var (
		comm *meshmpi.Communicator
		all  *boxlevel.AllLevels
	)

	BeforeEach(func() {
		comm = meshmpi.NewCommunicator(2)
		all = boxlevel.NewAllLevels()
	})

	It("assigns owner/local BoxIds and keeps them stable across Lookup", func() {
		bl := boxlevel.NewBoxLevel(comm, 0, geom.NewRatio(1, 1))
		id := bl.AddBox(geom.NewBox(geom.NewIndex(0, 0), geom.NewIndex(9, 9)))

		Expect(id.Owner).To(Equal(meshmpi.Rank(0)))
		Expect(id.IsPeriodicImage()).To(BeFalse())

		mb, ok := bl.Lookup(id)
		Expect(ok).To(BeTrue())
		Expect(mb.Box.NumCells()).To(Equal(100))
	})

	It("rejects overlapping local boxes at AssertWellFormed time", func() {
		bl := boxlevel.NewBoxLevel(comm, 0, geom.NewRatio(1, 1))
		bl.AddBox(geom.NewBox(geom.NewIndex(0, 0), geom.NewIndex(9, 9)))
		bl.AddBox(geom.NewBox(geom.NewIndex(5, 5), geom.NewIndex(14, 14)))

		Expect(bl.AssertWellFormed()).To(HaveOccurred())
	})

	It("globalizes across every registered rank", func() {
		rank0 := boxlevel.NewBoxLevel(comm, 0, geom.NewRatio(1, 1))
		rank0.AddBox(geom.NewBox(geom.NewIndex(0, 0), geom.NewIndex(9, 9)))
		rank1 := boxlevel.NewBoxLevel(comm, 1, geom.NewRatio(1, 1))
		rank1.AddBox(geom.NewBox(geom.NewIndex(10, 0), geom.NewIndex(19, 9)))

		all.Register(rank0)
		all.Register(rank1)

		global := rank0.Globalize(all)
		Expect(global).To(HaveLen(2))
	})

	It("preserves BoxIds across Refine", func() {
		bl := boxlevel.NewBoxLevel(comm, 0, geom.NewRatio(1, 1))
		id := bl.AddBox(geom.NewBox(geom.NewIndex(0, 0), geom.NewIndex(9, 9)))

		fine := bl.Refine(geom.NewRatio(2, 2))
		mb, ok := fine.Lookup(id)
		Expect(ok).To(BeTrue())
		Expect(mb.Box.NumCells()).To(Equal(400))
	})
})
