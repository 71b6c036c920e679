package connector_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/amrmesh/boxlevel"
	"github.com/sarchlab/amrmesh/connector"
	"github.com/sarchlab/amrmesh/geom"
	"github.com/sarchlab/amrmesh/meshmpi"
)

var _ = Describe("FindOverlaps", func() {
	It("finds every overlap implied by the stated width (spec.md §8 property 2)", func() {
		comm := meshmpi.NewCommunicator(1)
		all := boxlevel.NewAllLevels()

		base := boxlevel.NewBoxLevel(comm, 0, geom.NewRatio(1, 1))
		baseID := base.AddBox(geom.NewBox(geom.NewIndex(0, 0), geom.NewIndex(9, 9)))

		head := boxlevel.NewBoxLevel(comm, 0, geom.NewRatio(1, 1))
		headID := head.AddBox(geom.NewBox(geom.NewIndex(8, 0), geom.NewIndex(17, 9)))
		all.Register(head)

		c := connector.New(base, head, geom.NewRatio(2, 2))
		connector.FindOverlaps(c, nil, all, false)

		Expect(c.Complete).To(BeTrue())
		edges := c.NeighborsOf(baseID)
		Expect(edges).To(HaveLen(1))
		Expect(edges[0].Head).To(Equal(headID))
	})

	It("omits no-overlap pairs", func() {
		comm := meshmpi.NewCommunicator(1)
		all := boxlevel.NewAllLevels()

		base := boxlevel.NewBoxLevel(comm, 0, geom.NewRatio(1, 1))
		base.AddBox(geom.NewBox(geom.NewIndex(0, 0), geom.NewIndex(9, 9)))

		head := boxlevel.NewBoxLevel(comm, 0, geom.NewRatio(1, 1))
		head.AddBox(geom.NewBox(geom.NewIndex(100, 100), geom.NewIndex(110, 110)))
		all.Register(head)

		c := connector.New(base, head, geom.NewRatio(2, 2))
		connector.FindOverlaps(c, nil, all, false)

		Expect(c.AllEdges()).To(BeEmpty())
	})

	It("drops self-overlap edges when requested", func() {
		comm := meshmpi.NewCommunicator(1)
		all := boxlevel.NewAllLevels()

		level := boxlevel.NewBoxLevel(comm, 0, geom.NewRatio(1, 1))
		level.AddBox(geom.NewBox(geom.NewIndex(0, 0), geom.NewIndex(9, 9)))
		all.Register(level)

		c := connector.New(level, level, geom.NewRatio(2, 2))
		connector.FindOverlaps(c, nil, all, true)

		Expect(c.AllEdges()).To(BeEmpty())
	})
})

var _ = Describe("Bridge", func() {
	It("computes a complete West<->East connector under a nesting proof (spec.md §8 property 3)", func() {
		comm := meshmpi.NewCommunicator(1)
		centerAll := boxlevel.NewAllLevels()
		westAll := boxlevel.NewAllLevels()
		eastAll := boxlevel.NewAllLevels()

		center := boxlevel.NewBoxLevel(comm, 0, geom.NewRatio(1, 1))
		centerID := center.AddBox(geom.NewBox(geom.NewIndex(0, 0), geom.NewIndex(9, 9)))
		centerAll.Register(center)

		west := boxlevel.NewBoxLevel(comm, 0, geom.NewRatio(1, 1))
		west.AddBox(geom.NewBox(geom.NewIndex(-5, 0), geom.NewIndex(4, 9)))
		westAll.Register(west)

		east := boxlevel.NewBoxLevel(comm, 0, geom.NewRatio(1, 1))
		east.AddBox(geom.NewBox(geom.NewIndex(5, 0), geom.NewIndex(14, 9)))
		eastAll.Register(east)

		width := geom.NewRatio(1, 1)
		centerToWest := connector.New(center, west, width)
		connector.FindOverlaps(centerToWest, nil, westAll, false)
		centerToEast := connector.New(center, east, width)
		connector.FindOverlaps(centerToEast, nil, eastAll, false)

		westToCenter := connector.New(west, center, width)
		connector.FindOverlaps(westToCenter, nil, centerAll, false)
		eastToCenter := connector.New(east, center, width)
		connector.FindOverlaps(eastToCenter, nil, centerAll, false)

		g := 0
		w2e, e2w := connector.Bridge(connector.BridgeInput{
			Center:                   center,
			West:                     west,
			East:                     east,
			CenterToWest:             centerToWest,
			WestToCenter:             westToCenter,
			CenterToEast:             centerToEast,
			EastToCenter:             eastToCenter,
			Comm:                     comm,
			WestNestsInCenterGrownBy: &g,
			EastNestsInCenterGrownBy: &g,
		})

		Expect(w2e.Complete).To(BeTrue())
		Expect(e2w.Complete).To(BeTrue())

		Expect(connector.AssertConsistentTranspose(connector.Transpose{Forward: w2e, Backward: e2w})).To(Succeed())

		_ = centerID
	})
})
