package patch_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/amrmesh/boxlevel"
	"github.com/sarchlab/amrmesh/geom"
	"github.com/sarchlab/amrmesh/meshmpi"
	"github.com/sarchlab/amrmesh/patch"
)

var _ = Describe("VariableDatabase", func() {
	It("allocates SCRATCH/CURRENT/NEW for a TIME_DEP variable", func() {
		db := patch.NewVariableDatabase()
		vd := db.RegisterVariable("density", patch.CellCentering(), 1, 2, patch.TimeDep)

		Expect(vd.Contexts).To(HaveKey(patch.Scratch))
		Expect(vd.Contexts).To(HaveKey(patch.Current))
		Expect(vd.Contexts).To(HaveKey(patch.New))
		Expect(vd.Contexts).NotTo(HaveKey(patch.Old))
	})

	It("auto-creates a fluxsum companion for FLUX variables", func() {
		db := patch.NewVariableDatabase()
		vd := db.RegisterVariable("xflux", patch.FaceCentering(0), 1, 0, patch.Flux)

		Expect(vd.HasFluxSum).To(BeTrue())
	})

	It("panics when a FLUX variable is not face- or side-centered (spec.md §4.4)", func() {
		db := patch.NewVariableDatabase()
		Expect(func() {
			db.RegisterVariable("badflux", patch.CellCentering(), 1, 0, patch.Flux)
		}).To(Panic())
	})

	It("panics on duplicate registration", func() {
		db := patch.NewVariableDatabase()
		db.RegisterVariable("density", patch.CellCentering(), 1, 2, patch.TimeDep)
		Expect(func() {
			db.RegisterVariable("density", patch.CellCentering(), 1, 2, patch.TimeDep)
		}).To(Panic())
	})

	It("adds an OLD context for 3-time-level TIME_DEP variables", func() {
		db := patch.NewVariableDatabase()
		vd := db.RegisterVariable("density", patch.CellCentering(), 1, 2, patch.TimeDep)
		db.AddThreeTimeLevel(vd)
		Expect(vd.Contexts).To(HaveKey(patch.Old))
	})
})

var _ = Describe("PatchLevel", func() {
	It("allocates a descriptor on every locally-owned patch", func() {
		comm := meshmpi.NewCommunicator(1)
		boxes := boxlevel.NewBoxLevel(comm, 0, geom.NewRatio(1, 1))
		boxes.AddBox(geom.NewBox(geom.NewIndex(0, 0), geom.NewIndex(9, 9)))
		boxes.AddBox(geom.NewBox(geom.NewIndex(10, 0), geom.NewIndex(19, 9)))

		pl := patch.NewPatchLevel(0, boxes)
		db := patch.NewVariableDatabase()
		vd := db.RegisterVariable("density", patch.CellCentering(), 1, 1, patch.TimeDep)
		id := vd.Contexts[patch.Current]

		pl.AllocateOnLevel(id, vd)

		Expect(pl.Patches()).To(HaveLen(2))
		for _, p := range pl.Patches() {
			Expect(p.HasData(id)).To(BeTrue())
		}
	})
})

var _ = Describe("PatchHierarchy", func() {
	It("appends and replaces levels", func() {
		comm := meshmpi.NewCommunicator(1)
		boxes := boxlevel.NewBoxLevel(comm, 0, geom.NewRatio(1, 1))
		boxes.AddBox(geom.NewBox(geom.NewIndex(0, 0), geom.NewIndex(9, 9)))

		h := patch.NewPatchHierarchy(geom.NewSingleBlockGeometry(2))
		h.AddLevel(0, patch.NewPatchLevel(0, boxes))
		Expect(h.NumLevels()).To(Equal(1))

		finer := boxlevel.NewBoxLevel(comm, 0, geom.NewRatio(2, 2))
		h.AddLevel(1, patch.NewPatchLevel(1, finer))
		Expect(h.NumLevels()).To(Equal(2))
		Expect(h.FinestLevelNumber()).To(Equal(1))

		h.RemoveFinerThan(0)
		Expect(h.NumLevels()).To(Equal(1))
	})
})
