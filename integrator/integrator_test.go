package integrator_test

import (
	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/amrmesh/boxlevel"
	"github.com/sarchlab/amrmesh/config"
	"github.com/sarchlab/amrmesh/geom"
	"github.com/sarchlab/amrmesh/integrator"
	"github.com/sarchlab/amrmesh/meshmpi"
	"github.com/sarchlab/amrmesh/patch"
)

func oneLevelHierarchy() (*patch.PatchHierarchy, *patch.PatchLevel, *meshmpi.Communicator, *geom.BlockGeometry) {
	geometry := geom.NewSingleBlockGeometry(2)
	comm := meshmpi.NewCommunicator(1)
	boxes := boxlevel.NewBoxLevel(comm, 0, geom.NewRatio(1, 1))
	boxes.AddBox(geom.NewBox(geom.NewIndex(0, 0), geom.NewIndex(3, 3)))

	level := patch.NewPatchLevel(0, boxes)
	hierarchy := patch.NewPatchHierarchy(geometry)
	hierarchy.AddLevel(0, level)

	return hierarchy, level, comm, geometry
}

var _ = Describe("HyperbolicLevelIntegrator", func() {
	It("registers a TIME_DEP variable with SCRATCH/CURRENT/NEW contexts", func() {
		hierarchy, _, comm, geometry := oneLevelHierarchy()
		_ = hierarchy
		strategy := newFakeStrategy()
		cfg := config.NewBuilder().WithCFL(0.5).WithCFLInit(0.1).Build()

		ctrl := gomock.NewController(GinkgoT())
		gridding := NewMockGriddingCollaborator(ctrl)
		gridding.EXPECT().GetErrorCoarsenRatio().Return(2).AnyTimes()
		gridding.EXPECT().EverUsesTimeIntegration().Return(true).AnyTimes()

		i := integrator.New(strategy, gridding, cfg, comm, geometry)

		vd, ok := i.VarDB.Lookup("u")
		Expect(ok).To(BeTrue())
		Expect(vd.Contexts).To(HaveKey(patch.Scratch))
		Expect(vd.Contexts).To(HaveKey(patch.Current))
		Expect(vd.Contexts).To(HaveKey(patch.New))
	})

	It("rejects mixing face- and side-centered FLUX variables", func() {
		hierarchy, _, comm, geometry := oneLevelHierarchy()
		_ = hierarchy
		cfg := config.NewBuilder().WithCFL(0.5).WithCFLInit(0.1).Build()
		i := integrator.New(newFakeStrategy(), fakeGridding{ratio: 2}, cfg, comm, geometry)

		i.RegisterVariable("fx", patch.FaceCentering(0), 1, 0, patch.Flux)

		Expect(func() {
			i.RegisterVariable("fy", patch.SideCentering(1), 1, 0, patch.Flux)
		}).To(Panic())
	})

	It("runs initializeLevelData then a full advanceLevel substep", func() {
		hierarchy, level, comm, geometry := oneLevelHierarchy()
		strategy := newFakeStrategy()
		strategy.dt = 2.0
		cfg := config.NewBuilder().WithCFL(0.5).WithCFLInit(0.1).Build()

		i := integrator.New(strategy, fakeGridding{ratio: 2}, cfg, comm, geometry)

		i.InitializeLevelData(hierarchy, 0, 0.0, true, true)
		Expect(strategy.initCalls).To(Equal(len(level.Patches())))

		i.ResetHierarchyConfiguration(hierarchy, 0, 0)

		dtNext := i.AdvanceLevel(hierarchy, 0, 0.0, 0.1, true, true, false)

		Expect(strategy.computeFluxesCalls).To(Equal(len(level.Patches())))
		Expect(strategy.conservativeDiffCalls).To(Equal(len(level.Patches())))
		Expect(strategy.preprocessCalls).To(Equal(1))
		Expect(strategy.postprocessCalls).To(Equal(1))
		Expect(dtNext).To(Equal(2.0 * 0.5))
	})
})
