package patch

import (
	"github.com/sarchlab/amrmesh/boxlevel"
	"github.com/sarchlab/amrmesh/geom"
)

// PatchLevel is a BoxLevel plus the local Patches holding actual data
// (spec.md §3 "PatchLevel"): every locally-owned box in Boxes gets exactly
// one Patch, created lazily the first time the level is built from a
// BoxLevel.
type PatchLevel struct {
	Level  int
	Boxes  *boxlevel.BoxLevel
	Ratio  geom.Ratio

	patches   []*Patch
	byId      map[boxlevel.BoxId]*Patch
}

// NewPatchLevel builds a PatchLevel at the given hierarchy level index from
// a BoxLevel, creating one empty Patch per locally-owned box.
func NewPatchLevel(levelNum int, boxes *boxlevel.BoxLevel) *PatchLevel {
	pl := &PatchLevel{
		Level: levelNum,
		Boxes: boxes,
		Ratio: boxes.Ratio,
		byId:  make(map[boxlevel.BoxId]*Patch),
	}
	for _, mb := range boxes.Local() {
		p := NewPatch(mb.Id, mb.Box)
		pl.patches = append(pl.patches, p)
		pl.byId[mb.Id] = p
	}
	return pl
}

// Patches returns every locally-owned Patch on this level.
func (pl *PatchLevel) Patches() []*Patch { return pl.patches }

// Patch returns the Patch for id, if locally owned.
func (pl *PatchLevel) Patch(id boxlevel.BoxId) (*Patch, bool) {
	p, ok := pl.byId[id]
	return p, ok
}

// AllocateOnLevel allocates id on every locally-owned patch of this level
// (the per-level form of registerVariable's "the integrator allocates
// contexts ... according to role", spec.md §4.4).
func (pl *PatchLevel) AllocateOnLevel(id DescriptorId, vd *VariableDescriptor) {
	for _, p := range pl.patches {
		p.Allocate(id, vd)
	}
}

// DeallocateOnLevel frees id on every locally-owned patch of this level.
func (pl *PatchLevel) DeallocateOnLevel(id DescriptorId) {
	for _, p := range pl.patches {
		p.Deallocate(id)
	}
}

// AllocateComplexOnLevel allocates id as complex data on every locally-owned
// patch of this level, mirroring AllocateOnLevel for ScalarType
// ComplexScalar variables.
func (pl *PatchLevel) AllocateComplexOnLevel(id DescriptorId, vd *VariableDescriptor) {
	for _, p := range pl.patches {
		p.AllocateComplex(id, vd)
	}
}

// DeallocateComplexOnLevel frees complex id on every locally-owned patch of
// this level.
func (pl *PatchLevel) DeallocateComplexOnLevel(id DescriptorId) {
	for _, p := range pl.patches {
		p.DeallocateComplex(id)
	}
}

// SetTimeOnLevel stamps id at time t on every locally-owned patch.
func (pl *PatchLevel) SetTimeOnLevel(id DescriptorId, t float64) {
	for _, p := range pl.patches {
		p.SetTime(id, t)
	}
}
