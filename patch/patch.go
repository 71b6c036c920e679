package patch

import (
	"fmt"

	"github.com/sarchlab/amrmesh/boxlevel"
	"github.com/sarchlab/amrmesh/geom"
)

// Patch is one local grid box together with the patch-data arrays
// currently allocated on it, keyed by DescriptorId (spec.md §3 "Patch").
type Patch struct {
	Id      boxlevel.BoxId
	Box     geom.Box
	arrays        map[DescriptorId]*Array
	complexArrays map[DescriptorId]*ComplexArray
	stamps  map[DescriptorId]float64
}

// NewPatch builds an empty Patch over box; no data is allocated yet.
func NewPatch(id boxlevel.BoxId, box geom.Box) *Patch {
	return &Patch{
		Id:            id,
		Box:           box,
		arrays:        make(map[DescriptorId]*Array),
		complexArrays: make(map[DescriptorId]*ComplexArray),
		stamps:        make(map[DescriptorId]float64),
	}
}

// Allocate creates the Array for id (per vd's centering/depth/ghost width)
// if it does not already exist, and returns it.
func (p *Patch) Allocate(id DescriptorId, vd *VariableDescriptor) *Array {
	if a, ok := p.arrays[id]; ok {
		return a
	}
	a := NewArray(vd.Centering, p.Box, vd.GhostWidth, vd.Depth)
	p.arrays[id] = a
	return a
}

// Deallocate frees the storage for id, e.g. SCRATCH after a substep
// (spec.md §4.4 advanceLevel step 3/10 "deallocate the fine-level fluxsum
// and FLUX arrays").
func (p *Patch) Deallocate(id DescriptorId) {
	delete(p.arrays, id)
	delete(p.stamps, id)
}

// HasData reports whether id is currently allocated on this patch.
func (p *Patch) HasData(id DescriptorId) bool {
	_, ok := p.arrays[id]
	return ok
}

// Data returns the Array for id, panicking if it has not been allocated —
// callers are expected to have allocated every descriptor they read
// (spec.md's "missing mandatory inputs ... are fatal").
func (p *Patch) Data(id DescriptorId) *Array {
	a, ok := p.arrays[id]
	if !ok {
		panic(fmt.Sprintf("patch: descriptor %d not allocated on patch %v", id, p.Id))
	}
	return a
}

// AllocateComplex creates the ComplexArray for id (per vd's
// centering/depth/ghost width) if it does not already exist, and returns it
// — the complex counterpart of Allocate, for variables registered with
// ScalarType ComplexScalar.
func (p *Patch) AllocateComplex(id DescriptorId, vd *VariableDescriptor) *ComplexArray {
	if a, ok := p.complexArrays[id]; ok {
		return a
	}
	a := NewComplexArray(vd.Centering, p.Box, vd.GhostWidth, vd.Depth)
	p.complexArrays[id] = a
	return a
}

// DeallocateComplex frees the storage for id.
func (p *Patch) DeallocateComplex(id DescriptorId) {
	delete(p.complexArrays, id)
	delete(p.stamps, id)
}

// HasComplexData reports whether id is currently allocated as complex data
// on this patch.
func (p *Patch) HasComplexData(id DescriptorId) bool {
	_, ok := p.complexArrays[id]
	return ok
}

// DataComplex returns the ComplexArray for id, panicking if it has not been
// allocated.
func (p *Patch) DataComplex(id DescriptorId) *ComplexArray {
	a, ok := p.complexArrays[id]
	if !ok {
		panic(fmt.Sprintf("patch: complex descriptor %d not allocated on patch %v", id, p.Id))
	}
	return a
}

// SetTime stamps id with simulation time t (used to tell CURRENT/NEW apart
// during time-interpolating refine schedules).
func (p *Patch) SetTime(id DescriptorId, t float64) {
	p.stamps[id] = t
}

// Time returns the time stamp for id, or 0 if never stamped.
func (p *Patch) Time(id DescriptorId) float64 {
	return p.stamps[id]
}

// CopyData copies src into dst over their common index-space region (the
// two arrays need not share a ghost width — e.g. copying SCRATCH, allocated
// with wide ghosts, into CURRENT, interior-only, per spec.md §4.3 step 8
// "copy scratch into destination"). When the two arrays happen to share the
// same box exactly, this degenerates to a flat copy.
func (p *Patch) CopyData(dst, src DescriptorId) {
	d, s := p.Data(dst), p.Data(src)
	if d.Box.Equal(s.Box) {
		copy(d.Raw(), s.Raw())
		return
	}

	region := d.Box.Intersect(s.Box)
	if region.Empty() {
		return
	}
	depth := d.Depth
	if s.Depth < depth {
		depth = s.Depth
	}
	forEachIndex(region, func(idx geom.Index) {
		for c := 0; c < depth; c++ {
			d.Set(idx, c, s.At(idx, c))
		}
	})
}

// forEachIndex calls fn once for every index point in box (2D or 3D).
func forEachIndex(box geom.Box, fn func(geom.Index)) {
	zLo, zHi := 0, 0
	if box.Dim() == 3 {
		zLo, zHi = box.Lower.Coords[2], box.Upper.Coords[2]
	}
	for z := zLo; z <= zHi; z++ {
		for y := box.Lower.Coords[1]; y <= box.Upper.Coords[1]; y++ {
			for x := box.Lower.Coords[0]; x <= box.Upper.Coords[0]; x++ {
				if box.Dim() == 2 {
					fn(geom.NewIndex(x, y))
				} else {
					fn(geom.NewIndex(x, y, z))
				}
			}
		}
	}
}
