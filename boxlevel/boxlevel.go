package boxlevel

import (
	"fmt"

	"github.com/sarchlab/amrmesh/geom"
	"github.com/sarchlab/amrmesh/meshmpi"
)

// BoxLevel is a distributed set of boxes at one refinement ratio,
// partitioned by owner rank (spec.md §3 "BoxLevel"). It supports two
// parallel states:
//
//   - distributed: Local() returns only this rank's own boxes;
//   - globalized: Global() returns every box, fetched from every rank over
//     the communicator the first time it is needed and cached thereafter.
//
// Invariant enforced by construction: within one BoxLevel, boxes on
// distinct owners never share a BoxId, and local boxes on one rank never
// spatially overlap within the same block and periodic shift (checked by
// AssertWellFormed, not on every mutation, mirroring the teacher's
// "assert before use" style rather than paying the cost on every insert).
type BoxLevel struct {
	Ratio geom.Ratio
	Rank  meshmpi.Rank

	local  []MappedBox
	byId   map[BoxId]int // index into local, this rank's boxes only
	global []MappedBox   // populated lazily by Globalize
	comm   *meshmpi.Communicator

	nextLocalId LocalId
}

// NewBoxLevel creates an empty BoxLevel owned (from this process's point of
// view) by rank, at the given refinement ratio, scoped to comm.
func NewBoxLevel(comm *meshmpi.Communicator, rank meshmpi.Rank, ratio geom.Ratio) *BoxLevel {
	return &BoxLevel{
		Ratio: ratio,
		Rank:  rank,
		byId:  make(map[BoxId]int),
		comm:  comm,
	}
}

// AddBox adds a new locally-owned canonical box and returns its BoxId.
func (bl *BoxLevel) AddBox(box geom.Box) BoxId {
	id := BoxId{Owner: bl.Rank, Local: bl.nextLocalId, Shift: geom.NoShift}
	bl.nextLocalId++
	bl.addMapped(NewMappedBox(id, box))
	return id
}

// AddPeriodicImage adds a periodic image of an already-owned local box.
func (bl *BoxLevel) AddPeriodicImage(canonical BoxId, shift geom.PeriodicShift, image geom.Box) BoxId {
	if canonical.Owner != bl.Rank {
		panic("boxlevel: periodic image must reference a locally-owned canonical box")
	}
	id := BoxId{Owner: canonical.Owner, Local: canonical.Local, Shift: shift}
	bl.addMapped(NewMappedBox(id, image))
	return id
}

func (bl *BoxLevel) addMapped(mb MappedBox) {
	bl.byId[mb.Id] = len(bl.local)
	bl.local = append(bl.local, mb)
	bl.global = nil // invalidate globalized cache
}

// Local returns this rank's own boxes (the distributed view).
func (bl *BoxLevel) Local() []MappedBox {
	return bl.local
}

// NumLocal returns the count of locally-owned boxes (including periodic
// images minted locally).
func (bl *BoxLevel) NumLocal() int { return len(bl.local) }

// Lookup returns the MappedBox for id if this rank owns it.
func (bl *BoxLevel) Lookup(id BoxId) (MappedBox, bool) {
	i, ok := bl.byId[id]
	if !ok {
		return MappedBox{}, false
	}
	return bl.local[i], true
}

// AllLevels is the multi-rank registry a single process uses to stand in
// for "every rank's local BoxLevel", so that Globalize has something to
// gather from without a real network. Each BoxLevel that participates in
// the same distributed collection must be added with Register; NewBoxLevel
// does not register it.
type AllLevels struct {
	byRank map[meshmpi.Rank]*BoxLevel
}

// NewAllLevels builds an empty registry.
func NewAllLevels() *AllLevels {
	return &AllLevels{byRank: make(map[meshmpi.Rank]*BoxLevel)}
}

// Register records rank's local BoxLevel so Globalize can find it.
func (a *AllLevels) Register(bl *BoxLevel) {
	a.byRank[bl.Rank] = bl
}

// Globalize returns every box across every registered rank, performing the
// "head globalization is local-read, network-sourced" step of spec.md §4.1:
// in the single-process model this is a local read of every registered
// rank's BoxLevel, gathered through the communicator's Barrier so the
// operation is still an explicit collective suspension point.
func (bl *BoxLevel) Globalize(all *AllLevels) []MappedBox {
	if bl.global != nil {
		return bl.global
	}

	bl.comm.Barrier()

	var out []MappedBox
	for _, r := range bl.comm.SortedRanks() {
		other, ok := all.byRank[r]
		if !ok {
			continue
		}
		out = append(out, other.local...)
	}
	bl.global = out
	return out
}

// AssertWellFormed checks the BoxLevel invariants of spec.md §3: no two
// locally-owned boxes at the same block and periodic shift overlap. Meant
// to be called at schedule/connector construction boundaries, not on every
// mutation (matching the teacher's "assert before use" idiom applied to
// connector transpose consistency, spec.md §9 REDESIGN FLAG).
func (bl *BoxLevel) AssertWellFormed() error {
	for i := 0; i < len(bl.local); i++ {
		for j := i + 1; j < len(bl.local); j++ {
			a, b := bl.local[i], bl.local[j]
			if a.Box.Block != b.Box.Block || a.Box.Shift != b.Box.Shift {
				continue
			}
			if a.Box.Intersects(b.Box) {
				return fmt.Errorf("boxlevel: local boxes %v and %v overlap on block %d shift %d",
					a.Id, b.Id, a.Box.Block, a.Box.Shift)
			}
		}
	}
	return nil
}

// Refine returns a new BoxLevel at bl.Ratio times r (componentwise) containing every
// local box refined by r, preserving BoxIds (same owner/local/shift — a
// refined BoxLevel still indexes "the same boxes", just at a finer ratio).
func (bl *BoxLevel) Refine(r geom.Ratio) *BoxLevel {
	out := NewBoxLevel(bl.comm, bl.Rank, combineRatio(bl.Ratio, r))
	for _, mb := range bl.local {
		out.addMapped(MappedBox{Id: mb.Id, Box: mb.Box.Refine(r), token: mb.token})
	}
	return out
}

// Coarsen is the dual of Refine; ceiling selects the coarsening rounding
// mode (spec.md §3).
func (bl *BoxLevel) Coarsen(r geom.Ratio, ceiling bool) *BoxLevel {
	coords := make([]int, bl.Ratio.Dim)
	for i := range coords {
		coords[i] = bl.Ratio.Coords[i] / r.Coords[i]
	}
	out := NewBoxLevel(bl.comm, bl.Rank, geom.NewRatio(coords...))
	for _, mb := range bl.local {
		out.addMapped(MappedBox{Id: mb.Id, Box: mb.Box.Coarsen(r, ceiling), token: mb.token})
	}
	return out
}

func combineRatio(a, b geom.Ratio) geom.Ratio {
	coords := make([]int, a.Dim)
	for i := 0; i < a.Dim; i++ {
		coords[i] = a.Coords[i] * b.Coords[i]
	}
	return geom.NewRatio(coords...)
}
