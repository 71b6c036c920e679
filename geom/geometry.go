package geom

import "github.com/rs/xid"

// BlockTransform describes the coordinate transform between two
// neighboring blocks: a fixed per-axis permutation+sign ("rotation") plus
// an index offset. Block transforms are symmetric: the inverse transform
// between (to, from) is the caller's responsibility to look up.
type BlockTransform struct {
	From, To BlockId
	// Rotation[i] gives, for axis i of From, the signed destination axis in
	// To: a value of k means "maps to axis |k|-1 of To", with sign(k)
	// indicating whether the axis direction flips. A value of 0 is invalid.
	Rotation [MaxDim]int
	Offset   Index
}

// Apply transforms an index from the From block's coordinate system into
// the To block's coordinate system.
func (t BlockTransform) Apply(idx Index) Index {
	out := idx
	for i := 0; i < idx.Dim; i++ {
		k := t.Rotation[i]
		axis := k
		sign := 1
		if k < 0 {
			axis = -k
			sign = -1
		}
		out.Coords[axis-1] = sign * idx.Coords[i]
	}
	return out.Add(t.Offset)
}

// PeriodicShiftEntry is one catalog entry: a displacement applied to a box
// on the given block to produce its periodic image.
type PeriodicShiftEntry struct {
	ID          PeriodicShift
	Block       BlockId
	Displacement Index
	token       string // stable, globally-unique label (rs/xid)
}

// Token returns the catalog entry's stable identifier, useful in diagnostic
// dumps where a bare integer shift number is ambiguous across blocks.
func (e PeriodicShiftEntry) Token() string { return e.token }

// SingularityPair names two blocks that meet at an enhanced-connectivity
// singularity (spec.md §3 "block grid geometry").
type SingularityPair struct {
	A, B BlockId
}

// BlockGeometry describes block topology: per-pair block transforms, which
// block pairs are enhanced-connectivity singularities, and the periodic
// shift catalog (spec.md §3 "PatchHierarchy").
type BlockGeometry struct {
	NumBlocks     int
	Transforms    map[[2]BlockId]BlockTransform
	Singularities map[SingularityPair]bool
	Shifts        []PeriodicShiftEntry
	RatioToCoarsest map[BlockId]Ratio
}

// NewSingleBlockGeometry returns the trivial one-block, non-periodic
// geometry used by most hierarchies in the test suite (spec.md §8
// scenarios S1/S2 are single-block).
func NewSingleBlockGeometry(dim int) *BlockGeometry {
	return &BlockGeometry{
		NumBlocks:     1,
		Transforms:    map[[2]BlockId]BlockTransform{},
		Singularities: map[SingularityPair]bool{},
	}
}

// AddTransform registers the coordinate transform from block a to block b.
func (g *BlockGeometry) AddTransform(t BlockTransform) {
	g.Transforms[[2]BlockId{t.From, t.To}] = t
}

// Transform looks up the transform from block a to block b, ok=false if no
// direct transform is registered (a fatal condition for the caller to
// surface per spec.md §7).
func (g *BlockGeometry) Transform(from, to BlockId) (BlockTransform, bool) {
	if from == to {
		return BlockTransform{From: from, To: to, Rotation: identityRotation(MaxDim)}, true
	}
	t, ok := g.Transforms[[2]BlockId{from, to}]
	return t, ok
}

func identityRotation(dim int) [MaxDim]int {
	var r [MaxDim]int
	for i := 0; i < dim; i++ {
		r[i] = i + 1
	}
	return r
}

// MarkSingularity records that blocks a and b meet at an enhanced
// connectivity singularity.
func (g *BlockGeometry) MarkSingularity(a, b BlockId) {
	g.Singularities[SingularityPair{a, b}] = true
	g.Singularities[SingularityPair{b, a}] = true
}

// IsSingularity reports whether a and b meet at an enhanced connectivity
// singularity.
func (g *BlockGeometry) IsSingularity(a, b BlockId) bool {
	return g.Singularities[SingularityPair{a, b}]
}

// HasSingularities reports whether this geometry has any enhanced
// connectivity singularities at all (used to decide whether refine schedule
// construction needs the auxiliary encon pass, spec.md §4.2 step 7).
func (g *BlockGeometry) HasSingularities() bool {
	return len(g.Singularities) > 0
}

// AddPeriodicShift registers a new periodic displacement on the given block
// and returns its catalog entry.
func (g *BlockGeometry) AddPeriodicShift(block BlockId, displacement Index) PeriodicShiftEntry {
	entry := PeriodicShiftEntry{
		ID:           PeriodicShift(len(g.Shifts) + 1),
		Block:        block,
		Displacement: displacement,
		token:        xid.New().String(),
	}
	g.Shifts = append(g.Shifts, entry)
	return entry
}

// Shift looks up a periodic shift catalog entry by id. NoShift (0) always
// returns the zero entry with ok=false; callers should treat NoShift as "no
// displacement" rather than an error.
func (g *BlockGeometry) Shift(id PeriodicShift) (PeriodicShiftEntry, bool) {
	if id == NoShift {
		return PeriodicShiftEntry{}, false
	}
	idx := int(id) - 1
	if idx < 0 || idx >= len(g.Shifts) {
		return PeriodicShiftEntry{}, false
	}
	return g.Shifts[idx], true
}

// ApplyShift translates box b by the displacement registered under its own
// Shift field, if any; canonical (NoShift) boxes pass through unchanged.
// This is the "convert a periodic image into a common index space" step
// used throughout connector construction (spec.md §3, §4.1 step 5).
func (g *BlockGeometry) ApplyShift(b Box) Box {
	entry, ok := g.Shift(b.Shift)
	if !ok {
		return b
	}
	return b.Translate(entry.Displacement)
}
