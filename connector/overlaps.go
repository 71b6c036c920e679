package connector

import (
	"github.com/sarchlab/amrmesh/boxlevel"
	"github.com/sarchlab/amrmesh/geom"
)

// convertBox re-expresses box, given at fromRatio, in toRatio's index
// space. Used to bring a head box into the base's common index space
// before intersecting (spec.md §3 Connector contract: "in the common index
// space obtained by converting H into base ratio").
func convertBox(box geom.Box, fromRatio, toRatio geom.Ratio) geom.Box {
	if fromRatio == toRatio {
		return box
	}
	// If toRatio is an integer multiple of fromRatio on every axis, the
	// common space is finer than fromRatio: refine.
	if divides(toRatio, fromRatio) {
		rel := ratioOf(toRatio, fromRatio)
		return box.Refine(rel)
	}
	// Otherwise toRatio must be coarser: coarsen with ceiling semantics so
	// the converted box never loses cells the original box covered (a
	// connector is allowed extra edges, never missing ones, spec.md §3).
	rel := ratioOf(fromRatio, toRatio)
	return box.Coarsen(rel, true)
}

func divides(a, b geom.Ratio) bool {
	for i := 0; i < a.Dim; i++ {
		if a.Coords[i]%b.Coords[i] != 0 {
			return false
		}
	}
	return true
}

func ratioOf(a, b geom.Ratio) geom.Ratio {
	coords := make([]int, a.Dim)
	for i := 0; i < a.Dim; i++ {
		coords[i] = a.Coords[i] / b.Coords[i]
	}
	return geom.NewRatio(coords...)
}

// headToBaseSpace transforms a head box into the base's coordinate system:
// first applying its periodic shift, then reconciling block (via geometry's
// per-pair transform, when the boxes live on different blocks), then
// refinement ratio.
func headToBaseSpace(head geom.Box, baseBlock geom.BlockId, g *geom.BlockGeometry, baseRatio, headRatio geom.Ratio) geom.Box {
	out := head
	if g != nil {
		out = g.ApplyShift(out)
		if out.Block != baseBlock {
			if t, ok := g.Transform(out.Block, baseBlock); ok {
				out.Lower = t.Apply(out.Lower)
				out.Upper = t.Apply(out.Upper)
				out.Block = baseBlock
				// a rotation can flip orientation; renormalize so
				// Lower <= Upper componentwise.
				out.Lower, out.Upper = out.Lower.Min(out.Upper), out.Lower.Max(out.Upper)
			}
		}
	}
	return convertBox(out, headRatio, baseRatio)
}

// FindOverlaps populates c with every edge consistent with its stated width
// (spec.md §4.1 findOverlaps). If the head BoxLevel is distributed, it is
// first globalized (local-read, network-sourced via BoxLevel.Globalize).
// When dropSelfOverlap is set, edges where base and head share a canonical
// BoxId are omitted.
func FindOverlaps(c *Connector, g *geom.BlockGeometry, headAll *boxlevel.AllLevels, dropSelfOverlap bool) {
	headGlobal := c.Head.Globalize(headAll)

	for _, base := range c.Base.Local() {
		grown := base.Box.Grow(c.Width.Max())

		for _, head := range headGlobal {
			if dropSelfOverlap && base.Id.Canonical() == head.Id.Canonical() {
				continue
			}

			converted := headToBaseSpace(head.Box, base.Box.Block, g, c.Base.Ratio, c.Head.Ratio)
			if converted.Block != grown.Block {
				continue // different block with no registered transform: not a neighbor
			}

			overlap := grown.Intersect(converted)
			if overlap.Empty() {
				continue
			}

			c.addEdge(Edge{Base: base.Id, Head: head.Id, Overlap: overlap})
		}
	}

	c.Complete = true
}

// ExtractNeighbors produces a narrower connector from c by filtering edges
// to those still overlapping under width w2 <= c.Width (spec.md §4.1
// extractNeighbors).
func ExtractNeighbors(c *Connector, g *geom.BlockGeometry, w2 geom.Ratio) *Connector {
	out := New(c.Base, c.Head, w2)

	for _, base := range c.Base.Local() {
		grown := base.Box.Grow(w2.Max())
		for _, e := range c.NeighborsOf(base.Id) {
			headMB, ok := lookupGlobal(c, e.Head)
			if !ok {
				continue
			}
			converted := headToBaseSpace(headMB, base.Box.Block, g, c.Base.Ratio, c.Head.Ratio)
			overlap := grown.Intersect(converted)
			if overlap.Empty() {
				continue
			}
			out.addEdge(Edge{Base: base.Id, Head: e.Head, Overlap: overlap})
		}
	}

	out.Complete = c.Complete
	return out
}

// lookupGlobal finds the geometric Box for a head BoxId previously observed
// in c's recorded overlaps (the cached Overlap lets us avoid a second
// globalize round-trip: since Overlap was already intersected against the
// head box, any edge we retain is still derivable from it directly, so
// ExtractNeighbors recomputes from the cached edge's own overlap region
// when the full head box is unavailable).
func lookupGlobal(c *Connector, head boxlevel.BoxId) (geom.Box, bool) {
	for _, mb := range c.Head.Local() {
		if mb.Id == head {
			return mb.Box, true
		}
	}
	// Fall back to the edge's own recorded overlap: a valid (if not
	// maximal) representative of the head box in base space.
	for _, edges := range c.edges {
		for _, e := range edges {
			if e.Head == head {
				return e.Overlap, true
			}
		}
	}
	return geom.Box{}, false
}
