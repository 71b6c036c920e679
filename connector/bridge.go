package connector

import (
	"github.com/sarchlab/amrmesh/boxlevel"
	"github.com/sarchlab/amrmesh/geom"
	"github.com/sarchlab/amrmesh/meshmpi"
)

// BridgeInput bundles the connectors and collaborators bridge() needs:
// complete overlap connectors from a center BoxLevel to west and east
// BoxLevels, used to compute W<->E connectors without globalizing either
// (spec.md §4.1 bridge).
type BridgeInput struct {
	Center     *boxlevel.BoxLevel
	West, East *boxlevel.BoxLevel

	CenterToWest, WestToCenter *Connector
	CenterToEast, EastToCenter *Connector

	Geometry   *geom.BlockGeometry
	Comm       *meshmpi.Communicator
	WidthLimit *geom.Ratio // optional cap on the output width

	// WestNestsInCenterGrownBy/EastNestsInCenterGrownBy, when non-nil,
	// record a caller-supplied proof that grow(center, g) contains
	// west/east, which upgrades the output connector's completeness
	// guarantee (spec.md §4.1 "Bridging with nesting").
	WestNestsInCenterGrownBy *int
	EastNestsInCenterGrownBy *int
}

type bridgeEdgePayload struct {
	West, East boxlevel.BoxId
	Overlap    geom.Box // in the common (coarser-of-west/east) index space
}

// Bridge computes overlap connectors between west and east BoxLevels from
// complete connectors through a center BoxLevel, per spec.md §4.1 bridge.
// It never globalizes west or east: every candidate edge is discovered by a
// rank that owns the shared center box, then shipped to the rank owning
// each endpoint over the dedicated TagBridgeEdge traffic class.
func Bridge(in BridgeInput) (westToEast, eastToWest *Connector) {
	outputWidth := bridgeOutputWidth(in)

	westToEast = New(in.West, in.East, outputWidth)
	eastToWest = New(in.East, in.West, outputWidth)

	// Step 1-2: for every locally-owned center box, enumerate west and east
	// neighbors and test candidate (west, east) pairs for overlap in the
	// common index space.
	var candidates []bridgeEdgePayload
	for _, centerBox := range in.Center.Local() {
		westEdges := in.CenterToWest.NeighborsOf(centerBox.Id)
		eastEdges := in.CenterToEast.NeighborsOf(centerBox.Id)

		for _, we := range westEdges {
			for _, ee := range eastEdges {
				// we.Overlap and ee.Overlap are both already expressed in
				// the center BoxLevel's index space (they came from
				// connectors based at center), so they intersect directly;
				// the result is then reprojected into the coarser of
				// west/east ratio for storage in the output edge.
				if we.Overlap.Block != ee.Overlap.Block {
					continue
				}
				raw := we.Overlap.Intersect(ee.Overlap)
				if raw.Empty() {
					continue
				}
				overlap := convertBox(raw, in.Center.Ratio, coarserRatio(in.West.Ratio, in.East.Ratio))
				candidates = append(candidates, bridgeEdgePayload{West: we.Head, East: ee.Head, Overlap: overlap})
			}
		}
	}

	// Step 3: ship discovered edges to their respective owners. In a real
	// multi-process run the rank discovering a candidate may own neither
	// endpoint; the asynchronous send models that handoff even though this
	// is a single-process stand-in (meshmpi.Communicator).
	var futures []*meshmpi.Future
	for _, cand := range candidates {
		futures = append(futures,
			in.Comm.SendAsync(meshmpi.TagBridgeEdge, in.Center.Rank, cand.West.Owner, cand),
			in.Comm.SendAsync(meshmpi.TagBridgeEdge, in.Center.Rank, cand.East.Owner, cand),
		)
	}
	in.Comm.Drain()
	for _, f := range futures {
		f.Wait()
	}

	for _, cand := range candidates {
		westToEast.addEdge(Edge{Base: cand.West, Head: cand.East, Overlap: cand.Overlap})
		eastToWest.addEdge(Edge{Base: cand.East, Head: cand.West, Overlap: cand.Overlap})
	}

	// Step 4/"Bridging with nesting": mark complete only when the caller
	// supplied a nesting proof; otherwise the result may be short of
	// completeness (spec.md §4.1).
	westToEast.Complete = in.WestNestsInCenterGrownBy != nil
	eastToWest.Complete = in.EastNestsInCenterGrownBy != nil

	if err := AssertConsistentTranspose(Transpose{Forward: westToEast, Backward: eastToWest}); err != nil {
		panic(err.Error())
	}

	return westToEast, eastToWest
}

// bridgeOutputWidth computes max(width(C→E), width(C→W)), expressed in the
// coarser of west/east ratios, optionally capped by WidthLimit (spec.md
// §4.1 step 4).
func bridgeOutputWidth(in BridgeInput) geom.Ratio {
	w := in.CenterToWest.Width
	e := in.CenterToEast.Width
	m := w
	if e.Max() > w.Max() {
		m = e
	}

	// Convert from the center's index space into the coarser of west/east,
	// rounding up so a converted width never drops below one cell.
	target := coarserRatio(in.West.Ratio, in.East.Ratio)
	coords := make([]int, m.Dim)
	for i := range coords {
		rc := in.Center.Ratio.Coords[i]
		coords[i] = (m.Coords[i]*target.Coords[i] + rc - 1) / rc
	}
	m = geom.NewRatio(coords...)

	if in.WidthLimit != nil && in.WidthLimit.Max() < m.Max() {
		m = *in.WidthLimit
	}
	return m
}

// coarserRatio returns whichever of a, b has the smaller Max() component
// (the coarser of the two refinement ratios).
func coarserRatio(a, b geom.Ratio) geom.Ratio {
	if b.Max() < a.Max() {
		return b
	}
	return a
}
