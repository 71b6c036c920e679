package patch

import (
	"fmt"

	"github.com/sarchlab/amrmesh/geom"
)

// PatchHierarchy is the ordered stack of PatchLevels spanning coarsest to
// finest, plus the multi-block geometry they all share (spec.md §3
// "PatchHierarchy").
type PatchHierarchy struct {
	Geometry *geom.BlockGeometry

	levels []*PatchLevel
}

// NewPatchHierarchy builds an empty hierarchy over the given block
// geometry.
func NewPatchHierarchy(geometry *geom.BlockGeometry) *PatchHierarchy {
	return &PatchHierarchy{Geometry: geometry}
}

// NumLevels returns the number of levels currently in the hierarchy.
func (h *PatchHierarchy) NumLevels() int { return len(h.levels) }

// Level returns the PatchLevel at ln (0 == coarsest).
func (h *PatchHierarchy) Level(ln int) *PatchLevel {
	return h.levels[ln]
}

// FinestLevelNumber returns the index of the finest currently-present
// level.
func (h *PatchHierarchy) FinestLevelNumber() int { return len(h.levels) - 1 }

// AddLevel appends a new finest level, or replaces an existing one during
// regrid (spec.md §4.2 "regridding replaces level ln+1..finest"). ln must
// equal len(levels) (append) or an existing index (replace).
func (h *PatchHierarchy) AddLevel(ln int, pl *PatchLevel) {
	switch {
	case ln == len(h.levels):
		h.levels = append(h.levels, pl)
	case ln >= 0 && ln < len(h.levels):
		h.levels[ln] = pl
	default:
		panic(fmt.Sprintf("patch: AddLevel index %d out of range (have %d levels)", ln, len(h.levels)))
	}
}

// RemoveFinerThan drops every level above ln, used when a regrid shortens
// the hierarchy.
func (h *PatchHierarchy) RemoveFinerThan(ln int) {
	if ln+1 < len(h.levels) {
		h.levels = h.levels[:ln+1]
	}
}

// CoarserLevel returns the level immediately coarser than ln, or nil if ln
// is already the coarsest (level 0).
func (h *PatchHierarchy) CoarserLevel(ln int) *PatchLevel {
	if ln <= 0 {
		return nil
	}
	return h.levels[ln-1]
}

// FinerLevel returns the level immediately finer than ln, or nil if ln is
// already the finest.
func (h *PatchHierarchy) FinerLevel(ln int) *PatchLevel {
	if ln+1 >= len(h.levels) {
		return nil
	}
	return h.levels[ln+1]
}
