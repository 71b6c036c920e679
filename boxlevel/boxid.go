// Package boxlevel implements BoxLevel (spec.md §3/C2): a distributed set
// of boxes at one refinement ratio, partitioned by owner rank, with dual
// local and globalized views.
package boxlevel

import (
	"fmt"

	"github.com/rs/xid"
	"github.com/sarchlab/amrmesh/geom"
	"github.com/sarchlab/amrmesh/meshmpi"
)

// LocalId is a rank-local dense identifier for an owned box.
type LocalId int

// BoxId is the globally unique identifier of a box within one BoxLevel:
// (owner rank, local id, periodic shift number). A periodic image shares
// owner-rank and local-id with its canonical source and is not
// independently owned (spec.md §3 "Box identity").
type BoxId struct {
	Owner meshmpi.Rank
	Local LocalId
	Shift geom.PeriodicShift
}

// Canonical returns the BoxId of this box's canonical (non-periodic-image)
// source: same owner and local id, zero shift.
func (id BoxId) Canonical() BoxId {
	id.Shift = geom.NoShift
	return id
}

// IsPeriodicImage reports whether this id names a periodic image rather
// than a canonical box.
func (id BoxId) IsPeriodicImage() bool {
	return id.Shift != geom.NoShift
}

// Key returns a stable string key suitable for map lookups and for lvlath
// graph vertex ids (connector.go), since BoxId is a value type that Go maps
// accept directly but lvlath's graph wants string vertex ids.
func (id BoxId) Key() string {
	return fmt.Sprintf("%d.%d.%d", id.Owner, id.Local, id.Shift)
}

func (id BoxId) String() string { return id.Key() }

// newDiagnosticToken issues process-unique tokens for diagnostics (not used as the
// BoxId itself, which must stay a small comparable tuple for map keys, but
// attached to MappedBox for human-readable dumps). Grounded in the
// teacher's indirect use of rs/xid for lightweight unique identifiers.
func newDiagnosticToken() string { return xid.New().String() }

// MappedBox pairs a BoxId with its geometric Box.
type MappedBox struct {
	Id    BoxId
	Box   geom.Box
	token string
}

// NewMappedBox builds a MappedBox, stamping it with a diagnostic token.
func NewMappedBox(id BoxId, box geom.Box) MappedBox {
	return MappedBox{Id: id, Box: box, token: newDiagnosticToken()}
}

// Token returns the box's diagnostic token (stable across the process,
// useful in fatal-dump output to disambiguate boxes sharing coordinates
// after periodic shifting).
func (m MappedBox) Token() string { return m.token }
