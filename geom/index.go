// Package geom provides the axis-aligned integer box and index-space
// primitives that every other amrmesh package builds on: index tuples,
// boxes, refinement ratios, and multi-block geometry.
package geom

import "fmt"

// MaxDim bounds the number of spatial dimensions amrmesh supports. Boxes
// carry their own dimensionality at runtime (D <= MaxDim) rather than being
// generic over a compile-time dimension, so one binary can mix 2D and 3D
// hierarchies if a caller ever needs to.
const MaxDim = 3

// Index is an n-tuple of signed integers identifying a cell in the integer
// lattice. Only the first Dim entries are meaningful.
type Index struct {
	Dim    int
	Coords [MaxDim]int
}

// NewIndex builds an Index from the given coordinates.
func NewIndex(coords ...int) Index {
	if len(coords) == 0 || len(coords) > MaxDim {
		panic(fmt.Sprintf("geom: NewIndex needs 1..%d coordinates, got %d", MaxDim, len(coords)))
	}
	var idx Index
	idx.Dim = len(coords)
	copy(idx.Coords[:], coords)
	return idx
}

// Get returns the i-th coordinate.
func (idx Index) Get(i int) int { return idx.Coords[i] }

// Add returns idx + other, componentwise.
func (idx Index) Add(other Index) Index {
	idx.mustMatchDim(other)
	out := idx
	for i := 0; i < idx.Dim; i++ {
		out.Coords[i] = idx.Coords[i] + other.Coords[i]
	}
	return out
}

// Sub returns idx - other, componentwise.
func (idx Index) Sub(other Index) Index {
	idx.mustMatchDim(other)
	out := idx
	for i := 0; i < idx.Dim; i++ {
		out.Coords[i] = idx.Coords[i] - other.Coords[i]
	}
	return out
}

// AddScalar returns idx shifted by the same scalar on every axis.
func (idx Index) AddScalar(s int) Index {
	out := idx
	for i := 0; i < idx.Dim; i++ {
		out.Coords[i] += s
	}
	return out
}

// Mul returns idx scaled componentwise by a ratio.
func (idx Index) Mul(r Ratio) Index {
	idx.mustMatchDim(r.asIndex())
	out := idx
	for i := 0; i < idx.Dim; i++ {
		out.Coords[i] = idx.Coords[i] * r.Coords[i]
	}
	return out
}

// Min returns the componentwise minimum of idx and other.
func (idx Index) Min(other Index) Index {
	idx.mustMatchDim(other)
	out := idx
	for i := 0; i < idx.Dim; i++ {
		if other.Coords[i] < out.Coords[i] {
			out.Coords[i] = other.Coords[i]
		}
	}
	return out
}

// Max returns the componentwise maximum of idx and other.
func (idx Index) Max(other Index) Index {
	idx.mustMatchDim(other)
	out := idx
	for i := 0; i < idx.Dim; i++ {
		if other.Coords[i] > out.Coords[i] {
			out.Coords[i] = other.Coords[i]
		}
	}
	return out
}

// Equal reports whether two indices hold the same coordinates.
func (idx Index) Equal(other Index) bool {
	if idx.Dim != other.Dim {
		return false
	}
	for i := 0; i < idx.Dim; i++ {
		if idx.Coords[i] != other.Coords[i] {
			return false
		}
	}
	return true
}

func (idx Index) mustMatchDim(other Index) {
	if idx.Dim != other.Dim {
		panic(fmt.Sprintf("geom: dimension mismatch %d vs %d", idx.Dim, other.Dim))
	}
}

func (idx Index) String() string {
	return fmt.Sprintf("%v", idx.Coords[:idx.Dim])
}
