package geom

import "testing"

func TestBoxRefineCoarsenRoundTrip(t *testing.T) {
	r := NewRatio(2, 2)
	b := NewBox(NewIndex(0, 0), NewIndex(9, 4))

	fine := b.Refine(r)
	want := NewBox(NewIndex(0, 0), NewIndex(19, 9))
	if !fine.Equal(want) {
		t.Fatalf("Refine: got %v want %v", fine, want)
	}

	back := fine.Coarsen(r, false)
	if !back.Equal(b) {
		t.Fatalf("Coarsen(fit): got %v want %v", back, b)
	}
}

func TestBoxCoarsenCeiling(t *testing.T) {
	r := NewRatio(3, 3)
	// A box whose extent isn't a multiple of the ratio must, under ceiling
	// semantics, coarsen to something that still contains every coarsened
	// fine cell (spec.md §3 "rounded to contain the original").
	b := NewBox(NewIndex(1, 1), NewIndex(10, 10))
	c := b.Coarsen(r, true)
	refinedBack := c.Refine(r)
	if !refinedBack.Contains(b) {
		t.Fatalf("ceiling coarsen %v refined back to %v does not contain %v", c, refinedBack, b)
	}
}

func TestBoxGrowShrink(t *testing.T) {
	b := NewBox(NewIndex(0, 0), NewIndex(9, 9))
	g := b.Grow(2)
	want := NewBox(NewIndex(-2, -2), NewIndex(11, 11))
	if !g.Equal(want) {
		t.Fatalf("Grow: got %v want %v", g, want)
	}
	if !g.Shrink(2).Equal(b) {
		t.Fatalf("Shrink did not invert Grow: got %v", g.Shrink(2))
	}
}

func TestBoxIntersect(t *testing.T) {
	a := NewBox(NewIndex(0, 0), NewIndex(9, 9))
	b := NewBox(NewIndex(5, 5), NewIndex(14, 14))
	got := a.Intersect(b)
	want := NewBox(NewIndex(5, 5), NewIndex(9, 9))
	if !got.Equal(want) {
		t.Fatalf("Intersect: got %v want %v", got, want)
	}

	c := NewBox(NewIndex(100, 100), NewIndex(110, 110))
	if a.Intersects(c) {
		t.Fatalf("expected a and c to be disjoint")
	}
	if !a.Intersect(c).Empty() {
		t.Fatalf("expected empty intersection, got %v", a.Intersect(c))
	}
}

func TestBoxContains(t *testing.T) {
	outer := NewBox(NewIndex(0, 0), NewIndex(20, 20))
	inner := NewBox(NewIndex(5, 5), NewIndex(10, 10))
	if !outer.Contains(inner) {
		t.Fatalf("expected outer to contain inner")
	}
	if inner.Contains(outer) {
		t.Fatalf("did not expect inner to contain outer")
	}
}

func TestBoxNumCells(t *testing.T) {
	b := NewBox(NewIndex(0, 0, 0), NewIndex(9, 2, 9))
	if got, want := b.NumCells(), 10*3*10; got != want {
		t.Fatalf("NumCells: got %d want %d", got, want)
	}
}

func TestNewBoxPanicsOnIllFormedBounds(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for upper < lower")
		}
	}()
	NewBox(NewIndex(5, 5), NewIndex(0, 0))
}

func TestRatioMaxAndIsOne(t *testing.T) {
	r := NewRatio(2, 3, 1)
	if got, want := r.Max(), 3; got != want {
		t.Fatalf("Max: got %d want %d", got, want)
	}
	if r.IsOne() {
		t.Fatalf("expected anisotropic ratio to not be IsOne")
	}
	if !UniformRatio(3, 1).IsOne() {
		t.Fatalf("expected uniform ratio of 1 to be IsOne")
	}
}
