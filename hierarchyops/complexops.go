// Complex-valued counterparts of ops.go's elementwise arithmetic, for
// variables registered with patch.ComplexScalar (spec.md §4.5's "scalar
// type (int, float, double, complex)"). Grounded on the same
// HierarchyNodeDataOpsComplex shape ops.go documents, specialized to the
// complex128 backing store instead of genericizing Ops itself — the real
// and complex call sites never mix within one expression, so a parallel set
// of methods stays simpler than a type-parameterized Ops.
package hierarchyops

import (
	"math/cmplx"

	"github.com/sarchlab/amrmesh/patch"
)

// AbsComplex computes dst = |src| elementwise, writing the (real-valued)
// magnitude of each complex entry into a real-scalar destination array —
// spec.md §4.5's complex abs.
func (o *Ops) AbsComplex(dst, src patch.DescriptorId) {
	o.forEachPatch(func(p *patch.Patch) {
		d, s := p.Data(dst).Raw(), p.DataComplex(src).Raw()
		for i := range d {
			d[i] = cmplx.Abs(s[i])
		}
	})
}

// CopyDataComplex copies src into dst on every patch.
func (o *Ops) CopyDataComplex(dst, src patch.DescriptorId) {
	o.forEachPatch(func(p *patch.Patch) {
		d, s := p.DataComplex(dst).Raw(), p.DataComplex(src).Raw()
		copy(d, s)
	})
}

// SwapDataComplex exchanges the storage of data1 and data2 on every patch.
func (o *Ops) SwapDataComplex(data1, data2 patch.DescriptorId) {
	o.forEachPatch(func(p *patch.Patch) {
		a, b := p.DataComplex(data1), p.DataComplex(data2)
		tmp := make([]complex128, len(a.Raw()))
		copy(tmp, a.Raw())
		copy(a.Raw(), b.Raw())
		copy(b.Raw(), tmp)
	})
}

// SetToScalarComplex sets every entry of dst to alpha.
func (o *Ops) SetToScalarComplex(dst patch.DescriptorId, alpha complex128) {
	o.forEachPatch(func(p *patch.Patch) { p.DataComplex(dst).Fill(alpha) })
}

func (o *Ops) binaryComplex(dst, src1, src2 patch.DescriptorId, op func(a, b complex128) complex128) {
	o.forEachPatch(func(p *patch.Patch) {
		d, s1, s2 := p.DataComplex(dst).Raw(), p.DataComplex(src1).Raw(), p.DataComplex(src2).Raw()
		for i := range d {
			d[i] = op(s1[i], s2[i])
		}
	})
}

func (o *Ops) unaryComplex(dst, src patch.DescriptorId, op func(a complex128) complex128) {
	o.forEachPatch(func(p *patch.Patch) {
		d, s := p.DataComplex(dst).Raw(), p.DataComplex(src).Raw()
		for i := range d {
			d[i] = op(s[i])
		}
	})
}

// ScaleComplex computes dst = alpha * src.
func (o *Ops) ScaleComplex(dst patch.DescriptorId, alpha complex128, src patch.DescriptorId) {
	o.unaryComplex(dst, src, func(a complex128) complex128 { return alpha * a })
}

// AddScalarComplex computes dst = src + alpha.
func (o *Ops) AddScalarComplex(dst, src patch.DescriptorId, alpha complex128) {
	o.unaryComplex(dst, src, func(a complex128) complex128 { return a + alpha })
}

// AddComplex computes dst = src1 + src2.
func (o *Ops) AddComplex(dst, src1, src2 patch.DescriptorId) {
	o.binaryComplex(dst, src1, src2, func(a, b complex128) complex128 { return a + b })
}

// SubtractComplex computes dst = src1 - src2.
func (o *Ops) SubtractComplex(dst, src1, src2 patch.DescriptorId) {
	o.binaryComplex(dst, src1, src2, func(a, b complex128) complex128 { return a - b })
}

// MultiplyComplex computes dst = src1 * src2 elementwise.
func (o *Ops) MultiplyComplex(dst, src1, src2 patch.DescriptorId) {
	o.binaryComplex(dst, src1, src2, func(a, b complex128) complex128 { return a * b })
}

// DivideComplex computes dst = src1 / src2 elementwise.
func (o *Ops) DivideComplex(dst, src1, src2 patch.DescriptorId) {
	o.binaryComplex(dst, src1, src2, func(a, b complex128) complex128 { return a / b })
}

// ReciprocalComplex computes dst = 1 / src elementwise.
func (o *Ops) ReciprocalComplex(dst, src patch.DescriptorId) {
	o.unaryComplex(dst, src, func(a complex128) complex128 { return 1 / a })
}

// LinearSumComplex computes dst = alpha*src1 + beta*src2.
func (o *Ops) LinearSumComplex(dst patch.DescriptorId, alpha complex128, src1 patch.DescriptorId, beta complex128, src2 patch.DescriptorId) {
	o.binaryComplex(dst, src1, src2, func(a, b complex128) complex128 { return alpha*a + beta*b })
}

// AxpyComplex computes dst = alpha*src1 + src2.
func (o *Ops) AxpyComplex(dst patch.DescriptorId, alpha complex128, src1, src2 patch.DescriptorId) {
	o.binaryComplex(dst, src1, src2, func(a, b complex128) complex128 { return alpha*a + b })
}

// AxmyComplex computes dst = alpha*src1 - src2.
func (o *Ops) AxmyComplex(dst patch.DescriptorId, alpha complex128, src1, src2 patch.DescriptorId) {
	o.binaryComplex(dst, src1, src2, func(a, b complex128) complex128 { return alpha*a - b })
}
