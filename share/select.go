package share

import (
	"github.com/TEENet-io/mpctensor/internal/errs"
	"github.com/TEENet-io/mpctensor/ring"
)

// WherePublic selects element-wise between t and other using a publicly
// known 0/1 mask: cond*t + (1-cond)*other, computed entirely locally since
// every party already knows cond.
func (t *Tensor) WherePublic(cond *ring.Tensor, other *Tensor) (*Tensor, error) {
	if err := t.checkEngine(other); err != nil {
		return nil, err
	}
	keep, err := t.MulPublic(cond)
	if err != nil {
		return nil, err
	}
	ones := ring.New(cond.Shape(), cond.Device())
	for i := 0; i < ones.NumElement(); i++ {
		ones.Set(i, 1-cond.At(i))
	}
	drop, err := other.MulPublic(ones)
	if err != nil {
		return nil, err
	}
	return keep.Add(drop)
}

// WhereShared selects between t and other using a secret-shared 0/1 mask,
// via the standard MPC select identity cond*(t-other)+other. This needs
// one interactive multiplication, unlike WherePublic.
func (t *Tensor) WhereShared(cond, other *Tensor) (*Tensor, error) {
	if err := t.checkEngine(other); err != nil {
		return nil, err
	}
	diff, err := t.Sub(other)
	if err != nil {
		return nil, err
	}
	chosen, err := cond.Mul(diff)
	if err != nil {
		return nil, err
	}
	return chosen.Add(other)
}

// IndexAdd adds src into a copy of t at the given public indices along
// dim (the scatter-add used by embedding-gradient-style accumulation).
// Indices are public, so this runs entirely locally.
func (t *Tensor) IndexAdd(dim int, indices []int, src *Tensor) (*Tensor, error) {
	if err := t.checkEngine(src); err != nil {
		return nil, err
	}
	if src.Size(dim) != len(indices) {
		return nil, errs.ErrShapeMismatch
	}
	out := t.data.Clone()
	for i, idx := range indices {
		slab, err := src.data.Slice(dim, i, i+1)
		if err != nil {
			return nil, err
		}
		existing, err := out.Slice(dim, idx, idx+1)
		if err != nil {
			return nil, err
		}
		updated, err := existing.Add(slab)
		if err != nil {
			return nil, err
		}
		if err := copySlab(out, updated, dim, idx); err != nil {
			return nil, err
		}
	}
	return t.withData(out), nil
}

// Scatter overwrites a copy of t at the given public indices along dim
// with src's values (local, since indices are public).
func (t *Tensor) Scatter(dim int, indices []int, src *Tensor) (*Tensor, error) {
	if err := t.checkEngine(src); err != nil {
		return nil, err
	}
	if src.Size(dim) != len(indices) {
		return nil, errs.ErrShapeMismatch
	}
	out := t.data.Clone()
	for i, idx := range indices {
		slab, err := src.data.Slice(dim, i, i+1)
		if err != nil {
			return nil, err
		}
		if err := copySlab(out, slab, dim, idx); err != nil {
			return nil, err
		}
	}
	return t.withData(out), nil
}

// Scatter_ is Scatter's in-place counterpart, following the
// trailing-underscore in-place naming convention.
func (t *Tensor) Scatter_(dim int, indices []int, src *Tensor) error {
	updated, err := t.Scatter(dim, indices, src)
	if err != nil {
		return err
	}
	t.data = updated.data
	return nil
}

// ScatterAdd is IndexAdd under the scatter-style name, with the same
// (dim, indices, src) arguments, provided for parity with both naming
// conventions.
func (t *Tensor) ScatterAdd(dim int, indices []int, src *Tensor) (*Tensor, error) {
	return t.IndexAdd(dim, indices, src)
}

func copySlab(dst, slab *ring.Tensor, dim, idx int) error {
	shape := dst.Shape()
	lineLen := 1
	for i := dim + 1; i < len(shape); i++ {
		lineLen *= shape[i]
	}
	outer := 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	dimLen := shape[dim]
	for o := 0; o < outer; o++ {
		base := (o*dimLen + idx) * lineLen
		srcBase := o * lineLen
		for k := 0; k < lineLen; k++ {
			dst.Set(base+k, slab.At(srcBase+k))
		}
	}
	return nil
}
