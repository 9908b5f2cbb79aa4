package share

import (
	"github.com/TEENet-io/mpctensor/internal/errs"
	"github.com/TEENet-io/mpctensor/ring"
)

func (t *Tensor) checkEngine(other *Tensor) error {
	if t.comm != other.comm {
		return errs.ErrRankMismatch
	}
	return nil
}

// Add returns t + other, share-wise local (no communication): additive
// sharing is linear, so summing shares sums the secrets.
func (t *Tensor) Add(other *Tensor) (*Tensor, error) {
	if err := t.checkEngine(other); err != nil {
		return nil, err
	}
	if t.enc.ScaleElement() != other.enc.ScaleElement() {
		return nil, errs.ErrScaleMismatch
	}
	sum, err := t.data.Add(other.data)
	if err != nil {
		return nil, err
	}
	return t.withData(sum), nil
}

// Sub returns t - other.
func (t *Tensor) Sub(other *Tensor) (*Tensor, error) {
	if err := t.checkEngine(other); err != nil {
		return nil, err
	}
	if t.enc.ScaleElement() != other.enc.ScaleElement() {
		return nil, errs.ErrScaleMismatch
	}
	diff, err := t.data.Sub(other.data)
	if err != nil {
		return nil, err
	}
	return t.withData(diff), nil
}

// Neg returns -t.
func (t *Tensor) Neg() *Tensor { return t.withData(t.data.Neg()) }

// AddPublic adds a plaintext ring tensor only at rank 0, so every party's
// share still sums to the correct total.
func (t *Tensor) AddPublic(pub *ring.Tensor) (*Tensor, error) {
	if t.rank() != 0 {
		return t.Clone(), nil
	}
	sum, err := t.data.Add(pub)
	if err != nil {
		return nil, err
	}
	return t.withData(sum), nil
}

// SubPublic subtracts a plaintext ring tensor only at rank 0.
func (t *Tensor) SubPublic(pub *ring.Tensor) (*Tensor, error) {
	if t.rank() != 0 {
		return t.Clone(), nil
	}
	diff, err := t.data.Sub(pub)
	if err != nil {
		return nil, err
	}
	return t.withData(diff), nil
}

// AddPublicFloat encodes x at this tensor's scale and adds it at rank 0.
func (t *Tensor) AddPublicFloat(x float64) (*Tensor, error) {
	pub, err := t.enc.Encode(t.Shape(), broadcastFloat(x, t.NumElement()), t.data.Device())
	if err != nil {
		return nil, err
	}
	return t.AddPublic(pub)
}

func broadcastFloat(x float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = x
	}
	return out
}

// MulPublic multiplies by a plaintext ring tensor, local to every party
// (no reveal needed: every party already knows pub). The caller is
// responsible for rescaling if pub carries its own fractional scale.
func (t *Tensor) MulPublic(pub *ring.Tensor) (*Tensor, error) {
	prod, err := t.data.MulElementwise(pub)
	if err != nil {
		return nil, err
	}
	return t.withData(prod), nil
}

// MulPublicInt multiplies every share by an integer scalar, local.
func (t *Tensor) MulPublicInt(s int64) *Tensor {
	return t.withData(t.data.MulScalar(ring.Element(s)))
}

// MulPublicFloat multiplies by a plaintext float: encodes the scalar at
// this tensor's own scale, multiplies locally (scale becomes s^2), then
// rescales back down with DivPublicInt, matching the
// product-of-two-scaled-operands rule.
func (t *Tensor) MulPublicFloat(x float64) (*Tensor, error) {
	scaled := ring.Element(int64(roundHalfAwayFromZero(x * t.enc.Scale())))
	wide := t.data.MulScalar(scaled)
	return t.withData(wide).DivPublicInt(t.enc.ScaleElement())
}

func roundHalfAwayFromZero(x float64) float64 {
	if x >= 0 {
		return float64(int64(x + 0.5))
	}
	return float64(int64(x - 0.5))
}

// Reshape, Flatten, Transpose2D, Slice, Stack and Concat forward straight
// to the underlying ring tensor: they only rearrange shares, never combine
// values across parties, so they need no communication.

func (t *Tensor) Reshape(shape ring.Shape) (*Tensor, error) {
	r, err := t.data.Reshape(shape)
	if err != nil {
		return nil, err
	}
	return t.withData(r), nil
}

func (t *Tensor) Flatten() *Tensor { return t.withData(t.data.Flatten()) }

func (t *Tensor) Transpose2D() (*Tensor, error) {
	r, err := t.data.Transpose2D()
	if err != nil {
		return nil, err
	}
	return t.withData(r), nil
}

func (t *Tensor) Slice(dim, start, end int) (*Tensor, error) {
	r, err := t.data.Slice(dim, start, end)
	if err != nil {
		return nil, err
	}
	return t.withData(r), nil
}

// Take returns the sub-tensor at a single index along dim, collapsing it
// built from Slice + Reshape.
func (t *Tensor) Take(dim, index int) (*Tensor, error) {
	sliced, err := t.data.Slice(dim, index, index+1)
	if err != nil {
		return nil, err
	}
	shape := sliced.Shape().Clone()
	shape = append(shape[:dim], shape[dim+1:]...)
	reshaped, err := sliced.Reshape(shape)
	if err != nil {
		return nil, err
	}
	return t.withData(reshaped), nil
}

func Stack(dim int, ts ...*Tensor) (*Tensor, error) {
	if len(ts) == 0 {
		return nil, errs.ErrMissingSize
	}
	raw := make([]*ring.Tensor, len(ts))
	for i, t := range ts {
		raw[i] = t.data
	}
	r, err := ring.Stack(dim, raw...)
	if err != nil {
		return nil, err
	}
	return ts[0].withData(r), nil
}

func Concat(dim int, ts ...*Tensor) (*Tensor, error) {
	if len(ts) == 0 {
		return nil, errs.ErrMissingSize
	}
	raw := make([]*ring.Tensor, len(ts))
	for i, t := range ts {
		raw[i] = t.data
	}
	r, err := ring.Concat(dim, raw...)
	if err != nil {
		return nil, err
	}
	return ts[0].withData(r), nil
}

// Pad pads with a public (already-encoded) value at rank 0 only; every
// other party pads with ring-zero, matching the additive-sharing rule for
// any public constant.
func (t *Tensor) Pad(pad []int, publicValue ring.Element) (*Tensor, error) {
	value := ring.Element(0)
	if t.rank() == 0 {
		value = publicValue
	}
	r, err := t.data.Pad(pad, value)
	if err != nil {
		return nil, err
	}
	return t.withData(r), nil
}

// Sum reduces every element to a single 0-dim shared scalar, local.
func (t *Tensor) Sum() *Tensor { return t.withData(t.data.Sum()) }

// CumSum is a running sum along dim, local.
func (t *Tensor) CumSum(dim int) (*Tensor, error) {
	r, err := t.data.CumSum(dim)
	if err != nil {
		return nil, err
	}
	return t.withData(r), nil
}

// Mean sums and divides by the element count as a public-integer
// division.
func (t *Tensor) Mean() (*Tensor, error) {
	n := int64(t.NumElement())
	if n == 0 {
		return nil, errs.ErrMissingSize
	}
	return t.Sum().DivPublicInt(n)
}

// SumDim reduces along a single dimension, optionally keeping it as a
// size-1 axis, by summing one slab at a time. Local, like Sum.
func (t *Tensor) SumDim(dim int, keepdim bool) (*Tensor, error) {
	size := t.Size(dim)
	if size == 0 {
		return nil, errs.ErrMissingSize
	}
	acc, err := t.Slice(dim, 0, 1)
	if err != nil {
		return nil, err
	}
	for i := 1; i < size; i++ {
		slab, err := t.Slice(dim, i, i+1)
		if err != nil {
			return nil, err
		}
		acc, err = acc.Add(slab)
		if err != nil {
			return nil, err
		}
	}
	if keepdim {
		return acc, nil
	}
	shape := acc.Shape().Clone()
	shape = append(shape[:dim], shape[dim+1:]...)
	return acc.Reshape(shape)
}
