package ring

import (
	"fmt"

	"github.com/TEENet-io/mpctensor/internal/errs"
)

// Tensor is a dense, row-major multidimensional container of ring
// Elements. It has no notion of scale or party ownership; those live one
// layer up in encoder.Encoder and share.Tensor respectively.
type Tensor struct {
	shape  Shape
	data   []Element
	device Device
}

// New allocates a zero-filled Tensor of the given shape.
func New(shape Shape, device Device) *Tensor {
	return &Tensor{
		shape:  shape.Clone(),
		data:   make([]Element, shape.NumElement()),
		device: device,
	}
}

// FromSlice wraps an existing flat, row-major slice of Elements as a
// Tensor of the given shape. The slice is used directly, not copied.
func FromSlice(shape Shape, data []Element, device Device) (*Tensor, error) {
	if len(data) != shape.NumElement() {
		return nil, fmt.Errorf("%w: shape %s expects %d elements, got %d",
			errs.ErrShapeMismatch, shape, shape.NumElement(), len(data))
	}
	return &Tensor{shape: shape.Clone(), data: data, device: device}, nil
}

func (t *Tensor) Shape() Shape    { return t.shape.Clone() }
func (t *Tensor) Device() Device  { return t.device }
func (t *Tensor) Dim() int        { return len(t.shape) }
func (t *Tensor) Size(dim int) int { return t.shape[dim] }
func (t *Tensor) NumElement() int { return len(t.data) }
func (t *Tensor) Len() int        { return t.NumElement() }

// Data returns the underlying flat storage. Callers that mutate the result
// mutate the tensor; use Clone first if that is not intended.
func (t *Tensor) Data() []Element { return t.data }

// At returns the element at a flat (row-major) index.
func (t *Tensor) At(i int) Element { return t.data[i] }

// Set writes the element at a flat (row-major) index.
func (t *Tensor) Set(i int, v Element) { t.data[i] = v }

// Clone returns a deep copy.
func (t *Tensor) Clone() *Tensor {
	data := make([]Element, len(t.data))
	copy(data, t.data)
	return &Tensor{shape: t.shape.Clone(), data: data, device: t.device}
}

func (t *Tensor) sameShape(other *Tensor) error {
	if !t.shape.Equal(other.shape) {
		return fmt.Errorf("%w: %s vs %s", errs.ErrShapeMismatch, t.shape, other.shape)
	}
	return nil
}

// Add returns the elementwise sum of two tensors of equal shape.
func (t *Tensor) Add(other *Tensor) (*Tensor, error) {
	if err := t.sameShape(other); err != nil {
		return nil, err
	}
	out := New(t.shape, t.device)
	for i := range t.data {
		out.data[i] = t.data[i] + other.data[i]
	}
	return out, nil
}

// Sub returns the elementwise difference of two tensors of equal shape.
func (t *Tensor) Sub(other *Tensor) (*Tensor, error) {
	if err := t.sameShape(other); err != nil {
		return nil, err
	}
	out := New(t.shape, t.device)
	for i := range t.data {
		out.data[i] = t.data[i] - other.data[i]
	}
	return out, nil
}

// Neg returns the elementwise negation.
func (t *Tensor) Neg() *Tensor {
	out := New(t.shape, t.device)
	for i := range t.data {
		out.data[i] = -t.data[i]
	}
	return out
}

// MulElementwise returns the Hadamard (elementwise) product of two tensors
// of equal shape. This is a local, non-interactive operation: it is only
// correct to call directly on shares when at most one operand is private
// per the caller's protocol (e.g. multiplying by a public tensor). Private
// x private elementwise multiplication must go through a Beaver oracle.
func (t *Tensor) MulElementwise(other *Tensor) (*Tensor, error) {
	if err := t.sameShape(other); err != nil {
		return nil, err
	}
	out := New(t.shape, t.device)
	for i := range t.data {
		out.data[i] = t.data[i] * other.data[i]
	}
	return out, nil
}

// MulScalar multiplies every element by a public ring scalar.
func (t *Tensor) MulScalar(s Element) *Tensor {
	out := New(t.shape, t.device)
	for i := range t.data {
		out.data[i] = t.data[i] * s
	}
	return out
}

// DivTruncScalar divides every element by a public integer y using
// round-toward-zero truncation (Go's native integer division already
// truncates toward zero, matching a div(y, rounding_mode="trunc") convention.
func (t *Tensor) DivTruncScalar(y int64) *Tensor {
	out := New(t.shape, t.device)
	for i := range t.data {
		out.data[i] = Element(int64(t.data[i]) / y)
	}
	return out
}

// Equal reports whether two tensors have the same shape and elements.
func (t *Tensor) Equal(other *Tensor) bool {
	if !t.shape.Equal(other.shape) {
		return false
	}
	for i := range t.data {
		if t.data[i] != other.data[i] {
			return false
		}
	}
	return true
}

// Reshape returns a tensor viewing the same elements under a new shape of
// equal element count.
func (t *Tensor) Reshape(newShape Shape) (*Tensor, error) {
	if newShape.NumElement() != len(t.data) {
		return nil, fmt.Errorf("%w: cannot reshape %s into %s", errs.ErrShapeMismatch, t.shape, newShape)
	}
	data := make([]Element, len(t.data))
	copy(data, t.data)
	return &Tensor{shape: newShape.Clone(), data: data, device: t.device}, nil
}

// Flatten returns a 1-D view of the tensor's elements.
func (t *Tensor) Flatten() *Tensor {
	out, _ := t.Reshape(Shape{len(t.data)})
	return out
}

// Transpose2D returns the transpose of a rank-2 tensor.
func (t *Tensor) Transpose2D() (*Tensor, error) {
	if len(t.shape) != 2 {
		return nil, fmt.Errorf("%w: transpose2d requires a rank-2 tensor, got rank %d", errs.ErrShapeMismatch, len(t.shape))
	}
	rows, cols := t.shape[0], t.shape[1]
	out := New(Shape{cols, rows}, t.device)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out.data[c*rows+r] = t.data[r*cols+c]
		}
	}
	return out, nil
}

// Slice extracts the half-open range [start, end) along dim.
func (t *Tensor) Slice(dim, start, end int) (*Tensor, error) {
	if dim < 0 || dim >= len(t.shape) {
		return nil, fmt.Errorf("%w: slice dim %d out of range for shape %s", errs.ErrShapeMismatch, dim, t.shape)
	}
	if start < 0 || end > t.shape[dim] || start > end {
		return nil, fmt.Errorf("%w: slice range [%d,%d) out of bounds for dim size %d", errs.ErrShapeMismatch, start, end, t.shape[dim])
	}
	outShape := t.shape.Clone()
	outShape[dim] = end - start
	out := New(outShape, t.device)

	outer, inner := 1, 1
	for i := 0; i < dim; i++ {
		outer *= t.shape[i]
	}
	for i := dim + 1; i < len(t.shape); i++ {
		inner *= t.shape[i]
	}
	srcDimStride := inner
	dstDim := end - start

	for o := 0; o < outer; o++ {
		for d := 0; d < dstDim; d++ {
			srcBase := o*t.shape[dim]*srcDimStride + (start+d)*srcDimStride
			dstBase := o*dstDim*srcDimStride + d*srcDimStride
			copy(out.data[dstBase:dstBase+inner], t.data[srcBase:srcBase+inner])
		}
	}
	return out, nil
}

// Concat concatenates tensors along dim. All tensors must share every
// dimension except dim.
func Concat(dim int, tensors ...*Tensor) (*Tensor, error) {
	if len(tensors) == 0 {
		return nil, fmt.Errorf("%w: concat requires at least one tensor", errs.ErrShapeMismatch)
	}
	first := tensors[0]
	outShape := first.shape.Clone()
	total := 0
	for _, t := range tensors {
		if len(t.shape) != len(first.shape) {
			return nil, fmt.Errorf("%w: concat rank mismatch", errs.ErrShapeMismatch)
		}
		for i := range first.shape {
			if i == dim {
				continue
			}
			if t.shape[i] != first.shape[i] {
				return nil, fmt.Errorf("%w: concat dim %d mismatch", errs.ErrShapeMismatch, i)
			}
		}
		total += t.shape[dim]
	}
	outShape[dim] = total
	out := New(outShape, first.device)

	outer, inner := 1, 1
	for i := 0; i < dim; i++ {
		outer *= first.shape[i]
	}
	for i := dim + 1; i < len(first.shape); i++ {
		inner *= first.shape[i]
	}

	for o := 0; o < outer; o++ {
		offset := 0
		for _, t := range tensors {
			dsize := t.shape[dim]
			srcBase := o * dsize * inner
			dstBase := o*total*inner + offset*inner
			copy(out.data[dstBase:dstBase+dsize*inner], t.data[srcBase:srcBase+dsize*inner])
			offset += dsize
		}
	}
	return out, nil
}

// Stack stacks tensors of equal shape along a new leading axis of size
// len(tensors) when dim == 0, or inserts the new axis at dim otherwise.
func Stack(dim int, tensors ...*Tensor) (*Tensor, error) {
	if len(tensors) == 0 {
		return nil, fmt.Errorf("%w: stack requires at least one tensor", errs.ErrShapeMismatch)
	}
	expanded := make([]*Tensor, len(tensors))
	base := tensors[0].shape.Clone()
	for i, t := range tensors {
		if !t.shape.Equal(base) {
			return nil, fmt.Errorf("%w: stack shape mismatch", errs.ErrShapeMismatch)
		}
		newShape := make(Shape, 0, len(base)+1)
		newShape = append(newShape, base[:dim]...)
		newShape = append(newShape, 1)
		newShape = append(newShape, base[dim:]...)
		reshaped, err := t.Reshape(newShape)
		if err != nil {
			return nil, err
		}
		expanded[i] = reshaped
	}
	return Concat(dim, expanded...)
}

// Sum reduces over all elements, returning a 0-dim tensor.
func (t *Tensor) Sum() *Tensor {
	var acc Element
	for _, v := range t.data {
		acc += v
	}
	out := New(Shape{}, t.device)
	out.data[0] = acc
	return out
}

// CumSum returns the cumulative sum along dim.
func (t *Tensor) CumSum(dim int) (*Tensor, error) {
	if dim < 0 || dim >= len(t.shape) {
		return nil, fmt.Errorf("%w: cumsum dim %d out of range", errs.ErrShapeMismatch, dim)
	}
	out := t.Clone()
	outer, inner := 1, 1
	for i := 0; i < dim; i++ {
		outer *= t.shape[i]
	}
	for i := dim + 1; i < len(t.shape); i++ {
		inner *= t.shape[i]
	}
	n := t.shape[dim]
	for o := 0; o < outer; o++ {
		for k := 0; k < inner; k++ {
			var acc Element
			for d := 0; d < n; d++ {
				idx := o*n*inner + d*inner + k
				acc += out.data[idx]
				out.data[idx] = acc
			}
		}
	}
	return out, nil
}

// Pad pads the tensor along every dimension with value on both sides,
// given as a flat [before0, after0, before1, after1, ...] list in the
// PyTorch-style reversed-dimension order used by the original spec (last
// dimension first).
func (t *Tensor) Pad(pad []int, value Element) (*Tensor, error) {
	if len(pad)%2 != 0 || len(pad)/2 > len(t.shape) {
		return nil, fmt.Errorf("%w: malformed pad spec", errs.ErrShapeMismatch)
	}
	before := make([]int, len(t.shape))
	after := make([]int, len(t.shape))
	nPaddedDims := len(pad) / 2
	for i := 0; i < nPaddedDims; i++ {
		dim := len(t.shape) - 1 - i
		before[dim] = pad[2*i]
		after[dim] = pad[2*i+1]
	}
	outShape := make(Shape, len(t.shape))
	for i := range t.shape {
		outShape[i] = before[i] + t.shape[i] + after[i]
	}
	out := New(outShape, t.device)
	for i := range out.data {
		out.data[i] = value
	}
	copyPadded(out, t, before)
	return out, nil
}

func copyPadded(dst, src *Tensor, before []int) {
	srcStrides := src.shape.strides()
	dstStrides := dst.shape.strides()
	idx := make([]int, len(src.shape))
	for flat := 0; flat < len(src.data); flat++ {
		rem := flat
		for d := 0; d < len(src.shape); d++ {
			idx[d] = rem / srcStrides[d]
			rem %= srcStrides[d]
		}
		dstFlat := 0
		for d := 0; d < len(src.shape); d++ {
			dstFlat += (idx[d] + before[d]) * dstStrides[d]
		}
		dst.data[dstFlat] = src.data[flat]
	}
}
