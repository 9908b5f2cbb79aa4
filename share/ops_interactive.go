package share

import (
	"github.com/TEENet-io/mpctensor/beaver"
	"github.com/TEENet-io/mpctensor/internal/errs"
	"github.com/TEENet-io/mpctensor/ring"
)

// rescale divides by the base scale once, undoing the squaring a product
// of two fixed-point operands produces. Skipped when either operand is an
// integer tensor (scale 1), since then the product's scale never changed.
func (t *Tensor) rescale(raw *ring.Tensor, other *Tensor) (*Tensor, error) {
	result := t.withData(raw)
	if t.enc.IsInteger() || other.enc.IsInteger() {
		return result, nil
	}
	if t.enc.ScaleElement() != other.enc.ScaleElement() {
		return nil, errs.ErrScaleMismatch
	}
	return result.DivPublicInt(int64(t.enc.ScaleElement()))
}

// Mul is the element-wise product of two private tensors, mediated by the
// Beaver oracle (the one interactive op the engine cannot run locally,
// since revealing either operand alone would leak it).
func (t *Tensor) Mul(other *Tensor) (*Tensor, error) {
	if err := t.checkEngine(other); err != nil {
		return nil, err
	}
	raw, err := t.oracle.Mul(t.data, other.data)
	if err != nil {
		return nil, errs.Wrap(err, "share: interactive multiply")
	}
	return t.rescale(raw, other)
}

// Square is Mul(t, t) specialized: the oracle can serve it from a
// dedicated Beaver square-triple instead of a general multiplication
// triple, which is why it gets its own Oracle method.
func (t *Tensor) Square() (*Tensor, error) {
	raw, err := t.oracle.Square(t.data)
	if err != nil {
		return nil, errs.Wrap(err, "share: interactive square")
	}
	return t.rescale(raw, t)
}

// MatMul multiplies two private matrices (or batches of matrices).
func (t *Tensor) MatMul(other *Tensor) (*Tensor, error) {
	if err := t.checkEngine(other); err != nil {
		return nil, err
	}
	raw, err := t.oracle.MatMul(t.data, other.data)
	if err != nil {
		return nil, errs.Wrap(err, "share: interactive matmul")
	}
	return t.rescale(raw, other)
}

// Dot is the inner product of two rank-1 tensors: matmul of a 1xN by an
// Nx1 reshape, then dropped back to a 0-dim scalar.
func (t *Tensor) Dot(other *Tensor) (*Tensor, error) {
	if t.Dim() != 1 || other.Dim() != 1 {
		return nil, errs.ErrShapeMismatch
	}
	n := t.Size(0)
	a, err := t.Reshape(ring.Shape{1, n})
	if err != nil {
		return nil, err
	}
	b, err := other.Reshape(ring.Shape{n, 1})
	if err != nil {
		return nil, err
	}
	prod, err := a.MatMul(b)
	if err != nil {
		return nil, err
	}
	return prod.Reshape(ring.Shape{})
}

// Ger is the outer product of two rank-1 tensors.
func (t *Tensor) Ger(other *Tensor) (*Tensor, error) {
	if t.Dim() != 1 || other.Dim() != 1 {
		return nil, errs.ErrShapeMismatch
	}
	a, err := t.Reshape(ring.Shape{t.Size(0), 1})
	if err != nil {
		return nil, err
	}
	b, err := other.Reshape(ring.Shape{1, other.Size(0)})
	if err != nil {
		return nil, err
	}
	return a.MatMul(b)
}

func (t *Tensor) toConvParams(p beaver.ConvParams) beaver.ConvParams { return p }

func (t *Tensor) Conv1D(kernel *Tensor, p beaver.ConvParams) (*Tensor, error) {
	raw, err := t.oracle.Conv1D(t.data, kernel.data, p)
	if err != nil {
		return nil, errs.Wrap(err, "share: interactive conv1d")
	}
	return t.rescale(raw, kernel)
}

func (t *Tensor) Conv2D(kernel *Tensor, p beaver.ConvParams) (*Tensor, error) {
	raw, err := t.oracle.Conv2D(t.data, kernel.data, p)
	if err != nil {
		return nil, errs.Wrap(err, "share: interactive conv2d")
	}
	return t.rescale(raw, kernel)
}

func (t *Tensor) ConvTranspose1D(kernel *Tensor, p beaver.ConvParams) (*Tensor, error) {
	raw, err := t.oracle.ConvTranspose1D(t.data, kernel.data, p)
	if err != nil {
		return nil, errs.Wrap(err, "share: interactive conv_transpose1d")
	}
	return t.rescale(raw, kernel)
}

func (t *Tensor) ConvTranspose2D(kernel *Tensor, p beaver.ConvParams) (*Tensor, error) {
	raw, err := t.oracle.ConvTranspose2D(t.data, kernel.data, p)
	if err != nil {
		return nil, errs.Wrap(err, "share: interactive conv_transpose2d")
	}
	return t.rescale(raw, kernel)
}

// AvgPool2D sum-pools locally, then divides by the (public) kernel area as
// a public-integer division.
func (t *Tensor) AvgPool2D(kh, kw, strideH, strideW, padH, padW int) (*Tensor, error) {
	summed, err := ring.AvgPool2DSum(t.data, kh, kw, strideH, strideW, padH, padW)
	if err != nil {
		return nil, err
	}
	return t.withData(summed).DivPublicInt(int64(kh * kw))
}

// Prod multiplies every element along dim down to one, by repeated
// pairwise halving: at each round it multiplies the first half of the
// remaining elements by the second half, so a length-n reduction takes
// O(log n) interactive rounds instead of n-1 serial multiplications.
func (t *Tensor) Prod(dim int) (*Tensor, error) {
	n := t.Size(dim)
	if n == 0 {
		return nil, errs.ErrMissingSize
	}
	cur := t
	length := n
	for length > 1 {
		half := length / 2
		lo, err := cur.Slice(dim, 0, half)
		if err != nil {
			return nil, err
		}
		hi, err := cur.Slice(dim, half, 2*half)
		if err != nil {
			return nil, err
		}
		prod, err := lo.Mul(hi)
		if err != nil {
			return nil, err
		}
		if length%2 == 1 {
			odd, err := cur.Slice(dim, length-1, length)
			if err != nil {
				return nil, err
			}
			prod, err = Concat(dim, prod, odd)
			if err != nil {
				return nil, err
			}
			length = half + 1
		} else {
			length = half
		}
		cur = prod
	}
	return cur, nil
}

// Var returns the (biased, population) variance along every element: the
// mean of squared deviations from the mean.
func (t *Tensor) Var() (*Tensor, error) {
	mean, err := t.Mean()
	if err != nil {
		return nil, err
	}
	meanFull, err := mean.broadcastLike(t)
	if err != nil {
		return nil, err
	}
	dev, err := t.Sub(meanFull)
	if err != nil {
		return nil, err
	}
	sq, err := dev.Square()
	if err != nil {
		return nil, err
	}
	return sq.Mean()
}

// broadcastLike repeats a 0-dim (or size-1) tensor's single share value
// across target's shape by local replication: every party writes its own
// share value to every slot, so each slot reconstructs to the same secret.
func (t *Tensor) broadcastLike(target *Tensor) (*Tensor, error) {
	n := target.NumElement()
	out := ring.New(target.Shape(), target.data.Device())
	v := t.data.At(0)
	for i := 0; i < n; i++ {
		out.Set(i, v)
	}
	return t.withData(out), nil
}
