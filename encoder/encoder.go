// Package encoder implements the fixed-point encoder: the
// bridge between plaintext real numbers and ring elements.
package encoder

import (
	"math"

	"github.com/TEENet-io/mpctensor/internal/errs"
	"github.com/TEENet-io/mpctensor/ring"
)

// DefaultPrecisionBits is the default fractional bit count f.
const DefaultPrecisionBits = 16

// Encoder converts between plaintext float64 tensors and ring.Tensor
// values at a fixed scale s = 2^f.
type Encoder struct {
	precisionBits uint
	scale         float64
}

// New builds an Encoder for the given fractional bit count. A negative
// value selects DefaultPrecisionBits, mirroring the Python default of
// precision_bits=None.
func New(precisionBits int) *Encoder {
	if precisionBits < 0 {
		precisionBits = DefaultPrecisionBits
	}
	return &Encoder{
		precisionBits: uint(precisionBits),
		scale:         math.Pow(2, float64(precisionBits)),
	}
}

// PrecisionBits returns f.
func (e *Encoder) PrecisionBits() uint { return e.precisionBits }

// Scale returns s = 2^f as a float64.
func (e *Encoder) Scale() float64 { return e.scale }

// ScaleElement returns s as an int64, used by public-integer
// division/rescale paths that operate purely on ring arithmetic.
func (e *Encoder) ScaleElement() int64 { return int64(e.scale) }

// IsInteger reports whether this encoder is the unscaled (scale == 1)
// identity encoder.
func (e *Encoder) IsInteger() bool { return e.precisionBits == 0 }

// EncodeScalar rounds x*s to the nearest integer and returns it as a ring
// element. Encoding a non-integer value with the scale-1 encoder is
// undefined in the original and is rejected here with ErrScaleOneFloat
// rather than silently truncating.
func (e *Encoder) EncodeScalar(x float64) (ring.Element, error) {
	if e.IsInteger() && x != math.Trunc(x) {
		return 0, errs.ErrScaleOneFloat
	}
	return ring.Element(int64(math.Round(x * e.scale))), nil
}

// DecodeScalar performs signed division by s.
func (e *Encoder) DecodeScalar(v ring.Element) float64 {
	return float64(int64(v)) / e.scale
}

// Encode encodes every element of a plaintext float64 tensor (given as a
// flat row-major slice plus shape) into a ring.Tensor.
func (e *Encoder) Encode(shape ring.Shape, values []float64, device ring.Device) (*ring.Tensor, error) {
	out := ring.New(shape, device)
	for i, x := range values {
		v, err := e.EncodeScalar(x)
		if err != nil {
			return nil, err
		}
		out.Set(i, v)
	}
	return out, nil
}

// Decode decodes a ring.Tensor back to a flat row-major []float64.
func (e *Encoder) Decode(t *ring.Tensor) []float64 {
	data := t.Data()
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = e.DecodeScalar(v)
	}
	return out
}

// EncodeIntTensor encodes a tensor that is already integer-valued at the
// caller's chosen scale-1 semantics: it is the identity when e is the
// scale-1 encoder (the "encoding an already-integer ring-tensor at scale 1
// is identity" rule), and otherwise applies the usual scale.
func (e *Encoder) EncodeIntTensor(t *ring.Tensor) *ring.Tensor {
	if e.IsInteger() {
		return t.Clone()
	}
	out := ring.New(t.Shape(), t.Device())
	data := t.Data()
	for i, v := range data {
		out.Set(i, ring.Element(int64(math.Round(float64(int64(v))*e.scale))))
	}
	return out
}
