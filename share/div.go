package share

import (
	"github.com/TEENet-io/mpctensor/internal/errs"
	"github.com/TEENet-io/mpctensor/ring"
)

// divergenceTolerance bounds how far DebugMode allows a DivPublicInt result
// to stray from the reconstructed input divided by y (truncated toward
// zero) before flagging it, in units of
// the underlying ring element (one part in the least significant digit of
// slack for the rounding arithmetic itself).
const divergenceTolerance = int64(1)

// ringBits is the bit width L of the shared ring Z_2^64 (ring.Element is a
// 64-bit signed wraparound type).
const ringBits = 64

// DivPublicInt divides a shared tensor by a known integer y != 0, each
// party truncating its own share toward zero.
//
// A naive per-party t.Share()/y does not reconstruct to secret/y: the
// integer sum of the shares exceeds the secret by theta*2^L, where theta
// is the number of modular wraparounds of the sum, and that excess is
// divided by y along with everything else. The correction obtains a
// sharing of theta from the oracle and removes its contribution:
//
//	result = share/y - 4*theta*floor(2^(L-2)/y)
//
// where theta is this party's share of the wraparound count, and the
// factor of 4 compensates for computing floor(2^(L-2)/y) instead of the
// unrepresentable floor(2^L/y) directly in a 64-bit signed element.
//
// The per-share truncations and the rounding in floor(2^(L-2)/y) leave the
// reconstructed result a few units (more with more parties) away from
// secret/y; it is not guaranteed to equal the truncated quotient exactly.
func (t *Tensor) DivPublicInt(y int64) (*Tensor, error) {
	if y == 0 {
		return nil, errs.ErrUnsupportedOperand
	}
	theta, err := t.oracle.Wraps(t.data)
	if err != nil {
		return nil, errs.Wrap(err, "share: wraparound-count oracle call")
	}
	quotient := t.data.DivTruncScalar(y)
	correctionConst := ring.Element(4 * (int64(1)<<(ringBits-2)/y))
	correction := theta.MulScalar(correctionConst)
	corrected, err := quotient.Sub(correction)
	if err != nil {
		return nil, err
	}
	result := t.withData(corrected)

	if DebugMode {
		if err := checkDivDivergence(t, result, y); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// checkDivDivergence reveals both the pre-division input and the candidate
// result and checks the latter against input/y truncated toward zero, within
// divergenceTolerance. It costs two extra reveal rounds, which is why it
// only runs under DebugMode.
func checkDivDivergence(input, result *Tensor, y int64) error {
	pre, err := input.Reveal()
	if err != nil {
		return err
	}
	post, err := result.Reveal()
	if err != nil {
		return err
	}
	expected := pre.DivTruncScalar(y)
	for i := 0; i < expected.NumElement(); i++ {
		diff := int64(expected.At(i)) - int64(post.At(i))
		if diff < -divergenceTolerance || diff > divergenceTolerance {
			return errs.ErrDivergence
		}
	}
	return nil
}

// DivPublicFloat divides by a plaintext float known to every party. Since
// y is public, 1/y is computed directly in cleartext and applied as a
// local multiplication, with no need for the wraparound correction public
// integer division requires.
func (t *Tensor) DivPublicFloat(y float64) (*Tensor, error) {
	if y == 0 {
		return nil, errs.ErrUnsupportedOperand
	}
	return t.MulPublicFloat(1.0 / y)
}
