package approx

import (
	"github.com/TEENet-io/mpctensor/compare"
	"github.com/TEENet-io/mpctensor/internal/errs"
	"github.com/TEENet-io/mpctensor/share"
)

// Sigmoid approximates the logistic function. The "reciprocal" method
// computes 1/(1+e^-x) directly; cmp is required unless
// Config.ReciprocalAllPos is set (the denominator 1+e^-x is always
// positive, so ReciprocalAllPos=true is the expected setting here). The
// "chebyshev" method derives sigmoid(x) = tanh(x/2)/2 + 1/2 from the
// fitted tanh series and needs no comparison primitive at all.
func Sigmoid(x *share.Tensor, cmp compare.Provider) (*share.Tensor, error) {
	switch Current().SigmoidTanhMethod {
	case "chebyshev":
		half, err := x.MulPublicFloat(0.5)
		if err != nil {
			return nil, err
		}
		t, err := tanhChebyshev(half)
		if err != nil {
			return nil, err
		}
		scaled, err := t.MulPublicFloat(0.5)
		if err != nil {
			return nil, err
		}
		return scaled.AddPublicFloat(0.5)
	case "reciprocal", "":
		negX := x.Neg()
		e, err := Exp(negX)
		if err != nil {
			return nil, err
		}
		denom, err := e.AddPublicFloat(1.0)
		if err != nil {
			return nil, err
		}
		return Reciprocal(denom, cmp, false)
	default:
		return nil, errs.ErrUnknownSigmoidMethod
	}
}

// Tanh approximates the hyperbolic tangent, either directly via the
// fitted Chebyshev series or via tanh(x) = 2*sigmoid(2x) - 1.
func Tanh(x *share.Tensor, cmp compare.Provider) (*share.Tensor, error) {
	switch Current().SigmoidTanhMethod {
	case "chebyshev":
		return tanhChebyshev(x)
	case "reciprocal", "":
		doubled, err := x.MulPublicFloat(2.0)
		if err != nil {
			return nil, err
		}
		s, err := Sigmoid(doubled, cmp)
		if err != nil {
			return nil, err
		}
		scaled, err := s.MulPublicFloat(2.0)
		if err != nil {
			return nil, err
		}
		return scaled.AddPublicFloat(-1.0)
	default:
		return nil, errs.ErrUnknownSigmoidMethod
	}
}
