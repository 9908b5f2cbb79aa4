package approx

import "github.com/TEENet-io/mpctensor/share"

// InvSqrt approximates 1/sqrt(x) for x > 0 via Newton-Raphson on
// f(y) = 1/y^2 - x: y_{k+1} = y_k*(1.5 - 0.5*x*y_k^2).
func InvSqrt(x *share.Tensor) (*share.Tensor, error) {
	cfg := Current()
	y, err := invSqrtInitial(x, cfg)
	if err != nil {
		return nil, err
	}
	for i := 0; i < cfg.SqrtNRIters; i++ {
		y2, err := y.Square()
		if err != nil {
			return nil, err
		}
		xy2, err := x.Mul(y2)
		if err != nil {
			return nil, err
		}
		half, err := xy2.MulPublicFloat(-0.5)
		if err != nil {
			return nil, err
		}
		half, err = half.AddPublicFloat(1.5)
		if err != nil {
			return nil, err
		}
		y, err = y.Mul(half)
		if err != nil {
			return nil, err
		}
	}
	return y, nil
}

// invSqrtInitial returns the configured constant, or e^(-0.5*log(x)), the
// exact identity x^(-0.5) = e^(-0.5 ln x), used only to seed Newton's
// method (its own approximation error washes out after a few iterations).
func invSqrtInitial(x *share.Tensor, cfg Config) (*share.Tensor, error) {
	if cfg.SqrtNRInitial != nil {
		return constantLike(x, *cfg.SqrtNRInitial)
	}
	l, err := Log(x, false)
	if err != nil {
		return nil, err
	}
	halfNegLog, err := l.MulPublicFloat(-0.5)
	if err != nil {
		return nil, err
	}
	return Exp(halfNegLog)
}

// Sqrt is x * invSqrt(x), x*x^(-0.5) = x^0.5.
func Sqrt(x *share.Tensor) (*share.Tensor, error) {
	inv, err := InvSqrt(x)
	if err != nil {
		return nil, err
	}
	return x.Mul(inv)
}
