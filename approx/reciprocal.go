package approx

import (
	"github.com/TEENet-io/mpctensor/compare"
	"github.com/TEENet-io/mpctensor/internal/errs"
	"github.com/TEENet-io/mpctensor/share"
)

// Reciprocal approximates 1/x. When Config.ReciprocalAllPos is false, x
// may be of either sign and cmp must be non-nil: x is split into
// sign(x)*|x|, the reciprocal of the positive magnitude is approximated,
// and the sign is multiplied back in at the end (1/x = sign(x)/|x|, since
// sign(x)^2 = 1). When ReciprocalAllPos is true, x is assumed strictly
// positive and cmp may be nil.
//
// When inputIn01 is true, x is known to lie in [0, 1] (e.g. a probability),
// which optimizes accuracy by computing (64*x)^-1 with ReciprocalAllPos
// forced true and multiplying the result by 64 (1/x = 64/(64x)),
// since 64x then sits in a range where the approximation is both positive
// and well-conditioned.
func Reciprocal(x *share.Tensor, cmp compare.Provider, inputIn01 bool) (*share.Tensor, error) {
	if inputIn01 {
		restore := Push(func(c *Config) { c.ReciprocalAllPos = true })
		scaled, err := x.MulPublicFloat(64.0)
		if err != nil {
			restore()
			return nil, err
		}
		rec, err := Reciprocal(scaled, cmp, false)
		restore()
		if err != nil {
			return nil, err
		}
		return rec.MulPublicFloat(64.0)
	}

	cfg := Current()

	target := x
	var sign *share.Tensor
	if !cfg.ReciprocalAllPos {
		if cmp == nil {
			return nil, errs.ErrMissingComparisonProvider
		}
		signRing, err := cmp.Sign(x.Share(), false)
		if err != nil {
			return nil, err
		}
		sign = share.FromShares(x.Engine(), signRing, 0) // sign values are {-1,0,1}, unscaled
		target, err = x.Mul(sign)
		if err != nil {
			return nil, err
		}
	}

	var y *share.Tensor
	var err error
	switch cfg.ReciprocalMethod {
	case "log":
		restore := Push(func(c *Config) { c.LogIterations = cfg.ReciprocalLogIters })
		l, lerr := Log(target, false)
		restore()
		if lerr != nil {
			return nil, lerr
		}
		y, err = Exp(l.Neg())
		if err != nil {
			return nil, err
		}
	case "NR", "":
		y, err = reciprocalInitial(target, cfg)
		if err != nil {
			return nil, err
		}
		for i := 0; i < cfg.ReciprocalNRIters; i++ {
			xy, err := target.Mul(y)
			if err != nil {
				return nil, err
			}
			twoMinusXY, err := xy.MulPublicFloat(-1.0)
			if err != nil {
				return nil, err
			}
			twoMinusXY, err = twoMinusXY.AddPublicFloat(2.0)
			if err != nil {
				return nil, err
			}
			y, err = y.Mul(twoMinusXY)
			if err != nil {
				return nil, err
			}
		}
	default:
		return nil, errs.ErrUnknownReciprocalMethod
	}

	if !cfg.ReciprocalAllPos {
		return y.Mul(sign)
	}
	return y, nil
}

// reciprocalInitial returns the configured constant initial guess if set,
// otherwise the heuristic 3*e^(0.5-x) + 0.003, which decays toward zero
// as x grows and stays positive across the typical operating range.
func reciprocalInitial(x *share.Tensor, cfg Config) (*share.Tensor, error) {
	if cfg.ReciprocalInitial != nil {
		return constantLike(x, *cfg.ReciprocalInitial)
	}
	shifted, err := x.MulPublicFloat(-1.0)
	if err != nil {
		return nil, err
	}
	shifted, err = shifted.AddPublicFloat(0.5)
	if err != nil {
		return nil, err
	}
	e, err := Exp(shifted)
	if err != nil {
		return nil, err
	}
	scaled, err := e.MulPublicFloat(3.0)
	if err != nil {
		return nil, err
	}
	return scaled.AddPublicFloat(0.003)
}
