package approx

import "github.com/TEENet-io/mpctensor/share"

// ln100 is log(100), used to shift the domain of convergence back out
// after the inputIn01 rescale below.
const ln100 = 4.605170185988091

// Log approximates the natural logarithm via 8th-order modified
// Householder iterations, following the qualitative initial estimate
//
//	y0 = x/120 - 20*exp(-2x-1) + 3
//
// and then refining with
//
//	h = 1 - x*exp(-y_n)
//	y_{n+1} = y_n - sum_{k=1}^{order} h^k/k
//
// for Config.LogIterations rounds, with Config.ExpIterations temporarily
// overridden to Config.LogExpIterations for the Exp calls inside those
// rounds (the Exp in the initial estimate uses ExpIterations).
//
// When inputIn01 is true, x is known to lie in [0, 1] (e.g. a softmax
// probability), so the domain of convergence is shifted via the identity
// log(u) = log(a*u) - log(a) with a=100: this computes log(100*x) and
// subtracts log(100) rather than running the general-purpose estimate
// directly on a small x.
func Log(x *share.Tensor, inputIn01 bool) (*share.Tensor, error) {
	if inputIn01 {
		scaled, err := x.MulPublicFloat(100.0)
		if err != nil {
			return nil, err
		}
		y, err := Log(scaled, false)
		if err != nil {
			return nil, err
		}
		return y.AddPublicFloat(-ln100)
	}

	cfg := Current()
	order := cfg.LogOrder

	term1, err := x.DivPublicFloat(120.0)
	if err != nil {
		return nil, err
	}
	arg, err := x.MulPublicFloat(2.0)
	if err != nil {
		return nil, err
	}
	arg, err = arg.AddPublicFloat(1.0)
	if err != nil {
		return nil, err
	}
	term2, err := Exp(arg.Neg())
	if err != nil {
		return nil, err
	}
	term2, err = term2.MulPublicFloat(20.0)
	if err != nil {
		return nil, err
	}
	y, err := term1.Sub(term2)
	if err != nil {
		return nil, err
	}
	y, err = y.AddPublicFloat(3.0)
	if err != nil {
		return nil, err
	}

	// coeffs[k] = 1/k for k=1..order, coeffs[0] = 0: fed to Polynomial so
	// Polynomial(h, coeffs) == sum_{k=1}^{order} h^k/k, the Householder
	// correction term.
	coeffs := make([]float64, order+1)
	for k := 1; k <= order; k++ {
		coeffs[k] = 1.0 / float64(k)
	}

	restore := Push(func(c *Config) { c.ExpIterations = cfg.LogExpIterations })
	for i := 0; i < cfg.LogIterations; i++ {
		e, err := Exp(y.Neg())
		if err != nil {
			restore()
			return nil, err
		}
		xe, err := x.Mul(e)
		if err != nil {
			restore()
			return nil, err
		}
		h, err := xe.MulPublicFloat(-1.0)
		if err != nil {
			restore()
			return nil, err
		}
		h, err = h.AddPublicFloat(1.0)
		if err != nil {
			restore()
			return nil, err
		}
		correction, err := Polynomial(h, coeffs)
		if err != nil {
			restore()
			return nil, err
		}
		y, err = y.Sub(correction)
		if err != nil {
			restore()
			return nil, err
		}
	}
	restore()
	return y, nil
}
