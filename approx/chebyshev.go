package approx

import (
	"math"

	"github.com/TEENet-io/mpctensor/internal/errs"
	"github.com/TEENet-io/mpctensor/share"
)

// chebyshevCoefficients fits f on [-width, width] with a degree-(terms-1)
// Chebyshev series using the standard discrete cosine transform over
// Chebyshev nodes. The coefficients are public floats: f is evaluated in
// cleartext, never on a shared tensor.
func chebyshevCoefficients(f func(float64) float64, width float64, terms int) []float64 {
	coeffs := make([]float64, terms)
	for k := 0; k < terms; k++ {
		sum := 0.0
		for i := 0; i < terms; i++ {
			theta := math.Pi * (float64(i) + 0.5) / float64(terms)
			sum += f(math.Cos(theta)*width) * math.Cos(float64(k)*theta)
		}
		coeffs[k] = 2.0 / float64(terms) * sum
	}
	coeffs[0] /= 2
	return coeffs
}

// chebyshevPolynomials evaluates T_0(y)..T_{terms-1}(y) where y = x/width,
// via the standard recurrence T_0=1, T_1=y, T_k = 2*y*T_{k-1} - T_{k-2}.
func chebyshevPolynomials(x *share.Tensor, width float64, terms int) ([]*share.Tensor, error) {
	y, err := x.MulPublicFloat(1.0 / width)
	if err != nil {
		return nil, err
	}
	polys := make([]*share.Tensor, terms)
	t0, err := constantLike(x, 1.0)
	if err != nil {
		return nil, err
	}
	polys[0] = t0
	if terms == 1 {
		return polys, nil
	}
	polys[1] = y
	for k := 2; k < terms; k++ {
		prod, err := y.Mul(polys[k-1])
		if err != nil {
			return nil, err
		}
		twice, err := prod.MulPublicFloat(2.0)
		if err != nil {
			return nil, err
		}
		tk, err := twice.Sub(polys[k-2])
		if err != nil {
			return nil, err
		}
		polys[k] = tk
	}
	return polys, nil
}

// evalChebyshevSeries combines precomputed polynomials with public
// coefficients without any Beaver multiplication (every term is a
// public-float multiply).
func evalChebyshevSeries(polys []*share.Tensor, coeffs []float64) (*share.Tensor, error) {
	acc, err := polys[0].MulPublicFloat(coeffs[0])
	if err != nil {
		return nil, err
	}
	for k := 1; k < len(polys); k++ {
		term, err := polys[k].MulPublicFloat(coeffs[k])
		if err != nil {
			return nil, err
		}
		acc, err = acc.Add(term)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// tanhChebyshev approximates tanh via a fitted Chebyshev series on
// [-1, 1], the width CrypTen-style sigmoid/tanh approximations use
// (inputs are expected pre-scaled into that range by the caller).
//
// This omits the hardtanh clamp a plaintext tanh applies outside the fit
// range, since clamping needs a comparison primitive this package does
// not have direct access to; callers operating near the domain boundary
// should prefer the reciprocal method instead.
func tanhChebyshev(x *share.Tensor) (*share.Tensor, error) {
	terms := Current().SigmoidTanhTerms
	if terms < 6 || terms%2 != 0 {
		return nil, errs.ErrChebyshevTerms
	}
	coeffs := chebyshevCoefficients(math.Tanh, 1.0, terms)
	polys, err := chebyshevPolynomials(x, 1.0, terms)
	if err != nil {
		return nil, err
	}
	return evalChebyshevSeries(polys, coeffs)
}
