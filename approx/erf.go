package approx

import (
	"math"

	"github.com/TEENet-io/mpctensor/share"
)

// Erf approximates the Gauss error function by its Maclaurin series:
//
//	erf(x) = (2/sqrt(pi)) * sum_{k=0}^{N-1} (-1)^k x^(2k+1) / (k! (2k+1))
//
// truncated to ErfIterations terms. Good for |x| up to roughly 2-3; the
// series converges slowly (or diverges numerically in fixed point)
// further out, consistent with this being an approximation library, not
// an exact one.
func Erf(x *share.Tensor) (*share.Tensor, error) {
	n := Current().ErfIterations
	acc, err := constantLike(x, 0)
	if err != nil {
		return nil, err
	}
	fact := 1.0
	for k := 0; k < n; k++ {
		if k > 0 {
			fact *= float64(k)
		}
		power := 2*k + 1
		xp, err := PosPow(x, power)
		if err != nil {
			return nil, err
		}
		sign := 1.0
		if k%2 == 1 {
			sign = -1.0
		}
		coeff := sign / (fact * float64(power))
		term, err := xp.MulPublicFloat(coeff)
		if err != nil {
			return nil, err
		}
		acc, err = acc.Add(term)
		if err != nil {
			return nil, err
		}
	}
	return acc.MulPublicFloat(2.0 / math.Sqrt(math.Pi))
}
