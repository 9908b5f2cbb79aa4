package approx

import (
	"fmt"

	"github.com/TEENet-io/mpctensor/share"
)

// PosPow raises x to a non-negative integer power by repeated
// multiplication through the Beaver oracle.
func PosPow(x *share.Tensor, power int) (*share.Tensor, error) {
	if power < 0 {
		return nil, fmt.Errorf("approx: PosPow requires a non-negative power, got %d", power)
	}
	one, err := constantLike(x, 1)
	if err != nil {
		return nil, err
	}
	if power == 0 {
		return one, nil
	}
	acc := x
	for i := 1; i < power; i++ {
		acc, err = acc.Mul(x)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// Polynomial evaluates sum_i coeffs[i]*x^i via Horner's method: coeffs[0]
// is the constant term.
func Polynomial(x *share.Tensor, coeffs []float64) (*share.Tensor, error) {
	if len(coeffs) == 0 {
		return constantLike(x, 0)
	}
	n := len(coeffs)
	result, err := constantLike(x, coeffs[n-1])
	if err != nil {
		return nil, err
	}
	for i := n - 2; i >= 0; i-- {
		result, err = result.Mul(x)
		if err != nil {
			return nil, err
		}
		result, err = result.AddPublicFloat(coeffs[i])
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// constantLike returns a tensor shaped like x whose revealed value is the
// public constant c everywhere, built without any Beaver multiplication:
// zeroing out x with a public-float multiply (whose rescale makes one
// wraparound-count oracle call) and adding the constant at rank 0.
func constantLike(x *share.Tensor, c float64) (*share.Tensor, error) {
	zero, err := x.MulPublicFloat(0)
	if err != nil {
		return nil, err
	}
	return zero.AddPublicFloat(c)
}
