package approx

import "github.com/TEENet-io/mpctensor/share"

// Exp approximates e^x by the limit definition: e^x = lim (1+x/2^n)^(2^n),
// computed as n repeated squarings. Iteration count is ExpIterations.
func Exp(x *share.Tensor) (*share.Tensor, error) {
	n := Current().ExpIterations
	scale := 1.0
	for i := 0; i < n; i++ {
		scale /= 2
	}
	base, err := x.MulPublicFloat(scale)
	if err != nil {
		return nil, err
	}
	base, err = base.AddPublicFloat(1.0)
	if err != nil {
		return nil, err
	}
	result := base
	for i := 0; i < n; i++ {
		result, err = result.Square()
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}
