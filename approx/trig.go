package approx

import "github.com/TEENet-io/mpctensor/share"

// Eix approximates (cos(x), sin(x)) by repeated complex squaring: writing
// e^{ix} = (1 + ix/2^n)^(2^n) and carrying the real/imaginary parts
// through n squarings using (a+bi)^2 = (a^2-b^2) + (2ab)i. Iteration
// count is TrigIterations.
func Eix(x *share.Tensor) (cos *share.Tensor, sin *share.Tensor, err error) {
	n := Current().TrigIterations
	scale := 1.0
	for i := 0; i < n; i++ {
		scale /= 2
	}

	re, err := constantLike(x, 1.0)
	if err != nil {
		return nil, nil, err
	}
	im, err := x.MulPublicFloat(scale)
	if err != nil {
		return nil, nil, err
	}

	for i := 0; i < n; i++ {
		reSq, err := re.Square()
		if err != nil {
			return nil, nil, err
		}
		imSq, err := im.Square()
		if err != nil {
			return nil, nil, err
		}
		newRe, err := reSq.Sub(imSq)
		if err != nil {
			return nil, nil, err
		}
		cross, err := re.Mul(im)
		if err != nil {
			return nil, nil, err
		}
		newIm, err := cross.MulPublicFloat(2.0)
		if err != nil {
			return nil, nil, err
		}
		re, im = newRe, newIm
	}
	return re, im, nil
}

// Cos returns the cosine branch of Eix.
func Cos(x *share.Tensor) (*share.Tensor, error) {
	c, _, err := Eix(x)
	return c, err
}

// Sin returns the sine branch of Eix.
func Sin(x *share.Tensor) (*share.Tensor, error) {
	_, s, err := Eix(x)
	return s, err
}
