package approx

import (
	"github.com/TEENet-io/mpctensor/compare"
	"github.com/TEENet-io/mpctensor/share"
)

// Softmax normalizes x into a probability distribution along dim, using
// the standard max-subtraction for numerical stability: exp(x - max(x)) /
// sum(exp(x - max(x))). Requires cmp to find the max along dim.
func Softmax(x *share.Tensor, dim int, cmp compare.Provider) (*share.Tensor, error) {
	size := x.Size(dim)
	if size == 1 {
		return constantLike(x, 1.0)
	}

	maxBroadcast, err := maxAlongDim(x, dim, cmp)
	if err != nil {
		return nil, err
	}
	shifted, err := x.Sub(maxBroadcast)
	if err != nil {
		return nil, err
	}
	expX, err := Exp(shifted)
	if err != nil {
		return nil, err
	}
	sum, err := expX.SumDim(dim, true)
	if err != nil {
		return nil, err
	}
	sumBroadcast, err := broadcastAlongDim(sum, dim, size)
	if err != nil {
		return nil, err
	}
	recip, err := Reciprocal(sumBroadcast, cmp, false)
	if err != nil {
		return nil, err
	}
	return expX.Mul(recip)
}

// LogSoftmax returns log(softmax(x)) = (x - max(x)) - log(sum(exp(x -
// max(x)))), avoiding the extra reciprocal Softmax needs.
func LogSoftmax(x *share.Tensor, dim int, cmp compare.Provider) (*share.Tensor, error) {
	size := x.Size(dim)
	if size == 1 {
		return constantLike(x, 0.0)
	}

	maxBroadcast, err := maxAlongDim(x, dim, cmp)
	if err != nil {
		return nil, err
	}
	shifted, err := x.Sub(maxBroadcast)
	if err != nil {
		return nil, err
	}
	expX, err := Exp(shifted)
	if err != nil {
		return nil, err
	}
	sum, err := expX.SumDim(dim, true)
	if err != nil {
		return nil, err
	}
	logSum, err := Log(sum, false)
	if err != nil {
		return nil, err
	}
	logSumBroadcast, err := broadcastAlongDim(logSum, dim, size)
	if err != nil {
		return nil, err
	}
	return shifted.Sub(logSumBroadcast)
}

func maxAlongDim(x *share.Tensor, dim int, cmp compare.Provider) (*share.Tensor, error) {
	maxRing, err := cmp.Max(x.Share(), dim, true)
	if err != nil {
		return nil, err
	}
	maxT := share.FromShares(x.Engine(), maxRing, int(x.Encoder().PrecisionBits()))
	return broadcastAlongDim(maxT, dim, x.Size(dim))
}

// broadcastAlongDim repeats a size-1-along-dim tensor size times, turning
// a keepdim reduction back into the original shape.
func broadcastAlongDim(t *share.Tensor, dim, size int) (*share.Tensor, error) {
	parts := make([]*share.Tensor, size)
	for i := range parts {
		parts[i] = t
	}
	return share.Concat(dim, parts...)
}
