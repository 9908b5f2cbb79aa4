// Package beaver defines the Beaver-triple oracle contract consumed by
// share.Tensor's interactive operations and ships a
// TrustedDealerOracle reference implementation sound only for tests: a
// real triple-generation protocol is out of scope here.
package beaver

import "github.com/TEENet-io/mpctensor/ring"

// ConvParams carries the stride/padding/dilation/groups configuration
// shared by the four convolution primitives.
type ConvParams struct {
	Stride, Padding, Dilation, Groups []int
}

// Oracle realizes one multiplicative primitive: given this
// party's shares of x and y, return this party's share of f(x, y) at scale
// s^2 (the caller rescales). Every method may suspend (it is a collective).
type Oracle interface {
	Mul(x, y *ring.Tensor) (*ring.Tensor, error)
	MatMul(x, y *ring.Tensor) (*ring.Tensor, error)
	Conv1D(x, kernel *ring.Tensor, p ConvParams) (*ring.Tensor, error)
	Conv2D(x, kernel *ring.Tensor, p ConvParams) (*ring.Tensor, error)
	ConvTranspose1D(x, kernel *ring.Tensor, p ConvParams) (*ring.Tensor, error)
	ConvTranspose2D(x, kernel *ring.Tensor, p ConvParams) (*ring.Tensor, error)
	Square(x *ring.Tensor) (*ring.Tensor, error)

	// Wraps returns a shared tensor whose reconstruction is the integer
	// count of modular wraparounds of sum_i x_i, needed to correct
	// public-integer division in the multi-party case.
	Wraps(x *ring.Tensor) (*ring.Tensor, error)
}
