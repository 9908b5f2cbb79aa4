// Package compare defines the comparison-primitive contract consumed by
// approx (reciprocal's sign branch, sigmoid via reciprocal, softmax's max).
// No implementation ships: the binary-shared comparison protocol these
// primitives require is out of scope here.
package compare

import "github.com/TEENet-io/mpctensor/ring"

// Provider is implemented by whatever comparison/binary-sharing subsystem
// an embedder plugs in.
type Provider interface {
	// Sign returns a shared tensor of {-1, 0, 1} indicating the sign of
	// x. When scaled is false the result is a bit-scale (scale 1)
	// tensor, i.e. a "_scale=false" result.
	Sign(x *ring.Tensor, scaled bool) (*ring.Tensor, error)

	// LTZ returns a shared 0/1 indicator of x < 0.
	LTZ(x *ring.Tensor, scaled bool) (*ring.Tensor, error)

	// Max returns the maximum along dim (and, if keepdim, retains it as a
	// size-1 axis) as a shared tensor.
	Max(x *ring.Tensor, dim int, keepdim bool) (*ring.Tensor, error)
}
