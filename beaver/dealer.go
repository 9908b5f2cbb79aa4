package beaver

import (
	"math/big"

	"github.com/TEENet-io/mpctensor/network"
	"github.com/TEENet-io/mpctensor/rand"
	"github.com/TEENet-io/mpctensor/ring"
)

// TrustedDealerOracle is the simplest Oracle satisfying the contract: it
// reveals both operands to every party, computes the product locally, and
// re-splits the result with PRZS. This is only sound for tests — a real
// deployment needs a triple-generation protocol that never reveals the
// operands, which is explicitly out of scope here. It lets the rest
// of the engine and the approximation library be exercised end to end
// without one.
type TrustedDealerOracle struct {
	Comm network.Communicator
}

func przsLike(t *ring.Tensor, comm network.Communicator) (*ring.Tensor, error) {
	a, err := rand.UniformRing(t.Shape(), comm.Generator(0), t.Device())
	if err != nil {
		return nil, err
	}
	b, err := rand.UniformRing(t.Shape(), comm.Generator(1), t.Device())
	if err != nil {
		return nil, err
	}
	return a.Sub(b)
}

// reshareLocal re-shares a plaintext ring.Tensor known to every party (the
// result of a reveal-and-compute step) into this party's additive share:
// PRZS share, plus the plaintext added in at rank 0 only.
func reshareLocal(plain *ring.Tensor, comm network.Communicator) (*ring.Tensor, error) {
	share, err := przsLike(plain, comm)
	if err != nil {
		return nil, err
	}
	if comm.Rank() == 0 {
		return share.Add(plain)
	}
	return share, nil
}

// ReshareForDemo exposes reshareLocal for demo/test comparison providers
// that need to turn a plaintext result back into an additive share the
// same way the trusted-dealer oracle does.
func ReshareForDemo(plain *ring.Tensor, comm network.Communicator) (*ring.Tensor, error) {
	return reshareLocal(plain, comm)
}

func (o *TrustedDealerOracle) revealBoth(x, y *ring.Tensor) (*ring.Tensor, *ring.Tensor, error) {
	px, err := o.Comm.AllReduce(x)
	if err != nil {
		return nil, nil, err
	}
	py, err := o.Comm.AllReduce(y)
	if err != nil {
		return nil, nil, err
	}
	return px, py, nil
}

func (o *TrustedDealerOracle) Mul(x, y *ring.Tensor) (*ring.Tensor, error) {
	px, py, err := o.revealBoth(x, y)
	if err != nil {
		return nil, err
	}
	prod, err := px.MulElementwise(py)
	if err != nil {
		return nil, err
	}
	return reshareLocal(prod, o.Comm)
}

func (o *TrustedDealerOracle) MatMul(x, y *ring.Tensor) (*ring.Tensor, error) {
	px, py, err := o.revealBoth(x, y)
	if err != nil {
		return nil, err
	}
	prod, err := ring.MatMul(px, py)
	if err != nil {
		return nil, err
	}
	return reshareLocal(prod, o.Comm)
}

func (o *TrustedDealerOracle) Square(x *ring.Tensor) (*ring.Tensor, error) {
	px, err := o.Comm.AllReduce(x)
	if err != nil {
		return nil, err
	}
	sq, err := px.MulElementwise(px)
	if err != nil {
		return nil, err
	}
	return reshareLocal(sq, o.Comm)
}

func (o *TrustedDealerOracle) Conv1D(x, kernel *ring.Tensor, p ConvParams) (*ring.Tensor, error) {
	px, pk, err := o.revealBoth(x, kernel)
	if err != nil {
		return nil, err
	}
	cp := ring.ConvParams{}
	if len(p.Stride) > 0 {
		cp.Stride = p.Stride[0]
	}
	if len(p.Padding) > 0 {
		cp.Padding = p.Padding[0]
	}
	if len(p.Dilation) > 0 {
		cp.Dilation = p.Dilation[0]
	}
	out, err := ring.Conv1D(px, pk, cp)
	if err != nil {
		return nil, err
	}
	return reshareLocal(out, o.Comm)
}

func (o *TrustedDealerOracle) Conv2D(x, kernel *ring.Tensor, p ConvParams) (*ring.Tensor, error) {
	px, pk, err := o.revealBoth(x, kernel)
	if err != nil {
		return nil, err
	}
	sh, sw := dims2(p.Stride, 1, 1)
	ph, pw := dims2(p.Padding, 0, 0)
	dh, dw := dims2(p.Dilation, 1, 1)
	out, err := ring.Conv2D(px, pk, sh, sw, ph, pw, dh, dw)
	if err != nil {
		return nil, err
	}
	return reshareLocal(out, o.Comm)
}

func (o *TrustedDealerOracle) ConvTranspose1D(x, kernel *ring.Tensor, p ConvParams) (*ring.Tensor, error) {
	px, pk, err := o.revealBoth(x, kernel)
	if err != nil {
		return nil, err
	}
	cp := ring.ConvParams{}
	if len(p.Stride) > 0 {
		cp.Stride = p.Stride[0]
	}
	if len(p.Padding) > 0 {
		cp.Padding = p.Padding[0]
	}
	if len(p.Dilation) > 0 {
		cp.Dilation = p.Dilation[0]
	}
	out, err := ring.ConvTranspose1D(px, pk, cp)
	if err != nil {
		return nil, err
	}
	return reshareLocal(out, o.Comm)
}

func (o *TrustedDealerOracle) ConvTranspose2D(x, kernel *ring.Tensor, p ConvParams) (*ring.Tensor, error) {
	px, pk, err := o.revealBoth(x, kernel)
	if err != nil {
		return nil, err
	}
	sh, sw := dims2(p.Stride, 1, 1)
	ph, pw := dims2(p.Padding, 0, 0)
	dh, dw := dims2(p.Dilation, 1, 1)
	out, err := ring.ConvTranspose2D(px, pk, sh, sw, ph, pw, dh, dw)
	if err != nil {
		return nil, err
	}
	return reshareLocal(out, o.Comm)
}

func dims2(v []int, defA, defB int) (int, int) {
	a, b := defA, defB
	if len(v) > 0 {
		a = v[0]
	}
	if len(v) > 1 {
		b = v[1]
	} else if len(v) == 1 {
		b = v[0]
	}
	return a, b
}

// Wraps computes the number of modular wraparounds theta of sum_i x_i and
// secret-shares it. theta is not a function of the reconstructed (mod
// 2^64) sum alone — it depends on the unbounded integer sum of the n
// individual L-bit shares, which only a party that sees every raw share
// can compute. A trusted dealer is exactly that party (it already
// reveals every operand for every interactive op in this reference
// implementation), so it gathers the raw shares with n rounds of
// single-source Reduce and computes theta directly; a real deployment
// replaces this with a cryptographic subprotocol that never reveals the
// individual shares.
func (o *TrustedDealerOracle) Wraps(x *ring.Tensor) (*ring.Tensor, error) {
	world := o.Comm.WorldSize()
	rank := o.Comm.Rank()
	shares := make([]*ring.Tensor, world)
	for i := 0; i < world; i++ {
		contribution := x
		if i != rank {
			contribution = ring.New(x.Shape(), x.Device())
		}
		gathered, err := o.Comm.Reduce(contribution, 0)
		if err != nil {
			return nil, err
		}
		if rank == 0 {
			shares[i] = gathered
		}
	}

	wrapCount := ring.New(x.Shape(), x.Device())
	if rank == 0 {
		n := x.NumElement()
		wdata := wrapCount.Data()
		for idx := 0; idx < n; idx++ {
			trueSum := big.NewInt(0)
			for i := 0; i < world; i++ {
				trueSum.Add(trueSum, big.NewInt(int64(shares[i].At(idx))))
			}
			modularSum := int64(0)
			for i := 0; i < world; i++ {
				modularSum += int64(shares[i].At(idx))
			}
			theta := new(big.Int).Sub(trueSum, big.NewInt(modularSum))
			theta.Div(theta, modBase)
			wdata[idx] = ring.Element(theta.Int64())
		}
	}
	return reshareLocal(wrapCount, o.Comm)
}

// modBase is 2^64, the ring modulus, used only to extract the wraparound
// count theta; it is never representable as a signed int64, which is
// exactly why share.Tensor applies the correction as
// 4 * theta * floor(2^(L-2)/y) instead of theta * floor(2^L/y).
var modBase = new(big.Int).Lsh(big.NewInt(1), 64)
