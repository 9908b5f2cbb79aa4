// Package share implements Tensor, an additively shared fixed-point
// tensor, plus every local and interactive operation it supports.
// Transcendental approximations live one layer up in package approx,
// built purely out of this package's public methods.
package share

import (
	"fmt"

	"github.com/TEENet-io/mpctensor/beaver"
	"github.com/TEENet-io/mpctensor/encoder"
	"github.com/TEENet-io/mpctensor/internal/errs"
	"github.com/TEENet-io/mpctensor/network"
	"github.com/TEENet-io/mpctensor/rand"
	"github.com/TEENet-io/mpctensor/ring"
)

// DebugMode toggles a correctness check on public-integer division. It is
// a package variable rather than a parameter threaded through every
// call, mirroring how globally-scoped build-time toggles are handled
// elsewhere in this codebase; production builds should leave it false (no
// automatic overflow detection in release mode).
var DebugMode = false

// Tensor is one party's additive share of a fixed-point tensor: its ring
// share plus the encoder, Communicator and Oracle it needs to run local
// and interactive operations.
type Tensor struct {
	data   *ring.Tensor
	enc    *encoder.Encoder
	comm   network.Communicator
	oracle beaver.Oracle
}

// Engine bundles the two external collaborators every Tensor needs, so
// constructors don't take four positional arguments.
type Engine struct {
	Comm   network.Communicator
	Oracle beaver.Oracle
}

// New creates a shared tensor from plaintext values known to party src.
// Other parties pass nil values and either a shape or broadcastSize=true.
func New(e Engine, values []float64, shape ring.Shape, broadcastSize bool, precisionBits, src int) (*Tensor, error) {
	if src < 0 || src >= e.Comm.WorldSize() {
		return nil, fmt.Errorf("%w: src=%d", errs.ErrSourceOutOfRange, src)
	}
	rank := e.Comm.Rank()
	if rank == src && values == nil {
		return nil, errs.ErrMissingPlaintext
	}
	if !broadcastSize && shape == nil && values == nil {
		return nil, errs.ErrMissingSize
	}

	enc := encoder.New(precisionBits)

	var encoded *ring.Tensor
	var err error
	if rank == src {
		encoded, err = enc.Encode(shape, values, ring.CPU)
		if err != nil {
			return nil, err
		}
		shape = encoded.Shape()
	}

	if broadcastSize {
		shape, err = e.Comm.BroadcastShape(shape, src)
		if err != nil {
			return nil, err
		}
	}

	zero, err := PRZSRaw(shape, e.Comm)
	if err != nil {
		return nil, err
	}
	if rank == src {
		zero, err = zero.Add(encoded)
		if err != nil {
			return nil, err
		}
	}

	return &Tensor{data: zero, enc: enc, comm: e.Comm, oracle: e.Oracle}, nil
}

// PRZSRaw draws a pseudo-random sharing of zero at the ring level: party
// i's share is r_i - r_{i+1}, drawn from the two streams it shares with
// its neighbors in the ring topology. The sum telescopes to zero across
// all parties.
func PRZSRaw(shape ring.Shape, comm network.Communicator) (*ring.Tensor, error) {
	current, err := rand.UniformRing(shape, comm.Generator(0), ring.CPU)
	if err != nil {
		return nil, err
	}
	next, err := rand.UniformRing(shape, comm.Generator(1), ring.CPU)
	if err != nil {
		return nil, err
	}
	return current.Sub(next)
}

// PRZS builds a shared tensor whose shares sum to zero.
func PRZS(e Engine, shape ring.Shape, precisionBits int) (*Tensor, error) {
	data, err := PRZSRaw(shape, e.Comm)
	if err != nil {
		return nil, err
	}
	return &Tensor{data: data, enc: encoder.New(precisionBits), comm: e.Comm, oracle: e.Oracle}, nil
}

// PRSS draws a uniform ring element as this party's share of an unknown,
// never-reconstructed joint value.
func PRSS(e Engine, shape ring.Shape, precisionBits int) (*Tensor, error) {
	data, err := rand.UniformRing(shape, e.Comm.LocalGenerator(), ring.CPU)
	if err != nil {
		return nil, err
	}
	return &Tensor{data: data, enc: encoder.New(precisionBits), comm: e.Comm, oracle: e.Oracle}, nil
}

// FromShares is a debug/testing constructor: the party holds the provided
// ring tensor as-is, with no communication.
func FromShares(e Engine, data *ring.Tensor, precisionBits int) *Tensor {
	return &Tensor{data: data, enc: encoder.New(precisionBits), comm: e.Comm, oracle: e.Oracle}
}

// Share returns the underlying ring tensor this party holds.
func (t *Tensor) Share() *ring.Tensor { return t.data }

// Encoder returns the fixed-point encoder this tensor was built with.
func (t *Tensor) Encoder() *encoder.Encoder { return t.enc }

// Engine returns the communicator/oracle pair this tensor uses for
// interactive operations, so approx routines can build fresh Tensors of
// matching provenance.
func (t *Tensor) Engine() Engine { return Engine{Comm: t.comm, Oracle: t.oracle} }

func (t *Tensor) withData(data *ring.Tensor) *Tensor {
	return &Tensor{data: data, enc: t.enc, comm: t.comm, oracle: t.oracle}
}

// Clone returns a deep copy sharing this tensor's encoder/engine.
func (t *Tensor) Clone() *Tensor { return t.withData(t.data.Clone()) }

func (t *Tensor) rank() int { return t.comm.Rank() }

// Reveal performs an all-reduce (sum) of shares across the ring and
// returns the reconstructed, still-encoded ring tensor (no decoding).
func (t *Tensor) Reveal() (*ring.Tensor, error) {
	return t.comm.AllReduce(t.data)
}

// RevealTo performs a reduce to rank dst only; other parties receive nil.
func (t *Tensor) RevealTo(dst int) (*ring.Tensor, error) {
	return t.comm.Reduce(t.data, dst)
}

// RevealBatch reveals a batch of tensors with one batched collective call
// (AllReduceBatch, or ReduceBatch when dst is set), preserving order.
func RevealBatch(ts []*Tensor, dst *int) ([]*ring.Tensor, error) {
	if len(ts) == 0 {
		return nil, nil
	}
	raw := make([]*ring.Tensor, len(ts))
	for i, t := range ts {
		raw[i] = t.data
	}
	comm := ts[0].comm
	if dst == nil {
		return comm.AllReduceBatch(raw)
	}
	return comm.ReduceBatch(raw, *dst)
}

// GetPlainText reveals and decodes to a flat row-major []float64.
func (t *Tensor) GetPlainText() ([]float64, error) {
	if t.data.NumElement() == 0 {
		return []float64{}, nil
	}
	revealed, err := t.Reveal()
	if err != nil {
		return nil, err
	}
	return t.enc.Decode(revealed), nil
}

func (t *Tensor) Shape() ring.Shape  { return t.data.Shape() }
func (t *Tensor) Dim() int           { return t.data.Dim() }
func (t *Tensor) Size(dim int) int   { return t.data.Size(dim) }
func (t *Tensor) NumElement() int    { return t.data.NumElement() }
func (t *Tensor) Len() int           { return t.data.Len() }

// Bool is unsupported: a shared tensor cannot be evaluated as a boolean
// without revealing it, which the engine never does implicitly.
func (t *Tensor) Bool() (bool, error) { return false, errs.ErrBoolEval }
