// Package network defines the communicator contract consumed by the
// sharing engine and ships one reference implementation,
// LocalCommunicator, for in-process simulation in tests and examples. A
// production communicator (sockets, retries, TLS) is left to the embedder.
package network

import (
	"github.com/TEENet-io/mpctensor/rand"
	"github.com/TEENet-io/mpctensor/ring"
)

// Communicator is the point-to-point and collective transport the sharing
// engine is built on. Every method may suspend until all parties reach the
// matching call: there are no timeouts in this contract.
type Communicator interface {
	Rank() int
	WorldSize() int

	// LocalGenerator returns this party's private seeded stream.
	LocalGenerator() *rand.Generator
	// Generator(0) returns the stream shared with this party's
	// predecessor in the ring topology; Generator(1) the stream shared
	// with its successor.
	Generator(which int) *rand.Generator

	// AllReduce sums tensor across all parties and returns the result to
	// every party.
	AllReduce(t *ring.Tensor) (*ring.Tensor, error)
	// AllReduceBatch is the batched form of AllReduce, preserving order.
	AllReduceBatch(ts []*ring.Tensor) ([]*ring.Tensor, error)
	// Reduce sums tensor across all parties and returns the result only
	// to dst; other parties receive nil.
	Reduce(t *ring.Tensor, dst int) (*ring.Tensor, error)
	// ReduceBatch is the batched form of Reduce.
	ReduceBatch(ts []*ring.Tensor, dst int) ([]*ring.Tensor, error)

	// BroadcastShape sends shape from src to every other party and
	// returns the agreed shape to all parties including src.
	BroadcastShape(shape ring.Shape, src int) (ring.Shape, error)
	// BroadcastObj sends an arbitrary small metadata value from src to
	// every other party. obj is an opaque byte payload, such as a BARE
	// encoding produced by wire.go.
	BroadcastObj(obj []byte, src int) ([]byte, error)
}
