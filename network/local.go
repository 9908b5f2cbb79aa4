package network

import (
	"fmt"
	"log"
	"sync"

	"github.com/TEENet-io/mpctensor/internal/errs"
	"github.com/TEENet-io/mpctensor/rand"
	"github.com/TEENet-io/mpctensor/ring"
)

// Verbose turns on round-transition logging for LocalCommunicator. Off by
// default: this is a demo/test harness, and tests that run many rounds
// would otherwise flood stdout.
var Verbose = false

func logRound(kind string, rank, idx int) {
	if Verbose {
		log.Printf("network: party %d round %d (%s)", rank, idx, kind)
	}
}

// hub is the shared rendezvous point for every LocalCommunicator in one
// simulated n-party run. Parties are expected to call collectives in
// lockstep; hub keys each collective call by the caller's local
// call index, which is valid exactly because lockstep holds.
type hub struct {
	n int

	mu    sync.Mutex
	slots map[uint64]*slot
}

type slot struct {
	mu        sync.Mutex
	arrived   int
	n         int
	done      chan struct{}
	tensorIn  []*ring.Tensor
	objIn     [][]byte
	tensorOut *ring.Tensor
	objOut    []byte
	err       error
}

func newSlot(n int) *slot {
	return &slot{n: n, done: make(chan struct{}), tensorIn: make([]*ring.Tensor, n), objIn: make([][]byte, n)}
}

func (h *hub) slotFor(idx uint64) *slot {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.slots[idx]
	if !ok {
		s = newSlot(h.n)
		h.slots[idx] = s
	}
	return s
}

// LocalCommunicator is an in-process, goroutine-per-party Communicator
// simulation: channels (via the shared hub) stand in for the wire. It is
// one concrete implementation meant for tests and local demos, restricted
// to the in-process deployment needed to exercise and test the core.
type LocalCommunicator struct {
	h         *hub
	rank      int
	world     int
	local     *rand.Generator
	gen0      *rand.Generator
	gen1      *rand.Generator
	nextRound uint64
}

// NewLocalRing builds worldSize LocalCommunicators that share one hub and
// a common root seed, with per-party streams derived via Merlin transcript
// (a "paired seeds" topology). The returned slice is indexed by rank.
func NewLocalRing(worldSize int, rootSeed []byte) ([]*LocalCommunicator, error) {
	if worldSize < 2 {
		return nil, errs.ErrWorldTooSmall
	}
	h := &hub{n: worldSize, slots: make(map[uint64]*slot)}
	comms := make([]*LocalCommunicator, worldSize)
	for r := 0; r < worldSize; r++ {
		localSeed, gen0Seed, gen1Seed, err := rand.TranscriptSeeds(rootSeed, r, worldSize)
		if err != nil {
			return nil, err
		}
		local, err := rand.NewGenerator(localSeed)
		if err != nil {
			return nil, err
		}
		gen0, err := rand.NewGenerator(gen0Seed)
		if err != nil {
			return nil, err
		}
		gen1, err := rand.NewGenerator(gen1Seed)
		if err != nil {
			return nil, err
		}
		comms[r] = &LocalCommunicator{h: h, rank: r, world: worldSize, local: local, gen0: gen0, gen1: gen1}
	}
	return comms, nil
}

func (c *LocalCommunicator) Rank() int      { return c.rank }
func (c *LocalCommunicator) WorldSize() int { return c.world }

func (c *LocalCommunicator) LocalGenerator() *rand.Generator { return c.local }

// Generator returns the stream paired with this party's predecessor
// (which == 0) or successor (which == 1) in the ring topology.
func (c *LocalCommunicator) Generator(which int) *rand.Generator {
	if which == 0 {
		return c.gen0
	}
	return c.gen1
}

func (c *LocalCommunicator) takeRound() uint64 {
	idx := c.nextRound
	c.nextRound++
	return idx
}

func (c *LocalCommunicator) AllReduce(t *ring.Tensor) (*ring.Tensor, error) {
	idx := c.takeRound()
	logRound("all_reduce", c.rank, int(idx))
	s := c.h.slotFor(idx)
	s.mu.Lock()
	s.tensorIn[c.rank] = t
	s.arrived++
	last := s.arrived == s.n
	if last {
		sum := s.tensorIn[0].Clone()
		var err error
		for i := 1; i < s.n; i++ {
			sum, err = sum.Add(s.tensorIn[i])
			if err != nil {
				s.err = err
				break
			}
		}
		s.tensorOut = sum
		close(s.done)
	}
	s.mu.Unlock()
	<-s.done
	if s.err != nil {
		return nil, s.err
	}
	return s.tensorOut.Clone(), nil
}

func (c *LocalCommunicator) AllReduceBatch(ts []*ring.Tensor) ([]*ring.Tensor, error) {
	out := make([]*ring.Tensor, len(ts))
	for i, t := range ts {
		r, err := c.AllReduce(t)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

func (c *LocalCommunicator) Reduce(t *ring.Tensor, dst int) (*ring.Tensor, error) {
	if dst < 0 || dst >= c.world {
		return nil, errs.ErrSourceOutOfRange
	}
	idx := c.takeRound()
	logRound("reduce", c.rank, int(idx))
	s := c.h.slotFor(idx)
	s.mu.Lock()
	s.tensorIn[c.rank] = t
	s.arrived++
	last := s.arrived == s.n
	if last {
		sum := s.tensorIn[0].Clone()
		var err error
		for i := 1; i < s.n; i++ {
			sum, err = sum.Add(s.tensorIn[i])
			if err != nil {
				s.err = err
				break
			}
		}
		s.tensorOut = sum
		close(s.done)
	}
	s.mu.Unlock()
	<-s.done
	if s.err != nil {
		return nil, s.err
	}
	if c.rank != dst {
		return nil, nil
	}
	return s.tensorOut.Clone(), nil
}

func (c *LocalCommunicator) ReduceBatch(ts []*ring.Tensor, dst int) ([]*ring.Tensor, error) {
	out := make([]*ring.Tensor, len(ts))
	for i, t := range ts {
		r, err := c.Reduce(t, dst)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

func (c *LocalCommunicator) BroadcastShape(shape ring.Shape, src int) (ring.Shape, error) {
	payload, err := EncodeShape(shape)
	if err != nil {
		return nil, err
	}
	out, err := c.BroadcastObj(payload, src)
	if err != nil {
		return nil, err
	}
	return DecodeShape(out)
}

func (c *LocalCommunicator) BroadcastObj(obj []byte, src int) ([]byte, error) {
	if src < 0 || src >= c.world {
		return nil, fmt.Errorf("%w: src=%d", errs.ErrSourceOutOfRange, src)
	}
	idx := c.takeRound()
	logRound("broadcast_obj", c.rank, int(idx))
	s := c.h.slotFor(idx)
	s.mu.Lock()
	if c.rank == src {
		s.objOut = obj
	}
	s.arrived++
	last := s.arrived == s.n
	if last {
		close(s.done)
	}
	s.mu.Unlock()
	<-s.done
	return s.objOut, nil
}
