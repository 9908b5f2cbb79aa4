// Package rand implements deterministic, seeded ring-element streams. Two
// parties that share a seed derive byte-identical draws without any
// communication; this is the mechanism behind PRZS.
package rand

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/gtank/merlin"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/chacha20"

	"github.com/TEENet-io/mpctensor/internal/errs"
	"github.com/TEENet-io/mpctensor/ring"
)

// Generator is a seeded, deterministic stream of ring elements. Two
// Generators constructed from the same seed produce identical output.
type Generator struct {
	cipher *chacha20.Cipher
	seeded bool
}

// NewGenerator seeds a Generator from a 32-byte key. An all-zero nonce is
// fine here: the key itself is never reused across streams because each
// stream gets its own derived seed (see DeriveSeed), so there is no
// nonce-reuse hazard within this package's usage.
func NewGenerator(seed [32]byte) (*Generator, error) {
	c, err := chacha20.NewUnauthenticatedCipher(seed[:], make([]byte, chacha20.NonceSize))
	if err != nil {
		return nil, fmt.Errorf("mpctensor/rand: seed stream: %w", err)
	}
	return &Generator{cipher: c, seeded: true}, nil
}

// read draws n pseudorandom bytes from the stream.
func (g *Generator) read(n int) ([]byte, error) {
	if g == nil || !g.seeded {
		return nil, errs.ErrStreamNotSeeded
	}
	buf := make([]byte, n)
	src := make([]byte, n)
	g.cipher.XORKeyStream(buf, src)
	return buf, nil
}

// DeriveSeed mixes a root seed with a domain tag and stream index using a
// blake3 keyed hash, giving each party/stream pairing its own 32-byte
// ChaCha20 key. The communicator is responsible for ensuring both ends of
// a pairwise stream call this with the same (root, tag, index).
func DeriveSeed(root []byte, tag string, index uint64) [32]byte {
	h := blake3.New()
	_, _ = h.Write(root)
	_, _ = h.Write([]byte(tag))
	var idx [8]byte
	binary.LittleEndian.PutUint64(idx[:], index)
	_, _ = h.Write(idx[:])
	var out [32]byte
	sum := h.Sum(nil)
	copy(out[:], sum)
	return out
}

// TranscriptSeeds derives the (local, generator0, generator1) triple of
// seeds for a party in an n-party ring from a single shared root seed, via
// a Merlin transcript keyed on the party's rank. Domain separation comes
// from the distinct labels fed to the transcript, not from the index
// counter alone, which is the property Merlin is for.
func TranscriptSeeds(root []byte, rank, worldSize int) (local, gen0, gen1 [32]byte, err error) {
	if worldSize < 2 {
		return local, gen0, gen1, errs.ErrWorldTooSmall
	}
	if rank < 0 || rank >= worldSize {
		return local, gen0, gen1, errs.ErrSourceOutOfRange
	}

	tr := merlin.NewTranscript("mpctensor-stream-seeds")
	tr.AppendMessage([]byte("root"), root)
	var rankBytes [8]byte
	binary.LittleEndian.PutUint64(rankBytes[:], uint64(rank))
	tr.AppendMessage([]byte("rank"), rankBytes[:])

	local = challengeSeed(tr, "local")

	pred := (rank - 1 + worldSize) % worldSize
	succ := (rank + 1) % worldSize
	gen0 = pairSeed(root, pred, rank)
	gen1 = pairSeed(root, rank, succ)
	return local, gen0, gen1, nil
}

func challengeSeed(tr *merlin.Transcript, label string) [32]byte {
	var out [32]byte
	copy(out[:], tr.ExtractBytes([]byte(label), 32))
	return out
}

// pairSeed derives the seed shared by the stream running from party `from`
// to party `next` in the ring topology, symmetric in neither argument's
// order of evaluation but stable given the pair.
func pairSeed(root []byte, from, next int) [32]byte {
	tr := merlin.NewTranscript("mpctensor-pairwise-seed")
	tr.AppendMessage([]byte("root"), root)
	var pair [16]byte
	binary.LittleEndian.PutUint64(pair[:8], uint64(from))
	binary.LittleEndian.PutUint64(pair[8:], uint64(next))
	tr.AppendMessage([]byte("pair"), pair[:])
	var out [32]byte
	copy(out[:], tr.ExtractBytes([]byte("seed"), 32))
	return out
}

// UniformRing draws a Tensor of the given shape with elements uniform over
// the full signed 64-bit ring, drawn from gen. A nil or unseeded gen
// yields ErrStreamNotSeeded.
func UniformRing(shape ring.Shape, gen *Generator, device ring.Device) (*ring.Tensor, error) {
	n := shape.NumElement()
	out := ring.New(shape, device)
	raw, err := gen.read(n * 8)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		v := binary.LittleEndian.Uint64(raw[i*8 : i*8+8])
		out.Set(i, ring.Element(int64(v)))
	}
	return out, nil
}

// UniformKBit draws a Tensor with elements uniform in [0, 2^bitlength).
// At bitlength == 64 this is identical to UniformRing reinterpreted as
// unsigned.
func UniformKBit(shape ring.Shape, bitlength uint, gen *Generator, device ring.Device) (*ring.Tensor, error) {
	if bitlength == 64 {
		return UniformRing(shape, gen, device)
	}
	if bitlength == 0 || bitlength > 64 {
		return nil, fmt.Errorf("mpctensor/rand: bitlength %d out of range (1..64)", bitlength)
	}
	t, err := UniformRing(shape, gen, device)
	if err != nil {
		return nil, err
	}
	mask := uint64(1)<<bitlength - 1
	data := t.Data()
	for i := range data {
		data[i] = ring.Element(uint64(data[i]) & mask)
	}
	return t, nil
}

// readerFromGenerator adapts a Generator to io.Reader, useful for callers
// that want to feed ring randomness into other stdlib/ecosystem APIs
// expecting a stream (e.g. crypto primitives needing deterministic input
// in tests).
type readerFromGenerator struct{ g *Generator }

func (r readerFromGenerator) Read(p []byte) (int, error) {
	b, err := r.g.read(len(p))
	if err != nil {
		return 0, err
	}
	copy(p, b)
	return len(p), nil
}

// Reader exposes gen as an io.Reader.
func Reader(gen *Generator) io.Reader { return readerFromGenerator{g: gen} }
