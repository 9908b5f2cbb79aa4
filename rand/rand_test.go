package rand

import (
	"testing"

	"github.com/TEENet-io/mpctensor/ring"
	"github.com/stretchr/testify/require"
)

func TestGeneratorDeterministic(t *testing.T) {
	seed := DeriveSeed([]byte("root"), "test", 0)
	g1, err := NewGenerator(seed)
	require.NoError(t, err)
	g2, err := NewGenerator(seed)
	require.NoError(t, err)

	t1, err := UniformRing(ring.Shape{8}, g1, ring.CPU)
	require.NoError(t, err)
	t2, err := UniformRing(ring.Shape{8}, g2, ring.CPU)
	require.NoError(t, err)
	require.Equal(t, t1.Data(), t2.Data())
}

func TestUnseededGeneratorErrors(t *testing.T) {
	var g *Generator
	_, err := UniformRing(ring.Shape{1}, g, ring.CPU)
	require.Error(t, err)
}

func TestTranscriptSeedsRingTopology(t *testing.T) {
	root := []byte("shared-root-seed")
	n := 3
	type triple struct{ local, gen0, gen1 [32]byte }
	seeds := make([]triple, n)
	for r := 0; r < n; r++ {
		l, g0, g1, err := TranscriptSeeds(root, r, n)
		require.NoError(t, err)
		seeds[r] = triple{l, g0, g1}
	}
	// Party r's gen1 (successor stream) must equal party (r+1)%n's gen0
	// (predecessor stream), since they read the same PRZS pair.
	for r := 0; r < n; r++ {
		succ := (r + 1) % n
		require.Equal(t, seeds[r].gen1, seeds[succ].gen0)
	}
}

func TestTranscriptSeedsRejectsSmallWorld(t *testing.T) {
	_, _, _, err := TranscriptSeeds([]byte("root"), 0, 1)
	require.Error(t, err)
}

func TestUniformKBitMasksRange(t *testing.T) {
	g, err := NewGenerator(DeriveSeed([]byte("r"), "kbit", 0))
	require.NoError(t, err)
	out, err := UniformKBit(ring.Shape{32}, 8, g, ring.CPU)
	require.NoError(t, err)
	for _, v := range out.Data() {
		require.GreaterOrEqual(t, int64(v), int64(0))
		require.Less(t, int64(v), int64(256))
	}
}
