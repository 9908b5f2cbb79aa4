package network

import (
	"sync"
	"testing"

	"github.com/TEENet-io/mpctensor/rand"
	"github.com/TEENet-io/mpctensor/ring"
	"github.com/stretchr/testify/require"
)

func TestAllReduceSumsAcrossParties(t *testing.T) {
	for _, n := range []int{2, 3, 5} {
		comms, err := NewLocalRing(n, []byte("local-allreduce-seed"))
		require.NoError(t, err)

		results := make([]*ring.Tensor, n)
		errs := make([]error, n)
		var wg sync.WaitGroup
		wg.Add(n)
		for i := 0; i < n; i++ {
			go func(rank int) {
				defer wg.Done()
				v, err := ring.FromSlice(ring.Shape{1}, []ring.Element{ring.Element(rank + 1)}, ring.CPU)
				if err != nil {
					errs[rank] = err
					return
				}
				results[rank], errs[rank] = comms[rank].AllReduce(v)
			}(i)
		}
		wg.Wait()
		for _, err := range errs {
			require.NoError(t, err)
		}
		want := ring.Element(0)
		for r := 0; r < n; r++ {
			want += ring.Element(r + 1)
		}
		for r := 0; r < n; r++ {
			require.Equal(t, want, results[r].At(0))
		}
	}
}

func TestReduceOnlyDeliversToDst(t *testing.T) {
	n := 3
	comms, err := NewLocalRing(n, []byte("local-reduce-seed"))
	require.NoError(t, err)

	results := make([]*ring.Tensor, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(rank int) {
			defer wg.Done()
			v, err := ring.FromSlice(ring.Shape{1}, []ring.Element{ring.Element(10 * (rank + 1))}, ring.CPU)
			if err != nil {
				errs[rank] = err
				return
			}
			results[rank], errs[rank] = comms[rank].Reduce(v, 1)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}
	require.Nil(t, results[0])
	require.NotNil(t, results[1])
	require.Equal(t, ring.Element(60), results[1].At(0))
	require.Nil(t, results[2])
}

func TestBroadcastShapeAgrees(t *testing.T) {
	n := 3
	comms, err := NewLocalRing(n, []byte("local-bcast-shape-seed"))
	require.NoError(t, err)

	results := make([]ring.Shape, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(rank int) {
			defer wg.Done()
			var s ring.Shape
			if rank == 0 {
				s = ring.Shape{2, 3}
			}
			results[rank], errs[rank] = comms[rank].BroadcastShape(s, 0)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}
	for r := 0; r < n; r++ {
		require.Equal(t, ring.Shape{2, 3}, results[r])
	}
}

func TestBroadcastObjDeliversSrcPayload(t *testing.T) {
	n := 2
	comms, err := NewLocalRing(n, []byte("local-bcast-obj-seed"))
	require.NoError(t, err)

	payload, err := EncodeShape(ring.Shape{4, 1})
	require.NoError(t, err)

	results := make([][]byte, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(rank int) {
			defer wg.Done()
			var obj []byte
			if rank == 0 {
				obj = payload
			}
			results[rank], errs[rank] = comms[rank].BroadcastObj(obj, 0)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}
	for r := 0; r < n; r++ {
		shape, err := DecodeShape(results[r])
		require.NoError(t, err)
		require.Equal(t, ring.Shape{4, 1}, shape)
	}
}

func TestGeneratorPairingAcrossRing(t *testing.T) {
	n := 3
	comms, err := NewLocalRing(n, []byte("local-gen-pairing-seed"))
	require.NoError(t, err)
	for r := 0; r < n; r++ {
		succ := (r + 1) % n
		a, err := rand.UniformRing(ring.Shape{4}, comms[r].Generator(1), ring.CPU)
		require.NoError(t, err)
		b, err := rand.UniformRing(ring.Shape{4}, comms[succ].Generator(0), ring.CPU)
		require.NoError(t, err)
		require.Equal(t, a.Data(), b.Data())
	}
}
