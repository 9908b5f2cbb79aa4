package beaver

import (
	"sync"
	"testing"

	"github.com/TEENet-io/mpctensor/network"
	"github.com/TEENet-io/mpctensor/ring"
	"github.com/stretchr/testify/require"
)

// runParties splits values additively across n parties with a PRZS mask
// plus the plaintext added in at rank 0, runs fn on each party's
// TrustedDealerOracle, and returns the AllReduce of every party's result.
func runParties(t *testing.T, n int, values []ring.Element, fn func(o *TrustedDealerOracle, share *ring.Tensor) (*ring.Tensor, error)) []ring.Element {
	t.Helper()
	comms, err := network.NewLocalRing(n, []byte("beaver-test-root-seed"))
	require.NoError(t, err)

	shape := ring.Shape{len(values)}
	plain, err := ring.FromSlice(shape, values, ring.CPU)
	require.NoError(t, err)

	results := make([]*ring.Tensor, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(rank int) {
			defer wg.Done()
			comm := comms[rank]
			o := &TrustedDealerOracle{Comm: comm}
			mask, err := przsLike(plain, comm)
			if err != nil {
				errs[rank] = err
				return
			}
			share := mask
			if rank == 0 {
				share, err = mask.Add(plain)
				if err != nil {
					errs[rank] = err
					return
				}
			}
			results[rank], errs[rank] = fn(o, share)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	revealed, err := results[0].Add(ring.New(shape, ring.CPU))
	require.NoError(t, err)
	for i := 1; i < n; i++ {
		revealed, err = revealed.Add(results[i])
		require.NoError(t, err)
	}
	return revealed.Data()
}

func TestTrustedDealerMul(t *testing.T) {
	for _, n := range []int{2, 3} {
		shares := runParties(t, n, []ring.Element{2, 3, 4}, func(o *TrustedDealerOracle, share *ring.Tensor) (*ring.Tensor, error) {
			return o.Mul(share, share)
		})
		require.Equal(t, []ring.Element{4, 9, 16}, shares)
	}
}

func TestTrustedDealerSquare(t *testing.T) {
	shares := runParties(t, 3, []ring.Element{-5, 0, 7}, func(o *TrustedDealerOracle, share *ring.Tensor) (*ring.Tensor, error) {
		return o.Square(share)
	})
	require.Equal(t, []ring.Element{25, 0, 49}, shares)
}

func TestTrustedDealerMatMul(t *testing.T) {
	comms, err := network.NewLocalRing(2, []byte("beaver-matmul-seed"))
	require.NoError(t, err)

	a, err := ring.FromSlice(ring.Shape{2, 2}, []ring.Element{1, 2, 3, 4}, ring.CPU)
	require.NoError(t, err)
	b, err := ring.FromSlice(ring.Shape{2, 2}, []ring.Element{5, 6, 7, 8}, ring.CPU)
	require.NoError(t, err)

	results := make([]*ring.Tensor, 2)
	errs := make([]error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	for i := 0; i < 2; i++ {
		go func(rank int) {
			defer wg.Done()
			comm := comms[rank]
			o := &TrustedDealerOracle{Comm: comm}
			am, err := przsLike(a, comm)
			if err != nil {
				errs[rank] = err
				return
			}
			bm, err := przsLike(b, comm)
			if err != nil {
				errs[rank] = err
				return
			}
			ashare, bshare := am, bm
			if rank == 0 {
				ashare, err = am.Add(a)
				if err != nil {
					errs[rank] = err
					return
				}
				bshare, err = bm.Add(b)
				if err != nil {
					errs[rank] = err
					return
				}
			}
			results[rank], errs[rank] = o.MatMul(ashare, bshare)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}
	revealed, err := results[0].Add(results[1])
	require.NoError(t, err)
	require.Equal(t, []ring.Element{19, 22, 43, 50}, revealed.Data())
}

func TestTrustedDealerWrapsZeroForNonWrappingShares(t *testing.T) {
	// With only two parties and a non-wrapping split (mask=0 on rank 1),
	// the true integer sum equals the modular sum, so theta is zero.
	comms, err := network.NewLocalRing(2, []byte("beaver-wraps-seed"))
	require.NoError(t, err)

	plain, err := ring.FromSlice(ring.Shape{1}, []ring.Element{123}, ring.CPU)
	require.NoError(t, err)

	results := make([]*ring.Tensor, 2)
	errs := make([]error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	for i := 0; i < 2; i++ {
		go func(rank int) {
			defer wg.Done()
			comm := comms[rank]
			o := &TrustedDealerOracle{Comm: comm}
			share := ring.New(ring.Shape{1}, ring.CPU)
			if rank == 0 {
				share = plain
			}
			results[rank], errs[rank] = o.Wraps(share)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}
	revealed, err := results[0].Add(results[1])
	require.NoError(t, err)
	require.Equal(t, ring.Element(0), revealed.At(0))
}
